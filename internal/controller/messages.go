package controller

// 面向用户的提示文本；后端错误信息原样拼接在前缀之后
const (
	MsgLoadFailed     = "No se pudieron cargar los lotes: "
	MsgDeleteFailed   = "No se pudo eliminar: "
	MsgReserveFailed  = "No se pudo reservar: "
	MsgLoginFailed    = "No se pudo iniciar sesión: "
	MsgRegisterFailed = "No se pudo registrar: "
	MsgCreateFailed   = "Error guardando lote: "
	MsgUpdateFailed   = "No se pudo actualizar: "
	MsgResetFailed    = "No se pudo borrar: "

	MsgNoSelection = "Selecciona un lote con el botón \"Editar\"."
	MsgParcelGone  = "El lote ya no está disponible."
	MsgNoDrawn     = "No hay un polígono pendiente de guardar."
	MsgBadStatus   = "Estado inválido: "

	PromptDelete = "¿Eliminar este lote?"
	PromptReset  = "¿Borrar todos los lotes?"
)

func failure(prefix string, err error) Effect {
	return Notify{Message: prefix + err.Error()}
}
