package controller

import (
	"strings"

	"lotes-map/internal/parcel"
)

// formValues：从表单读取名称、状态与高度
// 约束：名称去除首尾空白；状态无法识别时按 disponible；高度为空或无法解析时为缺失
func formValues(f Form) (string, parcel.Status, *float64) {
	name := strings.TrimSpace(f.Name)
	st, ok := parcel.ParseStatus(f.Status)
	if !ok {
		st = parcel.Available
	}
	return name, st, parcel.ParseHeight(f.Height)
}

func createInput(f Form, coords []parcel.Coord) parcel.CreateInput {
	name, st, h := formValues(f)
	if name == "" {
		name = parcel.DefaultName
	}
	return parcel.CreateInput{Name: name, Status: st, Coords: coords, Height: h}
}

func onEditSelected(s State, e EditSelected) (State, []Effect) {
	if !s.Config.Privileged {
		return s, nil
	}
	p, ok := parcel.Find(s.Parcels, e.ID)
	if !ok {
		return s, nil
	}
	st := string(p.Status)
	if st == "" {
		st = string(parcel.Available)
	}
	s.EditID = p.ID
	s.Form = Form{Name: p.Name, Status: st, Height: parcel.HeightInput(p.Height)}
	return s, nil
}

func onDeleteRequested(s State, e DeleteRequested) (State, []Effect) {
	if !s.Config.Privileged || e.ID == "" {
		return s, nil
	}
	return s, []Effect{Confirm{Prompt: PromptDelete, Then: DeleteConfirmed{ID: e.ID}}}
}

func onDeleteConfirmed(s State, e DeleteConfirmed) (State, []Effect) {
	if !s.Config.Privileged || e.ID == "" {
		return s, nil
	}
	return s, []Effect{DeleteParcels{IDs: []string{e.ID}}}
}

// onDeleteDone：删除成功后若编辑槽位指向被删地块则一并清空槽位与表单
func onDeleteDone(s State, e DeleteDone) (State, []Effect) {
	if e.Err != nil {
		return s, []Effect{failure(MsgDeleteFailed, e.Err)}
	}
	for _, id := range e.IDs {
		if id == s.EditID {
			s.EditID = ""
			s.Form = blankForm()
			break
		}
	}
	return s, []Effect{FetchParcels{}}
}

// 文档注释：绘制完成
// 约束：环原样提交，不做顶点数校验；在后端接受前保留已绘制图形以便重试
func onDrawFinished(s State, e DrawFinished) (State, []Effect) {
	if !s.Config.Privileged {
		return s, nil
	}
	coords := append([]parcel.Coord(nil), e.Coords...)
	if coords == nil {
		coords = []parcel.Coord{}
	}
	s.Drawn = &Drawn{Coords: coords}
	return s, []Effect{CreateParcel{Input: createInput(s.Form, coords)}}
}

func onCreateRetried(s State) (State, []Effect) {
	if !s.Config.Privileged {
		return s, nil
	}
	if s.Drawn == nil {
		return s, []Effect{Notify{Message: MsgNoDrawn}}
	}
	return s, []Effect{CreateParcel{Input: createInput(s.Form, s.Drawn.Coords)}}
}

func onCreateDone(s State, e CreateDone) (State, []Effect) {
	if e.Err != nil {
		return s, []Effect{failure(MsgCreateFailed, e.Err)}
	}
	s.Drawn = nil
	return s, []Effect{FetchParcels{}}
}

// 文档注释：提交编辑
// 约束：未选中时本地拒绝、不发请求；只提交名称/状态/高度，几何创建后不可改
func onCommitEdit(s State) (State, []Effect) {
	if !s.Config.Privileged {
		return s, nil
	}
	if s.EditID == "" {
		return s, []Effect{Notify{Message: MsgNoSelection}}
	}
	// 状态必须可识别，提交时不回退默认值
	if _, ok := parcel.ParseStatus(s.Form.Status); !ok {
		return s, []Effect{Notify{Message: MsgBadStatus + s.Form.Status}}
	}
	name, st, h := formValues(s.Form)
	patch := parcel.Patch{Status: &st, Height: h}
	if name != "" {
		patch.Name = &name
	}
	return s, []Effect{UpdateParcel{ID: s.EditID, Patch: patch, Purpose: PurposeEdit}}
}

func onUpdateDone(s State, e UpdateDone) (State, []Effect) {
	if e.Err != nil {
		return s, []Effect{failure(MsgUpdateFailed, e.Err)}
	}
	if s.EditID == e.ID {
		s.EditID = ""
		s.Form.Name = ""
		s.Form.Height = ""
	}
	return s, []Effect{FetchParcels{}}
}
