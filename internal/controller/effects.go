package controller

import "lotes-map/internal/parcel"

// Effect：Update 产生的副作用描述，由宿主执行
type Effect interface{ isEffect() }

// Purpose：更新请求的来源，决定回灌哪种完成事件
type Purpose int

const (
	PurposeEdit Purpose = iota
	PurposeReserve
)

type (
	// 后端调用
	FetchParcels  struct{}
	CreateParcel  struct{ Input parcel.CreateInput }
	UpdateParcel  struct {
		ID      string
		Patch   parcel.Patch
		Purpose Purpose
	}
	DeleteParcels struct{ IDs []string }
	ResetAll      struct{}
	QuerySession  struct{ ParcelID string }
	Authenticate  struct {
		Kind            AuthKind
		Email, Password string
	}
	Logout struct{}

	// 宿主界面
	Notify  struct{ Message string }
	Confirm struct {
		Prompt string
		Then   Event
	}
	Focus     struct{ ID string }
	Reconcile struct{ Parcels []parcel.Parcel }
)

func (FetchParcels) isEffect()  {}
func (CreateParcel) isEffect()  {}
func (UpdateParcel) isEffect()  {}
func (DeleteParcels) isEffect() {}
func (ResetAll) isEffect()      {}
func (QuerySession) isEffect()  {}
func (Authenticate) isEffect()  {}
func (Logout) isEffect()        {}
func (Notify) isEffect()        {}
func (Confirm) isEffect()       {}
func (Focus) isEffect()         {}
func (Reconcile) isEffect()     {}

// IsBackend：是否需要访问后端
func IsBackend(e Effect) bool {
	switch e.(type) {
	case FetchParcels, CreateParcel, UpdateParcel, DeleteParcels, ResetAll, QuerySession, Authenticate, Logout:
		return true
	}
	return false
}
