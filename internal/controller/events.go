package controller

import (
	"lotes-map/internal/backend"
	"lotes-map/internal/parcel"
)

// Event：输入事件（用户交互或后端响应）
type Event interface{ isEvent() }

// AuthKind：登录或注册
type AuthKind int

const (
	AuthLogin AuthKind = iota
	AuthRegister
)

type (
	Started           struct{}
	ReloadRequested   struct{}
	ParcelsLoaded     struct{ Parcels []parcel.Parcel }
	ParcelsLoadFailed struct{ Err error }

	FilterChanged  struct{ Filter parcel.Filter }
	FocusRequested struct{ ID string }

	EditSelected    struct{ ID string }
	EditCancelled   struct{}
	FormChanged     struct{ Form Form }
	DeleteRequested struct{ ID string }
	DeleteConfirmed struct{ ID string }
	DeleteDone      struct {
		IDs []string
		Err error
	}

	ReserveRequested struct{ ID string }
	SessionChecked   struct {
		// ParcelID 为空表示启动时的会话探测
		ParcelID string
		User     *backend.User
	}
	ReserveDone struct {
		ID  string
		Err error
	}

	AuthModalOpened   struct{}
	AuthModalClosed   struct{}
	LoginSubmitted    struct{ Email, Password string }
	RegisterSubmitted struct{ Email, Password string }
	AuthDone          struct {
		Kind AuthKind
		User *backend.User
		Err  error
	}
	LogoutRequested struct{}
	LogoutDone      struct{ Err error }

	DrawFinished  struct{ Coords []parcel.Coord }
	DrawDiscarded struct{}
	CreateRetried struct{}
	CreateDone    struct {
		Parcel *parcel.Parcel
		Err    error
	}
	CommitEditRequested struct{}
	UpdateDone          struct {
		ID  string
		Err error
	}
	ResetRequested struct{}
	ResetConfirmed struct{}
	ResetDone      struct{ Err error }
)

func (Started) isEvent()             {}
func (ReloadRequested) isEvent()     {}
func (ParcelsLoaded) isEvent()       {}
func (ParcelsLoadFailed) isEvent()   {}
func (FilterChanged) isEvent()       {}
func (FocusRequested) isEvent()      {}
func (EditSelected) isEvent()        {}
func (EditCancelled) isEvent()       {}
func (FormChanged) isEvent()         {}
func (DeleteRequested) isEvent()     {}
func (DeleteConfirmed) isEvent()     {}
func (DeleteDone) isEvent()          {}
func (ReserveRequested) isEvent()    {}
func (SessionChecked) isEvent()      {}
func (ReserveDone) isEvent()         {}
func (AuthModalOpened) isEvent()     {}
func (AuthModalClosed) isEvent()     {}
func (LoginSubmitted) isEvent()      {}
func (RegisterSubmitted) isEvent()   {}
func (AuthDone) isEvent()            {}
func (LogoutRequested) isEvent()     {}
func (LogoutDone) isEvent()          {}
func (DrawFinished) isEvent()        {}
func (DrawDiscarded) isEvent()       {}
func (CreateRetried) isEvent()       {}
func (CreateDone) isEvent()          {}
func (CommitEditRequested) isEvent() {}
func (UpdateDone) isEvent()          {}
func (ResetRequested) isEvent()      {}
func (ResetConfirmed) isEvent()      {}
func (ResetDone) isEvent()           {}
