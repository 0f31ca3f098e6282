package controller

import "lotes-map/internal/parcel"

// 文档注释：状态迁移入口
// 约束：纯函数，不做 I/O、不写日志与指标；未知事件或不满足前置条件的事件原样返回状态
func Update(s State, ev Event) (State, []Effect) {
	switch e := ev.(type) {
	case Started:
		effs := []Effect{FetchParcels{}}
		if !s.Config.Privileged {
			effs = append(effs, QuerySession{})
		}
		return s, effs
	case ReloadRequested:
		return s, []Effect{FetchParcels{}}
	case ParcelsLoaded:
		return onParcelsLoaded(s, e)
	case ParcelsLoadFailed:
		return s, []Effect{failure(MsgLoadFailed, e.Err)}
	case FilterChanged:
		s.Filter = e.Filter
		if s.Filter == "" {
			s.Filter = parcel.FilterAll
		}
		return s, nil
	case FocusRequested:
		return s, []Effect{Focus{ID: e.ID}}

	case ReserveRequested:
		return onReserveRequested(s, e)
	case SessionChecked:
		return onSessionChecked(s, e)
	case ReserveDone:
		return onReserveDone(s, e)
	case AuthModalOpened:
		s.AuthOpen = true
		return s, nil
	case AuthModalClosed:
		return onAuthModalClosed(s)
	case LoginSubmitted:
		return s, []Effect{Authenticate{Kind: AuthLogin, Email: e.Email, Password: e.Password}}
	case RegisterSubmitted:
		return s, []Effect{Authenticate{Kind: AuthRegister, Email: e.Email, Password: e.Password}}
	case AuthDone:
		return onAuthDone(s, e)
	case LogoutRequested:
		return s, []Effect{Logout{}}
	case LogoutDone:
		return onLogoutDone(s)

	case EditSelected:
		return onEditSelected(s, e)
	case EditCancelled:
		s.EditID = ""
		s.Form = blankForm()
		return s, nil
	case FormChanged:
		s.Form = e.Form
		return s, nil
	case DeleteRequested:
		return onDeleteRequested(s, e)
	case DeleteConfirmed:
		return onDeleteConfirmed(s, e)
	case DeleteDone:
		return onDeleteDone(s, e)
	case DrawFinished:
		return onDrawFinished(s, e)
	case DrawDiscarded:
		s.Drawn = nil
		return s, nil
	case CreateRetried:
		return onCreateRetried(s)
	case CreateDone:
		return onCreateDone(s, e)
	case CommitEditRequested:
		return onCommitEdit(s)
	case UpdateDone:
		return onUpdateDone(s, e)
	case ResetRequested:
		if !s.Config.Privileged {
			return s, nil
		}
		return s, []Effect{Confirm{Prompt: PromptReset, Then: ResetConfirmed{}}}
	case ResetConfirmed:
		if !s.Config.Privileged {
			return s, nil
		}
		return s, []Effect{ResetAll{}}
	case ResetDone:
		if e.Err != nil {
			return s, []Effect{failure(MsgResetFailed, e.Err)}
		}
		return s, []Effect{FetchParcels{}}
	}
	return s, nil
}

// 文档注释：对账
// 约束：整体替换缓存；编辑槽位指向的地块已不存在时清空槽位与表单，不保留过期 id
func onParcelsLoaded(s State, e ParcelsLoaded) (State, []Effect) {
	ps := e.Parcels
	if ps == nil {
		ps = []parcel.Parcel{}
	}
	s.Parcels = ps
	s.Loaded = true
	if s.EditID != "" && !s.Has(s.EditID) {
		s.EditID = ""
		s.Form = blankForm()
	}
	return s, []Effect{Reconcile{Parcels: s.Parcels}}
}
