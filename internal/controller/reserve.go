package controller

import "lotes-map/internal/parcel"

// 文档注释：发起预约
// 约束：单槽位，新的预约直接覆盖旧槽位；特权会话不参与预约；地块已不在缓存中时提示且不改槽位
func onReserveRequested(s State, e ReserveRequested) (State, []Effect) {
	if s.Config.Privileged {
		return s, nil
	}
	if !s.Has(e.ID) {
		return s, []Effect{Notify{Message: MsgParcelGone}}
	}
	s.Reservation = Reservation{Phase: PhasePending, ParcelID: e.ID}
	return s, []Effect{QuerySession{ParcelID: e.ID}}
}

// 文档注释：会话查询结果
// 约束：查询失败已由执行层折算为“无会话”；槽位已被覆盖或取消时忽略该结果
func onSessionChecked(s State, e SessionChecked) (State, []Effect) {
	s.User = e.User
	if e.ParcelID == "" {
		return s, nil
	}
	r := s.Reservation
	if r.Phase != PhasePending || r.ParcelID != e.ParcelID {
		return s, nil
	}
	if e.User != nil {
		return s, []Effect{reserveUpdate(r.ParcelID)}
	}
	s.Reservation.Phase = PhaseAwaitingAuth
	s.AuthOpen = true
	return s, nil
}

func reserveUpdate(id string) Effect {
	return UpdateParcel{ID: id, Patch: parcel.ReservePatch(), Purpose: PurposeReserve}
}

func onReserveDone(s State, e ReserveDone) (State, []Effect) {
	if s.Reservation.Phase == PhasePending && s.Reservation.ParcelID == e.ID {
		s.Reservation = Reservation{}
	}
	if e.Err != nil {
		return s, []Effect{failure(MsgReserveFailed, e.Err)}
	}
	return s, []Effect{FetchParcels{}}
}

// onAuthModalClosed：关闭认证弹窗即取消等待中的预约，不访问后端
func onAuthModalClosed(s State) (State, []Effect) {
	s.AuthOpen = false
	if s.Reservation.Phase == PhaseAwaitingAuth {
		s.Reservation = Reservation{}
	}
	return s, nil
}

// 文档注释：登录/注册完成
// 约束：失败时弹窗与槽位保持不变；成功后若地块仍在缓存中则继续预约，否则静默丢弃并重新拉取
func onAuthDone(s State, e AuthDone) (State, []Effect) {
	if e.Err != nil {
		prefix := MsgLoginFailed
		if e.Kind == AuthRegister {
			prefix = MsgRegisterFailed
		}
		return s, []Effect{failure(prefix, e.Err)}
	}
	s.User = e.User
	s.AuthOpen = false
	if s.Reservation.Phase == PhaseAwaitingAuth {
		id := s.Reservation.ParcelID
		if s.Has(id) {
			s.Reservation.Phase = PhasePending
			return s, []Effect{reserveUpdate(id)}
		}
		s.Reservation = Reservation{}
	}
	return s, []Effect{FetchParcels{}}
}

// onLogoutDone：登出失败也照常重置本地会话视图
func onLogoutDone(s State) (State, []Effect) {
	s.User = nil
	s.AuthOpen = false
	s.Reservation = Reservation{}
	return s, []Effect{FetchParcels{}}
}
