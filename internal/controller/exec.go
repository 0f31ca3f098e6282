package controller

import (
	"context"

	"lotes-map/internal/backend"
	"lotes-map/internal/logger"
	"lotes-map/internal/metrics"
	"lotes-map/internal/parcel"
)

// API：控制器依赖的后端接口；*backend.Client 满足该接口
type API interface {
	ListParcels(ctx context.Context) ([]parcel.Parcel, error)
	CreateParcel(ctx context.Context, in parcel.CreateInput) (*parcel.Parcel, error)
	UpdateParcel(ctx context.Context, id string, p parcel.Patch) error
	DeleteParcels(ctx context.Context, ids []string) error
	Reset(ctx context.Context) error
	Me(ctx context.Context) (*backend.User, error)
	Login(ctx context.Context, email, password string) (*backend.User, error)
	Register(ctx context.Context, email, password string) (*backend.User, error)
	Logout(ctx context.Context) error
}

var _ API = (*backend.Client)(nil)

// 文档注释：执行一个后端副作用并返回对应的完成事件
// 背景：宿主（同步引擎或终端界面）在自己的调度方式下调用
// 约束：非后端副作用返回 nil；/auth/me 的任何失败都视为未登录
func Exec(ctx context.Context, api API, eff Effect) Event {
	switch e := eff.(type) {
	case FetchParcels:
		ps, err := api.ListParcels(ctx)
		if err != nil {
			metrics.ReloadsTotal.WithLabelValues("fail").Inc()
			return ParcelsLoadFailed{Err: err}
		}
		metrics.ReloadsTotal.WithLabelValues("ok").Inc()
		metrics.ParcelsShown.Set(float64(len(ps)))
		return ParcelsLoaded{Parcels: ps}
	case CreateParcel:
		p, err := api.CreateParcel(ctx, e.Input)
		return CreateDone{Parcel: p, Err: err}
	case UpdateParcel:
		err := api.UpdateParcel(ctx, e.ID, e.Patch)
		if e.Purpose == PurposeReserve {
			if err != nil {
				metrics.ReservationsTotal.WithLabelValues("failed").Inc()
			} else {
				metrics.ReservationsTotal.WithLabelValues("reserved").Inc()
			}
			return ReserveDone{ID: e.ID, Err: err}
		}
		return UpdateDone{ID: e.ID, Err: err}
	case DeleteParcels:
		err := api.DeleteParcels(ctx, e.IDs)
		return DeleteDone{IDs: e.IDs, Err: err}
	case ResetAll:
		return ResetDone{Err: api.Reset(ctx)}
	case QuerySession:
		u, err := api.Me(ctx)
		if err != nil {
			logger.L().Debug("session_probe_error", "parcel", e.ParcelID, "err", err)
			u = nil
		}
		if u == nil && e.ParcelID != "" {
			metrics.ReservationsTotal.WithLabelValues("auth_required").Inc()
		}
		return SessionChecked{ParcelID: e.ParcelID, User: u}
	case Authenticate:
		var (
			u   *backend.User
			err error
		)
		if e.Kind == AuthRegister {
			u, err = api.Register(ctx, e.Email, e.Password)
		} else {
			u, err = api.Login(ctx, e.Email, e.Password)
		}
		return AuthDone{Kind: e.Kind, User: u, Err: err}
	case Logout:
		err := api.Logout(ctx)
		if err != nil {
			logger.L().Warn("logout_error", "err", err)
		}
		return LogoutDone{Err: err}
	}
	return nil
}
