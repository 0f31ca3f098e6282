// 包 controller：地块界面的状态同步与交互控制器
// 所有状态迁移都是纯函数 Update(State, Event) -> (State, []Effect)；网络与界面副作用由宿主执行后以事件回灌
package controller

import (
	"lotes-map/internal/backend"
	"lotes-map/internal/parcel"
)

// Config：宿主在构造时注入的不可变配置
type Config struct {
	// Privileged：管理视图（绘制/编辑/删除/清空），会话期间不变，不从 /auth/me 推导
	Privileged bool
}

// Form：外部编辑表单的原始文本字段
type Form struct {
	Name   string
	Status string
	Height string
}

func blankForm() Form { return Form{Status: string(parcel.Available)} }

// Phase：预约流程所处阶段
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseAwaitingAuth
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseAwaitingAuth:
		return "awaiting_auth"
	}
	return "idle"
}

// Reservation：单槽位预约；ParcelID 仅在非 idle 时有意义
type Reservation struct {
	Phase    Phase
	ParcelID string
}

// Drawn：已绘制但尚未被后端接受的环
type Drawn struct {
	Coords []parcel.Coord
}

// 文档注释：控制器状态
// 约束：Parcels 为唯一的地块缓存，成功拉取后整体替换，不做局部修改；两个视图都只从这里投影
type State struct {
	Config      Config
	Parcels     []parcel.Parcel
	Loaded      bool
	Filter      parcel.Filter
	EditID      string
	Form        Form
	Reservation Reservation
	Drawn       *Drawn
	User        *backend.User
	AuthOpen    bool
}

// New：初始状态
func New(cfg Config) State {
	return State{
		Config:  cfg,
		Parcels: []parcel.Parcel{},
		Filter:  parcel.FilterAll,
		Form:    blankForm(),
	}
}

// Has：地块是否仍在缓存中
func (s State) Has(id string) bool {
	_, ok := parcel.Find(s.Parcels, id)
	return ok
}
