package mapview

import (
	"time"

	"lotes-map/internal/geo"
	"lotes-map/internal/parcel"
)

// ActionKind：弹窗内可触发的动作
type ActionKind string

const (
	ActionZoom    ActionKind = "zoom"
	ActionReserve ActionKind = "reserve"
)

type Action struct {
	Kind     ActionKind
	Label    string
	ParcelID string
}

// Popup：地块信息弹窗的声明式描述
type Popup struct {
	Title   string
	Lines   []string
	Actions []Action
}

// Shape：一个已渲染多边形的声明式描述
type Shape struct {
	ID     string
	Ring   []geo.Point
	Style  Style
	Bounds geo.BBox
	Popup  Popup
}

// ReservedAtLayout：预约时间的展示格式（本地时区）
const ReservedAtLayout = "02/01/2006 15:04"

// 文档注释：构建弹窗内容
// 约束：仅当状态为 reservado 且有预约人时展示预约信息；特权会话不带操作按钮（管理入口在列表）
func BuildPopup(p parcel.Parcel, privileged bool) Popup {
	pop := Popup{
		Title: p.Name,
		Lines: []string{
			"Estado: " + string(p.Status),
			"Altura: " + parcel.HeightText(p.Height),
		},
	}
	if p.Status == parcel.Reserved && p.ReservedBy != nil && *p.ReservedBy != "" {
		pop.Lines = append(pop.Lines, "Reservado por "+*p.ReservedBy)
		if p.ReservedAt != nil && *p.ReservedAt > 0 {
			pop.Lines = append(pop.Lines, "el "+time.UnixMilli(*p.ReservedAt).Local().Format(ReservedAtLayout))
		}
	}
	if !privileged {
		pop.Actions = []Action{
			{Kind: ActionZoom, Label: "Zoom", ParcelID: p.ID},
			{Kind: ActionReserve, Label: "Reservar", ParcelID: p.ID},
		}
	}
	return pop
}

func BuildShape(p parcel.Parcel, privileged bool) Shape {
	ring := p.Ring()
	return Shape{
		ID:     p.ID,
		Ring:   ring,
		Style:  StyleFor(p.Status),
		Bounds: geo.BoundsOf(ring),
		Popup:  BuildPopup(p, privileged),
	}
}

// Render：把地块集合投影为多边形描述列表，顺序与输入一致
func Render(ps []parcel.Parcel, privileged bool) []Shape {
	out := make([]Shape, 0, len(ps))
	for _, p := range ps {
		out = append(out, BuildShape(p, privileged))
	}
	return out
}
