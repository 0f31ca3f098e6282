// 包 mapview：地图视图适配器，维护地块 id 到已渲染多边形的一一映射
package mapview

import (
	"sort"

	"lotes-map/internal/geo"
	"lotes-map/internal/logger"
	"lotes-map/internal/parcel"
)

// MaxFocusZoom：聚焦地块时允许的最大缩放级别
const MaxFocusZoom = 18

// 文档注释：渲染原语（外部协作者）
// 约束：接收环并按样式绘制、按包围盒适配视口、打开已绑定的弹窗；实现方自行决定绘制介质
type Surface interface {
	AddShape(s Shape)
	RemoveShape(id string)
	FitBounds(b geo.BBox, maxZoom int)
	OpenPopup(id string)
}

// 文档注释：地图视图适配器
// 约束：键集合在每次 Reconcile 之后与输入地块 id 集合完全一致；只在事件循环内调用，不加锁
type Adapter struct {
	surface    Surface
	privileged bool
	shapes     map[string]Shape
	order      []string
}

func NewAdapter(surface Surface, privileged bool) *Adapter {
	return &Adapter{surface: surface, privileged: privileged, shapes: make(map[string]Shape)}
}

// 文档注释：全量重建
// 约束：先移除全部已渲染图形再按新数据添加，不做增量比对，避免残留与重复
func (a *Adapter) Reconcile(ps []parcel.Parcel) {
	for _, id := range a.order {
		a.surface.RemoveShape(id)
	}
	a.shapes = make(map[string]Shape, len(ps))
	a.order = a.order[:0]
	for _, s := range Render(ps, a.privileged) {
		if _, dup := a.shapes[s.ID]; dup {
			a.surface.RemoveShape(s.ID)
		} else {
			a.order = append(a.order, s.ID)
		}
		a.shapes[s.ID] = s
		a.surface.AddShape(s)
	}
	logger.L().Debug("mapview_reconciled", "shapes", len(a.shapes))
}

// Focus：视口适配到地块包围盒并打开弹窗；id 不存在时不做任何事并返回 false
func (a *Adapter) Focus(id string) bool {
	s, ok := a.shapes[id]
	if !ok {
		return false
	}
	if !s.Bounds.Empty {
		a.surface.FitBounds(s.Bounds, MaxFocusZoom)
	}
	a.surface.OpenPopup(id)
	return true
}

func (a *Adapter) Shape(id string) (Shape, bool) {
	s, ok := a.shapes[id]
	return s, ok
}

// Keys：当前已渲染的 id（排序后）
func (a *Adapter) Keys() []string {
	out := make([]string, 0, len(a.shapes))
	for k := range a.shapes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Shapes：按渲染顺序返回
func (a *Adapter) Shapes() []Shape {
	out := make([]Shape, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, a.shapes[id])
	}
	return out
}

// Bounds：全部图形的合并包围盒，用于初始视口
func (a *Adapter) Bounds() geo.BBox {
	b := geo.BBox{Empty: true}
	for _, s := range a.shapes {
		b = b.Union(s.Bounds)
	}
	return b
}
