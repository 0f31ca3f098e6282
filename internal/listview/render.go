// 包 listview：列表面板的纯投影，按状态筛选、按名称排序并生成行描述
package listview

import (
	"sort"

	"lotes-map/internal/parcel"
)

// EmptyText：投影为空时的占位行文本
const EmptyText = "No hay lotes para mostrar."

// Tone：状态徽标色系
type Tone string

const (
	ToneGreen Tone = "green"
	ToneAmber Tone = "amber"
	ToneRed   Tone = "red"
)

func ToneFor(s parcel.Status) Tone {
	switch s {
	case parcel.Sold:
		return ToneRed
	case parcel.Reserved:
		return ToneAmber
	}
	return ToneGreen
}

// ActionKind：行内操作
type ActionKind string

const (
	ActionZoom   ActionKind = "zoom"
	ActionEdit   ActionKind = "edit"
	ActionDelete ActionKind = "delete"
)

type Action struct {
	Kind     ActionKind
	Label    string
	ParcelID string
}

// Row：列表行的声明式描述；Placeholder 行只有 Name（占位文本）
type Row struct {
	ID          string
	Name        string
	Status      parcel.Status
	Tone        Tone
	HeightText  string
	Selected    bool
	Placeholder bool
	Actions     []Action
}

// 文档注释：筛选并排序
// 约束：返回新切片，不修改入参；按名称字节序稳定排序（区分大小写）
func Project(ps []parcel.Parcel, f parcel.Filter) []parcel.Parcel {
	out := make([]parcel.Parcel, 0, len(ps))
	for _, p := range ps {
		if f.Match(p.Status) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// 文档注释：生成列表行
// 约束：投影为空时返回唯一的占位行；所有会话都有 Zoom，特权会话额外有编辑与删除
func Render(ps []parcel.Parcel, f parcel.Filter, editID string, privileged bool) []Row {
	items := Project(ps, f)
	if len(items) == 0 {
		return []Row{{Name: EmptyText, Placeholder: true}}
	}
	rows := make([]Row, 0, len(items))
	for _, p := range items {
		r := Row{
			ID:         p.ID,
			Name:       p.Name,
			Status:     p.Status,
			Tone:       ToneFor(p.Status),
			HeightText: parcel.HeightText(p.Height),
			Selected:   editID != "" && editID == p.ID,
			Actions:    []Action{{Kind: ActionZoom, Label: "Zoom", ParcelID: p.ID}},
		}
		if privileged {
			r.Actions = append(r.Actions,
				Action{Kind: ActionEdit, Label: "Editar", ParcelID: p.ID},
				Action{Kind: ActionDelete, Label: "Eliminar", ParcelID: p.ID},
			)
		}
		rows = append(rows, r)
	}
	return rows
}

// IDs：非占位行的 id 列表
func IDs(rows []Row) []string {
	var out []string
	for _, r := range rows {
		if !r.Placeholder {
			out = append(out, r.ID)
		}
	}
	return out
}
