// 包 parcel：地块数据模型与线上 JSON 字段映射，客户端与参考后端共用
package parcel

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"lotes-map/internal/geo"
)

// Status：地块状态，取值与后端 estado 字段一致
type Status string

const (
	Available Status = "disponible"
	Reserved  Status = "reservado"
	Sold      Status = "vendido"
)

// Statuses：界面上循环切换与校验使用的固定顺序
var Statuses = []Status{Available, Reserved, Sold}

// DefaultName：创建时名称为空使用的占位名
const DefaultName = "Lote"

// ParseStatus：解析状态文本，兼容英文别名；大小写与首尾空白不敏感
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "disponible", "available":
		return Available, true
	case "reservado", "reserved":
		return Reserved, true
	case "vendido", "sold":
		return Sold, true
	}
	return "", false
}

func (s Status) Valid() bool {
	return s == Available || s == Reserved || s == Sold
}

// Coord：单个顶点，线上格式为 [lat, lng]
type Coord [2]float64

func (c Coord) Point() geo.Point { return geo.Point{Lat: c[0], Lng: c[1]} }

// 文档注释：地块
// 约束：Height/ReservedBy/ReservedAt 为可空字段，区分缺失与零值；ReservedAt 为毫秒时间戳
type Parcel struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Status     Status   `json:"estado"`
	Coords     []Coord  `json:"coords"`
	Height     *float64 `json:"altura"`
	ReservedBy *string  `json:"reservedBy"`
	ReservedAt *int64   `json:"reservedAt"`
}

// Ring：转换为几何环
func (p Parcel) Ring() []geo.Point {
	out := make([]geo.Point, 0, len(p.Coords))
	for _, c := range p.Coords {
		out = append(out, c.Point())
	}
	return out
}

func (p Parcel) Bounds() geo.BBox { return geo.BoundsOf(p.Ring()) }

// Normalize：补齐解码后缺省字段
func Normalize(p *Parcel) *Parcel {
	if p == nil {
		return &Parcel{Coords: []Coord{}}
	}
	if p.Coords == nil {
		p.Coords = []Coord{}
	}
	p.Status = Status(strings.ToLower(string(p.Status)))
	return p
}

// HeightText：高度展示文本，缺失或非数值时为 N/A
func HeightText(h *float64) string {
	if h == nil || math.IsNaN(*h) {
		return "N/A"
	}
	return strconv.FormatFloat(*h, 'f', -1, 64) + " m"
}

// HeightInput：高度回填到表单时的文本，缺失为空串
func HeightInput(h *float64) string {
	if h == nil || math.IsNaN(*h) {
		return ""
	}
	return strconv.FormatFloat(*h, 'f', -1, 64)
}

// 文档注释：解析表单中的高度
// 约束：空串、无法解析、NaN 或负数均视为缺失（返回 nil），不会变成 0
func ParseHeight(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return nil
	}
	return &v
}

// ParseHeightJSON：宽松解析请求体中的 altura（数字或数字字符串），其余视为缺失
func ParseHeightJSON(raw json.RawMessage) *float64 {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return &f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ParseHeight(s)
	}
	return nil
}

// CreateInput：创建请求体
type CreateInput struct {
	Name   string   `json:"name"`
	Status Status   `json:"estado"`
	Coords []Coord  `json:"coords"`
	Height *float64 `json:"altura"`
}

// Patch：部分更新请求体，nil 字段不发送
type Patch struct {
	Name       *string  `json:"name,omitempty"`
	Status     *Status  `json:"estado,omitempty"`
	Height     *float64 `json:"altura,omitempty"`
	ReservedBy *string  `json:"reservedBy,omitempty"`
}

// ReservePatch：预约请求只修改状态
func ReservePatch() Patch {
	s := Reserved
	return Patch{Status: &s}
}

// Index：按 id 建立索引
func Index(ps []Parcel) map[string]Parcel {
	m := make(map[string]Parcel, len(ps))
	for _, p := range ps {
		m[p.ID] = p
	}
	return m
}

// Find：按 id 查找地块
func Find(ps []Parcel, id string) (Parcel, bool) {
	for _, p := range ps {
		if p.ID == id {
			return p, true
		}
	}
	return Parcel{}, false
}
