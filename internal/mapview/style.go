package mapview

import "lotes-map/internal/parcel"

// Style：多边形样式三元组（边框色、填充色、填充透明度）与线宽
type Style struct {
	Color       string
	FillColor   string
	FillOpacity float64
	Weight      int
}

var (
	styleAvailable = Style{Color: "#16a34a", FillColor: "#bbf7d0", FillOpacity: 0.5, Weight: 2}
	styleReserved  = Style{Color: "#f59e0b", FillColor: "#fde68a", FillOpacity: 0.5, Weight: 2}
	styleSold      = Style{Color: "#ef4444", FillColor: "#fecaca", FillOpacity: 0.5, Weight: 2}
)

// StyleFor：按状态取样式；未知状态按可售（绿色）处理
func StyleFor(s parcel.Status) Style {
	switch s {
	case parcel.Sold:
		return styleSold
	case parcel.Reserved:
		return styleReserved
	}
	return styleAvailable
}
