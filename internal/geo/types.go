package geo

import "math"

// 点坐标（WGS84），字段顺序与后端 coords 的 [lat, lng] 对齐
type Point struct {
	Lat float64
	Lng float64
}

// 文档注释：包围盒
// 约束：空盒（Empty=true）不参与合并与视口适配；由 BoundsOf 对空环返回
type BBox struct {
	MinLat, MinLng float64
	MaxLat, MaxLng float64
	Empty          bool
}

// BoundsOf：计算环的包围盒
func BoundsOf(ring []Point) BBox {
	if len(ring) == 0 {
		return BBox{Empty: true}
	}
	b := BBox{MinLat: ring[0].Lat, MaxLat: ring[0].Lat, MinLng: ring[0].Lng, MaxLng: ring[0].Lng}
	for _, p := range ring[1:] {
		b.MinLat = math.Min(b.MinLat, p.Lat)
		b.MaxLat = math.Max(b.MaxLat, p.Lat)
		b.MinLng = math.Min(b.MinLng, p.Lng)
		b.MaxLng = math.Max(b.MaxLng, p.Lng)
	}
	return b
}

// Union：合并两个包围盒
func (b BBox) Union(o BBox) BBox {
	if b.Empty {
		return o
	}
	if o.Empty {
		return b
	}
	return BBox{
		MinLat: math.Min(b.MinLat, o.MinLat),
		MinLng: math.Min(b.MinLng, o.MinLng),
		MaxLat: math.Max(b.MaxLat, o.MaxLat),
		MaxLng: math.Max(b.MaxLng, o.MaxLng),
	}
}

func (b BBox) Center() Point {
	return Point{Lat: (b.MinLat + b.MaxLat) / 2, Lng: (b.MinLng + b.MaxLng) / 2}
}

// Contains：快速包围盒过滤（含边界）
func (b BBox) Contains(p Point) bool {
	if b.Empty {
		return false
	}
	return p.Lng >= b.MinLng && p.Lng <= b.MaxLng && p.Lat >= b.MinLat && p.Lat <= b.MaxLat
}

// SpanForZoom：瓦片缩放级别 z 下视口的最小经度跨度（度）
func SpanForZoom(z int) float64 {
	return 360 / math.Pow(2, float64(z))
}

// 文档注释：按最大缩放级别适配视口
// 约束：跨度小于 maxZoom 对应跨度时以中心点外扩，避免单点或极小地块放大到无穷
func FitBounds(b BBox, maxZoom int) BBox {
	if b.Empty {
		return b
	}
	minSpan := SpanForZoom(maxZoom)
	c := b.Center()
	if b.MaxLng-b.MinLng < minSpan {
		b.MinLng = c.Lng - minSpan/2
		b.MaxLng = c.Lng + minSpan/2
	}
	if b.MaxLat-b.MinLat < minSpan {
		b.MinLat = c.Lat - minSpan/2
		b.MaxLat = c.Lat + minSpan/2
	}
	return b
}

// Zoom：以中心点按倍数缩放视口，factor>1 放大
func (b BBox) Zoom(factor float64) BBox {
	if b.Empty || factor <= 0 {
		return b
	}
	c := b.Center()
	hl := (b.MaxLat - b.MinLat) / 2 / factor
	hg := (b.MaxLng - b.MinLng) / 2 / factor
	return BBox{MinLat: c.Lat - hl, MaxLat: c.Lat + hl, MinLng: c.Lng - hg, MaxLng: c.Lng + hg}
}
