package geo

// 文档注释：点是否在环内（射线法，Even-Odd）
// 约束：少于 3 个顶点的环恒为 false；边界临界值受数值误差影响，仅用于终端栅格填充
func PointInRing(pt Point, ring []Point) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	inside := false
	x := pt.Lng
	y := pt.Lat
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i].Lng, ring[i].Lat
		xj, yj := ring[j].Lng, ring[j].Lat
		intersect := ((yi > y) != (yj > y)) && (x < (xj-xi)*(y-yi)/(yj-yi+1e-12)+xi)
		if intersect {
			inside = !inside
		}
	}
	return inside
}

// PointInShape：先用包围盒过滤再做环判定
func PointInShape(pt Point, ring []Point, b BBox) bool {
	if !b.Contains(pt) {
		return false
	}
	return PointInRing(pt, ring)
}
