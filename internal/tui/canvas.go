package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"lotes-map/internal/geo"
	"lotes-map/internal/logger"
	"lotes-map/internal/mapview"
)

// 文档注释：终端画布，mapview.Surface 的字符栅格实现
// 背景：每个字符单元取中心点做 Even-Odd 判定，后添加的图形覆盖先添加的；边界单元用实心块，内部用浅色块
type Canvas struct {
	shapes  map[string]mapview.Shape
	order   []string
	view    geo.BBox
	fitted  bool
	popupID string
}

func NewCanvas() *Canvas {
	return &Canvas{shapes: map[string]mapview.Shape{}, view: geo.BBox{Empty: true}}
}

func (c *Canvas) AddShape(s mapview.Shape) {
	if _, ok := c.shapes[s.ID]; !ok {
		c.order = append(c.order, s.ID)
	}
	c.shapes[s.ID] = s
}

func (c *Canvas) RemoveShape(id string) {
	if _, ok := c.shapes[id]; !ok {
		return
	}
	delete(c.shapes, id)
	for i, k := range c.order {
		if k == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	if c.popupID == id {
		c.popupID = ""
	}
}

// FitBounds：视口适配到包围盒，四周留出约 10% 边距
func (c *Canvas) FitBounds(b geo.BBox, maxZoom int) {
	if b.Empty {
		return
	}
	c.view = geo.FitBounds(b, maxZoom).Zoom(0.9)
	c.fitted = true
	logger.L().Debug("canvas_fit", "min_lat", c.view.MinLat, "min_lng", c.view.MinLng, "max_lat", c.view.MaxLat, "max_lng", c.view.MaxLng)
}

func (c *Canvas) OpenPopup(id string) {
	if _, ok := c.shapes[id]; ok {
		c.popupID = id
	}
}

func (c *Canvas) ClosePopup() { c.popupID = "" }

// Popup：当前打开的弹窗
func (c *Canvas) Popup() (mapview.Popup, string, bool) {
	s, ok := c.shapes[c.popupID]
	if !ok {
		return mapview.Popup{}, "", false
	}
	return s.Popup, s.ID, true
}

// FitOnce：首次有数据时适配到全部图形，之后保持用户的视口
func (c *Canvas) FitOnce(b geo.BBox) {
	if c.fitted || b.Empty {
		return
	}
	c.FitBounds(b, mapview.MaxFocusZoom)
}

func (c *Canvas) ZoomBy(f float64) {
	c.view = c.view.Zoom(f)
}

func (c *Canvas) View() geo.BBox { return c.view }

// cellPoint：单元中心对应的地理坐标（行从北向南）
func (c *Canvas) cellPoint(x, y, w, h int) geo.Point {
	v := c.view
	return geo.Point{
		Lat: v.MaxLat - (float64(y)+0.5)/float64(h)*(v.MaxLat-v.MinLat),
		Lng: v.MinLng + (float64(x)+0.5)/float64(w)*(v.MaxLng-v.MinLng),
	}
}

// Raster：每个单元所属图形 id，空串为背景
func (c *Canvas) Raster(w, h int) [][]string {
	grid := make([][]string, h)
	for y := range grid {
		grid[y] = make([]string, w)
	}
	if c.view.Empty || w <= 0 || h <= 0 {
		return grid
	}
	for _, id := range c.order {
		s := c.shapes[id]
		if s.Bounds.Empty {
			continue
		}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if geo.PointInShape(c.cellPoint(x, y, w, h), s.Ring, s.Bounds) {
					grid[y][x] = id
				}
			}
		}
	}
	return grid
}

func edge(grid [][]string, x, y int) bool {
	id := grid[y][x]
	for _, d := range [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
		nx, ny := x+d[0], y+d[1]
		if ny < 0 || ny >= len(grid) || nx < 0 || nx >= len(grid[ny]) || grid[ny][nx] != id {
			return true
		}
	}
	return false
}

// Render：带颜色的栅格文本
func (c *Canvas) Render(w, h int) string {
	grid := c.Raster(w, h)
	var sb strings.Builder
	for y := 0; y < h; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < w; x++ {
			id := grid[y][x]
			if id == "" {
				sb.WriteByte(' ')
				continue
			}
			st := c.shapes[id].Style
			if edge(grid, x, y) {
				sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(st.Color)).Render("█"))
			} else if id == c.popupID {
				sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(st.Color)).Render("▓"))
			} else {
				sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(st.FillColor)).Render("░"))
			}
		}
	}
	return sb.String()
}
