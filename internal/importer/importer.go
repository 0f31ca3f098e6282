// 包 importer：解析批量导入文件（lotes.json 数组或 GeoJSON FeatureCollection）
package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"lotes-map/internal/parcel"
)

// Record：待导入的地块；ID 为空时由存储分配
type Record struct {
	parcel.Parcel
	// Estado 保留原始文本，交给存储层校验
	Estado string
}

type rawParcel struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Estado     string          `json:"estado"`
	Coords     []parcel.Coord  `json:"coords"`
	Altura     json.RawMessage `json:"altura"`
	ReservedBy *string         `json:"reservedBy"`
	ReservedAt *int64          `json:"reservedAt"`
}

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	ID         json.RawMessage `json:"id"`
	Geometry   *geometry       `json:"geometry"`
	Properties rawParcel       `json:"properties"`
}

type geometry struct {
	Type        string          `json:"type"`
	Coordinates [][][2]float64 `json:"coordinates"`
}

// 文档注释：解析导入文件
// 约束：以 [ 开头按 lotes.json 数组解析，否则按 GeoJSON；GeoJSON 只接受 Polygon，取外环，坐标从 [lng,lat] 转为 [lat,lng]，去掉闭合点
func Parse(r io.Reader) ([]Record, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, errors.New("empty input")
	}
	if b[0] == '[' {
		var raws []rawParcel
		if err := json.Unmarshal(b, &raws); err != nil {
			return nil, err
		}
		out := make([]Record, 0, len(raws))
		for _, rp := range raws {
			out = append(out, fromRaw(rp))
		}
		return out, nil
	}
	var fc featureCollection
	if err := json.Unmarshal(b, &fc); err != nil {
		return nil, err
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("unsupported GeoJSON type %q", fc.Type)
	}
	out := make([]Record, 0, len(fc.Features))
	for i, f := range fc.Features {
		if f.Geometry == nil || f.Geometry.Type != "Polygon" || len(f.Geometry.Coordinates) == 0 {
			return nil, fmt.Errorf("feature %d: expected Polygon geometry", i)
		}
		rp := f.Properties
		if rp.ID == "" && len(f.ID) > 0 {
			var s string
			if json.Unmarshal(f.ID, &s) == nil {
				rp.ID = s
			}
		}
		rp.Coords = ringFromGeoJSON(f.Geometry.Coordinates[0])
		out = append(out, fromRaw(rp))
	}
	return out, nil
}

func ringFromGeoJSON(ring [][2]float64) []parcel.Coord {
	if n := len(ring); n > 1 && ring[0] == ring[n-1] {
		ring = ring[:n-1]
	}
	out := make([]parcel.Coord, 0, len(ring))
	for _, p := range ring {
		out = append(out, parcel.Coord{p[1], p[0]})
	}
	return out
}

func fromRaw(rp rawParcel) Record {
	return Record{
		Parcel: parcel.Parcel{
			ID:         rp.ID,
			Name:       rp.Name,
			Coords:     rp.Coords,
			Height:     parcel.ParseHeightJSON(rp.Altura),
			ReservedBy: rp.ReservedBy,
			ReservedAt: rp.ReservedAt,
		},
		Estado: rp.Estado,
	}
}
