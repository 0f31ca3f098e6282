package parcel

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestParseHeight(t *testing.T) {
	assert.Equal(t, true, ParseHeight("") == nil)
	assert.Equal(t, true, ParseHeight("   ") == nil)
	assert.Equal(t, true, ParseHeight("abc") == nil)
	assert.Equal(t, true, ParseHeight("-3") == nil)
	assert.Equal(t, true, ParseHeight("NaN") == nil)
	h := ParseHeight(" 12.5 ")
	assert.NotEqual(t, true, h == nil)
	assert.Equal(t, 12.5, *h)
	zero := ParseHeight("0")
	assert.NotEqual(t, true, zero == nil)
	assert.Equal(t, 0.0, *zero)
}

func TestHeightText(t *testing.T) {
	assert.Equal(t, "N/A", HeightText(nil))
	nan := math.NaN()
	assert.Equal(t, "N/A", HeightText(&nan))
	v := 12.0
	assert.Equal(t, "12 m", HeightText(&v))
	w := 3.25
	assert.Equal(t, "3.25 m", HeightText(&w))
	assert.Equal(t, "3.25", HeightInput(&w))
	assert.Equal(t, "", HeightInput(nil))
}

func TestParseHeightJSON(t *testing.T) {
	assert.Equal(t, true, ParseHeightJSON(nil) == nil)
	assert.Equal(t, true, ParseHeightJSON(json.RawMessage("null")) == nil)
	assert.Equal(t, 4.0, *ParseHeightJSON(json.RawMessage("4")))
	assert.Equal(t, 7.5, *ParseHeightJSON(json.RawMessage(`"7.5"`)))
	assert.Equal(t, true, ParseHeightJSON(json.RawMessage(`"x"`)) == nil)
	assert.Equal(t, true, ParseHeightJSON(json.RawMessage(`{}`)) == nil)
}

func TestParcelWireFormat(t *testing.T) {
	raw := `{"id":"lot-1","name":"A","estado":"Reservado","coords":[[-13.9,-76.07],[-13.9,-76.06],[-13.8,-76.06]],"altura":null,"reservedBy":"Lucas","reservedAt":1700000000000}`
	var p Parcel
	assert.Equal(t, nil, json.Unmarshal([]byte(raw), &p))
	Normalize(&p)
	assert.Equal(t, Reserved, p.Status)
	assert.Equal(t, 3, len(p.Coords))
	assert.Equal(t, -76.07, p.Ring()[0].Lng)
	assert.Equal(t, true, p.Height == nil)
	assert.Equal(t, "Lucas", *p.ReservedBy)
	assert.Equal(t, int64(1700000000000), *p.ReservedAt)

	b, _ := json.Marshal(CreateInput{Name: "B", Status: Sold, Coords: []Coord{{1, 2}}})
	assert.Equal(t, `{"name":"B","estado":"vendido","coords":[[1,2]],"altura":null}`, string(b))

	pb, _ := json.Marshal(ReservePatch())
	assert.Equal(t, `{"estado":"reservado"}`, string(pb))
}

func TestStatusAndFilter(t *testing.T) {
	s, ok := ParseStatus(" SOLD ")
	assert.Equal(t, true, ok)
	assert.Equal(t, Sold, s)
	_, ok = ParseStatus("perdido")
	assert.Equal(t, false, ok)

	f, ok := ParseFilter("all")
	assert.Equal(t, true, ok)
	assert.Equal(t, FilterAll, f)
	assert.Equal(t, true, f.Match(Sold))
	assert.Equal(t, false, Filter(Sold).Match(Available))
	assert.Equal(t, Filter(Available), FilterAll.Next())
	assert.Equal(t, FilterAll, Filter(Sold).Next())
}
