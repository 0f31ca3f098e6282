package listview

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/go-playground/assert/v2"

	"lotes-map/internal/parcel"
)

func mk(id, name string, st parcel.Status) parcel.Parcel {
	return parcel.Parcel{ID: id, Name: name, Status: st}
}

func TestSortedByName(t *testing.T) {
	ps := []parcel.Parcel{mk("1", "b", parcel.Available), mk("2", "B", parcel.Sold), mk("3", "a", parcel.Reserved)}
	rows := Render(ps, parcel.FilterAll, "", false)
	assert.Equal(t, []string{"2", "3", "1"}, IDs(rows))
	// input untouched
	assert.Equal(t, "1", ps[0].ID)
}

func TestFilterCorrectness(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		var ps []parcel.Parcel
		n := r.Intn(12)
		for i := 0; i < n; i++ {
			st := parcel.Statuses[r.Intn(len(parcel.Statuses))]
			ps = append(ps, mk(string(rune('a'+i)), string(rune('z'-r.Intn(26))), st))
		}
		for _, f := range parcel.Filters {
			got := Project(ps, f)
			var want []string
			for _, p := range ps {
				if f == parcel.FilterAll || p.Status == parcel.Status(f) {
					want = append(want, p.ID)
				}
			}
			var gotIDs []string
			for _, p := range got {
				assert.Equal(t, true, f.Match(p.Status))
				gotIDs = append(gotIDs, p.ID)
			}
			sort.Strings(want)
			sort.Strings(gotIDs)
			assert.Equal(t, want, gotIDs)
			assert.Equal(t, true, sort.SliceIsSorted(got, func(i, j int) bool { return got[i].Name < got[j].Name }))
		}
	}
}

func TestEmptyProjectionPlaceholder(t *testing.T) {
	ps := []parcel.Parcel{mk("1", "A", parcel.Available)}
	rows := Render(ps, parcel.Filter(parcel.Sold), "", true)
	assert.Equal(t, 1, len(rows))
	assert.Equal(t, true, rows[0].Placeholder)
	assert.Equal(t, EmptyText, rows[0].Name)
	assert.Equal(t, 0, len(IDs(rows)))

	rows = Render(nil, parcel.FilterAll, "", false)
	assert.Equal(t, true, rows[0].Placeholder)
}

func TestActionsAndSelection(t *testing.T) {
	h := 3.0
	p := mk("1", "A", parcel.Reserved)
	p.Height = &h
	ps := []parcel.Parcel{p, mk("2", "B", parcel.Sold)}

	pub := Render(ps, parcel.FilterAll, "", false)
	assert.Equal(t, 1, len(pub[0].Actions))
	assert.Equal(t, ActionZoom, pub[0].Actions[0].Kind)
	assert.Equal(t, ToneAmber, pub[0].Tone)
	assert.Equal(t, "3 m", pub[0].HeightText)
	assert.Equal(t, "N/A", pub[1].HeightText)

	adm := Render(ps, parcel.FilterAll, "2", true)
	assert.Equal(t, 3, len(adm[0].Actions))
	assert.Equal(t, ActionDelete, adm[1].Actions[2].Kind)
	assert.Equal(t, false, adm[0].Selected)
	assert.Equal(t, true, adm[1].Selected)
	assert.Equal(t, ToneRed, adm[1].Tone)
}
