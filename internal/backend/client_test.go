package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"

	"lotes-map/internal/parcel"
)

func TestErrorBodyIsVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("  {\"ok\":false,\"error\":\"se requieren al menos 3 vértices\"}\n"))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.CreateParcel(context.Background(), parcel.CreateInput{Name: "x", Status: parcel.Available, Coords: []parcel.Coord{{1, 1}, {2, 2}}})
	assert.NotEqual(t, nil, err)
	be, ok := err.(*Error)
	assert.Equal(t, true, ok)
	assert.Equal(t, http.StatusBadRequest, be.Status)
	assert.Equal(t, `{"ok":false,"error":"se requieren al menos 3 vértices"}`, err.Error())
}

func TestEmptyErrorBodyFallsBackToStatusText(t *testing.T) {
	e := &Error{Status: http.StatusInternalServerError}
	assert.Equal(t, "500 Internal Server Error", e.Error())
}

func TestRequestShapes(t *testing.T) {
	type seen struct {
		method, path, body string
	}
	var got []seen
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got = append(got, seen{r.Method, r.URL.EscapedPath(), string(b)})
		w.Header().Set("content-type", "application/json")
		switch r.URL.Path {
		case "/lotes":
			if r.Method == http.MethodGet {
				_, _ = w.Write([]byte(`[{"id":"a","name":"A","estado":"vendido","coords":null}]`))
				return
			}
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":"n","name":"N","estado":"disponible","coords":[[1,1],[1,2],[2,2]]}`))
		case "/auth/me":
			_, _ = w.Write([]byte(`{"ok":true,"user":null}`))
		case "/auth/login":
			_, _ = w.Write([]byte(`{"ok":true,"user":{"email":"demo@demo.com","name":"Lucas"}}`))
		default:
			_, _ = w.Write([]byte(`{"ok":true}`))
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	c := New(srv.URL+"/", nil)
	ps, err := c.ListParcels(ctx)
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(ps))
	assert.Equal(t, 0, len(ps[0].Coords))
	assert.NotEqual(t, true, ps[0].Coords == nil)

	p, err := c.CreateParcel(ctx, parcel.CreateInput{Name: "N", Status: parcel.Available, Coords: []parcel.Coord{{1, 1}, {1, 2}, {2, 2}}})
	assert.Equal(t, nil, err)
	assert.Equal(t, "n", p.ID)

	assert.Equal(t, nil, c.UpdateParcel(ctx, "lot 1", parcel.ReservePatch()))
	assert.Equal(t, nil, c.DeleteParcels(ctx, []string{"a"}))
	assert.Equal(t, nil, c.Reset(ctx))

	u, err := c.Me(ctx)
	assert.Equal(t, nil, err)
	assert.Equal(t, true, u == nil)

	u, err = c.Login(ctx, "demo@demo.com", "demo")
	assert.Equal(t, nil, err)
	assert.Equal(t, "Lucas", u.Label())
	assert.Equal(t, nil, c.Logout(ctx))

	assert.Equal(t, "/lotes/update/lot%201", got[2].path)
	assert.Equal(t, `{"estado":"reservado"}`, got[2].body)
	var del map[string][]string
	assert.Equal(t, nil, json.Unmarshal([]byte(got[3].body), &del))
	assert.Equal(t, []string{"a"}, del["ids"])
	assert.Equal(t, "/reset", got[4].path)
	assert.Equal(t, "", got[4].body)
	assert.Equal(t, http.MethodPost, got[7].method)
	assert.Equal(t, "/auth/logout", got[7].path)
}
