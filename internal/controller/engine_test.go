package controller

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/assert/v2"

	"lotes-map/internal/backend"
	"lotes-map/internal/parcel"
)

type fakeAPI struct {
	parcels []parcel.Parcel
	user    *backend.User
	calls   []string
	failOn  map[string]error
}

func (f *fakeAPI) hit(op string) error {
	f.calls = append(f.calls, op)
	return f.failOn[op]
}

func (f *fakeAPI) ListParcels(context.Context) ([]parcel.Parcel, error) {
	if err := f.hit("list"); err != nil {
		return nil, err
	}
	return append([]parcel.Parcel(nil), f.parcels...), nil
}

func (f *fakeAPI) CreateParcel(_ context.Context, in parcel.CreateInput) (*parcel.Parcel, error) {
	if err := f.hit("create"); err != nil {
		return nil, err
	}
	p := parcel.Parcel{ID: "lot-new", Name: in.Name, Status: in.Status, Coords: in.Coords, Height: in.Height}
	f.parcels = append(f.parcels, p)
	return &p, nil
}

func (f *fakeAPI) UpdateParcel(_ context.Context, id string, p parcel.Patch) error {
	if err := f.hit("update"); err != nil {
		return err
	}
	for i := range f.parcels {
		if f.parcels[i].ID == id {
			if p.Status != nil {
				f.parcels[i].Status = *p.Status
			}
			if p.Name != nil {
				f.parcels[i].Name = *p.Name
			}
			return nil
		}
	}
	return &backend.Error{Status: 404, Body: "Lote no encontrado"}
}

func (f *fakeAPI) DeleteParcels(_ context.Context, ids []string) error {
	if err := f.hit("delete"); err != nil {
		return err
	}
	drop := map[string]bool{}
	for _, id := range ids {
		drop[id] = true
	}
	var keep []parcel.Parcel
	for _, p := range f.parcels {
		if !drop[p.ID] {
			keep = append(keep, p)
		}
	}
	f.parcels = keep
	return nil
}

func (f *fakeAPI) Reset(context.Context) error {
	if err := f.hit("reset"); err != nil {
		return err
	}
	f.parcels = nil
	return nil
}

func (f *fakeAPI) Me(context.Context) (*backend.User, error) {
	if err := f.hit("me"); err != nil {
		return nil, err
	}
	return f.user, nil
}

func (f *fakeAPI) Login(_ context.Context, email, _ string) (*backend.User, error) {
	if err := f.hit("login"); err != nil {
		return nil, err
	}
	f.user = &backend.User{Email: email, Name: "Lucas"}
	return f.user, nil
}

func (f *fakeAPI) Register(_ context.Context, email, _ string) (*backend.User, error) {
	if err := f.hit("register"); err != nil {
		return nil, err
	}
	f.user = &backend.User{Email: email, Name: email}
	return f.user, nil
}

func (f *fakeAPI) Logout(context.Context) error {
	f.hit("logout")
	f.user = nil
	return nil
}

type fakeHost struct {
	notices    []string
	confirm    bool
	prompts    []string
	focused    []string
	reconciled int
	last       State
}

func (h *fakeHost) Notify(msg string) { h.notices = append(h.notices, msg) }
func (h *fakeHost) Confirm(p string) bool {
	h.prompts = append(h.prompts, p)
	return h.confirm
}
func (h *fakeHost) Focus(id string) { h.focused = append(h.focused, id) }
func (h *fakeHost) Reconcile(s State) {
	h.reconciled++
	h.last = s
}

func TestEngineStartAndReserve(t *testing.T) {
	api := &fakeAPI{parcels: []parcel.Parcel{lot("L1", "A", parcel.Available)}}
	host := &fakeHost{}
	en := NewEngine(Config{}, api, host)
	ctx := context.Background()

	s := en.Dispatch(ctx, Started{})
	assert.Equal(t, 1, len(s.Parcels))
	assert.Equal(t, 1, host.reconciled)
	assert.Equal(t, []string{"list", "me"}, api.calls)

	s = en.Dispatch(ctx, ReserveRequested{ID: "L1"})
	assert.Equal(t, PhaseAwaitingAuth, s.Reservation.Phase)
	assert.Equal(t, true, s.AuthOpen)

	s = en.Dispatch(ctx, LoginSubmitted{Email: "demo@demo.com", Password: "demo"})
	assert.Equal(t, PhaseIdle, s.Reservation.Phase)
	assert.Equal(t, parcel.Reserved, s.Parcels[0].Status)
	assert.Equal(t, "Lucas", s.User.Name)
	assert.Equal(t, []string{"list", "me", "me", "login", "update", "list"}, api.calls)
	assert.Equal(t, parcel.Reserved, host.last.Parcels[0].Status)
}

func TestEngineConfirmDeclined(t *testing.T) {
	api := &fakeAPI{parcels: []parcel.Parcel{lot("a", "A", parcel.Available)}}
	host := &fakeHost{}
	en := NewEngine(Config{Privileged: true}, api, host)
	ctx := context.Background()
	en.Dispatch(ctx, Started{})

	en.Dispatch(ctx, DeleteRequested{ID: "a"})
	assert.Equal(t, []string{PromptDelete}, host.prompts)
	assert.Equal(t, []string{"list"}, api.calls)

	host.confirm = true
	s := en.Dispatch(ctx, DeleteRequested{ID: "a"})
	assert.Equal(t, 0, len(s.Parcels))
	assert.Equal(t, []string{"list", "delete", "list"}, api.calls)
}

func TestEngineFailureNotifies(t *testing.T) {
	api := &fakeAPI{failOn: map[string]error{"list": &backend.Error{Status: 500, Body: "db down"}}}
	host := &fakeHost{}
	en := NewEngine(Config{Privileged: true}, api, host)
	s := en.Dispatch(context.Background(), Started{})
	assert.Equal(t, false, s.Loaded)
	assert.Equal(t, []string{MsgLoadFailed + "db down"}, host.notices)
	assert.Equal(t, 0, host.reconciled)
}

func TestEngineMeErrorMeansAnonymous(t *testing.T) {
	api := &fakeAPI{
		parcels: []parcel.Parcel{lot("L1", "A", parcel.Available)},
		failOn:  map[string]error{"me": errors.New("dial tcp: refused")},
	}
	host := &fakeHost{}
	en := NewEngine(Config{}, api, host)
	ctx := context.Background()
	en.Dispatch(ctx, Started{})
	s := en.Dispatch(ctx, ReserveRequested{ID: "L1"})
	assert.Equal(t, PhaseAwaitingAuth, s.Reservation.Phase)
	assert.Equal(t, 0, len(host.notices))
}

func TestEngineDrawCreate(t *testing.T) {
	api := &fakeAPI{}
	host := &fakeHost{}
	en := NewEngine(Config{Privileged: true}, api, host)
	ctx := context.Background()
	en.Dispatch(ctx, Started{})
	en.Dispatch(ctx, FormChanged{Form: Form{Name: "Norte", Status: "vendido"}})
	s := en.Dispatch(ctx, DrawFinished{Coords: []parcel.Coord{{0, 0}, {0, 1}, {1, 1}}})
	assert.Equal(t, true, s.Drawn == nil)
	assert.Equal(t, 1, len(s.Parcels))
	assert.Equal(t, "Norte", s.Parcels[0].Name)

	en.Dispatch(ctx, FocusRequested{ID: "lot-new"})
	assert.Equal(t, []string{"lot-new"}, host.focused)
}

func TestEngineCancelledContextSkipsBackend(t *testing.T) {
	api := &fakeAPI{}
	en := NewEngine(Config{}, api, &fakeHost{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	en.Dispatch(ctx, Started{})
	assert.Equal(t, 0, len(api.calls))
}
