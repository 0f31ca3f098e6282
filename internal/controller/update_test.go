package controller

import (
	"errors"
	"testing"

	"github.com/go-playground/assert/v2"

	"lotes-map/internal/backend"
	"lotes-map/internal/parcel"
)

func lot(id, name string, st parcel.Status) parcel.Parcel {
	return parcel.Parcel{ID: id, Name: name, Status: st, Coords: []parcel.Coord{{0, 0}, {0, 1}, {1, 1}}}
}

func loaded(priv bool, ps ...parcel.Parcel) State {
	s, _ := Update(New(Config{Privileged: priv}), ParcelsLoaded{Parcels: ps})
	return s
}

func notices(effs []Effect) []string {
	var out []string
	for _, e := range effs {
		if n, ok := e.(Notify); ok {
			out = append(out, n.Message)
		}
	}
	return out
}

func backendCalls(effs []Effect) int {
	n := 0
	for _, e := range effs {
		if IsBackend(e) {
			n++
		}
	}
	return n
}

func TestStartedProbesSessionOnlyForPublic(t *testing.T) {
	_, effs := Update(New(Config{}), Started{})
	assert.Equal(t, []Effect{FetchParcels{}, QuerySession{}}, effs)

	_, effs = Update(New(Config{Privileged: true}), Started{})
	assert.Equal(t, []Effect{FetchParcels{}}, effs)
}

func TestParcelsLoadedReplacesStore(t *testing.T) {
	s := loaded(false, lot("a", "A", parcel.Available), lot("b", "B", parcel.Sold))
	assert.Equal(t, 2, len(s.Parcels))
	assert.Equal(t, true, s.Loaded)

	s2, effs := Update(s, ParcelsLoaded{Parcels: []parcel.Parcel{lot("c", "C", parcel.Reserved)}})
	assert.Equal(t, 1, len(s2.Parcels))
	assert.Equal(t, false, s2.Has("a"))
	assert.Equal(t, []Effect{Reconcile{Parcels: s2.Parcels}}, effs)

	s3, _ := Update(s2, ParcelsLoaded{})
	assert.Equal(t, 0, len(s3.Parcels))
	assert.Equal(t, false, s3.Parcels == nil)
}

func TestReloadIsIdempotent(t *testing.T) {
	ps := []parcel.Parcel{lot("a", "A", parcel.Available), lot("b", "B", parcel.Sold)}
	s := loaded(true, ps...)
	s, _ = Update(s, EditSelected{ID: "a"})
	s1, e1 := Update(s, ParcelsLoaded{Parcels: ps})
	s2, e2 := Update(s1, ParcelsLoaded{Parcels: ps})
	assert.Equal(t, s1, s2)
	assert.Equal(t, e1, e2)
	assert.Equal(t, "a", s2.EditID)
}

func TestLoadFailureKeepsStore(t *testing.T) {
	s := loaded(false, lot("a", "A", parcel.Available))
	s2, effs := Update(s, ParcelsLoadFailed{Err: errors.New("boom")})
	assert.Equal(t, s, s2)
	assert.Equal(t, []string{MsgLoadFailed + "boom"}, notices(effs))
}

func TestEditSelectionClearedWhenParcelVanishes(t *testing.T) {
	h := 12.5
	p := lot("a", "A", parcel.Reserved)
	p.Height = &h
	s := loaded(true, p, lot("b", "B", parcel.Sold))
	s, _ = Update(s, EditSelected{ID: "a"})
	assert.Equal(t, "a", s.EditID)
	assert.Equal(t, Form{Name: "A", Status: "reservado", Height: "12.5"}, s.Form)

	s, _ = Update(s, ParcelsLoaded{Parcels: []parcel.Parcel{lot("b", "B", parcel.Sold)}})
	assert.Equal(t, "", s.EditID)
	assert.Equal(t, blankForm(), s.Form)
}

func TestEditSelectIgnoredForPublicOrUnknown(t *testing.T) {
	s := loaded(false, lot("a", "A", parcel.Available))
	s2, _ := Update(s, EditSelected{ID: "a"})
	assert.Equal(t, "", s2.EditID)

	s = loaded(true, lot("a", "A", parcel.Available))
	s2, _ = Update(s, EditSelected{ID: "zz"})
	assert.Equal(t, "", s2.EditID)
}

func TestFilterChanged(t *testing.T) {
	s, effs := Update(New(Config{}), FilterChanged{Filter: parcel.Filter(parcel.Sold)})
	assert.Equal(t, parcel.Filter(parcel.Sold), s.Filter)
	assert.Equal(t, 0, len(effs))
	s, _ = Update(s, FilterChanged{})
	assert.Equal(t, parcel.FilterAll, s.Filter)
}

// 已登录用户预约
func TestReserveWithSession(t *testing.T) {
	s := loaded(false, lot("L1", "A", parcel.Available))
	s, effs := Update(s, ReserveRequested{ID: "L1"})
	assert.Equal(t, Reservation{Phase: PhasePending, ParcelID: "L1"}, s.Reservation)
	assert.Equal(t, []Effect{QuerySession{ParcelID: "L1"}}, effs)

	u := &backend.User{Email: "demo@demo.com", Name: "Lucas"}
	s, effs = Update(s, SessionChecked{ParcelID: "L1", User: u})
	assert.Equal(t, []Effect{UpdateParcel{ID: "L1", Patch: parcel.ReservePatch(), Purpose: PurposeReserve}}, effs)
	assert.Equal(t, false, s.AuthOpen)

	s, effs = Update(s, ReserveDone{ID: "L1"})
	assert.Equal(t, PhaseIdle, s.Reservation.Phase)
	assert.Equal(t, []Effect{FetchParcels{}}, effs)
}

// 未登录，认证后继续预约
func TestReserveResumesAfterLogin(t *testing.T) {
	s := loaded(false, lot("L1", "A", parcel.Available))
	s, _ = Update(s, ReserveRequested{ID: "L1"})
	s, effs := Update(s, SessionChecked{ParcelID: "L1"})
	assert.Equal(t, 0, len(effs))
	assert.Equal(t, PhaseAwaitingAuth, s.Reservation.Phase)
	assert.Equal(t, true, s.AuthOpen)

	s, effs = Update(s, LoginSubmitted{Email: "a@b.c", Password: "x"})
	assert.Equal(t, []Effect{Authenticate{Kind: AuthLogin, Email: "a@b.c", Password: "x"}}, effs)

	s, effs = Update(s, AuthDone{Kind: AuthLogin, Err: errors.New("Credenciales inválidas")})
	assert.Equal(t, []string{MsgLoginFailed + "Credenciales inválidas"}, notices(effs))
	assert.Equal(t, true, s.AuthOpen)
	assert.Equal(t, PhaseAwaitingAuth, s.Reservation.Phase)

	u := &backend.User{Email: "a@b.c", Name: "a"}
	s, effs = Update(s, AuthDone{Kind: AuthLogin, User: u})
	assert.Equal(t, false, s.AuthOpen)
	assert.Equal(t, u, s.User)
	assert.Equal(t, Reservation{Phase: PhasePending, ParcelID: "L1"}, s.Reservation)
	assert.Equal(t, []Effect{UpdateParcel{ID: "L1", Patch: parcel.ReservePatch(), Purpose: PurposeReserve}}, effs)
}

// 关闭认证弹窗取消预约
func TestCloseModalCancelsPending(t *testing.T) {
	s := loaded(false, lot("L1", "A", parcel.Available))
	s, _ = Update(s, ReserveRequested{ID: "L1"})
	s, _ = Update(s, SessionChecked{ParcelID: "L1"})
	s, effs := Update(s, AuthModalClosed{})
	assert.Equal(t, 0, backendCalls(effs))
	assert.Equal(t, PhaseIdle, s.Reservation.Phase)

	// 之后登录不会触发任何预约
	s, effs = Update(s, AuthDone{Kind: AuthLogin, User: &backend.User{Email: "a@b.c"}})
	assert.Equal(t, []Effect{FetchParcels{}}, effs)
}

func TestSingleSlotLatestWins(t *testing.T) {
	s := loaded(false, lot("L1", "A", parcel.Available), lot("L2", "B", parcel.Available))
	s, _ = Update(s, ReserveRequested{ID: "L1"})
	s, _ = Update(s, ReserveRequested{ID: "L2"})
	assert.Equal(t, "L2", s.Reservation.ParcelID)

	// L1 的会话结果已过期
	s, effs := Update(s, SessionChecked{ParcelID: "L1"})
	assert.Equal(t, 0, len(effs))
	assert.Equal(t, PhasePending, s.Reservation.Phase)

	s, _ = Update(s, SessionChecked{ParcelID: "L2"})
	assert.Equal(t, Reservation{Phase: PhaseAwaitingAuth, ParcelID: "L2"}, s.Reservation)
}

func TestPendingParcelDeletedDuringAuth(t *testing.T) {
	s := loaded(false, lot("L1", "A", parcel.Available))
	s, _ = Update(s, ReserveRequested{ID: "L1"})
	s, _ = Update(s, SessionChecked{ParcelID: "L1"})
	s, _ = Update(s, ParcelsLoaded{Parcels: []parcel.Parcel{}})
	s, effs := Update(s, AuthDone{Kind: AuthRegister, User: &backend.User{Email: "n@n.n"}})
	assert.Equal(t, PhaseIdle, s.Reservation.Phase)
	assert.Equal(t, []Effect{FetchParcels{}}, effs)
}

func TestReserveEdgeCases(t *testing.T) {
	s := loaded(false, lot("L1", "A", parcel.Available))
	s2, effs := Update(s, ReserveRequested{ID: "nope"})
	assert.Equal(t, PhaseIdle, s2.Reservation.Phase)
	assert.Equal(t, []string{MsgParcelGone}, notices(effs))

	p := loaded(true, lot("L1", "A", parcel.Available))
	p2, effs := Update(p, ReserveRequested{ID: "L1"})
	assert.Equal(t, PhaseIdle, p2.Reservation.Phase)
	assert.Equal(t, 0, len(effs))

	s, _ = Update(s, ReserveRequested{ID: "L1"})
	s, effs = Update(s, ReserveDone{ID: "L1", Err: errors.New("Lote no encontrado")})
	assert.Equal(t, PhaseIdle, s.Reservation.Phase)
	assert.Equal(t, []string{MsgReserveFailed + "Lote no encontrado"}, notices(effs))
	assert.Equal(t, 0, backendCalls(effs))
}

func TestRegisterFailureMessage(t *testing.T) {
	_, effs := Update(New(Config{}), AuthDone{Kind: AuthRegister, Err: errors.New("Email ya registrado")})
	assert.Equal(t, []string{MsgRegisterFailed + "Email ya registrado"}, notices(effs))
}

func TestLogoutResetsSession(t *testing.T) {
	s := loaded(false, lot("L1", "A", parcel.Available))
	s, _ = Update(s, SessionChecked{User: &backend.User{Email: "x@y.z"}})
	assert.Equal(t, "x@y.z", s.User.Email)
	s, effs := Update(s, LogoutRequested{})
	assert.Equal(t, []Effect{Logout{}}, effs)
	s, effs = Update(s, LogoutDone{Err: errors.New("offline")})
	assert.Equal(t, true, s.User == nil)
	assert.Equal(t, []Effect{FetchParcels{}}, effs)
}

func TestDeleteFlow(t *testing.T) {
	s := loaded(true, lot("a", "A", parcel.Available))
	s, _ = Update(s, EditSelected{ID: "a"})
	_, effs := Update(s, DeleteRequested{ID: "a"})
	assert.Equal(t, []Effect{Confirm{Prompt: PromptDelete, Then: DeleteConfirmed{ID: "a"}}}, effs)

	_, effs = Update(s, DeleteConfirmed{ID: "a"})
	assert.Equal(t, []Effect{DeleteParcels{IDs: []string{"a"}}}, effs)

	s2, effs := Update(s, DeleteDone{IDs: []string{"a"}, Err: errors.New("500")})
	assert.Equal(t, "a", s2.EditID)
	assert.Equal(t, []string{MsgDeleteFailed + "500"}, notices(effs))

	s2, effs = Update(s, DeleteDone{IDs: []string{"a"}})
	assert.Equal(t, "", s2.EditID)
	assert.Equal(t, []Effect{FetchParcels{}}, effs)

	pub := loaded(false, lot("a", "A", parcel.Available))
	_, effs = Update(pub, DeleteRequested{ID: "a"})
	assert.Equal(t, 0, len(effs))
}

func TestDrawCreateDefaultsAndRetry(t *testing.T) {
	s := loaded(true)
	s, _ = Update(s, FormChanged{Form: Form{Name: "  ", Status: "??", Height: "abc"}})
	ring := []parcel.Coord{{-13.9, -76.07}, {-13.9, -76.06}}
	s, effs := Update(s, DrawFinished{Coords: ring})
	want := CreateParcel{Input: parcel.CreateInput{Name: "Lote", Status: parcel.Available, Coords: ring}}
	assert.Equal(t, []Effect{want}, effs)
	assert.Equal(t, true, s.Drawn != nil)

	s, effs = Update(s, CreateDone{Err: errors.New("bad coords")})
	assert.Equal(t, []string{MsgCreateFailed + "bad coords"}, notices(effs))
	assert.Equal(t, true, s.Drawn != nil)

	_, effs = Update(s, CreateRetried{})
	assert.Equal(t, []Effect{want}, effs)

	s, effs = Update(s, CreateDone{Parcel: &parcel.Parcel{ID: "lot-1"}})
	assert.Equal(t, true, s.Drawn == nil)
	assert.Equal(t, []Effect{FetchParcels{}}, effs)

	_, effs = Update(s, CreateRetried{})
	assert.Equal(t, []string{MsgNoDrawn}, notices(effs))
}

func TestDrawUsesFormFields(t *testing.T) {
	s := loaded(true)
	s, _ = Update(s, FormChanged{Form: Form{Name: " Norte ", Status: "vendido", Height: "3.5"}})
	_, effs := Update(s, DrawFinished{Coords: []parcel.Coord{{1, 1}, {1, 2}, {2, 2}}})
	in := effs[0].(CreateParcel).Input
	assert.Equal(t, "Norte", in.Name)
	assert.Equal(t, parcel.Sold, in.Status)
	assert.Equal(t, 3.5, *in.Height)
}

func TestCommitEdit(t *testing.T) {
	s := loaded(true, lot("a", "A", parcel.Available))
	_, effs := Update(s, CommitEditRequested{})
	assert.Equal(t, []string{MsgNoSelection}, notices(effs))
	assert.Equal(t, 0, backendCalls(effs))

	s, _ = Update(s, EditSelected{ID: "a"})
	s, _ = Update(s, FormChanged{Form: Form{Name: "", Status: "reservado", Height: ""}})
	_, effs = Update(s, CommitEditRequested{})
	st := parcel.Reserved
	assert.Equal(t, []Effect{UpdateParcel{ID: "a", Patch: parcel.Patch{Status: &st}, Purpose: PurposeEdit}}, effs)

	s, _ = Update(s, FormChanged{Form: Form{Name: "Nuevo", Status: "vendido", Height: "2"}})
	s2, effs := Update(s, UpdateDone{ID: "a"})
	assert.Equal(t, "", s2.EditID)
	assert.Equal(t, Form{Status: "vendido"}, s2.Form)
	assert.Equal(t, []Effect{FetchParcels{}}, effs)

	s2, effs = Update(s, UpdateDone{ID: "a", Err: errors.New("Lote no encontrado")})
	assert.Equal(t, "a", s2.EditID)
	assert.Equal(t, []string{MsgUpdateFailed + "Lote no encontrado"}, notices(effs))
}

func TestCommitEditRejectsUnknownStatus(t *testing.T) {
	s := loaded(true, lot("a", "A", parcel.Reserved))
	s, _ = Update(s, EditSelected{ID: "a"})
	s, _ = Update(s, FormChanged{Form: Form{Name: "A", Status: "vendio"}})
	s2, effs := Update(s, CommitEditRequested{})
	assert.Equal(t, []string{MsgBadStatus + "vendio"}, notices(effs))
	assert.Equal(t, 0, backendCalls(effs))
	assert.Equal(t, "a", s2.EditID)
	assert.Equal(t, "vendio", s2.Form.Status)

	s, _ = Update(s, FormChanged{Form: Form{Name: "A", Status: ""}})
	_, effs = Update(s, CommitEditRequested{})
	assert.Equal(t, 0, backendCalls(effs))
	assert.Equal(t, []string{MsgBadStatus}, notices(effs))
}

func TestResetFlow(t *testing.T) {
	s := loaded(true, lot("a", "A", parcel.Available))
	_, effs := Update(s, ResetRequested{})
	assert.Equal(t, []Effect{Confirm{Prompt: PromptReset, Then: ResetConfirmed{}}}, effs)
	_, effs = Update(s, ResetConfirmed{})
	assert.Equal(t, []Effect{ResetAll{}}, effs)
	_, effs = Update(s, ResetDone{})
	assert.Equal(t, []Effect{FetchParcels{}}, effs)
	_, effs = Update(s, ResetDone{Err: errors.New("x")})
	assert.Equal(t, []string{MsgResetFailed + "x"}, notices(effs))

	_, effs = Update(loaded(false), ResetRequested{})
	assert.Equal(t, 0, len(effs))
}

func TestFocusPassThrough(t *testing.T) {
	_, effs := Update(New(Config{}), FocusRequested{ID: "zz"})
	assert.Equal(t, []Effect{Focus{ID: "zz"}}, effs)
}
