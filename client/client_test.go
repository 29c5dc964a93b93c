package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"frontdesk/billing"
	"frontdesk/entity"
	"frontdesk/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend answers from memory; fail makes the next writes error.
type fakeBackend struct {
	mu      sync.Mutex
	tables  map[string]entity.Table
	wait    map[string]entity.WaitingGuest
	fail    error
	release chan struct{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		tables: map[string]entity.Table{
			"t1": {ID: "t1", Name: "Table 1", Capacity: 4, Status: entity.TableAvailable},
			"t2": {ID: "t2", Name: "Table 2", Capacity: 2, Status: entity.TableOccupied},
		},
		wait: map[string]entity.WaitingGuest{
			"w1": {ID: "w1", TokenNumber: 1, Name: "Ali", NumberOfGuests: 4, Status: entity.WaitWaiting},
		},
	}
}

func (f *fakeBackend) gate() error {
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fail
}

func (f *fakeBackend) ListTables(context.Context) ([]entity.Table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entity.Table{}
	for _, t := range f.tables {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeBackend) UpdateTable(_ context.Context, id string, p services.TablePatch) (*entity.Table, error) {
	if err := f.gate(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.tables[id]
	t.Status = *p.Status
	f.tables[id] = t
	return &t, nil
}

func (f *fakeBackend) ClickTable(_ context.Context, id string) (*services.ClickResult, error) {
	if err := f.gate(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.tables[id]
	if t.Status != entity.TableAvailable {
		return &services.ClickResult{Table: t, Outcome: services.OutcomeConfirmClear}, nil
	}
	t.Status = entity.TableOccupied
	f.tables[id] = t
	return &services.ClickResult{Table: t, Outcome: services.OutcomeSeat}, nil
}

func (f *fakeBackend) ClearTable(_ context.Context, id string) (*entity.Table, error) {
	if err := f.gate(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.tables[id]
	t.Status = entity.TableAvailable
	f.tables[id] = t
	return &t, nil
}

func (f *fakeBackend) ListWaitlist(context.Context) ([]entity.WaitingGuest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entity.WaitingGuest{}
	for _, w := range f.wait {
		out = append(out, w)
	}
	return out, nil
}

func (f *fakeBackend) UpdateWaiting(_ context.Context, id string, p services.WaitingGuestPatch) (*entity.WaitingGuest, error) {
	if err := f.gate(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	w := f.wait[id]
	w.Status = *p.Status
	f.wait[id] = w
	return &w, nil
}

func (f *fakeBackend) DeleteWaiting(_ context.Context, id string) error {
	if err := f.gate(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.wait, id)
	return nil
}

func (f *fakeBackend) ListGuests(context.Context) ([]entity.Guest, error) { return nil, nil }
func (f *fakeBackend) ListReservations(context.Context) ([]entity.Reservation, error) {
	return nil, nil
}

func loaded(t *testing.T, b Backend) *State {
	t.Helper()
	s := NewState(b)
	require.NoError(t, s.Refresh(context.Background()))
	return s
}

func TestClickAppliesBeforeTheServerAnswers(t *testing.T) {
	b := newFakeBackend()
	b.release = make(chan struct{})
	s := loaded(t, b)

	p := s.ClickTable("t1")
	tbl, _ := s.Table("t1")
	assert.Equal(t, entity.TableOccupied, tbl.Status)
	select {
	case <-p.Done():
		t.Fatal("pending resolved before the backend answered")
	default:
	}
	assert.Nil(t, p.Err())

	close(b.release)
	require.NoError(t, p.Wait(context.Background()))
	res := p.Value().(*services.ClickResult)
	assert.Equal(t, services.OutcomeSeat, res.Outcome)
}

func TestFailedWriteRollsBack(t *testing.T) {
	b := newFakeBackend()
	b.fail = &APIError{Status: http.StatusConflict, Message: "conflict"}
	s := loaded(t, b)

	p := s.ClearTable("t2")
	tbl, _ := s.Table("t2")
	assert.Equal(t, entity.TableAvailable, tbl.Status)

	err := p.Wait(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	tbl, _ = s.Table("t2")
	assert.Equal(t, entity.TableOccupied, tbl.Status)

	p = s.SetTableStatus("t1", entity.TableReserved)
	require.Error(t, p.Wait(context.Background()))
	tbl, _ = s.Table("t1")
	assert.Equal(t, entity.TableAvailable, tbl.Status)
}

func TestWaitlistActionsRollBack(t *testing.T) {
	b := newFakeBackend()
	b.fail = errors.New("offline")
	s := loaded(t, b)

	p := s.DeleteWaitingGuest("w1")
	assert.Empty(t, s.Waitlist())
	require.Error(t, p.Wait(context.Background()))
	require.Len(t, s.Waitlist(), 1)

	p = s.UpdateWaitStatus("w1", entity.WaitCalled)
	assert.Equal(t, entity.WaitCalled, s.Waitlist()[0].Status)
	require.Error(t, p.Wait(context.Background()))
	assert.Equal(t, entity.WaitWaiting, s.Waitlist()[0].Status)

	b.mu.Lock()
	b.fail = nil
	b.mu.Unlock()
	require.NoError(t, s.UpdateWaitStatus("w1", entity.WaitSeated).Wait(context.Background()))
	assert.Equal(t, entity.WaitSeated, s.Waitlist()[0].Status)
}

func TestActionsRejectUnknownIDsImmediately(t *testing.T) {
	s := loaded(t, newFakeBackend())
	assert.ErrorIs(t, s.ClickTable("nope").Err(), services.ErrNotFound)
	assert.ErrorIs(t, s.SetTableStatus("t1", "broken").Err(), services.ErrInvalid)
	assert.ErrorIs(t, s.DeleteWaitingGuest("nope").Err(), services.ErrNotFound)
}

func TestClientEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/auth/login":
			_, _ = w.Write([]byte(`{"ok":true,"token":"tok-1"}`))
		case r.Header.Get("Authorization") != "Bearer tok-1":
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"ok":false,"error":"invalid token"}`))
		case r.Method == http.MethodGet && r.URL.Path == "/tables":
			_, _ = w.Write([]byte(`{"ok":true,"data":[{"id":"t1","name":"Table 1","capacity":4,"status":"available"}]}`))
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"ok":false,"error":"table is occupied"}`))
		}
	}))
	defer srv.Close()

	c := New(srv.URL+"/", "")
	_, err := c.ListTables(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	require.NoError(t, c.Login(context.Background(), "a@example.com", "pw"))
	tables, err := c.ListTables(context.Background())
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "Table 1", tables[0].Name)

	require.NoError(t, c.DeleteWaiting(context.Background(), "w1"))
	_, err = c.ClearTable(context.Background(), "t1")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "table is occupied", apiErr.Message)
}

func sampleSnapshot() *Snapshot {
	pk := time.FixedZone("PKT", 5*3600)
	visit := time.Date(2026, 3, 14, 20, 15, 0, 123000000, pk)
	tid := "t1"
	return &Snapshot{
		Version: SnapshotVersion,
		SavedAt: time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC),
		Tables: []entity.Table{
			{ID: "t1", Name: "Table 1", Capacity: 4, Status: entity.TableOccupied, CreatedAt: visit, UpdatedAt: visit},
		},
		Guests: []entity.Guest{{
			ID: "g1", Name: "Sara", NumberOfGuests: 2, TableID: &tid, Tables: "Table 1",
			VisitDate: visit, OrderType: entity.DineIn, PaymentMethod: billing.Card,
			OrderItems: []entity.OrderItem{{Name: "Chai", Price: 250, Quantity: 2}},
			Subtotal: 500, Tax: 40, Total: 540, Status: entity.GuestOpen,
		}},
		Reservations: []entity.Reservation{{
			ID: "r1", Name: "Hina", NumberOfGuests: 6, Status: entity.ReservationUpcoming,
			ReservationDate: time.Date(2026, 3, 20, 19, 0, 0, 0, time.UTC),
		}},
		Waitlist: []entity.WaitingGuest{{ID: "w1", TokenNumber: 3, Name: "Ali", NumberOfGuests: 4, Status: entity.WaitCalled}},
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	snap := sampleSnapshot()
	var buf bytes.Buffer
	require.NoError(t, EncodeSnapshot(&buf, snap))
	assert.Contains(t, buf.String(), `"visitDate": "2026-03-14T15:15:00.123Z"`)

	got, err := DecodeSnapshot(&buf)
	require.NoError(t, err)
	require.Len(t, got.Guests, 1)
	assert.True(t, got.Guests[0].VisitDate.Equal(snap.Guests[0].VisitDate))
	assert.Equal(t, time.UTC, got.Guests[0].VisitDate.Location())
	assert.Equal(t, snap.Guests[0].OrderItems, got.Guests[0].OrderItems)
	assert.Equal(t, int64(540), got.Guests[0].Total)
	assert.True(t, got.Reservations[0].ReservationDate.Equal(snap.Reservations[0].ReservationDate))
	assert.Equal(t, snap.Waitlist, got.Waitlist)
	assert.True(t, got.SavedAt.Equal(snap.SavedAt))
}

func TestDecodeSnapshotAcceptsUnixMillis(t *testing.T) {
	ms := time.Date(2025, 12, 31, 23, 59, 0, 0, time.UTC).UnixMilli()
	doc := map[string]any{
		"version": 1,
		"savedAt": ms,
		"guests":  []any{map[string]any{"id": "g1", "name": "Old", "visitDate": ms}},
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	got, err := DecodeSnapshot(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, ms, got.Guests[0].VisitDate.UnixMilli())
	assert.Equal(t, ms, got.SavedAt.UnixMilli())

	_, err = DecodeSnapshot(strings.NewReader(`{"version":1,"savedAt":"yesterday"}`))
	assert.Error(t, err)
	_, err = DecodeSnapshot(strings.NewReader(`{"version":9}`))
	assert.Error(t, err)
}

func TestSaveAndLoadSnapshotFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := NewState(newFakeBackend())
	s.Restore(sampleSnapshot())

	require.NoError(t, SaveSnapshot(path, s.Snapshot()))
	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)

	other := NewState(newFakeBackend())
	other.Restore(loaded)
	assert.Equal(t, len(s.Tables()), len(other.Tables()))
	assert.Equal(t, "Ali", other.Waitlist()[0].Name)
	matches, _ := filepath.Glob(filepath.Join(filepath.Dir(path), ".state.json.*"))
	assert.Empty(t, matches)
}
