package client

import (
	"context"
	"sort"
	"sync"
	"time"

	"frontdesk/entity"
	"frontdesk/services"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Backend is the slice of the API that State writes through.
type Backend interface {
	ListTables(ctx context.Context) ([]entity.Table, error)
	UpdateTable(ctx context.Context, id string, p services.TablePatch) (*entity.Table, error)
	ClickTable(ctx context.Context, id string) (*services.ClickResult, error)
	ClearTable(ctx context.Context, id string) (*entity.Table, error)
	ListWaitlist(ctx context.Context) ([]entity.WaitingGuest, error)
	UpdateWaiting(ctx context.Context, id string, p services.WaitingGuestPatch) (*entity.WaitingGuest, error)
	DeleteWaiting(ctx context.Context, id string) error
	ListGuests(ctx context.Context) ([]entity.Guest, error)
	ListReservations(ctx context.Context) ([]entity.Reservation, error)
}

// Pending tracks one remote write started by a State action.
type Pending struct {
	done  chan struct{}
	err   error
	value any
}

func newPending() *Pending { return &Pending{done: make(chan struct{})} }

func (p *Pending) resolve(v any, err error) {
	p.value, p.err = v, err
	close(p.done)
}

// Done is closed once the remote write has finished.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Err is the remote error; nil until Done is closed.
func (p *Pending) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

// Value is the server's answer after a successful write.
func (p *Pending) Value() any {
	select {
	case <-p.done:
		return p.value
	default:
		return nil
	}
}

// Wait blocks until the write finishes or ctx ends.
func (p *Pending) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State is the local view of the floor. Actions update it at once and
// write through to the backend in the background; a failed write puts the
// previous value back.
type State struct {
	backend Backend
	timeout time.Duration

	mu           sync.RWMutex
	tables       map[string]entity.Table
	waitlist     map[string]entity.WaitingGuest
	guests       []entity.Guest
	reservations []entity.Reservation
}

func NewState(b Backend) *State {
	return &State{
		backend:  b,
		timeout:  15 * time.Second,
		tables:   map[string]entity.Table{},
		waitlist: map[string]entity.WaitingGuest{},
	}
}

// Refresh replaces the local copy with the server's.
func (s *State) Refresh(ctx context.Context) error {
	var (
		tables []entity.Table
		wait   []entity.WaitingGuest
		guests []entity.Guest
		res    []entity.Reservation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { tables, err = s.backend.ListTables(gctx); return })
	g.Go(func() (err error) { wait, err = s.backend.ListWaitlist(gctx); return })
	g.Go(func() (err error) { guests, err = s.backend.ListGuests(gctx); return })
	g.Go(func() (err error) { res, err = s.backend.ListReservations(gctx); return })
	if err := g.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables = make(map[string]entity.Table, len(tables))
	for _, t := range tables {
		s.tables[t.ID] = t
	}
	s.waitlist = make(map[string]entity.WaitingGuest, len(wait))
	for _, w := range wait {
		s.waitlist[w.ID] = w
	}
	s.guests, s.reservations = guests, res
	return nil
}

func (s *State) Tables() []entity.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Table, 0, len(s.tables))
	for _, t := range s.tables {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *State) Table(id string) (entity.Table, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tables[id]
	return t, ok
}

func (s *State) Waitlist() []entity.WaitingGuest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.WaitingGuest, 0, len(s.waitlist))
	for _, w := range s.waitlist {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TokenNumber < out[j].TokenNumber })
	return out
}

// run performs the remote call off the caller's goroutine.
func (s *State) run(fn func(ctx context.Context) (any, error), rollback func()) *Pending {
	p := newPending()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		v, err := fn(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("remote write failed, rolling back")
			rollback()
		}
		p.resolve(v, err)
	}()
	return p
}

func failed(err error) *Pending {
	p := newPending()
	p.resolve(nil, err)
	return p
}

// setTable stores t and returns a rollback that restores prev, unless
// something else changed the table in the meantime.
func (s *State) setTable(t entity.Table, prev entity.Table) func() {
	s.tables[t.ID] = t
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if cur, ok := s.tables[t.ID]; ok && cur.Status == t.Status {
			s.tables[t.ID] = prev
		}
	}
}

func (s *State) confirmTable(t *entity.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[t.ID] = *t
}

// SetTableStatus is the manual status edit.
func (s *State) SetTableStatus(id string, st entity.TableStatus) *Pending {
	if !st.Valid() {
		return failed(services.ErrInvalid)
	}
	s.mu.Lock()
	prev, ok := s.tables[id]
	if !ok {
		s.mu.Unlock()
		return failed(services.ErrNotFound)
	}
	next := prev
	next.Status = st
	rollback := s.setTable(next, prev)
	s.mu.Unlock()

	return s.run(func(ctx context.Context) (any, error) {
		t, err := s.backend.UpdateTable(ctx, id, services.TablePatch{Status: &st})
		if err != nil {
			return nil, err
		}
		s.confirmTable(t)
		return t, nil
	}, rollback)
}

// ClickTable seats an available table at once. For an occupied or
// reserved table nothing changes locally; the result asks for a Clear.
func (s *State) ClickTable(id string) *Pending {
	s.mu.Lock()
	prev, ok := s.tables[id]
	if !ok {
		s.mu.Unlock()
		return failed(services.ErrNotFound)
	}
	rollback := func() {}
	if prev.Status == entity.TableAvailable {
		next := prev
		next.Status = entity.TableOccupied
		rollback = s.setTable(next, prev)
	}
	s.mu.Unlock()

	return s.run(func(ctx context.Context) (any, error) {
		res, err := s.backend.ClickTable(ctx, id)
		if err != nil {
			return nil, err
		}
		s.confirmTable(&res.Table)
		return res, nil
	}, rollback)
}

// ClearTable frees an occupied or reserved table after confirmation.
func (s *State) ClearTable(id string) *Pending {
	s.mu.Lock()
	prev, ok := s.tables[id]
	if !ok {
		s.mu.Unlock()
		return failed(services.ErrNotFound)
	}
	next := prev
	next.Status = entity.TableAvailable
	rollback := s.setTable(next, prev)
	s.mu.Unlock()

	return s.run(func(ctx context.Context) (any, error) {
		t, err := s.backend.ClearTable(ctx, id)
		if err != nil {
			return nil, err
		}
		s.confirmTable(t)
		return t, nil
	}, rollback)
}

func (s *State) UpdateWaitStatus(id string, st entity.WaitStatus) *Pending {
	if !st.Valid() {
		return failed(services.ErrInvalid)
	}
	s.mu.Lock()
	prev, ok := s.waitlist[id]
	if !ok {
		s.mu.Unlock()
		return failed(services.ErrNotFound)
	}
	next := prev
	next.Status = st
	s.waitlist[id] = next
	s.mu.Unlock()

	rollback := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if cur, ok := s.waitlist[id]; ok && cur.Status == st {
			s.waitlist[id] = prev
		}
	}
	return s.run(func(ctx context.Context) (any, error) {
		w, err := s.backend.UpdateWaiting(ctx, id, services.WaitingGuestPatch{Status: &st})
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.waitlist[id] = *w
		s.mu.Unlock()
		return w, nil
	}, rollback)
}

func (s *State) DeleteWaitingGuest(id string) *Pending {
	s.mu.Lock()
	prev, ok := s.waitlist[id]
	if !ok {
		s.mu.Unlock()
		return failed(services.ErrNotFound)
	}
	delete(s.waitlist, id)
	s.mu.Unlock()

	rollback := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.waitlist[id]; !ok {
			s.waitlist[id] = prev
		}
	}
	return s.run(func(ctx context.Context) (any, error) {
		return nil, s.backend.DeleteWaiting(ctx, id)
	}, rollback)
}

// Snapshot copies the local state.
func (s *State) Snapshot() *Snapshot {
	tables, wait := s.Tables(), s.Waitlist()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &Snapshot{
		Version:      SnapshotVersion,
		SavedAt:      time.Now().UTC(),
		Tables:       tables,
		Waitlist:     wait,
		Guests:       append([]entity.Guest(nil), s.guests...),
		Reservations: append([]entity.Reservation(nil), s.reservations...),
	}
}

// Restore replaces the local state with snap.
func (s *State) Restore(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables = make(map[string]entity.Table, len(snap.Tables))
	for _, t := range snap.Tables {
		s.tables[t.ID] = t
	}
	s.waitlist = make(map[string]entity.WaitingGuest, len(snap.Waitlist))
	for _, w := range snap.Waitlist {
		s.waitlist[w.ID] = w
	}
	s.guests = append([]entity.Guest(nil), snap.Guests...)
	s.reservations = append([]entity.Reservation(nil), snap.Reservations...)
}
