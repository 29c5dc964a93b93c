// Package events carries change notifications for tables, the waitlist,
// guests and reservations to live subscribers.
package events

import (
	"context"
	"errors"
	"sync"
	"time"
)

const (
	TableCreated   = "table.created"
	TableUpdated   = "table.updated"
	TableDeleted   = "table.deleted"
	TablesImported = "table.imported"

	WaitlistAdded   = "waitlist.added"
	WaitlistUpdated = "waitlist.updated"
	WaitlistDeleted = "waitlist.deleted"

	GuestCreated = "guest.created"
	GuestUpdated = "guest.updated"
	GuestDeleted = "guest.deleted"

	ReservationCreated = "reservation.created"
	ReservationUpdated = "reservation.updated"
	ReservationDeleted = "reservation.deleted"

	MenuChanged = "menu.changed"
)

type Event struct {
	Type   string    `json:"type"`
	Entity string    `json:"entity"`
	ID     string    `json:"id,omitempty"`
	Data   any       `json:"data,omitempty"`
	At     time.Time `json:"at"`
}

func New(typ, entity, id string, data any) Event {
	return Event{Type: typ, Entity: entity, ID: id, Data: data, At: time.Now().UTC()}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Multi publishes to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	Events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, e)
	return nil
}

func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		out = append(out, e.Type)
	}
	return out
}
