package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"frontdesk/entity"
	"frontdesk/events"
	"frontdesk/repository"

	"gorm.io/gorm"
)

type TableService struct {
	DB     *gorm.DB
	Repo   *repository.TableRepository
	Guests *repository.GuestRepository
	Events events.Publisher
	Now    func() time.Time
}

func NewTableService(db *gorm.DB, repo *repository.TableRepository, guests *repository.GuestRepository, pub events.Publisher) *TableService {
	return &TableService{DB: db, Repo: repo, Guests: guests, Events: pub, Now: time.Now}
}

// ----- DTOs from Controller -----
type TableIn struct {
	Name     string             `json:"name" binding:"required"`
	Capacity int                `json:"capacity" binding:"required,min=1"`
	Status   entity.TableStatus `json:"status" binding:"omitempty,enum"`
}

func (in *TableIn) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("name", "is required")
	}
	if in.Capacity < 1 {
		return invalid("capacity", "must be at least 1")
	}
	if in.Status != "" && !in.Status.Valid() {
		return invalid("status", "must be available, occupied or reserved")
	}
	return nil
}

type TablePatch struct {
	Name     *string             `json:"name"`
	Capacity *int                `json:"capacity" binding:"omitempty,min=1"`
	Status   *entity.TableStatus `json:"status" binding:"omitempty,enum"`
}

type SeedTablesIn struct {
	From     int `json:"from" binding:"required,min=1"`
	To       int `json:"to" binding:"required,min=1"`
	Capacity int `json:"capacity" binding:"omitempty,min=1"`
}

type ClickOutcome string

const (
	// the table was just marked occupied; open guest intake with Draft
	OutcomeSeat ClickOutcome = "seat"
	// nothing changed; ask the operator before calling Clear
	OutcomeConfirmClear ClickOutcome = "confirm_clear"
)

// GuestDraft pre-fills the guest intake form for a freshly seated table.
type GuestDraft struct {
	Tables    string           `json:"tables"`
	TableID   string           `json:"tableId"`
	OrderType entity.OrderType `json:"orderType"`
	VisitDate time.Time        `json:"visitDate"`
}

type ClickResult struct {
	Table   entity.Table `json:"table"`
	Outcome ClickOutcome `json:"outcome"`
	Draft   *GuestDraft  `json:"draft,omitempty"`
}

const maxSeedRange = 500

func (s *TableService) List(ctx context.Context, status entity.TableStatus) ([]entity.Table, error) {
	if status != "" && !status.Valid() {
		return nil, invalid("status", "must be available, occupied or reserved")
	}
	return s.Repo.FindAll(ctx, status)
}

func (s *TableService) Get(ctx context.Context, id string) (*entity.Table, error) {
	t, err := s.Repo.FindByID(ctx, id)
	return t, dbErr(err, "table")
}

func (s *TableService) Create(ctx context.Context, in *TableIn) (*entity.Table, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	t := &entity.Table{Name: strings.TrimSpace(in.Name), Capacity: in.Capacity, Status: in.Status}
	if err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.Repo.Create(tx, t)
	}); err != nil {
		return nil, dbErr(err, "table")
	}
	publish(ctx, s.Events, events.TableCreated, "table", t.ID, t)
	return t, nil
}

// Update is the manual edit path. Any valid status may be set here,
// including available <-> reserved.
func (s *TableService) Update(ctx context.Context, id string, p *TablePatch) (*entity.Table, error) {
	var t *entity.Table
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if t, err = s.Repo.GetForUpdate(tx, id); err != nil {
			return err
		}
		if p.Name != nil {
			if strings.TrimSpace(*p.Name) == "" {
				return invalid("name", "is required")
			}
			t.Name = strings.TrimSpace(*p.Name)
		}
		if p.Capacity != nil {
			if *p.Capacity < 1 {
				return invalid("capacity", "must be at least 1")
			}
			t.Capacity = *p.Capacity
		}
		if p.Status != nil {
			if !p.Status.Valid() {
				return invalid("status", "must be available, occupied or reserved")
			}
			t.Status = *p.Status
		}
		return s.Repo.Save(tx, t)
	})
	if err != nil {
		return nil, dbErr(err, "table")
	}
	publish(ctx, s.Events, events.TableUpdated, "table", t.ID, t)
	return t, nil
}

// Delete removes the table only. Guests that recorded its name keep it.
func (s *TableService) Delete(ctx context.Context, id string) error {
	var n int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		n, err = s.Repo.Delete(tx, id)
		return err
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return dbErr(gorm.ErrRecordNotFound, "table")
	}
	publish(ctx, s.Events, events.TableDeleted, "table", id, nil)
	return nil
}

// Click is the floor-plan tap. An available table is marked occupied at
// once and the caller gets a guest draft; an occupied or reserved table is
// left alone and the caller must confirm with Clear.
func (s *TableService) Click(ctx context.Context, id string) (*ClickResult, error) {
	var out *ClickResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := s.Repo.GetForUpdate(tx, id)
		if err != nil {
			return err
		}
		if t.Status != entity.TableAvailable {
			out = &ClickResult{Table: *t, Outcome: OutcomeConfirmClear}
			return nil
		}
		if err := s.occupy(tx, t, entity.TableAvailable); err != nil {
			return err
		}
		out = &ClickResult{
			Table:   *t,
			Outcome: OutcomeSeat,
			Draft: &GuestDraft{
				Tables:    t.Name,
				TableID:   t.ID,
				OrderType: entity.DineIn,
				VisitDate: s.Now(),
			},
		}
		return nil
	})
	if err != nil {
		return nil, dbErr(err, "table")
	}
	if out.Outcome == OutcomeSeat {
		publish(ctx, s.Events, events.TableUpdated, "table", out.Table.ID, out.Table)
	}
	return out, nil
}

// Clear confirms that an occupied or reserved table is free again.
func (s *TableService) Clear(ctx context.Context, id string) (*entity.Table, error) {
	return s.release(ctx, id, entity.TableOccupied, entity.TableReserved)
}

// CancelSeating undoes a Click whose guest intake was abandoned.
func (s *TableService) CancelSeating(ctx context.Context, id string) (*entity.Table, error) {
	return s.release(ctx, id, entity.TableOccupied)
}

func (s *TableService) release(ctx context.Context, id string, from ...entity.TableStatus) (*entity.Table, error) {
	var t *entity.Table
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if t, err = s.Repo.GetForUpdate(tx, id); err != nil {
			return err
		}
		n, err := s.Repo.UpdateStatusGuard(tx, id, from, entity.TableAvailable)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("table %s is %s: %w", t.Name, t.Status, ErrConflict)
		}
		t.Status = entity.TableAvailable
		return nil
	})
	if err != nil {
		return nil, dbErr(err, "table")
	}
	publish(ctx, s.Events, events.TableUpdated, "table", t.ID, t)
	return t, nil
}

// SeatWalkIn marks the table occupied and records the guest in one
// transaction; neither happens without the other.
func (s *TableService) SeatWalkIn(ctx context.Context, id string, in *GuestIn) (*entity.Guest, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var (
		t *entity.Table
		g = &entity.Guest{}
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if t, err = s.Repo.GetForUpdate(tx, id); err != nil {
			return dbErr(err, "table")
		}
		if err := s.occupy(tx, t, entity.TableAvailable); err != nil {
			return err
		}
		in.Tables, in.TableID, in.OrderType = t.Name, &t.ID, entity.DineIn
		in.apply(g, s.Now())
		return dbErr(s.Guests.Create(tx, g), "guest")
	})
	if err != nil {
		return nil, err
	}
	publish(ctx, s.Events, events.TableUpdated, "table", t.ID, t)
	publish(ctx, s.Events, events.GuestCreated, "guest", g.ID, g)
	return g, nil
}

// occupy moves t to occupied if it is still in one of from.
func (s *TableService) occupy(tx *gorm.DB, t *entity.Table, from ...entity.TableStatus) error {
	n, err := s.Repo.UpdateStatusGuard(tx, t.ID, from, entity.TableOccupied)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("table %s is no longer %s: %w", t.Name, from[0], ErrConflict)
	}
	t.Status = entity.TableOccupied
	return nil
}

// SeedRange creates "Table <n>" for every n in [from, to] in one batch.
func (s *TableService) SeedRange(ctx context.Context, in *SeedTablesIn) ([]entity.Table, error) {
	if in.From < 1 || in.To < in.From {
		return nil, invalid("to", "range must satisfy 1 <= from <= to")
	}
	if in.To-in.From+1 > maxSeedRange {
		return nil, invalid("to", fmt.Sprintf("at most %d tables per batch", maxSeedRange))
	}
	capacity := in.Capacity
	if capacity == 0 {
		capacity = 4
	}
	tables := make([]entity.Table, 0, in.To-in.From+1)
	for n := in.From; n <= in.To; n++ {
		tables = append(tables, entity.Table{Name: fmt.Sprintf("Table %d", n), Capacity: capacity})
	}
	return s.createBatch(ctx, tables)
}

func (s *TableService) createBatch(ctx context.Context, tables []entity.Table) ([]entity.Table, error) {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.Repo.CreateBatch(tx, tables)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("batch rejected, a table name already exists: %w", ErrConflict)
		}
		return nil, err
	}
	publish(ctx, s.Events, events.TablesImported, "table", "", map[string]int{"count": len(tables)})
	return tables, nil
}
