package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"frontdesk/entity"
	"frontdesk/events"
	"frontdesk/repository"

	"gorm.io/gorm"
)

type WaitlistService struct {
	DB     *gorm.DB
	Repo   *repository.WaitlistRepository
	Tables *repository.TableRepository
	Events events.Publisher
}

func NewWaitlistService(db *gorm.DB, repo *repository.WaitlistRepository, tables *repository.TableRepository, pub events.Publisher) *WaitlistService {
	return &WaitlistService{DB: db, Repo: repo, Tables: tables, Events: pub}
}

// ----- DTOs from Controller -----
type WaitingGuestIn struct {
	Name              string `json:"name" binding:"required"`
	Phone             string `json:"phone"`
	NumberOfGuests    int    `json:"numberOfGuests" binding:"required,min=1"`
	EstimatedWaitTime *int   `json:"estimatedWaitTime" binding:"omitempty,min=0"`
}

func (in *WaitingGuestIn) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("name", "is required")
	}
	if in.NumberOfGuests < 1 {
		return invalid("numberOfGuests", "must be at least 1")
	}
	if in.EstimatedWaitTime != nil && *in.EstimatedWaitTime < 0 {
		return invalid("estimatedWaitTime", "must not be negative")
	}
	return nil
}

type WaitingGuestPatch struct {
	Name              *string            `json:"name"`
	Phone             *string            `json:"phone"`
	NumberOfGuests    *int               `json:"numberOfGuests" binding:"omitempty,min=1"`
	Status            *entity.WaitStatus `json:"status" binding:"omitempty,enum"`
	EstimatedWaitTime *int               `json:"estimatedWaitTime" binding:"omitempty,min=0"`
}

type AssignTableIn struct {
	TableID string `json:"tableId" binding:"required"`
}

// TokenSlip is what gets printed for the party.
type TokenSlip struct {
	TokenNumber    int       `json:"tokenNumber"`
	Name           string    `json:"name"`
	NumberOfGuests int       `json:"numberOfGuests"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (s *WaitlistService) List(ctx context.Context, status entity.WaitStatus) ([]entity.WaitingGuest, error) {
	if status != "" && !status.Valid() {
		return nil, invalid("status", "must be waiting, called or seated")
	}
	return s.Repo.FindAll(ctx, status)
}

func (s *WaitlistService) Get(ctx context.Context, id string) (*entity.WaitingGuest, error) {
	w, err := s.Repo.FindByID(ctx, id)
	return w, dbErr(err, "waiting guest")
}

// Add issues the next token and enqueues the party as waiting. Issuing and
// inserting share one transaction, so two concurrent adds never see the
// same token.
func (s *WaitlistService) Add(ctx context.Context, in *WaitingGuestIn) (*entity.WaitingGuest, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	w := &entity.WaitingGuest{
		Name:              strings.TrimSpace(in.Name),
		Phone:             strings.TrimSpace(in.Phone),
		NumberOfGuests:    in.NumberOfGuests,
		Status:            entity.WaitWaiting,
		EstimatedWaitTime: in.EstimatedWaitTime,
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		token, err := s.Repo.NextToken(tx)
		if err != nil {
			return err
		}
		w.TokenNumber = token
		return s.Repo.Create(tx, w)
	})
	if err != nil {
		return nil, dbErr(err, "token")
	}
	publish(ctx, s.Events, events.WaitlistAdded, "waitlist", w.ID, w)
	return w, nil
}

// Update allows any move among waiting, called and seated so staff can
// correct mistakes.
func (s *WaitlistService) Update(ctx context.Context, id string, p *WaitingGuestPatch) (*entity.WaitingGuest, error) {
	var w *entity.WaitingGuest
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if w, err = s.Repo.GetForUpdate(tx, id); err != nil {
			return err
		}
		if p.Name != nil {
			if strings.TrimSpace(*p.Name) == "" {
				return invalid("name", "is required")
			}
			w.Name = strings.TrimSpace(*p.Name)
		}
		if p.Phone != nil {
			w.Phone = strings.TrimSpace(*p.Phone)
		}
		if p.NumberOfGuests != nil {
			if *p.NumberOfGuests < 1 {
				return invalid("numberOfGuests", "must be at least 1")
			}
			w.NumberOfGuests = *p.NumberOfGuests
		}
		if p.Status != nil {
			if !p.Status.Valid() {
				return invalid("status", "must be waiting, called or seated")
			}
			w.Status = *p.Status
		}
		if p.EstimatedWaitTime != nil {
			if *p.EstimatedWaitTime < 0 {
				return invalid("estimatedWaitTime", "must not be negative")
			}
			w.EstimatedWaitTime = p.EstimatedWaitTime
		}
		return s.Repo.Save(tx, w)
	})
	if err != nil {
		return nil, dbErr(err, "waiting guest")
	}
	publish(ctx, s.Events, events.WaitlistUpdated, "waitlist", w.ID, w)
	return w, nil
}

func (s *WaitlistService) Delete(ctx context.Context, id string) error {
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
		return dbErr(gorm.ErrRecordNotFound, "waiting guest")
	}
	publish(ctx, s.Events, events.WaitlistDeleted, "waitlist", id, nil)
	return nil
}

func (s *WaitlistService) Slip(ctx context.Context, id string) (*TokenSlip, error) {
	w, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &TokenSlip{
		TokenNumber:    w.TokenNumber,
		Name:           w.Name,
		NumberOfGuests: w.NumberOfGuests,
		CreatedAt:      w.CreatedAt,
	}, nil
}

// AssignTable seats a waiting party at an available table. The table turns
// occupied and the entry turns seated together, or neither does.
func (s *WaitlistService) AssignTable(ctx context.Context, id, tableID string) (*entity.WaitingGuest, error) {
	var (
		w *entity.WaitingGuest
		t *entity.Table
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if w, err = s.Repo.GetForUpdate(tx, id); err != nil {
			return dbErr(err, "waiting guest")
		}
		if w.Status == entity.WaitSeated {
			return fmt.Errorf("token %d is already seated: %w", w.TokenNumber, ErrConflict)
		}
		if t, err = s.Tables.GetForUpdate(tx, tableID); err != nil {
			return dbErr(err, "table")
		}
		n, err := s.Tables.UpdateStatusGuard(tx, t.ID, []entity.TableStatus{entity.TableAvailable}, entity.TableOccupied)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("table %s is %s: %w", t.Name, t.Status, ErrConflict)
		}
		t.Status = entity.TableOccupied
		w.Status = entity.WaitSeated
		w.TableID = &t.ID
		return s.Repo.Save(tx, w)
	})
	if err != nil {
		return nil, err
	}
	publish(ctx, s.Events, events.TableUpdated, "table", t.ID, t)
	publish(ctx, s.Events, events.WaitlistUpdated, "waitlist", w.ID, w)
	return w, nil
}
