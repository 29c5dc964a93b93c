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

type ReservationService struct {
	DB     *gorm.DB
	Repo   *repository.ReservationRepository
	Tables *repository.TableRepository
	Events events.Publisher
}

func NewReservationService(db *gorm.DB, repo *repository.ReservationRepository, tables *repository.TableRepository, pub events.Publisher) *ReservationService {
	return &ReservationService{DB: db, Repo: repo, Tables: tables, Events: pub}
}

type ReservationIn struct {
	Name            string                   `json:"name" binding:"required,min=2"`
	Phone           string                   `json:"phone"`
	Email           string                   `json:"email" binding:"omitempty,email"`
	NumberOfGuests  int                      `json:"numberOfGuests" binding:"required,min=1"`
	ReservationDate time.Time                `json:"reservationDate"`
	Status          entity.ReservationStatus `json:"status" binding:"omitempty,enum"`
	Notes           string                   `json:"notes"`
	TableID         *string                  `json:"tableId"`
}

func (in *ReservationIn) Validate() error {
	if len(strings.TrimSpace(in.Name)) < 2 {
		return invalid("name", "must be at least 2 characters")
	}
	if in.NumberOfGuests < 1 {
		return invalid("numberOfGuests", "must be at least 1")
	}
	if in.ReservationDate.IsZero() {
		return invalid("reservationDate", "is required")
	}
	if in.Status != "" && !in.Status.Valid() {
		return invalid("status", "must be upcoming, seated or canceled")
	}
	return nil
}

func (in *ReservationIn) apply(r *entity.Reservation) {
	r.Name = strings.TrimSpace(in.Name)
	r.Phone = strings.TrimSpace(in.Phone)
	r.Email = strings.ToLower(strings.TrimSpace(in.Email))
	r.NumberOfGuests = in.NumberOfGuests
	r.ReservationDate = in.ReservationDate
	r.Notes = in.Notes
	r.TableID = in.TableID
	if in.Status != "" {
		r.Status = in.Status
	}
}

type ReservationStatusIn struct {
	Status entity.ReservationStatus `json:"status" binding:"required,enum"`
}

func (s *ReservationService) List(ctx context.Context, f repository.ReservationFilter) ([]entity.Reservation, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, invalid("status", "must be upcoming, seated or canceled")
	}
	return s.Repo.FindAll(ctx, f)
}

func (s *ReservationService) Get(ctx context.Context, id string) (*entity.Reservation, error) {
	r, err := s.Repo.FindByID(ctx, id)
	return r, dbErr(err, "reservation")
}

func (s *ReservationService) Create(ctx context.Context, in *ReservationIn) (*entity.Reservation, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	r := &entity.Reservation{}
	in.apply(r)
	if err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.Repo.Create(tx, r)
	}); err != nil {
		return nil, dbErr(err, "reservation")
	}
	publish(ctx, s.Events, events.ReservationCreated, "reservation", r.ID, r)
	return r, nil
}

func (s *ReservationService) Update(ctx context.Context, id string, in *ReservationIn) (*entity.Reservation, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(tx *gorm.DB, r *entity.Reservation) error {
		in.apply(r)
		return nil
	})
}

func (s *ReservationService) SetStatus(ctx context.Context, id string, st entity.ReservationStatus) (*entity.Reservation, error) {
	if !st.Valid() {
		return nil, invalid("status", "must be upcoming, seated or canceled")
	}
	return s.mutate(ctx, id, func(tx *gorm.DB, r *entity.Reservation) error {
		r.Status = st
		return nil
	})
}

// Seat puts the party at a table that is free or held for them.
func (s *ReservationService) Seat(ctx context.Context, id, tableID string) (*entity.Reservation, error) {
	var t *entity.Table
	r, err := s.mutate(ctx, id, func(tx *gorm.DB, r *entity.Reservation) error {
		if r.Status == entity.ReservationCanceled {
			return fmt.Errorf("reservation is canceled: %w", ErrConflict)
		}
		var err error
		if t, err = s.Tables.GetForUpdate(tx, tableID); err != nil {
			return dbErr(err, "table")
		}
		n, err := s.Tables.UpdateStatusGuard(tx, t.ID,
			[]entity.TableStatus{entity.TableAvailable, entity.TableReserved}, entity.TableOccupied)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("table %s is %s: %w", t.Name, t.Status, ErrConflict)
		}
		t.Status = entity.TableOccupied
		r.Status = entity.ReservationSeated
		r.TableID = &t.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	publish(ctx, s.Events, events.TableUpdated, "table", t.ID, t)
	return r, nil
}

func (s *ReservationService) Delete(ctx context.Context, id string) error {
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
		return dbErr(gorm.ErrRecordNotFound, "reservation")
	}
	publish(ctx, s.Events, events.ReservationDeleted, "reservation", id, nil)
	return nil
}

func (s *ReservationService) mutate(ctx context.Context, id string, fn func(*gorm.DB, *entity.Reservation) error) (*entity.Reservation, error) {
	var r *entity.Reservation
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if r, err = s.Repo.GetForUpdate(tx, id); err != nil {
			return err
		}
		if err := fn(tx, r); err != nil {
			return err
		}
		return s.Repo.Save(tx, r)
	})
	if err != nil {
		return nil, dbErr(err, "reservation")
	}
	publish(ctx, s.Events, events.ReservationUpdated, "reservation", r.ID, r)
	return r, nil
}
