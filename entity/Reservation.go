package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReservationStatus string

const (
	ReservationUpcoming ReservationStatus = "upcoming"
	ReservationSeated   ReservationStatus = "seated"
	ReservationCanceled ReservationStatus = "canceled"
)

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationUpcoming, ReservationSeated, ReservationCanceled:
		return true
	}
	return false
}

type Reservation struct {
	ID              string            `gorm:"primaryKey;size:36" json:"id"`
	Name            string            `gorm:"not null" json:"name"`
	Phone           string            `json:"phone"`
	Email           string            `json:"email,omitempty"`
	NumberOfGuests  int               `gorm:"not null" json:"numberOfGuests"`
	ReservationDate time.Time         `gorm:"index" json:"reservationDate"`
	Status          ReservationStatus `gorm:"not null;default:upcoming;index" json:"status"`
	Notes           string            `json:"notes,omitempty"`
	TableID         *string           `gorm:"size:36" json:"tableId,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = ReservationUpcoming
	}
	return nil
}

func (r *Reservation) BeforeSave(tx *gorm.DB) error {
	r.ReservationDate = r.ReservationDate.UTC()
	return nil
}
