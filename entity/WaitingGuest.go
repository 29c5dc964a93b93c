package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WaitStatus string

const (
	WaitWaiting WaitStatus = "waiting"
	WaitCalled  WaitStatus = "called"
	WaitSeated  WaitStatus = "seated"
)

func (s WaitStatus) Valid() bool {
	switch s {
	case WaitWaiting, WaitCalled, WaitSeated:
		return true
	}
	return false
}

type WaitingGuest struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	TokenNumber    int        `gorm:"uniqueIndex;not null" json:"tokenNumber"`
	Name           string     `gorm:"not null" json:"name"`
	Phone          string     `json:"phone,omitempty"`
	NumberOfGuests int        `gorm:"not null" json:"numberOfGuests"`
	Status         WaitStatus `gorm:"not null;default:waiting;index" json:"status"`
	// minutes
	EstimatedWaitTime *int      `json:"estimatedWaitTime,omitempty"`
	TableID           *string   `gorm:"size:36" json:"tableId,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func (w *WaitingGuest) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.Status == "" {
		w.Status = WaitWaiting
	}
	return nil
}

const WaitlistTokenCounter = "waitlist_token"

// Counter is a named monotonic sequence, one row per sequence.
type Counter struct {
	Name  string `gorm:"primaryKey;size:64"`
	Value int    `gorm:"not null;default:0"`
}
