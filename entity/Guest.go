package entity

import (
	"time"

	"frontdesk/billing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderType string

const (
	DineIn   OrderType = "dine-in"
	Takeaway OrderType = "takeaway"
)

func (t OrderType) Valid() bool { return t == DineIn || t == Takeaway }

type GuestStatus string

const (
	GuestOpen   GuestStatus = "open"
	GuestClosed GuestStatus = "closed"
)

func (s GuestStatus) Valid() bool { return s == GuestOpen || s == GuestClosed }

// Guest is a walk-in or takeaway party and the order attached to it.
// Subtotal, Tax and Total are derived from OrderItems and PaymentMethod.
type Guest struct {
	ID             string         `gorm:"primaryKey;size:36" json:"id"`
	Name           string         `gorm:"not null" json:"name"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone,omitempty"`
	NumberOfGuests int            `gorm:"not null;default:1" json:"numberOfGuests"`
	Tables         string         `json:"tables"`
	TableID        *string        `gorm:"size:36;index" json:"tableId,omitempty"`
	VisitDate      time.Time      `gorm:"index" json:"visitDate"`
	Preferences    string         `json:"preferences,omitempty"`
	Feedback       string         `json:"feedback,omitempty"`
	OrderType      OrderType      `gorm:"not null;default:dine-in" json:"orderType"`
	PaymentMethod  billing.Method `gorm:"not null;default:cash" json:"paymentMethod"`
	OrderItems     []OrderItem    `gorm:"foreignKey:GuestID" json:"orderItems"`
	Subtotal       int64          `json:"subtotal"`
	Tax            int64          `json:"tax"`
	Total          int64          `json:"total"`
	Status         GuestStatus    `gorm:"not null;default:open" json:"status"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

func (g *Guest) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.Status == "" {
		g.Status = GuestOpen
	}
	return nil
}

func (g *Guest) BeforeSave(tx *gorm.DB) error {
	g.VisitDate = g.VisitDate.UTC()
	return nil
}

// Order rebuilds the billing view of the guest's line items.
func (g *Guest) Order() *billing.Order {
	o := &billing.Order{Method: g.PaymentMethod}
	for _, it := range g.OrderItems {
		o.Lines = append(o.Lines, billing.Line{Name: it.Name, Price: it.Price, Quantity: it.Quantity})
	}
	return o
}

// ApplyOrder replaces the line items and derived totals with the order's.
func (g *Guest) ApplyOrder(o *billing.Order) {
	g.PaymentMethod = o.Method
	g.OrderItems = g.OrderItems[:0]
	for i, l := range o.Lines {
		g.OrderItems = append(g.OrderItems, OrderItem{
			GuestID:  g.ID,
			Name:     l.Name,
			Price:    l.Price,
			Quantity: l.Quantity,
			Position: i,
		})
	}
	t := o.Totals()
	g.Subtotal, g.Tax, g.Total = t.Subtotal, t.Tax, t.Total
}
