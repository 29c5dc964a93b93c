package services

import (
	"context"
	"strings"
	"time"

	"frontdesk/billing"
	"frontdesk/entity"
	"frontdesk/events"
	"frontdesk/repository"

	"gorm.io/gorm"
)

type GuestService struct {
	DB     *gorm.DB
	Repo   *repository.GuestRepository
	Menu   *repository.MenuRepository
	Events events.Publisher
	Now    func() time.Time
}

func NewGuestService(db *gorm.DB, repo *repository.GuestRepository, menu *repository.MenuRepository, pub events.Publisher) *GuestService {
	return &GuestService{DB: db, Repo: repo, Menu: menu, Events: pub, Now: time.Now}
}

// ----- DTOs from Controller -----
type GuestIn struct {
	Name           string             `json:"name" binding:"required,min=2"`
	Email          string             `json:"email" binding:"omitempty,email"`
	Phone          string             `json:"phone"`
	NumberOfGuests int                `json:"numberOfGuests" binding:"omitempty,min=1"`
	Tables         string             `json:"tables"`
	TableID        *string            `json:"tableId"`
	VisitDate      *time.Time         `json:"visitDate"`
	Preferences    string             `json:"preferences"`
	Feedback       string             `json:"feedback"`
	OrderType      entity.OrderType   `json:"orderType" binding:"omitempty,enum"`
	PaymentMethod  billing.Method     `json:"paymentMethod" binding:"omitempty,enum"`
	OrderItems     []billing.Line     `json:"orderItems"`
	Status         entity.GuestStatus `json:"status" binding:"omitempty,enum"`
}

func (in *GuestIn) Validate() error {
	if len(strings.TrimSpace(in.Name)) < 2 {
		return invalid("name", "must be at least 2 characters")
	}
	if in.NumberOfGuests < 0 {
		return invalid("numberOfGuests", "must be at least 1")
	}
	if in.OrderType != "" && !in.OrderType.Valid() {
		return invalid("orderType", "must be dine-in or takeaway")
	}
	if in.PaymentMethod != "" && !in.PaymentMethod.Valid() {
		return invalid("paymentMethod", "must be cash or card")
	}
	if in.Status != "" && !in.Status.Valid() {
		return invalid("status", "must be open or closed")
	}
	for _, l := range in.OrderItems {
		if err := l.Validate(); err != nil {
			return invalid("orderItems", err.Error())
		}
	}
	return nil
}

// apply copies the input onto g and recomputes the derived totals.
func (in *GuestIn) apply(g *entity.Guest, now time.Time) {
	g.Name = strings.TrimSpace(in.Name)
	g.Email = strings.ToLower(strings.TrimSpace(in.Email))
	g.Phone = strings.TrimSpace(in.Phone)
	g.NumberOfGuests = in.NumberOfGuests
	if g.NumberOfGuests == 0 {
		g.NumberOfGuests = 1
	}
	g.Tables = strings.TrimSpace(in.Tables)
	g.TableID = in.TableID
	switch {
	case in.VisitDate != nil:
		g.VisitDate = *in.VisitDate
	case g.VisitDate.IsZero():
		g.VisitDate = now
	}
	g.Preferences = in.Preferences
	g.Feedback = in.Feedback
	g.OrderType = in.OrderType
	if g.OrderType == "" {
		g.OrderType = entity.DineIn
	}
	if in.Status != "" {
		g.Status = in.Status
	}

	method := in.PaymentMethod
	if method == "" {
		method = billing.Cash
	}
	order := &billing.Order{Method: method}
	for _, l := range in.OrderItems {
		l.Name = strings.TrimSpace(l.Name)
		order.AddLine(l)
	}
	g.ApplyOrder(order)
}

type AddItemIn struct {
	MenuItemID string `json:"menuItemId"`
	Name       string `json:"name"`
	Price      *int64 `json:"price" binding:"omitempty,min=0"`
}

type SetQuantityIn struct {
	Name     string `json:"name" binding:"required"`
	Quantity int    `json:"quantity"`
}

type PaymentIn struct {
	PaymentMethod billing.Method `json:"paymentMethod" binding:"required,enum"`
}

func (s *GuestService) List(ctx context.Context, f repository.GuestFilter) ([]entity.Guest, error) {
	return s.Repo.FindAll(ctx, f)
}

func (s *GuestService) Get(ctx context.Context, id string) (*entity.Guest, error) {
	g, err := s.Repo.FindByID(ctx, id)
	return g, dbErr(err, "guest")
}

func (s *GuestService) Create(ctx context.Context, in *GuestIn) (*entity.Guest, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	g := &entity.Guest{}
	in.apply(g, s.Now())
	if err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.Repo.Create(tx, g)
	}); err != nil {
		return nil, dbErr(err, "guest")
	}
	publish(ctx, s.Events, events.GuestCreated, "guest", g.ID, g)
	return g, nil
}

// Update replaces every editable field. Derived totals are recomputed,
// whatever the caller sent.
func (s *GuestService) Update(ctx context.Context, id string, in *GuestIn) (*entity.Guest, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	g, err := s.mutate(ctx, id, func(g *entity.Guest) error {
		in.apply(g, s.Now())
		return nil
	})
	return g, err
}

func (s *GuestService) Delete(ctx context.Context, id string) error {
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
		return dbErr(gorm.ErrRecordNotFound, "guest")
	}
	publish(ctx, s.Events, events.GuestDeleted, "guest", id, nil)
	return nil
}

// AddItem adds one unit of a catalog item, or of an ad-hoc name and price.
// The price is copied onto the line.
func (s *GuestService) AddItem(ctx context.Context, id string, in *AddItemIn) (*entity.Guest, error) {
	name, price := strings.TrimSpace(in.Name), int64(0)
	if in.MenuItemID != "" {
		m, err := s.Menu.FindByID(ctx, in.MenuItemID)
		if err != nil {
			return nil, dbErr(err, "menu item")
		}
		name, price = m.Name, m.Price
	} else {
		if name == "" {
			return nil, invalid("name", "menuItemId or name is required")
		}
		if in.Price == nil || *in.Price < 0 {
			return nil, invalid("price", "must be zero or more")
		}
		price = *in.Price
	}

	return s.mutateOrder(ctx, id, func(o *billing.Order) error {
		o.Add(name, price)
		return nil
	})
}

func (s *GuestService) SetItemQuantity(ctx context.Context, id string, in *SetQuantityIn) (*entity.Guest, error) {
	return s.mutateOrder(ctx, id, func(o *billing.Order) error {
		if !o.SetQuantity(in.Name, in.Quantity) {
			return invalid("name", "no such item in order")
		}
		return nil
	})
}

func (s *GuestService) SetPaymentMethod(ctx context.Context, id string, m billing.Method) (*entity.Guest, error) {
	if !m.Valid() {
		return nil, invalid("paymentMethod", "must be cash or card")
	}
	return s.mutateOrder(ctx, id, func(o *billing.Order) error {
		o.SetMethod(m)
		return nil
	})
}

func (s *GuestService) mutateOrder(ctx context.Context, id string, fn func(*billing.Order) error) (*entity.Guest, error) {
	return s.mutate(ctx, id, func(g *entity.Guest) error {
		o := g.Order()
		if err := fn(o); err != nil {
			return err
		}
		g.ApplyOrder(o)
		return nil
	})
}

func (s *GuestService) mutate(ctx context.Context, id string, fn func(*entity.Guest) error) (*entity.Guest, error) {
	var g *entity.Guest
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		g, err = s.Repo.GetForUpdate(tx, id)
		if err != nil {
			return err
		}
		if err := fn(g); err != nil {
			return err
		}
		return s.Repo.Save(tx, g)
	})
	if err != nil {
		return nil, dbErr(err, "guest")
	}
	publish(ctx, s.Events, events.GuestUpdated, "guest", g.ID, g)
	return g, nil
}
