package repository

import (
	"context"
	"time"

	"frontdesk/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GuestRepository struct {
	DB *gorm.DB
}

func NewGuestRepository(db *gorm.DB) *GuestRepository {
	return &GuestRepository{DB: db}
}

type GuestFilter struct {
	From   *time.Time
	To     *time.Time
	Status entity.GuestStatus
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("OrderItems", func(db *gorm.DB) *gorm.DB { return db.Order("position") })
}

// FindAll returns guests newest visit first. From is inclusive, To exclusive.
func (r *GuestRepository) FindAll(ctx context.Context, f GuestFilter) ([]entity.Guest, error) {
	var guests []entity.Guest
	q := withItems(r.DB.WithContext(ctx)).Order("visit_date DESC")
	if f.From != nil {
		q = q.Where("visit_date >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where("visit_date < ?", f.To.UTC())
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	err := q.Find(&guests).Error
	return guests, err
}

func (r *GuestRepository) FindByID(ctx context.Context, id string) (*entity.Guest, error) {
	var g entity.Guest
	if err := withItems(r.DB.WithContext(ctx)).First(&g, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GuestRepository) GetForUpdate(tx *gorm.DB, id string) (*entity.Guest, error) {
	var g entity.Guest
	if err := withItems(tx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&g, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GuestRepository) Create(tx *gorm.DB, g *entity.Guest) error {
	return tx.Create(g).Error
}

// Save writes the guest row and replaces its line items.
func (r *GuestRepository) Save(tx *gorm.DB, g *entity.Guest) error {
	if err := tx.Omit("OrderItems").Save(g).Error; err != nil {
		return err
	}
	if err := tx.Where("guest_id = ?", g.ID).Delete(&entity.OrderItem{}).Error; err != nil {
		return err
	}
	for i := range g.OrderItems {
		g.OrderItems[i].ID = 0
		g.OrderItems[i].GuestID = g.ID
	}
	if len(g.OrderItems) == 0 {
		return nil
	}
	return tx.Create(&g.OrderItems).Error
}

func (r *GuestRepository) Delete(tx *gorm.DB, id string) (int64, error) {
	if err := tx.Where("guest_id = ?", id).Delete(&entity.OrderItem{}).Error; err != nil {
		return 0, err
	}
	res := tx.Delete(&entity.Guest{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

// SumPartySize adds up numberOfGuests, optionally within [from, to).
func (r *GuestRepository) SumPartySize(ctx context.Context, from, to *time.Time) (int64, error) {
	var n int64
	q := r.DB.WithContext(ctx).Model(&entity.Guest{}).Select("COALESCE(SUM(number_of_guests), 0)")
	if from != nil {
		q = q.Where("visit_date >= ?", from.UTC())
	}
	if to != nil {
		q = q.Where("visit_date < ?", to.UTC())
	}
	err := q.Scan(&n).Error
	return n, err
}

func (r *GuestRepository) CountBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&entity.Guest{}).
		Where("visit_date >= ? AND visit_date < ?", from.UTC(), to.UTC()).Count(&n).Error
	return n, err
}

// FindVisitedBefore returns name/date/party columns for every guest seen before t.
func (r *GuestRepository) FindVisitedBefore(ctx context.Context, t time.Time) ([]entity.Guest, error) {
	var guests []entity.Guest
	err := r.DB.WithContext(ctx).
		Select("id", "name", "phone", "email", "visit_date", "number_of_guests").
		Where("visit_date < ?", t.UTC()).Order("visit_date").Find(&guests).Error
	return guests, err
}
