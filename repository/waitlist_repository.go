package repository

import (
	"context"

	"frontdesk/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WaitlistRepository struct {
	DB *gorm.DB
}

func NewWaitlistRepository(db *gorm.DB) *WaitlistRepository {
	return &WaitlistRepository{DB: db}
}

func (r *WaitlistRepository) FindAll(ctx context.Context, status entity.WaitStatus) ([]entity.WaitingGuest, error) {
	var list []entity.WaitingGuest
	q := r.DB.WithContext(ctx).Order("token_number")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *WaitlistRepository) FindByID(ctx context.Context, id string) (*entity.WaitingGuest, error) {
	var w entity.WaitingGuest
	if err := r.DB.WithContext(ctx).First(&w, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WaitlistRepository) GetForUpdate(tx *gorm.DB, id string) (*entity.WaitingGuest, error) {
	var w entity.WaitingGuest
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&w, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WaitlistRepository) Create(tx *gorm.DB, w *entity.WaitingGuest) error {
	return tx.Create(w).Error
}

func (r *WaitlistRepository) Save(tx *gorm.DB, w *entity.WaitingGuest) error {
	return tx.Save(w).Error
}

func (r *WaitlistRepository) Delete(tx *gorm.DB, id string) (int64, error) {
	res := tx.Delete(&entity.WaitingGuest{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *WaitlistRepository) CountByStatus(ctx context.Context, status entity.WaitStatus) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&entity.WaitingGuest{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

// NextToken issues the next token number inside tx.
//
// The counter row is incremented first so the write lock is held before
// anything is read; a concurrent caller blocks until tx commits. When the
// waitlist holds no entries at all the sequence restarts at 1.
func (r *WaitlistRepository) NextToken(tx *gorm.DB) (int, error) {
	res := tx.Model(&entity.Counter{}).
		Where("name = ?", entity.WaitlistTokenCounter).
		UpdateColumn("value", gorm.Expr("value + 1"))
	if res.Error != nil {
		return 0, res.Error
	}

	if res.RowsAffected == 0 {
		// no counter row yet: continue from what is stored
		var max int
		if err := tx.Model(&entity.WaitingGuest{}).
			Select("COALESCE(MAX(token_number), 0)").Scan(&max).Error; err != nil {
			return 0, err
		}
		c := entity.Counter{Name: entity.WaitlistTokenCounter, Value: max + 1}
		if err := tx.Create(&c).Error; err != nil {
			return 0, err
		}
		return c.Value, nil
	}

	var remaining int64
	if err := tx.Model(&entity.WaitingGuest{}).Count(&remaining).Error; err != nil {
		return 0, err
	}
	if remaining == 0 {
		if err := tx.Model(&entity.Counter{}).
			Where("name = ?", entity.WaitlistTokenCounter).
			UpdateColumn("value", 1).Error; err != nil {
			return 0, err
		}
		return 1, nil
	}

	var c entity.Counter
	if err := tx.First(&c, "name = ?", entity.WaitlistTokenCounter).Error; err != nil {
		return 0, err
	}
	return c.Value, nil
}
