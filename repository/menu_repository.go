package repository

import (
	"context"

	"frontdesk/entity"

	"gorm.io/gorm"
)

type MenuRepository struct {
	DB *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{DB: db}
}

func (r *MenuRepository) FindAll(ctx context.Context, category string) ([]entity.MenuItem, error) {
	var items []entity.MenuItem
	q := r.DB.WithContext(ctx).Order("category").Order("name")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	err := q.Find(&items).Error
	return items, err
}

func (r *MenuRepository) FindByID(ctx context.Context, id string) (*entity.MenuItem, error) {
	var m entity.MenuItem
	if err := r.DB.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MenuRepository) Create(tx *gorm.DB, m *entity.MenuItem) error {
	return tx.Create(m).Error
}

func (r *MenuRepository) Save(tx *gorm.DB, m *entity.MenuItem) error {
	return tx.Save(m).Error
}

func (r *MenuRepository) Delete(tx *gorm.DB, id string) (int64, error) {
	res := tx.Delete(&entity.MenuItem{}, "id = ?", id)
	return res.RowsAffected, res.Error
}
