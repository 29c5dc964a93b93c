package repository

import (
	"context"

	"frontdesk/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TableRepository struct {
	DB *gorm.DB
}

func NewTableRepository(db *gorm.DB) *TableRepository {
	return &TableRepository{DB: db}
}

// FindAll returns tables ordered by name, optionally filtered by status.
func (r *TableRepository) FindAll(ctx context.Context, status entity.TableStatus) ([]entity.Table, error) {
	var tables []entity.Table
	q := r.DB.WithContext(ctx).Order("name")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&tables).Error
	return tables, err
}

func (r *TableRepository) FindByID(ctx context.Context, id string) (*entity.Table, error) {
	var t entity.Table
	if err := r.DB.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// GetForUpdate reads a table inside tx and locks its row where the
// dialect supports it.
func (r *TableRepository) GetForUpdate(tx *gorm.DB, id string) (*entity.Table, error) {
	var t entity.Table
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TableRepository) Create(tx *gorm.DB, t *entity.Table) error {
	return tx.Create(t).Error
}

func (r *TableRepository) CreateBatch(tx *gorm.DB, tables []entity.Table) error {
	if len(tables) == 0 {
		return nil
	}
	return tx.CreateInBatches(tables, 100).Error
}

func (r *TableRepository) Save(tx *gorm.DB, t *entity.Table) error {
	return tx.Save(t).Error
}

func (r *TableRepository) Delete(tx *gorm.DB, id string) (int64, error) {
	res := tx.Delete(&entity.Table{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

// UpdateStatusGuard moves a table to `to` only while its status is one of
// `from`. Zero rows affected means the table changed underneath the caller.
func (r *TableRepository) UpdateStatusGuard(tx *gorm.DB, id string, from []entity.TableStatus, to entity.TableStatus) (int64, error) {
	res := tx.Model(&entity.Table{}).
		Where("id = ? AND status IN ?", id, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

func (r *TableRepository) CountByStatus(ctx context.Context) (map[entity.TableStatus]int64, error) {
	var rows []struct {
		Status entity.TableStatus
		N      int64
	}
	err := r.DB.WithContext(ctx).Model(&entity.Table{}).
		Select("status, COUNT(*) AS n").Group("status").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := map[entity.TableStatus]int64{
		entity.TableAvailable: 0,
		entity.TableOccupied:  0,
		entity.TableReserved:  0,
	}
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}
