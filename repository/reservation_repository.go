package repository

import (
	"context"
	"time"

	"frontdesk/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReservationRepository struct {
	DB *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{DB: db}
}

type ReservationFilter struct {
	From   *time.Time
	To     *time.Time
	Status entity.ReservationStatus
}

func (r *ReservationRepository) FindAll(ctx context.Context, f ReservationFilter) ([]entity.Reservation, error) {
	var list []entity.Reservation
	q := r.DB.WithContext(ctx).Order("reservation_date")
	if f.From != nil {
		q = q.Where("reservation_date >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where("reservation_date < ?", f.To.UTC())
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *ReservationRepository) FindByID(ctx context.Context, id string) (*entity.Reservation, error) {
	var res entity.Reservation
	if err := r.DB.WithContext(ctx).First(&res, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *ReservationRepository) GetForUpdate(tx *gorm.DB, id string) (*entity.Reservation, error) {
	var res entity.Reservation
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&res, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *ReservationRepository) Create(tx *gorm.DB, res *entity.Reservation) error {
	return tx.Create(res).Error
}

func (r *ReservationRepository) Save(tx *gorm.DB, res *entity.Reservation) error {
	return tx.Save(res).Error
}

func (r *ReservationRepository) Delete(tx *gorm.DB, id string) (int64, error) {
	res := tx.Delete(&entity.Reservation{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *ReservationRepository) FindBefore(ctx context.Context, t time.Time) ([]entity.Reservation, error) {
	var list []entity.Reservation
	err := r.DB.WithContext(ctx).Where("reservation_date < ?", t.UTC()).Order("reservation_date").Find(&list).Error
	return list, err
}
