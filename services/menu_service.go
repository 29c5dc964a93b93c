package services

import (
	"context"
	"strings"

	"frontdesk/entity"
	"frontdesk/events"
	"frontdesk/repository"

	"gorm.io/gorm"
)

type MenuService struct {
	DB     *gorm.DB
	Repo   *repository.MenuRepository
	Events events.Publisher
}

func NewMenuService(db *gorm.DB, repo *repository.MenuRepository, pub events.Publisher) *MenuService {
	return &MenuService{DB: db, Repo: repo, Events: pub}
}

type MenuItemIn struct {
	Name     string `json:"name" binding:"required"`
	Price    int64  `json:"price" binding:"min=0"`
	Category string `json:"category"`
}

func (in *MenuItemIn) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("name", "is required")
	}
	if in.Price < 0 {
		return invalid("price", "must not be negative")
	}
	return nil
}

func (s *MenuService) List(ctx context.Context, category string) ([]entity.MenuItem, error) {
	return s.Repo.FindAll(ctx, category)
}

func (s *MenuService) Create(ctx context.Context, in *MenuItemIn) (*entity.MenuItem, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	m := &entity.MenuItem{Name: strings.TrimSpace(in.Name), Price: in.Price, Category: strings.TrimSpace(in.Category)}
	if err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.Repo.Create(tx, m)
	}); err != nil {
		return nil, dbErr(err, "menu item")
	}
	publish(ctx, s.Events, events.MenuChanged, "menu", m.ID, m)
	return m, nil
}

// Update changes the catalog only; prices already copied onto orders stay.
func (s *MenuService) Update(ctx context.Context, id string, in *MenuItemIn) (*entity.MenuItem, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	m, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err, "menu item")
	}
	m.Name, m.Price, m.Category = strings.TrimSpace(in.Name), in.Price, strings.TrimSpace(in.Category)
	if err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.Repo.Save(tx, m)
	}); err != nil {
		return nil, dbErr(err, "menu item")
	}
	publish(ctx, s.Events, events.MenuChanged, "menu", m.ID, m)
	return m, nil
}

func (s *MenuService) Delete(ctx context.Context, id string) error {
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
		return dbErr(gorm.ErrRecordNotFound, "menu item")
	}
	publish(ctx, s.Events, events.MenuChanged, "menu", id, nil)
	return nil
}
