package configs

import (
	"frontdesk/entity"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin creates the first admin account from ADMIN_EMAIL/ADMIN_PASSWORD.
func SeedAdmin(db *gorm.DB, cfg *Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Warn().Msg("skip seeding admin: missing ADMIN_EMAIL/ADMIN_PASSWORD")
		return nil
	}

	var count int64
	if err := db.Model(&entity.User{}).Where("email = ?", cfg.AdminEmail).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Info().Str("email", cfg.AdminEmail).Msg("admin already exists")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := entity.User{
		Email:     cfg.AdminEmail,
		Password:  string(hash),
		FirstName: "Admin",
		LastName:  "Seed",
		Role:      entity.RoleAdmin,
	}
	return db.Create(&admin).Error
}

// SeedCounters makes sure every sequence row exists, starting from the
// highest token already stored.
func SeedCounters(db *gorm.DB) error {
	var max int
	if err := db.Model(&entity.WaitingGuest{}).
		Select("COALESCE(MAX(token_number), 0)").Scan(&max).Error; err != nil {
		return err
	}
	return db.Where(entity.Counter{Name: entity.WaitlistTokenCounter}).
		Attrs(entity.Counter{Value: max}).
		FirstOrCreate(&entity.Counter{}).Error
}
