package database

import (
	"fmt"

	"github.com/qconnect/clinic-api/internal/model"
	"gorm.io/gorm"
)

// AutoMigrate runs schema migrations for all application models
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Doctor{},
		&model.Queue{},
		&model.Appointment{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
