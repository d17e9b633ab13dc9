package database

import (
	"fmt"

	"github.com/qconnect/clinic-api/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed inserts initial data. Existing rows are left untouched, so it is safe
// to run on every startup.
func Seed(db *gorm.DB) error {
	adminPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	users := []model.User{
		{Name: "Admin", Email: "admin@qconnect.local", Password: string(adminPassword), Role: model.RoleAdmin},
		{Name: "Alice", Email: "alice@example.com", Phone: "9999999999", Password: string(adminPassword), Role: model.RolePatient},
		{Name: "Bob", Email: "bob@example.com", Phone: "8888888888", Password: string(adminPassword), Role: model.RolePatient},
	}

	for i := range users {
		if err := db.Where(model.User{Email: users[i].Email}).FirstOrCreate(&users[i]).Error; err != nil {
			return fmt.Errorf("failed to seed user %s: %w", users[i].Email, err)
		}
	}

	doctors := []model.Doctor{
		{Name: "Dr. Mehta", Specialty: "Cardiology", RoomNo: "101"},
		{Name: "Dr. Rao", Specialty: "Dermatology", RoomNo: "204"},
	}

	for i := range doctors {
		if err := db.Where(model.Doctor{Name: doctors[i].Name}).FirstOrCreate(&doctors[i]).Error; err != nil {
			return fmt.Errorf("failed to seed doctor %s: %w", doctors[i].Name, err)
		}
	}

	return nil
}
