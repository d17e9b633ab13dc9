package repository

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/qconnect/clinic-api/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a per-test in-memory database. Shared cache keeps the
// database alive across the pool's connections within one test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Doctor{},
		&model.Queue{},
		&model.Appointment{},
	))

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()

	user := &model.User{
		Name:     "Test User",
		Email:    email,
		Password: "$2a$10$fakehashfakehashfakehashfakehashfakehashfakehashfake",
		Role:     model.RolePatient,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
