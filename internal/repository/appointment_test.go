package repository

import (
	"context"
	"testing"
	"time"

	"github.com/qconnect/clinic-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTestQueue(t *testing.T, db *gorm.DB) *model.Queue {
	t.Helper()

	doctor := &model.Doctor{Name: "Dr. Test", Specialty: "General", RoomNo: "101"}
	require.NoError(t, db.Create(doctor).Error)

	queue := &model.Queue{DoctorID: doctor.ID, Date: time.Now().Truncate(24 * time.Hour)}
	require.NoError(t, db.Create(queue).Error)
	return queue
}

func TestAppointmentRepository_BookAssignsSequentialTokens(t *testing.T) {
	db := newTestDB(t)
	repo := NewAppointmentRepository(db)
	user := createTestUser(t, db, "booker@example.com")
	queue := createTestQueue(t, db)
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		appointment, err := repo.Book(ctx, queue.ID, user.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, want, appointment.TokenNo)
		assert.Equal(t, model.StatusPending, appointment.Status)
	}

	// The queue counter tracks the last token handed out.
	var reloaded model.Queue
	require.NoError(t, db.First(&reloaded, queue.ID).Error)
	assert.Equal(t, 3, reloaded.CurrentNo)
}

func TestAppointmentRepository_BookUnknownQueue(t *testing.T) {
	db := newTestDB(t)
	repo := NewAppointmentRepository(db)
	user := createTestUser(t, db, "noqueue@example.com")

	_, err := repo.Book(context.Background(), 9999, user.ID, nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAppointmentRepository_BookStoresNotes(t *testing.T) {
	db := newTestDB(t)
	repo := NewAppointmentRepository(db)
	user := createTestUser(t, db, "notes@example.com")
	queue := createTestQueue(t, db)

	notes := []byte(`{"reason":"follow-up","priority":"high"}`)
	appointment, err := repo.Book(context.Background(), queue.ID, user.ID, notes)
	require.NoError(t, err)
	assert.JSONEq(t, string(notes), string(appointment.Notes))
}

func TestAppointmentRepository_UpdateStatus(t *testing.T) {
	db := newTestDB(t)
	repo := NewAppointmentRepository(db)
	user := createTestUser(t, db, "status@example.com")
	queue := createTestQueue(t, db)
	ctx := context.Background()

	appointment, err := repo.Book(ctx, queue.ID, user.ID, nil)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(ctx, appointment.ID, model.StatusCalled))

	reloaded, err := repo.GetByID(ctx, appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCalled, reloaded.Status)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, 9999, model.StatusDone), gorm.ErrRecordNotFound)
}

func TestAppointmentRepository_GetAllFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewAppointmentRepository(db)
	alice := createTestUser(t, db, "alice-filter@example.com")
	bob := createTestUser(t, db, "bob-filter@example.com")
	queue := createTestQueue(t, db)
	ctx := context.Background()

	first, err := repo.Book(ctx, queue.ID, alice.ID, nil)
	require.NoError(t, err)
	_, err = repo.Book(ctx, queue.ID, bob.ID, nil)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateStatus(ctx, first.ID, model.StatusDone))

	byUser, total, err := repo.GetAll(ctx, 10, 0, AppointmentFilter{UserID: alice.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, byUser, 1)
	assert.Equal(t, alice.ID, byUser[0].UserID)

	byStatus, total, err := repo.GetAll(ctx, 10, 0, AppointmentFilter{Status: model.StatusPending})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, byStatus, 1)
	assert.Equal(t, bob.ID, byStatus[0].UserID)
}
