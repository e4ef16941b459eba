package usecase

import (
	"context"
	"testing"

	"clinic-queue/internal/domain/entity"
	"clinic-queue/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSlotUsecase(t *testing.T, db *gorm.DB) SlotUsecase {
	t.Helper()
	return NewSlotUsecase(db, newTestLogger(), repository.NewQueueRepository(), repository.NewPracticeSettingsRepository())
}

func TestGetAvailableSlotsIgnoresCancelled(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, 5)
	uc := newSlotUsecase(t, db)

	statuses := []entity.QueueStatus{
		entity.QueueStatusWaiting,
		entity.QueueStatusNoShow,
		entity.QueueStatusCancelled,
	}
	for i, status := range statuses {
		patient := createPatient(t, db, "Patient")
		require.NoError(t, db.Create(&entity.Queue{
			UserID:          patient.ID,
			AppointmentDate: futureMonday,
			QueueNumber:     i + 1,
			Status:          status,
		}).Error)
	}

	resp, err := uc.GetAvailableSlots(context.Background(), futureMonday)
	require.NoError(t, err)

	// Cancelled bookings release their slot; no-shows do not
	assert.Equal(t, 3, resp.AvailableSlots)
	assert.Equal(t, 2, resp.TotalBooked)
	assert.Equal(t, 5, resp.MaxSlots)
	assert.Equal(t, "08:00", resp.OperatingHours.Start)
	assert.Equal(t, "16:00", resp.OperatingHours.End)
}

func TestGetAvailableSlotsNeverNegative(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, 1)
	uc := newSlotUsecase(t, db)

	for i := 0; i < 2; i++ {
		patient := createPatient(t, db, "Patient")
		require.NoError(t, db.Create(&entity.Queue{
			UserID:          patient.ID,
			AppointmentDate: futureMonday,
			QueueNumber:     i + 1,
			Status:          entity.QueueStatusWaiting,
		}).Error)
	}

	resp, err := uc.GetAvailableSlots(context.Background(), futureMonday)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.AvailableSlots)
}

func TestGetAvailableSlotsValidation(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, 5)
	uc := newSlotUsecase(t, db)

	_, err := uc.GetAvailableSlots(context.Background(), "")
	assert.ErrorIs(t, err, ErrDateRequired)

	_, err = uc.GetAvailableSlots(context.Background(), "next monday")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = uc.GetAvailableSlots(context.Background(), sundayClosed)
	assert.ErrorIs(t, err, ErrClosedDay)
}

func TestGetAvailableSlotsWithoutSettings(t *testing.T) {
	db := newTestDB(t)
	uc := newSlotUsecase(t, db)

	_, err := uc.GetAvailableSlots(context.Background(), futureMonday)
	assert.ErrorIs(t, err, ErrSettingsNotConfigured)
}
