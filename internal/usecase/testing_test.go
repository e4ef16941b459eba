package usecase

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"clinic-queue/internal/delivery/http/middleware"
	"clinic-queue/internal/domain/entity"
	"clinic-queue/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, entity.AutoMigrate(db))

	roles := []entity.Role{
		{ID: entity.RoleIDAdmin, RoleName: entity.RoleAdmin},
		{ID: entity.RoleIDPatient, RoleName: entity.RolePatient},
	}
	require.NoError(t, db.Create(&roles).Error)

	return db
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func createPatient(t *testing.T, db *gorm.DB, name string) *entity.User {
	t.Helper()

	user := &entity.User{
		RoleID:   entity.RoleIDPatient,
		Email:    fmt.Sprintf("%s@example.com", uuid.NewString()[:8]),
		Password: "hashed",
		FullName: name,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedSettings(t *testing.T, db *gorm.DB, maxSlots int) *entity.PracticeSettings {
	t.Helper()

	settings := &entity.PracticeSettings{
		MaxSlotsPerDay:       maxSlots,
		OperatingDays:        entity.IntList{1, 2, 3, 4, 5},
		StartTime:            "08:00",
		EndTime:              "16:00",
		AverageServiceTime:   15,
		CancellationDeadline: 60,
		IsActive:             true,
	}
	require.NoError(t, db.Create(settings).Error)
	return settings
}

func ctxWithUser(userID uuid.UUID) context.Context {
	return context.WithValue(context.Background(), middleware.UserIDKey, userID)
}

// fixedClock pins the usecase clock for deterministic date handling.
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

// fakeSlotReserver mirrors the Redis counters in memory.
type fakeSlotReserver struct {
	booked       map[string]int
	numbers      map[string]int
	restoreCalls []string
	reserveErr   error
}

func newFakeSlotReserver() *fakeSlotReserver {
	return &fakeSlotReserver{
		booked:  map[string]int{},
		numbers: map[string]int{},
	}
}

func (f *fakeSlotReserver) Reserve(ctx context.Context, date string, maxSlots int) (int, error) {
	if f.reserveErr != nil {
		return 0, f.reserveErr
	}
	if f.booked[date] >= maxSlots {
		return 0, service.ErrCapacityFull
	}
	f.booked[date]++
	f.numbers[date]++
	return f.numbers[date], nil
}

func (f *fakeSlotReserver) Restore(ctx context.Context, date string) error {
	if f.booked[date] > 0 {
		f.booked[date]--
	}
	f.restoreCalls = append(f.restoreCalls, date)
	return nil
}

// fakeLocker runs the callback inline, or simulates a held lock.
type fakeLocker struct {
	held bool
}

func (f *fakeLocker) WithDayLock(ctx context.Context, date string, fn func(ctx context.Context) error) error {
	if f.held {
		return service.ErrLockNotAcquired
	}
	return fn(ctx)
}

// fakeBroadcaster records published events.
type fakeBroadcaster struct {
	events []string
}

func (f *fakeBroadcaster) Publish(ctx context.Context, event string, payload interface{}) error {
	f.events = append(f.events, event)
	return nil
}
