package usecase

import (
	"context"
	"testing"
	"time"

	"clinic-queue/internal/delivery/dto"
	"clinic-queue/internal/domain/entity"
	"clinic-queue/internal/repository"
	"clinic-queue/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type adminFixture struct {
	uc          QueueAdminUsecase
	db          *gorm.DB
	slots       *fakeSlotReserver
	locker      *fakeLocker
	broadcaster *fakeBroadcaster
}

func newAdminFixture(t *testing.T, now time.Time) *adminFixture {
	t.Helper()

	db := newTestDB(t)
	log := newTestLogger()
	queueRepo := repository.NewQueueRepository()
	activityRepo := repository.NewActivityLogRepository()
	activity := service.NewActivityService(log, activityRepo)

	slots := newFakeSlotReserver()
	locker := &fakeLocker{}
	broadcaster := &fakeBroadcaster{}

	uc := NewQueueAdminUsecase(db, log, queueRepo, slots, activity, broadcaster, locker).(*queueAdminUsecase)
	uc.timeProvider = fixedClock{now: now}

	return &adminFixture{
		uc:          uc,
		db:          db,
		slots:       slots,
		locker:      locker,
		broadcaster: broadcaster,
	}
}

func (f *adminFixture) createQueue(t *testing.T, db *gorm.DB, name, date string, number int, status entity.QueueStatus) *entity.Queue {
	t.Helper()

	patient := createPatient(t, db, name)
	queue := &entity.Queue{
		UserID:          patient.ID,
		AppointmentDate: date,
		QueueNumber:     number,
		Status:          status,
	}
	require.NoError(t, db.Create(queue).Error)
	return queue
}

func TestCallNextPromotesLowestNumber(t *testing.T) {
	f := newAdminFixture(t, testNow)
	today := testNow.Format(entity.DateFormat)

	f.createQueue(t, f.db, "Budi", today, 2, entity.QueueStatusWaiting)
	first := f.createQueue(t, f.db, "Ani", today, 1, entity.QueueStatusWaiting)

	resp, err := f.uc.CallNext(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.ID, resp.ID)
	assert.Equal(t, string(entity.QueueStatusInService), resp.Status)
	require.NotNil(t, resp.ServiceStartedAt)
	assert.True(t, resp.ServiceStartedAt.Equal(testNow))
	assert.Equal(t, []string{service.EventQueueCalled}, f.broadcaster.events)

	var called int64
	require.NoError(t, f.db.Model(&entity.ActivityLog{}).
		Where("type = ?", entity.ActivityQueueCalled).
		Count(&called).Error)
	assert.EqualValues(t, 1, called)
}

func TestCallNextWhileServiceInProgress(t *testing.T) {
	f := newAdminFixture(t, testNow)
	today := testNow.Format(entity.DateFormat)

	f.createQueue(t, f.db, "Ani", today, 1, entity.QueueStatusInService)
	f.createQueue(t, f.db, "Budi", today, 2, entity.QueueStatusWaiting)

	_, err := f.uc.CallNext(context.Background())
	assert.ErrorIs(t, err, ErrServiceInProgress)
}

func TestCallNextNoWaitingQueue(t *testing.T) {
	f := newAdminFixture(t, testNow)
	today := testNow.Format(entity.DateFormat)

	f.createQueue(t, f.db, "Ani", today, 1, entity.QueueStatusCompleted)

	_, err := f.uc.CallNext(context.Background())
	assert.ErrorIs(t, err, ErrNoWaitingQueue)
}

func TestCallNextLockHeldByAnotherTerminal(t *testing.T) {
	f := newAdminFixture(t, testNow)
	today := testNow.Format(entity.DateFormat)

	f.createQueue(t, f.db, "Ani", today, 1, entity.QueueStatusWaiting)
	f.locker.held = true

	_, err := f.uc.CallNext(context.Background())
	assert.ErrorIs(t, err, ErrServiceInProgress)
}

func TestCompleteQueueDerivesServiceTime(t *testing.T) {
	completedAt := testNow
	f := newAdminFixture(t, completedAt)
	today := testNow.Format(entity.DateFormat)

	queue := f.createQueue(t, f.db, "Ani", today, 1, entity.QueueStatusInService)
	startedAt := completedAt.Add(-25 * time.Minute)
	require.NoError(t, f.db.Model(queue).Update("service_started_at", startedAt).Error)

	resp, err := f.uc.CompleteQueue(context.Background(), queue.ID)
	require.NoError(t, err)

	assert.Equal(t, string(entity.QueueStatusCompleted), resp.Status)
	require.NotNil(t, resp.ActualServiceTime)
	assert.Equal(t, 25, *resp.ActualServiceTime)
	require.NotNil(t, resp.ServiceCompletedAt)
	assert.True(t, resp.ServiceCompletedAt.Equal(completedAt))
	assert.Equal(t, []string{service.EventQueueCompleted}, f.broadcaster.events)
}

func TestCompleteQueueNotInService(t *testing.T) {
	f := newAdminFixture(t, testNow)
	today := testNow.Format(entity.DateFormat)

	queue := f.createQueue(t, f.db, "Ani", today, 1, entity.QueueStatusWaiting)

	_, err := f.uc.CompleteQueue(context.Background(), queue.ID)
	assert.ErrorIs(t, err, ErrQueueNotInService)
}

func TestCompleteQueueUnknownID(t *testing.T) {
	f := newAdminFixture(t, testNow)

	_, err := f.uc.CompleteQueue(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrQueueNotInService)
}

func TestUpdateQueueStatusNoShowKeepsSlot(t *testing.T) {
	f := newAdminFixture(t, testNow)
	today := testNow.Format(entity.DateFormat)

	queue := f.createQueue(t, f.db, "Ani", today, 1, entity.QueueStatusWaiting)

	resp, err := f.uc.UpdateQueueStatus(context.Background(), queue.ID, &dto.UpdateQueueStatusRequest{
		Status: string(entity.QueueStatusNoShow),
		Notes:  "Did not respond to three calls",
	})
	require.NoError(t, err)

	assert.Equal(t, string(entity.QueueStatusNoShow), resp.Status)
	assert.Equal(t, "Did not respond to three calls", resp.Notes)
	// No-shows still occupy their slot for the day
	assert.Empty(t, f.slots.restoreCalls)
	assert.Equal(t, []string{service.EventQueueUpdated}, f.broadcaster.events)
}

func TestUpdateQueueStatusCancelledReleasesSlot(t *testing.T) {
	f := newAdminFixture(t, testNow)
	today := testNow.Format(entity.DateFormat)

	queue := f.createQueue(t, f.db, "Ani", today, 1, entity.QueueStatusWaiting)

	resp, err := f.uc.UpdateQueueStatus(context.Background(), queue.ID, &dto.UpdateQueueStatusRequest{
		Status: string(entity.QueueStatusCancelled),
	})
	require.NoError(t, err)

	assert.Equal(t, string(entity.QueueStatusCancelled), resp.Status)
	assert.Equal(t, []string{today}, f.slots.restoreCalls)
}

func TestUpdateQueueStatusCompletedFromInService(t *testing.T) {
	f := newAdminFixture(t, testNow)
	today := testNow.Format(entity.DateFormat)

	queue := f.createQueue(t, f.db, "Ani", today, 1, entity.QueueStatusInService)
	startedAt := testNow.Add(-10 * time.Minute)
	require.NoError(t, f.db.Model(queue).Update("service_started_at", startedAt).Error)

	resp, err := f.uc.UpdateQueueStatus(context.Background(), queue.ID, &dto.UpdateQueueStatusRequest{
		Status: string(entity.QueueStatusCompleted),
	})
	require.NoError(t, err)

	require.NotNil(t, resp.ActualServiceTime)
	assert.Equal(t, 10, *resp.ActualServiceTime)
}

func TestUpdateQueueStatusRejectsInvalidTransitions(t *testing.T) {
	f := newAdminFixture(t, testNow)
	today := testNow.Format(entity.DateFormat)

	tests := []struct {
		name string
		from entity.QueueStatus
		to   string
	}{
		{"completed is terminal", entity.QueueStatusCompleted, string(entity.QueueStatusWaiting)},
		{"cancelled is terminal", entity.QueueStatusCancelled, string(entity.QueueStatusInService)},
		{"waiting cannot skip to completed", entity.QueueStatusWaiting, string(entity.QueueStatusCompleted)},
		{"no re-entry into waiting", entity.QueueStatusInService, string(entity.QueueStatusWaiting)},
	}

	for i, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			queue := f.createQueue(t, f.db, "Ani", today, i+1, tc.from)

			_, err := f.uc.UpdateQueueStatus(context.Background(), queue.ID, &dto.UpdateQueueStatusRequest{Status: tc.to})
			assert.ErrorIs(t, err, ErrInvalidTransition)
		})
	}
}

func TestUpdateQueueStatusRejectsUnknownStatus(t *testing.T) {
	f := newAdminFixture(t, testNow)
	today := testNow.Format(entity.DateFormat)

	queue := f.createQueue(t, f.db, "Ani", today, 1, entity.QueueStatusWaiting)

	_, err := f.uc.UpdateQueueStatus(context.Background(), queue.ID, &dto.UpdateQueueStatusRequest{Status: "paused"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestGetQueuesByDateWithStats(t *testing.T) {
	f := newAdminFixture(t, testNow)
	today := testNow.Format(entity.DateFormat)

	f.createQueue(t, f.db, "Ani", today, 1, entity.QueueStatusCompleted)
	f.createQueue(t, f.db, "Budi", today, 2, entity.QueueStatusInService)
	f.createQueue(t, f.db, "Citra", today, 3, entity.QueueStatusWaiting)
	f.createQueue(t, f.db, "Dewi", today, 4, entity.QueueStatusCancelled)
	f.createQueue(t, f.db, "Eka", "2026-09-08", 1, entity.QueueStatusWaiting)

	resp, err := f.uc.GetQueuesByDate(context.Background(), today)
	require.NoError(t, err)

	require.Len(t, resp.Queues, 4)
	// Ordered by queue number
	assert.Equal(t, 1, resp.Queues[0].QueueNumber)
	assert.Equal(t, 4, resp.Queues[3].QueueNumber)

	assert.Equal(t, 4, resp.Stats.Total)
	assert.Equal(t, 1, resp.Stats.Waiting)
	assert.Equal(t, 1, resp.Stats.InService)
	assert.Equal(t, 1, resp.Stats.Completed)
	assert.Equal(t, 1, resp.Stats.Cancelled)
	assert.Equal(t, 0, resp.Stats.NoShow)
}

func TestGetQueuesByDateValidation(t *testing.T) {
	f := newAdminFixture(t, testNow)

	_, err := f.uc.GetQueuesByDate(context.Background(), "")
	assert.ErrorIs(t, err, ErrDateRequired)

	_, err = f.uc.GetQueuesByDate(context.Background(), "08/09/2026")
	assert.ErrorIs(t, err, ErrInvalidDate)
}
