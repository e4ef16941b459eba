package usecase

import (
	"testing"
	"time"

	"clinic-queue/internal/delivery/dto"
	"clinic-queue/internal/domain/entity"
	"clinic-queue/internal/repository"
	"clinic-queue/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Friday 2026-09-04 at 10:00. Operating days in the seeded settings are
// Monday through Friday.
var testNow = time.Date(2026, time.September, 4, 10, 0, 0, 0, time.UTC)

const (
	futureMonday = "2026-09-07"
	sundayClosed = "2026-09-06"
	pastThursday = "2026-09-03"
)

func newQueueUsecase(t *testing.T, db *gorm.DB, slots *fakeSlotReserver, now time.Time) QueueUsecase {
	t.Helper()

	log := newTestLogger()
	queueRepo := repository.NewQueueRepository()
	settingsRepo := repository.NewPracticeSettingsRepository()
	activityRepo := repository.NewActivityLogRepository()
	activity := service.NewActivityService(log, activityRepo)

	uc := NewQueueUsecase(db, log, queueRepo, settingsRepo, slots, activity).(*queueUsecase)
	uc.timeProvider = fixedClock{now: now}
	return uc
}

func TestBookQueueAssignsSequentialNumbers(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, 20)
	slots := newFakeSlotReserver()
	uc := newQueueUsecase(t, db, slots, testNow)

	for i, name := range []string{"Ani", "Budi", "Citra"} {
		patient := createPatient(t, db, name)
		resp, err := uc.BookQueue(ctxWithUser(patient.ID), &dto.BookQueueRequest{AppointmentDate: futureMonday})
		require.NoError(t, err)
		assert.Equal(t, i+1, resp.QueueNumber)
		assert.Equal(t, string(entity.QueueStatusWaiting), resp.Status)
		assert.Equal(t, futureMonday, resp.AppointmentDate)
	}

	var created int64
	require.NoError(t, db.Model(&entity.ActivityLog{}).
		Where("type = ?", entity.ActivityQueueCreated).
		Count(&created).Error)
	assert.EqualValues(t, 3, created)
}

func TestBookQueueRejectsDuplicate(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, 20)
	uc := newQueueUsecase(t, db, newFakeSlotReserver(), testNow)
	patient := createPatient(t, db, "Ani")

	_, err := uc.BookQueue(ctxWithUser(patient.ID), &dto.BookQueueRequest{AppointmentDate: futureMonday})
	require.NoError(t, err)

	_, err = uc.BookQueue(ctxWithUser(patient.ID), &dto.BookQueueRequest{AppointmentDate: futureMonday})
	assert.ErrorIs(t, err, ErrDuplicateBooking)
}

func TestBookQueueAllowsRebookingAfterCancel(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, 20)
	slots := newFakeSlotReserver()
	uc := newQueueUsecase(t, db, slots, testNow)
	patient := createPatient(t, db, "Ani")

	first, err := uc.BookQueue(ctxWithUser(patient.ID), &dto.BookQueueRequest{AppointmentDate: futureMonday})
	require.NoError(t, err)
	require.NoError(t, uc.CancelQueue(ctxWithUser(patient.ID), first.ID))

	second, err := uc.BookQueue(ctxWithUser(patient.ID), &dto.BookQueueRequest{AppointmentDate: futureMonday})
	require.NoError(t, err)

	// The cancelled number is never reused
	assert.Equal(t, 2, second.QueueNumber)
}

func TestBookQueueRejectsPastDate(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, 20)
	uc := newQueueUsecase(t, db, newFakeSlotReserver(), testNow)
	patient := createPatient(t, db, "Ani")

	_, err := uc.BookQueue(ctxWithUser(patient.ID), &dto.BookQueueRequest{AppointmentDate: pastThursday})
	assert.ErrorIs(t, err, ErrPastDate)
}

func TestBookQueueRejectsClosedDay(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, 20)
	uc := newQueueUsecase(t, db, newFakeSlotReserver(), testNow)
	patient := createPatient(t, db, "Ani")

	_, err := uc.BookQueue(ctxWithUser(patient.ID), &dto.BookQueueRequest{AppointmentDate: sundayClosed})
	assert.ErrorIs(t, err, ErrClosedDay)
}

func TestBookQueueRejectsInvalidDate(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, 20)
	uc := newQueueUsecase(t, db, newFakeSlotReserver(), testNow)
	patient := createPatient(t, db, "Ani")

	_, err := uc.BookQueue(ctxWithUser(patient.ID), &dto.BookQueueRequest{AppointmentDate: "07-09-2026"})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestBookQueueCapacityFull(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, 2)
	uc := newQueueUsecase(t, db, newFakeSlotReserver(), testNow)

	for _, name := range []string{"Ani", "Budi"} {
		patient := createPatient(t, db, name)
		_, err := uc.BookQueue(ctxWithUser(patient.ID), &dto.BookQueueRequest{AppointmentDate: futureMonday})
		require.NoError(t, err)
	}

	late := createPatient(t, db, "Citra")
	_, err := uc.BookQueue(ctxWithUser(late.ID), &dto.BookQueueRequest{AppointmentDate: futureMonday})
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestBookQueueWithoutSettings(t *testing.T) {
	db := newTestDB(t)
	uc := newQueueUsecase(t, db, newFakeSlotReserver(), testNow)
	patient := createPatient(t, db, "Ani")

	_, err := uc.BookQueue(ctxWithUser(patient.ID), &dto.BookQueueRequest{AppointmentDate: futureMonday})
	assert.ErrorIs(t, err, ErrSettingsNotConfigured)
}

func TestCancelQueueReleasesSlot(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, 20)
	slots := newFakeSlotReserver()
	uc := newQueueUsecase(t, db, slots, testNow)
	patient := createPatient(t, db, "Ani")

	booked, err := uc.BookQueue(ctxWithUser(patient.ID), &dto.BookQueueRequest{AppointmentDate: futureMonday})
	require.NoError(t, err)

	require.NoError(t, uc.CancelQueue(ctxWithUser(patient.ID), booked.ID))

	var queue entity.Queue
	require.NoError(t, db.First(&queue, "id = ?", booked.ID).Error)
	assert.Equal(t, entity.QueueStatusCancelled, queue.Status)
	assert.Equal(t, []string{futureMonday}, slots.restoreCalls)
}

func TestCancelQueueSameDayAfterOpening(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, 20)
	uc := newQueueUsecase(t, db, newFakeSlotReserver(), testNow)
	patient := createPatient(t, db, "Ani")

	today := testNow.Format(entity.DateFormat)
	booked, err := uc.BookQueue(ctxWithUser(patient.ID), &dto.BookQueueRequest{AppointmentDate: today})
	require.NoError(t, err)

	// 10:00 is past the 08:00 opening
	err = uc.CancelQueue(ctxWithUser(patient.ID), booked.ID)
	assert.ErrorIs(t, err, ErrCancelTooLate)
}

func TestCancelQueueSameDayBeforeOpening(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, 20)
	slots := newFakeSlotReserver()
	earlyMorning := time.Date(2026, time.September, 4, 6, 30, 0, 0, time.UTC)
	uc := newQueueUsecase(t, db, slots, earlyMorning)
	patient := createPatient(t, db, "Ani")

	today := earlyMorning.Format(entity.DateFormat)
	booked, err := uc.BookQueue(ctxWithUser(patient.ID), &dto.BookQueueRequest{AppointmentDate: today})
	require.NoError(t, err)

	assert.NoError(t, uc.CancelQueue(ctxWithUser(patient.ID), booked.ID))
}

func TestCancelQueueNotWaiting(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, 20)
	uc := newQueueUsecase(t, db, newFakeSlotReserver(), testNow)
	patient := createPatient(t, db, "Ani")

	booked, err := uc.BookQueue(ctxWithUser(patient.ID), &dto.BookQueueRequest{AppointmentDate: futureMonday})
	require.NoError(t, err)

	require.NoError(t, db.Model(&entity.Queue{}).
		Where("id = ?", booked.ID).
		Update("status", entity.QueueStatusInService).Error)

	err = uc.CancelQueue(ctxWithUser(patient.ID), booked.ID)
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestCancelQueueOwnedByAnotherUser(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, 20)
	uc := newQueueUsecase(t, db, newFakeSlotReserver(), testNow)
	owner := createPatient(t, db, "Ani")
	other := createPatient(t, db, "Budi")

	booked, err := uc.BookQueue(ctxWithUser(owner.ID), &dto.BookQueueRequest{AppointmentDate: futureMonday})
	require.NoError(t, err)

	err = uc.CancelQueue(ctxWithUser(other.ID), booked.ID)
	assert.ErrorIs(t, err, ErrQueueNotFound)
}

func TestGetMyQueuesNewestFirst(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, 20)
	uc := newQueueUsecase(t, db, newFakeSlotReserver(), testNow)
	patient := createPatient(t, db, "Ani")

	for _, date := range []string{futureMonday, "2026-09-08", "2026-09-09"} {
		_, err := uc.BookQueue(ctxWithUser(patient.ID), &dto.BookQueueRequest{AppointmentDate: date})
		require.NoError(t, err)
	}

	resp, err := uc.GetMyQueues(ctxWithUser(patient.ID))
	require.NoError(t, err)
	require.Len(t, resp.Queues, 3)
	assert.Equal(t, "2026-09-09", resp.Queues[0].AppointmentDate)
	assert.Equal(t, futureMonday, resp.Queues[2].AppointmentDate)
}

func TestGetCurrentQueue(t *testing.T) {
	db := newTestDB(t)
	seedSettings(t, db, 20)
	uc := newQueueUsecase(t, db, newFakeSlotReserver(), testNow)

	today := testNow.Format(entity.DateFormat)
	var queues []*dto.QueueResponse
	for _, name := range []string{"Ani", "Budi", "Citra"} {
		patient := createPatient(t, db, name)
		booked, err := uc.BookQueue(ctxWithUser(patient.ID), &dto.BookQueueRequest{AppointmentDate: today})
		require.NoError(t, err)
		queues = append(queues, booked)
	}

	require.NoError(t, db.Model(&entity.Queue{}).
		Where("id = ?", queues[0].ID).
		Update("status", entity.QueueStatusInService).Error)

	viewer := createPatient(t, db, "Dewi")
	resp, err := uc.GetCurrentQueue(ctxWithUser(viewer.ID))
	require.NoError(t, err)

	require.NotNil(t, resp.CurrentQueue)
	assert.Equal(t, queues[0].ID, resp.CurrentQueue.ID)
	assert.Equal(t, 2, resp.TotalWaiting)
	require.Len(t, resp.WaitingQueues, 2)
	assert.Equal(t, 2, resp.WaitingQueues[0].QueueNumber)
	assert.Equal(t, 3, resp.WaitingQueues[1].QueueNumber)
}
