package usecase

import (
	"context"
	"errors"
	"time"

	"clinic-queue/internal/converter"
	"clinic-queue/internal/delivery/dto"
	"clinic-queue/internal/delivery/http/middleware"
	"clinic-queue/internal/domain/entity"
	"clinic-queue/internal/domain/repository"
	"clinic-queue/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrQueueNotFound    = errors.New("queue not found")
	ErrDuplicateBooking = errors.New("you already have a queue on that date")
	ErrCapacityExceeded = errors.New("no slot remains for that date")
	ErrPastDate         = errors.New("cannot book a past date")
	ErrCannotCancel     = errors.New("queue can no longer be cancelled")
	ErrCancelTooLate    = errors.New("same-day cancellation is closed once the practice opens")
)

// myQueuesLimit caps the patient booking history response.
const myQueuesLimit = 20

type QueueUsecase interface {
	BookQueue(ctx context.Context, req *dto.BookQueueRequest) (*dto.QueueResponse, error)
	GetMyQueues(ctx context.Context) (*dto.QueueListResponse, error)
	GetCurrentQueue(ctx context.Context) (*dto.CurrentQueueResponse, error)
	CancelQueue(ctx context.Context, queueID uuid.UUID) error
}

type queueUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	queueRepo    repository.QueueRepository
	settingsRepo repository.PracticeSettingsRepository
	slots        service.SlotReserver
	activity     service.ActivityRecorder
	timeProvider TimeProvider
}

func NewQueueUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	queueRepo repository.QueueRepository,
	settingsRepo repository.PracticeSettingsRepository,
	slots service.SlotReserver,
	activity service.ActivityRecorder,
) QueueUsecase {
	return &queueUsecase{
		db:           db,
		log:          log,
		queueRepo:    queueRepo,
		settingsRepo: settingsRepo,
		slots:        slots,
		activity:     activity,
		timeProvider: RealTimeProvider{},
	}
}

// BookQueue admits one booking for the requesting patient.
//
// Flow:
// 1. Refuse duplicate non-cancelled booking for the same date
// 2. Load active practice settings, refuse closed days
// 3. Atomic slot reservation draws the queue number
// 4. Insert the waiting entry
// 5. If the insert fails, release the reserved slot
// 6. Record queue_created activity
func (u *queueUsecase) BookQueue(ctx context.Context, req *dto.BookQueueRequest) (*dto.QueueResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	day, err := time.Parse(entity.DateFormat, req.AppointmentDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	date := day.Format(entity.DateFormat)

	today := u.timeProvider.Now().Format(entity.DateFormat)
	if date < today {
		return nil, ErrPastDate
	}

	// Step 1: one non-cancelled booking per patient per date
	existing, err := u.queueRepo.FindActiveByUserAndDate(u.db.WithContext(ctx), userID, date)
	if err != nil {
		u.log.Warnf("Failed to check existing queue: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateBooking
	}

	// Step 2: settings and operating day
	settings, err := u.settingsRepo.FindActive(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to load practice settings: %+v", err)
		return nil, err
	}
	if settings == nil {
		return nil, ErrSettingsNotConfigured
	}
	if !settings.IsOperatingDay(day) {
		return nil, ErrClosedDay
	}

	// Step 3: atomic capacity check + queue number assignment
	queueNumber, err := u.slots.Reserve(ctx, date, settings.MaxSlotsPerDay)
	if err != nil {
		if errors.Is(err, service.ErrCapacityFull) {
			return nil, ErrCapacityExceeded
		}
		u.log.Warnf("Failed slot reservation for %s: %+v", date, err)
		return nil, err
	}

	// Step 4: persist the waiting entry
	queue := &entity.Queue{
		UserID:          userID,
		AppointmentDate: date,
		QueueNumber:     queueNumber,
		Status:          entity.QueueStatusWaiting,
	}

	if err := u.queueRepo.Create(u.db.WithContext(ctx), queue); err != nil {
		u.log.Errorf("Failed to insert queue, releasing reserved slot: %+v", err)

		// Step 5: compensate so the slot is not leaked
		restoreCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if restoreErr := u.slots.Restore(restoreCtx, date); restoreErr != nil {
			u.log.Errorf("Failed to release slot for %s after insert failure: %+v", date, restoreErr)
		}

		return nil, err
	}

	// Reload with patient info for the activity entry and response
	full, err := u.queueRepo.FindByID(u.db.WithContext(ctx), queue.ID)
	if err != nil || full == nil {
		u.log.Warnf("Failed to reload queue %s: %+v", queue.ID, err)
		return converter.QueueToResponse(queue), nil
	}

	u.activity.QueueCreated(u.db.WithContext(ctx), full, full.Patient.FullName)

	u.log.Infof("Queue created: id=%s, date=%s, number=%d", full.ID, date, queueNumber)
	return converter.QueueToResponse(full), nil
}

// GetMyQueues returns the patient's bookings, newest first.
func (u *queueUsecase) GetMyQueues(ctx context.Context) (*dto.QueueListResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	queues, err := u.queueRepo.FindByUserID(u.db.WithContext(ctx), userID, myQueuesLimit)
	if err != nil {
		u.log.Warnf("Failed to find queues for user %s: %+v", userID, err)
		return nil, err
	}

	return &dto.QueueListResponse{
		Queues: converter.QueuesToResponses(queues),
	}, nil
}

// GetCurrentQueue returns today's in-service entry and the waiting list.
func (u *queueUsecase) GetCurrentQueue(ctx context.Context) (*dto.CurrentQueueResponse, error) {
	today := u.timeProvider.Now().Format(entity.DateFormat)

	current, err := u.queueRepo.FindInService(u.db.WithContext(ctx), today)
	if err != nil {
		u.log.Warnf("Failed to find in-service queue: %+v", err)
		return nil, err
	}

	waiting, err := u.queueRepo.FindByDateAndStatus(u.db.WithContext(ctx), today, entity.QueueStatusWaiting)
	if err != nil {
		u.log.Warnf("Failed to find waiting queues: %+v", err)
		return nil, err
	}

	return &dto.CurrentQueueResponse{
		CurrentQueue:  converter.QueueToResponse(current),
		WaitingQueues: converter.QueuesToResponses(waiting),
		TotalWaiting:  len(waiting),
	}, nil
}

// CancelQueue cancels the patient's own waiting entry. Same-day cancellation
// is refused once the practice has opened.
func (u *queueUsecase) CancelQueue(ctx context.Context, queueID uuid.UUID) error {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return errors.New("user not found in context")
	}

	queue, err := u.queueRepo.FindByIDAndUser(u.db.WithContext(ctx), queueID, userID)
	if err != nil {
		u.log.Warnf("Failed to find queue %s: %+v", queueID, err)
		return err
	}
	if queue == nil {
		return ErrQueueNotFound
	}

	if !queue.IsWaiting() {
		return ErrCannotCancel
	}

	openingHour := 8
	settings, err := u.settingsRepo.FindActive(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to load practice settings: %+v", err)
		return err
	}
	if settings != nil {
		openingHour = settings.OpeningHour()
	}

	now := u.timeProvider.Now()
	if queue.AppointmentDate == now.Format(entity.DateFormat) && now.Hour() >= openingHour {
		return ErrCancelTooLate
	}

	queue.Status = entity.QueueStatusCancelled
	if err := u.queueRepo.Save(u.db.WithContext(ctx), queue); err != nil {
		u.log.Warnf("Failed to cancel queue %s: %+v", queueID, err)
		return err
	}

	// Release the slot; the queue number is not reused
	restoreCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := u.slots.Restore(restoreCtx, queue.AppointmentDate); err != nil {
		u.log.Warnf("Failed to release slot for %s (non-fatal): %+v", queue.AppointmentDate, err)
	}

	u.activity.QueueCancelled(u.db.WithContext(ctx), queue, queue.Patient.FullName)

	u.log.Infof("Queue cancelled: id=%s, date=%s", queueID, queue.AppointmentDate)
	return nil
}
