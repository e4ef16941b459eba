package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"clinic-queue/internal/converter"
	"clinic-queue/internal/delivery/dto"
	"clinic-queue/internal/domain/entity"
	"clinic-queue/internal/domain/repository"
	"clinic-queue/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrServiceInProgress = errors.New("a patient is already being served")
	ErrNoWaitingQueue    = errors.New("no waiting queue for today")
	ErrQueueNotInService = errors.New("queue not found or not in service")
	ErrInvalidStatus     = errors.New("invalid queue status")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

type QueueAdminUsecase interface {
	CallNext(ctx context.Context) (*dto.QueueResponse, error)
	CompleteQueue(ctx context.Context, queueID uuid.UUID) (*dto.QueueResponse, error)
	UpdateQueueStatus(ctx context.Context, queueID uuid.UUID, req *dto.UpdateQueueStatusRequest) (*dto.QueueResponse, error)
	GetQueuesByDate(ctx context.Context, date string) (*dto.QueuesByDateResponse, error)
}

type queueAdminUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	queueRepo    repository.QueueRepository
	slots        service.SlotReserver
	activity     service.ActivityRecorder
	broadcaster  service.Broadcaster
	locker       service.DayLocker
	timeProvider TimeProvider
}

func NewQueueAdminUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	queueRepo repository.QueueRepository,
	slots service.SlotReserver,
	activity service.ActivityRecorder,
	broadcaster service.Broadcaster,
	locker service.DayLocker,
) QueueAdminUsecase {
	return &queueAdminUsecase{
		db:           db,
		log:          log,
		queueRepo:    queueRepo,
		slots:        slots,
		activity:     activity,
		broadcaster:  broadcaster,
		locker:       locker,
		timeProvider: RealTimeProvider{},
	}
}

// CallNext promotes today's lowest-numbered waiting entry to in_service.
// The whole read-validate-write runs under a per-day lock so two staff
// terminals cannot both promote a patient.
func (u *queueAdminUsecase) CallNext(ctx context.Context) (*dto.QueueResponse, error) {
	today := u.timeProvider.Now().Format(entity.DateFormat)

	var called *entity.Queue
	err := u.locker.WithDayLock(ctx, today, func(ctx context.Context) error {
		current, err := u.queueRepo.FindInService(u.db.WithContext(ctx), today)
		if err != nil {
			u.log.Warnf("Failed to find in-service queue: %+v", err)
			return err
		}
		if current != nil {
			return ErrServiceInProgress
		}

		next, err := u.queueRepo.FindFirstWaiting(u.db.WithContext(ctx), today)
		if err != nil {
			u.log.Warnf("Failed to find waiting queue: %+v", err)
			return err
		}
		if next == nil {
			return ErrNoWaitingQueue
		}

		now := u.timeProvider.Now()
		next.Status = entity.QueueStatusInService
		next.ServiceStartedAt = &now

		if err := u.queueRepo.Save(u.db.WithContext(ctx), next); err != nil {
			u.log.Warnf("Failed to call queue %s: %+v", next.ID, err)
			return err
		}

		called = next
		return nil
	})
	if err != nil {
		if errors.Is(err, service.ErrLockNotAcquired) {
			return nil, ErrServiceInProgress
		}
		return nil, err
	}

	u.activity.QueueCalled(u.db.WithContext(ctx), called, called.Patient.FullName)

	resp := converter.QueueToResponse(called)
	u.publish(ctx, service.EventQueueCalled, resp,
		fmt.Sprintf("Calling %s - queue number %d", called.Patient.FullName, called.QueueNumber))

	u.log.Infof("Queue called: id=%s, number=%d", called.ID, called.QueueNumber)
	return resp, nil
}

// CompleteQueue finishes the entry currently in service and derives the
// actual service time in whole minutes.
func (u *queueAdminUsecase) CompleteQueue(ctx context.Context, queueID uuid.UUID) (*dto.QueueResponse, error) {
	queue, err := u.queueRepo.FindByID(u.db.WithContext(ctx), queueID)
	if err != nil {
		u.log.Warnf("Failed to find queue %s: %+v", queueID, err)
		return nil, err
	}
	if queue == nil || !queue.IsInService() {
		return nil, ErrQueueNotInService
	}

	now := u.timeProvider.Now()
	queue.Status = entity.QueueStatusCompleted
	queue.ServiceCompletedAt = &now

	serviceTime := 0
	if queue.ServiceStartedAt != nil {
		serviceTime = int(math.Round(now.Sub(*queue.ServiceStartedAt).Minutes()))
		queue.ActualServiceTime = &serviceTime
	}

	if err := u.queueRepo.Save(u.db.WithContext(ctx), queue); err != nil {
		u.log.Warnf("Failed to complete queue %s: %+v", queueID, err)
		return nil, err
	}

	u.activity.QueueCompleted(u.db.WithContext(ctx), queue, queue.Patient.FullName, serviceTime)

	resp := converter.QueueToResponse(queue)
	u.publish(ctx, service.EventQueueCompleted, resp,
		fmt.Sprintf("%s has been served", queue.Patient.FullName))

	u.log.Infof("Queue completed: id=%s, service_time=%dm", queueID, serviceTime)
	return resp, nil
}

// UpdateQueueStatus applies an admin-chosen status. The transition table on
// the entity decides validity; re-entering waiting is always refused.
func (u *queueAdminUsecase) UpdateQueueStatus(ctx context.Context, queueID uuid.UUID, req *dto.UpdateQueueStatusRequest) (*dto.QueueResponse, error) {
	newStatus, ok := entity.ParseQueueStatus(req.Status)
	if !ok {
		return nil, ErrInvalidStatus
	}

	queue, err := u.queueRepo.FindByID(u.db.WithContext(ctx), queueID)
	if err != nil {
		u.log.Warnf("Failed to find queue %s: %+v", queueID, err)
		return nil, err
	}
	if queue == nil {
		return nil, ErrQueueNotFound
	}

	previous := queue.Status
	if !previous.CanTransitionTo(newStatus) {
		return nil, ErrInvalidTransition
	}

	now := u.timeProvider.Now()
	queue.Status = newStatus
	if req.Notes != "" {
		queue.Notes = req.Notes
	}

	serviceTime := 0
	switch newStatus {
	case entity.QueueStatusInService:
		if queue.ServiceStartedAt == nil {
			queue.ServiceStartedAt = &now
		}
	case entity.QueueStatusCompleted:
		queue.ServiceCompletedAt = &now
		if queue.ServiceStartedAt != nil {
			serviceTime = int(math.Round(now.Sub(*queue.ServiceStartedAt).Minutes()))
			queue.ActualServiceTime = &serviceTime
		}
	}

	if err := u.queueRepo.Save(u.db.WithContext(ctx), queue); err != nil {
		u.log.Warnf("Failed to update queue %s: %+v", queueID, err)
		return nil, err
	}

	// Cancelled entries release their slot; no-shows still occupy one
	if newStatus == entity.QueueStatusCancelled {
		restoreCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := u.slots.Restore(restoreCtx, queue.AppointmentDate); err != nil {
			u.log.Warnf("Failed to release slot for %s (non-fatal): %+v", queue.AppointmentDate, err)
		}
	}

	u.activity.StatusChanged(u.db.WithContext(ctx), queue, queue.Patient.FullName, previous, req.Notes)

	resp := converter.QueueToResponse(queue)
	u.publish(ctx, service.EventQueueUpdated, resp,
		fmt.Sprintf("Queue status for %s changed to %s", queue.Patient.FullName, newStatus))

	u.log.Infof("Queue status updated: id=%s, %s -> %s", queueID, previous, newStatus)
	return resp, nil
}

// GetQueuesByDate lists a full day with per-status tallies for the admin
// dashboard.
func (u *queueAdminUsecase) GetQueuesByDate(ctx context.Context, date string) (*dto.QueuesByDateResponse, error) {
	if date == "" {
		return nil, ErrDateRequired
	}
	if _, err := time.Parse(entity.DateFormat, date); err != nil {
		return nil, ErrInvalidDate
	}

	queues, err := u.queueRepo.FindByDate(u.db.WithContext(ctx), date)
	if err != nil {
		u.log.Warnf("Failed to find queues for %s: %+v", date, err)
		return nil, err
	}

	return &dto.QueuesByDateResponse{
		Queues: converter.QueuesToResponses(queues),
		Stats:  TallyStatuses(queues),
	}, nil
}

// TallyStatuses counts queue entries per lifecycle status.
func TallyStatuses(queues []entity.Queue) repository.StatusCounts {
	stats := repository.StatusCounts{Total: len(queues)}
	for _, q := range queues {
		switch q.Status {
		case entity.QueueStatusWaiting:
			stats.Waiting++
		case entity.QueueStatusInService:
			stats.InService++
		case entity.QueueStatusCompleted:
			stats.Completed++
		case entity.QueueStatusCancelled:
			stats.Cancelled++
		case entity.QueueStatusNoShow:
			stats.NoShow++
		}
	}
	return stats
}

// publish pushes a realtime event; delivery is best-effort and never fails
// the operation.
func (u *queueAdminUsecase) publish(ctx context.Context, event string, queue *dto.QueueResponse, message string) {
	payload := dto.QueueEventPayload{Queue: queue, Message: message}
	if err := u.broadcaster.Publish(ctx, event, payload); err != nil {
		u.log.Warnf("Failed to broadcast %s (non-fatal): %+v", event, err)
	}
}
