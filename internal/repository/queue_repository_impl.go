package repository

import (
	"errors"

	"clinic-queue/internal/domain/entity"
	domainRepo "clinic-queue/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type queueRepository struct{}

func NewQueueRepository() domainRepo.QueueRepository {
	return &queueRepository{}
}

func (r *queueRepository) Create(db *gorm.DB, queue *entity.Queue) error {
	return db.Create(queue).Error
}

func (r *queueRepository) Save(db *gorm.DB, queue *entity.Queue) error {
	return db.Save(queue).Error
}

func (r *queueRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Queue, error) {
	var queue entity.Queue
	err := db.Preload("Patient").Where("id = ?", id).First(&queue).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &queue, nil
}

func (r *queueRepository) FindByIDAndUser(db *gorm.DB, id, userID uuid.UUID) (*entity.Queue, error) {
	var queue entity.Queue
	err := db.Preload("Patient").Where("id = ? AND user_id = ?", id, userID).First(&queue).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &queue, nil
}

func (r *queueRepository) FindByUserID(db *gorm.DB, userID uuid.UUID, limit int) ([]entity.Queue, error) {
	var queues []entity.Queue
	err := db.Where("user_id = ?", userID).
		Order("appointment_date DESC, queue_number DESC").
		Limit(limit).
		Find(&queues).Error
	if err != nil {
		return nil, err
	}
	return queues, nil
}

// FindActiveByUserAndDate returns the user's non-cancelled entry for the
// date, if any. Used by admission control to enforce one booking per day.
func (r *queueRepository) FindActiveByUserAndDate(db *gorm.DB, userID uuid.UUID, date string) (*entity.Queue, error) {
	var queue entity.Queue
	err := db.Where("user_id = ? AND appointment_date = ? AND status != ?", userID, date, entity.QueueStatusCancelled).
		First(&queue).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &queue, nil
}

func (r *queueRepository) FindByDate(db *gorm.DB, date string) ([]entity.Queue, error) {
	var queues []entity.Queue
	err := db.Preload("Patient").
		Where("appointment_date = ?", date).
		Order("queue_number ASC").
		Find(&queues).Error
	if err != nil {
		return nil, err
	}
	return queues, nil
}

func (r *queueRepository) FindByDateAndStatus(db *gorm.DB, date string, status entity.QueueStatus) ([]entity.Queue, error) {
	var queues []entity.Queue
	err := db.Preload("Patient").
		Where("appointment_date = ? AND status = ?", date, status).
		Order("queue_number ASC").
		Find(&queues).Error
	if err != nil {
		return nil, err
	}
	return queues, nil
}

func (r *queueRepository) FindFirstWaiting(db *gorm.DB, date string) (*entity.Queue, error) {
	var queue entity.Queue
	err := db.Preload("Patient").
		Where("appointment_date = ? AND status = ?", date, entity.QueueStatusWaiting).
		Order("queue_number ASC").
		First(&queue).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &queue, nil
}

func (r *queueRepository) FindInService(db *gorm.DB, date string) (*entity.Queue, error) {
	var queue entity.Queue
	err := db.Preload("Patient").
		Where("appointment_date = ? AND status = ?", date, entity.QueueStatusInService).
		First(&queue).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &queue, nil
}

func (r *queueRepository) CountActiveByDate(db *gorm.DB, date string) (int64, error) {
	var count int64
	err := db.Model(&entity.Queue{}).
		Where("appointment_date = ? AND status != ?", date, entity.QueueStatusCancelled).
		Count(&count).Error
	return count, err
}
