package repository

import (
	"clinic-queue/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatusCounts tallies queue entries per lifecycle status for one date.
type StatusCounts struct {
	Total     int `json:"total"`
	Waiting   int `json:"waiting"`
	InService int `json:"in_service"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
	NoShow    int `json:"no_show"`
}

type QueueRepository interface {
	Create(db *gorm.DB, queue *entity.Queue) error
	Save(db *gorm.DB, queue *entity.Queue) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Queue, error)
	FindByIDAndUser(db *gorm.DB, id, userID uuid.UUID) (*entity.Queue, error)
	FindByUserID(db *gorm.DB, userID uuid.UUID, limit int) ([]entity.Queue, error)
	FindActiveByUserAndDate(db *gorm.DB, userID uuid.UUID, date string) (*entity.Queue, error)
	FindByDate(db *gorm.DB, date string) ([]entity.Queue, error)
	FindByDateAndStatus(db *gorm.DB, date string, status entity.QueueStatus) ([]entity.Queue, error)
	FindFirstWaiting(db *gorm.DB, date string) (*entity.Queue, error)
	FindInService(db *gorm.DB, date string) (*entity.Queue, error)
	CountActiveByDate(db *gorm.DB, date string) (int64, error)
}
