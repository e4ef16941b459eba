package repository

import (
	"time"

	"clinic-queue/internal/domain/entity"

	"gorm.io/gorm"
)

// TypeCount is a per-type tally row for activity stats.
type TypeCount struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

type ActivityLogRepository interface {
	Create(db *gorm.DB, log *entity.ActivityLog) error
	FindRecent(db *gorm.DB, limit int) ([]entity.ActivityLog, error)
	CountByTypeSince(db *gorm.DB, since time.Time) ([]TypeCount, error)
}
