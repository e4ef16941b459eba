package repository

import (
	"time"

	"clinic-queue/internal/domain/entity"
	domainRepo "clinic-queue/internal/domain/repository"

	"gorm.io/gorm"
)

type activityLogRepository struct{}

func NewActivityLogRepository() domainRepo.ActivityLogRepository {
	return &activityLogRepository{}
}

func (r *activityLogRepository) Create(db *gorm.DB, log *entity.ActivityLog) error {
	return db.Create(log).Error
}

func (r *activityLogRepository) FindRecent(db *gorm.DB, limit int) ([]entity.ActivityLog, error) {
	var logs []entity.ActivityLog
	err := db.Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *activityLogRepository) CountByTypeSince(db *gorm.DB, since time.Time) ([]domainRepo.TypeCount, error) {
	var counts []domainRepo.TypeCount
	err := db.Model(&entity.ActivityLog{}).
		Select("type, COUNT(*) as count").
		Where("created_at >= ?", since).
		Group("type").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}
