package repository

import (
	"clinic-queue/internal/domain/entity"

	"gorm.io/gorm"
)

type PracticeSettingsRepository interface {
	FindActive(db *gorm.DB) (*entity.PracticeSettings, error)
	Save(db *gorm.DB, settings *entity.PracticeSettings) error
}
