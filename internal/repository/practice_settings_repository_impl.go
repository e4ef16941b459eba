package repository

import (
	"errors"

	"clinic-queue/internal/domain/entity"
	domainRepo "clinic-queue/internal/domain/repository"

	"gorm.io/gorm"
)

type practiceSettingsRepository struct{}

func NewPracticeSettingsRepository() domainRepo.PracticeSettingsRepository {
	return &practiceSettingsRepository{}
}

func (r *practiceSettingsRepository) FindActive(db *gorm.DB) (*entity.PracticeSettings, error) {
	var settings entity.PracticeSettings
	err := db.Where("is_active = ?", true).First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

func (r *practiceSettingsRepository) Save(db *gorm.DB, settings *entity.PracticeSettings) error {
	return db.Save(settings).Error
}
