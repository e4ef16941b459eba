package usecase

import (
	"context"
	"errors"
	"time"

	"clinic-queue/internal/converter"
	"clinic-queue/internal/delivery/dto"
	"clinic-queue/internal/domain/entity"
	"clinic-queue/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrInvalidTimeFormat = errors.New("invalid time format, use HH:MM")

type SettingsUsecase interface {
	GetSettings(ctx context.Context) (*dto.SettingsResponse, error)
	UpdateSettings(ctx context.Context, req *dto.UpdateSettingsRequest) (*dto.SettingsResponse, error)
}

type settingsUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	settingsRepo repository.PracticeSettingsRepository
}

func NewSettingsUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	settingsRepo repository.PracticeSettingsRepository,
) SettingsUsecase {
	return &settingsUsecase{
		db:           db,
		log:          log,
		settingsRepo: settingsRepo,
	}
}

func (u *settingsUsecase) GetSettings(ctx context.Context) (*dto.SettingsResponse, error) {
	settings, err := u.settingsRepo.FindActive(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to load practice settings: %+v", err)
		return nil, err
	}
	if settings == nil {
		return nil, ErrSettingsNotConfigured
	}

	return converter.SettingsToResponse(settings), nil
}

// UpdateSettings applies a partial update to the active row, creating it
// with defaults on first configuration.
func (u *settingsUsecase) UpdateSettings(ctx context.Context, req *dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	settings, err := u.settingsRepo.FindActive(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to load practice settings: %+v", err)
		return nil, err
	}
	if settings == nil {
		settings = &entity.PracticeSettings{
			MaxSlotsPerDay:       20,
			OperatingDays:        entity.IntList{1, 2, 3, 4, 5},
			StartTime:            "08:00",
			EndTime:              "16:00",
			AverageServiceTime:   15,
			CancellationDeadline: 60,
			IsActive:             true,
		}
	}

	if req.MaxSlotsPerDay != nil {
		settings.MaxSlotsPerDay = *req.MaxSlotsPerDay
	}
	if req.OperatingDays != nil {
		settings.OperatingDays = entity.IntList(req.OperatingDays)
	}
	if req.StartTime != "" {
		if _, err := time.Parse("15:04", req.StartTime); err != nil {
			return nil, ErrInvalidTimeFormat
		}
		settings.StartTime = req.StartTime
	}
	if req.EndTime != "" {
		if _, err := time.Parse("15:04", req.EndTime); err != nil {
			return nil, ErrInvalidTimeFormat
		}
		settings.EndTime = req.EndTime
	}
	if req.AverageServiceTime != nil {
		settings.AverageServiceTime = *req.AverageServiceTime
	}
	if req.CancellationDeadline != nil {
		settings.CancellationDeadline = *req.CancellationDeadline
	}

	if err := u.settingsRepo.Save(u.db.WithContext(ctx), settings); err != nil {
		u.log.Warnf("Failed to save practice settings: %+v", err)
		return nil, err
	}

	u.log.Infof("Practice settings updated: max_slots=%d, days=%v", settings.MaxSlotsPerDay, settings.OperatingDays)
	return converter.SettingsToResponse(settings), nil
}
