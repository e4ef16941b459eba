package usecase

import (
	"context"
	"errors"
	"time"

	"clinic-queue/internal/delivery/dto"
	"clinic-queue/internal/domain/entity"
	"clinic-queue/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDateRequired          = errors.New("date parameter is required")
	ErrInvalidDate           = errors.New("invalid date format, use YYYY-MM-DD")
	ErrSettingsNotConfigured = errors.New("practice settings are not configured")
	ErrClosedDay             = errors.New("practice is closed on that day")
)

type SlotUsecase interface {
	GetAvailableSlots(ctx context.Context, date string) (*dto.AvailableSlotsResponse, error)
}

type slotUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	queueRepo    repository.QueueRepository
	settingsRepo repository.PracticeSettingsRepository
}

func NewSlotUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	queueRepo repository.QueueRepository,
	settingsRepo repository.PracticeSettingsRepository,
) SlotUsecase {
	return &slotUsecase{
		db:           db,
		log:          log,
		queueRepo:    queueRepo,
		settingsRepo: settingsRepo,
	}
}

// GetAvailableSlots computes remaining capacity for one date. Cancelled
// entries do not occupy slots; the result is never negative.
func (u *slotUsecase) GetAvailableSlots(ctx context.Context, date string) (*dto.AvailableSlotsResponse, error) {
	if date == "" {
		return nil, ErrDateRequired
	}

	day, err := time.Parse(entity.DateFormat, date)
	if err != nil {
		return nil, ErrInvalidDate
	}

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

	totalBooked, err := u.queueRepo.CountActiveByDate(u.db.WithContext(ctx), date)
	if err != nil {
		u.log.Warnf("Failed to count queues for %s: %+v", date, err)
		return nil, err
	}

	available := settings.MaxSlotsPerDay - int(totalBooked)
	if available < 0 {
		available = 0
	}

	return &dto.AvailableSlotsResponse{
		Date:           date,
		AvailableSlots: available,
		MaxSlots:       settings.MaxSlotsPerDay,
		TotalBooked:    int(totalBooked),
		OperatingHours: settings.Hours(),
		OperatingDays:  settings.OperatingDays,
	}, nil
}
