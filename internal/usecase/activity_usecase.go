package usecase

import (
	"context"
	"time"

	"clinic-queue/internal/converter"
	"clinic-queue/internal/delivery/dto"
	"clinic-queue/internal/domain/entity"
	"clinic-queue/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	defaultActivityLimit = 20
	maxActivityLimit     = 100
)

type ActivityUsecase interface {
	GetRecentActivities(ctx context.Context, limit int) (*dto.ActivityListResponse, error)
	GetActivityStats(ctx context.Context) (*dto.ActivityStatsResponse, error)
}

type activityUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	activityRepo repository.ActivityLogRepository
	timeProvider TimeProvider
}

func NewActivityUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	activityRepo repository.ActivityLogRepository,
) ActivityUsecase {
	return &activityUsecase{
		db:           db,
		log:          log,
		activityRepo: activityRepo,
		timeProvider: RealTimeProvider{},
	}
}

func (u *activityUsecase) GetRecentActivities(ctx context.Context, limit int) (*dto.ActivityListResponse, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}

	logs, err := u.activityRepo.FindRecent(u.db.WithContext(ctx), limit)
	if err != nil {
		u.log.Warnf("Failed to find recent activities: %+v", err)
		return nil, err
	}

	return &dto.ActivityListResponse{
		Activities: converter.ActivitiesToResponses(logs),
		Total:      len(logs),
	}, nil
}

// GetActivityStats tallies today's activity entries per type.
func (u *activityUsecase) GetActivityStats(ctx context.Context) (*dto.ActivityStatsResponse, error) {
	now := u.timeProvider.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	counts, err := u.activityRepo.CountByTypeSince(u.db.WithContext(ctx), midnight)
	if err != nil {
		u.log.Warnf("Failed to count activities: %+v", err)
		return nil, err
	}

	byType := make(map[string]int64, len(counts))
	for _, c := range counts {
		byType[c.Type] = c.Count
	}

	return &dto.ActivityStatsResponse{
		Date:   now.Format(entity.DateFormat),
		Counts: byType,
	}, nil
}
