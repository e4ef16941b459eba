package converter

import (
	"clinic-queue/internal/delivery/dto"
	"clinic-queue/internal/domain/entity"
)

// SettingsToResponse converts a PracticeSettings entity to SettingsResponse DTO
func SettingsToResponse(settings *entity.PracticeSettings) *dto.SettingsResponse {
	if settings == nil {
		return nil
	}

	return &dto.SettingsResponse{
		ID:                   settings.ID,
		MaxSlotsPerDay:       settings.MaxSlotsPerDay,
		OperatingDays:        settings.OperatingDays,
		StartTime:            settings.StartTime,
		EndTime:              settings.EndTime,
		AverageServiceTime:   settings.AverageServiceTime,
		CancellationDeadline: settings.CancellationDeadline,
		UpdatedAt:            settings.UpdatedAt,
	}
}
