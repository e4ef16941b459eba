package converter

import (
	"clinic-queue/internal/delivery/dto"
	"clinic-queue/internal/domain/entity"
)

// ActivityToResponse converts an ActivityLog entity to ActivityResponse DTO
func ActivityToResponse(log *entity.ActivityLog) *dto.ActivityResponse {
	if log == nil {
		return nil
	}

	return &dto.ActivityResponse{
		ID:          log.ID,
		Type:        log.Type,
		Title:       log.Title,
		Description: log.Description,
		UserID:      log.UserID,
		QueueID:     log.QueueID,
		Metadata:    log.Metadata,
		CreatedAt:   log.CreatedAt,
	}
}

// ActivitiesToResponses converts a slice of ActivityLog entities to DTOs
func ActivitiesToResponses(logs []entity.ActivityLog) []dto.ActivityResponse {
	responses := make([]dto.ActivityResponse, len(logs))
	for i, log := range logs {
		resp := ActivityToResponse(&log)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
