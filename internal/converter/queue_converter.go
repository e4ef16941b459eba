package converter

import (
	"clinic-queue/internal/delivery/dto"
	"clinic-queue/internal/domain/entity"

	"github.com/google/uuid"
)

// QueueToResponse converts a Queue entity to QueueResponse DTO
func QueueToResponse(queue *entity.Queue) *dto.QueueResponse {
	if queue == nil {
		return nil
	}

	response := &dto.QueueResponse{
		ID:                 queue.ID,
		UserID:             queue.UserID,
		AppointmentDate:    queue.AppointmentDate,
		QueueNumber:        queue.QueueNumber,
		Status:             string(queue.Status),
		ServiceStartedAt:   queue.ServiceStartedAt,
		ServiceCompletedAt: queue.ServiceCompletedAt,
		ActualServiceTime:  queue.ActualServiceTime,
		Notes:              queue.Notes,
		CreatedAt:          queue.CreatedAt,
		UpdatedAt:          queue.UpdatedAt,
	}

	// Include patient info if preloaded
	if queue.Patient.ID != uuid.Nil {
		response.Patient = &dto.PatientSummary{
			FullName:    queue.Patient.FullName,
			PhoneNumber: queue.Patient.PhoneNumber,
		}
	}

	return response
}

// QueuesToResponses converts a slice of Queue entities to QueueResponse DTOs
func QueuesToResponses(queues []entity.Queue) []dto.QueueResponse {
	responses := make([]dto.QueueResponse, len(queues))
	for i, queue := range queues {
		resp := QueueToResponse(&queue)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
