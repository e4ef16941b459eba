package dto

import (
	"time"

	"clinic-queue/internal/domain/entity"
	"clinic-queue/internal/domain/repository"

	"github.com/google/uuid"
)

// Request DTOs

type BookQueueRequest struct {
	AppointmentDate string `json:"appointment_date" validate:"required"`
}

type UpdateQueueStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes" validate:"omitempty,max=500"`
}

// Response DTOs

type PatientSummary struct {
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

type QueueResponse struct {
	ID                 uuid.UUID       `json:"id"`
	UserID             uuid.UUID       `json:"user_id"`
	AppointmentDate    string          `json:"appointment_date"`
	QueueNumber        int             `json:"queue_number"`
	Status             string          `json:"status"`
	ServiceStartedAt   *time.Time      `json:"service_started_at,omitempty"`
	ServiceCompletedAt *time.Time      `json:"service_completed_at,omitempty"`
	ActualServiceTime  *int            `json:"actual_service_time,omitempty"`
	Notes              string          `json:"notes,omitempty"`
	Patient            *PatientSummary `json:"patient,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

type QueueDataResponse struct {
	Queue *QueueResponse `json:"queue"`
}

type QueueListResponse struct {
	Queues []QueueResponse `json:"queues"`
}

type CurrentQueueResponse struct {
	CurrentQueue  *QueueResponse  `json:"currentQueue"`
	WaitingQueues []QueueResponse `json:"waitingQueues"`
	TotalWaiting  int             `json:"totalWaiting"`
}

type QueuesByDateResponse struct {
	Queues []QueueResponse         `json:"queues"`
	Stats  repository.StatusCounts `json:"stats"`
}

type AvailableSlotsResponse struct {
	Date           string                `json:"date"`
	AvailableSlots int                   `json:"availableSlots"`
	MaxSlots       int                   `json:"maxSlots"`
	TotalBooked    int                   `json:"totalBooked"`
	OperatingHours entity.OperatingHours `json:"operatingHours"`
	OperatingDays  []int                 `json:"operatingDays"`
}

// QueueEventPayload is the realtime broadcast envelope.
type QueueEventPayload struct {
	Queue   *QueueResponse `json:"queue"`
	Message string         `json:"message"`
}
