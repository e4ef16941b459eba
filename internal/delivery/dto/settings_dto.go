package dto

import "time"

// Request DTOs

type UpdateSettingsRequest struct {
	MaxSlotsPerDay       *int   `json:"max_slots_per_day" validate:"omitempty,gte=1,lte=200"`
	OperatingDays        []int  `json:"operating_days" validate:"omitempty,dive,gte=0,lte=6"`
	StartTime            string `json:"start_time" validate:"omitempty"`
	EndTime              string `json:"end_time" validate:"omitempty"`
	AverageServiceTime   *int   `json:"average_service_time" validate:"omitempty,gte=1,lte=240"`
	CancellationDeadline *int   `json:"cancellation_deadline" validate:"omitempty,gte=0"`
}

// Response DTOs

type SettingsResponse struct {
	ID                   int       `json:"id"`
	MaxSlotsPerDay       int       `json:"max_slots_per_day"`
	OperatingDays        []int     `json:"operating_days"`
	StartTime            string    `json:"start_time"`
	EndTime              string    `json:"end_time"`
	AverageServiceTime   int       `json:"average_service_time"`
	CancellationDeadline int       `json:"cancellation_deadline"`
	UpdatedAt            time.Time `json:"updated_at"`
}
