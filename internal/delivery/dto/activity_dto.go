package dto

import (
	"time"

	"clinic-queue/internal/domain/entity"

	"github.com/google/uuid"
)

type ActivityResponse struct {
	ID          int64       `json:"id"`
	Type        string      `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	UserID      *uuid.UUID  `json:"user_id,omitempty"`
	QueueID     *uuid.UUID  `json:"queue_id,omitempty"`
	Metadata    entity.JSON `json:"metadata,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

type ActivityListResponse struct {
	Activities []ActivityResponse `json:"activities"`
	Total      int                `json:"total"`
}

type ActivityStatsResponse struct {
	Date   string           `json:"date"`
	Counts map[string]int64 `json:"counts"`
}
