package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QueueStatus represents the lifecycle state of a queue entry
type QueueStatus string

const (
	QueueStatusWaiting   QueueStatus = "waiting"
	QueueStatusInService QueueStatus = "in_service"
	QueueStatusCompleted QueueStatus = "completed"
	QueueStatusCancelled QueueStatus = "cancelled"
	QueueStatusNoShow    QueueStatus = "no_show"
)

// DateFormat is the canonical appointment date layout
const DateFormat = "2006-01-02"

// queueTransitions encodes the lifecycle state machine. A status missing from
// the map is terminal. Re-entering waiting is never allowed.
var queueTransitions = map[QueueStatus][]QueueStatus{
	QueueStatusWaiting:   {QueueStatusInService, QueueStatusCancelled, QueueStatusNoShow},
	QueueStatusInService: {QueueStatusCompleted, QueueStatusCancelled, QueueStatusNoShow},
}

// ParseQueueStatus validates a raw status string against the closed set.
func ParseQueueStatus(raw string) (QueueStatus, bool) {
	switch QueueStatus(raw) {
	case QueueStatusWaiting, QueueStatusInService, QueueStatusCompleted, QueueStatusCancelled, QueueStatusNoShow:
		return QueueStatus(raw), true
	}
	return "", false
}

// CanTransitionTo reports whether the lifecycle allows moving to next.
func (s QueueStatus) CanTransitionTo(next QueueStatus) bool {
	for _, allowed := range queueTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (s QueueStatus) IsTerminal() bool {
	return len(queueTransitions[s]) == 0
}

// Queue represents a patient's reserved position for a given day.
// Queue numbers are assigned sequentially per appointment date and are never
// reused, so a cancelled entry leaves its number behind.
type Queue struct {
	ID                 uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	AppointmentDate    string      `gorm:"type:date;not null;uniqueIndex:idx_queues_date_number,priority:1" json:"appointment_date"`
	QueueNumber        int         `gorm:"not null;uniqueIndex:idx_queues_date_number,priority:2" json:"queue_number"`
	Status             QueueStatus `gorm:"type:varchar(20);not null;default:'waiting';index" json:"status"`
	ServiceStartedAt   *time.Time  `json:"service_started_at,omitempty"`
	ServiceCompletedAt *time.Time  `json:"service_completed_at,omitempty"`
	ActualServiceTime  *int        `json:"actual_service_time,omitempty"`
	Notes              string      `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt          time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time   `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient User `gorm:"foreignKey:UserID" json:"patient,omitempty"`
}

func (Queue) TableName() string {
	return "queues"
}

func (q *Queue) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// IsWaiting checks if the queue entry is still waiting to be called
func (q *Queue) IsWaiting() bool {
	return q.Status == QueueStatusWaiting
}

// IsInService checks if the patient is currently being served
func (q *Queue) IsInService() bool {
	return q.Status == QueueStatusInService
}

// IsActive reports whether the entry still occupies a slot for its date.
func (q *Queue) IsActive() bool {
	return q.Status != QueueStatusCancelled
}
