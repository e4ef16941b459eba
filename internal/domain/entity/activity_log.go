package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ActivityLog is a human-readable trail entry appended for every queue
// transition. Entries are append-only and never block the operation that
// produced them.
type ActivityLog struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Type        string     `gorm:"type:varchar(50);not null;index" json:"type"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	UserID      *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	QueueID     *uuid.UUID `gorm:"type:uuid;index" json:"queue_id,omitempty"`
	Metadata    JSON       `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime;index" json:"created_at"`

	// Relationships
	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Queue *Queue `gorm:"foreignKey:QueueID" json:"queue,omitempty"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}

// JSON type for GORM JSONB support
type JSON map[string]interface{}

// Value returns json value, implement driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan scan value into Jsonb, implements sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	result := map[string]interface{}{}
	err := json.Unmarshal(bytes, &result)
	*j = JSON(result)
	return err
}

// Activity types
const (
	ActivityQueueCreated   = "queue_created"
	ActivityQueueCalled    = "queue_called"
	ActivityQueueCompleted = "queue_completed"
	ActivityQueueCancelled = "queue_cancelled"
	ActivityQueueNoShow    = "queue_no_show"
)
