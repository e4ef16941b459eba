package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// IntList stores a list of weekday indices as a JSON column
type IntList []int

// Value implements driver.Valuer
func (l IntList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner
func (l *IntList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("failed to unmarshal int list value:", value))
	}
	return json.Unmarshal(bytes, l)
}

// Contains reports whether day is in the list.
func (l IntList) Contains(day int) bool {
	for _, d := range l {
		if d == day {
			return true
		}
	}
	return false
}

// PracticeSettings is the clinic configuration row. Only one row is active at
// a time; the core reads it once per request and never mutates it.
type PracticeSettings struct {
	ID                   int       `gorm:"primaryKey;autoIncrement" json:"id"`
	MaxSlotsPerDay       int       `gorm:"not null;default:20" json:"max_slots_per_day"`
	OperatingDays        IntList   `gorm:"type:jsonb" json:"operating_days"`
	StartTime            string    `gorm:"type:varchar(5);not null;default:'08:00'" json:"start_time"`
	EndTime              string    `gorm:"type:varchar(5);not null;default:'16:00'" json:"end_time"`
	AverageServiceTime   int       `gorm:"not null;default:15" json:"average_service_time"`
	CancellationDeadline int       `gorm:"not null;default:60" json:"cancellation_deadline"`
	IsActive             bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PracticeSettings) TableName() string {
	return "practice_settings"
}

// IsOperatingDay reports whether the clinic is open on the given date.
func (s *PracticeSettings) IsOperatingDay(date time.Time) bool {
	return s.OperatingDays.Contains(int(date.Weekday()))
}

// OpeningHour returns the hour component of StartTime, falling back to 8
// when the stored value is malformed.
func (s *PracticeSettings) OpeningHour() int {
	t, err := time.Parse("15:04", s.StartTime)
	if err != nil {
		return 8
	}
	return t.Hour()
}

// OperatingHours is the start/end pair exposed on availability responses.
type OperatingHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Hours returns the operating hours value for responses.
func (s *PracticeSettings) Hours() OperatingHours {
	return OperatingHours{Start: s.StartTime, End: s.EndTime}
}
