package usecase

import "time"

// TimeProvider abstracts the wall clock so date-sensitive rules (same-day
// cancellation, call-next "today") are testable.
type TimeProvider interface {
	Now() time.Time
}

type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time {
	return time.Now()
}
