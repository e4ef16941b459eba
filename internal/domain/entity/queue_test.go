package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQueueStatus(t *testing.T) {
	for _, raw := range []string{"waiting", "in_service", "completed", "cancelled", "no_show"} {
		status, ok := ParseQueueStatus(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, QueueStatus(raw), status)
	}

	_, ok := ParseQueueStatus("serving")
	assert.False(t, ok)

	_, ok = ParseQueueStatus("")
	assert.False(t, ok)
}

func TestQueueStatusTransitions(t *testing.T) {
	allowed := []struct {
		from, to QueueStatus
	}{
		{QueueStatusWaiting, QueueStatusInService},
		{QueueStatusWaiting, QueueStatusCancelled},
		{QueueStatusWaiting, QueueStatusNoShow},
		{QueueStatusInService, QueueStatusCompleted},
		{QueueStatusInService, QueueStatusCancelled},
		{QueueStatusInService, QueueStatusNoShow},
	}
	for _, tc := range allowed {
		assert.True(t, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}

	denied := []struct {
		from, to QueueStatus
	}{
		{QueueStatusWaiting, QueueStatusCompleted},
		{QueueStatusInService, QueueStatusWaiting},
		{QueueStatusCompleted, QueueStatusWaiting},
		{QueueStatusCompleted, QueueStatusInService},
		{QueueStatusCancelled, QueueStatusWaiting},
		{QueueStatusNoShow, QueueStatusInService},
	}
	for _, tc := range denied {
		assert.False(t, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestQueueStatusIsTerminal(t *testing.T) {
	assert.False(t, QueueStatusWaiting.IsTerminal())
	assert.False(t, QueueStatusInService.IsTerminal())
	assert.True(t, QueueStatusCompleted.IsTerminal())
	assert.True(t, QueueStatusCancelled.IsTerminal())
	assert.True(t, QueueStatusNoShow.IsTerminal())
}

func TestQueueIsActive(t *testing.T) {
	for _, status := range []QueueStatus{QueueStatusWaiting, QueueStatusInService, QueueStatusCompleted, QueueStatusNoShow} {
		q := Queue{Status: status}
		assert.True(t, q.IsActive(), status)
	}

	cancelled := Queue{Status: QueueStatusCancelled}
	assert.False(t, cancelled.IsActive())
}
