package service

import "context"

// Broadcaster is the realtime side-channel for queue events. Implementations
// must treat delivery as best-effort; queue operations never roll back on a
// failed publish.
type Broadcaster interface {
	Publish(ctx context.Context, event string, payload interface{}) error
}

// Realtime event names
const (
	EventQueueCalled    = "queue_called"
	EventQueueCompleted = "queue_completed"
	EventQueueUpdated   = "queue_updated"
)

// NoopBroadcaster is used when realtime keys are not configured.
type NoopBroadcaster struct{}

func (NoopBroadcaster) Publish(ctx context.Context, event string, payload interface{}) error {
	return nil
}
