package realtime

import (
	"context"
	"fmt"

	"clinic-queue/config"

	pubnubgo "github.com/pubnub/go/v7"
	"github.com/sirupsen/logrus"
)

// PubNubBroadcaster pushes queue events to all connected waiting-room
// displays and patient apps. Publishing is best-effort; the caller decides
// whether a failure matters (it never does for queue operations).
type PubNubBroadcaster struct {
	pn      *pubnubgo.PubNub
	channel string
}

func NewPubNubBroadcaster(cfg config.PubNubConfig) (*PubNubBroadcaster, error) {
	if cfg.PublishKey == "" || cfg.SubscribeKey == "" {
		return nil, fmt.Errorf("pubnub keys are not configured")
	}

	pnCfg := pubnubgo.NewConfigWithUserId(pubnubgo.UserId(cfg.UserID))
	pnCfg.PublishKey = cfg.PublishKey
	pnCfg.SubscribeKey = cfg.SubscribeKey

	channel := cfg.Channel
	if channel == "" {
		channel = "clinic-queue"
	}

	logrus.Infof("PubNub broadcaster initialized on channel %s", channel)

	return &PubNubBroadcaster{
		pn:      pubnubgo.NewPubNub(pnCfg),
		channel: channel,
	}, nil
}

// Publish sends one event envelope to the shared channel.
func (b *PubNubBroadcaster) Publish(ctx context.Context, event string, payload interface{}) error {
	message := map[string]interface{}{
		"event": event,
		"data":  payload,
	}

	_, _, err := b.pn.Publish().
		Channel(b.channel).
		Message(message).
		Execute()
	if err != nil {
		return fmt.Errorf("pubnub publish %s: %w", event, err)
	}

	return nil
}
