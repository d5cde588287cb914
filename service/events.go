// Package service connects the fcm.Manager to the host over redis streams.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shitamachi/fcm-bridge/apns"
	"github.com/shitamachi/fcm-bridge/log"
	"github.com/shitamachi/fcm-bridge/models"
	"github.com/shitamachi/fcm-bridge/utils"
	"github.com/shitamachi/redisqueue/v2"
	"go.uber.org/zap"
)

// Enqueuer is satisfied by *redisqueue.Producer.
type Enqueuer interface {
	Enqueue(msg *redisqueue.Message) error
}

type deviceTokenSource interface {
	CachedDeviceToken(ctx context.Context) string
}

// PublishTokenChanged returns a token listener that enqueues a TokenChangedEvent on stream.
func PublishTokenChanged(ctx context.Context, p Enqueuer, tokens deviceTokenSource, stream string) func(token string) {
	return func(token string) {
		event := models.TokenChangedEvent{
			EventID:   uuid.NewString(),
			FcmToken:  token,
			ApnsToken: tokens.CachedDeviceToken(ctx),
			ChangedAt: models.UnixMilli(time.Now()),
		}
		if err := AddMessageToStream(ctx, p, stream, models.TokenChangedEventType, event); err != nil {
			log.WithCtx(ctx).Error("PublishTokenChanged: enqueue event failed", zap.Error(err))
		}
	}
}

// PublishPushReceived returns a push hook that enqueues every notification on
// stream and then calls next, if any.
func PublishPushReceived(p Enqueuer, stream string, next apns.Handler) apns.Handler {
	return func(ctx context.Context, n apns.Notification) {
		event := models.PushReceivedEvent{
			EventID:    uuid.NewString(),
			ApnsID:     n.ID,
			Topic:      n.Topic,
			Payload:    string(n.Payload),
			ReceivedAt: models.UnixMilli(n.ReceivedAt),
		}
		if err := AddMessageToStream(ctx, p, stream, models.PushReceivedEventType, event); err != nil {
			log.WithCtx(ctx).Error("PublishPushReceived: enqueue event failed", zap.Error(err))
		}
		if next != nil {
			next(ctx, n)
		}
	}
}

func AddMessageToStream(ctx context.Context, p Enqueuer, stream, eventType string, event interface{}) error {
	values, err := utils.StructToMap(event)
	if err != nil {
		return err
	}
	values = utils.MergeMap(values, map[string]interface{}{"event_type": eventType})

	msg := &redisqueue.Message{Stream: stream, Values: values}
	if err := p.Enqueue(msg); err != nil {
		return err
	}

	log.WithCtx(ctx).Debug("AddMessageToStream: add item to stream successfully",
		zap.String("stream", stream),
		zap.String("id", msg.ID),
	)
	return nil
}
