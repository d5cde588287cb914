package api

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/shitamachi/fcm-bridge/apns"
	"github.com/shitamachi/fcm-bridge/config"
	"github.com/shitamachi/fcm-bridge/config/config_entries"
	"github.com/shitamachi/fcm-bridge/fcm"
	"github.com/shitamachi/fcm-bridge/push"
	"go.uber.org/zap"
)

// TokenManager is the part of *fcm.Manager the handlers use.
type TokenManager interface {
	Tokens(ctx context.Context) fcm.TokenSnapshot
	CachedDeviceToken(ctx context.Context) string
	CachedMessagingToken(ctx context.Context) string
	Subscribe(topic string)
	Unsubscribe(topic string)
}

// DeviceRelay is the part of *apns.Registrar the handlers use.
type DeviceRelay interface {
	Configured() bool
	RegisterDeviceToken(ctx context.Context, token []byte) error
	DeliverNotification(ctx context.Context, n apns.Notification) error
}

type AppContext struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RedisClient *redis.Client
	Manager     TokenManager
	Registrar   DeviceRelay
	Pushers     map[config_entries.PushType]push.Pusher
}

func NewAppContext(
	config *config.AppConfig,
	logger *zap.Logger,
	redisClient *redis.Client,
	manager TokenManager,
	registrar DeviceRelay,
	pushers map[config_entries.PushType]push.Pusher,
) *AppContext {
	return &AppContext{
		Config:      config,
		Logger:      logger,
		RedisClient: redisClient,
		Manager:     manager,
		Registrar:   registrar,
		Pushers:     pushers,
	}
}

// Pusher returns the loopback pusher for pushType, if it was configured.
func (a *AppContext) Pusher(pushType config_entries.PushType) (push.Pusher, bool) {
	p, ok := a.Pushers[pushType]
	return p, ok && p != nil
}
