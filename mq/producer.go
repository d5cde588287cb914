package mq

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/shitamachi/fcm-bridge/config/config_entries"
	"github.com/shitamachi/redisqueue/v2"
)

func InitProducer(ctx context.Context, client *redis.Client, conf config_entries.MqConfig) (*redisqueue.Producer, error) {
	p, err := redisqueue.NewProducerWithOptions(&redisqueue.ProducerOptions{
		Ctx:                  ctx,
		StreamMaxLength:      conf.StreamMaxLength,
		ApproximateMaxLength: true,
		RedisClient:          client,
	})
	return p, err
}
