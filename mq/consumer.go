package mq

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shitamachi/fcm-bridge/config/config_entries"
	"github.com/shitamachi/redisqueue/v2"
	"go.uber.org/zap"
)

func InitConsumer(
	ctx context.Context,
	redisClient *redis.Client,
	logger *zap.Logger,
	conf config_entries.MqConfig,
	stream string,
	consumerFunc redisqueue.ConsumerFunc,
) (*redisqueue.Consumer, error) {
	c, err := redisqueue.NewConsumerWithOptions(&redisqueue.ConsumerOptions{
		Ctx:                  ctx,
		GroupName:            conf.GroupName,
		VisibilityTimeout:    10 * time.Second,
		BlockingTimeout:      5 * time.Second,
		ReclaimInterval:      time.Duration(conf.RecoverMessageDuration) * time.Millisecond,
		ReclaimMaxRetryCount: 5,
		BufferSize:           100,
		Concurrency:          conf.Concurrency,
		RedisClient:          redisClient,
	})
	if err != nil {
		return c, err
	}

	c.Register(stream, consumerFunc)

	go func() {
		for err := range c.Errors {
			logger.Error("Consumer: consumer error", zap.String("stream", stream), zap.Error(err))
		}
	}()

	return c, err
}
