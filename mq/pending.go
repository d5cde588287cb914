package mq

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const defaultIdleTimeout = time.Second * 30

// Sweeper moves stuck pending entries of a consumer group to a live consumer and
// acknowledges the ones that were deleted or ran out of retries.
type Sweeper struct {
	client        *redis.Client
	logger        *zap.Logger
	stream        string
	group         string
	maxRetryCount int
	idleTimeout   time.Duration
}

func NewSweeper(client *redis.Client, logger *zap.Logger, stream, group string, maxRetryCount int) *Sweeper {
	return &Sweeper{
		client:        client,
		logger:        logger,
		stream:        stream,
		group:         group,
		maxRetryCount: maxRetryCount,
		idleTimeout:   defaultIdleTimeout,
	}
}

// Run sweeps every interval until ctx is done.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.ClaimPendingMessage(ctx); err != nil {
				s.logger.Debug("Claim: sweep failed", zap.Error(err))
			}
		}
	}
}

func (s *Sweeper) GetPendingMessages(ctx context.Context) ([]redis.XPendingExt, error) {
	pendingList, err := s.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: s.stream,
		Group:  s.group,
		Start:  "-",
		End:    "+",
		Count:  100,
	}).Result()
	if err != nil {
		s.logger.Error("Claim: get pending list failed",
			zap.String("stream", s.stream),
			zap.String("group", s.group),
			zap.Error(err),
		)
		return nil, err
	}
	return pendingList, nil
}

func (s *Sweeper) ClaimPendingMessage(ctx context.Context) error {
	pendingMessages, err := s.GetPendingMessages(ctx)
	if err != nil {
		return err
	} else if len(pendingMessages) <= 0 {
		s.logger.Debug("Claim: no pending message need to claim")
		return nil
	}

	claimConsumer, err := s.GetConsumer(ctx)
	if err != nil {
		return err
	}

	for _, message := range pendingMessages {
		if err = s.processClaimMessage(ctx, claimConsumer, message); err != nil {
			s.logger.Error("Claim: claim message failed", zap.Error(err),
				zap.String("message_id", message.ID),
				zap.String("claim_consumer", claimConsumer.Name),
				zap.String("stream", s.stream),
			)
		}
	}

	return nil
}

func (s *Sweeper) processClaimMessage(ctx context.Context, consumer *redis.XInfoConsumer, message redis.XPendingExt) error {
	if message.Idle < s.idleTimeout {
		return nil
	}

	exhausted := int(message.RetryCount+1) > s.maxRetryCount
	if !exhausted {
		_, err := s.client.XClaim(ctx, &redis.XClaimArgs{
			Stream:   s.stream,
			Group:    s.group,
			Consumer: consumer.Name,
			MinIdle:  s.idleTimeout,
			Messages: []string{message.ID},
		}).Result()
		if err == nil {
			return nil
		}
		if err != redis.Nil {
			return err
		}
	}

	// Either the entry is gone from the stream (XDEL or MAXLEN) while still
	// pending, or it failed too often. Acking is the only way out of the PEL.
	if _, err := s.client.XAck(ctx, s.stream, s.group, message.ID).Result(); err != nil {
		return fmt.Errorf("ack after failed claim: %w", err)
	}
	s.logger.Warn("Claim: dropped pending message",
		zap.String("message_id", message.ID),
		zap.Int64("retry_count", message.RetryCount),
		zap.Bool("reach_max_retry_count", exhausted),
	)
	return nil
}

// GetConsumer returns the consumer of the group with the fewest pending entries.
func (s *Sweeper) GetConsumer(ctx context.Context) (*redis.XInfoConsumer, error) {
	consumers, err := s.client.XInfoConsumers(ctx, s.stream, s.group).Result()
	if err != nil {
		return nil, fmt.Errorf("get consumers of %s/%s: %w", s.stream, s.group, err)
	}
	if len(consumers) <= 0 {
		return nil, fmt.Errorf("get consumer result is empty")
	}

	sort.Slice(consumers, func(i, j int) bool {
		return consumers[i].Pending < consumers[j].Pending
	})
	return &consumers[0], nil
}
