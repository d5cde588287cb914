package service

import (
	"context"
	"errors"

	"github.com/mitchellh/mapstructure"
	"github.com/shitamachi/fcm-bridge/log"
	"github.com/shitamachi/fcm-bridge/models"
	"github.com/shitamachi/fcm-bridge/push"
	"github.com/shitamachi/redisqueue/v2"
	"go.uber.org/zap"
)

var ErrUnknownTopicAction = errors.New("unknown topic action")

type topicManager interface {
	Subscribe(topic string)
	Unsubscribe(topic string)
}

// ProcessTopicCommand consumes TopicCommand entries. Malformed commands are
// acknowledged and dropped since a redelivery can not fix them.
func ProcessTopicCommand(manager topicManager) redisqueue.ConsumerFunc {
	return func(ctx context.Context, message *redisqueue.Message) error {
		cmd, err := DecodeTopicCommand(message.Values)
		if err != nil {
			log.WithCtx(ctx).Warn("ProcessTopicCommand: drop malformed command",
				zap.String("message_id", message.ID),
				zap.Any("values", message.Values),
				zap.Error(err),
			)
			return nil
		}

		switch cmd.Action {
		case models.SubscribeAction:
			manager.Subscribe(cmd.Topic)
		case models.UnsubscribeAction:
			manager.Unsubscribe(cmd.Topic)
		}
		log.WithCtx(ctx).Info("ProcessTopicCommand: command dispatched",
			zap.String("action", cmd.Action),
			zap.String("topic", cmd.Topic),
		)
		return nil
	}
}

func DecodeTopicCommand(values map[string]interface{}) (*models.TopicCommand, error) {
	var cmd = new(models.TopicCommand)
	if err := mapstructure.Decode(values, cmd); err != nil {
		return nil, err
	}
	switch cmd.Action {
	case models.SubscribeAction, models.UnsubscribeAction:
	default:
		return nil, ErrUnknownTopicAction
	}
	if _, err := push.NormalizeTopic(cmd.Topic); err != nil {
		return nil, err
	}
	return cmd, nil
}
