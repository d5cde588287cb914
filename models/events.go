package models

import "time"

// TokenChangedEvent is published whenever the registration token differs from the cached one.
type TokenChangedEvent struct {
	EventID   string `json:"event_id" mapstructure:"event_id"`
	FcmToken  string `json:"fcm_token" mapstructure:"fcm_token"`
	ApnsToken string `json:"apns_token" mapstructure:"apns_token"`
	ChangedAt int64  `json:"changed_at" mapstructure:"changed_at"` // unix millis
}

// PushReceivedEvent is published for each notification the platform delivered.
type PushReceivedEvent struct {
	EventID    string `json:"event_id" mapstructure:"event_id"`
	ApnsID     string `json:"apns_id" mapstructure:"apns_id"`
	Topic      string `json:"topic" mapstructure:"topic"`
	Payload    string `json:"payload" mapstructure:"payload"`
	ReceivedAt int64  `json:"received_at" mapstructure:"received_at"` // unix millis
}

type TopicAction = string

const (
	SubscribeAction   TopicAction = "subscribe"
	UnsubscribeAction TopicAction = "unsubscribe"
)

// TopicCommand is consumed from the topic command stream.
type TopicCommand struct {
	Action TopicAction `json:"action" mapstructure:"action"`
	Topic  string      `json:"topic" mapstructure:"topic"`
}

func UnixMilli(t time.Time) int64 {
	return t.UnixNano() / int64(time.Millisecond)
}

const (
	TokenChangedEventType = "fcm_token_changed"
	PushReceivedEventType = "push_received"
)
