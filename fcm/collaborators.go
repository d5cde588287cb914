package fcm

import (
	"context"

	"github.com/shitamachi/fcm-bridge/apns"
)

// SDK is the subset of the messaging SDK the Manager drives.
type SDK interface {
	// Configure prepares the SDK. Every registration token the SDK issues or
	// rotates afterwards is sent on events.
	Configure(ctx context.Context, events chan<- string) error
	// SetAPNsToken hands the raw device token to the SDK so it can bind it to a
	// registration token.
	SetAPNsToken(ctx context.Context, token []byte)
	// APNsToken returns the raw device token the SDK holds, nil if none.
	APNsToken() []byte
	// FCMToken returns the current registration token, empty if none yet.
	FCMToken() string
	SubscribeToTopic(ctx context.Context, topic string) error
	UnsubscribeFromTopic(ctx context.Context, topic string) error
}

// Registrar is the platform push-registration subsystem.
type Registrar interface {
	Configure(ctx context.Context) error
	OnDeviceToken(fn apns.TokenReceiver)
	OnPushReceived() apns.Handler
	SetOnPushReceived(fn apns.Handler)
}
