// Package push talks to the platform push services: the Firebase SDK shim the
// fcm.Manager drives, and the one-shot loopback pushers used for diagnostics.
package push

import (
	"context"

	"github.com/shitamachi/fcm-bridge/models"
)

// Pusher sends a single test push to token and returns the platform message id.
type Pusher interface {
	Push(ctx context.Context, token string, msg *models.PushMessage) (string, error)
}
