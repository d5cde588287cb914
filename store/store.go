// Package store holds the local key-value persistence used to cache the last known
// APNs and FCM tokens across restarts.
package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("store: key not found")

// Store is a string key-value store. Get returns ErrNotFound for a missing key.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
