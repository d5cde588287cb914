// Package apns is the push-registration side of the bridge. It relays the raw
// device token the platform issues and owns the "notification received" hook.
package apns

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

var (
	ErrNotConfigured    = errors.New("apns: registrar is not configured")
	ErrEmptyDeviceToken = errors.New("apns: empty device token")
	ErrNoTokenReceiver  = errors.New("apns: no device token receiver installed")
)

// Handler receives notifications delivered by the platform.
type Handler func(ctx context.Context, n Notification)

// TokenReceiver receives raw device tokens issued by the platform.
type TokenReceiver func(ctx context.Context, token []byte)

type Registrar struct {
	logger     *zap.Logger
	configured atomic.Bool

	mu             sync.RWMutex
	onPushReceived Handler
	onDeviceToken  TokenReceiver
}

func NewRegistrar(logger *zap.Logger) *Registrar {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registrar{logger: logger.With(zap.String("component", "apns_registrar"))}
}

// Configure marks the registrar ready to relay tokens and notifications. Calling
// it again is a no-op.
func (r *Registrar) Configure(_ context.Context) error {
	if r.configured.CAS(false, true) {
		r.logger.Info("Registrar: configured")
	}
	return nil
}

func (r *Registrar) Configured() bool {
	return r.configured.Load()
}

// OnDeviceToken installs the receiver for device tokens relayed by RegisterDeviceToken.
func (r *Registrar) OnDeviceToken(fn TokenReceiver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onDeviceToken = fn
}

func (r *Registrar) OnPushReceived() Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.onPushReceived
}

func (r *Registrar) SetOnPushReceived(fn Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onPushReceived = fn
}

// RegisterDeviceToken is the entry point of the platform relay once it obtained
// a device token.
func (r *Registrar) RegisterDeviceToken(ctx context.Context, token []byte) error {
	if !r.Configured() {
		return ErrNotConfigured
	}
	if len(token) == 0 {
		return ErrEmptyDeviceToken
	}

	r.mu.RLock()
	receiver := r.onDeviceToken
	r.mu.RUnlock()
	if receiver == nil {
		r.logger.Warn("RegisterDeviceToken: device token dropped, no receiver installed")
		return ErrNoTokenReceiver
	}

	receiver(ctx, token)
	return nil
}

// DeliverNotification hands n to the installed hook untouched. Notifications
// arriving before a hook is installed are dropped.
func (r *Registrar) DeliverNotification(ctx context.Context, n Notification) error {
	if !r.Configured() {
		return ErrNotConfigured
	}

	hook := r.OnPushReceived()
	if hook == nil {
		r.logger.Debug("DeliverNotification: no hook installed, dropping notification",
			zap.String("apns_id", n.ID))
		return nil
	}
	hook(ctx, n)
	return nil
}
