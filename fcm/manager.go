package fcm

import (
	"context"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/shitamachi/fcm-bridge/apns"
	"github.com/shitamachi/fcm-bridge/store"
	"go.uber.org/zap"
)

// Store keys of the cached token pair.
const (
	CachedFCMTokenKey  = "fcm_bridge.last_fcm_token"
	CachedAPNsTokenKey = "fcm_bridge.last_apns_token"
)

const (
	defaultTopicTimeout = 30 * time.Second
	defaultEventBuffer  = 16
)

// TokenListener is called with a registration token that differs from the cached one.
type TokenListener func(token string)

type Option func(*Manager)

func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithTopicTimeout bounds each subscribe/unsubscribe request.
func WithTopicTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.topicTimeout = d
	}
}

// WithEventBuffer sets the capacity of the token event channel handed to the SDK.
func WithEventBuffer(n int) Option {
	return func(m *Manager) {
		m.eventBuffer = n
	}
}

type Manager struct {
	sdk       SDK
	registrar Registrar
	store     store.Store
	logger    *zap.Logger

	topicTimeout time.Duration
	eventBuffer  int
	events       chan string

	mu        sync.Mutex
	listeners map[int]TokenListener
	nextID    int

	inflight sync.WaitGroup
}

func NewManager(sdk SDK, registrar Registrar, kv store.Store, opts ...Option) *Manager {
	m := &Manager{
		sdk:          sdk,
		registrar:    registrar,
		store:        kv,
		logger:       zap.NewNop(),
		topicTimeout: defaultTopicTimeout,
		eventBuffer:  defaultEventBuffer,
		listeners:    make(map[int]TokenListener),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.eventBuffer < 0 {
		m.eventBuffer = 0
	}
	m.events = make(chan string, m.eventBuffer)
	m.logger = m.logger.With(zap.String("component", "fcm_manager"))
	return m
}

// Configure wires the registrar and the SDK to the manager. Failures of either
// are logged and otherwise ignored.
func (m *Manager) Configure(ctx context.Context) {
	if err := m.registrar.Configure(ctx); err != nil {
		m.logger.Error("Configure: push registration setup failed", zap.Error(err))
	}
	m.registrar.OnDeviceToken(m.SetDeviceToken)

	if err := m.sdk.Configure(ctx, m.events); err != nil {
		m.logger.Error("Configure: messaging sdk setup failed", zap.Error(err))
		return
	}
	m.logger.Info("Configure: messaging sdk configured")
}

// Run consumes token events from the SDK until ctx is done. It is the only
// place cached registration tokens are compared and replaced.
func (m *Manager) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case token := <-m.events:
			m.handleRefreshedToken(ctx, token)
		}
	}
}

// SetDeviceToken caches the hex form of token and forwards the raw bytes to the SDK.
func (m *Manager) SetDeviceToken(ctx context.Context, token []byte) {
	hexToken := hex.EncodeToString(token)
	m.logger.Info("SetDeviceToken: apns device token received", zap.String("apns_token", hexToken))

	if err := m.store.Set(ctx, CachedAPNsTokenKey, hexToken); err != nil {
		m.logger.Error("SetDeviceToken: cache apns token failed", zap.Error(err))
	}
	m.sdk.SetAPNsToken(ctx, token)
}

func (m *Manager) CachedDeviceToken(ctx context.Context) string {
	return m.cached(ctx, CachedAPNsTokenKey)
}

func (m *Manager) CachedMessagingToken(ctx context.Context) string {
	return m.cached(ctx, CachedFCMTokenKey)
}

// MessagingToken returns the SDK's live registration token, empty if it has none yet.
func (m *Manager) MessagingToken() string {
	return m.sdk.FCMToken()
}

// DeviceToken returns the hex form of the device token the SDK currently holds.
func (m *Manager) DeviceToken() string {
	token := m.sdk.APNsToken()
	if len(token) == 0 {
		m.logger.Warn("DeviceToken: apns token is empty, make sure registration succeeded and the token was set")
		return ""
	}
	return hex.EncodeToString(token)
}

// TokenSnapshot is every known token value at one point in time.
type TokenSnapshot struct {
	CachedDeviceToken    string `json:"cached_apns_token"`
	DeviceToken          string `json:"apns_token"`
	CachedMessagingToken string `json:"cached_fcm_token"`
	MessagingToken       string `json:"fcm_token"`
}

func (m *Manager) Tokens(ctx context.Context) TokenSnapshot {
	return TokenSnapshot{
		CachedDeviceToken:    m.CachedDeviceToken(ctx),
		DeviceToken:          m.DeviceToken(),
		CachedMessagingToken: m.CachedMessagingToken(ctx),
		MessagingToken:       m.MessagingToken(),
	}
}

// Subscribe asks the SDK to subscribe this installation to topic. The request
// runs in the background; its outcome is only logged and never retried.
func (m *Manager) Subscribe(topic string) {
	m.goTopic("Subscribe", topic, m.sdk.SubscribeToTopic)
}

// Unsubscribe is the counterpart of Subscribe with the same contract.
func (m *Manager) Unsubscribe(topic string) {
	m.goTopic("Unsubscribe", topic, m.sdk.UnsubscribeFromTopic)
}

func (m *Manager) goTopic(op, topic string, call func(context.Context, string) error) {
	m.inflight.Add(1)
	go func() {
		defer m.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), m.topicTimeout)
		defer cancel()

		if err := call(ctx, topic); err != nil {
			m.logger.Error(op+": topic request failed", zap.String("topic", topic), zap.Error(err))
			return
		}
		m.logger.Info(op+": topic request succeeded", zap.String("topic", topic))
	}()
}

// OnTokenReceived registers fn for changed registration tokens. The returned
// func removes it again.
func (m *Manager) OnTokenReceived(fn TokenListener) (remove func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

func (m *Manager) OnPushReceived() apns.Handler {
	return m.registrar.OnPushReceived()
}

func (m *Manager) SetOnPushReceived(fn apns.Handler) {
	m.registrar.SetOnPushReceived(fn)
}

// Shutdown waits for in-flight topic requests or until ctx is done.
func (m *Manager) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) handleRefreshedToken(ctx context.Context, token string) {
	if len(token) == 0 {
		return
	}
	m.logger.Debug("handleRefreshedToken: fcm token delivered", zap.String("fcm_token", token))

	cached := m.CachedMessagingToken(ctx)
	if token == cached {
		m.logger.Info("handleRefreshedToken: fcm token unchanged", zap.String("fcm_token", token))
		return
	}

	m.logger.Info("handleRefreshedToken: fcm token updated",
		zap.String("old", cached),
		zap.String("new", token),
	)
	if err := m.store.Set(ctx, CachedFCMTokenKey, token); err != nil {
		m.logger.Error("handleRefreshedToken: cache fcm token failed", zap.Error(err))
	}

	m.mu.Lock()
	listeners := make([]TokenListener, 0, len(m.listeners))
	for _, fn := range m.listeners {
		listeners = append(listeners, fn)
	}
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(token)
	}
}

func (m *Manager) cached(ctx context.Context, key string) string {
	v, err := m.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			m.logger.Warn("CachedToken: read cached token failed", zap.String("key", key), zap.Error(err))
		}
		return ""
	}
	return v
}
