package push

import (
	"context"
	"fmt"
	"sync"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/cenkalti/backoff/v4"
	"github.com/shitamachi/fcm-bridge/config/config_entries"
	"github.com/shitamachi/fcm-bridge/models"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	htransport "google.golang.org/api/transport/http"
)

const firebaseMessagingScope = "https://www.googleapis.com/auth/firebase.messaging"

// MessagingClient is the part of *messaging.Client the bridge uses.
type MessagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
	SubscribeToTopic(ctx context.Context, tokens []string, topic string) (*messaging.TopicManagementResponse, error)
	UnsubscribeFromTopic(ctx context.Context, tokens []string, topic string) (*messaging.TopicManagementResponse, error)
}

// TokenExchanger turns an APNs device token into an FCM registration token.
type TokenExchanger interface {
	Exchange(ctx context.Context, apnsToken []byte) (string, error)
}

type FirebaseOption func(*FirebaseMessaging)

func WithMaxExchangeRetries(n int) FirebaseOption {
	return func(f *FirebaseMessaging) {
		f.maxRetries = n
	}
}

// WithBackOff replaces the exponential backoff used between exchange attempts.
func WithBackOff(newBackOff func() backoff.BackOff) FirebaseOption {
	return func(f *FirebaseMessaging) {
		f.newBackOff = newBackOff
	}
}

// FirebaseMessaging is the messaging SDK the fcm.Manager drives. It binds the
// APNs token to an FCM registration token and manages topic subscriptions for it.
type FirebaseMessaging struct {
	client     MessagingClient
	exchanger  TokenExchanger
	logger     *zap.Logger
	maxRetries int
	newBackOff func() backoff.BackOff

	mu         sync.Mutex
	baseCtx    context.Context
	events     chan<- string
	apnsToken  []byte
	fcmToken   string
	generation uint64

	exchanges sync.WaitGroup
}

func NewFirebaseMessaging(client MessagingClient, exchanger TokenExchanger, logger *zap.Logger, opts ...FirebaseOption) *FirebaseMessaging {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &FirebaseMessaging{
		client:     client,
		exchanger:  exchanger,
		logger:     logger.With(zap.String("component", "firebase_messaging")),
		maxRetries: 5,
		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
		baseCtx:    context.Background(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewFirebasePush builds the shim from the service account credentials.
func NewFirebasePush(ctx context.Context, conf config_entries.FirebaseConfig, credentials []byte, logger *zap.Logger) (*FirebaseMessaging, error) {
	var fbConf *firebase.Config
	if len(conf.ProjectID) > 0 {
		fbConf = &firebase.Config{ProjectID: conf.ProjectID}
	}
	// no credentials means application default credentials
	var opts []option.ClientOption
	if len(credentials) > 0 {
		opts = append(opts, option.WithCredentialsJSON(credentials))
	}
	app, err := firebase.NewApp(ctx, fbConf, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error initializing message client: %w", err)
	}
	httpClient, _, err := htransport.NewClient(ctx, append(opts, option.WithScopes(firebaseMessagingScope))...)
	if err != nil {
		return nil, fmt.Errorf("error initializing iid http client: %w", err)
	}

	exchanger := NewIIDClient(httpClient, conf.IIDEndpoint, conf.BundleID, conf.Sandbox)
	return NewFirebaseMessaging(client, exchanger, logger, WithMaxExchangeRetries(conf.MaxExchangeRetries)), nil
}

// Configure records where issued tokens are posted. Exchanges started later run
// until ctx is done.
func (f *FirebaseMessaging) Configure(ctx context.Context, events chan<- string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.baseCtx = ctx
	f.events = events
	f.logger.Info("FirebaseMessaging: configured")
	return nil
}

func (f *FirebaseMessaging) SetAPNsToken(_ context.Context, token []byte) {
	f.mu.Lock()
	f.apnsToken = append([]byte(nil), token...)
	f.generation++
	gen := f.generation
	ctx := f.baseCtx
	f.mu.Unlock()

	f.exchanges.Add(1)
	go func() {
		defer f.exchanges.Done()
		f.exchange(ctx, gen, token)
	}()
}

func (f *FirebaseMessaging) exchange(ctx context.Context, gen uint64, apnsToken []byte) {
	var fcmToken string
	attempt := 0
	op := func() error {
		attempt++
		token, err := f.exchanger.Exchange(ctx, apnsToken)
		if err != nil {
			if !retryable(err) {
				return backoff.Permanent(err)
			}
			f.logger.Warn("FirebaseMessaging: token exchange failed, will retry",
				zap.Int("attempt", attempt), zap.Error(err))
			return err
		}
		fcmToken = token
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(f.newBackOff(), uint64(f.maxRetries)), ctx)
	if err := backoff.Retry(op, b); err != nil {
		f.logger.Error("FirebaseMessaging: token exchange failed", zap.Int("attempts", attempt), zap.Error(err))
		return
	}

	f.mu.Lock()
	if gen != f.generation {
		f.mu.Unlock()
		f.logger.Debug("FirebaseMessaging: dropping superseded token exchange")
		return
	}
	changed := f.fcmToken != fcmToken
	f.fcmToken = fcmToken
	events := f.events
	f.mu.Unlock()

	f.logger.Debug("FirebaseMessaging: token issued", zap.String("fcm_token", fcmToken), zap.Bool("changed", changed))
	if !changed || events == nil {
		return
	}
	select {
	case events <- fcmToken:
	case <-ctx.Done():
	}
}

// Shutdown waits for running token exchanges or until ctx is done.
func (f *FirebaseMessaging) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		f.exchanges.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *FirebaseMessaging) APNsToken() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.apnsToken == nil {
		return nil
	}
	return append([]byte(nil), f.apnsToken...)
}

func (f *FirebaseMessaging) FCMToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fcmToken
}

func (f *FirebaseMessaging) SubscribeToTopic(ctx context.Context, topic string) error {
	return f.manageTopic(ctx, topic, f.client.SubscribeToTopic)
}

func (f *FirebaseMessaging) UnsubscribeFromTopic(ctx context.Context, topic string) error {
	return f.manageTopic(ctx, topic, f.client.UnsubscribeFromTopic)
}

type topicRequest func(ctx context.Context, tokens []string, topic string) (*messaging.TopicManagementResponse, error)

func (f *FirebaseMessaging) manageTopic(ctx context.Context, topic string, request topicRequest) error {
	name, err := NormalizeTopic(topic)
	if err != nil {
		return err
	}
	token := f.FCMToken()
	if len(token) == 0 {
		return ErrTokenNotReady
	}
	resp, err := request(ctx, []string{token}, name)
	if err != nil {
		return fmt.Errorf("topic %s: %w", name, err)
	}
	if resp != nil && resp.FailureCount > 0 {
		reason := "unknown"
		if len(resp.Errors) > 0 && resp.Errors[0] != nil {
			reason = resp.Errors[0].Reason
		}
		return NewWrappedError(fmt.Sprintf("topic=%s, reason=%s", name, reason), ErrTopicManagementFailed)
	}
	return nil
}

// Push sends a test notification to token through FCM.
func (f *FirebaseMessaging) Push(ctx context.Context, token string, msg *models.PushMessage) (string, error) {
	id, err := f.client.Send(ctx, &messaging.Message{
		Token:        token,
		Notification: msg.FirebaseNotification(),
		Data:         msg.Data,
	})
	if err != nil {
		f.logger.Error("Firebase Push: send message failed", zap.Error(err))
		return "", err
	}
	f.logger.Info("Firebase Push: send message successfully", zap.String("message_id", id))
	return id, nil
}
