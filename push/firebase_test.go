package push

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/cenkalti/backoff/v4"
	"github.com/shitamachi/fcm-bridge/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"go.uber.org/zap/zaptest"
)

type MockMessagingClient struct {
	mock.Mock
}

func (m *MockMessagingClient) Send(ctx context.Context, message *messaging.Message) (string, error) {
	args := m.Called(ctx, message)
	return args.String(0), args.Error(1)
}

func (m *MockMessagingClient) SubscribeToTopic(ctx context.Context, tokens []string, topic string) (*messaging.TopicManagementResponse, error) {
	args := m.Called(ctx, tokens, topic)
	resp, _ := args.Get(0).(*messaging.TopicManagementResponse)
	return resp, args.Error(1)
}

func (m *MockMessagingClient) UnsubscribeFromTopic(ctx context.Context, tokens []string, topic string) (*messaging.TopicManagementResponse, error) {
	args := m.Called(ctx, tokens, topic)
	resp, _ := args.Get(0).(*messaging.TopicManagementResponse)
	return resp, args.Error(1)
}

type exchangeFunc func(ctx context.Context, apnsToken []byte) (string, error)

func (f exchangeFunc) Exchange(ctx context.Context, apnsToken []byte) (string, error) {
	return f(ctx, apnsToken)
}

func newTestMessaging(t *testing.T, client MessagingClient, exchanger TokenExchanger) (*FirebaseMessaging, chan string) {
	t.Helper()
	f := NewFirebaseMessaging(client, exchanger, zaptest.NewLogger(t),
		WithMaxExchangeRetries(3),
		WithBackOff(func() backoff.BackOff { return backoff.NewConstantBackOff(time.Millisecond) }),
	)
	events := make(chan string, 4)
	require.NoError(t, f.Configure(context.Background(), events))
	return f, events
}

func TestFirebaseMessaging_ExchangePostsNewToken(t *testing.T) {
	f, events := newTestMessaging(t, nil, exchangeFunc(func(_ context.Context, apnsToken []byte) (string, error) {
		return "fcm-" + string(apnsToken), nil
	}))

	f.SetAPNsToken(context.Background(), []byte("a"))
	require.NoError(t, f.Shutdown(context.Background()))
	assert.Equal(t, "fcm-a", <-events)
	assert.Equal(t, "fcm-a", f.FCMToken())
	assert.Equal(t, []byte("a"), f.APNsToken())

	// same registration token again is not an event
	f.SetAPNsToken(context.Background(), []byte("a"))
	require.NoError(t, f.Shutdown(context.Background()))
	assert.Len(t, events, 0)
}

func TestFirebaseMessaging_ExchangeRetries(t *testing.T) {
	calls := atomic.NewInt32(0)
	f, events := newTestMessaging(t, nil, exchangeFunc(func(context.Context, []byte) (string, error) {
		if calls.Inc() < 3 {
			return "", &IIDError{StatusCode: 503}
		}
		return "fcm", nil
	}))

	f.SetAPNsToken(context.Background(), []byte{1})
	require.NoError(t, f.Shutdown(context.Background()))
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, "fcm", <-events)
}

func TestFirebaseMessaging_ExchangeRetriesAreBounded(t *testing.T) {
	calls := atomic.NewInt32(0)
	f, events := newTestMessaging(t, nil, exchangeFunc(func(context.Context, []byte) (string, error) {
		calls.Inc()
		return "", errors.New("connection reset")
	}))

	f.SetAPNsToken(context.Background(), []byte{1})
	require.NoError(t, f.Shutdown(context.Background()))
	// first attempt plus three retries
	assert.Equal(t, int32(4), calls.Load())
	assert.Len(t, events, 0)
	assert.Empty(t, f.FCMToken())
}

func TestFirebaseMessaging_PermanentErrorIsNotRetried(t *testing.T) {
	calls := atomic.NewInt32(0)
	f, events := newTestMessaging(t, nil, exchangeFunc(func(context.Context, []byte) (string, error) {
		calls.Inc()
		return "", &IIDError{StatusCode: 400}
	}))

	f.SetAPNsToken(context.Background(), []byte{1})
	require.NoError(t, f.Shutdown(context.Background()))
	assert.Equal(t, int32(1), calls.Load())
	assert.Len(t, events, 0)
}

func TestFirebaseMessaging_SupersededExchangeIsDropped(t *testing.T) {
	release := make(chan struct{})
	f, events := newTestMessaging(t, nil, exchangeFunc(func(_ context.Context, apnsToken []byte) (string, error) {
		if string(apnsToken) == "old" {
			<-release
		}
		return "fcm-" + string(apnsToken), nil
	}))

	f.SetAPNsToken(context.Background(), []byte("old"))
	f.SetAPNsToken(context.Background(), []byte("new"))
	assert.Equal(t, "fcm-new", <-events)
	close(release)
	require.NoError(t, f.Shutdown(context.Background()))

	assert.Len(t, events, 0)
	assert.Equal(t, "fcm-new", f.FCMToken())
	assert.Equal(t, []byte("new"), f.APNsToken())
}

func TestFirebaseMessaging_NoTokensYet(t *testing.T) {
	f := NewFirebaseMessaging(nil, nil, nil)
	assert.Nil(t, f.APNsToken())
	assert.Empty(t, f.FCMToken())
}

func TestFirebaseMessaging_Topics(t *testing.T) {
	client := &MockMessagingClient{}
	f := NewFirebaseMessaging(client, nil, zaptest.NewLogger(t))

	t.Run("token not ready", func(t *testing.T) {
		err := f.SubscribeToTopic(context.Background(), "news")
		assert.ErrorIs(t, err, ErrTokenNotReady)
	})

	f.mu.Lock()
	f.fcmToken = "fcm-token"
	f.mu.Unlock()

	t.Run("invalid topic", func(t *testing.T) {
		err := f.SubscribeToTopic(context.Background(), "bad topic")
		assert.ErrorIs(t, err, ErrInvalidTopic)
	})

	t.Run("subscribe with prefix", func(t *testing.T) {
		client.On("SubscribeToTopic", mock.Anything, []string{"fcm-token"}, "news").
			Return(&messaging.TopicManagementResponse{SuccessCount: 1}, nil).Once()
		require.NoError(t, f.SubscribeToTopic(context.Background(), "/topics/news"))
	})

	t.Run("unsubscribe rejected", func(t *testing.T) {
		client.On("UnsubscribeFromTopic", mock.Anything, []string{"fcm-token"}, "sports").
			Return(&messaging.TopicManagementResponse{
				FailureCount: 1,
				Errors:       []*messaging.ErrorInfo{{Index: 0, Reason: "registration-token-not-registered"}},
			}, nil).Once()
		err := f.UnsubscribeFromTopic(context.Background(), "sports")
		require.ErrorIs(t, err, ErrTopicManagementFailed)
		assert.Contains(t, err.Error(), "registration-token-not-registered")
	})

	t.Run("transport error", func(t *testing.T) {
		boom := errors.New("boom")
		client.On("SubscribeToTopic", mock.Anything, []string{"fcm-token"}, "weather").
			Return(nil, boom).Once()
		assert.ErrorIs(t, f.SubscribeToTopic(context.Background(), "weather"), boom)
	})

	client.AssertExpectations(t)
}

func TestFirebaseMessaging_Push(t *testing.T) {
	client := &MockMessagingClient{}
	f := NewFirebaseMessaging(client, nil, zaptest.NewLogger(t))

	client.On("Send", mock.Anything, mock.MatchedBy(func(m *messaging.Message) bool {
		return m.Token == "fcm-token" && m.Notification.Title == "Hi" && m.Data["k"] == "v"
	})).Return("projects/p/messages/1", nil).Once()

	id, err := f.Push(context.Background(), "fcm-token", &models.PushMessage{Title: "Hi", Data: map[string]string{"k": "v"}})
	require.NoError(t, err)
	assert.Equal(t, "projects/p/messages/1", id)

	client.On("Send", mock.Anything, mock.Anything).Return("", errors.New("unregistered")).Once()
	_, err = f.Push(context.Background(), "gone", &models.PushMessage{Body: "x"})
	assert.Error(t, err)
	client.AssertExpectations(t)
}

func TestFirebaseMessaging_ConcurrentSetAPNsToken(t *testing.T) {
	f, events := newTestMessaging(t, nil, exchangeFunc(func(_ context.Context, apnsToken []byte) (string, error) {
		return "fcm", nil
	}))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f.SetAPNsToken(context.Background(), []byte{byte(i)})
		}(i)
	}
	wg.Wait()
	require.NoError(t, f.Shutdown(context.Background()))
	assert.Equal(t, "fcm", f.FCMToken())
	assert.LessOrEqual(t, len(events), 1)
}

func TestFirebaseMessaging_ShutdownHonoursContext(t *testing.T) {
	release := make(chan struct{})
	f, events := newTestMessaging(t, nil, exchangeFunc(func(context.Context, []byte) (string, error) {
		<-release
		return "fcm", nil
	}))

	f.SetAPNsToken(context.Background(), []byte{1})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, f.Shutdown(ctx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, f.Shutdown(context.Background()))
	assert.Equal(t, "fcm", <-events)
}
