package push

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"net/http"
	"testing"

	"github.com/shitamachi/fcm-bridge/config/config_entries"
	"github.com/shitamachi/fcm-bridge/models"
	"github.com/sideshow/apns2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeAPNs struct {
	resp *apns2.Response
	err  error
	got  *apns2.Notification
}

func (f *fakeAPNs) PushWithContext(_ apns2.Context, n *apns2.Notification) (*apns2.Response, error) {
	f.got = n
	return f.resp, f.err
}

func testAuthKey(t *testing.T) string {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	return string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
}

func TestNewApplePushClient(t *testing.T) {
	conf := config_entries.ApplePushSecretConfig{
		BundleID: "com.example.app",
		AuthKey:  testAuthKey(t),
		KeyID:    "ABC123DEFG",
		TeamID:   "DEF123GHIJ",
	}

	dev, err := NewApplePushClient(conf, "debug", zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, apns2.HostDevelopment, dev.client.(*apns2.Client).Host)

	prod, err := NewApplePushClient(conf, "release", zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, apns2.HostProduction, prod.client.(*apns2.Client).Host)

	_, err = NewApplePushClient(config_entries.ApplePushSecretConfig{}, "debug", nil)
	assert.ErrorIs(t, err, ErrApplePushNotConfigured)

	conf.AuthKey = "not a key"
	_, err = NewApplePushClient(conf, "debug", nil)
	assert.Error(t, err)
}

func TestApplePushClient_Push(t *testing.T) {
	fake := &fakeAPNs{resp: &apns2.Response{StatusCode: http.StatusOK, ApnsID: "apns-1"}}
	c := &ApplePushClient{client: fake, bundleID: "com.example.app", logger: zaptest.NewLogger(t)}

	id, err := c.Push(context.Background(), "1a2b", &models.PushMessage{Title: "Hi", Body: "there"})
	require.NoError(t, err)
	assert.Equal(t, "apns-1", id)
	assert.Equal(t, "1a2b", fake.got.DeviceToken)
	assert.Equal(t, "com.example.app", fake.got.Topic)
	raw, err := json.Marshal(fake.got.Payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"aps":{"alert":{"title":"Hi","body":"there"},"sound":"default"}}`, string(raw))

	fake.resp = &apns2.Response{StatusCode: http.StatusGone, Reason: apns2.ReasonUnregistered}
	_, err = c.Push(context.Background(), "1a2b", &models.PushMessage{Body: "x"})
	assert.ErrorIs(t, err, SendMessageResponseNotOk)

	fake.err = errors.New("dial failed")
	_, err = c.Push(context.Background(), "1a2b", &models.PushMessage{Body: "x"})
	assert.EqualError(t, err, "dial failed")
}
