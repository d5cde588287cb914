package push

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shitamachi/fcm-bridge/config/config_entries"
	"github.com/shitamachi/fcm-bridge/models"
	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/token"
	"go.uber.org/zap"
)

var ErrApplePushNotConfigured = errors.New("push: apple push auth key is not configured")

type apnsClient interface {
	PushWithContext(ctx apns2.Context, n *apns2.Notification) (*apns2.Response, error)
}

// ApplePushClient sends test pushes straight to APNs with token based auth.
type ApplePushClient struct {
	client   apnsClient
	bundleID string
	logger   *zap.Logger
}

func NewApplePushClient(conf config_entries.ApplePushSecretConfig, mode string, logger *zap.Logger) (*ApplePushClient, error) {
	if !conf.Enabled() {
		return nil, ErrApplePushNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	authKey, err := token.AuthKeyFromBytes([]byte(conf.AuthKey))
	if err != nil {
		return nil, fmt.Errorf("get auth key from config failed: %w", err)
	}

	appleToken := &token.Token{
		AuthKey: authKey,
		// KeyID from developer account (Certificates, Identifiers & Profiles -> Keys)
		KeyID: conf.KeyID,
		// TeamID from developer account (View Account -> Membership)
		TeamID: conf.TeamID,
	}

	var client *apns2.Client
	switch mode {
	case "release":
		client = apns2.NewTokenClient(appleToken).Production()
		logger.Info("NewApplePushClient: init production apple push client successfully", zap.String("bundle_id", conf.BundleID))
	default:
		client = apns2.NewTokenClient(appleToken).Development()
		logger.Info("NewApplePushClient: init development apple push client successfully", zap.String("bundle_id", conf.BundleID))
	}

	return &ApplePushClient{client: client, bundleID: conf.BundleID, logger: logger}, nil
}

func (a *ApplePushClient) Push(ctx context.Context, deviceToken string, msg *models.PushMessage) (string, error) {
	rep, err := a.client.PushWithContext(ctx, &apns2.Notification{
		DeviceToken: deviceToken,
		Topic:       a.bundleID,
		Expiration:  time.Now().Add(5 * time.Minute),
		Payload:     msg.ApplePayload(),
	})

	switch {
	case err != nil:
		a.logger.Error("ApplePush: push notification failed", zap.Error(err))
		return "", err
	case rep.StatusCode != http.StatusOK:
		a.logger.Error("ApplePush: request send ok but apple response not ok",
			zap.Int("code", rep.StatusCode),
			zap.String("reason", rep.Reason),
		)
		return rep.ApnsID, NewWrappedError(fmt.Sprintf("code=%d, reason=%s", rep.StatusCode, rep.Reason), SendMessageResponseNotOk)
	default:
		a.logger.Info("ApplePush: request push ok", zap.String("apns_id", rep.ApnsID))
		return rep.ApnsID, nil
	}
}
