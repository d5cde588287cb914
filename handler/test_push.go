package handler

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/shitamachi/fcm-bridge/api"
	"github.com/shitamachi/fcm-bridge/config/config_entries"
	"github.com/shitamachi/fcm-bridge/models"
	"github.com/shitamachi/fcm-bridge/push"
	"go.uber.org/zap"
)

type TestPushResp struct {
	PushType  string `json:"push_type"`
	Token     string `json:"token"`
	MessageID string `json:"message_id"`
}

// TestPush godoc
// @Summary send one push to this installation's own cached token
// @Accept json
// @Produce json
// @Param type path string true "apple or firebase"
// @Param req body models.PushMessage true "message"
// @Success 200 {object} api.ResponseEntry
// @Router /v1/test_push/{type} [post]
func TestPush(c *api.Context) api.ResponseOptions {
	pushType := c.Gin.Param("type")

	var msg models.PushMessage
	body, err := c.GetBody()
	if err != nil {
		return api.ErrorWithOpts(http.StatusInternalServerError)
	}
	if err = jsoniter.Unmarshal(body, &msg); err != nil {
		return api.ErrorWithOpts(http.StatusBadRequest, api.Message("can not parse request body"))
	}
	if err = ValidateTestPushReq(pushType, &msg); err != nil {
		return api.Error(http.StatusBadRequest, err.Error())
	}

	pusher, ok := c.Pusher(pushType)
	if !ok {
		return api.Error(http.StatusServiceUnavailable, "push client "+pushType+" is not configured")
	}

	var token string
	switch pushType {
	case config_entries.ApplePush:
		token = c.Manager.CachedDeviceToken(c.Req.Context())
	case config_entries.FirebasePush:
		token = c.Manager.CachedMessagingToken(c.Req.Context())
	}
	if len(token) <= 0 {
		return api.Error(http.StatusConflict, push.ErrTokenNotReady.Error())
	}

	id, err := pusher.Push(c.Req.Context(), token, &msg)
	if err != nil {
		c.Logger.Error("TestPush: push failed", zap.String("push_type", pushType), zap.Error(err))
		code := http.StatusBadGateway
		if errors.Is(err, push.SendMessageResponseNotOk) {
			code = http.StatusUnprocessableEntity
		}
		return api.ErrorWithOpts(code, api.Status(code), api.Message(err.Error()),
			api.Data(TestPushResp{PushType: pushType, Token: token, MessageID: id}))
	}
	return api.Ok(TestPushResp{PushType: pushType, Token: token, MessageID: id})
}
