package handler

import (
	"encoding/hex"
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/shitamachi/fcm-bridge/api"
	"github.com/shitamachi/fcm-bridge/apns"
	"go.uber.org/zap"
)

// RegisterDeviceToken godoc
// @Summary relay the device token the platform issued
// @Accept json
// @Produce json
// @Param req body DeviceTokenReq true "hex or base64 device token"
// @Success 200 {object} api.ResponseEntry
// @Router /v1/apns/device_token [post]
func RegisterDeviceToken(c *api.Context) api.ResponseOptions {
	var req DeviceTokenReq
	body, err := c.GetBody()
	if err != nil {
		return api.ErrorWithOpts(http.StatusInternalServerError)
	}
	if err = jsoniter.Unmarshal(body, &req); err != nil {
		return api.ErrorWithOpts(http.StatusBadRequest, api.Message("can not parse request body"))
	}

	token, err := ValidateDeviceTokenReq(&req)
	if err != nil {
		return api.Error(http.StatusBadRequest, err.Error())
	}

	err = c.Registrar.RegisterDeviceToken(c.Req.Context(), token)
	switch {
	case errors.Is(err, apns.ErrNotConfigured):
		return api.Error(http.StatusConflict, err.Error())
	case errors.Is(err, apns.ErrNoTokenReceiver):
		return api.Error(http.StatusServiceUnavailable, err.Error())
	case err != nil:
		c.Logger.Error("RegisterDeviceToken: relay device token failed", zap.Error(err))
		return api.Error(http.StatusInternalServerError, err.Error())
	}

	return api.Ok(map[string]string{"apns_token": hex.EncodeToString(token)})
}

// DeliverNotification godoc
// @Summary relay a notification the platform delivered
// @Accept json
// @Produce json
// @Success 200 {object} api.ResponseEntry
// @Router /v1/apns/notification [post]
func DeliverNotification(c *api.Context) api.ResponseOptions {
	body, err := c.GetBody()
	if err != nil {
		return api.ErrorWithOpts(http.StatusInternalServerError)
	}
	n, err := apns.ParseNotification(body)
	if err != nil {
		return api.ErrorWithOpts(http.StatusBadRequest, api.Message("can not parse notification payload"))
	}
	if id := c.Req.Header.Get("apns-id"); len(id) > 0 {
		n.ID = id
	}
	if topic := c.Req.Header.Get("apns-topic"); len(topic) > 0 {
		n.Topic = topic
	}

	if err = c.Registrar.DeliverNotification(c.Req.Context(), n); err != nil {
		if errors.Is(err, apns.ErrNotConfigured) {
			return api.Error(http.StatusConflict, err.Error())
		}
		return api.Error(http.StatusInternalServerError, err.Error())
	}
	return api.Ok(nil)
}
