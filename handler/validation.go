package handler

import (
	"fmt"

	"github.com/shitamachi/fcm-bridge/apns"
	"github.com/shitamachi/fcm-bridge/config/config_entries"
	"github.com/shitamachi/fcm-bridge/models"
	"github.com/shitamachi/fcm-bridge/push"
)

type DeviceTokenReq struct {
	DeviceToken string `json:"device_token"`
}

type TopicReq struct {
	Topic string `json:"topic"`
}

func ValidateDeviceTokenReq(req *DeviceTokenReq) ([]byte, error) {
	if len(req.DeviceToken) <= 0 {
		return nil, fmt.Errorf("device_token is empty")
	}
	return apns.DecodeDeviceToken(req.DeviceToken)
}

func ValidateTopicReq(req *TopicReq) (string, error) {
	return push.NormalizeTopic(req.Topic)
}

func ValidateTestPushReq(pushType string, msg *models.PushMessage) error {
	if !config_entries.IsKnownPushType(pushType) {
		return fmt.Errorf("unknown push type %q, want apple or firebase", pushType)
	}
	return msg.Validate()
}
