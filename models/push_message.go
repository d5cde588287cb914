package models

import (
	"errors"

	"firebase.google.com/go/v4/messaging"
	"github.com/sideshow/apns2/payload"
)

// PushMessage is the content of a loopback test push.
type PushMessage struct {
	// 标题
	Title string `json:"title"`
	// 内容
	Body string            `json:"body"`
	Data map[string]string `json:"data,omitempty"`
}

func (m *PushMessage) Validate() error {
	if len(m.Title) <= 0 && len(m.Body) <= 0 {
		return errors.New("push message needs a title or a body")
	}
	return nil
}

func (m *PushMessage) ApplePayload() *payload.Payload {
	p := payload.NewPayload().AlertTitle(m.Title).AlertBody(m.Body).Sound("default")
	for k, v := range m.Data {
		p.Custom(k, v)
	}
	return p
}

func (m *PushMessage) FirebaseNotification() *messaging.Notification {
	return &messaging.Notification{
		Title: m.Title,
		Body:  m.Body,
	}
}
