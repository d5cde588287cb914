package apns

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Alert is the alert dictionary of an aps payload. A plain string alert is
// decoded into Body.
type Alert struct {
	Title    string `json:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
	Body     string `json:"body,omitempty"`
}

func (a *Alert) UnmarshalJSON(data []byte) error {
	var body string
	if err := json.Unmarshal(data, &body); err == nil {
		a.Body = body
		return nil
	}
	type alias Alert
	var tmp alias
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*a = Alert(tmp)
	return nil
}

type Aps struct {
	Alert            *Alert `json:"alert,omitempty"`
	Badge            *int   `json:"badge,omitempty"`
	Sound            any    `json:"sound,omitempty"`
	ContentAvailable int    `json:"content-available,omitempty"`
	MutableContent   int    `json:"mutable-content,omitempty"`
	Category         string `json:"category,omitempty"`
	ThreadID         string `json:"thread-id,omitempty"`
}

// Notification is one remote notification as delivered by the platform.
type Notification struct {
	ID         string                         `json:"apns_id,omitempty"`
	Topic      string                         `json:"topic,omitempty"`
	Aps        Aps                            `json:"aps"`
	Custom     map[string]jsoniter.RawMessage `json:"custom,omitempty"`
	Payload    []byte                         `json:"-"`
	ReceivedAt time.Time                      `json:"received_at"`
}

// ParseNotification decodes a raw APNs payload. Keys besides "aps" are kept in Custom.
func ParseNotification(raw []byte) (Notification, error) {
	var fields map[string]jsoniter.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Notification{}, fmt.Errorf("apns: parsing payload: %w", err)
	}
	apsRaw, ok := fields["aps"]
	if !ok {
		return Notification{}, errors.New("apns: payload has no aps dictionary")
	}

	n := Notification{
		Payload:    append([]byte(nil), raw...),
		ReceivedAt: time.Now(),
	}
	if err := json.Unmarshal(apsRaw, &n.Aps); err != nil {
		return Notification{}, fmt.Errorf("apns: parsing aps: %w", err)
	}

	delete(fields, "aps")
	if len(fields) > 0 {
		n.Custom = fields
	}
	return n, nil
}

// DecodeDeviceToken accepts a device token the way relays tend to print it: hex
// in any case, optionally wrapped in angle brackets and split by spaces, or
// standard base64 of the raw bytes.
func DecodeDeviceToken(s string) ([]byte, error) {
	cleaned := strings.NewReplacer(" ", "", "<", "", ">", "").Replace(strings.TrimSpace(s))
	if len(cleaned) == 0 {
		return nil, ErrEmptyDeviceToken
	}
	if b, err := hex.DecodeString(cleaned); err == nil {
		return b, nil
	}
	b, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("apns: device token is neither hex nor base64")
	}
	if len(b) == 0 {
		return nil, ErrEmptyDeviceToken
	}
	return b, nil
}
