package push

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrTokenNotReady         = errors.New("push: fcm token is not issued yet")
	ErrInvalidTopic          = errors.New("push: invalid topic name")
	ErrTopicManagementFailed = errors.New("push: topic management request rejected")
	ErrExchangeRejected      = errors.New("push: apns token exchange rejected")
	SendMessageResponseNotOk = errors.New("request send message to platform push service reply http status code not ok")
)

type WrappedError struct {
	msg string
	err error
}

func NewWrappedError(msg string, err error) *WrappedError {
	return &WrappedError{msg: msg, err: err}
}

func (w *WrappedError) Error() string {
	return fmt.Sprintf("message=%s, extra message=%s", w.err.Error(), w.msg)
}

func (w *WrappedError) Unwrap() error {
	return w.err
}

var topicPattern = regexp.MustCompile(`^[a-zA-Z0-9-_.~%]{1,900}$`)

// NormalizeTopic strips a leading "/topics/" and checks the remaining name.
func NormalizeTopic(topic string) (string, error) {
	name := strings.TrimPrefix(topic, "/topics/")
	if !topicPattern.MatchString(name) {
		return "", NewWrappedError(fmt.Sprintf("topic=%q", topic), ErrInvalidTopic)
	}
	return name, nil
}
