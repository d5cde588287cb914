package push

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

const defaultIIDEndpoint = "https://iid.googleapis.com"

// IIDError is a non-2xx reply of the Instance ID API.
type IIDError struct {
	StatusCode int
	Body       string
}

func (e *IIDError) Error() string {
	return fmt.Sprintf("iid: http status %d: %s", e.StatusCode, e.Body)
}

// Temporary reports whether the request may succeed when repeated.
func (e *IIDError) Temporary() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

type batchImportRequest struct {
	Application string   `json:"application"`
	Sandbox     bool     `json:"sandbox"`
	ApnsTokens  []string `json:"apns_tokens"`
}

type batchImportResult struct {
	ApnsToken         string `json:"apns_token"`
	Status            string `json:"status"`
	RegistrationToken string `json:"registration_token"`
}

type batchImportResponse struct {
	Results []batchImportResult `json:"results"`
}

// IIDClient exchanges APNs device tokens for FCM registration tokens.
type IIDClient struct {
	httpClient  *http.Client
	endpoint    string
	application string
	sandbox     bool
}

// NewIIDClient expects httpClient to attach OAuth2 credentials with the
// firebase.messaging scope. An empty endpoint means the public API.
func NewIIDClient(httpClient *http.Client, endpoint, application string, sandbox bool) *IIDClient {
	if len(endpoint) == 0 {
		endpoint = defaultIIDEndpoint
	}
	return &IIDClient{
		httpClient:  httpClient,
		endpoint:    strings.TrimRight(endpoint, "/"),
		application: application,
		sandbox:     sandbox,
	}
}

func (c *IIDClient) Exchange(ctx context.Context, apnsToken []byte) (string, error) {
	body, err := jsoniter.Marshal(batchImportRequest{
		Application: c.application,
		Sandbox:     c.sandbox,
		ApnsTokens:  []string{hex.EncodeToString(apnsToken)},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/iid/v1:batchImport", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("access_token_auth", "true")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("iid: batch import: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("iid: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &IIDError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var result batchImportResponse
	if err := jsoniter.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("iid: decode response: %w", err)
	}
	if len(result.Results) == 0 {
		return "", NewWrappedError("empty results", ErrExchangeRejected)
	}
	first := result.Results[0]
	if first.Status != "OK" || len(first.RegistrationToken) == 0 {
		return "", NewWrappedError(fmt.Sprintf("status=%s", first.Status), ErrExchangeRejected)
	}
	return first.RegistrationToken, nil
}

// retryable reports whether an exchange error is worth another attempt.
func retryable(err error) bool {
	var iidErr *IIDError
	if errors.As(err, &iidErr) {
		return iidErr.Temporary()
	}
	if errors.Is(err, ErrExchangeRejected) || errors.Is(err, context.Canceled) {
		return false
	}
	return true
}
