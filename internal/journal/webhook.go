package journal

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// WebhookSink posts every entry as JSON to an HTTP endpoint, for example a
// clinician dashboard.
type WebhookSink struct {
	client *http.Client
	url    string
	token  string
}

// NewWebhookSink constructs a WebhookSink. token is sent as a bearer token
// when set.
func NewWebhookSink(endpoint, token string, timeout time.Duration) *WebhookSink {
	return &WebhookSink{
		client: &http.Client{Timeout: timeout},
		url:    strings.TrimRight(endpoint, "/"),
		token:  token,
	}
}

func (s *WebhookSink) Write(ctx context.Context, e Entry) error {
	body, err := json.Marshal(e)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &WebhookError{Status: resp.StatusCode}
	}
	return nil
}

// WebhookError represents a non-successful webhook response.
type WebhookError struct {
	Status int
}

func (e *WebhookError) Error() string {
	return "journal webhook failed with status " + http.StatusText(e.Status)
}
