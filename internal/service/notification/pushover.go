package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const pushoverEndpoint = "https://api.pushover.net/1/messages.json"

// PushoverService delivers push notifications through the Pushover
// message API.
type PushoverService struct {
	token    string
	userKey  string
	endpoint string
	client   *http.Client
}

type PushoverOption func(s *PushoverService)

func WithPushoverEndpoint(endpoint string) PushoverOption {
	return func(s *PushoverService) {
		s.endpoint = endpoint
	}
}

func WithPushoverHTTPClient(client *http.Client) PushoverOption {
	return func(s *PushoverService) {
		s.client = client
	}
}

func NewPushoverService(token, userKey string, opts ...PushoverOption) PushService {
	svc := &PushoverService{
		token:    token,
		userKey:  userKey,
		endpoint: pushoverEndpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Push posts the message. Pushover reports success with status == 1 in
// the response body; anything else is an error so callers can retry.
func (s *PushoverService) Push(ctx context.Context, title, message string, priority Priority) error {
	form := url.Values{}
	form.Set("token", s.token)
	form.Set("user", s.userKey)
	form.Set("title", title)
	form.Set("message", message)
	form.Set("priority", strconv.Itoa(int(priority)))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("pushover: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("pushover: send request: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		Status int      `json:"status"`
		Errors []string `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("pushover: decode response: %w", err)
	}
	if body.Status != 1 {
		return fmt.Errorf("pushover: api rejected message (status %d): %s", body.Status, strings.Join(body.Errors, "; "))
	}
	return nil
}
