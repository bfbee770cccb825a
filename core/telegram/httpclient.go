package telegram

import (
	"net/http"
	"time"

	"github.com/graphenelabs/graphbot/core/telegram/netutil"
)

// retryTransport retries idempotent Telegram API calls on transient
// network errors before surfacing them to telebot.
type retryTransport struct {
	base    http.RoundTripper
	retries int
	backoff time.Duration
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var resp *http.Response
	var err error
	for attempt := 0; attempt <= t.retries; attempt++ {
		if attempt > 0 {
			time.Sleep(t.backoff * time.Duration(attempt))
		}
		resp, err = t.base.RoundTrip(req)
		if err == nil {
			return resp, nil
		}
		if req.Body != nil || !netutil.ShouldRetry(err) {
			return nil, err
		}
	}
	return resp, err
}

// NewHTTPClient builds the HTTP client used for Telegram API calls.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &retryTransport{
			base:    http.DefaultTransport,
			retries: 2,
			backoff: 300 * time.Millisecond,
		},
	}
}
