// Package malhttp is the HTTP fetcher adapter. Retry policy lives here and
// nowhere else: transient failures (timeouts, 5xx, connection resets) are
// retried with exponential backoff and never surface unless attempts
// exhaust; 4xx responses fail immediately.
package malhttp

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/goksgie/basic-myanimelist-crawler/internal/ports"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

const (
	defaultTimeout = 20 * time.Second
	maxAttempts    = 3
)

type Client struct {
	http   *resty.Client
	logger zerolog.Logger
}

// New builds a fetcher with the given per-request timeout (the caller's
// overall deadline still travels in the context). Redirects are followed
// by the underlying transport.
func New(logger zerolog.Logger, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	hc := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetRetryCount(maxAttempts - 1).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if r != nil && r.Request != nil && r.Request.Context().Err() != nil {
				// the caller's deadline is gone, further attempts cannot succeed
				return false
			}
			if err != nil {
				return true
			}
			return r.StatusCode() >= 500
		})

	return &Client{http: hc, logger: logger}
}

func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		kind := ports.FetchNetwork
		var nerr net.Error
		if errors.As(err, &nerr) && nerr.Timeout() {
			kind = ports.FetchTimeout
		} else if errors.Is(err, context.DeadlineExceeded) {
			kind = ports.FetchTimeout
		}
		c.logger.Warn().Err(err).Str("url", url).Msg("fetch failed")
		return nil, &ports.FetchError{Kind: kind, URL: url, Err: err}
	}

	if code := resp.StatusCode(); code >= 400 {
		c.logger.Warn().Int("status", code).Str("url", url).Msg("fetch returned error status")
		return nil, &ports.FetchError{Kind: ports.FetchHTTPStatus, URL: url, Status: code}
	}

	return resp.Body(), nil
}
