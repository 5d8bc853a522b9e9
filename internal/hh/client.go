package hh

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// PageFetcher is the one capability the search and area components need
// from the provider: fetch a single endpoint page as raw JSON.
type PageFetcher interface {
	FetchPage(ctx context.Context, endpoint string, params url.Values) ([]byte, error)
}

// StatusError is a non-2xx response, classified for logging. Auth,
// rate-limit and captcha walls all behave the same to callers (no data
// for that page); the reason only matters for observability.
type StatusError struct {
	Code   int
	Reason string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Reason, e.Code)
}

func classifyStatus(code int) string {
	switch code {
	case http.StatusUnauthorized:
		return "unauthorized, check token"
	case http.StatusForbidden:
		return "forbidden, likely captcha wall"
	case http.StatusNotFound:
		return "resource not found or not visible"
	case http.StatusTooManyRequests:
		return "rate limited"
	default:
		if code >= 500 {
			return "provider error"
		}
		return "request rejected"
	}
}

type Options struct {
	BaseURL           string
	UserAgent         string
	Token             string // optional bearer token
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// Client talks to an HH-style JSON API over one pooled http.Client,
// pacing requests through a shared rate limiter.
type Client struct {
	opts    Options
	hc      *http.Client
	limiter *rate.Limiter
	log     *zap.Logger
}

func NewClient(opts Options, log *zap.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 4
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	return &Client{
		opts:    opts,
		hc:      &http.Client{Timeout: opts.Timeout},
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		log:     log,
	}
}

func (c *Client) FetchPage(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := strings.TrimRight(c.opts.BaseURL, "/") + "/" + strings.TrimLeft(endpoint, "/")
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")
	if c.opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.opts.Token)
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", endpoint, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		serr := &StatusError{Code: res.StatusCode, Reason: classifyStatus(res.StatusCode)}
		c.log.Warn("provider rejected request",
			zap.String("endpoint", endpoint),
			zap.Int("status", res.StatusCode),
			zap.String("reason", serr.Reason))
		return nil, serr
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s body: %w", endpoint, err)
	}
	return body, nil
}
