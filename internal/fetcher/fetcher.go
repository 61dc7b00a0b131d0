// Package fetcher issues the outbound GET requests for package lookups.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/ralt/archpkg/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultTimeout bounds every single request, including each request of
	// a concurrent fan-out.
	DefaultTimeout = 10 * time.Second

	// maxBodyBytes caps JSON API response size (4 MB).
	maxBodyBytes = 4 << 20

	defaultUserAgent = "archpkg/dev"
)

// RawResponse is a successful (2xx) HTTP response
type RawResponse struct {
	StatusCode int
	Body       []byte
}

// Fetcher performs a single GET request
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*RawResponse, error)
}

// Client implements Fetcher on top of one shared http.Client, so all
// requests of a query reuse the same connection pool.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
	log        logrus.FieldLogger
}

// Option configures a Client during construction
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client, useful for tests or proxies
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithTimeout overrides the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request
func WithUserAgent(ua string) Option {
	return func(cl *Client) {
		if ua != "" {
			cl.userAgent = ua
		}
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(log logrus.FieldLogger) Option {
	return func(cl *Client) {
		if log != nil {
			cl.log = log
		}
	}
}

// New creates a Client. The default transport transparently decompresses
// gzip encoded responses.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Transport: gzhttp.Transport(http.DefaultTransport)},
		timeout:    DefaultTimeout,
		userAgent:  defaultUserAgent,
		log:        logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Timeout returns the per-request timeout
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Fetch issues one GET request. Connection failures, timeouts and non-2xx
// statuses are all reported as ErrNetwork. There are no retries.
func (c *Client) Fetch(ctx context.Context, url string) (*RawResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, networkError(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	c.log.WithField("url", url).Debug("Sending request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, networkError(fmt.Errorf("request timed out after %s: %w", c.timeout, err))
		}
		return nil, networkError(fmt.Errorf("executing request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused by sibling requests
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, networkError(fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, networkError(fmt.Errorf("reading body timed out after %s: %w", c.timeout, err))
		}
		return nil, networkError(fmt.Errorf("reading body: %w", err))
	}

	return &RawResponse{StatusCode: resp.StatusCode, Body: body}, nil
}

func networkError(err error) error {
	return &models.LookupError{Type: models.ErrNetwork, Err: err}
}
