package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	serrors "github.com/iii-hq/scaffolder/internal/errors"
)

// DefaultMaxResponseSize caps a single response body.
const DefaultMaxResponseSize int64 = 128 << 20

// Transport performs a single GET and returns the full body.
type Transport interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// StatusError reports a non-2xx response.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return "unexpected HTTP status " + e.Status
}

// HTTPTransport is the default Transport. It does not retry.
type HTTPTransport struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
}

// Option configures an HTTPTransport.
type Option func(*HTTPTransport)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(t *HTTPTransport) {
		t.httpClient = c
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(t *HTTPTransport) {
		t.userAgent = ua
	}
}

// WithTimeout sets a per-request timeout on a dedicated client.
func WithTimeout(d time.Duration) Option {
	return func(t *HTTPTransport) {
		if d > 0 {
			t.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithMaxResponseSize caps the accepted response body size.
func WithMaxResponseSize(n int64) Option {
	return func(t *HTTPTransport) {
		if n > 0 {
			t.maxBytes = n
		}
	}
}

// NewHTTPTransport creates an HTTPTransport with the given options.
func NewHTTPTransport(opts ...Option) *HTTPTransport {
	t := &HTTPTransport{
		httpClient: http.DefaultClient,
		userAgent:  "scaffolder",
		maxBytes:   DefaultMaxResponseSize,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Get fetches url. Network failures, non-2xx responses and oversized bodies
// are returned as IOError.
func (t *HTTPTransport) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, serrors.NewIOError("fetch", url, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, serrors.NewIOError("fetch", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, serrors.NewIOError("fetch", url, &StatusError{Code: resp.StatusCode, Status: resp.Status})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBytes+1))
	if err != nil {
		return nil, serrors.NewIOError("fetch", url, fmt.Errorf("reading response body: %w", err))
	}
	if int64(len(body)) > t.maxBytes {
		return nil, serrors.NewIOError("fetch", url, fmt.Errorf("response exceeds %d bytes", t.maxBytes))
	}
	return body, nil
}
