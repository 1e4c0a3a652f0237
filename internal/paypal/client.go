// Package paypal implements a read-only client for PayPal's REST API,
// specialized for retrieving historical transaction and subscription
// records.
package paypal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Named sites the client resolves to API hosts. Any other Site value is
// used verbatim as a base URL.
const (
	SiteLive    = "live"
	SiteSandbox = "sandbox"

	liveURL    = "https://api-m.paypal.com"
	sandboxURL = "https://api-m.sandbox.paypal.com"
)

const (
	defaultTimeout  = 30 * time.Second
	defaultPageSize = 100
	maxPageSize     = 500
)

// Config holds the credentials and site selection for one PayPal app.
type Config struct {
	ClientID     string
	ClientSecret string
	// Site selects the API host: "live", "sandbox", or a base URL.
	// Empty selects the sandbox.
	Site string
}

// Validate checks if the configuration is usable.
func (c Config) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("paypal client ID is required")
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("paypal client secret is required")
	}
	return nil
}

// baseURL resolves the configured site to the API's base URL.
func (c Config) baseURL() string {
	switch strings.ToLower(c.Site) {
	case SiteLive:
		return liveURL
	case SiteSandbox, "":
		return sandboxURL
	default:
		return strings.TrimSuffix(c.Site, "/")
	}
}

// Client talks to the PayPal REST API. It holds no state besides the
// cached bearer token, so one Client may serve many lookups.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	tokens     *tokenSource
	now        func() time.Time
	baseURL    string
	pageSize   int
}

// Option adjusts how New assembles a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for every request,
// token grants included.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger replaces the client's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithPageSize sets how many records each reporting page requests. The
// API caps page sizes at 500.
func WithPageSize(n int) Option {
	return func(c *Client) { c.pageSize = n }
}

// WithBaseURL overrides the base URL the configured site would resolve
// to. Tests point this at a local server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithNow replaces the clock used for token expiry checks and default
// search bounds.
func WithNow(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New creates a client for the configured site.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid paypal config: %w", err)
	}

	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     slog.Default().With("component", "paypal"),
		now:        time.Now,
		baseURL:    cfg.baseURL(),
		pageSize:   defaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.pageSize < 1 {
		c.pageSize = defaultPageSize
	}
	if c.pageSize > maxPageSize {
		c.pageSize = maxPageSize
	}

	c.tokens = newTokenSource(cfg.ClientID, cfg.ClientSecret, c.baseURL, c.httpClient, c.now)
	return c, nil
}

// get performs one API call and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.getBody(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &TransientError{Err: fmt.Errorf("decoding response from %s: %w", path, err)}
	}
	return nil
}

// getBody performs one API call and returns the raw response body. A
// 401 invalidates the cached token and retries exactly once with a
// fresh one; every other failure maps straight onto the error taxonomy.
func (c *Client) getBody(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, query, false)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, retried bool) ([]byte, error) {
	tok, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", path, err)
	}
	tok.SetAuthHeader(req)

	c.logger.Debug("calling API", "method", method, "path", path, "retry", retried)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransientError{Err: fmt.Errorf("requesting %s: %w", path, err)}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransientError{
			Status: resp.StatusCode,
			Err:    fmt.Errorf("reading response from %s: %w", path, err),
		}
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode == http.StatusUnauthorized && !retried:
		c.tokens.Invalidate()
		return c.do(ctx, method, path, query, true)
	default:
		return nil, c.apiError(resp.StatusCode, body)
	}
}

// apiError classifies a non-2xx response, logging the protocol error
// document the way callers will see it.
func (c *Client) apiError(status int, body []byte) error {
	err := parseAPIError(status, body)
	c.logger.Error("API error", "status", status, "error", err)
	switch {
	case status == http.StatusUnauthorized:
		return &AuthError{Err: err}
	case status >= 400 && status < 500:
		return &RequestError{Status: status, Err: err}
	default:
		return &TransientError{Status: status, Err: err}
	}
}

// formatTimestamp renders a query timestamp the way the reporting API
// expects: RFC 3339 at seconds precision.
func formatTimestamp(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}
