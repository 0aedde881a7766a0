// Package beeper is a typed client for the Beeper Desktop API, the local HTTP
// API exposed by the Beeper Desktop app for accounts, chats, messages, search
// and app control.
//
//	c := beeper.NewWithToken(os.Getenv("BEEPER_TOKEN"))
//	accounts, err := c.GetAccounts(ctx)
//
// Every operation performs exactly one HTTP request and returns either a typed
// output or one of the error types in errors.go. Nothing is cached or retried.
package beeper

import (
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// DefaultBaseURL is where Beeper Desktop serves its API unless reconfigured.
const DefaultBaseURL = "http://localhost:23373"

const defaultUserAgent = "bpp-beeper-go"

// Client holds the bearer token and base URL used for every request. It is
// safe for concurrent use; each call reads the token and base URL once, when
// it is issued, so SetToken/SetBaseURL only affect later calls.
type Client struct {
	mu      sync.RWMutex
	token   string
	baseURL string

	httpClient *http.Client
	logger     *zap.Logger
	userAgent  string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client. No timeout is applied by
// default; bound calls with a context instead.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger enables per-request debug logging.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// New creates a client for the API at baseURL. It does not touch the network.
func New(token, baseURL string, opts ...Option) *Client {
	c := &Client{
		token:      token,
		baseURL:    normalizeBaseURL(baseURL),
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewWithToken creates a client for DefaultBaseURL.
func NewWithToken(token string, opts ...Option) *Client {
	return New(token, DefaultBaseURL, opts...)
}

// SetToken replaces the bearer token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// SetBaseURL replaces the base URL.
func (c *Client) SetBaseURL(baseURL string) {
	c.mu.Lock()
	c.baseURL = normalizeBaseURL(baseURL)
	c.mu.Unlock()
}

// BaseURL returns the current base URL.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// Clone returns an independent client sharing the HTTP client and logger.
// Mutating one does not affect the other.
func (c *Client) Clone() *Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return &Client{
		token:      c.token,
		baseURL:    c.baseURL,
		httpClient: c.httpClient,
		logger:     c.logger,
		userAgent:  c.userAgent,
	}
}

func (c *Client) snapshot() (token, baseURL string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token, c.baseURL
}

func authHeader(token string) string {
	return "Bearer " + token
}

func normalizeBaseURL(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), "/")
}
