package airtable

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/hireloop/shortlister/internal/retry"
)

const (
	apiURL = "https://api.airtable.com/v0"
	// defaultRateLimit spaces calls roughly half a second apart, under the
	// per-base request ceiling.
	defaultRateLimit = 2
)

// Client talks to the record store API for a single base. Every call runs
// through the shared retry schedule and the client-side rate limiter.
type Client struct {
	token   string
	baseID  string
	logger  *zap.Logger
	limiter *rate.Limiter
	retry   retry.Config

	HTTPClient *http.Client
	APIURL     string
}

// Option customizes a Client.
type Option func(*Client)

// WithAPIURL points the client at an alternative endpoint, mainly test servers.
func WithAPIURL(u string) Option {
	return func(c *Client) { c.APIURL = u }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

// WithRateLimit caps outgoing calls at rps requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), 1) }
}

// WithMaxRetries overrides the attempt count of the retry schedule.
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.retry.MaxAttempts = n }
}

// WithRetryBase overrides the backoff unit of the retry schedule.
func WithRetryBase(d time.Duration) Option {
	return func(c *Client) { c.retry.Base = d }
}

func New(token, baseID string, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		token:   token,
		baseID:  baseID,
		logger:  logger,
		limiter: rate.NewLimiter(defaultRateLimit, 1),
		retry:   retry.Config{Logger: logger},
		APIURL:  apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}
