// Package doclytics implements the REST client for the remote document
// service that owns documents, OCR status and Q&A interactions.
package doclytics

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/HamiltonMussi/doclytics-go/internal/infrastructure/resilience"
)

// TokenProvider supplies the bearer credential attached to every request.
// An empty token means unauthenticated (login/register).
type TokenProvider interface {
	Token() string
}

// Observer sees the outcome of every remote request. statusCode is 0 when no
// HTTP response was received.
type Observer func(operation string, statusCode int, duration time.Duration)

type Client struct {
	baseURL    string
	tokens     TokenProvider
	httpClient *http.Client
	limiter    *rate.Limiter
	exec       *resilience.Executor
	observe    Observer
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithRateLimit bounds outgoing requests to ratePerSec with the given burst.
func WithRateLimit(ratePerSec float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(ratePerSec), burst) }
}

func WithExecutor(exec *resilience.Executor) Option {
	return func(c *Client) { c.exec = exec }
}

func WithObserver(observe Observer) Option {
	return func(c *Client) { c.observe = observe }
}

func New(baseURL string, tokens TokenProvider, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(20), 10),
		exec:       resilience.NewExecutor(resilience.DefaultConfig()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
