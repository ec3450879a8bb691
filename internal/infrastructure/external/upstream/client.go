// Package upstream implements HTTP clients for the grading services.
// Every call runs under a per-call timeout and a per-upstream circuit
// breaker. Failures are reported as shared.ErrUpstreamUnavailable naming
// the upstream; a 404 is reported as shared.ErrNotFound. There are no
// retries here: retry policy belongs to the caller.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/campus-hub/grading-system/internal/domain/shared"
	"github.com/campus-hub/grading-system/pkg/circuitbreaker"
	"github.com/campus-hub/grading-system/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Observer receives one observation per upstream call. Optional.
type Observer interface {
	ObserveUpstream(upstream, op, outcome string, d time.Duration)
	BreakerStateChanged(upstream string, state string)
}

// Options configures a client.
type Options struct {
	BaseURL string

	// Timeout bounds a single call, including reading the body.
	Timeout time.Duration

	BreakerThreshold int
	BreakerCooldown  time.Duration

	// HTTPClient defaults to a client without its own timeout; the
	// per-call context deadline is what limits a request.
	HTTPClient *http.Client

	Logger   *logger.Logger
	Observer Observer

	// RequestID, when set, is forwarded as X-Request-ID.
	RequestID func(ctx context.Context) string
}

// DefaultTimeout is used when Options.Timeout is zero.
const DefaultTimeout = 5 * time.Second

// Call outcomes reported to the Observer.
const (
	OutcomeSuccess     = "success"
	OutcomeNotFound    = "not_found"
	OutcomeRejected    = "rejected"
	OutcomeUnavailable = "unavailable"
	OutcomeCanceled    = "canceled"
)

// ══════════════════════════════════════════════════════════════════════════════
// WIRE FORMAT
// ══════════════════════════════════════════════════════════════════════════════

// Envelope is the response body shape shared by all services.
type Envelope[T any] struct {
	Success    bool             `json:"success"`
	Count      *int             `json:"count,omitempty"`
	Data       T                `json:"data"`
	Warnings   []shared.Warning `json:"warnings,omitempty"`
	Enrichment string           `json:"enrichment,omitempty"`
	Error      *ErrorBody       `json:"error,omitempty"`
}

// ErrorBody is the error part of an Envelope.
type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client is the transport shared by the typed service clients.
type Client struct {
	name      string
	baseURL   string
	timeout   time.Duration
	http      *http.Client
	breaker   *circuitbreaker.CircuitBreaker
	log       *logger.Logger
	observer  Observer
	requestID func(ctx context.Context) string
}

// NewClient creates a client for the named upstream.
func NewClient(name string, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.BreakerThreshold <= 0 {
		opts.BreakerThreshold = 5
	}
	if opts.BreakerCooldown <= 0 {
		opts.BreakerCooldown = 30 * time.Second
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}

	c := &Client{
		name:      name,
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		timeout:   opts.Timeout,
		http:      opts.HTTPClient,
		log:       opts.Logger.With(logger.Upstream(name)),
		observer:  opts.Observer,
		requestID: opts.RequestID,
	}

	c.breaker = circuitbreaker.UpstreamBreaker(name, opts.BreakerThreshold, opts.BreakerCooldown,
		countsAsOutage,
		func(name string, from, to circuitbreaker.State) {
			c.log.Warn("circuit breaker state changed",
				logger.String("from", from.String()),
				logger.String("to", to.String()))
			if c.observer != nil {
				c.observer.BreakerStateChanged(name, to.String())
			}
		},
	)
	return c
}

// Name returns the upstream name.
func (c *Client) Name() string { return c.name }

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Check calls the upstream's /health endpoint. It implements the readiness
// checker contract.
func (c *Client) Check(ctx context.Context) error {
	return c.do(ctx, "Health", http.MethodGet, "/health", nil, nil)
}

// countsAsOutage decides what the breaker treats as a failure. Answers
// such as 404 or 400 are not outages, and neither is the caller going away.
func countsAsOutage(err error) bool {
	switch {
	case shared.IsNotFound(err), shared.IsValidation(err), shared.IsAlreadyExists(err):
		return false
	case errors.Is(err, context.Canceled):
		return false
	}
	return true
}

// getJSON performs a GET and decodes the envelope into out.
func (c *Client) getJSON(ctx context.Context, op, path string, out any) error {
	return c.do(ctx, op, http.MethodGet, path, nil, out)
}

// do performs one request through the circuit breaker.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	start := time.Now()

	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()
		return c.roundTrip(ctx, op, method, path, body, out)
	})

	if errors.Is(err, circuitbreaker.ErrCircuitOpen) || errors.Is(err, circuitbreaker.ErrTooManyRequests) {
		err = shared.UpstreamUnavailable(c.name, op, err)
	}

	c.observe(op, err, time.Since(start))
	return err
}

func (c *Client) observe(op string, err error, d time.Duration) {
	outcome := OutcomeSuccess
	switch {
	case err == nil:
	case shared.IsNotFound(err):
		outcome = OutcomeNotFound
	case shared.IsValidation(err), shared.IsAlreadyExists(err):
		outcome = OutcomeRejected
	case errors.Is(err, context.Canceled):
		outcome = OutcomeCanceled
	default:
		outcome = OutcomeUnavailable
		c.log.Warn("upstream call failed", logger.Operation(op), logger.Err(err), logger.Latency(d))
	}
	if c.observer != nil {
		c.observer.ObserveUpstream(c.name, op, outcome, d)
	}
}

func (c *Client) roundTrip(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return shared.UpstreamUnavailable(c.name, op, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.requestID != nil {
		if id := c.requestID(ctx); id != "" {
			req.Header.Set("X-Request-ID", id)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return shared.UpstreamUnavailable(c.name, op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return shared.UpstreamUnavailable(c.name, op, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode >= 400 {
		return c.statusError(op, resp.StatusCode, raw)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return shared.UpstreamUnavailable(c.name, op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// statusError maps an error response to a domain error kind.
func (c *Client) statusError(op string, status int, raw []byte) error {
	msg := http.StatusText(status)
	var env Envelope[json.RawMessage]
	if err := json.Unmarshal(raw, &env); err == nil && env.Error != nil && env.Error.Message != "" {
		msg = env.Error.Message
	}

	switch status {
	case http.StatusNotFound:
		return shared.NewDomainError(c.name, op, shared.ErrNotFound, msg)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return shared.NewDomainError(c.name, op, shared.ErrValidation, msg)
	case http.StatusConflict:
		return shared.NewDomainError(c.name, op, shared.ErrAlreadyExists, msg)
	default:
		return shared.UpstreamUnavailable(c.name, op, fmt.Errorf("status %d: %s", status, msg))
	}
}
