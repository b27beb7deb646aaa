package kinopub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmcdole/moviebuddy/internal/domain"
)

// Rate-limit policy for API calls.
const (
	MaxAttempts      = 2
	RateLimitBackoff = 5 * time.Second
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "MovieBuddy/1.0"
)

// HTTPDoer abstracts http.Client.Do for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// WaitFunc blocks for d or until ctx is done.
type WaitFunc func(ctx context.Context, d time.Duration) error

// SleepWithContext blocks for the given duration, returning early if the
// context is cancelled.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Executor performs authenticated API requests and classifies failures.
// A 429 is retried up to MaxAttempts in total; nothing else is retried.
type Executor struct {
	baseURL     string
	accessToken string
	httpClient  HTTPDoer
	wait        WaitFunc
	backoff     time.Duration
	logger      *slog.Logger
}

// ExecutorOption customises an Executor.
type ExecutorOption func(*Executor)

// WithHTTPClient overrides the HTTP backend.
func WithHTTPClient(client HTTPDoer) ExecutorOption {
	return func(e *Executor) {
		if client != nil {
			e.httpClient = client
		}
	}
}

// WithWait overrides how the executor waits between rate-limited attempts.
func WithWait(wait WaitFunc) ExecutorOption {
	return func(e *Executor) {
		if wait != nil {
			e.wait = wait
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) ExecutorOption {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExecutor creates an executor bound to one access token
func NewExecutor(baseURL, accessToken string, opts ...ExecutorOption) *Executor {
	e := &Executor{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		wait:        SleepWithContext,
		backoff:     RateLimitBackoff,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute performs one logical request and returns the raw JSON body of a
// 2xx response.
func (e *Executor) Execute(ctx context.Context, method, path string, query url.Values) (json.RawMessage, error) {
	op := method + " " + path
	reqURL := e.baseURL + path
	if len(query) > 0 {
		reqURL = reqURL + "?" + query.Encode()
	}
	requestID := uuid.NewString()

	for attempt := 1; ; attempt++ {
		status, body, err := e.do(ctx, method, reqURL, requestID, attempt)
		if err != nil {
			return nil, classifyTransportError(op, err)
		}

		switch {
		case status == http.StatusTooManyRequests:
			if attempt >= MaxAttempts {
				e.logger.Warn("rate limit retries exhausted", "op", op, "request_id", requestID, "attempts", attempt)
				return nil, domain.NewStatusError(domain.KindRateLimit, op, status,
					fmt.Sprintf("rate limited after %d attempts", attempt))
			}
			e.logger.Info("rate limited, backing off", "op", op, "request_id", requestID, "backoff", e.backoff)
			if err := e.wait(ctx, e.backoff); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			continue

		case status == http.StatusUnauthorized:
			return nil, domain.NewStatusError(domain.KindAuth, op, status,
				"authentication expired, run `moviebuddy auth` to sign in again")

		case status == http.StatusNotFound:
			return nil, domain.NewStatusError(domain.KindNotFound, op, status, "")

		case status < 200 || status > 299:
			e.logger.Error("api request error", "op", op, "request_id", requestID, "status", status, "body", truncate(body, 200))
			return nil, domain.NewStatusError(domain.KindService, op, status,
				fmt.Sprintf("unexpected status code: %d", status))
		}

		if !json.Valid(body) {
			return nil, &domain.Error{Kind: domain.KindService, Op: op, Status: status, Msg: "invalid JSON in response"}
		}
		return json.RawMessage(body), nil
	}
}

func (e *Executor) do(ctx context.Context, method, reqURL, requestID string, attempt int) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.accessToken)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", requestID)

	e.logger.Debug("api request", "method", method, "url", reqURL, "request_id", requestID, "attempt", attempt)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		e.logger.Error("api request failed", "request_id", requestID, "error", err)
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

func classifyTransportError(op string, err error) error {
	if isTimeout(err) {
		return domain.NewNetworkError(op, "request timed out", err)
	}
	return domain.NewNetworkError(op, "unable to reach service", err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
