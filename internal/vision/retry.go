package vision

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"
)

// apiError is a non-2xx response from the Gemini API.
type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string {
	return "gemini: status " + http.StatusText(e.status) + ": " + e.message
}

// withRetry runs fn up to maxRetries extra times after the first failure,
// waiting attempt*retryDelay between attempts. Only transient transport
// failures are retried; content-level and credential errors go straight back
// to the caller.
func (c *Client) withRetry(ctx context.Context, model string, fn func(context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= c.maxRetries+1; attempt++ {
		if attempt > 1 {
			delay := time.Duration(attempt-1) * c.retryDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return err
		}
		if !isRetryable(err) {
			return err
		}
		c.logger.Warn().
			Err(err).
			Str("model", model).
			Int("attempt", attempt).
			Int("max_attempts", c.maxRetries+1).
			Msg("gemini: transient failure")
	}
	return lastErr
}

// isRetryable reports whether err is a transient transport-class failure:
// per-call deadline expiry, network timeouts, rate limiting, or 5xx
// unavailability.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrCredentialRejected) || errors.Is(err, ErrMissingAPIKey) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var api *apiError
	if errors.As(err, &api) {
		switch api.status {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unavailable") || strings.Contains(msg, "overloaded") || strings.Contains(msg, "deadline")
}
