package internal

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"google.golang.org/api/googleapi"
)

// RetryConfig holds exponential backoff settings
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64
	// JitterFraction is the +/- share of the backoff used as jitter (0.0-1.0)
	JitterFraction float64
}

// DefaultRetryConfig returns the settings used for API calls
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     30 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.2,
	}
}

// ErrorClassifier reports whether an error is worth retrying
type ErrorClassifier func(error) bool

// withRetry runs fn until it succeeds, the classifier rejects the error or
// retries run out
func withRetry(ctx context.Context, cfg RetryConfig, classify ErrorClassifier, fn func(context.Context) error) error {
	if classify == nil {
		classify = isRetryableAPIError
	}

	var lastErr error
	backoff := cfg.InitialBackoff

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		if !classify(err) {
			return err
		}

		if attempt == cfg.MaxRetries {
			break
		}

		sleep := backoff + jitter(backoff, cfg.JitterFraction)
		if sleep > cfg.MaxBackoff {
			sleep = cfg.MaxBackoff
		}

		select {
		case <-time.After(sleep):
		case <-ctx.Done():
			return ctx.Err()
		}

		backoff = time.Duration(float64(backoff) * cfg.Multiplier)
		if backoff > cfg.MaxBackoff {
			backoff = cfg.MaxBackoff
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// jitter returns a random duration in [-fraction*d, +fraction*d]
func jitter(d time.Duration, fraction float64) time.Duration {
	if fraction <= 0 {
		return 0
	}
	jitterRange := float64(d) * fraction
	return time.Duration((rand.Float64() - 0.5) * 2 * jitterRange)
}

// errRequestTimeout marks a single call that hit its own deadline while the
// caller's context was still alive
var errRequestTimeout = errors.New("request timed out")

// classifyAPIError maps Data API failures onto the package sentinels
func classifyAPIError(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	for _, item := range apiErr.Errors {
		switch item.Reason {
		case "rateLimitExceeded", "userRateLimitExceeded":
			// sent as 403 but retryable
			return err
		case "quotaExceeded", "dailyLimitExceeded":
			return fmt.Errorf("%w: %s", ErrQuotaExceeded, apiErr.Message)
		case "keyInvalid", "keyExpired", "forbidden", "accessNotConfigured":
			return fmt.Errorf("%w: %s", ErrInvalidAPIKey, apiErr.Message)
		}
	}

	if apiErr.Code == http.StatusForbidden {
		return fmt.Errorf("%w: %s", ErrInvalidAPIKey, apiErr.Message)
	}
	return err
}

// isRetryableAPIError retries rate limiting and server side failures only
func isRetryableAPIError(err error) bool {
	if errors.Is(err, errRequestTimeout) {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrQuotaExceeded) || errors.Is(err, ErrInvalidAPIKey) {
		return false
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		for _, item := range apiErr.Errors {
			if item.Reason == "rateLimitExceeded" || item.Reason == "userRateLimitExceeded" {
				return true
			}
		}
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= 500
	}

	// network level failures
	return true
}
