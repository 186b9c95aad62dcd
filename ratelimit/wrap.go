/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// WrapOpts configures WithRateLimit.
type WrapOpts struct {
	// Key identifies the limited action.
	Key string

	// KeyFunc computes the key per call (e.g. from the user stored in ctx). It takes precedence over Key.
	KeyFunc func(ctx context.Context) string

	// ErrorMessage is the message of the error returned on rejection. DefaultErrorMessage is used if empty.
	ErrorMessage string
}

// WithRateLimit returns a function that consults limiter before calling fn.
// If the call is rejected, fn is not invoked and a *RateLimitExceededError is returned.
// Otherwise fn's result and error are returned unchanged.
func WithRateLimit[T any](
	limiter Limiter, fn func(ctx context.Context) (T, error), opts WrapOpts,
) func(ctx context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		key := opts.Key
		if opts.KeyFunc != nil {
			key = opts.KeyFunc(ctx)
		}
		allow, retryAfter, err := limiter.Allow(ctx, key)
		if err != nil {
			var zero T
			return zero, fmt.Errorf("check rate limit for %q: %w", key, err)
		}
		if !allow {
			var zero T
			return zero, &RateLimitExceededError{Key: key, RetryAfter: retryAfter, Message: opts.ErrorMessage}
		}
		return fn(ctx)
	}
}

// FixedWindowWrapOpts configures WithFixedWindow.
type FixedWindowWrapOpts struct {
	Key          string
	MaxRequests  int
	Window       time.Duration
	ErrorMessage string
}

// WithFixedWindow is WithRateLimit for a FixedWindowLimiter with per-call maxRequests and window.
func WithFixedWindow[T any](
	limiter *FixedWindowLimiter, fn func(ctx context.Context) (T, error), opts FixedWindowWrapOpts,
) func(ctx context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		allow, retryAfter := limiter.check(opts.Key, opts.MaxRequests, opts.Window)
		if !allow {
			var zero T
			return zero, &RateLimitExceededError{Key: opts.Key, RetryAfter: retryAfter, Message: opts.ErrorMessage}
		}
		return fn(ctx)
	}
}
