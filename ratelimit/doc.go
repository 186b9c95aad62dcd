/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

// Package ratelimit decides whether a keyed action may proceed.
//
// The primary implementation is FixedWindowLimiter: a counter per key that is reset
// when its window expires. It is intentionally a fixed-window counter, so up to
// 2*maxRequests calls can be admitted around a window boundary.
// Sliding window, leaky bucket (GCRA) and token bucket limiters are available
// behind the same Limiter interface for callers that need smoother admission.
//
// WithRateLimit and WithFixedWindow wrap a function so that it is not invoked
// when the limit is exceeded; the wrapper returns an error matching ErrRateLimitExceeded instead.
package ratelimit
