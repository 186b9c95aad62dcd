/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

// Package retry runs operations with backoff. It is used for durable writes
// (integrity check persistence) where a transient storage failure should not lose state.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/nautilus-one/synckit/log"
)

// IsRetryable tells whether an error is transient. nil means every error is retried.
type IsRetryable func(error) bool

// RetryableFunc does some work that may be attempted several times.
type RetryableFunc func(ctx context.Context) error

// Policy defines backoff strategy.
type Policy interface {
	NewBackOff() backoff.BackOff
}

// PolicyFunc is an adapter to allow the use of ordinary functions as Policy.
type PolicyFunc func() backoff.BackOff

// NewBackOff implements Policy.
func (f PolicyFunc) NewBackOff() backoff.BackOff {
	return f()
}

// DoWithRetry executes fn until it succeeds, the policy gives up, ctx is done
// or fn returns an error that isRetryable rejects.
// notify (may be nil) is called before every retry with the error and the delay.
func DoWithRetry(ctx context.Context, p Policy, isRetryable IsRetryable, notify backoff.Notify, fn RetryableFunc) error {
	b := backoff.WithContext(p.NewBackOff(), ctx)
	op := func() error {
		err := fn(b.Context())
		if err != nil && isRetryable != nil && !isRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	err := backoff.RetryNotify(op, b, notify)
	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		return permanent.Err
	}
	return err
}

// LogNotify returns a backoff.Notify that logs every failed attempt at warn level.
func LogNotify(logger log.FieldLogger, msg string) backoff.Notify {
	return func(err error, delay time.Duration) {
		logger.Warn(msg, log.Error(err), log.Duration("retry_in", delay))
	}
}

// ExponentialBackoffPolicy retries up to MaxRetries times with delays growing from InitialInterval.
type ExponentialBackoffPolicy struct {
	InitialInterval time.Duration
	MaxRetries      int
}

// NewBackOff implements Policy.
func (p ExponentialBackoffPolicy) NewBackOff() backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = p.InitialInterval
	eb.MaxElapsedTime = 0
	return withMaxRetries(eb, p.MaxRetries)
}

// ConstantBackoffPolicy retries up to MaxRetries times with the same Interval between attempts.
type ConstantBackoffPolicy struct {
	Interval   time.Duration
	MaxRetries int
}

// NewBackOff implements Policy.
func (p ConstantBackoffPolicy) NewBackOff() backoff.BackOff {
	return withMaxRetries(backoff.NewConstantBackOff(p.Interval), p.MaxRetries)
}

// NoRetryPolicy makes exactly one attempt.
var NoRetryPolicy Policy = PolicyFunc(func() backoff.BackOff { return &backoff.StopBackOff{} })

func withMaxRetries(b backoff.BackOff, maxRetries int) backoff.BackOff {
	if maxRetries > 0 {
		b = backoff.WithMaxRetries(b, uint64(maxRetries))
	}
	b.Reset()
	return b
}
