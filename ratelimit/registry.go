/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/vasayxtx/go-glob"

	"github.com/nautilus-one/synckit/log"
)

// Registry holds a Limiter per configured action and a default Limiter for all other actions.
type Registry struct {
	def     Limiter
	actions map[string]Limiter
	stats   StatsProvider
	exempt  []func(string) bool
	expirer []keysExpirer
}

// keysExpirer is implemented by limiters that can forget keys no longer restricting calls.
type keysExpirer interface {
	DeleteExpired() int
}

// RegistryOpts contains optional parameters for constructing Registry.
type RegistryOpts struct {
	Clock   func() time.Time
	Logger  log.FieldLogger
	Metrics MetricsCollector
}

// NewRegistry creates limiters described by the configuration.
func NewRegistry(cfg *Config, opts RegistryOpts) (*Registry, error) {
	if err := cfg.Rate.Validate(); err != nil {
		return nil, fmt.Errorf("default rate: %w", err)
	}
	for name, rate := range cfg.Actions {
		if err := rate.Validate(); err != nil {
			return nil, fmt.Errorf("rate of action %q: %w", name, err)
		}
	}

	reg := &Registry{actions: make(map[string]Limiter, len(cfg.Actions))}
	for _, pattern := range cfg.ExemptKeys {
		reg.exempt = append(reg.exempt, glob.Compile(pattern))
	}

	var newLimiter func(rate Rate) (Limiter, error)
	switch cfg.Algorithm {
	case AlgorithmFixedWindow, "":
		fw, err := NewFixedWindowLimiter(FixedWindowOpts{
			MaxKeys: cfg.MaxKeys, Clock: opts.Clock, Logger: opts.Logger, Metrics: opts.Metrics,
		})
		if err != nil {
			return nil, err
		}
		reg.stats = fw
		reg.expirer = append(reg.expirer, fw)
		newLimiter = func(rate Rate) (Limiter, error) { return fw.Bind(rate), nil }
	case AlgorithmSlidingWindow:
		newLimiter = func(rate Rate) (Limiter, error) {
			return reg.track(NewSlidingWindowLimiter(rate, cfg.MaxKeys))
		}
	case AlgorithmLeakyBucket:
		newLimiter = func(rate Rate) (Limiter, error) {
			return reg.track(newLeakyBucketLimiter(rate, cfg.Burst, cfg.MaxKeys, opts.Clock))
		}
	case AlgorithmTokenBucket:
		newLimiter = func(rate Rate) (Limiter, error) {
			return reg.track(NewTokenBucketLimiter(rate, cfg.Burst, cfg.MaxKeys))
		}
	default:
		return nil, fmt.Errorf("unknown rate limiting algorithm %q", cfg.Algorithm)
	}

	var err error
	if reg.def, err = newLimiter(cfg.Rate); err != nil {
		return nil, fmt.Errorf("new default limiter: %w", err)
	}
	for name, rate := range cfg.Actions {
		if reg.actions[name], err = newLimiter(rate); err != nil {
			return nil, fmt.Errorf("new limiter for action %q: %w", name, err)
		}
	}
	return reg, nil
}

func (r *Registry) track(lim interface {
	Limiter
	keysExpirer
}, err error) (Limiter, error) {
	if err != nil {
		return nil, err
	}
	r.expirer = append(r.expirer, lim)
	return lim, nil
}

// DeleteExpired forgets keys that no longer restrict calls in all limiters and returns their number.
func (r *Registry) DeleteExpired() int {
	deleted := 0
	for _, e := range r.expirer {
		deleted += e.DeleteExpired()
	}
	return deleted
}

// For returns the Limiter of the action.
func (r *Registry) For(action string) Limiter {
	if lim, ok := r.actions[action]; ok {
		return lim
	}
	return r.def
}

// Allow checks whether subject may perform action now. Exempt keys are always allowed and not counted.
func (r *Registry) Allow(ctx context.Context, action, subject string) (allow bool, retryAfter time.Duration, err error) {
	key := ActionKey(action, subject)
	for _, match := range r.exempt {
		if match(key) {
			return true, 0, nil
		}
	}
	return r.For(action).Allow(ctx, key)
}

// Stats returns the StatsProvider of the registry's limiters.
// ok is false when the configured algorithm doesn't keep inspectable windows.
func (r *Registry) Stats() (stats StatsProvider, ok bool) {
	return r.stats, r.stats != nil
}

// ActionKey builds the limiter key of subject performing action, e.g. "login-attempt:user42".
func ActionKey(action, subject string) string {
	return action + ":" + subject
}
