/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package ratelimit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultErrorMessage is the message of the error returned by wrapped functions when the limit is exceeded.
const DefaultErrorMessage = "rate limit exceeded, please try again later"

// ErrRateLimitExceeded is matched (via errors.Is) by every error returned when a call is rejected.
var ErrRateLimitExceeded = errors.New("rate limit exceeded")

// RateLimitExceededError is returned by wrapped functions when the call was rejected.
type RateLimitExceededError struct {
	Key        string
	RetryAfter time.Duration
	Message    string
}

// Error implements error interface.
func (e *RateLimitExceededError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return DefaultErrorMessage
}

// Is allows errors.Is(err, ErrRateLimitExceeded).
func (e *RateLimitExceededError) Is(target error) bool {
	return target == ErrRateLimitExceeded
}

// Limiter interface defines the rate limiting contract.
type Limiter interface {
	Allow(ctx context.Context, key string) (allow bool, retryAfter time.Duration, err error)
}

// Stats describes the current window of a key.
type Stats struct {
	RequestCount int       `json:"requestCount"`
	Remaining    int       `json:"remaining"`
	ResetAt      time.Time `json:"resetAt"`
}

// StatsProvider is implemented by limiters that can report per-key state.
type StatsProvider interface {
	GetStats(key string) (Stats, bool)
	Reset()
}

// Rate describes the frequency of requests.
type Rate struct {
	Count    int
	Duration time.Duration
}

// ParseRate parses rates in "N/unit" form where unit is "s", "m", "h" or any Go duration ("5/15m").
func ParseRate(s string) (Rate, error) {
	incorrectFormatErr := fmt.Errorf(
		"incorrect format for rate %q, should be N/(s|m|h|<duration>), for example 10/s, 5/15m", s)
	parts := strings.SplitN(strings.TrimSpace(s), "/", 2)
	if len(parts) != 2 {
		return Rate{}, incorrectFormatErr
	}
	count, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || count <= 0 {
		return Rate{}, incorrectFormatErr
	}
	var dur time.Duration
	switch unit := strings.ToLower(strings.TrimSpace(parts[1])); unit {
	case "s":
		dur = time.Second
	case "m":
		dur = time.Minute
	case "h":
		dur = time.Hour
	default:
		if dur, err = time.ParseDuration(unit); err != nil || dur <= 0 {
			return Rate{}, incorrectFormatErr
		}
	}
	return Rate{Count: count, Duration: dur}, nil
}

// String returns the rate in the form accepted by ParseRate.
func (r Rate) String() string {
	if r.Count == 0 && r.Duration == 0 {
		return ""
	}
	var d string
	switch r.Duration {
	case time.Second:
		d = "s"
	case time.Minute:
		d = "m"
	case time.Hour:
		d = "h"
	default:
		d = r.Duration.String()
	}
	return fmt.Sprintf("%d/%s", r.Count, d)
}

// Validate checks that the rate admits at least one request per positive duration.
func (r Rate) Validate() error {
	if r.Count <= 0 {
		return fmt.Errorf("rate count should be positive, got %d", r.Count)
	}
	if r.Duration <= 0 {
		return fmt.Errorf("rate duration should be positive, got %s", r.Duration)
	}
	return nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (r *Rate) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*r = Rate{}
		return nil
	}
	parsed, err := ParseRate(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MarshalText implements the encoding.TextMarshaler interface.
func (r Rate) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// MarshalJSON implements the json.Marshaler interface.
func (r Rate) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}
