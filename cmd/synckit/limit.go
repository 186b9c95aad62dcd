/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nautilus-one/synckit/ratelimit"
)

type simulatedCall struct {
	Call       int    `json:"call" yaml:"call"`
	At         string `json:"at" yaml:"at"`
	Allowed    bool   `json:"allowed" yaml:"allowed"`
	Remaining  int    `json:"remaining" yaml:"remaining"`
	RetryAfter string `json:"retryAfter,omitempty" yaml:"retryAfter,omitempty"`
}

type limitSimulateFlags struct {
	max      int
	window   time.Duration
	calls    int
	interval time.Duration
	key      string
}

func newLimitCmd(flags *globalFlags) *cobra.Command {
	limitCmd := &cobra.Command{
		Use:   "limit",
		Short: "Rate limiter tools",
	}

	simFlags := &limitSimulateFlags{}
	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Replay calls against a fixed-window limiter on a simulated clock",
		Long: `Issues --calls calls for one key, advancing the simulated clock by --interval
after each call, and prints the decision of the fixed-window limiter for every call.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			calls, err := simulateFixedWindow(cmd.Context(), simFlags)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), flags.output, calls)
		},
	}
	simulateCmd.Flags().IntVar(&simFlags.max, "max", 10, "maximum number of calls per window")
	simulateCmd.Flags().DurationVar(&simFlags.window, "window", time.Minute, "window length")
	simulateCmd.Flags().IntVar(&simFlags.calls, "calls", 20, "number of calls to replay")
	simulateCmd.Flags().DurationVar(&simFlags.interval, "interval", 0, "simulated time between calls")
	simulateCmd.Flags().StringVar(&simFlags.key, "key", "simulation", "rate limiting key")

	limitCmd.AddCommand(simulateCmd)
	return limitCmd
}

func simulateFixedWindow(ctx context.Context, f *limitSimulateFlags) ([]simulatedCall, error) {
	rate := ratelimit.Rate{Count: f.max, Duration: f.window}
	if err := rate.Validate(); err != nil {
		return nil, err
	}
	if f.calls < 0 || f.interval < 0 {
		return nil, fmt.Errorf("calls and interval cannot be negative")
	}

	var elapsed time.Duration
	start := time.Unix(0, 0).UTC()
	limiter, err := ratelimit.NewFixedWindowLimiter(ratelimit.FixedWindowOpts{
		MaxKeys: 1,
		Clock:   func() time.Time { return start.Add(elapsed) },
	})
	if err != nil {
		return nil, err
	}
	bound := limiter.Bind(rate)

	res := make([]simulatedCall, 0, f.calls)
	for i := 1; i <= f.calls; i++ {
		allowed, retryAfter, _ := bound.Allow(ctx, f.key)
		stats, _ := bound.GetStats(f.key)
		call := simulatedCall{Call: i, At: elapsed.String(), Allowed: allowed, Remaining: stats.Remaining}
		if !allowed {
			call.RetryAfter = retryAfter.String()
		}
		res = append(res, call)
		elapsed += f.interval
	}
	return res, nil
}
