/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nautilus-one/synckit/integrity"
	"github.com/nautilus-one/synckit/kvstore"
	"github.com/nautilus-one/synckit/log"
)

func newIntegrityCmd(flags *globalFlags) *cobra.Command {
	integrityCmd := &cobra.Command{
		Use:   "integrity",
		Short: "Inspect integrity checks persisted in the configured store",
	}

	withChecker := func(fn func(cmd *cobra.Command, args []string, checker *integrity.Checker) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := loadAppConfig(flags.configPath)
			if err != nil {
				return err
			}
			store, storeCloser, err := kvstore.New(cfg.KVStore)
			if err != nil {
				return fmt.Errorf("create %s store: %w", cfg.KVStore.Kind, err)
			}
			defer func() { _ = storeCloser.Close() }()

			checkerOpts := cfg.Integrity.CheckerOpts()
			checkerOpts.Logger = log.NewWriterLogger(cmd.ErrOrStderr(), log.LevelWarn)
			return fn(cmd, args, integrity.NewChecker(store, checkerOpts))
		}
	}

	integrityCmd.AddCommand(
		&cobra.Command{
			Use:   "stats",
			Short: "Print the number of checks in every status",
			Args:  cobra.NoArgs,
			RunE: withChecker(func(cmd *cobra.Command, _ []string, checker *integrity.Checker) error {
				return render(cmd.OutOrStdout(), flags.output, checker.Stats())
			}),
		},
		&cobra.Command{
			Use:   "pending",
			Short: "List checks that are still pending and may be retried",
			Args:  cobra.NoArgs,
			RunE: withChecker(func(cmd *cobra.Command, _ []string, checker *integrity.Checker) error {
				return render(cmd.OutOrStdout(), flags.output, checkList(checker.PendingChecks()))
			}),
		},
		&cobra.Command{
			Use:   "failed",
			Short: "List checks that failed and exhausted their retries",
			Args:  cobra.NoArgs,
			RunE: withChecker(func(cmd *cobra.Command, _ []string, checker *integrity.Checker) error {
				return render(cmd.OutOrStdout(), flags.output, checkList(checker.FailedChecks()))
			}),
		},
		&cobra.Command{
			Use:   "get <id>",
			Short: "Print a single check",
			Args:  cobra.ExactArgs(1),
			RunE: withChecker(func(cmd *cobra.Command, args []string, checker *integrity.Checker) error {
				check, ok := checker.Get(args[0])
				if !ok {
					return fmt.Errorf("integrity check %q not found", args[0])
				}
				return render(cmd.OutOrStdout(), flags.output, check)
			}),
		},
		&cobra.Command{
			Use:   "clear-verified",
			Short: "Remove verified checks from the store",
			Args:  cobra.NoArgs,
			RunE: withChecker(func(cmd *cobra.Command, _ []string, checker *integrity.Checker) error {
				return render(cmd.OutOrStdout(), flags.output, map[string]int{"cleared": checker.ClearVerified()})
			}),
		},
	)
	return integrityCmd
}

// checkList makes empty lists render as [] instead of null.
func checkList(checks []integrity.Check) []integrity.Check {
	if checks == nil {
		return []integrity.Check{}
	}
	return checks
}
