/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nautilus-one/synckit/config"
	"github.com/nautilus-one/synckit/debugserver"
	"github.com/nautilus-one/synckit/integrity"
	"github.com/nautilus-one/synckit/kvstore"
	"github.com/nautilus-one/synckit/log"
	"github.com/nautilus-one/synckit/ratelimit"
)

const envVarsPrefix = "synckit"

type globalFlags struct {
	configPath string
	output     string
}

// appConfig holds configurations of all components.
type appConfig struct {
	Log         *log.Config
	KVStore     *kvstore.Config
	RateLimit   *ratelimit.Config
	Integrity   *integrity.Config
	DebugServer *debugserver.Config
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:           "synckit",
		Short:         "Rate limiting and sync data integrity toolkit",
		SilenceUsage:  true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if flags.output != "json" && flags.output != "yaml" {
				return fmt.Errorf("unknown output format %q, should be json or yaml", flags.output)
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "",
		"path to a YAML or JSON configuration file (environment variables with SYNCKIT_ prefix override it)")
	rootCmd.PersistentFlags().StringVarP(&flags.output, "output", "o", "json", "output format: json or yaml")

	rootCmd.AddCommand(
		newServeCmd(flags),
		newChecksumCmd(flags),
		newSanitizeCmd(flags),
		newValidateCmd(flags),
		newIntegrityCmd(flags),
		newLimitCmd(flags),
	)
	return rootCmd
}

func loadAppConfig(path string) (*appConfig, error) {
	cfg := &appConfig{
		Log:         log.NewConfig(),
		KVStore:     kvstore.NewConfig(),
		RateLimit:   ratelimit.NewConfig(),
		Integrity:   integrity.NewConfig(),
		DebugServer: debugserver.NewConfig(),
	}
	err := config.NewDefaultLoader(envVarsPrefix).LoadFromPath(path, cfg.Log,
		cfg.KVStore, cfg.RateLimit, cfg.Integrity, cfg.DebugServer)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

// readInput reads the file named by the only argument, or stdin if there is none or it is "-".
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(args[0])
}

func render(w io.Writer, format string, v interface{}) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
