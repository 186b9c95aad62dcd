/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nautilus-one/synckit/integrity"
	"github.com/nautilus-one/synckit/syncdata"
)

// errInvalidData is returned by the validate command when violations are found.
var errInvalidData = errors.New("data does not match the schema")

func newChecksumCmd(_ *globalFlags) *cobra.Command {
	var algorithm string
	cmd := &cobra.Command{
		Use:   "checksum [file|-]",
		Short: "Print the checksum of a JSON document",
		Long: `Computes the checksum of the JSON document read from the file (or stdin)
the same way the integrity checker does: over the canonical serialization with object keys sorted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			alg := integrity.Algorithm(strings.ToLower(algorithm))
			if alg != integrity.AlgorithmSimple && alg != integrity.AlgorithmCRC32 {
				return fmt.Errorf("unknown checksum algorithm %q", algorithm)
			}
			v, err := readValue(cmd, args)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), integrity.GenerateChecksum(v, alg))
			return err
		},
	}
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", string(integrity.DefaultAlgorithm), "checksum algorithm: simple or crc32")
	return cmd
}

func newSanitizeCmd(_ *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "sanitize [file|-]",
		Short: "Print a JSON document prepared for sync",
		Long: `Drops object keys starting with "_" or "$" at every level, trims strings and
truncates them to 10000 characters. The result is printed in canonical form.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := readValue(cmd, args)
			if err != nil {
				return err
			}
			data, err := syncdata.Marshal(syncdata.SanitizeForSync(v))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}

func newValidateCmd(flags *globalFlags) *cobra.Command {
	var schemaPath string
	cmd := &cobra.Command{
		Use:   "validate --schema schema.json [file|-]",
		Short: "Check the top-level fields of a JSON document against a schema",
		Long: `The schema is a JSON object mapping field names to type names
("string", "number", "boolean", "object", "array"); a trailing "?" marks a field as optional.
Violations are printed and the command fails when there is at least one.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schemaData, err := os.ReadFile(schemaPath)
			if err != nil {
				return fmt.Errorf("read schema: %w", err)
			}
			var schema syncdata.Schema
			if err = json.Unmarshal(schemaData, &schema); err != nil {
				return fmt.Errorf("parse schema: %w", err)
			}
			v, err := readValue(cmd, args)
			if err != nil {
				return err
			}
			violations := syncdata.ValidateDataStructure(v, schema)
			if err = render(cmd.OutOrStdout(), flags.output, map[string]interface{}{
				"valid":      len(violations) == 0,
				"violations": append([]string{}, violations...),
			}); err != nil {
				return err
			}
			if len(violations) != 0 {
				return errInvalidData
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "path to the JSON schema file")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

func readValue(cmd *cobra.Command, args []string) (syncdata.Value, error) {
	data, err := readInput(cmd, args)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	v, err := syncdata.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse input: %w", err)
	}
	return v, nil
}
