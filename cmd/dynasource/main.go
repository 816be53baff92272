/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Command dynasource extracts records from DynamoDB tables as a uniform
// JSON-lines event stream on stdout. Logs go to stderr so stdout stays
// machine-readable.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/suparena/dynasource"
	"github.com/suparena/dynasource/dynamodb"
	"github.com/suparena/dynasource/protocol"
	"github.com/suparena/dynasource/stream"
)

var (
	configPath  string
	catalogPath string
	statePath   string
	formatFlag  string
	verboseFlag bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "dynasource: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dynasource",
		Short: "DynamoDB record extraction source",
		Long: `dynasource extracts records from DynamoDB tables and emits them as a
JSON-lines event stream, supporting full re-extraction and resumable
incremental extraction keyed on a per-stream cursor attribute.`,
		Version: dynasource.Version,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			// Optional .env for local development; absence is not an error.
			_ = godotenv.Load()

			logrus.SetOutput(os.Stderr)
			if verboseFlag {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to connection config file (YAML or JSON)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSpecCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newDiscoverCmd())
	rootCmd.AddCommand(newReadCmd())
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(dynasource.GetVersionInfo())
		},
	}
}

func newSpecCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "spec",
		Short: "Print the connector specification",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return emit(cmd.OutOrStdout(), protocol.NewSpecMessage(dynasource.Spec()))
		},
	}
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify connectivity to the configured store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, err := newSource()
			if err != nil {
				return err
			}

			status := src.Check(cmd.Context())
			return emit(cmd.OutOrStdout(), protocol.NewConnectionStatusMessage(status.Status, status.Message))
		},
	}
}

func newDiscoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Sample every visible table and print the stream catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, err := newSource()
			if err != nil {
				return err
			}

			catalog, err := src.Discover(cmd.Context())
			if err != nil {
				return err
			}

			if formatFlag == "yaml" {
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				defer enc.Close()
				return enc.Encode(catalog)
			}
			return emit(cmd.OutOrStdout(), protocol.NewCatalogMessage(catalog))
		},
	}
	cmd.Flags().StringVar(&formatFlag, "format", "json", "output format: json or yaml")
	return cmd
}

func newReadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read",
		Short: "Extract records for the configured streams",
		Long: `Extract records for every stream in the configured catalog. Records are
written to stdout as JSON lines; each incremental stream is followed by a
state message carrying the advanced cursor. Feed that state back via
--state on the next run to extract only newer rows.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, err := newSource()
			if err != nil {
				return err
			}

			catalog, err := loadCatalog(catalogPath)
			if err != nil {
				return err
			}

			priorState, err := loadState(statePath)
			if err != nil {
				return err
			}

			it, err := src.Read(cmd.Context(), catalog, priorState)
			if err != nil {
				return err
			}
			defer it.Close()

			enc := json.NewEncoder(cmd.OutOrStdout())
			for {
				msg, err := it.Next(cmd.Context())
				if errors.Is(err, stream.Done) {
					return nil
				}
				if err != nil {
					return err
				}
				if err := enc.Encode(msg); err != nil {
					return err
				}
			}
		},
	}
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "path to configured catalog file (JSON)")
	cmd.Flags().StringVar(&statePath, "state", "", "path to saved state file from a previous run (JSON)")
	_ = cmd.MarkFlagRequired("catalog")
	return cmd
}

func newSource() (*dynasource.Source, error) {
	cfg, err := dynamodb.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return dynasource.New(cfg), nil
}

func loadCatalog(path string) (protocol.ConfiguredCatalog, error) {
	var catalog protocol.ConfiguredCatalog
	data, err := os.ReadFile(path)
	if err != nil {
		return catalog, fmt.Errorf("failed to read catalog: %w", err)
	}
	if err := json.Unmarshal(data, &catalog); err != nil {
		return catalog, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return catalog, nil
}

func loadState(path string) (json.RawMessage, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read state: %w", err)
	}
	return json.RawMessage(data), nil
}

// emit writes one protocol message as a JSON line.
func emit(w io.Writer, msg protocol.Message) error {
	return json.NewEncoder(w).Encode(msg)
}
