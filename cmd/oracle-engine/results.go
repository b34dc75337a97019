// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/oracle-engine/internal/results"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Print the last persisted analysis",
	Long: `Results reads outputs/analysis_results.json and prints it as JSON or
YAML. It exits with an error when no analysis has been persisted yet.`,
	RunE: runResults,
}

func init() {
	resultsCmd.Flags().String("format", "json", "output format: json or yaml")

	rootCmd.AddCommand(resultsCmd)
}

func runResults(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	store := results.NewFileStore(cfg.Results)

	switch format {
	case "json", "":
		err = store.ExportJSON(os.Stdout)
	case "yaml":
		err = store.ExportYAML(os.Stdout)
	default:
		return fmt.Errorf("unsupported format %q: use json or yaml", format)
	}
	if errors.Is(err, results.ErrNotFound) {
		return fmt.Errorf("%w: run analyze first", err)
	}
	return err
}
