// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/oracle-engine/internal/analysis"
	"github.com/pdiddy/oracle-engine/internal/results"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [query...]",
	Short: "Run every analysis layer over a query and persist the result",
	Long: `Analyze runs the query through the linguistic, numerical, historical
and theological layers in order, synthesizes an integrated interpretation,
and overwrites outputs/analysis_results.json with the new record.

Progress goes to stderr; the result is printed to stdout as JSON.`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func newPipeline(store analysis.ResultStore, progress io.Writer) (*analysis.Pipeline, error) {
	return analysis.NewPipeline(analysis.Config{Store: store, Progress: progress})
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	pipeline, err := newPipeline(results.NewFileStore(cfg.Results), os.Stderr)
	if err != nil {
		return err
	}
	result, err := pipeline.Analyze(query)
	if err != nil {
		if layer := analysis.FailedLayer(err); layer != "" {
			return fmt.Errorf("%s stage (%s): %w", analysis.Stage(err), layer, err)
		}
		return fmt.Errorf("%s stage: %w", analysis.Stage(err), err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
