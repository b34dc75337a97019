// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/oracle-engine/internal/corpus"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Collect and prepare the training corpus",
	Long: `Corpus writes the book catalogue to data/raw/bible_metadata.yaml
(collect) and turns it into line-delimited training segments in
data/processed/training_data.jsonl (prepare).`,
}

var corpusCollectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Write the book catalogue to data/raw",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		_, err = corpus.Collect(cfg.Corpus, os.Stdout)
		return err
	},
}

var corpusPrepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Convert the catalogue into JSONL training segments",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		_, err = corpus.Prepare(cfg.Corpus, os.Stdout)
		return err
	},
}

func init() {
	corpusCmd.PersistentFlags().String("data-dir", "", "base directory for corpus data (default data)")
	bindFlag(corpusCmd.PersistentFlags(), "corpus.data_dir", "data-dir")

	corpusCmd.AddCommand(corpusCollectCmd)
	corpusCmd.AddCommand(corpusPrepareCmd)

	rootCmd.AddCommand(corpusCmd)
}
