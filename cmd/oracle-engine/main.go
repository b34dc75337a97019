// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the oracle-engine CLI. Subcommands
// run the layered analysis, expose it over HTTP, and drive the corpus,
// index and fine-tuning preparation stages.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/oracle-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets secrets.Set

var rootCmd = &cobra.Command{
	Use:   "oracle-engine",
	Short: "Multi-layer text analysis with a synthesized interpretation",
	Long: `oracle-engine runs a query through an ordered set of analysis layers
(linguistic, numerical, historical, theological), combines their outputs into
an integrated synthesis, and persists the latest result.

Use analyze for a one-off run, serve for the HTTP API, and results to read
back the last persisted analysis. The corpus, index and finetune commands
prepare training and retrieval data.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(secrets.DefaultDir, os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./oracle-engine.yaml or ~/.config/oracle-engine/oracle-engine.yaml)")
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file loaded before configuration")
	rootCmd.PersistentFlags().String("output-dir", "", "directory holding analysis_results.json (default outputs)")
	bindFlag(rootCmd.PersistentFlags(), "results.output_dir", "output-dir")
}

func initConfig() {
	envFile, _ := rootCmd.PersistentFlags().GetString("env-file")
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "warning: loading %s: %v\n", envFile, err)
		}
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("oracle-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "oracle-engine"))
		}
	}

	setDefaults(viper.GetViper())
	viper.SetEnvPrefix("ORACLE_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "warning: reading %s: %v\n", cfgFile, err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
