// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/oracle-engine/internal/finetune"
)

var finetuneCmd = &cobra.Command{
	Use:   "finetune",
	Short: "Prepare LoRA fine-tuning artifacts",
}

var finetunePrepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Write finetune_config.json and finetuned_model.json",
	Long: `Prepare counts the training segments in data/processed and writes the
training configuration and a model reference with status
ready_for_training under data/models. Training runs elsewhere.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		_, err = finetune.Prepare(cfg.Finetune, os.Stdout)
		return err
	},
}

func init() {
	finetuneCmd.PersistentFlags().String("data-dir", "", "base directory for corpus data (default data)")
	finetuneCmd.PersistentFlags().String("model", "", "base model (default llama3.1)")
	finetuneCmd.PersistentFlags().Bool("quantization", true, "enable quantized training")
	bindFlag(finetuneCmd.PersistentFlags(), "finetune.data_dir", "data-dir")
	bindFlag(finetuneCmd.PersistentFlags(), "finetune.model", "model")
	bindFlag(finetuneCmd.PersistentFlags(), "finetune.quantization", "quantization")

	finetuneCmd.AddCommand(finetunePrepareCmd)
	rootCmd.AddCommand(finetuneCmd)
}
