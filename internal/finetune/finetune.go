// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package finetune prepares the configuration and model reference for a
// LoRA fine-tuning run over the prepared corpus. Training itself happens
// outside this tool.
package finetune

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/pdiddy/oracle-engine/internal/corpus"
	"github.com/pdiddy/oracle-engine/internal/fileutil"
	"github.com/pdiddy/oracle-engine/pkg/types"
)

const (
	// DefaultModel is the base model when none is configured.
	DefaultModel = "llama3.1"

	defaultDataDir = "data"
	modelsDir      = "models"
	configFile     = "finetune_config.json"
	modelFile      = "finetuned_model.json"
)

// ConfigPath returns the finetune_config.json location under dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(orDefault(dataDir), modelsDir, configFile)
}

// ModelPath returns the finetuned_model.json location under dataDir.
func ModelPath(dataDir string) string {
	return filepath.Join(orDefault(dataDir), modelsDir, modelFile)
}

func orDefault(dir string) string {
	if dir == "" {
		return defaultDataDir
	}
	return dir
}

// NewSpec returns the training configuration for model. The
// hyperparameters target a single Apple Silicon workstation.
func NewSpec(model string, quantization bool) types.FinetuneSpec {
	if model == "" {
		model = DefaultModel
	}
	return types.FinetuneSpec{
		Model: model,
		TrainingParams: types.TrainingParams{
			LearningRate:              2e-5,
			BatchSize:                 4,
			NumEpochs:                 3,
			MaxSeqLength:              512,
			WarmupSteps:               100,
			GradientAccumulationSteps: 2,
		},
		Optimization: types.Optimization{
			QuantizationEnabled: quantization,
			DeviceType:          "mac_m1_max",
			MixedPrecision:      "bf16",
			UseFlashAttention:   true,
		},
		LoRA: types.LoRAConfig{
			R:             16,
			Alpha:         32,
			TargetModules: []string{"q_proj", "v_proj"},
			Dropout:       0.05,
		},
	}
}

// Prepare counts the prepared training samples, then writes
// finetune_config.json and finetuned_model.json under <DataDir>/models.
// A missing corpus is not an error; the model reference records zero
// samples.
func Prepare(cfg types.FinetuneConfig, w io.Writer) (*types.ModelInfo, error) {
	samples, err := corpus.LoadSegments(corpus.SegmentsPath(cfg.DataDir))
	if err != nil {
		return nil, fmt.Errorf("loading training data: %w", err)
	}
	fmt.Fprintf(w, "loaded %d training samples\n", len(samples))

	spec := NewSpec(cfg.Model, cfg.Quantization)
	if err := writeJSON(ConfigPath(cfg.DataDir), spec); err != nil {
		return nil, fmt.Errorf("writing fine-tuning config: %w", err)
	}

	info := &types.ModelInfo{
		BaseModel:       spec.Model,
		TrainingSamples: len(samples),
		Config:          spec,
		Status:          types.ModelReadyForTraining,
	}
	if err := writeJSON(ModelPath(cfg.DataDir), info); err != nil {
		return nil, fmt.Errorf("writing model reference: %w", err)
	}

	fmt.Fprintf(w, "%s ready for training (quantization: %t) -> %s\n",
		spec.Model, spec.Optimization.QuantizationEnabled, ModelPath(cfg.DataDir))
	return info, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return fileutil.WriteAtomic(path, append(data, '\n'), 0o644)
}
