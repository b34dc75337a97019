// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// TrainingParams holds optimizer settings for a fine-tuning run.
type TrainingParams struct {
	LearningRate              float64 `json:"learning_rate" yaml:"learning_rate"`
	BatchSize                 int     `json:"batch_size" yaml:"batch_size"`
	NumEpochs                 int     `json:"num_epochs" yaml:"num_epochs"`
	MaxSeqLength              int     `json:"max_seq_length" yaml:"max_seq_length"`
	WarmupSteps               int     `json:"warmup_steps" yaml:"warmup_steps"`
	GradientAccumulationSteps int     `json:"gradient_accumulation_steps" yaml:"gradient_accumulation_steps"`
}

// Optimization holds hardware and precision settings.
type Optimization struct {
	QuantizationEnabled bool   `json:"quantization_enabled" yaml:"quantization_enabled"`
	DeviceType          string `json:"device_type" yaml:"device_type"`
	MixedPrecision      string `json:"mixed_precision" yaml:"mixed_precision"`
	UseFlashAttention   bool   `json:"use_flash_attention" yaml:"use_flash_attention"`
}

// LoRAConfig holds low-rank adapter settings.
type LoRAConfig struct {
	R             int      `json:"r" yaml:"r"`
	Alpha         int      `json:"lora_alpha" yaml:"lora_alpha"`
	TargetModules []string `json:"target_modules" yaml:"target_modules"`
	Dropout       float64  `json:"lora_dropout" yaml:"lora_dropout"`
}

// FinetuneSpec is the fine-tuning configuration written to finetune_config.json.
type FinetuneSpec struct {
	Model          string         `json:"model" yaml:"model"`
	TrainingParams TrainingParams `json:"training_params" yaml:"training_params"`
	Optimization   Optimization   `json:"optimization" yaml:"optimization"`
	LoRA           LoRAConfig     `json:"lora_config" yaml:"lora_config"`
}

// ModelStatus tracks where a fine-tuned model is in its lifecycle.
type ModelStatus string

const (
	ModelReadyForTraining ModelStatus = "ready_for_training"
)

// ModelInfo references a prepared fine-tuning run (finetuned_model.json).
type ModelInfo struct {
	BaseModel       string       `json:"base_model" yaml:"base_model"`
	TrainingSamples int          `json:"training_samples" yaml:"training_samples"`
	Config          FinetuneSpec `json:"config" yaml:"config"`
	Status          ModelStatus  `json:"status" yaml:"status"`
}
