// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "oracle-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// ResultsConfig holds settings for the analysis result store.
type ResultsConfig struct {
	// OutputDir is the directory holding analysis_results.json (default "outputs").
	// It is created on first write.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`
}

// ServerConfig holds settings for the HTTP boundary.
type ServerConfig struct {
	Host string `json:"host" yaml:"host" mapstructure:"host"`
	Port int    `json:"port" yaml:"port" mapstructure:"port"`

	// MaxBodyBytes limits the size of POST bodies.
	MaxBodyBytes int64 `json:"max_body_bytes" yaml:"max_body_bytes" mapstructure:"max_body_bytes"`

	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout" yaml:"idle_timeout" mapstructure:"idle_timeout"`

	// AllowOrigin is the Access-Control-Allow-Origin value (default "*").
	AllowOrigin string `json:"allow_origin" yaml:"allow_origin" mapstructure:"allow_origin"`

	// LogFile receives request and error logs. Empty means stderr.
	LogFile string `json:"log_file" yaml:"log_file" mapstructure:"log_file"`
}

// CorpusConfig holds settings for the corpus collection and preparation stages.
type CorpusConfig struct {
	// DataDir is the base directory for corpus data (contains raw/, processed/).
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
}

// EmbeddingBackend identifies the embedding implementation.
type EmbeddingBackend string

const (
	// EmbeddingSimulated produces deterministic feature-hashed vectors locally.
	EmbeddingSimulated EmbeddingBackend = "simulated"

	// EmbeddingOllama calls an Ollama-compatible /api/embeddings endpoint.
	EmbeddingOllama EmbeddingBackend = "ollama"
)

// EmbeddingConfig holds settings for the embedding backend.
type EmbeddingConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Backend selects the implementation: simulated or ollama.
	Backend EmbeddingBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Model is the embedding model identifier (default "nomic-embed-text").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// Dimension is the vector size (default 768).
	Dimension int `json:"dimension" yaml:"dimension" mapstructure:"dimension"`

	// BaseURL is the embedding service root (default "http://localhost:11434").
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// APIKey is sent as a bearer token when set.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// MaxRetries is the number of retries on HTTP 429 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// RAGConfig holds settings for the retrieval index builder.
type RAGConfig struct {
	Embedding EmbeddingConfig `json:"embedding" yaml:"embedding" mapstructure:"embedding"`

	// DataDir is the base directory for corpus data (contains processed/, vector_db/).
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`

	// TopK is the default number of query results (default 5).
	TopK int `json:"top_k" yaml:"top_k" mapstructure:"top_k"`

	// Workers bounds concurrent embedding requests during a build (default 4).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`
}

// FinetuneConfig holds settings for fine-tuning preparation.
type FinetuneConfig struct {
	// Model is the base model to fine-tune (default "llama3.1").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// Quantization enables quantized training.
	Quantization bool `json:"quantization" yaml:"quantization" mapstructure:"quantization"`

	// DataDir is the base directory for corpus data (contains processed/, models/).
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
}

// Config groups all stage configurations.
type Config struct {
	Results  ResultsConfig  `json:"results" yaml:"results" mapstructure:"results"`
	Server   ServerConfig   `json:"server" yaml:"server" mapstructure:"server"`
	Corpus   CorpusConfig   `json:"corpus" yaml:"corpus" mapstructure:"corpus"`
	RAG      RAGConfig      `json:"rag" yaml:"rag" mapstructure:"rag"`
	Finetune FinetuneConfig `json:"finetune" yaml:"finetune" mapstructure:"finetune"`
}
