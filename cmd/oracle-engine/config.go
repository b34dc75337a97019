// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/oracle-engine/internal/secrets"
	"github.com/pdiddy/oracle-engine/pkg/types"
)

// setDefaults registers every configuration key so that environment
// variables resolve through AutomaticEnv during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("results.output_dir", "outputs")

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.allow_origin", "*")
	v.SetDefault("server.log_file", "")

	v.SetDefault("corpus.data_dir", "data")

	v.SetDefault("rag.data_dir", "data")
	v.SetDefault("rag.top_k", 5)
	v.SetDefault("rag.workers", 4)
	v.SetDefault("rag.embedding.backend", string(types.EmbeddingSimulated))
	v.SetDefault("rag.embedding.model", "nomic-embed-text")
	v.SetDefault("rag.embedding.dimension", 768)
	v.SetDefault("rag.embedding.base_url", "http://localhost:11434")
	v.SetDefault("rag.embedding.api_key", "")
	v.SetDefault("rag.embedding.max_retries", 5)
	v.SetDefault("rag.embedding.timeout", 60*time.Second)
	v.SetDefault("rag.embedding.user_agent", "oracle-engine/"+version)

	v.SetDefault("finetune.model", "llama3.1")
	v.SetDefault("finetune.quantization", true)
	v.SetDefault("finetune.data_dir", "data")
}

// loadConfig decodes the merged configuration and applies secrets.
func loadConfig(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	cfg.RAG.Embedding.APIKey = loadedSecrets.Fallback(cfg.RAG.Embedding.APIKey, secrets.EmbeddingAPIKey)
	return cfg, nil
}

// bindFlag ties a command flag to a configuration key. It panics on an
// unknown flag name, which is a programming error caught at startup.
func bindFlag(flags *pflag.FlagSet, key, flag string) {
	if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
		panic(fmt.Sprintf("binding flag %s: %v", flag, err))
	}
}
