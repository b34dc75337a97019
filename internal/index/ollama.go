// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/oracle-engine/internal/httputil"
	"github.com/pdiddy/oracle-engine/pkg/types"
)

const (
	defaultBaseURL   = "http://localhost:11434"
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "oracle-engine"
	embeddingsPath   = "/api/embeddings"
)

// OllamaEmbedder calls an Ollama-compatible embeddings endpoint.
type OllamaEmbedder struct {
	baseURL   string
	model     string
	dim       int
	apiKey    string
	userAgent string
	retrier   httputil.Retrier
}

// NewOllamaEmbedder builds a client from cfg, filling defaults for the
// base URL, model, dimension and timeout.
func NewOllamaEmbedder(cfg types.EmbeddingConfig) *OllamaEmbedder {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	dim := cfg.Dimension
	if dim <= 0 {
		dim = DefaultDimension
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	return &OllamaEmbedder{
		baseURL:   baseURL,
		model:     model,
		dim:       dim,
		apiKey:    cfg.APIKey,
		userAgent: ua,
		retrier: httputil.Retrier{
			Client:     &http.Client{Timeout: timeout},
			MaxRetries: cfg.MaxRetries,
		},
	}
}

func (o *OllamaEmbedder) Name() string   { return o.model }
func (o *OllamaEmbedder) Dimension() int { return o.dim }

type embeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embeddingResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Embed posts text to /api/embeddings. A vector whose length differs from
// Dimension is an error.
func (o *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	body, err := json.Marshal(embeddingRequest{Model: o.model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("encoding embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+embeddingsPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", o.userAgent)
	if o.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.apiKey)
	}

	resp, err := o.retrier.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("embedding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("embedding request: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding embedding response: %w", err)
	}
	if len(out.Embedding) != o.dim {
		return nil, fmt.Errorf("embedding has %d dimensions, want %d", len(out.Embedding), o.dim)
	}
	return out.Embedding, nil
}
