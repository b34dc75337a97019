// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"regexp"
	"strings"

	"github.com/pdiddy/oracle-engine/pkg/types"
)

const (
	// DefaultModel is the embedding model recorded when none is configured.
	DefaultModel = "nomic-embed-text"

	// DefaultDimension is the vector size used when none is configured.
	DefaultDimension = 768
)

// Embedder turns text into a fixed-size vector.
type Embedder interface {
	// Name identifies the model that produced the vectors.
	Name() string
	Dimension() int
	Embed(ctx context.Context, text string) ([]float64, error)
}

// NewEmbedder builds the embedder selected by cfg.Backend. An empty
// backend selects the local hashing embedder.
func NewEmbedder(cfg types.EmbeddingConfig) (Embedder, error) {
	switch cfg.Backend {
	case "", types.EmbeddingSimulated:
		return NewHashEmbedder(cfg.Model, cfg.Dimension), nil
	case types.EmbeddingOllama:
		return NewOllamaEmbedder(cfg), nil
	default:
		return nil, fmt.Errorf("unknown embedding backend %q", cfg.Backend)
	}
}

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’][\p{L}\p{N}]+)*`)

// Tokenize lowercases text and splits it into word tokens.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// HashEmbedder produces deterministic feature-hashed vectors without a
// model. Each token adds a signed unit to one bucket; the result is L2
// normalised so cosine similarity reduces to a dot product.
type HashEmbedder struct {
	model string
	dim   int
}

// NewHashEmbedder returns a HashEmbedder. Empty model and non-positive
// dim fall back to DefaultModel and DefaultDimension.
func NewHashEmbedder(model string, dim int) *HashEmbedder {
	if model == "" {
		model = DefaultModel
	}
	if dim <= 0 {
		dim = DefaultDimension
	}
	return &HashEmbedder{model: model, dim: dim}
}

func (h *HashEmbedder) Name() string   { return h.model }
func (h *HashEmbedder) Dimension() int { return h.dim }

// Embed never fails; text without tokens yields the zero vector.
func (h *HashEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	vec := make([]float64, h.dim)
	for _, tok := range Tokenize(text) {
		f := fnv.New64a()
		f.Write([]byte(tok))
		sum := f.Sum64()
		bucket := sum % uint64(h.dim)
		if sum>>63 == 1 {
			vec[bucket]--
		} else {
			vec[bucket]++
		}
	}
	normalize(vec)
	return vec, nil
}

func normalize(vec []float64) {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
}

// Cosine returns the cosine similarity of a and b, or 0 when the lengths
// differ or either vector is zero.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func encodeVector(vec []float64) []byte {
	buf := make([]byte, 8*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf
}

func decodeVector(buf []byte) ([]float64, error) {
	if len(buf)%8 != 0 {
		return nil, fmt.Errorf("vector blob length %d is not a multiple of 8", len(buf))
	}
	vec := make([]float64, len(buf)/8)
	for i := range vec {
		vec[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i*8:]))
	}
	return vec, nil
}
