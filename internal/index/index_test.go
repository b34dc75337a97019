// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/oracle-engine/internal/corpus"
	"github.com/pdiddy/oracle-engine/internal/httputil"
	"github.com/pdiddy/oracle-engine/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(filepath.Join(t.TempDir(), "vector_db", "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func preparedCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := types.CorpusConfig{DataDir: dir}
	_, err := corpus.Collect(cfg, &bytes.Buffer{})
	require.NoError(t, err)
	_, err = corpus.Prepare(cfg, &bytes.Buffer{})
	require.NoError(t, err)
	return dir
}

func TestHashEmbedderDeterministic(t *testing.T) {
	e := NewHashEmbedder("", 0)
	assert.Equal(t, DefaultModel, e.Name())
	assert.Equal(t, DefaultDimension, e.Dimension())

	a, err := e.Embed(context.Background(), "Genesis - 50 chapters")
	require.NoError(t, err)
	b, err := e.Embed(context.Background(), "genesis 50 CHAPTERS")
	require.NoError(t, err)

	assert.Len(t, a, DefaultDimension)
	assert.Equal(t, a, b)
	assert.InDelta(t, 1.0, Cosine(a, a), 1e-9)
}

func TestHashEmbedderEmptyText(t *testing.T) {
	vec, err := NewHashEmbedder("m", 16).Embed(context.Background(), "  -- ")
	require.NoError(t, err)
	assert.Equal(t, make([]float64, 16), vec)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"bereshit", "bará", "elohim", "god’s", "1"}, Tokenize("Bereshit bará Elohim: God’s 1!"))
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 0.0, Cosine([]float64{1, 0}, []float64{0, 1}), 1e-12)
	assert.InDelta(t, -1.0, Cosine([]float64{1, 0}, []float64{-2, 0}), 1e-12)
	assert.Zero(t, Cosine([]float64{1}, []float64{1, 2}))
	assert.Zero(t, Cosine([]float64{0, 0}, []float64{1, 2}))
}

func TestVectorBlobRoundTrip(t *testing.T) {
	vec := []float64{0.25, -1.5, 3e-9}
	got, err := decodeVector(encodeVector(vec))
	require.NoError(t, err)
	assert.Equal(t, vec, got)

	_, err = decodeVector([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestNewEmbedder(t *testing.T) {
	e, err := NewEmbedder(types.EmbeddingConfig{})
	require.NoError(t, err)
	assert.IsType(t, &HashEmbedder{}, e)

	e, err = NewEmbedder(types.EmbeddingConfig{Backend: types.EmbeddingOllama, Model: "m", Dimension: 3})
	require.NoError(t, err)
	assert.IsType(t, &OllamaEmbedder{}, e)

	_, err = NewEmbedder(types.EmbeddingConfig{Backend: "openai"})
	assert.ErrorContains(t, err, `unknown embedding backend "openai"`)
}

func TestStoreReplaceAndSearch(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	entries := []types.IndexEntry{
		{ID: 0, Text: "alpha", EmbeddingModel: "m", VectorDimension: 2, Vector: []float64{1, 0}},
		{ID: 1, Text: "beta", EmbeddingModel: "m", VectorDimension: 2, Vector: []float64{0, 1},
			Metadata: types.SegmentMetadata{BookName: "Exodus", ChapterCount: 40, VerseCount: 1213}},
		{ID: 2, Text: "gamma", EmbeddingModel: "m", VectorDimension: 2, Vector: []float64{1, 1}},
	}
	require.NoError(t, s.Replace(ctx, entries))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	results, err := s.Search(ctx, []float64{0, 1}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "beta", results[0].Text)
	assert.Equal(t, "Exodus", results[0].Metadata.BookName)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
	assert.Equal(t, "gamma", results[1].Text)

	// Replace drops previous contents.
	require.NoError(t, s.Replace(ctx, entries[:1]))
	n, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStoreReplaceRejectsDimensionMismatch(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Replace(ctx, []types.IndexEntry{
		{ID: 0, Text: "kept", EmbeddingModel: "m", VectorDimension: 1, Vector: []float64{1}},
	}))

	err := s.Replace(ctx, []types.IndexEntry{
		{ID: 0, Text: "bad", EmbeddingModel: "m", VectorDimension: 3, Vector: []float64{1}},
	})
	assert.ErrorContains(t, err, "segment 0")

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "failed replace must roll back")
}

func TestStoreKeyword(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Replace(ctx, []types.IndexEntry{
		{ID: 0, Text: "Genesis - 50 chapters", EmbeddingModel: "m", VectorDimension: 1, Vector: []float64{1}},
		{ID: 1, Text: "Exodus - 40 chapters", EmbeddingModel: "m", VectorDimension: 1, Vector: []float64{1}},
	}))

	results, err := s.Keyword(ctx, "exodus", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].ID)

	results, err = s.Keyword(ctx, "chapters", 10)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestBuildAndQuery(t *testing.T) {
	dir := preparedCorpus(t)
	s, err := OpenStore(DBPath(dir))
	require.NoError(t, err)
	defer s.Close()

	emb := NewHashEmbedder("", 0)
	var buf bytes.Buffer
	manifest, err := Build(context.Background(), emb, s, types.RAGConfig{DataDir: dir}, &buf)
	require.NoError(t, err)

	assert.Equal(t, &types.IndexManifest{
		IndexType:       "sqlite-bruteforce",
		EmbeddingModel:  "nomic-embed-text",
		NumVectors:      2,
		VectorDimension: 768,
		Metric:          "cosine_similarity",
	}, manifest)
	assert.Contains(t, buf.String(), "embedding 2 segments")

	data, err := os.ReadFile(ManifestPath(dir))
	require.NoError(t, err)
	var onDisk types.IndexManifest
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, *manifest, onDisk)

	results, err := Query(context.Background(), emb, s, "Exodus chapters", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Exodus", results[0].Metadata.BookName)
}

func TestBuildEmptyCorpus(t *testing.T) {
	dir := t.TempDir()
	s := openTestStore(t)

	manifest, err := Build(context.Background(), NewHashEmbedder("", 8), s, types.RAGConfig{DataDir: dir}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Zero(t, manifest.NumVectors)
	assert.FileExists(t, ManifestPath(dir))
}

func TestOllamaEmbedder(t *testing.T) {
	var gotAuth string
	var gotReq embeddingRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embeddings", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(embeddingResponse{Embedding: []float64{0.1, 0.2, 0.3}})
	}))
	defer ts.Close()

	e := NewOllamaEmbedder(types.EmbeddingConfig{
		Backend: types.EmbeddingOllama, BaseURL: ts.URL + "/", Model: "nomic-embed-text",
		Dimension: 3, APIKey: "ek_test",
	})
	vec, err := e.Embed(context.Background(), "in the beginning")
	require.NoError(t, err)

	assert.Equal(t, []float64{0.1, 0.2, 0.3}, vec)
	assert.Equal(t, "Bearer ek_test", gotAuth)
	assert.Equal(t, embeddingRequest{Model: "nomic-embed-text", Prompt: "in the beginning"}, gotReq)
}

func TestOllamaEmbedderErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr string
	}{
		{
			name: "dimension mismatch",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(`{"embedding":[1,2]}`))
			},
			wantErr: "embedding has 2 dimensions, want 3",
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "model not loaded", http.StatusInternalServerError)
			},
			wantErr: "status 500: model not loaded",
		},
		{
			name: "bad json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(`not json`))
			},
			wantErr: "decoding embedding response",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()

			e := NewOllamaEmbedder(types.EmbeddingConfig{BaseURL: ts.URL, Dimension: 3})
			_, err := e.Embed(context.Background(), "x")
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestOllamaEmbedderRetriesRateLimit(t *testing.T) {
	old := httputil.RetryBaseDelay
	httputil.RetryBaseDelay = 0
	defer func() { httputil.RetryBaseDelay = old }()

	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"embedding":[1]}`))
	}))
	defer ts.Close()

	e := NewOllamaEmbedder(types.EmbeddingConfig{BaseURL: ts.URL, Dimension: 1, MaxRetries: 2})
	vec, err := e.Embed(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, vec)
	assert.Equal(t, 2, calls)
}

type failingEmbedder struct{ *HashEmbedder }

func (failingEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	if strings.HasPrefix(text, "Exodus") {
		return nil, errors.New("model unavailable")
	}
	return []float64{1}, nil
}

func TestBuildEmbeddingFailureLeavesStore(t *testing.T) {
	dir := preparedCorpus(t)
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Replace(ctx, []types.IndexEntry{
		{ID: 0, Text: "previous", EmbeddingModel: "m", VectorDimension: 1, Vector: []float64{1}},
	}))

	emb := failingEmbedder{NewHashEmbedder("", 1)}
	_, err := Build(ctx, emb, s, types.RAGConfig{DataDir: dir, Workers: 1}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "embedding segment 1: model unavailable")

	hits, err := s.Search(ctx, []float64{1}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "previous", hits[0].Text)
	assert.NoFileExists(t, ManifestPath(dir))
}
