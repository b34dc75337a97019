// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index embeds prepared corpus segments into a SQLite-backed
// vector index and answers similarity and keyword queries against it.
package index

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/oracle-engine/internal/corpus"
	"github.com/pdiddy/oracle-engine/internal/fileutil"
	"github.com/pdiddy/oracle-engine/pkg/types"
)

const (
	// IndexType is recorded in the manifest of every built index.
	IndexType = "sqlite-bruteforce"

	// Metric is the similarity measure used by Search.
	Metric = "cosine_similarity"

	defaultTopK    = 5
	defaultWorkers = 4
)

// Build embeds every segment from the prepared corpus under cfg.DataDir
// using up to cfg.Workers concurrent Embed calls, replaces the store
// contents and writes index_config.json. The first embedding error cancels
// the rest and leaves the store untouched. An empty corpus produces an
// empty index and a manifest with zero vectors.
func Build(ctx context.Context, emb Embedder, store *Store, cfg types.RAGConfig, w io.Writer) (*types.IndexManifest, error) {
	segments, err := corpus.LoadSegments(corpus.SegmentsPath(cfg.DataDir))
	if err != nil {
		return nil, fmt.Errorf("loading segments: %w", err)
	}
	fmt.Fprintf(w, "embedding %d segments with %s\n", len(segments), emb.Name())

	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	vectors := make([][]float64, len(segments))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, seg := range segments {
		i, seg := i, seg
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			vec, err := emb.Embed(gctx, seg.Text)
			if err != nil {
				return fmt.Errorf("embedding segment %d: %w", i, err)
			}
			vectors[i] = vec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries := make([]types.IndexEntry, len(segments))
	for i, seg := range segments {
		entries[i] = types.IndexEntry{
			ID:              i,
			Text:            seg.Text,
			Metadata:        seg.Metadata,
			EmbeddingModel:  emb.Name(),
			VectorDimension: len(vectors[i]),
			Vector:          vectors[i],
		}
	}

	if err := store.Replace(ctx, entries); err != nil {
		return nil, fmt.Errorf("storing vectors: %w", err)
	}

	manifest := &types.IndexManifest{
		IndexType:       IndexType,
		EmbeddingModel:  emb.Name(),
		NumVectors:      len(entries),
		VectorDimension: emb.Dimension(),
		Metric:          Metric,
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	path := ManifestPath(cfg.DataDir)
	if err := fileutil.WriteAtomic(path, append(data, '\n'), 0o644); err != nil {
		return nil, fmt.Errorf("writing manifest: %w", err)
	}

	fmt.Fprintf(w, "indexed %d vectors (%d dimensions) -> %s\n", manifest.NumVectors, manifest.VectorDimension, path)
	return manifest, nil
}

// Query embeds text and returns the topK most similar segments. A
// non-positive topK uses 5.
func Query(ctx context.Context, emb Embedder, store *Store, text string, topK int) ([]types.SearchResult, error) {
	if topK <= 0 {
		topK = defaultTopK
	}
	vec, err := emb.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	return store.Search(ctx, vec, topK)
}
