// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// IndexEntry is one embedded segment stored in the retrieval index.
type IndexEntry struct {
	// ID is the zero-based position of the segment in the corpus.
	ID int `json:"id" yaml:"id"`

	Text     string          `json:"text" yaml:"text"`
	Metadata SegmentMetadata `json:"metadata" yaml:"metadata"`

	// EmbeddingModel names the model that produced Vector.
	EmbeddingModel string `json:"embedding_model" yaml:"embedding_model"`

	// VectorDimension is len(Vector).
	VectorDimension int `json:"vector_dimension" yaml:"vector_dimension"`

	Vector []float64 `json:"-" yaml:"-"`
}

// IndexManifest describes a built retrieval index. It is written to
// index_config.json next to the index database.
type IndexManifest struct {
	IndexType       string `json:"index_type" yaml:"index_type"`
	EmbeddingModel  string `json:"embedding_model" yaml:"embedding_model"`
	NumVectors      int    `json:"num_vectors" yaml:"num_vectors"`
	VectorDimension int    `json:"vector_dimension" yaml:"vector_dimension"`
	Metric          string `json:"metric" yaml:"metric"`
}

// SearchResult is an index entry ranked against a query.
type SearchResult struct {
	IndexEntry `yaml:",inline"`

	// Score is the cosine similarity for vector search, or the negated FTS5
	// rank for keyword search. Higher is better in both cases.
	Score float64 `json:"score" yaml:"score"`
}
