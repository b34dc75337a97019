// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/oracle-engine/pkg/types"
)

const (
	defaultDataDir = "data"
	vectorDir      = "vector_db"
	dbFile         = "index.db"
	manifestFile   = "index_config.json"
)

// DBPath returns the index database location under dataDir.
func DBPath(dataDir string) string {
	if dataDir == "" {
		dataDir = defaultDataDir
	}
	return filepath.Join(dataDir, vectorDir, dbFile)
}

// ManifestPath returns the index_config.json location under dataDir.
func ManifestPath(dataDir string) string {
	if dataDir == "" {
		dataDir = defaultDataDir
	}
	return filepath.Join(dataDir, vectorDir, manifestFile)
}

// Store holds embedded segments in SQLite. Vectors are stored as
// little-endian float64 blobs and searched by brute force; segment text
// is mirrored into an FTS5 table for keyword lookup when the driver was
// built with FTS5.
type Store struct {
	db  *sql.DB
	fts bool
}

// OpenStore opens or creates the database at path and ensures the schema.
func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS segments (
			id INTEGER PRIMARY KEY,
			text TEXT NOT NULL,
			book_name TEXT,
			chapter_count INTEGER,
			verse_count INTEGER,
			embedding_model TEXT NOT NULL,
			vector_dimension INTEGER NOT NULL,
			vector BLOB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_segments_book ON segments(book_name)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='segments_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		s.fts = true
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE segments_fts USING fts5(text, content=segments, content_rowid=id)`,
		`CREATE TRIGGER segments_ai AFTER INSERT ON segments BEGIN
			INSERT INTO segments_fts(rowid, text) VALUES (new.id, new.text);
		END`,
		`CREATE TRIGGER segments_ad AFTER DELETE ON segments BEGIN
			INSERT INTO segments_fts(segments_fts, rowid, text) VALUES('delete', old.id, old.text);
		END`,
		`CREATE TRIGGER segments_au AFTER UPDATE ON segments BEGIN
			INSERT INTO segments_fts(segments_fts, rowid, text) VALUES('delete', old.id, old.text);
			INSERT INTO segments_fts(rowid, text) VALUES (new.id, new.text);
		END`,
	}
	if _, err := s.db.Exec(ftsStatements[0]); err != nil {
		if strings.Contains(err.Error(), "no such module") {
			// Driver built without FTS5; Keyword falls back to LIKE.
			return nil
		}
		return fmt.Errorf("creating FTS table: %w", err)
	}
	for _, stmt := range ftsStatements[1:] {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS triggers: %w", err)
		}
	}
	s.fts = true
	return nil
}

// Replace swaps the whole index contents for entries in one transaction.
func (s *Store) Replace(ctx context.Context, entries []types.IndexEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM segments`); err != nil {
		return fmt.Errorf("clearing segments: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO segments (id, text, book_name, chapter_count, verse_count, embedding_model, vector_dimension, vector)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if len(e.Vector) != e.VectorDimension {
			return fmt.Errorf("segment %d: vector has %d dimensions, want %d", e.ID, len(e.Vector), e.VectorDimension)
		}
		_, err := stmt.ExecContext(ctx,
			e.ID, e.Text, e.Metadata.BookName, e.Metadata.ChapterCount, e.Metadata.VerseCount,
			e.EmbeddingModel, e.VectorDimension, encodeVector(e.Vector),
		)
		if err != nil {
			return fmt.Errorf("inserting segment %d: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

// Count returns the number of indexed segments.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM segments`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting segments: %w", err)
	}
	return n, nil
}

// Search ranks every segment by cosine similarity to vec and returns the
// best topK, highest first. Ties keep id order.
func (s *Store) Search(ctx context.Context, vec []float64, topK int) ([]types.SearchResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, text, book_name, chapter_count, verse_count, embedding_model, vector_dimension, vector
		 FROM segments ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying segments: %w", err)
	}
	defer rows.Close()

	var results []types.SearchResult
	for rows.Next() {
		var (
			r    types.SearchResult
			blob []byte
		)
		if err := scanEntry(rows, &r.IndexEntry, &blob); err != nil {
			return nil, err
		}
		r.Vector, err = decodeVector(blob)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", r.ID, err)
		}
		r.Score = Cosine(vec, r.Vector)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Keyword runs a full-text query over segment text. With FTS5 the query
// uses MATCH syntax and results are ordered by rank; without it each
// token must appear as a substring.
func (s *Store) Keyword(ctx context.Context, query string, topK int) ([]types.SearchResult, error) {
	if topK <= 0 {
		topK = -1
	}

	var (
		q    string
		args []any
	)
	if s.fts {
		q = `SELECT s.id, s.text, s.book_name, s.chapter_count, s.verse_count,
				s.embedding_model, s.vector_dimension, s.vector, segments_fts.rank
			FROM segments_fts
			JOIN segments s ON s.id = segments_fts.rowid
			WHERE segments_fts MATCH ?
			ORDER BY segments_fts.rank
			LIMIT ?`
		args = []any{query, topK}
	} else {
		var qb strings.Builder
		qb.WriteString(`SELECT id, text, book_name, chapter_count, verse_count,
				embedding_model, vector_dimension, vector, 0 AS rank
			FROM segments WHERE 1=1`)
		for _, tok := range Tokenize(query) {
			qb.WriteString(` AND lower(text) LIKE ?`)
			args = append(args, "%"+tok+"%")
		}
		qb.WriteString(` ORDER BY id LIMIT ?`)
		q = qb.String()
		args = append(args, topK)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("keyword query: %w", err)
	}
	defer rows.Close()

	var results []types.SearchResult
	for rows.Next() {
		var (
			r    types.SearchResult
			blob []byte
			rank float64
		)
		if err := scanEntry(rows, &r.IndexEntry, &blob, &rank); err != nil {
			return nil, err
		}
		r.Score = -rank
		results = append(results, r)
	}
	return results, rows.Err()
}

func scanEntry(rows *sql.Rows, e *types.IndexEntry, blob *[]byte, extra ...any) error {
	var book sql.NullString
	var chapters, verses sql.NullInt64
	dest := []any{
		&e.ID, &e.Text, &book, &chapters, &verses,
		&e.EmbeddingModel, &e.VectorDimension, blob,
	}
	if err := rows.Scan(append(dest, extra...)...); err != nil {
		return fmt.Errorf("scanning row: %w", err)
	}
	e.Metadata = types.SegmentMetadata{
		BookName:     book.String,
		ChapterCount: int(chapters.Int64),
		VerseCount:   int(verses.Int64),
	}
	return nil
}
