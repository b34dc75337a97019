// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus collects the raw book catalogue and turns it into the
// line-delimited training segments consumed by the index builder and the
// fine-tuning stage.
package corpus

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/oracle-engine/internal/fileutil"
	"github.com/pdiddy/oracle-engine/pkg/types"
)

const (
	defaultDataDir = "data"
	rawDir         = "raw"
	processedDir   = "processed"
	catalogueFile  = "bible_metadata.yaml"
	segmentsFile   = "training_data.jsonl"
)

// maxLineBytes bounds a single JSONL line.
const maxLineBytes = 4 << 20

// CataloguePath returns the raw catalogue location under dataDir.
func CataloguePath(dataDir string) string {
	return filepath.Join(dataDirOrDefault(dataDir), rawDir, catalogueFile)
}

// SegmentsPath returns the training segments location under dataDir.
func SegmentsPath(dataDir string) string {
	return filepath.Join(dataDirOrDefault(dataDir), processedDir, segmentsFile)
}

func dataDirOrDefault(dir string) string {
	if dir == "" {
		return defaultDataDir
	}
	return dir
}

// DefaultCatalogue returns the built-in book catalogue.
func DefaultCatalogue() *types.Catalogue {
	langs := []string{"Hebrew", "English", "Portuguese"}
	return &types.Catalogue{
		Testament: "Old Testament",
		Books: []types.Book{
			{Name: "Genesis", Chapters: 50, Verses: 1533, Languages: langs},
			{Name: "Exodus", Chapters: 40, Verses: 1213, Languages: langs},
		},
	}
}

// ReferenceCollections lists the reference material paths grouped by
// collection. Keys are collection names.
func ReferenceCollections() map[string]map[string]string {
	return map[string]map[string]string{
		"linguistic_resources": {
			"hebrew_grammar":     "data/references/hebrew_grammar.txt",
			"aramaic_references": "data/references/aramaic.txt",
			"greek_references":   "data/references/greek.txt",
		},
		"theological_references": {
			"commentary_collection": "data/references/commentaries.json",
			"historical_context":    "data/references/history.json",
		},
	}
}

// Collect writes the built-in catalogue to <DataDir>/raw/bible_metadata.yaml
// and reports the catalogued books and reference collections to w.
func Collect(cfg types.CorpusConfig, w io.Writer) (*types.Catalogue, error) {
	cat := DefaultCatalogue()
	data, err := yaml.Marshal(cat)
	if err != nil {
		return nil, fmt.Errorf("marshaling catalogue: %w", err)
	}
	path := CataloguePath(cfg.DataDir)
	if err := fileutil.WriteAtomic(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("writing catalogue: %w", err)
	}
	fmt.Fprintf(w, "collected metadata for %d books -> %s\n", len(cat.Books), path)
	fmt.Fprintf(w, "catalogued %d reference collections\n", len(ReferenceCollections()))
	return cat, nil
}

// LoadCatalogue reads the raw catalogue. A missing file yields an empty
// catalogue.
func LoadCatalogue(dataDir string) (*types.Catalogue, error) {
	path := CataloguePath(dataDir)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &types.Catalogue{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var cat types.Catalogue
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cat, nil
}

// Segments converts each catalogued book into one training segment.
func Segments(cat *types.Catalogue) []types.Segment {
	segments := make([]types.Segment, 0, len(cat.Books))
	for _, b := range cat.Books {
		segments = append(segments, types.Segment{
			Text:      fmt.Sprintf("%s - %d chapters", b.Name, b.Chapters),
			Languages: b.Languages,
			Metadata: types.SegmentMetadata{
				BookName:     b.Name,
				ChapterCount: b.Chapters,
				VerseCount:   b.Verses,
			},
		})
	}
	return segments
}

// Prepare reads the raw catalogue and writes one JSON line per book to
// <DataDir>/processed/training_data.jsonl. It returns the segment count.
func Prepare(cfg types.CorpusConfig, w io.Writer) (int, error) {
	cat, err := LoadCatalogue(cfg.DataDir)
	if err != nil {
		return 0, err
	}
	segments := Segments(cat)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for _, s := range segments {
		if err := enc.Encode(s); err != nil {
			return 0, fmt.Errorf("encoding segment %s: %w", s.Metadata.BookName, err)
		}
	}

	path := SegmentsPath(cfg.DataDir)
	if err := fileutil.WriteAtomic(path, buf.Bytes(), 0o644); err != nil {
		return 0, fmt.Errorf("writing segments: %w", err)
	}
	fmt.Fprintf(w, "saved %d training samples -> %s\n", len(segments), path)
	return len(segments), nil
}

// LoadSegments reads a JSONL segments file. A missing file yields no
// segments; blank lines are skipped.
func LoadSegments(path string) ([]types.Segment, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var segments []types.Segment
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var s types.Segment
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		segments = append(segments, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return segments, nil
}
