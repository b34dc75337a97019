// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package results persists the most recent analysis result in a single
// durable slot and reads it back.
package results

import (
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
	defaultOutputDir = "outputs"
	resultsFile      = "analysis_results.json"
)

// ErrNotFound is returned by Load when no result has been persisted yet.
var ErrNotFound = errors.New("no results found")

// FileStore keeps one AnalysisResult as indented JSON in
// <OutputDir>/analysis_results.json. Each Save replaces the previous record
// wholesale. Concurrent writers are not serialized: the last rename wins.
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at cfg.OutputDir. The directory is
// created on the first Save.
func NewFileStore(cfg types.ResultsConfig) *FileStore {
	dir := cfg.OutputDir
	if dir == "" {
		dir = defaultOutputDir
	}
	return &FileStore{dir: dir}
}

// Path returns the location of the result slot.
func (s *FileStore) Path() string {
	return filepath.Join(s.dir, resultsFile)
}

// Save serializes result and atomically replaces the slot.
func (s *FileStore) Save(result *types.AnalysisResult) error {
	if result == nil {
		return fmt.Errorf("nil result")
	}
	data, err := encode(result)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	if err := fileutil.WriteAtomic(s.Path(), data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", s.Path(), err)
	}
	return nil
}

// Load returns the persisted result, or ErrNotFound if the slot has never
// been written.
func (s *FileStore) Load() (*types.AnalysisResult, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading %s: %w", s.Path(), err)
	}
	var result types.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.Path(), err)
	}
	return &result, nil
}

// ExportYAML writes the persisted result to w as YAML.
func (s *FileStore) ExportYAML(w io.Writer) error {
	result, err := s.Load()
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes the persisted result to w as indented JSON.
func (s *FileStore) ExportJSON(w io.Writer) error {
	result, err := s.Load()
	if err != nil {
		return err
	}
	data, err := encode(result)
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// encode renders result as human-readable UTF-8 JSON without HTML escaping.
func encode(result *types.AnalysisResult) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
