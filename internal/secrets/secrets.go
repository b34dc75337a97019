// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// The filename is the key and the trimmed contents are the value.
//
// Known keys: embedding-api-key.
package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDir is the conventional secrets directory relative to the
// working directory.
const DefaultDir = ".secrets"

// EmbeddingAPIKey is the bearer token for the HTTP embedding backend.
const EmbeddingAPIKey = "embedding-api-key"

// Set holds loaded secrets keyed by filename.
type Set map[string]string

// Get returns the secret for key, or "" when absent.
func (s Set) Get(key string) string {
	return s[key]
}

// Fallback returns configured when it is non-empty and the secret for
// key otherwise. Explicit configuration wins over the secrets directory.
func (s Set) Fallback(configured, key string) string {
	if configured != "" {
		return configured
	}
	return s.Get(key)
}

// Load reads every regular, non-hidden file in dir. A missing directory
// yields an empty Set. Unreadable files are reported to warn and skipped;
// empty files are ignored.
func Load(dir string, warn io.Writer) (Set, error) {
	if warn == nil {
		warn = io.Discard
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Set{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	set := make(Set)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(warn, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			set[name] = value
		}
	}
	return set, nil
}
