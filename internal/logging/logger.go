// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging writes timestamped log lines for long-running commands.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Logger appends timestamped lines to a writer. A nil *Logger discards
// everything.
type Logger struct {
	mu    sync.Mutex
	w     io.Writer
	file  *os.File
	clock func() time.Time
}

// New returns a logger writing to w.
func New(w io.Writer) *Logger {
	return &Logger{w: w, clock: time.Now}
}

// Open returns a logger appending to path, creating the file and its parent
// directory if needed. An empty path logs to stderr.
func Open(path string) (*Logger, error) {
	if path == "" {
		return New(os.Stderr), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	l := New(f)
	l.file = f
	return l, nil
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Printf writes a single timestamped line.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil || l.w == nil {
		return
	}
	line := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "[%s] %s\n", l.clock().Format(time.RFC3339), line)
}
