// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the analysis pipeline and result store over HTTP.
//
// Routes (each also served under the /api prefix used by the web client):
//
//	POST /analyze  run an analysis for {"query": "..."}
//	GET  /results  return the last persisted result
//	GET  /health   liveness, does not touch the pipeline
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/pdiddy/oracle-engine/pkg/types"
)

const serviceName = "Oracle Biblico PRO"

// Analyzer runs a full analysis for a query.
type Analyzer interface {
	Analyze(query string) (*types.AnalysisResult, error)
}

// ResultLoader reads the last persisted result.
type ResultLoader interface {
	Load() (*types.AnalysisResult, error)
}

// Logger receives request and error lines.
type Logger interface {
	Printf(format string, args ...any)
}

// Server wraps the HTTP listener and handlers.
type Server struct {
	settings Settings
	analyzer Analyzer
	results  ResultLoader
	logger   Logger
	version  string

	mu       sync.RWMutex
	server   *http.Server
	listener net.Listener
}

// Option customizes server construction.
type Option func(*Server)

// WithLogger overrides the default no-op logger.
func WithLogger(l Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithVersion sets the version reported by /health.
func WithVersion(v string) Option {
	return func(s *Server) {
		if v != "" {
			s.version = v
		}
	}
}

// New prepares a server. analyzer and results are required.
func New(settings Settings, analyzer Analyzer, results ResultLoader, opts ...Option) (*Server, error) {
	if analyzer == nil {
		return nil, fmt.Errorf("server: analyzer is required")
	}
	if results == nil {
		return nil, fmt.Errorf("server: result loader is required")
	}
	s := &Server{
		settings: settings,
		analyzer: analyzer,
		results:  results,
		logger:   nopLogger{},
		version:  "dev",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Handler returns the routed handler with CORS and request logging applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	for _, prefix := range []string{"", "/api"} {
		mux.HandleFunc("POST "+prefix+"/analyze", s.handleAnalyze)
		mux.HandleFunc("GET "+prefix+"/results", s.handleResults)
		mux.HandleFunc("GET "+prefix+"/health", s.handleHealth)
	}
	return s.logRequests(s.cors(mux))
}

// Start binds the TCP listener and begins serving in the background.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return fmt.Errorf("server: already started")
	}
	addr := s.settings.Address()
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", addr, err)
	}
	server := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.settings.ReadTimeout,
		WriteTimeout: s.settings.WriteTimeout,
		IdleTimeout:  s.settings.IdleTimeout,
	}
	if ctx != nil {
		server.BaseContext = func(net.Listener) context.Context { return ctx }
	}
	s.listener = listener
	s.server = server
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Printf("server: serve error: %v", err)
		}
	}()
	s.logger.Printf("server: listening on %s", listener.Addr().String())
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server == nil {
		return nil
	}
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
	}
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Printf("server: stopped")
	s.listener = nil
	s.server = nil
	return nil
}

// Addr returns the bound address once the server has started.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// BaseURL returns the HTTP base URL for the running server.
func (s *Server) BaseURL() string {
	addr := s.Addr()
	if addr == "" {
		addr = s.settings.Address()
	}
	return "http://" + addr
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}
