// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analysis runs a query through an ordered set of analysis layers,
// synthesizes their outputs, and persists the combined result.
//
// Analyze is all-or-nothing: a layer failure stops the remaining layers and
// skips synthesis, a synthesis failure skips persistence, and a persistence
// failure means no result is returned. Failures are reported as
// *PipelineError values classified by ErrLayer, ErrSynthesis, and
// ErrPersistence.
package analysis

import (
	"fmt"
	"io"

	"github.com/pdiddy/oracle-engine/pkg/types"
)

// ResultStore persists the most recent analysis result.
type ResultStore interface {
	Save(result *types.AnalysisResult) error
}

// Config configures a Pipeline.
type Config struct {
	// Layers run in the given order. Nil means DefaultLayers().
	Layers []Layer

	// Synthesizer combines the layer outputs. Nil means an
	// IntegratedSynthesizer expecting len(Layers) outputs.
	Synthesizer Synthesizer

	// Store receives every successful result. Required.
	Store ResultStore

	// Progress receives one line per step. Nil discards progress.
	Progress io.Writer
}

// Pipeline is the analysis orchestrator. It holds no mutable state and is
// safe for concurrent use as long as its Store is.
type Pipeline struct {
	registry    *Registry
	synthesizer Synthesizer
	store       ResultStore
	progress    io.Writer
}

// NewPipeline validates cfg and builds a Pipeline.
func NewPipeline(cfg Config) (*Pipeline, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("result store is required")
	}

	layers := cfg.Layers
	if layers == nil {
		layers = DefaultLayers()
	}
	registry, err := NewRegistry(layers...)
	if err != nil {
		return nil, fmt.Errorf("registering layers: %w", err)
	}

	synth := cfg.Synthesizer
	if synth == nil {
		synth = NewIntegratedSynthesizer(registry.Len())
	}

	progress := cfg.Progress
	if progress == nil {
		progress = io.Discard
	}

	return &Pipeline{
		registry:    registry,
		synthesizer: synth,
		store:       cfg.Store,
		progress:    progress,
	}, nil
}

// Layers returns the registered layer names in execution order.
func (p *Pipeline) Layers() []string {
	return p.registry.Names()
}

// Analyze runs every layer against query, synthesizes the outputs, persists
// the result, and returns it. The result is written before it is returned.
func (p *Pipeline) Analyze(query string) (*types.AnalysisResult, error) {
	fmt.Fprintf(p.progress, "analyzing %q\n", query)

	outputs, err := p.registry.RunAll(query)
	if err != nil {
		fmt.Fprintf(p.progress, "failed  %v\n", err)
		return nil, err
	}
	for _, o := range outputs {
		fmt.Fprintf(p.progress, "  layer %s ok\n", o.Name)
	}

	if len(outputs) != p.registry.Len() {
		err := synthesisError(fmt.Errorf("%w: got %d outputs, want %d", ErrIncompleteLayers, len(outputs), p.registry.Len()))
		fmt.Fprintf(p.progress, "failed  %v\n", err)
		return nil, err
	}

	synthesis, err := p.synthesizer.Synthesize(outputs)
	if err != nil {
		err = synthesisError(err)
		fmt.Fprintf(p.progress, "failed  %v\n", err)
		return nil, err
	}

	result := &types.AnalysisResult{
		Query:     query,
		Layers:    outputs,
		Synthesis: synthesis,
	}

	if err := p.store.Save(result); err != nil {
		err = persistenceError(err)
		fmt.Fprintf(p.progress, "failed  %v\n", err)
		return nil, err
	}

	fmt.Fprintf(p.progress, "analysis complete (%d layers)\n", len(outputs))
	return result, nil
}
