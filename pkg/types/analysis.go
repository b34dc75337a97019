// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the oracle-engine pipeline:
// analysis results, corpus segments, retrieval index records, and the
// configuration of each stage.
package types

import (
	"encoding/json"
	"fmt"
)

// Payload is the structured body of a layer output or synthesis. The
// orchestrator treats it as opaque. Values are kept JSON-neutral (string,
// float64, bool, []any, map[string]any) so a persisted payload decodes back
// to an equal value.
type Payload map[string]any

// Output is a named payload produced by one analysis step. It serializes as
// the single-key object {"<name>": payload}.
type Output struct {
	Name    string
	Payload Payload
}

// MarshalJSON encodes the output as {"<name>": payload}.
func (o Output) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]Payload{o.Name: o.Payload})
}

// UnmarshalJSON decodes a single-key object into the output.
func (o *Output) UnmarshalJSON(data []byte) error {
	var m map[string]Payload
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if len(m) != 1 {
		return fmt.Errorf("output must have exactly one key, got %d", len(m))
	}
	for name, payload := range m {
		o.Name = name
		o.Payload = payload
	}
	return nil
}

// MarshalYAML renders the output with the same shape as its JSON form.
func (o Output) MarshalYAML() (any, error) {
	return map[string]Payload{o.Name: o.Payload}, nil
}

// SynthesisKey is the name under which the integrated synthesis is stored.
const SynthesisKey = "integrated_synthesis"

// AnalysisResult is the full output of one analysis: the query echoed
// verbatim, one output per registered layer in registration order, and the
// synthesis derived from them. It is the unit of persistence and the unit
// returned to callers.
type AnalysisResult struct {
	// Query is the input text, unmodified.
	Query string `json:"query" yaml:"query"`

	// Layers holds exactly one output per registered layer.
	Layers []Output `json:"analysis_layers" yaml:"analysis_layers"`

	// Synthesis is keyed under SynthesisKey.
	Synthesis Output `json:"synthesis" yaml:"synthesis"`
}

// LayerNames returns the layer output names in order.
func (r *AnalysisResult) LayerNames() []string {
	names := make([]string, len(r.Layers))
	for i, l := range r.Layers {
		names[i] = l.Name
	}
	return names
}
