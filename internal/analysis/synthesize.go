// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"fmt"

	"github.com/pdiddy/oracle-engine/pkg/types"
)

// Synthesizer derives one synthesis output from the complete layer sequence.
// It is replaceable independently of the layers.
type Synthesizer interface {
	Synthesize(layers []types.Output) (types.Output, error)
}

// SynthesizerFunc adapts a function to the Synthesizer interface.
type SynthesizerFunc func(layers []types.Output) (types.Output, error)

// Synthesize calls f(layers).
func (f SynthesizerFunc) Synthesize(layers []types.Output) (types.Output, error) {
	return f(layers)
}

// IntegratedSynthesizer is the default synthesizer. It requires exactly the
// expected number of layer outputs and returns a fixed integrated payload.
type IntegratedSynthesizer struct {
	expected int
}

// NewIntegratedSynthesizer returns a synthesizer expecting the given number
// of layer outputs.
func NewIntegratedSynthesizer(expected int) *IntegratedSynthesizer {
	return &IntegratedSynthesizer{expected: expected}
}

// Synthesize returns the integrated synthesis, or ErrIncompleteLayers when
// the sequence length differs from the expected count.
func (s *IntegratedSynthesizer) Synthesize(layers []types.Output) (types.Output, error) {
	if len(layers) != s.expected {
		return types.Output{}, fmt.Errorf("%w: got %d outputs, want %d", ErrIncompleteLayers, len(layers), s.expected)
	}
	return types.Output{
		Name: types.SynthesisKey,
		Payload: types.Payload{
			"complete_interpretation": "Multidisciplinary analysis",
			"cross_layer_connections": "Validated patterns",
			"depth_assessment":        "Comprehensive",
		},
	}, nil
}
