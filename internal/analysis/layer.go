// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"fmt"

	"github.com/pdiddy/oracle-engine/pkg/types"
)

// LayerFunc analyzes a query and returns its payload. Implementations must
// not depend on the output of any other layer.
type LayerFunc func(query string) (types.Payload, error)

// Layer is a named analysis step. Name becomes the key of the layer's entry
// in the result.
type Layer struct {
	Name string
	Run  LayerFunc
}

// Registry holds an ordered set of layers. Order and membership are fixed at
// construction.
type Registry struct {
	layers []Layer
}

// NewRegistry validates layers and returns a registry that runs them in the
// given order. Names must be non-empty and unique.
func NewRegistry(layers ...Layer) (*Registry, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("at least one layer is required")
	}
	seen := make(map[string]bool, len(layers))
	for i, l := range layers {
		if l.Name == "" {
			return nil, fmt.Errorf("layer %d has no name", i)
		}
		if l.Run == nil {
			return nil, fmt.Errorf("layer %s has no function", l.Name)
		}
		if seen[l.Name] {
			return nil, fmt.Errorf("layer %s registered twice", l.Name)
		}
		seen[l.Name] = true
	}
	return &Registry{layers: append([]Layer(nil), layers...)}, nil
}

// Len returns the number of registered layers.
func (r *Registry) Len() int {
	return len(r.layers)
}

// Names returns the layer names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.layers))
	for i, l := range r.layers {
		names[i] = l.Name
	}
	return names
}

// RunAll executes every layer against query sequentially, in registration
// order. The first failure stops execution; no partial sequence is returned.
func (r *Registry) RunAll(query string) ([]types.Output, error) {
	outputs := make([]types.Output, 0, len(r.layers))
	for _, l := range r.layers {
		payload, err := l.Run(query)
		if err != nil {
			return nil, layerError(l.Name, err)
		}
		outputs = append(outputs, types.Output{Name: l.Name, Payload: payload})
	}
	return outputs, nil
}
