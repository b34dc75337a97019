// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrLayer marks a failure inside a registered layer.
	ErrLayer = errors.New("layer failed")

	// ErrSynthesis marks a failure in the synthesis step.
	ErrSynthesis = errors.New("synthesis failed")

	// ErrPersistence marks a failure writing the result slot.
	ErrPersistence = errors.New("persisting result failed")

	// ErrIncompleteLayers is returned when synthesis receives fewer or more
	// outputs than there are registered layers.
	ErrIncompleteLayers = errors.New("incomplete layer sequence")
)

// PipelineError is the typed failure returned by Pipeline.Analyze. Kind is
// one of ErrLayer, ErrSynthesis, or ErrPersistence; Layer names the failing
// layer for ErrLayer; Err is the underlying cause.
type PipelineError struct {
	Kind  error
	Layer string
	Err   error
}

func (e *PipelineError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Kind.Error()
	if e.Layer != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Layer)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *PipelineError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Stage reports which pipeline step produced err: "layer", "synthesis",
// "persistence", or "" when err is not a pipeline failure.
func Stage(err error) string {
	switch {
	case errors.Is(err, ErrLayer):
		return "layer"
	case errors.Is(err, ErrSynthesis):
		return "synthesis"
	case errors.Is(err, ErrPersistence):
		return "persistence"
	default:
		return ""
	}
}

// FailedLayer returns the name of the layer that caused err, if any.
func FailedLayer(err error) string {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Layer
	}
	return ""
}

func layerError(name string, err error) error {
	return &PipelineError{Kind: ErrLayer, Layer: name, Err: err}
}

func synthesisError(err error) error {
	return &PipelineError{Kind: ErrSynthesis, Err: err}
}

func persistenceError(err error) error {
	return &PipelineError{Kind: ErrPersistence, Err: err}
}
