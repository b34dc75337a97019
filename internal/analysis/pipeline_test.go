// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/oracle-engine/internal/results"
	"github.com/pdiddy/oracle-engine/pkg/types"
)

// memStore records saved results in memory.
type memStore struct {
	saved []*types.AnalysisResult
	err   error
}

func (m *memStore) Save(r *types.AnalysisResult) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, r)
	return nil
}

func newFileStore(t *testing.T) *results.FileStore {
	t.Helper()
	return results.NewFileStore(types.ResultsConfig{OutputDir: filepath.Join(t.TempDir(), "outputs")})
}

func newPipeline(t *testing.T, cfg Config) *Pipeline {
	t.Helper()
	p, err := NewPipeline(cfg)
	require.NoError(t, err)
	return p
}

func TestNewPipelineRequiresStore(t *testing.T) {
	_, err := NewPipeline(Config{})
	assert.Error(t, err)
}

func TestNewPipelineRejectsInvalidLayers(t *testing.T) {
	_, err := NewPipeline(Config{Store: &memStore{}, Layers: []Layer{}})
	assert.Error(t, err)
}

func TestAnalyzeGenesisQuery(t *testing.T) {
	store := newFileStore(t)
	p := newPipeline(t, Config{Store: store})

	got, err := p.Analyze("Profecia sobre cometa na biblia")
	require.NoError(t, err)

	assert.Equal(t, "Profecia sobre cometa na biblia", got.Query)
	assert.Equal(t, []string{LinguisticLayer, NumericalLayer, HistoricalLayer, TheologicalLayer}, got.LayerNames())
	assert.Equal(t, types.SynthesisKey, got.Synthesis.Name)
	assert.Equal(t, "Comprehensive", got.Synthesis.Payload["depth_assessment"])

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, got, loaded)
}

func TestAnalyzeLayerCompleteness(t *testing.T) {
	p := newPipeline(t, Config{Store: &memStore{}})

	for _, q := range []string{"", "a", "cometa", "Gênesis 1:1 בְּרֵאשִׁית", "  spaced  "} {
		got, err := p.Analyze(q)
		require.NoError(t, err, "query %q", q)
		require.Len(t, got.Layers, 4)
		assert.Equal(t, p.Layers(), got.LayerNames())
	}
}

func TestAnalyzeEchoesQueryVerbatim(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"empty", ""},
		{"ascii", "prophecy about a comet"},
		{"portuguese", "Profecia sobre cometa na bíblia"},
		{"hebrew", "בְּרֵאשִׁית בָּרָא"},
		{"whitespace", "  leading and trailing  \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFileStore(t)
			p := newPipeline(t, Config{Store: store})

			got, err := p.Analyze(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.query, got.Query)

			loaded, err := store.Load()
			require.NoError(t, err)
			assert.Equal(t, tt.query, loaded.Query)
		})
	}
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	p := newPipeline(t, Config{Store: &memStore{}})

	first, err := p.Analyze("cometa")
	require.NoError(t, err)
	second, err := p.Analyze("cometa")
	require.NoError(t, err)
	other, err := p.Analyze("a different query")
	require.NoError(t, err)

	assert.Equal(t, first.Layers, second.Layers)
	assert.Equal(t, first.Synthesis, second.Synthesis)
	assert.Equal(t, first.Layers, other.Layers, "layer payloads ignore query content")
}

func TestAnalyzeOverwritesSlot(t *testing.T) {
	store := newFileStore(t)
	p := newPipeline(t, Config{Store: store})

	_, err := p.Analyze("Q1")
	require.NoError(t, err)
	want, err := p.Analyze("Q2")
	require.NoError(t, err)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, loaded)
	assert.Equal(t, "Q2", loaded.Query)
}

func TestAnalyzeLayerFailureAborts(t *testing.T) {
	store := newFileStore(t)
	good := newPipeline(t, Config{Store: store})
	before, err := good.Analyze("before")
	require.NoError(t, err)

	var ran []string
	track := func(name string, fail bool) Layer {
		return Layer{Name: name, Run: func(string) (types.Payload, error) {
			ran = append(ran, name)
			if fail {
				return nil, errors.New("boom")
			}
			return types.Payload{"ok": true}, nil
		}}
	}
	synthCalled := false
	p := newPipeline(t, Config{
		Store: store,
		Layers: []Layer{
			track("first", false),
			track("second", true),
			track("third", false),
		},
		Synthesizer: SynthesizerFunc(func([]types.Output) (types.Output, error) {
			synthCalled = true
			return types.Output{}, nil
		}),
	})

	got, err := p.Analyze("after")
	require.Error(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrLayer)
	assert.Equal(t, "layer", Stage(err))
	assert.Equal(t, "second", FailedLayer(err))
	assert.EqualError(t, err, "layer failed: second: boom")

	assert.Equal(t, []string{"first", "second"}, ran, "layers after the failure must not run")
	assert.False(t, synthCalled, "synthesizer must not run after a layer failure")

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, before, loaded, "slot must be unchanged")
}

func TestAnalyzeSynthesisFailure(t *testing.T) {
	store := &memStore{}
	cause := errors.New("cannot reconcile")
	p := newPipeline(t, Config{
		Store: store,
		Synthesizer: SynthesizerFunc(func([]types.Output) (types.Output, error) {
			return types.Output{}, cause
		}),
	})

	got, err := p.Analyze("q")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrSynthesis)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "synthesis", Stage(err))
	assert.Empty(t, store.saved)
}

func TestAnalyzePersistenceFailureIsFatal(t *testing.T) {
	diskFull := errors.New("disk full")
	p := newPipeline(t, Config{Store: &memStore{err: diskFull}})

	got, err := p.Analyze("q")
	assert.Nil(t, got, "no result is returned when persistence fails")
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, diskFull)
	assert.Equal(t, "persistence", Stage(err))

	var pe *PipelineError
	require.True(t, errors.As(err, &pe))
	assert.Empty(t, pe.Layer)
}

func TestAnalyzeWritesProgress(t *testing.T) {
	var buf bytes.Buffer
	p := newPipeline(t, Config{Store: &memStore{}, Progress: &buf})

	_, err := p.Analyze("cometa")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `analyzing "cometa"`)
	assert.Contains(t, out, "layer theological_layer ok")
	assert.Contains(t, out, "analysis complete (4 layers)")
}

func TestAnalyzeReturnsSavedValue(t *testing.T) {
	store := &memStore{}
	p := newPipeline(t, Config{Store: store})

	got, err := p.Analyze("q")
	require.NoError(t, err)
	require.Len(t, store.saved, 1)
	assert.Same(t, got, store.saved[0])
}

func TestStageOfUnrelatedError(t *testing.T) {
	assert.Empty(t, Stage(errors.New("other")))
	assert.Empty(t, FailedLayer(errors.New("other")))
}
