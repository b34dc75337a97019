// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import "github.com/pdiddy/oracle-engine/pkg/types"

// Layer names, in default registration order.
const (
	LinguisticLayer  = "language_layer"
	NumericalLayer   = "numerical_layer"
	HistoricalLayer  = "historical_layer"
	TheologicalLayer = "theological_layer"
)

// DefaultLayers returns the four built-in layers in their fixed order:
// linguistic, numerical, historical, theological. Each returns a fixed
// payload and ignores the query content.
func DefaultLayers() []Layer {
	return []Layer{
		{Name: LinguisticLayer, Run: linguistic},
		{Name: NumericalLayer, Run: numerical},
		{Name: HistoricalLayer, Run: historical},
		{Name: TheologicalLayer, Run: theological},
	}
}

// linguistic covers language structure and semantics (Hebrew/Greek/Aramaic).
func linguistic(string) (types.Payload, error) {
	return types.Payload{
		"original_languages":   []any{"Hebrew", "Greek", "Aramaic"},
		"semantic_fields":      []any{"divine_action", "covenant", "redemption"},
		"grammatical_features": []any{"tense", "mood", "voice"},
	}, nil
}

// numerical covers gematria and numerical patterns.
func numerical(string) (types.Payload, error) {
	return types.Payload{
		"gematria_values":      map[string]any{"sample": float64(26)},
		"pattern_analysis":     "Hebrew letter values",
		"numeric_significance": "Sacred numbers",
	}, nil
}

// historical covers archaeological and chronological context.
func historical(string) (types.Payload, error) {
	return types.Payload{
		"archaeological_evidence": "Cross-referenced",
		"chronological_context":   "Second Temple Period",
		"cultural_background":     "Ancient Near East",
	}, nil
}

// theological covers doctrinal concepts.
func theological(string) (types.Payload, error) {
	return types.Payload{
		"core_concepts":         []any{"covenant", "messiah", "kingdom"},
		"doctrinal_themes":      "Salvation history",
		"prophetic_fulfillment": "Cross-testament connections",
	}, nil
}
