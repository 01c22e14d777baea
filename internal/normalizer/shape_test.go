package normalizer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) Payload {
	t.Helper()
	var p Payload
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	return p
}

// TestDetect tests shape precedence
func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected ShapeTag
	}{
		{"baseline list", `{"baseline_data": []}`, BaselineList},
		{"baseline wins over detailed comparison", `{"detailed_comparison": [{"aspect": "A"}], "baseline_data": [{"aspect": "B"}]}`, BaselineList},
		{"detailed comparison", `{"detailed_comparison": [], "aspects": [], "averages": []}`, DetailedComparisonList},
		{"aspects and averages", `{"aspects": ["A"], "averages": [4], "points": []}`, AspectsAveragesParallel},
		{"aspects without averages falls through", `{"aspects": ["A"], "points": []}`, PointList},
		{"points", `{"points": [], "scatter_data": []}`, PointList},
		{"scatter legacy", `{"scatter_data": [], "categories": [], "values": []}`, ScatterLegacy},
		{"nested scatter data is not an array", `{"scatter_data": {"data": {"points": []}}}`, Empty},
		{"category value", `{"categories": ["a"], "values": [1]}`, CategoryValueParallel},
		{"categories without values", `{"categories": ["a"]}`, Empty},
		{"bare array", `[{"x": 1, "y": 2}]`, GenericArray},
		{"empty array", `[]`, GenericArray},
		{"empty object", `{}`, Empty},
		{"null baseline data", `{"baseline_data": null}`, Empty},
		{"baseline data is an object", `{"baseline_data": {"aspect": "A"}}`, Empty},
		{"scalar", `42`, Empty},
		{"null", `null`, Empty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Detect(decode(t, tt.payload)))
		})
	}

	t.Run("go typed slices", func(t *testing.T) {
		p := map[string]any{
			"aspects":  []string{"Venue"},
			"averages": []float64{4.2},
		}
		assert.Equal(t, AspectsAveragesParallel, Detect(p))
	})

	t.Run("nil map", func(t *testing.T) {
		var m map[string]any
		assert.Equal(t, Empty, Detect(m))
	})
}

func TestShapeTagString(t *testing.T) {
	assert.Equal(t, "BaselineList", BaselineList.String())
	assert.Equal(t, "GenericArray", GenericArray.String())
	assert.Equal(t, "Empty", ShapeTag(99).String())

	for tag := range shapeNames {
		got, ok := ParseShapeTag(tag.String())
		assert.True(t, ok)
		assert.Equal(t, tag, got)
	}
	_, ok := ParseShapeTag("Spiral")
	assert.False(t, ok)
}

// TestSection tests envelope unwrapping of backend responses
func TestSection(t *testing.T) {
	payload := decode(t, `{
		"ratings": {"data": {"detailed_comparison": [{"aspect": "Venue", "average": 4.8}]}},
		"scatter_data": {"data": {"points": [{"x": 4, "y": 9}]}},
		"nps": {"score": 42},
		"empty": {"data": null}
	}`)

	t.Run("data envelope", func(t *testing.T) {
		assert.Equal(t, DetailedComparisonList, Detect(Section(payload, "ratings")))
	})

	t.Run("nested scatter data", func(t *testing.T) {
		assert.Equal(t, PointList, Detect(Section(payload, "scatter_data")))
	})

	t.Run("no data key returns the section itself", func(t *testing.T) {
		assert.Equal(t, map[string]any{"score": float64(42)}, Section(payload, "nps"))
	})

	t.Run("null data returns the section itself", func(t *testing.T) {
		assert.Equal(t, map[string]any{"data": nil}, Section(payload, "empty"))
	})

	t.Run("missing key", func(t *testing.T) {
		assert.Nil(t, Section(payload, "sessions"))
		assert.Equal(t, Empty, Detect(Section(payload, "sessions")))
	})

	t.Run("non-object payload", func(t *testing.T) {
		assert.Nil(t, Section([]any{1.0}, "ratings"))
	})
}

func TestNumber(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
		ok   bool
	}{
		{"float", 4.5, 4.5, true},
		{"int", 3, 3, true},
		{"json number", json.Number("2.5"), 2.5, true},
		{"numeric string", " 4.2 ", 4.2, true},
		{"word", "high", 0, false},
		{"nan string", "NaN", 0, false},
		{"bool", true, 0, false},
		{"nil", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := number(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
