package insights

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/godilite/feedback-metrics/internal/normalizer"
)

type mockProvider struct {
	response   string
	err        error
	lastSystem string
	lastPrompt string
	calls      int
}

func (m *mockProvider) Complete(_ context.Context, systemPrompt, userPrompt string, _ int, _ float64) (string, error) {
	m.calls++
	m.lastSystem = systemPrompt
	m.lastPrompt = userPrompt
	return m.response, m.err
}

func installMock(t *testing.T, mp *mockProvider) {
	t.Helper()
	orig := NewProvider
	NewProvider = func(_, _ string) (Provider, error) { return mp, nil }
	t.Cleanup(func() { NewProvider = orig })
}

func sampleReport() normalizer.AspectReport {
	return normalizer.AspectReport{
		OverallSatisfaction: 4.0,
		Records: []normalizer.AspectRecord{
			{Aspect: "Venue", Value: 4.8, Baseline: 4.0, Difference: 0.8, Performance: normalizer.Strength},
			{Aspect: "Food", Value: 3.1, Baseline: 4.0, Difference: -0.9, Performance: normalizer.Weakness},
		},
	}
}

func TestAspectInsights(t *testing.T) {
	t.Run("plain json", func(t *testing.T) {
		mp := &mockProvider{response: `{"key_insights": ["Venue leads"], "quick_wins": ["More snacks"]}`}
		installMock(t, mp)

		g := NewGenerator("gemini", "", zaptest.NewLogger(t))
		out, err := g.AspectInsights(context.Background(), sampleReport())

		require.NoError(t, err)
		assert.Equal(t, []any{"Venue leads"}, out["key_insights"])
		assert.Equal(t, 1, mp.calls)
		assert.Contains(t, mp.lastPrompt, `"aspect": "Venue"`)
		assert.Contains(t, mp.lastPrompt, `"performance": "weakness"`)
		assert.Contains(t, mp.lastPrompt, `"overall_satisfaction": 4`)
	})

	t.Run("fenced json", func(t *testing.T) {
		installMock(t, &mockProvider{response: "```json\n{\"strategic_priorities\": [\"Catering\"]}\n```"})

		out, err := NewGenerator("openai", "", nil).AspectInsights(context.Background(), sampleReport())
		require.NoError(t, err)
		assert.Equal(t, []any{"Catering"}, out["strategic_priorities"])
	})

	t.Run("provider failure", func(t *testing.T) {
		installMock(t, &mockProvider{err: errors.New("quota exceeded")})

		_, err := NewGenerator("gemini", "", nil).AspectInsights(context.Background(), sampleReport())
		assert.ErrorContains(t, err, "quota exceeded")
	})

	t.Run("unparseable response", func(t *testing.T) {
		installMock(t, &mockProvider{response: "Here are some thoughts"})

		_, err := NewGenerator("gemini", "", nil).AspectInsights(context.Background(), sampleReport())
		assert.ErrorContains(t, err, "parse model response")
	})

	t.Run("empty response", func(t *testing.T) {
		installMock(t, &mockProvider{response: "  "})

		_, err := NewGenerator("gemini", "", nil).AspectInsights(context.Background(), sampleReport())
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})

	t.Run("null response", func(t *testing.T) {
		installMock(t, &mockProvider{response: "null"})

		_, err := NewGenerator("gemini", "", nil).AspectInsights(context.Background(), sampleReport())
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})
}

// TestSessionInsights tests prompting from a session performance matrix
func TestSessionInsights(t *testing.T) {
	matrix := map[string]any{
		"sessions": []any{
			map[string]any{"session": "Keynote", "attendance": 120.0, "satisfaction": 4.6, "category": "Star"},
			map[string]any{"session": "Workshop B", "attendance": 15.0, "satisfaction": 3.1, "category": "Needs Improvement"},
		},
		"quadrants": map[string]any{"stars": 1.0, "needs_improvement": 1.0},
		"insights":  []any{"Click 'Generate AI Insights'"},
	}

	t.Run("success", func(t *testing.T) {
		mp := &mockProvider{response: `{"star_sessions": ["Keynote"]}`}
		installMock(t, mp)

		out, err := NewGenerator("gemini", "", zaptest.NewLogger(t)).SessionInsights(context.Background(), matrix)
		require.NoError(t, err)
		assert.Equal(t, []any{"Keynote"}, out["star_sessions"])
		assert.Equal(t, sessionSystemPrompt, mp.lastSystem)
		assert.Contains(t, mp.lastPrompt, `"session": "Workshop B"`)
		assert.Contains(t, mp.lastPrompt, `"stars": 1`)
		assert.Contains(t, mp.lastPrompt, `"stats": {}`)
		assert.Contains(t, mp.lastPrompt, "programming_recommendations")
		assert.NotContains(t, mp.lastPrompt, "Generate AI Insights")
	})

	t.Run("provider failure", func(t *testing.T) {
		installMock(t, &mockProvider{err: errors.New("rate limited")})

		_, err := NewGenerator("gemini", "", nil).SessionInsights(context.Background(), matrix)
		assert.ErrorContains(t, err, "rate limited")
	})
}

// TestMarketingInsights tests prompting from discovery channel data
func TestMarketingInsights(t *testing.T) {
	channels := map[string]any{
		"channels": []any{
			map[string]any{"channel": "Twitter", "count": 40.0, "avg_satisfaction": 4.3},
		},
		"stats": map[string]any{"total_channels": 1.0},
	}

	t.Run("success", func(t *testing.T) {
		mp := &mockProvider{response: "```json\n{\"budget_recommendations\": [\"More Twitter\"]}\n```"}
		installMock(t, mp)

		out, err := NewGenerator("anthropic", "", nil).MarketingInsights(context.Background(), channels)
		require.NoError(t, err)
		assert.Equal(t, []any{"More Twitter"}, out["budget_recommendations"])
		assert.Equal(t, marketingSystemPrompt, mp.lastSystem)
		assert.Contains(t, mp.lastPrompt, `"channel": "Twitter"`)
		assert.Contains(t, mp.lastPrompt, `"total_channels": 1`)
		assert.Contains(t, mp.lastPrompt, "4. budget_recommendations")
	})

	t.Run("unparseable response", func(t *testing.T) {
		installMock(t, &mockProvider{response: "Twitter is great"})

		_, err := NewGenerator("gemini", "", nil).MarketingInsights(context.Background(), channels)
		assert.ErrorContains(t, err, "parse model response")
	})
}

func TestDefaultNewProvider(t *testing.T) {
	t.Run("unknown provider", func(t *testing.T) {
		_, err := defaultNewProvider("watson", "")
		assert.ErrorIs(t, err, ErrUnknownProvider)
	})

	t.Run("missing keys", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "")
		t.Setenv("GOOGLE_API_KEY", "")
		t.Setenv("OPENAI_API_KEY", "")
		t.Setenv("ANTHROPIC_API_KEY", "")

		for _, name := range []string{"gemini", "openai", "anthropic"} {
			_, err := defaultNewProvider(name, "")
			assert.ErrorIs(t, err, ErrMissingAPIKey, name)
		}
	})

	t.Run("keys present", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "g")
		t.Setenv("OPENAI_API_KEY", "o")
		t.Setenv("ANTHROPIC_API_KEY", "a")

		for _, name := range []string{"", "Google", "openai", "anthropic"} {
			p, err := defaultNewProvider(name, "")
			assert.NoError(t, err, name)
			assert.NotNil(t, p, name)
		}
	})
}

func TestStripMarkdownFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripMarkdownFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripMarkdownFences("~~~\n{\"a\":1}\n~~~  "))
	assert.Equal(t, `{"a":1}`, stripMarkdownFences(`  {"a":1} `))
}
