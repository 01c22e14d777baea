package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/godilite/feedback-metrics/internal/normalizer"
)

const (
	defaultMaxTokens   = 2048
	defaultTemperature = 0.4
)

const (
	aspectSystemPrompt    = `You are an event-feedback analyst. You receive per-aspect ratings on a 1-5 scale, each compared with the event's overall satisfaction. Respond ONLY with a JSON object.`
	sessionSystemPrompt   = `You are an event-programming analyst. You receive sessions with attendance counts and 1-5 satisfaction ratings, grouped into quadrants. Respond ONLY with a JSON object.`
	marketingSystemPrompt = `You are an event-marketing analyst. You receive discovery channels with attendee counts, 1-5 satisfaction ratings and effectiveness scores. Respond ONLY with a JSON object.`
)

var (
	sessionFields = []string{
		"key_insights: array of 3-5 observations about session performance",
		"star_sessions: array of sessions to repeat and why",
		"improvement_areas: array of 2-4 sessions or formats needing changes",
		"programming_recommendations: array of 3-5 specific actions for the next event",
	}
	marketingFields = []string{
		"key_insights: array of 3-5 observations about channel performance",
		"top_channels: array of the most effective channels and why",
		"underperforming_channels: array of channels with weak reach or satisfaction",
		"budget_recommendations: array of 3-5 specific budget allocation actions",
	}
)

// Insights is the model's JSON object, passed through unchanged.
type Insights map[string]any

type aspectInput struct {
	Aspect      string  `json:"aspect"`
	Value       float64 `json:"value"`
	Difference  float64 `json:"difference"`
	Performance string  `json:"performance"`
}

type aspectSummary struct {
	OverallSatisfaction float64       `json:"overall_satisfaction"`
	Aspects             []aspectInput `json:"aspects"`
}

type Generator struct {
	provider string
	model    string
	logger   *zap.Logger
}

func NewGenerator(provider, model string, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		provider: provider,
		model:    model,
		logger:   logger.Named("insights"),
	}
}

// AspectInsights asks the provider for strengths, weaknesses and
// recommendations derived from a ranked aspect report.
func (g *Generator) AspectInsights(ctx context.Context, report normalizer.AspectReport) (Insights, error) {
	prompt, err := buildAspectPrompt(report)
	if err != nil {
		return nil, err
	}
	return g.generate(ctx, "aspect", aspectSystemPrompt, prompt, len(report.Records))
}

// SessionInsights asks the provider to read a session performance matrix:
// per-session attendance and satisfaction plus quadrant counts.
func (g *Generator) SessionInsights(ctx context.Context, matrix normalizer.Payload) (Insights, error) {
	obj, _ := matrix.(map[string]any)
	summary := map[string]any{
		"sessions":  obj["sessions"],
		"quadrants": orEmpty(obj["quadrants"]),
		"stats":     orEmpty(obj["stats"]),
	}
	prompt, err := buildSectionPrompt(
		"Analyze this session performance matrix. Sessions are split into quadrants by median attendance and median satisfaction.",
		"Session performance data", summary, sessionFields)
	if err != nil {
		return nil, err
	}
	return g.generate(ctx, "session", sessionSystemPrompt, prompt, countItems(obj["sessions"]))
}

// MarketingInsights asks the provider to compare discovery channels by reach
// and satisfaction.
func (g *Generator) MarketingInsights(ctx context.Context, channels normalizer.Payload) (Insights, error) {
	obj, _ := channels.(map[string]any)
	summary := map[string]any{
		"channels": obj["channels"],
		"stats":    orEmpty(obj["stats"]),
	}
	prompt, err := buildSectionPrompt(
		"Analyze how attendees discovered this event and how satisfied each channel's attendees were.",
		"Discovery channel data", summary, marketingFields)
	if err != nil {
		return nil, err
	}
	return g.generate(ctx, "marketing", marketingSystemPrompt, prompt, countItems(obj["channels"]))
}

func (g *Generator) generate(ctx context.Context, kind, systemPrompt, prompt string, items int) (Insights, error) {
	provider, err := NewProvider(g.provider, g.model)
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}

	raw, err := provider.Complete(ctx, systemPrompt, prompt, defaultMaxTokens, defaultTemperature)
	if err != nil {
		return nil, fmt.Errorf("complete: %w", err)
	}

	out, err := parseInsights(raw)
	if err != nil {
		g.logger.Warn("unparseable model response",
			zap.String("kind", kind),
			zap.String("provider", g.provider),
			zap.Int("length", len(raw)))
		return nil, err
	}

	g.logger.Info("insights generated",
		zap.String("kind", kind),
		zap.String("provider", g.provider),
		zap.Int("items", items))
	return out, nil
}

func buildAspectPrompt(report normalizer.AspectReport) (string, error) {
	summary := aspectSummary{
		OverallSatisfaction: report.OverallSatisfaction,
		Aspects:             make([]aspectInput, 0, len(report.Records)),
	}
	for _, r := range report.Records {
		summary.Aspects = append(summary.Aspects, aspectInput{
			Aspect:      r.Aspect,
			Value:       r.Value,
			Difference:  r.Difference,
			Performance: string(r.Performance),
		})
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal aspect summary: %w", err)
	}

	var b strings.Builder
	b.WriteString("Analyze which event aspects are strengths and which are weaknesses.\n\n")
	b.WriteString("Aspect performance data:\n")
	b.Write(data)
	b.WriteString("\n\nReturn JSON with these fields:\n")
	b.WriteString("1. key_insights: array of 3-5 observations about aspect performance\n")
	b.WriteString("2. improvement_recommendations: array of 3-5 specific actions for weak aspects\n")
	b.WriteString("3. quick_wins: array of 2-3 easy improvements\n")
	b.WriteString("4. strategic_priorities: array of 2-3 longer term focus areas\n")
	return b.String(), nil
}

func buildSectionPrompt(intro, label string, summary any, fields []string) (string, error) {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", strings.ToLower(label), err)
	}

	var b strings.Builder
	b.WriteString(intro)
	b.WriteString("\n\n")
	b.WriteString(label)
	b.WriteString(":\n")
	b.Write(data)
	b.WriteString("\n\nReturn JSON with these fields:\n")
	for i, f := range fields {
		fmt.Fprintf(&b, "%d. %s\n", i+1, f)
	}
	return b.String(), nil
}

func orEmpty(v any) any {
	if v == nil {
		return map[string]any{}
	}
	return v
}

func countItems(v any) int {
	items, _ := v.([]any)
	return len(items)
}

var fenceRe = regexp.MustCompile("(?s)^(?:`{3}|~{3})[^\\n]*\\n(.*?)(?:`{3}|~{3})\\s*$")

func stripMarkdownFences(s string) string {
	s = strings.TrimSpace(s)
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return s
}

func parseInsights(raw string) (Insights, error) {
	cleaned := stripMarkdownFences(raw)
	if cleaned == "" {
		return nil, ErrEmptyResponse
	}
	var out Insights
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return nil, fmt.Errorf("parse model response: %w", err)
	}
	if out == nil {
		return nil, ErrEmptyResponse
	}
	return out, nil
}
