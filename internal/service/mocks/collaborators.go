package mocks

import (
	"context"
	"errors"

	"github.com/godilite/feedback-metrics/internal/analyzer"
	"github.com/godilite/feedback-metrics/internal/insights"
	"github.com/godilite/feedback-metrics/internal/normalizer"
)

// MockAnalyzer is a mock implementation of the Analyzer interface.
type MockAnalyzer struct {
	UploadFunc func(ctx context.Context, filename string, content []byte) (analyzer.Result, error)
}

func (m *MockAnalyzer) Upload(ctx context.Context, filename string, content []byte) (analyzer.Result, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, filename, content)
	}
	return analyzer.Result{}, errors.New("UploadFunc not implemented")
}

// MockInsightGenerator is a mock implementation of the InsightGenerator interface.
type MockInsightGenerator struct {
	AspectInsightsFunc    func(ctx context.Context, report normalizer.AspectReport) (insights.Insights, error)
	SessionInsightsFunc   func(ctx context.Context, matrix normalizer.Payload) (insights.Insights, error)
	MarketingInsightsFunc func(ctx context.Context, channels normalizer.Payload) (insights.Insights, error)
}

func (m *MockInsightGenerator) AspectInsights(ctx context.Context, report normalizer.AspectReport) (insights.Insights, error) {
	if m.AspectInsightsFunc != nil {
		return m.AspectInsightsFunc(ctx, report)
	}
	return nil, errors.New("AspectInsightsFunc not implemented")
}

func (m *MockInsightGenerator) SessionInsights(ctx context.Context, matrix normalizer.Payload) (insights.Insights, error) {
	if m.SessionInsightsFunc != nil {
		return m.SessionInsightsFunc(ctx, matrix)
	}
	return nil, errors.New("SessionInsightsFunc not implemented")
}

func (m *MockInsightGenerator) MarketingInsights(ctx context.Context, channels normalizer.Payload) (insights.Insights, error) {
	if m.MarketingInsightsFunc != nil {
		return m.MarketingInsightsFunc(ctx, channels)
	}
	return nil, errors.New("MarketingInsightsFunc not implemented")
}
