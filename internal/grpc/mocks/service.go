package mocks

import (
	"context"
	"errors"

	"github.com/godilite/feedback-metrics/internal/insights"
	"github.com/godilite/feedback-metrics/internal/normalizer"
	"github.com/godilite/feedback-metrics/internal/service"
)

// MockDashboardService is a mock implementation of the DashboardService interface
// for testing the handler layer. It uses function-based mocking for flexibility.
// The inline operations fall back to the real normalizer when no func is set.
type MockDashboardService struct {
	IngestUploadFunc      func(ctx context.Context, filename string, content []byte) (service.UploadResult, error)
	ListAnalysesFunc      func(ctx context.Context, limit int) ([]service.AnalysisSummary, error)
	DetectShapeFunc       func(payload normalizer.Payload) normalizer.ShapeTag
	NormalizeAspectsFunc  func(payload normalizer.Payload) normalizer.AspectReport
	NormalizePointsFunc   func(payload normalizer.Payload) normalizer.PointReport
	AspectComparisonFunc  func(ctx context.Context, id, section string) (normalizer.AspectReport, error)
	PointGroupsFunc       func(ctx context.Context, id, section string) (normalizer.PointReport, error)
	AspectInsightsFunc    func(ctx context.Context, id, section string) (insights.Insights, error)
	SessionInsightsFunc   func(ctx context.Context, id, section string) (insights.Insights, error)
	MarketingInsightsFunc func(ctx context.Context, id, section string) (insights.Insights, error)
}

func (m *MockDashboardService) IngestUpload(ctx context.Context, filename string, content []byte) (service.UploadResult, error) {
	if m.IngestUploadFunc != nil {
		return m.IngestUploadFunc(ctx, filename, content)
	}
	return service.UploadResult{}, errors.New("IngestUploadFunc not implemented")
}

func (m *MockDashboardService) ListAnalyses(ctx context.Context, limit int) ([]service.AnalysisSummary, error) {
	if m.ListAnalysesFunc != nil {
		return m.ListAnalysesFunc(ctx, limit)
	}
	return nil, errors.New("ListAnalysesFunc not implemented")
}

func (m *MockDashboardService) DetectShape(payload normalizer.Payload) normalizer.ShapeTag {
	if m.DetectShapeFunc != nil {
		return m.DetectShapeFunc(payload)
	}
	return normalizer.Detect(payload)
}

func (m *MockDashboardService) NormalizeAspects(payload normalizer.Payload) normalizer.AspectReport {
	if m.NormalizeAspectsFunc != nil {
		return m.NormalizeAspectsFunc(payload)
	}
	return normalizer.New(normalizer.WithSeed(1)).Aspects(payload)
}

func (m *MockDashboardService) NormalizePoints(payload normalizer.Payload) normalizer.PointReport {
	if m.NormalizePointsFunc != nil {
		return m.NormalizePointsFunc(payload)
	}
	return normalizer.New(normalizer.WithSeed(1)).Points(payload)
}

func (m *MockDashboardService) AspectComparison(ctx context.Context, id, section string) (normalizer.AspectReport, error) {
	if m.AspectComparisonFunc != nil {
		return m.AspectComparisonFunc(ctx, id, section)
	}
	return normalizer.AspectReport{}, errors.New("AspectComparisonFunc not implemented")
}

func (m *MockDashboardService) PointGroups(ctx context.Context, id, section string) (normalizer.PointReport, error) {
	if m.PointGroupsFunc != nil {
		return m.PointGroupsFunc(ctx, id, section)
	}
	return normalizer.PointReport{}, errors.New("PointGroupsFunc not implemented")
}

func (m *MockDashboardService) AspectInsights(ctx context.Context, id, section string) (insights.Insights, error) {
	if m.AspectInsightsFunc != nil {
		return m.AspectInsightsFunc(ctx, id, section)
	}
	return nil, errors.New("AspectInsightsFunc not implemented")
}

func (m *MockDashboardService) SessionInsights(ctx context.Context, id, section string) (insights.Insights, error) {
	if m.SessionInsightsFunc != nil {
		return m.SessionInsightsFunc(ctx, id, section)
	}
	return nil, errors.New("SessionInsightsFunc not implemented")
}

func (m *MockDashboardService) MarketingInsights(ctx context.Context, id, section string) (insights.Insights, error) {
	if m.MarketingInsightsFunc != nil {
		return m.MarketingInsightsFunc(ctx, id, section)
	}
	return nil, errors.New("MarketingInsightsFunc not implemented")
}
