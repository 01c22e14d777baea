package service

import (
	"context"

	"github.com/godilite/feedback-metrics/internal/analyzer"
	"github.com/godilite/feedback-metrics/internal/insights"
	"github.com/godilite/feedback-metrics/internal/normalizer"
	"github.com/godilite/feedback-metrics/internal/repository/models"
)

// AnalysisRepository defines the storage operations used by the service.
type AnalysisRepository interface {
	SaveAnalysis(ctx context.Context, a models.Analysis) error
	GetAnalysis(ctx context.Context, id string) (models.Analysis, error)
	ListAnalyses(ctx context.Context, limit int) ([]models.AnalysisSummary, error)
}

// Analyzer turns an uploaded CSV into an analysis payload.
type Analyzer interface {
	Upload(ctx context.Context, filename string, content []byte) (analyzer.Result, error)
}

// InsightGenerator produces model commentary for derived or raw sections.
type InsightGenerator interface {
	AspectInsights(ctx context.Context, report normalizer.AspectReport) (insights.Insights, error)
	SessionInsights(ctx context.Context, matrix normalizer.Payload) (insights.Insights, error)
	MarketingInsights(ctx context.Context, channels normalizer.Payload) (insights.Insights, error)
}
