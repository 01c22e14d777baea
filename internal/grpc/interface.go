package grpc

import (
	"context"
	"time"

	"github.com/godilite/feedback-metrics/internal/insights"
	"github.com/godilite/feedback-metrics/internal/normalizer"
	"github.com/godilite/feedback-metrics/internal/service"
)

// Cacher defines the interface for cache operations.
type Cacher interface {
	Close() error
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

type DashboardService interface {
	IngestUpload(ctx context.Context, filename string, content []byte) (service.UploadResult, error)
	ListAnalyses(ctx context.Context, limit int) ([]service.AnalysisSummary, error)
	DetectShape(payload normalizer.Payload) normalizer.ShapeTag
	NormalizeAspects(payload normalizer.Payload) normalizer.AspectReport
	NormalizePoints(payload normalizer.Payload) normalizer.PointReport
	AspectComparison(ctx context.Context, id, section string) (normalizer.AspectReport, error)
	PointGroups(ctx context.Context, id, section string) (normalizer.PointReport, error)
	AspectInsights(ctx context.Context, id, section string) (insights.Insights, error)
	SessionInsights(ctx context.Context, id, section string) (insights.Insights, error)
	MarketingInsights(ctx context.Context, id, section string) (insights.Insights, error)
}
