package grpc

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/godilite/feedback-metrics/internal/insights"
	"github.com/godilite/feedback-metrics/internal/normalizer"
	"github.com/godilite/feedback-metrics/internal/service"
)

const (
	defaultCacheDuration = 10 * time.Minute
	defaultGRPCTimeout   = 10 * time.Second
	// insight calls go to an external model and get a longer budget
	insightGRPCTimeout = 60 * time.Second
)

type CacheKeyType string

const (
	cacheKeyAspectComparison  CacheKeyType = "grpc:aspect_comparison"
	cacheKeyAspectInsights    CacheKeyType = "grpc:aspect_insights"
	cacheKeySessionInsights   CacheKeyType = "grpc:session_insights"
	cacheKeyMarketingInsights CacheKeyType = "grpc:marketing_insights"
)

type GRPCHandlers struct {
	dashboard DashboardService
	cache     Cacher
	logger    *zap.Logger
	sfGroup   singleflight.Group
	cacheTTL  time.Duration
}

var _ FeedbackMetricsServer = (*GRPCHandlers)(nil)

// NewGRPCHandlers initializes the gRPC handlers.
func NewGRPCHandlers(dashboard DashboardService, cache Cacher, logger *zap.Logger, ttl time.Duration) *GRPCHandlers {
	if dashboard == nil {
		panic("nil DashboardService provided to NewGRPCHandlers")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = defaultCacheDuration
	}
	return &GRPCHandlers{
		dashboard: dashboard,
		cache:     cache,
		logger:    logger.Named("grpc-handler"),
		cacheTTL:  ttl,
	}
}

type analysisRef struct {
	id      string
	section string
}

func (s *GRPCHandlers) parseAnalysisRef(req *structpb.Struct) (analysisRef, error) {
	fields := req.GetFields()
	id := strings.TrimSpace(fields["analysis_id"].GetStringValue())
	if id == "" {
		return analysisRef{}, status.Error(codes.InvalidArgument, "analysis_id is required")
	}
	return analysisRef{
		id:      id,
		section: strings.TrimSpace(fields["section"].GetStringValue()),
	}, nil
}

// inlinePayload returns the request's payload, narrowed to section when one is given.
func (s *GRPCHandlers) inlinePayload(req *structpb.Struct) (normalizer.Payload, error) {
	fields := req.GetFields()
	v, ok := fields["payload"]
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "payload is required")
	}
	payload := v.AsInterface()
	if section := strings.TrimSpace(fields["section"].GetStringValue()); section != "" {
		payload = normalizer.Section(payload, section)
	}
	return payload, nil
}

func normalizeKey(prefix CacheKeyType, ref analysisRef) string {
	section := ref.section
	if section == "" {
		section = "-"
	}
	return fmt.Sprintf("%s:%s:%s", prefix, ref.id, section)
}

// toStruct converts any JSON-encodable value to a Struct.
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

func (s *GRPCHandlers) handleError(ctx context.Context, op string, err error) error {
	switch ctx.Err() {
	case context.Canceled:
		s.logger.Warn("request canceled", zap.String("op", op))
		return status.Error(codes.Canceled, "request canceled")
	case context.DeadlineExceeded:
		s.logger.Warn("request timeout", zap.String("op", op))
		return status.Error(codes.DeadlineExceeded, "request timed out")
	}

	switch {
	case errors.Is(err, service.ErrAnalysisNotFound):
		s.logger.Info("analysis not found", zap.String("op", op))
		return status.Error(codes.NotFound, "analysis not found")
	case errors.Is(err, service.ErrNoData):
		s.logger.Info("no data for analysis", zap.String("op", op))
		return status.Error(codes.FailedPrecondition, "no data available")
	case errors.Is(err, service.ErrInvalidUpload):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrBackendFailure):
		s.logger.Warn("analysis backend failure", zap.String("op", op), zap.Error(err))
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, service.ErrInsightFailure):
		s.logger.Warn("insight failure", zap.String("op", op), zap.Error(err))
		return status.Error(codes.Unavailable, "failed to generate insights")
	case errors.Is(err, service.ErrStorageFailure):
		s.logger.Error("storage failure", zap.String("op", op), zap.Error(err))
		return status.Error(codes.Internal, "database error")
	default:
		s.logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		return status.Errorf(codes.Internal, "%s failed: %v", op, err)
	}
}

func (s *GRPCHandlers) UploadFeedback(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	filename := strings.TrimSpace(fields["filename"].GetStringValue())
	if filename == "" {
		return nil, status.Error(codes.InvalidArgument, "filename is required")
	}
	content, err := base64.StdEncoding.DecodeString(fields["content"].GetStringValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "content must be base64 encoded")
	}

	res, err := s.dashboard.IngestUpload(ctx, filename, content)
	if err != nil {
		return nil, s.handleError(ctx, "UploadFeedback", err)
	}

	return toStruct(map[string]any{
		"success":     true,
		"analysis_id": res.AnalysisID,
		"message":     res.Message,
	})
}

func (s *GRPCHandlers) ListAnalyses(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	limit := int(req.GetFields()["limit"].GetNumberValue())
	if limit < 0 {
		return nil, status.Error(codes.InvalidArgument, "limit must not be negative")
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	items, err := s.dashboard.ListAnalyses(ctx, limit)
	if err != nil {
		return nil, s.handleError(ctx, "ListAnalyses", err)
	}

	return toStruct(map[string]any{"analyses": items})
}

func (s *GRPCHandlers) DetectShape(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	payload, err := s.inlinePayload(req)
	if err != nil {
		return nil, err
	}

	shape := s.dashboard.DetectShape(payload)
	return toStruct(map[string]any{
		"shape":        shape.String(),
		"aspect_shape": shape.IsAspectShape(),
		"point_shape":  shape.IsPointShape(),
	})
}

func (s *GRPCHandlers) NormalizeAspects(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	payload, err := s.inlinePayload(req)
	if err != nil {
		return nil, err
	}
	return toStruct(s.dashboard.NormalizeAspects(payload))
}

func (s *GRPCHandlers) NormalizePoints(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	payload, err := s.inlinePayload(req)
	if err != nil {
		return nil, err
	}
	return toStruct(s.dashboard.NormalizePoints(payload))
}

func (s *GRPCHandlers) GetAspectComparison(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ref, err := s.parseAnalysisRef(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	cacheKey := normalizeKey(cacheKeyAspectComparison, ref)

	report, err := FindAndCache(ctx, s.cache, &s.sfGroup, cacheKey, s.cacheTTL, s.logger, func(fetchCtx context.Context) (normalizer.AspectReport, error) {
		return s.dashboard.AspectComparison(fetchCtx, ref.id, ref.section)
	})
	if err != nil {
		return nil, s.handleError(ctx, "GetAspectComparison", err)
	}

	return toStruct(report)
}

// GetPointGroups is not cached: every call draws fresh jitter.
func (s *GRPCHandlers) GetPointGroups(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ref, err := s.parseAnalysisRef(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	report, err := s.dashboard.PointGroups(ctx, ref.id, ref.section)
	if err != nil {
		return nil, s.handleError(ctx, "GetPointGroups", err)
	}

	return toStruct(report)
}

func (s *GRPCHandlers) GetAspectInsights(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.insightsResponse(ctx, req, "GetAspectInsights", cacheKeyAspectInsights, s.dashboard.AspectInsights)
}

func (s *GRPCHandlers) GetSessionInsights(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.insightsResponse(ctx, req, "GetSessionInsights", cacheKeySessionInsights, s.dashboard.SessionInsights)
}

func (s *GRPCHandlers) GetMarketingInsights(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.insightsResponse(ctx, req, "GetMarketingInsights", cacheKeyMarketingInsights, s.dashboard.MarketingInsights)
}

// insightsResponse caches model output once per TTL. Hits never refresh, so
// the provider is called at most once per key and TTL.
func (s *GRPCHandlers) insightsResponse(
	ctx context.Context,
	req *structpb.Struct,
	method string,
	keyType CacheKeyType,
	generate func(ctx context.Context, id, section string) (insights.Insights, error),
) (*structpb.Struct, error) {
	ref, err := s.parseAnalysisRef(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, insightGRPCTimeout)
	defer cancel()

	cacheKey := normalizeKey(keyType, ref)

	out, err := FindAndCacheOnce(ctx, s.cache, &s.sfGroup, cacheKey, s.cacheTTL, s.logger, func(fetchCtx context.Context) (insights.Insights, error) {
		return generate(fetchCtx, ref.id, ref.section)
	})
	if err != nil {
		return nil, s.handleError(ctx, method, err)
	}

	return toStruct(map[string]any{"success": true, "insights": out})
}
