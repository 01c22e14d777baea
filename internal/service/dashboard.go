package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/godilite/feedback-metrics/internal/config"
	"github.com/godilite/feedback-metrics/internal/insights"
	"github.com/godilite/feedback-metrics/internal/normalizer"
	"github.com/godilite/feedback-metrics/internal/repository"
	"github.com/godilite/feedback-metrics/internal/repository/models"
)

const (
	dbTimeout       = 1 * time.Second
	defaultPageSize = 50

	DefaultSessionSection   = "session_matrix"
	DefaultMarketingSection = "discovery_channels"
)

var (
	ErrAnalysisNotFound = errors.New("analysis not found")
	ErrStorageFailure   = errors.New("storage failure")
	ErrInvalidUpload    = errors.New("invalid upload")
	ErrBackendFailure   = errors.New("analysis backend failure")
	ErrInsightFailure   = errors.New("insight generation failed")
	ErrNoData           = errors.New("no data available")
)

type Dependencies struct {
	Repository     AnalysisRepository
	Analyzer       Analyzer
	Insights       InsightGenerator
	Normalizer     *normalizer.Normalizer
	Logger         *zap.Logger
	MaxUploadBytes int64
}

// DashboardService serves normalized chart data for uploaded feedback analyses.
type DashboardService struct {
	storage        AnalysisRepository
	analyzer       Analyzer
	insights       InsightGenerator
	normalizer     *normalizer.Normalizer
	logger         *zap.Logger
	maxUploadBytes int64
	now            func() time.Time
	newID          func() string
}

// NewDashboardService creates a new DashboardService instance.
func NewDashboardService(deps Dependencies) *DashboardService {
	if deps.Repository == nil {
		panic("repository must not be nil")
	}
	if deps.Logger == nil {
		l, _ := zap.NewProduction()
		deps.Logger = l
	}
	if deps.Normalizer == nil {
		deps.Normalizer = normalizer.New(normalizer.WithLogger(deps.Logger))
	}
	if deps.MaxUploadBytes <= 0 {
		deps.MaxUploadBytes = config.DefaultUploadMaxBytes
	}
	return &DashboardService{
		storage:        deps.Repository,
		analyzer:       deps.Analyzer,
		insights:       deps.Insights,
		normalizer:     deps.Normalizer,
		logger:         deps.Logger.Named("dashboard"),
		maxUploadBytes: deps.MaxUploadBytes,
		now:            time.Now,
		newID:          uuid.NewString,
	}
}

// ValidateUpload checks a CSV upload before it is sent to the backend.
func (s *DashboardService) ValidateUpload(filename string, content []byte) error {
	if strings.TrimSpace(filename) == "" {
		return fmt.Errorf("%w: no file selected", ErrInvalidUpload)
	}
	if !strings.EqualFold(filepath.Ext(filename), ".csv") {
		return fmt.Errorf("%w: file must be a CSV", ErrInvalidUpload)
	}
	if len(content) == 0 {
		return fmt.Errorf("%w: file is empty", ErrInvalidUpload)
	}
	if int64(len(content)) > s.maxUploadBytes {
		return fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidUpload, s.maxUploadBytes)
	}

	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("%w: invalid CSV format: %v", ErrInvalidUpload, err)
	}
	if len(header) == 0 || strings.TrimSpace(strings.Join(header, "")) == "" {
		return fmt.Errorf("%w: CSV header is empty", ErrInvalidUpload)
	}
	return nil
}

// IngestUpload validates a CSV, forwards it to the analysis backend and
// stores the returned payload under a new analysis ID.
func (s *DashboardService) IngestUpload(ctx context.Context, filename string, content []byte) (UploadResult, error) {
	if err := s.ValidateUpload(filename, content); err != nil {
		return UploadResult{}, err
	}
	if s.analyzer == nil {
		return UploadResult{}, fmt.Errorf("%w: analyzer not configured", ErrBackendFailure)
	}

	res, err := s.analyzer.Upload(ctx, filepath.Base(filename), content)
	if err != nil {
		return UploadResult{}, fmt.Errorf("%w: %v", ErrBackendFailure, err)
	}

	analysis := models.Analysis{
		ID:        s.newID(),
		Filename:  filepath.Base(filename),
		Payload:   res.Payload,
		CreatedAt: s.now(),
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if err := s.storage.SaveAnalysis(dbCtx, analysis); err != nil {
		return UploadResult{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.logger.Info("analysis stored",
		zap.String("id", analysis.ID),
		zap.String("filename", analysis.Filename),
		zap.Int("payload_bytes", len(analysis.Payload)))

	return UploadResult{AnalysisID: analysis.ID, Message: res.Message}, nil
}

// ListAnalyses returns the most recent uploads.
func (s *DashboardService) ListAnalyses(ctx context.Context, limit int) ([]AnalysisSummary, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.storage.ListAnalyses(dbCtx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	out := make([]AnalysisSummary, len(rows))
	for i, r := range rows {
		out[i] = AnalysisSummary{
			ID:        r.ID,
			Filename:  r.Filename,
			SizeBytes: r.SizeBytes,
			CreatedAt: r.CreatedAt,
		}
	}
	return out, nil
}

// DetectShape classifies an inline payload.
func (s *DashboardService) DetectShape(payload normalizer.Payload) normalizer.ShapeTag {
	return normalizer.Detect(payload)
}

// NormalizeAspects runs the aspect pipeline over an inline payload.
func (s *DashboardService) NormalizeAspects(payload normalizer.Payload) normalizer.AspectReport {
	return s.normalizer.Aspects(payload)
}

// NormalizePoints runs the point pipeline over an inline payload.
func (s *DashboardService) NormalizePoints(payload normalizer.Payload) normalizer.PointReport {
	return s.normalizer.Points(payload)
}

// AspectComparison normalizes one section of a stored analysis.
func (s *DashboardService) AspectComparison(ctx context.Context, id, section string) (normalizer.AspectReport, error) {
	payload, err := s.loadSection(ctx, id, section)
	if err != nil {
		return normalizer.AspectReport{}, err
	}
	return s.normalizer.Aspects(payload), nil
}

// PointGroups normalizes and groups one section of a stored analysis.
func (s *DashboardService) PointGroups(ctx context.Context, id, section string) (normalizer.PointReport, error) {
	payload, err := s.loadSection(ctx, id, section)
	if err != nil {
		return normalizer.PointReport{}, err
	}
	return s.normalizer.Points(payload), nil
}

// AspectInsights generates AI commentary for one section of a stored analysis.
func (s *DashboardService) AspectInsights(ctx context.Context, id, section string) (insights.Insights, error) {
	report, err := s.AspectComparison(ctx, id, section)
	if err != nil {
		return nil, err
	}
	if len(report.Records) == 0 {
		return nil, ErrNoData
	}
	if s.insights == nil {
		return nil, fmt.Errorf("%w: insight provider not configured", ErrInsightFailure)
	}

	out, err := s.insights.AspectInsights(ctx, report)
	if err != nil {
		s.logger.Warn("insight generation failed",
			zap.String("id", id),
			zap.String("section", section),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrInsightFailure, err)
	}
	return out, nil
}

// SessionInsights generates AI commentary for a stored session performance
// matrix. An empty section reads the backend's "session_matrix" key.
func (s *DashboardService) SessionInsights(ctx context.Context, id, section string) (insights.Insights, error) {
	if section == "" {
		section = DefaultSessionSection
	}
	return s.sectionInsights(ctx, id, section, "sessions", func(g InsightGenerator, p normalizer.Payload) (insights.Insights, error) {
		return g.SessionInsights(ctx, p)
	})
}

// MarketingInsights generates AI commentary for stored discovery channel
// data. An empty section reads the backend's "discovery_channels" key.
func (s *DashboardService) MarketingInsights(ctx context.Context, id, section string) (insights.Insights, error) {
	if section == "" {
		section = DefaultMarketingSection
	}
	return s.sectionInsights(ctx, id, section, "channels", func(g InsightGenerator, p normalizer.Payload) (insights.Insights, error) {
		return g.MarketingInsights(ctx, p)
	})
}

// sectionInsights loads a raw section, requires a non-empty array under
// listKey and hands the section to generate.
func (s *DashboardService) sectionInsights(
	ctx context.Context,
	id, section, listKey string,
	generate func(InsightGenerator, normalizer.Payload) (insights.Insights, error),
) (insights.Insights, error) {
	payload, err := s.loadSection(ctx, id, section)
	if err != nil {
		return nil, err
	}
	obj, _ := payload.(map[string]any)
	if items, _ := obj[listKey].([]any); len(items) == 0 {
		return nil, ErrNoData
	}
	if s.insights == nil {
		return nil, fmt.Errorf("%w: insight provider not configured", ErrInsightFailure)
	}

	out, err := generate(s.insights, payload)
	if err != nil {
		s.logger.Warn("insight generation failed",
			zap.String("id", id),
			zap.String("section", section),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrInsightFailure, err)
	}
	return out, nil
}

func (s *DashboardService) loadSection(ctx context.Context, id, section string) (normalizer.Payload, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	analysis, err := s.storage.GetAnalysis(dbCtx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	var payload normalizer.Payload
	if err := json.Unmarshal(analysis.Payload, &payload); err != nil {
		s.logger.Error("stored payload is not valid JSON", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("%w: decode payload %s: %v", ErrStorageFailure, id, err)
	}

	if section == "" {
		return payload, nil
	}
	return normalizer.Section(payload, section), nil
}
