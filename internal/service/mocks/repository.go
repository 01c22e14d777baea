package mocks

import (
	"context"
	"errors"

	"github.com/godilite/feedback-metrics/internal/repository/models"
)

// MockAnalysisRepository is a mock implementation of the AnalysisRepository interface
// for testing the service layer.
type MockAnalysisRepository struct {
	SaveAnalysisFunc func(ctx context.Context, a models.Analysis) error
	GetAnalysisFunc  func(ctx context.Context, id string) (models.Analysis, error)
	ListAnalysesFunc func(ctx context.Context, limit int) ([]models.AnalysisSummary, error)
}

func (m *MockAnalysisRepository) SaveAnalysis(ctx context.Context, a models.Analysis) error {
	if m.SaveAnalysisFunc != nil {
		return m.SaveAnalysisFunc(ctx, a)
	}
	return errors.New("SaveAnalysisFunc not implemented")
}

func (m *MockAnalysisRepository) GetAnalysis(ctx context.Context, id string) (models.Analysis, error) {
	if m.GetAnalysisFunc != nil {
		return m.GetAnalysisFunc(ctx, id)
	}
	return models.Analysis{}, errors.New("GetAnalysisFunc not implemented")
}

func (m *MockAnalysisRepository) ListAnalyses(ctx context.Context, limit int) ([]models.AnalysisSummary, error) {
	if m.ListAnalysesFunc != nil {
		return m.ListAnalysesFunc(ctx, limit)
	}
	return nil, errors.New("ListAnalysesFunc not implemented")
}
