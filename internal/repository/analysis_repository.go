package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/godilite/feedback-metrics/internal/repository/models"
)

var ErrNotFound = errors.New("analysis not found")

// createdAtLayout is fixed width so created_at text sorts chronologically.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

const schema = `
	CREATE TABLE IF NOT EXISTS analyses (
		id TEXT PRIMARY KEY,
		filename TEXT NOT NULL,
		payload TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses (created_at);
`

// AnalysisRepository stores raw payloads. Derived records are never persisted.
type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Migrate creates the analyses table when missing.
func (r *AnalysisRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate analyses: %w", err)
	}
	return nil
}

func (r *AnalysisRepository) SaveAnalysis(ctx context.Context, a models.Analysis) error {
	const query = `
		INSERT INTO analyses (id, filename, payload, created_at)
		VALUES (?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query, a.ID, a.Filename, string(a.Payload), a.CreatedAt.UTC().Format(createdAtLayout))
	if err != nil {
		return fmt.Errorf("insert analysis %s: %w", a.ID, err)
	}
	return nil
}

func (r *AnalysisRepository) GetAnalysis(ctx context.Context, id string) (models.Analysis, error) {
	const query = `
		SELECT id, filename, payload, created_at
		FROM analyses
		WHERE id = ?
	`

	var (
		a         models.Analysis
		payload   string
		createdAt string
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Filename, &payload, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Analysis{}, ErrNotFound
		}
		return models.Analysis{}, fmt.Errorf("query GetAnalysis: %w", err)
	}

	a.Payload = []byte(payload)
	a.CreatedAt, err = time.Parse(createdAtLayout, createdAt)
	if err != nil {
		return models.Analysis{}, fmt.Errorf("parse created_at of %s: %w", id, err)
	}
	return a, nil
}

// ListAnalyses returns the newest analyses first.
func (r *AnalysisRepository) ListAnalyses(ctx context.Context, limit int) ([]models.AnalysisSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	const query = `
		SELECT id, filename, LENGTH(payload), created_at
		FROM analyses
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query ListAnalyses: %w", err)
	}
	defer rows.Close()

	var results []models.AnalysisSummary
	for rows.Next() {
		var (
			s         models.AnalysisSummary
			createdAt string
		)
		if err := rows.Scan(&s.ID, &s.Filename, &s.SizeBytes, &createdAt); err != nil {
			return nil, fmt.Errorf("scan ListAnalyses row: %w", err)
		}
		if s.CreatedAt, err = time.Parse(createdAtLayout, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at of %s: %w", s.ID, err)
		}
		results = append(results, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ListAnalyses: %w", err)
	}
	return results, nil
}
