package service

import "time"

type AnalysisSummary struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

type UploadResult struct {
	AnalysisID string `json:"analysis_id"`
	Message    string `json:"message,omitempty"`
}
