package models

import "time"

// Analysis is a raw analysis payload as returned by the backend for one upload.
type Analysis struct {
	ID        string
	Filename  string
	Payload   []byte
	CreatedAt time.Time
}

type AnalysisSummary struct {
	ID        string
	Filename  string
	SizeBytes int64
	CreatedAt time.Time
}
