package normalizer

import "strings"

// Performance is the three-way classification of an aspect against its baseline.
type Performance string

const (
	Strength Performance = "strength"
	Adequate Performance = "adequate"
	Weakness Performance = "weakness"
)

// ParsePerformance accepts a caller-supplied label. Anything other than the
// three known values is rejected.
func ParsePerformance(s string) (Performance, bool) {
	switch p := Performance(strings.ToLower(strings.TrimSpace(s))); p {
	case Strength, Adequate, Weakness:
		return p, true
	}
	return "", false
}

// Bucket is one of the five satisfaction bands used to colour scatter points.
type Bucket string

const (
	HighlySatisfied  Bucket = "Highly Satisfied (4.5-5.0)"
	Satisfied        Bucket = "Satisfied (3.5-4.4)"
	Neutral          Bucket = "Neutral (2.5-3.4)"
	Dissatisfied     Bucket = "Dissatisfied (1.5-2.4)"
	VeryDissatisfied Bucket = "Very Dissatisfied (1.0-1.4)"
)

// AspectRecord is one rated dimension of an event compared with a baseline.
type AspectRecord struct {
	Aspect        string      `json:"aspect"`
	Value         float64     `json:"value"`
	Baseline      float64     `json:"baseline"`
	Difference    float64     `json:"difference"`
	AbsDifference float64     `json:"abs_difference"`
	Percentage    float64     `json:"percentage"`
	Performance   Performance `json:"performance"`
}

// PointRecord is one response's pair of correlated measurements. XDisplay and
// YDisplay are for plotting only.
type PointRecord struct {
	Name     string  `json:"name"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	XDisplay float64 `json:"x_display"`
	YDisplay float64 `json:"y_display"`
	Bucket   Bucket  `json:"bucket"`
}

// PointGroup holds the points of one bucket in input order.
type PointGroup struct {
	Bucket Bucket        `json:"bucket"`
	Points []PointRecord `json:"points"`
}
