package normalizer

import "math"

const (
	// PerformanceThreshold is the exclusive deviation beyond which an aspect
	// is a strength or a weakness.
	PerformanceThreshold = 0.1

	// JitterRadiusX and JitterRadiusY bound the display offset of a point.
	JitterRadiusX = 0.075
	JitterRadiusY = 0.15

	MaxRating = 5.0

	// thresholdEpsilon absorbs representation error so 3.9-4.0 is not a weakness.
	thresholdEpsilon = 1e-9

	// jitterSpan keeps |display-raw| inside the radius after float rounding.
	jitterSpan = 1 - 1e-9
)

// RandomSource supplies uniform values in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// Classify maps a deviation to a performance label. Exactly ±0.1 is adequate.
func Classify(difference float64) Performance {
	switch {
	case difference > PerformanceThreshold+thresholdEpsilon:
		return Strength
	case difference < -PerformanceThreshold-thresholdEpsilon:
		return Weakness
	default:
		return Adequate
	}
}

// BucketFor places a satisfaction score in its band. Lower edges are inclusive.
func BucketFor(x float64) Bucket {
	switch {
	case x >= 4.5:
		return HighlySatisfied
	case x >= 3.5:
		return Satisfied
	case x >= 2.5:
		return Neutral
	case x >= 1.5:
		return Dissatisfied
	default:
		return VeryDissatisfied
	}
}

func clampRating(v float64) float64 {
	return math.Max(0, math.Min(MaxRating, v))
}

// DeriveAspect recomputes every derived field of r. A valid Performance already
// on the record came from the input and is kept; otherwise it is classified.
func DeriveAspect(r AspectRecord) AspectRecord {
	r.Value = clampRating(r.Value)
	r.Baseline = clampRating(r.Baseline)
	r.Difference = r.Value - r.Baseline
	r.AbsDifference = math.Abs(r.Difference)
	r.Percentage = r.Value / MaxRating * 100

	if p, ok := ParsePerformance(string(r.Performance)); ok {
		r.Performance = p
	} else {
		r.Performance = Classify(r.Difference)
	}
	return r
}

// DerivePoint sets the bucket from the raw x and offsets the display
// coordinates using src. A nil src leaves the display coordinates unjittered.
func DerivePoint(p PointRecord, src RandomSource) PointRecord {
	p.Bucket = BucketFor(p.X)
	p.XDisplay = p.X + jitter(src, JitterRadiusX)
	p.YDisplay = p.Y + jitter(src, JitterRadiusY)
	return p
}

func jitter(src RandomSource, radius float64) float64 {
	if src == nil {
		return 0
	}
	return (2*src.Float64() - 1) * radius * jitterSpan
}
