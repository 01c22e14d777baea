package normalizer

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

// TestClassify tests the exclusive ±0.1 thresholds
func TestClassify(t *testing.T) {
	tests := []struct {
		diff     float64
		expected Performance
	}{
		{0.8, Strength},
		{0.1000001, Strength},
		{0.1, Adequate},
		{0, Adequate},
		{-0.1, Adequate},
		{-0.1000001, Weakness},
		{-2, Weakness},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, Classify(tt.diff), "difference %v", tt.diff)
	}
}

// TestDeriveAspect tests derived aspect fields
func TestDeriveAspect(t *testing.T) {
	t.Run("boundary difference is adequate", func(t *testing.T) {
		r := DeriveAspect(AspectRecord{Aspect: "A", Value: 4.5, Baseline: 4.4})
		assert.Equal(t, Adequate, r.Performance)
		assert.Equal(t, r.Value-r.Baseline, r.Difference)
	})

	t.Run("just above boundary is strength", func(t *testing.T) {
		r := DeriveAspect(AspectRecord{Aspect: "A", Value: 0.1000001, Baseline: 0})
		assert.Equal(t, Strength, r.Performance)
	})

	t.Run("extras", func(t *testing.T) {
		r := DeriveAspect(AspectRecord{Aspect: "A", Value: 3.0, Baseline: 4.0})
		assert.Equal(t, -1.0, r.Difference)
		assert.Equal(t, 1.0, r.AbsDifference)
		assert.InDelta(t, 60.0, r.Percentage, 1e-9)
		assert.Equal(t, Weakness, r.Performance)
	})

	t.Run("out of range ratings are clamped", func(t *testing.T) {
		r := DeriveAspect(AspectRecord{Aspect: "A", Value: 6.2, Baseline: -1})
		assert.Equal(t, 5.0, r.Value)
		assert.Equal(t, 0.0, r.Baseline)
		assert.Equal(t, 5.0, r.Difference)
	})

	t.Run("stale difference is recomputed", func(t *testing.T) {
		r := DeriveAspect(AspectRecord{Aspect: "A", Value: 4.0, Baseline: 4.0, Difference: 3, Performance: "bogus"})
		assert.Equal(t, 0.0, r.Difference)
		assert.Equal(t, Adequate, r.Performance)
	})

	t.Run("valid performance is kept", func(t *testing.T) {
		r := DeriveAspect(AspectRecord{Aspect: "A", Value: 1.0, Baseline: 4.0, Performance: Strength})
		assert.Equal(t, Strength, r.Performance)
	})
}

// TestBucketFor tests satisfaction band boundaries
func TestBucketFor(t *testing.T) {
	tests := []struct {
		x        float64
		expected Bucket
	}{
		{5.0, HighlySatisfied},
		{4.5, HighlySatisfied},
		{4.4999, Satisfied},
		{3.5, Satisfied},
		{3.4999, Neutral},
		{2.5, Neutral},
		{2.4999, Dissatisfied},
		{1.5, Dissatisfied},
		{1.4999, VeryDissatisfied},
		{1.0, VeryDissatisfied},
		{0, VeryDissatisfied},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, BucketFor(tt.x), "x=%v", tt.x)
	}
}

// TestDerivePoint tests jitter bounds and bucket independence from jitter
func TestDerivePoint(t *testing.T) {
	t.Run("extreme sources stay within radius", func(t *testing.T) {
		for _, src := range []RandomSource{fixedSource(0), fixedSource(math.Nextafter(1, 0)), fixedSource(0.5)} {
			for _, x := range []float64{1, 2, 3, 4, 4.5, 5} {
				p := DerivePoint(PointRecord{X: x, Y: x * 2}, src)
				assert.LessOrEqual(t, math.Abs(p.XDisplay-p.X), JitterRadiusX)
				assert.LessOrEqual(t, math.Abs(p.YDisplay-p.Y), JitterRadiusY)
			}
		}
	})

	t.Run("seeded source stays within radius", func(t *testing.T) {
		src := rand.New(rand.NewPCG(7, 11))
		for i := 0; i < 5000; i++ {
			x := float64(i%5) + 1
			p := DerivePoint(PointRecord{X: x, Y: float64(i % 11)}, src)
			assert.LessOrEqual(t, math.Abs(p.XDisplay-p.X), JitterRadiusX)
			assert.LessOrEqual(t, math.Abs(p.YDisplay-p.Y), JitterRadiusY)
		}
	})

	t.Run("jitter never changes the bucket", func(t *testing.T) {
		p := DerivePoint(PointRecord{X: 4.5, Y: 9}, fixedSource(0))
		assert.Less(t, p.XDisplay, 4.5)
		assert.Equal(t, HighlySatisfied, p.Bucket)
		assert.Equal(t, 4.5, p.X)
		assert.Equal(t, 9.0, p.Y)
	})

	t.Run("nil source", func(t *testing.T) {
		p := DerivePoint(PointRecord{X: 3, Y: 6}, nil)
		assert.Equal(t, 3.0, p.XDisplay)
		assert.Equal(t, 6.0, p.YDisplay)
		assert.Equal(t, Neutral, p.Bucket)
	})
}

func TestParsePerformance(t *testing.T) {
	p, ok := ParsePerformance(" STRENGTH")
	assert.True(t, ok)
	assert.Equal(t, Strength, p)

	_, ok = ParsePerformance("good")
	assert.False(t, ok)
}
