package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func aspectNames(records []AspectRecord) []string {
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Aspect
	}
	return names
}

// TestRankAspects tests descending, stable ordering
func TestRankAspects(t *testing.T) {
	t.Run("best first", func(t *testing.T) {
		in := []AspectRecord{
			{Aspect: "Low", Difference: -0.5},
			{Aspect: "High", Difference: 0.9},
			{Aspect: "Mid", Difference: 0.1},
		}
		assert.Equal(t, []string{"High", "Mid", "Low"}, aspectNames(RankAspects(in)))
	})

	t.Run("ties keep input order", func(t *testing.T) {
		in := []AspectRecord{
			{Aspect: "First", Difference: 0.3},
			{Aspect: "Top", Difference: 1.0},
			{Aspect: "Second", Difference: 0.3},
			{Aspect: "Third", Difference: 0.3},
		}
		assert.Equal(t, []string{"Top", "First", "Second", "Third"}, aspectNames(RankAspects(in)))
	})

	t.Run("input is not mutated", func(t *testing.T) {
		in := []AspectRecord{{Aspect: "A", Difference: -1}, {Aspect: "B", Difference: 1}}
		_ = RankAspects(in)
		assert.Equal(t, []string{"A", "B"}, aspectNames(in))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, RankAspects(nil))
	})
}

// TestGroupPoints tests first-seen bucket order and in-bucket order
func TestGroupPoints(t *testing.T) {
	points := []PointRecord{
		{Name: "p1", Bucket: Satisfied},
		{Name: "p2", Bucket: HighlySatisfied},
		{Name: "p3", Bucket: Satisfied},
		{Name: "p4", Bucket: Neutral},
		{Name: "p5", Bucket: HighlySatisfied},
	}

	groups := GroupPoints(points)
	require.Len(t, groups, 3)

	assert.Equal(t, Satisfied, groups[0].Bucket)
	assert.Equal(t, HighlySatisfied, groups[1].Bucket)
	assert.Equal(t, Neutral, groups[2].Bucket)

	assert.Equal(t, "p1", groups[0].Points[0].Name)
	assert.Equal(t, "p3", groups[0].Points[1].Name)
	assert.Equal(t, "p2", groups[1].Points[0].Name)
	assert.Equal(t, "p5", groups[1].Points[1].Name)

	assert.NotNil(t, GroupPoints(nil))
	assert.Empty(t, GroupPoints(nil))
}
