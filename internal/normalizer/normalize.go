package normalizer

import (
	"fmt"

	"github.com/godilite/feedback-metrics/internal/config"
)

// OverallSatisfaction returns the baseline carried by payload, or the
// configured default when it is absent, zero or not numeric.
func OverallSatisfaction(payload Payload) float64 {
	obj, ok := asObject(payload)
	if !ok {
		return config.DefaultOverallSatisfaction
	}
	if f := firstRating(obj, "overall_satisfaction"); f != 0 {
		return f
	}
	return config.DefaultOverallSatisfaction
}

// NormalizeAspects converts an aspect-shaped payload into derived records in
// input order. It never fails: unknown shapes yield an empty slice.
func NormalizeAspects(payload Payload, shape ShapeTag) []AspectRecord {
	baseline := OverallSatisfaction(payload)
	obj, _ := asObject(payload)

	var items []map[string]any
	switch shape {
	case BaselineList:
		items = objectItems(obj["baseline_data"])
	case DetailedComparisonList:
		items = objectItems(obj["detailed_comparison"])
	case AspectsAveragesParallel:
		items = zipItems(obj["aspects"], obj["averages"])
	case CategoryValueParallel:
		items = zipItems(obj["categories"], obj["values"])
	case GenericArray:
		items = objectItems(payload)
	}

	records := make([]AspectRecord, 0, len(items))
	for _, item := range items {
		records = append(records, DeriveAspect(aspectFromItem(item, baseline)))
	}
	return records
}

func aspectFromItem(item map[string]any, baseline float64) AspectRecord {
	name, ok := firstString(item, "aspect", "name")
	if !ok {
		name = "Unknown"
	}
	r := AspectRecord{
		Aspect:   name,
		Value:    firstRating(item, "value", "average"),
		Baseline: baseline,
	}
	if label, ok := firstString(item, "performance", "performance_category"); ok {
		if p, ok := ParsePerformance(label); ok {
			r.Performance = p
		}
	}
	return r
}

// NormalizePoints converts a point-shaped payload into bucketed records in
// input order. Display coordinates equal the raw ones; jitter is applied by
// DerivePoint with a random source.
func NormalizePoints(payload Payload, shape ShapeTag) []PointRecord {
	obj, _ := asObject(payload)

	var items []map[string]any
	switch shape {
	case PointList:
		items = objectItems(obj["points"])
	case ScatterLegacy:
		items = objectItems(obj["scatter_data"])
	case GenericArray:
		items = objectItems(payload)
	}

	points := make([]PointRecord, 0, len(items))
	for i, item := range items {
		p := PointRecord{
			Name: fmt.Sprintf("Response %d", i+1),
			X:    firstNumber(item, "x", "satisfaction"),
			Y:    firstNumber(item, "y", "recommendation_score", "recommendation"),
		}
		points = append(points, DerivePoint(p, nil))
	}
	return points
}

// objectItems returns the elements of a JSON array as objects. Non-object
// elements become empty objects so every element still yields a record.
func objectItems(v any) []map[string]any {
	arr, ok := asArray(v)
	if !ok {
		return nil
	}
	items := make([]map[string]any, len(arr))
	for i, el := range arr {
		if m, ok := asObject(el); ok {
			items[i] = m
		} else {
			items[i] = map[string]any{}
		}
	}
	return items
}

// zipItems pairs names with values, truncating to the shorter array.
func zipItems(names, values any) []map[string]any {
	n, ok := asArray(names)
	if !ok {
		return nil
	}
	v, ok := asArray(values)
	if !ok {
		return nil
	}
	size := min(len(n), len(v))
	items := make([]map[string]any, size)
	for i := 0; i < size; i++ {
		item := map[string]any{"value": v[i]}
		if s, ok := n[i].(string); ok {
			item["aspect"] = s
		}
		items[i] = item
	}
	return items
}
