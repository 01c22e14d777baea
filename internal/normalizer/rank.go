package normalizer

import "sort"

// RankAspects returns a copy of records ordered best-performing first. Equal
// differences keep their input order.
func RankAspects(records []AspectRecord) []AspectRecord {
	out := make([]AspectRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Difference > out[j].Difference
	})
	return out
}

// GroupPoints groups points by bucket. Groups appear in first-seen order and
// points keep their input order within a group.
func GroupPoints(points []PointRecord) []PointGroup {
	index := make(map[Bucket]int)
	groups := make([]PointGroup, 0)
	for _, p := range points {
		i, ok := index[p.Bucket]
		if !ok {
			i = len(groups)
			index[p.Bucket] = i
			groups = append(groups, PointGroup{Bucket: p.Bucket})
		}
		groups[i].Points = append(groups[i].Points, p)
	}
	return groups
}
