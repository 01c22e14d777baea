package normalizer

// ShapeTag identifies the structural dialect of an analysis payload.
type ShapeTag int

const (
	Empty ShapeTag = iota
	BaselineList
	DetailedComparisonList
	AspectsAveragesParallel
	PointList
	ScatterLegacy
	CategoryValueParallel
	GenericArray
)

var shapeNames = map[ShapeTag]string{
	Empty:                   "Empty",
	BaselineList:            "BaselineList",
	DetailedComparisonList:  "DetailedComparisonList",
	AspectsAveragesParallel: "AspectsAveragesParallel",
	PointList:               "PointList",
	ScatterLegacy:           "ScatterLegacy",
	CategoryValueParallel:   "CategoryValueParallel",
	GenericArray:            "GenericArray",
}

func (s ShapeTag) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return "Empty"
}

// ParseShapeTag returns the tag whose String form is name.
func ParseShapeTag(name string) (ShapeTag, bool) {
	for tag, n := range shapeNames {
		if n == name {
			return tag, true
		}
	}
	return Empty, false
}

// IsAspectShape reports whether records of this shape describe aspects.
func (s ShapeTag) IsAspectShape() bool {
	switch s {
	case BaselineList, DetailedComparisonList, AspectsAveragesParallel, CategoryValueParallel, GenericArray:
		return true
	}
	return false
}

// IsPointShape reports whether records of this shape describe response points.
func (s ShapeTag) IsPointShape() bool {
	switch s {
	case PointList, ScatterLegacy, GenericArray:
		return true
	}
	return false
}

// Detect classifies payload. The first matching rule wins and the order is
// part of the contract: payloads frequently carry several shapes at once.
func Detect(payload Payload) ShapeTag {
	obj, ok := asObject(payload)
	if !ok {
		if _, isArr := asArray(payload); isArr {
			return GenericArray
		}
		return Empty
	}

	if _, ok := arrayField(obj, "baseline_data"); ok {
		return BaselineList
	}
	if _, ok := arrayField(obj, "detailed_comparison"); ok {
		return DetailedComparisonList
	}
	if _, ok := arrayField(obj, "aspects"); ok {
		if _, ok := arrayField(obj, "averages"); ok {
			return AspectsAveragesParallel
		}
	}
	if _, ok := arrayField(obj, "points"); ok {
		return PointList
	}
	if _, ok := arrayField(obj, "scatter_data"); ok {
		return ScatterLegacy
	}
	if _, ok := arrayField(obj, "categories"); ok {
		if _, ok := arrayField(obj, "values"); ok {
			return CategoryValueParallel
		}
	}
	return Empty
}
