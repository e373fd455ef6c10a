package yolo

import (
	"math"
	"sort"
)

// FilterBoundingBoxes keeps at most limit boxes by greedy non maximum
// suppression: boxes are visited by descending confidence and every later box
// overlapping a kept one by more than threshold intersection over union is
// dropped. Boxes with a confidence below Threshold are never returned.
func FilterBoundingBoxes(boxes []BoundingBox, limit int, threshold float64) []BoundingBox {
	sorted := make([]BoundingBox, 0, len(boxes))
	for _, b := range boxes {
		if b.Confidence >= Threshold {
			sorted = append(sorted, b)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Confidence > sorted[j].Confidence })

	active := make([]bool, len(sorted))
	for i := range active {
		active[i] = true
	}
	var out []BoundingBox
	for i := range sorted {
		if len(out) >= limit {
			break
		}
		if !active[i] {
			continue
		}
		out = append(out, sorted[i])
		for j := i + 1; j < len(sorted); j++ {
			if active[j] && IntersectionOverUnion(sorted[i].Dimensions, sorted[j].Dimensions) > threshold {
				active[j] = false
			}
		}
	}
	return out
}

// IntersectionOverUnion of two rectangles, zero when either is empty.
func IntersectionOverUnion(a, b Dimensions) float64 {
	if a.Area() <= 0 || b.Area() <= 0 {
		return 0
	}
	w := math.Min(a.X+a.Width, b.X+b.Width) - math.Max(a.X, b.X)
	h := math.Min(a.Y+a.Height, b.Y+b.Height) - math.Max(a.Y, b.Y)
	if w <= 0 || h <= 0 {
		return 0
	}
	inter := w * h
	return inter / (a.Area() + b.Area() - inter)
}
