package route

import (
	"plotpath/pkg/geometry"
)

// MergeClose joins consecutive ordered polylines whose gap is within
// threshold into single strokes, removing the pen lift between them.
// Intended to run after routing, when near-touching paths are adjacent.
func MergeClose(ordered []geometry.Polyline, threshold float64) []geometry.Polyline {
	if threshold <= 0 || len(ordered) == 0 {
		return ordered
	}

	out := make([]geometry.Polyline, 0, len(ordered))
	out = append(out, append(geometry.Polyline(nil), ordered[0]...))
	for _, line := range ordered[1:] {
		last := out[len(out)-1]
		if last.End().DistanceFrom(line.Start()) <= threshold {
			out[len(out)-1] = append(last, line...)
		} else {
			out = append(out, append(geometry.Polyline(nil), line...))
		}
	}
	return out
}
