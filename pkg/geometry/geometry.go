package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/jbeda/geom"
)

// ErrDegenerateGeometry means the drawing contains coordinates that no
// later stage can be trusted with: NaN or infinite values, or a bounding
// box with no usable area.
var ErrDegenerateGeometry = errors.New("degenerate geometry")

// A Polyline is one continuous pen stroke: an ordered, non-empty sequence of
// points. Its endpoints are the first and last points, which may coincide
// (a closed loop). Polylines are never mutated after parsing; optimization
// only decides traversal direction and ordering.
type Polyline []geom.Coord

func (line Polyline) Start() geom.Coord {
	return line[0]
}

func (line Polyline) End() geom.Coord {
	return line[len(line)-1]
}

// Reversed returns a copy of the polyline with the point order flipped.
func (line Polyline) Reversed() Polyline {
	out := make(Polyline, len(line))
	for i, p := range line {
		out[len(line)-1-i] = p
	}
	return out
}

func (line Polyline) IsClosed() bool {
	return len(line) > 1 && AlmostEqualsCoord(line.Start(), line.End())
}

// Length returns the drawn (pen-down) length of the polyline.
func (line Polyline) Length() float64 {
	total := 0.0
	for i := 1; i < len(line); i++ {
		total += line[i].DistanceFrom(line[i-1])
	}
	return total
}

// Bounds returns the bounding box of all points across all polylines.
// ok is false if there are no points at all.
func Bounds(paths []Polyline) (geom.Rect, bool) {
	found := false
	var r geom.Rect
	for _, line := range paths {
		for _, p := range line {
			if !found {
				r = geom.Rect{Min: p, Max: p}
				found = true
			} else {
				r.ExpandToContainCoord(p)
			}
		}
	}
	return r, found
}

// CheckFinite rejects drawings containing NaN or infinite coordinates,
// naming the first offender. Non-finite points would poison the spatial
// index and the frame fit, so they are refused before either sees them.
func CheckFinite(paths []Polyline) error {
	for i, line := range paths {
		for _, p := range line {
			if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
				return fmt.Errorf("%w: non-finite coordinate (%g, %g) in path %d",
					ErrDegenerateGeometry, p.X, p.Y, i)
			}
		}
	}
	return nil
}

const almostEqualsEpsilon = 1e-9

func FloatAlmostEqual(a, b float64) bool {
	return math.Abs(a-b) < almostEqualsEpsilon
}

func AlmostEqualsCoord(a, b geom.Coord) bool {
	return FloatAlmostEqual(a.X, b.X) && FloatAlmostEqual(a.Y, b.Y)
}
