package geometry

import (
	"math"

	"github.com/jbeda/geom"
)

func crossZ(a, b geom.Coord) float64 {
	return a.X*b.Y - a.Y*b.X
}

// segmentDistance returns the distance from p to the line segment a-b.
func segmentDistance(p, a, b geom.Coord) float64 {
	ap := p.Minus(a)
	ab := a.Minus(b)
	mAP := ap.Magnitude()
	mBP := p.Minus(b).Magnitude()
	mAB := ab.Magnitude()

	if mAP > mAB || mBP > mAB {
		// The closest point on the line is outside the segment, so the
		// closest point is the nearest of the two endpoints.
		return math.Min(mAP, mBP)
	}

	return math.Abs(crossZ(ap, ab)) / mAB
}

// Simplify reduces the polyline using the Douglas-Peucker algorithm:
// interior points within epsilon of the chord between the remaining points
// are dropped. Polylines with fewer than two points are returned unchanged.
func (line Polyline) Simplify(epsilon float64) Polyline {
	if len(line) < 2 {
		return line
	}

	first, last := line.Start(), line.End()
	if len(line) == 2 {
		return Polyline{first, last}
	}

	// Find the point with the max distance from the first-last chord.
	dmax := 0.0
	index := 0
	for i := 1; i < len(line)-1; i++ {
		d := segmentDistance(line[i], first, last)
		if d > dmax {
			index = i
			dmax = d
		}
	}

	if dmax < epsilon {
		return Polyline{first, last}
	}

	left := line[:index+1].Simplify(epsilon)
	right := line[index:].Simplify(epsilon)
	return append(left[:len(left)-1], right...)
}
