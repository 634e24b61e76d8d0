package route

import (
	"github.com/jbeda/geom"

	"plotpath/pkg/geometry"
)

// Refine runs up to passes rounds of 2-opt over the tour order: a contiguous
// run of entries is reversed (flipping each entry's direction) whenever that
// shortens total pen-up travel. Travel inside the reversed run is unchanged
// by the flip, so only the two boundary transits need comparing. Refinement
// never increases travel; a pass with no improvement ends the search early.
func (t Tour) Refine(paths []geometry.Polyline, start geom.Coord, passes int) Tour {
	if passes <= 0 || len(t) < 2 {
		return t
	}

	tour := make(Tour, len(t))
	copy(tour, t)

	startOf := func(s Step) geom.Coord {
		if s.Reversed {
			return paths[s.Path].End()
		}
		return paths[s.Path].Start()
	}
	endOf := func(s Step) geom.Coord {
		if s.Reversed {
			return paths[s.Path].Start()
		}
		return paths[s.Path].End()
	}
	reverseRun := func(i, j int) {
		for ; i < j; i, j = i+1, j-1 {
			tour[i], tour[j] = tour[j], tour[i]
			tour[i].Reversed = !tour[i].Reversed
			tour[j].Reversed = !tour[j].Reversed
		}
		if i == j {
			tour[i].Reversed = !tour[i].Reversed
		}
	}

	const epsilon = 1e-12

	for pass := 0; pass < passes; pass++ {
		improved := false
		for i := 0; i < len(tour); i++ {
			prev := start
			if i > 0 {
				prev = endOf(tour[i-1])
			}
			for j := i; j < len(tour); j++ {
				before := prev.DistanceFrom(startOf(tour[i]))
				after := prev.DistanceFrom(endOf(tour[j]))
				if j+1 < len(tour) {
					next := startOf(tour[j+1])
					before += endOf(tour[j]).DistanceFrom(next)
					after += startOf(tour[i]).DistanceFrom(next)
				}
				if after < before-epsilon {
					reverseRun(i, j)
					improved = true
				}
			}
		}
		if !improved {
			break
		}
	}
	return tour
}
