package route

import (
	"errors"
	"fmt"

	"github.com/jbeda/geom"

	"plotpath/pkg/geometry"
)

// ErrIndexMismatch reports that the endpoint index ran dry before every
// polyline was routed. It indicates an index bookkeeping bug, not bad input.
var ErrIndexMismatch = errors.New("endpoint index exhausted with unvisited paths")

// A Step is one tour entry: which polyline to draw, and whether to draw it
// in reverse of its stored point order.
type Step struct {
	Path     int
	Reversed bool
}

// A Tour is the chosen visiting order and direction for every polyline.
// Every polyline in the store appears exactly once.
type Tour []Step

// BuildIndex loads both endpoints of every polyline into a fresh index.
// Closed loops contribute two coincident entries.
func BuildIndex(paths []geometry.Polyline) EndpointIndex {
	bounds, _ := geometry.Bounds(paths)
	idx := NewEndpointIndex(bounds)
	for i, line := range paths {
		idx.Insert(Endpoint{Path: i, End: 0}, line.Start())
		idx.Insert(Endpoint{Path: i, End: 1}, line.End())
	}
	return idx
}

// NextStep picks the unvisited endpoint closest to pos, consumes both
// endpoints of its polyline, and returns the step plus the pen's position
// after drawing it (the end that was not matched). ok is false once the
// index is empty. Aside from consuming the matched polyline, the result is
// a pure function of the index contents and pos.
func NextStep(idx EndpointIndex, paths []geometry.Polyline, pos geom.Coord) (Step, geom.Coord, bool) {
	ep, ok := idx.Nearest(pos)
	if !ok {
		return Step{}, pos, false
	}
	idx.Remove(Endpoint{Path: ep.Path, End: 0})
	idx.Remove(Endpoint{Path: ep.Path, End: 1})

	line := paths[ep.Path]
	step := Step{Path: ep.Path, Reversed: ep.End == 1}
	if step.Reversed {
		return step, line.Start(), true
	}
	return step, line.End(), true
}

// Greedy builds a tour by repeatedly drawing the polyline with the closest
// unvisited endpoint to the current pen position, starting from start.
// The tour under construction is a valid prefix at every step boundary.
// Non-finite coordinates are rejected up front: NaN never compares equal,
// so a poisoned endpoint could not be removed from the index again.
func Greedy(paths []geometry.Polyline, start geom.Coord) (Tour, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	if err := geometry.CheckFinite(paths); err != nil {
		return nil, err
	}

	idx := BuildIndex(paths)
	tour := make(Tour, 0, len(paths))
	pos := start
	for {
		step, next, ok := NextStep(idx, paths, pos)
		if !ok {
			break
		}
		tour = append(tour, step)
		pos = next
	}

	if len(tour) != len(paths) {
		return nil, fmt.Errorf("%w: routed %d of %d", ErrIndexMismatch, len(tour), len(paths))
	}
	return tour, nil
}

// Identity returns the tour that keeps the input order and direction.
func Identity(paths []geometry.Polyline) Tour {
	tour := make(Tour, len(paths))
	for i := range paths {
		tour[i] = Step{Path: i}
	}
	return tour
}

// Apply returns the polylines in tour order with directions resolved.
// Reversed entries get a reversed copy; the store is never mutated.
func (t Tour) Apply(paths []geometry.Polyline) []geometry.Polyline {
	out := make([]geometry.Polyline, 0, len(t))
	for _, s := range t {
		line := paths[s.Path]
		if s.Reversed {
			line = line.Reversed()
		}
		out = append(out, line)
	}
	return out
}

// TravelCost returns the total pen-up distance of the tour, beginning at
// start. Drawn distance is excluded.
func (t Tour) TravelCost(paths []geometry.Polyline, start geom.Coord) float64 {
	pos := start
	total := 0.0
	for _, s := range t {
		line := paths[s.Path]
		a, b := line.Start(), line.End()
		if s.Reversed {
			a, b = b, a
		}
		total += pos.DistanceFrom(a)
		pos = b
	}
	return total
}
