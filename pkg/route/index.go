package route

import (
	"sort"

	"github.com/asim/quadtree"
	"github.com/jbeda/geom"
)

// An Endpoint identifies one end of a polyline in the store.
type Endpoint struct {
	Path int
	End  int // 0 = start point, 1 = end point
}

// EndpointIndex is the spatial nearest-neighbor lookup used during tour
// construction. The greedy walk owns the index exclusively: it removes both
// endpoints of a polyline as soon as either one is matched.
type EndpointIndex interface {
	Insert(ep Endpoint, at geom.Coord)
	Nearest(to geom.Coord) (Endpoint, bool)
	Remove(ep Endpoint)
}

var zeroPoint = quadtree.NewPoint(0, 0, nil)

// endpointTree implements EndpointIndex over a quadtree. Coincident
// endpoints share a single tree point whose data is the set of endpoints at
// that coordinate, so closed loops and exactly-touching paths don't stack
// duplicate tree entries.
type endpointTree struct {
	tree   *quadtree.QuadTree
	width  float64
	height float64
	loc    map[Endpoint]geom.Coord
}

// NewEndpointIndex returns an empty index covering the given bounds.
func NewEndpointIndex(bounds geom.Rect) EndpointIndex {
	midX := (bounds.Max.X + bounds.Min.X) / 2
	midY := (bounds.Max.Y + bounds.Min.Y) / 2
	halfWidth := bounds.Max.X - midX
	halfHeight := bounds.Max.Y - midY

	// Add a small margin to avoid dropping endpoints at the edges
	halfWidth += 10
	halfHeight += 10

	aabb := quadtree.NewAABB(
		quadtree.NewPoint(midX, midY, nil),
		quadtree.NewPoint(halfWidth, halfHeight, nil))
	return &endpointTree{
		tree:   quadtree.New(aabb, 0, nil),
		width:  halfWidth * 2,
		height: halfHeight * 2,
		loc:    map[Endpoint]geom.Coord{},
	}
}

func (t *endpointTree) Insert(ep Endpoint, at geom.Coord) {
	t.loc[ep] = at
	point := quadtree.NewPoint(at.X, at.Y, nil)
	points := t.tree.KNearest(quadtree.NewAABB(point, zeroPoint), 1, nil)
	if len(points) > 0 {
		x, y := points[0].Coordinates()
		if x == at.X && y == at.Y {
			eps := points[0].Data().(map[Endpoint]struct{})
			eps[ep] = struct{}{}
			return
		}
	}
	eps := map[Endpoint]struct{}{ep: {}}
	t.tree.Insert(quadtree.NewPoint(at.X, at.Y, eps))
}

func (t *endpointTree) Remove(ep Endpoint) {
	at, ok := t.loc[ep]
	if !ok {
		return
	}
	delete(t.loc, ep)

	point := quadtree.NewPoint(at.X, at.Y, nil)
	points := t.tree.KNearest(quadtree.NewAABB(point, zeroPoint), 1, nil)
	if len(points) > 0 {
		x, y := points[0].Coordinates()
		if x == at.X && y == at.Y {
			eps := points[0].Data().(map[Endpoint]struct{})
			delete(eps, ep)
			if len(eps) == 0 {
				t.tree.Remove(points[0])
			}
		}
	}
}

func (t *endpointTree) Nearest(to geom.Coord) (Endpoint, bool) {
	// Half-dims spanning the full tree extent, so the search covers every
	// remaining endpoint no matter where in the frame the pen sits.
	aabb := quadtree.NewAABB(
		quadtree.NewPoint(to.X, to.Y, nil),
		quadtree.NewPoint(t.width, t.height, nil),
	)
	// Extra slack beyond the single point we want: the quadtree's KNearest
	// result order is not trusted, and coincident endpoints share points.
	points := t.tree.KNearest(aabb, 50, nil)

	var candidates []Endpoint
	for _, point := range points {
		eps := point.Data().(map[Endpoint]struct{})
		for ep := range eps {
			candidates = append(candidates, ep)
		}
	}
	if len(candidates) == 0 {
		return Endpoint{}, false
	}

	// Deterministic pick: closest first, ties broken by stable identity.
	sort.Slice(candidates, func(i, j int) bool {
		di := t.loc[candidates[i]].DistanceFrom(to)
		dj := t.loc[candidates[j]].DistanceFrom(to)
		if di != dj {
			return di < dj
		}
		if candidates[i].Path != candidates[j].Path {
			return candidates[i].Path < candidates[j].Path
		}
		return candidates[i].End < candidates[j].End
	})
	return candidates[0], true
}
