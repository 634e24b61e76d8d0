package svg

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jbeda/geom"

	"plotpath/pkg/geometry"
)

func TestParseShapes(t *testing.T) {
	data := []byte(`<?xml version="1.0"?>
<svg xmlns="http://www.w3.org/2000/svg" width="210mm" height="297mm">
  <line x1="0" y1="0" x2="10" y2="10"/>
  <g>
    <polyline points="0,0 5,5 10,0"/>
    <polygon points="20,20 30,20 25,30"/>
  </g>
  <rect x="1" y="2" width="3" height="4"/>
  <path d="M0 0 L1 1"/>
</svg>`)

	doc, err := Parse(data, 0.2)
	if err != nil {
		t.Fatalf("Parse failed: %s", err)
	}
	if doc.Width != 210 || doc.Height != 297 {
		t.Errorf("size = %g x %g, want 210 x 297", doc.Width, doc.Height)
	}
	if len(doc.Paths) != 5 {
		t.Fatalf("got %d paths, want 5", len(doc.Paths))
	}

	wantLine := geometry.Polyline{{X: 0, Y: 0}, {X: 10, Y: 10}}
	if diff := cmp.Diff(wantLine, doc.Paths[0]); diff != "" {
		t.Errorf("line mismatch: %s", diff)
	}
	// Polygons close themselves.
	polygon := doc.Paths[2]
	if !polygon.IsClosed() {
		t.Errorf("polygon not closed: %v", polygon)
	}
	rect := doc.Paths[3]
	if !rect.IsClosed() || len(rect) != 5 {
		t.Errorf("rect not a closed 4-sided loop: %v", rect)
	}
}

func TestParseViewBoxFallback(t *testing.T) {
	data := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 400 300">
  <line x1="0" y1="0" x2="1" y2="1"/>
</svg>`)
	doc, err := Parse(data, 0.2)
	if err != nil {
		t.Fatalf("Parse failed: %s", err)
	}
	if doc.Width != 400 || doc.Height != 300 {
		t.Errorf("size = %g x %g, want 400 x 300", doc.Width, doc.Height)
	}
}

func TestParseNoSize(t *testing.T) {
	data := []byte(`<svg xmlns="http://www.w3.org/2000/svg"><line x1="0" y1="0" x2="1" y2="1"/></svg>`)
	if _, err := Parse(data, 0.2); err == nil {
		t.Error("Parse succeeded without width/height or viewBox")
	}
}

func TestParseCircle(t *testing.T) {
	data := []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100">
  <circle cx="50" cy="50" r="10"/>
</svg>`)
	doc, err := Parse(data, 0.5)
	if err != nil {
		t.Fatalf("Parse failed: %s", err)
	}
	if len(doc.Paths) != 1 {
		t.Fatalf("got %d paths, want 1", len(doc.Paths))
	}
	circle := doc.Paths[0]
	if !circle.IsClosed() {
		t.Error("circle path not closed")
	}
	center := geom.Coord{X: 50, Y: 50}
	for _, p := range circle {
		d := p.DistanceFrom(center)
		if d < 9.9 || d > 10.1 {
			t.Fatalf("circle point %v at radius %g, want 10", p, d)
		}
	}
}

func TestWriteRoute(t *testing.T) {
	ordered := []geometry.Polyline{
		{{X: 0, Y: 0}, {X: 10, Y: 0}},
		{{X: 20, Y: 5}, {X: 30, Y: 5}},
	}
	var sb strings.Builder
	err := WriteRoute(&sb, 100, 100, ordered, geom.Coord{}, true)
	if err != nil {
		t.Fatalf("WriteRoute failed: %s", err)
	}
	out := sb.String()

	if !strings.Contains(out, `viewBox="0 0 100 100"`) {
		t.Error("output missing viewBox")
	}
	if !strings.Contains(out, "M0 0 L10 0") {
		t.Error("output missing first stroke")
	}
	if !strings.Contains(out, "travel_indicators") {
		t.Error("output missing travel indicators")
	}
	// One transit: stroke 1 ends at (10,0), stroke 2 starts at (20,5).
	if !strings.Contains(out, "M10 0 L20 5") {
		t.Error("output missing the pen-up transit path")
	}

	// The output parses back to the same strokes plus the indicator path.
	doc, err := Parse([]byte(out), 0.2)
	if err != nil {
		t.Fatalf("re-parsing output failed: %s", err)
	}
	if len(doc.Paths) != 3 {
		t.Errorf("re-parsed %d paths, want 3", len(doc.Paths))
	}
}

func TestWriteRouteNoTravel(t *testing.T) {
	ordered := []geometry.Polyline{{{X: 0, Y: 0}, {X: 1, Y: 1}}}
	var sb strings.Builder
	if err := WriteRoute(&sb, 10, 10, ordered, geom.Coord{}, false); err != nil {
		t.Fatalf("WriteRoute failed: %s", err)
	}
	if strings.Contains(sb.String(), "travel_indicators") {
		t.Error("travel indicators present when disabled")
	}
}
