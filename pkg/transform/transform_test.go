package transform

import (
	"errors"
	"math"
	"strings"
	"testing"

	"plotpath/pkg/geometry"
)

var frame = Frame{X: 0, Y: 0, Width: 100, Height: 100}

func TestFitBounds(t *testing.T) {
	paths := []geometry.Polyline{
		{{X: 3, Y: 7}, {X: 13, Y: 7}},
		{{X: 3, Y: 12}, {X: 13, Y: 12}},
	}
	fitted, err := Fit(paths, frame, Options{})
	if err != nil {
		t.Fatalf("Fit failed: %s", err)
	}
	for _, line := range fitted {
		for _, p := range line {
			if p.X < frame.X || p.X > frame.X+frame.Width ||
				p.Y < frame.Y || p.Y > frame.Y+frame.Height {
				t.Errorf("point (%g, %g) outside frame", p.X, p.Y)
			}
		}
	}
	// Input untouched.
	if paths[0][0].X != 3 || paths[0][0].Y != 7 {
		t.Error("Fit mutated its input")
	}
}

func TestFitAspectPreserved(t *testing.T) {
	// A 20 x 5 drawing into a 100 x 100 frame: scale is 5, not 5 x 20.
	paths := []geometry.Polyline{
		{{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 20, Y: 5}, {X: 0, Y: 5}, {X: 0, Y: 0}},
	}
	fitted, err := Fit(paths, frame, Options{})
	if err != nil {
		t.Fatalf("Fit failed: %s", err)
	}
	bounds, _ := geometry.Bounds(fitted)
	wantRatio := 20.0 / 5.0
	gotRatio := bounds.Width() / bounds.Height()
	if !geometry.FloatAlmostEqual(wantRatio, gotRatio) {
		t.Errorf("aspect ratio %g, want %g", gotRatio, wantRatio)
	}
	if !geometry.FloatAlmostEqual(bounds.Width(), 100) {
		t.Errorf("fitted width %g, want 100", bounds.Width())
	}
	// Centered vertically: 100x25 box sits at y in [37.5, 62.5].
	if !geometry.FloatAlmostEqual(bounds.Min.Y, 37.5) || !geometry.FloatAlmostEqual(bounds.Max.Y, 62.5) {
		t.Errorf("fitted box not centered: y spans [%g, %g]", bounds.Min.Y, bounds.Max.Y)
	}
}

func TestFitRotate(t *testing.T) {
	// A wide drawing into a tall frame, rotated 90° first.
	tall := Frame{X: 0, Y: 0, Width: 10, Height: 100}
	paths := []geometry.Polyline{
		{{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 50, Y: 5}},
	}
	fitted, err := Fit(paths, tall, Options{Rotate: true})
	if err != nil {
		t.Fatalf("Fit failed: %s", err)
	}
	bounds, _ := geometry.Bounds(fitted)
	// Rotation swaps the long axis onto Y; scale is min(10/5, 100/50) = 2.
	if !geometry.FloatAlmostEqual(bounds.Height(), 100) {
		t.Errorf("rotated height %g, want 100", bounds.Height())
	}
	if !geometry.FloatAlmostEqual(bounds.Width(), 10) {
		t.Errorf("rotated width %g, want 10", bounds.Width())
	}
}

func TestFitNoUpscale(t *testing.T) {
	paths := []geometry.Polyline{
		{{X: 0, Y: 0}, {X: 4, Y: 3}},
	}
	fitted, err := Fit(paths, frame, Options{NoUpscale: true})
	if err != nil {
		t.Fatalf("Fit failed: %s", err)
	}
	bounds, _ := geometry.Bounds(fitted)
	if !geometry.FloatAlmostEqual(bounds.Width(), 4) || !geometry.FloatAlmostEqual(bounds.Height(), 3) {
		t.Errorf("NoUpscale scaled the drawing: %g x %g", bounds.Width(), bounds.Height())
	}
}

func TestFitFrameOrigin(t *testing.T) {
	offset := Frame{X: 50, Y: 20, Width: 40, Height: 40}
	paths := []geometry.Polyline{
		{{X: 0, Y: 0}, {X: 1, Y: 1}},
	}
	fitted, err := Fit(paths, offset, Options{})
	if err != nil {
		t.Fatalf("Fit failed: %s", err)
	}
	bounds, _ := geometry.Bounds(fitted)
	if bounds.Min.X < 50 || bounds.Max.X > 90 || bounds.Min.Y < 20 || bounds.Max.Y > 60 {
		t.Errorf("fitted drawing escaped the offset frame: (%g, %g)-(%g, %g)",
			bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
}

func TestFitEmptyInput(t *testing.T) {
	if _, err := Fit(nil, frame, Options{}); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Fit(nil) error = %v, want ErrEmptyInput", err)
	}
}

func TestFitDegenerate(t *testing.T) {
	tests := []struct {
		name  string
		paths []geometry.Polyline
	}{
		{"dot", []geometry.Polyline{{{X: 5, Y: 5}, {X: 5, Y: 5}}}},
		{"horizontal line", []geometry.Polyline{{{X: 0, Y: 5}, {X: 10, Y: 5}}}},
		{"NaN coordinate", []geometry.Polyline{{{X: 0, Y: 0}, {X: math.NaN(), Y: 1}}}},
		{"infinite coordinate", []geometry.Polyline{{{X: 0, Y: 0}, {X: math.Inf(1), Y: 1}}}},
	}
	for _, test := range tests {
		_, err := Fit(test.paths, frame, Options{})
		if !errors.Is(err, ErrDegenerateGeometry) {
			t.Errorf("%s: error = %v, want ErrDegenerateGeometry", test.name, err)
		}
	}
}

func TestVerifyInFrame(t *testing.T) {
	inside := []geometry.Polyline{{{X: 0, Y: 0}, {X: 100, Y: 100}}}
	if err := verifyInFrame(inside, frame); err != nil {
		t.Errorf("in-frame paths rejected: %s", err)
	}

	// Within tolerance of the edge still passes.
	nearEdge := []geometry.Polyline{{{X: 100.00000001, Y: 50}}}
	if err := verifyInFrame(nearEdge, frame); err != nil {
		t.Errorf("point within tolerance rejected: %s", err)
	}

	outside := []geometry.Polyline{{{X: 10, Y: 10}, {X: 120, Y: 10}}}
	err := verifyInFrame(outside, frame)
	if !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("err = %v, want ErrOutOfBounds", err)
	}
	// The message carries the offending point and the frame, so the
	// misconfiguration is diagnosable.
	for _, want := range []string{"(120, 10)", "(0, 0, 100, 100)"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestFitBadFrame(t *testing.T) {
	paths := []geometry.Polyline{{{X: 0, Y: 0}, {X: 1, Y: 1}}}
	bad := Frame{X: 0, Y: 0, Width: 0, Height: 100}
	if _, err := Fit(paths, bad, Options{}); !errors.Is(err, ErrDegenerateGeometry) {
		t.Errorf("zero-width frame error = %v, want ErrDegenerateGeometry", err)
	}
}
