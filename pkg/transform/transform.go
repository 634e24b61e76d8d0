package transform

import (
	"errors"
	"fmt"
	"math"

	"github.com/jbeda/geom"

	"plotpath/pkg/geometry"
)

// Frame is the machine's drawable rectangle: origin plus size, in mm.
type Frame struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

var (
	// ErrEmptyInput means there are no paths to plot.
	ErrEmptyInput = errors.New("no paths to plot")
	// ErrDegenerateGeometry means the drawing's bounding box is unusable:
	// non-finite coordinates or zero area. Shared with pkg/geometry so the
	// kind matches wherever the bad input is caught.
	ErrDegenerateGeometry = geometry.ErrDegenerateGeometry
	// ErrOutOfBounds means a transformed point landed outside the frame.
	// That indicates a frame/scale misconfiguration; points are never
	// silently clamped.
	ErrOutOfBounds = errors.New("point outside plot frame")
)

type Options struct {
	// Rotate applies a fixed 90° rotation before scaling, for drawings
	// whose orientation doesn't match the machine.
	Rotate bool
	// NoUpscale caps the scale factor at 1 so small drawings keep their
	// native size instead of being blown up to fill the frame.
	NoUpscale bool
}

func nonFinite(p geom.Coord) bool {
	return math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0)
}

// Fit maps every point through rotate, then uniform scale, then translate,
// so that the drawing's bounding box is centered in the frame at maximum
// size. The aspect ratio is always preserved, never stretched per axis.
// The input paths are not modified.
func Fit(paths []geometry.Polyline, frame Frame, opts Options) ([]geometry.Polyline, error) {
	if len(paths) == 0 {
		return nil, ErrEmptyInput
	}
	if frame.Width <= 0 || frame.Height <= 0 {
		return nil, fmt.Errorf("%w: plot frame is %g x %g", ErrDegenerateGeometry, frame.Width, frame.Height)
	}

	out := make([]geometry.Polyline, len(paths))
	for i, line := range paths {
		dup := make(geometry.Polyline, len(line))
		copy(dup, line)
		out[i] = dup
	}

	if opts.Rotate {
		for _, line := range out {
			for i, p := range line {
				line[i] = geom.Coord{X: -p.Y, Y: p.X}
			}
		}
	}

	bounds, ok := geometry.Bounds(out)
	if !ok {
		return nil, ErrEmptyInput
	}
	if nonFinite(bounds.Min) || nonFinite(bounds.Max) {
		return nil, fmt.Errorf("%w: non-finite bounding box (%g, %g)-(%g, %g)",
			ErrDegenerateGeometry, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	width := bounds.Width()
	height := bounds.Height()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: zero-area bounding box %g x %g", ErrDegenerateGeometry, width, height)
	}

	scale := math.Min(frame.Width/width, frame.Height/height)
	if opts.NoUpscale && scale > 1 {
		scale = 1
	}

	// Center the scaled bounding box within the frame.
	dx := frame.X + (frame.Width-width*scale)/2 - bounds.Min.X*scale
	dy := frame.Y + (frame.Height-height*scale)/2 - bounds.Min.Y*scale
	for _, line := range out {
		for i, p := range line {
			line[i] = geom.Coord{X: p.X*scale + dx, Y: p.Y*scale + dy}
		}
	}

	// Guard against malformed input slipping through the bbox math.
	if err := verifyInFrame(out, frame); err != nil {
		return nil, err
	}

	return out, nil
}

// verifyInFrame confirms that every point sits inside the frame, within a
// small tolerance relative to the frame size. Violations are never clamped;
// they report the offending point and the frame so the misconfiguration is
// diagnosable.
func verifyInFrame(paths []geometry.Polyline, frame Frame) error {
	tolerance := 1e-6 * math.Max(frame.Width, frame.Height)
	for _, line := range paths {
		for _, p := range line {
			if p.X < frame.X-tolerance || p.X > frame.X+frame.Width+tolerance ||
				p.Y < frame.Y-tolerance || p.Y > frame.Y+frame.Height+tolerance {
				return fmt.Errorf("%w: (%g, %g) vs frame (%g, %g, %g, %g)",
					ErrOutOfBounds, p.X, p.Y, frame.X, frame.Y, frame.Width, frame.Height)
			}
		}
	}
	return nil
}
