package svg

import (
	"fmt"
	"math"
	"strings"

	"github.com/jbeda/geom"

	"plotpath/pkg/geometry"
)

// pathParser consumes an SVG path-data string ("d" attribute) and produces
// one polyline per subpath, with curves flattened to line segments whose
// chords stay near the smoothness setting.
type pathParser struct {
	data       string
	index      int
	smoothness float64

	paths    []geometry.Polyline
	current  geometry.Polyline
	pos      geom.Coord
	subStart geom.Coord
	lastCtrl geom.Coord
	lastCmd  byte
}

func parsePathData(d string, smoothness float64) ([]geometry.Polyline, error) {
	p := &pathParser{data: d, smoothness: smoothness}
	if err := p.run(); err != nil {
		return nil, err
	}
	p.flush()
	return p.paths, nil
}

func (p *pathParser) flush() {
	if len(p.current) > 0 {
		p.paths = append(p.paths, p.current)
		p.current = nil
	}
}

func (p *pathParser) moveTo(pt geom.Coord) {
	p.flush()
	p.pos = pt
	p.subStart = pt
	p.current = geometry.Polyline{pt}
}

func (p *pathParser) lineTo(pt geom.Coord) {
	if p.current == nil {
		p.current = geometry.Polyline{p.pos}
	}
	p.current = append(p.current, pt)
	p.pos = pt
}

func (p *pathParser) run() error {
	for {
		p.skipSeparators()
		if p.index >= len(p.data) {
			return nil
		}
		cmd := p.data[p.index]
		if !isCommand(cmd) {
			// Bare coordinates repeat the previous command; an initial
			// bare coordinate is malformed.
			if p.lastCmd == 0 || p.lastCmd == 'Z' || p.lastCmd == 'z' {
				return fmt.Errorf("expected a command at offset %d in %q", p.index, p.data)
			}
			cmd = repeatCommand(p.lastCmd)
		} else {
			p.index++
		}
		if err := p.apply(cmd); err != nil {
			return err
		}
		p.lastCmd = cmd
	}
}

func isCommand(c byte) bool {
	return strings.IndexByte("MmLlHhVvCcSsQqZz", c) >= 0
}

// After an M, bare coordinate pairs are implicit line-tos.
func repeatCommand(last byte) byte {
	switch last {
	case 'M':
		return 'L'
	case 'm':
		return 'l'
	}
	return last
}

func (p *pathParser) apply(cmd byte) error {
	if p.lastCmd == 0 && cmd != 'M' && cmd != 'm' {
		return fmt.Errorf("path data must begin with a move-to, got %q", string(cmd))
	}
	rel := cmd >= 'a'
	abs := func(pt geom.Coord) geom.Coord {
		if rel {
			return pt.Plus(p.pos)
		}
		return pt
	}

	switch cmd {
	case 'M', 'm':
		pt, err := p.coordPair()
		if err != nil {
			return err
		}
		p.moveTo(abs(pt))
	case 'L', 'l':
		pt, err := p.coordPair()
		if err != nil {
			return err
		}
		p.lineTo(abs(pt))
	case 'H', 'h':
		x, err := p.number()
		if err != nil {
			return err
		}
		if rel {
			x += p.pos.X
		}
		p.lineTo(geom.Coord{X: x, Y: p.pos.Y})
	case 'V', 'v':
		y, err := p.number()
		if err != nil {
			return err
		}
		if rel {
			y += p.pos.Y
		}
		p.lineTo(geom.Coord{X: p.pos.X, Y: y})
	case 'C', 'c':
		c1, err := p.coordPair()
		if err != nil {
			return err
		}
		c2, err := p.coordPair()
		if err != nil {
			return err
		}
		end, err := p.coordPair()
		if err != nil {
			return err
		}
		p.cubicTo(abs(c1), abs(c2), abs(end))
	case 'S', 's':
		c2, err := p.coordPair()
		if err != nil {
			return err
		}
		end, err := p.coordPair()
		if err != nil {
			return err
		}
		// First control point reflects the previous curve's second
		// control point, or degenerates to the current position.
		c1 := p.pos
		switch p.lastCmd {
		case 'C', 'c', 'S', 's':
			c1 = p.pos.Times(2).Minus(p.lastCtrl)
		}
		p.cubicTo(c1, abs(c2), abs(end))
	case 'Q', 'q':
		ctrl, err := p.coordPair()
		if err != nil {
			return err
		}
		end, err := p.coordPair()
		if err != nil {
			return err
		}
		p.quadTo(abs(ctrl), abs(end))
	case 'Z', 'z':
		if len(p.current) > 0 {
			if !geometry.AlmostEqualsCoord(p.pos, p.subStart) {
				p.lineTo(p.subStart)
			}
			p.flush()
			p.pos = p.subStart
		}
	default:
		return fmt.Errorf("unsupported path command %q", string(cmd))
	}
	return nil
}

func (p *pathParser) cubicTo(c1, c2, end geom.Coord) {
	start := p.pos
	steps := p.flattenSteps(start.DistanceFrom(c1) + c1.DistanceFrom(c2) + c2.DistanceFrom(end))
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		u := 1 - t
		pt := start.Times(u * u * u).
			Plus(c1.Times(3 * u * u * t)).
			Plus(c2.Times(3 * u * t * t)).
			Plus(end.Times(t * t * t))
		p.lineTo(pt)
	}
	p.pos = end
	p.lastCtrl = c2
}

func (p *pathParser) quadTo(ctrl, end geom.Coord) {
	start := p.pos
	steps := p.flattenSteps(start.DistanceFrom(ctrl) + ctrl.DistanceFrom(end))
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		u := 1 - t
		pt := start.Times(u * u).
			Plus(ctrl.Times(2 * u * t)).
			Plus(end.Times(t * t))
		p.lineTo(pt)
	}
	p.pos = end
	p.lastCtrl = ctrl
}

// flattenSteps picks the segment count for a curve whose control polygon
// has the given length, aiming for chords near the smoothness setting.
func (p *pathParser) flattenSteps(polygonLength float64) int {
	smoothness := p.smoothness
	if smoothness <= 0 {
		smoothness = 0.2
	}
	steps := int(math.Ceil(polygonLength / smoothness))
	if steps < 2 {
		steps = 2
	}
	if steps > 256 {
		steps = 256
	}
	return steps
}

func (p *pathParser) skipSeparators() {
	for p.index < len(p.data) {
		switch p.data[p.index] {
		case ' ', '\t', '\n', '\r', ',':
			p.index++
		default:
			return
		}
	}
}

func (p *pathParser) coordPair() (geom.Coord, error) {
	x, err := p.number()
	if err != nil {
		return geom.Coord{}, err
	}
	y, err := p.number()
	if err != nil {
		return geom.Coord{}, err
	}
	return geom.Coord{X: x, Y: y}, nil
}

func (p *pathParser) number() (float64, error) {
	p.skipSeparators()
	start := p.index
	if p.index < len(p.data) && (p.data[p.index] == '+' || p.data[p.index] == '-') {
		p.index++
	}
	digits := false
	for p.index < len(p.data) && p.data[p.index] >= '0' && p.data[p.index] <= '9' {
		p.index++
		digits = true
	}
	if p.index < len(p.data) && p.data[p.index] == '.' {
		p.index++
		for p.index < len(p.data) && p.data[p.index] >= '0' && p.data[p.index] <= '9' {
			p.index++
			digits = true
		}
	}
	if !digits {
		return 0, fmt.Errorf("expected number at offset %d in %q", start, p.data)
	}
	if p.index < len(p.data) && (p.data[p.index] == 'e' || p.data[p.index] == 'E') {
		p.index++
		if p.index < len(p.data) && (p.data[p.index] == '+' || p.data[p.index] == '-') {
			p.index++
		}
		for p.index < len(p.data) && p.data[p.index] >= '0' && p.data[p.index] <= '9' {
			p.index++
		}
	}

	var value float64
	if _, err := fmt.Sscanf(p.data[start:p.index], "%g", &value); err != nil {
		return 0, fmt.Errorf("bad number %q at offset %d", p.data[start:p.index], start)
	}
	return value, nil
}
