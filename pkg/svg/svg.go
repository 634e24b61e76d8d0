package svg

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/jbeda/geom"

	"plotpath/pkg/geometry"
)

// Document is a parsed drawing: the declared page size and the pen strokes
// extracted from it, all in document units.
type Document struct {
	Width  float64
	Height float64
	Paths  []geometry.Polyline
}

// Parse extracts polylines from SVG data. Curved elements are flattened to
// line segments; smoothness is the target chord length in document units.
func Parse(data []byte, smoothness float64) (*Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("svg read: %w", err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "svg" {
		return nil, fmt.Errorf("svg read: missing svg root element")
	}

	out := &Document{}
	width := root.SelectAttrValue("width", "")
	height := root.SelectAttrValue("height", "")
	if width == "" || height == "" {
		if fields := strings.Fields(root.SelectAttrValue("viewBox", "")); len(fields) == 4 {
			width, height = fields[2], fields[3]
		}
	}
	if width == "" || height == "" {
		return nil, fmt.Errorf("svg read: unable to determine width and height")
	}
	out.Width = parseLength(width)
	out.Height = parseLength(height)

	var walk func(el *etree.Element) error
	walk = func(el *etree.Element) error {
		if err := out.addElement(el, smoothness); err != nil {
			return err
		}
		for _, child := range el.ChildElements() {
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root); err != nil {
		return nil, err
	}
	return out, nil
}

// parseLength reads a number with an optional unit suffix ("297mm", "100").
// The numeric value is returned as-is; unit conversion is not attempted
// since all coordinates get refit to the plot frame anyway.
func parseLength(s string) float64 {
	s = strings.TrimSpace(s)
	end := len(s)
	for end > 0 && (s[end-1] < '0' || s[end-1] > '9') && s[end-1] != '.' {
		end--
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return v
}

func attrFloat(el *etree.Element, name string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(el.SelectAttrValue(name, "")), 64)
	if err != nil {
		return fallback
	}
	return v
}

func (d *Document) addElement(el *etree.Element, smoothness float64) error {
	switch el.Tag {
	case "line":
		d.Paths = append(d.Paths, geometry.Polyline{
			{X: attrFloat(el, "x1", 0), Y: attrFloat(el, "y1", 0)},
			{X: attrFloat(el, "x2", 0), Y: attrFloat(el, "y2", 0)},
		})
	case "rect":
		x := attrFloat(el, "x", 0)
		y := attrFloat(el, "y", 0)
		w := attrFloat(el, "width", 0)
		h := attrFloat(el, "height", 0)
		d.Paths = append(d.Paths, geometry.Polyline{
			{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}, {X: x, Y: y},
		})
	case "polyline", "polygon":
		points, err := parsePoints(el.SelectAttrValue("points", ""))
		if err != nil {
			return fmt.Errorf("%s: %w", el.Tag, err)
		}
		if len(points) == 0 {
			return nil
		}
		if el.Tag == "polygon" && !points.IsClosed() {
			points = append(points, points[0])
		}
		d.Paths = append(d.Paths, points)
	case "circle":
		d.addEllipse(el, attrFloat(el, "r", 0), attrFloat(el, "r", 0), smoothness)
	case "ellipse":
		d.addEllipse(el, attrFloat(el, "rx", 0), attrFloat(el, "ry", 0), smoothness)
	case "path":
		paths, err := parsePathData(el.SelectAttrValue("d", ""), smoothness)
		if err != nil {
			return fmt.Errorf("path: %w", err)
		}
		d.Paths = append(d.Paths, paths...)
	}
	return nil
}

func (d *Document) addEllipse(el *etree.Element, rx, ry, smoothness float64) {
	if rx <= 0 || ry <= 0 {
		return
	}
	cx := attrFloat(el, "cx", 0)
	cy := attrFloat(el, "cy", 0)

	if smoothness <= 0 {
		smoothness = 0.2
	}
	circumference := math.Pi * (3*(rx+ry) - math.Sqrt((3*rx+ry)*(rx+3*ry)))
	steps := int(math.Ceil(circumference / smoothness))
	if steps < 8 {
		steps = 8
	}
	if steps > 1024 {
		steps = 1024
	}

	line := make(geometry.Polyline, 0, steps+1)
	for i := 0; i <= steps; i++ {
		theta := 2 * math.Pi * float64(i) / float64(steps)
		line = append(line, geom.Coord{X: cx + rx*math.Cos(theta), Y: cy + ry*math.Sin(theta)})
	}
	// Close exactly; the loop's last point already coincides within rounding.
	line[len(line)-1] = line[0]
	d.Paths = append(d.Paths, line)
}

func parsePoints(s string) (geometry.Polyline, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields)%2 != 0 {
		return nil, fmt.Errorf("odd coordinate count in points list %q", s)
	}
	var line geometry.Polyline
	for i := 0; i < len(fields); i += 2 {
		x, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("bad coordinate %q", fields[i])
		}
		y, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return nil, fmt.Errorf("bad coordinate %q", fields[i+1])
		}
		line = append(line, geom.Coord{X: x, Y: y})
	}
	return line, nil
}
