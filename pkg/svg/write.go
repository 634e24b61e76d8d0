package svg

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"github.com/jbeda/geom"

	"plotpath/pkg/geometry"
)

const drawStyle = "fill:none;stroke:#000000;stroke-width:0.5;stroke-linecap:round"

// Dashed magenta, so pen-up transits stand out from the drawing itself.
const travelStyle = "fill:none;stroke:#c900ce;stroke-width:0.5;stroke-linecap:butt;stroke-dasharray:0.5,0.5"

// WriteRoute serializes the ordered polylines back to SVG for inspection of
// the optimized order. With showTravel set, a dashed path per pen-up
// transit is added, starting from the given pen start position.
func WriteRoute(w io.Writer, width, height float64, ordered []geometry.Polyline, start geom.Coord, showTravel bool) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("svg")
	root.CreateAttr("xmlns", "http://www.w3.org/2000/svg")
	root.CreateAttr("width", formatNumber(width))
	root.CreateAttr("height", formatNumber(height))
	root.CreateAttr("viewBox", fmt.Sprintf("0 0 %s %s", formatNumber(width), formatNumber(height)))

	for _, line := range ordered {
		if len(line) == 0 {
			continue
		}
		path := root.CreateElement("path")
		path.CreateAttr("d", pathData(line))
		path.CreateAttr("style", drawStyle)
	}

	if showTravel {
		travel := root.CreateElement("path")
		travel.CreateAttr("id", "travel_indicators")
		var d strings.Builder
		pos := start
		for _, line := range ordered {
			if len(line) == 0 {
				continue
			}
			if !geometry.AlmostEqualsCoord(pos, line.Start()) {
				fmt.Fprintf(&d, "M%s %s L%s %s ",
					formatNumber(pos.X), formatNumber(pos.Y),
					formatNumber(line.Start().X), formatNumber(line.Start().Y))
			}
			pos = line.End()
		}
		travel.CreateAttr("d", strings.TrimSpace(d.String()))
		travel.CreateAttr("style", travelStyle)
	}

	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}

func pathData(line geometry.Polyline) string {
	var d strings.Builder
	fmt.Fprintf(&d, "M%s %s", formatNumber(line[0].X), formatNumber(line[0].Y))
	for _, p := range line[1:] {
		fmt.Fprintf(&d, " L%s %s", formatNumber(p.X), formatNumber(p.Y))
	}
	return d.String()
}

func formatNumber(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", v), "0"), ".")
}
