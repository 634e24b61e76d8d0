package gcode

import (
	"bufio"
	"fmt"
	"io"

	"plotpath/pkg/cfg"
	"plotpath/pkg/geometry"
)

// Config selects the controller dialect and feed rates. Zero-valued fields
// fall back to the defaults in pkg/cfg.
type Config struct {
	FeedRate   float64 // pen-down drawing feed, mm/min
	TravelRate float64 // pen-up rapid feed, mm/min
	PenUp      string
	PenDown    string
}

// Writer emits the textual motion-command stream. It tracks pen state so
// that a draw move can never be written with the pen up, and a travel move
// can never be written with the pen down. Failing either way would leave
// marks on the medium, so the transitions are enforced here rather than
// left to callers.
type Writer struct {
	w       *bufio.Writer
	cfg     Config
	penDown bool
}

func NewWriter(w io.Writer, config *Config) *Writer {
	var c Config
	if config != nil {
		c = *config
	}
	if c.FeedRate == 0 {
		c.FeedRate = cfg.FeedRate
	}
	if c.TravelRate == 0 {
		c.TravelRate = cfg.TravelRate
	}
	if c.PenUp == "" {
		c.PenUp = cfg.PenUpCommand
	}
	if c.PenDown == "" {
		c.PenDown = cfg.PenDownCommand
	}
	return &Writer{w: bufio.NewWriter(w), cfg: c}
}

// Preamble declares units and absolute positioning, sets the feed rates,
// and raises the pen. The pen is considered up from here on.
func (g *Writer) Preamble() {
	fmt.Fprintln(g.w, "G21 ;metric values")
	fmt.Fprintln(g.w, "G90 ;absolute positioning")
	fmt.Fprintf(g.w, "G1 F%0.2f\n", g.cfg.FeedRate)
	fmt.Fprintf(g.w, "G0 F%0.2f\n", g.cfg.TravelRate)
	fmt.Fprintf(g.w, "%s (pen up)\n", g.cfg.PenUp)
	g.penDown = false
}

// PenUp raises the pen. Writes nothing if it is already up.
func (g *Writer) PenUp() {
	if g.penDown {
		fmt.Fprintf(g.w, "%s (pen up)\n", g.cfg.PenUp)
		g.penDown = false
	}
}

// PenDown lowers the pen. Writes nothing if it is already down.
func (g *Writer) PenDown() {
	if !g.penDown {
		fmt.Fprintf(g.w, "%s (pen down)\n", g.cfg.PenDown)
		g.penDown = true
	}
}

// Travel rapid-moves to (x, y), raising the pen first if needed.
func (g *Writer) Travel(x, y float64) {
	g.PenUp()
	fmt.Fprintf(g.w, "G0 X%0.2f Y%0.2f\n", x, y)
}

// Draw feed-moves to (x, y), lowering the pen first if needed.
func (g *Writer) Draw(x, y float64) {
	g.PenDown()
	fmt.Fprintf(g.w, "G1 X%0.2f Y%0.2f\n", x, y)
}

// Postamble raises the pen and sends the machine home.
func (g *Writer) Postamble() {
	g.PenUp()
	fmt.Fprintln(g.w, "G00 X00 Y00")
}

func (g *Writer) Flush() error {
	return g.w.Flush()
}

// EmitRoute writes the full command stream for the ordered polylines:
// header, then one rapid travel to each polyline's first point followed by
// draw moves through its remaining points, then footer. No pen transition
// is written between points of the same polyline.
func EmitRoute(w io.Writer, ordered []geometry.Polyline, config *Config) error {
	g := NewWriter(w, config)
	g.Preamble()
	for _, line := range ordered {
		if len(line) == 0 {
			continue
		}
		g.Travel(line[0].X, line[0].Y)
		g.PenDown()
		for _, p := range line[1:] {
			g.Draw(p.X, p.Y)
		}
	}
	g.Postamble()
	return g.Flush()
}
