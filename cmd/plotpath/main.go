package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/jbeda/geom"

	"plotpath/pkg/cfg"
	"plotpath/pkg/gcode"
	"plotpath/pkg/geometry"
	"plotpath/pkg/route"
	"plotpath/pkg/svg"
	"plotpath/pkg/transform"
)

func main() {
	out := flag.String("out", "", "output G-code file (default: stdout)")
	vis := flag.String("vis", "", "write the optimized drawing as SVG to this file, with pen-up transits marked")
	width := flag.Float64("width", cfg.FrameWidth, "plot frame width (mm)")
	height := flag.Float64("height", cfg.FrameHeight, "plot frame height (mm)")
	originX := flag.Float64("originx", 0, "plot frame origin X (mm)")
	originY := flag.Float64("originy", 0, "plot frame origin Y (mm)")
	rotate := flag.Bool("rotate", false, "rotate the drawing 90 degrees before fitting")
	noUpscale := flag.Bool("noupscale", false, "never scale the drawing above its native size")
	opt := flag.Int("opt", 0, "number of 2-opt refinement passes after the greedy pass")
	noopt := flag.Bool("noopt", false, "keep the input path order")
	merge := flag.Float64("merge", 0, "join paths whose endpoints are within this distance (document units)")
	simplify := flag.Float64("simplify", 0, "simplify paths with this tolerance before routing (document units)")
	feed := flag.Float64("feed", cfg.FeedRate, "pen-down feed rate (mm/min)")
	smoothness := flag.Float64("smoothness", cfg.Smoothness, "curve flattening chord length (document units)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] svg-file\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("file read error: %s", err)
	}

	doc, err := svg.Parse(data, *smoothness)
	if err != nil {
		log.Fatalf("parse error: %s", err)
	}
	paths := doc.Paths
	drawn := 0.0
	for _, line := range paths {
		drawn += line.Length()
	}
	fmt.Fprintf(os.Stderr, "Total number of paths: %d\n", len(paths))
	fmt.Fprintf(os.Stderr, "Total drawn length: %.2f\n", drawn)

	if *simplify > 0 {
		for i, line := range paths {
			paths[i] = line.Simplify(*simplify)
		}
	}

	start := geom.Coord{}
	if len(paths) > 0 {
		start = paths[0].Start()
	}

	var ordered []geometry.Polyline
	if *noopt {
		ordered = paths
	} else {
		fmt.Fprintf(os.Stderr, "Initial travel: %.2f\n", route.Identity(paths).TravelCost(paths, start))
		tour, err := route.Greedy(paths, start)
		if err != nil {
			log.Fatalf("routing error: %s", err)
		}
		fmt.Fprintf(os.Stderr, "Travel after greedy pass: %.2f\n", tour.TravelCost(paths, start))
		if *opt > 0 {
			tour = tour.Refine(paths, start, *opt)
			fmt.Fprintf(os.Stderr, "Travel after refinement: %.2f\n", tour.TravelCost(paths, start))
		}
		ordered = tour.Apply(paths)
	}

	if *merge > 0 {
		before := len(ordered)
		ordered = route.MergeClose(ordered, *merge)
		fmt.Fprintf(os.Stderr, "Paths merged: %d -> %d\n", before, len(ordered))
	}

	if *vis != "" {
		f, err := os.Create(*vis)
		if err != nil {
			log.Fatalf("vis file error: %s", err)
		}
		err = svg.WriteRoute(f, doc.Width, doc.Height, ordered, start, true)
		if err == nil {
			err = f.Close()
		}
		if err != nil {
			log.Fatalf("vis write error: %s", err)
		}
	}

	frame := transform.Frame{X: *originX, Y: *originY, Width: *width, Height: *height}
	fitted, err := transform.Fit(ordered, frame, transform.Options{
		Rotate:    *rotate,
		NoUpscale: *noUpscale,
	})
	if err != nil {
		log.Fatalf("transform error: %s", err)
	}

	var w io.Writer = os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatalf("output file error: %s", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				log.Fatalf("output close error: %s", err)
			}
		}()
		w = f
	}

	if err := gcode.EmitRoute(w, fitted, &gcode.Config{FeedRate: *feed}); err != nil {
		log.Fatalf("gcode write error: %s", err)
	}
}
