package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/edp1096/toy-circuit/pkg/analysis"
	"github.com/edp1096/toy-circuit/pkg/board"
	"github.com/edp1096/toy-circuit/pkg/chart"
	"github.com/edp1096/toy-circuit/pkg/lab"
	"github.com/edp1096/toy-circuit/pkg/matrix"
	"github.com/edp1096/toy-circuit/pkg/netlist"
	"github.com/edp1096/toy-circuit/pkg/topology"
)

var (
	targetFlag  = flag.String("target", "", "topology goal: series or parallel")
	backendFlag = flag.String("backend", "dense", "matrix backend: dense or sparse")
	sweepFlag   = flag.String("sweep", "", "component id to sweep (overrides .dc)")
	fromFlag    = flag.Float64("from", 0, "sweep start value")
	toFlag      = flag.Float64("to", 50, "sweep stop value")
	stepFlag    = flag.Float64("step", 1, "sweep increment")
	chartFlag   = flag.String("chart", "", "write the sweep power curve to this file (.png, .svg, .pdf)")
	jsonFlag    = flag.Bool("json", false, "print the report as JSON")
	layoutFlag  = flag.Bool("layout", false, "input is a generated layout response")
	netlistFlag = flag.Bool("netlist", false, "print the circuit as a netlist and exit")
	verboseFlag = flag.Bool("v", false, "debug logging to stderr")
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatal("Usage: circuit [flags] <netlist|snapshot.json>")
	}

	in, err := loadInput(flag.Arg(0), *layoutFlag)
	if err != nil {
		log.Fatalf("Error loading circuit: %v", err)
	}
	if *targetFlag != "" {
		if in.Target, err = topology.ParseTarget(*targetFlag); err != nil {
			log.Fatalf("Error parsing target: %v", err)
		}
	}

	if *netlistFlag {
		if err := netlist.Write(os.Stdout, in.Title, in.Snapshot.Components, in.Snapshot.Wires); err != nil {
			log.Fatalf("Error writing netlist: %v", err)
		}
		return
	}

	opts, err := options()
	if err != nil {
		log.Fatal(err)
	}

	if err := board.Validate(in.Snapshot.Components, in.Snapshot.Wires); err != nil {
		log.Printf("warning: %v", err)
	}

	report, err := lab.Evaluate(context.Background(), in.Snapshot, in.Target, opts...)
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}

	if *sweepFlag != "" {
		in.Sweep = &sweepParam{Component: *sweepFlag, Start: *fromFlag, Stop: *toFlag, Increment: *stepFlag}
	}
	var points []analysis.SweepPoint
	if in.Sweep != nil {
		s := in.Sweep
		points, err = analysis.Sweep(in.Snapshot.Components, in.Snapshot.Wires, s.Component, s.Start, s.Stop, s.Increment, opts...)
		if err != nil {
			log.Fatalf("Sweep failed: %v", err)
		}
		if *chartFlag != "" {
			if err := writeChart(*chartFlag, s.Component, points); err != nil {
				log.Fatalf("Chart failed: %v", err)
			}
		}
	}

	if *jsonFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		out := struct {
			lab.Report
			Sweep []analysis.SweepPoint `json:"sweep,omitempty"`
		}{report, points}
		if err := enc.Encode(out); err != nil {
			log.Fatalf("Error encoding report: %v", err)
		}
		return
	}

	printReport(os.Stdout, in.Title, report)
	if in.Sweep != nil {
		printSweep(os.Stdout, in.Sweep.Component, points)
	}
}

func options() ([]analysis.Option, error) {
	backend, err := matrix.ParseBackend(*backendFlag)
	if err != nil {
		return nil, err
	}
	opts := []analysis.Option{analysis.WithBackend(backend)}
	if *verboseFlag {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, analysis.WithLogger(logger))
	}
	return opts, nil
}

func writeChart(path, id string, points []analysis.SweepPoint) error {
	p, err := chart.Sweep(points, id, id, chart.Power)
	if err != nil {
		return err
	}
	if peak, ok := chart.Peak(chart.XYs(points, id, chart.Power)); ok {
		if err := chart.Mark(p, peak.X, peak.Y); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if err := chart.Render(f, p, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("chart written to %s\n", path)
	return nil
}
