package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/edp1096/toy-circuit/pkg/analysis"
	"github.com/edp1096/toy-circuit/pkg/device"
	"github.com/edp1096/toy-circuit/pkg/lab"
	"github.com/edp1096/toy-circuit/pkg/util"
)

func printReport(w io.Writer, title string, r lab.Report) {
	fmt.Fprintf(w, "\n%s\n", title)
	fmt.Fprintln(w, strings.Repeat("=", max(len(title), 16)))

	fmt.Fprintf(w, "\nTopology: %s (loops=%d, branches=%d)\n", r.Topology.Kind, r.Topology.Loops, r.Topology.Branches)
	fmt.Fprintf(w, "%s\n", r.Feedback)
	if r.Success {
		fmt.Fprintln(w, "Target reached.")
	}

	res := r.Solve
	if msg := res.Message(); msg != "" {
		fmt.Fprintf(w, "\n! %s\n", msg)
		if res.Cause != nil {
			fmt.Fprintf(w, "  cause: %v\n", res.Cause)
		}
	}

	if len(res.NodeVoltages) > 0 {
		fmt.Fprintln(w, "\nNode Voltages:")
		for i, v := range res.NodeVoltages {
			fmt.Fprintf(w, "V(%d) = %s\n", i, util.FormatVoltage(v))
		}
	}

	fmt.Fprintln(w, "\nComponents:")
	fmt.Fprintln(w, "Name        Current        Voltage        Power")
	fmt.Fprintln(w, "------------------------------------------------------")
	for _, rd := range res.Readings {
		fmt.Fprintf(w, "%-10s  %-13s  %-13s  %s",
			name(rd.Component),
			util.FormatCurrent(rd.Current),
			util.FormatVoltage(rd.VoltageDrop),
			util.FormatPower(rd.Power()))
		switch rd.Component.Kind {
		case device.Bulb:
			fmt.Fprintf(w, "  glow %s", util.FormatPercent(rd.Brightness()))
		case device.Switch:
			if rd.Component.Open {
				fmt.Fprint(w, "  open")
			} else {
				fmt.Fprint(w, "  closed")
			}
		}
		fmt.Fprintln(w)
	}
}

func printSweep(w io.Writer, target string, points []analysis.SweepPoint) {
	fmt.Fprintf(w, "\nDC Sweep Analysis Results (%d points):\n", len(points))
	fmt.Fprintln(w, "Sweep Values    Branch Currents")
	fmt.Fprintln(w, "------------------------------------------------")

	for _, p := range points {
		fmt.Fprintf(w, "%s=%-9g  ", target, p.Value)
		if !p.Result.OK() {
			fmt.Fprintf(w, "%s\n", p.Result.Message())
			continue
		}
		readings := append([]analysis.Reading(nil), p.Result.Readings...)
		sort.Slice(readings, func(i, j int) bool { return readings[i].Component.ID < readings[j].Component.ID })
		for _, rd := range readings {
			fmt.Fprintf(w, "I(%s)=%s  ", rd.Component.ID, util.FormatCurrent(rd.Current))
		}
		if p.Result.Err != nil {
			fmt.Fprint(w, "(!)")
		}
		fmt.Fprintln(w)
	}
}

func name(c device.Component) string {
	if c.Label != "" {
		return c.Label
	}
	return c.ID
}
