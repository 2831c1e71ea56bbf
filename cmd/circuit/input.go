package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/edp1096/toy-circuit/pkg/board"
	"github.com/edp1096/toy-circuit/pkg/lab"
	"github.com/edp1096/toy-circuit/pkg/layout"
	"github.com/edp1096/toy-circuit/pkg/netlist"
	"github.com/edp1096/toy-circuit/pkg/topology"
)

type sweepParam struct {
	Component string
	Start     float64
	Stop      float64
	Increment float64
}

type input struct {
	Title    string
	Snapshot board.Snapshot
	Target   topology.Target
	Sweep    *sweepParam
}

// loadInput reads a board snapshot (.json), a generated layout (-layout) or
// a netlist (anything else).
func loadInput(path string, isLayout bool) (*input, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	switch {
	case isLayout:
		resp, err := layout.Decode(bytes.NewReader(content))
		if err != nil {
			return nil, err
		}
		l, err := layout.Convert(resp)
		if err != nil {
			return nil, err
		}
		return &input{Title: title, Snapshot: l.Snapshot()}, nil

	case strings.EqualFold(filepath.Ext(path), ".json"):
		var req lab.Request
		if err := json.Unmarshal(content, &req); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
		return &input{Title: title, Snapshot: req.Snapshot, Target: req.Target}, nil
	}

	nl, err := netlist.Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parsing netlist: %w", err)
	}
	components, wires := nl.Circuit()
	in := &input{
		Title:    nl.Title,
		Snapshot: board.Snapshot{Components: components, Wires: wires},
		Target:   nl.Target,
	}
	if nl.Analysis == netlist.AnalysisDC {
		p := nl.DCParam
		in.Sweep = &sweepParam{Component: p.Component, Start: p.Start, Stop: p.Stop, Increment: p.Increment}
	}
	return in, nil
}
