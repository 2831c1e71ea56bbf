// Package layout turns the grid description returned by an image recognizer
// into a placed, wired circuit that the solver accepts.
package layout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/edp1096/toy-circuit/pkg/board"
	"github.com/edp1096/toy-circuit/pkg/device"
)

const (
	gridX   = 150.0
	gridY   = 120.0
	offsetX = 150.0
	offsetY = 100.0

	// neighbours closer than this horizontally count as stacked
	alignTolerance = 50.0
)

// Part is one recognized component on the grid.
type Part struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Row  int    `json:"row"`
	Col  int    `json:"col"`
}

// Connection is one recognized wire between two parts.
type Connection struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Response is the recognizer output.
type Response struct {
	Components  []Part       `json:"components"`
	Connections []Connection `json:"connections"`
}

// Placement is where a part sits on the canvas.
type Placement struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation int     `json:"rotation"`
}

type Layout struct {
	Components []device.Component   `json:"components"`
	Wires      []device.Wire        `json:"wires"`
	Placements map[string]Placement `json:"placements"`
}

func (l Layout) Snapshot() board.Snapshot {
	return board.Snapshot{Components: l.Components, Wires: l.Wires}
}

var keywords = []struct {
	kind  device.Kind
	words []string
}{
	{device.Battery, []string{"BATTERY", "SOURCE", "POWER"}},
	{device.Rheostat, []string{"RHEOSTAT", "VARIABLE"}},
	{device.Bulb, []string{"BULB", "LAMP", "LIGHT"}},
	{device.Switch, []string{"SWITCH", "KEY"}},
	{device.Ammeter, []string{"AMMETER"}},
	{device.Voltmeter, []string{"VOLT"}},
	{device.Resistor, []string{"RESISTOR"}},
}

// NormalizeKind maps a free-form type name to a kind by keyword, first match
// wins. Unrecognized names become resistors.
func NormalizeKind(raw string) device.Kind {
	name := strings.ToUpper(raw)
	for _, k := range keywords {
		for _, w := range k.words {
			if strings.Contains(name, w) {
				return k.kind
			}
		}
	}
	return device.Resistor
}

// Convert places parts on the grid and wires them greedily: the source's
// right pin goes to the target's left pin, flipped when the source sits to
// the right. Connections to unknown parts, self connections and repeated pin
// pairs are dropped.
func Convert(r Response) (Layout, error) {
	l := Layout{
		Components: make([]device.Component, 0, len(r.Components)),
		Wires:      make([]device.Wire, 0, len(r.Connections)),
		Placements: make(map[string]Placement, len(r.Components)),
	}

	for _, p := range r.Components {
		if p.ID == "" {
			return Layout{}, fmt.Errorf("part %d: empty id", len(l.Components))
		}
		if _, dup := l.Placements[p.ID]; dup {
			return Layout{}, fmt.Errorf("part %s: %w", p.ID, board.ErrDuplicateID)
		}

		kind := NormalizeKind(p.Type)
		c := device.Component{
			ID:    p.ID,
			Kind:  kind,
			Value: kind.DefaultValue(),
			Open:  kind == device.Switch,
			Label: fmt.Sprintf("%s%d", kind.String()[:1], len(l.Components)+1),
		}
		l.Components = append(l.Components, c)
		l.Placements[p.ID] = Placement{
			X: offsetX + float64(p.Col)*gridX,
			Y: offsetY + float64(p.Row)*gridY,
		}
	}

	type pair struct{ a, b device.Pin }
	seen := make(map[pair]struct{})
	for idx, conn := range r.Connections {
		src, okS := l.Placements[conn.Source]
		dst, okT := l.Placements[conn.Target]
		if !okS || !okT || conn.Source == conn.Target {
			continue
		}

		sPin, tPin := 1, 0
		if src.X > dst.X {
			sPin, tPin = 0, 1
		}
		from := device.Pin{Component: conn.Source, Index: sPin}
		to := device.Pin{Component: conn.Target, Index: tPin}
		if _, dup := seen[pair{from, to}]; dup {
			continue
		}
		seen[pair{from, to}] = struct{}{}
		seen[pair{to, from}] = struct{}{}

		l.Wires = append(l.Wires, device.Wire{
			ID:   fmt.Sprintf("wire_%d", idx),
			From: from,
			To:   to,
		})
	}

	l.rotateStacked()

	if err := board.Validate(l.Components, l.Wires); err != nil {
		return Layout{}, fmt.Errorf("converted layout is invalid: %w", err)
	}
	return l, nil
}

// rotateStacked turns a part upright when it has exactly two wires and both
// neighbours sit above or below it.
func (l *Layout) rotateStacked() {
	for _, c := range l.Components {
		var neighbours []Placement
		for _, w := range l.Wires {
			switch c.ID {
			case w.From.Component:
				neighbours = append(neighbours, l.Placements[w.To.Component])
			case w.To.Component:
				neighbours = append(neighbours, l.Placements[w.From.Component])
			}
		}
		if len(neighbours) != 2 {
			continue
		}

		self := l.Placements[c.ID]
		vertical := true
		for _, n := range neighbours {
			if math.Abs(n.X-self.X) >= alignTolerance {
				vertical = false
			}
		}
		if vertical {
			self.Rotation = 90
			l.Placements[c.ID] = self
		}
	}
}

// Decode reads a recognizer response. Markdown code fences around the JSON
// are tolerated.
func Decode(r io.Reader) (Response, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Response{}, fmt.Errorf("reading layout: %w", err)
	}

	data = bytes.TrimSpace(data)
	if bytes.HasPrefix(data, []byte("```")) {
		if nl := bytes.IndexByte(data, '\n'); nl >= 0 {
			data = data[nl+1:]
		}
		data = bytes.TrimSuffix(bytes.TrimSpace(data), []byte("```"))
	}

	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return Response{}, fmt.Errorf("decoding layout: %w", err)
	}
	return resp, nil
}
