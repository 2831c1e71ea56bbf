package netlist

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/edp1096/toy-circuit/pkg/device"
	"github.com/edp1096/toy-circuit/pkg/topology"
)

type AnalysisType int

const (
	AnalysisOP AnalysisType = iota
	AnalysisDC
)

type NetlistData struct {
	Elements []Element       // Circuit elements
	Nodes    map[string]int  // Node name and index
	Analysis AnalysisType    // Analysis type
	Target   topology.Target // .target
	DCParam  struct {
		Component string
		Start     float64
		Stop      float64
		Increment float64
	}
	Title string // Circuit title
}

type Element struct {
	Kind  device.Kind
	Name  string   // Part name, also the component id
	Nodes []string // Node names, positive terminal first
	Value float64  // Part value
	Open  bool     // switch state
}

var unitMap = map[string]float64{
	"T":   1e12,  // tera
	"G":   1e9,   // giga
	"meg": 1e6,   // mega
	"K":   1e3,   // kilo
	"k":   1e3,   // kilo
	"m":   1e-3,  // milli
	"u":   1e-6,  // micro
	"n":   1e-9,  // nano
	"p":   1e-12, // pico
	"f":   1e-15, // femto
}

var (
	spaceRe = regexp.MustCompile(`\s+`)
	valueRe = regexp.MustCompile(`^([-+]?\d*\.?\d+(?:[eE][-+]?\d+)?)(meg|[TGKkmunpf])?s?$`)
)

// Parse reads a circuit netlist. The first line is the title. Element lines
// are "<name> <node+> <node-> [value] [open|closed]"; the kind comes from the
// name prefix (U battery, R resistor, RP rheostat, L bulb, S switch, A
// ammeter, V voltmeter). Pins that name the same node are wired together.
func Parse(input string) (*NetlistData, error) {
	scanner := bufio.NewScanner(strings.NewReader(input))
	netlistData := &NetlistData{
		Nodes: make(map[string]int),
	}

	// Title or comment
	if scanner.Scan() {
		netlistData.Title = strings.TrimPrefix(scanner.Text(), "*")
		netlistData.Title = strings.TrimSpace(netlistData.Title)
	}

	var currentLine string
	lineNo := 1
	startLine := 0
	flush := func() error {
		if currentLine == "" {
			return nil
		}
		if err := parseLine(netlistData, currentLine); err != nil {
			return fmt.Errorf("line %d: %w", startLine, err)
		}
		currentLine = ""
		return nil
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		// Inline comment
		if idx := strings.Index(line, "*"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if len(line) == 0 {
			continue
		}

		if strings.HasPrefix(line, "+") { // Line continue
			if currentLine != "" {
				currentLine += " " + strings.TrimSpace(line[1:])
			}
			continue
		}

		if err := flush(); err != nil {
			return nil, err
		}
		if strings.EqualFold(line, ".end") {
			break
		}
		currentLine = line
		startLine = lineNo
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading netlist: %w", err)
	}

	if err := flush(); err != nil {
		return nil, err
	}

	return netlistData, nil
}

func parseLine(netlistData *NetlistData, line string) error {
	line = spaceRe.ReplaceAllString(line, " ")

	if strings.HasPrefix(line, ".") {
		return parseDotOperator(netlistData, line)
	}

	element, err := parseElement(line)
	if err != nil {
		return err
	}

	for _, e := range netlistData.Elements {
		if strings.EqualFold(e.Name, element.Name) {
			return fmt.Errorf("duplicate element %s", element.Name)
		}
	}

	netlistData.Elements = append(netlistData.Elements, *element)
	for _, node := range element.Nodes {
		if _, exists := netlistData.Nodes[node]; !exists {
			netlistData.Nodes[node] = len(netlistData.Nodes)
		}
	}
	return nil
}

// Parse .op, .dc, .target
func parseDotOperator(netlistData *NetlistData, line string) error {
	var err error

	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case ".op":
		netlistData.Analysis = AnalysisOP

	case ".dc":
		netlistData.Analysis = AnalysisDC
		if len(fields) < 5 {
			return fmt.Errorf("insufficient DC sweep parameters, need component, start, stop and increment")
		}

		netlistData.DCParam.Component = fields[1]
		netlistData.DCParam.Start, err = ParseValue(fields[2])
		if err != nil {
			return fmt.Errorf("invalid start value: %w", err)
		}
		netlistData.DCParam.Stop, err = ParseValue(fields[3])
		if err != nil {
			return fmt.Errorf("invalid stop value: %w", err)
		}
		netlistData.DCParam.Increment, err = ParseValue(fields[4])
		if err != nil {
			return fmt.Errorf("invalid increment value: %w", err)
		}

	case ".target":
		if len(fields) < 2 {
			return fmt.Errorf("missing target topology")
		}
		netlistData.Target, err = topology.ParseTarget(fields[1])
		if err != nil {
			return err
		}

	default:
		return fmt.Errorf("unsupported control line: %s", fields[0])
	}

	return nil
}

// kindByPrefix resolves the element kind from its name. Longer prefixes are
// tried first so RP1 is a rheostat, not a resistor.
func kindByPrefix(name string) (device.Kind, bool) {
	upper := strings.ToUpper(name)
	best, bestLen := device.Kind(0), 0
	for _, k := range device.Kinds() {
		p := k.Prefix()
		if len(p) > bestLen && strings.HasPrefix(upper, p) {
			best, bestLen = k, len(p)
		}
	}
	return best, bestLen > 0
}

// Parse circuit element
func parseElement(line string) (*Element, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return nil, fmt.Errorf("invalid element format: %s", line)
	}

	kind, ok := kindByPrefix(fields[0])
	if !ok {
		return nil, fmt.Errorf("unknown element type: %s", fields[0])
	}

	elem := &Element{
		Kind:  kind,
		Name:  fields[0],
		Nodes: fields[1:3],
		Value: kind.DefaultValue(),
		Open:  kind == device.Switch,
	}

	for _, f := range fields[3:] {
		switch strings.ToLower(f) {
		case "open", "off":
			if kind != device.Switch {
				return nil, fmt.Errorf("%s: only switches can be open", elem.Name)
			}
			elem.Open = true
			continue
		case "closed", "on":
			if kind != device.Switch {
				return nil, fmt.Errorf("%s: only switches can be closed", elem.Name)
			}
			elem.Open = false
			continue
		}

		value, err := ParseValue(strings.TrimSuffix(strings.TrimSuffix(f, kind.Unit()), "ohm"))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", elem.Name, err)
		}
		elem.Value = value
	}

	return elem, nil
}

// ParseValue - Parse value and factor. 1k -> 1000
func ParseValue(val string) (float64, error) {
	matches := valueRe.FindStringSubmatch(strings.TrimSpace(val))

	if matches == nil {
		return 0, fmt.Errorf("invalid value format: %s", val)
	}

	num, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, err
	}

	// factor
	if len(matches) > 2 && matches[2] != "" {
		if multiplier, ok := unitMap[matches[2]]; ok {
			num *= multiplier
		}
	}

	return num, nil
}

// Circuit converts the parsed elements into components and wires. Every pin
// on a node is wired to the first pin seen on that node.
func (n *NetlistData) Circuit() ([]device.Component, []device.Wire) {
	components := make([]device.Component, 0, len(n.Elements))
	var wires []device.Wire

	first := make(map[string]device.Pin, len(n.Nodes))
	for _, e := range n.Elements {
		components = append(components, device.Component{
			ID:    e.Name,
			Kind:  e.Kind,
			Value: e.Value,
			Open:  e.Open,
			Label: e.Name,
		})

		for idx, node := range e.Nodes {
			p := device.Pin{Component: e.Name, Index: idx}
			head, seen := first[node]
			if !seen {
				first[node] = p
				continue
			}
			wires = append(wires, device.Wire{
				ID:   fmt.Sprintf("%s:%s", node, p),
				From: head,
				To:   p,
			})
		}
	}

	return components, wires
}
