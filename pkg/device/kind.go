package device

import (
	"fmt"
	"math"
	"strings"
)

type Kind int

const (
	Battery Kind = iota
	Resistor
	Rheostat
	Bulb
	Switch
	Ammeter
	Voltmeter
	numKinds
)

// kindInfo is the per-kind table, indexed by Kind. Every kind below numKinds
// must have a row with a resistance rule.
type kindInfo struct {
	name         string
	prefix       string // label prefix
	defaultValue float64
	unit         string
	source       bool // voltage source, adds a branch current unknown
	load         bool // counts as a load for short detection
	resistance   func(p Params, c Component) float64
}

var kinds = [numKinds]kindInfo{
	Battery: {
		name: "BATTERY", prefix: "U", defaultValue: 12, unit: "V", source: true,
		resistance: func(Params, Component) float64 { return math.Inf(1) },
	},
	Resistor: {
		name: "RESISTOR", prefix: "R", defaultValue: 10, unit: "Ω", load: true,
		resistance: func(p Params, c Component) float64 { return math.Max(p.MinResistor, c.Value) },
	},
	Rheostat: {
		name: "RHEOSTAT", prefix: "RP", defaultValue: 10, unit: "Ω", load: true,
		resistance: func(p Params, c Component) float64 { return math.Max(p.MinRheostat, c.Value) },
	},
	Bulb: {
		name: "BULB", prefix: "L", load: true,
		resistance: func(p Params, _ Component) float64 { return p.Bulb },
	},
	Switch: {
		name: "SWITCH", prefix: "S",
		resistance: func(p Params, c Component) float64 {
			if c.Open {
				return math.Inf(1)
			}
			return p.SwitchContact
		},
	},
	Ammeter: {
		name: "AMMETER", prefix: "A",
		resistance: func(p Params, _ Component) float64 { return p.Ammeter },
	},
	Voltmeter: {
		name: "VOLTMETER", prefix: "V",
		resistance: func(Params, Component) float64 { return math.Inf(1) },
	},
}

// Kinds returns all component kinds in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, numKinds)
	for k := Kind(0); k < numKinds; k++ {
		out = append(out, k)
	}
	return out
}

func (k Kind) Valid() bool { return k >= 0 && k < numKinds }

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kinds[k].name
}

// Prefix is the label prefix used when numbering new parts ("R" for R1, R2...).
func (k Kind) Prefix() string {
	if !k.Valid() {
		return ""
	}
	return kinds[k].prefix
}

func (k Kind) DefaultValue() float64 {
	if !k.Valid() {
		return 0
	}
	return kinds[k].defaultValue
}

// Unit is the unit of Component.Value, empty when the value is unused.
func (k Kind) Unit() string {
	if !k.Valid() {
		return ""
	}
	return kinds[k].unit
}

// IsSource reports whether the kind is modeled as an ideal voltage source.
func (k Kind) IsSource() bool { return k.Valid() && kinds[k].source }

// IsLoad reports whether the kind is a load (resistor, rheostat, bulb).
func (k Kind) IsLoad() bool { return k.Valid() && kinds[k].load }

func ParseKind(s string) (Kind, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for k := Kind(0); k < numKinds; k++ {
		if kinds[k].name == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown component kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid component kind %d", int(k))
	}
	return []byte(kinds[k].name), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
