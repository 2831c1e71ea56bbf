package device

import (
	"fmt"
	"math"

	"github.com/edp1096/toy-circuit/internal/consts"
	"github.com/edp1096/toy-circuit/pkg/matrix"
)

// Component is a two-terminal part as placed by the user. It carries input
// only; solver output lives in analysis.Reading.
type Component struct {
	ID   string `json:"id"`
	Kind Kind   `json:"type"`
	// Volts for BATTERY, ohms for RESISTOR and RHEOSTAT, unused otherwise.
	Value float64 `json:"value"`
	// Open is only meaningful for SWITCH.
	Open  bool   `json:"isOpen,omitempty"`
	Label string `json:"label,omitempty"`
}

// Pin is one terminal of a component. Index 0 is the positive terminal of a
// battery.
type Pin struct {
	Component string `json:"componentId"`
	Index     int    `json:"pinIndex"`
}

func (p Pin) String() string { return fmt.Sprintf("%s.%d", p.Component, p.Index) }

// Wire is an undirected ideal connection between two pins.
type Wire struct {
	ID   string `json:"id"`
	From Pin    `json:"source"`
	To   Pin    `json:"target"`
}

// Params holds the effective-resistance rules shared by assembly and result
// extraction.
type Params struct {
	MinResistor   float64
	MinRheostat   float64
	Bulb          float64
	Ammeter       float64
	SwitchContact float64
}

func DefaultParams() Params {
	return Params{
		MinResistor:   consts.MIN_RESISTOR,
		MinRheostat:   consts.MIN_RHEOSTAT,
		Bulb:          consts.BULB,
		Ammeter:       consts.AMMETER,
		SwitchContact: consts.SWITCH_CONTACT,
	}
}

// Resistance returns the effective resistance of c. Open switches, voltmeters
// and batteries report +Inf.
func (p Params) Resistance(c Component) float64 {
	if !c.Kind.Valid() {
		return math.Inf(1)
	}
	return kinds[c.Kind].resistance(p, c)
}

type Device interface {
	GetName() string
	GetKind() Kind
	GetNodes() []int
	SetNodes(nodes []int)
	Stamp(matrix matrix.DeviceMatrix) error
}

type BaseDevice struct {
	Name  string
	Kind  Kind
	Nodes []int
	Value float64
}

func (d *BaseDevice) GetName() string { return d.Name }

func (d *BaseDevice) GetKind() Kind { return d.Kind }

func (d *BaseDevice) GetNodes() []int { return d.Nodes }

func (d *BaseDevice) SetNodes(nodes []int) { d.Nodes = nodes }

// New creates the stampable device for c. Batteries become voltage sources,
// everything else a conductor with the effective resistance from p.
func New(c Component, p Params) (Device, error) {
	if !c.Kind.Valid() {
		return nil, fmt.Errorf("component %s: invalid kind %d", c.ID, int(c.Kind))
	}
	if c.Kind.IsSource() {
		return NewBattery(c.ID, c.Value), nil
	}
	return NewConductor(c.ID, c.Kind, p.Resistance(c)), nil
}
