package device

import (
	"fmt"
	"math"

	"github.com/edp1096/toy-circuit/pkg/matrix"
)

// Conductor is any two-terminal part modeled as a linear resistance:
// resistors, rheostats, bulbs, switches and meters.
type Conductor struct {
	BaseDevice
	Resistance float64
}

func NewConductor(name string, kind Kind, resistance float64) *Conductor {
	return &Conductor{
		BaseDevice: BaseDevice{
			Name:  name,
			Kind:  kind,
			Nodes: make([]int, 2),
			Value: resistance,
		},
		Resistance: resistance,
	}
}

// Conductance is 1/R, zero for an open path.
func (r *Conductor) Conductance() float64 {
	if math.IsInf(r.Resistance, 1) {
		return 0
	}
	return 1.0 / r.Resistance
}

func (r *Conductor) Stamp(matrix matrix.DeviceMatrix) error {
	if len(r.Nodes) != 2 {
		return fmt.Errorf("%s %s: requires exactly 2 nodes", r.Kind, r.Name)
	}
	if math.IsInf(r.Resistance, 1) {
		return nil // voltmeter, open switch
	}
	if r.Resistance <= 0 || math.IsNaN(r.Resistance) {
		return fmt.Errorf("%s %s: invalid resistance %g", r.Kind, r.Name, r.Resistance)
	}

	n1, n2 := r.Nodes[0], r.Nodes[1]
	g := 1.0 / r.Resistance

	if n1 != 0 {
		matrix.AddElement(n1, n1, g)
		if n2 != 0 {
			matrix.AddElement(n1, n2, -g)
		}
	}
	if n2 != 0 {
		if n1 != 0 {
			matrix.AddElement(n2, n1, -g)
		}
		matrix.AddElement(n2, n2, g)
	}

	return nil
}

// SetResistance replaces the modeled resistance, used by sweeps between
// stamps.
func (r *Conductor) SetResistance(resistance float64) {
	r.Resistance = resistance
	r.Value = resistance
}
