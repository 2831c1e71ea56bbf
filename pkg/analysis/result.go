package analysis

import (
	"encoding/json"
	"errors"
	"math"

	"github.com/edp1096/toy-circuit/pkg/device"
)

var (
	// ErrAbnormalCircuit is reported when the system has no unique solution:
	// floating parts, ideal source loops, batteries shorted by a wire.
	ErrAbnormalCircuit = errors.New("short or abnormal circuit")
	// ErrOverCurrent is reported alongside valid readings when some part
	// carries more than the short threshold.
	ErrOverCurrent = errors.New("short-circuit warning: current too large")
)

// Reading is the solved state of one component.
type Reading struct {
	Component device.Component `json:"component"`
	// Current through the part in amperes. For a battery it is the current
	// leaving the positive terminal.
	Current float64 `json:"current"`
	// VoltageDrop is V(pin0) - V(pin1).
	VoltageDrop float64 `json:"voltageDrop"`
}

func (r Reading) Power() float64 {
	return r.Current * r.VoltageDrop
}

// Brightness is the bulb glow in [0, 1]; zero for everything else.
func (r Reading) Brightness() float64 {
	if r.Component.Kind != device.Bulb {
		return 0
	}
	return math.Min(math.Abs(r.Current)*2, 1)
}

type Result struct {
	Readings []Reading
	// NodeVoltages is indexed by node id; index 0 is ground.
	NodeVoltages []float64
	MaxCurrent   float64
	// Err is nil, ErrAbnormalCircuit or ErrOverCurrent.
	Err error
	// Cause keeps the solver error behind ErrAbnormalCircuit.
	Cause error
}

func zeroResult(components []device.Component, err error) *Result {
	res := &Result{
		Readings: make([]Reading, len(components)),
		Err:      err,
	}
	for i, c := range components {
		res.Readings[i] = Reading{Component: c}
	}
	return res
}

// Reading returns the first reading for component id.
func (r *Result) Reading(id string) (Reading, bool) {
	for _, rd := range r.Readings {
		if rd.Component.ID == id {
			return rd, true
		}
	}
	return Reading{}, false
}

// Message is the user-facing error text, empty when the circuit is fine.
func (r *Result) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// OK reports whether the readings are usable. Over-current results are
// usable.
func (r *Result) OK() bool {
	return r.Err == nil || errors.Is(r.Err, ErrOverCurrent)
}

type readingJSON struct {
	device.Component
	Current     float64 `json:"current"`
	VoltageDrop float64 `json:"voltageDrop"`
	Power       float64 `json:"power"`
	Brightness  float64 `json:"brightness,omitempty"`
}

func (r *Result) MarshalJSON() ([]byte, error) {
	out := struct {
		Components   []readingJSON `json:"components"`
		NodeVoltages []float64     `json:"nodeVoltages,omitempty"`
		MaxCurrent   float64       `json:"maxCurrent"`
		Error        string        `json:"error,omitempty"`
	}{
		Components:   make([]readingJSON, len(r.Readings)),
		NodeVoltages: r.NodeVoltages,
		MaxCurrent:   r.MaxCurrent,
		Error:        r.Message(),
	}
	for i, rd := range r.Readings {
		out.Components[i] = readingJSON{
			Component:   rd.Component,
			Current:     rd.Current,
			VoltageDrop: rd.VoltageDrop,
			Power:       rd.Power(),
			Brightness:  rd.Brightness(),
		}
	}
	return json.Marshal(out)
}
