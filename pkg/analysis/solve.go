package analysis

import (
	"github.com/edp1096/toy-circuit/pkg/circuit"
	"github.com/edp1096/toy-circuit/pkg/device"
)

// Solve computes the DC operating point of a snapshot. It never fails: a
// malformed or singular circuit yields zero readings with
// Err = ErrAbnormalCircuit, and the inputs are not modified.
func Solve(components []device.Component, wires []device.Wire, opts ...Option) *Result {
	o := NewOptions(opts...)

	ckt := circuit.New("", o.Params)
	defer ckt.Destroy()

	if err := ckt.AssignNodeBranchMaps(components, wires); err != nil {
		return abnormal(components, err)
	}

	op := NewOP(opts...)
	if err := op.Setup(ckt); err != nil {
		return abnormal(components, err)
	}
	if err := op.Execute(); err != nil {
		o.Logger.Warn("operating point failed", "err", err)
		return abnormal(components, err)
	}
	return op.Result()
}

// Sweep runs a DC sweep of one component's value over [start, stop].
func Sweep(components []device.Component, wires []device.Wire, target string, start, stop, step float64, opts ...Option) ([]SweepPoint, error) {
	o := NewOptions(opts...)

	dc, err := NewDCSweep(target, start, stop, step, opts...)
	if err != nil {
		return nil, err
	}

	ckt := circuit.New("", o.Params)
	defer ckt.Destroy()

	if err := ckt.AssignNodeBranchMaps(components, wires); err != nil {
		return nil, err
	}
	if err := dc.Setup(ckt); err != nil {
		return nil, err
	}
	if err := dc.Execute(); err != nil {
		return nil, err
	}
	return dc.Points(), nil
}

func abnormal(components []device.Component, cause error) *Result {
	res := zeroResult(components, ErrAbnormalCircuit)
	res.Cause = cause
	return res
}
