package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/edp1096/toy-circuit/pkg/circuit"
	"github.com/edp1096/toy-circuit/pkg/device"
	"github.com/edp1096/toy-circuit/pkg/matrix"
)

type OperatingPoint struct {
	BaseAnalysis
	result *Result
}

func NewOP(opts ...Option) *OperatingPoint {
	return &OperatingPoint{
		BaseAnalysis: *NewBaseAnalysis(opts...),
	}
}

func (op *OperatingPoint) Setup(ckt *circuit.Circuit) error {
	if ckt == nil {
		return fmt.Errorf("circuit not set")
	}
	op.Circuit = ckt
	op.result = nil
	return nil
}

// Execute assembles and solves the circuit once. A singular system is not an
// error here; it is reported through Result().Err.
func (op *OperatingPoint) Execute() error {
	ckt := op.Circuit
	if ckt == nil {
		return fmt.Errorf("circuit not set")
	}
	log := op.opts.Logger.With("circuit", ckt.Name())

	err := ckt.CreateMatrix(op.opts.Backend)
	if errors.Is(err, circuit.ErrNothingToSolve) {
		log.Debug("nothing to solve", "components", len(ckt.Components()))
		op.result = zeroResult(ckt.Components(), nil)
		return nil
	}
	if err != nil {
		return err
	}

	if err := ckt.SetupDevices(); err != nil {
		return fmt.Errorf("setting up devices: %w", err)
	}

	if err := ckt.GetMatrix().Solve(); err != nil {
		if !errors.Is(err, matrix.ErrSingular) {
			return fmt.Errorf("matrix solve error: %w", err)
		}
		log.Debug("singular system", "err", err)
		op.result = zeroResult(ckt.Components(), ErrAbnormalCircuit)
		op.result.Cause = err
		return nil
	}

	op.result = extract(ckt, ckt.Components(), op.opts.ShortThreshold)
	op.storeResults()
	log.Debug("operating point solved",
		"nodes", ckt.GetNumNodes(),
		"unknowns", ckt.Size(),
		"maxCurrent", op.result.MaxCurrent)
	return nil
}

func (op *OperatingPoint) Result() *Result {
	return op.result
}

func (op *OperatingPoint) storeResults() {
	for id, v := range op.result.NodeVoltages {
		if id > 0 {
			op.results[fmt.Sprintf("V(%d)", id)] = []float64{v}
		}
	}
	for _, rd := range op.result.Readings {
		op.results[fmt.Sprintf("I(%s)", rd.Component.ID)] = []float64{rd.Current}
	}
}

// extract turns the solved unknowns into per-component readings. components
// must line up with the snapshot the circuit was built from; a sweep passes a
// copy with the swept value replaced.
func extract(ckt *circuit.Circuit, components []device.Component, threshold float64) *Result {
	nodes := ckt.GetNodes()
	params := ckt.Params()

	res := &Result{
		Readings:     make([]Reading, len(components)),
		NodeVoltages: make([]float64, nodes.Count),
	}
	for id := range res.NodeVoltages {
		res.NodeVoltages[id] = ckt.GetNodeVoltage(id)
	}

	for i, c := range components {
		n1, n2 := nodes.Terminals(i)
		drop := res.NodeVoltages[n1] - res.NodeVoltages[n2]

		var current float64
		if c.Kind.IsSource() {
			if raw, ok := ckt.GetBranchCurrent(i); ok {
				current = -raw // MNA unknown flows into the + terminal
			}
		} else if r := params.Resistance(c); !math.IsInf(r, 1) {
			current = drop / r
		}

		res.Readings[i] = Reading{Component: c, Current: current, VoltageDrop: drop}
		res.MaxCurrent = math.Max(res.MaxCurrent, math.Abs(current))
	}

	if res.MaxCurrent > threshold {
		res.Err = ErrOverCurrent
	}
	return res
}
