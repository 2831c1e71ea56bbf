package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/edp1096/toy-circuit/internal/consts"
	"github.com/edp1096/toy-circuit/pkg/circuit"
	"github.com/edp1096/toy-circuit/pkg/device"
	"github.com/edp1096/toy-circuit/pkg/matrix"
)

// SweepPoint is the operating point at one swept value.
type SweepPoint struct {
	Value  float64 `json:"value"`
	Result *Result `json:"result"`
}

// DCSweep re-solves the circuit while stepping the value of one battery,
// resistor or rheostat. The matrix is built once and restamped per step.
type DCSweep struct {
	BaseAnalysis
	target    string
	sweepVals []float64
	pos       int                // snapshot position of the swept part
	working   []device.Component // private copy, swept entry rewritten per step
	points    []SweepPoint
}

func NewDCSweep(target string, start, stop, step float64, opts ...Option) (*DCSweep, error) {
	if !finite(start) || !finite(stop) || !finite(step) {
		return nil, fmt.Errorf("sweep range must be finite, got %g..%g step %g", start, stop, step)
	}
	if step <= 0 {
		return nil, fmt.Errorf("sweep step must be positive, got %g", step)
	}
	if stop < start {
		return nil, fmt.Errorf("sweep stop %g is below start %g", stop, start)
	}

	steps := math.Floor((stop-start)/step + 1e-9)
	if !finite(steps) || steps >= consts.MAX_SWEEP_POINTS {
		return nil, fmt.Errorf("sweep %g..%g step %g exceeds %d points", start, stop, step, consts.MAX_SWEEP_POINTS)
	}
	n := int(steps) + 1
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = start + float64(i)*step
	}

	return &DCSweep{
		BaseAnalysis: *NewBaseAnalysis(opts...),
		target:       target,
		sweepVals:    vals,
		pos:          -1,
	}, nil
}

func (dc *DCSweep) Setup(ckt *circuit.Circuit) error {
	if ckt == nil {
		return fmt.Errorf("circuit not set")
	}
	dc.Circuit = ckt
	dc.pos = -1
	for i, c := range ckt.Components() {
		if c.ID != dc.target {
			continue
		}
		switch c.Kind {
		case device.Battery, device.Resistor, device.Rheostat:
		default:
			return fmt.Errorf("component %s: cannot sweep a %s", c.ID, c.Kind)
		}
		dc.pos = i
		break
	}
	if dc.pos < 0 {
		return fmt.Errorf("component %s not found", dc.target)
	}

	dc.working = append([]device.Component(nil), ckt.Components()...)
	return nil
}

func (dc *DCSweep) Execute() error {
	ckt := dc.Circuit
	if ckt == nil || dc.pos < 0 {
		return fmt.Errorf("circuit not set")
	}
	log := dc.opts.Logger.With("circuit", ckt.Name(), "sweep", dc.target)

	dc.points = dc.points[:0]
	dc.results = make(map[string][]float64)

	err := ckt.CreateMatrix(dc.opts.Backend)
	if errors.Is(err, circuit.ErrNothingToSolve) {
		for _, val := range dc.sweepVals {
			dc.working[dc.pos].Value = val
			dc.storePoint(val, zeroResult(dc.working, nil))
		}
		return nil
	}
	if err != nil {
		return err
	}
	if err := ckt.SetupDevices(); err != nil {
		return fmt.Errorf("setting up devices: %w", err)
	}

	dev := ckt.GetDevices()[dc.pos]
	mat := ckt.GetMatrix()
	params := ckt.Params()

	for _, val := range dc.sweepVals {
		dc.working[dc.pos].Value = val
		switch d := dev.(type) {
		case *device.VoltageSource:
			d.SetValue(val)
		case *device.Conductor:
			d.SetResistance(params.Resistance(dc.working[dc.pos]))
		}

		mat.Clear()
		if err := ckt.Stamp(); err != nil {
			return fmt.Errorf("stamping error at %s=%g: %w", dc.target, val, err)
		}

		if err := mat.Solve(); err != nil {
			if !errors.Is(err, matrix.ErrSingular) {
				return fmt.Errorf("matrix solve error at %s=%g: %w", dc.target, val, err)
			}
			log.Debug("singular system", "value", val, "err", err)
			res := zeroResult(dc.working, ErrAbnormalCircuit)
			res.Cause = err
			dc.storePoint(val, res)
			continue
		}

		dc.storePoint(val, extract(ckt, dc.working, dc.opts.ShortThreshold))
	}

	log.Debug("sweep done", "points", len(dc.points))
	return nil
}

func (dc *DCSweep) storePoint(val float64, res *Result) {
	dc.points = append(dc.points, SweepPoint{Value: val, Result: res})

	dc.store("SWEEP", val)
	total := 0.0
	for _, rd := range res.Readings {
		dc.store(fmt.Sprintf("I(%s)", rd.Component.ID), rd.Current)
		dc.store(fmt.Sprintf("V(%s)", rd.Component.ID), rd.VoltageDrop)
		dc.store(fmt.Sprintf("P(%s)", rd.Component.ID), rd.Power())
		if rd.Component.Kind.IsSource() {
			total += rd.Current
		}
	}
	dc.store("I(total)", total)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (dc *DCSweep) Points() []SweepPoint {
	return dc.points
}

func (dc *DCSweep) Target() string {
	return dc.target
}
