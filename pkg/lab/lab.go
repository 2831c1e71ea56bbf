// Package lab evaluates a board snapshot: it solves the circuit and labels
// its topology in one call, the way the canvas refreshes after every edit.
package lab

import (
	"context"
	"sync"

	"github.com/edp1096/toy-circuit/pkg/analysis"
	"github.com/edp1096/toy-circuit/pkg/board"
	"github.com/edp1096/toy-circuit/pkg/topology"
)

// Report is everything the UI needs after an edit.
type Report struct {
	Solve    *analysis.Result `json:"solve"`
	Topology topology.Result  `json:"topology"`
	Target   topology.Target  `json:"target"`
	Feedback string           `json:"feedback"`
	Success  bool             `json:"success"`
}

// Evaluate runs the solver and the classifier concurrently on s. Both only
// read the snapshot. The error is non-nil only when ctx is already done.
func Evaluate(ctx context.Context, s board.Snapshot, target topology.Target, opts ...analysis.Option) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	var (
		wg   sync.WaitGroup
		res  *analysis.Result
		topo topology.Result
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		res = analysis.Solve(s.Components, s.Wires, opts...)
	}()
	go func() {
		defer wg.Done()
		topo = topology.Classify(s.Components, s.Wires)
	}()
	wg.Wait()

	return Report{
		Solve:    res,
		Topology: topo,
		Target:   target,
		Feedback: topology.Feedback(target, topo),
		Success:  topo.Success(target),
	}, nil
}

// Request is the wire form of an evaluation request.
type Request struct {
	board.Snapshot
	Target topology.Target `json:"target"`
}
