// Package topology labels the shape of a circuit from its connectivity alone.
// Values are never read; a 0 Ω resistor is still a load here.
package topology

import (
	"github.com/edp1096/toy-circuit/pkg/device"
	"github.com/edp1096/toy-circuit/pkg/dsu"
	"github.com/edp1096/toy-circuit/pkg/graph"
)

type Result struct {
	Kind Kind `json:"type"`
	// Loops and Branches both carry the junction count for PARALLEL and
	// COMPLEX circuits.
	Loops    int    `json:"loops"`
	Branches int    `json:"branches"`
	Valid    bool   `json:"isValid"`
	Feedback string `json:"feedback"`
}

// Success reports whether r is the shape t asks for.
func (r Result) Success(t Target) bool {
	return (t == TargetSeries && r.Kind == Series) ||
		(t == TargetParallel && r.Kind == Parallel)
}

// Classify labels the circuit. Checks run in priority order: EMPTY, OPEN
// (no battery), SHORT (no load), then the node-degree analysis.
func Classify(components []device.Component, wires []device.Wire) Result {
	if len(components) == 0 {
		return newResult(Empty, 0, 0)
	}

	var hasPower, hasLoad bool
	for _, c := range components {
		hasPower = hasPower || c.Kind.IsSource()
		hasLoad = hasLoad || c.Kind.IsLoad()
	}
	if !hasPower {
		return newResult(Open, 0, 0)
	}
	if !hasLoad {
		return newResult(Short, 1, 0)
	}

	nodes := graph.Build(components, wires)
	degree := make([]int, nodes.Count)
	islands := dsu.New(nodes.Count)
	for i, c := range components {
		if !carries(c) {
			continue
		}
		n1, n2 := nodes.Terminals(i)
		degree[n1]++
		if n2 != n1 {
			degree[n2]++
		}
		islands.Union(n1, n2)
	}

	junctions := 0
	closed := true
	roots := make(map[int]struct{})
	for id, d := range degree {
		if d == 0 {
			continue
		}
		if d > 2 {
			junctions++
		}
		if d < 2 {
			closed = false
		}
		roots[islands.Find(id)] = struct{}{}
	}

	switch {
	case junctions == 0 && closed && len(roots) == 1:
		return newResult(Series, 1, 0)
	case junctions == 0:
		return newResult(Open, 0, 0)
	case junctions <= 2:
		return newResult(Parallel, junctions, junctions)
	default:
		return newResult(Complex, junctions, junctions)
	}
}

// carries reports whether c can be part of a current path. An open switch
// breaks the path; a voltmeter only samples the nodes it touches.
func carries(c device.Component) bool {
	switch c.Kind {
	case device.Voltmeter:
		return false
	case device.Switch:
		return !c.Open
	}
	return true
}

func newResult(k Kind, loops, branches int) Result {
	return Result{
		Kind:     k,
		Loops:    loops,
		Branches: branches,
		Valid:    k == Series || k == Parallel || k == Complex,
		Feedback: describe[k],
	}
}
