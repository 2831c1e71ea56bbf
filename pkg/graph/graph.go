// Package graph groups component pins into electrical nodes. The solver and
// the topology classifier both read nodes from here so they always agree on
// which pins share a potential.
package graph

import (
	"github.com/edp1096/toy-circuit/pkg/device"
	"github.com/edp1096/toy-circuit/pkg/dsu"
)

// Ground is the id of the reference node.
const Ground = 0

// Nodes maps every pin of a snapshot to an electrical node id. Ids are dense,
// 0 is ground, 1..Count-1 follow discovery order.
type Nodes struct {
	Count   int
	index   map[string]int // component id -> position in the snapshot
	pinNode []int          // 2*position+pin -> node id
	members [][]device.Pin
}

// Build unions the pins joined by wires. Wires that name a missing component
// or a pin other than 0/1 are skipped.
func Build(components []device.Component, wires []device.Wire) *Nodes {
	n := &Nodes{
		index:   make(map[string]int, len(components)),
		pinNode: make([]int, 2*len(components)),
	}
	for i, c := range components {
		if _, dup := n.index[c.ID]; !dup {
			n.index[c.ID] = i
		}
	}

	sets := dsu.New(2 * len(components))
	for _, w := range wires {
		a, okA := n.slot(w.From)
		b, okB := n.slot(w.To)
		if !okA || !okB {
			continue
		}
		sets.Union(a, b)
	}

	// Discovery order: components in order, pin 0 before pin 1.
	rootSlot := make(map[int]int, sets.Sets())
	discovered := make([]int, len(n.pinNode))
	for p := range n.pinNode {
		root := sets.Find(p)
		s, seen := rootSlot[root]
		if !seen {
			s = len(rootSlot)
			rootSlot[root] = s
		}
		discovered[p] = s
	}

	groundSlot := 0
	for i, c := range components {
		if c.Kind.IsSource() {
			groundSlot = discovered[2*i+1]
			break
		}
	}

	n.Count = len(rootSlot)
	n.members = make([][]device.Pin, n.Count)
	for p, s := range discovered {
		id := s
		switch {
		case s == groundSlot:
			id = Ground
		case s < groundSlot:
			id = s + 1
		}
		n.pinNode[p] = id
		n.members[id] = append(n.members[id], device.Pin{Component: components[p/2].ID, Index: p % 2})
	}

	return n
}

func (n *Nodes) slot(p device.Pin) (int, bool) {
	if p.Index != 0 && p.Index != 1 {
		return 0, false
	}
	i, ok := n.index[p.Component]
	if !ok {
		return 0, false
	}
	return 2*i + p.Index, true
}

// Node returns the node id of pin p.
func (n *Nodes) Node(p device.Pin) (int, bool) {
	s, ok := n.slot(p)
	if !ok {
		return 0, false
	}
	return n.pinNode[s], true
}

// Terminals returns the node ids of the component at position i of the
// snapshot passed to Build.
func (n *Nodes) Terminals(i int) (int, int) {
	return n.pinNode[2*i], n.pinNode[2*i+1]
}

// Members lists the pins of node id in discovery order.
func (n *Nodes) Members(id int) []device.Pin {
	if id < 0 || id >= n.Count {
		return nil
	}
	return n.members[id]
}
