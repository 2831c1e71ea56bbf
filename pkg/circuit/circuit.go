package circuit

import (
	"errors"
	"fmt"

	"github.com/edp1096/toy-circuit/pkg/device"
	"github.com/edp1096/toy-circuit/pkg/graph"
	"github.com/edp1096/toy-circuit/pkg/matrix"
)

// ErrNothingToSolve marks a snapshot without unknowns: no components, or a
// single node and no battery.
var ErrNothingToSolve = errors.New("nothing to solve")

type Circuit struct {
	name        string
	params      device.Params
	components  []device.Component
	nodes       *graph.Nodes
	branchMap   map[string]int // battery id -> matrix row
	branches    []int          // snapshot position -> matrix row, 0 for non-sources
	devices     []device.Device
	numNodes    int
	numBranches int
	matrix      matrix.Solver
}

func New(name string, params device.Params) *Circuit {
	return &Circuit{
		name:      name,
		params:    params,
		branchMap: make(map[string]int),
		devices:   make([]device.Device, 0),
	}
}

// AssignNodeBranchMaps groups pins into nodes and gives every battery a
// branch row after the node rows, in list order.
func (c *Circuit) AssignNodeBranchMaps(components []device.Component, wires []device.Wire) error {
	c.components = components
	c.nodes = graph.Build(components, wires)
	c.numNodes = c.nodes.Count
	c.branches = make([]int, len(components))

	branchStart := c.numNodes // node rows are 1..numNodes-1
	for i, comp := range components {
		if !comp.Kind.IsSource() {
			continue
		}
		c.branches[i] = branchStart
		if _, dup := c.branchMap[comp.ID]; !dup {
			c.branchMap[comp.ID] = branchStart
		}
		branchStart++
	}
	c.numBranches = branchStart - c.numNodes
	return nil
}

// Size is the number of unknowns: non-ground node voltages plus battery
// currents.
func (c *Circuit) Size() int {
	if c.numNodes == 0 {
		return 0
	}
	return c.numNodes - 1 + c.numBranches
}

func (c *Circuit) CreateMatrix(backend matrix.Backend) error {
	size := c.Size()
	if size == 0 {
		return ErrNothingToSolve
	}
	m, err := matrix.New(size, backend)
	if err != nil {
		return fmt.Errorf("creating matrix: %w", err)
	}
	c.Destroy()
	c.matrix = m
	return nil
}

func (c *Circuit) SetupDevices() error {
	c.devices = c.devices[:0]
	for i, comp := range c.components {
		dev, err := device.New(comp, c.params)
		if err != nil {
			return fmt.Errorf("creating device %s: %w", comp.ID, err)
		}

		n1, n2 := c.nodes.Terminals(i)
		dev.SetNodes([]int{n1, n2})

		if v, ok := dev.(*device.VoltageSource); ok {
			v.SetBranchIndex(c.branches[i])
		}

		c.devices = append(c.devices, dev)
	}

	return c.Stamp()
}

func (c *Circuit) Stamp() error {
	if c.matrix == nil {
		return ErrNothingToSolve
	}
	for _, dev := range c.devices {
		if err := dev.Stamp(c.matrix); err != nil {
			return fmt.Errorf("stamping device %s: %w", dev.GetName(), err)
		}
	}
	return nil
}

func (c *Circuit) GetMatrix() matrix.Solver {
	return c.matrix
}

func (c *Circuit) GetNodes() *graph.Nodes {
	return c.nodes
}

func (c *Circuit) GetBranchMap() map[string]int {
	return c.branchMap
}

func (c *Circuit) GetDevices() []device.Device {
	return c.devices
}

func (c *Circuit) Components() []device.Component {
	return c.components
}

func (c *Circuit) Params() device.Params {
	return c.params
}

func (c *Circuit) Name() string {
	return c.name
}

func (c *Circuit) GetNumNodes() int {
	return c.numNodes
}

// GetNodeVoltage reads node nodeIdx from the last solution; ground is 0 V.
func (c *Circuit) GetNodeVoltage(nodeIdx int) float64 {
	if nodeIdx <= 0 || c.matrix == nil { // ground or invalid node
		return 0
	}

	solution := c.matrix.Solution()
	if nodeIdx >= len(solution) {
		return 0
	}

	return solution[nodeIdx]
}

// GetBranchCurrent returns the MNA current unknown of the battery at
// snapshot position i. It is the current flowing into the positive terminal
// from the outside network.
func (c *Circuit) GetBranchCurrent(i int) (float64, bool) {
	if i < 0 || i >= len(c.branches) || c.branches[i] == 0 || c.matrix == nil {
		return 0, false
	}
	idx := c.branches[i]
	solution := c.matrix.Solution()
	if idx >= len(solution) {
		return 0, false
	}
	return solution[idx], true
}

func (c *Circuit) Destroy() {
	if c.matrix != nil {
		c.matrix.Destroy()
	}
}
