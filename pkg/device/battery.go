package device

import (
	"fmt"

	"github.com/edp1096/toy-circuit/pkg/matrix"
)

// VoltageSource is an ideal DC battery. Nodes[0] is the positive terminal.
type VoltageSource struct {
	BaseDevice
	// Branch index for MNA
	branchIdx int
}

func NewBattery(name string, volts float64) *VoltageSource {
	return &VoltageSource{
		BaseDevice: BaseDevice{
			Name:  name,
			Kind:  Battery,
			Nodes: make([]int, 2),
			Value: volts,
		},
	}
}

func (v *VoltageSource) Stamp(matrix matrix.DeviceMatrix) error {
	if len(v.Nodes) != 2 {
		return fmt.Errorf("battery %s: requires exactly 2 nodes", v.Name)
	}
	if v.branchIdx <= 0 {
		return fmt.Errorf("battery %s: branch index not assigned", v.Name)
	}

	n1, n2 := v.Nodes[0], v.Nodes[1]
	bIdx := v.branchIdx

	// v1 - v2 = V
	if n1 != 0 {
		matrix.AddElement(bIdx, n1, 1) // v1 coefficient
		matrix.AddElement(n1, bIdx, 1) // n1 current
	}
	if n2 != 0 {
		matrix.AddElement(bIdx, n2, -1) // -v2 coefficient
		matrix.AddElement(n2, bIdx, -1) // n2 current
	}

	matrix.AddRHS(bIdx, v.Value)
	return nil
}

func (v *VoltageSource) BranchIndex() int {
	return v.branchIdx
}

func (v *VoltageSource) SetBranchIndex(idx int) {
	v.branchIdx = idx
}

func (v *VoltageSource) SetValue(value float64) {
	v.Value = value
}

func (v *VoltageSource) GetValue() float64 {
	return v.Value
}
