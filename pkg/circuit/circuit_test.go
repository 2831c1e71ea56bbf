package circuit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edp1096/toy-circuit/pkg/circuit"
	"github.com/edp1096/toy-circuit/pkg/device"
	"github.com/edp1096/toy-circuit/pkg/matrix"
)

func pin(id string, idx int) device.Pin { return device.Pin{Component: id, Index: idx} }

func TestSizeAndBranchRows(t *testing.T) {
	comps := []device.Component{
		{ID: "U1", Kind: device.Battery, Value: 12},
		{ID: "R1", Kind: device.Resistor, Value: 10},
		{ID: "U2", Kind: device.Battery, Value: 3},
	}
	wires := []device.Wire{
		{From: pin("U1", 0), To: pin("R1", 0)},
		{From: pin("R1", 1), To: pin("U2", 0)},
		{From: pin("U2", 1), To: pin("U1", 1)},
	}

	ckt := circuit.New("two sources", device.DefaultParams())
	defer ckt.Destroy()
	require.NoError(t, ckt.AssignNodeBranchMaps(comps, wires))

	assert.Equal(t, 3, ckt.GetNumNodes())
	assert.Equal(t, 4, ckt.Size())
	assert.Equal(t, map[string]int{"U1": 3, "U2": 4}, ckt.GetBranchMap())

	require.NoError(t, ckt.CreateMatrix(matrix.BackendDense))
	require.NoError(t, ckt.SetupDevices())
	assert.Len(t, ckt.GetDevices(), 3)

	require.NoError(t, ckt.GetMatrix().Solve())
	assert.InDelta(t, 12.0, ckt.GetNodeVoltage(1), 1e-9)
	assert.InDelta(t, 3.0, ckt.GetNodeVoltage(2), 1e-9)
	assert.Zero(t, ckt.GetNodeVoltage(0))

	// 9 V across 10 ohm: 0.9 A out of U1's + terminal, into U2's +
	i1, ok := ckt.GetBranchCurrent(0)
	require.True(t, ok)
	assert.InDelta(t, -0.9, i1, 1e-9)
	i2, ok := ckt.GetBranchCurrent(2)
	require.True(t, ok)
	assert.InDelta(t, 0.9, i2, 1e-9)

	_, ok = ckt.GetBranchCurrent(1)
	assert.False(t, ok)
}

func TestDuplicateBatteryIDsGetOwnRows(t *testing.T) {
	comps := []device.Component{
		{ID: "U", Kind: device.Battery, Value: 1},
		{ID: "U", Kind: device.Battery, Value: 2},
	}
	ckt := circuit.New("", device.DefaultParams())
	require.NoError(t, ckt.AssignNodeBranchMaps(comps, nil))
	assert.Equal(t, 5, ckt.Size())
	assert.Equal(t, map[string]int{"U": 4}, ckt.GetBranchMap())
}

func TestNothingToSolve(t *testing.T) {
	ckt := circuit.New("", device.DefaultParams())
	require.NoError(t, ckt.AssignNodeBranchMaps(nil, nil))
	assert.Zero(t, ckt.Size())
	assert.ErrorIs(t, ckt.CreateMatrix(matrix.BackendDense), circuit.ErrNothingToSolve)
	assert.ErrorIs(t, ckt.Stamp(), circuit.ErrNothingToSolve)
}

func TestSetupDevicesTwiceDoesNotDoubleStamp(t *testing.T) {
	comps := []device.Component{
		{ID: "U1", Kind: device.Battery, Value: 12},
		{ID: "R1", Kind: device.Resistor, Value: 10},
	}
	wires := []device.Wire{
		{From: pin("U1", 0), To: pin("R1", 0)},
		{From: pin("R1", 1), To: pin("U1", 1)},
	}
	ckt := circuit.New("", device.DefaultParams())
	defer ckt.Destroy()
	require.NoError(t, ckt.AssignNodeBranchMaps(comps, wires))

	require.NoError(t, ckt.CreateMatrix(matrix.BackendDense))
	require.NoError(t, ckt.SetupDevices())
	require.NoError(t, ckt.CreateMatrix(matrix.BackendDense))
	require.NoError(t, ckt.SetupDevices())

	assert.Len(t, ckt.GetDevices(), 2)
	d, ok := ckt.GetMatrix().(*matrix.Dense)
	require.True(t, ok)
	assert.Equal(t, 0.1, d.At(1, 1))
}

func TestStampErrorNamesDevice(t *testing.T) {
	comps := []device.Component{{ID: "R1", Kind: device.Resistor, Value: 10}}
	p := device.DefaultParams()
	p.MinResistor = 0
	comps[0].Value = 0

	ckt := circuit.New("", p)
	require.NoError(t, ckt.AssignNodeBranchMaps(comps, nil))
	require.NoError(t, ckt.CreateMatrix(matrix.BackendDense))
	err := ckt.SetupDevices()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stamping device R1")
}
