package netlist_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edp1096/toy-circuit/pkg/analysis"
	"github.com/edp1096/toy-circuit/pkg/device"
	"github.com/edp1096/toy-circuit/pkg/netlist"
	"github.com/edp1096/toy-circuit/pkg/topology"
)

const parallelNet = `* two bulbs in parallel
U1 top 0 12V
L1 top 0
L2 top
+ 0   * continued
S1 top 0 open
.target parallel
.op
.end
R9 ignored after end 1
`

func TestParseValue(t *testing.T) {
	tests := map[string]float64{
		"10":    10,
		"1k":    1000,
		"4.7K":  4700,
		"2meg":  2e6,
		"100m":  0.1,
		"1e3":   1000,
		"-2.5":  -2.5,
		"22u":   22e-6,
		"1.5ms": 1.5e-3,
	}
	for in, want := range tests {
		got, err := netlist.ParseValue(in)
		require.NoError(t, err, in)
		assert.InEpsilon(t, want, got, 1e-12, in)
	}

	for _, bad := range []string{"ten", "2M", "1x", ""} {
		_, err := netlist.ParseValue(bad)
		assert.Error(t, err, bad)
	}
}

func TestParse(t *testing.T) {
	data, err := netlist.Parse(parallelNet)
	require.NoError(t, err)

	assert.Equal(t, "two bulbs in parallel", data.Title)
	assert.Equal(t, topology.TargetParallel, data.Target)
	assert.Equal(t, netlist.AnalysisOP, data.Analysis)
	require.Len(t, data.Elements, 4)
	assert.Equal(t, map[string]int{"top": 0, "0": 1}, data.Nodes)

	assert.Equal(t, device.Battery, data.Elements[0].Kind)
	assert.Equal(t, 12.0, data.Elements[0].Value)
	assert.Equal(t, []string{"top", "0"}, data.Elements[2].Nodes)
	assert.True(t, data.Elements[3].Open)
}

func TestCircuitSolves(t *testing.T) {
	data, err := netlist.Parse(parallelNet)
	require.NoError(t, err)

	comps, wires := data.Circuit()
	require.Len(t, comps, 4)
	assert.Len(t, wires, 6)

	res := analysis.Solve(comps, wires)
	require.NoError(t, res.Err)
	u1, _ := res.Reading("U1")
	assert.InDelta(t, 2.4, u1.Current, 1e-9)

	assert.Equal(t, topology.Parallel, topology.Classify(comps, wires).Kind)
}

func TestParseRheostatPrefix(t *testing.T) {
	data, err := netlist.Parse("* t\nRP1 a b 25\nR1 a b 1k\n")
	require.NoError(t, err)
	assert.Equal(t, device.Rheostat, data.Elements[0].Kind)
	assert.Equal(t, device.Resistor, data.Elements[1].Kind)
	assert.Equal(t, 1000.0, data.Elements[1].Value)
}

func TestParseDC(t *testing.T) {
	data, err := netlist.Parse("* sweep\nU1 a 0 12\nRP1 a 0\n.dc RP1 0 50 5\n")
	require.NoError(t, err)
	assert.Equal(t, netlist.AnalysisDC, data.Analysis)
	assert.Equal(t, "RP1", data.DCParam.Component)
	assert.Equal(t, 50.0, data.DCParam.Stop)
	assert.Equal(t, 5.0, data.DCParam.Increment)
	assert.Equal(t, 10.0, data.Elements[1].Value)
}

func TestParseErrors(t *testing.T) {
	tests := map[string]string{
		"short line":     "* t\nR1 a\n",
		"unknown prefix": "* t\nX1 a b 1\n",
		"bad value":      "* t\nR1 a b lots\n",
		"open resistor":  "* t\nR1 a b open\n",
		"duplicate":      "* t\nR1 a b 1\nr1 b c 2\n",
		"bad control":    "* t\n.tran 1 2\n",
		"bad target":     "* t\n.target star\n",
		"short dc":       "* t\n.dc R1 0 1\n",
	}
	for name, in := range tests {
		_, err := netlist.Parse(in)
		assert.Error(t, err, name)
	}

	_, err := netlist.Parse("* t\nR1 a b 1\nR2 a b x\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestWriteRoundTrip(t *testing.T) {
	comps := []device.Component{
		{ID: "U1", Kind: device.Battery, Value: 9},
		{ID: "R1", Kind: device.Resistor, Value: 30},
		{ID: "bulb1", Kind: device.Bulb},
		{ID: "S1", Kind: device.Switch},
	}
	wires := []device.Wire{
		{From: device.Pin{Component: "U1", Index: 0}, To: device.Pin{Component: "R1", Index: 0}},
		{From: device.Pin{Component: "R1", Index: 1}, To: device.Pin{Component: "bulb1", Index: 0}},
		{From: device.Pin{Component: "bulb1", Index: 1}, To: device.Pin{Component: "S1", Index: 0}},
		{From: device.Pin{Component: "S1", Index: 1}, To: device.Pin{Component: "U1", Index: 1}},
	}

	var buf bytes.Buffer
	require.NoError(t, netlist.Write(&buf, "loop", comps, wires))
	assert.Contains(t, buf.String(), "L_bulb1 n2 n3")
	assert.Contains(t, buf.String(), "S1 n3 0 closed")

	data, err := netlist.Parse(buf.String())
	require.NoError(t, err)
	pc, pw := data.Circuit()

	want := analysis.Solve(comps, wires)
	got := analysis.Solve(pc, pw)
	require.NoError(t, got.Err)
	assert.InDelta(t, want.MaxCurrent, got.MaxCurrent, 1e-9)
	assert.Equal(t, topology.Series, topology.Classify(pc, pw).Kind)
}
