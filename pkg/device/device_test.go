package device_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edp1096/toy-circuit/pkg/device"
	"github.com/edp1096/toy-circuit/pkg/matrix"
)

func TestResistance(t *testing.T) {
	p := device.DefaultParams()
	inf := math.Inf(1)

	tests := []struct {
		comp device.Component
		want float64
	}{
		{device.Component{Kind: device.Resistor, Value: 220}, 220},
		{device.Component{Kind: device.Resistor, Value: 0}, 0.001},
		{device.Component{Kind: device.Resistor, Value: -5}, 0.001},
		{device.Component{Kind: device.Rheostat, Value: 0.01}, 0.1},
		{device.Component{Kind: device.Rheostat, Value: 25}, 25},
		{device.Component{Kind: device.Bulb, Value: 99}, 10},
		{device.Component{Kind: device.Ammeter}, 0.01},
		{device.Component{Kind: device.Switch}, 0.001},
		{device.Component{Kind: device.Switch, Open: true}, inf},
		{device.Component{Kind: device.Voltmeter}, inf},
		{device.Component{Kind: device.Battery, Value: 12}, inf},
		{device.Component{Kind: device.Kind(-1)}, inf},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.Resistance(tt.comp), "%s %+v", tt.comp.Kind, tt.comp)
	}
}

func TestKindTable(t *testing.T) {
	for _, k := range device.Kinds() {
		assert.True(t, k.Valid())
		assert.NotEmpty(t, k.Prefix(), k.String())

		parsed, err := device.ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}

	assert.True(t, device.Battery.IsSource())
	assert.False(t, device.Voltmeter.IsSource())
	assert.True(t, device.Bulb.IsLoad())
	assert.False(t, device.Ammeter.IsLoad())
	assert.Equal(t, 12.0, device.Battery.DefaultValue())
	assert.Equal(t, "RP", device.Rheostat.Prefix())
	assert.Equal(t, "V", device.Battery.Unit())
	assert.Empty(t, device.Bulb.Unit())
	assert.Equal(t, "Kind(9)", device.Kind(9).String())
}

func TestParseKind(t *testing.T) {
	k, err := device.ParseKind(" bulb ")
	require.NoError(t, err)
	assert.Equal(t, device.Bulb, k)

	_, err = device.ParseKind("capacitor")
	assert.Error(t, err)
}

func TestComponentJSON(t *testing.T) {
	in := `{"id":"S1","type":"SWITCH","value":0,"isOpen":true,"label":"S1"}`

	var c device.Component
	require.NoError(t, json.Unmarshal([]byte(in), &c))
	assert.Equal(t, device.Component{ID: "S1", Kind: device.Switch, Open: true, Label: "S1"}, c)

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"type":"WIRE"}`), &c))
}

func TestWireJSON(t *testing.T) {
	in := `{"id":"w1","source":{"componentId":"U1","pinIndex":0},"target":{"componentId":"R1","pinIndex":1}}`

	var w device.Wire
	require.NoError(t, json.Unmarshal([]byte(in), &w))
	assert.Equal(t, "U1.0", w.From.String())
	assert.Equal(t, "R1.1", w.To.String())
}

func TestConductorStamp(t *testing.T) {
	m := matrix.NewDense(2)

	r := device.NewConductor("R1", device.Resistor, 4)
	r.SetNodes([]int{1, 2})
	require.NoError(t, r.Stamp(m))
	assert.Equal(t, 0.25, m.At(1, 1))
	assert.Equal(t, -0.25, m.At(1, 2))
	assert.Equal(t, -0.25, m.At(2, 1))
	assert.Equal(t, 0.25, m.At(2, 2))

	g := device.NewConductor("R2", device.Resistor, 2)
	g.SetNodes([]int{2, 0})
	require.NoError(t, g.Stamp(m))
	assert.Equal(t, 0.75, m.At(2, 2))
	assert.Equal(t, 0.25, m.At(1, 1))
}

func TestConductorOpenStampsNothing(t *testing.T) {
	m := matrix.NewDense(1)
	v := device.NewConductor("V1", device.Voltmeter, math.Inf(1))
	v.SetNodes([]int{1, 0})
	require.NoError(t, v.Stamp(m))
	assert.Zero(t, m.At(1, 1))
	assert.Zero(t, v.Conductance())
}

func TestConductorRejectsBadResistance(t *testing.T) {
	m := matrix.NewDense(1)
	for _, r := range []float64{0, -1, math.NaN()} {
		c := device.NewConductor("R1", device.Resistor, r)
		c.SetNodes([]int{1, 0})
		assert.Error(t, c.Stamp(m), "%g", r)
	}

	c := device.NewConductor("R1", device.Resistor, 1)
	c.SetNodes([]int{1})
	assert.Error(t, c.Stamp(m))
}

func TestBatteryStamp(t *testing.T) {
	m := matrix.NewDense(3)
	b := device.NewBattery("U1", 9)
	b.SetNodes([]int{1, 2})

	assert.Error(t, b.Stamp(m), "branch index unset")

	b.SetBranchIndex(3)
	require.NoError(t, b.Stamp(m))
	assert.Equal(t, 1.0, m.At(3, 1))
	assert.Equal(t, 1.0, m.At(1, 3))
	assert.Equal(t, -1.0, m.At(3, 2))
	assert.Equal(t, -1.0, m.At(2, 3))
	assert.Equal(t, 9.0, m.RHSAt(3))
	assert.Equal(t, 9.0, b.GetValue())
}

func TestNew(t *testing.T) {
	p := device.DefaultParams()

	d, err := device.New(device.Component{ID: "U1", Kind: device.Battery, Value: 6}, p)
	require.NoError(t, err)
	assert.IsType(t, &device.VoltageSource{}, d)
	assert.Equal(t, device.Battery, d.GetKind())

	d, err = device.New(device.Component{ID: "L1", Kind: device.Bulb}, p)
	require.NoError(t, err)
	require.IsType(t, &device.Conductor{}, d)
	assert.Equal(t, 10.0, d.(*device.Conductor).Resistance)
	assert.Equal(t, "L1", d.GetName())

	_, err = device.New(device.Component{ID: "X", Kind: device.Kind(12)}, p)
	assert.Error(t, err)
}
