package matrix_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edp1096/toy-circuit/pkg/matrix"
)

// stampDivider loads a 12 V source driving two 10 ohm resistors in series:
// node 1 = source +, node 2 = midpoint, row 3 = source current.
func stampDivider(m matrix.DeviceMatrix) {
	g := 0.1
	m.AddElement(1, 1, g)
	m.AddElement(1, 2, -g)
	m.AddElement(2, 1, -g)
	m.AddElement(2, 2, 2*g)
	m.AddElement(1, 3, 1)
	m.AddElement(3, 1, 1)
	m.AddRHS(3, 12)
}

func TestSolveDivider(t *testing.T) {
	for _, backend := range []matrix.Backend{matrix.BackendDense, matrix.BackendSparse} {
		t.Run(backend.String(), func(t *testing.T) {
			m, err := matrix.New(3, backend)
			require.NoError(t, err)
			defer m.Destroy()

			stampDivider(m)
			require.NoError(t, m.Solve())

			x := m.Solution()
			require.GreaterOrEqual(t, len(x), 4)
			assert.InDelta(t, 12.0, x[1], 1e-9)
			assert.InDelta(t, 6.0, x[2], 1e-9)
			assert.InDelta(t, -0.6, x[3], 1e-9)
		})
	}
}

func TestDenseSingular(t *testing.T) {
	m := matrix.NewDense(2)
	m.AddElement(1, 1, 1)
	m.AddElement(1, 2, -1)
	m.AddElement(2, 1, -1)
	m.AddElement(2, 2, 1)

	err := m.Solve()
	require.ErrorIs(t, err, matrix.ErrSingular)
}

func TestDenseTinyPivotIsSingular(t *testing.T) {
	m := matrix.NewDense(1)
	m.AddElement(1, 1, 1e-12)
	m.AddRHS(1, 1)
	assert.ErrorIs(t, m.Solve(), matrix.ErrSingular)
}

func TestDenseNeedsPivoting(t *testing.T) {
	// zero on the first diagonal, as in every MNA system whose first node
	// touches only a battery
	m := matrix.NewDense(2)
	m.AddElement(1, 2, 1)
	m.AddElement(2, 1, 1)
	m.AddRHS(1, 3)
	m.AddRHS(2, 5)

	require.NoError(t, m.Solve())
	assert.Equal(t, []float64{0, 5, 3}, m.Solution())
}

func TestDenseSolveKeepsSystem(t *testing.T) {
	m := matrix.NewDense(3)
	stampDivider(m)

	require.NoError(t, m.Solve())
	first := append([]float64(nil), m.Solution()...)
	require.NoError(t, m.Solve())

	assert.Equal(t, first, m.Solution())
	assert.Equal(t, 0.2, m.At(2, 2))
	assert.Equal(t, 12.0, m.RHSAt(3))
}

func TestDenseIgnoresGroundAndOutOfRange(t *testing.T) {
	m := matrix.NewDense(2)
	m.AddElement(0, 1, 5)
	m.AddElement(1, 3, 5)
	m.AddRHS(0, 5)
	m.AddRHS(3, 5)
	assert.Zero(t, m.At(1, 1))
	assert.Zero(t, m.RHSAt(1))
	assert.Zero(t, m.RHSAt(2))
}

func TestClear(t *testing.T) {
	for _, backend := range []matrix.Backend{matrix.BackendDense, matrix.BackendSparse} {
		t.Run(backend.String(), func(t *testing.T) {
			m, err := matrix.New(3, backend)
			require.NoError(t, err)
			defer m.Destroy()

			stampDivider(m)
			require.NoError(t, m.Solve())

			m.Clear()
			stampDivider(m)
			m.AddRHS(3, 12) // 24 V now
			require.NoError(t, m.Solve())
			assert.InDelta(t, 12.0, m.Solution()[2], 1e-9)
		})
	}
}

func TestNew(t *testing.T) {
	_, err := matrix.New(0, matrix.BackendDense)
	assert.Error(t, err)

	_, err = matrix.New(2, matrix.Backend(7))
	assert.Error(t, err)
}

func TestParseBackend(t *testing.T) {
	b, err := matrix.ParseBackend("")
	require.NoError(t, err)
	assert.Equal(t, matrix.BackendDense, b)

	b, err = matrix.ParseBackend("sparse")
	require.NoError(t, err)
	assert.Equal(t, matrix.BackendSparse, b)

	_, err = matrix.ParseBackend("klu")
	assert.Error(t, err)
}

func TestPrint(t *testing.T) {
	m, err := matrix.NewSparse(3)
	require.NoError(t, err)
	defer m.Destroy()

	stampDivider(m)
	var buf bytes.Buffer
	m.Print(&buf)
	assert.Contains(t, buf.String(), "Circuit equations (3x3)")
	assert.Contains(t, buf.String(), "= 12")

	d := matrix.NewDense(3)
	stampDivider(d)
	assert.Contains(t, d.String(), "RHS")
}

func TestSparseRestamp(t *testing.T) {
	m, err := matrix.NewSparse(3)
	require.NoError(t, err)
	defer m.Destroy()

	stampDivider(m)
	require.NoError(t, m.Solve())
	require.NoError(t, m.Solve())
	assert.InDelta(t, 6.0, m.Solution()[2], 1e-9)

	// stamping onto a factored system keeps the earlier stamps
	m.AddElement(2, 2, 0.1)
	require.NoError(t, m.Solve())
	assert.InDelta(t, 4.0, m.Solution()[2], 1e-9)

	for i := 0; i < 3; i++ {
		m.Clear()
		stampDivider(m)
		require.NoError(t, m.Solve())
		assert.InDelta(t, 6.0, m.Solution()[2], 1e-9)
	}

	var buf bytes.Buffer
	m.Print(&buf)
	assert.Contains(t, buf.String(), "Equation 2:  -0.1*x1  +0.2*x2 = 0")
}
