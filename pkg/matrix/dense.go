package matrix

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/edp1096/toy-circuit/internal/consts"
)

// Dense stores the system in gonum matrices and solves it by Gaussian
// elimination with partial pivoting. Solve works on a copy, so the stamped
// system is left intact and repeated solves give the same answer.
type Dense struct {
	Size     int
	Epsilon  float64 // smallest pivot magnitude accepted
	a        *mat.Dense
	rhs      *mat.VecDense
	solution []float64
}

func NewDense(size int) *Dense {
	return &Dense{
		Size:     size,
		Epsilon:  consts.PIVOT_EPSILON,
		a:        mat.NewDense(size, size, nil),
		rhs:      mat.NewVecDense(size, nil),
		solution: make([]float64, size+1),
	}
}

func (m *Dense) AddElement(i, j int, value float64) {
	if i <= 0 || j <= 0 || i > m.Size || j > m.Size {
		return
	}
	m.a.Set(i-1, j-1, m.a.At(i-1, j-1)+value)
}

func (m *Dense) AddRHS(i int, value float64) {
	if i <= 0 || i > m.Size {
		return
	}
	m.rhs.SetVec(i-1, m.rhs.AtVec(i-1)+value)
}

// At returns the stamped coefficient at 1-based (i, j).
func (m *Dense) At(i, j int) float64 { return m.a.At(i-1, j-1) }

// RHSAt returns the stamped right-hand side at 1-based i.
func (m *Dense) RHSAt(i int) float64 { return m.rhs.AtVec(i - 1) }

func (m *Dense) Solve() error {
	n := m.Size
	w := mat.DenseCopyOf(m.a)
	b := make([]float64, n)
	for i := range b {
		b[i] = m.rhs.AtVec(i)
	}

	// Forward elimination
	for i := 0; i < n; i++ {
		pivot := i
		for j := i + 1; j < n; j++ {
			if math.Abs(w.At(j, i)) > math.Abs(w.At(pivot, i)) {
				pivot = j
			}
		}

		if math.Abs(w.At(pivot, i)) < m.Epsilon {
			return fmt.Errorf("%w: pivot %g at step %d", ErrSingular, w.At(pivot, i), i+1)
		}

		if pivot != i {
			ri, rp := w.RawRowView(i), w.RawRowView(pivot)
			for k := range ri {
				ri[k], rp[k] = rp[k], ri[k]
			}
			b[i], b[pivot] = b[pivot], b[i]
		}

		ri := w.RawRowView(i)
		for j := i + 1; j < n; j++ {
			rj := w.RawRowView(j)
			factor := rj[i] / ri[i]
			if factor == 0 {
				continue
			}
			for k := i; k < n; k++ {
				rj[k] -= factor * ri[k]
			}
			b[j] -= factor * b[i]
		}
	}

	// Back substitution
	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		ri := w.RawRowView(i)
		sum := 0.0
		for j := i + 1; j < n; j++ {
			sum += ri[j] * x[j]
		}
		x[i] = (b[i] - sum) / ri[i]
	}

	m.solution[0] = 0
	copy(m.solution[1:], x)
	return nil
}

func (m *Dense) Solution() []float64 {
	return m.solution
}

func (m *Dense) Clear() {
	m.a.Zero()
	m.rhs.Zero()
	for i := range m.solution {
		m.solution[i] = 0
	}
}

func (m *Dense) Destroy() {}

// String renders the stamped equations, one per row.
func (m *Dense) String() string {
	return fmt.Sprintf("%v\nRHS: %v", mat.Formatted(m.a, mat.Squeeze()), mat.Formatted(m.rhs.T(), mat.Squeeze()))
}
