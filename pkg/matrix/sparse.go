package matrix

import (
	"fmt"
	"io"
	"math"

	"github.com/edp1096/sparse"
)

// Sparse solves the system with the Markowitz-ordered sparse LU of
// github.com/edp1096/sparse. It suits large boards; Dense is the reference.
//
// Factoring reorders the underlying matrix in place, after which it no
// longer accepts stamps. Clear therefore starts from a fresh matrix, and the
// stamped coefficients are also kept in stamps for printing.
type Sparse struct {
	Size     int
	matrix   *sparse.Matrix
	stamps   map[[2]int]float64
	rhs      []float64
	solution []float64
	config   *sparse.Configuration
	factored bool // the matrix has been reordered by Factor
	solved   bool
	err      error
}

func NewSparse(size int) (*Sparse, error) {
	m := &Sparse{
		Size: size,
		config: &sparse.Configuration{
			Real:                    true,
			Complex:                 false,
			SeparatedComplexVectors: false,
			Expandable:              true,
			Translate:               false,
			ModifiedNodal:           true,
			TiesMultiplier:          5,
			PrinterWidth:            140,
			Annotate:                0,
		},
		stamps:   make(map[[2]int]float64),
		rhs:      make([]float64, size+1), // 1-based indexing
		solution: make([]float64, size+1),
	}
	if err := m.create(); err != nil {
		return nil, err
	}
	return m, nil
}

// create allocates a new matrix with every element present, so stamps and
// ordering never meet a missing entry.
func (m *Sparse) create() error {
	mat, err := sparse.Create(int64(m.Size), m.config)
	if err != nil {
		return fmt.Errorf("creating sparse matrix: %w", err)
	}
	for i := 1; i <= m.Size; i++ {
		for j := 1; j <= m.Size; j++ {
			mat.GetElement(int64(i), int64(j))
		}
	}
	m.matrix = mat
	return nil
}

func (m *Sparse) AddElement(i, j int, value float64) {
	if i <= 0 || j <= 0 || i > m.Size || j > m.Size || m.matrix == nil {
		return
	}
	if m.factored {
		m.rebuild()
		if m.err != nil {
			return
		}
	}
	m.matrix.GetElement(int64(i), int64(j)).Real += value
	m.stamps[[2]int{i, j}] += value
	m.solved = false
}

func (m *Sparse) AddRHS(i int, value float64) {
	if i <= 0 || i > m.Size {
		return
	}
	m.rhs[i] += value
	m.solved = false
}

// rebuild replaces a factored matrix by a fresh one holding the recorded
// stamps.
func (m *Sparse) rebuild() {
	m.matrix.Destroy()
	m.matrix = nil
	m.factored = false
	if m.err = m.create(); m.err != nil {
		return
	}
	for k, v := range m.stamps {
		m.matrix.GetElement(int64(k[0]), int64(k[1])).Real += v
	}
}

func (m *Sparse) Clear() {
	if m.matrix != nil {
		m.matrix.Destroy()
		m.matrix = nil
	}
	m.err = m.create()
	m.factored = false
	clear(m.stamps)
	for i := range m.rhs {
		m.rhs[i] = 0
	}
	for i := range m.solution {
		m.solution[i] = 0
	}
	m.solved = false
}

// Solve factors the matrix in place. Solving again without new stamps
// returns the previous solution.
func (m *Sparse) Solve() error {
	if m.err != nil {
		return m.err
	}
	if m.matrix == nil {
		return fmt.Errorf("sparse matrix destroyed")
	}
	if m.solved {
		return nil
	}
	if m.factored {
		m.rebuild()
		if m.err != nil {
			return m.err
		}
	}

	m.factored = true
	if err := m.matrix.Factor(); err != nil {
		return fmt.Errorf("%w: factorization failed: %v", ErrSingular, err)
	}

	solution, err := m.matrix.Solve(m.rhs)
	if err != nil {
		return fmt.Errorf("matrix solve failed: %w", err)
	}

	for i := 1; i <= m.Size && i < len(solution); i++ {
		if math.IsNaN(solution[i]) || math.IsInf(solution[i], 0) {
			return fmt.Errorf("%w: non-finite solution at row %d", ErrSingular, i)
		}
	}

	m.solution = solution
	m.solved = true
	return nil
}

func (m *Sparse) Solution() []float64 {
	return m.solution
}

func (m *Sparse) RHS() []float64 {
	return m.rhs
}

// Print writes the stamped equations, skipping zero coefficients.
func (m *Sparse) Print(w io.Writer) {
	fmt.Fprintf(w, "Circuit equations (%dx%d):\n", m.Size, m.Size)
	for i := 1; i <= m.Size; i++ {
		fmt.Fprintf(w, "Equation %d:", i)
		for j := 1; j <= m.Size; j++ {
			if v := m.stamps[[2]int{i, j}]; v != 0 {
				fmt.Fprintf(w, "  %+g*x%d", v, j)
			}
		}
		fmt.Fprintf(w, " = %g\n", m.rhs[i])
	}
}

func (m *Sparse) Destroy() {
	if m.matrix != nil {
		m.matrix.Destroy()
		m.matrix = nil
	}
}
