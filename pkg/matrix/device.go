package matrix

import (
	"errors"
	"fmt"
)

// ErrSingular reports a system without a unique solution: a floating node or
// contradicting voltage constraints.
var ErrSingular = errors.New("matrix is singular")

type DeviceMatrix interface {
	AddElement(i, j int, value float64) // 1-based indexing
	AddRHS(i int, value float64)
}

// Solver is a DeviceMatrix that can solve the stamped system. Solution is
// 1-based like the stamps; index 0 is unused.
type Solver interface {
	DeviceMatrix
	Solve() error
	Solution() []float64
	Clear()
	Destroy()
}

type Backend int

const (
	BackendDense Backend = iota
	BackendSparse
)

func (b Backend) String() string {
	switch b {
	case BackendDense:
		return "dense"
	case BackendSparse:
		return "sparse"
	default:
		return fmt.Sprintf("Backend(%d)", int(b))
	}
}

func ParseBackend(s string) (Backend, error) {
	switch s {
	case "dense", "":
		return BackendDense, nil
	case "sparse":
		return BackendSparse, nil
	}
	return 0, fmt.Errorf("unknown matrix backend %q", s)
}

// New creates an empty size x size system on the chosen backend.
func New(size int, backend Backend) (Solver, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid matrix size: %d", size)
	}
	switch backend {
	case BackendDense:
		return NewDense(size), nil
	case BackendSparse:
		return NewSparse(size)
	}
	return nil, fmt.Errorf("unknown matrix backend %v", backend)
}
