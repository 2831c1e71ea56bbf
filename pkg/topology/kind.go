package topology

import (
	"fmt"
	"strings"
)

// Kind is the structural label of a circuit.
type Kind int

const (
	Empty Kind = iota
	Open
	Short
	Series
	Parallel
	Complex
)

var kindNames = [...]string{
	Empty:    "EMPTY",
	Open:     "OPEN",
	Short:    "SHORT",
	Series:   "SERIES",
	Parallel: "PARALLEL",
	Complex:  "COMPLEX",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("invalid topology kind %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	name := strings.ToUpper(strings.TrimSpace(string(text)))
	for i, n := range kindNames {
		if n == name {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown topology %q", text)
}

// Target is the shape a learner is asked to build.
type Target int

const (
	NoTarget Target = iota
	TargetSeries
	TargetParallel
)

func (t Target) String() string {
	switch t {
	case TargetSeries:
		return "SERIES"
	case TargetParallel:
		return "PARALLEL"
	default:
		return "NONE"
	}
}

func ParseTarget(s string) (Target, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "NONE":
		return NoTarget, nil
	case "SERIES":
		return TargetSeries, nil
	case "PARALLEL":
		return TargetParallel, nil
	}
	return NoTarget, fmt.Errorf("unknown target %q", s)
}

func (t Target) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Target) UnmarshalText(text []byte) error {
	parsed, err := ParseTarget(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
