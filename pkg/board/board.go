// Package board is the editable circuit a user builds: parts are added,
// wired, tuned and toggled here, and Snapshot hands an immutable copy to the
// solver and the classifier.
package board

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/edp1096/toy-circuit/pkg/device"
)

var (
	ErrUnknownComponent = errors.New("unknown component")
	ErrUnknownWire      = errors.New("unknown wire")
	ErrBadKind          = errors.New("invalid component kind")
	ErrBadPin           = errors.New("pin index must be 0 or 1")
	ErrSelfLoop         = errors.New("wire joins a component to itself")
	ErrDuplicateWire    = errors.New("pins are already wired")
	ErrDuplicateID      = errors.New("duplicate id")
	ErrNotSwitch        = errors.New("component is not a switch")
)

// Snapshot is the solver input: ordered components and wires.
type Snapshot struct {
	Components []device.Component `json:"components"`
	Wires      []device.Wire      `json:"wires"`
}

type Option func(*Board)

// WithIDGenerator replaces the uuid generator, mostly for tests.
func WithIDGenerator(f func() string) Option {
	return func(b *Board) { b.newID = f }
}

// Board is safe for concurrent use.
type Board struct {
	mu         sync.RWMutex
	components []device.Component
	wires      []device.Wire
	newID      func() string
}

func New(opts ...Option) *Board {
	b := &Board{newID: uuid.NewString}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Add places a new part with the default value of its kind. Labels count per
// kind (R1, R2, ...). Switches start open.
func (b *Board) Add(kind device.Kind) (device.Component, error) {
	if !kind.Valid() {
		return device.Component{}, fmt.Errorf("%w: %d", ErrBadKind, int(kind))
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	count := 0
	for _, c := range b.components {
		if c.Kind == kind {
			count++
		}
	}
	c := device.Component{
		ID:    b.newID(),
		Kind:  kind,
		Value: kind.DefaultValue(),
		Open:  kind == device.Switch,
		Label: fmt.Sprintf("%s%d", kind.Prefix(), count+1),
	}
	b.components = append(b.components, c)
	return c, nil
}

// Remove deletes a part and every wire touching it.
func (b *Board) Remove(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownComponent, id)
	}
	b.components = append(b.components[:i], b.components[i+1:]...)

	kept := b.wires[:0]
	for _, w := range b.wires {
		if w.From.Component != id && w.To.Component != id {
			kept = append(kept, w)
		}
	}
	b.wires = kept
	return nil
}

// Connect wires two pins of different components.
func (b *Board) Connect(from, to device.Pin) (device.Wire, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, p := range []device.Pin{from, to} {
		if b.indexOf(p.Component) < 0 {
			return device.Wire{}, fmt.Errorf("%w: %s", ErrUnknownComponent, p.Component)
		}
		if p.Index != 0 && p.Index != 1 {
			return device.Wire{}, fmt.Errorf("%w: %s", ErrBadPin, p)
		}
	}
	if from.Component == to.Component {
		return device.Wire{}, fmt.Errorf("%w: %s", ErrSelfLoop, from.Component)
	}
	for _, w := range b.wires {
		if samePair(w, from, to) {
			return device.Wire{}, fmt.Errorf("%w: %s-%s", ErrDuplicateWire, from, to)
		}
	}

	w := device.Wire{ID: b.newID(), From: from, To: to}
	b.wires = append(b.wires, w)
	return w, nil
}

func (b *Board) Disconnect(wireID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, w := range b.wires {
		if w.ID == wireID {
			b.wires = append(b.wires[:i], b.wires[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownWire, wireID)
}

func (b *Board) SetValue(id string, value float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownComponent, id)
	}
	b.components[i].Value = value
	return nil
}

// Toggle flips a switch and returns its new open state.
func (b *Board) Toggle(id string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.indexOf(id)
	if i < 0 {
		return false, fmt.Errorf("%w: %s", ErrUnknownComponent, id)
	}
	if b.components[i].Kind != device.Switch {
		return false, fmt.Errorf("%w: %s", ErrNotSwitch, id)
	}
	b.components[i].Open = !b.components[i].Open
	return b.components[i].Open, nil
}

func (b *Board) Component(id string) (device.Component, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	i := b.indexOf(id)
	if i < 0 {
		return device.Component{}, false
	}
	return b.components[i], true
}

// Snapshot copies the current parts and wires.
func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return Snapshot{
		Components: append([]device.Component(nil), b.components...),
		Wires:      append([]device.Wire(nil), b.wires...),
	}
}

// Load replaces the board contents after validating them.
func (b *Board) Load(s Snapshot) error {
	if err := Validate(s.Components, s.Wires); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.components = append([]device.Component(nil), s.Components...)
	b.wires = append([]device.Wire(nil), s.Wires...)
	return nil
}

func (b *Board) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.components = nil
	b.wires = nil
}

func (b *Board) indexOf(id string) int {
	for i, c := range b.components {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func samePair(w device.Wire, a, b device.Pin) bool {
	return (w.From == a && w.To == b) || (w.From == b && w.To == a)
}
