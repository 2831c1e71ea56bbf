package board

import (
	"errors"
	"fmt"

	"github.com/edp1096/toy-circuit/pkg/device"
)

// Validate checks a snapshot against the solver input contract: unique
// non-empty ids, known kinds, and wires between pins 0/1 of two different
// existing components with no unordered pin pair repeated. All problems are
// joined into one error.
func Validate(components []device.Component, wires []device.Wire) error {
	var errs []error

	ids := make(map[string]struct{}, len(components))
	for i, c := range components {
		switch {
		case c.ID == "":
			errs = append(errs, fmt.Errorf("component %d: empty id", i))
		case !c.Kind.Valid():
			errs = append(errs, fmt.Errorf("component %s: %w: %d", c.ID, ErrBadKind, int(c.Kind)))
		}
		if _, dup := ids[c.ID]; dup && c.ID != "" {
			errs = append(errs, fmt.Errorf("component %s: %w", c.ID, ErrDuplicateID))
		}
		ids[c.ID] = struct{}{}
	}

	wireIDs := make(map[string]struct{}, len(wires))
	type pair struct{ a, b device.Pin }
	seen := make(map[pair]struct{}, len(wires))
	for i, w := range wires {
		name := w.ID
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		} else if _, dup := wireIDs[w.ID]; dup {
			errs = append(errs, fmt.Errorf("wire %s: %w", name, ErrDuplicateID))
		}
		wireIDs[w.ID] = struct{}{}

		bad := false
		for _, p := range []device.Pin{w.From, w.To} {
			if _, ok := ids[p.Component]; !ok {
				errs = append(errs, fmt.Errorf("wire %s: %w: %s", name, ErrUnknownComponent, p.Component))
				bad = true
			}
			if p.Index != 0 && p.Index != 1 {
				errs = append(errs, fmt.Errorf("wire %s: %w: %s", name, ErrBadPin, p))
				bad = true
			}
		}
		if bad {
			continue
		}
		if w.From.Component == w.To.Component {
			errs = append(errs, fmt.Errorf("wire %s: %w: %s", name, ErrSelfLoop, w.From.Component))
			continue
		}

		key := pair{w.From, w.To}
		if pinLess(w.To, w.From) {
			key = pair{w.To, w.From}
		}
		if _, dup := seen[key]; dup {
			errs = append(errs, fmt.Errorf("wire %s: %w: %s-%s", name, ErrDuplicateWire, key.a, key.b))
		}
		seen[key] = struct{}{}
	}

	return errors.Join(errs...)
}

func pinLess(a, b device.Pin) bool {
	if a.Component != b.Component {
		return a.Component < b.Component
	}
	return a.Index < b.Index
}
