package autotile

import (
	"errors"
	"fmt"
	gomath "math"
	"strings"
	"sync"
)

var (
	// ErrIncompleteTable means the base set does not cover all 64 patterns.
	ErrIncompleteTable = errors.New("autotile: canonical bases do not cover every pattern")
	// ErrOverlappingBases means two bases are rotations of one another, or a shape repeats.
	ErrOverlappingBases = errors.New("autotile: canonical bases overlap")
	// ErrUnresolvedPattern means a pattern has no table entry.
	ErrUnresolvedPattern = errors.New("autotile: unresolved connectivity pattern")
)

// Resolution is the wall geometry for one pattern: a shape turned clockwise by
// Rotation sixth-turns.
type Resolution struct {
	Shape    Shape
	Rotation int
}

// Angle returns the rotation about +Y in radians.
func (r Resolution) Angle() float32 {
	return float32(r.Rotation) * gomath.Pi / 3
}

func (r Resolution) String() string {
	return fmt.Sprintf("%s@%d", r.Shape, r.Rotation)
}

type entry struct {
	res Resolution
	ok  bool
}

// Table maps every pattern to its Resolution. A Table is immutable once built and safe
// for concurrent use.
type Table struct {
	entries [PatternCount]entry
	bases   map[Shape]Pattern
}

// NewTable builds a table by rotating each base through all six orientations and keeping
// the smallest rotation that produces each pattern.
//
// ErrOverlappingBases is fatal and returns a nil table. On ErrIncompleteTable the table is
// still returned; its gaps resolve to ErrUnresolvedPattern.
func NewTable(bases []Base) (*Table, error) {
	t := &Table{bases: make(map[Shape]Pattern, len(bases))}

	for _, b := range bases {
		if _, dup := t.bases[b.Shape]; dup {
			return nil, fmt.Errorf("%w: shape %s listed twice", ErrOverlappingBases, b.Shape)
		}
		t.bases[b.Shape] = b.Pattern

		for r := 0; r < EdgeCount; r++ {
			e := &t.entries[b.Pattern.Rotate(r).Bits()]
			if e.ok {
				if e.res.Shape != b.Shape {
					return nil, fmt.Errorf("%w: %s and %s share pattern %s",
						ErrOverlappingBases, e.res.Shape, b.Shape, b.Pattern.Rotate(r))
				}
				// Symmetric base: a smaller rotation already yields this pattern.
				continue
			}
			*e = entry{res: Resolution{Shape: b.Shape, Rotation: r}, ok: true}
		}
	}

	var missing []string
	for bits := range t.entries {
		if !t.entries[bits].ok {
			missing = append(missing, PatternFromBits(uint8(bits)).String())
		}
	}
	if len(missing) > 0 {
		return t, fmt.Errorf("%w: %d missing (%s)", ErrIncompleteTable, len(missing), strings.Join(missing, ","))
	}
	return t, nil
}

// Resolve returns the shape and rotation for p.
func (t *Table) Resolve(p Pattern) (Resolution, error) {
	e := t.entries[p.Bits()]
	if !e.ok {
		return Resolution{}, fmt.Errorf("%w: %s", ErrUnresolvedPattern, p)
	}
	return e.res, nil
}

// Base returns the rotation-0 pattern of shape s.
func (t *Table) Base(s Shape) (Pattern, bool) {
	p, ok := t.bases[s]
	return p, ok
}

// Pattern reconstructs the pattern a resolution stands for.
func (t *Table) Pattern(r Resolution) (Pattern, bool) {
	p, ok := t.bases[r.Shape]
	if !ok {
		return Pattern{}, false
	}
	return p.Rotate(r.Rotation), true
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the process-wide table built from CanonicalBases. It is built on first
// use, exactly once, and never mutated afterwards.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := NewTable(CanonicalBases())
		if err != nil {
			panic(err)
		}
		defaultTable = t
	})
	return defaultTable
}
