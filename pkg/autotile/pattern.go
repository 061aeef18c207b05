// Package autotile resolves the walls of a hex cell from the occupancy of its neighbors.
//
// Each cell gets a six-edge Pattern (true = edge borders empty space). The 64 possible
// patterns collapse onto 14 physical wall shapes related by rotation; a Table maps every
// pattern to its Shape and the number of clockwise sixth-turns to apply.
package autotile

import (
	"strings"

	"github.com/Faultbox/hexdelve/pkg/hex"
)

// EdgeCount is the number of edges in a pattern.
const EdgeCount = hex.DirectionCount

// PatternCount is the number of distinct patterns (2^6).
const PatternCount = 1 << EdgeCount

// Pattern is the edge-connectivity descriptor of a cell, indexed by hex.Direction.
// A true edge borders empty space and needs a wall.
type Pattern [EdgeCount]bool

// Open is the pattern of a cell surrounded on all sides.
var Open = Pattern{}

// Enclosed is the pattern of an isolated cell.
var Enclosed = Pattern{true, true, true, true, true, true}

// Rotate turns the pattern clockwise by steps sixth-turns: the edge at i moves to i+steps.
func (p Pattern) Rotate(steps int) Pattern {
	steps = ((steps % EdgeCount) + EdgeCount) % EdgeCount
	var out Pattern
	for i, wall := range p {
		out[(i+steps)%EdgeCount] = wall
	}
	return out
}

// Bits packs the pattern into the low six bits, edge i at bit i.
func (p Pattern) Bits() uint8 {
	var b uint8
	for i, wall := range p {
		if wall {
			b |= 1 << i
		}
	}
	return b
}

// PatternFromBits unpacks the low six bits of b.
func PatternFromBits(b uint8) Pattern {
	var p Pattern
	for i := range p {
		p[i] = b&(1<<i) != 0
	}
	return p
}

// Walls returns the number of walled edges.
func (p Pattern) Walls() int {
	n := 0
	for _, wall := range p {
		if wall {
			n++
		}
	}
	return n
}

// String renders the pattern as six digits, top edge first.
func (p Pattern) String() string {
	var sb strings.Builder
	sb.Grow(EdgeCount)
	for _, wall := range p {
		if wall {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// ParsePattern reads the String form back.
func ParsePattern(s string) (Pattern, bool) {
	var p Pattern
	if len(s) != EdgeCount {
		return p, false
	}
	for i := range s {
		switch s[i] {
		case '1':
			p[i] = true
		case '0':
		default:
			return p, false
		}
	}
	return p, true
}

// Occupancy answers whether a cell exists.
type Occupancy interface {
	IsCellOccupied(c hex.Coord) bool
}

// OccupancyFunc adapts a function to Occupancy.
type OccupancyFunc func(c hex.Coord) bool

// IsCellOccupied calls f(c).
func (f OccupancyFunc) IsCellOccupied(c hex.Coord) bool {
	return f(c)
}

// CellSet is a set of occupied cells.
type CellSet map[hex.Coord]struct{}

// NewCellSet returns a set holding coords.
func NewCellSet(coords ...hex.Coord) CellSet {
	s := make(CellSet, len(coords))
	s.Add(coords...)
	return s
}

// Add inserts coords.
func (s CellSet) Add(coords ...hex.Coord) {
	for _, c := range coords {
		s[c] = struct{}{}
	}
}

// Remove deletes coords.
func (s CellSet) Remove(coords ...hex.Coord) {
	for _, c := range coords {
		delete(s, c)
	}
}

// IsCellOccupied reports whether c is in the set.
func (s CellSet) IsCellOccupied(c hex.Coord) bool {
	_, ok := s[c]
	return ok
}

// ComputeConnectivity derives the pattern of c: edge i is walled when neighbor i is empty.
// Link-only cells are markers without physical walls and always yield Open.
func ComputeConnectivity(c hex.Coord, linkOnly bool, occ Occupancy) Pattern {
	var p Pattern
	if linkOnly {
		return p
	}
	for i, n := range c.Neighbors() {
		p[i] = !occ.IsCellOccupied(n)
	}
	return p
}
