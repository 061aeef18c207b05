package autotile

import (
	"testing"

	"github.com/Faultbox/hexdelve/pkg/hex"
)

func TestPatternRotate(t *testing.T) {
	p := mustPattern("110000")
	tests := []struct {
		steps int
		want  string
	}{
		{0, "110000"},
		{1, "011000"},
		{2, "001100"},
		{5, "100001"},
		{6, "110000"},
		{-1, "100001"},
	}
	for _, tt := range tests {
		if got := p.Rotate(tt.steps).String(); got != tt.want {
			t.Errorf("Rotate(%d) = %s, want %s", tt.steps, got, tt.want)
		}
	}
}

func TestPatternBits(t *testing.T) {
	for bits := 0; bits < PatternCount; bits++ {
		p := PatternFromBits(uint8(bits))
		if int(p.Bits()) != bits {
			t.Errorf("PatternFromBits(%d).Bits() = %d", bits, p.Bits())
		}
	}
	if mustPattern("101000").Walls() != 2 {
		t.Errorf("Walls() = %d, want 2", mustPattern("101000").Walls())
	}
}

func TestParsePatternRejects(t *testing.T) {
	for _, s := range []string{"", "10100", "1010001", "10a000"} {
		if _, ok := ParsePattern(s); ok {
			t.Errorf("ParsePattern(%q) accepted", s)
		}
	}
}

func TestComputeConnectivity(t *testing.T) {
	c := hex.New(0, 0)

	t.Run("isolated", func(t *testing.T) {
		occ := NewCellSet(c)
		p := ComputeConnectivity(c, false, occ)
		if p != Enclosed {
			t.Errorf("isolated cell pattern = %s, want %s", p, Enclosed)
		}
		res, _ := Default().Resolve(p)
		if res.Shape != ShapeWall6 {
			t.Errorf("isolated cell shape = %s, want WALL6", res.Shape)
		}
	})

	t.Run("surrounded", func(t *testing.T) {
		occ := NewCellSet(hex.Disk(c, 1)...)
		p := ComputeConnectivity(c, false, occ)
		if p != Open {
			t.Errorf("surrounded cell pattern = %s, want %s", p, Open)
		}
		res, _ := Default().Resolve(p)
		if res != (Resolution{ShapeNone, 0}) {
			t.Errorf("surrounded cell resolution = %v, want WALL0@0", res)
		}
	})

	t.Run("one neighbor", func(t *testing.T) {
		occ := NewCellSet(c, c.Neighbor(hex.BottomRight))
		p := ComputeConnectivity(c, false, occ)
		if p.String() != "110111" {
			t.Errorf("pattern = %s, want 110111", p)
		}
	})

	t.Run("link only", func(t *testing.T) {
		queried := false
		occ := OccupancyFunc(func(hex.Coord) bool {
			queried = true
			return false
		})
		p := ComputeConnectivity(c, true, occ)
		if p != Open {
			t.Errorf("link-only pattern = %s, want %s", p, Open)
		}
		if queried {
			t.Error("link-only cell should not query occupancy")
		}
	})
}

func TestCellSet(t *testing.T) {
	a, b := hex.New(1, 0), hex.New(0, 1)
	s := NewCellSet(a)
	s.Add(b)
	if !s.IsCellOccupied(a) || !s.IsCellOccupied(b) {
		t.Error("CellSet missing added cells")
	}
	s.Remove(a)
	if s.IsCellOccupied(a) {
		t.Error("CellSet still holds removed cell")
	}
}
