package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)

	// Translation should be in column 4 (indices 12, 13, 14)
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
	if m.Translation() != (Vec3{5, 10, 15}) {
		t.Errorf("Translation() = %v, want (5, 10, 15)", m.Translation())
	}
}

func TestTransformPoint(t *testing.T) {
	m := Translate(10, 20, 30)
	result := m.TransformPoint([3]float32{1, 2, 3})

	expected := [3]float32{11, 22, 33}
	if result != expected {
		t.Errorf("TransformPoint: got %v, want %v", result, expected)
	}
}

func TestRotateYSixtyDegrees(t *testing.T) {
	// One sixth-turn moves the top edge normal (+Z) onto the top-right edge normal.
	m := RotateY(float32(math.Pi / 3))
	got := m.TransformDirection([3]float32{0, 0, 1})
	want := [3]float32{float32(math.Sqrt(3) / 2), 0, 0.5}

	for i := range got {
		if abs(got[i]-want[i]) > 0.0001 {
			t.Errorf("RotateY(60°) * +Z = %v, want %v", got, want)
			break
		}
	}
}

func TestTRS(t *testing.T) {
	m := TRS(Vec3{1, 0, 2}, float32(math.Pi))
	got := m.TransformVec3(Vec3{0, 0, 1})
	want := Vec3{1, 0, 1}
	if got.Distance(want) > 0.0001 {
		t.Errorf("TRS transform = %v, want %v", got, want)
	}

	// Directions ignore the translation part.
	dir := m.TransformDirection([3]float32{1, 0, 0})
	if abs(dir[0]+1) > 0.0001 || abs(dir[2]) > 0.0001 {
		t.Errorf("TRS direction = %v, want (-1, 0, 0)", dir)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
