package math

import (
	"testing"
)

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := Vec3{3, 4, 0}.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("normalizing the zero vector should return zero")
	}
}

func TestVec3Div(t *testing.T) {
	got := Vec3{4, 9, 5}.Div(Vec3{2, 3, 0})
	want := Vec3{2, 3, 5}
	if got != want {
		t.Errorf("Vec3.Div() = %v, want %v", got, want)
	}
}

func TestVec3Abs(t *testing.T) {
	got := Vec3{-1, 2, -3}.Abs()
	want := Vec3{1, 2, 3}
	if got != want {
		t.Errorf("Vec3.Abs() = %v, want %v", got, want)
	}
}

func TestVec3Lerp(t *testing.T) {
	got := Vec3{0, 0, 0}.Lerp(Vec3{10, -10, 4}, 0.5)
	want := Vec3{5, -5, 2}
	if got != want {
		t.Errorf("Vec3.Lerp() = %v, want %v", got, want)
	}
}

func TestColorClamped(t *testing.T) {
	got := Color{1.3, -0.2, 0.5, 1}.Clamped()
	want := Color{1, 0, 0.5, 1}
	if got != want {
		t.Errorf("Color.Clamped() = %v, want %v", got, want)
	}
}

func TestRGB(t *testing.T) {
	if c := RGB(255, 0, 255); c != (Color{1, 0, 1, 1}) {
		t.Errorf("RGB(255, 0, 255) = %v", c)
	}
}
