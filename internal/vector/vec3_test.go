package vector

import (
	"math"
	"testing"
)

func TestAddSub(t *testing.T) {
	a := New(1, 2, 3)
	b := New(4, 5, 6)

	sum := a.Add(b)
	if sum != (Vec3{R: 5, Phi: 7, Z: 9}) {
		t.Errorf("Add: got %+v", sum)
	}

	diff := b.Sub(a)
	if diff != (Vec3{R: 3, Phi: 3, Z: 3}) {
		t.Errorf("Sub: got %+v", diff)
	}
}

func TestScale(t *testing.T) {
	v := New(1, -2, 3).Scale(2)
	if v != (Vec3{R: 2, Phi: -4, Z: 6}) {
		t.Errorf("Scale: got %+v", v)
	}
}

func TestLength(t *testing.T) {
	v := New(3, 4, 0)
	if math.Abs(v.Length()-5) > 1e-12 {
		t.Errorf("Length: expected 5, got %f", v.Length())
	}
	if v.Length2() != 25 {
		t.Errorf("Length2: expected 25, got %f", v.Length2())
	}
}

func TestDotCross(t *testing.T) {
	a := New(1, 0, 0)
	b := New(0, 1, 0)

	if a.Dot(b) != 0 {
		t.Errorf("Dot: expected 0, got %f", a.Dot(b))
	}

	c := a.Cross(b)
	if c != (Vec3{R: 0, Phi: 0, Z: 1}) {
		t.Errorf("Cross: expected (0,0,1), got %+v", c)
	}
}
