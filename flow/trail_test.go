package flow

import "testing"

func TestTrailDropsOldest(t *testing.T) {
	tr := NewTrail(3)
	for i := 1; i <= 5; i++ {
		tr.Push(float64(i), float64(-i))
		if tr.Len() > tr.Cap() {
			t.Fatalf("length %d exceeds capacity %d", tr.Len(), tr.Cap())
		}
	}

	if tr.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", tr.Len())
	}
	for i, want := range []float64{3, 4, 5} {
		x, y := tr.At(i)
		if x != want || y != -want {
			t.Errorf("At(%d) = (%g,%g), want (%g,%g)", i, x, y, want, -want)
		}
	}
}

func TestTrailPartiallyFilled(t *testing.T) {
	tr := NewTrail(4)
	tr.Push(1, 1)
	tr.Push(2, 2)
	if tr.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", tr.Len())
	}
	if x, _ := tr.At(0); x != 1 {
		t.Errorf("oldest should be 1, got %g", x)
	}
	if x, _ := tr.At(1); x != 2 {
		t.Errorf("newest should be 2, got %g", x)
	}
}

func TestTrailZeroCapacity(t *testing.T) {
	var tr Trail
	tr.Push(1, 2)
	if tr.Len() != 0 {
		t.Errorf("zero-capacity trail should stay empty")
	}
}
