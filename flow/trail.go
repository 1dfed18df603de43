package flow

// Trail is a fixed-capacity ring of recent positions. Pushing onto a full
// trail drops the oldest entry.
type Trail struct {
	xs, ys []float64
	start  int
	n      int
}

// NewTrail allocates an empty trail holding at most capacity positions.
func NewTrail(capacity int) Trail {
	return Trail{
		xs: make([]float64, capacity),
		ys: make([]float64, capacity),
	}
}

// Push appends a position, evicting the oldest one when full.
func (t *Trail) Push(x, y float64) {
	c := len(t.xs)
	if c == 0 {
		return
	}
	if t.n < c {
		i := (t.start + t.n) % c
		t.xs[i], t.ys[i] = x, y
		t.n++
		return
	}
	t.xs[t.start], t.ys[t.start] = x, y
	t.start = (t.start + 1) % c
}

// Len returns the number of stored positions.
func (t *Trail) Len() int { return t.n }

// Cap returns the trail capacity.
func (t *Trail) Cap() int { return len(t.xs) }

// At returns the i-th stored position, 0 being the oldest.
func (t *Trail) At(i int) (x, y float64) {
	j := (t.start + i) % len(t.xs)
	return t.xs[j], t.ys[j]
}
