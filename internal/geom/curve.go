package geom

import "math"

// Cubic is a cubic Bézier segment.
type Cubic struct {
	From Position
	C1   Position
	C2   Position
	To   Position
}

// Curve builds the connector curve between two item centers. The control
// points sit half the horizontal distance away from each end, level with it.
func Curve(from, to Position) Cubic {
	dx := math.Abs(to.X-from.X) * 0.5
	return Cubic{
		From: from,
		C1:   Position{X: from.X + dx, Y: from.Y},
		C2:   Position{X: to.X - dx, Y: to.Y},
		To:   to,
	}
}

// At evaluates the curve at t in [0,1].
func (c Cubic) At(t float64) Position {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	d := 3 * u * t * t
	e := t * t * t
	return Position{
		X: a*c.From.X + b*c.C1.X + d*c.C2.X + e*c.To.X,
		Y: a*c.From.Y + b*c.C1.Y + d*c.C2.Y + e*c.To.Y,
	}
}

// Tangent returns the derivative at t.
func (c Cubic) Tangent(t float64) Position {
	u := 1 - t
	return Position{
		X: 3*u*u*(c.C1.X-c.From.X) + 6*u*t*(c.C2.X-c.C1.X) + 3*t*t*(c.To.X-c.C2.X),
		Y: 3*u*u*(c.C1.Y-c.From.Y) + 6*u*t*(c.C2.Y-c.C1.Y) + 3*t*t*(c.To.Y-c.C2.Y),
	}
}

// Sample returns n+1 evenly spaced points including both ends.
func (c Cubic) Sample(n int) []Position {
	if n < 1 {
		n = 1
	}
	pts := make([]Position, 0, n+1)
	for i := 0; i <= n; i++ {
		pts = append(pts, c.At(float64(i)/float64(n)))
	}
	return pts
}

// Enter walks back from the end of the curve and returns the first t whose
// point lies outside r. That is where the curve crosses into a box drawn
// around its end point. It returns 0 when the whole curve is inside r.
func (c Cubic) Enter(r Rect, steps int) float64 {
	if steps < 1 {
		steps = 1
	}
	for i := steps; i >= 0; i-- {
		t := float64(i) / float64(steps)
		if !r.Contains(c.At(t)) {
			return t
		}
	}
	return 0
}

// Split cuts the curve at t and returns the two halves.
func (c Cubic) Split(t float64) (Cubic, Cubic) {
	lerp := func(a, b Position) Position {
		return Position{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
	}
	p01, p12, p23 := lerp(c.From, c.C1), lerp(c.C1, c.C2), lerp(c.C2, c.To)
	p012, p123 := lerp(p01, p12), lerp(p12, p23)
	mid := lerp(p012, p123)
	return Cubic{From: c.From, C1: p01, C2: p012, To: mid},
		Cubic{From: mid, C1: p123, C2: p23, To: c.To}
}
