package trap

import "math"

// Axis is an ordered, strictly monotonic coordinate grid.
type Axis []float64

// Curve holds potential samples index-aligned with an Axis.
type Curve []float64

func (a Axis) Clone() Axis {
	c := make(Axis, len(a))
	copy(c, a)
	return c
}

func (c Curve) Clone() Curve {
	d := make(Curve, len(c))
	copy(d, c)
	return d
}

// RealPart projects complex-valued samples onto a Curve. Upstream field
// solvers produce complex arrays; the analysis only ever sees the real part.
func RealPart(samples []complex128) Curve {
	c := make(Curve, len(samples))
	for i, v := range samples {
		c[i] = real(v)
	}
	return c
}

// NearestIndex returns the index of the axis sample closest to v.
func NearestIndex(a Axis, v float64) int {
	best := 0
	bestDist := math.Inf(1)
	for i, x := range a {
		d := math.Abs(x - v)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// TrapExtremum describes one detected minimum and its surrounding barrier.
// Index is -1 and Position NaN when no usable minimum was found; Found
// distinguishes the two cases.
type TrapExtremum struct {
	Index    int
	Position float64
	Depth    float64 // curve value at the minimum
	Barrier  float64 // prominence, reported as a non-negative magnitude
	LeftBase int     // left base of the prominence region, -1 when absent
}

func (e TrapExtremum) Found() bool { return e.Index >= 0 }

// NoMinimum is the sentinel returned when no confinement is detected.
func NoMinimum() TrapExtremum {
	return TrapExtremum{Index: -1, Position: math.NaN(), LeftBase: -1}
}

// BoundaryResult is the outside-structure sub-range of an axis/curve pair,
// re-anchored so the structure edge sits at coordinate 0.
type BoundaryResult struct {
	MFIndex int // bookkeeping, carried through unchanged
	Edge    float64
	Axis    Axis
	Curve   Curve
}
