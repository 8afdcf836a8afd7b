package trap

import (
	"math"

	"go.uber.org/zap"
)

// Fit defaults for the frequency estimate. The first few samples sit against
// the truncation boundary and are numerically unreliable, so they are
// excluded from the fit.
const DefaultBoundarySkip = 5

// DefaultFitDegrees is the polynomial-degree ladder: a degree-40 fit first,
// degree 20 when the higher order turns out rank deficient.
var DefaultFitDegrees = []int{40, 20}

// Estimator converts the local curvature at a trap minimum into the linear
// oscillation frequency of a confined particle.
type Estimator struct {
	Mass  float64 // particle mass, kg
	Scale float64 // curve units to energy, J per curve unit

	Degrees      []int
	BoundarySkip int

	// Minima locates the trap minimum; adjust its thresholds to match the
	// caller's detection configuration.
	Minima *Locator

	log *zap.Logger
}

func NewEstimator(mass, scale float64, log *zap.Logger) *Estimator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Estimator{
		Mass:         mass,
		Scale:        scale,
		Degrees:      DefaultFitDegrees,
		BoundarySkip: DefaultBoundarySkip,
		Minima:       NewLocator(log),
		log:          log,
	}
}

// Estimate returns the trap frequency in Hz for the outside-structure curve,
// or 0 when no confinement exists along the axis.
//
// When the primary window holds no minimum the curve is tiled three times
// with a matching axis shift, which finds minima that sit just across a
// periodic boundary of the original window. The polynomial is always fitted
// on the primary window; only the minimum position comes from the tiling.
func (e *Estimator) Estimate(axis Axis, curve Curve) float64 {
	if len(axis) != len(curve) || len(axis) <= e.BoundarySkip+1 {
		e.log.Warn("curve too short for frequency estimation", zap.Int("samples", len(axis)))
		return 0
	}

	ext := e.Minima.FindMinimum(axis, curve)
	pos := ext.Position
	if !ext.Found() {
		axis3, curve3 := tile3(axis, curve)
		ext3 := e.Minima.FindMinimum(axis3, curve3)
		if !ext3.Found() {
			e.log.Warn("no local minimum along the axis, cannot compute trap frequency")
			return 0
		}
		pos = ext3.Position
	}

	skip := e.BoundarySkip
	poly, err := PolyFitFallback(axis[skip:], curve[skip:], e.degrees()...)
	if err != nil {
		e.log.Warn("polynomial fit degenerate on all degrees", zap.Error(err))
		return 0
	}

	fitted := make([]float64, len(axis))
	for i, x := range axis {
		fitted[i] = poly.Eval(x)
	}
	der2 := Gradient(Gradient(fitted, axis), axis)

	curvature := der2[NearestIndex(axis, pos)]
	if curvature <= 0 {
		// A non-confining curvature here is a numerical artifact; clamping
		// avoids propagating an imaginary frequency.
		e.log.Warn("non-positive curvature at trap minimum, clamping frequency to 0",
			zap.Float64("curvature", curvature))
		return 0
	}

	return math.Sqrt(curvature*e.Scale/e.Mass) / (2 * math.Pi)
}

func (e *Estimator) degrees() []int {
	if len(e.Degrees) == 0 {
		return DefaultFitDegrees
	}
	return e.Degrees
}

// tile3 extends the window periodically: [curve-period, curve, curve+period]
// with the axis shifted by the window span on either side.
func tile3(axis Axis, curve Curve) (Axis, Curve) {
	n := len(axis)
	period := axis[n-1] - axis[0]

	a := make(Axis, 0, 3*n)
	c := make(Curve, 0, 3*n)
	for _, shift := range []float64{-period, 0, period} {
		for i := 0; i < n; i++ {
			a = append(a, axis[i]+shift)
			c = append(c, curve[i])
		}
	}
	return a, c
}
