package trap

import (
	"math"
	"testing"

	. "github.com/onsi/gomega"
)

func TestEstimateHarmonic(t *testing.T) {
	g := NewWithT(t)

	// V(x) = x^2 with unit mass and unit energy scale: curvature 2, so the
	// frequency is sqrt(2)/(2*pi).
	axis := evenAxis(-1, 1, 201)
	curve := make(Curve, len(axis))
	for i, x := range axis {
		curve[i] = x * x
	}

	freq := NewEstimator(1, 1, nil).Estimate(axis, curve)

	g.Expect(freq).To(BeNumerically("~", math.Sqrt2/(2*math.Pi), 1e-3))
}

func TestEstimateFlat(t *testing.T) {
	g := NewWithT(t)

	axis := evenAxis(0, 1, 101)
	freq := NewEstimator(1, 1, nil).Estimate(axis, make(Curve, len(axis)))

	g.Expect(freq).To(BeZero())
}

func TestEstimateTooShort(t *testing.T) {
	g := NewWithT(t)

	freq := NewEstimator(1, 1, nil).Estimate(Axis{0, 1, 2}, Curve{0, 1, 0})

	g.Expect(freq).To(BeZero())
}

func TestEstimatePeriodicBoundary(t *testing.T) {
	g := NewWithT(t)

	// -cos(2*pi*x) on [0, 1] has its minima exactly on the window edges, so
	// the direct search finds nothing and the tiled retry must locate the
	// minimum at x=0. The curvature sample then sits on the window boundary
	// where the one-sided differences lose accuracy, hence the loose bound
	// around the analytic frequency of 1.
	axis := evenAxis(0, 1, 101)
	curve := make(Curve, len(axis))
	for i, x := range axis {
		curve[i] = -math.Cos(2 * math.Pi * x)
	}

	freq := NewEstimator(1, 1, nil).Estimate(axis, curve)

	g.Expect(freq).To(BeNumerically(">", 0.4))
	g.Expect(freq).To(BeNumerically("<", 1.6))
}

func TestEstimateCustomDegrees(t *testing.T) {
	g := NewWithT(t)

	axis := evenAxis(-1, 1, 51)
	curve := make(Curve, len(axis))
	for i, x := range axis {
		curve[i] = 3 * x * x
	}

	e := NewEstimator(1, 1, nil)
	e.Degrees = []int{2}
	freq := e.Estimate(axis, curve)

	g.Expect(freq).To(BeNumerically("~", math.Sqrt(6)/(2*math.Pi), 1e-6))
}
