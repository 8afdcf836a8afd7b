package trap

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var errDegenerate = errors.New("trap: polynomial fit is rank deficient")

// Polynomial is a least-squares polynomial fit. The fit is carried out in a
// variable scaled to [-1, 1]; without the scaling, high-order powers of a
// nanometer-scale axis underflow and the Vandermonde system turns singular.
type Polynomial struct {
	coeffs []float64 // ascending, in the scaled variable
	center float64
	scale  float64
}

func (p Polynomial) Eval(x float64) float64 {
	t := (x - p.center) / p.scale
	y := 0.0
	for i := len(p.coeffs) - 1; i >= 0; i-- {
		y = y*t + p.coeffs[i]
	}
	return y
}

// PolyFit fits a least-squares polynomial of the given degree through the
// samples, solving the scaled Vandermonde system by QR decomposition.
func PolyFit(x, y []float64, degree int) (Polynomial, error) {
	if len(x) != len(y) {
		return Polynomial{}, ErrDimensionMismatch
	}
	if len(x) <= degree {
		return Polynomial{}, fmt.Errorf("%w: %d samples for degree %d", errDegenerate, len(x), degree)
	}

	lo, hi := x[0], x[0]
	for _, v := range x[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	center := (hi + lo) / 2
	scale := (hi - lo) / 2
	if scale == 0 {
		scale = 1
	}

	n := len(x)
	v := mat.NewDense(n, degree+1, nil)
	for i := 0; i < n; i++ {
		t := (x[i] - center) / scale
		p := 1.0
		for j := 0; j <= degree; j++ {
			v.Set(i, j, p)
			p *= t
		}
	}

	var qr mat.QR
	qr.Factorize(v)

	sol := mat.NewVecDense(degree+1, nil)
	if err := qr.SolveVecTo(sol, false, mat.NewVecDense(n, y)); err != nil {
		return Polynomial{}, fmt.Errorf("%w: %v", errDegenerate, err)
	}

	coeffs := make([]float64, degree+1)
	for j := 0; j <= degree; j++ {
		c := sol.AtVec(j)
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return Polynomial{}, errDegenerate
		}
		coeffs[j] = c
	}
	return Polynomial{coeffs: coeffs, center: center, scale: scale}, nil
}

// PolyFitFallback tries each degree in order until one fits without rank
// deficiency. The usual ladder is a high-order fit for fidelity with a
// lower-order retry when the system degenerates.
func PolyFitFallback(x, y []float64, degrees ...int) (Polynomial, error) {
	var err error
	for _, d := range degrees {
		var p Polynomial
		p, err = PolyFit(x, y, d)
		if err == nil {
			return p, nil
		}
	}
	if err == nil {
		err = errDegenerate
	}
	return Polynomial{}, err
}

// Gradient numerically differentiates y over the (possibly non-uniform)
// coordinate grid x: second-order central differences in the interior,
// one-sided at the ends.
func Gradient(y []float64, x Axis) []float64 {
	n := len(y)
	g := make([]float64, n)
	if n < 2 {
		return g
	}

	g[0] = (y[1] - y[0]) / (x[1] - x[0])
	g[n-1] = (y[n-1] - y[n-2]) / (x[n-1] - x[n-2])

	for i := 1; i < n-1; i++ {
		hs := x[i] - x[i-1]
		hd := x[i+1] - x[i]
		g[i] = (hs*hs*y[i+1] + (hd*hd-hs*hs)*y[i] - hd*hd*y[i-1]) / (hs * hd * (hd + hs))
	}
	return g
}
