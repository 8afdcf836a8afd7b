package field

import (
	"math"

	"github.com/atomoptics/trapscan/internal/trap"
)

// TwoColor models a two-color evanescent-wave trap above a dielectric
// surface at y=0: a red-detuned attractive tail with a long decay length
// against a blue-detuned repulsive tail with a short one. The competition
// forms a potential minimum a few hundred nanometers above the surface.
//
// Controls are the two beam powers in mW: [red, blue]. Curve values are in
// millikelvin; samples inside the structure (y <= 0) are zero.
type TwoColor struct {
	axis trap.Axis

	PRed, PBlue float64 // beam powers, mW

	RedCoeff  float64 // attractive depth at the surface, mK per mW
	BlueCoeff float64 // repulsive height at the surface, mK per mW
	RedDecay  float64 // evanescent decay length, m
	BlueDecay float64 // evanescent decay length, m

	C3 float64 // Casimir-Polder coefficient for the proximity curve, mK·m³
}

func NewTwoColor(axis trap.Axis) *TwoColor {
	return &TwoColor{
		axis:      axis,
		PRed:      1,
		PBlue:     1,
		RedCoeff:  0.8,
		BlueCoeff: 2.5,
		RedDecay:  200e-9,
		BlueDecay: 100e-9,
		C3:        5e-25,
	}
}

func (t *TwoColor) SetControls(values []float64) {
	if len(values) > 0 {
		t.PRed = values[0]
	}
	if len(values) > 1 {
		t.PBlue = values[1]
	}
}

func (t *TwoColor) Potential() trap.Curve {
	u := make(trap.Curve, len(t.axis))
	for i, y := range t.axis {
		if y <= 0 {
			continue
		}
		u[i] = t.PBlue*t.BlueCoeff*math.Exp(-y/t.BlueDecay) -
			t.PRed*t.RedCoeff*math.Exp(-y/t.RedDecay)
	}
	return u
}

// ProximityCurve is the short-range surface interaction, diverging at the
// surface sample. The boundary locator keys on the divergence to place the
// structure edge.
func (t *TwoColor) ProximityCurve() trap.Curve {
	cp := make(trap.Curve, len(t.axis))
	for i, y := range t.axis {
		d := math.Abs(y)
		if d < 1e-9 {
			d = 1e-9
		}
		cp[i] = -t.C3 / (d * d * d)
	}
	return cp
}

// MinimumPosition returns the analytic location of the potential minimum for
// the current powers, or NaN when the tails cannot balance.
func (t *TwoColor) MinimumPosition() float64 {
	num := t.PBlue * t.BlueCoeff * t.RedDecay
	den := t.PRed * t.RedCoeff * t.BlueDecay
	if num <= 0 || den <= 0 {
		return math.NaN()
	}
	k := 1/t.BlueDecay - 1/t.RedDecay
	return math.Log(num/den) / k
}
