package field

import (
	"math"

	"github.com/atomoptics/trapscan/internal/trap"
)

// Lattice models a 1D optical lattice: a standing-wave intensity pattern
// under an evanescent envelope, producing a chain of trapping wells whose
// depth decays away from the surface. Controls are [lattice power, envelope
// power] in mW.
type Lattice struct {
	axis trap.Axis

	PLattice, PEnvelope float64

	WellDepth float64 // lattice well depth at the surface, mK per mW
	Period    float64 // lattice period, m
	Decay     float64 // envelope decay length, m
	Offset    float64 // repulsive envelope height, mK per mW
}

func NewLattice(axis trap.Axis) *Lattice {
	return &Lattice{
		axis:      axis,
		PLattice:  1,
		PEnvelope: 1,
		WellDepth: 1.2,
		Period:    250e-9,
		Decay:     600e-9,
		Offset:    0.4,
	}
}

func (l *Lattice) SetControls(values []float64) {
	if len(values) > 0 {
		l.PLattice = values[0]
	}
	if len(values) > 1 {
		l.PEnvelope = values[1]
	}
}

func (l *Lattice) Potential() trap.Curve {
	u := make(trap.Curve, len(l.axis))
	for i, y := range l.axis {
		if y <= 0 {
			continue
		}
		s := math.Sin(math.Pi * y / l.Period)
		u[i] = math.Exp(-y/l.Decay) *
			(l.PEnvelope*l.Offset - l.PLattice*l.WellDepth*s*s)
	}
	return u
}
