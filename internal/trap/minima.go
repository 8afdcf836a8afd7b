package trap

import (
	"go.uber.org/zap"
)

// Empirically tuned detection defaults. They are configuration, not physics:
// override them on Locator rather than deriving meaning from the values.
const (
	DefaultMinDistance   = 10
	DefaultMinProminence = 5e-4
	DefaultEdgeExclusion = 5
)

// Locator finds the single most relevant local minimum of a potential curve.
type Locator struct {
	MinDistance   int     // minimum index separation between candidate minima
	MinProminence float64 // minimum barrier height for a candidate
	EdgeExclusion int     // candidates at or below this index are truncation artifacts

	log *zap.Logger
}

func NewLocator(log *zap.Logger) *Locator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Locator{
		MinDistance:   DefaultMinDistance,
		MinProminence: DefaultMinProminence,
		EdgeExclusion: DefaultEdgeExclusion,
		log:           log,
	}
}

// FindMinimum detects local minima of curve as peaks of the negated curve
// and applies the selection policy:
//
//   - no candidates: no confinement, sentinel result
//   - one candidate beyond the edge-exclusion index: accepted
//   - one candidate at or inside the edge-exclusion index: spurious, sentinel
//   - several candidates: the one with the lowest curve value wins, first
//     occurrence on exact ties
//
// The sentinel outcome is a normal physical result, never an error.
func (l *Locator) FindMinimum(axis Axis, curve Curve) TrapExtremum {
	if len(axis) != len(curve) {
		l.log.Warn("axis and curve lengths differ, no minimum reported",
			zap.Int("axis", len(axis)), zap.Int("curve", len(curve)))
		return NoMinimum()
	}

	neg := make([]float64, len(curve))
	for i, v := range curve {
		neg[i] = -v
	}

	peaks := FindPeaks(neg, PeakOptions{
		Distance:      l.MinDistance,
		MinProminence: l.MinProminence,
	})

	switch {
	case len(peaks) == 0:
		l.log.Debug("no local minimum found")
		return NoMinimum()

	case len(peaks) == 1 && peaks[0].Index <= l.EdgeExclusion:
		l.log.Warn("single local minimum too close to the structure edge",
			zap.Int("index", peaks[0].Index))
		return NoMinimum()

	case len(peaks) == 1:
		p := peaks[0]
		l.log.Debug("one local minimum found", zap.Float64("position", axis[p.Index]))
		return TrapExtremum{
			Index:    p.Index,
			Position: axis[p.Index],
			Depth:    curve[p.Index],
			Barrier:  p.Prominence,
			LeftBase: p.LeftBase,
		}

	default:
		best := peaks[0]
		for _, p := range peaks[1:] {
			if curve[p.Index] < curve[best.Index] {
				best = p
			}
		}
		l.log.Warn("several local minima found, keeping the lowest",
			zap.Int("count", len(peaks)), zap.Float64("position", axis[best.Index]))
		return TrapExtremum{
			Index:    best.Index,
			Position: axis[best.Index],
			Depth:    curve[best.Index],
			Barrier:  best.Prominence,
			LeftBase: best.LeftBase,
		}
	}
}
