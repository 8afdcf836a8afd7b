package trap

// DefaultProximityHeight is the minimum height for a proximity-curve spike to
// count as a structure surface. Surface singularities are orders of magnitude
// taller, so the exact value is not critical.
const DefaultProximityHeight = 10.0

// BoundaryOptions selects how the outside-structure range is resolved.
type BoundaryOptions struct {
	// NonTrapping marks an axis orthogonal to the trapping axis; the whole
	// input is outside and no edge exists.
	NonTrapping bool

	// ExplicitEdge places the structure edge by hand. Required when no
	// proximity curve is available (no surface modeled).
	ExplicitEdge *float64

	// ProximityCurve is the short-range surface-interaction potential whose
	// divergence marks structure surfaces.
	ProximityCurve Curve

	// PeakHeight overrides DefaultProximityHeight when positive.
	PeakHeight float64

	// MFIndex is carried through unchanged for the caller's bookkeeping.
	MFIndex int
}

type boundaryMode int

const (
	modeNoTruncation boundaryMode = iota
	modeExplicitEdge
	modeProximity
)

func (o BoundaryOptions) mode() boundaryMode {
	switch {
	case o.NonTrapping:
		return modeNoTruncation
	case o.ProximityCurve == nil:
		return modeExplicitEdge
	default:
		return modeProximity
	}
}

// LocateOutside determines the sub-range of axis that lies outside the
// physical structure and re-anchors it so the edge sits at coordinate 0.
//
// With a proximity curve, surfaces are located as large negative spikes:
// zero spikes means nothing to truncate, one spike bounds the range on the
// left, two spikes confine it on both sides, and more than two is an
// unresolvable geometry (ErrAmbiguousGeometry). Without a proximity curve an
// explicit edge is mandatory (ErrMissingEdge).
func LocateOutside(axis Axis, curve Curve, opts BoundaryOptions) (BoundaryResult, error) {
	if len(axis) != len(curve) {
		return BoundaryResult{}, ErrDimensionMismatch
	}

	switch opts.mode() {
	case modeNoTruncation:
		return BoundaryResult{MFIndex: opts.MFIndex, Edge: 0, Axis: axis.Clone(), Curve: curve.Clone()}, nil

	case modeExplicitEdge:
		if opts.ExplicitEdge == nil {
			return BoundaryResult{}, ErrMissingEdge
		}
		edge := *opts.ExplicitEdge
		idx := NearestIndex(axis, edge)
		return rebase(axis, curve, idx, len(axis), edge, opts.MFIndex), nil

	default:
		height := opts.PeakHeight
		if height <= 0 {
			height = DefaultProximityHeight
		}
		neg := make([]float64, len(opts.ProximityCurve))
		for i, v := range opts.ProximityCurve {
			neg[i] = -v
		}
		peaks := FindPeaks(neg, PeakOptions{MinHeight: height})

		switch len(peaks) {
		case 0:
			return BoundaryResult{MFIndex: opts.MFIndex, Edge: 0, Axis: axis.Clone(), Curve: curve.Clone()}, nil
		case 1:
			idx := peaks[0].Index
			return rebase(axis, curve, idx, len(axis), edgeBefore(axis, idx), opts.MFIndex), nil
		case 2:
			lo, hi := peaks[0].Index, peaks[1].Index
			return rebase(axis, curve, lo, hi+1, edgeBefore(axis, lo), opts.MFIndex), nil
		default:
			return BoundaryResult{}, ErrAmbiguousGeometry
		}
	}
}

// edgeBefore is the axis value one sample before a surface spike; the spike
// sample itself sits on the surface.
func edgeBefore(axis Axis, idx int) float64 {
	if idx == 0 {
		return axis[0]
	}
	return axis[idx-1]
}

func rebase(axis Axis, curve Curve, from, to int, edge float64, mf int) BoundaryResult {
	outAxis := make(Axis, to-from)
	for i := range outAxis {
		outAxis[i] = axis[from+i] - edge
	}
	outCurve := make(Curve, to-from)
	copy(outCurve, curve[from:to])
	return BoundaryResult{MFIndex: mf, Edge: edge, Axis: outAxis, Curve: outCurve}
}
