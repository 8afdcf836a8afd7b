// Package trap extracts trap characteristics from sampled 1D potential
// curves: the confining minimum, the barrier bounding it, and the
// curvature-derived oscillation frequency of a particle held there.
//
// The package operates on plain coordinate/value sample pairs and holds no
// state between calls. A typical pipeline is:
//
//	out, err := trap.LocateOutside(axis, curve, trap.BoundaryOptions{ProximityCurve: cp})
//	ext := locator.FindMinimum(out.Axis, out.Curve)
//	freq := estimator.Estimate(out.Axis, out.Curve)
//
// Absence of a minimum is a normal outcome, reported through sentinel values
// rather than errors. Only caller contract violations (missing edge position,
// ambiguous structure geometry) surface as *ConfigurationError.
package trap
