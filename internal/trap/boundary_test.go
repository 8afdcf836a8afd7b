package trap

import (
	"errors"
	"math"
	"testing"
)

func TestLocateOutsideNonTrapping(t *testing.T) {
	axis := evenAxis(0, 10, 11)
	curve := make(Curve, 11)

	out, err := LocateOutside(axis, curve, BoundaryOptions{NonTrapping: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Edge != 0 {
		t.Errorf("expected edge 0, got %g", out.Edge)
	}
	if len(out.Axis) != 11 || len(out.Curve) != 11 {
		t.Errorf("expected full range, got %d/%d samples", len(out.Axis), len(out.Curve))
	}
}

func TestLocateOutsideExplicitEdge(t *testing.T) {
	axis := evenAxis(0, 10, 11)
	curve := make(Curve, 11)
	for i := range curve {
		curve[i] = float64(i)
	}

	edge := 4.2
	out, err := LocateOutside(axis, curve, BoundaryOptions{ExplicitEdge: &edge, MFIndex: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.MFIndex != 3 {
		t.Errorf("mf index not carried through, got %d", out.MFIndex)
	}
	if len(out.Axis) != 7 {
		t.Fatalf("expected 7 samples from the nearest edge sample on, got %d", len(out.Axis))
	}
	if math.Abs(out.Axis[0]-(4-4.2)) > 1e-12 {
		t.Errorf("expected re-anchored start -0.2, got %g", out.Axis[0])
	}
	if out.Curve[0] != 4 {
		t.Errorf("expected curve truncated at sample 4, got %g", out.Curve[0])
	}
}

func TestLocateOutsideMissingEdge(t *testing.T) {
	axis := evenAxis(0, 10, 11)
	curve := make(Curve, 11)

	_, err := LocateOutside(axis, curve, BoundaryOptions{})
	if !errors.Is(err, ErrMissingEdge) {
		t.Fatalf("expected ErrMissingEdge, got %v", err)
	}
	if !IsConfiguration(err) {
		t.Error("missing edge must be a configuration error")
	}
}

func spiked(n int, at ...int) Curve {
	c := make(Curve, n)
	for _, i := range at {
		c[i] = -100
	}
	return c
}

func TestLocateOutsideProximityModes(t *testing.T) {
	axis := evenAxis(0, 20, 21)
	curve := make(Curve, 21)
	for i := range curve {
		curve[i] = float64(i) * 0.1
	}

	t.Run("no peaks", func(t *testing.T) {
		out, err := LocateOutside(axis, curve, BoundaryOptions{ProximityCurve: make(Curve, 21)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Edge != 0 || len(out.Axis) != 21 {
			t.Errorf("expected untouched range, got edge %g and %d samples", out.Edge, len(out.Axis))
		}
	})

	t.Run("one peak", func(t *testing.T) {
		out, err := LocateOutside(axis, curve, BoundaryOptions{ProximityCurve: spiked(21, 5)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Edge != axis[4] {
			t.Errorf("expected edge one sample before the peak (%g), got %g", axis[4], out.Edge)
		}
		if len(out.Axis) != 16 {
			t.Errorf("expected 16 samples from the peak on, got %d", len(out.Axis))
		}
		if math.Abs(out.Axis[0]-(axis[5]-axis[4])) > 1e-12 {
			t.Errorf("expected re-anchored start %g, got %g", axis[5]-axis[4], out.Axis[0])
		}
	})

	t.Run("two peaks", func(t *testing.T) {
		out, err := LocateOutside(axis, curve, BoundaryOptions{ProximityCurve: spiked(21, 5, 15)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Edge != axis[4] {
			t.Errorf("expected edge at %g, got %g", axis[4], out.Edge)
		}
		if len(out.Axis) != 11 {
			t.Errorf("expected the closed interval between the peaks (11 samples), got %d", len(out.Axis))
		}
		if out.Curve[0] != curve[5] || out.Curve[10] != curve[15] {
			t.Error("curve not truncated to the inter-peak interval")
		}
	})

	t.Run("too many peaks", func(t *testing.T) {
		_, err := LocateOutside(axis, curve, BoundaryOptions{ProximityCurve: spiked(21, 3, 9, 15)})
		if !errors.Is(err, ErrAmbiguousGeometry) {
			t.Fatalf("expected ErrAmbiguousGeometry, got %v", err)
		}
		if !IsConfiguration(err) {
			t.Error("ambiguous geometry must be a configuration error")
		}
	})
}

func TestLocateOutsideDimensionMismatch(t *testing.T) {
	_, err := LocateOutside(Axis{0, 1}, Curve{0}, BoundaryOptions{NonTrapping: true})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}
