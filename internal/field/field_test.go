package field

import (
	"math"
	"sort"
	"testing"

	"github.com/atomoptics/trapscan/internal/trap"
)

func buildAxis(min, max float64, n int) trap.Axis {
	a := make(trap.Axis, n)
	step := (max - min) / float64(n-1)
	for i := range a {
		a[i] = min + float64(i)*step
	}
	return a
}

func TestRegistry(t *testing.T) {
	axis := buildAxis(0, 800e-9, 101)

	names := Models()
	sort.Strings(names)
	want := []string{"flat", "lattice", "twocolor"}
	if len(names) != len(want) {
		t.Fatalf("expected %d models, got %v", len(want), names)
	}
	for i, name := range want {
		if names[i] != name {
			t.Fatalf("expected models %v, got %v", want, names)
		}
	}

	for _, name := range want {
		src, err := New(name, axis)
		if err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
		if got := len(src.Potential()); got != len(axis) {
			t.Errorf("%s: potential length %d, want %d", name, got, len(axis))
		}
	}

	if _, err := New("nope", axis); err == nil {
		t.Error("expected an error for an unknown model")
	}
}

func TestFactory(t *testing.T) {
	axis := buildAxis(0, 800e-9, 11)

	newSource, err := Factory("twocolor", axis)
	if err != nil {
		t.Fatalf("Factory: %v", err)
	}
	a, b := newSource(), newSource()
	if a == b {
		t.Error("factory must produce a fresh instance per call")
	}
	if len(a.Potential()) != len(axis) {
		t.Error("factory instance not bound to the axis")
	}

	if _, err := Factory("nope", axis); err == nil {
		t.Error("expected an error for an unknown model")
	}
}

func TestFlatHasNoMinimum(t *testing.T) {
	axis := buildAxis(0, 800e-9, 801)
	src := NewFlat(axis)
	src.SetControls([]float64{5, 5})

	ext := trap.NewLocator(nil).FindMinimum(axis, src.Potential())
	if ext.Found() {
		t.Error("flat model must not produce a trap")
	}
}

func TestTwoColorMinimumMatchesAnalytic(t *testing.T) {
	// Full pipeline at default powers: edge from the proximity curve, then
	// the detected minimum against the analytic balance point.
	axis := buildAxis(-100e-9, 800e-9, 901)
	tc := NewTwoColor(axis)
	tc.SetControls([]float64{1, 1})

	out, err := trap.LocateOutside(axis, tc.Potential(), trap.BoundaryOptions{
		ProximityCurve: tc.ProximityCurve(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ext := trap.NewLocator(nil).FindMinimum(out.Axis, out.Curve)
	if !ext.Found() {
		t.Fatal("expected a trap minimum")
	}
	if ext.Depth >= 0 {
		t.Errorf("expected an attractive well, got depth %g", ext.Depth)
	}

	want := tc.MinimumPosition() - out.Edge
	if math.Abs(ext.Position-want) > 1.5e-9 {
		t.Errorf("minimum at %g, analytic balance at %g", ext.Position, want)
	}
}

func TestTwoColorInsideStructureIsZero(t *testing.T) {
	axis := buildAxis(-100e-9, 800e-9, 901)
	u := NewTwoColor(axis).Potential()

	for i, y := range axis {
		if y <= 0 && u[i] != 0 {
			t.Fatalf("potential inside the structure at %g must be 0, got %g", y, u[i])
		}
	}
}

func TestTwoColorPowerScaling(t *testing.T) {
	axis := buildAxis(-100e-9, 800e-9, 901)
	tc := NewTwoColor(axis)

	tc.SetControls([]float64{1, 1})
	lowBlue := tc.MinimumPosition()
	tc.SetControls([]float64{1, 4})
	highBlue := tc.MinimumPosition()

	// More repulsive power pushes the trap away from the surface.
	if highBlue <= lowBlue {
		t.Errorf("minimum did not move outward: %g -> %g", lowBlue, highBlue)
	}
}

func TestLatticeWells(t *testing.T) {
	axis := buildAxis(0, 2e-6, 1601)
	l := NewLattice(axis)
	l.SetControls([]float64{1, 1})
	u := l.Potential()

	// First well sits half a period out, where the standing wave peaks.
	i := trap.NearestIndex(axis, l.Period/2)
	if u[i] >= 0 {
		t.Errorf("expected an attractive well at half period, got %g", u[i])
	}
	// Node between wells is repulsive under the envelope offset.
	j := trap.NearestIndex(axis, l.Period)
	if u[j] <= 0 {
		t.Errorf("expected a repulsive node at one period, got %g", u[j])
	}
	if u[0] != 0 {
		t.Errorf("potential at the surface must be 0, got %g", u[0])
	}
}
