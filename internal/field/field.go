package field

import (
	"fmt"

	"github.com/atomoptics/trapscan/internal/trap"
)

// Source produces a sampled 1D potential for its current control settings.
type Source interface {
	SetControls(values []float64)
	Potential() trap.Curve
}

// registry of model constructors, keyed by CLI name.
var models = map[string]func(axis trap.Axis) Source{
	"twocolor": func(axis trap.Axis) Source { return NewTwoColor(axis) },
	"lattice":  func(axis trap.Axis) Source { return NewLattice(axis) },
	"flat":     func(axis trap.Axis) Source { return NewFlat(axis) },
}

// New builds the named model over the given axis.
func New(name string, axis trap.Axis) (Source, error) {
	ctor, ok := models[name]
	if !ok {
		return nil, fmt.Errorf("field: unknown model %q", name)
	}
	return ctor(axis), nil
}

// Factory resolves the named model once and returns a constructor producing
// a fresh instance per call. Parallel sweeps use it to give every worker its
// own provider without re-validating the name.
func Factory(name string, axis trap.Axis) (func() Source, error) {
	ctor, ok := models[name]
	if !ok {
		return nil, fmt.Errorf("field: unknown model %q", name)
	}
	return func() Source { return ctor(axis) }, nil
}

// Models lists the registered model names.
func Models() []string {
	names := make([]string, 0, len(models))
	for name := range models {
		names = append(names, name)
	}
	return names
}

// Flat is a zero potential everywhere: no confinement for any controls.
// Useful as a null case in tests and demos.
type Flat struct {
	axis trap.Axis
}

func NewFlat(axis trap.Axis) *Flat { return &Flat{axis: axis} }

func (f *Flat) SetControls([]float64) {}

func (f *Flat) Potential() trap.Curve {
	return make(trap.Curve, len(f.axis))
}
