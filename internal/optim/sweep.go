package optim

import (
	"context"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/atomoptics/trapscan/internal/trap"
)

// Provider computes a fresh 1D potential for the current control settings.
// A Provider is not safe for concurrent use; parallel sweeps give every
// worker its own instance from the factory.
type Provider interface {
	SetControls(values []float64)
	Potential() trap.Curve
}

// ProximityProvider additionally exposes the surface-interaction curve used
// to locate the structure edge automatically.
type ProximityProvider interface {
	Provider
	ProximityCurve() trap.Curve
}

// Outlier-clipping and display-unit defaults, in the working units of the
// original analysis (millikelvin curves, nanometer positions, kilohertz
// frequencies). Absolute values beyond the clip thresholds are fit blow-ups,
// not physics.
const (
	DefaultDepthClip      = 10.0
	DefaultHeightClip     = 10.0
	DefaultPositionScale  = 1e9
	DefaultFrequencyScale = 1e3
)

// Progress reports one completed outer-loop row. Delivery must never block
// the sweep; sinks drop events rather than applying backpressure.
type Progress struct {
	Completed int // rows finished so far
	Total     int
	Control1  float64 // control value of the row just finished
}

// Result holds the four characteristic grids of a control-space sweep, all
// shaped (len(Range1), len(Range2)). Range1 is stored in the descending
// iteration order so row 0 of each grid is the highest control value.
type Result struct {
	Range1, Range2 []float64

	Position  [][]float64 // trap position, display units (PositionScale)
	Depth     [][]float64 // |trap depth|, curve units
	Height    [][]float64 // |barrier height|, curve units
	Frequency [][]float64 // trap frequency, display units (FrequencyScale)
}

// Sweeper maps trap characteristics over a 2D grid of control values by
// recomputing the potential at every grid point and re-running the
// extraction pipeline.
type Sweeper struct {
	Locator *trap.Locator
	Mass    float64 // particle mass, kg
	Scale   float64 // curve units to energy, J per curve unit

	DepthClip      float64
	HeightClip     float64
	PositionScale  float64
	FrequencyScale float64

	// Workers parallelizes rows of the grid; each worker draws its own
	// Provider from the factory. 1 (the default) keeps the sweep sequential.
	Workers int

	// UseProximity locates the structure edge from the provider's proximity
	// curve instead of truncating at the axis start offset. Requires a
	// ProximityProvider.
	UseProximity bool

	// OnProgress, when set, receives one event per completed row.
	OnProgress func(Progress)

	log *zap.Logger
}

func NewSweeper(mass, scale float64, log *zap.Logger) *Sweeper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sweeper{
		Locator:        trap.NewLocator(log),
		Mass:           mass,
		Scale:          scale,
		DepthClip:      DefaultDepthClip,
		HeightClip:     DefaultHeightClip,
		PositionScale:  DefaultPositionScale,
		FrequencyScale: DefaultFrequencyScale,
		Workers:        1,
		log:            log,
	}
}

// Sweep iterates range1 in descending and range2 in ascending order, running
// the boundary/minimum/frequency pipeline per cell. The row ordering is a
// presentation convention of the result grids and is preserved.
//
// A numeric failure in one cell zeroes that cell's frequency and the sweep
// continues; a *trap.ConfigurationError aborts the whole sweep. Cancellation
// is honored at row boundaries.
func (s *Sweeper) Sweep(ctx context.Context, axis trap.Axis, factory func() Provider, range1, range2 []float64, axisStart float64) (*Result, error) {
	rev := make([]float64, len(range1))
	for i, v := range range1 {
		rev[len(range1)-1-i] = v
	}

	res := &Result{
		Range1:    rev,
		Range2:    append([]float64(nil), range2...),
		Position:  newGrid(len(rev), len(range2)),
		Depth:     newGrid(len(rev), len(range2)),
		Height:    newGrid(len(rev), len(range2)),
		Frequency: newGrid(len(rev), len(range2)),
	}

	workers := s.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(rev) {
		workers = len(rev)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		done     int
	)
	rows := make(chan int)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			provider := factory()
			for i := range rows {
				if err := s.sweepRow(provider, axis, res, rev[i], i, range2, axisStart); err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					cancel()
					return
				}
				mu.Lock()
				done++
				completed := done
				mu.Unlock()
				if s.OnProgress != nil {
					s.OnProgress(Progress{Completed: completed, Total: len(rev), Control1: rev[i]})
				}
			}
		}()
	}

feed:
	for i := range rev {
		select {
		case rows <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(rows)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.sanitize(res)
	return res, nil
}

func (s *Sweeper) sweepRow(p Provider, axis trap.Axis, res *Result, c1 float64, i int, range2 []float64, axisStart float64) error {
	for j, c2 := range range2 {
		p.SetControls([]float64{c1, c2})
		curve := p.Potential()

		opts := trap.BoundaryOptions{ExplicitEdge: &axisStart}
		if s.UseProximity {
			pp, ok := p.(ProximityProvider)
			if !ok {
				return trap.ErrMissingEdge
			}
			opts = trap.BoundaryOptions{ProximityCurve: pp.ProximityCurve()}
		}
		out, err := trap.LocateOutside(axis, curve, opts)
		if err != nil {
			if trap.IsConfiguration(err) {
				return err
			}
			// A numeric defect in one cell (e.g. a provider returning a
			// mis-sized curve) leaves the cell zeroed; only configuration
			// errors are fatal to the sweep.
			s.log.Warn("cell skipped", zap.Error(err),
				zap.Float64("control1", c1), zap.Float64("control2", c2))
			continue
		}

		ext := s.Locator.FindMinimum(out.Axis, out.Curve)

		freq := 0.0
		if ext.Found() && ext.LeftBase >= 0 {
			freq = s.cellFrequency(out.Axis, out.Curve, ext) / s.FrequencyScale
		}

		depth, height := ext.Depth, ext.Barrier
		if math.Abs(depth) > s.DepthClip {
			depth = 0
		}
		if math.Abs(height) > s.HeightClip {
			height = 0
		}

		res.Position[i][j] = ext.Position
		res.Depth[i][j] = math.Abs(depth)
		res.Height[i][j] = math.Abs(height)
		res.Frequency[i][j] = freq
	}
	return nil
}

// cellFrequency estimates the trap frequency from a quadratic fit over the
// window between the minimum and its midpoint reflection around the barrier.
// Cheaper than the full high-order fit and accurate enough for a dense
// sweep; any degeneracy zeroes the cell instead of failing the sweep.
func (s *Sweeper) cellFrequency(axis trap.Axis, curve trap.Curve, ext trap.TrapExtremum) float64 {
	barrierPos := axis[ext.LeftBase]
	half := (ext.Position - barrierPos) / 2
	left := trap.NearestIndex(axis, ext.Position-half)
	right := trap.NearestIndex(axis, ext.Position+half)
	if left > right {
		left, right = right, left
	}
	if right-left < 3 {
		s.log.Debug("fit window too narrow for cell frequency",
			zap.Float64("position", ext.Position))
		return 0
	}

	poly, err := trap.PolyFit(axis[left:right], curve[left:right], 2)
	if err != nil {
		s.log.Debug("quadratic cell fit degenerate", zap.Error(err))
		return 0
	}

	fitted := make([]float64, len(axis))
	for k, x := range axis {
		fitted[k] = poly.Eval(x)
	}
	der2 := trap.Gradient(trap.Gradient(fitted, axis), axis)

	curvature := der2[trap.NearestIndex(axis, ext.Position)]
	if curvature <= 0 {
		return 0
	}
	return math.Sqrt(curvature*s.Scale/s.Mass) / (2 * math.Pi)
}

// sanitize replaces NaN cells (not-found minima) with 0 and scales positions
// into display units.
func (s *Sweeper) sanitize(res *Result) {
	for _, grid := range [][][]float64{res.Position, res.Depth, res.Height, res.Frequency} {
		for _, row := range grid {
			for j, v := range row {
				if math.IsNaN(v) {
					row[j] = 0
				}
			}
		}
	}
	for _, row := range res.Position {
		for j := range row {
			row[j] *= s.PositionScale
		}
	}
}

func newGrid(rows, cols int) [][]float64 {
	g := make([][]float64, rows)
	for i := range g {
		g[i] = make([]float64, cols)
	}
	return g
}
