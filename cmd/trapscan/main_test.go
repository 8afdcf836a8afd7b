package main

import (
	"strings"
	"testing"
	"time"

	"github.com/atomoptics/trapscan/internal/optim"
	"github.com/atomoptics/trapscan/internal/trap"
)

// slowProvider stretches each cell out so a sweep is still running when the
// view quits.
type slowProvider struct {
	axis  trap.Axis
	delay time.Duration
}

func (p *slowProvider) SetControls([]float64) {}

func (p *slowProvider) Potential() trap.Curve {
	time.Sleep(p.delay)
	return make(trap.Curve, len(p.axis))
}

func testAxis(n int) trap.Axis {
	a := make(trap.Axis, n)
	for i := range a {
		a[i] = float64(i)
	}
	return a
}

func manyRows(n int) []float64 {
	r := make([]float64, n)
	for i := range r {
		r[i] = float64(i)
	}
	return r
}

func TestRunLiveSweepEarlyQuit(t *testing.T) {
	axis := testAxis(101)
	factory := func() optim.Provider {
		return &slowProvider{axis: axis, delay: 5 * time.Millisecond}
	}
	sweeper := optim.NewSweeper(1, 1, nil)

	// The view returns immediately, as if the user quit straight away; the
	// sweep must be canceled and drained before results are read.
	quitUI := func(events <-chan optim.Progress, done <-chan error) error {
		return nil
	}

	res, err := runLiveSweep(sweeper, axis, factory, manyRows(200), []float64{0}, axis[0], quitUI)

	if err == nil || !strings.Contains(err.Error(), "aborted") {
		t.Fatalf("expected an aborted-sweep error, got %v", err)
	}
	if res != nil {
		t.Error("aborted sweep must not return a result")
	}
}

func TestRunLiveSweepCompletes(t *testing.T) {
	axis := testAxis(101)
	factory := func() optim.Provider {
		return &slowProvider{axis: axis}
	}
	sweeper := optim.NewSweeper(1, 1, nil)

	// A well-behaved view drains events and waits for the sweep to finish.
	waitUI := func(events <-chan optim.Progress, done <-chan error) error {
		for range events {
		}
		return <-done
	}

	res, err := runLiveSweep(sweeper, axis, factory, manyRows(3), []float64{0, 1}, axis[0], waitUI)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res == nil {
		t.Fatal("expected a result")
	}
	if len(res.Position) != 3 || len(res.Position[0]) != 2 {
		t.Errorf("unexpected grid shape %dx%d", len(res.Position), len(res.Position[0]))
	}
}

func TestRunLiveSweepUIError(t *testing.T) {
	axis := testAxis(101)
	factory := func() optim.Provider {
		return &slowProvider{axis: axis, delay: time.Millisecond}
	}
	sweeper := optim.NewSweeper(1, 1, nil)

	failUI := func(events <-chan optim.Progress, done <-chan error) error {
		return errTerminal
	}

	_, err := runLiveSweep(sweeper, axis, factory, manyRows(100), []float64{0}, axis[0], failUI)

	if err != errTerminal {
		t.Fatalf("expected the view error, got %v", err)
	}
}

var errTerminal = &terminalError{}

type terminalError struct{}

func (*terminalError) Error() string { return "terminal unavailable" }
