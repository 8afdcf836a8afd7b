package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/atomoptics/trapscan/internal/config"
	"github.com/atomoptics/trapscan/internal/field"
	"github.com/atomoptics/trapscan/internal/optim"
	"github.com/atomoptics/trapscan/internal/storage"
	"github.com/atomoptics/trapscan/internal/trap"
	"github.com/atomoptics/trapscan/internal/tui"
	"github.com/atomoptics/trapscan/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	verbose    bool

	p1, p2  float64
	edge    float64
	live    bool
	save    bool
	workers int
	svgOut  string
)

var log *zap.Logger

func main() {
	rootCmd := &cobra.Command{
		Use:   "trapscan",
		Short: "optical trap characterization from sampled potentials",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".trapscan", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration (model/name)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose diagnostics")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [model]",
		Short: "analyze the trap at fixed control powers",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAnalyze,
	}
	analyzeCmd.Flags().Float64Var(&p1, "p1", 1.0, "first control power (mW)")
	analyzeCmd.Flags().Float64Var(&p2, "p2", 1.0, "second control power (mW)")
	analyzeCmd.Flags().Float64Var(&edge, "edge", 0.0, "explicit structure edge (m), used when the model has no proximity curve")

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "map trap characteristics over the control-power grid",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = from config)")
	sweepCmd.Flags().BoolVar(&live, "live", false, "show live progress view")
	sweepCmd.Flags().BoolVar(&save, "save", true, "persist result grids")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored sweep runs",
		RunE:  runList,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id] [grid]",
		Short: "heatmap of a stored result grid (position, depth, height, frequency)",
		Args:  cobra.ExactArgs(2),
		RunE:  runPlot,
	}
	plotCmd.Flags().StringVar(&svgOut, "svg", "", "write the heatmap to an SVG file instead of the terminal")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list potential models and their presets",
		Run: func(cmd *cobra.Command, args []string) {
			names := field.Models()
			sort.Strings(names)
			for _, name := range names {
				presets := config.ListPresets(name)
				sort.Strings(presets)
				if len(presets) > 0 {
					fmt.Printf("%s (presets: %s)\n", name, strings.Join(presets, ", "))
				} else {
					fmt.Println(name)
				}
			}
		},
	}

	rootCmd.AddCommand(analyzeCmd, sweepCmd, listCmd, plotCmd, exportCmd, modelsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogger() error {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	var err error
	log, err = cfg.Build()
	return err
}

func loadConfig(args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if len(args) > 0 {
		cfg.Model = args[0]
	}
	if preset != "" {
		if p := config.GetPreset(cfg.Model, preset); p != nil {
			cfg = p
		} else {
			return nil, fmt.Errorf("unknown preset %q for model %q", preset, cfg.Model)
		}
	}
	return cfg, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	axis := trap.Axis(cfg.BuildAxis())
	src, err := field.New(cfg.Model, axis)
	if err != nil {
		return err
	}
	src.SetControls([]float64{p1, p2})
	curve := src.Potential()

	opts := trap.BoundaryOptions{ExplicitEdge: &edge}
	if pp, ok := src.(interface{ ProximityCurve() trap.Curve }); ok {
		opts = trap.BoundaryOptions{
			ProximityCurve: pp.ProximityCurve(),
			PeakHeight:     cfg.Thresholds.ProximityHeight,
		}
	}
	out, err := trap.LocateOutside(axis, curve, opts)
	if err != nil {
		return err
	}

	locator := newLocator(cfg)
	ext := locator.FindMinimum(out.Axis, out.Curve)

	estimator := trap.NewEstimator(cfg.Atom.Mass, cfg.Atom.EnergyScale, log)
	estimator.Minima = locator
	freq := estimator.Estimate(out.Axis, out.Curve)

	fmt.Println(asciigraph.Plot([]float64(out.Curve),
		asciigraph.Height(14),
		asciigraph.Caption(fmt.Sprintf("%s potential outside structure (mK), P=[%.3g %.3g] mW", cfg.Model, p1, p2)),
	))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintf(w, "edge position\t%.4g nm\n", out.Edge*cfg.Display.PositionScale)
	if ext.Found() {
		fmt.Fprintf(w, "trap position\t%.4g nm\n", ext.Position*cfg.Display.PositionScale)
		fmt.Fprintf(w, "trap depth\t%.4g mK\n", ext.Depth)
		fmt.Fprintf(w, "barrier height\t%.4g mK\n", ext.Barrier)
		fmt.Fprintf(w, "trap frequency\t%.4g kHz\n", freq/cfg.Display.FrequencyScale)
	} else {
		fmt.Fprintf(w, "trap\tnone detected\n")
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	axis := trap.Axis(cfg.BuildAxis())
	newSource, err := field.Factory(cfg.Model, axis)
	if err != nil {
		return err
	}
	factory := func() optim.Provider { return newSource() }

	sweeper := newSweeper(cfg)
	if workers > 0 {
		sweeper.Workers = workers
	}
	if _, ok := newSource().(optim.ProximityProvider); ok {
		sweeper.UseProximity = true
	}

	var res *optim.Result
	if live {
		res, err = runLiveSweep(sweeper, axis, factory, cfg.Range1(), cfg.Range2(), cfg.Sweep.YMin, tui.Run)
		if err != nil {
			return err
		}
	} else {
		sweeper.OnProgress = func(p optim.Progress) {
			fmt.Fprintf(os.Stderr, "\rsweep %d/%d rows", p.Completed, p.Total)
		}
		res, err = sweeper.Sweep(context.Background(), axis, factory, cfg.Range1(), cfg.Range2(), cfg.Sweep.YMin)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return err
		}
	}

	fmt.Println(viz.Heatmap(res.Position, "trap position", "nm"))
	fmt.Println(viz.Heatmap(res.Depth, "trap depth", "mK"))
	fmt.Println(viz.Heatmap(res.Height, "barrier height", "mK"))
	fmt.Println(viz.Heatmap(res.Frequency, "trap frequency", "kHz"))

	if save {
		store := storage.New(dataDir)
		if err := store.Init(); err != nil {
			return err
		}
		runID, err := store.Save(cfg.Model, sweeper.Workers, res)
		if err != nil {
			return err
		}
		fmt.Printf("saved run %s\n", runID)
	}
	return nil
}

// runLiveSweep runs the sweep behind an interactive progress view. When the
// view exits early (user quit), the sweep is canceled and fully drained
// before results are read, so the goroutine's writes are visible here.
func runLiveSweep(sweeper *optim.Sweeper, axis trap.Axis, factory func() optim.Provider,
	range1, range2 []float64, yMin float64,
	ui func(<-chan optim.Progress, <-chan error) error) (*optim.Result, error) {

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan optim.Progress, 64)
	done := make(chan error, 1)
	finished := make(chan struct{})

	sweeper.OnProgress = func(p optim.Progress) {
		select {
		case events <- p:
		default: // the display is best-effort, never stall the sweep
		}
	}

	var (
		res      *optim.Result
		sweepErr error
	)
	go func() {
		res, sweepErr = sweeper.Sweep(ctx, axis, factory, range1, range2, yMin)
		close(events)
		done <- sweepErr
		close(finished)
	}()

	uiErr := ui(events, done)
	cancel()
	<-finished

	if uiErr != nil {
		return nil, uiErr
	}
	if errors.Is(sweepErr, context.Canceled) {
		return nil, fmt.Errorf("sweep aborted")
	}
	if sweepErr != nil {
		return nil, sweepErr
	}
	return res, nil
}

func runList(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tGRID\tWHEN")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%s\n",
			run.ID, run.Model, len(run.Range1), len(run.Range2),
			run.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func runPlot(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	grid, err := store.LoadGrid(args[0], args[1])
	if err != nil {
		return err
	}
	if svgOut != "" {
		return os.WriteFile(svgOut, []byte(viz.SVG(grid, args[1], unitFor(args[1]))), 0644)
	}
	fmt.Println(viz.Heatmap(grid, args[1], unitFor(args[1])))
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	meta, err := store.Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func unitFor(grid string) string {
	switch grid {
	case "position":
		return "nm"
	case "frequency":
		return "kHz"
	default:
		return "mK"
	}
}

func newLocator(cfg *config.Config) *trap.Locator {
	l := trap.NewLocator(log)
	l.MinDistance = cfg.Thresholds.MinDistance
	l.MinProminence = cfg.Thresholds.MinProminence
	l.EdgeExclusion = cfg.Thresholds.EdgeExclusion
	return l
}

func newSweeper(cfg *config.Config) *optim.Sweeper {
	s := optim.NewSweeper(cfg.Atom.Mass, cfg.Atom.EnergyScale, log)
	s.Locator = newLocator(cfg)
	s.DepthClip = cfg.Thresholds.DepthClip
	s.HeightClip = cfg.Thresholds.HeightClip
	s.PositionScale = cfg.Display.PositionScale
	s.FrequencyScale = cfg.Display.FrequencyScale
	s.Workers = cfg.Sweep.Workers
	return s
}
