package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Physical and detection defaults. The detection thresholds are empirically
// tuned values carried over from the reference analysis; they are exposed as
// configuration rather than baked into the algorithms.
const (
	DefaultMass        = 2.20694650e-25 // cesium-133, kg
	DefaultEnergyScale = 1.380649e-26   // kB × 1 mK: millikelvin curves to joules

	DefaultMinDistance     = 10
	DefaultMinProminence   = 5e-4
	DefaultEdgeExclusion   = 5
	DefaultProximityHeight = 10.0
	DefaultDepthClip       = 10.0
	DefaultHeightClip      = 10.0

	DefaultPositionScale  = 1e9 // meters to nanometers
	DefaultFrequencyScale = 1e3 // hertz to kilohertz
)

type Config struct {
	Model      string          `yaml:"model"`
	Axis       AxisConfig      `yaml:"axis"`
	Atom       AtomConfig      `yaml:"atom"`
	Thresholds ThresholdConfig `yaml:"thresholds"`
	Sweep      SweepConfig     `yaml:"sweep"`
	Display    DisplayConfig   `yaml:"display"`
}

// AxisConfig defines the sampled coordinate grid, in meters.
type AxisConfig struct {
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
	Samples int     `yaml:"samples"`
}

type AtomConfig struct {
	Mass        float64 `yaml:"mass"`         // kg
	EnergyScale float64 `yaml:"energy_scale"` // J per curve unit
}

type ThresholdConfig struct {
	MinDistance     int     `yaml:"min_distance"`
	MinProminence   float64 `yaml:"min_prominence"`
	EdgeExclusion   int     `yaml:"edge_exclusion"`
	ProximityHeight float64 `yaml:"proximity_height"`
	DepthClip       float64 `yaml:"depth_clip"`
	HeightClip      float64 `yaml:"height_clip"`
}

// SweepConfig defines the 2D control-power grid, in mW.
type SweepConfig struct {
	P1Min   float64 `yaml:"p1_min"`
	P1Max   float64 `yaml:"p1_max"`
	P1Step  float64 `yaml:"p1_step"`
	P2Min   float64 `yaml:"p2_min"`
	P2Max   float64 `yaml:"p2_max"`
	P2Step  float64 `yaml:"p2_step"`
	YMin    float64 `yaml:"y_min"` // axis start offset, m
	Workers int     `yaml:"workers"`
}

type DisplayConfig struct {
	PositionScale  float64 `yaml:"position_scale"`
	FrequencyScale float64 `yaml:"frequency_scale"`
}

func DefaultConfig() *Config {
	return &Config{
		Model: "twocolor",
		Axis: AxisConfig{
			Min:     -100e-9,
			Max:     800e-9,
			Samples: 901,
		},
		Atom: AtomConfig{
			Mass:        DefaultMass,
			EnergyScale: DefaultEnergyScale,
		},
		Thresholds: ThresholdConfig{
			MinDistance:     DefaultMinDistance,
			MinProminence:   DefaultMinProminence,
			EdgeExclusion:   DefaultEdgeExclusion,
			ProximityHeight: DefaultProximityHeight,
			DepthClip:       DefaultDepthClip,
			HeightClip:      DefaultHeightClip,
		},
		Sweep: SweepConfig{
			P1Min:   0,
			P1Max:   10,
			P1Step:  1,
			P2Min:   0,
			P2Max:   10,
			P2Step:  1,
			Workers: 1,
		},
		Display: DisplayConfig{
			PositionScale:  DefaultPositionScale,
			FrequencyScale: DefaultFrequencyScale,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// BuildAxis materializes the coordinate grid.
func (c *Config) BuildAxis() []float64 {
	n := c.Axis.Samples
	if n < 2 {
		return []float64{c.Axis.Min}
	}
	axis := make([]float64, n)
	step := (c.Axis.Max - c.Axis.Min) / float64(n-1)
	for i := range axis {
		axis[i] = c.Axis.Min + float64(i)*step
	}
	return axis
}

// Range1 and Range2 materialize the control-power ranges in their natural
// ascending construction order. The sweep itself iterates the first range in
// reverse.
func (c *Config) Range1() []float64 { return buildRange(c.Sweep.P1Min, c.Sweep.P1Max, c.Sweep.P1Step) }
func (c *Config) Range2() []float64 { return buildRange(c.Sweep.P2Min, c.Sweep.P2Max, c.Sweep.P2Step) }

// buildRange is a half-open [min, max) range, matching the reference sweep.
func buildRange(min, max, step float64) []float64 {
	if step <= 0 {
		return nil
	}
	var r []float64
	for v := min; v < max; v += step {
		r = append(r, v)
	}
	return r
}
