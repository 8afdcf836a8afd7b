package config

// Presets bundle model and sweep settings for common analysis setups.
var Presets = map[string]map[string]*Config{
	"twocolor": {
		"nanofiber": presetTwoColor(-100e-9, 800e-9, 901, 0, 10, 1),
		"fine":      presetTwoColor(-100e-9, 800e-9, 901, 0, 10, 0.25),
		"quick":     presetTwoColor(-100e-9, 800e-9, 451, 0, 5, 1),
	},
	"lattice": {
		"standing": presetModel("lattice", 0, 2e-6, 1601, 0, 10, 1),
	},
	"flat": {
		"null": presetModel("flat", 0, 800e-9, 801, 0, 3, 1),
	},
}

func presetTwoColor(min, max float64, samples int, pmin, pmax, step float64) *Config {
	return presetModel("twocolor", min, max, samples, pmin, pmax, step)
}

func presetModel(model string, min, max float64, samples int, pmin, pmax, step float64) *Config {
	cfg := DefaultConfig()
	cfg.Model = model
	cfg.Axis = AxisConfig{Min: min, Max: max, Samples: samples}
	cfg.Sweep.P1Min, cfg.Sweep.P1Max, cfg.Sweep.P1Step = pmin, pmax, step
	cfg.Sweep.P2Min, cfg.Sweep.P2Max, cfg.Sweep.P2Step = pmin, pmax, step
	return cfg
}

func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	return names
}
