package config

import "sort"

var Presets = map[string]*Config{
	"triangle": {
		Bodies: 3, Radius: 10, Speed: 1, Timestep: 0.01, StepsPerFrame: 4, Mode: "iterative",
	},
	"square": {
		Bodies: 4, Radius: 10, Speed: 1, Timestep: 0.01, StepsPerFrame: 4, Mode: "iterative",
	},
	"pentagon": {
		Bodies: 5, Radius: 10, Speed: 1, Timestep: 0.01, StepsPerFrame: 4, Mode: "iterative",
	},
	"hexagon": {
		Bodies: 6, Radius: 10, Speed: 1, Timestep: 0.005, StepsPerFrame: 8, Mode: "iterative",
	},
	"swarm": {
		Bodies: 24, Radius: 10, Speed: 1, Timestep: 0.001, Mode: "closed_form",
	},
	"duel": {
		Bodies: 2, Radius: 10, Speed: 1, Timestep: 0.01, StepsPerFrame: 2, Mode: "iterative",
	},
	"fine": {
		Bodies: 4, Radius: 10, Speed: 1, Timestep: 0.0005, Mode: "closed_form",
	},
}

// GetPreset returns a copy of the named preset with defaults filled in, or
// nil when it does not exist.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	def := DefaultConfig()
	if cfg.StepsPerFrame == 0 {
		cfg.StepsPerFrame = def.StepsPerFrame
	}
	if cfg.MaxSteps == 0 {
		cfg.MaxSteps = def.MaxSteps
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
