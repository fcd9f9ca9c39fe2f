package config

// Presets are named starting configurations for the demo scenes.
var presets = map[string]func() *Config{
	"drop": func() *Config {
		cfg := DefaultConfig()
		cfg.Restitution = 0.5
		cfg.Bodies = []BodyConfig{
			{Mass: 1.0, Position: [3]float64{0, 5, 0}},
		}
		return cfg
	},
	"elastic_pair": func() *Config {
		cfg := DefaultConfig()
		cfg.Restitution = 1.0
		cfg.Ground.Enabled = false
		cfg.Bodies = []BodyConfig{
			{Mass: 1.0, Position: [3]float64{-2, 1, 0}, Velocity: [3]float64{1, 0, 0}},
			{Mass: 1.0, Position: [3]float64{2, 1, 0}, Velocity: [3]float64{-1, 0, 0}},
		}
		return cfg
	},
	"tumble": func() *Config {
		cfg := DefaultConfig()
		cfg.Bodies = []BodyConfig{
			{
				Mass:     2.0,
				Position: [3]float64{0, 6, 0},
				Spin:     [3]float64{0.5, 2.0, 0.1},
				Extents:  [3]float64{1, 0.5, 0.25},
			},
		}
		return cfg
	},
	"rain": func() *Config {
		cfg := DefaultConfig()
		cfg.Restitution = 0.3
		cfg.Bodies = []BodyConfig{
			{Mass: 1.0, Position: [3]float64{-2, 4, 0}},
			{Mass: 2.0, Position: [3]float64{0, 6, 0}},
			{Mass: 0.5, Position: [3]float64{2, 8, 0}},
		}
		return cfg
	},
}

func GetPreset(name string) *Config {
	build, ok := presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	return names
}
