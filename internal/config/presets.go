package config

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"galaxy": {
		Bodies: 800, G: 10, Mass: 1, OrbitFraction: 0.55, SpeedFraction: 0.01, Seed: 1,
		Viewport: ViewportConfig{Width: 1200, Height: 900},
		Run:      RunConfig{Frames: 900, FPS: 60, Validate: true},
	},
	"cluster": {
		Bodies: 200, G: 25, Mass: 1, OrbitFraction: 0.2, SpeedFraction: 0.01, Seed: 3,
		Viewport: ViewportConfig{Width: 800, Height: 600},
		Run:      RunConfig{Frames: 600, FPS: 60, Validate: true},
	},
	"binary": {
		Bodies: 2, G: 10, Mass: 1, OrbitFraction: 0.55, SpeedFraction: 0.01, Seed: 5,
		Viewport: ViewportConfig{Width: 400, Height: 400},
		Run:      RunConfig{Frames: 300, FPS: 60, Validate: true},
	},
	"sparse": {
		Bodies: 50, G: 10, Mass: 1, OrbitFraction: 0.9, SpeedFraction: 0.01, Seed: 9,
		Viewport: ViewportConfig{Width: 800, Height: 600},
		Run:      RunConfig{Frames: 1200, FPS: 30, Validate: true},
	},
}

// GetPreset returns a copy of the named preset, or nil if it does not exist.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
