package config

// UIConfig holds terminal front end configuration.
type UIConfig struct {
	// Theme is "dark", "light" or empty for auto-detection.
	Theme string `yaml:"theme,omitempty"`

	// TickInterval is the pause between generations in the interactive view.
	TickInterval string `yaml:"tick_interval"`

	// Adjustment steps for the rate and copies controls.
	RateStep   float64 `yaml:"rate_step"`
	CopiesStep uint32  `yaml:"copies_step"`
	MaxCopies  uint32  `yaml:"max_copies"`
}
