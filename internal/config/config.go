package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"weasel/internal/charset"
)

// DefaultPath is where the CLI looks for a config file.
const DefaultPath = "weasel.yaml"

// Config holds all weasel configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Search parameters
	Evolution EvolutionConfig `yaml:"evolution"`

	// Symbol alphabet
	Alphabet AlphabetConfig `yaml:"alphabet"`

	// Terminal front end
	UI UIConfig `yaml:"ui"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Tracing and metrics
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// AlphabetConfig selects the symbols candidates are drawn from.
type AlphabetConfig struct {
	// Symbols overrides the built-in alphabet when non-empty.
	Symbols string `yaml:"symbols,omitempty"`
}

// Charset builds the configured alphabet.
func (a AlphabetConfig) Charset() (*charset.Charset, error) {
	if a.Symbols == "" {
		return charset.Default(), nil
	}
	return charset.New(a.Symbols)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "weasel",
		Version: "0.3.0",

		Evolution: EvolutionConfig{
			Sentence:     DefaultSentence,
			MutationRate: 0.08,
			Copies:       500,
			Workers:      1,
		},

		UI: UIConfig{
			TickInterval: "30ms",
			RateStep:     0.025,
			CopiesStep:   10,
			MaxCopies:    5000,
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},

		Telemetry: TelemetryConfig{
			TraceExporter: "none",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults.
// Environment overrides are applied on top of the file in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if s := os.Getenv("WEASEL_SENTENCE"); s != "" {
		c.Evolution.Sentence = s
	}
	if s := os.Getenv("WEASEL_MRATE"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid WEASEL_MRATE %q: %w", s, err)
		}
		c.Evolution.MutationRate = v
	}
	if s := os.Getenv("WEASEL_NCOPIES"); s != "" {
		v, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid WEASEL_NCOPIES %q: %w", s, err)
		}
		c.Evolution.Copies = uint32(v)
	}
	if s := os.Getenv("WEASEL_WORKERS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid WEASEL_WORKERS %q: %w", s, err)
		}
		c.Evolution.Workers = v
	}
	if s := os.Getenv("WEASEL_SEED"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid WEASEL_SEED %q: %w", s, err)
		}
		c.Evolution.Seed = v
	}
	if os.Getenv("WEASEL_DARK_MODE") == "1" {
		c.UI.Theme = "dark"
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	cs, err := c.Alphabet.Charset()
	if err != nil {
		return fmt.Errorf("invalid alphabet: %w", err)
	}
	if err := c.Evolution.Validate(cs); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.Telemetry.Validate(); err != nil {
		return err
	}
	return nil
}

// GetTimeout returns the evolution timeout; zero means none.
func (c *Config) GetTimeout() time.Duration {
	return parseDuration(c.Evolution.Timeout, 0)
}

// GetTickInterval returns the UI step interval.
func (c *Config) GetTickInterval() time.Duration {
	return parseDuration(c.UI.TickInterval, 30*time.Millisecond)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
