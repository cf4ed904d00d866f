package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = "envirosense.yaml"

// Config represents the application configuration.
type Config struct {
	Sensor SensorConfig `yaml:"sensor"`
	Plot   PlotConfig   `yaml:"plot"`
	Log    LogConfig    `yaml:"log"`
}

// SensorConfig selects the sensor that is active when a session starts.
type SensorConfig struct {
	Default string `yaml:"default"` // Catalog name, e.g. "Temp"
}

// PlotConfig contains ASCII plot settings.
type PlotConfig struct {
	Marker string `yaml:"marker"` // Single character drawn for plotted points
}

// LogConfig contains diagnostic logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn or error
	File  string `yaml:"file"`  // Empty logs to stderr
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Sensor: SensorConfig{
			Default: "Temp",
		},
		Plot: PlotConfig{
			Marker: "*",
		},
		Log: LogConfig{
			Level: "warn",
			File:  "",
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MarkerRune returns the plot marker, falling back to '*' when unset.
func (c *Config) MarkerRune() rune {
	for _, r := range c.Plot.Marker {
		return r
	}
	return '*'
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Sensor.Default == "" {
		c.Sensor.Default = def.Sensor.Default
	}
	if c.Plot.Marker == "" {
		c.Plot.Marker = def.Plot.Marker
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}
