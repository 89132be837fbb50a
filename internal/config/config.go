// Package config handles tool configuration loading and management.
package config

// Config holds all tool settings.
type Config struct {
	Region  RegionConfig  `yaml:"region"`
	Gen     GenConfig     `yaml:"gen"`
	Logging LoggingConfig `yaml:"logging"`
}

// RegionConfig describes the push region. Either a GeoJSON file or
// explicit bounds in degrees; the GeoJSON file wins when both are set.
// With Outer, the bounds describe the outer blend rectangle instead of
// the inner one.
type RegionConfig struct {
	West    float64 `yaml:"west"`
	South   float64 `yaml:"south"`
	East    float64 `yaml:"east"`
	North   float64 `yaml:"north"`
	GeoJSON string  `yaml:"geojson"`
	Outer   bool    `yaml:"outer"`
}

// GenConfig holds tile generation settings.
type GenConfig struct {
	Divisions int     `yaml:"divisions"` // Grid divisions per tile side
	Amplitude float64 `yaml:"amplitude"` // Synthetic terrain height in meters
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Region: RegionConfig{},
		Gen: GenConfig{
			Divisions: 64,
			Amplitude: 0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
