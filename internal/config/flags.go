package config

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagRegion    = flag.String("region", "", "Push region bounds in degrees: west,south,east,north")
	flagGeoJSON   = flag.String("geojson", "", "Path to a GeoJSON file bounding the push region")
	flagOuter     = flag.Bool("outer", false, "Treat the region bounds as the outer blend rectangle")
	flagDivisions = flag.Int("divisions", 0, "Grid divisions per generated tile side")
	flagLogFile   = flag.String("logfile", "", "Path to log file")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) error {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagRegion != "" {
		bounds, err := ParseBounds(*flagRegion)
		if err != nil {
			return fmt.Errorf("invalid -region: %w", err)
		}
		cfg.Region.West = bounds[0]
		cfg.Region.South = bounds[1]
		cfg.Region.East = bounds[2]
		cfg.Region.North = bounds[3]
		cfg.Region.GeoJSON = ""
	}
	if *flagGeoJSON != "" {
		cfg.Region.GeoJSON = *flagGeoJSON
	}
	if *flagOuter {
		cfg.Region.Outer = true
	}
	if *flagDivisions > 0 {
		cfg.Gen.Divisions = *flagDivisions
	}
	return nil
}

// ParseBounds parses a west,south,east,north degree quadruple.
func ParseBounds(s string) ([4]float64, error) {
	var bounds [4]float64
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return bounds, fmt.Errorf("want 4 comma-separated values, got %d", len(parts))
	}
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return bounds, fmt.Errorf("value %q: %w", part, err)
		}
		bounds[i] = v
	}
	return bounds, nil
}
