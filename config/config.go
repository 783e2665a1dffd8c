package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// MapConfig holds chart and map pane settings
type MapConfig struct {
	Shapefile   string  `toml:"shapefile"`
	DefaultZoom float64 `toml:"defaultzoom"`
	// Locator is a Maidenhead gridsquare to center the chart on (e.g. "FN42")
	Locator string `toml:"locator"`
	// CellAspect is the height/width ratio of a terminal cell. Screen
	// points are measured in cell widths, so one row is CellAspect units.
	CellAspect float64 `toml:"cellaspect"`
}

// DigitizerConfig selects an optional remote pointing device
type DigitizerConfig struct {
	Type   string `toml:"type"`   // none, serial or tcp
	Device string `toml:"device"` // /dev/ttyUSB0, COM3 or host:port
	Baud   int    `toml:"baud"`
}

// LogConfig controls the log file (the terminal belongs to the UI)
type LogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// ExportConfig controls overlay snapshots
type ExportConfig struct {
	Dir string `toml:"dir"`
}

// Config holds all application configuration
type Config struct {
	Map       MapConfig       `toml:"map"`
	Digitizer DigitizerConfig `toml:"digitizer"`
	Log       LogConfig       `toml:"log"`
	Export    ExportConfig    `toml:"export"`
}

// Default returns the settings used when config.toml is absent
func Default() Config {
	return Config{
		Map: MapConfig{
			DefaultZoom: 1.0,
			CellAspect:  2.0,
		},
		Digitizer: DigitizerConfig{
			Type: "none",
			Baud: 9600,
		},
		Log: LogConfig{
			File:  "chartmeasure.log",
			Level: "info",
		},
		Export: ExportConfig{
			Dir: ".",
		},
	}
}

// LoadConfig reads the configuration from path on top of Default.
// A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	conf := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return conf, nil
	}
	if err != nil {
		return conf, err
	}

	if err := toml.Unmarshal(data, &conf); err != nil {
		return conf, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := conf.validate(); err != nil {
		return conf, fmt.Errorf("%s: %w", path, err)
	}
	return conf, nil
}

func (c *Config) validate() error {
	if c.Map.CellAspect <= 0 {
		return fmt.Errorf("map.cellaspect must be positive, got %v", c.Map.CellAspect)
	}
	if c.Map.DefaultZoom <= 0 {
		c.Map.DefaultZoom = 1.0
	}

	c.Digitizer.Type = strings.ToLower(strings.TrimSpace(c.Digitizer.Type))
	switch c.Digitizer.Type {
	case "":
		c.Digitizer.Type = "none"
	case "none", "serial", "tcp":
	default:
		return fmt.Errorf("unknown digitizer type %q", c.Digitizer.Type)
	}
	if c.Digitizer.Baud <= 0 {
		c.Digitizer.Baud = 9600
	}
	return nil
}
