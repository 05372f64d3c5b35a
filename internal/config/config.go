// Package config loads the TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/litescript/ls-sky/internal/astro"
	"github.com/litescript/ls-sky/internal/logging"
	"github.com/litescript/ls-sky/internal/state"
	"github.com/litescript/ls-sky/internal/timeaccel"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

type Observer struct {
	Name   string  `toml:"name"`
	LonDeg float64 `toml:"lon_deg"`
	LatDeg float64 `toml:"lat_deg"`
}

type View struct {
	CenterAzDeg  float64 `toml:"center_az_deg"`
	CenterAltDeg float64 `toml:"center_alt_deg"`
	FOVDeg       float64 `toml:"fov_deg"`
}

// Catalog points at optional HYG and asterism files. The built-in
// catalogue is used when HYGPath is empty.
type Catalog struct {
	HYGPath       string `toml:"hyg_path"`
	AsterismsPath string `toml:"asterisms_path"`
}

type Server struct {
	Addr string `toml:"addr"`
}

type UI struct {
	Accelerator string `toml:"accelerator"`
}

// Config is the whole configuration file.
type Config struct {
	LogLevel string   `toml:"log_level"`
	Observer Observer `toml:"observer"`
	View     View     `toml:"view"`
	Catalog  Catalog  `toml:"catalog"`
	Server   Server   `toml:"server"`
	UI       UI       `toml:"ui"`
}

// Default returns the configuration used when no file is given: an
// observer at EPFL looking south.
func Default() Config {
	return Config{
		LogLevel: "info",
		Observer: Observer{Name: "EPFL", LonDeg: 6.57, LatDeg: 46.52},
		View:     View{CenterAzDeg: 180, CenterAltDeg: 15, FOVDeg: 100},
		Server:   Server{Addr: ":8080"},
		UI:       UI{Accelerator: "300x"},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default value.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML data into cfg and validates the result.
func Parse(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("%w: unknown key %q", ErrInvalidConfig, undecoded[0].String())
	}
	return cfg.Validate()
}

// Validate checks every value against the domain it is used in.
func (c Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("%w: observer: %w", ErrInvalidConfig, err)
	}
	if _, err := c.Center(); err != nil {
		return fmt.Errorf("%w: view center: %w", ErrInvalidConfig, err)
	}
	if _, err := state.FOVInterval.Check(c.View.FOVDeg); err != nil {
		return fmt.Errorf("%w: view fov: %w", ErrInvalidConfig, err)
	}
	if _, ok := timeaccel.ByName(c.UI.Accelerator); !ok {
		return fmt.Errorf("%w: unknown accelerator %q (want one of %v)", ErrInvalidConfig, c.UI.Accelerator, timeaccel.Names())
	}
	if c.Catalog.AsterismsPath != "" && c.Catalog.HYGPath == "" {
		return fmt.Errorf("%w: asterisms_path needs hyg_path", ErrInvalidConfig)
	}
	return nil
}

// Location returns the configured observer position.
func (c Config) Location() (astro.Geographic, error) {
	return astro.NewGeographicDeg(c.Observer.LonDeg, c.Observer.LatDeg)
}

// Center returns the configured projection center.
func (c Config) Center() (astro.Horizontal, error) {
	return astro.NewHorizontalDeg(c.View.CenterAzDeg, c.View.CenterAltDeg)
}

// Level returns the parsed log level.
func (c Config) Level() logging.Level {
	return logging.ParseLevel(c.LogLevel)
}
