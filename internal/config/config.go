// Package config reads envni's settings from the environment. There is no config file.
package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cast"
)

// ColorMode selects when output is colored.
type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

func (m ColorMode) String() string {
	switch m {
	case ColorAlways:
		return "always"
	case ColorNever:
		return "never"
	default:
		return "auto"
	}
}

// Config holds settings resolved from the environment.
type Config struct {
	LogLevel slog.Level
	Color    ColorMode
}

// Environment variable names.
const (
	EnvLogLevel = "ENVNI_LOG_LEVEL"
	EnvDebug    = "ENVNI_DEBUG"
	EnvColor    = "ENVNI_COLOR"
	EnvNoColor  = "NO_COLOR"
	EnvForce    = "CLICOLOR_FORCE"
)

// FromEnv reads the process environment.
func FromEnv() Config {
	return Load(os.LookupEnv)
}

// Load resolves a Config through lookup. Defaults: warn level, auto color.
func Load(lookup func(string) (string, bool)) Config {
	cfg := Config{LogLevel: slog.LevelWarn, Color: ColorAuto}

	if v, ok := lookup(EnvLogLevel); ok {
		if lvl, ok := parseLevel(v); ok {
			cfg.LogLevel = lvl
		}
	}
	if v, ok := lookup(EnvDebug); ok && cast.ToBool(v) {
		cfg.LogLevel = slog.LevelDebug
	}

	// https://no-color.org/ : any non-empty value disables color.
	if v, ok := lookup(EnvNoColor); ok && v != "" {
		cfg.Color = ColorNever
	} else if v, ok := lookup(EnvForce); ok && cast.ToBool(v) {
		cfg.Color = ColorAlways
	}
	if v, ok := lookup(EnvColor); ok {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "always":
			cfg.Color = ColorAlways
		case "never":
			cfg.Color = ColorNever
		case "auto":
			cfg.Color = ColorAuto
		}
	}
	return cfg
}

func parseLevel(s string) (slog.Level, bool) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, false
	}
	return lvl, true
}
