// Package config defines the configuration types for mdtree. These are
// pure data structures; discovery and merging live in the CLI's loader.
package config

import "fmt"

// Engine selects the rendering implementation.
type Engine string

const (
	// EngineNative is the built-in renderer over the typed tree.
	EngineNative Engine = "native"

	// EngineGoldmark renders through the goldmark CommonMark engine.
	EngineGoldmark Engine = "goldmark"
)

// IsValid reports whether the engine names a known implementation.
func (e Engine) IsValid() bool {
	switch e {
	case EngineNative, EngineGoldmark:
		return true
	default:
		return false
	}
}

// ColorMode controls colored diagnostic output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IsValid reports whether the color mode is a known value.
func (m ColorMode) IsValid() bool {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}

// Config is the root configuration structure for mdtree.
type Config struct {
	// Engine selects the rendering implementation.
	Engine Engine `yaml:"engine"`

	// Standalone wraps rendered output in a full HTML document shell.
	Standalone bool `yaml:"standalone"`

	// DetectLanguages guesses a language for fenced code blocks that
	// carry no info string.
	DetectLanguages bool `yaml:"detect_languages"`

	// Color controls colored diagnostics ("auto", "always", "never").
	Color ColorMode `yaml:"color"`

	// CLI-level options, never persisted to config files.

	// Output is the destination path; empty means stdout.
	Output string `yaml:"-"`

	// Debug enables verbose logging.
	Debug bool `yaml:"-"`
}

// Default returns the configuration used when no file and no flags
// override anything.
func Default() *Config {
	return &Config{
		Engine: EngineNative,
		Color:  ColorAuto,
	}
}

// Validate checks field values, not cross-field consistency.
func (c *Config) Validate() error {
	if !c.Engine.IsValid() {
		return fmt.Errorf("unknown engine %q (want %q or %q)", c.Engine, EngineNative, EngineGoldmark)
	}
	if !c.Color.IsValid() {
		return fmt.Errorf("unknown color mode %q (want auto, always or never)", c.Color)
	}
	return nil
}
