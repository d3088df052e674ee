package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Color modes for diagnostic output
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Settings represents a mathsema.yaml configuration file.
type Settings struct {
	// TypeCheck enforces that every assertion site (requires, ensures, invariants,
	// theorems, loop invariants, ...) is Boolean typed. When false, assertions are
	// still resolved but their Boolean-ness is not checked.
	TypeCheck bool `yaml:"typecheck"`

	// Prove enables proof-checking mode. Resolved values are attached (once) to
	// definition, theorem and proof entries, and proofs are handed off as obligations.
	Prove bool `yaml:"prove"`

	// Obligations is the SQLite database path used to persist typed assertions
	// for the proof checker. Empty disables persistence.
	Obligations string `yaml:"obligations,omitempty"`

	// Color selects diagnostic colouring: auto, always or never.
	Color string `yaml:"color,omitempty"`

	// Library lists unit files (theories, concepts) loaded before the units
	// named on the command line. Relative paths are resolved against the
	// directory of the settings file.
	Library []string `yaml:"library,omitempty"`
}

// DefaultSettings returns the settings used when no file is given.
func DefaultSettings() *Settings {
	return &Settings{
		TypeCheck: true,
		Color:     ColorAuto,
	}
}

// LoadSettings reads and parses a settings file.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading settings %s: %w", path, err)
	}
	return ParseSettings(data, path)
}

// ParseSettings parses settings content from bytes.
// The path argument is used only for error messages.
func ParseSettings(data []byte, path string) (*Settings, error) {
	s := DefaultSettings()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing settings %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings %s: %w", path, err)
	}
	return s, nil
}

// Validate checks field values that yaml decoding cannot.
func (s *Settings) Validate() error {
	switch s.Color {
	case "":
		s.Color = ColorAuto
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("color: unknown mode %q (want auto, always or never)", s.Color)
	}
	for i, lib := range s.Library {
		if lib == "" {
			return fmt.Errorf("library[%d]: empty path", i)
		}
	}
	return nil
}
