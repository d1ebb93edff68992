package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all configurable envision settings.
type Config struct {
	CriticalVars    []string `json:"critical_vars"`    // warned on in addition to the built-in list
	NoiseVars       []string `json:"noise_vars"`       // ignored by the profile diff
	ProfileShell    string   `json:"profile_shell"`    // shell used to run profile scripts
	ConfirmProfiles *bool    `json:"confirm_profiles"` // prompt before the first profile load
	LogLevel        string   `json:"log_level"`        // zap level; empty disables logging
}

// Confirm reports whether profile loads need confirmation.
func (c Config) Confirm() bool {
	return c.ConfirmProfiles == nil || *c.ConfirmProfiles
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	confirm := true
	return Config{
		CriticalVars:    []string{},
		NoiseVars:       []string{},
		ProfileShell:    "bash",
		ConfirmProfiles: &confirm,
	}
}

// Dir returns ~/.config/envision.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "envision"), nil
}

// LoadGlobal reads ~/.config/envision/config.json.
// Returns defaults if the file is absent or there is no home directory.
func LoadGlobal() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		d := Defaults()
		return &d, nil
	}
	return loadFile(filepath.Join(dir, "config.json"), true)
}

// LoadProject reads .envisionconfig in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".envisionconfig", false)
}

func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()
	for _, c := range []*Config{global, project} {
		if c == nil {
			continue
		}
		if len(c.CriticalVars) > 0 {
			result.CriticalVars = c.CriticalVars
		}
		if len(c.NoiseVars) > 0 {
			result.NoiseVars = c.NoiseVars
		}
		if c.ProfileShell != "" {
			result.ProfileShell = c.ProfileShell
		}
		if c.ConfirmProfiles != nil {
			result.ConfirmProfiles = c.ConfirmProfiles
		}
		if c.LogLevel != "" {
			result.LogLevel = c.LogLevel
		}
	}
	return result
}

// envOverrides mirrors the ENVISION_* variables that override file settings.
type envOverrides struct {
	ProfileShell string   `split_words:"true"`
	CriticalVars []string `split_words:"true"`
	LogLevel     string   `split_words:"true"`
}

// ApplyEnv overlays ENVISION_PROFILE_SHELL, ENVISION_CRITICAL_VARS and
// ENVISION_LOG_LEVEL onto cfg.
func ApplyEnv(cfg *Config) error {
	var o envOverrides
	if err := envconfig.Process("envision", &o); err != nil {
		return err
	}
	if o.ProfileShell != "" {
		cfg.ProfileShell = o.ProfileShell
	}
	if len(o.CriticalVars) > 0 {
		cfg.CriticalVars = append(append([]string{}, cfg.CriticalVars...), o.CriticalVars...)
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	return nil
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
