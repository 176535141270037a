// Package config holds the daemon settings file. Flags override file values;
// file values override defaults.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"jobsched/internal/spool"
)

const (
	DefaultTickSeconds  = 10
	DefaultConfigName   = "config.json"
	defaultSpoolDirName = ".jobsched"
)

type Settings struct {
	SpoolDir      string `json:"spool_dir,omitempty"`
	ExecScript    string `json:"exec_script,omitempty"`
	TickSeconds   int    `json:"tick_seconds,omitempty"`
	TotalCores    int    `json:"total_cores,omitempty"`
	TotalMemoryGB int    `json:"total_memory_gb,omitempty"`
}

// DefaultSpoolDir is ~/.jobsched, falling back to a relative directory when
// the home directory cannot be resolved.
func DefaultSpoolDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultSpoolDirName
	}
	return filepath.Join(home, defaultSpoolDirName)
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultSpoolDir(), DefaultConfigName)
}

func defaultSettings() Settings {
	return Settings{
		SpoolDir:    DefaultSpoolDir(),
		TickSeconds: DefaultTickSeconds,
	}
}

func normalizeSettings(raw Settings) Settings {
	norm := raw
	if norm.SpoolDir == "" {
		norm.SpoolDir = DefaultSpoolDir()
	}
	if norm.TickSeconds <= 0 {
		norm.TickSeconds = DefaultTickSeconds
	}
	if norm.TotalCores < 0 {
		norm.TotalCores = 0
	}
	if norm.TotalMemoryGB < 0 {
		norm.TotalMemoryGB = 0
	}
	return norm
}

// Read loads settings from path, returning defaults when no file exists.
func Read(path string) (Settings, error) {
	var s Settings
	err := spool.ReadJSON(path, &s)
	if err == nil {
		return normalizeSettings(s), nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return defaultSettings(), nil
	}
	return Settings{}, err
}

func Write(path string, s Settings) error {
	return spool.WriteJSON(path, normalizeSettings(s))
}
