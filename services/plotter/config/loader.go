// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultPath returns ~/.fnplot/plot.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find the user's home directory: %w", err)
	}
	return filepath.Join(home, ".fnplot", "plot.yaml"), nil
}

// Load reads and validates the YAML file at path. Keys missing from the
// file keep their DefaultPlotConfig value.
func Load(path string) (PlotConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return PlotConfig{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return PlotConfig{}, fmt.Errorf("failed to read the config file: %w", err)
	}
	return Decode(data)
}

// Decode parses and validates YAML config data.
func Decode(data []byte) (PlotConfig, error) {
	cfg := DefaultPlotConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return PlotConfig{}, fmt.Errorf("%w: failed to parse the config: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return PlotConfig{}, err
	}
	return cfg, nil
}

// Save validates cfg and writes it to path, creating the directory if
// needed. The file is replaced atomically.
func Save(path string, cfg PlotConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal the config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create the config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".plot-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create a temp config file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write the config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write the config: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to set config permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace the config: %w", err)
	}
	return nil
}

// LoadOrDefault returns the config at path, or DefaultPlotConfig when the
// file is missing or unusable. An unusable file is logged and left in place.
func LoadOrDefault(path string, logger *slog.Logger) PlotConfig {
	if logger == nil {
		logger = slog.Default()
	}
	cfg, err := Load(path)
	switch {
	case err == nil:
		return cfg
	case errors.Is(err, ErrNotFound):
		logger.Debug("No saved plot config, using defaults", "path", path)
	default:
		logger.Warn("Ignoring unreadable plot config, using defaults", "path", path, "error", err)
	}
	return DefaultPlotConfig()
}

// EnsureExists writes DefaultPlotConfig to path unless a file is already
// there. It reports whether a file was created.
func EnsureExists(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("failed to stat the config file: %w", err)
	}
	if err := Save(path, DefaultPlotConfig()); err != nil {
		return false, err
	}
	return true, nil
}
