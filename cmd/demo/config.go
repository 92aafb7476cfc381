package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

type demoConfig struct {
	LogLevel       zerolog.Level
	MaxDepth       int
	SnapshotDir    string
	SnapshotFormat string // "json" or "yaml"
}

func defaultConfig() demoConfig {
	return demoConfig{
		LogLevel:       zerolog.InfoLevel,
		MaxDepth:       64,
		SnapshotFormat: "json",
	}
}

type fileConfig struct {
	LogLevel       string `toml:"log_level"`
	MaxDepth       int    `toml:"max_depth"`
	SnapshotDir    string `toml:"snapshot_dir"`
	SnapshotFormat string `toml:"snapshot_format"`
}

func loadConfig(path string) (demoConfig, error) {
	cfg := defaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return demoConfig{}, fmt.Errorf("load demo config: %w", err)
	}

	if meta.IsDefined("log_level") {
		lvl, err := zerolog.ParseLevel(strings.TrimSpace(raw.LogLevel))
		if err != nil {
			return demoConfig{}, fmt.Errorf("parse log_level: %w", err)
		}
		cfg.LogLevel = lvl
	}

	if meta.IsDefined("max_depth") {
		if raw.MaxDepth <= 0 {
			return demoConfig{}, fmt.Errorf("max_depth must be positive, got %d", raw.MaxDepth)
		}
		cfg.MaxDepth = raw.MaxDepth
	}

	if meta.IsDefined("snapshot_dir") {
		cfg.SnapshotDir = strings.TrimSpace(raw.SnapshotDir)
	}

	if meta.IsDefined("snapshot_format") {
		format := strings.ToLower(strings.TrimSpace(raw.SnapshotFormat))
		switch format {
		case "json", "yaml":
			cfg.SnapshotFormat = format
		default:
			return demoConfig{}, fmt.Errorf("snapshot_format must be json or yaml, got %q", raw.SnapshotFormat)
		}
	}

	return cfg, nil
}
