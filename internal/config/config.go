// Package config loads the goul CLI settings file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/log"
	"gopkg.in/yaml.v3"
)

// FileName is the settings file looked up in the home directory.
const FileName = ".goul.yaml"

// Config holds CLI settings. Zero values mean "use the default".
type Config struct {
	DB           string `yaml:"db"`
	LogLevel     string `yaml:"log_level"`
	MaxCallDepth int    `yaml:"max_call_depth"`
	HistoryFile  string `yaml:"history_file"`
	NoStdlib     bool   `yaml:"no_stdlib"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DB:          "goul.db",
		LogLevel:    "warning",
		HistoryFile: defaultHistory(),
	}
}

func defaultHistory() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".goul_history")
}

// DefaultPath returns $HOME/.goul.yaml, or "" when there is no home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, FileName)
}

// Load reads settings from path over the defaults. An empty path means
// DefaultPath, which may be missing; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
		if path == "" {
			return cfg, nil
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML settings into cfg, keeping fields the document omits.
func Parse(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	if cfg.MaxCallDepth < 0 {
		return fmt.Errorf("max_call_depth must not be negative, got %d", cfg.MaxCallDepth)
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a level name to a log level. Empty means warning.
func ParseLevel(name string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return log.Debug, nil
	case "verbose", "trace":
		return log.Verbose, nil
	case "info":
		return log.Info, nil
	case "", "warn", "warning":
		return log.Warning, nil
	case "error":
		return log.Error, nil
	}
	return log.Warning, fmt.Errorf("unknown log level %q", name)
}

// ApplyLogLevel sets the process log level from cfg.
func (c Config) ApplyLogLevel() error {
	lvl, err := ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	log.SetLogLevel(lvl)
	return nil
}
