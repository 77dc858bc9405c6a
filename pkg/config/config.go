// Package config loads pkgblame's optional YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/wolfi-dev/pkgblame/pkg/pkgdb/pacman"
	"gopkg.in/yaml.v3"
)

// Source names the kind of package database to read.
type Source string

const (
	SourcePacman Source = "pacman"
	SourceAPK    Source = "apk"
	SourceFile   Source = "file"
)

var Sources = []Source{SourcePacman, SourceAPK, SourceFile}

// Config holds the settings that can be given either in the config file or on
// the command line.
type Config struct {
	Source Source `yaml:"source"`
	Root   string `yaml:"root"`
	DBPath string `yaml:"dbpath"`
	DB     string `yaml:"db"`
	Format string `yaml:"format"`
	Color  bool   `yaml:"color"`
}

// Default returns the configuration used when no file overrides it.
func Default() Config {
	return Config{
		Source: SourcePacman,
		Root:   pacman.DefaultRoot,
		DBPath: pacman.DefaultDBPath,
	}
}

// DefaultPath is where the config file is looked up when --config isn't given.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "pkgblame", "config.yaml")
}

// Load reads the config file at path over the defaults. When required is
// false a missing file is not an error.
func Load(path string, required bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("unable to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate reports every problem with the configuration.
func (c Config) Validate() error {
	var errs []error

	switch c.Source {
	case SourcePacman, SourceAPK, SourceFile:
	default:
		errs = append(errs, fmt.Errorf("unknown source %q (expected one of %v)", c.Source, Sources))
	}

	if c.Source == SourceFile && c.DB == "" {
		errs = append(errs, errors.New("source \"file\" requires a db path"))
	}

	if c.Root == "" {
		errs = append(errs, errors.New("root must not be empty"))
	}

	return errors.Join(errs...)
}
