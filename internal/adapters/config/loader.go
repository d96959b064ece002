// Package config provides the configuration loader for the dev server.
package config

import (
	"os"
	"path/filepath"

	"github.com/prajithkb/metro/internal/core/domain"
	"github.com/prajithkb/metro/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*FileConfigLoader)(nil)

// FileConfigLoader implements ports.ConfigLoader using a YAML file.
type FileConfigLoader struct {
	Filename string
}

// Load discovers the configuration by walking up from cwd and returns the
// resolved build configuration. The directory containing the config file
// becomes the project root.
func (l *FileConfigLoader) Load(cwd string) (*domain.Config, error) {
	name := l.Filename
	if name == "" {
		name = Filename
	}

	path, err := discover(cwd, name)
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// discover walks up from dir looking for the config file.
func discover(dir, name string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrConfigNotFound.Error())
	}

	for {
		candidate := filepath.Join(abs, name)
		if info, statErr := os.Stat(candidate); statErr == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", zerr.With(domain.ErrConfigNotFound, "cwd", dir)
		}
		abs = parent
	}
}

// Load reads a configuration file from the given path and returns the
// resolved domain.Config.
func Load(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	var file MetroFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}

	cfg := &domain.Config{
		Root:      filepath.Dir(path),
		Platforms: file.Platforms,
		// Dev defaults to true for the dev server; minify to false.
		Dev:    true,
		Minify: false,
	}
	if file.Dev != nil {
		cfg.Dev = *file.Dev
	}
	if file.Minify != nil {
		cfg.Minify = *file.Minify
	}

	for _, entry := range file.Entries {
		if entry.File == "" {
			return nil, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, "entry override missing file"), "path", path)
		}
		cfg.Overrides = append(cfg.Overrides, domain.EntryOverride{
			File:   entry.File,
			Dev:    entry.Dev,
			Minify: entry.Minify,
		})
	}

	return cfg, nil
}
