package config

import (
	"context"
	"path/filepath"

	"github.com/prajithkb/metro/internal/core/domain"
	"github.com/prajithkb/metro/internal/core/ports"
)

var _ ports.OptionSource = (*Source)(nil)

// Source derives effective transform options from the loaded configuration:
// global defaults plus any per-entry override.
type Source struct {
	config *domain.Config
}

// NewSource creates an option source backed by the given configuration.
func NewSource(config *domain.Config) *Source {
	return &Source{config: config}
}

// TransformOptionsFor applies the config's global defaults and the entry's
// override, if any, on top of the requested base options. The globals
// replace the base dev/minify values; fields the config does not cover
// (platform, hot) pass through from the base.
func (s *Source) TransformOptionsFor(_ context.Context, entryFile string, base domain.TransformOptions) (domain.TransformOptions, error) {
	opts := base
	opts.Dev = s.config.Dev
	opts.Minify = s.config.Minify

	for _, override := range s.config.Overrides {
		if !s.matches(override.File, entryFile) {
			continue
		}
		if override.Dev != nil {
			opts.Dev = *override.Dev
		}
		if override.Minify != nil {
			opts.Minify = *override.Minify
		}
		break
	}

	return opts, nil
}

// matches reports whether the override's file, resolved against the project
// root, refers to the given entry file.
func (s *Source) matches(overrideFile, entryFile string) bool {
	resolved := overrideFile
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(s.config.Root, resolved)
	}
	return filepath.Clean(resolved) == filepath.Clean(entryFile)
}
