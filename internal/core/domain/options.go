package domain

import "fmt"

// TransformOptions configure the transformer for a single build.
type TransformOptions struct {
	Dev      bool
	Minify   bool
	Hot      bool
	Platform string
}

// BuildOptions identify one logical bundle: the entry file plus the
// transform configuration requested for it.
type BuildOptions struct {
	// EntryFile is the absolute path of the bundle entry point.
	EntryFile string
	// Platform selects platform-specific resolution and transforms.
	Platform string
	Dev      bool
	Minify   bool
	Hot      bool
}

// Key returns a stable identity for these options, used to share one delta
// calculator between clients requesting the same bundle.
func (o BuildOptions) Key() string {
	return fmt.Sprintf("%s|%s|dev=%t|minify=%t|hot=%t", o.EntryFile, o.Platform, o.Dev, o.Minify, o.Hot)
}

// TransformOptions derives the base transform configuration from the build
// options. Entry-specific overrides from the config are applied on top by
// the option source.
func (o BuildOptions) TransformOptions() TransformOptions {
	return TransformOptions{
		Dev:      o.Dev,
		Minify:   o.Minify,
		Hot:      o.Hot,
		Platform: o.Platform,
	}
}

// EntryOverride is a per-entry-file transform override from the config.
type EntryOverride struct {
	// File is the entry file the override applies to, relative to the root.
	File string
	// Dev/Minify override the global defaults when non-nil.
	Dev    *bool
	Minify *bool
}

// Config is the loaded build configuration: the project root, the allowed
// platforms, global transform defaults and per-entry overrides.
type Config struct {
	// Root is the absolute project root all relative paths resolve against.
	Root string
	// Platforms lists the platforms the project builds for. Empty allows any.
	Platforms []string
	// Dev and Minify are the global transform defaults.
	Dev    bool
	Minify bool
	// Overrides are per-entry-file transform overrides.
	Overrides []EntryOverride
}

// AllowsPlatform reports whether the config permits the given platform.
func (c *Config) AllowsPlatform(platform string) bool {
	if len(c.Platforms) == 0 {
		return true
	}
	for _, p := range c.Platforms {
		if p == platform {
			return true
		}
	}
	return false
}
