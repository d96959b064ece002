package config

// Filename is the configuration file discovered by walking up from the
// working directory.
const Filename = "metro.yaml"

// MetroFile represents the structure of the metro.yaml configuration file.
type MetroFile struct {
	Platforms []string   `yaml:"platforms"`
	Dev       *bool      `yaml:"dev"`
	Minify    *bool      `yaml:"minify"`
	Entries   []EntryDTO `yaml:"entries"`
}

// EntryDTO is a per-entry-file override in the configuration.
type EntryDTO struct {
	File   string `yaml:"file"`
	Dev    *bool  `yaml:"dev"`
	Minify *bool  `yaml:"minify"`
}
