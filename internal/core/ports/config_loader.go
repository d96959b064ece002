package ports

import "github.com/prajithkb/metro/internal/core/domain"

// ConfigLoader defines the interface for loading the build configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration starting from the given working directory
	// and returns the resolved build configuration.
	Load(cwd string) (*domain.Config, error)
}
