package app

import (
	"github.com/prajithkb/metro/internal/core/ports"
)

// Components bundles the application with the adapters the CLI layer needs
// direct access to.
type Components struct {
	App          *App
	Logger       ports.Logger
	ConfigLoader ports.ConfigLoader
}
