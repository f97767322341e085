package engine

import (
	"github.com/spaghettifunk/meshbake/engine/core"
)

type ApplicationConfig struct {
	// Path of the TOML configuration file, empty for the defaults.
	ConfigPath string
	// Directory (or single .mesh.toml file) holding the mesh documents.
	InputDir string
	// Keep running and re-export documents as they change.
	Watch bool
	// Command line overrides applied on top of the configuration file.
	Flags core.Flags
}
