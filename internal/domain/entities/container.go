package entities

import (
	"go.uber.org/dig"
)

// SettingsLoader reads the configuration file at the given path.
type SettingsLoader func(path string) (*Settings, error)

// RegisterProviders registers all entity providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Settings requires a config file path, so controllers receive a loader
	return container.Provide(func() SettingsLoader {
		return NewSettings
	})
}
