package controllers

import (
	"encoding/json"
	"io"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/pomgraph/internal/domain/entities"
)

// loadSettings reads the file given by --config, or the first one found in
// the default locations.
func loadSettings(cmd *cobra.Command, loader entities.SettingsLoader) (*entities.Settings, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		found, err := entities.FindConfigFile()
		if err != nil {
			return nil, err
		}
		configPath = found
	}

	logger.Infof("Using config file: %s", configPath)
	return loader(configPath)
}

// resolveOutputDir prefers --output, then the configured output directory,
// then the default one. A missing config file is not an error here.
func resolveOutputDir(cmd *cobra.Command, loader entities.SettingsLoader) string {
	if output, _ := cmd.Flags().GetString("output"); output != "" {
		return output
	}

	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		found, err := entities.FindConfigFile()
		if err != nil {
			return entities.DefaultOutputDir
		}
		configPath = found
	}

	settings, err := loader(configPath)
	if err != nil {
		logger.Warnf("Ignoring config file %s: %v", configPath, err)
		return entities.DefaultOutputDir
	}
	return settings.OutputDir
}

func printJSON(out io.Writer, value any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
