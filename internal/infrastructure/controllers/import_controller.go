package controllers

import (
	"errors"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/pomgraph/internal/domain/commands"
	"github.com/rios0rios0/pomgraph/internal/domain/entities"
)

var errImportFailed = errors.New("import finished with errors")

// ImportController handles the "import" subcommand (batch mode).
type ImportController struct {
	command        commands.Import
	settingsLoader entities.SettingsLoader
}

// NewImportController creates a new ImportController.
func NewImportController(command commands.Import, settingsLoader entities.SettingsLoader) *ImportController {
	return &ImportController{command: command, settingsLoader: settingsLoader}
}

// GetBind returns the Cobra command metadata for the import controller.
func (it *ImportController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "import",
		Short: "Import every configured POM source into presets",
		Long: `Read the POM files of every configured source (local directories,
GitLab groups, git repositories), build one dependency graph per source
and write it as a preset next to an index.json.

This is the command intended to be used in a cronjob.`,
		Args: cobra.NoArgs,
	}
}

// Execute runs the batch import.
func (it *ImportController) Execute(cmd *cobra.Command, _ []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	sourceFilter, _ := cmd.Flags().GetString("source")
	output, _ := cmd.Flags().GetString("output")
	metricsFile, _ := cmd.Flags().GetString("metrics-file")

	settings, err := loadSettings(cmd, it.settingsLoader)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger.Info("Starting pomgraph import...")
	report, err := it.command.Execute(cmd.Context(), settings, commands.ImportOptions{
		Verbose:     verbose,
		SourceName:  sourceFilter,
		OutputDir:   output,
		MetricsFile: metricsFile,
	})
	if err != nil {
		return err
	}
	if report.Errors > 0 && len(report.Presets) == 0 {
		return fmt.Errorf("%w: %d errors, no preset written", errImportFailed, report.Errors)
	}
	return nil
}

// AddFlags adds the import-specific flags to the given Cobra command.
func (it *ImportController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("source", "", "Only import the source with this name")
	cmd.Flags().StringP("output", "o", "", "Output directory for presets (overrides output_dir)")
	cmd.Flags().String("metrics-file", "", "Write Prometheus metrics to this file after the run")
}
