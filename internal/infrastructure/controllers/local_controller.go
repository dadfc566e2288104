package controllers

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/pomgraph/internal/domain/commands"
	"github.com/rios0rios0/pomgraph/internal/domain/entities"
)

// LocalController handles the root command with a path argument (standalone local mode).
type LocalController struct {
	command commands.Local
}

// NewLocalController creates a new LocalController.
func NewLocalController(command commands.Local) *LocalController {
	return &LocalController{command: command}
}

// GetBind returns the Cobra command metadata for the local controller.
func (it *LocalController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "local [path]",
		Short: "Import the POM files of a local directory",
		Long: `Import every Maven project found below a local directory into a
single preset, without a config file.`,
		Args:    cobra.MaximumNArgs(1),
		Example: "  pomgraph local ~/workspace --name workspace",
	}
}

// Execute runs the local import.
func (it *LocalController) Execute(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	name, _ := cmd.Flags().GetString("name")
	output, _ := cmd.Flags().GetString("output")
	marker, _ := cmd.Flags().GetString("namespace-marker")
	metricsFile, _ := cmd.Flags().GetString("metrics-file")

	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	report, err := it.command.Execute(cmd.Context(), commands.LocalOptions{
		Path:            dir,
		Name:            name,
		OutputDir:       output,
		NamespaceMarker: marker,
		Verbose:         verbose,
		MetricsFile:     metricsFile,
	})
	if err != nil {
		return err
	}
	if len(report.Presets) == 0 {
		return fmt.Errorf("%w: no preset written for %s", errImportFailed, dir)
	}
	return nil
}

// AddFlags adds the local-specific flags to the given Cobra command.
func (it *LocalController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "Preset name (default: directory name)")
	cmd.Flags().StringP("output", "o", entities.DefaultOutputDir, "Output directory for presets")
	cmd.Flags().String("namespace-marker", entities.DefaultNamespaceMarker,
		"Group-id segment whose successor names the cluster")
	cmd.Flags().String("metrics-file", "", "Write Prometheus metrics to this file after the run")
}
