package controllers

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/pomgraph/internal/domain/commands"
	"github.com/rios0rios0/pomgraph/internal/domain/entities"
)

// VersionsController handles the "versions" subcommand.
type VersionsController struct {
	command        commands.Versions
	settingsLoader entities.SettingsLoader
}

// NewVersionsController creates a new VersionsController.
func NewVersionsController(command commands.Versions, settingsLoader entities.SettingsLoader) *VersionsController {
	return &VersionsController{command: command, settingsLoader: settingsLoader}
}

// GetBind returns the Cobra command metadata for the versions controller.
func (it *VersionsController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "versions <preset> [pattern]",
		Short: "List artifacts depended upon in more than one version",
		Args:  cobra.MinimumNArgs(1),
	}
}

// Execute prints the multiple-versions report, as JSON with --json.
func (it *VersionsController) Execute(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	entries, err := it.command.Execute(cmd.Context(), commands.VersionsOptions{
		OutputDir: resolveOutputDir(cmd, it.settingsLoader),
		Preset:    args[0],
		Pattern:   strings.Join(args[1:], " "),
	})
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(cmd.OutOrStdout(), entries)
	}

	out := cmd.OutOrStdout()
	for _, entry := range entries {
		usages := make([]string, 0, len(entry.Versions))
		for _, usage := range entry.Versions {
			usages = append(usages, fmt.Sprintf("%s (%d)", usage.Version, usage.Count))
		}
		if _, err = fmt.Fprintf(out, "%s: %s\n", entry.Node.ID, strings.Join(usages, ", ")); err != nil {
			return err
		}
	}
	return nil
}

// AddFlags adds the versions-specific flags to the given Cobra command.
func (it *VersionsController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "Directory holding the presets")
	cmd.Flags().Bool("json", false, "Print the report as JSON")
}
