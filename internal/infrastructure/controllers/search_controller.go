package controllers

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/pomgraph/internal/domain/commands"
	"github.com/rios0rios0/pomgraph/internal/domain/entities"
)

// SearchController handles the "search" subcommand.
type SearchController struct {
	command        commands.Search
	settingsLoader entities.SettingsLoader
}

// NewSearchController creates a new SearchController.
func NewSearchController(command commands.Search, settingsLoader entities.SettingsLoader) *SearchController {
	return &SearchController{command: command, settingsLoader: settingsLoader}
}

// GetBind returns the Cobra command metadata for the search controller.
func (it *SearchController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "search <preset> <query>",
		Short: "Filter a preset with a search expression",
		Long: `Filter a stored preset. The query mixes free text, matched against
node ids, with version constraints such as ">=1.2.0" or "==latest".`,
		Args:    cobra.MinimumNArgs(2), //nolint:mnd // preset and query
		Example: `  pomgraph search backend "commons >=1.2.0"`,
	}
}

// Execute runs the search and prints the matching nodes and edges as JSON.
func (it *SearchController) Execute(cmd *cobra.Command, args []string) error {
	result, err := it.command.Execute(cmd.Context(), commands.SearchOptions{
		OutputDir: resolveOutputDir(cmd, it.settingsLoader),
		Preset:    args[0],
		Query:     strings.Join(args[1:], " "),
	})
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}

// AddFlags adds the search-specific flags to the given Cobra command.
func (it *SearchController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "Directory holding the presets")
}
