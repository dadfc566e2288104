package main

import (
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/pomgraph/internal"
	"github.com/rios0rios0/pomgraph/internal/domain/entities"
)

func buildRootCommand(localController entities.Controller) *cobra.Command {
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{
		Use:   "pomgraph [path]",
		Short: "Maven dependency graph builder",
		Long: `Reads Maven POM files from local directories, GitLab groups or git
repositories and builds a deduplicated dependency graph per source, with the
declared version of every dependency kept on its edge.

Usage modes:
  pomgraph .                      Import the current directory (standalone mode)
  pomgraph import                 Batch mode using a config file (cronjob)
  pomgraph search <preset> <q>    Filter a preset
  pomgraph versions <preset>      Report version conflicts
  pomgraph serve                  Serve presets over HTTP`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, args []string) error {
			if len(args) == 0 {
				return command.Help()
			}
			return localController.Execute(command, args)
		},
	}

	// Global persistent flags
	cmd.PersistentFlags().StringP("config", "c", "",
		"Path to config file (default: auto-detect)")
	cmd.PersistentFlags().BoolP("verbose", "v", false,
		"Enable verbose output")

	localController.AddFlags(cmd)
	return cmd
}

func addSubcommands(rootCmd *cobra.Command, appContext *internal.AppInternal) {
	for _, controller := range appContext.GetControllers() {
		bind := controller.GetBind()
		ctrl := controller // capture for closure
		//nolint:exhaustruct // Minimal Command initialization with required fields only
		subCmd := &cobra.Command{
			Use:     bind.Use,
			Short:   bind.Short,
			Long:    bind.Long,
			Args:    bind.Args,
			Example: bind.Example,
			RunE: func(command *cobra.Command, arguments []string) error {
				return ctrl.Execute(command, arguments)
			},
		}

		// Add controller-specific flags
		ctrl.AddFlags(subCmd)

		rootCmd.AddCommand(subCmd)
	}
}

func main() {
	//nolint:exhaustruct // Minimal TextFormatter initialization with required fields only
	logger.SetFormatter(&logger.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})
	if os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.DebugLevel)
	}

	// Inject controllers via DIG
	appContext, localController := injectApp()
	cobraRoot := buildRootCommand(localController)

	// Add all subcommands
	addSubcommands(cobraRoot, appContext)

	if err := cobraRoot.Execute(); err != nil {
		logger.Fatalf("Error executing 'pomgraph': %s", err)
	}
}
