package main

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/pomgraph/internal"
	"github.com/rios0rios0/pomgraph/internal/infrastructure/controllers"
)

// injectApp builds one container so the root command and the subcommands
// share the same metrics registry.
func injectApp() (*internal.AppInternal, *controllers.LocalController) {
	container := dig.New()

	// Register all providers
	if err := internal.RegisterProviders(container); err != nil {
		panic(err)
	}

	var appInternal *internal.AppInternal
	var localController *controllers.LocalController
	if err := container.Invoke(func(ai *internal.AppInternal, lc *controllers.LocalController) {
		appInternal = ai
		localController = lc
	}); err != nil {
		panic(err)
	}

	return appInternal, localController
}
