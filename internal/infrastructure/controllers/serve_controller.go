package controllers

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/pomgraph/internal/domain/commands"
	"github.com/rios0rios0/pomgraph/internal/domain/entities"
	"github.com/rios0rios0/pomgraph/internal/infrastructure/handlers"
	"github.com/rios0rios0/pomgraph/internal/infrastructure/metrics"
	infraRepos "github.com/rios0rios0/pomgraph/internal/infrastructure/repositories"
)

const (
	defaultAddr       = ":8080"
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// ServeController handles the "serve" subcommand: the preset HTTP API.
type ServeController struct {
	presetFactory  infraRepos.PresetRepositoryFactory
	search         commands.Search
	versions       commands.Versions
	searchMetrics  *metrics.SearchMetrics
	gatherer       prometheus.Gatherer
	settingsLoader entities.SettingsLoader
}

// NewServeController creates a new ServeController.
func NewServeController(
	presetFactory infraRepos.PresetRepositoryFactory,
	search commands.Search,
	versions commands.Versions,
	searchMetrics *metrics.SearchMetrics,
	gatherer prometheus.Gatherer,
	settingsLoader entities.SettingsLoader,
) *ServeController {
	return &ServeController{
		presetFactory:  presetFactory,
		search:         search,
		versions:       versions,
		searchMetrics:  searchMetrics,
		gatherer:       gatherer,
		settingsLoader: settingsLoader,
	}
}

// GetBind returns the Cobra command metadata for the serve controller.
func (it *ServeController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "serve",
		Short: "Serve presets, searches and metrics over HTTP",
		Args:  cobra.NoArgs,
	}
}

// Execute serves until SIGINT or SIGTERM, then shuts down gracefully.
func (it *ServeController) Execute(cmd *cobra.Command, _ []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	outputDir := resolveOutputDir(cmd, it.settingsLoader)

	gin.SetMode(gin.ReleaseMode)
	router := handlers.NewRouter(
		handlers.NewPresetHandlers(outputDir, it.presetFactory, it.search, it.versions, it.searchMetrics),
		it.gatherer,
	)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Infof("Serving presets from %s on %s", outputDir, addr)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// AddFlags adds the serve-specific flags to the given Cobra command.
func (it *ServeController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("addr", defaultAddr, "Listen address")
	cmd.Flags().StringP("output", "o", "", "Directory holding the presets")
}
