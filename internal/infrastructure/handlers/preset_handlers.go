package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/pomgraph/internal/domain/commands"
	"github.com/rios0rios0/pomgraph/internal/domain/entities"
	domainRepos "github.com/rios0rios0/pomgraph/internal/domain/repositories"
	"github.com/rios0rios0/pomgraph/internal/infrastructure/metrics"
	infraRepos "github.com/rios0rios0/pomgraph/internal/infrastructure/repositories"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// PresetHandlers serves the presets stored under one output directory.
type PresetHandlers struct {
	outputDir     string
	presetFactory infraRepos.PresetRepositoryFactory
	search        commands.Search
	versions      commands.Versions
	searchMetrics *metrics.SearchMetrics
}

// NewPresetHandlers creates the handlers for presets stored under outputDir.
func NewPresetHandlers(
	outputDir string,
	presetFactory infraRepos.PresetRepositoryFactory,
	search commands.Search,
	versions commands.Versions,
	searchMetrics *metrics.SearchMetrics,
) *PresetHandlers {
	return &PresetHandlers{
		outputDir:     outputDir,
		presetFactory: presetFactory,
		search:        search,
		versions:      versions,
		searchMetrics: searchMetrics,
	}
}

// HandleHealth reports liveness.
func (h *PresetHandlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// HandleIndex returns the preset index.
func (h *PresetHandlers) HandleIndex(c *gin.Context) {
	index, err := h.presetFactory(h.outputDir).Index(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, index)
}

// HandlePreset returns one preset as {nodes, edges}.
func (h *PresetHandlers) HandlePreset(c *gin.Context) {
	graph, err := h.presetFactory(h.outputDir).Load(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, graph)
}

// HandleSearch filters a preset with the expression in ?q=.
func (h *PresetHandlers) HandleSearch(c *gin.Context) {
	result, err := h.search.Execute(c.Request.Context(), commands.SearchOptions{
		OutputDir: h.outputDir,
		Preset:    c.Param("name"),
		Query:     c.Query("q"),
	})
	if err != nil {
		h.searchMetrics.Requests.WithLabelValues(outcomeOf(err)).Inc()
		h.fail(c, err)
		return
	}
	h.searchMetrics.Requests.WithLabelValues(metrics.OutcomeOK).Inc()
	c.JSON(http.StatusOK, result)
}

// HandleVersions returns the nodes used in more than one version.
func (h *PresetHandlers) HandleVersions(c *gin.Context) {
	entries, err := h.versions.Execute(c.Request.Context(), commands.VersionsOptions{
		OutputDir: h.outputDir,
		Preset:    c.Param("name"),
		Pattern:   c.Query("pattern"),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *PresetHandlers) fail(c *gin.Context, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		logger.Errorf("Request %s failed: %v", c.Request.URL.Path, err)
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, entities.ErrInvalidSearch):
		return http.StatusBadRequest
	case errors.Is(err, domainRepos.ErrPresetNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func outcomeOf(err error) string {
	switch statusOf(err) {
	case http.StatusBadRequest:
		return metrics.OutcomeInvalid
	case http.StatusNotFound:
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeError
	}
}
