package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/pomgraph/internal/domain/entities"
	"github.com/rios0rios0/pomgraph/internal/infrastructure/metrics"
	infraRepos "github.com/rios0rios0/pomgraph/internal/infrastructure/repositories"
)

// Import is the interface for the import command (batch mode).
type Import interface {
	Execute(ctx context.Context, settings *entities.Settings, opts ImportOptions) (*ImportReport, error)
}

// ImportOptions holds runtime options for a single import.
type ImportOptions struct {
	Verbose     bool
	SourceName  string // If set, only import this source (CLI override)
	OutputDir   string // If set, overrides the configured output directory
	MetricsFile string // If set, metrics are written there in text format
}

// ImportReport summarizes an import run.
type ImportReport struct {
	RunID   string
	Presets []PresetReport
	Errors  int
}

// PresetReport describes the preset written for one source.
type PresetReport struct {
	Name      string
	Nodes     int
	Edges     int
	Stats     CollectStats
	Unchanged bool
}

// ImportCommand reads every configured source and writes one preset per source:
// discover projects -> fetch and parse POMs -> build graph -> save preset.
type ImportCommand struct {
	sourceRegistry *infraRepos.SourceRegistry
	presetFactory  infraRepos.PresetRepositoryFactory
	collector      *pomCollector
	importMetrics  *metrics.ImportMetrics
	gatherer       prometheus.Gatherer
}

// NewImportCommand creates a new ImportCommand.
func NewImportCommand(
	sourceRegistry *infraRepos.SourceRegistry,
	presetFactory infraRepos.PresetRepositoryFactory,
	importMetrics *metrics.ImportMetrics,
	gatherer prometheus.Gatherer,
) *ImportCommand {
	return &ImportCommand{
		sourceRegistry: sourceRegistry,
		presetFactory:  presetFactory,
		collector:      newPomCollector(importMetrics),
		importMetrics:  importMetrics,
		gatherer:       gatherer,
	}
}

// Execute imports the configured sources. Failing sources are logged and
// counted; only a filter naming no configured source is an error.
func (it *ImportCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts ImportOptions,
) (*ImportReport, error) {
	if opts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	if opts.SourceName != "" {
		if _, ok := settings.Source(opts.SourceName); !ok {
			return nil, fmt.Errorf("source %q is not configured", opts.SourceName)
		}
	}

	outputDir := settings.OutputDir
	if opts.OutputDir != "" {
		outputDir = opts.OutputDir
	}
	presets := it.presetFactory(outputDir)

	report := &ImportReport{RunID: uuid.NewString()}
	log := logger.WithField("run_id", report.RunID)

	for _, sourceCfg := range settings.Sources {
		// Skip if CLI filter is set and doesn't match
		if opts.SourceName != "" && sourceCfg.Name != opts.SourceName {
			continue
		}

		sourceLog := log.WithField("source", sourceCfg.Name)
		source, err := it.sourceRegistry.Get(sourceCfg)
		if err != nil {
			sourceLog.Errorf("Failed to initialize source: %v", err)
			report.Errors++
			continue
		}

		graph := entities.NewGraphData(entities.WithNamespaceMarker(settings.NamespaceMarker))
		stats, collectErr := it.collector.collectSource(ctx, source, graph, sourceLog)
		if closeErr := source.Close(); closeErr != nil {
			sourceLog.Warnf("Failed to release source: %v", closeErr)
		}
		if collectErr != nil {
			sourceLog.Errorf("Failed to import source: %v", collectErr)
			report.Errors++
			continue
		}

		saved, saveErr := presets.Save(ctx, sourceCfg.Name, report.RunID, graph)
		if saveErr != nil {
			sourceLog.Errorf("Failed to save preset: %v", saveErr)
			report.Errors++
			continue
		}

		nodes, edges := len(graph.Nodes()), len(graph.Edges())
		it.importMetrics.GraphNodes.WithLabelValues(sourceCfg.Name).Set(float64(nodes))
		it.importMetrics.GraphEdges.WithLabelValues(sourceCfg.Name).Set(float64(edges))
		sourceLog.Infof(
			"Saved preset %s: %d nodes, %d edges (%d POMs parsed, %d skipped)",
			saved.Entry.Href, nodes, edges, stats.Parsed, stats.Failed,
		)

		report.Presets = append(report.Presets, PresetReport{
			Name:      sourceCfg.Name,
			Nodes:     nodes,
			Edges:     edges,
			Stats:     stats,
			Unchanged: saved.Unchanged,
		})
	}

	if opts.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(opts.MetricsFile, it.gatherer); err != nil {
			log.Errorf("Failed to write metrics to %s: %v", opts.MetricsFile, err)
			report.Errors++
		}
	}

	log.Infof("Import complete: %d presets written, %d errors", len(report.Presets), report.Errors)
	return report, nil
}
