package commands

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/pomgraph/internal/domain/entities"
	infraRepos "github.com/rios0rios0/pomgraph/internal/infrastructure/repositories"
)

// Search is the interface for querying a stored preset.
type Search interface {
	Execute(ctx context.Context, opts SearchOptions) (*SearchResult, error)
}

// SearchOptions selects the preset and the query to run against it.
type SearchOptions struct {
	OutputDir string
	Preset    string
	Query     string
}

// SearchResult is the filtered part of a preset.
type SearchResult struct {
	Query *entities.Search      `json:"query"`
	Graph entities.FilterResult `json:"graph"`
}

// SearchCommand loads a preset and filters it with a search expression.
type SearchCommand struct {
	presetFactory infraRepos.PresetRepositoryFactory
}

// NewSearchCommand creates a new SearchCommand.
func NewSearchCommand(presetFactory infraRepos.PresetRepositoryFactory) *SearchCommand {
	return &SearchCommand{presetFactory: presetFactory}
}

// Execute parses the query first so an invalid expression never touches storage.
func (it *SearchCommand) Execute(ctx context.Context, opts SearchOptions) (*SearchResult, error) {
	search, err := entities.ParseSearch(opts.Query)
	if err != nil {
		return nil, err
	}

	graph, err := it.presetFactory(outputDirOrDefault(opts.OutputDir)).Load(ctx, opts.Preset)
	if err != nil {
		return nil, fmt.Errorf("failed to load preset: %w", err)
	}

	result := graph.Filter(search)
	logger.Debugf(
		"Search %q on %s matched %d nodes and %d edges",
		opts.Query, opts.Preset, len(result.Nodes), len(result.Edges),
	)
	return &SearchResult{Query: search, Graph: result}, nil
}

func outputDirOrDefault(dir string) string {
	if dir == "" {
		return entities.DefaultOutputDir
	}
	return dir
}
