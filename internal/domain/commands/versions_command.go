package commands

import (
	"context"
	"fmt"

	"github.com/rios0rios0/pomgraph/internal/domain/entities"
	infraRepos "github.com/rios0rios0/pomgraph/internal/infrastructure/repositories"
)

// Versions is the interface for the multiple-versions report.
type Versions interface {
	Execute(ctx context.Context, opts VersionsOptions) ([]entities.MultipleVersionsEntry, error)
}

// VersionsOptions selects the preset and an optional node filter.
type VersionsOptions struct {
	OutputDir string
	Preset    string
	Pattern   string // free-text search restricting the reported nodes
}

// VersionsCommand reports the nodes depended upon in more than one version.
type VersionsCommand struct {
	presetFactory infraRepos.PresetRepositoryFactory
}

// NewVersionsCommand creates a new VersionsCommand.
func NewVersionsCommand(presetFactory infraRepos.PresetRepositoryFactory) *VersionsCommand {
	return &VersionsCommand{presetFactory: presetFactory}
}

// Execute loads the preset and returns its version conflicts.
func (it *VersionsCommand) Execute(
	ctx context.Context,
	opts VersionsOptions,
) ([]entities.MultipleVersionsEntry, error) {
	var search *entities.Search
	if opts.Pattern != "" {
		parsed, err := entities.ParseSearch(opts.Pattern)
		if err != nil {
			return nil, err
		}
		search = parsed
	}

	graph, err := it.presetFactory(outputDirOrDefault(opts.OutputDir)).Load(ctx, opts.Preset)
	if err != nil {
		return nil, fmt.Errorf("failed to load preset: %w", err)
	}
	return graph.MultipleVersions(search), nil
}
