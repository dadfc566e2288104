//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"

	"github.com/rios0rios0/pomgraph/internal/domain/entities"
	"github.com/rios0rios0/pomgraph/internal/domain/repositories"
)

// SpyPresetRepository implements repositories.PresetRepository in memory.
type SpyPresetRepository struct {
	// --- Save ---
	SaveErr error
	// spy: graphs saved, by preset name
	Saved map[string]*entities.GraphData
	// spy: run ids received
	RunIDs []string

	// --- Load ---
	Presets map[string]*entities.GraphData
	LoadErr error
	// spy: names requested
	Loaded []string

	// --- Index ---
	Entries  []repositories.IndexEntry
	IndexErr error
}

var _ repositories.PresetRepository = (*SpyPresetRepository)(nil)

func (p *SpyPresetRepository) Save(
	_ context.Context,
	name, runID string,
	graph *entities.GraphData,
) (repositories.SaveResult, error) {
	if p.SaveErr != nil {
		return repositories.SaveResult{}, p.SaveErr
	}
	if p.Saved == nil {
		p.Saved = make(map[string]*entities.GraphData)
	}
	p.Saved[name] = graph
	p.RunIDs = append(p.RunIDs, runID)

	entry := repositories.IndexEntry{Name: name, Href: name + ".json", RunID: runID}
	p.Entries = append(p.Entries, entry)
	return repositories.SaveResult{Entry: entry}, nil
}

func (p *SpyPresetRepository) Load(_ context.Context, name string) (*entities.GraphData, error) {
	p.Loaded = append(p.Loaded, name)
	if p.LoadErr != nil {
		return nil, p.LoadErr
	}
	if graph, ok := p.Presets[name]; ok {
		return graph, nil
	}
	if graph, ok := p.Saved[name]; ok {
		return graph, nil
	}
	return nil, fmt.Errorf("%w: %q", repositories.ErrPresetNotFound, name)
}

func (p *SpyPresetRepository) Index(_ context.Context) ([]repositories.IndexEntry, error) {
	return p.Entries, p.IndexErr
}
