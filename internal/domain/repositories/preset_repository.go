package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/rios0rios0/pomgraph/internal/domain/entities"
)

// ErrPresetNotFound is returned when no preset is stored under a name.
var ErrPresetNotFound = errors.New("preset not found")

// IndexEntry is one line of the preset index.
type IndexEntry struct {
	Name      string    `json:"name"`
	Href      string    `json:"href"`
	Hash      string    `json:"hash,omitempty"`
	RunID     string    `json:"runId,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// SaveResult describes what a Save call did.
type SaveResult struct {
	Entry     IndexEntry
	Unchanged bool // the stored preset already had the same content
}

// PresetRepository persists graphs as named presets plus an index.
type PresetRepository interface {
	Save(ctx context.Context, name, runID string, graph *entities.GraphData) (SaveResult, error)
	Load(ctx context.Context, name string) (*entities.GraphData, error)
	Index(ctx context.Context) ([]IndexEntry, error)
}
