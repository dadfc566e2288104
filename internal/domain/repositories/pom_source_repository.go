package repositories

import (
	"context"

	"github.com/rios0rios0/pomgraph/internal/domain/entities"
)

// RootPOMPath is the descriptor every discovered project is expected to hold.
const RootPOMPath = "pom.xml"

// PomSourceRepository abstracts where raw POM documents come from
// (a local directory, a GitLab group, a cloned repository).
type PomSourceRepository interface {
	// Name returns the source type identifier (e.g. "local", "gitlab").
	Name() string

	// DiscoverProjects lists the projects whose root pom.xml should be imported,
	// in a stable order.
	DiscoverProjects(ctx context.Context) ([]entities.Repository, error)

	// GetPom returns the raw XML of the POM at path, relative to the project root.
	GetPom(ctx context.Context, repo entities.Repository, path string) (string, error)

	// Close releases resources held by the source (temporary clones).
	Close() error
}
