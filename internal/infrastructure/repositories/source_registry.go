package repositories

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rios0rios0/pomgraph/internal/domain/entities"
	domainRepos "github.com/rios0rios0/pomgraph/internal/domain/repositories"
)

// ErrUnknownSource is returned for source types nobody registered.
var ErrUnknownSource = errors.New("unknown source type")

// SourceFactory creates a PomSourceRepository from its configuration.
type SourceFactory func(source entities.SourceConfig) domainRepos.PomSourceRepository

// SourceRegistry manages all registered POM source implementations.
type SourceRegistry struct {
	sources map[string]SourceFactory
}

// NewSourceRegistry creates an empty source registry.
func NewSourceRegistry() *SourceRegistry {
	return &SourceRegistry{
		sources: make(map[string]SourceFactory),
	}
}

// Register adds a source factory under the given type (e.g. "gitlab").
func (r *SourceRegistry) Register(sourceType string, factory SourceFactory) {
	r.sources[sourceType] = factory
}

// Get returns a configured source instance for the given configuration.
func (r *SourceRegistry) Get(source entities.SourceConfig) (domainRepos.PomSourceRepository, error) {
	factory, ok := r.sources[source.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, source.Type)
	}
	return factory(source), nil
}

// Names returns the registered source types, sorted.
func (r *SourceRegistry) Names() []string {
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
