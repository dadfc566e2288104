//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. These are hand-crafted implementations, no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"
	"sync"

	"github.com/rios0rios0/pomgraph/internal/domain/entities"
	"github.com/rios0rios0/pomgraph/internal/domain/repositories"
)

// SpyPomSourceRepository implements repositories.PomSourceRepository as a configurable spy.
// POMs are keyed by "<repository name>/<path>".
type SpyPomSourceRepository struct {
	// --- identity ---
	SourceName string

	// --- DiscoverProjects ---
	Projects    []entities.Repository
	DiscoverErr error
	// spy: number of discovery calls
	DiscoverCalls int

	// --- GetPom ---
	Poms      map[string]string
	GetPomErr error

	// --- Close ---
	CloseErr   error
	CloseCalls int

	mu        sync.Mutex
	requested []string
}

var _ repositories.PomSourceRepository = (*SpyPomSourceRepository)(nil)

func (p *SpyPomSourceRepository) Name() string {
	if p.SourceName == "" {
		return "spy"
	}
	return p.SourceName
}

func (p *SpyPomSourceRepository) DiscoverProjects(_ context.Context) ([]entities.Repository, error) {
	p.DiscoverCalls++
	return p.Projects, p.DiscoverErr
}

func (p *SpyPomSourceRepository) GetPom(
	_ context.Context,
	repo entities.Repository,
	path string,
) (string, error) {
	key := PomKey(repo.Name, path)

	p.mu.Lock()
	p.requested = append(p.requested, key)
	p.mu.Unlock()

	if content, ok := p.Poms[key]; ok {
		return content, nil
	}
	if p.GetPomErr != nil {
		return "", p.GetPomErr
	}
	return "", fmt.Errorf("file not found: %s", key)
}

func (p *SpyPomSourceRepository) Close() error {
	p.CloseCalls++
	return p.CloseErr
}

// Requested returns the keys passed to GetPom. Concurrent fetches make the
// order unspecified.
func (p *SpyPomSourceRepository) Requested() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.requested...)
}

// PomKey builds the key SpyPomSourceRepository.Poms is indexed by.
func PomKey(repoName, path string) string {
	return repoName + "/" + path
}
