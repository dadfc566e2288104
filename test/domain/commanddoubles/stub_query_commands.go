//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/pomgraph/internal/domain/commands"
	"github.com/rios0rios0/pomgraph/internal/domain/entities"
)

// StubSearchCommand is a stub implementation of commands.Search.
type StubSearchCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	Result           *commands.SearchResult
	LastOpts         commands.SearchOptions
}

var _ commands.Search = (*StubSearchCommand)(nil)

func (s *StubSearchCommand) Execute(_ context.Context, opts commands.SearchOptions) (*commands.SearchResult, error) {
	s.ExecuteCallCount++
	s.LastOpts = opts
	if s.ExecuteErr != nil {
		return nil, s.ExecuteErr
	}
	return s.Result, nil
}

// StubVersionsCommand is a stub implementation of commands.Versions.
type StubVersionsCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	Entries          []entities.MultipleVersionsEntry
	LastOpts         commands.VersionsOptions
}

var _ commands.Versions = (*StubVersionsCommand)(nil)

func (s *StubVersionsCommand) Execute(
	_ context.Context,
	opts commands.VersionsOptions,
) ([]entities.MultipleVersionsEntry, error) {
	s.ExecuteCallCount++
	s.LastOpts = opts
	return s.Entries, s.ExecuteErr
}
