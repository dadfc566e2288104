//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/pomgraph/internal/domain/commands"
	"github.com/rios0rios0/pomgraph/internal/domain/entities"
)

// StubImportCommand is a stub implementation of commands.Import.
type StubImportCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	Report           *commands.ImportReport
	LastSettings     *entities.Settings
	LastOpts         commands.ImportOptions
}

var _ commands.Import = (*StubImportCommand)(nil)

func (s *StubImportCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts commands.ImportOptions,
) (*commands.ImportReport, error) {
	s.ExecuteCallCount++
	s.LastSettings = settings
	s.LastOpts = opts
	if s.ExecuteErr != nil {
		return nil, s.ExecuteErr
	}
	if s.Report != nil {
		return s.Report, nil
	}
	return &commands.ImportReport{RunID: "stub-run"}, nil
}
