package commands

import (
	"context"
	"path/filepath"
	"regexp"

	"github.com/rios0rios0/pomgraph/internal/domain/entities"
)

// Local is the interface for the standalone local import.
type Local interface {
	Execute(ctx context.Context, opts LocalOptions) (*ImportReport, error)
}

// LocalOptions holds runtime options for importing a single directory tree.
type LocalOptions struct {
	Path            string
	Name            string // preset name, defaults to the directory name
	OutputDir       string
	NamespaceMarker string
	Verbose         bool
	MetricsFile     string
}

// LocalCommand imports one directory without a config file by running the
// import pipeline over a single local source.
type LocalCommand struct {
	importer Import
}

// NewLocalCommand creates a new LocalCommand.
func NewLocalCommand(importer Import) *LocalCommand {
	return &LocalCommand{importer: importer}
}

// Execute imports opts.Path into the preset opts.Name.
func (it *LocalCommand) Execute(ctx context.Context, opts LocalOptions) (*ImportReport, error) {
	name := opts.Name
	if name == "" {
		name = presetNameFromPath(opts.Path)
	}

	settings := &entities.Settings{
		OutputDir:       opts.OutputDir,
		NamespaceMarker: opts.NamespaceMarker,
		Sources: []entities.SourceConfig{
			{Name: name, Type: entities.SourceTypeLocal, Path: opts.Path},
		},
	}
	if settings.OutputDir == "" {
		settings.OutputDir = entities.DefaultOutputDir
	}
	if settings.NamespaceMarker == "" {
		settings.NamespaceMarker = entities.DefaultNamespaceMarker
	}

	return it.importer.Execute(ctx, settings, ImportOptions{
		Verbose:     opts.Verbose,
		MetricsFile: opts.MetricsFile,
	})
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func presetNameFromPath(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	name := filepath.Base(abs)
	if name == "." || name == string(filepath.Separator) || name == "" {
		return entities.SourceTypeLocal
	}
	return unsafeNameChars.ReplaceAllString(name, "-")
}
