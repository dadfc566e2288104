package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	logger "github.com/sirupsen/logrus"
	"github.com/viant/afs"

	"github.com/rios0rios0/pomgraph/internal/domain/entities"
	"github.com/rios0rios0/pomgraph/internal/domain/repositories"
)

const sourceName = "local"

// skippedDirs never contain POMs that belong to the build itself.
var skippedDirs = map[string]bool{ //nolint:gochecknoglobals // read-only lookup
	".git":         true,
	"target":       true,
	"node_modules": true,
	".idea":        true,
}

// LocalPomSourceRepository reads POM files from a directory tree.
type LocalPomSourceRepository struct {
	root string
	fs   afs.Service
}

// NewPomSourceRepository creates a local source rooted at the given path.
func NewPomSourceRepository(source entities.SourceConfig) repositories.PomSourceRepository {
	return NewLocalPomSourceRepository(source.Path)
}

// NewLocalPomSourceRepository creates a local source rooted at root.
func NewLocalPomSourceRepository(root string) *LocalPomSourceRepository {
	return &LocalPomSourceRepository{root: root, fs: afs.New()}
}

func (p *LocalPomSourceRepository) Name() string { return sourceName }
func (p *LocalPomSourceRepository) Close() error  { return nil }

// DiscoverProjects walks the tree and returns every directory holding a
// pom.xml that has no ancestor directory holding one. Nested POMs are reached
// through <modules> of their aggregator instead.
func (p *LocalPomSourceRepository) DiscoverProjects(ctx context.Context) ([]entities.Repository, error) {
	root, err := filepath.Abs(p.root)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", p.root, err)
	}

	info, statErr := os.Stat(root)
	if statErr != nil {
		return nil, fmt.Errorf("path %q does not exist: %w", p.root, statErr)
	}
	if !info.IsDir() {
		root = filepath.Dir(root)
	}

	var pomDirs []string
	walkErr := p.fs.Walk(ctx, root, func(
		_ context.Context, _ string, parent string, info os.FileInfo, _ io.Reader,
	) (bool, error) {
		if info.IsDir() {
			return !skippedDirs[info.Name()], nil
		}
		if info.Name() != repositories.RootPOMPath || isSkipped(parent) {
			return true, nil
		}
		pomDirs = append(pomDirs, filepath.Join(root, filepath.FromSlash(parent)))
		return true, nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to walk %q: %w", root, walkErr)
	}

	roots := projectRoots(pomDirs)
	logger.Debugf("Found %d POM files and %d project roots under %s", len(pomDirs), len(roots), root)

	projects := make([]entities.Repository, 0, len(roots))
	for _, dir := range roots {
		projects = append(projects, entities.Repository{
			ID:           dir,
			Name:         filepath.Base(dir),
			Organization: root,
			RemoteURL:    "file://" + filepath.ToSlash(dir),
			ProviderName: sourceName,
		})
	}
	return projects, nil
}

// GetPom reads a POM relative to the project directory.
func (p *LocalPomSourceRepository) GetPom(
	ctx context.Context,
	repo entities.Repository,
	path string,
) (string, error) {
	location := filepath.Join(repo.ID, filepath.FromSlash(path))
	content, err := p.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", location, err)
	}
	return string(content), nil
}

func isSkipped(parent string) bool {
	for _, segment := range strings.Split(filepath.ToSlash(parent), "/") {
		if skippedDirs[segment] {
			return true
		}
	}
	return false
}

// projectRoots keeps the directories that are not nested below another one.
func projectRoots(dirs []string) []string {
	sorted := make([]string, len(dirs))
	copy(sorted, dirs)
	sort.Strings(sorted)

	var roots []string
	for _, dir := range sorted {
		nested := false
		for _, root := range roots {
			if dir == root || strings.HasPrefix(dir, root+string(filepath.Separator)) {
				nested = true
				break
			}
		}
		if !nested {
			roots = append(roots, dir)
		}
	}
	return roots
}
