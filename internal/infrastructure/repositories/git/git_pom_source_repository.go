package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/pomgraph/internal/domain/entities"
	"github.com/rios0rios0/pomgraph/internal/domain/repositories"
	"github.com/rios0rios0/pomgraph/internal/infrastructure/repositories/local"
)

const sourceName = "git"

var errNotCloned = errors.New("repository has not been cloned yet")

// GitPomSourceRepository shallow-clones a remote repository and reads its
// POM files from the working tree.
type GitPomSourceRepository struct {
	url   string
	token string
	ref   string

	cloneDir string
	local    *local.LocalPomSourceRepository
}

// NewPomSourceRepository creates a git source from its configuration.
func NewPomSourceRepository(source entities.SourceConfig) repositories.PomSourceRepository {
	return NewGitPomSourceRepository(source.URL, source.Token, source.Ref)
}

// NewGitPomSourceRepository creates a git source for url. An empty ref clones
// the remote HEAD.
func NewGitPomSourceRepository(url, token, ref string) *GitPomSourceRepository {
	return &GitPomSourceRepository{url: url, token: token, ref: ref}
}

func (p *GitPomSourceRepository) Name() string { return sourceName }

// DiscoverProjects clones the repository on first use and lists the project
// roots of the working tree.
func (p *GitPomSourceRepository) DiscoverProjects(ctx context.Context) ([]entities.Repository, error) {
	if p.local == nil {
		if err := p.clone(ctx); err != nil {
			return nil, err
		}
	}
	return p.local.DiscoverProjects(ctx)
}

func (p *GitPomSourceRepository) GetPom(
	ctx context.Context,
	repo entities.Repository,
	path string,
) (string, error) {
	if p.local == nil {
		return "", errNotCloned
	}
	return p.local.GetPom(ctx, repo, path)
}

// Close removes the temporary clone.
func (p *GitPomSourceRepository) Close() error {
	if p.cloneDir == "" {
		return nil
	}
	dir := p.cloneDir
	p.cloneDir = ""
	p.local = nil
	return os.RemoveAll(dir)
}

func (p *GitPomSourceRepository) clone(ctx context.Context) error {
	dir, err := os.MkdirTemp("", "pomgraph-clone-")
	if err != nil {
		return fmt.Errorf("failed to create clone directory: %w", err)
	}

	opts := &gogit.CloneOptions{
		URL:          p.url,
		Depth:        1,
		SingleBranch: true,
	}
	if p.ref != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(strings.TrimPrefix(p.ref, "refs/heads/"))
	}
	if p.token != "" {
		opts.Auth = &http.BasicAuth{Username: "oauth2", Password: p.token}
	}

	logger.Infof("Cloning %s into %s", p.url, dir)
	if _, cloneErr := gogit.PlainCloneContext(ctx, dir, false, opts); cloneErr != nil {
		_ = os.RemoveAll(dir)
		return fmt.Errorf("failed to clone %q: %w", p.url, cloneErr)
	}

	p.cloneDir = dir
	p.local = local.NewLocalPomSourceRepository(dir)
	return nil
}
