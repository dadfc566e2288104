package gitlab

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	logger "github.com/sirupsen/logrus"
	gl "gitlab.com/gitlab-org/api/client-go"
	"golang.org/x/time/rate"

	"github.com/rios0rios0/pomgraph/internal/domain/entities"
	"github.com/rios0rios0/pomgraph/internal/domain/repositories"
)

const (
	sourceName = "gitlab"
	perPage    = 100

	// patterns this short are treated as accidental input and ignored
	minMatchLength = 3
)

var errClientNotInitialized = errors.New("gitlab client not initialized")

// GitLabPomSourceRepository reads POM files from the projects of a GitLab group.
type GitLabPomSourceRepository struct {
	client        *gl.Client
	group         string
	ref           string
	limit         int
	match         *regexp.Regexp
	maxInactivity time.Duration
	limiter       *rate.Limiter
	now           func() time.Time

	// root POMs read while probing projects, keyed by project id
	mu       sync.Mutex
	rootPoms map[string]string
}

// NewPomSourceRepository creates a GitLab source from its configuration.
func NewPomSourceRepository(source entities.SourceConfig) repositories.PomSourceRepository {
	return NewGitLabPomSourceRepository(source)
}

// NewGitLabPomSourceRepository creates a GitLab source. A client that cannot
// be built makes every call fail instead of panicking at construction.
func NewGitLabPomSourceRepository(source entities.SourceConfig) *GitLabPomSourceRepository {
	var opts []gl.ClientOptionFunc
	if source.Host != "" {
		opts = append(opts, gl.WithBaseURL(strings.TrimSuffix(source.Host, "/")+"/api/v4"))
	}

	client, err := gl.NewClient(source.Token, opts...)
	if err != nil {
		logger.Warnf("Failed to create GitLab client for %q: %v", source.Host, err)
		client = nil
	}

	limit := rate.Inf
	if source.RequestsPerSecond > 0 {
		limit = rate.Limit(source.RequestsPerSecond)
	}

	var match *regexp.Regexp
	if len(source.Match) >= minMatchLength {
		compiled, compileErr := regexp.Compile(source.Match)
		if compileErr != nil {
			logger.Warnf("Ignoring invalid project filter %q: %v", source.Match, compileErr)
		} else {
			match = compiled
		}
	}

	projectLimit := source.Limit
	if projectLimit <= 0 {
		projectLimit = entities.DefaultProjectLimit
	}
	maxInactivity := source.MaxInactivity
	if maxInactivity <= 0 {
		maxInactivity = entities.DefaultMaxInactivity
	}

	return &GitLabPomSourceRepository{
		client:        client,
		group:         source.Group,
		ref:           source.Ref,
		limit:         projectLimit,
		match:         match,
		maxInactivity: maxInactivity,
		limiter:       rate.NewLimiter(limit, 1),
		now:           time.Now,
		rootPoms:      make(map[string]string),
	}
}

func (p *GitLabPomSourceRepository) Name() string { return sourceName }
func (p *GitLabPomSourceRepository) Close() error  { return nil }

// DiscoverProjects lists the group projects (subgroups included), most
// recently updated first, skipping inactive projects, projects whose name
// does not match and projects without a root pom.xml, until the project limit
// is reached. Only projects whose root POM could be read count towards it.
func (p *GitLabPomSourceRepository) DiscoverProjects(ctx context.Context) ([]entities.Repository, error) {
	if p.client == nil {
		return nil, errClientNotInitialized
	}

	cutoff := p.now().Add(-p.maxInactivity)
	logger.Infof("Only selecting projects which have been updated after %s", cutoff.Format(time.RFC3339))

	var selected []entities.Repository
	opts := &gl.ListGroupProjectsOptions{
		ListOptions:      gl.ListOptions{PerPage: perPage},
		IncludeSubGroups: gl.Ptr(true),
		Simple:           gl.Ptr(true),
		OrderBy:          gl.Ptr("updated_at"),
		Sort:             gl.Ptr("desc"),
	}

	for {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		projects, resp, err := p.client.Groups.ListGroupProjects(p.group, opts, gl.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to list projects of group %q: %w", p.group, err)
		}

		for _, proj := range projects {
			if proj.LastActivityAt != nil && proj.LastActivityAt.Before(cutoff) {
				logger.Infof(
					"Ignored project '%s' (%d) due to inactivity (%s)",
					proj.Name, proj.ID, proj.LastActivityAt.Format(time.RFC3339),
				)
				continue
			}
			if p.match != nil && !p.match.MatchString(proj.Name) {
				logger.Infof("Ignored project '%s' (%d). Did not match regex", proj.Name, proj.ID)
				continue
			}

			repo := p.toRepository(proj)
			rootPom, pomErr := p.readFile(ctx, repo, repositories.RootPOMPath)
			if pomErr != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, ctxErr
				}
				logger.Infof(
					"Ignored project '%s' (%d). No readable %s: %v",
					proj.Name, proj.ID, repositories.RootPOMPath, pomErr,
				)
				continue
			}
			p.mu.Lock()
			p.rootPoms[repo.ID] = rootPom
			p.mu.Unlock()

			selected = append(selected, repo)
			logger.Infof(
				"(%d/%d) Found project '%s' (%d). Access under '%s'",
				len(selected), p.limit, proj.Name, proj.ID, proj.HTTPURLToRepo,
			)
			if len(selected) >= p.limit {
				logger.Infof("Reached limit %d", p.limit)
				return selected, nil
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return selected, nil
}

// GetPom reads a raw file from the project at the configured ref. Root POMs
// already read by DiscoverProjects are served without another request.
func (p *GitLabPomSourceRepository) GetPom(
	ctx context.Context,
	repo entities.Repository,
	path string,
) (string, error) {
	if path == repositories.RootPOMPath {
		p.mu.Lock()
		content, ok := p.rootPoms[repo.ID]
		p.mu.Unlock()
		if ok {
			return content, nil
		}
	}
	return p.readFile(ctx, repo, path)
}

func (p *GitLabPomSourceRepository) readFile(
	ctx context.Context,
	repo entities.Repository,
	path string,
) (string, error) {
	if p.client == nil {
		return "", errClientNotInitialized
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return "", err
	}

	branch := strings.TrimPrefix(repo.DefaultBranch, "refs/heads/")
	raw, _, err := p.client.RepositoryFiles.GetRawFile(
		repo.ID, path,
		&gl.GetRawFileOptions{Ref: gl.Ptr(branch)},
		gl.WithContext(ctx),
	)
	if err != nil {
		return "", fmt.Errorf("failed to get file %q: %w", path, err)
	}
	return string(raw), nil
}

func (p *GitLabPomSourceRepository) toRepository(proj *gl.Project) entities.Repository {
	branch := p.ref
	if branch == "" {
		branch = proj.DefaultBranch
	}
	if branch == "" {
		branch = entities.DefaultRef
	}
	return entities.Repository{
		ID:            strconv.FormatInt(proj.ID, 10),
		Name:          proj.Path,
		Organization:  p.group,
		DefaultBranch: "refs/heads/" + branch,
		RemoteURL:     proj.HTTPURLToRepo,
		SSHURL:        proj.SSHURLToRepo,
		ProviderName:  sourceName,
	}
}
