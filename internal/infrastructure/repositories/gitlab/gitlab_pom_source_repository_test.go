//go:build unit

package gitlab_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/pomgraph/internal/domain/entities"
	"github.com/rios0rios0/pomgraph/internal/infrastructure/repositories/gitlab"
)

type fakeProject struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Path           string    `json:"path"`
	DefaultBranch  string    `json:"default_branch"`
	LastActivityAt time.Time `json:"last_activity_at"`
	HTTPURLToRepo  string    `json:"http_url_to_repo"`
}

// fakeGitLab serves group projects and raw files; files are keyed by
// "<project id>:<path>@<ref>".
type fakeGitLab struct {
	projects []fakeProject
	files    map[string]string

	mu       sync.Mutex
	requests []string
}

func (f *fakeGitLab) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.URL.Path)
	f.mu.Unlock()

	path := r.URL.Path
	switch {
	case strings.HasPrefix(path, "/api/v4/groups/") && strings.HasSuffix(path, "/projects"):
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(f.projects)
	case strings.Contains(path, "/repository/files/") && strings.HasSuffix(path, "/raw"):
		projectID := strings.TrimPrefix(path[:strings.Index(path, "/repository/files/")], "/api/v4/projects/")
		file := strings.TrimSuffix(path[strings.Index(path, "/repository/files/")+len("/repository/files/"):], "/raw")
		content, ok := f.files[projectID+":"+file+"@"+r.URL.Query().Get("ref")]
		if !ok {
			http.Error(w, `{"message":"404 File Not Found"}`, http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(content))
	default:
		http.NotFound(w, r)
	}
}

// mavenGitLab serves the projects, each with a root pom.xml on its default
// branch ("main" when unset).
func mavenGitLab(projects ...fakeProject) *fakeGitLab {
	files := make(map[string]string, len(projects))
	for _, project := range projects {
		branch := project.DefaultBranch
		if branch == "" {
			branch = "main"
		}
		files[strconv.FormatInt(project.ID, 10)+":pom.xml@"+branch] = "<project/>"
	}
	return &fakeGitLab{projects: projects, files: files}
}

func newSource(t *testing.T, fake *fakeGitLab, source entities.SourceConfig) *gitlab.GitLabPomSourceRepository {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	source.Type = entities.SourceTypeGitLab
	source.Host = server.URL
	if source.Group == "" {
		source.Group = "acme"
	}
	return gitlab.NewGitLabPomSourceRepository(source)
}

func TestGitLabPomSourceRepository(t *testing.T) {
	t.Parallel()

	t.Run("Name", func(t *testing.T) {
		t.Parallel()

		t.Run("should return gitlab", func(t *testing.T) {
			t.Parallel()

			// given
			source := gitlab.NewGitLabPomSourceRepository(entities.SourceConfig{Group: "acme"})

			// when
			name := source.Name()

			// then
			assert.Equal(t, "gitlab", name)
			assert.NoError(t, source.Close())
		})
	})

	t.Run("DiscoverProjects", func(t *testing.T) {
		t.Parallel()

		t.Run("should skip inactive projects", func(t *testing.T) {
			t.Parallel()

			// given
			fake := mavenGitLab(
				fakeProject{ID: 1, Name: "active", Path: "active", LastActivityAt: time.Now().Add(-time.Hour)},
				fakeProject{ID: 2, Name: "stale", Path: "stale", LastActivityAt: time.Now().Add(-3 * 365 * 24 * time.Hour)},
			)
			source := newSource(t, fake, entities.SourceConfig{})

			// when
			projects, err := source.DiscoverProjects(context.Background())

			// then
			require.NoError(t, err)
			require.Len(t, projects, 1)
			assert.Equal(t, "1", projects[0].ID)
			assert.Equal(t, "active", projects[0].Name)
			assert.Equal(t, "acme", projects[0].Organization)
		})

		t.Run("should skip projects not matching the filter", func(t *testing.T) {
			t.Parallel()

			// given
			fake := mavenGitLab(
				fakeProject{ID: 1, Name: "service-a", Path: "service-a", LastActivityAt: time.Now()},
				fakeProject{ID: 2, Name: "docs", Path: "docs", LastActivityAt: time.Now()},
			)
			source := newSource(t, fake, entities.SourceConfig{Match: "^service-"})

			// when
			projects, err := source.DiscoverProjects(context.Background())

			// then
			require.NoError(t, err)
			require.Len(t, projects, 1)
			assert.Equal(t, "service-a", projects[0].Name)
		})

		t.Run("should ignore filters shorter than three characters", func(t *testing.T) {
			t.Parallel()

			// given
			fake := mavenGitLab(
				fakeProject{ID: 1, Name: "service-a", Path: "service-a", LastActivityAt: time.Now()},
				fakeProject{ID: 2, Name: "docs", Path: "docs", LastActivityAt: time.Now()},
			)
			source := newSource(t, fake, entities.SourceConfig{Match: "^s"})

			// when
			projects, err := source.DiscoverProjects(context.Background())

			// then
			require.NoError(t, err)
			assert.Len(t, projects, 2)
		})

		t.Run("should stop at the project limit", func(t *testing.T) {
			t.Parallel()

			// given
			fake := mavenGitLab(
				fakeProject{ID: 1, Name: "a", Path: "a", LastActivityAt: time.Now()},
				fakeProject{ID: 2, Name: "b", Path: "b", LastActivityAt: time.Now()},
				fakeProject{ID: 3, Name: "c", Path: "c", LastActivityAt: time.Now()},
			)
			source := newSource(t, fake, entities.SourceConfig{Limit: 2})

			// when
			projects, err := source.DiscoverProjects(context.Background())

			// then
			require.NoError(t, err)
			assert.Len(t, projects, 2)
		})

		t.Run("should not count projects without a root POM towards the limit", func(t *testing.T) {
			t.Parallel()

			// given
			fake := mavenGitLab(
				fakeProject{ID: 2, Name: "maven-a", Path: "maven-a", LastActivityAt: time.Now()},
				fakeProject{ID: 3, Name: "maven-b", Path: "maven-b", LastActivityAt: time.Now()},
			)
			fake.projects = append(
				[]fakeProject{{ID: 1, Name: "frontend", Path: "frontend", LastActivityAt: time.Now()}},
				fake.projects...,
			)
			source := newSource(t, fake, entities.SourceConfig{Limit: 2})

			// when
			projects, err := source.DiscoverProjects(context.Background())

			// then
			require.NoError(t, err)
			require.Len(t, projects, 2)
			assert.Equal(t, "maven-a", projects[0].Name)
			assert.Equal(t, "maven-b", projects[1].Name)
		})

		t.Run("should use the configured ref before the default branch", func(t *testing.T) {
			t.Parallel()

			// given
			fake := mavenGitLab(
				fakeProject{ID: 1, Name: "a", Path: "a", DefaultBranch: "master", LastActivityAt: time.Now()},
			)
			fake.files["1:pom.xml@develop"] = "<project/>"
			withRef := newSource(t, fake, entities.SourceConfig{Ref: "develop"})
			withoutRef := newSource(t, fake, entities.SourceConfig{})

			// when
			refProjects, refErr := withRef.DiscoverProjects(context.Background())
			defaultProjects, defaultErr := withoutRef.DiscoverProjects(context.Background())

			// then
			require.NoError(t, refErr)
			require.NoError(t, defaultErr)
			assert.Equal(t, "refs/heads/develop", refProjects[0].DefaultBranch)
			assert.Equal(t, "refs/heads/master", defaultProjects[0].DefaultBranch)
		})
	})

	t.Run("GetPom", func(t *testing.T) {
		t.Parallel()

		t.Run("should read the raw file at the project branch", func(t *testing.T) {
			t.Parallel()

			// given
			fake := &fakeGitLab{
				projects: []fakeProject{
					{ID: 7, Name: "a", Path: "a", DefaultBranch: "main", LastActivityAt: time.Now()},
				},
				files: map[string]string{
					"7:pom.xml@main":      "<project>root</project>",
					"7:core/pom.xml@main": "<project>core</project>",
				},
			}
			source := newSource(t, fake, entities.SourceConfig{})
			projects, err := source.DiscoverProjects(context.Background())
			require.NoError(t, err)

			// when
			root, rootErr := source.GetPom(context.Background(), projects[0], "pom.xml")
			core, coreErr := source.GetPom(context.Background(), projects[0], "core/pom.xml")

			// then
			require.NoError(t, rootErr)
			require.NoError(t, coreErr)
			assert.Equal(t, "<project>root</project>", root)
			assert.Equal(t, "<project>core</project>", core)
		})

		t.Run("should serve the root POM read during discovery without another request", func(t *testing.T) {
			t.Parallel()

			// given
			fake := mavenGitLab(fakeProject{ID: 7, Name: "a", Path: "a", LastActivityAt: time.Now()})
			source := newSource(t, fake, entities.SourceConfig{})
			projects, err := source.DiscoverProjects(context.Background())
			require.NoError(t, err)
			fake.mu.Lock()
			before := len(fake.requests)
			fake.mu.Unlock()

			// when
			root, rootErr := source.GetPom(context.Background(), projects[0], "pom.xml")

			// then
			require.NoError(t, rootErr)
			assert.Equal(t, "<project/>", root)
			fake.mu.Lock()
			assert.Len(t, fake.requests, before)
			fake.mu.Unlock()
		})

		t.Run("should fail for a missing file", func(t *testing.T) {
			t.Parallel()

			// given
			fake := &fakeGitLab{files: map[string]string{}}
			source := newSource(t, fake, entities.SourceConfig{})
			repo := entities.Repository{ID: "7", DefaultBranch: "refs/heads/main"}

			// when
			_, err := source.GetPom(context.Background(), repo, "pom.xml")

			// then
			require.Error(t, err)
		})
	})
}
