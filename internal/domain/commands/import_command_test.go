//go:build unit

package commands_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/pomgraph/internal/domain/commands"
	"github.com/rios0rios0/pomgraph/internal/domain/entities"
	domainRepos "github.com/rios0rios0/pomgraph/internal/domain/repositories"
	"github.com/rios0rios0/pomgraph/internal/infrastructure/metrics"
	infraRepos "github.com/rios0rios0/pomgraph/internal/infrastructure/repositories"
	"github.com/rios0rios0/pomgraph/test/domain/entitybuilders"
	doubles "github.com/rios0rios0/pomgraph/test/infrastructure/repositorydoubles"
)

type importFixture struct {
	command  *commands.ImportCommand
	source   *doubles.SpyPomSourceRepository
	presets  *doubles.SpyPresetRepository
	metrics  *metrics.ImportMetrics
	registry *prometheus.Registry
	dirs     []string
}

func newImportFixture(source *doubles.SpyPomSourceRepository) *importFixture {
	fixture := &importFixture{
		source:   source,
		presets:  &doubles.SpyPresetRepository{},
		registry: prometheus.NewRegistry(),
	}
	fixture.metrics = metrics.NewImportMetrics(fixture.registry)

	sources := infraRepos.NewSourceRegistry()
	sources.Register(entities.SourceTypeLocal, func(entities.SourceConfig) domainRepos.PomSourceRepository {
		return source
	})
	presetFactory := func(dir string) domainRepos.PresetRepository {
		fixture.dirs = append(fixture.dirs, dir)
		return fixture.presets
	}

	fixture.command = commands.NewImportCommand(sources, presetFactory, fixture.metrics, fixture.registry)
	return fixture
}

func localSettings(names ...string) *entities.Settings {
	settings := &entities.Settings{OutputDir: "out", NamespaceMarker: "acme"}
	for _, name := range names {
		settings.Sources = append(settings.Sources, entities.SourceConfig{
			Name: name, Type: entities.SourceTypeLocal, Path: ".",
		})
	}
	return settings
}

// multiModuleSource holds "shop" (aggregator with core and api, core with
// core/impl) and "billing" (single module with an unreadable module).
func multiModuleSource() *doubles.SpyPomSourceRepository {
	return &doubles.SpyPomSourceRepository{
		Projects: []entities.Repository{{ID: "1", Name: "shop"}, {ID: "2", Name: "billing"}},
		Poms: map[string]string{
			doubles.PomKey("shop", "pom.xml"): entitybuilders.NewPomDocumentBuilder().
				WithSelf("com.acme.shop", "shop", "1.0.0").
				WithPackaging("pom").
				WithModule("core").
				WithModule("api").
				BuildXML(),
			doubles.PomKey("shop", "core/pom.xml"): entitybuilders.NewPomDocumentBuilder().
				WithParent("com.acme.shop", "shop", "1.0.0").
				WithSelf("com.acme.shop", "core", "1.0.0").
				WithModule("impl").
				WithDependency("org.slf4j", "slf4j-api", "2.0.9").
				BuildXML(),
			doubles.PomKey("shop", "core/impl/pom.xml"): entitybuilders.NewPomDocumentBuilder().
				WithSelf("com.acme.shop", "core-impl", "1.0.0").
				WithDependency("com.acme.shop", "core", "1.0.0").
				BuildXML(),
			doubles.PomKey("shop", "api/pom.xml"): entitybuilders.NewPomDocumentBuilder().
				WithParent("com.acme.shop", "shop", "1.0.0").
				WithSelf("com.acme.shop", "api", "1.0.0").
				WithDependency("org.slf4j", "slf4j-api", "1.7.36").
				BuildXML(),
			doubles.PomKey("billing", "pom.xml"): entitybuilders.NewPomDocumentBuilder().
				WithSelf("com.acme.billing", "billing", "2.0.0").
				WithModule("broken").
				BuildXML(),
			doubles.PomKey("billing", "broken/pom.xml"): "<project><groupId>broken</groupId><</project>",
		},
	}
}

func TestImportCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should ingest every module of every project into one preset", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := newImportFixture(multiModuleSource())

		// when
		report, err := fixture.command.Execute(context.Background(), localSettings("workspace"), commands.ImportOptions{})

		// then
		require.NoError(t, err)
		require.Len(t, report.Presets, 1)
		assert.Equal(t, commands.CollectStats{Projects: 2, Parsed: 5, Failed: 1}, report.Presets[0].Stats)

		graph := fixture.presets.Saved["workspace"]
		require.NotNil(t, graph)
		ids := make([]string, 0)
		for _, node := range graph.Nodes() {
			ids = append(ids, node.ID)
		}
		assert.Equal(t, []string{
			"com.acme.shop_shop",
			"com.acme.shop_core",
			"org.slf4j_slf4j-api",
			"com.acme.shop_core-impl",
			"com.acme.shop_api",
			"com.acme.billing_billing",
		}, ids)
		assert.Len(t, graph.Edges(), 5)
		assert.Equal(t, []string{"out"}, fixture.dirs)
	})

	t.Run("should ingest modules in declaration order", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := newImportFixture(multiModuleSource())

		// when
		_, err := fixture.command.Execute(context.Background(), localSettings("workspace"), commands.ImportOptions{})

		// then
		require.NoError(t, err)
		edges := fixture.presets.Saved["workspace"].OutEdges("org.slf4j_slf4j-api")
		require.Len(t, edges, 2)
		assert.Equal(t, "com.acme.shop_core", edges[0].Target)
		assert.Equal(t, "com.acme.shop_api", edges[1].Target)
	})

	t.Run("should fetch submodule POMs relative to their aggregator", func(t *testing.T) {
		t.Parallel()

		// given
		source := multiModuleSource()
		fixture := newImportFixture(source)

		// when
		_, err := fixture.command.Execute(context.Background(), localSettings("workspace"), commands.ImportOptions{})

		// then
		require.NoError(t, err)
		requested := source.Requested()
		sort.Strings(requested)
		assert.Equal(t, []string{
			"billing/broken/pom.xml",
			"billing/pom.xml",
			"shop/api/pom.xml",
			"shop/core/impl/pom.xml",
			"shop/core/pom.xml",
			"shop/pom.xml",
		}, requested)
		assert.Equal(t, 1, source.CloseCalls)
	})

	t.Run("should record import metrics", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := newImportFixture(multiModuleSource())

		// when
		_, err := fixture.command.Execute(context.Background(), localSettings("workspace"), commands.ImportOptions{})

		// then
		require.NoError(t, err)
		assert.InDelta(t, 2, testutil.ToFloat64(fixture.metrics.ProjectsDiscovered), 0)
		assert.InDelta(t, 5, testutil.ToFloat64(fixture.metrics.PomsParsed), 0)
		assert.InDelta(t, 1, testutil.ToFloat64(fixture.metrics.PomsFailed.WithLabelValues(metrics.ReasonParse)), 0)
		assert.InDelta(t, 5, testutil.ToFloat64(fixture.metrics.GraphEdges.WithLabelValues("workspace")), 0)
	})

	t.Run("should skip a project whose root POM cannot be read", func(t *testing.T) {
		t.Parallel()

		// given
		source := &doubles.SpyPomSourceRepository{
			Projects: []entities.Repository{{ID: "1", Name: "empty"}},
		}
		fixture := newImportFixture(source)

		// when
		report, err := fixture.command.Execute(context.Background(), localSettings("workspace"), commands.ImportOptions{})

		// then
		require.NoError(t, err)
		require.Len(t, report.Presets, 1)
		assert.Equal(t, 1, report.Presets[0].Stats.Failed)
		assert.Empty(t, fixture.presets.Saved["workspace"].Nodes())
		assert.InDelta(t, 1, testutil.ToFloat64(fixture.metrics.PomsFailed.WithLabelValues(metrics.ReasonFetch)), 0)
	})

	t.Run("should leave no node behind for a POM without a project root", func(t *testing.T) {
		t.Parallel()

		// given
		source := &doubles.SpyPomSourceRepository{
			Projects: []entities.Repository{{ID: "1", Name: "blank"}, {ID: "2", Name: "shop"}},
			Poms: map[string]string{
				doubles.PomKey("blank", "pom.xml"): "",
				doubles.PomKey("shop", "pom.xml"): entitybuilders.NewPomDocumentBuilder().
					WithSelf("com.acme.shop", "shop", "1.0.0").
					WithModule("notes").
					BuildXML(),
				doubles.PomKey("shop", "notes/pom.xml"): "<notes><dependency><groupId>x</groupId></dependency></notes>",
			},
		}
		fixture := newImportFixture(source)

		// when
		report, err := fixture.command.Execute(context.Background(), localSettings("workspace"), commands.ImportOptions{})

		// then
		require.NoError(t, err)
		require.Len(t, report.Presets, 1)
		assert.Equal(t, commands.CollectStats{Projects: 2, Parsed: 1, Failed: 2}, report.Presets[0].Stats)
		graph := fixture.presets.Saved["workspace"]
		require.Len(t, graph.Nodes(), 1)
		assert.Equal(t, "com.acme.shop_shop", graph.Nodes()[0].ID)
		assert.Empty(t, graph.Edges())
		_, found := graph.Node(entities.UnknownValue + "_" + entities.UnknownValue)
		assert.False(t, found)
	})

	t.Run("should count a failing discovery and save nothing", func(t *testing.T) {
		t.Parallel()

		// given
		source := &doubles.SpyPomSourceRepository{DiscoverErr: errors.New("boom")}
		fixture := newImportFixture(source)

		// when
		report, err := fixture.command.Execute(context.Background(), localSettings("workspace"), commands.ImportOptions{})

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, report.Errors)
		assert.Empty(t, report.Presets)
		assert.Empty(t, fixture.presets.Saved)
		assert.Equal(t, 1, source.CloseCalls)
	})

	t.Run("should count a failing save", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := newImportFixture(multiModuleSource())
		fixture.presets.SaveErr = errors.New("disk full")

		// when
		report, err := fixture.command.Execute(context.Background(), localSettings("workspace"), commands.ImportOptions{})

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, report.Errors)
	})

	t.Run("should only import the source named by the filter", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := newImportFixture(multiModuleSource())

		// when
		report, err := fixture.command.Execute(
			context.Background(), localSettings("first", "second"), commands.ImportOptions{SourceName: "second"},
		)

		// then
		require.NoError(t, err)
		require.Len(t, report.Presets, 1)
		assert.Equal(t, "second", report.Presets[0].Name)
		assert.Len(t, fixture.presets.RunIDs, 1)
	})

	t.Run("should reject a filter naming no configured source", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := newImportFixture(multiModuleSource())

		// when
		_, err := fixture.command.Execute(
			context.Background(), localSettings("workspace"), commands.ImportOptions{SourceName: "other"},
		)

		// then
		require.Error(t, err)
		assert.Equal(t, 0, fixture.source.DiscoverCalls)
	})

	t.Run("should count a source type nobody registered", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := newImportFixture(multiModuleSource())
		settings := &entities.Settings{
			OutputDir: "out",
			Sources:   []entities.SourceConfig{{Name: "remote", Type: entities.SourceTypeGitLab, Group: "acme"}},
		}

		// when
		report, err := fixture.command.Execute(context.Background(), settings, commands.ImportOptions{})

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, report.Errors)
	})

	t.Run("should use one run id for every preset of a run", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := newImportFixture(multiModuleSource())

		// when
		report, err := fixture.command.Execute(
			context.Background(), localSettings("first", "second"), commands.ImportOptions{OutputDir: "override"},
		)

		// then
		require.NoError(t, err)
		assert.NotEmpty(t, report.RunID)
		assert.Equal(t, []string{report.RunID, report.RunID}, fixture.presets.RunIDs)
		assert.Equal(t, []string{"override"}, fixture.dirs)
	})

	t.Run("should write metrics to a text file", func(t *testing.T) {
		t.Parallel()

		// given
		fixture := newImportFixture(multiModuleSource())
		metricsFile := filepath.Join(t.TempDir(), "pomgraph.prom")

		// when
		_, err := fixture.command.Execute(
			context.Background(), localSettings("workspace"), commands.ImportOptions{MetricsFile: metricsFile},
		)

		// then
		require.NoError(t, err)
		content, readErr := os.ReadFile(metricsFile)
		require.NoError(t, readErr)
		assert.Contains(t, string(content), "pomgraph_poms_parsed_total 5")
	})
}
