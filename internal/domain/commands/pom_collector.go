package commands

import (
	"context"
	"path"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rios0rios0/pomgraph/internal/domain/entities"
	"github.com/rios0rios0/pomgraph/internal/domain/repositories"
	"github.com/rios0rios0/pomgraph/internal/infrastructure/metrics"
)

const (
	fetchConcurrency = 8
	maxModuleDepth   = 10
)

// CollectStats counts what one source import did.
type CollectStats struct {
	Projects int
	Parsed   int
	Failed   int
}

// pomCollector fetches every POM of a project tree: the root pom.xml first,
// then the <modules> it declares, recursively.
type pomCollector struct {
	metrics *metrics.ImportMetrics
}

func newPomCollector(importMetrics *metrics.ImportMetrics) *pomCollector {
	return &pomCollector{metrics: importMetrics}
}

// collectSource ingests every project of the source into graph.
func (it *pomCollector) collectSource(
	ctx context.Context,
	source repositories.PomSourceRepository,
	graph *entities.GraphData,
	log *logger.Entry,
) (CollectStats, error) {
	var stats CollectStats

	projects, err := source.DiscoverProjects(ctx)
	if err != nil {
		return stats, err
	}
	stats.Projects = len(projects)
	it.metrics.ProjectsDiscovered.Add(float64(len(projects)))
	log.Infof("Found %d projects", len(projects))

	for _, project := range projects {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return stats, ctxErr
		}
		records := it.collectProject(ctx, source, project, &stats, log)
		graph.Ingest(records...)
	}
	return stats, nil
}

// collectProject returns the records of the project in declaration order,
// each aggregator followed by its modules.
func (it *pomCollector) collectProject(
	ctx context.Context,
	source repositories.PomSourceRepository,
	project entities.Repository,
	stats *CollectStats,
	log *logger.Entry,
) []entities.POMInfo {
	projectLog := log.WithField("project", project.Name)

	root := it.fetch(ctx, source, project, repositories.RootPOMPath, stats, projectLog)
	if root == nil {
		return nil
	}

	visited := map[string]bool{repositories.RootPOMPath: true}
	records := []entities.POMInfo{root.Info}
	records = append(records, it.collectModules(
		ctx, source, project, ".", root.SubModulesNames, 1, visited, stats, projectLog,
	)...)
	projectLog.Debugf("Collected %d POM records", len(records))
	return records
}

func (it *pomCollector) collectModules(
	ctx context.Context,
	source repositories.PomSourceRepository,
	project entities.Repository,
	baseDir string,
	modules []string,
	depth int,
	visited map[string]bool,
	stats *CollectStats,
	log *logger.Entry,
) []entities.POMInfo {
	if len(modules) == 0 {
		return nil
	}
	if depth > maxModuleDepth {
		log.Warnf("Not descending below %s: module depth %d reached", baseDir, maxModuleDepth)
		return nil
	}

	var paths []string
	for _, module := range modules {
		pomPath := path.Join(baseDir, module, repositories.RootPOMPath)
		if visited[pomPath] {
			continue
		}
		visited[pomPath] = true
		paths = append(paths, pomPath)
	}

	// fetched in parallel, ingested in declaration order
	parsers := make([]*entities.POMParser, len(paths))
	counts := make([]CollectStats, len(paths))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(fetchConcurrency)
	for i, pomPath := range paths {
		group.Go(func() error {
			parsers[i] = it.fetch(groupCtx, source, project, pomPath, &counts[i], log)
			return nil
		})
	}
	_ = group.Wait()

	var records []entities.POMInfo
	for i, parser := range parsers {
		stats.Parsed += counts[i].Parsed
		stats.Failed += counts[i].Failed
		if parser == nil {
			continue
		}
		records = append(records, parser.Info)
		records = append(records, it.collectModules(
			ctx, source, project, path.Dir(paths[i]), parser.SubModulesNames, depth+1, visited, stats, log,
		)...)
	}
	return records
}

// fetch reads and parses one POM. Failures are logged and counted, never fatal.
func (it *pomCollector) fetch(
	ctx context.Context,
	source repositories.PomSourceRepository,
	project entities.Repository,
	pomPath string,
	stats *CollectStats,
	log *logger.Entry,
) *entities.POMParser {
	raw, err := source.GetPom(ctx, project, pomPath)
	if err != nil {
		log.Warnf("Skipping %s: %v", pomPath, err)
		it.metrics.PomsFailed.WithLabelValues(metrics.ReasonFetch).Inc()
		stats.Failed++
		return nil
	}

	parser, err := entities.ParsePOMString(raw, nil)
	if err != nil {
		log.Warnf("Skipping %s: %v", pomPath, err)
		it.metrics.PomsFailed.WithLabelValues(metrics.ReasonParse).Inc()
		stats.Failed++
		return nil
	}

	if parser.Info.Self == nil {
		log.Warnf("Skipping %s: no <project> root element", pomPath)
		it.metrics.PomsFailed.WithLabelValues(metrics.ReasonParse).Inc()
		stats.Failed++
		return nil
	}

	it.metrics.PomsParsed.Inc()
	stats.Parsed++
	return parser
}
