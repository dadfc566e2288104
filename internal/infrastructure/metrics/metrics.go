package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pomgraph"

// Failure reasons recorded by ImportMetrics.PomsFailed.
const (
	ReasonFetch = "fetch"
	ReasonParse = "parse"
)

// Search outcomes recorded by SearchMetrics.Requests.
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// ImportMetrics tracks the POM import pipeline.
type ImportMetrics struct {
	ProjectsDiscovered prometheus.Counter
	PomsParsed         prometheus.Counter
	PomsFailed         *prometheus.CounterVec
	GraphNodes         *prometheus.GaugeVec
	GraphEdges         *prometheus.GaugeVec
}

// NewImportMetrics registers the import metrics on reg.
func NewImportMetrics(reg prometheus.Registerer) *ImportMetrics {
	factory := promauto.With(reg)
	return &ImportMetrics{
		ProjectsDiscovered: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "projects_discovered_total",
			Help:      "Projects returned by POM sources",
		}),
		PomsParsed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poms_parsed_total",
			Help:      "POM documents fetched and parsed",
		}),
		PomsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poms_failed_total",
			Help:      "POM documents skipped, by reason",
		}, []string{"reason"}),
		GraphNodes: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_nodes",
			Help:      "Nodes of the last imported graph, by preset",
		}, []string{"preset"}),
		GraphEdges: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_edges",
			Help:      "Edges of the last imported graph, by preset",
		}, []string{"preset"}),
	}
}

// SearchMetrics tracks searches served over HTTP.
type SearchMetrics struct {
	Requests *prometheus.CounterVec
}

// NewSearchMetrics registers the search metrics on reg.
func NewSearchMetrics(reg prometheus.Registerer) *SearchMetrics {
	return &SearchMetrics{
		Requests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Search requests, by outcome",
		}, []string{"outcome"}),
	}
}
