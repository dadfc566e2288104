package entities

import (
	"encoding/json"
	"strings"

	logger "github.com/sirupsen/logrus"
)

const (
	// DefaultNamespaceMarker is the group id substring that marks internal artifacts.
	DefaultNamespaceMarker = "telekom"

	// ParentPOMType tags nodes promoted from a <parent> coordinate.
	ParentPOMType = "parent"

	externalCluster     = "external"
	dependencyPackaging = "jar"
)

// Node is a version-less graph vertex. Version, cluster and packaging come
// from the last record ingested for the id.
type Node struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Version   string `json:"version"`
	Cluster   string `json:"cluster"`
	Packaging string `json:"packaging"`
	POMType   string `json:"pomType,omitempty"`
}

// Edge points from a dependency to its dependent and carries the version
// declared at that call site.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
}

// MakeClusterID derives the display cluster of a group id: "unknown" without
// a group id, "external" outside the internal namespace, otherwise the last
// dot-separated segment.
func MakeClusterID(groupID, namespaceMarker string) string {
	if groupID == "" {
		return UnknownValue
	}
	if !strings.Contains(groupID, namespaceMarker) {
		return externalCluster
	}
	parts := strings.Split(groupID, ".")
	return parts[len(parts)-1]
}

// GraphOption configures a GraphData.
type GraphOption func(*GraphData)

// WithNamespaceMarker overrides DefaultNamespaceMarker.
func WithNamespaceMarker(marker string) GraphOption {
	return func(g *GraphData) {
		if marker != "" {
			g.namespaceMarker = marker
		}
	}
}

// GraphData is the deduplicated dependency graph of one import run.
//
// Nodes live in an id-keyed table with last-write-wins semantics; edges are
// append-only and never deduplicated, so one dependency used with several
// versions shows up as several edges between the same pair of nodes.
//
// GraphData is not safe for concurrent use; ingest from a single goroutine.
type GraphData struct {
	namespaceMarker string
	nodesLookup     map[string]Node
	nodeOrder       []string
	edges           []Edge
}

// NewGraphData creates an empty graph.
func NewGraphData(opts ...GraphOption) *GraphData {
	g := &GraphData{
		namespaceMarker: DefaultNamespaceMarker,
		nodesLookup:     make(map[string]Node),
		nodeOrder:       make([]string, 0),
		edges:           make([]Edge, 0),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewGraphDataFrom rebuilds a graph from a previously emitted node/edge view.
func NewGraphDataFrom(nodes []Node, edges []Edge, opts ...GraphOption) *GraphData {
	g := NewGraphData(opts...)
	for _, node := range nodes {
		g.setNode(node)
	}
	g.edges = append(g.edges, edges...)
	return g
}

// Ingest merges POM records into the graph. Records without Self are skipped.
// The caller's records are not modified.
func (g *GraphData) Ingest(records ...POMInfo) {
	for _, record := range records {
		if record.Self == nil {
			logger.Info("Ignoring POM record without module coordinates")
			continue
		}

		id := record.Self.ID()
		g.setNode(g.newNode(*record.Self, record.Packaging, ""))

		dependencies := record.Dependencies
		if record.Parent != nil {
			g.setNode(g.newNode(*record.Parent, record.Packaging, ParentPOMType))

			dependencies = make([]ModuleInfo, 0, len(record.Dependencies)+1)
			dependencies = append(dependencies, record.Dependencies...)
			dependencies = append(dependencies, *record.Parent)
		}

		for _, dependency := range dependencies {
			depID := dependency.ID()
			if _, ok := g.nodesLookup[depID]; !ok {
				g.setNode(g.newNode(dependency, dependencyPackaging, ""))
			}
			g.edges = append(g.edges, Edge{Source: depID, Target: id, Label: dependency.Version})
		}
	}
}

// Node returns the node stored under id.
func (g *GraphData) Node(id string) (Node, bool) {
	node, ok := g.nodesLookup[id]
	return node, ok
}

// Nodes returns the nodes in first-insertion order.
func (g *GraphData) Nodes() []Node {
	nodes := make([]Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		nodes = append(nodes, g.nodesLookup[id])
	}
	return nodes
}

// Edges returns the edges in ingestion order.
func (g *GraphData) Edges() []Edge {
	edges := make([]Edge, len(g.edges))
	copy(edges, g.edges)
	return edges
}

// OutEdges returns the edges leaving id, in ingestion order.
func (g *GraphData) OutEdges(id string) []Edge {
	var edges []Edge
	for _, edge := range g.edges {
		if edge.Source == id {
			edges = append(edges, edge)
		}
	}
	return edges
}

// MarshalJSON emits the {nodes, edges} preset shape.
func (g *GraphData) MarshalJSON() ([]byte, error) {
	return json.Marshal(GraphView{Nodes: g.Nodes(), Edges: g.edges})
}

// GraphView is the serialized form of a graph.
type GraphView struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

func (g *GraphData) newNode(info ModuleInfo, packaging, pomType string) Node {
	return Node{
		ID:        info.ID(),
		Label:     info.ArtifactID,
		Version:   info.Version,
		Cluster:   MakeClusterID(info.GroupID, g.namespaceMarker),
		Packaging: packaging,
		POMType:   pomType,
	}
}

func (g *GraphData) setNode(node Node) {
	if _, ok := g.nodesLookup[node.ID]; !ok {
		g.nodeOrder = append(g.nodeOrder, node.ID)
	}
	g.nodesLookup[node.ID] = node
}
