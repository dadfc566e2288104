package entities

// VersionUsage is the per-label usage count of one dependency.
type VersionUsage struct {
	Version string `json:"version"`
	Count   int    `json:"count"`
}

// MultipleVersionsEntry is a dependency declared with more than one version.
type MultipleVersionsEntry struct {
	Node     Node           `json:"node"`
	Versions []VersionUsage `json:"versions"` // newest first
}

// MultipleVersions scans the outgoing edge labels of every node (or of the
// nodes matching search, when it carries a pattern) and reports the nodes
// used with more than one distinct version.
func (g *GraphData) MultipleVersions(search *Search) []MultipleVersionsEntry {
	counts := make(map[string]map[string]int)
	for _, edge := range g.edges {
		if counts[edge.Source] == nil {
			counts[edge.Source] = make(map[string]int)
		}
		counts[edge.Source][edge.Label]++
	}

	var entries []MultipleVersionsEntry
	for _, id := range g.nodeOrder {
		if search != nil && !search.Matches(id) {
			continue
		}
		labels := counts[id]
		if len(labels) <= 1 {
			continue
		}

		versions := make([]string, 0, len(labels))
		for label := range labels {
			versions = append(versions, label)
		}
		SortVersionsDescending(versions)

		usages := make([]VersionUsage, 0, len(versions))
		for _, version := range versions {
			usages = append(usages, VersionUsage{Version: version, Count: labels[version]})
		}
		entries = append(entries, MultipleVersionsEntry{Node: g.nodesLookup[id], Versions: usages})
	}
	return entries
}

// FilterResult is the part of a graph selected by a search.
type FilterResult struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Filter applies a search to the graph. Nodes are selected by the free-text
// pattern. Edges are selected when their source node matches the pattern and
// their label satisfies every version constraint; the nodes at both ends of
// a selected edge are included. Without version constraints only the
// matching nodes are returned.
func (g *GraphData) Filter(search *Search) FilterResult {
	result := FilterResult{Nodes: []Node{}, Edges: []Edge{}}
	selected := make(map[string]bool)

	if len(search.Versions) > 0 {
		latest := g.latestLabels()
		for _, edge := range g.edges {
			if !search.Matches(edge.Source) {
				continue
			}
			if !matchesAll(search.Versions, edge.Label, latest[edge.Source]) {
				continue
			}
			result.Edges = append(result.Edges, edge)
			selected[edge.Source] = true
			selected[edge.Target] = true
		}
	} else if search.HasPattern() {
		for _, id := range g.nodeOrder {
			if search.Matches(id) {
				selected[id] = true
			}
		}
	}

	for _, id := range g.nodeOrder {
		if selected[id] {
			result.Nodes = append(result.Nodes, g.nodesLookup[id])
		}
	}
	return result
}

func matchesAll(items []SearchItem, label, latestLabel string) bool {
	for _, item := range items {
		if !item.Matches(label, latestLabel) {
			return false
		}
	}
	return true
}

// latestLabels maps every source node to its newest outgoing edge label.
func (g *GraphData) latestLabels() map[string]string {
	labels := make(map[string][]string)
	for _, edge := range g.edges {
		labels[edge.Source] = append(labels[edge.Source], edge.Label)
	}

	latest := make(map[string]string, len(labels))
	for id, versions := range labels {
		latest[id] = LatestVersion(versions)
	}
	return latest
}
