package graph

import (
	"fmt"

	"github.com/alfredjeanlab/glossary/internal/model"
)

// Reconcile compares the locally projected graph with the service's graph
// and returns one warning per disagreement. Synthesized nodes take part in
// the comparison like any other node. The result is ordered: node warnings
// before edge warnings, each in the order of the graph they come from.
func Reconcile(local, server *model.Graph) []model.GraphWarning {
	local = FromServer(local)
	server = FromServer(server)

	localNodes := toSet(local.Nodes)
	serverNodes := toSet(server.Nodes)
	localEdges := edgeSet(local.Edges)
	serverEdges := edgeSet(server.Edges)

	var warnings []model.GraphWarning
	for _, n := range local.Nodes {
		if !serverNodes[n] {
			warnings = append(warnings, model.GraphWarning{
				Kind:    model.WarnMissingNode,
				Node:    n,
				Message: fmt.Sprintf("node %q is missing from the service graph", n),
			})
		}
	}
	for _, n := range server.Nodes {
		if !localNodes[n] {
			warnings = append(warnings, model.GraphWarning{
				Kind:    model.WarnExtraNode,
				Node:    n,
				Message: fmt.Sprintf("service graph has node %q that no local term or relation produces", n),
			})
		}
	}
	for _, e := range local.Edges {
		if !serverEdges[e] {
			warnings = append(warnings, model.GraphWarning{
				Kind:    model.WarnMissingEdge,
				Edge:    &e,
				Message: fmt.Sprintf("edge %s -[%s]-> %s is missing from the service graph", e.From, e.Type, e.To),
			})
		}
	}
	for _, e := range server.Edges {
		if !localEdges[e] {
			warnings = append(warnings, model.GraphWarning{
				Kind:    model.WarnExtraEdge,
				Edge:    &e,
				Message: fmt.Sprintf("service graph has edge %s -[%s]-> %s not present locally", e.From, e.Type, e.To),
			})
		}
	}
	return warnings
}

func toSet(names []string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

func edgeSet(edges []model.GraphEdge) map[model.GraphEdge]bool {
	m := make(map[model.GraphEdge]bool, len(edges))
	for _, e := range edges {
		m[e] = true
	}
	return m
}
