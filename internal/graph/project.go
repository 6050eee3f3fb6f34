// Package graph derives node/edge projections of the glossary for
// visualization and reconciles them with the service's own graph view.
package graph

import (
	"strings"

	"github.com/alfredjeanlab/glossary/internal/model"
)

// builder accumulates nodes and edges while preserving first-seen order,
// which keeps projections stable for a given input.
type builder struct {
	nodes     []string
	nodeSet   map[string]bool
	edges     []model.GraphEdge
	edgeSet   map[model.GraphEdge]bool
	synthetic []string
}

func newBuilder() *builder {
	return &builder{
		nodeSet: map[string]bool{},
		edgeSet: map[model.GraphEdge]bool{},
	}
}

func (b *builder) addNode(name string) {
	if name == "" || b.nodeSet[name] {
		return
	}
	b.nodeSet[name] = true
	b.nodes = append(b.nodes, name)
}

func (b *builder) addEdge(e model.GraphEdge) {
	if strings.TrimSpace(e.From) == "" || strings.TrimSpace(e.To) == "" {
		return
	}
	if b.edgeSet[e] {
		return
	}
	b.edgeSet[e] = true
	b.edges = append(b.edges, e)
}

// finish synthesizes a node for every edge endpoint that is not already a
// node, in edge order, and returns the graph.
func (b *builder) finish() *model.Graph {
	for _, e := range b.edges {
		for _, end := range []string{e.From, e.To} {
			if !b.nodeSet[end] {
				b.addNode(end)
				b.synthetic = append(b.synthetic, end)
			}
		}
	}
	g := &model.Graph{
		Nodes:       b.nodes,
		Edges:       b.edges,
		Synthesized: b.synthetic,
	}
	if g.Nodes == nil {
		g.Nodes = []string{}
	}
	if g.Edges == nil {
		g.Edges = []model.GraphEdge{}
	}
	return g
}

// Project derives the graph from term relation data. Every term becomes a
// node; every relation becomes an edge from its owning term. Edges to names
// with no backing term produce synthesized nodes instead of being dropped.
// Multi-edges between the same pair with different types are kept; exact
// duplicates collapse into one edge.
func Project(terms []*model.Term) *model.Graph {
	b := newBuilder()
	for _, t := range terms {
		if t == nil {
			continue
		}
		b.addNode(t.Name)
	}
	for _, t := range terms {
		if t == nil {
			continue
		}
		for _, r := range t.Relations {
			b.addEdge(model.GraphEdge{From: t.Name, To: r.ToTerm, Type: r.RelationType})
		}
	}
	return b.finish()
}

// FromServer normalizes a graph reported by the service into the same shape
// Project produces: unique nodes in reported order, unique edges, and
// synthesized nodes for dangling endpoints.
func FromServer(g *model.Graph) *model.Graph {
	b := newBuilder()
	if g == nil {
		return b.finish()
	}
	for _, n := range g.Nodes {
		b.addNode(n)
	}
	for _, e := range g.Edges {
		b.addEdge(e)
	}
	return b.finish()
}

// Incoming returns the edges of g that point at name, in edge order.
func Incoming(g *model.Graph, name string) []model.GraphEdge {
	var out []model.GraphEdge
	if g == nil {
		return out
	}
	for _, e := range g.Edges {
		if e.To == name {
			out = append(out, e)
		}
	}
	return out
}

// HasNode reports whether name is a node of g.
func HasNode(g *model.Graph, name string) bool {
	if g == nil {
		return false
	}
	for _, n := range g.Nodes {
		if n == name {
			return true
		}
	}
	return false
}
