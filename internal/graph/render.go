package graph

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/alfredjeanlab/glossary/internal/model"
	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
)

// Format selects the graphviz output format.
type Format string

const (
	FormatDOT Format = "dot"
	FormatSVG Format = "svg"
)

// RenderOption configures Render.
type RenderOption func(*renderConfig)

type renderConfig struct {
	nodeURL func(name string) string
}

// WithNodeLinks makes every node a link to nodeURL(name). Links open in
// the top-level window so an embedded drawing navigates its page.
func WithNodeLinks(nodeURL func(name string) string) RenderOption {
	return func(c *renderConfig) { c.nodeURL = nodeURL }
}

// Render lays out g with graphviz and writes it to w in the given format.
// Synthesized nodes are drawn in gray so dangling references stand out.
func Render(g *model.Graph, format Format, w io.Writer, opts ...RenderOption) error {
	if g == nil {
		g = &model.Graph{}
	}
	var cfg renderConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	gv := graphviz.New()
	defer gv.Close()

	graph, err := gv.Graph()
	if err != nil {
		return fmt.Errorf("failed to setup graph: %w", err)
	}
	defer graph.Close()

	synthetic := toSet(g.Synthesized)
	nodes := make(map[string]*cgraph.Node, len(g.Nodes))
	for _, name := range g.Nodes {
		n, err := graph.CreateNode(name)
		if err != nil {
			return fmt.Errorf("failed to create node %q: %w", name, err)
		}
		n.SetLabel(name)
		if synthetic[name] {
			n.SetColor("gray50")
			n.SetFontColor("gray50")
		}
		if cfg.nodeURL != nil {
			n.SetURL(cfg.nodeURL(name)).SetTarget("_top")
		}
		nodes[name] = n
	}
	for i, e := range g.Edges {
		from, to := nodes[e.From], nodes[e.To]
		if from == nil || to == nil {
			return fmt.Errorf("edge %s -> %s references an unknown node", e.From, e.To)
		}
		edge, err := graph.CreateEdge(strconv.Itoa(i), from, to)
		if err != nil {
			return fmt.Errorf("failed to create edge: %w", err)
		}
		edge.SetLabel(e.Type)
	}

	var buf bytes.Buffer
	if err := gv.Render(graph, graphviz.Format(format), &buf); err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}
	_, err = w.Write(buf.Bytes())
	return err
}
