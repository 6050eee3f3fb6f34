package model

// GraphEdge is one relation rendered as a directed edge.
type GraphEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
}

// Graph is a node/edge view of the glossary. Nodes are term names.
// Synthesized lists the nodes that exist only because an edge references
// them; they have no backing term.
type Graph struct {
	Nodes       []string    `json:"nodes"`
	Edges       []GraphEdge `json:"edges"`
	Synthesized []string    `json:"synthesized,omitempty"`
}

// WarningKind classifies a disagreement between the locally projected graph
// and the graph reported by the service.
type WarningKind string

const (
	WarnMissingNode WarningKind = "missing_node"
	WarnExtraNode   WarningKind = "extra_node"
	WarnMissingEdge WarningKind = "missing_edge"
	WarnExtraEdge   WarningKind = "extra_edge"
)

// GraphWarning describes a single reconciliation mismatch. Warnings are
// informational and never stop rendering.
type GraphWarning struct {
	Kind    WarningKind `json:"kind"`
	Node    string      `json:"node,omitempty"`
	Edge    *GraphEdge  `json:"edge,omitempty"`
	Message string      `json:"message"`
}
