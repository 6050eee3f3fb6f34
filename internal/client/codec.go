package client

import (
	"encoding/json"
	"fmt"

	"github.com/alfredjeanlab/glossary/internal/model"
	"google.golang.org/protobuf/types/known/structpb"
)

// The gRPC transport carries glossary messages as google.protobuf.Struct
// values whose field names match the service's proto field names
// (name, definition.text, relations[].to_term, ...). Go values cross into
// and out of Structs through their JSON form.

func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding message: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("encoding message: %w", err)
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("encoding message: %w", err)
	}
	return s, nil
}

func fromStruct(s *structpb.Struct, v any) error {
	data, err := s.MarshalJSON()
	if err != nil {
		return fmt.Errorf("decoding message: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding message: %w", err)
	}
	return nil
}

// protoGraph mirrors the service's Graph message, whose edges are Relation
// messages rather than the from/to/type triple used elsewhere.
type protoGraph struct {
	Nodes []string         `json:"nodes"`
	Edges []model.Relation `json:"edges"`
}

func (g *protoGraph) toModel() *model.Graph {
	out := &model.Graph{
		Nodes: append([]string{}, g.Nodes...),
		Edges: make([]model.GraphEdge, 0, len(g.Edges)),
	}
	for _, r := range g.Edges {
		out.Edges = append(out.Edges, model.GraphEdge{From: r.FromTerm, To: r.ToTerm, Type: r.RelationType})
	}
	return out
}
