package web

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/alfredjeanlab/glossary/internal/graph"
	"github.com/alfredjeanlab/glossary/internal/model"
	"github.com/alfredjeanlab/glossary/internal/render"
)

// handlePage handles GET /.
func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	if err := render.WriteHTML(&buf, render.Build(s.coord.State())); err != nil {
		s.logger.Error("render page", "err", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

type termName struct {
	Name string `json:"name"`
}

// handleListTerms handles GET /api/terms.
func (s *Server) handleListTerms(w http.ResponseWriter, _ *http.Request) {
	st := s.coord.State()
	out := make([]termName, 0, len(st.Terms))
	for _, n := range st.Terms {
		out = append(out, termName{Name: n})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleGetTerm handles GET /api/term/{name}.
func (s *Server) handleGetTerm(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	t, err := s.fetcher.Fetch(r.Context(), name)
	if errors.Is(err, model.ErrNotFound) {
		writeError(w, http.StatusNotFound, "term not found")
		return
	}
	if err != nil {
		s.logger.Warn("fetching term failed", "term", name, "err", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, t)
}

type graphResponse struct {
	Nodes       []string             `json:"nodes"`
	Edges       []model.GraphEdge    `json:"edges"`
	Synthesized []string             `json:"synthesized,omitempty"`
	Warnings    []model.GraphWarning `json:"warnings"`
}

// handleGetGraph handles GET /api/graph.
func (s *Server) handleGetGraph(w http.ResponseWriter, _ *http.Request) {
	st := s.coord.State()
	resp := graphResponse{
		Nodes:       st.Graph.Nodes,
		Edges:       st.Graph.Edges,
		Synthesized: st.Graph.Synthesized,
		Warnings:    st.Warnings,
	}
	if resp.Warnings == nil {
		resp.Warnings = []model.GraphWarning{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleGetState handles GET /api/state.
func (s *Server) handleGetState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, render.Build(s.coord.State()))
}

// handleGraphSVG handles GET /graph.svg. Each node links to its select
// intent so that clicking it in the page shows the term.
func (s *Server) handleGraphSVG(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	if err := graph.Render(s.coord.State().Graph, graph.FormatSVG, &buf, graph.WithNodeLinks(render.SelectPath)); err != nil {
		s.logger.Error("render graph", "err", err)
		http.Error(w, "failed to render graph", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(buf.Bytes())
}
