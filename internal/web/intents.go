package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/alfredjeanlab/glossary/internal/model"
	"github.com/alfredjeanlab/glossary/internal/mutation"
	"github.com/alfredjeanlab/glossary/internal/render"
	"github.com/alfredjeanlab/glossary/internal/view"
)

// intentResponse is returned by every /ui endpoint to JSON clients.
type intentResponse struct {
	Error string       `json:"error,omitempty"`
	ID    string       `json:"id,omitempty"` // new draft row
	State *render.Page `json:"state"`
}

// respond answers an intent. Browser form posts are redirected back to the
// page; JSON clients get the new state and an error status when err is set.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, id string, err error) {
	if !wantsJSON(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	resp := intentResponse{ID: id, State: render.Build(s.coord.State())}
	status := http.StatusOK
	if err != nil {
		resp.Error = err.Error()
		status = statusFor(err)
	}
	writeJSON(w, status, resp)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func statusFor(err error) int {
	var rejected *view.RejectedError
	switch {
	case errors.Is(err, view.ErrInvalidTransition), errors.Is(err, view.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, view.ErrNoSuchRow), errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, mutation.ErrValidation), errors.As(err, &rejected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

var errBadRequest = errors.New("malformed request")

// decode reads a JSON body into v. Form posts are read with FormValue instead.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errBadRequest
	}
	return nil
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, "", s.coord.Select(r.Context(), pathParam(r, "name")))
}

func (s *Server) handleShowList(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, "", s.coord.ShowList())
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	s.coord.Add()
	s.respond(w, r, "", nil)
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, "", s.coord.Edit())
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, "", s.coord.Cancel())
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if !wantsJSON(r) {
		if err := s.applyForm(r); err != nil {
			s.respond(w, r, "", err)
			return
		}
	}
	s.respond(w, r, "", s.coord.Save(r.Context()))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, "", s.coord.Delete(r.Context()))
}

type draftFields struct {
	Name *string `json:"name"`
	Text *string `json:"text"`
}

func (s *Server) handleDraftFields(w http.ResponseWriter, r *http.Request) {
	var in draftFields
	if err := decode(r, &in); err != nil {
		s.respond(w, r, "", err)
		return
	}
	var err error
	if in.Name != nil {
		err = s.coord.SetDraftName(*in.Name)
	}
	if err == nil && in.Text != nil {
		err = s.coord.SetDraftText(*in.Text)
	}
	s.respond(w, r, "", err)
}

type linkRow struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

func (s *Server) handleAddLink(w http.ResponseWriter, r *http.Request) {
	var in linkRow
	if err := s.readRow(r, &in); err != nil {
		s.respond(w, r, "", err)
		return
	}
	id, err := s.coord.AddDraftLink(in.URL, in.Title)
	s.respond(w, r, id, err)
}

func (s *Server) handleUpdateLink(w http.ResponseWriter, r *http.Request) {
	var in linkRow
	if err := decode(r, &in); err != nil {
		s.respond(w, r, "", err)
		return
	}
	s.respond(w, r, "", s.coord.UpdateDraftLink(chi.URLParam(r, "id"), in.URL, in.Title))
}

// handleRemoveLink also serves the form's per-row remove buttons, which post
// the whole form first.
func (s *Server) handleRemoveLink(w http.ResponseWriter, r *http.Request) {
	if !wantsJSON(r) {
		if err := s.applyForm(r); err != nil {
			s.respond(w, r, "", err)
			return
		}
	}
	s.respond(w, r, "", s.coord.RemoveDraftLink(chi.URLParam(r, "id")))
}

type relationRow struct {
	ToTerm       string `json:"to_term"`
	RelationType string `json:"relation_type"`
}

func (s *Server) handleAddRelation(w http.ResponseWriter, r *http.Request) {
	var in relationRow
	if err := s.readRow(r, &in); err != nil {
		s.respond(w, r, "", err)
		return
	}
	id, err := s.coord.AddDraftRelation(in.ToTerm, in.RelationType)
	s.respond(w, r, id, err)
}

func (s *Server) handleUpdateRelation(w http.ResponseWriter, r *http.Request) {
	var in relationRow
	if err := decode(r, &in); err != nil {
		s.respond(w, r, "", err)
		return
	}
	s.respond(w, r, "", s.coord.UpdateDraftRelation(chi.URLParam(r, "id"), in.ToTerm, in.RelationType))
}

// handleRemoveRelation also serves the form's per-row remove buttons, which post
// the whole form first.
func (s *Server) handleRemoveRelation(w http.ResponseWriter, r *http.Request) {
	if !wantsJSON(r) {
		if err := s.applyForm(r); err != nil {
			s.respond(w, r, "", err)
			return
		}
	}
	s.respond(w, r, "", s.coord.RemoveDraftRelation(chi.URLParam(r, "id")))
}

// readRow decodes a new row from a JSON body. A browser form post instead
// carries the whole edit form, which is applied first so that nothing typed
// so far is lost; the new row then starts blank.
func (s *Server) readRow(r *http.Request, v any) error {
	if wantsJSON(r) {
		return decode(r, v)
	}
	return s.applyForm(r)
}

// applyForm copies the fields of the HTML edit form into the draft. Rows
// are matched by the hidden id inputs that accompany them.
func (s *Server) applyForm(r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return errBadRequest
	}
	if name, ok := r.PostForm["name"]; ok && len(name) > 0 {
		// The name of an existing term is read-only; the coordinator refuses
		// changes, so only apply it to new drafts.
		if d := s.coord.State().Focus.Draft; d != nil && d.IsNew() {
			if err := s.coord.SetDraftName(name[0]); err != nil {
				return err
			}
		}
	}
	if text, ok := r.PostForm["text"]; ok && len(text) > 0 {
		if err := s.coord.SetDraftText(text[0]); err != nil {
			return err
		}
	}
	ids, urls, titles := r.PostForm["link_id"], r.PostForm["link_url"], r.PostForm["link_title"]
	for i := range ids {
		if i >= len(urls) || i >= len(titles) {
			return errBadRequest
		}
		if err := s.coord.UpdateDraftLink(ids[i], urls[i], titles[i]); err != nil {
			return err
		}
	}
	ids, tos, types := r.PostForm["rel_id"], r.PostForm["rel_to"], r.PostForm["rel_type"]
	for i := range ids {
		if i >= len(tos) || i >= len(types) {
			return errBadRequest
		}
		if err := s.coord.UpdateDraftRelation(ids[i], tos[i], types[i]); err != nil {
			return err
		}
	}
	return nil
}
