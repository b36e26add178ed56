package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ersonp/placefolk/internal/application/handlers"
	"github.com/ersonp/placefolk/internal/domain/entities"
)

const maxBodyBytes = 64 << 10

type sessionResponse struct {
	ID    string               `json:"id"`
	Query string               `json:"query,omitempty"`
	Busy  bool                 `json:"busy"`
	View  *handlers.ViewResult `json:"view,omitempty"`
}

type initialResponse struct {
	SessionID string                 `json:"session_id"`
	Result    *handlers.SearchResult `json:"result"`
}

type searchRequest struct {
	Query string `json:"query"`
}

type sortRequest struct {
	Sort string `json:"sort"`
}

type professionRequest struct {
	Profession string `json:"profession"`
}

type shareResponse struct {
	URL string `json:"url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	term, ok := handlers.InitialSearch(r.URL.String())
	if !ok {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = fmt.Fprintln(w, "placefolk is up")
		return
	}

	sess := s.sessions.Create()
	result, err := s.search.Search(r.Context(), sess, term)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.recordSearch(result)
	writeJSON(w, http.StatusOK, initialResponse{SessionID: sess.ID, Result: result})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": s.sessions.Len()})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	sess := s.sessions.Create()
	writeJSON(w, http.StatusCreated, sessionResponse{ID: sess.ID})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	resp := sessionResponse{ID: sess.ID, Query: sess.Term(), Busy: sess.Busy()}
	if view, err := s.search.CurrentView(sess); err == nil {
		resp.View = view
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.Close(chi.URLParam(r, "id")) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req searchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.search.Search(r.Context(), sess, req.Query)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.recordSearch(result)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSort(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req sortRequest
	if !decodeBody(w, r, &req) {
		return
	}
	key, err := entities.ParseSortKey(req.Sort)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	s.writeView(w, func() (*handlers.ViewResult, error) { return s.search.Sort(sess, key) })
}

func (s *Server) handleProfession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req professionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.writeView(w, func() (*handlers.ViewResult, error) { return s.search.FilterProfession(sess, req.Profession) })
}

func (s *Server) handleMore(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.writeView(w, func() (*handlers.ViewResult, error) { return s.search.LoadMore(sess) })
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	term := sess.Term()
	if term == "" {
		s.writeError(w, handlers.ErrNoSearch)
		return
	}
	link, err := handlers.ShareLink(s.cfg.BaseURL, term)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shareResponse{URL: link})
}

// session looks up the {id} session, writing 404 when it is unknown.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*handlers.Session, bool) {
	sess, ok := s.sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
		return nil, false
	}
	return sess, true
}

func (s *Server) writeView(w http.ResponseWriter, fn func() (*handlers.ViewResult, error)) {
	view, err := fn()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) recordSearch(result *handlers.SearchResult) {
	if s.metrics != nil && result != nil {
		s.metrics.Sessions.Search(string(result.Outcome))
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, handlers.ErrEmptyQuery):
		status = http.StatusBadRequest
	case errors.Is(err, handlers.ErrBusy), errors.Is(err, handlers.ErrNoSearch):
		status = http.StatusConflict
	default:
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// decodeBody decodes a JSON request body into v, writing 400 on failure.
// An empty body leaves v unchanged.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
