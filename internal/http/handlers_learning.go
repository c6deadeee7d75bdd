package http

import (
	"net/http"

	"github.com/Maxerns/moneymentor-sub000/internal/learning"
)

// handleProgress serves the user's learning progress. Guests get an empty
// document rather than an error, to support read-only browsing.
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	user, err := s.currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	doc, err := s.learning.GetProgress(r.Context(), user.UID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

type selectPathRequest struct {
	PathID string `json:"pathId"`
}

func (s *Server) handleSelectPath(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	user, err := s.requireUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req selectPathRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.learning.SelectPath(r.Context(), user.UID, req.PathID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type completeSectionRequest struct {
	ModuleID     string `json:"moduleId"`
	SectionTitle string `json:"sectionTitle"`
}

func (s *Server) handleCompleteSection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	user, err := s.requireUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req completeSectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	entry, err := s.learning.CompleteSection(r.Context(), user.UID, req.ModuleID, req.SectionTitle)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleListPaths(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, learning.Paths())
}
