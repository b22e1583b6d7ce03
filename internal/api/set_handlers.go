package api

import (
	"net/http"

	"github.com/vytor/klar/internal/logger"
)

type setRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleListSets(w http.ResponseWriter, r *http.Request) {
	sets, err := s.StudySetService.ListSets(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sets)
}

func (s *Server) handleCreateSet(w http.ResponseWriter, r *http.Request) {
	var req setRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	set, err := s.StudySetService.CreateSet(r.Context(), req.Name)
	if err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("study set created: id=%d", set.ID)
	writeJSON(w, r, http.StatusCreated, set)
}

func (s *Server) handleGetSet(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "setID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	set, err := s.StudySetService.GetSet(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, set)
}

func (s *Server) handleRenameSet(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "setID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req setRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	set, err := s.StudySetService.RenameSet(r.Context(), id, req.Name)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, set)
}

func (s *Server) handleDeleteSet(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "setID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.StudySetService.DeleteSet(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
