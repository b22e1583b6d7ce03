package api

import (
	"net/http"
	"time"

	"github.com/vytor/klar/internal/errors"
	"github.com/vytor/klar/internal/logger"
	"github.com/vytor/klar/internal/models"
)

const defaultSessionListLimit = 20

type answerRequest struct {
	CardID          int64   `json:"card_id"`
	Correct         *bool   `json:"correct"`
	DurationSeconds float64 `json:"duration_seconds"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	setID, err := urlID(r, "setID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	session, err := s.PracticeService.StartSession(r.Context(), setID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	setID, err := urlID(r, "setID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		handleError(w, r, err)
		return
	}
	if limit == 0 {
		limit = defaultSessionListLimit
	}

	sessions, err := s.PracticeService.ListSessions(r.Context(), setID, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if sessions == nil {
		sessions = []models.Session{}
	}
	writeJSON(w, r, http.StatusOK, sessions)
}

// session loads the session named by the route.
func (s *Server) session(r *http.Request) (*models.Session, error) {
	id, err := urlID(r, "sessionID")
	if err != nil {
		return nil, err
	}
	return s.PracticeService.GetSession(r.Context(), id)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.session(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, session)
}

// handleNextCard answers 204 when the study set has no cards.
func (s *Server) handleNextCard(w http.ResponseWriter, r *http.Request) {
	session, err := s.session(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.PracticeService.NextCard(r.Context(), *session)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if card == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, r, http.StatusOK, card)
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	session, err := s.session(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.CardID <= 0 {
		handleError(w, r, errors.NewBadRequestError("card_id required"))
		return
	}
	if req.Correct == nil {
		handleError(w, r, errors.NewBadRequestError("correct required"))
		return
	}

	log := logger.FromContext(r.Context()).WithFields(map[string]any{
		"session_id": session.ID,
		"card_id":    req.CardID,
		"correct":    *req.Correct,
	})
	log.Debug("submitting answer")

	duration := time.Duration(req.DurationSeconds * float64(time.Second))
	result, err := s.PracticeService.SubmitAnswer(r.Context(), *session, req.CardID, *req.Correct, duration)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleFinishSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.session(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	finished, err := s.PracticeService.FinishSession(r.Context(), *session)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, finished)
}
