package api

import (
	"net/http"
	"strconv"

	"github.com/vytor/klar/internal/errors"
	"github.com/vytor/klar/internal/models"
	"github.com/vytor/klar/internal/services"
)

type cardList struct {
	Cards []models.Card `json:"cards"`
	Total int           `json:"total"`
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	setID, err := urlID(r, "setID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	filter := models.CardFilter{StudySetID: setID}
	if raw := r.URL.Query().Get("level"); raw != "" {
		lvl, err := strconv.Atoi(raw)
		if err != nil || lvl < int(models.MinLevel) || lvl > int(models.MaxLevel) {
			handleError(w, r, errors.NewBadRequestError("invalid level"))
			return
		}
		filter.Level = models.Level(lvl)
	}
	if filter.Limit, err = queryInt(r, "limit"); err != nil {
		handleError(w, r, err)
		return
	}
	if filter.Offset, err = queryInt(r, "offset"); err != nil {
		handleError(w, r, err)
		return
	}

	cards, total, err := s.CardService.ListCards(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if cards == nil {
		cards = []models.Card{}
	}
	writeJSON(w, r, http.StatusOK, cardList{Cards: cards, Total: total})
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	setID, err := urlID(r, "setID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var in services.CardInput
	if err := decodeJSON(r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.CardService.CreateCard(r.Context(), setID, in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, card)
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "cardID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.CardService.GetCard(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, card)
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "cardID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var in services.CardInput
	if err := decodeJSON(r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.CardService.UpdateCard(r.Context(), id, in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, card)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "cardID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.CardService.DeleteCard(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
