package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/sets", func(r chi.Router) {
		r.Get("/", s.handleListSets)
		r.Post("/", s.handleCreateSet)
		r.Route("/{setID}", func(r chi.Router) {
			r.Get("/", s.handleGetSet)
			r.Patch("/", s.handleRenameSet)
			r.Delete("/", s.handleDeleteSet)

			r.Get("/cards", s.handleListCards)
			r.Post("/cards", s.handleCreateCard)
			r.Post("/sessions", s.handleStartSession)
			r.Get("/sessions", s.handleListSessions)
			r.Get("/report", s.handleReport)
			r.Get("/snapshots", s.handleListSnapshots)
			r.Post("/snapshots", s.handleQueueSnapshot)
			r.Get("/export", s.handleExport)
		})
	})

	r.Route("/cards/{cardID}", func(r chi.Router) {
		r.Get("/", s.handleGetCard)
		r.Put("/", s.handleUpdateCard)
		r.Delete("/", s.handleDeleteCard)
	})

	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", s.handleGetSession)
		r.Get("/next", s.handleNextCard)
		r.Post("/answers", s.handleSubmitAnswer)
		r.Post("/finish", s.handleFinishSession)
	})

	return r
}
