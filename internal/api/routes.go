package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/profiles", s.handleListProfiles)
		r.Post("/profiles", s.handleCreateProfile)
		r.Get("/profiles/{id}", s.handleGetProfile)
		r.Put("/profiles/{id}", s.handleUpdateProfile)
		r.Delete("/profiles/{id}", s.handleDeleteProfile)
		r.Post("/profiles/{id}/select", s.handleSelectProfile)

		// Everything below needs an active profile.
		r.Group(func(r chi.Router) {
			r.Use(s.profileMiddleware)

			r.Get("/library", s.handleLibrary)
			r.Get("/decks/{id}/stats", s.handleDeckStats)
			r.Post("/decks/{id}/session", s.handleStartSession)

			r.Get("/session", s.handleSessionState)
			r.Post("/session/answer", s.handleSubmitAnswer)
			r.Post("/session/rate", s.handleRateDifficulty)
			r.Post("/session/continue", s.handleContinue)
			r.Delete("/session", s.handleCloseSession)

			r.Get("/reviews", s.handleReviewHistory)
		})
	})

	return r
}
