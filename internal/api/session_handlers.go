package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/creatorblue32/bonsai-medical/internal/errors"
	"github.com/creatorblue32/bonsai-medical/internal/repository"
	"github.com/creatorblue32/bonsai-medical/internal/srs"
)

type answerRequest struct {
	SelectedIndex int  `json:"selected_index"`
	Skip          bool `json:"skip"`
}

type rateRequest struct {
	Rating int `json:"rating" validate:"required,min=1,max=4"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())
	deckID := chi.URLParam(r, "id")

	view, err := s.StudyService.StartSession(r.Context(), profile.ID, deckID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, view)
}

func (s *Server) handleSessionState(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	view, err := s.StudyService.SessionState(r.Context(), profile.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, view)
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	var req answerRequest
	if err := decode(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	view, err := s.StudyService.SubmitAnswer(r.Context(), profile.ID, req.SelectedIndex, req.Skip)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, view)
}

func (s *Server) handleRateDifficulty(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	var req rateRequest
	if err := decode(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	rating := srs.Rating(req.Rating)
	if !rating.Valid() {
		handleError(w, r, errors.NewValidationError("rating", "must be between 1 and 4"))
		return
	}

	view, err := s.StudyService.RateDifficulty(r.Context(), profile.ID, rating)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, view)
}

func (s *Server) handleContinue(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	view, err := s.StudyService.ContinueAfterCorrect(r.Context(), profile.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, view)
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	if err := s.StudyService.CloseSession(r.Context(), profile.ID); err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusNoContent, nil)
}

func (s *Server) handleReviewHistory(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	filter := repository.ReviewFilter{
		QuestionID: r.URL.Query().Get("question_id"),
	}
	if sinceStr := r.URL.Query().Get("since"); sinceStr != "" {
		since, err := time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			handleError(w, r, errors.NewValidationError("since", "must be RFC 3339"))
			return
		}
		filter.Since = since
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			handleError(w, r, errors.NewValidationError("limit", "must be a non-negative integer"))
			return
		}
		filter.Limit = limit
	}

	records, err := s.StudyService.ReviewHistory(r.Context(), profile.ID, filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, map[string]any{"reviews": records})
}
