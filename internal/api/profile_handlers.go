package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/creatorblue32/bonsai-medical/internal/errors"
	"github.com/creatorblue32/bonsai-medical/internal/logger"
	"github.com/creatorblue32/bonsai-medical/internal/models"
)

type profileRequest struct {
	Name         string   `json:"name" validate:"required"`
	Exam         string   `json:"exam"`
	TargetScore  int      `json:"target_score" validate:"gte=0"`
	MinimumScore int      `json:"minimum_score" validate:"gte=0"`
	ExamDate     string   `json:"exam_date" validate:"omitempty,datetime=2006-01-02"`
	Resources    []string `json:"resources"`
	StudyStyle   string   `json:"study_style" validate:"omitempty,oneof=intensive balanced relaxed"`
}

func (req profileRequest) toModel() (models.Profile, error) {
	p := models.Profile{
		Name:         req.Name,
		Exam:         req.Exam,
		TargetScore:  req.TargetScore,
		MinimumScore: req.MinimumScore,
		Resources:    req.Resources,
		StudyStyle:   req.StudyStyle,
	}
	if req.ExamDate != "" {
		examDate, err := time.Parse("2006-01-02", req.ExamDate)
		if err != nil {
			return models.Profile{}, errors.NewValidationError("exam_date", "must be YYYY-MM-DD")
		}
		p.ExamDate = examDate
	}
	return p, nil
}

func profileIDParam(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, errors.NewBadRequestError("invalid profile ID")
	}
	return id, nil
}

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.ProfileService.ListProfiles(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, map[string]any{"profiles": profiles})
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decode(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	p, err := req.toModel()
	if err != nil {
		handleError(w, r, err)
		return
	}

	profile, err := s.ProfileService.CreateProfile(r.Context(), p)
	if err != nil {
		handleError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info("profile created: id=%d name=%s", profile.ID, profile.Name)
	respond(w, r, http.StatusCreated, profile)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := profileIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	profile, err := s.ProfileService.GetProfile(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, profile)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := profileIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req profileRequest
	if err := decode(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	p, err := req.toModel()
	if err != nil {
		handleError(w, r, err)
		return
	}
	p.ID = id

	profile, err := s.ProfileService.UpdateProfile(r.Context(), p)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, profile)
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	id, err := profileIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.ProfileService.DeleteProfile(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	clearProfileCookie(w)
	respond(w, r, http.StatusNoContent, nil)
}

func (s *Server) handleSelectProfile(w http.ResponseWriter, r *http.Request) {
	id, err := profileIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	profile, err := s.ProfileService.GetProfile(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	setProfileCookie(w, profile.ID)
	logger.FromContext(r.Context()).Info("profile selected: id=%d", profile.ID)
	respond(w, r, http.StatusOK, profile)
}
