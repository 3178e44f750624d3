package services

import (
	"context"
	"database/sql"
	"errors"

	apperrors "github.com/creatorblue32/bonsai-medical/internal/errors"
	"github.com/creatorblue32/bonsai-medical/internal/logger"
	"github.com/creatorblue32/bonsai-medical/internal/models"
	"github.com/creatorblue32/bonsai-medical/internal/repository"
)

// ProfileService handles study-profile business logic
type ProfileService interface {
	ListProfiles(ctx context.Context) ([]models.Profile, error)
	CreateProfile(ctx context.Context, p models.Profile) (*models.Profile, error)
	GetProfile(ctx context.Context, id int64) (*models.Profile, error)
	UpdateProfile(ctx context.Context, p models.Profile) (*models.Profile, error)
	DeleteProfile(ctx context.Context, id int64) error
}

type profileService struct {
	profileRepo repository.ProfileRepository
}

// NewProfileService creates a new ProfileService
func NewProfileService(profileRepo repository.ProfileRepository) ProfileService {
	return &profileService{profileRepo: profileRepo}
}

func (s *profileService) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing profiles")

	profiles, err := s.profileRepo.List(ctx)
	if err != nil {
		log.Error("failed to list profiles: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	return profiles, nil
}

func (s *profileService) CreateProfile(ctx context.Context, p models.Profile) (*models.Profile, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating profile: name=%s exam=%s", p.Name, p.Exam)

	if p.Name == "" {
		return nil, apperrors.NewValidationError("name", "cannot be empty")
	}
	if p.StudyStyle == "" {
		p.StudyStyle = "balanced"
	}
	if p.Resources == nil {
		p.Resources = []string{}
	}

	profile, err := s.profileRepo.Create(ctx, p)
	if err != nil {
		log.Error("failed to create profile: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	return profile, nil
}

func (s *profileService) GetProfile(ctx context.Context, id int64) (*models.Profile, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting profile: id=%d", id)

	profile, err := s.profileRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("profile", id)
		}
		log.Error("failed to get profile: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	return profile, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, p models.Profile) (*models.Profile, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating profile: id=%d", p.ID)

	if p.Name == "" {
		return nil, apperrors.NewValidationError("name", "cannot be empty")
	}
	if _, err := s.GetProfile(ctx, p.ID); err != nil {
		return nil, err
	}
	if err := s.profileRepo.Update(ctx, p); err != nil {
		log.Error("failed to update profile: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	return s.GetProfile(ctx, p.ID)
}

func (s *profileService) DeleteProfile(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting profile: id=%d", id)

	if _, err := s.GetProfile(ctx, id); err != nil {
		return err
	}
	if err := s.profileRepo.Delete(ctx, id); err != nil {
		log.Error("failed to delete profile: %v", err)
		return apperrors.NewInternalError(err)
	}
	return nil
}
