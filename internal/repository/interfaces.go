// Package repository defines the persistence contracts the study server
// depends on. The core treats storage as an external collaborator: it loads
// a profile's card-state map once and flushes replaced records back after
// each completed review.
package repository

import (
	"context"
	"time"

	"github.com/creatorblue32/bonsai-medical/internal/models"
)

// ProfileRepository manages user study profiles.
type ProfileRepository interface {
	List(ctx context.Context) ([]models.Profile, error)
	Get(ctx context.Context, id int64) (*models.Profile, error)
	Create(ctx context.Context, p models.Profile) (*models.Profile, error)
	Update(ctx context.Context, p models.Profile) error
	Delete(ctx context.Context, id int64) error
}

// CardStateRepository persists the per-profile card memory map.
type CardStateRepository interface {
	// Load returns every stored card state for the profile, keyed by
	// question id. A profile with no stored states yields an empty map.
	Load(ctx context.Context, profileID int64) (map[string]models.CardState, error)
	// Upsert stores one replaced card state record.
	Upsert(ctx context.Context, profileID int64, state models.CardState) error
	// SaveAll stores a full snapshot of the card-state map in one
	// transaction.
	SaveAll(ctx context.Context, profileID int64, states map[string]models.CardState) error
}

// ReviewLogRepository appends and queries per-review history rows.
type ReviewLogRepository interface {
	Insert(ctx context.Context, rec models.ReviewRecord) error
	// ListByProfile returns the profile's reviews, most recent first,
	// optionally filtered by question id and bounded by since/limit.
	ListByProfile(ctx context.Context, profileID int64, filter ReviewFilter) ([]models.ReviewRecord, error)
}

// ReviewFilter narrows a review-history query. Zero values mean
// "no constraint".
type ReviewFilter struct {
	QuestionID string
	Since      time.Time
	Limit      int
}
