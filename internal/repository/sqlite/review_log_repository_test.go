package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorblue32/bonsai-medical/internal/models"
	"github.com/creatorblue32/bonsai-medical/internal/repository"
	"github.com/creatorblue32/bonsai-medical/internal/repository/sqlite"
	"github.com/creatorblue32/bonsai-medical/internal/testutil"
)

func insertReview(t *testing.T, repo repository.ReviewLogRepository, profileID int64, questionID string, rating int, at time.Time) {
	t.Helper()
	require.NoError(t, repo.Insert(context.Background(), models.ReviewRecord{
		ID:           uuid.NewString(),
		ProfileID:    profileID,
		QuestionID:   questionID,
		Rating:       rating,
		WasCorrect:   rating >= 3,
		IntervalDays: 1,
		ReviewedAt:   at,
	}))
}

func TestReviewLogRepository_InsertAndList(t *testing.T) {
	database := testutil.NewTestDB(t)
	profiles := sqlite.NewProfileRepository(database.DB)
	reviews := sqlite.NewReviewLogRepository(database.DB)
	profile := createProfile(t, profiles)
	ctx := context.Background()

	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	insertReview(t, reviews, profile.ID, "cp-001", 3, base)
	insertReview(t, reviews, profile.ID, "cp-002", 1, base.Add(time.Hour))
	insertReview(t, reviews, profile.ID, "cp-001", 4, base.Add(2*time.Hour))

	records, err := reviews.ListByProfile(ctx, profile.ID, repository.ReviewFilter{})
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "cp-001", records[0].QuestionID, "most recent first")
	assert.Equal(t, 4, records[0].Rating)
	assert.True(t, records[0].WasCorrect)
}

func TestReviewLogRepository_FilterByQuestion(t *testing.T) {
	database := testutil.NewTestDB(t)
	profiles := sqlite.NewProfileRepository(database.DB)
	reviews := sqlite.NewReviewLogRepository(database.DB)
	profile := createProfile(t, profiles)
	ctx := context.Background()

	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	insertReview(t, reviews, profile.ID, "cp-001", 3, base)
	insertReview(t, reviews, profile.ID, "cp-002", 2, base.Add(time.Minute))

	records, err := reviews.ListByProfile(ctx, profile.ID, repository.ReviewFilter{QuestionID: "cp-002"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "cp-002", records[0].QuestionID)
}

func TestReviewLogRepository_FilterSinceAndLimit(t *testing.T) {
	database := testutil.NewTestDB(t)
	profiles := sqlite.NewProfileRepository(database.DB)
	reviews := sqlite.NewReviewLogRepository(database.DB)
	profile := createProfile(t, profiles)
	ctx := context.Background()

	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		insertReview(t, reviews, profile.ID, "rp-001", 3, base.Add(time.Duration(i)*time.Hour))
	}

	records, err := reviews.ListByProfile(ctx, profile.ID, repository.ReviewFilter{Since: base.Add(2 * time.Hour)})
	require.NoError(t, err)
	assert.Len(t, records, 3)

	records, err = reviews.ListByProfile(ctx, profile.ID, repository.ReviewFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
