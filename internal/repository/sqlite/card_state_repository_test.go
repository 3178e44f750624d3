package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorblue32/bonsai-medical/internal/models"
	"github.com/creatorblue32/bonsai-medical/internal/repository/sqlite"
	"github.com/creatorblue32/bonsai-medical/internal/testutil"
)

func createProfile(t *testing.T, repo interface {
	Create(ctx context.Context, p models.Profile) (*models.Profile, error)
}) *models.Profile {
	t.Helper()
	profile, err := repo.Create(context.Background(), models.Profile{
		Name:       "Alex",
		Exam:       "USMLE Step 1",
		StudyStyle: "balanced",
		Resources:  []string{"First Aid", "UWorld"},
	})
	require.NoError(t, err)
	return profile
}

func TestCardStateRepository_LoadEmpty(t *testing.T) {
	database := testutil.NewTestDB(t)
	profiles := sqlite.NewProfileRepository(database.DB)
	states := sqlite.NewCardStateRepository(database)
	profile := createProfile(t, profiles)

	loaded, err := states.Load(context.Background(), profile.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestCardStateRepository_UpsertRoundTrip(t *testing.T) {
	database := testutil.NewTestDB(t)
	profiles := sqlite.NewProfileRepository(database.DB)
	states := sqlite.NewCardStateRepository(database)
	profile := createProfile(t, profiles)
	ctx := context.Background()

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	state := models.CardState{
		QuestionID:   "cp-001",
		IntervalDays: 3,
		EaseFactor:   2.5,
		NextReview:   now.AddDate(0, 0, 3),
		ReviewCount:  1,
		LastReview:   now,
	}
	require.NoError(t, states.Upsert(ctx, profile.ID, state))

	// Second upsert replaces, not duplicates.
	state.IntervalDays = 8
	state.ReviewCount = 2
	require.NoError(t, states.Upsert(ctx, profile.ID, state))

	loaded, err := states.Load(ctx, profile.ID)
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	got := loaded["cp-001"]
	assert.Equal(t, 8, got.IntervalDays)
	assert.Equal(t, 2, got.ReviewCount)
	assert.Equal(t, 2.5, got.EaseFactor)
	assert.True(t, got.NextReview.Equal(state.NextReview))
	assert.True(t, got.LastReview.Equal(now))
}

func TestCardStateRepository_NewCardHasNullLastReview(t *testing.T) {
	database := testutil.NewTestDB(t)
	profiles := sqlite.NewProfileRepository(database.DB)
	states := sqlite.NewCardStateRepository(database)
	profile := createProfile(t, profiles)
	ctx := context.Background()

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	require.NoError(t, states.Upsert(ctx, profile.ID, models.CardState{
		QuestionID:   "rp-001",
		IntervalDays: 1,
		EaseFactor:   2.5,
		NextReview:   now,
	}))

	loaded, err := states.Load(ctx, profile.ID)
	require.NoError(t, err)
	assert.True(t, loaded["rp-001"].LastReview.IsZero())
	assert.True(t, loaded["rp-001"].New())
}

func TestCardStateRepository_SaveAll(t *testing.T) {
	database := testutil.NewTestDB(t)
	profiles := sqlite.NewProfileRepository(database.DB)
	states := sqlite.NewCardStateRepository(database)
	profile := createProfile(t, profiles)
	ctx := context.Background()

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	snapshot := map[string]models.CardState{
		"q1": {QuestionID: "q1", IntervalDays: 1, EaseFactor: 2.5, NextReview: now},
		"q2": {QuestionID: "q2", IntervalDays: 6, EaseFactor: 2.3, NextReview: now.AddDate(0, 0, 6), ReviewCount: 3, LastReview: now},
	}
	require.NoError(t, states.SaveAll(ctx, profile.ID, snapshot))

	loaded, err := states.Load(ctx, profile.ID)
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
	assert.Equal(t, 6, loaded["q2"].IntervalDays)
}

func TestCardStateRepository_IsolatedPerProfile(t *testing.T) {
	database := testutil.NewTestDB(t)
	profiles := sqlite.NewProfileRepository(database.DB)
	states := sqlite.NewCardStateRepository(database)
	ctx := context.Background()

	first := createProfile(t, profiles)
	second := createProfile(t, profiles)

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	require.NoError(t, states.Upsert(ctx, first.ID, models.CardState{
		QuestionID: "q1", IntervalDays: 1, EaseFactor: 2.5, NextReview: now,
	}))

	loaded, err := states.Load(ctx, second.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded, "card states must not leak across profiles")
}
