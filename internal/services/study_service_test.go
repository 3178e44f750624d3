package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/creatorblue32/bonsai-medical/internal/content"
	apperrors "github.com/creatorblue32/bonsai-medical/internal/errors"
	"github.com/creatorblue32/bonsai-medical/internal/models"
	"github.com/creatorblue32/bonsai-medical/internal/repository"
	"github.com/creatorblue32/bonsai-medical/internal/services"
	"github.com/creatorblue32/bonsai-medical/internal/srs"
	"github.com/creatorblue32/bonsai-medical/internal/testutil/mocks"
)

var studyNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

const profileID = int64(1)

func newStudyService(t *testing.T) (services.StudyService, *mocks.MockCardStateRepository, *mocks.MockReviewLogRepository) {
	t.Helper()
	bank, err := content.Load()
	require.NoError(t, err)

	stateRepo := new(mocks.MockCardStateRepository)
	logRepo := new(mocks.MockReviewLogRepository)
	svc := services.NewStudyService(bank, stateRepo, logRepo, nil, services.WithClock(func() time.Time { return studyNow }))
	return svc, stateRepo, logRepo
}

func appCode(t *testing.T, err error) string {
	t.Helper()
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok, "expected *AppError, got %T: %v", err, err)
	return appErr.Code
}

func TestStartSession_UnknownDeck(t *testing.T) {
	svc, _, _ := newStudyService(t)

	_, err := svc.StartSession(context.Background(), profileID, "no-such-deck")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeNotFound, appCode(t, err))
}

func TestStartSession_AllNewCards(t *testing.T) {
	svc, stateRepo, _ := newStudyService(t)
	stateRepo.On("Load", mock.Anything, profileID).Return(map[string]models.CardState{}, nil)

	view, err := svc.StartSession(context.Background(), profileID, "cardio-pharm")
	require.NoError(t, err)

	assert.Equal(t, "cardio-pharm", view.DeckID)
	assert.Equal(t, "answering", view.Phase)
	require.NotNil(t, view.Question)
	assert.Equal(t, "cp-001", view.Question.ID)
	assert.Equal(t, 1, view.Question.Position)
	assert.Equal(t, 4, view.Question.Total)
	assert.Equal(t, 4, view.Stats.NewCount)
	assert.Equal(t, 0, view.Stats.DueCount)
	assert.NotEmpty(t, view.SessionID)
}

func TestStartSession_DueBeforeNew(t *testing.T) {
	svc, stateRepo, _ := newStudyService(t)
	stored := map[string]models.CardState{
		"cp-003": {
			QuestionID:   "cp-003",
			IntervalDays: 2,
			EaseFactor:   2.5,
			NextReview:   studyNow.AddDate(0, 0, -1),
			ReviewCount:  1,
			LastReview:   studyNow.AddDate(0, 0, -3),
		},
	}
	stateRepo.On("Load", mock.Anything, profileID).Return(stored, nil)

	view, err := svc.StartSession(context.Background(), profileID, "cardio-pharm")
	require.NoError(t, err)

	require.NotNil(t, view.Question)
	assert.Equal(t, "cp-003", view.Question.ID, "due card studied before new cards")
	assert.Equal(t, 3, view.Stats.NewCount)
	assert.Equal(t, 1, view.Stats.DueCount)
}

func TestSubmitAnswer_CorrectThenContinue(t *testing.T) {
	svc, stateRepo, logRepo := newStudyService(t)
	ctx := context.Background()
	stateRepo.On("Load", mock.Anything, profileID).Return(map[string]models.CardState{}, nil)
	stateRepo.On("Upsert", mock.Anything, profileID, mock.AnythingOfType("models.CardState")).Return(nil)
	logRepo.On("Insert", mock.Anything, mock.AnythingOfType("models.ReviewRecord")).Return(nil)

	_, err := svc.StartSession(ctx, profileID, "cardio-pharm")
	require.NoError(t, err)

	// cp-001: bradykinin, index 1.
	answer, err := svc.SubmitAnswer(ctx, profileID, 1, false)
	require.NoError(t, err)
	assert.True(t, answer.Result.IsCorrect)
	assert.Equal(t, 1, answer.CorrectIndex)
	assert.Empty(t, answer.Ratings, "correct answers are not self-rated")
	assert.NotEmpty(t, answer.Explanation)

	view, err := svc.ContinueAfterCorrect(ctx, profileID)
	require.NoError(t, err)
	assert.Equal(t, "answering", view.Phase)
	assert.Equal(t, "cp-002", view.Question.ID)
	assert.Equal(t, 3, view.Stats.NewCount, "one card is no longer new")

	stateRepo.AssertNumberOfCalls(t, "Upsert", 1)
	logRepo.AssertNumberOfCalls(t, "Insert", 1)
}

func TestSubmitAnswer_IncorrectOffersAllRatings(t *testing.T) {
	svc, stateRepo, _ := newStudyService(t)
	ctx := context.Background()
	stateRepo.On("Load", mock.Anything, profileID).Return(map[string]models.CardState{}, nil)

	_, err := svc.StartSession(ctx, profileID, "cardio-pharm")
	require.NoError(t, err)

	answer, err := svc.SubmitAnswer(ctx, profileID, 0, false)
	require.NoError(t, err)
	assert.False(t, answer.Result.IsCorrect)
	assert.Len(t, answer.Ratings, 4)
}

func TestSubmitAnswer_SkipOffersRecallRatingsOnly(t *testing.T) {
	svc, stateRepo, _ := newStudyService(t)
	ctx := context.Background()
	stateRepo.On("Load", mock.Anything, profileID).Return(map[string]models.CardState{}, nil)

	_, err := svc.StartSession(ctx, profileID, "cardio-pharm")
	require.NoError(t, err)

	answer, err := svc.SubmitAnswer(ctx, profileID, 0, true)
	require.NoError(t, err)
	assert.True(t, answer.Result.Skipped)
	require.Len(t, answer.Ratings, 2)
	assert.Equal(t, srs.RatingGood, answer.Ratings[0].Rating)
	assert.Equal(t, srs.RatingEasy, answer.Ratings[1].Rating)
}

func TestSubmitAnswer_OutOfRangeIndex(t *testing.T) {
	svc, stateRepo, _ := newStudyService(t)
	ctx := context.Background()
	stateRepo.On("Load", mock.Anything, profileID).Return(map[string]models.CardState{}, nil)

	_, err := svc.StartSession(ctx, profileID, "cardio-pharm")
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(ctx, profileID, 9, false)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeValidation, appCode(t, err))
}

func TestRateDifficulty_InvalidOnCorrectAnswer(t *testing.T) {
	svc, stateRepo, _ := newStudyService(t)
	ctx := context.Background()
	stateRepo.On("Load", mock.Anything, profileID).Return(map[string]models.CardState{}, nil)

	_, err := svc.StartSession(ctx, profileID, "cardio-pharm")
	require.NoError(t, err)
	_, err = svc.SubmitAnswer(ctx, profileID, 1, false)
	require.NoError(t, err)

	_, err = svc.RateDifficulty(ctx, profileID, srs.RatingGood)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidState, appCode(t, err))
}

func TestRateDifficulty_NoSession(t *testing.T) {
	svc, _, _ := newStudyService(t)

	_, err := svc.RateDifficulty(context.Background(), profileID, srs.RatingGood)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeNotFound, appCode(t, err))
}

func TestSessionWalkthroughToComplete(t *testing.T) {
	svc, stateRepo, logRepo := newStudyService(t)
	ctx := context.Background()
	stateRepo.On("Load", mock.Anything, profileID).Return(map[string]models.CardState{}, nil)
	stateRepo.On("Upsert", mock.Anything, profileID, mock.AnythingOfType("models.CardState")).Return(nil)
	logRepo.On("Insert", mock.Anything, mock.AnythingOfType("models.ReviewRecord")).Return(nil)

	// renal-phys has three questions: rp-001 (A), rp-002 (B), rp-003 (B).
	_, err := svc.StartSession(ctx, profileID, "renal-phys")
	require.NoError(t, err)

	// rp-001 correct.
	_, err = svc.SubmitAnswer(ctx, profileID, 0, false)
	require.NoError(t, err)
	_, err = svc.ContinueAfterCorrect(ctx, profileID)
	require.NoError(t, err)

	// rp-002 wrong, rated Good (still resets).
	_, err = svc.SubmitAnswer(ctx, profileID, 0, false)
	require.NoError(t, err)
	_, err = svc.RateDifficulty(ctx, profileID, srs.RatingGood)
	require.NoError(t, err)

	// rp-003 skipped, rated Good (skip still resets the interval).
	_, err = svc.SubmitAnswer(ctx, profileID, 0, true)
	require.NoError(t, err)
	view, err := svc.RateDifficulty(ctx, profileID, srs.RatingGood)
	require.NoError(t, err)

	assert.Equal(t, "complete", view.Phase)
	assert.Nil(t, view.Question)
	assert.Equal(t, 0, view.Stats.NewCount)
	assert.Equal(t, 0, view.Stats.DueCount)

	stateRepo.AssertNumberOfCalls(t, "Upsert", 3)
	logRepo.AssertNumberOfCalls(t, "Insert", 3)

	// Closing takes a final snapshot of every reviewed state.
	stateRepo.On("SaveAll", mock.Anything, profileID, mock.MatchedBy(func(states map[string]models.CardState) bool {
		return len(states) == 3
	})).Return(nil)
	require.NoError(t, svc.CloseSession(ctx, profileID))
	stateRepo.AssertNumberOfCalls(t, "SaveAll", 1)

	err = svc.CloseSession(ctx, profileID)
	assert.Equal(t, apperrors.ErrCodeNotFound, appCode(t, err))
}

func TestConcurrentSessionAccess(t *testing.T) {
	svc, stateRepo, logRepo := newStudyService(t)
	ctx := context.Background()
	stateRepo.On("Load", mock.Anything, profileID).Return(map[string]models.CardState{}, nil)
	stateRepo.On("Upsert", mock.Anything, profileID, mock.AnythingOfType("models.CardState")).Return(nil)
	logRepo.On("Insert", mock.Anything, mock.AnythingOfType("models.ReviewRecord")).Return(nil)

	view, err := svc.StartSession(ctx, profileID, "cardio-pharm")
	require.NoError(t, err)
	total := view.Question.Total

	// Readers hammer the session while one writer walks it to completion.
	// Run with -race: unsynchronized access to the session's state map is
	// a crash, not just a wrong answer.
	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				if _, err := svc.SessionState(ctx, profileID); err != nil {
					return
				}
				if _, err := svc.DeckStats(ctx, profileID, "cardio-pharm"); err != nil {
					return
				}
			}
		}()
	}

	for i := 0; i < total; i++ {
		_, err := svc.SubmitAnswer(ctx, profileID, 0, true)
		require.NoError(t, err)
		_, err = svc.RateDifficulty(ctx, profileID, srs.RatingGood)
		require.NoError(t, err)
	}
	close(done)
	wg.Wait()

	final, err := svc.SessionState(ctx, profileID)
	require.NoError(t, err)
	assert.Equal(t, "complete", final.Phase)
	stateRepo.AssertNumberOfCalls(t, "Upsert", total)
}

func TestDeckStats_WithoutSession(t *testing.T) {
	svc, stateRepo, _ := newStudyService(t)
	stored := map[string]models.CardState{
		"be-001": {
			QuestionID:   "be-001",
			IntervalDays: 10,
			EaseFactor:   2.5,
			NextReview:   studyNow.AddDate(0, 0, 5),
			ReviewCount:  3,
			LastReview:   studyNow.AddDate(0, 0, -5),
		},
	}
	stateRepo.On("Load", mock.Anything, profileID).Return(stored, nil)

	stats, err := svc.DeckStats(context.Background(), profileID, "biochem-enzymes")
	require.NoError(t, err)

	assert.Equal(t, 2, stats.NewCount)
	assert.Equal(t, 0, stats.DueCount, "reviewed but not yet due")
	assert.Equal(t, 3, stats.TotalCount)
	assert.Equal(t, 33, stats.MasteryPercent, "one of three past the learned threshold")
}

func TestLibraryStats(t *testing.T) {
	svc, stateRepo, _ := newStudyService(t)
	stateRepo.On("Load", mock.Anything, profileID).Return(map[string]models.CardState{}, nil)

	stats, err := svc.LibraryStats(context.Background(), profileID)
	require.NoError(t, err)

	require.Len(t, stats, 2)
	assert.Equal(t, "usmle-step1-core", stats[0].SequenceID)
	require.Len(t, stats[0].Decks, 2)
	assert.Equal(t, 4, stats[0].Decks[0].TotalCount)
}

func TestReviewHistory_Passthrough(t *testing.T) {
	svc, _, logRepo := newStudyService(t)
	expected := []models.ReviewRecord{{ID: "r1", QuestionID: "cp-001", Rating: 3}}
	logRepo.On("ListByProfile", mock.Anything, profileID, repository.ReviewFilter{Limit: 10}).Return(expected, nil)

	records, err := svc.ReviewHistory(context.Background(), profileID, repository.ReviewFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, expected, records)
}
