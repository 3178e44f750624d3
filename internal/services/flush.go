package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/creatorblue32/bonsai-medical/internal/logger"
	"github.com/creatorblue32/bonsai-medical/internal/models"
	"github.com/creatorblue32/bonsai-medical/internal/repository"
)

// reviewFlushJob persists one completed review: the replaced card state and
// its history row. Runs on the worker pool so the answer path never waits
// on storage.
type reviewFlushJob struct {
	stateRepo repository.CardStateRepository
	logRepo   repository.ReviewLogRepository
	profileID int64
	state     models.CardState
	record    models.ReviewRecord
}

func (j *reviewFlushJob) Name() string {
	return fmt.Sprintf("flush-review:%d:%s", j.profileID, j.state.QuestionID)
}

func (j *reviewFlushJob) Run(ctx context.Context) error {
	if err := j.stateRepo.Upsert(ctx, j.profileID, j.state); err != nil {
		return fmt.Errorf("upsert card state: %w", err)
	}
	if err := j.logRepo.Insert(ctx, j.record); err != nil {
		// The card state is the source of truth; history is best effort.
		logger.FromContext(ctx).Warn("failed to store review history: %v", err)
	}
	return nil
}

func (s *studyService) flushReview(ctx context.Context, profileID int64, state models.CardState, answer models.AnswerResult, rating int, now time.Time) {
	job := &reviewFlushJob{
		stateRepo: s.stateRepo,
		logRepo:   s.logRepo,
		profileID: profileID,
		state:     state,
		record: models.ReviewRecord{
			ID:           uuid.NewString(),
			ProfileID:    profileID,
			QuestionID:   state.QuestionID,
			Rating:       rating,
			WasCorrect:   answer.IsCorrect,
			WasSkipped:   answer.Skipped,
			IntervalDays: state.IntervalDays,
			ReviewedAt:   now,
		},
	}

	if s.pool == nil {
		// No pool wired (tests, embedded use): flush inline.
		if err := job.Run(ctx); err != nil {
			logger.FromContext(ctx).Error("review flush failed: %v", err)
		}
		return
	}
	s.pool.Submit(job)
}
