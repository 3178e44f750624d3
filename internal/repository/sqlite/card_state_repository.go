package sqlite

import (
	"context"
	"database/sql"

	"github.com/creatorblue32/bonsai-medical/internal/db"
	"github.com/creatorblue32/bonsai-medical/internal/logger"
	"github.com/creatorblue32/bonsai-medical/internal/models"
	"github.com/creatorblue32/bonsai-medical/internal/repository"
)

type cardStateRepository struct {
	db *db.DB
}

// NewCardStateRepository creates a new CardStateRepository implementation
func NewCardStateRepository(database *db.DB) repository.CardStateRepository {
	return &cardStateRepository{db: database}
}

func (r *cardStateRepository) Load(ctx context.Context, profileID int64) (map[string]models.CardState, error) {
	log := logger.FromContext(ctx).WithPrefix("card_state_repo")
	log.Debug("loading card states: profile_id=%d", profileID)

	rows, err := r.db.QueryContext(ctx, `
SELECT question_id, interval_days, ease_factor, next_review, review_count, last_review
FROM card_states
WHERE profile_id = ?
`, profileID)
	if err != nil {
		log.Error("failed to query card states: %v", err)
		return nil, err
	}
	defer rows.Close()

	states := make(map[string]models.CardState)
	for rows.Next() {
		var s models.CardState
		var lastReview sql.NullTime
		if err := rows.Scan(&s.QuestionID, &s.IntervalDays, &s.EaseFactor, &s.NextReview, &s.ReviewCount, &lastReview); err != nil {
			log.Error("failed to scan card state row: %v", err)
			return nil, err
		}
		if lastReview.Valid {
			s.LastReview = lastReview.Time
		}
		states[s.QuestionID] = s
	}
	log.Debug("loaded %d card states", len(states))
	return states, rows.Err()
}

const upsertStateSQL = `
INSERT INTO card_states (profile_id, question_id, interval_days, ease_factor, next_review, review_count, last_review)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (profile_id, question_id) DO UPDATE SET
    interval_days = excluded.interval_days,
    ease_factor = excluded.ease_factor,
    next_review = excluded.next_review,
    review_count = excluded.review_count,
    last_review = excluded.last_review
`

func (r *cardStateRepository) Upsert(ctx context.Context, profileID int64, state models.CardState) error {
	log := logger.FromContext(ctx).WithPrefix("card_state_repo")
	log.Debug("upserting card state: profile_id=%d question_id=%s interval=%d ease=%.2f",
		profileID, state.QuestionID, state.IntervalDays, state.EaseFactor)

	_, err := r.db.ExecContext(ctx, upsertStateSQL,
		profileID, state.QuestionID, state.IntervalDays, state.EaseFactor,
		state.NextReview, state.ReviewCount, nullTime(state.LastReview))
	if err != nil {
		log.Error("failed to upsert card state: %v", err)
	}
	return err
}

func (r *cardStateRepository) SaveAll(ctx context.Context, profileID int64, states map[string]models.CardState) error {
	log := logger.FromContext(ctx).WithPrefix("card_state_repo")
	log.Debug("saving %d card states: profile_id=%d", len(states), profileID)

	return r.db.Tx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, upsertStateSQL)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, state := range states {
			_, err := stmt.ExecContext(ctx,
				profileID, state.QuestionID, state.IntervalDays, state.EaseFactor,
				state.NextReview, state.ReviewCount, nullTime(state.LastReview))
			if err != nil {
				log.Error("failed to save card state %s: %v", state.QuestionID, err)
				return err
			}
		}
		return nil
	})
}
