package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"

	"github.com/creatorblue32/bonsai-medical/internal/logger"
	"github.com/creatorblue32/bonsai-medical/internal/models"
	"github.com/creatorblue32/bonsai-medical/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type reviewLogRepository struct {
	db *sql.DB
}

// NewReviewLogRepository creates a new ReviewLogRepository implementation
func NewReviewLogRepository(db *sql.DB) repository.ReviewLogRepository {
	return &reviewLogRepository{db: db}
}

func (r *reviewLogRepository) Insert(ctx context.Context, rec models.ReviewRecord) error {
	log := logger.FromContext(ctx).WithPrefix("review_log_repo")
	log.Debug("inserting review record: question_id=%s rating=%d", rec.QuestionID, rec.Rating)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO review_history (id, profile_id, question_id, rating, was_correct, was_skipped, interval_days, reviewed_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, rec.ID, rec.ProfileID, rec.QuestionID, rec.Rating, rec.WasCorrect, rec.WasSkipped, rec.IntervalDays, rec.ReviewedAt)
	if err != nil {
		log.Error("failed to insert review record: %v", err)
	}
	return err
}

func (r *reviewLogRepository) ListByProfile(ctx context.Context, profileID int64, filter repository.ReviewFilter) ([]models.ReviewRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("review_log_repo")
	log.Debug("listing reviews: profile_id=%d question_id=%q", profileID, filter.QuestionID)

	query := sqlBuilder.
		Select("id", "profile_id", "question_id", "rating", "was_correct", "was_skipped", "interval_days", "reviewed_at").
		From("review_history").
		Where(squirrel.Eq{"profile_id": profileID}).
		OrderBy("reviewed_at DESC")

	if filter.QuestionID != "" {
		query = query.Where(squirrel.Eq{"question_id": filter.QuestionID})
	}
	if !filter.Since.IsZero() {
		query = query.Where(squirrel.GtOrEq{"reviewed_at": filter.Since})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query review history: %v", err)
		return nil, err
	}
	defer rows.Close()

	var records []models.ReviewRecord
	for rows.Next() {
		var rec models.ReviewRecord
		if err := rows.Scan(&rec.ID, &rec.ProfileID, &rec.QuestionID, &rec.Rating, &rec.WasCorrect, &rec.WasSkipped, &rec.IntervalDays, &rec.ReviewedAt); err != nil {
			log.Error("failed to scan review record: %v", err)
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
