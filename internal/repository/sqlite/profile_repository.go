package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/creatorblue32/bonsai-medical/internal/logger"
	"github.com/creatorblue32/bonsai-medical/internal/models"
	"github.com/creatorblue32/bonsai-medical/internal/repository"
)

type profileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new ProfileRepository implementation
func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) List(ctx context.Context) ([]models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("listing profiles")

	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, exam, target_score, minimum_score, exam_date, resources, study_style, created_at, updated_at
FROM profiles
ORDER BY created_at
`)
	if err != nil {
		log.Error("failed to query profiles: %v", err)
		return nil, err
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows.Scan)
		if err != nil {
			log.Error("failed to scan profile row: %v", err)
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (r *profileRepository) Get(ctx context.Context, id int64) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("fetching profile: id=%d", id)

	row := r.db.QueryRowContext(ctx, `
SELECT id, name, exam, target_score, minimum_score, exam_date, resources, study_style, created_at, updated_at
FROM profiles
WHERE id = ?
`, id)
	p, err := scanProfile(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		log.Error("failed to get profile: %v", err)
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) Create(ctx context.Context, p models.Profile) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("creating profile: name=%s exam=%s", p.Name, p.Exam)

	resources, err := json.Marshal(p.Resources)
	if err != nil {
		return nil, err
	}
	res, err := r.db.ExecContext(ctx, `
INSERT INTO profiles (name, exam, target_score, minimum_score, exam_date, resources, study_style)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, p.Name, p.Exam, p.TargetScore, p.MinimumScore, nullTime(p.ExamDate), string(resources), p.StudyStyle)
	if err != nil {
		log.Error("failed to insert profile: %v", err)
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	log.Debug("profile created: id=%d", id)
	return r.Get(ctx, id)
}

func (r *profileRepository) Update(ctx context.Context, p models.Profile) error {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("updating profile: id=%d", p.ID)

	resources, err := json.Marshal(p.Resources)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
UPDATE profiles
SET name = ?, exam = ?, target_score = ?, minimum_score = ?, exam_date = ?, resources = ?, study_style = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, p.Name, p.Exam, p.TargetScore, p.MinimumScore, nullTime(p.ExamDate), string(resources), p.StudyStyle, p.ID)
	if err != nil {
		log.Error("failed to update profile: %v", err)
	}
	return err
}

func (r *profileRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("deleting profile: id=%d", id)

	_, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete profile: %v", err)
	}
	return err
}

func scanProfile(scan func(dest ...any) error) (models.Profile, error) {
	var p models.Profile
	var examDate sql.NullTime
	var resources string
	err := scan(&p.ID, &p.Name, &p.Exam, &p.TargetScore, &p.MinimumScore, &examDate, &resources, &p.StudyStyle, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return models.Profile{}, err
	}
	if examDate.Valid {
		p.ExamDate = examDate.Time
	}
	if err := json.Unmarshal([]byte(resources), &p.Resources); err != nil {
		return models.Profile{}, err
	}
	return p, nil
}
