package models

import "time"

// Profile is one user's study profile. Resources is stored as a JSON array
// in sqlite and unpacked by the repository layer.
type Profile struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Exam         string    `json:"exam"`
	TargetScore  int       `json:"target_score"`
	MinimumScore int       `json:"minimum_score"`
	ExamDate     time.Time `json:"exam_date"`
	Resources    []string  `json:"resources"`
	StudyStyle   string    `json:"study_style"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ReviewRecord is one row of review history: which question was reviewed,
// how it went, and the schedule it produced.
type ReviewRecord struct {
	ID           string    `json:"id"`
	ProfileID    int64     `json:"profile_id"`
	QuestionID   string    `json:"question_id"`
	Rating       int       `json:"rating"`
	WasCorrect   bool      `json:"was_correct"`
	WasSkipped   bool      `json:"was_skipped"`
	IntervalDays int       `json:"interval_days"`
	ReviewedAt   time.Time `json:"reviewed_at"`
}
