package models

import "time"

// CardState is the per-question memory record driven by the srs package.
// It is replaced wholesale on every completed review, never mutated in place.
type CardState struct {
	QuestionID   string    `json:"question_id"`
	IntervalDays int       `json:"interval_days"`
	EaseFactor   float64   `json:"ease_factor"`
	NextReview   time.Time `json:"next_review"`
	ReviewCount  int       `json:"review_count"`
	LastReview   time.Time `json:"last_review,omitzero"`
}

// New reports whether the card has never been reviewed.
func (s CardState) New() bool {
	return s.ReviewCount == 0
}

// AnswerResult is the ephemeral outcome of one in-flight question, held
// between answer submission and the rating/continue that consumes it.
type AnswerResult struct {
	QuestionID    string `json:"question_id"`
	SelectedIndex int    `json:"selected_index"`
	IsCorrect     bool   `json:"is_correct"`
	Skipped       bool   `json:"skipped"`
}

// SkippedIndex is the SelectedIndex sentinel for an "I don't know" answer.
const SkippedIndex = -1

// DeckStats is a derived, read-only view over a deck's card states,
// recomputed on demand so it always matches the live state map.
type DeckStats struct {
	DeckID         string `json:"deck_id"`
	NewCount       int    `json:"new_count"`
	DueCount       int    `json:"due_count"`
	TotalCount     int    `json:"total_count"`
	MasteryPercent int    `json:"mastery_percent"`
}

// SequenceStats rolls up the per-deck stats of one sequence for the
// library sidebar.
type SequenceStats struct {
	SequenceID string      `json:"sequence_id"`
	Decks      []DeckStats `json:"decks"`
}
