// Package study implements the session coordinator: it owns the per-session
// study queue and the map of card memory states for one deck, and routes
// each answer through the srs scheduler. A Session is single-owner state;
// callers needing concurrent access must synchronize externally.
package study

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/creatorblue32/bonsai-medical/internal/models"
	"github.com/creatorblue32/bonsai-medical/internal/srs"
)

// Precondition violations. The UI normally gates these calls; the library
// still reports them explicitly so it is safe to reuse elsewhere.
var (
	ErrNotAnswering     = errors.New("study: no question awaiting an answer")
	ErrNotShowingResult = errors.New("study: no pending answer to rate")
	ErrAnswerWasCorrect = errors.New("study: pending answer was correct, use ContinueAfterCorrect")
	ErrAnswerNotCorrect = errors.New("study: pending answer was not correct, use RateDifficulty")
	ErrSkipRated        = errors.New("study: a skipped answer cannot be rated again or hard")
	ErrInvalidRating    = errors.New("study: rating must be between 1 and 4")
)

// UnknownQuestionError reports a deck referencing a question id absent from
// the question set, which means the content data is corrupt.
type UnknownQuestionError struct {
	QuestionID string
}

func (e *UnknownQuestionError) Error() string {
	return fmt.Sprintf("study: unknown question id %q", e.QuestionID)
}

// Phase is the session state machine position.
type Phase int

const (
	// PhaseAnswering: the cursor question is on screen, no answer yet.
	PhaseAnswering Phase = iota
	// PhaseShowingResult: an answer was submitted and awaits rating/continue.
	PhaseShowingResult
	// PhaseComplete: the cursor has walked past the end of the queue.
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseAnswering:
		return "answering"
	case PhaseShowingResult:
		return "showing_result"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// BuildQueue partitions the deck's questions into due cards (reviewed and
// due at now) followed by new cards (never reviewed), each subset keeping
// its original deck order. Reviewed cards that are not yet due are left out
// of the session entirely.
func BuildQueue(deck models.Deck, states map[string]models.CardState, now time.Time) []string {
	var due, fresh []string
	for _, qid := range deck.QuestionIDs {
		state, ok := states[qid]
		if !ok {
			continue
		}
		switch {
		case state.ReviewCount > 0 && srs.IsDue(state, now):
			due = append(due, qid)
		case state.ReviewCount == 0:
			fresh = append(fresh, qid)
		}
	}
	return append(due, fresh...)
}

// Session walks one study queue for one deck. It owns its card-state map:
// the caller hands over a snapshot at construction and reads fresh records
// back from the return values of RateDifficulty / ContinueAfterCorrect.
type Session struct {
	ID        string
	Deck      models.Deck
	StartedAt time.Time

	questions map[string]models.Question
	states    map[string]models.CardState
	queue     []string
	cursor    int
	pending   *models.AnswerResult
}

// NewSession builds the study queue for deck and positions the cursor on
// its first card. Every deck question must exist in questions and have a
// state in states; a missing entry fails fast with UnknownQuestionError.
func NewSession(deck models.Deck, questions map[string]models.Question, states map[string]models.CardState, now time.Time) (*Session, error) {
	owned := make(map[string]models.CardState, len(deck.QuestionIDs))
	for _, qid := range deck.QuestionIDs {
		if _, ok := questions[qid]; !ok {
			return nil, &UnknownQuestionError{QuestionID: qid}
		}
		state, ok := states[qid]
		if !ok {
			return nil, &UnknownQuestionError{QuestionID: qid}
		}
		owned[qid] = state
	}

	return &Session{
		ID:        uuid.NewString(),
		Deck:      deck,
		StartedAt: now,
		questions: questions,
		states:    owned,
		queue:     BuildQueue(deck, owned, now),
		cursor:    0,
	}, nil
}

// Phase returns the current state machine position.
func (s *Session) Phase() Phase {
	if s.cursor >= len(s.queue) {
		return PhaseComplete
	}
	if s.pending != nil {
		return PhaseShowingResult
	}
	return PhaseAnswering
}

// Current returns the question under the cursor, or false when the session
// is complete.
func (s *Session) Current() (models.Question, bool) {
	if s.cursor >= len(s.queue) {
		return models.Question{}, false
	}
	return s.questions[s.queue[s.cursor]], true
}

// Queue returns a copy of the session's ordered question ids.
func (s *Session) Queue() []string {
	out := make([]string, len(s.queue))
	copy(out, s.queue)
	return out
}

// Progress returns the cursor position and queue length.
func (s *Session) Progress() (answered, total int) {
	return s.cursor, len(s.queue)
}

// Pending returns the answer awaiting a rating, or false outside
// PhaseShowingResult.
func (s *Session) Pending() (models.AnswerResult, bool) {
	if s.pending == nil {
		return models.AnswerResult{}, false
	}
	return *s.pending, true
}

// State returns the current memory record for a question in this session.
func (s *Session) State(questionID string) (models.CardState, bool) {
	state, ok := s.states[questionID]
	return state, ok
}

// SubmitAnswer grades selectedIndex against the cursor question and moves
// the session to PhaseShowingResult. Card memory is not touched until the
// answer is rated or continued.
func (s *Session) SubmitAnswer(selectedIndex int) (models.AnswerResult, error) {
	return s.submit(selectedIndex, false)
}

// Skip records an "I don't know" answer for the cursor question.
func (s *Session) Skip() (models.AnswerResult, error) {
	return s.submit(models.SkippedIndex, true)
}

func (s *Session) submit(selectedIndex int, skipped bool) (models.AnswerResult, error) {
	if s.Phase() != PhaseAnswering {
		return models.AnswerResult{}, ErrNotAnswering
	}
	question := s.questions[s.queue[s.cursor]]
	result := models.AnswerResult{
		QuestionID:    question.ID,
		SelectedIndex: selectedIndex,
		IsCorrect:     !skipped && selectedIndex == question.CorrectIndex,
		Skipped:       skipped,
	}
	s.pending = &result
	return result, nil
}

// RateDifficulty consumes the pending incorrect or skipped answer, advances
// the card's memory state with the given rating and returns the fresh
// record for the caller to persist. Rating a skipped answer as Again or
// Hard is rejected: a skip reveals the answer, so the card is graded as
// newly learned, not as a failed recall.
func (s *Session) RateDifficulty(rating srs.Rating, now time.Time) (models.CardState, error) {
	if s.Phase() != PhaseShowingResult {
		return models.CardState{}, ErrNotShowingResult
	}
	if !rating.Valid() {
		return models.CardState{}, ErrInvalidRating
	}
	if s.pending.IsCorrect {
		return models.CardState{}, ErrAnswerWasCorrect
	}
	if s.pending.Skipped && rating <= srs.RatingHard {
		return models.CardState{}, ErrSkipRated
	}

	outcome := srs.Incorrect()
	if s.pending.Skipped {
		outcome = srs.Skipped()
	}
	return s.advance(outcome, now), nil
}

// ContinueAfterCorrect consumes the pending correct answer with the default
// Good outcome, so a first-try correct answer never prompts for a rating.
func (s *Session) ContinueAfterCorrect(now time.Time) (models.CardState, error) {
	if s.Phase() != PhaseShowingResult {
		return models.CardState{}, ErrNotShowingResult
	}
	if !s.pending.IsCorrect {
		return models.CardState{}, ErrAnswerNotCorrect
	}
	return s.advance(srs.Correct(srs.RatingGood), now), nil
}

func (s *Session) advance(outcome srs.Outcome, now time.Time) models.CardState {
	qid := s.queue[s.cursor]
	updated := srs.Advance(s.states[qid], outcome, now)
	s.states[qid] = updated
	s.cursor++
	s.pending = nil
	return updated
}

// DeckStats recomputes the new/due/mastery view over the session's live
// state map.
func (s *Session) DeckStats(now time.Time) models.DeckStats {
	return StatsFor(s.Deck, s.states, now)
}

// StatsFor derives the sidebar stats for a deck from a card-state map.
func StatsFor(deck models.Deck, states map[string]models.CardState, now time.Time) models.DeckStats {
	stats := models.DeckStats{DeckID: deck.ID, TotalCount: len(deck.QuestionIDs)}
	deckStates := make([]models.CardState, 0, len(deck.QuestionIDs))
	for _, qid := range deck.QuestionIDs {
		state, ok := states[qid]
		if !ok {
			continue
		}
		deckStates = append(deckStates, state)
		switch {
		case state.ReviewCount == 0:
			stats.NewCount++
		case srs.IsDue(state, now):
			stats.DueCount++
		}
	}
	stats.MasteryPercent = srs.Mastery(deckStates)
	return stats
}
