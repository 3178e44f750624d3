// Package srs implements the spaced-repetition scheduling engine: pure
// state-transition functions over one card's memory record, an SM-2
// variant where interval growth is keyed to self-reported recall effort
// rather than correctness alone.
package srs

import (
	"math"
	"strconv"
	"time"

	"github.com/creatorblue32/bonsai-medical/internal/models"
)

const (
	minEaseFactor = 1.3
	maxEaseFactor = 3.0

	initialInterval   = 1
	initialEaseFactor = 2.5

	// A card whose interval has grown past a week counts as learned.
	masteryIntervalDays = 7
)

// NewCardState returns the zero-state for a never-reviewed question:
// due immediately, interval of one day, default ease.
func NewCardState(questionID string, now time.Time) models.CardState {
	return models.CardState{
		QuestionID:   questionID,
		IntervalDays: initialInterval,
		EaseFactor:   initialEaseFactor,
		NextReview:   now,
		ReviewCount:  0,
	}
}

// IsDue reports whether the card is due for review at time now.
func IsDue(state models.CardState, now time.Time) bool {
	return !now.Before(state.NextReview)
}

// Advance computes the card state following one completed review. The input
// state is never modified; callers must replace their stored copy with the
// returned record.
//
// A skipped or incorrect answer resets the interval to one day and drops the
// ease factor by 0.2 (floored at 1.3), ignoring any rating. For correct
// answers the rating decides: Again relearns, Hard shrinks the interval,
// Good multiplies it by the ease factor, Easy compounds ease growth with a
// 1.5x bonus. Intervals never fall below one day and the ease factor stays
// within [1.3, 3.0].
func Advance(state models.CardState, outcome Outcome, now time.Time) models.CardState {
	interval := state.IntervalDays
	ease := state.EaseFactor

	if outcome.IsSkipped() || !outcome.IsCorrect() {
		interval = 1
		ease = math.Max(minEaseFactor, ease-0.2)
	} else {
		mult := optionFor(outcome.Rating()).IntervalMultiplier
		switch outcome.Rating() {
		case RatingAgain:
			ease = math.Max(minEaseFactor, ease-0.2)
			interval = 1
		case RatingHard:
			ease = math.Max(minEaseFactor, ease-0.15)
			interval = int(math.Ceil(float64(interval) * mult))
		case RatingGood:
			// Ease factor unchanged.
			interval = int(math.Ceil(float64(interval) * ease))
		case RatingEasy:
			ease = math.Min(maxEaseFactor, ease+0.15)
			interval = int(math.Ceil(float64(interval) * ease * mult))
		}
	}

	if interval < 1 {
		interval = 1
	}

	return models.CardState{
		QuestionID:   state.QuestionID,
		IntervalDays: interval,
		EaseFactor:   ease,
		NextReview:   now.AddDate(0, 0, interval),
		ReviewCount:  state.ReviewCount + 1,
		LastReview:   now,
	}
}

// Mastery returns the percentage (0-100, rounded) of states whose interval
// has reached the learned threshold. An empty collection yields 0.
func Mastery(states []models.CardState) int {
	if len(states) == 0 {
		return 0
	}
	learned := 0
	for _, s := range states {
		if s.IntervalDays >= masteryIntervalDays {
			learned++
		}
	}
	return int(math.Round(float64(learned) / float64(len(states)) * 100))
}

// NextReviewIn renders the time until the card's next review as a short
// human-readable string: "Now", "3d", "5h" or "12m".
func NextReviewIn(state models.CardState, now time.Time) string {
	diff := state.NextReview.Sub(now)
	if diff <= 0 {
		return "Now"
	}
	switch {
	case diff >= 24*time.Hour:
		return strconv.Itoa(int(diff.Hours()/24)) + "d"
	case diff >= time.Hour:
		return strconv.Itoa(int(diff.Hours())) + "h"
	default:
		return strconv.Itoa(int(diff.Minutes())) + "m"
	}
}
