package srs

// Rating is the user's self-reported recall difficulty after a correct
// answer, on the usual Anki-style 1-4 scale.
type Rating int

const (
	RatingAgain Rating = 1
	RatingHard  Rating = 2
	RatingGood  Rating = 3
	RatingEasy  Rating = 4
)

// Valid reports whether r is one of the four defined ratings.
func (r Rating) Valid() bool {
	return r >= RatingAgain && r <= RatingEasy
}

func (r Rating) String() string {
	switch r {
	case RatingAgain:
		return "again"
	case RatingHard:
		return "hard"
	case RatingGood:
		return "good"
	case RatingEasy:
		return "easy"
	default:
		return "unknown"
	}
}

// DifficultyOption describes one rating button as shown to the user.
type DifficultyOption struct {
	Rating             Rating  `json:"rating"`
	Label              string  `json:"label"`
	Description        string  `json:"description"`
	IntervalMultiplier float64 `json:"intervalMultiplier"`
}

// DifficultyOptions is the fixed rating scale, in display order.
var DifficultyOptions = []DifficultyOption{
	{Rating: RatingAgain, Label: "Again", Description: "Review again soon", IntervalMultiplier: 0.5},
	{Rating: RatingHard, Label: "Hard", Description: "Difficult, but recalled", IntervalMultiplier: 0.8},
	{Rating: RatingGood, Label: "Good", Description: "Recalled with effort", IntervalMultiplier: 1.0},
	{Rating: RatingEasy, Label: "Easy", Description: "Effortless recall", IntervalMultiplier: 1.5},
}

func optionFor(r Rating) DifficultyOption {
	for _, o := range DifficultyOptions {
		if o.Rating == r {
			return o
		}
	}
	return DifficultyOptions[2] // Good
}

// Outcome is the result of one completed question, as fed to Advance.
// The three cases are constructed via Correct, Incorrect and Skipped so a
// skipped answer can never carry a rating.
type Outcome struct {
	correct bool
	skipped bool
	rating  Rating
}

// Correct builds the outcome for a correct answer rated with r.
func Correct(r Rating) Outcome {
	return Outcome{correct: true, rating: r}
}

// Incorrect builds the outcome for an attempted but wrong answer.
func Incorrect() Outcome {
	return Outcome{}
}

// Skipped builds the outcome for an "I don't know" answer.
func Skipped() Outcome {
	return Outcome{skipped: true}
}

// IsCorrect reports whether the answer was attempted and correct.
func (o Outcome) IsCorrect() bool { return o.correct }

// IsSkipped reports whether the user declined to answer.
func (o Outcome) IsSkipped() bool { return o.skipped }

// Rating returns the recall rating for a correct outcome, RatingGood
// otherwise (the rating is ignored for incorrect and skipped outcomes).
func (o Outcome) Rating() Rating {
	if !o.correct {
		return RatingGood
	}
	return o.rating
}
