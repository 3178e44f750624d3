package models

// Sequence is a named, ordered grouping of decks studied as a unit,
// e.g. "MCAT Full Length 1".
type Sequence struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	DeckIDs     []string `json:"decks"`
}

// Deck is a named, ordered collection of question identifiers.
// Decks are static content, read-only once loaded.
type Deck struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	QuestionIDs []string `json:"questionIds"`
}

// Question is one multiple-choice flashcard. Options and explanation text
// are opaque to the scheduling core; only CorrectIndex matters to it.
type Question struct {
	ID            string   `json:"id" validate:"required"`
	PassageID     string   `json:"passageId,omitempty"`
	Prompt        string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"min=2"`
	CorrectIndex  int      `json:"correctIndex" validate:"gte=0"`
	Reinforcement string   `json:"reinforcement,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
}

// Passage is shared stimulus text referenced by passage-based questions.
type Passage struct {
	ID    string `json:"id" validate:"required"`
	Title string `json:"title"`
	Text  string `json:"text" validate:"required"`
}

// QuestionBank is the full static content tree: sequences of decks of
// questions, loaded once at startup.
type QuestionBank struct {
	Sequences []Sequence `json:"sequences" validate:"dive"`
	Decks     []Deck     `json:"decks" validate:"dive"`
	Passages  []Passage  `json:"passages" validate:"dive"`
	Questions []Question `json:"questions" validate:"min=1,dive"`
}
