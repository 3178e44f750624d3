// Package content loads the static question bank: sequences of decks of
// multiple-choice questions, embedded at build time. The bank is read-only
// after Load; the scheduling core never mutates it.
package content

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/creatorblue32/bonsai-medical/internal/models"
)

//go:embed data/questions.json
var questionData []byte

// Bank is the loaded, indexed question bank.
type Bank struct {
	data      models.QuestionBank
	questions map[string]models.Question
	decks     map[string]models.Deck
	sequences map[string]models.Sequence
	passages  map[string]models.Passage
}

// Load parses and validates the embedded question bank.
func Load() (*Bank, error) {
	return Parse(questionData)
}

// Parse builds a Bank from raw JSON, failing fast on malformed content:
// schema violations, duplicate ids, dangling deck/sequence/passage
// references, or a correctIndex outside a question's options.
func Parse(data []byte) (*Bank, error) {
	var bank models.QuestionBank
	if err := json.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(&bank); err != nil {
		return nil, fmt.Errorf("validate question bank: %w", err)
	}

	b := &Bank{
		data:      bank,
		questions: make(map[string]models.Question, len(bank.Questions)),
		decks:     make(map[string]models.Deck, len(bank.Decks)),
		sequences: make(map[string]models.Sequence, len(bank.Sequences)),
		passages:  make(map[string]models.Passage, len(bank.Passages)),
	}

	for _, p := range bank.Passages {
		if _, dup := b.passages[p.ID]; dup {
			return nil, fmt.Errorf("duplicate passage id %q", p.ID)
		}
		b.passages[p.ID] = p
	}
	for _, q := range bank.Questions {
		if _, dup := b.questions[q.ID]; dup {
			return nil, fmt.Errorf("duplicate question id %q", q.ID)
		}
		if q.CorrectIndex >= len(q.Options) {
			return nil, fmt.Errorf("question %q: correctIndex %d out of range for %d options", q.ID, q.CorrectIndex, len(q.Options))
		}
		if q.PassageID != "" {
			if _, ok := b.passages[q.PassageID]; !ok {
				return nil, fmt.Errorf("question %q references unknown passage %q", q.ID, q.PassageID)
			}
		}
		b.questions[q.ID] = q
	}
	for _, d := range bank.Decks {
		if _, dup := b.decks[d.ID]; dup {
			return nil, fmt.Errorf("duplicate deck id %q", d.ID)
		}
		for _, qid := range d.QuestionIDs {
			if _, ok := b.questions[qid]; !ok {
				return nil, fmt.Errorf("deck %q references unknown question %q", d.ID, qid)
			}
		}
		b.decks[d.ID] = d
	}
	for _, seq := range bank.Sequences {
		if _, dup := b.sequences[seq.ID]; dup {
			return nil, fmt.Errorf("duplicate sequence id %q", seq.ID)
		}
		for _, did := range seq.DeckIDs {
			if _, ok := b.decks[did]; !ok {
				return nil, fmt.Errorf("sequence %q references unknown deck %q", seq.ID, did)
			}
		}
		b.sequences[seq.ID] = seq
	}

	return b, nil
}

// Sequences returns all sequences in content order.
func (b *Bank) Sequences() []models.Sequence { return b.data.Sequences }

// Decks returns all decks in content order.
func (b *Bank) Decks() []models.Deck { return b.data.Decks }

// Questions returns all questions in content order.
func (b *Bank) Questions() []models.Question { return b.data.Questions }

// Question looks up one question by id.
func (b *Bank) Question(id string) (models.Question, bool) {
	q, ok := b.questions[id]
	return q, ok
}

// QuestionsByID returns the id-keyed question index shared with sessions.
func (b *Bank) QuestionsByID() map[string]models.Question { return b.questions }

// Deck looks up one deck by id.
func (b *Bank) Deck(id string) (models.Deck, bool) {
	d, ok := b.decks[id]
	return d, ok
}

// Sequence looks up one sequence by id.
func (b *Bank) Sequence(id string) (models.Sequence, bool) {
	s, ok := b.sequences[id]
	return s, ok
}

// PassageFor returns the stimulus passage for a question, if it has one.
func (b *Bank) PassageFor(q models.Question) (models.Passage, bool) {
	if q.PassageID == "" {
		return models.Passage{}, false
	}
	p, ok := b.passages[q.PassageID]
	return p, ok
}
