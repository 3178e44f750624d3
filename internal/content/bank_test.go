package content_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorblue32/bonsai-medical/internal/content"
)

func TestLoad_EmbeddedBank(t *testing.T) {
	bank, err := content.Load()
	require.NoError(t, err)

	assert.NotEmpty(t, bank.Sequences())
	assert.NotEmpty(t, bank.Decks())
	assert.NotEmpty(t, bank.Questions())

	// Every deck id a sequence names must resolve, and every question id a
	// deck names must resolve.
	for _, seq := range bank.Sequences() {
		for _, did := range seq.DeckIDs {
			_, ok := bank.Deck(did)
			assert.True(t, ok, "sequence %s deck %s", seq.ID, did)
		}
	}
	for _, deck := range bank.Decks() {
		for _, qid := range deck.QuestionIDs {
			q, ok := bank.Question(qid)
			require.True(t, ok, "deck %s question %s", deck.ID, qid)
			assert.Less(t, q.CorrectIndex, len(q.Options))
			if q.PassageID != "" {
				_, ok := bank.PassageFor(q)
				assert.True(t, ok, "question %s passage %s", q.ID, q.PassageID)
			}
		}
	}
}

func TestParse_RejectsMalformedJSON(t *testing.T) {
	_, err := content.Parse([]byte("{not json"))
	assert.Error(t, err)
}

func TestParse_RejectsDanglingQuestionRef(t *testing.T) {
	data := []byte(`{
		"sequences": [],
		"decks": [{"id": "d1", "name": "D1", "questionIds": ["ghost"]}],
		"passages": [],
		"questions": [{"id": "q1", "question": "?", "options": ["a", "b"], "correctIndex": 0}]
	}`)

	_, err := content.Parse(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown question")
}

func TestParse_RejectsCorrectIndexOutOfRange(t *testing.T) {
	data := []byte(`{
		"sequences": [],
		"decks": [],
		"passages": [],
		"questions": [{"id": "q1", "question": "?", "options": ["a", "b"], "correctIndex": 2}]
	}`)

	_, err := content.Parse(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "correctIndex")
}

func TestParse_RejectsDuplicateQuestionID(t *testing.T) {
	data := []byte(`{
		"sequences": [],
		"decks": [],
		"passages": [],
		"questions": [
			{"id": "q1", "question": "?", "options": ["a", "b"], "correctIndex": 0},
			{"id": "q1", "question": "??", "options": ["a", "b"], "correctIndex": 1}
		]
	}`)

	_, err := content.Parse(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate question id")
}

func TestParse_RejectsUnknownPassage(t *testing.T) {
	data := []byte(`{
		"sequences": [],
		"decks": [],
		"passages": [],
		"questions": [{"id": "q1", "passageId": "ghost", "question": "?", "options": ["a", "b"], "correctIndex": 0}]
	}`)

	_, err := content.Parse(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown passage")
}
