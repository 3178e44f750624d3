package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/creatorblue32/bonsai-medical/internal/models"
)

// libraryEntry pairs one sequence's static content with the active
// profile's progress stats for its decks.
type libraryEntry struct {
	Sequence models.Sequence    `json:"sequence"`
	Decks    []models.Deck      `json:"decks"`
	Stats    []models.DeckStats `json:"stats"`
}

func (s *Server) handleLibrary(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	sequenceStats, err := s.StudyService.LibraryStats(r.Context(), profile.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	statsBySequence := make(map[string][]models.DeckStats, len(sequenceStats))
	for _, ss := range sequenceStats {
		statsBySequence[ss.SequenceID] = ss.Decks
	}

	entries := make([]libraryEntry, 0, len(s.Bank.Sequences()))
	for _, seq := range s.Bank.Sequences() {
		entry := libraryEntry{
			Sequence: seq,
			Stats:    statsBySequence[seq.ID],
		}
		for _, deckID := range seq.DeckIDs {
			if deck, ok := s.Bank.Deck(deckID); ok {
				entry.Decks = append(entry.Decks, deck)
			}
		}
		entries = append(entries, entry)
	}

	respond(w, r, http.StatusOK, map[string]any{"library": entries})
}

func (s *Server) handleDeckStats(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())
	deckID := chi.URLParam(r, "id")

	stats, err := s.StudyService.DeckStats(r.Context(), profile.ID, deckID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, stats)
}
