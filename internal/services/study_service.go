package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/creatorblue32/bonsai-medical/internal/content"
	apperrors "github.com/creatorblue32/bonsai-medical/internal/errors"
	"github.com/creatorblue32/bonsai-medical/internal/logger"
	"github.com/creatorblue32/bonsai-medical/internal/models"
	"github.com/creatorblue32/bonsai-medical/internal/repository"
	"github.com/creatorblue32/bonsai-medical/internal/srs"
	"github.com/creatorblue32/bonsai-medical/internal/study"
	"github.com/creatorblue32/bonsai-medical/internal/worker"
)

// QuestionView is the current question as shown to the user. The correct
// index is deliberately absent; it is revealed only in the AnswerView.
type QuestionView struct {
	ID       string          `json:"id"`
	Prompt   string          `json:"question"`
	Options  []string        `json:"options"`
	Passage  *models.Passage `json:"passage,omitempty"`
	Position int             `json:"position"`
	Total    int             `json:"total"`
}

// AnswerView reveals the graded answer together with the teaching text.
type AnswerView struct {
	Result        models.AnswerResult    `json:"result"`
	CorrectIndex  int                    `json:"correct_index"`
	Explanation   string                 `json:"explanation,omitempty"`
	Reinforcement string                 `json:"reinforcement,omitempty"`
	Ratings       []srs.DifficultyOption `json:"ratings,omitempty"`
}

// SessionView summarizes a session for the client.
type SessionView struct {
	SessionID string           `json:"session_id"`
	DeckID    string           `json:"deck_id"`
	DeckName  string           `json:"deck_name"`
	Phase     string           `json:"phase"`
	Question  *QuestionView    `json:"question,omitempty"`
	Stats     models.DeckStats `json:"stats"`
}

// StudyService coordinates study sessions: one active session per profile,
// each owning its card-state map, with completed reviews flushed to storage
// in the background.
type StudyService interface {
	StartSession(ctx context.Context, profileID int64, deckID string) (*SessionView, error)
	SessionState(ctx context.Context, profileID int64) (*SessionView, error)
	SubmitAnswer(ctx context.Context, profileID int64, selectedIndex int, skip bool) (*AnswerView, error)
	RateDifficulty(ctx context.Context, profileID int64, rating srs.Rating) (*SessionView, error)
	ContinueAfterCorrect(ctx context.Context, profileID int64) (*SessionView, error)
	CloseSession(ctx context.Context, profileID int64) error
	DeckStats(ctx context.Context, profileID int64, deckID string) (*models.DeckStats, error)
	LibraryStats(ctx context.Context, profileID int64) ([]models.SequenceStats, error)
	ReviewHistory(ctx context.Context, profileID int64, filter repository.ReviewFilter) ([]models.ReviewRecord, error)
}

// sessionEntry pairs a session with its own lock. study.Session delegates
// synchronization to its caller, and chi serves requests concurrently, so
// every access to the session goes through this mutex.
type sessionEntry struct {
	mu      sync.Mutex
	session *study.Session
}

type studyService struct {
	bank      *content.Bank
	stateRepo repository.CardStateRepository
	logRepo   repository.ReviewLogRepository
	pool      *worker.Pool
	now       func() time.Time

	mu       sync.Mutex
	sessions map[int64]*sessionEntry
}

// StudyOption configures a StudyService.
type StudyOption func(*studyService)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) StudyOption {
	return func(s *studyService) { s.now = now }
}

// NewStudyService creates a new StudyService
func NewStudyService(bank *content.Bank, stateRepo repository.CardStateRepository, logRepo repository.ReviewLogRepository, pool *worker.Pool, opts ...StudyOption) StudyService {
	s := &studyService{
		bank:      bank,
		stateRepo: stateRepo,
		logRepo:   logRepo,
		pool:      pool,
		now:       time.Now,
		sessions:  make(map[int64]*sessionEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// loadStates fetches the profile's stored card states and fills in the
// zero-state for any bank question reviewed for the first time. Only
// reviewed states are ever persisted, so missing rows mean "new card".
func (s *studyService) loadStates(ctx context.Context, profileID int64, now time.Time) (map[string]models.CardState, error) {
	states, err := s.stateRepo.Load(ctx, profileID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	for _, q := range s.bank.Questions() {
		if _, ok := states[q.ID]; !ok {
			states[q.ID] = srs.NewCardState(q.ID, now)
		}
	}
	return states, nil
}

func (s *studyService) StartSession(ctx context.Context, profileID int64, deckID string) (*SessionView, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting session: profile_id=%d deck_id=%s", profileID, deckID)

	deck, ok := s.bank.Deck(deckID)
	if !ok {
		return nil, apperrors.NewNotFoundError("deck", deckID)
	}

	now := s.now()
	states, err := s.loadStates(ctx, profileID, now)
	if err != nil {
		return nil, err
	}

	session, err := study.NewSession(deck, s.bank.QuestionsByID(), states, now)
	if err != nil {
		log.Error("failed to build session: %v", err)
		return nil, apperrors.NewInternalError(err)
	}

	// The view is built before the session is published, so no other
	// request can touch it yet.
	view := s.view(session, now)

	s.mu.Lock()
	s.sessions[profileID] = &sessionEntry{session: session}
	s.mu.Unlock()

	_, total := session.Progress()
	log.Info("session started: profile_id=%d deck_id=%s queue=%d", profileID, deckID, total)
	return view, nil
}

func (s *studyService) entry(profileID int64) (*sessionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[profileID]
	if !ok {
		return nil, apperrors.NewNotFoundError("session", profileID)
	}
	return entry, nil
}

func (s *studyService) SessionState(ctx context.Context, profileID int64) (*SessionView, error) {
	entry, err := s.entry(profileID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return s.view(entry.session, s.now()), nil
}

func (s *studyService) SubmitAnswer(ctx context.Context, profileID int64, selectedIndex int, skip bool) (*AnswerView, error) {
	log := logger.FromContext(ctx)
	entry, err := s.entry(profileID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	session := entry.session

	question, ok := session.Current()
	if !ok {
		return nil, apperrors.NewInvalidStateError(study.ErrNotAnswering)
	}

	var result models.AnswerResult
	if skip {
		result, err = session.Skip()
	} else {
		if selectedIndex < 0 || selectedIndex >= len(question.Options) {
			return nil, apperrors.NewValidationError("selected_index", "out of range")
		}
		result, err = session.SubmitAnswer(selectedIndex)
	}
	if err != nil {
		return nil, apperrors.NewInvalidStateError(err)
	}

	log.Debug("answer submitted: question_id=%s correct=%t skipped=%t", result.QuestionID, result.IsCorrect, result.Skipped)

	view := &AnswerView{
		Result:        result,
		CorrectIndex:  question.CorrectIndex,
		Explanation:   question.Explanation,
		Reinforcement: question.Reinforcement,
	}
	if !result.IsCorrect {
		// Incorrect and skipped answers are rated by the user; a skip
		// reveals the answer, so only the recall ratings apply.
		view.Ratings = srs.DifficultyOptions
		if result.Skipped {
			view.Ratings = srs.DifficultyOptions[2:]
		}
	}
	return view, nil
}

func (s *studyService) RateDifficulty(ctx context.Context, profileID int64, rating srs.Rating) (*SessionView, error) {
	entry, err := s.entry(profileID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	session := entry.session

	pending, _ := session.Pending()
	now := s.now()
	updated, err := session.RateDifficulty(rating, now)
	if err != nil {
		return nil, s.mapSessionError(err)
	}

	s.flushReview(ctx, profileID, updated, pending, int(rating), now)
	return s.view(session, now), nil
}

func (s *studyService) ContinueAfterCorrect(ctx context.Context, profileID int64) (*SessionView, error) {
	entry, err := s.entry(profileID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	session := entry.session

	pending, _ := session.Pending()
	now := s.now()
	updated, err := session.ContinueAfterCorrect(now)
	if err != nil {
		return nil, s.mapSessionError(err)
	}

	s.flushReview(ctx, profileID, updated, pending, int(srs.RatingGood), now)
	return s.view(session, now), nil
}

func (s *studyService) CloseSession(ctx context.Context, profileID int64) error {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	entry, ok := s.sessions[profileID]
	delete(s.sessions, profileID)
	s.mu.Unlock()

	if !ok {
		return apperrors.NewNotFoundError("session", profileID)
	}

	// Final snapshot of the session's reviewed states, in one transaction.
	// Each review was already flushed individually; this covers flush jobs
	// that were dropped or still queued at close.
	entry.mu.Lock()
	snapshot := make(map[string]models.CardState)
	for _, qid := range entry.session.Deck.QuestionIDs {
		if state, ok := entry.session.State(qid); ok && state.ReviewCount > 0 {
			snapshot[qid] = state
		}
	}
	entry.mu.Unlock()

	if len(snapshot) > 0 {
		if err := s.stateRepo.SaveAll(ctx, profileID, snapshot); err != nil {
			log.Warn("failed to snapshot %d card states on close: %v", len(snapshot), err)
		}
	}

	log.Info("session closed: profile_id=%d", profileID)
	return nil
}

func (s *studyService) DeckStats(ctx context.Context, profileID int64, deckID string) (*models.DeckStats, error) {
	deck, ok := s.bank.Deck(deckID)
	if !ok {
		return nil, apperrors.NewNotFoundError("deck", deckID)
	}

	now := s.now()

	// Prefer the live session map so stats always match in-flight reviews.
	s.mu.Lock()
	entry, active := s.sessions[profileID]
	s.mu.Unlock()
	if active {
		entry.mu.Lock()
		if entry.session.Deck.ID == deckID {
			stats := entry.session.DeckStats(now)
			entry.mu.Unlock()
			return &stats, nil
		}
		entry.mu.Unlock()
	}

	states, err := s.loadStates(ctx, profileID, now)
	if err != nil {
		return nil, err
	}
	stats := study.StatsFor(deck, states, now)
	return &stats, nil
}

func (s *studyService) LibraryStats(ctx context.Context, profileID int64) ([]models.SequenceStats, error) {
	now := s.now()
	states, err := s.loadStates(ctx, profileID, now)
	if err != nil {
		return nil, err
	}

	var out []models.SequenceStats
	for _, seq := range s.bank.Sequences() {
		stats := models.SequenceStats{SequenceID: seq.ID}
		for _, deckID := range seq.DeckIDs {
			deck, ok := s.bank.Deck(deckID)
			if !ok {
				continue
			}
			stats.Decks = append(stats.Decks, study.StatsFor(deck, states, now))
		}
		out = append(out, stats)
	}
	return out, nil
}

func (s *studyService) ReviewHistory(ctx context.Context, profileID int64, filter repository.ReviewFilter) ([]models.ReviewRecord, error) {
	records, err := s.logRepo.ListByProfile(ctx, profileID, filter)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return records, nil
}

func (s *studyService) mapSessionError(err error) error {
	var unknownErr *study.UnknownQuestionError
	if errors.As(err, &unknownErr) {
		return apperrors.NewInternalError(err)
	}
	return apperrors.NewInvalidStateError(err)
}

func (s *studyService) view(session *study.Session, now time.Time) *SessionView {
	view := &SessionView{
		SessionID: session.ID,
		DeckID:    session.Deck.ID,
		DeckName:  session.Deck.Name,
		Phase:     session.Phase().String(),
		Stats:     session.DeckStats(now),
	}
	if question, ok := session.Current(); ok {
		position, total := session.Progress()
		qv := &QuestionView{
			ID:       question.ID,
			Prompt:   question.Prompt,
			Options:  question.Options,
			Position: position + 1,
			Total:    total,
		}
		if passage, ok := s.bank.PassageFor(question); ok {
			qv.Passage = &passage
		}
		view.Question = qv
	}
	return view
}
