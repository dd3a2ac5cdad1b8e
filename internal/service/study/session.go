package study

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vie2206/solo-legalight-sub007/internal/domain"
	"github.com/vie2206/solo-legalight-sub007/internal/store"
)

// SessionStats accumulates per-session study totals. Answered counts are
// bucketed by the state the card was in when it was presented.
type SessionStats struct {
	NewAnswered      int   `json:"new_answered"`
	LearningAnswered int   `json:"learning_answered"`
	ReviewAnswered   int   `json:"review_answered"`
	Correct          int   `json:"correct"`
	Incorrect        int   `json:"incorrect"`
	TotalTimeMs      int64 `json:"total_time_ms"`
}

// Session steps through a snapshot of a deck's study queue, one card at a
// time. The queue is captured when the session starts; cards answered outside
// the session (or concurrently within it) are detected through the recorder's
// version checks rather than by re-reading the queue.
//
// A Session is safe for concurrent use, though callers normally drive it from
// a single goroutine.
type Session struct {
	id     uuid.UUID
	deckID uuid.UUID
	svc    *Service

	mu    sync.Mutex
	queue []uuid.UUID
	pos   int
	stats SessionStats
}

// StartSession builds the deck's current study queue and wraps it in a new
// session. An empty queue is not an error; the session simply has nothing to
// present.
func (s *Service) StartSession(ctx context.Context, deckID uuid.UUID) (*Session, error) {
	queue, err := s.GetStudyQueue(ctx, deckID)
	if err != nil {
		return nil, err
	}

	return &Session{
		id:     uuid.New(),
		deckID: deckID,
		svc:    s,
		queue:  queue,
	}, nil
}

// ID returns the session's identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// DeckID returns the deck this session studies.
func (s *Session) DeckID() uuid.UUID { return s.deckID }

// Remaining reports how many cards are left in the session's queue,
// including the current one.
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue) - s.pos
}

// Current returns the card at the front of the session without consuming it.
// The second return is false when the session is exhausted.
func (s *Session) Current() (uuid.UUID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos >= len(s.queue) {
		return uuid.Nil, false
	}
	return s.queue[s.pos], true
}

// Answer records a review for the current card and advances the session.
// Returns ErrSessionExhausted when no cards remain. If the current card was
// suspended or deleted since the queue snapshot was taken, the session skips
// past it and returns the underlying error so the caller can move on to the
// next card.
func (s *Session) Answer(
	ctx context.Context,
	quality domain.Answer,
	timeTaken time.Duration,
) (*ReviewResult, error) {
	s.mu.Lock()
	if s.pos >= len(s.queue) {
		s.mu.Unlock()
		return nil, ErrSessionExhausted
	}
	cardID := s.queue[s.pos]
	s.mu.Unlock()

	res, err := s.svc.AnswerCard(ctx, cardID, quality, timeTaken)
	if err != nil {
		// A card that vanished or was suspended mid-session is skipped so
		// the session can continue with the rest of the queue.
		if errors.Is(err, ErrCardSuspended) || errors.Is(err, store.ErrNotFound) {
			s.mu.Lock()
			if s.pos < len(s.queue) && s.queue[s.pos] == cardID {
				s.pos++
			}
			s.mu.Unlock()
		}
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch res.PrevState {
	case domain.StateNew:
		s.stats.NewAnswered++
	case domain.StateLearning, domain.StateRelearning:
		s.stats.LearningAnswered++
	case domain.StateReview:
		s.stats.ReviewAnswered++
	}
	if quality.Correct() {
		s.stats.Correct++
	} else {
		s.stats.Incorrect++
	}
	s.stats.TotalTimeMs += timeTaken.Milliseconds()

	if s.pos < len(s.queue) && s.queue[s.pos] == cardID {
		s.pos++
	}
	return res, nil
}

// Stats returns a copy of the session's accumulated totals.
func (s *Session) Stats() SessionStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// SessionManager tracks active study sessions by ID. Sessions live in memory
// only; a restart drops them, which is fine because the scheduling state they
// mutate is already persisted per answer.
type SessionManager struct {
	svc *Service

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

// NewSessionManager creates a session manager backed by the given service.
func NewSessionManager(svc *Service) *SessionManager {
	if svc == nil {
		panic("study: NewSessionManager called with nil service")
	}
	return &SessionManager{
		svc:      svc,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Start creates a session for the deck and registers it.
func (m *SessionManager) Start(ctx context.Context, deckID uuid.UUID) (*Session, error) {
	sess, err := m.svc.StartSession(ctx, deckID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[sess.ID()] = sess
	m.mu.Unlock()
	return sess, nil
}

// Get looks up an active session. Returns ErrSessionNotFound for unknown or
// already-ended sessions.
func (m *SessionManager) Get(id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// End removes a session from the manager and returns its final stats.
// Returns ErrSessionNotFound for unknown sessions.
func (m *SessionManager) End(id uuid.UUID) (SessionStats, error) {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return SessionStats{}, ErrSessionNotFound
	}
	return sess.Stats(), nil
}
