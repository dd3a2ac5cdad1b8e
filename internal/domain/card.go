package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// State is the scheduling bucket a card currently occupies. It is the single
// authoritative field; there is no separate card-type/queue pair.
type State string

// Possible card states.
const (
	StateNew        State = "new"
	StateLearning   State = "learning"
	StateReview     State = "review"
	StateRelearning State = "relearning"
	StateSuspended  State = "suspended"
)

// Valid reports whether s is one of the defined card states.
func (s State) Valid() bool {
	switch s {
	case StateNew, StateLearning, StateReview, StateRelearning, StateSuspended:
		return true
	default:
		return false
	}
}

// Learning reports whether the state is an intraday learning phase.
func (s State) Learning() bool {
	return s == StateLearning || s == StateRelearning
}

// Answer is the quality grade a learner assigns when reviewing a card.
type Answer int

// Possible answer grades.
const (
	AnswerAgain Answer = 1
	AnswerHard  Answer = 2
	AnswerGood  Answer = 3
	AnswerEasy  Answer = 4
)

// Valid reports whether a is one of the four defined grades.
func (a Answer) Valid() bool {
	return a >= AnswerAgain && a <= AnswerEasy
}

// Correct reports whether the answer counts as a successful recall.
func (a Answer) Correct() bool {
	return a >= AnswerGood
}

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardNoteIDEmpty is returned when a card's note ID is empty or nil.
	ErrCardNoteIDEmpty = errors.New("card note ID cannot be empty")

	// ErrCardDeckIDEmpty is returned when a card's deck ID is empty or nil.
	ErrCardDeckIDEmpty = errors.New("card deck ID cannot be empty")

	// ErrCardInvalidState is returned when a card's state is not a defined value.
	ErrCardInvalidState = errors.New("card state is not valid")

	// ErrCardInvalidInterval is returned when a card's interval is negative.
	ErrCardInvalidInterval = errors.New("card interval cannot be negative")

	// ErrCardInvalidEase is returned when a card's ease factor is not positive.
	ErrCardInvalidEase = errors.New("card ease factor must be positive")

	// ErrCardInvalidCounters is returned when reps or lapses are negative.
	ErrCardInvalidCounters = errors.New("card reps and lapses cannot be negative")
)

// Card is one reviewable prompt/answer unit generated from a note and a
// template position within that note's layout.
//
// Due carries dual semantics: for StateNew, StateReview and StateSuspended it
// is a day number (days since the Unix epoch, UTC); for StateLearning and
// StateRelearning it is an absolute Unix timestamp in seconds. EaseFactor is a
// fixed-point integer scaled by 1000 (2500 = 250%) so repeated multiplications
// never accumulate floating drift.
type Card struct {
	ID            uuid.UUID `json:"id"`
	NoteID        uuid.UUID `json:"note_id"`
	DeckID        uuid.UUID `json:"deck_id"`
	TemplateIndex int       `json:"template_index"`
	State         State     `json:"state"`
	// PriorState remembers the pre-suspension state so unsuspending can
	// restore it. Meaningful only while State is StateSuspended.
	PriorState State `json:"prior_state,omitempty"`
	Due        int64 `json:"due"`
	Interval   int   `json:"interval"`
	EaseFactor int   `json:"ease_factor"`
	Reps       int   `json:"reps"`
	Lapses     int   `json:"lapses"`
	// LearningStep is the current position within the deck's learning-step
	// sequence. Meaningful only while State is learning or relearning.
	LearningStep int `json:"learning_step"`
	// Version guards concurrent writes; it is bumped on every persisted
	// update and checked by conditional store updates.
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCard creates a card in its creation state: new, zero interval, the deck's
// starting ease and due immediately. Returns an error if validation fails.
func NewCard(noteID, deckID uuid.UUID, templateIndex, startingEase int, now time.Time) (*Card, error) {
	now = now.UTC()
	card := &Card{
		ID:            uuid.New(),
		NoteID:        noteID,
		DeckID:        deckID,
		TemplateIndex: templateIndex,
		State:         StateNew,
		Due:           DayNumber(now),
		Interval:      0,
		EaseFactor:    startingEase,
		Reps:          0,
		Lapses:        0,
		LearningStep:  0,
		Version:       0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.NoteID == uuid.Nil {
		return ErrCardNoteIDEmpty
	}

	if c.DeckID == uuid.Nil {
		return ErrCardDeckIDEmpty
	}

	if !c.State.Valid() {
		return ErrCardInvalidState
	}

	if c.State == StateSuspended && !c.PriorState.Valid() {
		return ErrCardInvalidState
	}

	if c.Interval < 0 {
		return ErrCardInvalidInterval
	}

	if c.EaseFactor <= 0 {
		return ErrCardInvalidEase
	}

	if c.Reps < 0 || c.Lapses < 0 {
		return ErrCardInvalidCounters
	}

	return nil
}

// DueAt reports whether the card is due at the given time, honoring the dual
// due semantics. Suspended cards are never due.
func (c *Card) DueAt(now time.Time) bool {
	switch c.State {
	case StateLearning, StateRelearning:
		return c.Due <= now.UTC().Unix()
	case StateNew, StateReview:
		return c.Due <= DayNumber(now)
	default:
		return false
	}
}

// DayNumber converts a point in time to its day number: whole days elapsed
// since the Unix epoch, in UTC.
func DayNumber(t time.Time) int64 {
	return t.UTC().Unix() / (24 * 60 * 60)
}
