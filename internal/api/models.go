package api

import (
	"time"

	"github.com/vie2206/solo-legalight-sub007/internal/domain"
	"github.com/vie2206/solo-legalight-sub007/internal/service/study"
)

// CardResponse represents the response data for a card.
type CardResponse struct {
	ID            string    `json:"id"`
	NoteID        string    `json:"note_id"`
	DeckID        string    `json:"deck_id"`
	TemplateIndex int       `json:"template_index"`
	State         string    `json:"state"`
	Due           int64     `json:"due"`
	Interval      int       `json:"interval"`
	EaseFactor    int       `json:"ease_factor"`
	Reps          int       `json:"reps"`
	Lapses        int       `json:"lapses"`
	LearningStep  int       `json:"learning_step"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// QueueResponse lists the card IDs due for study, in presentation order.
type QueueResponse struct {
	DeckID  string   `json:"deck_id"`
	CardIDs []string `json:"card_ids"`
	Count   int      `json:"count"`
}

// ReviewLogResponse represents a single recorded review.
type ReviewLogResponse struct {
	ID           string    `json:"id"`
	CardID       string    `json:"card_id"`
	Quality      int       `json:"quality"`
	TimeTakenMs  int64     `json:"time_taken_ms"`
	PrevInterval int       `json:"prev_interval"`
	NewInterval  int       `json:"new_interval"`
	PrevEase     int       `json:"prev_ease"`
	NewEase      int       `json:"new_ease"`
	PrevState    string    `json:"prev_state"`
	NewState     string    `json:"new_state"`
	ReviewedAt   time.Time `json:"reviewed_at"`
}

// AnswerResponse carries the rescheduled card and the review that produced it.
type AnswerResponse struct {
	Card CardResponse      `json:"card"`
	Log  ReviewLogResponse `json:"log"`
}

// DeckConfigResponse represents a deck's scheduling configuration.
type DeckConfigResponse struct {
	DeckID             string    `json:"deck_id"`
	NewCardsPerDay     int       `json:"new_cards_per_day"`
	MaxReviewsPerDay   int       `json:"max_reviews_per_day"`
	LearningSteps      []int     `json:"learning_steps"`
	GraduatingInterval int       `json:"graduating_interval"`
	EasyInterval       int       `json:"easy_interval"`
	StartingEase       int       `json:"starting_ease"`
	EasyBonus          int       `json:"easy_bonus"`
	IntervalModifier   int       `json:"interval_modifier"`
	MaximumInterval    int       `json:"maximum_interval"`
	MinEase            int       `json:"min_ease"`
	MaxEase            int       `json:"max_ease"`
	LapseMultiplier    int       `json:"lapse_multiplier"`
	NewCardOrder       string    `json:"new_card_order"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// SessionResponse describes an active study session.
type SessionResponse struct {
	ID        string             `json:"id"`
	DeckID    string             `json:"deck_id"`
	Remaining int                `json:"remaining"`
	Current   string             `json:"current,omitempty"`
	Stats     study.SessionStats `json:"stats"`
}

// SessionAnswerResponse carries the review result plus the session's
// position after the answer.
type SessionAnswerResponse struct {
	Card      CardResponse       `json:"card"`
	Remaining int                `json:"remaining"`
	Next      string             `json:"next,omitempty"`
	Stats     study.SessionStats `json:"stats"`
}

func cardToResponse(card *domain.Card) CardResponse {
	return CardResponse{
		ID:            card.ID.String(),
		NoteID:        card.NoteID.String(),
		DeckID:        card.DeckID.String(),
		TemplateIndex: card.TemplateIndex,
		State:         string(card.State),
		Due:           card.Due,
		Interval:      card.Interval,
		EaseFactor:    card.EaseFactor,
		Reps:          card.Reps,
		Lapses:        card.Lapses,
		LearningStep:  card.LearningStep,
		CreatedAt:     card.CreatedAt,
		UpdatedAt:     card.UpdatedAt,
	}
}

func logToResponse(entry *domain.ReviewLog) ReviewLogResponse {
	return ReviewLogResponse{
		ID:           entry.ID.String(),
		CardID:       entry.CardID.String(),
		Quality:      int(entry.Quality),
		TimeTakenMs:  entry.TimeTakenMs,
		PrevInterval: entry.PrevInterval,
		NewInterval:  entry.NewInterval,
		PrevEase:     entry.PrevEase,
		NewEase:      entry.NewEase,
		PrevState:    string(entry.PrevState),
		NewState:     string(entry.NewState),
		ReviewedAt:   entry.ReviewedAt,
	}
}

func configToResponse(cfg *domain.DeckConfig) DeckConfigResponse {
	return DeckConfigResponse{
		DeckID:             cfg.DeckID.String(),
		NewCardsPerDay:     cfg.NewCardsPerDay,
		MaxReviewsPerDay:   cfg.MaxReviewsPerDay,
		LearningSteps:      cfg.LearningSteps,
		GraduatingInterval: cfg.GraduatingInterval,
		EasyInterval:       cfg.EasyInterval,
		StartingEase:       cfg.StartingEase,
		EasyBonus:          cfg.EasyBonus,
		IntervalModifier:   cfg.IntervalModifier,
		MaximumInterval:    cfg.MaximumInterval,
		MinEase:            cfg.MinEase,
		MaxEase:            cfg.MaxEase,
		LapseMultiplier:    cfg.LapseMultiplier,
		NewCardOrder:       string(cfg.NewCardOrder),
		UpdatedAt:          cfg.UpdatedAt,
	}
}

func sessionToResponse(sess *study.Session) SessionResponse {
	resp := SessionResponse{
		ID:        sess.ID().String(),
		DeckID:    sess.DeckID().String(),
		Remaining: sess.Remaining(),
		Stats:     sess.Stats(),
	}
	if current, ok := sess.Current(); ok {
		resp.Current = current.String()
	}
	return resp
}
