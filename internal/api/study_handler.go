package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vie2206/solo-legalight-sub007/internal/api/shared"
	"github.com/vie2206/solo-legalight-sub007/internal/domain"
	"github.com/vie2206/solo-legalight-sub007/internal/platform/logger"
	"github.com/vie2206/solo-legalight-sub007/internal/service/study"
)

// StudyService is the slice of the study service the handler depends on.
type StudyService interface {
	GetStudyQueue(ctx context.Context, deckID uuid.UUID) ([]uuid.UUID, error)
	AnswerCard(
		ctx context.Context,
		cardID uuid.UUID,
		quality domain.Answer,
		timeTaken time.Duration,
	) (*study.ReviewResult, error)
	ResetCard(ctx context.Context, cardID uuid.UUID) (*domain.Card, error)
	SuspendCard(ctx context.Context, cardID uuid.UUID, suspended bool) (*domain.Card, error)
	UpdateDeckSettings(
		ctx context.Context,
		deckID uuid.UUID,
		patch study.DeckConfigPatch,
	) (*domain.DeckConfig, error)
}

// SessionManager is the slice of the session manager the handler depends on.
type SessionManager interface {
	Start(ctx context.Context, deckID uuid.UUID) (*study.Session, error)
	Get(id uuid.UUID) (*study.Session, error)
	End(id uuid.UUID) (study.SessionStats, error)
}

// StudyHandler handles study-related HTTP requests.
type StudyHandler struct {
	service  StudyService
	sessions SessionManager
	logger   *slog.Logger
}

// NewStudyHandler creates a new StudyHandler.
func NewStudyHandler(
	service StudyService,
	sessions SessionManager,
	logger *slog.Logger,
) *StudyHandler {
	if service == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("service cannot be nil for StudyHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for StudyHandler")
	}

	return &StudyHandler{
		service:  service,
		sessions: sessions,
		logger:   logger.With(slog.String("component", "study_handler")),
	}
}

// pathUUID extracts a UUID path parameter, writing a 400 response itself
// when the parameter is missing or malformed.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing "+name+" parameter")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

// GetQueue handles GET /decks/{deckID}/queue requests.
// It returns the deck's study queue for today: due learning cards, then due
// reviews, then the day's new-card allowance.
func (h *StudyHandler) GetQueue(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	deckID, ok := pathUUID(w, r, "deckID")
	if !ok {
		return
	}

	queue, err := h.service.GetStudyQueue(r.Context(), deckID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	ids := make([]string, len(queue))
	for i, id := range queue {
		ids[i] = id.String()
	}

	log.Debug("built study queue",
		slog.String("deck_id", deckID.String()),
		slog.Int("count", len(ids)))
	shared.RespondWithJSON(w, r, http.StatusOK, QueueResponse{
		DeckID:  deckID.String(),
		CardIDs: ids,
		Count:   len(ids),
	})
}

// AnswerRequest represents the request body for answering a card.
type AnswerRequest struct {
	Quality     int   `json:"quality"      validate:"required,min=1,max=4"`
	TimeTakenMs int64 `json:"time_taken_ms" validate:"min=0"`
}

// AnswerCard handles POST /cards/{cardID}/answer requests.
// It records a review and reschedules the card.
func (h *StudyHandler) AnswerCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	cardID, ok := pathUUID(w, r, "cardID")
	if !ok {
		return
	}

	var req AnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	res, err := h.service.AnswerCard(
		r.Context(),
		cardID,
		domain.Answer(req.Quality),
		time.Duration(req.TimeTakenMs)*time.Millisecond,
	)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("answer recorded",
		slog.String("card_id", cardID.String()),
		slog.Int("quality", req.Quality),
		slog.String("new_state", string(res.Card.State)))
	shared.RespondWithJSON(w, r, http.StatusOK, AnswerResponse{
		Card: cardToResponse(res.Card),
		Log:  logToResponse(res.Log),
	})
}

// ResetCard handles POST /cards/{cardID}/reset requests.
// It reverts a card to its as-created scheduling state.
func (h *StudyHandler) ResetCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	cardID, ok := pathUUID(w, r, "cardID")
	if !ok {
		return
	}

	card, err := h.service.ResetCard(r.Context(), cardID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("card reset", slog.String("card_id", cardID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// SuspendRequest represents the request body for toggling card suspension.
type SuspendRequest struct {
	Suspended *bool `json:"suspended" validate:"required"`
}

// SuspendCard handles POST /cards/{cardID}/suspend requests.
func (h *StudyHandler) SuspendCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	cardID, ok := pathUUID(w, r, "cardID")
	if !ok {
		return
	}

	var req SuspendRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	card, err := h.service.SuspendCard(r.Context(), cardID, *req.Suspended)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("card suspension toggled",
		slog.String("card_id", cardID.String()),
		slog.Bool("suspended", *req.Suspended))
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// UpdateSettings handles PUT /decks/{deckID}/settings requests.
// Absent fields leave the stored value unchanged.
func (h *StudyHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	deckID, ok := pathUUID(w, r, "deckID")
	if !ok {
		return
	}

	var patch study.DeckConfigPatch
	if err := shared.DecodeJSON(r, &patch); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	cfg, err := h.service.UpdateDeckSettings(r.Context(), deckID, patch)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("deck settings updated", slog.String("deck_id", deckID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, configToResponse(cfg))
}

// StartSession handles POST /decks/{deckID}/session requests.
// It snapshots the deck's study queue into a new session.
func (h *StudyHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	deckID, ok := pathUUID(w, r, "deckID")
	if !ok {
		return
	}

	sess, err := h.sessions.Start(r.Context(), deckID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("session started",
		slog.String("session_id", sess.ID().String()),
		slog.String("deck_id", deckID.String()),
		slog.Int("remaining", sess.Remaining()))
	shared.RespondWithJSON(w, r, http.StatusCreated, sessionToResponse(sess))
}

// GetSession handles GET /sessions/{sessionID} requests.
func (h *StudyHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := pathUUID(w, r, "sessionID")
	if !ok {
		return
	}

	sess, err := h.sessions.Get(sessionID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(sess))
}

// AnswerSession handles POST /sessions/{sessionID}/answer requests.
// It answers the session's current card and advances to the next one.
func (h *StudyHandler) AnswerSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	sessionID, ok := pathUUID(w, r, "sessionID")
	if !ok {
		return
	}

	var req AnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	sess, err := h.sessions.Get(sessionID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	res, err := sess.Answer(
		r.Context(),
		domain.Answer(req.Quality),
		time.Duration(req.TimeTakenMs)*time.Millisecond,
	)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	resp := SessionAnswerResponse{
		Card:      cardToResponse(res.Card),
		Remaining: sess.Remaining(),
		Stats:     sess.Stats(),
	}
	if next, ok := sess.Current(); ok {
		resp.Next = next.String()
	}

	log.Debug("session answer recorded",
		slog.String("session_id", sessionID.String()),
		slog.Int("remaining", resp.Remaining))
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// EndSession handles DELETE /sessions/{sessionID} requests.
// It removes the session and returns its final stats.
func (h *StudyHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	sessionID, ok := pathUUID(w, r, "sessionID")
	if !ok {
		return
	}

	stats, err := h.sessions.End(sessionID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("session ended", slog.String("session_id", sessionID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}
