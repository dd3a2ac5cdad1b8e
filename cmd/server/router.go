package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/vie2206/solo-legalight-sub007/internal/api"
	apiMiddleware "github.com/vie2206/solo-legalight-sub007/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Trace)

	studyHandler := api.NewStudyHandler(app.studyService, app.sessions, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Queue and deck configuration
		r.Get("/decks/{deckID}/queue", studyHandler.GetQueue)
		r.Put("/decks/{deckID}/settings", studyHandler.UpdateSettings)

		// Direct card operations
		r.Post("/cards/{cardID}/answer", studyHandler.AnswerCard)
		r.Post("/cards/{cardID}/reset", studyHandler.ResetCard)
		r.Post("/cards/{cardID}/suspend", studyHandler.SuspendCard)

		// Interactive study sessions
		r.Post("/decks/{deckID}/session", studyHandler.StartSession)
		r.Get("/sessions/{sessionID}", studyHandler.GetSession)
		r.Post("/sessions/{sessionID}/answer", studyHandler.AnswerSession)
		r.Delete("/sessions/{sessionID}", studyHandler.EndSession)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
