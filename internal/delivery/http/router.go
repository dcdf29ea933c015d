package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"techcalendar/internal/delivery/http/controllers"
	"techcalendar/internal/delivery/http/middleware"
	"techcalendar/internal/domain"
	"techcalendar/internal/services"
)

// NewRouter initializes the HTTP router with all application routes.
// Staff routes are wrapped with bearer-token auth scoped to the calendar API.
func NewRouter(eventController *controllers.EventController, authController *controllers.AuthController, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	staff := middleware.RequireAuth(verifier, services.TokenScope, logger)

	// Public
	mux.HandleFunc("GET /events", eventController.ListEvents)
	mux.HandleFunc("GET /events/calendar", eventController.Calendar)
	mux.HandleFunc("GET /events/{eventID}", eventController.GetEventByID)
	mux.HandleFunc("GET /events/{eventID}/tags", eventController.ListEventTags)
	mux.HandleFunc("POST /events/submit", eventController.SubmitEvent)
	mux.HandleFunc("GET /tags", eventController.ListTags)

	// Staff
	mux.HandleFunc("GET /events/submit/review", staff(eventController.ListReviewQueue))
	mux.HandleFunc("POST /events/submit/{eventID}", staff(eventController.ReviewEvent))
	mux.HandleFunc("PUT /events/{eventID}", staff(eventController.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", staff(eventController.DeleteEvent))

	// Auth
	mux.HandleFunc("POST /auth/token", authController.IssueToken)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
