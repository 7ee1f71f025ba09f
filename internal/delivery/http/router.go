// Package http wires the HTTP surface: routes, controllers, and middleware.
package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"moija/internal/delivery/http/controllers"
	"moija/internal/delivery/http/middleware"
	"moija/internal/domain"
)

// Controllers bundles everything the router mounts.
type Controllers struct {
	Auth        *controllers.AuthController
	Session     *controllers.SessionController
	Participant *controllers.ParticipantController
	Schedule    *controllers.ScheduleController
	Calendar    *controllers.CalendarController
	Invitation  *controllers.InvitationController
}

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/login", c.Auth.Login)

	// Sessions
	mux.HandleFunc("POST /sessions", c.Session.Create)
	mux.HandleFunc("GET /sessions/{shareID}", c.Session.Get)

	// Participants
	mux.HandleFunc("POST /sessions/{shareID}/participants", requireAuth(c.Participant.Join))
	mux.HandleFunc("GET /sessions/{shareID}/participants", c.Participant.List)

	// Schedule
	mux.HandleFunc("PUT /sessions/{shareID}/unavailabilities", requireAuth(c.Schedule.Replace))
	mux.HandleFunc("GET /sessions/{shareID}/unavailabilities", c.Schedule.List)
	mux.HandleFunc("GET /sessions/{shareID}/aggregates", c.Schedule.Aggregates)
	mux.HandleFunc("GET /sessions/{shareID}/recommendations.ics", c.Schedule.RecommendationsICS)
	mux.HandleFunc("GET /sessions/{shareID}/events", c.Schedule.Events)

	// Calendar import
	mux.HandleFunc("POST /gcal/exchange", c.Calendar.Exchange)
	mux.HandleFunc("POST /sessions/{shareID}/calendar-import", requireAuth(c.Calendar.Import))

	// Invitations
	mux.HandleFunc("POST /sessions/{shareID}/invitations", requireAuth(c.Invitation.Send))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
