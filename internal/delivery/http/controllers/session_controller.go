package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"moija/internal/delivery/http/helpers"
	"moija/internal/domain"
)

// CreateSessionRequest is the request body for POST /sessions.
type CreateSessionRequest struct {
	Timezone  string `json:"timezone"`
	StartDate string `json:"start_date"` // "2006-01-02"
	EndDate   string `json:"end_date"`   // "2006-01-02"
}

// Validate implements Validator.
func (c CreateSessionRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.StartDate) == "" {
		errs = append(errs, "start_date is required")
	} else if _, err := time.Parse(domain.DayFormat, c.StartDate); err != nil {
		errs = append(errs, "start_date must be formatted as 2006-01-02")
	}
	if strings.TrimSpace(c.EndDate) == "" {
		errs = append(errs, "end_date is required")
	} else if _, err := time.Parse(domain.DayFormat, c.EndDate); err != nil {
		errs = append(errs, "end_date must be formatted as 2006-01-02")
	}
	return errs
}

// CreateSessionSuccessResponse is the success response envelope for POST /sessions (201).
type CreateSessionSuccessResponse struct {
	Data  *domain.Session   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// GetSessionSuccessResponse is the success response envelope for GET /sessions/{shareID} (200).
type GetSessionSuccessResponse struct {
	Data  *domain.Session   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// SessionController handles session lifecycle endpoints.
type SessionController struct {
	Logger  *slog.Logger
	Service domain.SessionService
}

// NewSessionController creates a SessionController with the given logger and service.
func NewSessionController(logger *slog.Logger, svc domain.SessionService) *SessionController {
	return &SessionController{Logger: logger, Service: svc}
}

// Create godoc
// @Summary Create a scheduling session
// @Description Creates a session over an inclusive date range (at most 31 days) and returns it with its public share slug.
// @Tags sessions
// @Accept json
// @Produce json
// @Param body body CreateSessionRequest true "Session data"
// @Success 201 {object} controllers.CreateSessionSuccessResponse "data contains the created session"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sessions [post]
func (c *SessionController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	start, _ := time.Parse(domain.DayFormat, req.StartDate)
	end, _ := time.Parse(domain.DayFormat, req.EndDate)

	session, err := c.Service.CreateSession(r.Context(), req.Timezone, start, end)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, session)
}

// Get godoc
// @Summary Get a session by share slug
// @Description Returns the session identified by its public share slug.
// @Tags sessions
// @Produce json
// @Param shareID path string true "Share slug"
// @Success 200 {object} controllers.GetSessionSuccessResponse "data contains the session"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sessions/{shareID} [get]
func (c *SessionController) Get(w http.ResponseWriter, r *http.Request) {
	shareID := r.PathValue("shareID")
	session, err := c.Service.GetSessionByShareID(r.Context(), shareID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "session not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, session)
}
