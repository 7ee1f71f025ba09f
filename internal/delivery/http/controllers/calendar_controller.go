package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"moija/internal/delivery/http/helpers"
	"moija/internal/domain"
)

// ExchangeRequest is the request body for POST /gcal/exchange.
type ExchangeRequest struct {
	Code string `json:"code"`
}

// Validate implements Validator.
func (e ExchangeRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(e.Code) == "" {
		errs = append(errs, "code is required")
	}
	return errs
}

// ExchangeResponse is the response body for POST /gcal/exchange.
type ExchangeResponse struct {
	AccessToken string `json:"access_token"`
}

// ExchangeSuccessResponse is the success response envelope for POST /gcal/exchange (200).
type ExchangeSuccessResponse struct {
	Data  ExchangeResponse  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ImportRequest is the request body for POST /sessions/{shareID}/calendar-import.
type ImportRequest struct {
	ParticipantID string `json:"participant_id"`
	AccessToken   string `json:"access_token"`
}

// Validate implements Validator.
func (i ImportRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(i.ParticipantID) == "" {
		errs = append(errs, "participant_id is required")
	}
	if strings.TrimSpace(i.AccessToken) == "" {
		errs = append(errs, "access_token is required")
	}
	return errs
}

// ImportSuccessResponse is the success response envelope for POST /sessions/{shareID}/calendar-import (200).
type ImportSuccessResponse struct {
	Data  *domain.CalendarImportResult `json:"data"`
	Error *helpers.APIError            `json:"error"`
}

// CalendarController handles the Google Calendar OAuth exchange and the
// calendar-to-unavailability import.
type CalendarController struct {
	Logger  *slog.Logger
	Service domain.CalendarImportService
}

// NewCalendarController creates a CalendarController with the given logger and service.
func NewCalendarController(logger *slog.Logger, svc domain.CalendarImportService) *CalendarController {
	return &CalendarController{Logger: logger, Service: svc}
}

// Exchange godoc
// @Summary Exchange an OAuth code for an access token
// @Description Exchanges a Google OAuth authorization code for a calendar access token. The token stays with the client; the server never stores it.
// @Tags calendar
// @Accept json
// @Produce json
// @Param body body ExchangeRequest true "Authorization code"
// @Success 200 {object} controllers.ExchangeSuccessResponse "data contains the access token"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 502 {object} helpers.APIResponse "error.code: internal_error"
// @Router /gcal/exchange [post]
func (c *CalendarController) Exchange(w http.ResponseWriter, r *http.Request) {
	var req ExchangeRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	token, err := c.Service.ExchangeCode(r.Context(), req.Code)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusBadGateway, helpers.ErrCodeInternalError, "authorization code exchange failed")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ExchangeResponse{AccessToken: token})
}

// Import godoc
// @Summary Import busy calendar events as unavailability
// @Description Fetches the participant's busy events over the session's date range, maps them onto the grid, and replaces their stored unavailability with the result. A failed fetch changes nothing.
// @Tags calendar
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param shareID path string true "Share slug"
// @Param body body ImportRequest true "Participant and access token"
// @Success 200 {object} controllers.ImportSuccessResponse "data contains the imported slots, spans, and conflicts"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 502 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sessions/{shareID}/calendar-import [post]
func (c *CalendarController) Import(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Service.Import(r.Context(), r.PathValue("shareID"), req.ParticipantID, req.AccessToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "session or participant not found")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusBadGateway, helpers.ErrCodeInternalError, "calendar import failed")
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}
