package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"moija/internal/delivery/http/helpers"
	"moija/internal/domain"
)

// JoinRequest is the request body for POST /sessions/{shareID}/participants.
type JoinRequest struct {
	Name string `json:"name"`
}

// Validate implements Validator.
func (j JoinRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(j.Name) == "" {
		errs = append(errs, "name is required")
	}
	return errs
}

// JoinSuccessResponse is the success response envelope for POST /sessions/{shareID}/participants (201).
type JoinSuccessResponse struct {
	Data  *domain.Participant `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// ListParticipantsSuccessResponse is the success response envelope for GET /sessions/{shareID}/participants (200).
type ListParticipantsSuccessResponse struct {
	Data  []*domain.Participant `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// ParticipantController handles participant endpoints.
type ParticipantController struct {
	Logger  *slog.Logger
	Service domain.ParticipantService
}

// NewParticipantController creates a ParticipantController with the given logger and service.
func NewParticipantController(logger *slog.Logger, svc domain.ParticipantService) *ParticipantController {
	return &ParticipantController{Logger: logger, Service: svc}
}

// Join godoc
// @Summary Join a session
// @Description Adds a participant with the given display name. Names are unique within a session and case-sensitive.
// @Tags participants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param shareID path string true "Share slug"
// @Param body body JoinRequest true "Display name"
// @Success 201 {object} controllers.JoinSuccessResponse "data contains the created participant"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sessions/{shareID}/participants [post]
func (c *ParticipantController) Join(w http.ResponseWriter, r *http.Request) {
	var req JoinRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	participant, err := c.Service.Join(r.Context(), r.PathValue("shareID"), req.Name)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "session not found")
		case errors.Is(err, domain.ErrConflict):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "name already taken in this session")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, participant)
}

// List godoc
// @Summary List session participants
// @Description Returns the session's participants in join order.
// @Tags participants
// @Produce json
// @Param shareID path string true "Share slug"
// @Success 200 {object} controllers.ListParticipantsSuccessResponse "data contains the participants"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sessions/{shareID}/participants [get]
func (c *ParticipantController) List(w http.ResponseWriter, r *http.Request) {
	participants, err := c.Service.ListBySession(r.Context(), r.PathValue("shareID"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "session not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, participants)
}
