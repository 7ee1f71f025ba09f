package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"moija/internal/delivery/http/helpers"
	"moija/internal/delivery/http/middleware"
	"moija/internal/domain"
)

// SendInvitationsRequest is the request body for POST /sessions/{shareID}/invitations.
type SendInvitationsRequest struct {
	Emails []string `json:"emails"`
}

// Validate implements Validator.
func (s SendInvitationsRequest) Validate() []string {
	var errs []string
	if len(s.Emails) == 0 {
		errs = append(errs, "emails is required")
	}
	return errs
}

// SendInvitationsResponse is the response body for POST /sessions/{shareID}/invitations.
type SendInvitationsResponse struct {
	Sent int `json:"sent"`
}

// SendInvitationsSuccessResponse is the success response envelope for POST /sessions/{shareID}/invitations (200).
type SendInvitationsSuccessResponse struct {
	Data  SendInvitationsResponse `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// InvitationController handles share-link invitation emails.
type InvitationController struct {
	Logger  *slog.Logger
	Service domain.InvitationService
}

// NewInvitationController creates an InvitationController with the given logger and service.
func NewInvitationController(logger *slog.Logger, svc domain.InvitationService) *InvitationController {
	return &InvitationController{Logger: logger, Service: svc}
}

// Send godoc
// @Summary Email the session share link
// @Description Sends the session's share link to each address. The inviter name comes from the Bearer token. Requires auth.
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param shareID path string true "Share slug"
// @Param body body SendInvitationsRequest true "Recipient addresses"
// @Success 200 {object} controllers.SendInvitationsSuccessResponse "data contains the delivered count"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sessions/{shareID}/invitations [post]
func (c *InvitationController) Send(w http.ResponseWriter, r *http.Request) {
	inviter, ok := middleware.ParticipantNameFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req SendInvitationsRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	sent, err := c.Service.SendInvitations(r.Context(), r.PathValue("shareID"), inviter, req.Emails)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "session not found")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, SendInvitationsResponse{Sent: sent})
}
