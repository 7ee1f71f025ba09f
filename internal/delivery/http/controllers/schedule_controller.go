package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"moija/internal/delivery/http/helpers"
	"moija/internal/domain"
	"moija/internal/export"
)

// sseHeartbeat is how often an idle event stream gets a keep-alive comment.
const sseHeartbeat = 15 * time.Second

// ReplaceUnavailabilityRequest is the request body for PUT /sessions/{shareID}/unavailabilities.
// Slots is the participant's complete unavailability set; it replaces whatever
// was stored before. Final marks the end of an edit gesture and forces an
// immediate write; otherwise the snapshot is staged and written after a short
// quiet period.
type ReplaceUnavailabilityRequest struct {
	ParticipantID string        `json:"participant_id"`
	Slots         []domain.Slot `json:"slots"`
	Final         bool          `json:"final"`
}

// Validate implements Validator.
func (r ReplaceUnavailabilityRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.ParticipantID) == "" {
		errs = append(errs, "participant_id is required")
	}
	return errs
}

// ListUnavailabilitySuccessResponse is the success response envelope for GET /sessions/{shareID}/unavailabilities (200).
type ListUnavailabilitySuccessResponse struct {
	Data  []*domain.ParticipantUnavailability `json:"data"`
	Error *helpers.APIError                   `json:"error"`
}

// AggregatesSuccessResponse is the success response envelope for GET /sessions/{shareID}/aggregates (200).
type AggregatesSuccessResponse struct {
	Data  *domain.Aggregates `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// ScheduleController handles unavailability writes, derived aggregate reads,
// the recommendation export, and the change event stream.
type ScheduleController struct {
	Logger   *slog.Logger
	Service  domain.ScheduleService
	Sessions domain.SessionService
	Notifier domain.ChangeNotifier
}

// NewScheduleController creates a ScheduleController.
func NewScheduleController(logger *slog.Logger, svc domain.ScheduleService, sessions domain.SessionService, notifier domain.ChangeNotifier) *ScheduleController {
	return &ScheduleController{
		Logger:   logger,
		Service:  svc,
		Sessions: sessions,
		Notifier: notifier,
	}
}

// Replace godoc
// @Summary Replace a participant's unavailability
// @Description Stores the participant's complete unavailability slot set, replacing the previous one. Non-final writes are debounced server-side; the response only confirms the snapshot was accepted.
// @Tags schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param shareID path string true "Share slug"
// @Param body body ReplaceUnavailabilityRequest true "Full slot set"
// @Success 202 {object} helpers.APIResponse "snapshot accepted"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sessions/{shareID}/unavailabilities [put]
func (c *ScheduleController) Replace(w http.ResponseWriter, r *http.Request) {
	var req ReplaceUnavailabilityRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	err := c.Service.Replace(r.Context(), r.PathValue("shareID"), req.ParticipantID, req.Slots, req.Final)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "session or participant not found")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusAccepted, map[string]bool{"accepted": true})
}

// List godoc
// @Summary List stored unavailability
// @Description Returns every participant of the session with their stored slots. An empty slot set means the participant has not submitted yet.
// @Tags schedule
// @Produce json
// @Param shareID path string true "Share slug"
// @Success 200 {object} controllers.ListUnavailabilitySuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sessions/{shareID}/unavailabilities [get]
func (c *ScheduleController) List(w http.ResponseWriter, r *http.Request) {
	list, err := c.Service.ListUnavailabilities(r.Context(), r.PathValue("shareID"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "session not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, list)
}

// Aggregates godoc
// @Summary Get the derived availability view
// @Description Returns the day × hour heatmap and the ranked recommended blocks, recomputed from current stored state.
// @Tags schedule
// @Produce json
// @Param shareID path string true "Share slug"
// @Success 200 {object} controllers.AggregatesSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sessions/{shareID}/aggregates [get]
func (c *ScheduleController) Aggregates(w http.ResponseWriter, r *http.Request) {
	agg, err := c.Service.ComputeAggregates(r.Context(), r.PathValue("shareID"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "session not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, agg)
}

// RecommendationsICS godoc
// @Summary Download recommended blocks as iCalendar
// @Description Renders the current top recommended blocks as an .ics file, one VEVENT per block.
// @Tags schedule
// @Produce text/calendar
// @Param shareID path string true "Share slug"
// @Success 200 {string} string "iCalendar payload"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sessions/{shareID}/recommendations.ics [get]
func (c *ScheduleController) RecommendationsICS(w http.ResponseWriter, r *http.Request) {
	shareID := r.PathValue("shareID")
	session, err := c.Sessions.GetSessionByShareID(r.Context(), shareID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "session not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	agg, err := c.Service.ComputeAggregates(r.Context(), shareID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	payload, err := export.RecommendedBlocksICS(session, agg.Blocks, session.Location())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "moija-"+shareID+".ics"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(payload))
}

// Events godoc
// @Summary Subscribe to session change events
// @Description Server-sent event stream. Emits a "change" event whenever the session's stored state changes; clients re-fetch aggregates on each event. Keep-alive comments are sent while idle.
// @Tags schedule
// @Produce text/event-stream
// @Param shareID path string true "Share slug"
// @Success 200 {string} string "event stream"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /sessions/{shareID}/events [get]
func (c *ScheduleController) Events(w http.ResponseWriter, r *http.Request) {
	session, err := c.Sessions.GetSessionByShareID(r.Context(), r.PathValue("shareID"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "session not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	signals, unsubscribe := c.Notifier.Subscribe(session.ID)
	defer unsubscribe()

	fmt.Fprint(w, "event: ready\ndata: {}\n\n")
	flusher.Flush()

	heartbeat := time.NewTicker(sseHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case _, open := <-signals:
			if !open {
				return
			}
			fmt.Fprint(w, "event: change\ndata: {}\n\n")
			flusher.Flush()
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}
