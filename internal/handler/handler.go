// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Shivanand-hulikatti/event-listing/internal/calendar"
	"github.com/Shivanand-hulikatti/event-listing/internal/model"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Service is the subset of the service layer the handlers call.
type Service interface {
	CreateEvent(ctx context.Context, req model.CreateEventRequest) (*model.Event, error)
	UpdateEvent(ctx context.Context, slug string, req model.UpdateEventRequest) (*model.Event, error)
	GetEvent(ctx context.Context, slug string) (*model.Event, error)
	ListEvents(ctx context.Context, filter model.EventFilter) ([]model.Event, error)
	CreateBooking(ctx context.Context, req model.CreateBookingRequest) (*model.Booking, error)
	UpdateBooking(ctx context.Context, id string, req model.UpdateBookingRequest) (*model.Booking, error)
	ListBookings(ctx context.Context, slug string) ([]model.Booking, error)
}

// EventHandler holds all HTTP handlers for the event listing API.
type EventHandler struct {
	svc     Service
	loc     *time.Location
	baseURL string
	logger  *zap.Logger
}

// NewEventHandler constructs an EventHandler. loc and baseURL are used for
// calendar exports.
func NewEventHandler(svc Service, loc *time.Location, baseURL string, logger *zap.Logger) *EventHandler {
	return &EventHandler{svc: svc, loc: loc, baseURL: baseURL, logger: logger}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string, details ...string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg, Code: code, Details: details})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// fieldErrors collects every *model.FieldError inside err, including those
// joined with errors.Join.
func fieldErrors(err error) []*model.FieldError {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []*model.FieldError
		for _, e := range joined.Unwrap() {
			out = append(out, fieldErrors(e)...)
		}
		return out
	}
	var fe *model.FieldError
	if errors.As(err, &fe) {
		return []*model.FieldError{fe}
	}
	return nil
}

// writeServiceError maps a service error onto an HTTP status.
func (h *EventHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, model.ErrReferentialIntegrity):
		writeError(w, http.StatusUnprocessableEntity, "referential_integrity", "referenced event does not exist")
	case errors.Is(err, model.ErrUniquenessViolation):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, model.ErrSlugExhausted):
		writeError(w, http.StatusConflict, "slug_exhausted", err.Error())
	case errors.Is(err, model.ErrInvalidDate),
		errors.Is(err, model.ErrInvalidTime),
		errors.Is(err, model.ErrMissingRequiredField),
		errors.Is(err, model.ErrInvalidEnumValue),
		errors.Is(err, model.ErrInvalidEmail):
		var details []string
		for _, fe := range fieldErrors(err) {
			details = append(details, fe.Error())
		}
		writeError(w, http.StatusBadRequest, "validation_failed", "validation failed", details...)
	case errors.Is(err, model.ErrStoreUnavailable):
		h.logger.Error("store unavailable", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "unavailable", "service temporarily unavailable, retry later")
	default:
		h.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

// ─── Events ──────────────────────────────────────────────────────────────────

// CreateEvent handles POST /events
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req model.CreateEventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}

	event, err := h.svc.CreateEvent(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

// ListEvents handles GET /events?tag=&mode=
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	filter := model.EventFilter{
		Tag:  r.URL.Query().Get("tag"),
		Mode: model.Mode(r.URL.Query().Get("mode")),
	}

	events, err := h.svc.ListEvents(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	// Return an empty array rather than null for better client compatibility.
	if events == nil {
		events = []model.Event{}
	}

	writeJSON(w, http.StatusOK, events)
}

// GetEvent handles GET /events/{slug}
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.svc.GetEvent(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, event)
}

// UpdateEvent handles PATCH /events/{slug}
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateEventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}

	event, err := h.svc.UpdateEvent(r.Context(), chi.URLParam(r, "slug"), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, event)
}

// EventCalendar handles GET /events/{slug}/calendar.ics
func (h *EventHandler) EventCalendar(w http.ResponseWriter, r *http.Request) {
	event, err := h.svc.GetEvent(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	body, err := calendar.Render([]model.Event{*event}, h.loc, h.baseURL)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+event.Slug+`.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

// ─── Bookings ────────────────────────────────────────────────────────────────

// CreateBooking handles POST /bookings
func (h *EventHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req model.CreateBookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}

	booking, err := h.svc.CreateBooking(r.Context(), req)
	if err != nil {
		if errors.Is(err, model.ErrUniquenessViolation) {
			writeError(w, http.StatusConflict, "already_booked", "you have already booked this event")
			return
		}
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, booking)
}

// UpdateBooking handles PATCH /bookings/{id}
func (h *EventHandler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateBookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}

	booking, err := h.svc.UpdateBooking(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

// ListBookings handles GET /events/{slug}/bookings
func (h *EventHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.svc.ListBookings(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	if bookings == nil {
		bookings = []model.Booking{}
	}

	writeJSON(w, http.StatusOK, bookings)
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
