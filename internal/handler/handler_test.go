package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Shivanand-hulikatti/event-listing/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type stubService struct {
	events   map[string]*model.Event
	bookings map[string]*model.Booking
	err      error

	lastFilter model.EventFilter
	lastSlug   string
	lastCreate model.CreateEventRequest
}

func newStubService() *stubService {
	return &stubService{events: map[string]*model.Event{}, bookings: map[string]*model.Booking{}}
}

func (s *stubService) CreateEvent(_ context.Context, req model.CreateEventRequest) (*model.Event, error) {
	s.lastCreate = req
	if s.err != nil {
		return nil, s.err
	}
	e := &model.Event{ID: "ev-1", Title: req.Title, Slug: "launch-day", Date: req.Date, Time: req.Time, Mode: req.Mode}
	s.events[e.Slug] = e
	return e, nil
}

func (s *stubService) UpdateEvent(_ context.Context, slug string, req model.UpdateEventRequest) (*model.Event, error) {
	s.lastSlug = slug
	if s.err != nil {
		return nil, s.err
	}
	e, ok := s.events[slug]
	if !ok {
		return nil, model.ErrNotFound
	}
	if req.Title != nil {
		e.Title = *req.Title
	}
	return e, nil
}

func (s *stubService) GetEvent(_ context.Context, slug string) (*model.Event, error) {
	s.lastSlug = slug
	if s.err != nil {
		return nil, s.err
	}
	e, ok := s.events[slug]
	if !ok {
		return nil, model.ErrNotFound
	}
	return e, nil
}

func (s *stubService) ListEvents(_ context.Context, filter model.EventFilter) ([]model.Event, error) {
	s.lastFilter = filter
	if s.err != nil {
		return nil, s.err
	}
	var out []model.Event
	for _, e := range s.events {
		out = append(out, *e)
	}
	return out, nil
}

func (s *stubService) CreateBooking(_ context.Context, req model.CreateBookingRequest) (*model.Booking, error) {
	if s.err != nil {
		return nil, s.err
	}
	b := &model.Booking{ID: "bk-1", EventID: req.EventID, Email: req.Email, Reference: "BK-ABCDEFGHJK"}
	s.bookings[b.ID] = b
	return b, nil
}

func (s *stubService) UpdateBooking(_ context.Context, id string, req model.UpdateBookingRequest) (*model.Booking, error) {
	if s.err != nil {
		return nil, s.err
	}
	b, ok := s.bookings[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	if req.Email != nil {
		b.Email = *req.Email
	}
	return b, nil
}

func (s *stubService) ListBookings(_ context.Context, slug string) ([]model.Booking, error) {
	s.lastSlug = slug
	if s.err != nil {
		return nil, s.err
	}
	if _, ok := s.events[slug]; !ok {
		return nil, model.ErrNotFound
	}
	return nil, nil
}

func newTestRouter(t *testing.T, svc Service) http.Handler {
	t.Helper()
	logger := zaptest.NewLogger(t)
	h := NewEventHandler(svc, time.UTC, "https://events.example.com", logger)
	return NewRouter(h, logger, []string{"*"})
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) model.ErrorResponse {
	t.Helper()
	var resp model.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	rec := do(t, newTestRouter(t, newStubService()), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCreateEvent(t *testing.T) {
	svc := newStubService()
	router := newTestRouter(t, svc)

	rec := do(t, router, http.MethodPost, "/events", `{"title":"Launch Day","date":"May 15, 2026","time":"9:00 AM","mode":"online"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got model.Event
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "launch-day", got.Slug)
	assert.Equal(t, "May 15, 2026", svc.lastCreate.Date)
	assert.Equal(t, model.ModeOnline, svc.lastCreate.Mode)
}

func TestCreateEvent_BadBody(t *testing.T) {
	router := newTestRouter(t, newStubService())

	for _, body := range []string{`{"title":`, `{"unknown":"field"}`} {
		rec := do(t, router, http.MethodPost, "/events", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "bad_request", decodeError(t, rec).Code)
	}
}

func TestServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", fmt.Errorf("get: %w", model.ErrNotFound), http.StatusNotFound, "not_found"},
		{"uniqueness", model.ErrUniquenessViolation, http.StatusConflict, "conflict"},
		{"slug exhausted", model.ErrSlugExhausted, http.StatusConflict, "slug_exhausted"},
		{"referential", model.ErrReferentialIntegrity, http.StatusUnprocessableEntity, "referential_integrity"},
		{"validation", model.NewFieldError("date", model.ErrInvalidDate, "bad date"), http.StatusBadRequest, "validation_failed"},
		{"store down", fmt.Errorf("%w: dial tcp", model.ErrStoreUnavailable), http.StatusServiceUnavailable, "unavailable"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newStubService()
			svc.err = tt.err
			rec := do(t, newTestRouter(t, svc), http.MethodPost, "/events", `{"title":"x"}`)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
		})
	}
}

func TestValidationDetails(t *testing.T) {
	svc := newStubService()
	svc.err = errors.Join(
		model.NewFieldError("title", model.ErrMissingRequiredField, "is required"),
		model.NewFieldError("mode", model.ErrInvalidEnumValue, "must be one of online, offline, hybrid"),
	)

	rec := do(t, newTestRouter(t, svc), http.MethodPost, "/events", `{}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	require.Len(t, resp.Details, 2)
	assert.Contains(t, resp.Details[0], "title")
	assert.Contains(t, resp.Details[1], "mode")
}

func TestListEvents(t *testing.T) {
	svc := newStubService()
	router := newTestRouter(t, svc)

	rec := do(t, router, http.MethodGet, "/events?tag=web&mode=hybrid", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	assert.Equal(t, model.EventFilter{Tag: "web", Mode: model.ModeHybrid}, svc.lastFilter)
}

func TestGetAndUpdateEvent(t *testing.T) {
	svc := newStubService()
	svc.events["launch-day"] = &model.Event{ID: "ev-1", Title: "Launch Day", Slug: "launch-day"}
	router := newTestRouter(t, svc)

	rec := do(t, router, http.MethodGet, "/events/launch-day", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slug":"launch-day"`)

	rec = do(t, router, http.MethodPatch, "/events/launch-day", `{"title":"Launch Night"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title":"Launch Night"`)

	rec = do(t, router, http.MethodGet, "/events/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEventCalendar(t *testing.T) {
	svc := newStubService()
	svc.events["launch-day"] = &model.Event{
		ID: "ev-1", Title: "Launch Day", Slug: "launch-day",
		Overview: "Everything ships", Venue: "Main Hall", Location: "Lisbon",
		Date: "2026-06-10", Time: "09:00", Tags: []string{"web"},
	}

	rec := do(t, newTestRouter(t, svc), http.MethodGet, "/events/launch-day/calendar.ics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "launch-day.ics")
	assert.Contains(t, rec.Body.String(), "BEGIN:VEVENT")
	assert.Contains(t, rec.Body.String(), "SUMMARY:Launch Day")
}

func TestBookings(t *testing.T) {
	svc := newStubService()
	svc.events["launch-day"] = &model.Event{ID: "ev-1", Slug: "launch-day"}
	router := newTestRouter(t, svc)

	rec := do(t, router, http.MethodPost, "/bookings", `{"event_id":"ev-1","email":"ada@example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"reference":"BK-ABCDEFGHJK"`)

	rec = do(t, router, http.MethodPatch, "/bookings/bk-1", `{"email":"grace@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"grace@example.com"`)

	rec = do(t, router, http.MethodPatch, "/bookings/nope", `{"email":"x@y.zz"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodGet, "/events/launch-day/bookings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCreateBooking_AlreadyBooked(t *testing.T) {
	svc := newStubService()
	svc.err = model.ErrUniquenessViolation

	rec := do(t, newTestRouter(t, svc), http.MethodPost, "/bookings", `{"event_id":"ev-1","email":"ada@example.com"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "already_booked", decodeError(t, rec).Code)
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/events", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()

	newTestRouter(t, newStubService()).ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
