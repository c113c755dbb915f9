package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/Shivanand-hulikatti/event-listing/internal/idgen"
	"github.com/Shivanand-hulikatti/event-listing/internal/model"
	"github.com/Shivanand-hulikatti/event-listing/internal/normalize"
	"go.uber.org/zap"
)

// eventChanges records which source fields of a derived value changed.
type eventChanges struct {
	title bool
	date  bool
	time  bool
}

var allChanged = eventChanges{title: true, date: true, time: true}

// prepareEvent is the pre-commit step for events. It trims text fields,
// checks required fields and the mode, then derives the slug (only if the
// title changed), the ISO date and the 24-hour time (only if they changed).
func (s *EventService) prepareEvent(ctx context.Context, e *model.Event, changed eventChanges) error {
	trimEvent(e)

	if err := s.validate.Struct(e); err != nil {
		return err
	}

	if changed.title {
		base := normalize.Slug(e.Title)
		if base == "" {
			return model.NewFieldError("title", model.ErrMissingRequiredField,
				"must contain at least one letter or digit")
		}
		slug, err := s.arbiter.Resolve(ctx, base, e.ID)
		if err != nil {
			return err
		}
		e.Slug = slug
	}

	if changed.date {
		d, err := normalize.DateIn(e.Date, s.loc)
		if err != nil {
			return &model.FieldError{Field: "date", Message: err.Error(), Err: err}
		}
		e.Date = d
	}

	if changed.time {
		t, err := normalize.Time(e.Time)
		if err != nil {
			return &model.FieldError{Field: "time", Message: err.Error(), Err: err}
		}
		e.Time = t
	}

	return nil
}

func trimEvent(e *model.Event) {
	for _, f := range []*string{
		&e.Title, &e.Description, &e.Overview, &e.Venue,
		&e.Location, &e.Audience, &e.Organizer,
	} {
		*f = strings.TrimSpace(*f)
	}
	e.Mode = model.Mode(strings.TrimSpace(string(e.Mode)))
	e.Agenda = trimItems(e.Agenda)
	e.Tags = trimItems(e.Tags)
}

// trimItems trims every item and drops blank ones. A nil input stays nil.
func trimItems(items []string) []string {
	if items == nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}

// CreateEvent normalizes the request into a new event and persists it.
func (s *EventService) CreateEvent(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	e := &model.Event{
		ID:          idgen.NewID(),
		Title:       req.Title,
		Description: req.Description,
		Overview:    req.Overview,
		Image:       req.Image,
		Venue:       req.Venue,
		Location:    req.Location,
		Date:        req.Date,
		Time:        req.Time,
		Mode:        req.Mode,
		Audience:    req.Audience,
		Agenda:      req.Agenda,
		Organizer:   req.Organizer,
		Tags:        req.Tags,
	}

	if err := s.prepareEvent(ctx, e, allChanged); err != nil {
		return nil, err
	}
	if err := s.events.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.logger.Info("event created",
		zap.String("event_id", e.ID),
		zap.String("slug", e.Slug))
	return e, nil
}

// UpdateEvent applies a partial update to the event identified by slug.
// Derived fields are recomputed only for the source fields that changed.
func (s *EventService) UpdateEvent(ctx context.Context, slug string, req model.UpdateEventRequest) (*model.Event, error) {
	cur, err := s.events.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}

	next := *cur
	next.Agenda = slices.Clone(cur.Agenda)
	next.Tags = slices.Clone(cur.Tags)
	changed := applyEventUpdate(&next, cur, req)

	if err := s.prepareEvent(ctx, &next, changed); err != nil {
		return nil, err
	}
	if err := s.events.Update(ctx, &next); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	s.invalidate(ctx, cur.Slug, next.Slug)
	s.logger.Info("event updated",
		zap.String("event_id", next.ID),
		zap.String("slug", next.Slug),
		zap.Bool("slug_changed", next.Slug != cur.Slug))
	return &next, nil
}

func applyEventUpdate(next, cur *model.Event, req model.UpdateEventRequest) eventChanges {
	var ch eventChanges
	if req.Title != nil {
		next.Title = *req.Title
		ch.title = strings.TrimSpace(*req.Title) != cur.Title
	}
	if req.Date != nil {
		next.Date = *req.Date
		ch.date = *req.Date != cur.Date
	}
	if req.Time != nil {
		next.Time = *req.Time
		ch.time = *req.Time != cur.Time
	}
	setIf(&next.Description, req.Description)
	setIf(&next.Overview, req.Overview)
	setIf(&next.Image, req.Image)
	setIf(&next.Venue, req.Venue)
	setIf(&next.Location, req.Location)
	setIf(&next.Audience, req.Audience)
	setIf(&next.Organizer, req.Organizer)
	setIf(&next.Mode, req.Mode)
	setIf(&next.Agenda, req.Agenda)
	setIf(&next.Tags, req.Tags)
	return ch
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// GetEvent returns the event with the given slug, serving from the cache
// when possible.
func (s *EventService) GetEvent(ctx context.Context, slug string) (*model.Event, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, model.NewFieldError("slug", model.ErrMissingRequiredField, "is required")
	}

	if e, ok, err := s.cache.Get(ctx, slug); err != nil {
		s.logger.Warn("event cache read failed", zap.String("slug", slug), zap.Error(err))
	} else if ok {
		return e, nil
	}

	e, err := s.events.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if err := s.cache.Set(ctx, e); err != nil {
		s.logger.Warn("event cache write failed", zap.String("slug", slug), zap.Error(err))
	}
	return e, nil
}

// ListEvents returns events matching filter.
func (s *EventService) ListEvents(ctx context.Context, filter model.EventFilter) ([]model.Event, error) {
	filter.Tag = strings.TrimSpace(filter.Tag)
	if filter.Mode != "" && !filter.Mode.Valid() {
		return nil, model.NewFieldError("mode", model.ErrInvalidEnumValue,
			"%q is not a valid mode (online, offline, hybrid)", filter.Mode)
	}
	events, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *EventService) invalidate(ctx context.Context, slugs ...string) {
	slugs = slices.Compact(slugs)
	if err := s.cache.Invalidate(ctx, slugs...); err != nil {
		s.logger.Warn("event cache invalidation failed", zap.Strings("slugs", slugs), zap.Error(err))
	}
}
