// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
//
// Every write passes through an explicit pre-commit step (prepareEvent,
// prepareBooking) that validates and normalizes the record immediately
// before it is handed to the store. Any error from that step aborts the
// write; nothing is persisted.
package service

import (
	"context"
	"time"

	"github.com/Shivanand-hulikatti/event-listing/internal/model"
	"github.com/Shivanand-hulikatti/event-listing/internal/uniqueness"
	"github.com/Shivanand-hulikatti/event-listing/internal/validation"
	"go.uber.org/zap"
)

// EventStore persists events.
type EventStore interface {
	uniqueness.SlugChecker

	Create(ctx context.Context, e *model.Event) error
	Update(ctx context.Context, e *model.Event) error
	GetBySlug(ctx context.Context, slug string) (*model.Event, error)
	List(ctx context.Context, filter model.EventFilter) ([]model.Event, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// BookingStore persists bookings. Implementations must reject a second
// booking for the same (event, email) pair with model.ErrUniquenessViolation.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	Update(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	ListByEvent(ctx context.Context, eventID string) ([]model.Booking, error)
}

// EventCache caches events by slug. Errors are logged, never surfaced.
type EventCache interface {
	Get(ctx context.Context, slug string) (*model.Event, bool, error)
	Set(ctx context.Context, e *model.Event) error
	Invalidate(ctx context.Context, slugs ...string) error
}

// Options tune the service.
type Options struct {
	// SlugMaxAttempts caps slug collision probing.
	SlugMaxAttempts int
	// Location reads date inputs that carry a time of day.
	Location *time.Location
}

// EventService orchestrates event and booking operations.
type EventService struct {
	events   EventStore
	bookings BookingStore
	cache    EventCache
	arbiter  *uniqueness.Arbiter
	validate *validation.Validator
	loc      *time.Location
	logger   *zap.Logger
}

// NewEventService constructs an EventService with its dependencies.
func NewEventService(
	events EventStore,
	bookings BookingStore,
	cache EventCache,
	opts Options,
	logger *zap.Logger,
) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &EventService{
		events:   events,
		bookings: bookings,
		cache:    cache,
		arbiter:  uniqueness.NewArbiter(events, opts.SlugMaxAttempts, logger.Named("slug")),
		validate: validation.New(),
		loc:      loc,
		logger:   logger,
	}
}
