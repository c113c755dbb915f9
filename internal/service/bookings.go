package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Shivanand-hulikatti/event-listing/internal/idgen"
	"github.com/Shivanand-hulikatti/event-listing/internal/model"
	"go.uber.org/zap"
)

// prepareBooking is the pre-commit step for bookings. It checks the email
// and, when the booking is new or points at a different event, that the
// referenced event exists.
func (s *EventService) prepareBooking(ctx context.Context, b *model.Booking, eventChanged bool) error {
	b.EventID = strings.TrimSpace(b.EventID)
	b.Email = strings.ToLower(strings.TrimSpace(b.Email))

	if err := s.validate.Struct(b); err != nil {
		return err
	}
	if !eventChanged {
		return nil
	}

	if !idgen.IsID(b.EventID) {
		return fmt.Errorf("%w: event %s", model.ErrReferentialIntegrity, b.EventID)
	}
	exists, err := s.events.Exists(ctx, b.EventID)
	if err != nil {
		return fmt.Errorf("check event: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: event %s", model.ErrReferentialIntegrity, b.EventID)
	}
	return nil
}

// CreateBooking books the event for the given address.
func (s *EventService) CreateBooking(ctx context.Context, req model.CreateBookingRequest) (*model.Booking, error) {
	b := &model.Booking{
		ID:      idgen.NewID(),
		EventID: req.EventID,
		Email:   req.Email,
	}
	if err := s.prepareBooking(ctx, b, true); err != nil {
		return nil, err
	}

	ref, err := idgen.NewReference()
	if err != nil {
		return nil, err
	}
	b.Reference = ref

	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.logger.Info("booking created",
		zap.String("booking_id", b.ID),
		zap.String("event_id", b.EventID),
		zap.String("reference", b.Reference))
	return b, nil
}

// UpdateBooking moves a booking to another event or address.
func (s *EventService) UpdateBooking(ctx context.Context, id string, req model.UpdateBookingRequest) (*model.Booking, error) {
	if !idgen.IsID(id) {
		return nil, fmt.Errorf("get booking: %w", model.ErrNotFound)
	}
	cur, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}

	next := *cur
	setIf(&next.EventID, req.EventID)
	setIf(&next.Email, req.Email)
	eventChanged := strings.TrimSpace(next.EventID) != cur.EventID

	if err := s.prepareBooking(ctx, &next, eventChanged); err != nil {
		return nil, err
	}
	if err := s.bookings.Update(ctx, &next); err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}

	s.logger.Info("booking updated",
		zap.String("booking_id", next.ID),
		zap.String("event_id", next.EventID),
		zap.Bool("event_changed", eventChanged))
	return &next, nil
}

// ListBookings returns all bookings for the event with the given slug.
func (s *EventService) ListBookings(ctx context.Context, slug string) ([]model.Booking, error) {
	e, err := s.events.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	bookings, err := s.bookings.ListByEvent(ctx, e.ID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}
