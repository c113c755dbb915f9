// Package repository implements all database queries for the event listing system.
// It uses pgx directly (no ORM); every method borrows the process-wide pool
// from the connection cache.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Shivanand-hulikatti/event-listing/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQL error codes the repositories translate.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeInvalidText         = "22P02"
)

// PoolProvider hands out the shared connection pool, connecting on first use.
type PoolProvider interface {
	Get(ctx context.Context) (*pgxpool.Pool, error)
}

// mapError translates driver errors into model errors. Errors it does not
// recognise are returned unchanged.
func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeUniqueViolation:
		return fmt.Errorf("%w: %s", model.ErrUniquenessViolation, pgErr.ConstraintName)
	case codeForeignKeyViolation:
		return fmt.Errorf("%w: %s", model.ErrReferentialIntegrity, pgErr.ConstraintName)
	case codeInvalidText:
		return model.ErrNotFound
	}
	return err
}

// ─── Events ──────────────────────────────────────────────────────────────────

const eventColumns = `id, title, slug, description, overview, image, venue, location,
	date, time, mode, audience, agenda, organizer, tags, created_at, updated_at`

// EventRepository handles persistence for events.
type EventRepository struct {
	db PoolProvider
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db PoolProvider) *EventRepository {
	return &EventRepository{db: db}
}

func scanEvent(row pgx.Row) (*model.Event, error) {
	var (
		e    model.Event
		mode string
	)
	err := row.Scan(
		&e.ID, &e.Title, &e.Slug, &e.Description, &e.Overview, &e.Image, &e.Venue, &e.Location,
		&e.Date, &e.Time, &mode, &e.Audience, &e.Agenda, &e.Organizer, &e.Tags, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Mode = model.Mode(mode)
	return &e, nil
}

// Create inserts e. The caller assigns e.ID; the store fills the timestamps.
func (r *EventRepository) Create(ctx context.Context, e *model.Event) error {
	pool, err := r.db.Get(ctx)
	if err != nil {
		return err
	}
	err = pool.QueryRow(ctx,
		`INSERT INTO events (id, title, slug, description, overview, image, venue, location,
		                     date, time, mode, audience, agenda, organizer, tags)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 RETURNING created_at, updated_at`,
		e.ID, e.Title, e.Slug, e.Description, e.Overview, e.Image, e.Venue, e.Location,
		e.Date, e.Time, string(e.Mode), e.Audience, e.Agenda, e.Organizer, e.Tags,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert event: %w", mapError(err))
	}
	return nil
}

// Update overwrites every mutable column of e and refreshes updated_at.
func (r *EventRepository) Update(ctx context.Context, e *model.Event) error {
	pool, err := r.db.Get(ctx)
	if err != nil {
		return err
	}
	err = pool.QueryRow(ctx,
		`UPDATE events
		 SET title = $2, slug = $3, description = $4, overview = $5, image = $6, venue = $7,
		     location = $8, date = $9, time = $10, mode = $11, audience = $12, agenda = $13,
		     organizer = $14, tags = $15, updated_at = now()
		 WHERE id = $1
		 RETURNING created_at, updated_at`,
		e.ID, e.Title, e.Slug, e.Description, e.Overview, e.Image, e.Venue,
		e.Location, e.Date, e.Time, string(e.Mode), e.Audience, e.Agenda,
		e.Organizer, e.Tags,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update event: %w", mapError(err))
	}
	return nil
}

// GetByID returns a single event or model.ErrNotFound.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	pool, err := r.db.Get(ctx)
	if err != nil {
		return nil, err
	}
	e, err := scanEvent(pool.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get event: %w", mapError(err))
	}
	return e, nil
}

// GetBySlug returns the event with the given slug or model.ErrNotFound.
func (r *EventRepository) GetBySlug(ctx context.Context, slug string) (*model.Event, error) {
	pool, err := r.db.Get(ctx)
	if err != nil {
		return nil, err
	}
	e, err := scanEvent(pool.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE slug = $1`, slug))
	if err != nil {
		return nil, fmt.Errorf("get event by slug: %w", mapError(err))
	}
	return e, nil
}

// List returns events matching filter, soonest first.
func (r *EventRepository) List(ctx context.Context, filter model.EventFilter) ([]model.Event, error) {
	pool, err := r.db.Get(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := pool.Query(ctx,
		`SELECT `+eventColumns+`
		 FROM events
		 WHERE ($1 = '' OR $1 = ANY(tags))
		   AND ($2 = '' OR mode = $2)
		 ORDER BY date ASC, time ASC, created_at ASC`,
		filter.Tag, string(filter.Mode),
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// SlugTaken reports whether an event other than excludeID uses slug.
func (r *EventRepository) SlugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	pool, err := r.db.Get(ctx)
	if err != nil {
		return false, err
	}
	var taken bool
	err = pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM events WHERE slug = $1 AND id::text <> $2)`,
		slug, excludeID,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return taken, nil
}

// Exists reports whether an event with the given ID exists.
func (r *EventRepository) Exists(ctx context.Context, id string) (bool, error) {
	pool, err := r.db.Get(ctx)
	if err != nil {
		return false, err
	}
	var exists bool
	err = pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM events WHERE id::text = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check event exists: %w", err)
	}
	return exists, nil
}

// ─── Bookings ────────────────────────────────────────────────────────────────

const bookingColumns = `id, event_id, email, reference, created_at, updated_at`

// BookingRepository handles persistence for bookings.
type BookingRepository struct {
	db PoolProvider
}

// NewBookingRepository constructs a BookingRepository.
func NewBookingRepository(db PoolProvider) *BookingRepository {
	return &BookingRepository{db: db}
}

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var b model.Booking
	if err := row.Scan(&b.ID, &b.EventID, &b.Email, &b.Reference, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// lockEvent takes a shared lock on the referenced event row for the rest
// of tx, so the event cannot change identity while the booking is written.
func lockEvent(ctx context.Context, tx pgx.Tx, eventID string) error {
	var one int
	err := tx.QueryRow(ctx,
		`SELECT 1 FROM events WHERE id::text = $1 FOR SHARE`, eventID,
	).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", model.ErrReferentialIntegrity, eventID)
	}
	if err != nil {
		return fmt.Errorf("lock event row: %w", err)
	}
	return nil
}

// Create inserts b inside a transaction that first confirms the event
// exists and the (event, email) pair is free. The unique index on that pair
// still backstops concurrent writers.
func (r *BookingRepository) Create(ctx context.Context, b *model.Booking) (err error) {
	pool, err := r.db.Get(ctx)
	if err != nil {
		return err
	}
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = lockEvent(ctx, tx, b.EventID); err != nil {
		return err
	}

	var dup bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM bookings WHERE event_id = $1 AND email = $2)`,
		b.EventID, b.Email,
	).Scan(&dup)
	if err != nil {
		return fmt.Errorf("check duplicate: %w", err)
	}
	if dup {
		err = fmt.Errorf("%w: %s already booked this event", model.ErrUniquenessViolation, b.Email)
		return err
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO bookings (id, event_id, email, reference)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at`,
		b.ID, b.EventID, b.Email, b.Reference,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert booking: %w", mapError(err))
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Update rewrites the event and email of b and refreshes updated_at.
func (r *BookingRepository) Update(ctx context.Context, b *model.Booking) (err error) {
	pool, err := r.db.Get(ctx)
	if err != nil {
		return err
	}
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = lockEvent(ctx, tx, b.EventID); err != nil {
		return err
	}

	err = tx.QueryRow(ctx,
		`UPDATE bookings SET event_id = $2, email = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING created_at, updated_at`,
		b.ID, b.EventID, b.Email,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update booking: %w", mapError(err))
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetByID returns a single booking or model.ErrNotFound.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	pool, err := r.db.Get(ctx)
	if err != nil {
		return nil, err
	}
	b, err := scanBooking(pool.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", mapError(err))
	}
	return b, nil
}

// ListByEvent returns all bookings for a given event, oldest first.
func (r *BookingRepository) ListByEvent(ctx context.Context, eventID string) ([]model.Booking, error) {
	pool, err := r.db.Get(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := pool.Query(ctx,
		`SELECT `+bookingColumns+`
		 FROM bookings
		 WHERE event_id = $1
		 ORDER BY created_at ASC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}
