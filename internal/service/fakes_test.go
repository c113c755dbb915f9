package service

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/Shivanand-hulikatti/event-listing/internal/model"
)

// fakeEventRepo is an in-memory EventStore for tests. It enforces slug
// uniqueness the way the events_slug_key index does.
type fakeEventRepo struct {
	byID map[string]*model.Event
	now  time.Time

	getBySlugCalls int
	existsCalls    int

	err error // if set, Create and Update return this error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		byID: make(map[string]*model.Event),
		now:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeEventRepo) tick() time.Time {
	f.now = f.now.Add(time.Second)
	return f.now
}

func (f *fakeEventRepo) slugOwner(slug string) (string, bool) {
	for id, e := range f.byID {
		if e.Slug == slug {
			return id, true
		}
	}
	return "", false
}

func (f *fakeEventRepo) Create(ctx context.Context, e *model.Event) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.slugOwner(e.Slug); ok {
		return model.ErrUniquenessViolation
	}
	e.CreatedAt = f.tick()
	e.UpdatedAt = e.CreatedAt
	cp := *e
	f.byID[e.ID] = &cp
	return nil
}

func (f *fakeEventRepo) Update(ctx context.Context, e *model.Event) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[e.ID]; !ok {
		return model.ErrNotFound
	}
	if owner, ok := f.slugOwner(e.Slug); ok && owner != e.ID {
		return model.ErrUniquenessViolation
	}
	e.UpdatedAt = f.tick()
	cp := *e
	f.byID[e.ID] = &cp
	return nil
}

func (f *fakeEventRepo) GetBySlug(ctx context.Context, slug string) (*model.Event, error) {
	f.getBySlugCalls++
	if id, ok := f.slugOwner(slug); ok {
		cp := *f.byID[id]
		return &cp, nil
	}
	return nil, model.ErrNotFound
}

func (f *fakeEventRepo) List(ctx context.Context, filter model.EventFilter) ([]model.Event, error) {
	var out []model.Event
	for _, e := range f.byID {
		if filter.Tag != "" && !slices.Contains(e.Tags, filter.Tag) {
			continue
		}
		if filter.Mode != "" && e.Mode != filter.Mode {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date+out[i].Time < out[j].Date+out[j].Time })
	return out, nil
}

func (f *fakeEventRepo) SlugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	owner, ok := f.slugOwner(slug)
	return ok && owner != excludeID, nil
}

func (f *fakeEventRepo) Exists(ctx context.Context, id string) (bool, error) {
	f.existsCalls++
	_, ok := f.byID[id]
	return ok, nil
}

// fakeBookingRepo is an in-memory BookingStore enforcing the
// (event, email) uniqueness constraint.
type fakeBookingRepo struct {
	byID map[string]*model.Booking
	err  error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{byID: make(map[string]*model.Booking)}
}

func (f *fakeBookingRepo) duplicate(b *model.Booking) bool {
	for id, other := range f.byID {
		if id != b.ID && other.EventID == b.EventID && other.Email == b.Email {
			return true
		}
	}
	return false
}

func (f *fakeBookingRepo) Create(ctx context.Context, b *model.Booking) error {
	if f.err != nil {
		return f.err
	}
	if f.duplicate(b) {
		return model.ErrUniquenessViolation
	}
	cp := *b
	f.byID[b.ID] = &cp
	return nil
}

func (f *fakeBookingRepo) Update(ctx context.Context, b *model.Booking) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[b.ID]; !ok {
		return model.ErrNotFound
	}
	if f.duplicate(b) {
		return model.ErrUniquenessViolation
	}
	cp := *b
	f.byID[b.ID] = &cp
	return nil
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if b, ok := f.byID[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, model.ErrNotFound
}

func (f *fakeBookingRepo) ListByEvent(ctx context.Context, eventID string) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range f.byID {
		if b.EventID == eventID {
			out = append(out, *b)
		}
	}
	return out, nil
}

// fakeCache records cache traffic.
type fakeCache struct {
	entries     map[string]model.Event
	invalidated []string
	err         error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]model.Event)}
}

func (c *fakeCache) Get(ctx context.Context, slug string) (*model.Event, bool, error) {
	if c.err != nil {
		return nil, false, c.err
	}
	e, ok := c.entries[slug]
	if !ok {
		return nil, false, nil
	}
	return &e, true, nil
}

func (c *fakeCache) Set(ctx context.Context, e *model.Event) error {
	if c.err != nil {
		return c.err
	}
	c.entries[e.Slug] = *e
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context, slugs ...string) error {
	c.invalidated = append(c.invalidated, slugs...)
	for _, s := range slugs {
		delete(c.entries, s)
	}
	return c.err
}
