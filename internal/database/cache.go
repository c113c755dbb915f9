package database

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Shivanand-hulikatti/event-listing/internal/model"
	"golang.org/x/sync/singleflight"
)

// Cache holds at most one connection handle per process.
//
// It is in one of three states: empty, pending (a connect is in flight) or
// established. Get returns an established handle immediately, joins an
// in-flight connect instead of starting another, and otherwise starts one.
// A failed connect leaves the cache empty so a later Get retries.
// A connect that finishes after Close is closed and reported as an error.
type Cache[C any] struct {
	connect func(context.Context) (C, error)
	close   func(C)

	flight singleflight.Group

	mu    sync.Mutex
	conn  C
	ready bool
	// gen advances on every Close; a connect started under an older
	// generation must not populate the cache.
	gen uint64
}

var errClosedDuringConnect = errors.New("connection cache closed during connect")

// NewCache returns an empty cache. closeFn may be nil.
func NewCache[C any](connect func(context.Context) (C, error), closeFn func(C)) *Cache[C] {
	return &Cache[C]{connect: connect, close: closeFn}
}

// Get returns the cached connection, establishing it if necessary.
//
// The connect runs detached from ctx so that one impatient caller cannot
// fail the attempt for everyone else waiting on it; ctx only bounds how
// long this caller waits. Connect failures wrap model.ErrStoreUnavailable.
func (c *Cache[C]) Get(ctx context.Context) (C, error) {
	if conn, ok := c.established(); ok {
		return conn, nil
	}

	ch := c.flight.DoChan("conn", func() (any, error) {
		// A previous flight may have finished between the check above and
		// this one starting.
		c.mu.Lock()
		if c.ready {
			conn := c.conn
			c.mu.Unlock()
			return conn, nil
		}
		gen := c.gen
		c.mu.Unlock()

		conn, err := c.connect(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.gen != gen {
			if c.close != nil {
				c.close(conn)
			}
			return nil, errClosedDuringConnect
		}
		c.conn, c.ready = conn, true
		return conn, nil
	})

	var zero C
	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, fmt.Errorf("%w: %w", model.ErrStoreUnavailable, res.Err)
		}
		return res.Val.(C), nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Close releases an established connection and empties the cache. A
// connect still in flight is closed as soon as it completes.
func (c *Cache[C]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	if c.ready && c.close != nil {
		c.close(c.conn)
	}
	var zero C
	c.conn, c.ready = zero, false
}

func (c *Cache[C]) established() (C, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn, c.ready
}
