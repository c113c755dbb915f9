// Package uniqueness resolves event slug collisions against the store.
package uniqueness

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Shivanand-hulikatti/event-listing/internal/model"
	"go.uber.org/zap"
)

// DefaultMaxAttempts bounds how many candidate slugs Resolve will probe.
const DefaultMaxAttempts = 100

// SlugChecker reports whether slug is already used by a record other than
// excludeID. An empty excludeID excludes nothing.
type SlugChecker interface {
	SlugTaken(ctx context.Context, slug, excludeID string) (bool, error)
}

// Arbiter picks a free slug by appending -1, -2, … to a base slug.
type Arbiter struct {
	checker     SlugChecker
	maxAttempts int
	logger      *zap.Logger
}

// NewArbiter constructs an Arbiter. A non-positive maxAttempts selects
// DefaultMaxAttempts.
func NewArbiter(checker SlugChecker, maxAttempts int, logger *zap.Logger) *Arbiter {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Arbiter{checker: checker, maxAttempts: maxAttempts, logger: logger}
}

// Resolve returns base if no other record uses it, otherwise the first free
// "base-N" for N = 1, 2, …. It gives up with model.ErrSlugExhausted after
// maxAttempts probes.
func (a *Arbiter) Resolve(ctx context.Context, base, excludeID string) (string, error) {
	candidate := base
	for attempt := 0; attempt < a.maxAttempts; attempt++ {
		if attempt > 0 {
			candidate = base + "-" + strconv.Itoa(attempt)
		}

		taken, err := a.checker.SlugTaken(ctx, candidate, excludeID)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !taken {
			if attempt > 0 {
				a.logger.Debug("slug collision resolved",
					zap.String("base", base),
					zap.String("slug", candidate),
					zap.Int("attempts", attempt+1))
			}
			return candidate, nil
		}
	}

	a.logger.Warn("slug attempts exhausted",
		zap.String("base", base),
		zap.Int("max_attempts", a.maxAttempts))
	return "", fmt.Errorf("%w: %q after %d attempts", model.ErrSlugExhausted, base, a.maxAttempts)
}
