package uniqueness

import (
	"context"
	"errors"
	"testing"

	"github.com/Shivanand-hulikatti/event-listing/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeChecker maps slug -> owning record ID.
type fakeChecker struct {
	owners map[string]string
	calls  []string
	err    error
}

func (f *fakeChecker) SlugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	f.calls = append(f.calls, slug)
	if f.err != nil {
		return false, f.err
	}
	owner, ok := f.owners[slug]
	return ok && owner != excludeID, nil
}

func TestArbiter_Resolve(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		owners    map[string]string
		excludeID string
		want      string
		wantCalls int
	}{
		{
			name:      "free base",
			owners:    map[string]string{},
			want:      "launch-day",
			wantCalls: 1,
		},
		{
			name:      "first suffix",
			owners:    map[string]string{"launch-day": "ev-1"},
			want:      "launch-day-1",
			wantCalls: 2,
		},
		{
			name:      "second suffix",
			owners:    map[string]string{"launch-day": "ev-1", "launch-day-1": "ev-2"},
			want:      "launch-day-2",
			wantCalls: 3,
		},
		{
			name:      "record keeps its own slug",
			owners:    map[string]string{"launch-day": "ev-1"},
			excludeID: "ev-1",
			want:      "launch-day",
			wantCalls: 1,
		},
		{
			name:      "gap is reused",
			owners:    map[string]string{"launch-day": "ev-1", "launch-day-2": "ev-3"},
			want:      "launch-day-1",
			wantCalls: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := &fakeChecker{owners: tt.owners}
			a := NewArbiter(checker, 0, zaptest.NewLogger(t))

			got, err := a.Resolve(ctx, "launch-day", tt.excludeID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Len(t, checker.calls, tt.wantCalls)
		})
	}
}

func TestArbiter_Exhausted(t *testing.T) {
	owners := map[string]string{
		"meetup":   "a",
		"meetup-1": "b",
		"meetup-2": "c",
	}
	checker := &fakeChecker{owners: owners}
	a := NewArbiter(checker, 3, zaptest.NewLogger(t))

	_, err := a.Resolve(context.Background(), "meetup", "")
	require.ErrorIs(t, err, model.ErrSlugExhausted)
	assert.Equal(t, []string{"meetup", "meetup-1", "meetup-2"}, checker.calls)
}

func TestArbiter_CheckerError(t *testing.T) {
	boom := errors.New("connection reset")
	a := NewArbiter(&fakeChecker{err: boom}, 5, nil)

	_, err := a.Resolve(context.Background(), "meetup", "")
	require.ErrorIs(t, err, boom)
}
