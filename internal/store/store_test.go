package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johndosdos/board/internal/model"
	"github.com/johndosdos/board/internal/timerange"
)

// runStoreSuite checks the MessageStore contract against a fresh, empty store
// returned by newStore.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) MessageStore) {
	t.Run("empty store lists nothing", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		got, err := s.List(ctx, timerange.TimeRange{})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("insert then list includes message once", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		msg, err := s.Insert(ctx, "alice", "hello")
		require.NoError(t, err)
		assert.NotZero(t, msg.ID)
		assert.Equal(t, "alice", msg.Username)
		assert.Equal(t, "hello", msg.Body)
		assert.False(t, msg.CreatedAt.IsZero())

		got, err := s.List(ctx, timerange.TimeRange{})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, msg.ID, got[0].ID)
		assert.True(t, msg.CreatedAt.Equal(got[0].CreatedAt))
	})

	t.Run("bounds are exclusive and ordered", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		var inserted []model.Message
		for i := range 3 {
			msg, err := s.Insert(ctx, fmt.Sprintf("user_%d", i), fmt.Sprintf("message %d", i))
			require.NoError(t, err)
			inserted = append(inserted, msg)
			time.Sleep(5 * time.Millisecond)
		}
		first, second, third := inserted[0].CreatedAt, inserted[1].CreatedAt, inserted[2].CreatedAt

		tests := []struct {
			name    string
			tr      timerange.TimeRange
			wantIDs []int64
		}{
			{"unbounded", timerange.TimeRange{}, ids(inserted)},
			{"after first", timerange.TimeRange{After: &first}, ids(inserted[1:])},
			{"before third", timerange.TimeRange{Before: &third}, ids(inserted[:2])},
			{"strictly between", timerange.TimeRange{After: &first, Before: &third}, ids(inserted[1:2])},
			{"after equals before", timerange.TimeRange{After: &second, Before: &second}, nil},
			{"inverted", timerange.TimeRange{After: &third, Before: &first}, nil},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := s.List(ctx, tt.tr)
				require.NoError(t, err)
				if tt.wantIDs == nil {
					assert.Empty(t, got)
					return
				}
				assert.Equal(t, tt.wantIDs, ids(got))
			})
		}
	})

	t.Run("concurrent inserts get unique ids", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		const n = 20
		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			seen = make(map[int64]struct{}, n)
		)
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				msg, err := s.Insert(ctx, "load", fmt.Sprintf("message %d", i))
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				seen[msg.ID] = struct{}{}
				mu.Unlock()
			}()
		}
		wg.Wait()

		assert.Len(t, seen, n)

		got, err := s.List(ctx, timerange.TimeRange{})
		require.NoError(t, err)
		assert.Len(t, got, n)
		for _, msg := range got {
			assert.Contains(t, seen, msg.ID)
		}
	})
}

func ids(messages []model.Message) []int64 {
	out := make([]int64, 0, len(messages))
	for _, m := range messages {
		out = append(out, m.ID)
	}
	return out
}
