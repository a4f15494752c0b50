package store

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/johndosdos/board/internal/model"
	"github.com/johndosdos/board/internal/timerange"
)

// Memory keeps messages in process memory.
type Memory struct {
	mu       sync.RWMutex
	messages []model.Message
	nextID   int64
	closed   bool
	timeNow  func() time.Time
}

func NewMemory() *Memory {
	return NewMemoryWithClock(time.Now)
}

// NewMemoryWithClock returns a Memory store that stamps messages using now.
func NewMemoryWithClock(now func() time.Time) *Memory {
	return &Memory{timeNow: now}
}

func (m *Memory) Insert(ctx context.Context, username, body string) (model.Message, error) {
	if err := ctx.Err(); err != nil {
		return model.Message{}, persistenceError("insert", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return model.Message{}, persistenceError("insert", ErrClosed)
	}

	m.nextID++
	msg := model.Message{
		ID:        m.nextID,
		Username:  username,
		Body:      body,
		CreatedAt: m.timeNow().UTC(),
	}
	m.messages = append(m.messages, msg)

	return msg, nil
}

func (m *Memory) List(ctx context.Context, tr timerange.TimeRange) ([]model.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, persistenceError("list", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, persistenceError("list", ErrClosed)
	}

	matched := lo.Filter(m.messages, func(msg model.Message, _ int) bool {
		return tr.Contains(msg.CreatedAt)
	})
	slices.SortFunc(matched, func(a, b model.Message) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	return matched, nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}
