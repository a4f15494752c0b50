// Package store persists messages and lists them by time window.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/johndosdos/board/internal/model"
	"github.com/johndosdos/board/internal/timerange"
)

// Supported values for the driver argument of Open.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverMemory   = "memory"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store is closed")

// MessageStore is the persistence capability injected into the router.
//
// Insert is atomic per call and returns the message with its assigned id and
// timestamp. List returns messages strictly inside the range ordered by
// created_at then id, and an empty slice when nothing matches. Storage
// failures are returned as *model.PersistenceError.
type MessageStore interface {
	Insert(ctx context.Context, username, body string) (model.Message, error)
	List(ctx context.Context, tr timerange.TimeRange) ([]model.Message, error)
	Close() error
}

// Open connects to the store selected by driver.
func Open(ctx context.Context, driver, url string) (MessageStore, error) {
	switch driver {
	case DriverPostgres:
		s, err := NewPostgres(ctx, url)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverMySQL:
		s, err := NewMySQL(ctx, url)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

func persistenceError(op string, err error) error {
	return &model.PersistenceError{Op: op, Err: err}
}
