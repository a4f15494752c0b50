package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/johndosdos/board/internal/testutil"
)

func TestMySQLStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	dsn, cleanup, err := testutil.TestWithMySQL(t)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := cleanup(); err != nil {
			t.Logf("%+v", err)
		}
	})

	runStoreSuite(t, func(t *testing.T) MessageStore {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		s, err := NewMySQL(ctx, dsn)
		require.NoError(t, err)
		_, err = s.db.ExecContext(ctx, "TRUNCATE TABLE messages")
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })

		return s
	})
}
