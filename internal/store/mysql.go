package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/multierr"

	"github.com/johndosdos/board/internal/model"
	"github.com/johndosdos/board/internal/timerange"
)

// MySQL stores messages in a MySQL messages table.
type MySQL struct {
	db *sql.DB
}

// NewMySQL opens dsn and checks that the server answers. Timestamps are read
// and written in UTC regardless of the dsn's settings.
func NewMySQL(ctx context.Context, dsn string) (*MySQL, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	if cfg.Params == nil {
		cfg.Params = map[string]string{}
	}
	cfg.Params["time_zone"] = "'+00:00'"

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not create mysql connector: %w", err)
	}

	db := sql.OpenDB(connector)
	if err := db.PingContext(ctx); err != nil {
		return nil, multierr.Append(
			fmt.Errorf("could not connect to the mysql database: %w", err),
			db.Close(),
		)
	}

	return &MySQL{db: db}, nil
}

// Insert reads the assigned id and created_at back inside the insert's
// transaction, since MySQL has no RETURNING clause.
func (m *MySQL) Insert(ctx context.Context, username, body string) (_ model.Message, err error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Message{}, persistenceError("insert", err)
	}
	defer func() {
		if err != nil {
			err = multierr.Append(err, ignoreDone(tx.Rollback()))
		}
	}()

	res, err := tx.ExecContext(ctx, "INSERT INTO messages (username, body) VALUES (?, ?)", username, body)
	if err != nil {
		return model.Message{}, persistenceError("insert", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.Message{}, persistenceError("insert", err)
	}

	var row messageRow
	err = tx.QueryRowContext(ctx, selectMessages+" WHERE id = ?", id).Scan(
		&row.ID,
		&row.Username,
		&row.Body,
		&row.CreatedAt,
	)
	if err != nil {
		return model.Message{}, persistenceError("insert", err)
	}

	if err = tx.Commit(); err != nil {
		return model.Message{}, persistenceError("insert", err)
	}

	return row.toModel(), nil
}

func (m *MySQL) List(ctx context.Context, tr timerange.TimeRange) ([]model.Message, error) {
	query, args := buildListQuery(tr, questionPlaceholder)

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistenceError("list", err)
	}
	defer rows.Close()

	messages := []model.Message{}
	for rows.Next() {
		var row messageRow
		if err := rows.Scan(&row.ID, &row.Username, &row.Body, &row.CreatedAt); err != nil {
			return nil, persistenceError("list", err)
		}
		messages = append(messages, row.toModel())
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceError("list", err)
	}

	return messages, nil
}

func (m *MySQL) Close() error {
	return m.db.Close()
}

func ignoreDone(err error) error {
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}
