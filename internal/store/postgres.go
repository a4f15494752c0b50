package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"

	"github.com/johndosdos/board/internal/model"
	"github.com/johndosdos/board/internal/timerange"
)

type messageRow struct {
	ID        int64
	Username  string
	Body      string
	CreatedAt time.Time
}

func (r messageRow) toModel() model.Message {
	return model.Message{
		ID:        r.ID,
		Username:  r.Username,
		Body:      r.Body,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

// Postgres stores messages in a PostgreSQL messages table.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects a pool to url and checks that the database answers.
func NewPostgres(ctx context.Context, url string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("could not connect to the postgresql database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("could not ping the postgresql database: %w", err)
	}

	return NewPostgresFromPool(pool), nil
}

// NewPostgresFromPool wraps an existing pool. Close closes the pool.
func NewPostgresFromPool(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) Insert(ctx context.Context, username, body string) (model.Message, error) {
	const query = `
		INSERT INTO messages (username, body)
		VALUES ($1, $2)
		RETURNING id, username, body, created_at
	`

	var row messageRow
	err := p.pool.QueryRow(ctx, query, username, body).Scan(
		&row.ID,
		&row.Username,
		&row.Body,
		&row.CreatedAt,
	)
	if err != nil {
		return model.Message{}, persistenceError("insert", err)
	}

	return row.toModel(), nil
}

func (p *Postgres) List(ctx context.Context, tr timerange.TimeRange) ([]model.Message, error) {
	query, args := buildListQuery(tr, dollarPlaceholder)

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, persistenceError("list", err)
	}

	collected, err := pgx.CollectRows(rows, pgx.RowToStructByPos[messageRow])
	if err != nil {
		return nil, persistenceError("list", err)
	}

	return lo.Map(collected, func(r messageRow, _ int) model.Message {
		return r.toModel()
	}), nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
