package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgx shared by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGDayCounter is a DayCounter backed by the po_number_sequences table.
//
// Run it on a pgx.Tx: the upsert takes a row lock on the day's counter that
// is held until commit, so concurrent creations on the same day queue behind
// each other and a rolled-back creation gives its number back.
type PGDayCounter struct {
	q Querier
}

// NewPGDayCounter binds a counter to q.
func NewPGDayCounter(q Querier) *PGDayCounter {
	return &PGDayCounter{q: q}
}

// Next increments and returns the counter for day. The first call of a day
// seeds the counter from the highest numeric suffix already stored for that
// day, so rows written before the counter existed are never reissued.
func (c *PGDayCounter) Next(ctx context.Context, day time.Time) (int64, error) {
	var next int64
	err := c.q.QueryRow(ctx, `
		INSERT INTO po_number_sequences (day, last_number)
		VALUES ($1::date, 1 + COALESCE((
			SELECT MAX(substring(po_number FROM '-([0-9]+)$')::bigint)
			FROM purchase_orders
			WHERE po_number LIKE $2
		), 0))
		ON CONFLICT (day)
		DO UPDATE SET last_number = po_number_sequences.last_number + 1
		RETURNING last_number`,
		day.Format("2006-01-02"), PONumberDayPrefix(day)+"%",
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next PO sequence for %s: %w", day.Format("2006-01-02"), err)
	}
	return next, nil
}
