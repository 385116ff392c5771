package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const lineItemColumns = `id, quantity, description, rate, created_at, updated_at`

type lineItemService struct {
	pool *pgxpool.Pool
}

// NewLineItemService constructs a LineItemService backed by PostgreSQL.
func NewLineItemService(pool *pgxpool.Pool) LineItemService {
	return &lineItemService{pool: pool}
}

func scanLineItem(row pgx.Row, li *LineItem) error {
	return row.Scan(&li.ID, &li.Quantity, &li.Description, &li.Rate, &li.CreatedAt, &li.UpdatedAt)
}

func (s *lineItemService) CreateLineItem(ctx context.Context, input LineItemInput) (*LineItem, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	li := &LineItem{}
	err := scanLineItem(s.pool.QueryRow(ctx, `
		INSERT INTO line_items (quantity, description, rate)
		VALUES ($1, $2, $3)
		RETURNING `+lineItemColumns,
		input.Quantity, input.Description, input.Rate,
	), li)
	if err != nil {
		return nil, fmt.Errorf("create line item: %w", err)
	}
	return li, nil
}

func (s *lineItemService) UpdateLineItem(ctx context.Context, id int, input LineItemInput) (*LineItem, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	li := &LineItem{}
	err := scanLineItem(s.pool.QueryRow(ctx, `
		UPDATE line_items
		SET quantity = $1, description = $2, rate = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING `+lineItemColumns,
		input.Quantity, input.Description, input.Rate, id,
	), li)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("line item %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("update line item %d: %w", id, err)
	}
	return li, nil
}

func (s *lineItemService) GetLineItem(ctx context.Context, id int) (*LineItem, error) {
	li := &LineItem{}
	err := scanLineItem(s.pool.QueryRow(ctx,
		"SELECT "+lineItemColumns+" FROM line_items WHERE id = $1", id,
	), li)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("line item %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get line item %d: %w", id, err)
	}
	return li, nil
}

func (s *lineItemService) GetLineItems(ctx context.Context) ([]LineItem, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+lineItemColumns+" FROM line_items ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("get line items: %w", err)
	}
	defer rows.Close()

	var items []LineItem
	for rows.Next() {
		var li LineItem
		if err := scanLineItem(rows, &li); err != nil {
			return nil, fmt.Errorf("scan line item: %w", err)
		}
		items = append(items, li)
	}
	return items, rows.Err()
}

// DeleteLineItem removes the line item, then any purchase order it leaves
// without line items.
func (s *lineItemService) DeleteLineItem(ctx context.Context, id int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx,
		"SELECT purchase_order_id FROM purchase_order_line_items WHERE line_item_id = $1", id)
	if err != nil {
		return fmt.Errorf("find purchase orders of line item %d: %w", id, err)
	}
	poIDs, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return fmt.Errorf("scan purchase order ids: %w", err)
	}

	tag, err := tx.Exec(ctx, "DELETE FROM line_items WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete line item %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("line item %d: %w", id, ErrNotFound)
	}

	if len(poIDs) > 0 {
		if _, err := tx.Exec(ctx, `
			DELETE FROM purchase_orders po
			WHERE po.id = ANY($1)
			  AND NOT EXISTS (
			      SELECT 1 FROM purchase_order_line_items pli WHERE pli.purchase_order_id = po.id
			  )`,
			poIDs,
		); err != nil {
			return fmt.Errorf("delete emptied purchase orders: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit line item delete: %w", err)
	}
	return nil
}
