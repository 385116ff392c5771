package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const purchaseOrderSelect = `
	SELECT po.id, po.po_number, po.user_id, po.vendor_id, po.date,
	       po.payment_terms, po.payment_days, po.notes, po.approval_stamp,
	       po.signature_path, po.created_at, po.updated_at,
	       v.id, v.name, v.address, v.city, v.state, v.zip_code, v.country,
	       v.created_at, v.updated_at,
	       u.id, u.username, u.email, u.first_name, u.last_name,
	       u.is_staff, u.is_superuser, u.is_active, u.last_login, u.created_at
	FROM purchase_orders po
	JOIN vendors v ON v.id = po.vendor_id
	JOIN users u ON u.id = po.user_id`

type purchaseOrderService struct {
	pool *pgxpool.Pool
	loc  *time.Location
	now  func() time.Time
}

// NewPurchaseOrderService constructs a PurchaseOrderService backed by
// PostgreSQL. PO numbers and dates are computed from now in loc; nil values
// mean time.Now and time.Local.
func NewPurchaseOrderService(pool *pgxpool.Pool, loc *time.Location, now func() time.Time) PurchaseOrderService {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &purchaseOrderService{pool: pool, loc: loc, now: now}
}

// CreatePO validates the input, allocates the PO number inside the creation
// transaction and stores the order dated today.
func (s *purchaseOrderService) CreatePO(ctx context.Context, userID int, input PurchaseOrderInput) (*PurchaseOrder, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	stamp, _ := ParseStampSelection(input.ApprovalStamp)
	paymentDays := DefaultPaymentDays
	if input.PaymentDays != nil {
		paymentDays = *input.PaymentDays
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := checkReferences(ctx, tx, input); err != nil {
		return nil, err
	}

	number := input.Number
	issued := s.now().In(s.loc)
	allocated := number == ""
	if allocated {
		alloc := NewAllocator(NewPGDayCounter(tx), s.loc, func() time.Time { return issued })
		if number, issued, err = alloc.Allocate(ctx); err != nil {
			return nil, err
		}
	}

	var poID int
	if err := tx.QueryRow(ctx, `
		INSERT INTO purchase_orders (po_number, user_id, vendor_id, date, payment_terms,
		                             payment_days, notes, approval_stamp, signature_path,
		                             created_at, updated_at)
		VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8, NULLIF($9::text, ''), $10, $10)
		RETURNING id`,
		number, userID, input.VendorID, issued.Format("2006-01-02"), input.PaymentTerms,
		paymentDays, input.Notes, string(stamp), input.SignaturePath, issued,
	).Scan(&poID); err != nil {
		if _, ok := uniqueViolation(err); ok {
			return nil, &ConflictError{Resource: "purchase order number", Value: number, Allocated: allocated, Err: err}
		}
		return nil, fmt.Errorf("insert purchase order: %w", err)
	}

	if err := setLineItems(ctx, tx, poID, input.LineItemIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		if _, ok := uniqueViolation(err); ok {
			return nil, &ConflictError{Resource: "purchase order number", Value: number, Allocated: allocated, Err: err}
		}
		return nil, fmt.Errorf("commit purchase order: %w", err)
	}

	return s.GetPO(ctx, userID, poID)
}

// UpdatePO replaces the order's editable fields and its line items. The date
// is reset to the save date; the number is left alone.
func (s *purchaseOrderService) UpdatePO(ctx context.Context, userID, poID int, input PurchaseOrderInput) (*PurchaseOrder, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	stamp, _ := ParseStampSelection(input.ApprovalStamp)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var paymentDays int
	if err := tx.QueryRow(ctx,
		"SELECT payment_days FROM purchase_orders WHERE id = $1 AND user_id = $2 FOR UPDATE",
		poID, userID,
	).Scan(&paymentDays); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("purchase order %d: %w", poID, ErrNotFound)
		}
		return nil, fmt.Errorf("lock purchase order %d: %w", poID, err)
	}
	if input.PaymentDays != nil {
		paymentDays = *input.PaymentDays
	}

	if err := checkReferences(ctx, tx, input); err != nil {
		return nil, err
	}

	saved := s.now().In(s.loc)
	if _, err := tx.Exec(ctx, `
		UPDATE purchase_orders
		SET vendor_id = $1, date = $2::date, payment_terms = $3, payment_days = $4,
		    notes = $5, approval_stamp = $6, signature_path = NULLIF($7::text, ''), updated_at = $8
		WHERE id = $9`,
		input.VendorID, saved.Format("2006-01-02"), input.PaymentTerms, paymentDays,
		input.Notes, string(stamp), input.SignaturePath, saved, poID,
	); err != nil {
		return nil, fmt.Errorf("update purchase order %d: %w", poID, err)
	}

	if _, err := tx.Exec(ctx,
		"DELETE FROM purchase_order_line_items WHERE purchase_order_id = $1", poID,
	); err != nil {
		return nil, fmt.Errorf("clear line items of purchase order %d: %w", poID, err)
	}
	if err := setLineItems(ctx, tx, poID, input.LineItemIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit purchase order update: %w", err)
	}

	return s.GetPO(ctx, userID, poID)
}

// checkReferences confirms the vendor and every line item exist.
func checkReferences(ctx context.Context, q Querier, input PurchaseOrderInput) error {
	verr := &ValidationError{}

	var vendorExists bool
	if err := q.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM vendors WHERE id = $1)", input.VendorID,
	).Scan(&vendorExists); err != nil {
		return fmt.Errorf("validate vendor: %w", err)
	}
	if !vendorExists {
		verr.Add("vendor_id", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", input.VendorID))
	}

	rows, err := q.Query(ctx, "SELECT id FROM line_items WHERE id = ANY($1)", input.LineItemIDs)
	if err != nil {
		return fmt.Errorf("validate line items: %w", err)
	}
	found, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return fmt.Errorf("scan line item ids: %w", err)
	}
	exists := make(map[int]bool, len(found))
	for _, id := range found {
		exists[id] = true
	}
	for _, id := range input.LineItemIDs {
		if !exists[id] {
			verr.Add("line_item_ids", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
		}
	}
	return verr.OrNil()
}

// setLineItems attaches line items in the given order.
func setLineItems(ctx context.Context, q Querier, poID int, lineItemIDs []int) error {
	for i, id := range lineItemIDs {
		if _, err := q.Exec(ctx, `
			INSERT INTO purchase_order_line_items (purchase_order_id, line_item_id, position)
			VALUES ($1, $2, $3)`,
			poID, id, i+1,
		); err != nil {
			if foreignKeyViolation(err) {
				return NewValidationError("line_item_ids",
					fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
			}
			return fmt.Errorf("attach line item %d to purchase order %d: %w", id, poID, err)
		}
	}
	return nil
}

func scanPurchaseOrder(row pgx.Row) (*PurchaseOrder, error) {
	po := &PurchaseOrder{Vendor: &Vendor{}, User: &User{}}
	var stamp string
	if err := row.Scan(
		&po.ID, &po.Number, &po.UserID, &po.VendorID, &po.Date,
		&po.PaymentTerms, &po.PaymentDays, &po.Notes, &stamp,
		&po.SignaturePath, &po.CreatedAt, &po.UpdatedAt,
		&po.Vendor.ID, &po.Vendor.Name, &po.Vendor.Address, &po.Vendor.City, &po.Vendor.State,
		&po.Vendor.ZipCode, &po.Vendor.Country, &po.Vendor.CreatedAt, &po.Vendor.UpdatedAt,
		&po.User.ID, &po.User.Username, &po.User.Email, &po.User.FirstName, &po.User.LastName,
		&po.User.IsStaff, &po.User.IsSuperuser, &po.User.IsActive, &po.User.LastLogin, &po.User.CreatedAt,
	); err != nil {
		return nil, err
	}
	po.ApprovalStamp = StampSelection(stamp)
	return po, nil
}

// GetPO returns a purchase order with its vendor, user and line items.
func (s *purchaseOrderService) GetPO(ctx context.Context, userID, poID int) (*PurchaseOrder, error) {
	po, err := scanPurchaseOrder(s.pool.QueryRow(ctx,
		purchaseOrderSelect+" WHERE po.id = $1 AND po.user_id = $2", poID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("purchase order %d: %w", poID, ErrNotFound)
		}
		return nil, fmt.Errorf("get purchase order %d: %w", poID, err)
	}

	items, err := s.fetchLineItems(ctx, []int{poID})
	if err != nil {
		return nil, err
	}
	po.LineItems = items[poID]
	return po, nil
}

// GetPOs returns the user's purchase orders, newest first.
func (s *purchaseOrderService) GetPOs(ctx context.Context, userID int) ([]PurchaseOrder, error) {
	rows, err := s.pool.Query(ctx,
		purchaseOrderSelect+" WHERE po.user_id = $1 ORDER BY po.created_at DESC, po.id DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()

	var orders []PurchaseOrder
	var ids []int
	for rows.Next() {
		po, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		orders = append(orders, *po)
		ids = append(ids, po.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	if len(ids) == 0 {
		return orders, nil
	}

	items, err := s.fetchLineItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].LineItems = items[orders[i].ID]
	}
	return orders, nil
}

// fetchLineItems returns line items per purchase order in stored position
// order.
func (s *purchaseOrderService) fetchLineItems(ctx context.Context, poIDs []int) (map[int][]LineItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT pli.purchase_order_id, pli.position,
		       li.id, li.quantity, li.description, li.rate, li.created_at, li.updated_at
		FROM purchase_order_line_items pli
		JOIN line_items li ON li.id = pli.line_item_id
		WHERE pli.purchase_order_id = ANY($1)
		ORDER BY pli.purchase_order_id, pli.position`,
		poIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch line items: %w", err)
	}
	defer rows.Close()

	type positioned struct {
		pos  int
		item LineItem
	}
	byPO := make(map[int][]positioned)
	for rows.Next() {
		var poID int
		var p positioned
		if err := rows.Scan(&poID, &p.pos,
			&p.item.ID, &p.item.Quantity, &p.item.Description, &p.item.Rate,
			&p.item.CreatedAt, &p.item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan line item: %w", err)
		}
		byPO[poID] = append(byPO[poID], p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch line items: %w", err)
	}

	out := make(map[int][]LineItem, len(byPO))
	for poID, ps := range byPO {
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].pos < ps[j].pos })
		items := make([]LineItem, len(ps))
		for i, p := range ps {
			items[i] = p.item
		}
		out[poID] = items
	}
	return out, nil
}

func (s *purchaseOrderService) DeletePO(ctx context.Context, userID, poID int) error {
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM purchase_orders WHERE id = $1 AND user_id = $2", poID, userID)
	if err != nil {
		return fmt.Errorf("delete purchase order %d: %w", poID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("purchase order %d: %w", poID, ErrNotFound)
	}
	return nil
}
