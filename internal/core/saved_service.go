package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type templateService struct {
	pool *pgxpool.Pool
}

// NewTemplateService constructs a TemplateService backed by PostgreSQL.
func NewTemplateService(pool *pgxpool.Pool) TemplateService {
	return &templateService{pool: pool}
}

func validateTemplateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return NewValidationError("name", "This field is required.")
	}
	if len(name) > 100 {
		return NewValidationError("name", "Ensure this field has no more than 100 characters.")
	}
	return nil
}

func (s *templateService) SaveVendor(ctx context.Context, userID, vendorID int, name string) (*SavedVendor, error) {
	if err := validateTemplateName(name); err != nil {
		return nil, err
	}

	var id int
	err := s.pool.QueryRow(ctx, `
		INSERT INTO saved_vendors (user_id, vendor_id, name)
		VALUES ($1, $2, $3)
		RETURNING id`,
		userID, vendorID, name,
	).Scan(&id)
	if err != nil {
		if foreignKeyViolation(err) {
			return nil, NewValidationError("vendor_id",
				fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", vendorID))
		}
		return nil, fmt.Errorf("save vendor %d: %w", vendorID, err)
	}
	return s.getSavedVendor(ctx, userID, id)
}

const savedVendorSelect = `
	SELECT sv.id, sv.user_id, sv.name, sv.created_at,
	       v.id, v.name, v.address, v.city, v.state, v.zip_code, v.country, v.created_at, v.updated_at
	FROM saved_vendors sv
	JOIN vendors v ON v.id = sv.vendor_id`

func scanSavedVendor(row pgx.Row, sv *SavedVendor) error {
	v := &sv.Vendor
	return row.Scan(&sv.ID, &sv.UserID, &sv.Name, &sv.CreatedAt,
		&v.ID, &v.Name, &v.Address, &v.City, &v.State, &v.ZipCode, &v.Country, &v.CreatedAt, &v.UpdatedAt)
}

func (s *templateService) getSavedVendor(ctx context.Context, userID, id int) (*SavedVendor, error) {
	sv := &SavedVendor{}
	err := scanSavedVendor(s.pool.QueryRow(ctx,
		savedVendorSelect+" WHERE sv.id = $1 AND sv.user_id = $2", id, userID), sv)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("saved vendor %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get saved vendor %d: %w", id, err)
	}
	return sv, nil
}

func (s *templateService) GetSavedVendors(ctx context.Context, userID int) ([]SavedVendor, error) {
	rows, err := s.pool.Query(ctx,
		savedVendorSelect+" WHERE sv.user_id = $1 ORDER BY sv.created_at DESC, sv.id DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("list saved vendors: %w", err)
	}
	defer rows.Close()

	var out []SavedVendor
	for rows.Next() {
		var sv SavedVendor
		if err := scanSavedVendor(rows, &sv); err != nil {
			return nil, fmt.Errorf("scan saved vendor: %w", err)
		}
		out = append(out, sv)
	}
	return out, rows.Err()
}

func (s *templateService) DeleteSavedVendor(ctx context.Context, userID, id int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM saved_vendors WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return fmt.Errorf("delete saved vendor %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("saved vendor %d: %w", id, ErrNotFound)
	}
	return nil
}

const savedLineItemSelect = `
	SELECT sl.id, sl.user_id, sl.name, sl.created_at,
	       li.id, li.quantity, li.description, li.rate, li.created_at, li.updated_at
	FROM saved_line_items sl
	JOIN line_items li ON li.id = sl.line_item_id`

func scanSavedLineItem(row pgx.Row, sl *SavedLineItem) error {
	li := &sl.LineItem
	return row.Scan(&sl.ID, &sl.UserID, &sl.Name, &sl.CreatedAt,
		&li.ID, &li.Quantity, &li.Description, &li.Rate, &li.CreatedAt, &li.UpdatedAt)
}

func (s *templateService) SaveLineItem(ctx context.Context, userID, lineItemID int, name string) (*SavedLineItem, error) {
	if err := validateTemplateName(name); err != nil {
		return nil, err
	}

	var id int
	err := s.pool.QueryRow(ctx, `
		INSERT INTO saved_line_items (user_id, line_item_id, name)
		VALUES ($1, $2, $3)
		RETURNING id`,
		userID, lineItemID, name,
	).Scan(&id)
	if err != nil {
		if foreignKeyViolation(err) {
			return nil, NewValidationError("line_item_id",
				fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", lineItemID))
		}
		return nil, fmt.Errorf("save line item %d: %w", lineItemID, err)
	}

	sl := &SavedLineItem{}
	if err := scanSavedLineItem(s.pool.QueryRow(ctx,
		savedLineItemSelect+" WHERE sl.id = $1", id), sl); err != nil {
		return nil, fmt.Errorf("get saved line item %d: %w", id, err)
	}
	return sl, nil
}

func (s *templateService) GetSavedLineItems(ctx context.Context, userID int) ([]SavedLineItem, error) {
	rows, err := s.pool.Query(ctx,
		savedLineItemSelect+" WHERE sl.user_id = $1 ORDER BY sl.created_at DESC, sl.id DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("list saved line items: %w", err)
	}
	defer rows.Close()

	var out []SavedLineItem
	for rows.Next() {
		var sl SavedLineItem
		if err := scanSavedLineItem(rows, &sl); err != nil {
			return nil, fmt.Errorf("scan saved line item: %w", err)
		}
		out = append(out, sl)
	}
	return out, rows.Err()
}

func (s *templateService) DeleteSavedLineItem(ctx context.Context, userID, id int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM saved_line_items WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return fmt.Errorf("delete saved line item %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("saved line item %d: %w", id, ErrNotFound)
	}
	return nil
}
