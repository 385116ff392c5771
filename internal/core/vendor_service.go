package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const vendorColumns = `id, name, address, city, state, zip_code, country, created_at, updated_at`

type vendorService struct {
	pool *pgxpool.Pool
}

// NewVendorService constructs a VendorService backed by PostgreSQL.
func NewVendorService(pool *pgxpool.Pool) VendorService {
	return &vendorService{pool: pool}
}

func scanVendor(row pgx.Row, v *Vendor) error {
	return row.Scan(&v.ID, &v.Name, &v.Address, &v.City, &v.State, &v.ZipCode, &v.Country,
		&v.CreatedAt, &v.UpdatedAt)
}

// CreateVendor inserts a new vendor record.
func (s *vendorService) CreateVendor(ctx context.Context, input VendorInput) (*Vendor, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	v := &Vendor{}
	err := scanVendor(s.pool.QueryRow(ctx, `
		INSERT INTO vendors (name, address, city, state, zip_code, country)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+vendorColumns,
		input.Name, input.Address, input.City, input.State, input.ZipCode, input.Country,
	), v)
	if err != nil {
		return nil, fmt.Errorf("create vendor %q: %w", input.Name, err)
	}
	return v, nil
}

// UpdateVendor overwrites every field of vendor id.
func (s *vendorService) UpdateVendor(ctx context.Context, id int, input VendorInput) (*Vendor, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	v := &Vendor{}
	err := scanVendor(s.pool.QueryRow(ctx, `
		UPDATE vendors
		SET name = $1, address = $2, city = $3, state = $4, zip_code = $5, country = $6,
		    updated_at = NOW()
		WHERE id = $7
		RETURNING `+vendorColumns,
		input.Name, input.Address, input.City, input.State, input.ZipCode, input.Country, id,
	), v)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("vendor %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("update vendor %d: %w", id, err)
	}
	return v, nil
}

// GetVendor returns a vendor by ID.
func (s *vendorService) GetVendor(ctx context.Context, id int) (*Vendor, error) {
	v := &Vendor{}
	err := scanVendor(s.pool.QueryRow(ctx,
		"SELECT "+vendorColumns+" FROM vendors WHERE id = $1", id,
	), v)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("vendor %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get vendor %d: %w", id, err)
	}
	return v, nil
}

// GetVendors returns all vendors ordered by name.
func (s *vendorService) GetVendors(ctx context.Context) ([]Vendor, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+vendorColumns+" FROM vendors ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("get vendors: %w", err)
	}
	defer rows.Close()

	var vendors []Vendor
	for rows.Next() {
		var v Vendor
		if err := scanVendor(rows, &v); err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

// DeleteVendor removes a vendor; foreign keys cascade to purchase orders and
// saved vendors.
func (s *vendorService) DeleteVendor(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM vendors WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete vendor %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("vendor %d: %w", id, ErrNotFound)
	}
	return nil
}
