package core

import (
	"context"
	"strings"
	"time"
)

// Vendor is a supplier that purchase orders are issued to.
type Vendor struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	ZipCode   string    `json:"zip_code"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VendorInput holds the fields required to create or update a vendor.
type VendorInput struct {
	Name    string
	Address string
	City    string
	State   string
	ZipCode string
	Country string
}

// Validate reports every empty field. All address parts are required because
// the vendor block of the PO document prints each of them.
func (in VendorInput) Validate() error {
	v := &ValidationError{}
	check := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			v.Add(field, "This field is required.")
		}
	}
	check("name", in.Name)
	check("address", in.Address)
	check("city", in.City)
	check("state", in.State)
	check("zip_code", in.ZipCode)
	check("country", in.Country)
	return v.OrNil()
}

// MissingAddressFields returns the names of the empty vendor fields.
func (v *Vendor) MissingAddressFields() []string {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"name", v.Name},
		{"address", v.Address},
		{"city", v.City},
		{"state", v.State},
		{"zip_code", v.ZipCode},
		{"country", v.Country},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// VendorService provides vendor master data operations.
type VendorService interface {
	// CreateVendor inserts a new vendor.
	CreateVendor(ctx context.Context, input VendorInput) (*Vendor, error)

	// UpdateVendor replaces every field of an existing vendor.
	UpdateVendor(ctx context.Context, id int, input VendorInput) (*Vendor, error)

	// GetVendor returns a vendor by ID, or ErrNotFound.
	GetVendor(ctx context.Context, id int) (*Vendor, error)

	// GetVendors returns all vendors ordered by name.
	GetVendors(ctx context.Context) ([]Vendor, error)

	// DeleteVendor removes a vendor. Purchase orders and saved vendors that
	// reference it are deleted with it.
	DeleteVendor(ctx context.Context, id int) error
}
