package core

import (
	"context"
	"time"
)

// SavedVendor is a user's named bookmark for a vendor.
type SavedVendor struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user"`
	Name      string    `json:"name"`
	Vendor    Vendor    `json:"vendor"`
	CreatedAt time.Time `json:"created_at"`
}

// SavedLineItem is a user's named bookmark for a line item.
type SavedLineItem struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user"`
	Name      string    `json:"name"`
	LineItem  LineItem  `json:"line_item"`
	CreatedAt time.Time `json:"created_at"`
}

// TemplateService manages saved vendors and saved line items. Every call is
// scoped to the owning user.
type TemplateService interface {
	SaveVendor(ctx context.Context, userID, vendorID int, name string) (*SavedVendor, error)
	GetSavedVendors(ctx context.Context, userID int) ([]SavedVendor, error)
	DeleteSavedVendor(ctx context.Context, userID, id int) error

	SaveLineItem(ctx context.Context, userID, lineItemID int, name string) (*SavedLineItem, error)
	GetSavedLineItems(ctx context.Context, userID int) ([]SavedLineItem, error)
	DeleteSavedLineItem(ctx context.Context, userID, id int) error
}
