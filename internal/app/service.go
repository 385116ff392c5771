package app

import (
	"context"
	"io"

	"po-generator/internal/core"
)

// ApplicationService is the single interface all adapters (CLI, Web) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// AuthenticateUser verifies credentials and returns a session on success.
	AuthenticateUser(ctx context.Context, username, password string) (*UserSession, error)

	// GetUser returns the user profile by ID.
	GetUser(ctx context.Context, userID int) (*UserResult, error)

	// ListUsers returns users matching the filter, ordered by username.
	ListUsers(ctx context.Context, filter core.UserFilter) (*UsersResult, error)

	// CreateUser adds an account. A taken username is a *core.ConflictError.
	CreateUser(ctx context.Context, req CreateUserRequest) (*UserResult, error)

	ListVendors(ctx context.Context) (*VendorsResult, error)
	GetVendor(ctx context.Context, id int) (*VendorResult, error)
	CreateVendor(ctx context.Context, req VendorRequest) (*VendorResult, error)
	UpdateVendor(ctx context.Context, id int, req VendorRequest) (*VendorResult, error)

	// DeleteVendor removes the vendor together with its purchase orders and
	// saved vendors.
	DeleteVendor(ctx context.Context, id int) error

	ListLineItems(ctx context.Context) (*LineItemsResult, error)
	GetLineItem(ctx context.Context, id int) (*LineItemResult, error)
	CreateLineItem(ctx context.Context, req LineItemRequest) (*LineItemResult, error)
	UpdateLineItem(ctx context.Context, id int, req LineItemRequest) (*LineItemResult, error)

	// DeleteLineItem removes the line item; purchase orders left without any
	// line item are removed as well.
	DeleteLineItem(ctx context.Context, id int) error

	ListSavedVendors(ctx context.Context, userID int) (*SavedVendorsResult, error)
	SaveVendor(ctx context.Context, req SaveTemplateRequest) (*core.SavedVendor, error)
	DeleteSavedVendor(ctx context.Context, userID, id int) error

	ListSavedLineItems(ctx context.Context, userID int) (*SavedLineItemsResult, error)
	SaveLineItem(ctx context.Context, req SaveTemplateRequest) (*core.SavedLineItem, error)
	DeleteSavedLineItem(ctx context.Context, userID, id int) error

	// ListPurchaseOrders returns the user's purchase orders, newest first.
	ListPurchaseOrders(ctx context.Context, userID int) (*PurchaseOrdersResult, error)

	// GetPurchaseOrder returns one of the user's purchase orders.
	GetPurchaseOrder(ctx context.Context, userID, poID int) (*PurchaseOrderResult, error)

	// CreatePurchaseOrder stores the uploaded signature, allocates the PO
	// number and persists the order.
	CreatePurchaseOrder(ctx context.Context, req PurchaseOrderRequest) (*PurchaseOrderResult, error)

	// UpdatePurchaseOrder replaces the order's fields. Without a new
	// signature upload the stored signature is kept.
	UpdatePurchaseOrder(ctx context.Context, poID int, req PurchaseOrderRequest) (*PurchaseOrderResult, error)

	DeletePurchaseOrder(ctx context.Context, userID, poID int) error

	// RenderPurchaseOrder produces the PDF document for a stored order.
	RenderPurchaseOrder(ctx context.Context, userID, poID int) (*DocumentResult, error)

	// OutlinePurchaseOrder writes the drawing operations of the document, one
	// per line, without producing a PDF.
	OutlinePurchaseOrder(ctx context.Context, userID, poID int, w io.Writer) error
}
