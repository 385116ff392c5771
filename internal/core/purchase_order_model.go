package core

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultPaymentDays is the payment window used when none is given.
const DefaultPaymentDays = 30

// PurchaseOrder is the PO aggregate: the header together with its resolved
// user, vendor and ordered line items.
type PurchaseOrder struct {
	ID            int            `json:"id"`
	Number        string         `json:"po_number"`
	UserID        int            `json:"user_id"`
	User          *User          `json:"user,omitempty"`
	VendorID      int            `json:"vendor_id"`
	Vendor        *Vendor        `json:"vendor,omitempty"`
	Date          time.Time      `json:"date"`
	PaymentTerms  string         `json:"payment_terms"`
	PaymentDays   int            `json:"payment_days"`
	LineItems     []LineItem     `json:"line_items"`
	Notes         string         `json:"notes"`
	ApprovalStamp StampSelection `json:"approval_stamp"`
	SignaturePath *string        `json:"signature,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// TotalAmount sums the amounts of every line item.
func (po *PurchaseOrder) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, li := range po.LineItems {
		total = total.Add(li.Amount())
	}
	return total
}

// HasSignature reports whether a signature image is attached.
func (po *PurchaseOrder) HasSignature() bool {
	return po.SignaturePath != nil && *po.SignaturePath != ""
}

// PurchaseOrderInput holds the caller-supplied fields of a purchase order.
// Date is not part of the input: it is always set to the save date.
type PurchaseOrderInput struct {
	// Number is normally empty; the allocator assigns one on create.
	Number        string
	VendorID      int
	PaymentTerms  string
	PaymentDays   *int
	LineItemIDs   []int
	Notes         string
	ApprovalStamp string
	SignaturePath string

	// RequireSignature rejects an input without SignaturePath.
	RequireSignature bool
}

// Validate checks the input the way the request boundary requires: a vendor,
// at least one line item and a known stamp selector. A signature is checked
// only when RequireSignature is set.
func (in PurchaseOrderInput) Validate() error {
	v := &ValidationError{}
	if in.VendorID <= 0 {
		v.Add("vendor_id", "This field is required.")
	}
	if len(in.LineItemIDs) == 0 {
		v.Add("line_item_ids", "At least one line item is required.")
	}
	seen := make(map[int]bool, len(in.LineItemIDs))
	for _, id := range in.LineItemIDs {
		if id <= 0 {
			v.Add("line_item_ids", "Invalid line item IDs format.")
			break
		}
		if seen[id] {
			v.Add("line_item_ids", "Duplicate line item IDs are not allowed.")
			break
		}
		seen[id] = true
	}
	if in.PaymentDays != nil && *in.PaymentDays < 0 {
		v.Add("payment_days", "Ensure this value is greater than or equal to 0.")
	}
	if in.RequireSignature && in.SignaturePath == "" {
		v.Add("signature", "Signature is required.")
	}
	if _, err := ParseStampSelection(in.ApprovalStamp); err != nil {
		var stampErr *ValidationError
		if !errors.As(err, &stampErr) {
			return err
		}
		for _, msg := range stampErr.Fields["approval_stamp"] {
			v.Add("approval_stamp", msg)
		}
	}
	return v.OrNil()
}

// PurchaseOrderService provides purchase order operations. Every call is
// scoped to the owning user.
type PurchaseOrderService interface {
	// CreatePO validates the input, allocates a PO number and persists the
	// order with today's date. A PO number collision is reported as a
	// *ConflictError.
	CreatePO(ctx context.Context, userID int, input PurchaseOrderInput) (*PurchaseOrder, error)

	// UpdatePO replaces the order's fields and line items. The PO number
	// never changes; the date is reset to today.
	UpdatePO(ctx context.Context, userID, poID int, input PurchaseOrderInput) (*PurchaseOrder, error)

	// GetPO returns the fully loaded aggregate, or ErrNotFound.
	GetPO(ctx context.Context, userID, poID int) (*PurchaseOrder, error)

	// GetPOs returns the user's purchase orders, newest first, with vendor
	// and line items loaded.
	GetPOs(ctx context.Context, userID int) ([]PurchaseOrder, error)

	DeletePO(ctx context.Context, userID, poID int) error
}
