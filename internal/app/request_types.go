package app

import (
	"io"

	"github.com/shopspring/decimal"
)

// CreateUserRequest is the input for creating a user account.
type CreateUserRequest struct {
	Username    string
	Password    string
	Email       string
	FirstName   string
	LastName    string
	IsStaff     bool
	IsSuperuser bool
}

// VendorRequest is the input for creating or updating a vendor.
type VendorRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

// LineItemRequest is the input for creating or updating a line item.
type LineItemRequest struct {
	Quantity    decimal.Decimal `json:"quantity"`
	Description string          `json:"description"`
	Rate        decimal.Decimal `json:"rate"`
}

// SaveTemplateRequest bookmarks a vendor or line item under a label.
type SaveTemplateRequest struct {
	UserID   int
	TargetID int
	Name     string
}

// PurchaseOrderRequest is the input for creating or updating a purchase
// order. Signature, when set, is the uploaded image.
type PurchaseOrderRequest struct {
	UserID        int
	VendorID      int
	PaymentTerms  string
	PaymentDays   *int
	LineItemIDs   []int
	Notes         string
	ApprovalStamp string
	Signature     io.Reader
}
