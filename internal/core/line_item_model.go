package core

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is a quantity/description/rate entry. A single line item may be
// attached to several purchase orders.
type LineItem struct {
	ID          int             `json:"id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Description string          `json:"description"`
	Rate        decimal.Decimal `json:"rate"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Amount is quantity × rate. It is derived on read and never stored.
func (li LineItem) Amount() decimal.Decimal {
	return li.Quantity.Mul(li.Rate)
}

// LineItemInput holds the fields required to create or update a line item.
type LineItemInput struct {
	Quantity    decimal.Decimal
	Description string
	Rate        decimal.Decimal
}

// maxMoney is the largest value a NUMERIC(10,2) column accepts.
var maxMoney = decimal.RequireFromString("99999999.99")

// Validate checks the input against the storage constraints.
func (in LineItemInput) Validate() error {
	v := &ValidationError{}
	if strings.TrimSpace(in.Description) == "" {
		v.Add("description", "This field is required.")
	}
	if in.Quantity.IsNegative() {
		v.Add("quantity", "Ensure this value is greater than or equal to 0.")
	}
	if in.Rate.IsNegative() {
		v.Add("rate", "Ensure this value is greater than or equal to 0.")
	}
	if !in.Quantity.Equal(in.Quantity.Round(2)) {
		v.Add("quantity", "Ensure that there are no more than 2 decimal places.")
	}
	if !in.Rate.Equal(in.Rate.Round(2)) {
		v.Add("rate", "Ensure that there are no more than 2 decimal places.")
	}
	if in.Quantity.GreaterThan(maxMoney) {
		v.Add("quantity", "Ensure that there are no more than 10 digits in total.")
	}
	if in.Rate.GreaterThan(maxMoney) {
		v.Add("rate", "Ensure that there are no more than 10 digits in total.")
	}
	return v.OrNil()
}

// LineItemService provides line item operations.
type LineItemService interface {
	CreateLineItem(ctx context.Context, input LineItemInput) (*LineItem, error)
	UpdateLineItem(ctx context.Context, id int, input LineItemInput) (*LineItem, error)
	GetLineItem(ctx context.Context, id int) (*LineItem, error)
	GetLineItems(ctx context.Context) ([]LineItem, error)

	// DeleteLineItem removes a line item along with the saved line items
	// that reference it. Purchase orders left without any line item are
	// deleted in the same transaction.
	DeleteLineItem(ctx context.Context, id int) error
}
