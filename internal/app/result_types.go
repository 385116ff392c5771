package app

import "po-generator/internal/core"

// UserSession is returned by AuthenticateUser.
type UserSession struct {
	UserID      int
	Username    string
	DisplayName string
	IsStaff     bool
}

// UserResult is returned by user lookups.
type UserResult struct {
	User *core.User
}

// UsersResult is returned by ListUsers.
type UsersResult struct {
	Users []core.User
}

type VendorResult struct {
	Vendor *core.Vendor
}

type VendorsResult struct {
	Vendors []core.Vendor
}

type LineItemResult struct {
	LineItem *core.LineItem
}

type LineItemsResult struct {
	LineItems []core.LineItem
}

type SavedVendorsResult struct {
	SavedVendors []core.SavedVendor
}

type SavedLineItemsResult struct {
	SavedLineItems []core.SavedLineItem
}

// PurchaseOrderResult is returned by purchase order operations.
type PurchaseOrderResult struct {
	Order *core.PurchaseOrder
}

// PurchaseOrdersResult is returned by ListPurchaseOrders.
type PurchaseOrdersResult struct {
	Orders []core.PurchaseOrder
}

// DocumentResult is a rendered document ready for transport.
type DocumentResult struct {
	Filename    string
	ContentType string
	Content     []byte
}
