package web

import (
	"net/http"

	"github.com/shopspring/decimal"

	"po-generator/internal/app"
	"po-generator/internal/core"
)

// ── Vendors ───────────────────────────────────────────────────────────────────

// listVendors handles GET /api/vendors.
func (h *Handler) listVendors(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListVendors(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	vendors := res.Vendors
	if vendors == nil {
		vendors = []core.Vendor{}
	}
	writeJSON(w, vendors)
}

// getVendor handles GET /api/vendors/{id}.
func (h *Handler) getVendor(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	res, err := h.svc.GetVendor(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res.Vendor)
}

// createVendor handles POST /api/vendors.
func (h *Handler) createVendor(w http.ResponseWriter, r *http.Request) {
	var req app.VendorRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.CreateVendor(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, res.Vendor)
}

// updateVendor handles PUT /api/vendors/{id}.
func (h *Handler) updateVendor(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req app.VendorRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.UpdateVendor(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res.Vendor)
}

// deleteVendor handles DELETE /api/vendors/{id}.
func (h *Handler) deleteVendor(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteVendor(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ── Line items ────────────────────────────────────────────────────────────────

// lineItemResponse adds the derived amount to a line item.
type lineItemResponse struct {
	core.LineItem
	Amount decimal.Decimal `json:"amount"`
}

func newLineItemResponse(li core.LineItem) lineItemResponse {
	return lineItemResponse{LineItem: li, Amount: li.Amount()}
}

func newLineItemResponses(items []core.LineItem) []lineItemResponse {
	out := make([]lineItemResponse, 0, len(items))
	for _, li := range items {
		out = append(out, newLineItemResponse(li))
	}
	return out
}

// listLineItems handles GET /api/line-items.
func (h *Handler) listLineItems(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListLineItems(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, newLineItemResponses(res.LineItems))
}

// getLineItem handles GET /api/line-items/{id}.
func (h *Handler) getLineItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	res, err := h.svc.GetLineItem(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, newLineItemResponse(*res.LineItem))
}

// createLineItem handles POST /api/line-items.
func (h *Handler) createLineItem(w http.ResponseWriter, r *http.Request) {
	var req app.LineItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.CreateLineItem(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, newLineItemResponse(*res.LineItem))
}

// updateLineItem handles PUT /api/line-items/{id}.
func (h *Handler) updateLineItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req app.LineItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.UpdateLineItem(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, newLineItemResponse(*res.LineItem))
}

// deleteLineItem handles DELETE /api/line-items/{id}.
func (h *Handler) deleteLineItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteLineItem(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
