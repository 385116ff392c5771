package web

import (
	"net/http"
	"time"

	"po-generator/internal/app"
	"po-generator/internal/core"
)

type savedLineItemResponse struct {
	ID        int              `json:"id"`
	UserID    int              `json:"user"`
	Name      string           `json:"name"`
	LineItem  lineItemResponse `json:"line_item"`
	CreatedAt time.Time        `json:"created_at"`
}

func newSavedLineItemResponse(sl core.SavedLineItem) savedLineItemResponse {
	return savedLineItemResponse{
		ID:        sl.ID,
		UserID:    sl.UserID,
		Name:      sl.Name,
		LineItem:  newLineItemResponse(sl.LineItem),
		CreatedAt: sl.CreatedAt,
	}
}

// listSavedVendors handles GET /api/saved-vendors.
func (h *Handler) listSavedVendors(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	res, err := h.svc.ListSavedVendors(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	saved := res.SavedVendors
	if saved == nil {
		saved = []core.SavedVendor{}
	}
	writeJSON(w, saved)
}

// saveVendor handles POST /api/saved-vendors.
func (h *Handler) saveVendor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VendorID int    `json:"vendor_id"`
		Name     string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	claims := authFromContext(r.Context())
	sv, err := h.svc.SaveVendor(r.Context(), app.SaveTemplateRequest{
		UserID:   claims.UserID,
		TargetID: req.VendorID,
		Name:     req.Name,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, sv)
}

// deleteSavedVendor handles DELETE /api/saved-vendors/{id}.
func (h *Handler) deleteSavedVendor(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	claims := authFromContext(r.Context())
	if err := h.svc.DeleteSavedVendor(r.Context(), claims.UserID, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listSavedLineItems handles GET /api/saved-line-items.
func (h *Handler) listSavedLineItems(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	res, err := h.svc.ListSavedLineItems(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]savedLineItemResponse, 0, len(res.SavedLineItems))
	for _, sl := range res.SavedLineItems {
		out = append(out, newSavedLineItemResponse(sl))
	}
	writeJSON(w, out)
}

// saveLineItem handles POST /api/saved-line-items.
func (h *Handler) saveLineItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LineItemID int    `json:"line_item_id"`
		Name       string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	claims := authFromContext(r.Context())
	sl, err := h.svc.SaveLineItem(r.Context(), app.SaveTemplateRequest{
		UserID:   claims.UserID,
		TargetID: req.LineItemID,
		Name:     req.Name,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, newSavedLineItemResponse(*sl))
}

// deleteSavedLineItem handles DELETE /api/saved-line-items/{id}.
func (h *Handler) deleteSavedLineItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	claims := authFromContext(r.Context())
	if err := h.svc.DeleteSavedLineItem(r.Context(), claims.UserID, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
