package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"po-generator/internal/app"
	"po-generator/internal/core"
)

// maxMemory is the part of a multipart body kept in memory; the rest spills
// to temporary files.
const maxMemory = 8 << 20

// purchaseOrderResponse is a purchase order with line item amounts and the
// order total.
type purchaseOrderResponse struct {
	*core.PurchaseOrder
	LineItems   []lineItemResponse `json:"line_items"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
}

func newPurchaseOrderResponse(po *core.PurchaseOrder) purchaseOrderResponse {
	return purchaseOrderResponse{
		PurchaseOrder: po,
		LineItems:     newLineItemResponses(po.LineItems),
		TotalAmount:   po.TotalAmount(),
	}
}

// listPurchaseOrders handles GET /api/purchase-orders.
func (h *Handler) listPurchaseOrders(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	res, err := h.svc.ListPurchaseOrders(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]purchaseOrderResponse, 0, len(res.Orders))
	for i := range res.Orders {
		out = append(out, newPurchaseOrderResponse(&res.Orders[i]))
	}
	writeJSON(w, out)
}

// getPurchaseOrder handles GET /api/purchase-orders/{id}.
func (h *Handler) getPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	claims := authFromContext(r.Context())
	res, err := h.svc.GetPurchaseOrder(r.Context(), claims.UserID, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, newPurchaseOrderResponse(res.Order))
}

// createPurchaseOrder handles POST /api/purchase-orders (multipart/form-data).
func (h *Handler) createPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	req, file, err := parsePurchaseOrderForm(r, h.requireSignature)
	if file != nil {
		defer file.Close()
	}
	if err != nil {
		writeFormError(w, r, err)
		return
	}
	req.UserID = authFromContext(r.Context()).UserID

	res, err := h.svc.CreatePurchaseOrder(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, newPurchaseOrderResponse(res.Order))
}

// updatePurchaseOrder handles PUT /api/purchase-orders/{id}. Omitting the
// signature file keeps the stored one.
func (h *Handler) updatePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	req, file, err := parsePurchaseOrderForm(r, false)
	if file != nil {
		defer file.Close()
	}
	if err != nil {
		writeFormError(w, r, err)
		return
	}
	req.UserID = authFromContext(r.Context()).UserID

	res, err := h.svc.UpdatePurchaseOrder(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, newPurchaseOrderResponse(res.Order))
}

// deletePurchaseOrder handles DELETE /api/purchase-orders/{id}.
func (h *Handler) deletePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	claims := authFromContext(r.Context())
	if err := h.svc.DeletePurchaseOrder(r.Context(), claims.UserID, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// purchaseOrderPDF handles GET /api/purchase-orders/{id}/pdf. The
// disposition query parameter selects inline display; anything else
// downloads as an attachment.
func (h *Handler) purchaseOrderPDF(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	claims := authFromContext(r.Context())
	doc, err := h.svc.RenderPurchaseOrder(r.Context(), claims.UserID, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	disposition := "attachment"
	if r.URL.Query().Get("disposition") == "inline" {
		disposition = "inline"
	}
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, doc.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Content)))
	_, _ = w.Write(doc.Content)
}

func writeFormError(w http.ResponseWriter, r *http.Request, err error) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
		return
	}
	var v *core.ValidationError
	if errors.As(err, &v) {
		writeValidationError(w, v)
		return
	}
	writeError(w, r, "invalid form body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
}

// parsePurchaseOrderForm reads the multipart purchase order fields. The
// returned file, when non-nil, must be closed by the caller once the request
// has been handled.
func parsePurchaseOrderForm(r *http.Request, requireSignature bool) (app.PurchaseOrderRequest, multipart.File, error) {
	var req app.PurchaseOrderRequest
	if err := r.ParseMultipartForm(maxMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return req, nil, err
	}

	v := &core.ValidationError{}

	switch raw := strings.TrimSpace(r.FormValue("vendor_id")); {
	case raw == "":
		v.Add("vendor_id", "This field is required.")
	default:
		id, err := strconv.Atoi(raw)
		if err != nil {
			v.Add("vendor_id", "Incorrect type. Expected pk value.")
		}
		req.VendorID = id
	}

	req.PaymentTerms = r.FormValue("payment_terms")
	req.Notes = r.FormValue("notes")
	req.ApprovalStamp = r.FormValue("approval_stamp")

	if raw := strings.TrimSpace(r.FormValue("payment_days")); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			v.Add("payment_days", "A valid integer is required.")
		} else {
			req.PaymentDays = &days
		}
	}

	ids, msg := parseLineItemIDs(r.Form["line_item_ids"])
	if msg != "" {
		v.Add("line_item_ids", msg)
	}
	req.LineItemIDs = ids

	var file multipart.File
	if r.MultipartForm != nil {
		f, _, err := r.FormFile("signature")
		switch {
		case err == nil:
			file = f
			req.Signature = f
		case !errors.Is(err, http.ErrMissingFile):
			return req, nil, err
		}
	}
	if file == nil && requireSignature {
		v.Add("signature", "Signature is required.")
	}

	return req, file, v.OrNil()
}

// parseLineItemIDs accepts a single JSON array string, e.g. "[3, 7]", or
// repeated plain integer values. It returns a validation message on failure.
func parseLineItemIDs(values []string) ([]int, string) {
	if len(values) == 0 {
		return nil, "At least one line item is required."
	}

	if len(values) == 1 && strings.HasPrefix(strings.TrimSpace(values[0]), "[") {
		var ids []int
		if err := json.Unmarshal([]byte(values[0]), &ids); err != nil {
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) {
				return nil, "Invalid line item IDs format."
			}
			return nil, "Invalid JSON format."
		}
		if len(ids) == 0 {
			return nil, "Invalid line item IDs format."
		}
		return ids, ""
	}

	ids := make([]int, 0, len(values))
	for _, raw := range values {
		id, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, "Invalid JSON format."
		}
		ids = append(ids, id)
	}
	return ids, ""
}
