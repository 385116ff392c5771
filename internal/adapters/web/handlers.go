package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"po-generator/internal/app"
	"po-generator/internal/metrics"
	"po-generator/internal/storage"
)

// Options configures NewHandler.
type Options struct {
	AllowedOrigins []string
	JWTSecret      string
	JWTTTL         time.Duration
	// SecureCookie marks the auth cookie Secure; enable it behind TLS.
	SecureCookie bool
	// RequireSignature rejects purchase order creation without an upload.
	RequireSignature bool
	Logger           *zap.Logger
	Metrics          *metrics.Metrics
}

// Handler holds the ApplicationService and the auth settings.
type Handler struct {
	svc              app.ApplicationService
	jwtSecret        string
	jwtTTL           time.Duration
	secureCookie     bool
	requireSignature bool
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, opts Options) http.Handler {
	if opts.JWTTTL <= 0 {
		opts.JWTTTL = time.Hour
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	h := &Handler{
		svc:              svc,
		jwtSecret:        opts.JWTSecret,
		jwtTTL:           opts.JWTTTL,
		secureCookie:     opts.SecureCookie,
		requireSignature: opts.RequireSignature,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(opts.Logger))
	r.Use(Recoverer)
	r.Use(CORS(opts.AllowedOrigins))
	if opts.Metrics != nil {
		r.Use(Metrics(opts.Metrics))
		r.Handle("/metrics", opts.Metrics.Handler())
	}

	// ── Public ────────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.With(RequestBodyLimit(1<<20)).Post("/api/auth/login", h.login)
	r.Post("/api/auth/logout", h.logout)

	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)

		// JSON endpoints: 1 MB body limit.
		r.Group(func(r chi.Router) {
			r.Use(RequestBodyLimit(1 << 20))

			r.Get("/api/users/me", h.me)
			r.With(RequireStaff).Get("/api/users", h.listUsers)

			r.Route("/api/vendors", func(r chi.Router) {
				r.Get("/", h.listVendors)
				r.Post("/", h.createVendor)
				r.Get("/{id}", h.getVendor)
				r.Put("/{id}", h.updateVendor)
				r.Delete("/{id}", h.deleteVendor)
			})
			r.Route("/api/line-items", func(r chi.Router) {
				r.Get("/", h.listLineItems)
				r.Post("/", h.createLineItem)
				r.Get("/{id}", h.getLineItem)
				r.Put("/{id}", h.updateLineItem)
				r.Delete("/{id}", h.deleteLineItem)
			})
			r.Route("/api/saved-vendors", func(r chi.Router) {
				r.Get("/", h.listSavedVendors)
				r.Post("/", h.saveVendor)
				r.Delete("/{id}", h.deleteSavedVendor)
			})
			r.Route("/api/saved-line-items", func(r chi.Router) {
				r.Get("/", h.listSavedLineItems)
				r.Post("/", h.saveLineItem)
				r.Delete("/{id}", h.deleteSavedLineItem)
			})
		})

		// Purchase orders accept a multipart signature upload.
		r.Group(func(r chi.Router) {
			r.Use(RequestBodyLimit(storage.MaxSignatureBytes + 1<<20))

			r.Route("/api/purchase-orders", func(r chi.Router) {
				r.Get("/", h.listPurchaseOrders)
				r.Post("/", h.createPurchaseOrder)
				r.Get("/{id}", h.getPurchaseOrder)
				r.Put("/{id}", h.updatePurchaseOrder)
				r.Delete("/{id}", h.deletePurchaseOrder)
				r.Get("/{id}/pdf", h.purchaseOrderPDF)
			})
		})
	})

	return r
}

// health reports liveness.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// idParam extracts the {id} URL parameter. It writes a 404 and returns false
// when the parameter is not a positive integer.
func idParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, r, "not found", "NOT_FOUND", http.StatusNotFound)
		return 0, false
	}
	return id, true
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
