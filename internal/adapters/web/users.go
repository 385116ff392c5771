package web

import (
	"net/http"
	"strconv"

	"po-generator/internal/core"
)

// me handles GET /api/users/me and returns the current user's profile.
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	if claims == nil {
		writeError(w, r, "not authenticated", "UNAUTHORIZED", http.StatusUnauthorized)
		return
	}

	res, err := h.svc.GetUser(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res.User)
}

// listUsers handles GET /api/users?active=true&staff=true&superusers=true.
func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	flag := func(name string) bool {
		b, _ := strconv.ParseBool(q.Get(name))
		return b
	}

	res, err := h.svc.ListUsers(r.Context(), core.UserFilter{
		ActiveOnly:     flag("active"),
		StaffOnly:      flag("staff"),
		SuperusersOnly: flag("superusers"),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	users := res.Users
	if users == nil {
		users = []core.User{}
	}
	writeJSON(w, users)
}
