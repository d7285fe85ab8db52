package handler

import (
	"net/http"

	"squadnet/internal/middleware"
)

// handleLogin is the demo login: identify by email, no password. A
// session cookie plus a CSRF token come back on success.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &in); err != nil || in.Email == "" {
		h.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "email is required")
		return
	}

	user, err := h.store.GetUserByEmail(in.Email)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	token, err := h.store.CreateSession(user.ID)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    token,
		Path:     "/",
		Domain:   h.cookieDomain,
		MaxAge:   30 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.respond(w, http.StatusOK, map[string]any{
		"user":      user,
		"csrfToken": h.csrfForSession(token),
	}, "logged in")
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("session"); err == nil {
		h.store.DeleteSession(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    "",
		Path:     "/",
		Domain:   h.cookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
	})
	h.respond(w, http.StatusOK, nil, "logged out")
}

// handleMe returns the current session's user along with a fresh CSRF
// token for subsequent writes.
func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		h.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "no active session")
		return
	}
	h.respond(w, http.StatusOK, map[string]any{
		"user":      user,
		"csrfToken": h.generateCSRF(r),
	}, "")
}
