package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, h.store.AdminStats(), "")
}

func (h *Handler) handleAdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteUser(chi.URLParam(r, "id")); err != nil {
		h.respondStoreError(w, err)
		return
	}
	h.respond(w, http.StatusOK, nil, "User deleted successfully")
}
