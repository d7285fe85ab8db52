package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"squadnet/internal/store"
)

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &in); err != nil {
		h.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	user, err := h.store.CreateUser(in.Name, in.Email)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	h.respond(w, http.StatusCreated, user, "User created successfully")
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, h.store.ListUsers(), "")
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.GetUser(chi.URLParam(r, "id"))
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	h.respond(w, http.StatusOK, user, "")
}

// handleUpdateProfile applies a partial profile update and kicks off a
// background sync to the external endpoint when one is configured. A
// sync failure never surfaces here; the local update already happened.
func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var patch store.ProfilePatch
	if err := decodeJSON(r, &patch); err != nil {
		h.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	user, err := h.store.UpdateProfile(chi.URLParam(r, "id"), patch)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	if h.sync != nil {
		go h.sync.SyncProfile(user)
	}

	h.respond(w, http.StatusOK, user, "Profile updated successfully")
}

func (h *Handler) handleUserProjects(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.store.GetUser(id); err != nil {
		h.respondStoreError(w, err)
		return
	}

	owned, participating := h.store.UserProjects(id)
	h.respond(w, http.StatusOK, map[string]any{
		"ownedProjects":         owned,
		"participatingProjects": participating,
	}, "")
}

func (h *Handler) handleContact(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if err := decodeJSON(r, &in); err != nil {
		h.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	msg, err := h.store.SubmitContact(in.Name, in.Email, in.Message)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	h.respond(w, http.StatusCreated, msg, "Contact form submitted successfully")
}
