package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"squadnet/internal/middleware"
	"squadnet/internal/models"
	"squadnet/internal/store"
)

func (h *Handler) handleListProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	projects := h.store.ListProjects(store.ProjectFilter{
		Industry: q.Get("industry"),
		Stage:    q.Get("stage"),
		Skill:    q.Get("skill"),
		Limit:    limit,
		Offset:   offset,
	})
	h.respond(w, http.StatusOK, projects, "")
}

func (h *Handler) handleGetProject(w http.ResponseWriter, r *http.Request) {
	project, err := h.store.GetProject(chi.URLParam(r, "id"))
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	bookmarked := false
	if user := middleware.UserFromContext(r.Context()); user != nil {
		bookmarked = h.store.IsBookmarked(user.ID, project.ID)
	}
	h.respond(w, http.StatusOK, map[string]any{
		"project":    project,
		"bookmarked": bookmarked,
	}, "")
}

func (h *Handler) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var in store.ProjectInput
	if err := decodeJSON(r, &in); err != nil {
		h.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	user := middleware.UserFromContext(r.Context())
	project, err := h.store.CreateProject(in, models.TeamMember{ID: user.ID, Name: user.Name})
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	h.respond(w, http.StatusCreated, project, "Project created successfully")
}

func (h *Handler) handleEditProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.requireOwner(w, r, id) {
		return
	}

	var patch store.ProjectPatch
	if err := decodeJSON(r, &patch); err != nil {
		h.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	project, err := h.store.EditProject(id, patch)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	h.respond(w, http.StatusOK, project, "Project updated successfully")
}

func (h *Handler) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.requireOwner(w, r, id) {
		return
	}

	if err := h.store.DeleteProject(id); err != nil {
		h.respondStoreError(w, err)
		return
	}
	h.respond(w, http.StatusOK, nil, "Project deleted successfully")
}

func (h *Handler) handleUpdateStage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.requireOwner(w, r, id) {
		return
	}

	var in struct {
		Stage string `json:"stage"`
	}
	if err := decodeJSON(r, &in); err != nil {
		h.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	if err := h.store.UpdateStage(id, in.Stage); err != nil {
		h.respondStoreError(w, err)
		return
	}
	h.respond(w, http.StatusOK, nil, "Stage updated")
}

func (h *Handler) handleLeaveProject(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if err := h.store.LeaveProject(chi.URLParam(r, "id"), user.ID); err != nil {
		h.respondStoreError(w, err)
		return
	}
	h.respond(w, http.StatusOK, nil, "Left project")
}

func (h *Handler) handleToggleBookmark(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	bookmarked := h.store.ToggleBookmark(user.ID, chi.URLParam(r, "id"))
	h.respond(w, http.StatusOK, map[string]bool{"bookmarked": bookmarked}, "")
}

func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	var in store.ApplicationInput
	if err := decodeJSON(r, &in); err != nil {
		h.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	user := middleware.UserFromContext(r.Context())
	in.ApplicantID = user.ID
	in.ApplicantName = user.Name

	app, err := h.store.Apply(chi.URLParam(r, "id"), in)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	h.respond(w, http.StatusCreated, app, "Application submitted")
}

func (h *Handler) handleProjectApplications(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.requireOwner(w, r, id) {
		return
	}
	h.respond(w, http.StatusOK, h.store.ListForProject(id), "")
}

func (h *Handler) handleReceivedApplications(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	h.respond(w, http.StatusOK, h.store.ListReceivedBy(user.ID), "")
}

func (h *Handler) handleSentApplications(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	h.respond(w, http.StatusOK, h.store.ListSentBy(user.ID), "")
}

func (h *Handler) handleAcceptApplication(w http.ResponseWriter, r *http.Request) {
	if !h.requireApplicationOwner(w, r) {
		return
	}
	app, err := h.store.Accept(chi.URLParam(r, "id"))
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	h.respond(w, http.StatusOK, app, "Application accepted")
}

func (h *Handler) handleRejectApplication(w http.ResponseWriter, r *http.Request) {
	if !h.requireApplicationOwner(w, r) {
		return
	}
	app, err := h.store.Reject(chi.URLParam(r, "id"))
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	h.respond(w, http.StatusOK, app, "Application rejected")
}

func (h *Handler) handleNotifications(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	h.respond(w, http.StatusOK, map[string]any{
		"notifications": h.store.Notifications(user.ID),
		"unreadCount":   h.store.UnreadCount(user.ID),
	}, "")
}

func (h *Handler) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	h.store.MarkAllRead(user.ID)
	h.respond(w, http.StatusOK, map[string]int{"unreadCount": 0}, "")
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	h.store.MarkRead(user.ID, chi.URLParam(r, "id"))
	h.respond(w, http.StatusOK, map[string]int{"unreadCount": h.store.UnreadCount(user.ID)}, "")
}

func (h *Handler) handleRemoveNotification(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	h.store.RemoveNotification(user.ID, chi.URLParam(r, "id"))
	h.respond(w, http.StatusOK, nil, "")
}

func (h *Handler) handleListHackathons(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, h.store.ListHackathons(), "")
}

func (h *Handler) handleHackathonRegister(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	hack, err := h.store.RegisterForHackathon(chi.URLParam(r, "id"), user.ID)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	h.respond(w, http.StatusOK, hack, "Registered")
}

// requireOwner loads a project and checks that the session user owns
// it. Writes the error response itself and reports whether to proceed.
func (h *Handler) requireOwner(w http.ResponseWriter, r *http.Request, projectID string) bool {
	project, err := h.store.GetProject(projectID)
	if err != nil {
		h.respondStoreError(w, err)
		return false
	}
	user := middleware.UserFromContext(r.Context())
	if user.ID != project.OwnerID {
		h.respondError(w, http.StatusForbidden, "FORBIDDEN", "only the project owner may do this")
		return false
	}
	return true
}

func (h *Handler) requireApplicationOwner(w http.ResponseWriter, r *http.Request) bool {
	app, err := h.store.GetApplication(chi.URLParam(r, "id"))
	if err != nil {
		h.respondStoreError(w, err)
		return false
	}
	return h.requireOwner(w, r, app.ProjectID)
}
