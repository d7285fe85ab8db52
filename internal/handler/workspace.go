package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"squadnet/internal/middleware"
	"squadnet/internal/workspace"
)

// Workspace endpoints store collaboration data keyed by project id.
// Membership is not enforced here; the workspace is independent of the
// registry and the UI does its own filtering.

func (h *Handler) handleChatMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.ws.ChatMessages(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	h.respond(w, http.StatusOK, msgs, "")
}

func (h *Handler) handleSendChatMessage(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(r, &in); err != nil || in.Text == "" {
		h.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "text is required")
		return
	}

	user := middleware.UserFromContext(r.Context())
	msg, err := h.ws.AppendChatMessage(r.Context(), workspace.ChatMessage{
		ProjectID: chi.URLParam(r, "id"),
		UserID:    user.ID,
		UserName:  user.Name,
		Text:      in.Text,
	})
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	h.respond(w, http.StatusCreated, msg, "")
}

func (h *Handler) handleTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.ws.Tasks(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	h.respond(w, http.StatusOK, tasks, "")
}

func (h *Handler) handleAddTask(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Assignee    string `json:"assignee"`
	}
	if err := decodeJSON(r, &in); err != nil || in.Title == "" {
		h.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "title is required")
		return
	}

	task, err := h.ws.AddTask(r.Context(), workspace.Task{
		ProjectID:   chi.URLParam(r, "id"),
		Title:       in.Title,
		Description: in.Description,
		Assignee:    in.Assignee,
	})
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	h.respond(w, http.StatusCreated, task, "")
}

func (h *Handler) handleSetTaskDone(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Done bool `json:"done"`
	}
	if err := decodeJSON(r, &in); err != nil {
		h.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	if err := h.ws.SetTaskDone(r.Context(), chi.URLParam(r, "taskId"), in.Done); err != nil {
		h.respondStoreError(w, err)
		return
	}
	h.respond(w, http.StatusOK, nil, "")
}

func (h *Handler) handleFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.ws.Files(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	h.respond(w, http.StatusOK, files, "")
}

func (h *Handler) handleAddFile(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name string `json:"name"`
		Size int64  `json:"size"`
		Type string `json:"type"`
	}
	if err := decodeJSON(r, &in); err != nil || in.Name == "" {
		h.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "name is required")
		return
	}

	user := middleware.UserFromContext(r.Context())
	file, err := h.ws.AddFile(r.Context(), workspace.FileMeta{
		ProjectID:  chi.URLParam(r, "id"),
		Name:       in.Name,
		Size:       in.Size,
		Type:       in.Type,
		UploadedBy: user.Name,
	})
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	h.respond(w, http.StatusCreated, file, "")
}
