package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"squadnet/internal/middleware"
	"squadnet/internal/store"
	"squadnet/internal/webhook"
	"squadnet/internal/workspace"
)

type Handler struct {
	store        *store.Store
	ws           *workspace.Workspace
	sync         *webhook.Client
	csrfSecret   string
	cookieDomain string
}

// New wires the handler. sync may be nil when no profile-sync endpoint
// is configured.
func New(s *store.Store, ws *workspace.Workspace, sync *webhook.Client, csrfSecret, cookieDomain string) *Handler {
	return &Handler{
		store:        s,
		ws:           ws,
		sync:         sync,
		csrfSecret:   csrfSecret,
		cookieDomain: cookieDomain,
	}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.CleanPath)
	r.Use(middleware.Auth(h.store))

	// Session endpoints sit outside the CSRF fence: a login request
	// has no session to derive a token from yet.
	r.Post("/auth/login", h.handleLogin)
	r.Post("/auth/logout", h.handleLogout)
	r.Get("/auth/me", h.handleMe)

	r.Get("/api/placeholder/{width}/{height}", h.handleAvatar)

	r.Route("/api", func(r chi.Router) {
		r.Use(h.csrfMiddleware)

		r.Post("/contact", h.handleContact)

		r.Get("/users", h.handleListUsers)
		r.Post("/users", h.handleCreateUser)
		r.Get("/users/{id}", h.handleGetUser)
		r.Get("/users/{id}/profile", h.handleGetUser)
		r.Put("/users/{id}/profile", h.handleUpdateProfile)
		r.Get("/users/{id}/projects", h.handleUserProjects)

		r.Get("/projects", h.handleListProjects)
		r.Post("/projects", h.requireAuth(h.handleCreateProject))
		r.Get("/projects/{id}", h.handleGetProject)
		r.Put("/projects/{id}", h.requireAuth(h.handleEditProject))
		r.Delete("/projects/{id}", h.requireAuth(h.handleDeleteProject))
		r.Post("/projects/{id}/stage", h.requireAuth(h.handleUpdateStage))
		r.Post("/projects/{id}/leave", h.requireAuth(h.handleLeaveProject))
		r.Post("/projects/{id}/bookmark", h.requireAuth(h.handleToggleBookmark))
		r.Post("/projects/{id}/apply", h.requireAuth(h.handleApply))
		r.Get("/projects/{id}/applications", h.requireAuth(h.handleProjectApplications))

		r.Get("/applications/received", h.requireAuth(h.handleReceivedApplications))
		r.Get("/applications/sent", h.requireAuth(h.handleSentApplications))
		r.Post("/applications/{id}/accept", h.requireAuth(h.handleAcceptApplication))
		r.Post("/applications/{id}/reject", h.requireAuth(h.handleRejectApplication))

		r.Get("/notifications", h.requireAuth(h.handleNotifications))
		r.Post("/notifications/read", h.requireAuth(h.handleMarkAllRead))
		r.Post("/notifications/{id}/read", h.requireAuth(h.handleMarkRead))
		r.Delete("/notifications/{id}", h.requireAuth(h.handleRemoveNotification))

		r.Get("/hackathons", h.handleListHackathons)
		r.Post("/hackathons/{id}/register", h.requireAuth(h.handleHackathonRegister))

		r.Route("/projects/{id}/chat", func(r chi.Router) {
			r.Get("/", h.handleChatMessages)
			r.Post("/", h.requireAuth(h.handleSendChatMessage))
		})
		r.Route("/projects/{id}/tasks", func(r chi.Router) {
			r.Get("/", h.handleTasks)
			r.Post("/", h.requireAuth(h.handleAddTask))
			r.Post("/{taskId}/done", h.requireAuth(h.handleSetTaskDone))
		})
		r.Route("/projects/{id}/files", func(r chi.Router) {
			r.Get("/", h.handleFiles)
			r.Post("/", h.requireAuth(h.handleAddFile))
		})
	})

	r.Route("/admin/api", func(r chi.Router) {
		r.Use(h.requireAdmin)
		r.Use(h.csrfMiddleware)

		r.Get("/stats", h.handleAdminStats)
		r.Get("/users", h.handleListUsers)
		r.Delete("/users/{id}", h.handleAdminDeleteUser)
	})

	return r
}

func (h *Handler) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if middleware.UserFromContext(r.Context()) == nil {
			h.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "login required")
			return
		}
		next(w, r)
	}
}

func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())
		if user == nil || !user.IsAdmin {
			h.respondError(w, http.StatusForbidden, "FORBIDDEN", "admin only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) csrfMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}
		// Anonymous writes (signup, contact form) have no session to
		// bind a token to.
		if middleware.UserFromContext(r.Context()) == nil {
			next.ServeHTTP(w, r)
			return
		}
		if !h.validateCSRF(r) {
			h.respondError(w, http.StatusForbidden, "CSRF", "invalid CSRF token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) generateCSRF(r *http.Request) string {
	cookie, err := r.Cookie("session")
	if err != nil {
		return ""
	}
	return h.csrfForSession(cookie.Value)
}

func (h *Handler) csrfForSession(token string) string {
	mac := hmac.New(sha256.New, []byte(h.csrfSecret))
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))[:32]
}

func (h *Handler) validateCSRF(r *http.Request) bool {
	expected := h.generateCSRF(r)
	if expected == "" {
		return false
	}
	return hmac.Equal([]byte(r.Header.Get("X-CSRF-Token")), []byte(expected))
}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

func (h *Handler) respond(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data, Message: message})
}

func (h *Handler) respondError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Error: msg, Code: code})
}

// respondStoreError maps store sentinels onto the API error contract.
func (h *Handler) respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrValidation):
		h.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, store.ErrNotFound), errors.Is(err, workspace.ErrNotFound):
		h.respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, store.ErrDuplicate):
		h.respondError(w, http.StatusConflict, "ALREADY_EXISTS", err.Error())
	case errors.Is(err, store.ErrAlreadyMember), errors.Is(err, store.ErrConflict):
		h.respondError(w, http.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, store.ErrForbidden):
		h.respondError(w, http.StatusForbidden, "FORBIDDEN", err.Error())
	default:
		log.Printf("handler: %v", err)
		h.respondError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
