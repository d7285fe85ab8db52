package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"squadnet/internal/events"
	"squadnet/internal/models"
	"squadnet/internal/store"
	"squadnet/internal/webhook"
	"squadnet/internal/workspace"
)

type testEnv struct {
	router http.Handler
	store  *store.Store
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

type apiSession struct {
	cookie *http.Cookie
	csrf   string
}

func newTestEnv(t *testing.T) *testEnv {
	return newSyncedTestEnv(t, nil)
}

func newSyncedTestEnv(t *testing.T, sync *webhook.Client) *testEnv {
	t.Helper()
	bus := events.NewBus()
	st := store.New(bus)
	bus.Subscribe(st.HandleEvent)

	ws, err := workspace.New(filepath.Join(t.TempDir(), "workspace.db"))
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })

	h := New(st, ws, sync, "test-secret", "")
	return &testEnv{router: h.Router(), store: st}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, sess *apiSession) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if sess != nil {
		req.AddCookie(sess.cookie)
		req.Header.Set("X-CSRF-Token", sess.csrf)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var resp apiResponse
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), "body: %s", rec.Body.String())
	}
	return rec, resp
}

// login registers the user if needed and opens a session for it.
func (e *testEnv) login(t *testing.T, name, email string) *apiSession {
	t.Helper()
	if _, err := e.store.GetUserByEmail(email); err != nil {
		_, err = e.store.CreateUser(name, email)
		require.NoError(t, err)
	}

	rec, resp := e.do(t, http.MethodPost, "/auth/login", map[string]string{"email": email}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var data struct {
		CSRFToken string `json:"csrfToken"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	return &apiSession{cookie: cookie, csrf: data.CSRFToken}
}

func (e *testEnv) createProject(t *testing.T, sess *apiSession, title string) models.Project {
	t.Helper()
	rec, resp := e.do(t, http.MethodPost, "/api/projects", store.ProjectInput{
		Title:       title,
		Description: "demo",
		Industry:    "Tech",
		Stage:       models.StageIdeation,
		OpenPositions: []models.OpenPosition{
			{Role: "Developer", Skills: []string{"Go"}},
		},
	}, sess)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var project models.Project
	require.NoError(t, json.Unmarshal(resp.Data, &project))
	return project
}

func TestCreateUserEndpoint(t *testing.T) {
	e := newTestEnv(t)

	rec, resp := e.do(t, http.MethodPost, "/api/users", map[string]string{
		"name": "Ada", "email": "ada@example.com",
	}, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, "User created successfully", resp.Message)

	rec, resp = e.do(t, http.MethodPost, "/api/users", map[string]string{"name": "NoMail"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", resp.Code)

	rec, resp = e.do(t, http.MethodPost, "/api/users", map[string]string{
		"name": "Ada Again", "email": "ada@example.com",
	}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ALREADY_EXISTS", resp.Code)
}

func TestLoginAndMe(t *testing.T) {
	e := newTestEnv(t)

	rec, resp := e.do(t, http.MethodPost, "/auth/login", map[string]string{"email": "ghost@example.com"}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", resp.Code)

	sess := e.login(t, "Ada", "ada@example.com")
	assert.NotEmpty(t, sess.csrf)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(sess.cookie)
	mrec := httptest.NewRecorder()
	e.router.ServeHTTP(mrec, req)
	assert.Equal(t, http.StatusOK, mrec.Code)

	var me apiResponse
	require.NoError(t, json.Unmarshal(mrec.Body.Bytes(), &me))
	var data struct {
		User models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(me.Data, &data))
	assert.Equal(t, "ada@example.com", data.User.Email)

	mrec = httptest.NewRecorder()
	e.router.ServeHTTP(mrec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, mrec.Code)
}

func TestCSRFRequiredForSessionWrites(t *testing.T) {
	e := newTestEnv(t)
	sess := e.login(t, "Ada", "ada@example.com")

	req := httptest.NewRequest(http.MethodPost, "/api/projects", bytes.NewBufferString(`{}`))
	req.AddCookie(sess.cookie)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "CSRF", resp.Code)
}

func TestAuthRequiredForProjectCreation(t *testing.T) {
	e := newTestEnv(t)
	rec, resp := e.do(t, http.MethodPost, "/api/projects", store.ProjectInput{Title: "X"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", resp.Code)
}

func TestUserProjectsEndpoint(t *testing.T) {
	e := newTestEnv(t)
	sess := e.login(t, "Ada", "ada@example.com")
	user, err := e.store.GetUserByEmail("ada@example.com")
	require.NoError(t, err)

	e.createProject(t, sess, "Ada's Startup")

	rec, resp := e.do(t, http.MethodGet, "/api/users/"+user.ID+"/projects", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		Owned         []models.Project `json:"ownedProjects"`
		Participating []models.Project `json:"participatingProjects"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.Len(t, data.Owned, 1)
	assert.Equal(t, "Ada's Startup", data.Owned[0].Title)
	assert.Empty(t, data.Participating)

	rec, resp = e.do(t, http.MethodGet, "/api/users/nope/projects", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", resp.Code)
}

func TestApplyAcceptFlow(t *testing.T) {
	e := newTestEnv(t)
	owner := e.login(t, "Ada", "ada@example.com")
	applicant := e.login(t, "Ben", "ben@example.com")

	project := e.createProject(t, owner, "Matching Engine")

	rec, resp := e.do(t, http.MethodPost, "/api/projects/"+project.ID+"/apply", map[string]any{
		"position": "Developer",
		"skills":   []string{"Go"},
		"message":  "count me in",
	}, applicant)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var app models.Application
	require.NoError(t, json.Unmarshal(resp.Data, &app))
	assert.Equal(t, models.StatusPending, app.Status)
	assert.Equal(t, "Ben", app.ApplicantName)

	rec, resp = e.do(t, http.MethodGet, "/api/applications/received", nil, owner)
	require.Equal(t, http.StatusOK, rec.Code)
	var received []models.Application
	require.NoError(t, json.Unmarshal(resp.Data, &received))
	require.Len(t, received, 1)

	// Only the project owner may decide.
	rec, _ = e.do(t, http.MethodPost, "/api/applications/"+app.ID+"/accept", nil, applicant)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, resp = e.do(t, http.MethodPost, "/api/applications/"+app.ID+"/accept", nil, owner)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(resp.Data, &app))
	assert.Equal(t, models.StatusAccepted, app.Status)

	rec, resp = e.do(t, http.MethodGet, "/api/projects/"+project.ID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail struct {
		Project models.Project `json:"project"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &detail))
	require.Len(t, detail.Project.TeamMembers, 2)
	assert.Equal(t, "Developer", detail.Project.TeamMembers[1].Role)

	rec, resp = e.do(t, http.MethodGet, "/api/notifications", nil, applicant)
	require.Equal(t, http.StatusOK, rec.Code)
	var feed struct {
		Notifications []models.Notification `json:"notifications"`
		UnreadCount   int                   `json:"unreadCount"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &feed))
	require.Len(t, feed.Notifications, 1)
	assert.Equal(t, models.NotifApplicationAccepted, feed.Notifications[0].Kind)
	assert.Equal(t, 1, feed.UnreadCount)
}

func TestEditProjectOwnerOnly(t *testing.T) {
	e := newTestEnv(t)
	owner := e.login(t, "Ada", "ada@example.com")
	other := e.login(t, "Ben", "ben@example.com")

	project := e.createProject(t, owner, "Guarded")

	title := "Hijacked"
	rec, resp := e.do(t, http.MethodPut, "/api/projects/"+project.ID, store.ProjectPatch{Title: &title}, other)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", resp.Code)

	title = "Renamed"
	rec, _ = e.do(t, http.MethodPut, "/api/projects/"+project.ID, store.ProjectPatch{Title: &title}, owner)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateProfile_SyncsToWebhook(t *testing.T) {
	received := make(chan models.User, 1)
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var u models.User
		if err := json.NewDecoder(r.Body).Decode(&u); err == nil {
			received <- u
		}
	}))
	defer remote.Close()

	e := newSyncedTestEnv(t, webhook.NewClient(remote.URL))
	sess := e.login(t, "Ada", "ada@example.com")
	user, err := e.store.GetUserByEmail("ada@example.com")
	require.NoError(t, err)

	rec, resp := e.do(t, http.MethodPut, "/api/users/"+user.ID+"/profile", map[string]string{
		"bio": "Shipping",
	}, sess)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated models.User
	require.NoError(t, json.Unmarshal(resp.Data, &updated))
	assert.Equal(t, "Shipping", updated.Bio)

	select {
	case synced := <-received:
		assert.Equal(t, user.ID, synced.ID)
		assert.Equal(t, "Shipping", synced.Bio)
	case <-time.After(2 * time.Second):
		t.Fatal("profile never reached the sync endpoint")
	}

	rec, resp = e.do(t, http.MethodPut, "/api/users/nope/profile", map[string]string{"bio": "x"}, sess)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", resp.Code)
}

func TestUpdateProfile_SyncFailureStaysLocal(t *testing.T) {
	// An endpoint that is already gone: delivery fails, the update
	// must not care.
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	remote.Close()

	e := newSyncedTestEnv(t, webhook.NewClient(remote.URL))
	sess := e.login(t, "Ada", "ada@example.com")
	user, err := e.store.GetUserByEmail("ada@example.com")
	require.NoError(t, err)

	rec, resp := e.do(t, http.MethodPut, "/api/users/"+user.ID+"/profile", map[string]string{
		"bio": "Still here",
	}, sess)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, resp.Success)

	got, err := e.store.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Still here", got.Bio)
}

func TestContactEndpoint(t *testing.T) {
	e := newTestEnv(t)

	rec, resp := e.do(t, http.MethodPost, "/api/contact", map[string]string{
		"name": "Visitor", "email": "v@example.com", "message": "hi",
	}, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, resp.Success)

	rec, resp = e.do(t, http.MethodPost, "/api/contact", map[string]string{"name": "Visitor"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", resp.Code)
}

func TestWorkspaceEndpoints(t *testing.T) {
	e := newTestEnv(t)
	sess := e.login(t, "Ada", "ada@example.com")
	project := e.createProject(t, sess, "With Workspace")

	rec, resp := e.do(t, http.MethodPost, "/api/projects/"+project.ID+"/chat", map[string]string{"text": "hello team"}, sess)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, resp = e.do(t, http.MethodGet, "/api/projects/"+project.ID+"/chat", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var msgs []workspace.ChatMessage
	require.NoError(t, json.Unmarshal(resp.Data, &msgs))
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello team", msgs[0].Text)

	rec, resp = e.do(t, http.MethodPost, "/api/projects/"+project.ID+"/tasks", map[string]string{
		"title": "Write landing page", "assignee": "Ada",
	}, sess)
	require.Equal(t, http.StatusCreated, rec.Code)
	var task workspace.Task
	require.NoError(t, json.Unmarshal(resp.Data, &task))

	rec, _ = e.do(t, http.MethodPost, "/api/projects/"+project.ID+"/tasks/"+task.ID+"/done", map[string]bool{"done": true}, sess)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = e.do(t, http.MethodPost, "/api/projects/"+project.ID+"/tasks/nope/done", map[string]bool{"done": true}, sess)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, resp = e.do(t, http.MethodPost, "/api/projects/"+project.ID+"/files", map[string]any{
		"name": "deck.pdf", "size": 2048, "type": "application/pdf",
	}, sess)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, resp = e.do(t, http.MethodGet, "/api/projects/"+project.ID+"/files", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var files []workspace.FileMeta
	require.NoError(t, json.Unmarshal(resp.Data, &files))
	require.Len(t, files, 1)
	assert.Equal(t, "Ada", files[0].UploadedBy)
}

func TestAdminEndpoints(t *testing.T) {
	e := newTestEnv(t)
	require.NoError(t, e.store.Seed())

	regular := e.login(t, "Ben", "ben@example.com")
	rec, _ := e.do(t, http.MethodGet, "/admin/api/stats", nil, regular)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := e.login(t, "Maya Iyer", "maya@squad.net")
	rec, resp := e.do(t, http.MethodGet, "/admin/api/stats", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var stats store.Stats
	require.NoError(t, json.Unmarshal(resp.Data, &stats))
	assert.GreaterOrEqual(t, stats.Users, 3)
	assert.GreaterOrEqual(t, stats.Projects, 2)
}

func TestAvatarEndpoint(t *testing.T) {
	e := newTestEnv(t)

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/placeholder/40/40?name=Maya+Iyer", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.NotZero(t, rec.Body.Len())

	rec = httptest.NewRecorder()
	e.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/placeholder/0/40", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHackathonEndpoints(t *testing.T) {
	e := newTestEnv(t)
	require.NoError(t, e.store.Seed())
	sess := e.login(t, "Ben", "ben@example.com")

	rec, resp := e.do(t, http.MethodGet, "/api/hackathons", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var hacks []models.Hackathon
	require.NoError(t, json.Unmarshal(resp.Data, &hacks))
	require.NotEmpty(t, hacks)

	rec, _ = e.do(t, http.MethodPost, "/api/hackathons/"+hacks[0].ID+"/register", nil, sess)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, resp = e.do(t, http.MethodPost, "/api/hackathons/"+hacks[0].ID+"/register", nil, sess)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ALREADY_EXISTS", resp.Code)
}
