// Package workspace stores per-project collaboration data: chat
// messages, tasks and file metadata. It is durable key-value storage
// keyed by project id, deliberately independent of the project
// registry: nothing here checks team membership, and the two stores
// may drift. Values are JSON arrays with no schema versioning; a
// format change means a wipe.
package workspace

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"squadnet/migrations"
)

var ErrNotFound = errors.New("not found")

const (
	tasksKey = "createdTasks"
	filesKey = "uploadedFiles"
)

func chatKey(projectID string) string {
	return "chat_messages_" + projectID
}

type ChatMessage struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Text      string    `json:"text"`
	SentAt    time.Time `json:"sentAt"`
}

type Task struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"projectId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Assignee    string    `json:"assignee,omitempty"`
	Done        bool      `json:"done"`
	CreatedAt   time.Time `json:"createdAt"`
}

type FileMeta struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"projectId"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	Type       string    `json:"type,omitempty"`
	UploadedBy string    `json:"uploadedBy,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}

type Workspace struct {
	db *sql.DB
}

func New(dbPath string) (*Workspace, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return nil, fmt.Errorf("set dialect: %w", err)
	}
	if err := goose.Up(db, "."); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Workspace{db: db}, nil
}

func (w *Workspace) Close() error {
	return w.db.Close()
}

func getList[T any](ctx context.Context, db *sql.DB, key string) ([]T, error) {
	var raw string
	err := db.QueryRowContext(ctx, `SELECT value FROM workspace_kv WHERE key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	var list []T
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return list, nil
}

func putList[T any](ctx context.Context, db *sql.DB, key string, list []T) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO workspace_kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, string(raw),
	)
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// AppendChatMessage adds a message to a project's chat log.
func (w *Workspace) AppendChatMessage(ctx context.Context, m ChatMessage) (ChatMessage, error) {
	m.ID = uuid.NewString()
	m.SentAt = time.Now().UTC()

	key := chatKey(m.ProjectID)
	list, err := getList[ChatMessage](ctx, w.db, key)
	if err != nil {
		return ChatMessage{}, err
	}
	list = append(list, m)
	if err := putList(ctx, w.db, key, list); err != nil {
		return ChatMessage{}, err
	}
	return m, nil
}

func (w *Workspace) ChatMessages(ctx context.Context, projectID string) ([]ChatMessage, error) {
	return getList[ChatMessage](ctx, w.db, chatKey(projectID))
}

// AddTask appends a task. All projects share one key; reads filter.
func (w *Workspace) AddTask(ctx context.Context, t Task) (Task, error) {
	t.ID = uuid.NewString()
	t.CreatedAt = time.Now().UTC()

	list, err := getList[Task](ctx, w.db, tasksKey)
	if err != nil {
		return Task{}, err
	}
	list = append(list, t)
	if err := putList(ctx, w.db, tasksKey, list); err != nil {
		return Task{}, err
	}
	return t, nil
}

func (w *Workspace) Tasks(ctx context.Context, projectID string) ([]Task, error) {
	list, err := getList[Task](ctx, w.db, tasksKey)
	if err != nil {
		return nil, err
	}
	var out []Task
	for _, t := range list {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out, nil
}

// SetTaskDone flips a task's completion flag.
func (w *Workspace) SetTaskDone(ctx context.Context, taskID string, done bool) error {
	list, err := getList[Task](ctx, w.db, tasksKey)
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].ID == taskID {
			list[i].Done = done
			return putList(ctx, w.db, tasksKey, list)
		}
	}
	return fmt.Errorf("task %s: %w", taskID, ErrNotFound)
}

// AddFile records uploaded file metadata. The bytes themselves are not
// stored anywhere.
func (w *Workspace) AddFile(ctx context.Context, f FileMeta) (FileMeta, error) {
	f.ID = uuid.NewString()
	f.UploadedAt = time.Now().UTC()

	list, err := getList[FileMeta](ctx, w.db, filesKey)
	if err != nil {
		return FileMeta{}, err
	}
	list = append(list, f)
	if err := putList(ctx, w.db, filesKey, list); err != nil {
		return FileMeta{}, err
	}
	return f, nil
}

func (w *Workspace) Files(ctx context.Context, projectID string) ([]FileMeta, error) {
	list, err := getList[FileMeta](ctx, w.db, filesKey)
	if err != nil {
		return nil, err
	}
	var out []FileMeta
	for _, f := range list {
		if f.ProjectID == projectID {
			out = append(out, f)
		}
	}
	return out, nil
}
