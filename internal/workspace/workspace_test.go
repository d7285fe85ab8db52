package workspace

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorkspace(t *testing.T) *Workspace {
	t.Helper()
	ws, err := New(filepath.Join(t.TempDir(), "workspace.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, ws.Close()) })
	return ws
}

func TestChatMessages_PerProjectIsolation(t *testing.T) {
	ws := newTestWorkspace(t)
	ctx := context.Background()

	first, err := ws.AppendChatMessage(ctx, ChatMessage{ProjectID: "p1", UserID: "1", UserName: "A", Text: "hello"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.SentAt.IsZero())

	_, err = ws.AppendChatMessage(ctx, ChatMessage{ProjectID: "p2", UserID: "2", UserName: "B", Text: "other room"})
	require.NoError(t, err)

	msgs, err := ws.ChatMessages(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello", msgs[0].Text)

	empty, err := ws.ChatMessages(ctx, "p3")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestTasks(t *testing.T) {
	ws := newTestWorkspace(t)
	ctx := context.Background()

	task, err := ws.AddTask(ctx, Task{ProjectID: "p1", Title: "Ship MVP", Assignee: "A"})
	require.NoError(t, err)
	_, err = ws.AddTask(ctx, Task{ProjectID: "p2", Title: "Elsewhere"})
	require.NoError(t, err)

	tasks, err := ws.Tasks(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Ship MVP", tasks[0].Title)
	assert.False(t, tasks[0].Done)

	require.NoError(t, ws.SetTaskDone(ctx, task.ID, true))
	tasks, err = ws.Tasks(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, tasks[0].Done)

	assert.ErrorIs(t, ws.SetTaskDone(ctx, "missing", true), ErrNotFound)
}

func TestFiles(t *testing.T) {
	ws := newTestWorkspace(t)
	ctx := context.Background()

	file, err := ws.AddFile(ctx, FileMeta{ProjectID: "p1", Name: "pitch.pdf", Size: 1024, UploadedBy: "A"})
	require.NoError(t, err)
	assert.NotEmpty(t, file.ID)

	files, err := ws.Files(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "pitch.pdf", files[0].Name)

	none, err := ws.Files(ctx, "p2")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDurability_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "workspace.db")
	ctx := context.Background()

	ws, err := New(path)
	require.NoError(t, err)
	_, err = ws.AppendChatMessage(ctx, ChatMessage{ProjectID: "p1", UserID: "1", UserName: "A", Text: "persist me"})
	require.NoError(t, err)
	require.NoError(t, ws.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	msgs, err := reopened.ChatMessages(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "persist me", msgs[0].Text)
}
