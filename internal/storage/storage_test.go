package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dodo/internal/task"
)

func sample() []task.Task {
	return []task.Task{
		{ID: 1, Text: "buy milk", Done: false},
		{ID: 2, Text: "pay rent", Done: true, DueDate: "2025-03-01", Reminder: "2025-02-28 09:00"},
	}
}

func TestJSONStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	s := NewJSONStore(path)

	// Missing file is an empty list, not an error.
	tasks, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, tasks)

	require.NoError(t, s.Save(sample()))
	tasks, err = s.Load()
	require.NoError(t, err)
	assert.Equal(t, sample(), tasks)
}

func TestJSONStoreRenumbersOnLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	data := `[{"id":9,"text":"a","done":false},{"id":3,"text":"b","done":true}]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	tasks, err := NewJSONStore(path).Load()
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, 1, tasks[0].ID)
	assert.Equal(t, 2, tasks[1].ID)
}

func TestJSONStoreRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := NewJSONStore(path).Load()
	assert.Error(t, err)
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	tasks, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, tasks)

	require.NoError(t, s.Save(sample()))
	tasks, err = s.Load()
	require.NoError(t, err)
	assert.Equal(t, sample(), tasks)
}

func TestSQLiteStoreSaveReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Save(sample()))
	require.NoError(t, s.Save([]task.Task{{ID: 1, Text: "only one"}}))

	tasks, err := s.Load()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "only one", tasks[0].Text)
	assert.Equal(t, "", tasks[0].DueDate)
	assert.Equal(t, "", tasks[0].Reminder)
}

func TestOpenSQLiteEmptyPath(t *testing.T) {
	_, err := OpenSQLite("")
	assert.Error(t, err)
}
