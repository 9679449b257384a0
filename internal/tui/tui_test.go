package tui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dodo/internal/config"
	"dodo/internal/editor"
	"dodo/internal/task"
)

func testModel(t *testing.T, tasks []task.Task) Model {
	t.Helper()
	cfg, err := config.LoadOrCreate(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	cfg.Editor = "true"
	cfg.ScratchDir = t.TempDir()
	return newModel(tasks, cfg)
}

func press(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyUp   = tea.KeyMsg{Type: tea.KeyUp}
	keyDown = tea.KeyMsg{Type: tea.KeyDown}
)

func three() []task.Task {
	return []task.Task{
		{ID: 1, Text: "a"},
		{ID: 2, Text: "b"},
		{ID: 3, Text: "c"},
	}
}

func TestSelectionStaysInBounds(t *testing.T) {
	m := testModel(t, three())

	m = press(t, m, keyUp)
	assert.Equal(t, 0, m.selected, "no wraparound at the top")

	for range 10 {
		m = press(t, m, keyDown)
	}
	assert.Equal(t, 2, m.selected, "no wraparound at the bottom")

	m = press(t, m, keyUp)
	assert.Equal(t, 1, m.selected)
}

func TestToggleIsInvolution(t *testing.T) {
	m := testModel(t, three())

	m = press(t, m, runeKey(" "))
	assert.True(t, m.tasks[0].Done)
	m = press(t, m, runeKey(" "))
	assert.False(t, m.tasks[0].Done)
}

func TestDeleteMovesSelectionBack(t *testing.T) {
	m := testModel(t, three())
	m = press(t, m, keyDown)
	m = press(t, m, keyDown)

	m = press(t, m, runeKey("d"))
	require.Len(t, m.tasks, 2)
	assert.Equal(t, 1, m.selected)
	assert.Equal(t, "b", m.tasks[m.selected].Text)
}

func TestDeleteAtTopKeepsSelectionZero(t *testing.T) {
	m := testModel(t, three())

	m = press(t, m, runeKey("d"))
	require.Len(t, m.tasks, 2)
	assert.Equal(t, 0, m.selected)
	assert.Equal(t, "b", m.tasks[0].Text)
}

func TestDeleteSoleItemLeavesUsableEmptyList(t *testing.T) {
	m := testModel(t, []task.Task{{ID: 1, Text: "only"}})

	m = press(t, m, runeKey("d"))
	assert.Empty(t, m.tasks)
	assert.Equal(t, 0, m.selected)

	// Item-level keys on an empty list must all be guarded no-ops.
	for _, msg := range []tea.Msg{runeKey(" "), runeKey("d"), runeKey("e"), runeKey("t"), runeKey("r"), runeKey("c"), keyUp, keyDown} {
		m = press(t, m, msg)
	}
	assert.Empty(t, m.tasks)
}

func TestEmptyListIgnoresEditKeys(t *testing.T) {
	m := testModel(t, nil)

	next, cmd := m.Update(runeKey("e"))
	m = next.(Model)
	assert.Nil(t, cmd, "edit on an empty list must not launch an editor")
	assert.Nil(t, m.pending)
}

func TestEditKeyStartsSession(t *testing.T) {
	m := testModel(t, three())

	next, cmd := m.Update(runeKey("e"))
	m = next.(Model)
	require.NotNil(t, cmd, "edit should suspend into the external editor")
	require.NotNil(t, m.pending)
	assert.Equal(t, editor.KindText, m.pending.kind)

	seed, err := os.ReadFile(m.pending.path)
	require.NoError(t, err)
	assert.Equal(t, "a", string(seed), "scratch file is seeded with the current text")

	// Keys are ignored while suspended.
	m = press(t, m, keyDown)
	assert.Equal(t, 0, m.selected)
}

func finish(t *testing.T, m Model, kind editor.Kind, index int, content string, execErr error) Model {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scratch.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return press(t, m, editorDoneMsg{
		session: editSession{kind: kind, path: path, index: index},
		err:     execErr,
	})
}

func TestEditWhitespaceResultKeepsText(t *testing.T) {
	m := testModel(t, three())
	m = finish(t, m, editor.KindText, 0, "  ", nil)
	assert.Equal(t, "a", m.tasks[0].Text)
}

func TestEditResultReplacesText(t *testing.T) {
	m := testModel(t, three())
	m = finish(t, m, editor.KindText, 0, "new text\n", nil)
	assert.Equal(t, "new text", m.tasks[0].Text)
}

func TestAddEmptyResultAppendsNothing(t *testing.T) {
	m := testModel(t, three())
	m = finish(t, m, editor.KindNew, 0, "", nil)
	assert.Len(t, m.tasks, 3)
	assert.Equal(t, 0, m.selected)
}

func TestAddAppendsAndSelectsNewItem(t *testing.T) {
	m := testModel(t, three())
	m = finish(t, m, editor.KindNew, 0, "buy milk\n", nil)
	require.Len(t, m.tasks, 4)
	added := m.tasks[3]
	assert.Equal(t, task.Task{ID: 4, Text: "buy milk"}, added)
	assert.Equal(t, 3, m.selected)
}

func TestDueDateSetAndClear(t *testing.T) {
	m := testModel(t, three())

	m = finish(t, m, editor.KindDue, 1, "2025-03-01\n", nil)
	assert.Equal(t, "2025-03-01", m.tasks[1].DueDate)

	m = finish(t, m, editor.KindDue, 1, "", nil)
	assert.Equal(t, "", m.tasks[1].DueDate)
}

func TestReminderSetAndClearKey(t *testing.T) {
	m := testModel(t, three())

	m = finish(t, m, editor.KindReminder, 0, "2025-03-01 09:00", nil)
	assert.Equal(t, "2025-03-01 09:00", m.tasks[0].Reminder)

	m = press(t, m, runeKey("c"))
	assert.Equal(t, "", m.tasks[0].Reminder)
}

func TestEditorFailureKeepsSessionAlive(t *testing.T) {
	m := testModel(t, three())

	// The scratch file still holds the seed, so the failed launch
	// reads back as an unchanged field.
	m = finish(t, m, editor.KindText, 0, "a", os.ErrNotExist)
	assert.Equal(t, "a", m.tasks[0].Text)
	assert.NotEmpty(t, m.status, "launch failures surface on the status line")
	assert.Nil(t, m.pending)

	// The session keeps going afterwards.
	m = press(t, m, keyDown)
	assert.Equal(t, 1, m.selected)
}

func TestStaleIndexAfterEditIsIgnored(t *testing.T) {
	m := testModel(t, three())
	m = finish(t, m, editor.KindText, 7, "whatever", nil)
	assert.Equal(t, []task.Task{{ID: 1, Text: "a"}, {ID: 2, Text: "b"}, {ID: 3, Text: "c"}}, m.tasks)
}

func TestEndToEndToggleDownQuit(t *testing.T) {
	m := testModel(t, []task.Task{{ID: 1, Text: "a"}})

	m = press(t, m, runeKey(" "))
	m = press(t, m, keyDown) // single item, no-op

	next, cmd := m.Update(runeKey("q"))
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Equal(t, []task.Task{{ID: 1, Text: "a", Done: true}}, m.tasks)
}

func TestViewRendersFallbacksAndSelection(t *testing.T) {
	m := testModel(t, []task.Task{
		{ID: 1, Text: "a", Done: true, DueDate: "2025-03-01"},
		{ID: 2, Text: "b"},
	})

	v := m.View()
	assert.Contains(t, v, "[x] a (Due: 2025-03-01, Reminder: No reminder)")
	assert.Contains(t, v, "[ ] b (Due: No due date, Reminder: No reminder)")
	assert.Contains(t, v, "> ", "selected row carries the marker glyph")
}

func TestViewEmptyList(t *testing.T) {
	m := testModel(t, nil)
	assert.Contains(t, m.View(), "No tasks yet")
}
