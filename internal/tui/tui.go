// Package tui is the interactive list editor. It owns the in-memory
// task list and the selection for the duration of the session and hands
// the mutated list back to the caller on quit; persistence stays with
// the caller.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"dodo/internal/config"
	"dodo/internal/editor"
	"dodo/internal/task"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	selectedStyle = lipgloss.NewStyle().Bold(true)
	doneStyle     = lipgloss.NewStyle().Faint(true)
	statusStyle   = lipgloss.NewStyle().Faint(true)
)

type keyMap struct {
	Up            key.Binding
	Down          key.Binding
	Toggle        key.Binding
	Delete        key.Binding
	Edit          key.Binding
	Add           key.Binding
	Due           key.Binding
	Reminder      key.Binding
	ClearReminder key.Binding
	Quit          key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Add, k.Edit, k.Delete, k.Due, k.Reminder, k.ClearReminder, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Add, k.Edit},
		{k.Delete, k.Due, k.Reminder, k.ClearReminder, k.Quit},
	}
}

func newKeyMap(k config.Keymap) keyMap {
	return keyMap{
		Up:            binding(k.Up, "up"),
		Down:          binding(k.Down, "down"),
		Toggle:        binding(k.Toggle, "toggle"),
		Delete:        binding(k.Delete, "delete"),
		Edit:          binding(k.Edit, "edit"),
		Add:           binding(k.Add, "add"),
		Due:           binding(k.Due, "due date"),
		Reminder:      binding(k.Reminder, "reminder"),
		ClearReminder: binding(k.ClearReminder, "clear reminder"),
		Quit:          binding(k.Quit, "quit"),
	}
}

func binding(keyName, desc string) key.Binding {
	label := keyName
	if label == " " {
		label = "space"
	}
	return key.NewBinding(key.WithKeys(keyName), key.WithHelp(label, desc))
}

// editSession tracks the one in-flight external edit. Non-nil pending
// means the screen is suspended behind the child editor.
type editSession struct {
	kind  editor.Kind
	path  string
	index int
}

type editorDoneMsg struct {
	session editSession
	err     error
}

type Model struct {
	tasks    []task.Task
	selected int
	status   string
	bridge   editor.Bridge
	keys     keyMap
	help     help.Model
	pending  *editSession
}

func newModel(tasks []task.Task, cfg config.Config) Model {
	return Model{
		tasks:  tasks,
		bridge: editor.Bridge{Command: cfg.Editor, Dir: cfg.ScratchDir},
		keys:   newKeyMap(cfg.Keys),
		help:   help.New(),
	}
}

// Run takes ownership of tasks for the session and returns the mutated
// list when the user quits. The alternate screen and raw mode are
// acquired on entry and restored on every exit path by the Bubble Tea
// runtime, including error paths.
func Run(tasks []task.Task, cfg config.Config) ([]task.Task, error) {
	p := tea.NewProgram(newModel(tasks, cfg), tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if err != nil {
		return tasks, err
	}
	m, ok := final.(Model)
	if !ok {
		return tasks, nil
	}
	return m.tasks, nil
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.pending != nil {
			// Suspended behind the external editor; nothing to do here.
			return m, nil
		}
		return m.handleKey(msg)
	case editorDoneMsg:
		return m.finishEdit(msg)
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.tasks)-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Toggle):
		if m.selected < len(m.tasks) {
			m.tasks[m.selected].Done = !m.tasks[m.selected].Done
		}
	case key.Matches(msg, m.keys.Delete):
		if m.selected < len(m.tasks) {
			m.tasks = append(m.tasks[:m.selected], m.tasks[m.selected+1:]...)
			if m.selected > 0 {
				m.selected--
			}
		}
	case key.Matches(msg, m.keys.Edit):
		if m.selected < len(m.tasks) {
			return m.startEdit(editor.KindText, m.tasks[m.selected].Text)
		}
	case key.Matches(msg, m.keys.Add):
		return m.startEdit(editor.KindNew, "")
	case key.Matches(msg, m.keys.Due):
		if m.selected < len(m.tasks) {
			return m.startEdit(editor.KindDue, m.tasks[m.selected].DueDate)
		}
	case key.Matches(msg, m.keys.Reminder):
		if m.selected < len(m.tasks) {
			return m.startEdit(editor.KindReminder, m.tasks[m.selected].Reminder)
		}
	case key.Matches(msg, m.keys.ClearReminder):
		if m.selected < len(m.tasks) {
			m.tasks[m.selected].Reminder = ""
		}
	}
	return m, nil
}

// startEdit seeds the scratch file and suspends the screen while the
// external editor runs. tea.ExecProcess releases the terminal before
// the child starts and restores it when the child exits, whether or not
// the launch succeeded.
func (m Model) startEdit(kind editor.Kind, seed string) (tea.Model, tea.Cmd) {
	cmd, path, err := m.bridge.Start(kind, seed)
	if err != nil {
		m.status = fmt.Sprintf("edit failed: %v", err)
		return m, nil
	}
	session := editSession{kind: kind, path: path, index: m.selected}
	m.pending = &session
	m.status = ""
	return m, tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorDoneMsg{session: session, err: err}
	})
}

// finishEdit reads the scratch file back and applies the result. A
// failed editor launch is reported on the status line but the read-back
// still runs: the scratch file holds the seeded value, so an untouched
// file means an unchanged field.
func (m Model) finishEdit(msg editorDoneMsg) (tea.Model, tea.Cmd) {
	m.pending = nil
	if msg.err != nil {
		m.status = fmt.Sprintf("editor: %v", msg.err)
	}
	content, err := editor.ReadBack(msg.session.path)
	if err != nil {
		m.status = fmt.Sprintf("editor: %v", err)
		return m, nil
	}
	m.applyEdit(msg.session, content)
	return m, nil
}

func (m *Model) applyEdit(session editSession, content string) {
	trimmed := strings.TrimSpace(content)
	if session.kind == editor.KindNew {
		if trimmed == "" {
			return
		}
		m.tasks = append(m.tasks, task.Task{ID: len(m.tasks) + 1, Text: trimmed})
		m.selected = len(m.tasks) - 1
		return
	}

	if session.index >= len(m.tasks) {
		return
	}
	t := &m.tasks[session.index]
	switch session.kind {
	case editor.KindText:
		if trimmed != "" {
			t.Text = trimmed
		}
	case editor.KindDue:
		t.DueDate = trimmed
	case editor.KindReminder:
		t.Reminder = trimmed
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Todos"))
	b.WriteString("  ")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n\n")

	if len(m.tasks) == 0 {
		b.WriteString("No tasks yet. Press 'a' to add one.\n")
	} else {
		for i, t := range m.tasks {
			b.WriteString(renderLine(t, i == m.selected))
			b.WriteString("\n")
		}
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	return b.String()
}

func renderLine(t task.Task, selected bool) string {
	checkbox := "[ ]"
	if t.Done {
		checkbox = "[x]"
	}
	due := t.DueDate
	if due == "" {
		due = "No due date"
	}
	reminder := t.Reminder
	if reminder == "" {
		reminder = "No reminder"
	}

	body := fmt.Sprintf("%s %s (Due: %s, Reminder: %s)", checkbox, t.Text, due, reminder)
	if selected {
		return selectedStyle.Render("> " + body)
	}
	if t.Done {
		return "  " + doneStyle.Render(body)
	}
	return "  " + body
}
