package task

import (
	"fmt"
	"strings"
	"time"
)

const (
	DueDateLayout  = "2006-01-02"
	ReminderLayout = "2006-01-02 15:04"
)

// Task is a single tracked item. DueDate and Reminder hold formatted
// strings ("" when unset) so both stores round-trip them untouched.
type Task struct {
	ID       int    `json:"id"`
	Text     string `json:"text"`
	Done     bool   `json:"done"`
	DueDate  string `json:"due_date,omitempty"`
	Reminder string `json:"reminder,omitempty"`
}

// Renumber rewrites IDs so that tasks[i].ID == i+1. IDs are display
// ordinals, not stable identifiers; this runs on load and before save
// rather than after every structural change.
func Renumber(tasks []Task) {
	for i := range tasks {
		tasks[i].ID = i + 1
	}
}

// Find returns a pointer into tasks for the given id, or nil.
func Find(tasks []Task, id int) *Task {
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i]
		}
	}
	return nil
}

// Delete removes the task with the given id and renumbers the rest.
// The second return reports whether anything was removed.
func Delete(tasks []Task, id int) ([]Task, bool) {
	out := tasks[:0]
	removed := false
	for _, t := range tasks {
		if t.ID == id {
			removed = true
			continue
		}
		out = append(out, t)
	}
	Renumber(out)
	return out, removed
}

// Format renders a task the way `dodo list` prints it.
func Format(t Task) string {
	status := " "
	if t.Done {
		status = "✓"
	}
	return fmt.Sprintf("[%s] %d: %s (Due: %s, Reminder: %s)",
		status, t.ID, t.Text, orFallback(t.DueDate, "No due date"), orFallback(t.Reminder, "No reminder"))
}

func orFallback(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// ValidateDueDate checks the YYYY-MM-DD form. Empty is valid (unset).
func ValidateDueDate(s string) error {
	return validateLayout(s, DueDateLayout, "due date must be YYYY-MM-DD")
}

// ValidateReminder checks the YYYY-MM-DD HH:MM form. Empty is valid (unset).
func ValidateReminder(s string) error {
	return validateLayout(s, ReminderLayout, "reminder must be YYYY-MM-DD HH:MM")
}

func validateLayout(s, layout, msg string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse(layout, s); err != nil {
		return fmt.Errorf("%s: %q", msg, s)
	}
	return nil
}
