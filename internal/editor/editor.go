// Package editor shuttles a single text field through an external line
// editor. The field value is written to a scratch file, the editor runs
// against that file, and the (possibly changed) contents are read back.
// It never trims: what counts as "empty" is the caller's call.
package editor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// DefaultCommand is used when neither the config nor the environment
// names an editor.
const DefaultCommand = "nano"

// Kind selects which field is being edited. Each kind owns its own
// scratch file so a due-date edit can never clobber a pending text edit.
type Kind int

const (
	KindText Kind = iota
	KindNew
	KindDue
	KindReminder
)

func (k Kind) scratchName() string {
	switch k {
	case KindNew:
		return "dodo_new.txt"
	case KindDue:
		return "dodo_due.txt"
	case KindReminder:
		return "dodo_reminder.txt"
	default:
		return "dodo_edit.txt"
	}
}

// Bridge launches the configured editor against per-kind scratch files.
// Command and Dir are injected so tests can point at a fake editor and
// a temp directory; zero values fall back to the environment and the
// system temp dir.
type Bridge struct {
	// Command overrides editor resolution when non-empty. Otherwise
	// $VISUAL, then $EDITOR, then DefaultCommand.
	Command string
	// Dir holds the scratch files. Defaults to os.TempDir().
	Dir string
}

// ResolveCommand returns the editor program for this invocation.
func (b Bridge) ResolveCommand() string {
	if c := strings.TrimSpace(b.Command); c != "" {
		return c
	}
	if v := strings.TrimSpace(os.Getenv("VISUAL")); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv("EDITOR")); v != "" {
		return v
	}
	return DefaultCommand
}

// ScratchPath returns the scratch file used for the given field kind.
func (b Bridge) ScratchPath(kind Kind) string {
	dir := b.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, kind.scratchName())
}

// Start seeds the scratch file with the current field value and builds
// the editor invocation. The scratch file is overwritten, never
// appended. The returned command has not been started; the caller runs
// it with the terminal released and calls ReadBack afterwards.
func (b Bridge) Start(kind Kind, currentValue string) (*exec.Cmd, string, error) {
	path := b.ScratchPath(kind)
	if err := os.WriteFile(path, []byte(currentValue), 0o600); err != nil {
		return nil, "", fmt.Errorf("write scratch file: %w", err)
	}
	return exec.Command(b.ResolveCommand(), path), path, nil
}

// ReadBack returns the full scratch file contents, untrimmed.
func ReadBack(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read scratch file: %w", err)
	}
	return string(b), nil
}
