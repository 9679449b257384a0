// Package cli wires the command grammar: add, done, edit, delete,
// list, due, remind and tui, with --sqlite switching the back end.
package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"dodo/internal/config"
	"dodo/internal/editor"
	"dodo/internal/storage"
	"dodo/internal/task"
	"dodo/internal/tui"
)

// options carries root-level flags into every subcommand.
type options struct {
	sqlite bool
	file   string // JSON store path override
	db     string // SQLite path override
}

func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "dodo",
		Short:         "A personal task tracker",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().BoolVar(&opts.sqlite, "sqlite", false, "use the SQLite store instead of the JSON file")
	root.PersistentFlags().StringVar(&opts.file, "file", "", "JSON store path (overrides config)")
	root.PersistentFlags().StringVar(&opts.db, "db", "", "SQLite database path (overrides config)")

	root.AddCommand(
		newAddCmd(opts),
		newDoneCmd(opts),
		newEditCmd(opts),
		newDeleteCmd(opts),
		newListCmd(opts),
		newDueCmd(opts),
		newRemindCmd(opts),
		newTuiCmd(opts),
	)
	return root
}

func openStore(opts *options) (storage.Store, config.Config, error) {
	cfg, err := config.LoadOrCreate(config.ResolveConfigPath())
	if err != nil {
		return nil, cfg, fmt.Errorf("load config: %w", err)
	}
	if opts.file != "" {
		cfg.DataFile = opts.file
	}
	if opts.db != "" {
		cfg.DBPath = opts.db
	}
	if opts.sqlite {
		s, err := storage.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, cfg, fmt.Errorf("open database: %w", err)
		}
		return s, cfg, nil
	}
	return storage.NewJSONStore(cfg.DataFile), cfg, nil
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}
	return id, nil
}

// withStore runs fn against the loaded task list and persists whatever
// it returns. The load-mutate-save shape keeps both back ends behind
// the same seam.
func withStore(opts *options, fn func(cfg config.Config, tasks []task.Task) ([]task.Task, error)) error {
	store, cfg, err := openStore(opts)
	if err != nil {
		return err
	}
	defer store.Close()

	tasks, err := store.Load()
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	tasks, err = fn(cfg, tasks)
	if err != nil {
		return err
	}
	return store.Save(tasks)
}

func newAddCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>...",
		Short: "Add a new task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts, func(_ config.Config, tasks []task.Task) ([]task.Task, error) {
				text := strings.TrimSpace(strings.Join(args, " "))
				if text == "" {
					return nil, fmt.Errorf("task text is empty")
				}
				tasks = append(tasks, task.Task{ID: len(tasks) + 1, Text: text})
				fmt.Fprintf(cmd.OutOrStdout(), "Added task %d\n", len(tasks))
				return tasks, nil
			})
		},
	}
}

func newDoneCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task as done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withStore(opts, func(_ config.Config, tasks []task.Task) ([]task.Task, error) {
				t := task.Find(tasks, id)
				if t == nil {
					return nil, fmt.Errorf("task %d not found", id)
				}
				t.Done = true
				fmt.Fprintf(cmd.OutOrStdout(), "Marked task %d done\n", id)
				return tasks, nil
			})
		},
	}
}

func newEditCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task's text in your editor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withStore(opts, func(cfg config.Config, tasks []task.Task) ([]task.Task, error) {
				t := task.Find(tasks, id)
				if t == nil {
					return nil, fmt.Errorf("task %d not found", id)
				}
				text, err := editInTerminal(cfg, t.Text)
				if err != nil {
					return nil, err
				}
				if text != "" {
					t.Text = text
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated task %d\n", id)
				return tasks, nil
			})
		},
	}
}

// editInTerminal runs the bridge outside the TUI: the editor simply
// takes over the terminal the command already owns.
func editInTerminal(cfg config.Config, current string) (string, error) {
	bridge := editor.Bridge{Command: cfg.Editor, Dir: cfg.ScratchDir}
	c, path, err := bridge.Start(editor.KindText, current)
	if err != nil {
		return "", err
	}
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return "", fmt.Errorf("run editor: %w", err)
	}
	content, err := editor.ReadBack(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

func newDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withStore(opts, func(_ config.Config, tasks []task.Task) ([]task.Task, error) {
				tasks, removed := task.Delete(tasks, id)
				if !removed {
					return nil, fmt.Errorf("task %d not found", id)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %d\n", id)
				return tasks, nil
			})
		},
	}
}

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts, func(_ config.Config, tasks []task.Task) ([]task.Task, error) {
				for _, t := range tasks {
					fmt.Fprintln(cmd.OutOrStdout(), task.Format(t))
				}
				return tasks, nil
			})
		},
	}
}

func newDueCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "due <id> <date>",
		Short: "Set a task's due date (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			date := strings.TrimSpace(args[1])
			if err := task.ValidateDueDate(date); err != nil {
				return err
			}
			return withStore(opts, func(_ config.Config, tasks []task.Task) ([]task.Task, error) {
				t := task.Find(tasks, id)
				if t == nil {
					return nil, fmt.Errorf("task %d not found", id)
				}
				t.DueDate = date
				fmt.Fprintf(cmd.OutOrStdout(), "Due date set for task %d\n", id)
				return tasks, nil
			})
		},
	}
}

func newRemindCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "remind <id> <datetime>",
		Short: "Set a task's reminder (YYYY-MM-DD HH:MM)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			reminder := strings.TrimSpace(args[1])
			if err := task.ValidateReminder(reminder); err != nil {
				return err
			}
			return withStore(opts, func(_ config.Config, tasks []task.Task) ([]task.Task, error) {
				t := task.Find(tasks, id)
				if t == nil {
					return nil, fmt.Errorf("task %d not found", id)
				}
				t.Reminder = reminder
				fmt.Fprintf(cmd.OutOrStdout(), "Reminder set for task %d\n", id)
				return tasks, nil
			})
		},
	}
}

func newTuiCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive list editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts, func(cfg config.Config, tasks []task.Task) ([]task.Task, error) {
				tasks, err := tui.Run(tasks, cfg)
				if err != nil {
					return nil, fmt.Errorf("tui: %w", err)
				}
				task.Renumber(tasks)
				return tasks, nil
			})
		},
	}
}
