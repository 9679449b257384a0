// Package storage provides the two persistence back ends: a flat JSON
// file and a SQLite database. Both load the full task list into memory
// and persist whatever list they are handed back; nothing touches the
// store while the interactive view is running.
package storage

import "dodo/internal/task"

type Store interface {
	Load() ([]task.Task, error)
	Save([]task.Task) error
	Close() error
}
