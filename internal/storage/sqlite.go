package storage

import (
	"database/sql"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"dodo/internal/task"
)

// SQLiteStore keeps tasks as rows in a single todos table. Save
// replaces the whole table inside one transaction so row order and ids
// always mirror the in-memory list.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS todos (
	id INTEGER PRIMARY KEY,
	text TEXT NOT NULL,
	done INTEGER NOT NULL DEFAULT 0,
	due_date TEXT,
	reminder TEXT
);`
	_, err := s.db.Exec(ddl)
	return err
}

func (s *SQLiteStore) Load() ([]task.Task, error) {
	rows, err := s.db.Query(`SELECT id, text, done, due_date, reminder FROM todos ORDER BY id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []task.Task{}
	for rows.Next() {
		var t task.Task
		var done int
		var due, reminder sql.NullString
		if err := rows.Scan(&t.ID, &t.Text, &done, &due, &reminder); err != nil {
			return nil, err
		}
		t.Done = done == 1
		t.DueDate = due.String
		t.Reminder = reminder.String
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	task.Renumber(tasks)
	return tasks, nil
}

func (s *SQLiteStore) Save(tasks []task.Task) error {
	task.Renumber(tasks)
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM todos;`); err != nil {
		tx.Rollback()
		return err
	}
	for _, t := range tasks {
		done := 0
		if t.Done {
			done = 1
		}
		_, err := tx.Exec(`INSERT INTO todos (id, text, done, due_date, reminder) VALUES (?, ?, ?, ?, ?);`,
			t.ID, t.Text, done, nullable(t.DueDate), nullable(t.Reminder))
		if err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func nullable(v string) sql.NullString {
	if strings.TrimSpace(v) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
