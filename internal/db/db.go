// Package db locates and opens the workspace-local SQLite database. All
// durable state lives in a dot-directory under the workspace root, so a
// workspace can be moved or deleted as a unit.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const (
	stateDir = ".execboard"
	dbName   = "execboard.db"
)

type Config struct {
	Workspace string
}

// EnsureWorkspace creates the workspace state directory if missing and
// returns its path.
func EnsureWorkspace(workspace string) (string, error) {
	dir := filepath.Join(rootDir(workspace), stateDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// Path returns the database file path for a workspace.
func Path(workspace string) string {
	return filepath.Join(rootDir(workspace), stateDir, dbName)
}

func rootDir(workspace string) string {
	if workspace == "" {
		return "."
	}
	return workspace
}

// Open ensures the state directory exists and opens the database. WAL plus a
// busy timeout lets the CLI and a running server share the file; foreign keys
// are switched on per connection.
func Open(cfg Config) (*sql.DB, error) {
	if _, err := EnsureWorkspace(cfg.Workspace); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)", Path(cfg.Workspace))
	return sql.Open("sqlite", dsn)
}
