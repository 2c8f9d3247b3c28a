package store_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"execboard/internal/db"
	"execboard/internal/migrate"
	"execboard/internal/remote"
)

type storeEnv struct {
	Remote *remote.Remote
	DB     *sql.DB
	Ctx    context.Context
	now    *time.Time
}

func (e storeEnv) advance(d time.Duration) {
	*e.now = e.now.Add(d)
}

func (e storeEnv) clock() func() time.Time {
	now := e.now
	return func() time.Time { return *now }
}

func newStoreEnv(t *testing.T) storeEnv {
	t.Helper()
	dir := t.TempDir()
	conn, err := db.Open(db.Config{Workspace: dir})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	env := storeEnv{DB: conn, Ctx: context.Background(), now: &now}
	env.Remote = remote.NewWithClock(conn, env.clock())
	return env
}
