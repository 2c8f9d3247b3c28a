// Package remote holds the collection accessors over the backing document
// store. Each accessor maps one entity family to one table, assigns ids and
// timestamps on the client side, and never re-reads what it just wrote:
// Create returns the draft merged with the generated id and stamps.
package remote

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"execboard/internal/activity"
)

// ErrNotFound is returned by single-entity lookups when no row matches.
var ErrNotFound = errors.New("not found")

// QueryError wraps a database failure at the accessor boundary. It is logged
// once here and returned wrapped; callers decide how to surface it.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string { return fmt.Sprintf("query %s: %v", e.Op, e.Err) }
func (e *QueryError) Unwrap() error { return e.Err }

func queryErr(op string, err error) error {
	log.Printf("remote: %s failed: %v", op, err)
	return &QueryError{Op: op, Err: err}
}

type base struct {
	DB  *sql.DB
	Log activity.Writer
	Now func() time.Time
}

func (b base) stamp() string {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	return now().UTC().Format(time.RFC3339)
}

// Remote bundles every accessor over one database handle.
type Remote struct {
	Tasks      Tasks
	Briefs     Briefs
	Strategies Strategies
	Dashboard  Dashboard
	Feedback   Feedback
	Users      Users
	APIKeys    APIKeys
}

func New(db *sql.DB) *Remote {
	return NewWithClock(db, time.Now)
}

// NewWithClock fixes the accessor clock, used by tests.
func NewWithClock(db *sql.DB, now func() time.Time) *Remote {
	b := base{DB: db, Log: activity.Writer{Now: now}, Now: now}
	return &Remote{
		Tasks:      Tasks{b},
		Briefs:     Briefs{b},
		Strategies: Strategies{b},
		Dashboard:  Dashboard{b},
		Feedback:   Feedback{b},
		Users:      Users{b},
		APIKeys:    APIKeys{b},
	}
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func nullableStringPtr(v *string) any {
	if v == nil || *v == "" {
		return nil
	}
	return *v
}

func optionalString(ns sql.NullString) *string {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	s := ns.String
	return &s
}

// stringList decodes a JSON array column, defaulting to an empty slice so
// callers never see nil for stored collections.
func stringList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

func jsonList(v []string) string {
	if v == nil {
		v = []string{}
	}
	data, _ := json.Marshal(v)
	return string(data)
}
