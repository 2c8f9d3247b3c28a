package activity

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"execboard/internal/domain"
)

// Writer appends activity entries inside the caller's transaction so a
// mutation and its trace land atomically.
type Writer struct {
	Now func() time.Time
}

type Payload map[string]any

func (w Writer) Append(ctx context.Context, tx *sql.Tx, entryType, entityKind, entityID string, payload Payload) error {
	if w.Now == nil {
		w.Now = time.Now
	}
	ts := w.Now().UTC().Format(time.RFC3339)
	if payload == nil {
		payload = Payload{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal activity payload: %w", err)
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO activity(ts,type,entity_kind,entity_id,payload_json) VALUES (?,?,?,?,?)`,
		ts, entryType, entityKind, entityID, string(data))
	return err
}

// List returns the most recent entries, newest first.
func List(ctx context.Context, db *sql.DB, limit int) ([]domain.ActivityEntry, error) {
	query := `SELECT id,ts,type,entity_kind,entity_id,payload_json FROM activity ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.ActivityEntry
	for rows.Next() {
		var e domain.ActivityEntry
		if err := rows.Scan(&e.ID, &e.TS, &e.Type, &e.EntityKind, &e.EntityID, &e.Payload); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}
