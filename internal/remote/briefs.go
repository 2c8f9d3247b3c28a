package remote

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"execboard/internal/activity"
	"execboard/internal/domain"
)

type Briefs struct {
	base
}

type BriefDraft struct {
	TaskID          string
	Content         string
	Recommendations []string
}

type BriefPatch struct {
	Content         *string
	Recommendations []string
}

const briefColumns = `id,task_id,content,recommendations_json,created_at`

func (b Briefs) scan(scan func(dest ...any) error) (domain.Brief, error) {
	var brief domain.Brief
	var recs string
	var createdAt sql.NullString
	err := scan(&brief.ID, &brief.TaskID, &brief.Content, &recs, &createdAt)
	if err != nil {
		return brief, err
	}
	brief.Recommendations = stringList(recs)
	brief.CreatedAt = createdAt.String
	if !createdAt.Valid || createdAt.String == "" {
		brief.CreatedAt = b.stamp()
	}
	return brief, nil
}

func (b Briefs) list(ctx context.Context, op, query string, args ...any) ([]domain.Brief, error) {
	rows, err := b.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, queryErr(op, err)
	}
	defer rows.Close()
	var res []domain.Brief
	for rows.Next() {
		brief, err := b.scan(rows.Scan)
		if err != nil {
			return nil, queryErr(op, err)
		}
		res = append(res, brief)
	}
	if err := rows.Err(); err != nil {
		return nil, queryErr(op, err)
	}
	return res, nil
}

// ListAll returns every brief, newest first.
func (b Briefs) ListAll(ctx context.Context) ([]domain.Brief, error) {
	return b.list(ctx, "briefs.list", `SELECT `+briefColumns+` FROM briefs ORDER BY created_at DESC`)
}

// Latest returns the n most recent briefs.
func (b Briefs) Latest(ctx context.Context, n int) ([]domain.Brief, error) {
	if n <= 0 {
		n = 5
	}
	return b.list(ctx, "briefs.latest", `SELECT `+briefColumns+` FROM briefs ORDER BY created_at DESC LIMIT ?`, n)
}

func (b Briefs) GetByID(ctx context.Context, id string) (domain.Brief, error) {
	brief, err := b.scan(b.DB.QueryRowContext(ctx, `SELECT `+briefColumns+` FROM briefs WHERE id=?`, id).Scan)
	if err == sql.ErrNoRows {
		return domain.Brief{}, ErrNotFound
	}
	if err != nil {
		return domain.Brief{}, queryErr("briefs.get", err)
	}
	return brief, nil
}

// GetByTask returns the first brief linked to a task. More than one can exist;
// the first match wins.
func (b Briefs) GetByTask(ctx context.Context, taskID string) (domain.Brief, error) {
	brief, err := b.scan(b.DB.QueryRowContext(ctx,
		`SELECT `+briefColumns+` FROM briefs WHERE task_id=? ORDER BY created_at DESC LIMIT 1`, taskID).Scan)
	if err == sql.ErrNoRows {
		return domain.Brief{}, ErrNotFound
	}
	if err != nil {
		return domain.Brief{}, queryErr("briefs.get_by_task", err)
	}
	return brief, nil
}

func (b Briefs) Create(ctx context.Context, draft BriefDraft) (domain.Brief, error) {
	brief := domain.Brief{
		ID:              uuid.NewString(),
		TaskID:          draft.TaskID,
		Content:         draft.Content,
		Recommendations: draft.Recommendations,
		CreatedAt:       b.stamp(),
	}
	if brief.Recommendations == nil {
		brief.Recommendations = []string{}
	}
	tx, err := b.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Brief{}, queryErr("briefs.create", err)
	}
	defer tx.Rollback()
	_, err = tx.ExecContext(ctx, `INSERT INTO briefs(id,task_id,content,recommendations_json,created_at) VALUES (?,?,?,?,?)`,
		brief.ID, brief.TaskID, brief.Content, jsonList(brief.Recommendations), brief.CreatedAt)
	if err != nil {
		return domain.Brief{}, queryErr("briefs.create", err)
	}
	err = b.Log.Append(ctx, tx, "brief.created", "brief", brief.ID, activity.Payload{"task_id": brief.TaskID})
	if err != nil {
		return domain.Brief{}, queryErr("briefs.create", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.Brief{}, queryErr("briefs.create", err)
	}
	return brief, nil
}

func (b Briefs) Update(ctx context.Context, id string, patch BriefPatch) error {
	var (
		fields []string
		args   []any
	)
	if patch.Content != nil {
		fields = append(fields, "content=?")
		args = append(args, *patch.Content)
	}
	if patch.Recommendations != nil {
		fields = append(fields, "recommendations_json=?")
		args = append(args, jsonList(patch.Recommendations))
	}
	if len(fields) == 0 {
		// Nothing to write, but a missing id is still reported.
		if _, err := b.GetByID(ctx, id); err != nil {
			return err
		}
		return nil
	}
	args = append(args, id)
	tx, err := b.DB.BeginTx(ctx, nil)
	if err != nil {
		return queryErr("briefs.update", err)
	}
	defer tx.Rollback()
	res, err := tx.ExecContext(ctx, fmt.Sprintf(`UPDATE briefs SET %s WHERE id=?`, strings.Join(fields, ",")), args...)
	if err != nil {
		return queryErr("briefs.update", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if err := b.Log.Append(ctx, tx, "brief.updated", "brief", id, nil); err != nil {
		return queryErr("briefs.update", err)
	}
	if err := tx.Commit(); err != nil {
		return queryErr("briefs.update", err)
	}
	return nil
}

func (b Briefs) Delete(ctx context.Context, id string) error {
	tx, err := b.DB.BeginTx(ctx, nil)
	if err != nil {
		return queryErr("briefs.delete", err)
	}
	defer tx.Rollback()
	res, err := tx.ExecContext(ctx, `DELETE FROM briefs WHERE id=?`, id)
	if err != nil {
		return queryErr("briefs.delete", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if err := b.Log.Append(ctx, tx, "brief.deleted", "brief", id, nil); err != nil {
		return queryErr("briefs.delete", err)
	}
	if err := tx.Commit(); err != nil {
		return queryErr("briefs.delete", err)
	}
	return nil
}
