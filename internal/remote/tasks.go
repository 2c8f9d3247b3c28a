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

type Tasks struct {
	base
}

// TaskDraft is the create input. Ids and timestamps are assigned here, not by
// the caller.
type TaskDraft struct {
	Title       string
	Description string
	Role        string
	Status      string
	BriefID     *string
}

// TaskPatch carries partial updates. Nil fields are left untouched; id and
// createdAt are never updatable.
type TaskPatch struct {
	Title       *string
	Description *string
	Role        *string
	Status      *string
	BriefID     *string
	CompletedAt *string
}

const taskColumns = `id,title,description,role,status,brief_id,created_at,updated_at,completed_at`

func (t Tasks) scan(scan func(dest ...any) error) (domain.Task, error) {
	var task domain.Task
	var briefID, createdAt, updatedAt, completedAt sql.NullString
	err := scan(&task.ID, &task.Title, &task.Description, &task.Role, &task.Status,
		&briefID, &createdAt, &updatedAt, &completedAt)
	if err != nil {
		return task, err
	}
	task.BriefID = optionalString(briefID)
	task.CreatedAt = createdAt.String
	task.UpdatedAt = updatedAt.String
	if !createdAt.Valid || createdAt.String == "" {
		task.CreatedAt = t.stamp()
	}
	if !updatedAt.Valid || updatedAt.String == "" {
		task.UpdatedAt = t.stamp()
	}
	task.CompletedAt = optionalString(completedAt)
	return task, nil
}

func (t Tasks) list(ctx context.Context, op, query string, args ...any) ([]domain.Task, error) {
	rows, err := t.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, queryErr(op, err)
	}
	defer rows.Close()
	var res []domain.Task
	for rows.Next() {
		task, err := t.scan(rows.Scan)
		if err != nil {
			return nil, queryErr(op, err)
		}
		res = append(res, task)
	}
	if err := rows.Err(); err != nil {
		return nil, queryErr(op, err)
	}
	return res, nil
}

// ListAll returns every task, newest first.
func (t Tasks) ListAll(ctx context.Context) ([]domain.Task, error) {
	return t.list(ctx, "tasks.list", `SELECT `+taskColumns+` FROM tasks ORDER BY created_at DESC`)
}

// ListByRole returns tasks assigned to a role, newest first.
func (t Tasks) ListByRole(ctx context.Context, role string) ([]domain.Task, error) {
	return t.list(ctx, "tasks.list_by_role", `SELECT `+taskColumns+` FROM tasks WHERE role=? ORDER BY created_at DESC`, role)
}

// ListProblematic returns tasks whose status is in the given set, most
// recently touched first. Backed by idx_tasks_status_updated.
func (t Tasks) ListProblematic(ctx context.Context, statuses []string) ([]domain.Task, error) {
	if len(statuses) == 0 {
		return []domain.Task{}, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(statuses)), ",")
	args := make([]any, len(statuses))
	for i, s := range statuses {
		args[i] = s
	}
	return t.list(ctx, "tasks.list_problematic",
		`SELECT `+taskColumns+` FROM tasks WHERE status IN (`+placeholders+`) ORDER BY updated_at DESC`, args...)
}

func (t Tasks) GetByID(ctx context.Context, id string) (domain.Task, error) {
	task, err := t.scan(t.DB.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id=?`, id).Scan)
	if err == sql.ErrNoRows {
		return domain.Task{}, ErrNotFound
	}
	if err != nil {
		return domain.Task{}, queryErr("tasks.get", err)
	}
	return task, nil
}

// Create inserts a new task and returns the draft merged with the generated
// id and stamps. No read-back happens.
func (t Tasks) Create(ctx context.Context, draft TaskDraft) (domain.Task, error) {
	if !domain.ValidRole(draft.Role) {
		return domain.Task{}, fmt.Errorf("unknown role %q", draft.Role)
	}
	status := draft.Status
	if status == "" {
		status = domain.StatusPending
	}
	if !domain.ValidStatus(status) {
		return domain.Task{}, fmt.Errorf("unknown status %q", status)
	}
	now := t.stamp()
	task := domain.Task{
		ID:          uuid.NewString(),
		Title:       draft.Title,
		Description: draft.Description,
		Role:        draft.Role,
		Status:      status,
		BriefID:     draft.BriefID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	tx, err := t.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Task{}, queryErr("tasks.create", err)
	}
	defer tx.Rollback()
	_, err = tx.ExecContext(ctx, `INSERT INTO tasks(id,title,description,role,status,brief_id,created_at,updated_at) VALUES (?,?,?,?,?,?,?,?)`,
		task.ID, task.Title, task.Description, task.Role, task.Status, nullableStringPtr(task.BriefID), task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return domain.Task{}, queryErr("tasks.create", err)
	}
	err = t.Log.Append(ctx, tx, "task.created", "task", task.ID, activity.Payload{"role": task.Role, "title": task.Title})
	if err != nil {
		return domain.Task{}, queryErr("tasks.create", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.Task{}, queryErr("tasks.create", err)
	}
	return task, nil
}

// Update applies a partial update. updatedAt is restamped on every call; a
// status change to completed stamps completedAt unless the patch carries one.
func (t Tasks) Update(ctx context.Context, id string, patch TaskPatch) error {
	var (
		fields []string
		args   []any
	)
	if patch.Title != nil {
		fields = append(fields, "title=?")
		args = append(args, *patch.Title)
	}
	if patch.Description != nil {
		fields = append(fields, "description=?")
		args = append(args, *patch.Description)
	}
	if patch.Role != nil {
		if !domain.ValidRole(*patch.Role) {
			return fmt.Errorf("unknown role %q", *patch.Role)
		}
		fields = append(fields, "role=?")
		args = append(args, *patch.Role)
	}
	if patch.Status != nil {
		if !domain.ValidStatus(*patch.Status) {
			return fmt.Errorf("unknown status %q", *patch.Status)
		}
		fields = append(fields, "status=?")
		args = append(args, *patch.Status)
	}
	if patch.BriefID != nil {
		fields = append(fields, "brief_id=?")
		args = append(args, nullable(*patch.BriefID))
	}
	if patch.CompletedAt != nil {
		fields = append(fields, "completed_at=?")
		args = append(args, nullable(*patch.CompletedAt))
	} else if patch.Status != nil && *patch.Status == domain.StatusCompleted {
		fields = append(fields, "completed_at=?")
		args = append(args, t.stamp())
	}
	fields = append(fields, "updated_at=?")
	args = append(args, t.stamp())
	args = append(args, id)

	tx, err := t.DB.BeginTx(ctx, nil)
	if err != nil {
		return queryErr("tasks.update", err)
	}
	defer tx.Rollback()
	res, err := tx.ExecContext(ctx, fmt.Sprintf(`UPDATE tasks SET %s WHERE id=?`, strings.Join(fields, ",")), args...)
	if err != nil {
		return queryErr("tasks.update", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	payload := activity.Payload{}
	if patch.Status != nil {
		payload["status"] = *patch.Status
	}
	if err := t.Log.Append(ctx, tx, "task.updated", "task", id, payload); err != nil {
		return queryErr("tasks.update", err)
	}
	if err := tx.Commit(); err != nil {
		return queryErr("tasks.update", err)
	}
	return nil
}

func (t Tasks) Delete(ctx context.Context, id string) error {
	tx, err := t.DB.BeginTx(ctx, nil)
	if err != nil {
		return queryErr("tasks.delete", err)
	}
	defer tx.Rollback()
	res, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id=?`, id)
	if err != nil {
		return queryErr("tasks.delete", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if err := t.Log.Append(ctx, tx, "task.deleted", "task", id, nil); err != nil {
		return queryErr("tasks.delete", err)
	}
	if err := tx.Commit(); err != nil {
		return queryErr("tasks.delete", err)
	}
	return nil
}
