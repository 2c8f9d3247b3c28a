package remote

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"execboard/internal/activity"
	"execboard/internal/domain"
)

type Feedback struct {
	base
}

type FeedbackDraft struct {
	TaskID  *string
	BriefID *string
	Content string
	Rating  int
}

// Submit records feedback about a task or brief.
func (f Feedback) Submit(ctx context.Context, draft FeedbackDraft) (domain.Feedback, error) {
	if draft.Rating < 1 || draft.Rating > 5 {
		return domain.Feedback{}, fmt.Errorf("rating %d out of range 1-5", draft.Rating)
	}
	fb := domain.Feedback{
		ID:        uuid.NewString(),
		TaskID:    draft.TaskID,
		BriefID:   draft.BriefID,
		Content:   draft.Content,
		Rating:    draft.Rating,
		CreatedAt: f.stamp(),
	}
	tx, err := f.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Feedback{}, queryErr("feedback.submit", err)
	}
	defer tx.Rollback()
	_, err = tx.ExecContext(ctx, `INSERT INTO feedback(id,task_id,brief_id,content,rating,created_at) VALUES (?,?,?,?,?,?)`,
		fb.ID, nullableStringPtr(fb.TaskID), nullableStringPtr(fb.BriefID), fb.Content, fb.Rating, fb.CreatedAt)
	if err != nil {
		return domain.Feedback{}, queryErr("feedback.submit", err)
	}
	err = f.Log.Append(ctx, tx, "feedback.submitted", "feedback", fb.ID, activity.Payload{"rating": fb.Rating})
	if err != nil {
		return domain.Feedback{}, queryErr("feedback.submit", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.Feedback{}, queryErr("feedback.submit", err)
	}
	return fb, nil
}

// ListAll returns every feedback entry, newest first.
func (f Feedback) ListAll(ctx context.Context) ([]domain.Feedback, error) {
	rows, err := f.DB.QueryContext(ctx, `SELECT id,task_id,brief_id,content,rating,created_at FROM feedback ORDER BY created_at DESC`)
	if err != nil {
		return nil, queryErr("feedback.list", err)
	}
	defer rows.Close()
	var res []domain.Feedback
	for rows.Next() {
		var fb domain.Feedback
		var taskID, briefID sql.NullString
		if err := rows.Scan(&fb.ID, &taskID, &briefID, &fb.Content, &fb.Rating, &fb.CreatedAt); err != nil {
			return nil, queryErr("feedback.list", err)
		}
		fb.TaskID = optionalString(taskID)
		fb.BriefID = optionalString(briefID)
		res = append(res, fb)
	}
	if err := rows.Err(); err != nil {
		return nil, queryErr("feedback.list", err)
	}
	return res, nil
}
