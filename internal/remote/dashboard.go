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

// Dashboard accesses the business metrics and per-role performance
// collections feeding the aggregate view.
type Dashboard struct {
	base
}

type MetricsPatch struct {
	LTV      *float64
	MRR      *float64
	CashFlow *float64
}

type PerformanceDraft struct {
	Role            string
	CompletedKPIs   int
	TotalKPIs       int
	ConfidenceScore int
	PositiveNotes   []string
	NegativeNotes   []string
}

type PerformancePatch struct {
	CompletedKPIs   *int
	TotalKPIs       *int
	ConfidenceScore *int
	PositiveNotes   []string
	NegativeNotes   []string
}

// GetMetrics returns the current business metrics document. The collection
// holds one logical document; the most recently updated row wins.
func (d Dashboard) GetMetrics(ctx context.Context) (domain.BusinessMetrics, error) {
	var m domain.BusinessMetrics
	var updatedAt sql.NullString
	err := d.DB.QueryRowContext(ctx,
		`SELECT id,ltv,mrr,cash_flow,updated_at FROM business_metrics ORDER BY updated_at DESC LIMIT 1`).
		Scan(&m.ID, &m.LTV, &m.MRR, &m.CashFlow, &updatedAt)
	if err == sql.ErrNoRows {
		return domain.BusinessMetrics{}, ErrNotFound
	}
	if err != nil {
		return domain.BusinessMetrics{}, queryErr("metrics.get", err)
	}
	m.UpdatedAt = optionalString(updatedAt)
	return m, nil
}

// PutMetrics inserts a metrics document.
func (d Dashboard) PutMetrics(ctx context.Context, ltv, mrr, cashFlow float64) (domain.BusinessMetrics, error) {
	now := d.stamp()
	m := domain.BusinessMetrics{
		ID:        uuid.NewString(),
		LTV:       ltv,
		MRR:       mrr,
		CashFlow:  cashFlow,
		UpdatedAt: &now,
	}
	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.BusinessMetrics{}, queryErr("metrics.put", err)
	}
	defer tx.Rollback()
	_, err = tx.ExecContext(ctx, `INSERT INTO business_metrics(id,ltv,mrr,cash_flow,updated_at) VALUES (?,?,?,?,?)`,
		m.ID, m.LTV, m.MRR, m.CashFlow, now)
	if err != nil {
		return domain.BusinessMetrics{}, queryErr("metrics.put", err)
	}
	if err := d.Log.Append(ctx, tx, "metrics.updated", "metrics", m.ID, nil); err != nil {
		return domain.BusinessMetrics{}, queryErr("metrics.put", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.BusinessMetrics{}, queryErr("metrics.put", err)
	}
	return m, nil
}

// UpdateMetrics merges the patch into an existing document. updatedAt is
// restamped on every call.
func (d Dashboard) UpdateMetrics(ctx context.Context, id string, patch MetricsPatch) error {
	var (
		fields []string
		args   []any
	)
	if patch.LTV != nil {
		fields = append(fields, "ltv=?")
		args = append(args, *patch.LTV)
	}
	if patch.MRR != nil {
		fields = append(fields, "mrr=?")
		args = append(args, *patch.MRR)
	}
	if patch.CashFlow != nil {
		fields = append(fields, "cash_flow=?")
		args = append(args, *patch.CashFlow)
	}
	fields = append(fields, "updated_at=?")
	args = append(args, d.stamp())
	args = append(args, id)

	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		return queryErr("metrics.update", err)
	}
	defer tx.Rollback()
	res, err := tx.ExecContext(ctx, fmt.Sprintf(`UPDATE business_metrics SET %s WHERE id=?`, strings.Join(fields, ",")), args...)
	if err != nil {
		return queryErr("metrics.update", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if err := d.Log.Append(ctx, tx, "metrics.updated", "metrics", id, nil); err != nil {
		return queryErr("metrics.update", err)
	}
	if err := tx.Commit(); err != nil {
		return queryErr("metrics.update", err)
	}
	return nil
}

func (d Dashboard) scanPerformance(scan func(dest ...any) error) (domain.CLevelPerformance, error) {
	var p domain.CLevelPerformance
	var positive, negative string
	var updatedAt sql.NullString
	err := scan(&p.ID, &p.Role, &p.CompletedKPIs, &p.TotalKPIs, &p.ConfidenceScore, &positive, &negative, &updatedAt)
	if err != nil {
		return p, err
	}
	p.PositiveNotes = stringList(positive)
	p.NegativeNotes = stringList(negative)
	p.UpdatedAt = updatedAt.String
	if !updatedAt.Valid || updatedAt.String == "" {
		p.UpdatedAt = d.stamp()
	}
	return p, nil
}

const performanceColumns = `id,role,completed_kpis,total_kpis,confidence_score,positive_notes_json,negative_notes_json,updated_at`

// ListPerformance returns every role's performance record, most recently
// updated first.
func (d Dashboard) ListPerformance(ctx context.Context) ([]domain.CLevelPerformance, error) {
	rows, err := d.DB.QueryContext(ctx, `SELECT `+performanceColumns+` FROM clevel_performance ORDER BY updated_at DESC`)
	if err != nil {
		return nil, queryErr("performance.list", err)
	}
	defer rows.Close()
	var res []domain.CLevelPerformance
	for rows.Next() {
		p, err := d.scanPerformance(rows.Scan)
		if err != nil {
			return nil, queryErr("performance.list", err)
		}
		res = append(res, p)
	}
	if err := rows.Err(); err != nil {
		return nil, queryErr("performance.list", err)
	}
	return res, nil
}

// GetPerformanceByRole returns the first performance record for a role.
func (d Dashboard) GetPerformanceByRole(ctx context.Context, role string) (domain.CLevelPerformance, error) {
	p, err := d.scanPerformance(d.DB.QueryRowContext(ctx,
		`SELECT `+performanceColumns+` FROM clevel_performance WHERE role=? ORDER BY updated_at DESC LIMIT 1`, role).Scan)
	if err == sql.ErrNoRows {
		return domain.CLevelPerformance{}, ErrNotFound
	}
	if err != nil {
		return domain.CLevelPerformance{}, queryErr("performance.get_by_role", err)
	}
	return p, nil
}

func (d Dashboard) CreatePerformance(ctx context.Context, draft PerformanceDraft) (domain.CLevelPerformance, error) {
	if !domain.ValidRole(draft.Role) {
		return domain.CLevelPerformance{}, fmt.Errorf("unknown role %q", draft.Role)
	}
	if draft.ConfidenceScore < 0 || draft.ConfidenceScore > 100 {
		return domain.CLevelPerformance{}, fmt.Errorf("confidence score %d out of range", draft.ConfidenceScore)
	}
	p := domain.CLevelPerformance{
		ID:              uuid.NewString(),
		Role:            draft.Role,
		CompletedKPIs:   draft.CompletedKPIs,
		TotalKPIs:       draft.TotalKPIs,
		ConfidenceScore: draft.ConfidenceScore,
		PositiveNotes:   draft.PositiveNotes,
		NegativeNotes:   draft.NegativeNotes,
		UpdatedAt:       d.stamp(),
	}
	if p.PositiveNotes == nil {
		p.PositiveNotes = []string{}
	}
	if p.NegativeNotes == nil {
		p.NegativeNotes = []string{}
	}
	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.CLevelPerformance{}, queryErr("performance.create", err)
	}
	defer tx.Rollback()
	_, err = tx.ExecContext(ctx, `INSERT INTO clevel_performance(id,role,completed_kpis,total_kpis,confidence_score,positive_notes_json,negative_notes_json,updated_at) VALUES (?,?,?,?,?,?,?,?)`,
		p.ID, p.Role, p.CompletedKPIs, p.TotalKPIs, p.ConfidenceScore, jsonList(p.PositiveNotes), jsonList(p.NegativeNotes), p.UpdatedAt)
	if err != nil {
		return domain.CLevelPerformance{}, queryErr("performance.create", err)
	}
	err = d.Log.Append(ctx, tx, "performance.updated", "performance", p.ID, activity.Payload{"role": p.Role})
	if err != nil {
		return domain.CLevelPerformance{}, queryErr("performance.create", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.CLevelPerformance{}, queryErr("performance.create", err)
	}
	return p, nil
}

func (d Dashboard) UpdatePerformance(ctx context.Context, id string, patch PerformancePatch) error {
	var (
		fields []string
		args   []any
	)
	if patch.CompletedKPIs != nil {
		fields = append(fields, "completed_kpis=?")
		args = append(args, *patch.CompletedKPIs)
	}
	if patch.TotalKPIs != nil {
		fields = append(fields, "total_kpis=?")
		args = append(args, *patch.TotalKPIs)
	}
	if patch.ConfidenceScore != nil {
		if *patch.ConfidenceScore < 0 || *patch.ConfidenceScore > 100 {
			return fmt.Errorf("confidence score %d out of range", *patch.ConfidenceScore)
		}
		fields = append(fields, "confidence_score=?")
		args = append(args, *patch.ConfidenceScore)
	}
	if patch.PositiveNotes != nil {
		fields = append(fields, "positive_notes_json=?")
		args = append(args, jsonList(patch.PositiveNotes))
	}
	if patch.NegativeNotes != nil {
		fields = append(fields, "negative_notes_json=?")
		args = append(args, jsonList(patch.NegativeNotes))
	}
	fields = append(fields, "updated_at=?")
	args = append(args, d.stamp())
	args = append(args, id)

	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		return queryErr("performance.update", err)
	}
	defer tx.Rollback()
	res, err := tx.ExecContext(ctx, fmt.Sprintf(`UPDATE clevel_performance SET %s WHERE id=?`, strings.Join(fields, ",")), args...)
	if err != nil {
		return queryErr("performance.update", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if err := d.Log.Append(ctx, tx, "performance.updated", "performance", id, nil); err != nil {
		return queryErr("performance.update", err)
	}
	if err := tx.Commit(); err != nil {
		return queryErr("performance.update", err)
	}
	return nil
}
