package remote

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"execboard/internal/activity"
	"execboard/internal/domain"
)

type Strategies struct {
	base
}

// StrategyDraft carries the full desired state for one role's strategy.
// Set resolves the role to an existing row first, so at most one row per role
// is written through this path.
type StrategyDraft struct {
	Role        string
	Title       string
	Description string
	Objectives  []string
	KPIs        []string
}

const strategyColumns = `id,role,title,description,objectives_json,kpis_json,updated_at`

func (s Strategies) scan(scan func(dest ...any) error) (domain.Strategy, error) {
	var st domain.Strategy
	var objectives, kpis string
	var updatedAt sql.NullString
	err := scan(&st.ID, &st.Role, &st.Title, &st.Description, &objectives, &kpis, &updatedAt)
	if err != nil {
		return st, err
	}
	st.Objectives = stringList(objectives)
	st.KPIs = stringList(kpis)
	st.UpdatedAt = updatedAt.String
	if !updatedAt.Valid || updatedAt.String == "" {
		st.UpdatedAt = s.stamp()
	}
	return st, nil
}

// ListAll returns every strategy, most recently updated first.
func (s Strategies) ListAll(ctx context.Context) ([]domain.Strategy, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT `+strategyColumns+` FROM strategies ORDER BY updated_at DESC`)
	if err != nil {
		return nil, queryErr("strategies.list", err)
	}
	defer rows.Close()
	var res []domain.Strategy
	for rows.Next() {
		st, err := s.scan(rows.Scan)
		if err != nil {
			return nil, queryErr("strategies.list", err)
		}
		res = append(res, st)
	}
	if err := rows.Err(); err != nil {
		return nil, queryErr("strategies.list", err)
	}
	return res, nil
}

func (s Strategies) GetByID(ctx context.Context, id string) (domain.Strategy, error) {
	st, err := s.scan(s.DB.QueryRowContext(ctx, `SELECT `+strategyColumns+` FROM strategies WHERE id=?`, id).Scan)
	if err == sql.ErrNoRows {
		return domain.Strategy{}, ErrNotFound
	}
	if err != nil {
		return domain.Strategy{}, queryErr("strategies.get", err)
	}
	return st, nil
}

// GetByRole returns the first strategy for a role. First match wins.
func (s Strategies) GetByRole(ctx context.Context, role string) (domain.Strategy, error) {
	st, err := s.scan(s.DB.QueryRowContext(ctx,
		`SELECT `+strategyColumns+` FROM strategies WHERE role=? ORDER BY updated_at DESC LIMIT 1`, role).Scan)
	if err == sql.ErrNoRows {
		return domain.Strategy{}, ErrNotFound
	}
	if err != nil {
		return domain.Strategy{}, queryErr("strategies.get_by_role", err)
	}
	return st, nil
}

// Set writes a role's strategy: insert when the role has none, replace the
// first existing one otherwise.
func (s Strategies) Set(ctx context.Context, draft StrategyDraft) (domain.Strategy, error) {
	if !domain.ValidRole(draft.Role) {
		return domain.Strategy{}, fmt.Errorf("unknown role %q", draft.Role)
	}
	existing, err := s.GetByRole(ctx, draft.Role)
	if err != nil && err != ErrNotFound {
		return domain.Strategy{}, err
	}
	st := domain.Strategy{
		ID:          existing.ID,
		Role:        draft.Role,
		Title:       draft.Title,
		Description: draft.Description,
		Objectives:  draft.Objectives,
		KPIs:        draft.KPIs,
		UpdatedAt:   s.stamp(),
	}
	if st.Objectives == nil {
		st.Objectives = []string{}
	}
	if st.KPIs == nil {
		st.KPIs = []string{}
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Strategy{}, queryErr("strategies.set", err)
	}
	defer tx.Rollback()
	if st.ID == "" {
		st.ID = uuid.NewString()
		_, err = tx.ExecContext(ctx, `INSERT INTO strategies(id,role,title,description,objectives_json,kpis_json,updated_at) VALUES (?,?,?,?,?,?,?)`,
			st.ID, st.Role, st.Title, st.Description, jsonList(st.Objectives), jsonList(st.KPIs), st.UpdatedAt)
	} else {
		_, err = tx.ExecContext(ctx, `UPDATE strategies SET title=?,description=?,objectives_json=?,kpis_json=?,updated_at=? WHERE id=?`,
			st.Title, st.Description, jsonList(st.Objectives), jsonList(st.KPIs), st.UpdatedAt, st.ID)
	}
	if err != nil {
		return domain.Strategy{}, queryErr("strategies.set", err)
	}
	err = s.Log.Append(ctx, tx, "strategy.set", "strategy", st.ID, activity.Payload{"role": st.Role})
	if err != nil {
		return domain.Strategy{}, queryErr("strategies.set", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.Strategy{}, queryErr("strategies.set", err)
	}
	return st, nil
}

func (s Strategies) Delete(ctx context.Context, id string) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return queryErr("strategies.delete", err)
	}
	defer tx.Rollback()
	res, err := tx.ExecContext(ctx, `DELETE FROM strategies WHERE id=?`, id)
	if err != nil {
		return queryErr("strategies.delete", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if err := s.Log.Append(ctx, tx, "strategy.deleted", "strategy", id, nil); err != nil {
		return queryErr("strategies.delete", err)
	}
	if err := tx.Commit(); err != nil {
		return queryErr("strategies.delete", err)
	}
	return nil
}
