package remote

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"execboard/internal/activity"
	"execboard/internal/domain"
)

type Users struct {
	base
}

type UserDraft struct {
	Name  string
	Email string
	Role  string
}

func (u Users) scan(scan func(dest ...any) error) (domain.User, error) {
	var user domain.User
	var telegramID, prefs sql.NullString
	err := scan(&user.ID, &user.Name, &user.Email, &user.Role, &telegramID, &prefs)
	if err != nil {
		return user, err
	}
	user.TelegramID = optionalString(telegramID)
	if prefs.Valid && prefs.String != "" {
		var p domain.UserPreferences
		if err := json.Unmarshal([]byte(prefs.String), &p); err == nil {
			user.Preferences = &p
		}
	}
	return user, nil
}

const userColumns = `id,name,email,role,telegram_id,preferences_json`

func (u Users) GetByID(ctx context.Context, id string) (domain.User, error) {
	user, err := u.scan(u.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id=?`, id).Scan)
	if err == sql.ErrNoRows {
		return domain.User{}, ErrNotFound
	}
	if err != nil {
		return domain.User{}, queryErr("users.get", err)
	}
	return user, nil
}

func (u Users) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	user, err := u.scan(u.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email=?`, email).Scan)
	if err == sql.ErrNoRows {
		return domain.User{}, ErrNotFound
	}
	if err != nil {
		return domain.User{}, queryErr("users.get_by_email", err)
	}
	return user, nil
}

func (u Users) Create(ctx context.Context, draft UserDraft) (domain.User, error) {
	user := domain.User{
		ID:    uuid.NewString(),
		Name:  draft.Name,
		Email: draft.Email,
		Role:  draft.Role,
	}
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.User{}, queryErr("users.create", err)
	}
	defer tx.Rollback()
	_, err = tx.ExecContext(ctx, `INSERT INTO users(id,name,email,role) VALUES (?,?,?,?)`,
		user.ID, user.Name, user.Email, user.Role)
	if err != nil {
		return domain.User{}, queryErr("users.create", err)
	}
	err = u.Log.Append(ctx, tx, "user.created", "user", user.ID, activity.Payload{"email": user.Email})
	if err != nil {
		return domain.User{}, queryErr("users.create", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.User{}, queryErr("users.create", err)
	}
	return user, nil
}

func (u Users) UpdatePreferences(ctx context.Context, id string, prefs domain.UserPreferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	res, err := u.DB.ExecContext(ctx, `UPDATE users SET preferences_json=? WHERE id=?`, string(data), id)
	if err != nil {
		return queryErr("users.update_preferences", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// LinkTelegram attaches a telegram chat id to the user.
func (u Users) LinkTelegram(ctx context.Context, id, telegramID string) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return queryErr("users.link_telegram", err)
	}
	defer tx.Rollback()
	res, err := tx.ExecContext(ctx, `UPDATE users SET telegram_id=? WHERE id=?`, nullable(telegramID), id)
	if err != nil {
		return queryErr("users.link_telegram", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	entryType := "telegram.linked"
	if telegramID == "" {
		entryType = "telegram.unlinked"
	}
	if err := u.Log.Append(ctx, tx, entryType, "user", id, nil); err != nil {
		return queryErr("users.link_telegram", err)
	}
	if err := tx.Commit(); err != nil {
		return queryErr("users.link_telegram", err)
	}
	return nil
}

func (u Users) UnlinkTelegram(ctx context.Context, id string) error {
	return u.LinkTelegram(ctx, id, "")
}
