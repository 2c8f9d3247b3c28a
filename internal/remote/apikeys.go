package remote

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"

	"github.com/google/uuid"

	"execboard/internal/domain"
)

type APIKeys struct {
	base
}

// HashKey returns the stored form of a raw API key.
func HashKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Create mints a new API key for a user and returns the raw secret once; only
// its hash is stored.
func (k APIKeys) Create(ctx context.Context, userID, name string) (domain.APIKey, string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return domain.APIKey{}, "", err
	}
	raw := "xb_" + hex.EncodeToString(buf)
	key := domain.APIKey{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		KeyHash:   HashKey(raw),
		CreatedAt: k.stamp(),
	}
	_, err := k.DB.ExecContext(ctx, `INSERT INTO api_keys(id,user_id,name,key_hash,created_at) VALUES (?,?,?,?,?)`,
		key.ID, key.UserID, key.Name, key.KeyHash, key.CreatedAt)
	if err != nil {
		return domain.APIKey{}, "", queryErr("apikeys.create", err)
	}
	return key, raw, nil
}

// FindByRawKey resolves a presented key to its record.
func (k APIKeys) FindByRawKey(ctx context.Context, raw string) (domain.APIKey, error) {
	var key domain.APIKey
	err := k.DB.QueryRowContext(ctx, `SELECT id,user_id,name,key_hash,created_at FROM api_keys WHERE key_hash=?`, HashKey(raw)).
		Scan(&key.ID, &key.UserID, &key.Name, &key.KeyHash, &key.CreatedAt)
	if err == sql.ErrNoRows {
		return domain.APIKey{}, ErrNotFound
	}
	if err != nil {
		return domain.APIKey{}, queryErr("apikeys.find", err)
	}
	return key, nil
}

func (k APIKeys) ListByUser(ctx context.Context, userID string) ([]domain.APIKey, error) {
	rows, err := k.DB.QueryContext(ctx, `SELECT id,user_id,name,key_hash,created_at FROM api_keys WHERE user_id=? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, queryErr("apikeys.list", err)
	}
	defer rows.Close()
	var res []domain.APIKey
	for rows.Next() {
		var key domain.APIKey
		if err := rows.Scan(&key.ID, &key.UserID, &key.Name, &key.KeyHash, &key.CreatedAt); err != nil {
			return nil, queryErr("apikeys.list", err)
		}
		res = append(res, key)
	}
	return res, rows.Err()
}

func (k APIKeys) Delete(ctx context.Context, id string) error {
	res, err := k.DB.ExecContext(ctx, `DELETE FROM api_keys WHERE id=?`, id)
	if err != nil {
		return queryErr("apikeys.delete", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
