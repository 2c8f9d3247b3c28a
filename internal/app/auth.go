package app

import (
	"context"
	"errors"
	"strings"

	"execboard/internal/domain"
	"execboard/internal/remote"
)

// LocalAuth resolves users straight from the local database. There is no
// password store in local mode; the first login for an email creates the
// user, mirroring how a fresh workspace seeds its actor.
type LocalAuth struct {
	Users remote.Users
}

func (a LocalAuth) Login(ctx context.Context, email, _ string) (domain.User, error) {
	user, err := a.Users.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, remote.ErrNotFound) {
		return domain.User{}, err
	}
	name := email
	if i := strings.IndexByte(email, '@'); i > 0 {
		name = email[:i]
	}
	return a.Users.Create(ctx, remote.UserDraft{Name: name, Email: email})
}

func (a LocalAuth) CurrentUser(ctx context.Context, userID string) (domain.User, error) {
	return a.Users.GetByID(ctx, userID)
}
