package session_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"execboard/internal/domain"
	"execboard/internal/session"
)

type fakeAuth struct {
	users    map[string]domain.User
	loginErr error
}

func (f *fakeAuth) Login(_ context.Context, email, _ string) (domain.User, error) {
	if f.loginErr != nil {
		return domain.User{}, f.loginErr
	}
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, errors.New("no such user")
}

func (f *fakeAuth) CurrentUser(_ context.Context, userID string) (domain.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return domain.User{}, errors.New("no such user")
	}
	return u, nil
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{users: map[string]domain.User{
		"u1": {ID: "u1", Name: "Jo", Email: "jo@example.com"},
	}}
}

func TestLoginPersistsFlag(t *testing.T) {
	flag := filepath.Join(t.TempDir(), "session.json")
	auth := newFakeAuth()
	ctx := context.Background()

	s := session.NewStore(auth, flag)
	if s.Snapshot().IsAuthenticated {
		t.Fatal("fresh store must start signed out")
	}

	s.Login(ctx, "jo@example.com", "pw")
	snap := s.Snapshot()
	if !snap.IsAuthenticated || snap.User == nil || snap.User.ID != "u1" {
		t.Fatalf("login state: %+v", snap)
	}

	// a second store over the same flag file starts authenticated
	restarted := session.NewStore(auth, flag)
	if !restarted.Snapshot().IsAuthenticated {
		t.Fatal("flag file not honored on restart")
	}

	restarted.FetchUser(ctx)
	snap = restarted.Snapshot()
	if snap.User == nil || snap.User.Email != "jo@example.com" {
		t.Fatalf("fetch user: %+v", snap)
	}
}

func TestLoginFailureSetsError(t *testing.T) {
	flag := filepath.Join(t.TempDir(), "session.json")
	auth := newFakeAuth()
	auth.loginErr = errors.New("invalid credentials")

	s := session.NewStore(auth, flag)
	s.Login(context.Background(), "jo@example.com", "bad")
	snap := s.Snapshot()
	if snap.IsAuthenticated || snap.Error != "invalid credentials" {
		t.Fatalf("state: %+v", snap)
	}
	if _, err := os.Stat(flag); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("failed login must not write the flag file")
	}
}

func TestLogoutClearsFlag(t *testing.T) {
	flag := filepath.Join(t.TempDir(), "session.json")
	auth := newFakeAuth()
	ctx := context.Background()

	s := session.NewStore(auth, flag)
	s.Login(ctx, "jo@example.com", "pw")
	s.Logout()

	snap := s.Snapshot()
	if snap.IsAuthenticated || snap.User != nil {
		t.Fatalf("state after logout: %+v", snap)
	}
	if session.NewStore(auth, flag).Snapshot().IsAuthenticated {
		t.Fatal("logout must clear the persisted flag")
	}
}

func TestFetchUserWithCorruptFlagSignsOut(t *testing.T) {
	flag := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(flag, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	s := session.NewStore(newFakeAuth(), flag)
	s.FetchUser(context.Background())
	snap := s.Snapshot()
	if snap.IsAuthenticated || snap.User != nil || snap.Error != "" {
		t.Fatalf("state: %+v", snap)
	}
}
