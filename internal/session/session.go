// Package session tracks the signed-in user. The authenticated flag is
// persisted to a small JSON file in the workspace state dir so a restart
// remembers that a session existed; the user record itself is refetched.
package session

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"execboard/internal/domain"
)

// AuthProvider authenticates credentials and resolves the current user.
type AuthProvider interface {
	Login(ctx context.Context, email, password string) (domain.User, error)
	CurrentUser(ctx context.Context, userID string) (domain.User, error)
}

type Snapshot struct {
	User            *domain.User
	IsAuthenticated bool
	IsLoading       bool
	Error           string
}

type persisted struct {
	IsAuthenticated bool   `json:"is_authenticated"`
	UserID          string `json:"user_id,omitempty"`
}

type Store struct {
	provider AuthProvider
	flagPath string

	mu    sync.Mutex
	state Snapshot
	subs  []func()
}

// NewStore loads any persisted flag from flagPath. A missing or corrupt flag
// file starts a signed-out session.
func NewStore(provider AuthProvider, flagPath string) *Store {
	s := &Store{provider: provider, flagPath: flagPath}
	if p, err := readFlag(flagPath); err == nil {
		s.state.IsAuthenticated = p.IsAuthenticated
	}
	return s
}

func readFlag(path string) (persisted, error) {
	var p persisted
	data, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}
	err = json.Unmarshal(data, &p)
	return p, err
}

func (s *Store) writeFlag(p persisted) {
	if s.flagPath == "" {
		return
	}
	data, _ := json.Marshal(p)
	_ = os.MkdirAll(filepath.Dir(s.flagPath), 0o755)
	_ = os.WriteFile(s.flagPath, data, 0o600)
}

func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	if s.state.User != nil {
		u := *s.state.User
		st.User = &u
	}
	return st
}

func (s *Store) notify() {
	s.mu.Lock()
	subs := append([]func(){}, s.subs...)
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

func (s *Store) begin() {
	s.mu.Lock()
	s.state.IsLoading = true
	s.state.Error = ""
	s.mu.Unlock()
	s.notify()
}

func (s *Store) fail(err error, fallback string) {
	msg := fallback
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	s.mu.Lock()
	s.state.Error = msg
	s.state.IsLoading = false
	s.mu.Unlock()
	s.notify()
}

func (s *Store) Login(ctx context.Context, email, password string) {
	s.begin()
	user, err := s.provider.Login(ctx, email, password)
	if err != nil {
		s.fail(err, "login failed")
		return
	}
	s.mu.Lock()
	s.state.User = &user
	s.state.IsAuthenticated = true
	s.state.IsLoading = false
	s.mu.Unlock()
	s.writeFlag(persisted{IsAuthenticated: true, UserID: user.ID})
	s.notify()
}

func (s *Store) Logout() {
	s.mu.Lock()
	s.state.User = nil
	s.state.IsAuthenticated = false
	s.state.Error = ""
	s.mu.Unlock()
	s.writeFlag(persisted{})
	s.notify()
}

// FetchUser reloads the user record for an already-authenticated session.
func (s *Store) FetchUser(ctx context.Context) {
	p, err := readFlag(s.flagPath)
	if err != nil || !p.IsAuthenticated || p.UserID == "" {
		s.Logout()
		return
	}
	s.begin()
	user, err := s.provider.CurrentUser(ctx, p.UserID)
	if err != nil {
		s.fail(err, "failed to load user")
		return
	}
	s.mu.Lock()
	s.state.User = &user
	s.state.IsAuthenticated = true
	s.state.IsLoading = false
	s.mu.Unlock()
	s.notify()
}
