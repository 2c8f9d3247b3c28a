package store

import (
	"context"
	"sync"

	"execboard/internal/remote"
)

// Notifier delivers a plain-text message to the linked channel.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

type TelegramSnapshot struct {
	IsLinked   bool
	TelegramID *string
	IsLoading  bool
	Error      string
}

// TelegramStore tracks the user's notification channel link.
type TelegramStore struct {
	users    remote.Users
	notifier Notifier

	mu    sync.Mutex
	state TelegramSnapshot
	subs  []func()
}

func NewTelegramStore(users remote.Users, notifier Notifier) *TelegramStore {
	return &TelegramStore{users: users, notifier: notifier}
}

func (s *TelegramStore) Subscribe(fn func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *TelegramStore) Snapshot() TelegramSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	if s.state.TelegramID != nil {
		id := *s.state.TelegramID
		st.TelegramID = &id
	}
	return st
}

func (s *TelegramStore) notify() {
	s.mu.Lock()
	subs := append([]func(){}, s.subs...)
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

func (s *TelegramStore) begin() {
	s.mu.Lock()
	s.state.IsLoading = true
	s.state.Error = ""
	s.mu.Unlock()
	s.notify()
}

func (s *TelegramStore) fail(err error, fallback string) {
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

// Refresh loads the link state from the user record.
func (s *TelegramStore) Refresh(ctx context.Context, userID string) {
	s.begin()
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.fail(err, "failed to load telegram link")
		return
	}
	s.mu.Lock()
	s.state.TelegramID = user.TelegramID
	s.state.IsLinked = user.TelegramID != nil
	s.state.IsLoading = false
	s.mu.Unlock()
	s.notify()
}

func (s *TelegramStore) Link(ctx context.Context, userID, telegramID string) {
	s.begin()
	if err := s.users.LinkTelegram(ctx, userID, telegramID); err != nil {
		s.fail(err, "failed to link telegram")
		return
	}
	s.mu.Lock()
	id := telegramID
	s.state.TelegramID = &id
	s.state.IsLinked = true
	s.state.IsLoading = false
	s.mu.Unlock()
	s.notify()
}

func (s *TelegramStore) Unlink(ctx context.Context, userID string) {
	s.begin()
	if err := s.users.UnlinkTelegram(ctx, userID); err != nil {
		s.fail(err, "failed to unlink telegram")
		return
	}
	s.mu.Lock()
	s.state.TelegramID = nil
	s.state.IsLinked = false
	s.state.IsLoading = false
	s.mu.Unlock()
	s.notify()
}

// SendTest pushes a test message through the notifier.
func (s *TelegramStore) SendTest(ctx context.Context) {
	s.begin()
	if s.notifier == nil {
		s.fail(nil, "no notifier configured")
		return
	}
	if err := s.notifier.Send(ctx, "execboard test notification"); err != nil {
		s.fail(err, "failed to send test message")
		return
	}
	s.mu.Lock()
	s.state.IsLoading = false
	s.mu.Unlock()
	s.notify()
}

func (s *TelegramStore) ClearError() {
	s.mu.Lock()
	s.state.Error = ""
	s.mu.Unlock()
	s.notify()
}
