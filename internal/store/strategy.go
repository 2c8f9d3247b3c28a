package store

import (
	"context"
	"sync"

	"execboard/internal/domain"
	"execboard/internal/remote"
)

type StrategySnapshot struct {
	Strategies []domain.Strategy
	Current    *domain.Strategy
	IsLoading  bool
	Error      string
}

type StrategyStore struct {
	remote remote.Strategies

	mu    sync.Mutex
	state StrategySnapshot
	subs  []func()
}

func NewStrategyStore(r remote.Strategies) *StrategyStore {
	return &StrategyStore{remote: r}
}

func (s *StrategyStore) Subscribe(fn func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *StrategyStore) Snapshot() StrategySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Strategies = cloneSlice(s.state.Strategies)
	if s.state.Current != nil {
		cur := *s.state.Current
		st.Current = &cur
	}
	return st
}

func (s *StrategyStore) notify() {
	s.mu.Lock()
	subs := append([]func(){}, s.subs...)
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

func (s *StrategyStore) begin() {
	s.mu.Lock()
	s.state.IsLoading = true
	s.state.Error = ""
	s.mu.Unlock()
	s.notify()
}

func (s *StrategyStore) fail(err error, fallback string) {
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

func (s *StrategyStore) FetchAll(ctx context.Context) {
	s.begin()
	strategies, err := s.remote.ListAll(ctx)
	if err != nil {
		s.fail(err, "failed to load strategies")
		return
	}
	if strategies == nil {
		strategies = []domain.Strategy{}
	}
	s.mu.Lock()
	s.state.Strategies = strategies
	s.state.IsLoading = false
	s.mu.Unlock()
	s.notify()
}

// FetchByRole loads one role's strategy into Current.
func (s *StrategyStore) FetchByRole(ctx context.Context, role string) {
	s.begin()
	st, err := s.remote.GetByRole(ctx, role)
	if err != nil {
		s.fail(err, "failed to load strategy")
		return
	}
	s.mu.Lock()
	s.state.Current = &st
	s.state.IsLoading = false
	s.mu.Unlock()
	s.notify()
}

// Set writes a role's strategy and merges the result into the collection:
// the role's existing entry is replaced in place, a new role appends.
func (s *StrategyStore) Set(ctx context.Context, draft remote.StrategyDraft) {
	s.begin()
	st, err := s.remote.Set(ctx, draft)
	if err != nil {
		s.fail(err, "failed to save strategy")
		return
	}
	s.mu.Lock()
	replaced := false
	for i := range s.state.Strategies {
		if s.state.Strategies[i].Role == st.Role {
			s.state.Strategies[i] = st
			replaced = true
			break
		}
	}
	if !replaced {
		s.state.Strategies = append(s.state.Strategies, st)
	}
	if s.state.Current != nil && s.state.Current.Role == st.Role {
		s.state.Current = &st
	}
	s.state.IsLoading = false
	s.mu.Unlock()
	s.notify()
}

func (s *StrategyStore) ClearError() {
	s.mu.Lock()
	s.state.Error = ""
	s.mu.Unlock()
	s.notify()
}
