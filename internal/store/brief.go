package store

import (
	"context"
	"sync"

	"execboard/internal/domain"
	"execboard/internal/remote"
)

type BriefSnapshot struct {
	Briefs    []domain.Brief
	Current   *domain.Brief
	IsLoading bool
	Error     string
}

type BriefStore struct {
	remote remote.Briefs

	mu    sync.Mutex
	state BriefSnapshot
	subs  []func()
}

func NewBriefStore(r remote.Briefs) *BriefStore {
	return &BriefStore{remote: r}
}

func (s *BriefStore) Subscribe(fn func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *BriefStore) Snapshot() BriefSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Briefs = cloneSlice(s.state.Briefs)
	if s.state.Current != nil {
		cur := *s.state.Current
		st.Current = &cur
	}
	return st
}

func (s *BriefStore) notify() {
	s.mu.Lock()
	subs := append([]func(){}, s.subs...)
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

func (s *BriefStore) begin() {
	s.mu.Lock()
	s.state.IsLoading = true
	s.state.Error = ""
	s.mu.Unlock()
	s.notify()
}

func (s *BriefStore) fail(err error, fallback string) {
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

func (s *BriefStore) FetchAll(ctx context.Context) {
	s.begin()
	briefs, err := s.remote.ListAll(ctx)
	if err != nil {
		s.fail(err, "failed to load briefs")
		return
	}
	if briefs == nil {
		briefs = []domain.Brief{}
	}
	s.mu.Lock()
	s.state.Briefs = briefs
	s.state.IsLoading = false
	s.mu.Unlock()
	s.notify()
}

// FetchLatest overwrites the collection with the n most recent briefs.
func (s *BriefStore) FetchLatest(ctx context.Context, n int) {
	s.begin()
	briefs, err := s.remote.Latest(ctx, n)
	if err != nil {
		s.fail(err, "failed to load briefs")
		return
	}
	if briefs == nil {
		briefs = []domain.Brief{}
	}
	s.mu.Lock()
	s.state.Briefs = briefs
	s.state.IsLoading = false
	s.mu.Unlock()
	s.notify()
}

func (s *BriefStore) FetchByID(ctx context.Context, id string) {
	s.begin()
	brief, err := s.remote.GetByID(ctx, id)
	if err != nil {
		s.fail(err, "failed to load brief")
		return
	}
	s.mu.Lock()
	s.state.Current = &brief
	s.state.IsLoading = false
	s.mu.Unlock()
	s.notify()
}

// FetchByTask loads the first brief linked to a task into Current.
func (s *BriefStore) FetchByTask(ctx context.Context, taskID string) {
	s.begin()
	brief, err := s.remote.GetByTask(ctx, taskID)
	if err != nil {
		s.fail(err, "failed to load brief")
		return
	}
	s.mu.Lock()
	s.state.Current = &brief
	s.state.IsLoading = false
	s.mu.Unlock()
	s.notify()
}

// Create persists a draft and appends the result. Briefs append where tasks
// prepend; the asymmetry is long-standing and callers rely on neither.
func (s *BriefStore) Create(ctx context.Context, draft remote.BriefDraft) {
	s.begin()
	brief, err := s.remote.Create(ctx, draft)
	if err != nil {
		s.fail(err, "failed to create brief")
		return
	}
	s.mu.Lock()
	s.state.Briefs = append(s.state.Briefs, brief)
	s.state.IsLoading = false
	s.mu.Unlock()
	s.notify()
}

func (s *BriefStore) Update(ctx context.Context, id string, patch remote.BriefPatch) {
	s.begin()
	if err := s.remote.Update(ctx, id, patch); err != nil {
		s.fail(err, "failed to update brief")
		return
	}
	s.mu.Lock()
	for i := range s.state.Briefs {
		if s.state.Briefs[i].ID == id {
			mergeBrief(&s.state.Briefs[i], patch)
			break
		}
	}
	if s.state.Current != nil && s.state.Current.ID == id {
		mergeBrief(s.state.Current, patch)
	}
	s.state.IsLoading = false
	s.mu.Unlock()
	s.notify()
}

func mergeBrief(brief *domain.Brief, patch remote.BriefPatch) {
	if patch.Content != nil {
		brief.Content = *patch.Content
	}
	if patch.Recommendations != nil {
		brief.Recommendations = patch.Recommendations
	}
}

func (s *BriefStore) Delete(ctx context.Context, id string) {
	s.begin()
	if err := s.remote.Delete(ctx, id); err != nil {
		s.fail(err, "failed to delete brief")
		return
	}
	s.mu.Lock()
	kept := s.state.Briefs[:0]
	for _, b := range s.state.Briefs {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	s.state.Briefs = kept
	if s.state.Current != nil && s.state.Current.ID == id {
		s.state.Current = nil
	}
	s.state.IsLoading = false
	s.mu.Unlock()
	s.notify()
}

func (s *BriefStore) ClearError() {
	s.mu.Lock()
	s.state.Error = ""
	s.mu.Unlock()
	s.notify()
}
