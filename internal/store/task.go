// Package store holds the in-memory entity stores that sit between the view
// layer and the remote accessors. Stores are constructed once and passed by
// reference; actions are the only mutation path, and an action never returns
// an error — failures land in the snapshot's Error field while the previous
// collection stays visible.
package store

import (
	"context"
	"sync"
	"time"

	"execboard/internal/domain"
	"execboard/internal/remote"
)

// TaskSnapshot is a copy of the task store state.
type TaskSnapshot struct {
	Tasks        []domain.Task
	Filtered     []domain.Task
	Current      *domain.Task
	IsLoading    bool
	Error        string
	RoleFilter   string
	StatusFilter string
}

type TaskStore struct {
	remote remote.Tasks
	now    func() time.Time

	mu    sync.Mutex
	state TaskSnapshot
	subs  []func()
}

func NewTaskStore(r remote.Tasks) *TaskStore {
	return &TaskStore{remote: r, now: time.Now}
}

// SetClock fixes the store clock, used by tests.
func (s *TaskStore) SetClock(now func() time.Time) { s.now = now }

// Subscribe registers a callback invoked after every state change.
func (s *TaskStore) Subscribe(fn func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (s *TaskStore) Snapshot() TaskSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyState()
}

func (s *TaskStore) copyState() TaskSnapshot {
	st := s.state
	st.Tasks = cloneSlice(s.state.Tasks)
	st.Filtered = cloneSlice(s.state.Filtered)
	if s.state.Current != nil {
		cur := *s.state.Current
		st.Current = &cur
	}
	return st
}

// cloneSlice copies a collection for a snapshot. An empty source yields an
// empty slice, never nil.
func cloneSlice[T any](src []T) []T {
	dst := make([]T, len(src))
	copy(dst, src)
	return dst
}

func (s *TaskStore) notify() {
	s.mu.Lock()
	subs := append([]func(){}, s.subs...)
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

func (s *TaskStore) begin() {
	s.mu.Lock()
	s.state.IsLoading = true
	s.state.Error = ""
	s.mu.Unlock()
	s.notify()
}

func (s *TaskStore) fail(err error, fallback string) {
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

func (s *TaskStore) stamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

// FetchAll overwrites the collection with the remote state. The filtered view
// is reset to the full list regardless of active filters.
func (s *TaskStore) FetchAll(ctx context.Context) {
	s.begin()
	tasks, err := s.remote.ListAll(ctx)
	if err != nil {
		s.fail(err, "failed to load tasks")
		return
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	s.mu.Lock()
	s.state.Tasks = tasks
	s.state.Filtered = cloneSlice(tasks)
	s.state.IsLoading = false
	s.mu.Unlock()
	s.notify()
}

// FetchByID loads one task into Current without touching the collection.
func (s *TaskStore) FetchByID(ctx context.Context, id string) {
	s.begin()
	task, err := s.remote.GetByID(ctx, id)
	if err != nil {
		s.fail(err, "failed to load task")
		return
	}
	s.mu.Lock()
	s.state.Current = &task
	s.state.IsLoading = false
	s.mu.Unlock()
	s.notify()
}

// FetchByRole overwrites the collection with one role's tasks.
func (s *TaskStore) FetchByRole(ctx context.Context, role string) {
	s.begin()
	tasks, err := s.remote.ListByRole(ctx, role)
	if err != nil {
		s.fail(err, "failed to load tasks")
		return
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	s.mu.Lock()
	s.state.Tasks = tasks
	s.state.Filtered = cloneSlice(tasks)
	s.state.IsLoading = false
	s.mu.Unlock()
	s.notify()
}

// Create persists a draft and prepends the result so the newest task leads
// the list without a refetch.
func (s *TaskStore) Create(ctx context.Context, draft remote.TaskDraft) {
	s.begin()
	task, err := s.remote.Create(ctx, draft)
	if err != nil {
		s.fail(err, "failed to create task")
		return
	}
	s.mu.Lock()
	s.state.Tasks = append([]domain.Task{task}, s.state.Tasks...)
	// The new task enters the filtered view unconditionally, even when an
	// active filter would exclude it. The view converges on the next
	// SetFilters or fetch.
	s.state.Filtered = append([]domain.Task{task}, s.state.Filtered...)
	s.state.IsLoading = false
	s.mu.Unlock()
	s.notify()
}

// Update persists a patch, then merges it into the cached task and restamps
// updatedAt locally rather than refetching. The filtered view is patched in
// place: a task edited out of the active filter stays visible.
func (s *TaskStore) Update(ctx context.Context, id string, patch remote.TaskPatch) {
	s.begin()
	if err := s.remote.Update(ctx, id, patch); err != nil {
		s.fail(err, "failed to update task")
		return
	}
	now := s.stamp()
	s.mu.Lock()
	for i := range s.state.Tasks {
		if s.state.Tasks[i].ID == id {
			mergeTask(&s.state.Tasks[i], patch, now)
			break
		}
	}
	for i := range s.state.Filtered {
		if s.state.Filtered[i].ID == id {
			mergeTask(&s.state.Filtered[i], patch, now)
			break
		}
	}
	if s.state.Current != nil && s.state.Current.ID == id {
		mergeTask(s.state.Current, patch, now)
	}
	s.state.IsLoading = false
	s.mu.Unlock()
	s.notify()
}

func mergeTask(task *domain.Task, patch remote.TaskPatch, now string) {
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Role != nil {
		task.Role = *patch.Role
	}
	if patch.Status != nil {
		task.Status = *patch.Status
		if *patch.Status == domain.StatusCompleted && patch.CompletedAt == nil && task.CompletedAt == nil {
			ts := now
			task.CompletedAt = &ts
		}
	}
	if patch.BriefID != nil {
		task.BriefID = patch.BriefID
	}
	if patch.CompletedAt != nil {
		task.CompletedAt = patch.CompletedAt
	}
	task.UpdatedAt = now
}

// Delete removes the task remotely and locally, clearing Current when it
// pointed at the removed task.
func (s *TaskStore) Delete(ctx context.Context, id string) {
	s.begin()
	if err := s.remote.Delete(ctx, id); err != nil {
		s.fail(err, "failed to delete task")
		return
	}
	s.mu.Lock()
	s.state.Tasks = dropTask(s.state.Tasks, id)
	s.state.Filtered = dropTask(s.state.Filtered, id)
	if s.state.Current != nil && s.state.Current.ID == id {
		s.state.Current = nil
	}
	s.state.IsLoading = false
	s.mu.Unlock()
	s.notify()
}

func dropTask(tasks []domain.Task, id string) []domain.Task {
	kept := tasks[:0]
	for _, t := range tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	return kept
}

// Problematic is a passthrough query, not an action; it does not touch the
// snapshot.
func (s *TaskStore) Problematic(ctx context.Context, statuses []string) ([]domain.Task, error) {
	return s.remote.ListProblematic(ctx, statuses)
}

// SetFilters recomputes the filtered view from the cached collection. Empty
// values mean no constraint. No query is issued.
func (s *TaskStore) SetFilters(role, status string) {
	s.mu.Lock()
	s.state.RoleFilter = role
	s.state.StatusFilter = status
	s.applyFiltersLocked()
	s.mu.Unlock()
	s.notify()
}

func (s *TaskStore) ClearFilters() {
	s.SetFilters("", "")
}

func (s *TaskStore) applyFiltersLocked() {
	role, status := s.state.RoleFilter, s.state.StatusFilter
	filtered := make([]domain.Task, 0, len(s.state.Tasks))
	for _, t := range s.state.Tasks {
		if role != "" && t.Role != role {
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		filtered = append(filtered, t)
	}
	s.state.Filtered = filtered
}

func (s *TaskStore) ClearError() {
	s.mu.Lock()
	s.state.Error = ""
	s.mu.Unlock()
	s.notify()
}
