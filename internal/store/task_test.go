package store_test

import (
	"testing"
	"time"

	"pgregory.net/rapid"

	"execboard/internal/domain"
	"execboard/internal/remote"
	"execboard/internal/store"
)

func seedTask(t *testing.T, env storeEnv, title, role, status string) domain.Task {
	t.Helper()
	task, err := env.Remote.Tasks.Create(env.Ctx, remote.TaskDraft{Title: title, Role: role, Status: status})
	if err != nil {
		t.Fatalf("seed task %q: %v", title, err)
	}
	env.advance(time.Second)
	return task
}

func TestTaskStoreFetchAllResetsFilteredView(t *testing.T) {
	env := newStoreEnv(t)
	seedTask(t, env, "a", domain.RoleCEO, domain.StatusPending)
	seedTask(t, env, "b", domain.RoleCTO, domain.StatusFailed)

	s := store.NewTaskStore(env.Remote.Tasks)
	s.SetFilters(domain.RoleCEO, "")
	s.FetchAll(env.Ctx)

	snap := s.Snapshot()
	if snap.Error != "" || snap.IsLoading {
		t.Fatalf("snapshot flags: %+v", snap)
	}
	if len(snap.Tasks) != 2 {
		t.Fatalf("tasks = %d", len(snap.Tasks))
	}
	// the fetch resets the filtered view to the full list even though a
	// role filter is set
	if len(snap.Filtered) != 2 {
		t.Fatalf("filtered = %d, want full list after fetch", len(snap.Filtered))
	}
	if snap.RoleFilter != domain.RoleCEO {
		t.Fatalf("filter value lost: %q", snap.RoleFilter)
	}
}

func TestTaskStoreCreatePrepends(t *testing.T) {
	env := newStoreEnv(t)
	seedTask(t, env, "existing", domain.RoleCEO, domain.StatusPending)

	s := store.NewTaskStore(env.Remote.Tasks)
	s.FetchAll(env.Ctx)
	s.Create(env.Ctx, remote.TaskDraft{Title: "brand new", Role: domain.RoleCFO})

	snap := s.Snapshot()
	if len(snap.Tasks) != 2 {
		t.Fatalf("tasks = %d", len(snap.Tasks))
	}
	if snap.Tasks[0].Title != "brand new" {
		t.Fatalf("tasks[0] = %q, want the created task first", snap.Tasks[0].Title)
	}
}

func TestTaskStoreCreateEntersFilteredView(t *testing.T) {
	env := newStoreEnv(t)
	seedTask(t, env, "ceo work", domain.RoleCEO, domain.StatusPending)

	s := store.NewTaskStore(env.Remote.Tasks)
	s.FetchAll(env.Ctx)
	s.SetFilters(domain.RoleCEO, "")
	s.Create(env.Ctx, remote.TaskDraft{Title: "cfo work", Role: domain.RoleCFO})

	snap := s.Snapshot()
	if snap.Error != "" {
		t.Fatalf("error = %q", snap.Error)
	}
	// the created task leads the filtered view even though the active CEO
	// filter would exclude it
	if len(snap.Filtered) != 2 || snap.Filtered[0].Title != "cfo work" {
		t.Fatalf("filtered = %+v, want created task first", snap.Filtered)
	}
	if snap.Tasks[0].Title != "cfo work" {
		t.Fatalf("tasks[0] = %q", snap.Tasks[0].Title)
	}
}

func TestTaskStoreUpdateKeepsTaskInFilteredView(t *testing.T) {
	env := newStoreEnv(t)
	task := seedTask(t, env, "slipping", domain.RoleCOO, domain.StatusPending)

	s := store.NewTaskStore(env.Remote.Tasks)
	s.FetchAll(env.Ctx)
	s.SetFilters("", domain.StatusPending)

	failed := domain.StatusFailed
	s.Update(env.Ctx, task.ID, remote.TaskPatch{Status: &failed})

	snap := s.Snapshot()
	if snap.Error != "" {
		t.Fatalf("error = %q", snap.Error)
	}
	// the row is patched in place, so it stays visible with its new status
	// even though it no longer matches the pending filter
	if len(snap.Filtered) != 1 || snap.Filtered[0].Status != domain.StatusFailed {
		t.Fatalf("filtered = %+v, want the updated row kept", snap.Filtered)
	}

	// re-applying the filter drops it
	s.SetFilters("", domain.StatusPending)
	if got := s.Snapshot(); len(got.Filtered) != 0 {
		t.Fatalf("filtered = %d after refilter, want 0", len(got.Filtered))
	}
}

func TestTaskStoreEmptyFetchYieldsEmptySlices(t *testing.T) {
	env := newStoreEnv(t)

	s := store.NewTaskStore(env.Remote.Tasks)
	s.FetchAll(env.Ctx)

	snap := s.Snapshot()
	if snap.Tasks == nil || snap.Filtered == nil {
		t.Fatalf("snapshot slices nil: %+v", snap)
	}
	if len(snap.Tasks) != 0 || len(snap.Filtered) != 0 {
		t.Fatalf("tasks = %d, filtered = %d", len(snap.Tasks), len(snap.Filtered))
	}
}

func TestTaskStoreUpdateMergesLocally(t *testing.T) {
	env := newStoreEnv(t)
	task := seedTask(t, env, "ship", domain.RoleCTO, domain.StatusPending)

	s := store.NewTaskStore(env.Remote.Tasks)
	merged := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return merged })
	s.FetchAll(env.Ctx)
	s.FetchByID(env.Ctx, task.ID)

	completed := domain.StatusCompleted
	s.Update(env.Ctx, task.ID, remote.TaskPatch{Status: &completed})

	snap := s.Snapshot()
	if snap.Error != "" {
		t.Fatalf("error = %q", snap.Error)
	}
	got := snap.Tasks[0]
	if got.Status != domain.StatusCompleted {
		t.Fatalf("status = %q", got.Status)
	}
	if got.UpdatedAt != "2026-02-01T00:00:00Z" {
		t.Fatalf("updated_at = %q, want local restamp", got.UpdatedAt)
	}
	if got.CompletedAt == nil || *got.CompletedAt != "2026-02-01T00:00:00Z" {
		t.Fatalf("completed_at = %v", got.CompletedAt)
	}
	if snap.Current == nil || snap.Current.Status != domain.StatusCompleted {
		t.Fatalf("current not merged: %+v", snap.Current)
	}
}

func TestTaskStoreDeleteClearsCurrent(t *testing.T) {
	env := newStoreEnv(t)
	task := seedTask(t, env, "doomed", domain.RoleCOO, domain.StatusPending)

	s := store.NewTaskStore(env.Remote.Tasks)
	s.FetchAll(env.Ctx)
	s.FetchByID(env.Ctx, task.ID)
	s.Delete(env.Ctx, task.ID)

	snap := s.Snapshot()
	if len(snap.Tasks) != 0 {
		t.Fatalf("tasks = %d", len(snap.Tasks))
	}
	if snap.Current != nil {
		t.Fatalf("current = %+v, want nil", snap.Current)
	}
}

func TestTaskStoreFailedActionKeepsCollection(t *testing.T) {
	env := newStoreEnv(t)
	seedTask(t, env, "kept", domain.RoleCEO, domain.StatusPending)

	s := store.NewTaskStore(env.Remote.Tasks)
	s.FetchAll(env.Ctx)

	title := "renamed"
	s.Update(env.Ctx, "no-such-id", remote.TaskPatch{Title: &title})

	snap := s.Snapshot()
	if snap.Error == "" {
		t.Fatal("expected error in snapshot")
	}
	if snap.IsLoading {
		t.Fatal("loading flag stuck")
	}
	if len(snap.Tasks) != 1 || snap.Tasks[0].Title != "kept" {
		t.Fatalf("collection lost: %+v", snap.Tasks)
	}

	s.ClearError()
	if snap := s.Snapshot(); snap.Error != "" {
		t.Fatalf("error not cleared: %q", snap.Error)
	}
}

func TestTaskStoreFetchAllFailureKeepsPriorState(t *testing.T) {
	env := newStoreEnv(t)
	seedTask(t, env, "kept", domain.RoleCEO, domain.StatusPending)

	s := store.NewTaskStore(env.Remote.Tasks)
	s.FetchAll(env.Ctx)

	env.DB.Close()
	s.FetchAll(env.Ctx)

	snap := s.Snapshot()
	if snap.Error == "" || snap.IsLoading {
		t.Fatalf("snapshot flags: %+v", snap)
	}
	if len(snap.Tasks) != 1 || snap.Tasks[0].Title != "kept" {
		t.Fatalf("pre-call collection lost: %+v", snap.Tasks)
	}
}

func TestTaskStoreNotifiesSubscribers(t *testing.T) {
	env := newStoreEnv(t)
	seedTask(t, env, "a", domain.RoleCEO, domain.StatusPending)

	s := store.NewTaskStore(env.Remote.Tasks)
	var calls int
	s.Subscribe(func() { calls++ })
	s.FetchAll(env.Ctx)
	// begin and the final merge both notify
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestTaskStoreFilterLaws(t *testing.T) {
	env := newStoreEnv(t)
	statuses := []string{domain.StatusPending, domain.StatusInProgress, domain.StatusCompleted, domain.StatusFailed}
	for i, role := range domain.Roles {
		seedTask(t, env, role+" work", role, statuses[i%len(statuses)])
		seedTask(t, env, role+" more", role, statuses[(i+1)%len(statuses)])
	}

	s := store.NewTaskStore(env.Remote.Tasks)
	s.FetchAll(env.Ctx)
	total := len(s.Snapshot().Tasks)

	rapid.Check(t, func(rt *rapid.T) {
		role := rapid.SampledFrom(append([]string{""}, domain.Roles...)).Draw(rt, "role")
		status := rapid.SampledFrom(append([]string{""}, statuses...)).Draw(rt, "status")

		s.SetFilters(role, status)
		snap := s.Snapshot()

		want := 0
		for _, task := range snap.Tasks {
			if (role == "" || task.Role == role) && (status == "" || task.Status == status) {
				want++
			}
		}
		if len(snap.Filtered) != want {
			rt.Fatalf("filtered = %d, want %d (role=%q status=%q)", len(snap.Filtered), want, role, status)
		}
		for _, task := range snap.Filtered {
			if role != "" && task.Role != role {
				rt.Fatalf("task %q escaped role filter %q", task.ID, role)
			}
			if status != "" && task.Status != status {
				rt.Fatalf("task %q escaped status filter %q", task.ID, status)
			}
		}

		s.ClearFilters()
		if got := len(s.Snapshot().Filtered); got != total {
			rt.Fatalf("clear filters left %d of %d tasks", got, total)
		}
	})
}

func TestTaskStoreProblematicIsPassthrough(t *testing.T) {
	env := newStoreEnv(t)
	seedTask(t, env, "broken", domain.RoleCMO, domain.StatusFailed)

	s := store.NewTaskStore(env.Remote.Tasks)
	tasks, err := s.Problematic(env.Ctx, []string{domain.StatusFailed})
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 {
		t.Fatalf("len = %d", len(tasks))
	}
	// queries leave the snapshot untouched
	if snap := s.Snapshot(); len(snap.Tasks) != 0 || snap.IsLoading {
		t.Fatalf("snapshot mutated: %+v", snap)
	}
}
