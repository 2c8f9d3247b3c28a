package remote_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"execboard/internal/activity"
	"execboard/internal/db"
	"execboard/internal/domain"
	"execboard/internal/migrate"
	"execboard/internal/remote"
)

type testEnv struct {
	Remote *remote.Remote
	Ctx    context.Context
	now    *time.Time
}

// advance moves the injected clock forward so ordering tests get distinct
// timestamps.
func (e testEnv) advance(d time.Duration) {
	*e.now = e.now.Add(d)
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	conn, err := db.Open(db.Config{Workspace: dir})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r := remote.NewWithClock(conn, func() time.Time { return now })
	return testEnv{Remote: r, Ctx: context.Background(), now: &now}
}

func TestTaskCreateAndGet(t *testing.T) {
	env := newTestEnv(t)
	task, err := env.Remote.Tasks.Create(env.Ctx, remote.TaskDraft{
		Title: "Hire a VP of Sales", Role: domain.RoleCHRO,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.ID == "" {
		t.Fatal("expected generated id")
	}
	if task.Status != domain.StatusPending {
		t.Fatalf("default status = %q, want pending", task.Status)
	}
	if task.CreatedAt != "2026-01-01T00:00:00Z" || task.UpdatedAt != task.CreatedAt {
		t.Fatalf("stamps = %q / %q", task.CreatedAt, task.UpdatedAt)
	}
	got, err := env.Remote.Tasks.GetByID(env.Ctx, task.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != task.Title || got.Role != task.Role {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestTaskCreateRejectsUnknownRole(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.Remote.Tasks.Create(env.Ctx, remote.TaskDraft{Title: "x", Role: "CIO"}); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestTaskGetByIDNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.Remote.Tasks.GetByID(env.Ctx, "missing")
	if !errors.Is(err, remote.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestTaskListAllNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	for _, title := range []string{"first", "second", "third"} {
		if _, err := env.Remote.Tasks.Create(env.Ctx, remote.TaskDraft{Title: title, Role: domain.RoleCEO}); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
		env.advance(time.Minute)
	}
	tasks, err := env.Remote.Tasks.ListAll(env.Ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("len = %d", len(tasks))
	}
	if tasks[0].Title != "third" || tasks[2].Title != "first" {
		t.Fatalf("order = %s,%s,%s", tasks[0].Title, tasks[1].Title, tasks[2].Title)
	}
}

func TestTaskUpdateStampsCompletedAt(t *testing.T) {
	env := newTestEnv(t)
	task, err := env.Remote.Tasks.Create(env.Ctx, remote.TaskDraft{Title: "ship it", Role: domain.RoleCTO})
	if err != nil {
		t.Fatal(err)
	}

	env.advance(time.Hour)
	failed := domain.StatusFailed
	if err := env.Remote.Tasks.Update(env.Ctx, task.ID, remote.TaskPatch{Status: &failed}); err != nil {
		t.Fatalf("update failed status: %v", err)
	}
	got, _ := env.Remote.Tasks.GetByID(env.Ctx, task.ID)
	if got.CompletedAt != nil {
		t.Fatalf("failed status must not stamp completed_at, got %v", *got.CompletedAt)
	}
	if got.UpdatedAt != "2026-01-01T01:00:00Z" {
		t.Fatalf("updated_at = %q", got.UpdatedAt)
	}
	if got.CreatedAt != task.CreatedAt {
		t.Fatal("created_at must never change on update")
	}

	env.advance(time.Hour)
	completed := domain.StatusCompleted
	if err := env.Remote.Tasks.Update(env.Ctx, task.ID, remote.TaskPatch{Status: &completed}); err != nil {
		t.Fatalf("update completed status: %v", err)
	}
	got, _ = env.Remote.Tasks.GetByID(env.Ctx, task.ID)
	if got.CompletedAt == nil || *got.CompletedAt != "2026-01-01T02:00:00Z" {
		t.Fatalf("completed_at = %v", got.CompletedAt)
	}
}

func TestTaskUpdateKeepsExplicitCompletedAt(t *testing.T) {
	env := newTestEnv(t)
	task, err := env.Remote.Tasks.Create(env.Ctx, remote.TaskDraft{Title: "x", Role: domain.RoleCFO})
	if err != nil {
		t.Fatal(err)
	}
	completed := domain.StatusCompleted
	explicit := "2025-12-31T23:59:59Z"
	if err := env.Remote.Tasks.Update(env.Ctx, task.ID, remote.TaskPatch{Status: &completed, CompletedAt: &explicit}); err != nil {
		t.Fatal(err)
	}
	got, _ := env.Remote.Tasks.GetByID(env.Ctx, task.ID)
	if got.CompletedAt == nil || *got.CompletedAt != explicit {
		t.Fatalf("completed_at = %v, want explicit value kept", got.CompletedAt)
	}
}

func TestTaskUpdateAndDeleteNotFound(t *testing.T) {
	env := newTestEnv(t)
	title := "renamed"
	if err := env.Remote.Tasks.Update(env.Ctx, "missing", remote.TaskPatch{Title: &title}); !errors.Is(err, remote.ErrNotFound) {
		t.Fatalf("update err = %v", err)
	}
	if err := env.Remote.Tasks.Delete(env.Ctx, "missing"); !errors.Is(err, remote.ErrNotFound) {
		t.Fatalf("delete err = %v", err)
	}
}

func TestTasksListProblematic(t *testing.T) {
	env := newTestEnv(t)
	mk := func(title, status string) {
		t.Helper()
		if _, err := env.Remote.Tasks.Create(env.Ctx, remote.TaskDraft{Title: title, Role: domain.RoleCOO, Status: status}); err != nil {
			t.Fatal(err)
		}
		env.advance(time.Minute)
	}
	mk("ok", domain.StatusPending)
	mk("older failure", domain.StatusFailed)
	mk("newer failure", domain.StatusFailed)

	tasks, err := env.Remote.Tasks.ListProblematic(env.Ctx, []string{domain.StatusFailed})
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 2 {
		t.Fatalf("len = %d", len(tasks))
	}
	if tasks[0].Title != "newer failure" {
		t.Fatalf("order: got %q first", tasks[0].Title)
	}

	tasks, err = env.Remote.Tasks.ListProblematic(env.Ctx, nil)
	if err != nil || len(tasks) != 0 {
		t.Fatalf("empty status set: %v %d", err, len(tasks))
	}
}

func TestBriefGetByTaskFirstMatch(t *testing.T) {
	env := newTestEnv(t)
	task, _ := env.Remote.Tasks.Create(env.Ctx, remote.TaskDraft{Title: "t", Role: domain.RoleCMO})
	first, err := env.Remote.Briefs.Create(env.Ctx, remote.BriefDraft{TaskID: task.ID, Content: "first report"})
	if err != nil {
		t.Fatal(err)
	}
	env.advance(time.Minute)
	second, err := env.Remote.Briefs.Create(env.Ctx, remote.BriefDraft{TaskID: task.ID, Content: "second report"})
	if err != nil {
		t.Fatal(err)
	}
	got, err := env.Remote.Briefs.GetByTask(env.Ctx, task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != second.ID {
		t.Fatalf("first match = %s, want newest %s (have older %s)", got.ID, second.ID, first.ID)
	}
	if got.Recommendations == nil {
		t.Fatal("recommendations must default to empty slice")
	}
	if _, err := env.Remote.Briefs.GetByTask(env.Ctx, "no-such-task"); !errors.Is(err, remote.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestBriefUpdateEmptyPatch(t *testing.T) {
	env := newTestEnv(t)
	if err := env.Remote.Briefs.Update(env.Ctx, "no-such-brief", remote.BriefPatch{}); !errors.Is(err, remote.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for a missing id", err)
	}

	task, _ := env.Remote.Tasks.Create(env.Ctx, remote.TaskDraft{Title: "t", Role: domain.RoleCEO})
	brief, err := env.Remote.Briefs.Create(env.Ctx, remote.BriefDraft{TaskID: task.ID, Content: "report"})
	if err != nil {
		t.Fatal(err)
	}
	// an empty patch on an existing brief is a no-op, not an error
	if err := env.Remote.Briefs.Update(env.Ctx, brief.ID, remote.BriefPatch{}); err != nil {
		t.Fatalf("err = %v", err)
	}
	got, err := env.Remote.Briefs.GetByID(env.Ctx, brief.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Content != "report" {
		t.Fatalf("content = %q", got.Content)
	}
}

func TestBriefsLatestLimit(t *testing.T) {
	env := newTestEnv(t)
	task, _ := env.Remote.Tasks.Create(env.Ctx, remote.TaskDraft{Title: "t", Role: domain.RoleCEO})
	for i := 0; i < 7; i++ {
		if _, err := env.Remote.Briefs.Create(env.Ctx, remote.BriefDraft{TaskID: task.ID, Content: "c"}); err != nil {
			t.Fatal(err)
		}
		env.advance(time.Second)
	}
	briefs, err := env.Remote.Briefs.Latest(env.Ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(briefs) != 5 {
		t.Fatalf("len = %d, want 5", len(briefs))
	}
}

func TestStrategySetInsertThenUpdate(t *testing.T) {
	env := newTestEnv(t)
	first, err := env.Remote.Strategies.Set(env.Ctx, remote.StrategyDraft{
		Role: domain.RoleCTO, Title: "Platform v1", KPIs: []string{"uptime"},
	})
	if err != nil {
		t.Fatal(err)
	}
	env.advance(time.Hour)
	second, err := env.Remote.Strategies.Set(env.Ctx, remote.StrategyDraft{
		Role: domain.RoleCTO, Title: "Platform v2",
	})
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != first.ID {
		t.Fatalf("second set must update the same row: %s != %s", second.ID, first.ID)
	}
	all, err := env.Remote.Strategies.ListAll(env.Ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Fatalf("len = %d, want 1", len(all))
	}
	if all[0].Title != "Platform v2" {
		t.Fatalf("title = %q", all[0].Title)
	}
	if all[0].Objectives == nil || all[0].KPIs == nil {
		t.Fatal("array fields must default to empty slices")
	}
}

func TestActivityAppendedOnMutations(t *testing.T) {
	env := newTestEnv(t)
	task, err := env.Remote.Tasks.Create(env.Ctx, remote.TaskDraft{Title: "t", Role: domain.RoleCEO})
	if err != nil {
		t.Fatal(err)
	}
	status := domain.StatusInProgress
	if err := env.Remote.Tasks.Update(env.Ctx, task.ID, remote.TaskPatch{Status: &status}); err != nil {
		t.Fatal(err)
	}
	if err := env.Remote.Tasks.Delete(env.Ctx, task.ID); err != nil {
		t.Fatal(err)
	}
	entries, err := activity.List(env.Ctx, env.Remote.Tasks.DB, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("len = %d, want 3", len(entries))
	}
	// newest first
	want := []string{"task.deleted", "task.updated", "task.created"}
	for i, w := range want {
		if entries[i].Type != w {
			t.Fatalf("entries[%d].Type = %q, want %q", i, entries[i].Type, w)
		}
	}
}

func TestMetricsPutGetUpdate(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.Remote.Dashboard.GetMetrics(env.Ctx); !errors.Is(err, remote.ErrNotFound) {
		t.Fatalf("empty collection err = %v", err)
	}
	m, err := env.Remote.Dashboard.PutMetrics(env.Ctx, 1200, 300, -50)
	if err != nil {
		t.Fatal(err)
	}
	ltv := 1500.0
	env.advance(time.Minute)
	if err := env.Remote.Dashboard.UpdateMetrics(env.Ctx, m.ID, remote.MetricsPatch{LTV: &ltv}); err != nil {
		t.Fatal(err)
	}
	got, err := env.Remote.Dashboard.GetMetrics(env.Ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.LTV != 1500 || got.MRR != 300 || got.CashFlow != -50 {
		t.Fatalf("merge lost fields: %+v", got)
	}
}

func TestPerformanceByRole(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.Remote.Dashboard.CreatePerformance(env.Ctx, remote.PerformanceDraft{
		Role: domain.RoleCFO, CompletedKPIs: 3, TotalKPIs: 5, ConfidenceScore: 70,
	}); err != nil {
		t.Fatal(err)
	}
	p, err := env.Remote.Dashboard.GetPerformanceByRole(env.Ctx, domain.RoleCFO)
	if err != nil {
		t.Fatal(err)
	}
	if p.CompletedKPIs != 3 || p.PositiveNotes == nil {
		t.Fatalf("got %+v", p)
	}
	if _, err := env.Remote.Dashboard.CreatePerformance(env.Ctx, remote.PerformanceDraft{
		Role: domain.RoleCFO, ConfidenceScore: 101,
	}); err == nil {
		t.Fatal("expected range error")
	}
}

func TestFeedbackRatingRange(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.Remote.Feedback.Submit(env.Ctx, remote.FeedbackDraft{Content: "x", Rating: 0}); err == nil {
		t.Fatal("expected error for rating 0")
	}
	if _, err := env.Remote.Feedback.Submit(env.Ctx, remote.FeedbackDraft{Content: "great brief", Rating: 5}); err != nil {
		t.Fatal(err)
	}
	items, err := env.Remote.Feedback.ListAll(env.Ctx)
	if err != nil || len(items) != 1 {
		t.Fatalf("list: %v %d", err, len(items))
	}
}

func TestAPIKeyRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	user, err := env.Remote.Users.Create(env.Ctx, remote.UserDraft{Name: "Jo", Email: "jo@example.com"})
	if err != nil {
		t.Fatal(err)
	}
	key, raw, err := env.Remote.APIKeys.Create(env.Ctx, user.ID, "ci")
	if err != nil {
		t.Fatal(err)
	}
	found, err := env.Remote.APIKeys.FindByRawKey(env.Ctx, raw)
	if err != nil {
		t.Fatal(err)
	}
	if found.ID != key.ID || found.UserID != user.ID {
		t.Fatalf("lookup mismatch: %+v", found)
	}
	if _, err := env.Remote.APIKeys.FindByRawKey(env.Ctx, "xb_bogus"); !errors.Is(err, remote.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}
