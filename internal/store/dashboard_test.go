package store_test

import (
	"context"
	"testing"

	"execboard/internal/domain"
	"execboard/internal/remote"
	"execboard/internal/store"
)

func TestDashboardStoreFetchAll(t *testing.T) {
	env := newStoreEnv(t)
	task := seedTask(t, env, "stuck", domain.RoleCOO, domain.StatusFailed)
	if _, err := env.Remote.Briefs.Create(env.Ctx, remote.BriefDraft{TaskID: task.ID, Content: "report"}); err != nil {
		t.Fatal(err)
	}
	if _, err := env.Remote.Dashboard.PutMetrics(env.Ctx, 1200, 300, 50); err != nil {
		t.Fatal(err)
	}
	if _, err := env.Remote.Dashboard.CreatePerformance(env.Ctx, remote.PerformanceDraft{
		Role: domain.RoleCOO, CompletedKPIs: 2, TotalKPIs: 4, ConfidenceScore: 60,
	}); err != nil {
		t.Fatal(err)
	}

	s := store.NewDashboardStore(env.Remote.Dashboard, env.Remote.Briefs, env.Remote.Tasks, 5, []string{domain.StatusFailed})
	s.FetchAll(env.Ctx)

	snap := s.Snapshot()
	if snap.Error != "" || snap.IsLoading {
		t.Fatalf("snapshot flags: %+v", snap)
	}
	if snap.Metrics == nil || snap.Metrics.MRR != 300 {
		t.Fatalf("metrics = %+v", snap.Metrics)
	}
	if len(snap.Performance) != 1 || len(snap.LatestBriefs) != 1 {
		t.Fatalf("sections: perf=%d briefs=%d", len(snap.Performance), len(snap.LatestBriefs))
	}
	if len(snap.ProblematicTasks) != 1 || snap.ProblematicTasks[0].ID != task.ID {
		t.Fatalf("problematic = %+v", snap.ProblematicTasks)
	}
}

func TestDashboardStoreEmptyMetricsIsNotAnError(t *testing.T) {
	env := newStoreEnv(t)
	s := store.NewDashboardStore(env.Remote.Dashboard, env.Remote.Briefs, env.Remote.Tasks, 5, []string{domain.StatusFailed})
	s.FetchAll(env.Ctx)

	snap := s.Snapshot()
	if snap.Error != "" {
		t.Fatalf("error = %q", snap.Error)
	}
	if snap.Metrics != nil {
		t.Fatalf("metrics = %+v, want nil before any upload", snap.Metrics)
	}
	if snap.Performance == nil || snap.LatestBriefs == nil || snap.ProblematicTasks == nil {
		t.Fatal("empty sections must be empty slices, not nil")
	}
}

func TestDashboardStoreFetchAllFailsAsAUnit(t *testing.T) {
	env := newStoreEnv(t)
	if _, err := env.Remote.Dashboard.PutMetrics(env.Ctx, 100, 10, 1); err != nil {
		t.Fatal(err)
	}

	s := store.NewDashboardStore(env.Remote.Dashboard, env.Remote.Briefs, env.Remote.Tasks, 5, []string{domain.StatusFailed})
	s.FetchAll(env.Ctx)
	before := s.Snapshot()
	if before.Metrics == nil {
		t.Fatal("seed fetch failed")
	}

	env.DB.Close()
	s.FetchAll(env.Ctx)

	snap := s.Snapshot()
	if snap.Error == "" {
		t.Fatal("expected error after connection loss")
	}
	if snap.Metrics == nil || snap.Metrics.LTV != before.Metrics.LTV {
		t.Fatalf("previous snapshot discarded: %+v", snap.Metrics)
	}
}

func TestDashboardStoreFetchMetricsClearsOnEmpty(t *testing.T) {
	env := newStoreEnv(t)
	m, err := env.Remote.Dashboard.PutMetrics(env.Ctx, 100, 10, 1)
	if err != nil {
		t.Fatal(err)
	}

	s := store.NewDashboardStore(env.Remote.Dashboard, env.Remote.Briefs, env.Remote.Tasks, 5, nil)
	s.FetchMetrics(env.Ctx)
	if snap := s.Snapshot(); snap.Metrics == nil {
		t.Fatal("metrics not loaded")
	}

	if _, err := env.DB.ExecContext(env.Ctx, `DELETE FROM business_metrics WHERE id=?`, m.ID); err != nil {
		t.Fatal(err)
	}
	s.FetchMetrics(env.Ctx)
	snap := s.Snapshot()
	if snap.Error != "" {
		t.Fatalf("error = %q", snap.Error)
	}
	if snap.Metrics != nil {
		t.Fatalf("metrics = %+v, want nil after delete", snap.Metrics)
	}
}

type stubNotifier struct {
	sent []string
	err  error
}

func (n *stubNotifier) Send(_ context.Context, text string) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, text)
	return nil
}

func TestTelegramStoreLinkUnlink(t *testing.T) {
	env := newStoreEnv(t)
	user, err := env.Remote.Users.Create(env.Ctx, remote.UserDraft{Name: "Jo", Email: "jo@example.com"})
	if err != nil {
		t.Fatal(err)
	}

	notifier := &stubNotifier{}
	s := store.NewTelegramStore(env.Remote.Users, notifier)

	s.Link(env.Ctx, user.ID, "12345")
	snap := s.Snapshot()
	if !snap.IsLinked || snap.TelegramID == nil || *snap.TelegramID != "12345" {
		t.Fatalf("link state: %+v", snap)
	}

	s.Refresh(env.Ctx, user.ID)
	if snap := s.Snapshot(); !snap.IsLinked {
		t.Fatal("refresh lost link state")
	}

	s.SendTest(env.Ctx)
	if len(notifier.sent) != 1 {
		t.Fatalf("sent = %d", len(notifier.sent))
	}

	s.Unlink(env.Ctx, user.ID)
	if snap := s.Snapshot(); snap.IsLinked || snap.TelegramID != nil {
		t.Fatalf("unlink state: %+v", snap)
	}
}
