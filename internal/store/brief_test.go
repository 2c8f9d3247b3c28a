package store_test

import (
	"testing"
	"time"

	"execboard/internal/domain"
	"execboard/internal/remote"
	"execboard/internal/store"
)

func TestBriefStoreCreateAppends(t *testing.T) {
	env := newStoreEnv(t)
	task := seedTask(t, env, "t", domain.RoleCEO, domain.StatusPending)
	if _, err := env.Remote.Briefs.Create(env.Ctx, remote.BriefDraft{TaskID: task.ID, Content: "existing"}); err != nil {
		t.Fatal(err)
	}
	env.advance(time.Second)

	s := store.NewBriefStore(env.Remote.Briefs)
	s.FetchAll(env.Ctx)
	s.Create(env.Ctx, remote.BriefDraft{TaskID: task.ID, Content: "new brief"})

	snap := s.Snapshot()
	if snap.Error != "" {
		t.Fatalf("error = %q", snap.Error)
	}
	if len(snap.Briefs) != 2 {
		t.Fatalf("briefs = %d", len(snap.Briefs))
	}
	if snap.Briefs[len(snap.Briefs)-1].Content != "new brief" {
		t.Fatalf("created brief not appended: %+v", snap.Briefs)
	}
}

func TestBriefStoreFetchLatestOverwrites(t *testing.T) {
	env := newStoreEnv(t)
	task := seedTask(t, env, "t", domain.RoleCEO, domain.StatusPending)
	for i := 0; i < 4; i++ {
		if _, err := env.Remote.Briefs.Create(env.Ctx, remote.BriefDraft{TaskID: task.ID, Content: "c"}); err != nil {
			t.Fatal(err)
		}
		env.advance(time.Second)
	}

	s := store.NewBriefStore(env.Remote.Briefs)
	s.FetchLatest(env.Ctx, 2)
	if got := len(s.Snapshot().Briefs); got != 2 {
		t.Fatalf("briefs = %d, want 2", got)
	}
}

func TestBriefStoreFetchByTaskSetsCurrent(t *testing.T) {
	env := newStoreEnv(t)
	task := seedTask(t, env, "t", domain.RoleCTO, domain.StatusPending)
	brief, err := env.Remote.Briefs.Create(env.Ctx, remote.BriefDraft{TaskID: task.ID, Content: "report"})
	if err != nil {
		t.Fatal(err)
	}

	s := store.NewBriefStore(env.Remote.Briefs)
	s.FetchByTask(env.Ctx, task.ID)
	snap := s.Snapshot()
	if snap.Current == nil || snap.Current.ID != brief.ID {
		t.Fatalf("current = %+v", snap.Current)
	}
	if len(snap.Briefs) != 0 {
		t.Fatal("fetch by task must not touch the collection")
	}

	s.FetchByTask(env.Ctx, "missing")
	if snap := s.Snapshot(); snap.Error == "" {
		t.Fatal("expected error for missing brief")
	}
}

func TestBriefStoreUpdateMerges(t *testing.T) {
	env := newStoreEnv(t)
	task := seedTask(t, env, "t", domain.RoleCFO, domain.StatusPending)
	brief, err := env.Remote.Briefs.Create(env.Ctx, remote.BriefDraft{TaskID: task.ID, Content: "draft"})
	if err != nil {
		t.Fatal(err)
	}

	s := store.NewBriefStore(env.Remote.Briefs)
	s.FetchAll(env.Ctx)
	content := "final"
	s.Update(env.Ctx, brief.ID, remote.BriefPatch{Content: &content, Recommendations: []string{"hire"}})

	snap := s.Snapshot()
	if snap.Briefs[0].Content != "final" || len(snap.Briefs[0].Recommendations) != 1 {
		t.Fatalf("merge lost fields: %+v", snap.Briefs[0])
	}
}
