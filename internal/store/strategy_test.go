package store_test

import (
	"testing"

	"execboard/internal/domain"
	"execboard/internal/remote"
	"execboard/internal/store"
)

func TestStrategyStoreSetReplacesByRole(t *testing.T) {
	env := newStoreEnv(t)
	s := store.NewStrategyStore(env.Remote.Strategies)

	s.Set(env.Ctx, remote.StrategyDraft{Role: domain.RoleCTO, Title: "Platform v1"})
	s.Set(env.Ctx, remote.StrategyDraft{Role: domain.RoleCMO, Title: "Brand"})
	s.Set(env.Ctx, remote.StrategyDraft{Role: domain.RoleCTO, Title: "Platform v2"})

	snap := s.Snapshot()
	if snap.Error != "" {
		t.Fatalf("error = %q", snap.Error)
	}
	if len(snap.Strategies) != 2 {
		t.Fatalf("strategies = %d, want 2", len(snap.Strategies))
	}
	if snap.Strategies[0].Role != domain.RoleCTO || snap.Strategies[0].Title != "Platform v2" {
		t.Fatalf("in-place replace failed: %+v", snap.Strategies[0])
	}
	// Set merges into the collection only; Current is set by FetchByRole.
	// Readers of a fresh store take the entry from Strategies.
	if snap.Current != nil {
		t.Fatalf("current = %+v, want nil on a fresh store", snap.Current)
	}
}

func TestStrategyStoreFetchByRoleUpdatesCurrent(t *testing.T) {
	env := newStoreEnv(t)
	if _, err := env.Remote.Strategies.Set(env.Ctx, remote.StrategyDraft{Role: domain.RoleCEO, Title: "Growth"}); err != nil {
		t.Fatal(err)
	}

	s := store.NewStrategyStore(env.Remote.Strategies)
	s.FetchByRole(env.Ctx, domain.RoleCEO)
	snap := s.Snapshot()
	if snap.Current == nil || snap.Current.Title != "Growth" {
		t.Fatalf("current = %+v", snap.Current)
	}

	s.Set(env.Ctx, remote.StrategyDraft{Role: domain.RoleCEO, Title: "Growth v2"})
	if snap := s.Snapshot(); snap.Current == nil || snap.Current.Title != "Growth v2" {
		t.Fatalf("current not refreshed by set: %+v", snap.Current)
	}

	s.FetchByRole(env.Ctx, domain.RoleCHRO)
	if snap := s.Snapshot(); snap.Error == "" {
		t.Fatal("expected error for role without strategy")
	}
}
