package domain

import "testing"

func TestValidRole(t *testing.T) {
	for _, r := range Roles {
		if !ValidRole(r) {
			t.Errorf("ValidRole(%q) = false", r)
		}
	}
	for _, r := range []string{"", "ceo", "CIO", "VP"} {
		if ValidRole(r) {
			t.Errorf("ValidRole(%q) = true", r)
		}
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusInProgress, StatusCompleted, StatusFailed} {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = false", s)
		}
	}
	if ValidStatus("done") || ValidStatus("") {
		t.Error("unknown statuses must be rejected")
	}
}

func TestNewExtendedStrategySetsKind(t *testing.T) {
	s := NewExtendedStrategy("Platform", "multi-year bet", []StrategyObjective{
		{
			Title: "Ship v2",
			KPIs: []StrategyKPI{
				{Title: "uptime", Target: "99.9", Current: "99.5", Status: StatusInProgress},
			},
		},
	})
	if s.Kind != StrategyKindExtended {
		t.Fatalf("kind = %q", s.Kind)
	}
	if s.Kind == StrategyKindSimple {
		t.Fatal("kind constants must be distinct")
	}
	if len(s.Objectives) != 1 || len(s.Objectives[0].KPIs) != 1 {
		t.Fatalf("objectives = %+v", s.Objectives)
	}
}
