package format

import (
	"testing"

	"execboard/internal/domain"
)

func TestStatusName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{domain.StatusPending, "Pending"},
		{domain.StatusInProgress, "In Progress"},
		{domain.StatusCompleted, "Completed"},
		{domain.StatusFailed, "Failed"},
		{"archived", "archived"},
	}
	for _, c := range cases {
		if got := StatusName(c.in); got != c.want {
			t.Errorf("StatusName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestRoleName(t *testing.T) {
	if got := RoleName(domain.RoleCTO); got != "Chief Technology Officer" {
		t.Errorf("RoleName(CTO) = %q", got)
	}
	if got := RoleName("XYZ"); got != "XYZ" {
		t.Errorf("RoleName fallback = %q, want XYZ", got)
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate("2026-08-28T10:30:00Z"); got != "Aug 28, 2026" {
		t.Errorf("FormatDate = %q", got)
	}
	if got := FormatDate(""); got != "" {
		t.Errorf("FormatDate empty = %q", got)
	}
	if got := FormatDate("not-a-date"); got != "not-a-date" {
		t.Errorf("FormatDate invalid = %q", got)
	}
}

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "$0"},
		{1234, "$1,234"},
		{2500000.49, "$2,500,000"},
	}
	for _, c := range cases {
		if got := FormatCurrency(c.in); got != c.want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly-ten", 11, "exactly-ten"},
		{"a longer description here", 10, "a longe..."},
		{"abc", 2, "ab"},
		{"anything", 0, ""},
	}
	for _, c := range cases {
		if got := Truncate(c.in, c.max); got != c.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", c.in, c.max, got, c.want)
		}
	}
}

func TestStatusColorKnownStatuses(t *testing.T) {
	for _, s := range []string{domain.StatusPending, domain.StatusInProgress, domain.StatusCompleted, domain.StatusFailed} {
		if len(StatusColor(s)) == 0 {
			t.Errorf("StatusColor(%q) empty", s)
		}
	}
}
