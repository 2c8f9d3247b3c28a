package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateDefaultParses(t *testing.T) {
	cfg, err := FromYAML([]byte(GenerateDefault("acme")))
	if err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
	if cfg.Board.ID != "acme" {
		t.Fatalf("board id = %q", cfg.Board.ID)
	}
	if len(cfg.Roles.Catalog) != 7 {
		t.Fatalf("catalog size = %d", len(cfg.Roles.Catalog))
	}
	if cfg.RoleName("CTO") != "Chief Technology Officer" {
		t.Fatalf("role name = %q", cfg.RoleName("CTO"))
	}
	if cfg.BriefLimit() != 5 {
		t.Fatalf("brief limit = %d", cfg.BriefLimit())
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing board id",
			yaml: "roles:\n  catalog: {}\n",
			want: "board.id",
		},
		{
			name: "unknown role code",
			yaml: "board:\n  id: acme\nroles:\n  catalog:\n    CIO:\n      name: X\n",
			want: "unknown role code",
		},
		{
			name: "empty role name",
			yaml: "board:\n  id: acme\nroles:\n  catalog:\n    CEO:\n      name: \"\"\n",
			want: "empty name",
		},
		{
			name: "unknown problematic status",
			yaml: "board:\n  id: acme\ndashboard:\n  problematic_statuses: [stalled]\n",
			want: "unknown status",
		},
		{
			name: "negative brief limit",
			yaml: "board:\n  id: acme\ndashboard:\n  brief_limit: -1\n",
			want: "brief_limit",
		},
		{
			name: "telegram enabled without chat id",
			yaml: "board:\n  id: acme\ntelegram:\n  enabled: true\n",
			want: "chat_id",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromYAML([]byte(tc.yaml))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want mention of %q", err, tc.want)
			}
		})
	}
}

func TestNilConfigDefaults(t *testing.T) {
	var cfg *Config
	if cfg.BriefLimit() != 5 {
		t.Fatalf("brief limit = %d", cfg.BriefLimit())
	}
	if got := cfg.ProblematicStatuses(); len(got) != 1 || got[0] != "failed" {
		t.Fatalf("problematic statuses = %v", got)
	}
	if cfg.SessionFile() != "session.json" {
		t.Fatalf("session file = %q", cfg.SessionFile())
	}
	if cfg.RoleName("CFO") != "CFO" {
		t.Fatalf("role name fallback = %q", cfg.RoleName("CFO"))
	}
}

func TestLoadOptional(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadOptional(dir)
	if err != nil || cfg != nil {
		t.Fatalf("missing file: cfg=%v err=%v", cfg, err)
	}

	if err := os.WriteFile(filepath.Join(dir, "execboard.yml"), []byte(GenerateDefault("acme")), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadOptional(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg == nil || cfg.Board.ID != "acme" {
		t.Fatalf("cfg = %+v", cfg)
	}
}
