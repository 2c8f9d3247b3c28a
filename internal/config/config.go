package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"execboard/internal/domain"
)

// Config models execboard.yml.
type Config struct {
	Board struct {
		ID string `yaml:"id"`
	} `yaml:"board"`
	Roles struct {
		Catalog map[string]RoleInfo `yaml:"catalog"`
	} `yaml:"roles"`
	Dashboard struct {
		BriefLimit          int      `yaml:"brief_limit"`
		ProblematicStatuses []string `yaml:"problematic_statuses"`
	} `yaml:"dashboard"`
	Session struct {
		File string `yaml:"file"`
	} `yaml:"session"`
	Telegram struct {
		Enabled bool   `yaml:"enabled"`
		ChatID  string `yaml:"chat_id"`
	} `yaml:"telegram"`
}

type RoleInfo struct {
	Name string `yaml:"name"`
}

// Load reads and validates config from workspace.
func Load(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s not found; create with xb init", path)
		}
		return nil, err
	}
	return FromYAML(data)
}

// LoadOptional returns nil,nil if the config file does not exist.
func LoadOptional(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if c.Board.ID == "" {
		return fmt.Errorf("config.board.id is required")
	}
	for code, info := range c.Roles.Catalog {
		if !domain.ValidRole(code) {
			return fmt.Errorf("config.roles.catalog has unknown role code %s", code)
		}
		if info.Name == "" {
			return fmt.Errorf("role %s has empty name", code)
		}
	}
	if c.Dashboard.BriefLimit < 0 {
		return fmt.Errorf("config.dashboard.brief_limit must be >= 0")
	}
	for _, s := range c.Dashboard.ProblematicStatuses {
		if !domain.ValidStatus(s) {
			return fmt.Errorf("config.dashboard.problematic_statuses has unknown status %s", s)
		}
	}
	if c.Telegram.Enabled && c.Telegram.ChatID == "" {
		return fmt.Errorf("config.telegram.chat_id is required when telegram is enabled")
	}
	return nil
}

// BriefLimit returns the configured dashboard brief limit or the default of 5.
func (c *Config) BriefLimit() int {
	if c == nil || c.Dashboard.BriefLimit == 0 {
		return 5
	}
	return c.Dashboard.BriefLimit
}

// ProblematicStatuses returns the configured status set or the default.
func (c *Config) ProblematicStatuses() []string {
	if c == nil || len(c.Dashboard.ProblematicStatuses) == 0 {
		return []string{domain.StatusFailed}
	}
	return c.Dashboard.ProblematicStatuses
}

// SessionFile returns the session flag file name relative to the state dir.
func (c *Config) SessionFile() string {
	if c == nil || c.Session.File == "" {
		return "session.json"
	}
	return c.Session.File
}

// RoleName resolves a role code to its catalog name, falling back to the code.
func (c *Config) RoleName(code string) string {
	if c != nil {
		if info, ok := c.Roles.Catalog[code]; ok && info.Name != "" {
			return info.Name
		}
	}
	return code
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "execboard.yml")
}

// GenerateDefault returns default config YAML.
func GenerateDefault(boardID string) string {
	return fmt.Sprintf(defaultTemplate, boardID)
}

// Default returns the default Config struct for a board.
func Default(boardID string) *Config {
	var cfg Config
	cfg.Board.ID = boardID
	_ = yaml.NewDecoder(bytes.NewBufferString(fmt.Sprintf(defaultTemplate, boardID))).Decode(&cfg)
	return &cfg
}

// FromYAML parses and validates config from raw YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromFile reads YAML config from the given path.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

const defaultTemplate = `board:
  id: %s

roles:
  catalog:
    CEO:
      name: "Chief Executive Officer"
    COO:
      name: "Chief Operating Officer"
    CMO:
      name: "Chief Marketing Officer"
    CCO:
      name: "Chief Commercial Officer"
    CTO:
      name: "Chief Technology Officer"
    CFO:
      name: "Chief Financial Officer"
    CHRO:
      name: "Chief Human Resources Officer"

dashboard:
  brief_limit: 5
  problematic_statuses: [failed]

session:
  file: session.json

telegram:
  enabled: false
  chat_id: ""
`
