package domain

// Role codes for the executive functions a task or strategy can belong to.
const (
	RoleCEO  = "CEO"
	RoleCOO  = "COO"
	RoleCMO  = "CMO"
	RoleCCO  = "CCO"
	RoleCTO  = "CTO"
	RoleCFO  = "CFO"
	RoleCHRO = "CHRO"
)

// Roles lists every valid role code.
var Roles = []string{RoleCEO, RoleCOO, RoleCMO, RoleCCO, RoleCTO, RoleCFO, RoleCHRO}

// Task statuses.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// ValidRole reports whether code is a known role code.
func ValidRole(code string) bool {
	for _, r := range Roles {
		if r == code {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a known task status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

type Task struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Role        string  `json:"role" enum:"CEO,COO,CMO,CCO,CTO,CFO,CHRO"`
	Status      string  `json:"status" enum:"pending,in_progress,completed,failed"`
	BriefID     *string `json:"brief_id,omitempty"`
	CreatedAt   string  `json:"created_at" format:"date-time"`
	UpdatedAt   string  `json:"updated_at" format:"date-time"`
	CompletedAt *string `json:"completed_at,omitempty" format:"date-time"`
}

type Brief struct {
	ID              string   `json:"id"`
	TaskID          string   `json:"task_id"`
	Content         string   `json:"content"`
	Recommendations []string `json:"recommendations"`
	CreatedAt       string   `json:"created_at" format:"date-time"`
}

// Strategy is the simple per-role strategy, keyed by Role rather than ID.
// At most one row per role is intended; the accessor resolves the key with a
// query before deciding insert vs update.
type Strategy struct {
	ID          string   `json:"id"`
	Role        string   `json:"role" enum:"CEO,COO,CMO,CCO,CTO,CFO,CHRO"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Objectives  []string `json:"objectives"`
	KPIs        []string `json:"kpis"`
	UpdatedAt   string   `json:"updated_at" format:"date-time"`
}

type StrategyKPI struct {
	Title   string `json:"title"`
	Target  string `json:"target"`
	Current string `json:"current"`
	Status  string `json:"status" enum:"pending,in_progress,completed,failed"`
}

type StrategyObjective struct {
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	KPIs        []StrategyKPI `json:"kpis"`
}

// Strategy document kinds. The kind is fixed at construction so consumers
// never probe field presence to tell the two shapes apart.
const (
	StrategyKindSimple   = "simple"
	StrategyKindExtended = "extended"
)

// ExtendedStrategy is the richer strategy variant with structured objectives
// and per-KPI progress. It is not persisted through the strategy accessor and
// is exercised with fixture data only.
type ExtendedStrategy struct {
	Kind        string              `json:"kind" enum:"extended"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Objectives  []StrategyObjective `json:"objectives"`
	CreatedAt   string              `json:"created_at" format:"date-time"`
	UpdatedAt   string              `json:"updated_at" format:"date-time"`
}

// NewExtendedStrategy builds an extended strategy with its kind discriminant set.
func NewExtendedStrategy(title, description string, objectives []StrategyObjective) ExtendedStrategy {
	return ExtendedStrategy{
		Kind:        StrategyKindExtended,
		Title:       title,
		Description: description,
		Objectives:  objectives,
	}
}

type BusinessMetrics struct {
	ID        string  `json:"id"`
	LTV       float64 `json:"ltv"`
	MRR       float64 `json:"mrr"`
	CashFlow  float64 `json:"cash_flow"`
	UpdatedAt *string `json:"updated_at,omitempty" format:"date-time"`
}

type CLevelPerformance struct {
	ID              string   `json:"id"`
	Role            string   `json:"role" enum:"CEO,COO,CMO,CCO,CTO,CFO,CHRO"`
	CompletedKPIs   int      `json:"completed_kpis"`
	TotalKPIs       int      `json:"total_kpis"`
	ConfidenceScore int      `json:"confidence_score" minimum:"0" maximum:"100"`
	PositiveNotes   []string `json:"positive_notes"`
	NegativeNotes   []string `json:"negative_notes"`
	UpdatedAt       string   `json:"updated_at" format:"date-time"`
}

type Feedback struct {
	ID        string  `json:"id"`
	TaskID    *string `json:"task_id,omitempty"`
	BriefID   *string `json:"brief_id,omitempty"`
	Content   string  `json:"content"`
	Rating    int     `json:"rating" minimum:"1" maximum:"5"`
	CreatedAt string  `json:"created_at" format:"date-time"`
}

type UserPreferences struct {
	Notifications bool   `json:"notifications"`
	Theme         string `json:"theme" enum:"light,dark,system"`
	Locale        string `json:"locale"`
}

type User struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Email       string           `json:"email"`
	Role        string           `json:"role,omitempty"`
	TelegramID  *string          `json:"telegram_id,omitempty"`
	Preferences *UserPreferences `json:"preferences,omitempty"`
}

// ActivityEntry is an append-only record of a mutation against a collection.
type ActivityEntry struct {
	ID         int64  `json:"id"`
	TS         string `json:"ts" format:"date-time"`
	Type       string `json:"type"`
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id,omitempty"`
	Payload    string `json:"payload_json,omitempty"`
}

type APIKey struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name,omitempty"`
	KeyHash   string `json:"key_hash"`
	CreatedAt string `json:"created_at" format:"date-time"`
}
