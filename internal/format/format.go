// Package format holds pure display helpers shared by the CLI and the views.
package format

import (
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"execboard/internal/domain"
)

var statusNames = map[string]string{
	domain.StatusPending:    "Pending",
	domain.StatusInProgress: "In Progress",
	domain.StatusCompleted:  "Completed",
	domain.StatusFailed:     "Failed",
}

// StatusName returns the display label for a task status. Unknown statuses
// pass through unchanged.
func StatusName(status string) string {
	if name, ok := statusNames[status]; ok {
		return name
	}
	return status
}

var statusColors = map[string]text.Colors{
	domain.StatusPending:    {text.FgYellow},
	domain.StatusInProgress: {text.FgBlue},
	domain.StatusCompleted:  {text.FgGreen},
	domain.StatusFailed:     {text.FgRed},
}

// StatusColor returns the terminal colors for a status badge.
func StatusColor(status string) text.Colors {
	if c, ok := statusColors[status]; ok {
		return c
	}
	return text.Colors{text.FgWhite}
}

var roleNames = map[string]string{
	domain.RoleCEO:  "Chief Executive Officer",
	domain.RoleCOO:  "Chief Operating Officer",
	domain.RoleCMO:  "Chief Marketing Officer",
	domain.RoleCCO:  "Chief Commercial Officer",
	domain.RoleCTO:  "Chief Technology Officer",
	domain.RoleCFO:  "Chief Financial Officer",
	domain.RoleCHRO: "Chief Human Resources Officer",
}

// RoleName expands a role code to its full title, falling back to the code.
func RoleName(code string) string {
	if name, ok := roleNames[code]; ok {
		return name
	}
	return code
}

// FormatDate renders an RFC3339 timestamp as a short date. Empty and
// unparseable inputs come back as-is.
func FormatDate(ts string) string {
	if ts == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Format("Jan 2, 2006")
}

var usd = message.NewPrinter(language.English)

// FormatCurrency renders a USD amount with thousands separators and no
// fraction digits.
func FormatCurrency(amount float64) string {
	return usd.Sprintf("$%.0f", amount)
}

// Truncate shortens s to max runes, appending an ellipsis when cut.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
