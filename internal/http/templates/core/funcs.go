package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	domainauth "github.com/target/recruit-admin/internal/domain/auth"
	"github.com/target/recruit-admin/internal/domain/model"
)

// FriendlyDateTimeLayout is the display format for timestamps.
const FriendlyDateTimeLayout = "Jan 2, 2006 3:04 PM"

// Deps holds optional dependencies for constructing the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
	// Now overrides the clock used by timeAgo.
	Now func() time.Time
}

// Funcs returns a template.FuncMap containing helpers that are broadly useful across templates.
func Funcs(deps Deps) template.FuncMap {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	funcs := template.FuncMap{
		"sectionTmpl":  deps.ContentTemplateFor,
		"friendlyTime": friendlyTime,
		"timeAgo":      func(ts any) string { return timeAgo(ts, now()) },
		"add":          func(a, b int) int { return a + b },
		"sub":          func(a, b int) int { return a - b },
		"formatNumber": FormatNumber,
		"truncateText": TruncateText,
		"statusLabel":  statusLabel,
		"statusClass":  StatusClass,
		"statuses":     model.ApplicationStatuses,
		"roleLabel":    RoleLabel,
		"fieldError":   fieldError,
		"countFor":     countFor,
	}

	addRenderFuncs(funcs, deps)
	return funcs
}

func addRenderFuncs(funcs template.FuncMap, deps Deps) {
	funcs["renderSection"] = func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - rendered by our own html/template set; values were escaped during ExecuteTemplate.
		return template.HTML(buf.String()), nil
	}

	funcs["toJSON"] = func(v any) (string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

func asTime(ts any) (time.Time, bool) {
	switch v := ts.(type) {
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v != nil && !v.IsZero() {
			return *v, true
		}
	}
	return time.Time{}, false
}

func friendlyTime(ts any) string {
	t, ok := asTime(ts)
	if !ok {
		return ""
	}
	return t.Local().Format(FriendlyDateTimeLayout)
}

// timeAgo describes how long before now ts occurred. Future times read as "just now".
func timeAgo(ts any, now time.Time) string {
	t, ok := asTime(ts)
	if !ok {
		return ""
	}
	diff := now.Sub(t)
	plural := func(n int, unit string) string {
		if n == 1 {
			return "1 " + unit + " ago"
		}
		return strconv.Itoa(n) + " " + unit + "s ago"
	}
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "minute")
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour")
	case diff < 7*24*time.Hour:
		return plural(int(diff.Hours()/24), "day")
	default:
		return friendlyTime(t)
	}
}

// FormatNumber renders an integer with thousands separators.
func FormatNumber(v any) string {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int64:
		n = x
	case int32:
		n = int64(x)
	default:
		return fmt.Sprint(v)
	}
	neg := n < 0
	if neg {
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(s) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(s[:lead])
	for i := lead; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// TruncateText truncates s to maxLen runes, appending an ellipsis when shortened.
func TruncateText(s string, maxLen int) string {
	runes := []rune(s)
	if maxLen <= 0 || len(runes) <= maxLen {
		return s
	}
	if maxLen == 1 {
		return "…"
	}
	return strings.TrimSpace(string(runes[:maxLen-1])) + "…"
}

func statusLabel(v any) string {
	switch s := v.(type) {
	case model.ApplicationStatus:
		return s.Label()
	case string:
		return model.ApplicationStatus(s).Label()
	default:
		return ""
	}
}

// StatusClass maps an application status onto a badge class.
func StatusClass(v any) string {
	var s model.ApplicationStatus
	switch x := v.(type) {
	case model.ApplicationStatus:
		s = x
	case string:
		s = model.ApplicationStatus(x)
	}
	switch s {
	case model.ApplicationStatusApproved:
		return "badge-success"
	case model.ApplicationStatusRejected:
		return "badge-danger"
	case model.ApplicationStatusProcessing:
		return "badge-info"
	case model.ApplicationStatusUnderReview:
		return "badge-warning"
	case model.ApplicationStatusSubmitted:
		return "badge-secondary"
	default:
		return "badge-light"
	}
}

// RoleLabel renders an admin role for display.
func RoleLabel(v any) string {
	var r domainauth.Role
	switch x := v.(type) {
	case domainauth.Role:
		r = x
	case string:
		r = domainauth.Role(x)
	}
	if r.IsSuperAdmin() {
		return "Super Admin"
	}
	if r == domainauth.RoleAdmin {
		return "Admin"
	}
	return ""
}

// fieldError looks up a field message in the Errors map of page data.
func fieldError(errs any, field string) string {
	m, ok := errs.(map[string]string)
	if !ok {
		return ""
	}
	return m[field]
}

// countFor reads a per-status count, treating a missing key as zero.
func countFor(counts map[model.ApplicationStatus]int, status model.ApplicationStatus) int {
	return counts[status]
}
