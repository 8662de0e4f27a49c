package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	domainauth "github.com/target/recruit-admin/internal/domain/auth"
	"github.com/target/recruit-admin/internal/domain/model"
)

// Output formats accepted by -o.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func validateFormat(f string) error {
	switch f {
	case formatTable, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("invalid output format %q (valid options: table, json, yaml)", f)
	}
}

var (
	headingStyle    = lipgloss.NewStyle().Bold(true)
	superAdminBadge = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	adminBadge      = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	successStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func roleBadge(r domainauth.Role) string {
	if r.IsSuperAdmin() {
		return superAdminBadge.Render("superadmin")
	}
	return adminBadge.Render(string(r))
}

// render writes v as JSON or YAML, or calls table for the default format.
func (a *app) render(v any, table func(w io.Writer) error) error {
	switch a.output {
	case formatJSON:
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(a.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
		if err := table(tw); err != nil {
			return err
		}
		return tw.Flush()
	}
}

// done prints a confirmation for mutating commands in table mode.
func (a *app) done(msg string) {
	if a.output == formatTable {
		fmt.Fprintln(a.out, successStyle.Render(msg))
	}
}

func writeRow(w io.Writer, cols ...string) {
	fmt.Fprintln(w, strings.Join(cols, "\t"))
}

func pageFooter(w io.Writer, p model.Pagination) {
	if p.TotalPages > 1 {
		fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("page %d of %d, %d total", p.CurrentPage, p.TotalPages, p.Total)))
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
