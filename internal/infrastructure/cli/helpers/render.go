// Package helpers renders command output and manipulates the config tree.
package helpers

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/doeshing/scrnstr/internal/domain"
)

// RecentChecker reports whether a category was intercepted recently.
type RecentChecker func(category string) bool

// RenderResult prints the category and every extracted field.
func RenderResult(out io.Writer, result domain.ClassificationResult) {
	bold := color.New(color.Bold)
	bold.Fprintf(out, "%s", strings.ToUpper(result.Category))
	if result.SuggestedAction != "" {
		fmt.Fprintf(out, "  %s", color.New(color.Faint).Sprint(result.SuggestedAction))
	}
	fmt.Fprintln(out)

	keys := result.Fields.Keys()
	if len(keys) == 0 {
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, key := range keys {
		tbl.AddRow("  "+key, result.Fields.Text(key, ""))
	}
	fmt.Fprintln(out, tbl)
}

// RenderHistory prints the retained intercepts, newest first.
func RenderHistory(out io.Writer, records []domain.InterceptRecord, now time.Time, recent RecentChecker) {
	if len(records) == 0 {
		fmt.Fprintln(out, "No intercepts recorded yet.")
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.AddRow(header("WHEN"), header("CATEGORY"), header("TITLE"), header("SOURCE"))
	for _, r := range records {
		category := r.Category
		if recent != nil && recent(r.Category) {
			category = color.New(color.FgGreen).Sprint(category + "*")
		}
		source := r.ThumbnailRef
		if source == "" {
			source = "-"
		}
		tbl.AddRow(humanize.RelTime(r.Timestamp, now, "ago", "from now"), category, r.Title, source)
	}
	fmt.Fprintln(out, tbl)
	if recent != nil {
		fmt.Fprintf(out, "* seen within the last %s\n", domain.RecentCategoryWindow)
	}
}

// RenderDoctorReport prints one line per check.
func RenderDoctorReport(out io.Writer, report domain.HealthReport) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	for _, check := range report.Checks {
		tbl.AddRow(statusLabel(check.Status), check.Name, check.Details)
	}
	fmt.Fprintln(out, tbl)
}

// RenderPending prints triggers waiting to be acted on.
func RenderPending(out io.Writer, pending []domain.ActionTrigger, now time.Time) {
	if len(pending) == 0 {
		fmt.Fprintln(out, "No pending actions.")
		return
	}
	sorted := append([]domain.ActionTrigger(nil), pending...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) })

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(header("ID"), header("CATEGORY"), header("CREATED"), header("SOURCE"))
	for _, t := range sorted {
		source := t.SourceRef.String()
		if source == "" {
			source = "-"
		}
		tbl.AddRow(t.ID, t.Category, humanize.RelTime(t.CreatedAt, now, "ago", "from now"), source)
	}
	fmt.Fprintln(out, tbl)
}

func header(s string) string {
	return color.New(color.Bold).Sprint(s)
}

func statusLabel(status domain.HealthStatus) string {
	label := "[" + strings.ToUpper(string(status)) + "]"
	switch status {
	case domain.HealthOK:
		return color.New(color.FgGreen).Sprint(label)
	case domain.HealthWarn:
		return color.New(color.FgYellow).Sprint(label)
	default:
		return color.New(color.FgRed).Sprint(label)
	}
}
