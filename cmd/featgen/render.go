// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/featgen/featgen/internal/build"
	"github.com/featgen/featgen/internal/feature"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// renderDiagnostics writes one block per diagnostic, errors first.
//
//	✗ duplicate_id blog
//	    internal/features/blog/feature.cue: id: feature id "blog" is declared 2 times: ...
//	    run 'featgen explain duplicate_id'
func renderDiagnostics(w io.Writer, diags []feature.Diagnostic) {
	var errs, warns []feature.Diagnostic
	for _, d := range diags {
		if d.IsError() {
			errs = append(errs, d)
		} else {
			warns = append(warns, d)
		}
	}
	for _, d := range append(errs, warns...) {
		fmt.Fprintln(w, formatDiagnostic(d))
	}
}

func formatDiagnostic(d feature.Diagnostic) string {
	var sb strings.Builder
	if d.IsError() {
		sb.WriteString(ErrorStyle.Render("✗"))
	} else {
		sb.WriteString(WarningStyle.Render("!"))
	}
	sb.WriteString(" ")
	sb.WriteString(diagCodeStyle.Render(string(d.Code)))
	if d.FeatureID != "" {
		sb.WriteString(" ")
		sb.WriteString(diagFeatureStyle.Render(d.FeatureID))
	}

	detail := d
	detail.FeatureID = ""
	sb.WriteString("\n")
	sb.WriteString(diagDetailStyle.Render(detail.String()))
	sb.WriteString("\n")
	sb.WriteString(diagHintStyle.Render("run 'featgen explain " + string(d.Code) + "'"))
	return sb.String()
}

// renderPassSummary writes the one-line outcome of a successful pass plus any warnings.
func renderPassSummary(w, errw io.Writer, report *build.Report) {
	renderDiagnostics(errw, report.Diagnostics)

	var sb strings.Builder
	sb.WriteString(SuccessStyle.Render("✓"))
	fmt.Fprintf(&sb, " %s", pluralize(len(report.Features), "feature"))
	switch {
	case len(report.Written) > 0:
		names := make([]string, len(report.Written))
		for i, p := range report.Written {
			names[i] = path.Base(p)
		}
		fmt.Fprintf(&sb, ", wrote %s", CmdStyle.Render(strings.Join(names, ", ")))
	case len(report.Unchanged) > 0:
		sb.WriteString(", artifacts up to date")
	}
	if report.Duration > 0 {
		sb.WriteString(VerboseStyle.Render(fmt.Sprintf(" (%s)", report.Duration.Round(time.Millisecond))))
	}
	fmt.Fprintln(w, sb.String())
}

// renderFeatureTable writes the features and the resolved navigation.
func renderFeatureTable(w io.Writer, report *build.Report) {
	styleFn := func(row, _ int) lipgloss.Style {
		if row == table.HeaderRow {
			return tableHeaderStyle
		}
		return tableCellStyle
	}

	features := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtitleStyle).
		StyleFunc(styleFn).
		Headers("ID", "TITLE", "ROUTES", "SOURCE")
	for _, f := range report.Features {
		routes := make([]string, len(f.Routes))
		for i, r := range f.Routes {
			routes[i] = r.Path
			if r.Primary {
				routes[i] += "*"
			}
		}
		features.Row(f.ID, f.Title, strings.Join(routes, " "), f.SourceLocation)
	}
	fmt.Fprintln(w, TitleStyle.Render("Features"))
	fmt.Fprintln(w, features.Render())

	if len(report.Navigation) == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("No navigation entries."))
		return
	}
	nav := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtitleStyle).
		StyleFunc(styleFn).
		Headers("#", "LABEL", "PATH", "FEATURE", "ORDER")
	for i, e := range report.Navigation {
		order := "-"
		if e.HasOrder() {
			order = strconv.Itoa(*e.Order)
		}
		nav.Row(strconv.Itoa(i+1), e.Label, e.Path, e.FeatureID, order)
	}
	fmt.Fprintln(w, TitleStyle.Render("Navigation"))
	fmt.Fprintln(w, nav.Render())
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
