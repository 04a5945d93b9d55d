package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/relforge/relforge/internal/orchestrator"
)

// reportStyles holds the styling for the final release summary
type reportStyles struct {
	success lipgloss.Style
	failure lipgloss.Style
	dim     lipgloss.Style
	banner  lipgloss.Style
}

func newReportStyles(useColor bool) reportStyles {
	if !useColor {
		plain := lipgloss.NewStyle()
		return reportStyles{success: plain, failure: plain, dim: plain, banner: plain}
	}
	return reportStyles{
		success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		failure: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		banner:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	}
}

// RenderReport formats the final per-variant release summary.
// Every variant's outcome is enumerated: success with its pushed ref,
// or failure with its reason class.
func RenderReport(report *orchestrator.Report, useColor bool) string {
	styles := newReportStyles(useColor)
	var b strings.Builder

	fmt.Fprintf(&b, "\nRelease %s (run %s):\n", report.Version, report.ID)

	for _, res := range report.Results {
		if res.OK {
			fmt.Fprintf(&b, "  %s %-26s %s %s\n",
				styles.success.Render("✓"),
				res.Spec.Name,
				res.Ref,
				styles.dim.Render(fmt.Sprintf("(%s)", res.Duration.Round(time.Millisecond))),
			)
		} else {
			fmt.Fprintf(&b, "  %s %-26s %s: %s\n",
				styles.failure.Render("✗"),
				res.Spec.Name,
				res.Failure,
				firstLine(res.Err),
			)
		}
	}

	successes := report.Successes()
	failures := len(report.Results) - successes
	fmt.Fprintf(&b, "\n  %d pushed, %d failed in %s\n",
		successes, failures, report.Finished.Sub(report.Started).Round(time.Millisecond))

	if report.TotalFailure() {
		fmt.Fprintf(&b, "\n%s\n", styles.banner.Render("  TOTAL BUILD FAILURE: no variant was published"))
	}

	return b.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
