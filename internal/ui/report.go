package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"partaudit/internal/config"
	"partaudit/internal/domain"
)

type reportStyles struct {
	flagged lipgloss.Style
	missing lipgloss.Style
	clean   lipgloss.Style
	failed  lipgloss.Style
}

// Reporter prints an audit result as plain report lines. Colors are dropped
// when out is not a terminal.
type Reporter struct {
	out    io.Writer
	styles reportStyles
}

func NewReporter(out io.Writer, theme string) *Reporter {
	renderer := lipgloss.NewRenderer(out)
	styles := reportStyles{
		flagged: renderer.NewStyle().Foreground(lipgloss.Color("214")),
		missing: renderer.NewStyle().Foreground(lipgloss.Color("204")),
		clean:   renderer.NewStyle().Foreground(lipgloss.Color("42")),
		failed:  renderer.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
	if strings.ToLower(theme) == config.ThemeLight {
		styles.flagged = renderer.NewStyle().Foreground(lipgloss.Color("130"))
		styles.missing = renderer.NewStyle().Foreground(lipgloss.Color("124"))
		styles.clean = renderer.NewStyle().Foreground(lipgloss.Color("28"))
		styles.failed = renderer.NewStyle().Foreground(lipgloss.Color("160")).Bold(true)
	}
	return &Reporter{out: out, styles: styles}
}

func (reporter *Reporter) Write(result domain.AuditResult) error {
	var lines []string
	if len(result.OutOfOrder) == 0 {
		lines = append(lines, reporter.styles.clean.Render("There are no out of order dirs"))
	}
	for _, path := range result.OutOfOrder {
		lines = append(lines, reporter.styles.flagged.Render("Directory is created in out of order: "+path))
	}
	if len(result.Missing) == 0 {
		lines = append(lines, reporter.styles.clean.Render("There are no missing dirs"))
	}
	for _, path := range result.Missing {
		lines = append(lines, reporter.styles.missing.Render("Missing path: "+path))
	}
	for _, failure := range result.Failures {
		lines = append(lines, reporter.styles.failed.Render(
			fmt.Sprintf("Stream failed: %s: %v", failureName(failure), failure.Err)))
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(reporter.out, line); err != nil {
			return err
		}
	}
	return nil
}

func failureName(failure domain.StreamFailure) string {
	if failure.Stream != "" {
		return failure.Stream
	}
	return failure.Root + "/" + failure.BaseDir
}
