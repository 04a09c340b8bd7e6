package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"partaudit/internal/config"
	"partaudit/internal/state"
)

type uiStyles struct {
	headerStyle lipgloss.Style
	mutedStyle  lipgloss.Style
	statusStyle lipgloss.Style
	warnStyle   lipgloss.Style
	cursorStyle lipgloss.Style
	activeTab   lipgloss.Style
	inactiveTab lipgloss.Style
	panelBorder lipgloss.Style
}

func stylesFor(model Model) uiStyles {
	if strings.ToLower(model.state.Prefs.Theme) == config.ThemeLight {
		return uiStyles{
			headerStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("235")),
			mutedStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
			statusStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("25")).Bold(true),
			warnStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("124")).Bold(true),
			cursorStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("90")).Bold(true),
			activeTab:   lipgloss.NewStyle().Foreground(lipgloss.Color("28")).Bold(true).Underline(true),
			inactiveTab: lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
			panelBorder: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		}
	}
	return uiStyles{
		headerStyle: lipgloss.NewStyle().Bold(true),
		mutedStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		statusStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("69")).Bold(true),
		warnStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("204")).Bold(true),
		cursorStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		activeTab:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true).Underline(true),
		inactiveTab: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		panelBorder: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	}
}

func (model Model) View() string {
	styles := stylesFor(model)
	if model.showHelp {
		return renderHelpView(model, styles)
	}

	header := renderHeader(model, styles)
	body := renderBody(model, styles)
	footer := renderFooter(model, styles)
	return strings.Join([]string{header, body, footer}, "\n")
}

func renderHeader(model Model, styles uiStyles) string {
	tabs := make([]string, 0, len(state.Sections()))
	for _, section := range state.Sections() {
		label := fmt.Sprintf("%s (%d)", section, model.state.Count(section))
		if section == model.state.Section {
			tabs = append(tabs, styles.activeTab.Render(label))
		} else {
			tabs = append(tabs, styles.inactiveTab.Render(label))
		}
	}
	title := styles.headerStyle.Render("partaudit")
	run := ""
	if model.state.Result.RunID != "" {
		run = styles.mutedStyle.Render("run " + model.state.Result.RunID)
	}
	return padLine(title+"  "+strings.Join(tabs, "  "), run, model.width)
}

func renderBody(model Model, styles uiStyles) string {
	bodyHeight := model.listHeight()
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	leftWidth, rightWidth, showRight := splitPanels(model.width)
	left := renderListPanel(model, styles, bodyHeight, leftWidth)
	if !showRight {
		return left
	}
	sep := lipgloss.NewStyle().Foreground(lipgloss.Color("238")).Render("│")
	right := renderDetailPanel(model, styles, rightWidth, bodyHeight)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, sep, right)
}

func renderListPanel(model Model, styles uiStyles, height, width int) string {
	if width < 20 {
		width = 20
	}
	contentWidth := maxInt(width-4, 10)
	visible := model.state.VisibleItems()

	lines := make([]string, 0, height)
	if len(visible) == 0 {
		empty := "Nothing to report"
		if model.state.SearchQuery != "" {
			empty = "No matches for " + model.state.SearchQuery
		}
		if !model.state.HasResult {
			empty = "No audit yet"
		}
		lines = append(lines, styles.mutedStyle.Render(empty))
	}
	end := minInt(len(visible), model.viewTop+height)
	for i := model.viewTop; i < end; i++ {
		line := truncate(visible[i].Path, contentWidth-2)
		if i == model.state.Cursor {
			lines = append(lines, styles.cursorStyle.Render("› "+line))
			continue
		}
		lines = append(lines, "  "+line)
	}

	content := strings.Join(lines, "\n")
	content = lipgloss.NewStyle().Width(contentWidth).Height(height).Render(content)
	return styles.panelBorder.Width(contentWidth).Render(content)
}

func renderDetailPanel(model Model, styles uiStyles, width, height int) string {
	contentWidth := maxInt(width-4, 10)
	lines := []string{styles.headerStyle.Render(model.state.Section.String())}
	if item, ok := model.state.CurrentItem(); ok {
		lines = append(lines,
			"",
			styles.mutedStyle.Render("Stream"),
			valueOr(item.Stream, "-"),
			"",
			styles.mutedStyle.Render("Path"),
			item.Path,
			"",
			styles.mutedStyle.Render("Detail"),
			item.Detail,
		)
	}
	content := lipgloss.NewStyle().Width(contentWidth).Height(height).Render(strings.Join(lines, "\n"))
	return styles.panelBorder.Width(contentWidth).Render(content)
}

func renderFooter(model Model, styles uiStyles) string {
	statusLine := trimStatus(model.status, model.width)
	if model.running {
		statusLine = fmt.Sprintf("%s  %s", statusLine, progressBar(model.progressCount, model.progressTotal, 18))
	}
	statusStyle := styles.statusStyle
	lower := strings.ToLower(model.status)
	if strings.Contains(lower, "error") || strings.Contains(lower, "warning") {
		statusStyle = styles.warnStyle
	}
	statusLine = statusStyle.Render(statusLine)

	left := ""
	if model.state.SearchQuery != "" {
		left = "Search: " + model.state.SearchQuery
	}
	keys := "↑/↓ move  tab section  / search  x clear  r rerun  ? help  q quit"
	if model.filterInputMode {
		keys = "type query  enter apply  esc cancel"
	}
	footerLine := padLine(left, keys, model.width)
	return strings.Join([]string{statusLine, styles.mutedStyle.Render(footerLine)}, "\n")
}

func renderHelpView(model Model, styles uiStyles) string {
	bindings := []key.Binding{
		model.keys.Up,
		model.keys.Down,
		model.keys.Top,
		model.keys.Bottom,
		model.keys.NextSection,
		model.keys.PrevSection,
		model.keys.Rerun,
		model.keys.Search,
		model.keys.ClearFilter,
		model.keys.Cancel,
		model.keys.Help,
		model.keys.Quit,
	}

	lines := []string{styles.headerStyle.Render("partaudit Help"), ""}
	lines = append(lines, styles.headerStyle.Render("Sections"))
	lines = append(lines,
		"Out of order  partitions modified after their successor",
		"Missing       expected minute partitions not on storage",
		"Issues        paths that could not be read, and failed streams",
	)
	lines = append(lines, "", styles.headerStyle.Render("Keys"))
	for _, binding := range bindings {
		keysLabel := strings.Join(binding.Keys(), ", ")
		lines = append(lines, fmt.Sprintf("%-22s %s", keysLabel, binding.Help().Desc))
	}
	lines = append(lines, "", "Press ? to close help")
	content := strings.Join(lines, "\n")
	width := model.width
	if width <= 0 {
		width = 80
	}
	return styles.panelBorder.Width(maxInt(width-2, 10)).Render(content)
}

func padLine(left, right string, width int) string {
	if width <= 0 {
		return left
	}
	space := width - lipgloss.Width(left) - lipgloss.Width(right)
	if space < 1 {
		return left + " " + right
	}
	return left + strings.Repeat(" ", space) + right
}

func splitPanels(width int) (int, int, bool) {
	if width < 80 {
		return width, 0, false
	}
	left := int(float64(width) * 0.6)
	if left < 40 {
		left = 40
	}
	right := width - left - 1
	if right < 30 {
		return width, 0, false
	}
	return left, right, true
}

func progressBar(done, total, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if total > 0 {
		filled = clamp(done*width/total, 0, width)
	}
	return fmt.Sprintf("[%s%s]", strings.Repeat("█", filled), strings.Repeat("░", width-filled))
}

func trimStatus(message string, width int) string {
	if width <= 0 {
		return message
	}
	return truncate(message, width-4)
}

func truncate(value string, max int) string {
	runes := []rune(value)
	if max <= 3 || len(runes) <= max {
		return value
	}
	return string(runes[:max-3]) + "..."
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
