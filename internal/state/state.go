package state

import (
	"fmt"
	"strings"

	"partaudit/internal/config"
	"partaudit/internal/domain"
)

type Section int

const (
	SectionOutOfOrder Section = iota
	SectionMissing
	SectionIssues
	sectionCount
)

func (section Section) String() string {
	switch section {
	case SectionOutOfOrder:
		return "Out of order"
	case SectionMissing:
		return "Missing"
	case SectionIssues:
		return "Issues"
	default:
		return "Unknown"
	}
}

func Sections() []Section {
	return []Section{SectionOutOfOrder, SectionMissing, SectionIssues}
}

// Item is one row of the browser.
type Item struct {
	Section Section
	Stream  string
	Path    string
	Detail  string
}

type Preferences struct {
	Theme string
}

type State struct {
	Result      domain.AuditResult
	Section     Section
	Cursor      int
	SearchQuery string
	Prefs       Preferences
	HasResult   bool

	items [sectionCount][]Item
}

func NewState(cfg config.UIConfig) *State {
	theme := cfg.Theme
	if theme == "" {
		theme = config.ThemeDark
	}
	return &State{
		Section: SectionOutOfOrder,
		Prefs:   Preferences{Theme: theme},
	}
}

// SetResult replaces the browsed result. The section and search survive, the
// cursor is clamped.
func (appState *State) SetResult(result domain.AuditResult) {
	appState.Result = result
	appState.HasResult = true
	for i := range appState.items {
		appState.items[i] = nil
	}

	for _, stream := range result.Streams {
		for _, path := range stream.OutOfOrder {
			appState.items[SectionOutOfOrder] = append(appState.items[SectionOutOfOrder], Item{
				Section: SectionOutOfOrder,
				Stream:  stream.Stream,
				Path:    path,
				Detail:  "modification time is later than the next partition's",
			})
		}
		for _, path := range stream.Missing {
			appState.items[SectionMissing] = append(appState.items[SectionMissing], Item{
				Section: SectionMissing,
				Stream:  stream.Stream,
				Path:    path,
				Detail:  "expected minute partition not found",
			})
		}
		for _, issue := range stream.Issues {
			appState.items[SectionIssues] = append(appState.items[SectionIssues], Item{
				Section: SectionIssues,
				Stream:  stream.Stream,
				Path:    issue.Path,
				Detail:  fmt.Sprintf("%s: %v", issue.Stage, issue.Err),
			})
		}
	}
	for _, failure := range result.Failures {
		appState.items[SectionIssues] = append(appState.items[SectionIssues], Item{
			Section: SectionIssues,
			Stream:  failure.Stream,
			Path:    failurePath(failure),
			Detail:  fmt.Sprintf("stream failed: %v", failure.Err),
		})
	}
	appState.clampCursor()
}

func failurePath(failure domain.StreamFailure) string {
	parts := []string{failure.Root, failure.BaseDir}
	if failure.Stream != "" {
		parts = append(parts, failure.Stream)
	}
	return strings.Join(parts, "/")
}

// Count returns the number of items in section, ignoring the search.
func (appState *State) Count(section Section) int {
	if section < 0 || section >= sectionCount {
		return 0
	}
	return len(appState.items[section])
}

// VisibleItems returns the items of the current section that match the search.
func (appState *State) VisibleItems() []Item {
	items := appState.items[appState.Section]
	if appState.SearchQuery == "" {
		return items
	}
	query := strings.ToLower(appState.SearchQuery)
	visible := make([]Item, 0, len(items))
	for _, item := range items {
		if itemMatches(item, query) {
			visible = append(visible, item)
		}
	}
	return visible
}

func itemMatches(item Item, query string) bool {
	return strings.Contains(strings.ToLower(item.Path), query) ||
		strings.Contains(strings.ToLower(item.Stream), query) ||
		strings.Contains(strings.ToLower(item.Detail), query)
}

func (appState *State) CurrentItem() (Item, bool) {
	visible := appState.VisibleItems()
	if appState.Cursor < 0 || appState.Cursor >= len(visible) {
		return Item{}, false
	}
	return visible[appState.Cursor], true
}

func (appState *State) MoveCursor(delta int) {
	appState.Cursor += delta
	appState.clampCursor()
}

func (appState *State) CursorTop() {
	appState.Cursor = 0
}

func (appState *State) CursorBottom() {
	appState.Cursor = len(appState.VisibleItems()) - 1
	appState.clampCursor()
}

func (appState *State) NextSection() Section {
	appState.Section = (appState.Section + 1) % sectionCount
	appState.Cursor = 0
	return appState.Section
}

func (appState *State) PrevSection() Section {
	appState.Section = (appState.Section + sectionCount - 1) % sectionCount
	appState.Cursor = 0
	return appState.Section
}

func (appState *State) SetSearch(query string) {
	appState.SearchQuery = strings.TrimSpace(query)
	appState.Cursor = 0
}

func (appState *State) ClearFilters() {
	appState.SearchQuery = ""
	appState.clampCursor()
}

func (appState *State) clampCursor() {
	visible := len(appState.VisibleItems())
	if appState.Cursor >= visible {
		appState.Cursor = visible - 1
	}
	if appState.Cursor < 0 {
		appState.Cursor = 0
	}
}
