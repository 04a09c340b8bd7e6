package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"partaudit/internal/services"
	"partaudit/internal/state"
)

// Model is the interactive result browser. Rerunning the audit replaces the
// browsed result.
type Model struct {
	state            *state.State
	auditor          services.Auditor
	progress         services.ProgressProvider
	request          services.AuditRequest
	keys             KeyMap
	showHelp         bool
	status           string
	running          bool
	cancel           context.CancelFunc
	width            int
	height           int
	viewTop          int
	progressCount    int
	progressTotal    int
	filterInputMode  bool
	filterInputValue string
}

func NewModel(appState *state.State, auditor services.Auditor, request services.AuditRequest) Model {
	status := "Ready - press r to audit"
	if appState.HasResult {
		status = resultStatus(appState)
	}
	return Model{
		state:    appState,
		auditor:  auditor,
		progress: progressProvider(auditor),
		request:  request,
		keys:     DefaultKeyMap(),
		status:   status,
		width:    100,
		height:   30,
	}
}

func (model Model) WithStatus(message string) Model {
	if message != "" {
		model.status = message
	}
	return model
}

func (model Model) Init() tea.Cmd {
	return nil
}

func (model Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return model.handleKey(typed)
	case tea.WindowSizeMsg:
		model.width = typed.Width
		model.height = typed.Height
		model.ensureCursorVisible()
		return model, nil
	case auditResultMsg:
		model.running = false
		model.cancel = nil
		if typed.err != nil && errors.Is(typed.err, context.Canceled) {
			model.status = "Audit cancelled"
			return model, nil
		}
		model.state.SetResult(typed.result)
		model.ensureCursorVisible()
		if typed.err != nil {
			model.status = fmt.Sprintf("Audit error: %v", typed.err)
			return model, nil
		}
		model.status = resultStatus(model.state)
		return model, nil
	case auditProgressMsg:
		if !model.running {
			return model, nil
		}
		if typed.progress.Completed {
			return model, nil
		}
		model.progressCount = typed.progress.Audited
		model.progressTotal = typed.progress.Total
		if typed.progress.ErrMessage != "" {
			model.status = fmt.Sprintf("Audit warning: %s", typed.progress.ErrMessage)
		} else {
			model.status = fmt.Sprintf("Auditing... %d/%d (%s)", typed.progress.Audited, typed.progress.Total, typed.progress.Stream)
		}
		return model, model.progressCmd()
	default:
		return model, nil
	}
}

func (model Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.filterInputMode {
		return model.handleFilterInput(msg)
	}
	switch {
	case key.Matches(msg, model.keys.Quit):
		model = model.cancelAudit("")
		return model, tea.Quit
	case key.Matches(msg, model.keys.Help):
		model.showHelp = !model.showHelp
		return model, nil
	case key.Matches(msg, model.keys.Cancel):
		if model.running {
			model = model.cancelAudit("Audit cancelled")
		}
		return model, nil
	case key.Matches(msg, model.keys.Up):
		model.state.MoveCursor(-1)
		model.ensureCursorVisible()
		return model, nil
	case key.Matches(msg, model.keys.Down):
		model.state.MoveCursor(1)
		model.ensureCursorVisible()
		return model, nil
	case key.Matches(msg, model.keys.Top):
		model.state.CursorTop()
		model.ensureCursorVisible()
		return model, nil
	case key.Matches(msg, model.keys.Bottom):
		model.state.CursorBottom()
		model.ensureCursorVisible()
		return model, nil
	case key.Matches(msg, model.keys.NextSection):
		model.state.NextSection()
		model.viewTop = 0
		return model, nil
	case key.Matches(msg, model.keys.PrevSection):
		model.state.PrevSection()
		model.viewTop = 0
		return model, nil
	case key.Matches(msg, model.keys.Rerun):
		return model.beginAudit()
	case key.Matches(msg, model.keys.Search):
		model.filterInputMode = true
		model.filterInputValue = model.state.SearchQuery
		model.status = fmt.Sprintf("Search: %s", model.filterInputValue)
		return model, nil
	case key.Matches(msg, model.keys.ClearFilter):
		model.state.ClearFilters()
		model.status = "Search cleared"
		model.ensureCursorVisible()
		return model, nil
	default:
		return model, nil
	}
}

func (model Model) handleFilterInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		model.filterInputMode = false
		model.filterInputValue = ""
		model.status = "Search cancelled"
		return model, nil
	case tea.KeyEnter:
		model.filterInputMode = false
		model.state.SetSearch(model.filterInputValue)
		model.viewTop = 0
		model.status = fmt.Sprintf("Search applied (%d matches)", len(model.state.VisibleItems()))
		return model, nil
	case tea.KeyBackspace, tea.KeyDelete:
		if len(model.filterInputValue) > 0 {
			runes := []rune(model.filterInputValue)
			model.filterInputValue = string(runes[:len(runes)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		model.filterInputValue += string(msg.Runes)
	}
	model.status = fmt.Sprintf("Search: %s", model.filterInputValue)
	return model, nil
}

func (model Model) beginAudit() (Model, tea.Cmd) {
	if model.auditor == nil {
		model.status = "Audit unavailable"
		return model, nil
	}
	if model.running {
		model.status = "Audit already running"
		return model, nil
	}
	drainProgress(model.progress)
	ctx, cancel := context.WithCancel(context.Background())
	model.cancel = cancel
	model.running = true
	model.progressCount = 0
	model.progressTotal = 0
	model.status = "Auditing..."
	return model, tea.Batch(model.auditCmd(ctx), model.progressCmd())
}

func (model Model) auditCmd(ctx context.Context) tea.Cmd {
	auditor := model.auditor
	request := model.request
	return func() tea.Msg {
		result, err := auditor.Audit(ctx, request)
		return auditResultMsg{result: result, err: err}
	}
}

func (model Model) progressCmd() tea.Cmd {
	if model.progress == nil {
		return nil
	}
	channel := model.progress.Progress()
	if channel == nil {
		return nil
	}
	return func() tea.Msg {
		progress, ok := <-channel
		if !ok {
			return auditProgressMsg{progress: services.AuditProgress{Completed: true}}
		}
		return auditProgressMsg{progress: progress}
	}
}

func (model Model) cancelAudit(message string) Model {
	if model.cancel != nil {
		model.cancel()
		model.cancel = nil
	}
	if message != "" {
		model.status = message
	}
	model.running = false
	return model
}

// drainProgress drops updates left over from an earlier run.
func drainProgress(provider services.ProgressProvider) {
	if provider == nil {
		return
	}
	channel := provider.Progress()
	for {
		select {
		case <-channel:
		default:
			return
		}
	}
}

func progressProvider(auditor services.Auditor) services.ProgressProvider {
	provider, _ := auditor.(services.ProgressProvider)
	return provider
}

func resultStatus(appState *state.State) string {
	result := appState.Result
	return fmt.Sprintf("Audit complete in %s: %d out of order, %d missing, %d failed streams",
		result.Duration.Round(time.Millisecond), len(result.OutOfOrder), len(result.Missing), len(result.Failures))
}

func (model *Model) ensureCursorVisible() {
	visible := len(model.state.VisibleItems())
	if visible == 0 {
		model.viewTop = 0
		return
	}
	listHeight := model.listHeight()
	if listHeight <= 0 {
		return
	}
	cursor := model.state.Cursor
	if cursor < model.viewTop {
		model.viewTop = cursor
	}
	if cursor >= model.viewTop+listHeight {
		model.viewTop = cursor - listHeight + 1
	}
	maxTop := visible - listHeight
	if maxTop < 0 {
		maxTop = 0
	}
	if model.viewTop > maxTop {
		model.viewTop = maxTop
	}
}

func (model *Model) listHeight() int {
	return model.height - 8
}
