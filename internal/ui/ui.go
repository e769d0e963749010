package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/txa/internal/tasks"
	"github.com/desertthunder/txa/internal/urllist"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	EditView ViewState = iota
	SubmittingView
	AlertView
	ResultView
)

// focusArea is the widget receiving keys in [EditView].
type focusArea int

const (
	focusInput focusArea = iota
	focusList
)

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	view       ViewState
	focus      focusArea
	pipeline   *tasks.Pipeline
	exportOpts tasks.ExportOpts
	urls       *urllist.List
	input      textinput.Model
	entries    list.Model
	spinner    spinner.Model
	progress   tasks.ProgressUpdate
	updates    chan tasks.ProgressUpdate
	done       chan *tasks.Outcome
	outcome    *tasks.Outcome
	exported   *tasks.ExportResult
	exportErr  error
	exporting  bool
	notice     string
	width      int
	height     int
	help       help.Model
	keys       keyMap
}

// NewModel creates a new TUI model. urls seeds the list and may be nil.
func NewModel(ctx context.Context, pipeline *tasks.Pipeline, exportOpts tasks.ExportOpts, urls *urllist.List) *Model {
	if urls == nil {
		urls = urllist.New()
	}

	input := textinput.New()
	input.Placeholder = "https://example.com/article"
	input.Prompt = "Add URL: "
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.label

	return &Model{
		ctx:        ctx,
		view:       EditView,
		focus:      focusInput,
		pipeline:   pipeline,
		exportOpts: exportOpts,
		urls:       urls,
		input:      input,
		entries:    newEntryList(urls),
		spinner:    sp,
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Init starts the input cursor blinking.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// URLs returns the URLs currently in the list.
func (m *Model) URLs() []string { return m.urls.URLs() }

// ViewState returns the active view.
func (m *Model) ViewState() ViewState { return m.view }

// Outcome returns the last submission outcome, if any.
func (m *Model) Outcome() *tasks.Outcome { return m.outcome }

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-len(m.input.Prompt)-4, 10)
		m.entries.SetSize(msg.Width-4, max(msg.Height-10, 4))
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.abort) {
			return m, tea.Quit
		}

		switch m.view {
		case EditView:
			return m.handleEditKeys(msg)
		case SubmittingView:
			return m.handleSubmittingKeys(msg)
		case AlertView:
			return m.handleAlertKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case spinner.TickMsg:
		if m.view != SubmittingView && !m.exporting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateFocused(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress()

	case MsgSubmitComplete:
		m.outcome = msg.data.(*tasks.Outcome)
		m.updates = nil
		m.done = nil
		m.exported = nil
		m.exportErr = nil
		m.notice = ""
		if m.outcome.HasAlert() {
			m.view = AlertView
		} else {
			m.view = ResultView
		}
		return m, nil

	case MsgExportComplete:
		data := msg.data.(struct {
			result *tasks.ExportResult
			err    error
		})
		m.exporting = false
		m.exported = data.result
		m.exportErr = data.err
		return m, nil
	}
	return m, nil
}

func (m *Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.submit):
		return m, m.submit()
	case key.Matches(msg, m.keys.focus):
		m.toggleFocus()
		return m, nil
	}

	if m.focus == focusInput {
		if key.Matches(msg, m.keys.add) {
			m.add(m.input.Value())
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.remove):
		m.remove(m.entries.Index())
		return m, nil
	case key.Matches(msg, m.keys.back):
		m.toggleFocus()
		return m, nil
	}

	var cmd tea.Cmd
	m.entries, cmd = m.entries.Update(msg)
	return m, cmd
}

func (m *Model) handleSubmittingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.submit) {
		m.notice = tasks.AlertInFlight
	}
	return m, nil
}

func (m *Model) handleAlertKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.add):
		m.view = EditView
		return m, nil
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = EditView
		return m, nil
	case key.Matches(msg, m.keys.export):
		if m.exporting || m.outcome == nil {
			return m, nil
		}
		m.exporting = true
		m.exportErr = nil
		return m, tea.Batch(m.spinner.Tick, m.export(m.outcome.Input()))
	}
	return m, nil
}

func (m *Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.view != EditView {
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == focusInput {
		m.input, cmd = m.input.Update(msg)
	} else {
		m.entries, cmd = m.entries.Update(msg)
	}
	return m, cmd
}

// add appends raw to the list; the input is cleared either way.
func (m *Model) add(raw string) {
	if _, ok := m.urls.Add(raw); ok {
		m.refresh()
		m.entries.Select(m.urls.Len() - 1)
	}
	m.input.Reset()
}

// remove deletes the entry at index; labels of the survivors are re-derived by refresh.
func (m *Model) remove(index int) {
	if !m.urls.RemoveAt(index) {
		return
	}
	m.refresh()
	if n := m.urls.Len(); n > 0 {
		m.entries.Select(min(index, n-1))
	}
}

func (m *Model) refresh() {
	m.entries.SetItems(entryItems(m.urls))
}

func (m *Model) toggleFocus() {
	if m.focus == focusInput {
		m.focus = focusList
		m.input.Blur()
		return
	}
	m.focus = focusInput
	m.input.Focus()
}

// submit hands the current URLs to the pipeline. Empty lists are rejected by the
// pipeline itself without a request, so the alert path is shared.
func (m *Model) submit() tea.Cmd {
	urls := m.urls.URLs()
	if len(urls) == 0 {
		outcome := m.pipeline.Submit(m.ctx, nil, nil)
		return func() tea.Msg { return submitCompleteMsg(outcome) }
	}

	m.view = SubmittingView
	m.notice = ""
	m.progress = tasks.ProgressUpdate{}

	m.updates = make(chan tasks.ProgressUpdate, 16)
	m.done = make(chan *tasks.Outcome, 1)

	go func(updates chan tasks.ProgressUpdate, done chan *tasks.Outcome) {
		done <- m.pipeline.Submit(m.ctx, urls, updates)
		close(updates)
	}(m.updates, m.done)

	return tea.Batch(m.spinner.Tick, m.waitForProgress())
}

// waitForProgress relays one progress update, or the outcome once the update channel closes.
func (m *Model) waitForProgress() tea.Cmd {
	updates, done := m.updates, m.done
	if updates == nil {
		return nil
	}

	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return submitCompleteMsg(<-done)
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) export(in tasks.ExportInput) tea.Cmd {
	opts := m.exportOpts
	return func() tea.Msg {
		result, err := tasks.Export(m.ctx, in, opts, nil)
		return exportCompleteMsg(result, err)
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case EditView:
		return m.renderEdit()
	case SubmittingView:
		return m.renderSubmitting()
	case AlertView:
		return m.renderAlert()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) renderEdit() string {
	title := styles.title.Render("Text Analysis")

	var listView string
	if m.urls.Len() == 0 {
		listView = styles.help.Render("No URLs yet. Type one and press enter.")
	} else {
		listView = m.entries.View()
	}

	var helpKeys []key.Binding
	if m.focus == focusInput {
		helpKeys = []key.Binding{m.keys.add, m.keys.focus, m.keys.submit, m.keys.abort}
	} else {
		helpKeys = []key.Binding{m.keys.up, m.keys.down, m.keys.remove, m.keys.focus, m.keys.submit, m.keys.quit}
	}

	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", title, m.input.View(), listView, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderSubmitting() string {
	title := styles.title.Render("Analyzing")

	phase := "Sending request..."
	if m.progress.Message != "" {
		phase = m.progress.Message
	}

	out := fmt.Sprintf("%s\n%s %s (%d urls)", title, m.spinner.View(), phase, m.urls.Len())
	if m.notice != "" {
		out += "\n\n" + styles.warn.Render(m.notice)
	}
	return out
}

func (m *Model) renderAlert() string {
	alert := ""
	if m.outcome != nil {
		alert = m.outcome.Alert
	}

	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", RenderAlert(alert), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderResult() string {
	title := styles.ok.Render(fmt.Sprintf("✓ Analysis complete (%d urls)", len(m.outcome.URLs)))

	width := DefaultBarWidth
	if m.width > 0 {
		width = min(DefaultBarWidth, max(m.width/2, 10))
	}

	var status string
	switch {
	case m.exporting:
		status = fmt.Sprintf("%s Exporting report...", m.spinner.View())
	case m.exportErr != nil:
		status = styles.err.Render(fmt.Sprintf("Export failed: %v", m.exportErr))
	case m.exported != nil:
		status = styles.ok.Render("Report written to " + m.exported.ReportPath)
		if n := len(m.exported.Failures); n > 0 {
			status += "\n" + styles.warn.Render(fmt.Sprintf("%d word clouds could not be written", n))
		}
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	b.WriteString(RenderSet(m.outcome.Charts, width))
	if status != "" {
		b.WriteString("\n")
		b.WriteString(status)
		b.WriteString("\n")
	}

	helpKeys := []key.Binding{m.keys.export, m.keys.back, m.keys.quit}
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(helpKeys))
	return b.String()
}
