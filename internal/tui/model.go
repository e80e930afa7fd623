// Package tui is the interactive watch mode: submit a URL, follow the
// status and log streams live, and browse finished reports and history.
package tui

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tradecheck/internal/history"
	"tradecheck/internal/model"
	"tradecheck/internal/render"
	"tradecheck/internal/runner"
)

var (
	accentPrimary   = lipgloss.Color("#50E3C2")
	accentSecondary = lipgloss.Color("#F6AE2D")
	mutedText       = lipgloss.Color("#8CA1AE")
	warningText     = lipgloss.Color("#FF6B6B")
	panelBorder     = lipgloss.Color("#2D6A80")
)

var (
	headerStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true).
			Foreground(accentPrimary)

	statusStyle = lipgloss.NewStyle().
			Foreground(accentSecondary).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(warningText).
			Bold(true)

	panelTitleStyle = lipgloss.NewStyle().
			Foreground(accentPrimary).
			Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(panelBorder).
			Padding(0, 1)

	focusedPanelStyle = panelStyle.
				BorderForeground(accentPrimary)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedText)
)

// StatusMsg carries one status poll observation into the program
type StatusMsg struct {
	Update model.StatusUpdate
}

// LogsMsg carries newly observed, classified log lines
type LogsMsg struct {
	Lines []render.LogLine
}

// ResultMsg carries the loaded report of a completed job
type ResultMsg struct {
	Result *model.Result
}

// FailedMsg signals a failed job with its display message
type FailedMsg struct {
	Message string
}

// LoadErrMsg signals a completed job whose report could not be loaded
type LoadErrMsg struct {
	Err error
}

// PollErrMsg carries a transient poll error; polling continues regardless
type PollErrMsg struct {
	Err error
}

type submittedMsg struct {
	jc  *runner.JobContext
	err error
}

type historyMsg struct {
	rows []render.HistoryRow
	err  error
}

type focusPane int

const (
	paneInput focusPane = iota
	paneLogs
	paneReport
	paneHistory
)

// Model is the bubbletea model for watch mode
type Model struct {
	run  *runner.Runner
	hist *history.Cache

	ready  bool
	width  int
	height int

	urlInput textinput.Model
	spin     spinner.Model
	prog     progress.Model
	logs     viewport.Model
	report   viewport.Model
	histView viewport.Model

	focusPane focusPane

	initialURL string
	running    bool
	jc         *runner.JobContext
	progressPn float64
	statusText string
	errorText  string
	logBuf     []string
}

// NewModel builds the watch model. The runner's events must be wired to
// forward into the running program via Send. A non-empty initialURL is
// submitted as soon as the program starts.
func NewModel(run *runner.Runner, hist *history.Cache, initialURL string) Model {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "https://example-supplier.com"
	input.CharLimit = 2048
	input.Width = 60
	input.SetValue(initialURL)
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.MiniDot
	spin.Style = lipgloss.NewStyle().Foreground(accentSecondary)

	prog := progress.New(progress.WithGradient("#2B7EA1", "#50E3C2"))

	logs := viewport.New(60, 12)
	logs.SetContent("No job running. Enter a URL and press enter.")

	report := viewport.New(60, 14)
	report.SetContent("No report yet.")

	histView := viewport.New(40, 14)
	histView.SetContent("Loading history...")

	return Model{
		run:        run,
		hist:       hist,
		initialURL: initialURL,
		urlInput:   input,
		spin:       spin,
		prog:       prog,
		logs:       logs,
		report:     report,
		histView:   histView,
		focusPane:  paneInput,
		statusText: "Ready. Enter a supplier URL to analyze.",
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, refreshHistoryCmd(m.hist)}
	if m.initialURL != "" {
		cmds = append(cmds, m.spin.Tick, submitCmd(m.run, m.initialURL))
	}
	return tea.Batch(cmds...)
}

func submitCmd(run *runner.Runner, url string) tea.Cmd {
	return func() tea.Msg {
		jc, err := run.Submit(context.Background(), url)
		return submittedMsg{jc: jc, err: err}
	}
}

func refreshHistoryCmd(hist *history.Cache) tea.Cmd {
	return func() tea.Msg {
		if hist == nil {
			return historyMsg{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		entries, err := hist.Refresh(ctx)
		return historyMsg{rows: render.BuildHistory(entries), err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizePanels()
		return m, nil

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case submittedMsg:
		if msg.err != nil {
			m.running = false
			m.errorText = "Submission failed: " + msg.err.Error()
			m.statusText = "Idle"
			return m, nil
		}
		m.jc = msg.jc
		m.running = true
		m.errorText = ""
		m.progressPn = 0
		m.logBuf = nil
		m.urlInput.Reset()
		m.logs.SetContent("")
		m.report.SetContent("Analysis in progress...")
		m.statusText = fmt.Sprintf("Job %s submitted", shortID(msg.jc.Job.ID))
		return m, tea.Batch(m.spin.Tick, refreshHistoryCmd(m.hist))

	case StatusMsg:
		m.progressPn = float64(msg.Update.Progress) / 100.0
		text := string(msg.Update.Status)
		if msg.Update.Message != "" {
			text += ": " + msg.Update.Message
		}
		m.statusText = text
		return m, nil

	case LogsMsg:
		for _, line := range msg.Lines {
			m.logBuf = append(m.logBuf, render.StyledLog(line))
		}
		atBottom := m.logs.AtBottom()
		m.logs.SetContent(strings.Join(m.logBuf, "\n"))
		if atBottom {
			m.logs.GotoBottom()
		}
		return m, nil

	case ResultMsg:
		m.running = false
		m.progressPn = 1
		m.report.SetContent(renderReport(msg.Result))
		m.statusText = "Analysis complete"
		return m, refreshHistoryCmd(m.hist)

	case FailedMsg:
		m.running = false
		m.errorText = msg.Message
		m.report.SetContent("No report: the job failed.")
		m.statusText = "Job failed"
		return m, refreshHistoryCmd(m.hist)

	case LoadErrMsg:
		m.running = false
		m.errorText = "Could not load results: " + msg.Err.Error()
		m.statusText = "Results unavailable"
		return m, refreshHistoryCmd(m.hist)

	case PollErrMsg:
		// transient; keep the last good state on screen
		m.statusText = "Poll error (retrying): " + msg.Err.Error()
		return m, nil

	case historyMsg:
		if msg.err != nil && len(msg.rows) == 0 {
			m.histView.SetContent("History unavailable: " + msg.err.Error())
			return m, nil
		}
		m.histView.SetContent(renderHistoryRows(msg.rows))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.focusPane == paneInput && msg.String() == "q" {
				break
			}
			if m.jc != nil {
				m.jc.Cancel()
			}
			return m, tea.Quit
		case "tab":
			m.focusPane = (m.focusPane + 1) % 4
			m.applyFocusState()
			return m, nil
		case "shift+tab", "backtab":
			m.focusPane = (m.focusPane + 3) % 4
			m.applyFocusState()
			return m, nil
		case "ctrl+x":
			if m.jc == nil || !m.running {
				m.errorText = "No active job to cancel."
				return m, nil
			}
			m.jc.Cancel()
			m.running = false
			m.statusText = "Job cancelled"
			m.errorText = ""
			return m, nil
		case "r":
			if m.focusPane != paneInput {
				m.histView.SetContent("Refreshing history...")
				return m, refreshHistoryCmd(m.hist)
			}
		case "enter":
			if m.focusPane == paneInput {
				url := strings.TrimSpace(m.urlInput.Value())
				if url == "" {
					m.errorText = "URL must not be empty."
					return m, nil
				}
				if m.running {
					m.statusText = "Superseding active job..."
				}
				m.errorText = ""
				m.statusText = "Submitting..."
				m.running = true
				return m, tea.Batch(m.spin.Tick, submitCmd(m.run, url))
			}
		}

		switch m.focusPane {
		case paneInput:
			var cmd tea.Cmd
			m.urlInput, cmd = m.urlInput.Update(msg)
			return m, cmd
		case paneLogs:
			var cmd tea.Cmd
			m.logs, cmd = m.logs.Update(msg)
			return m, cmd
		case paneReport:
			var cmd tea.Cmd
			m.report, cmd = m.report.Update(msg)
			return m, cmd
		case paneHistory:
			var cmd tea.Cmd
			m.histView, cmd = m.histView.Update(msg)
			return m, cmd
		}

	case tea.MouseMsg:
		switch m.focusPane {
		case paneLogs:
			var cmd tea.Cmd
			m.logs, cmd = m.logs.Update(msg)
			return m, cmd
		case paneReport:
			var cmd tea.Cmd
			m.report, cmd = m.report.Update(msg)
			return m, cmd
		case paneHistory:
			var cmd tea.Cmd
			m.histView, cmd = m.histView.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "Starting tradecheck watch..."
	}

	header := headerStyle.Render("tradecheck watch")

	statusPrefix := "*"
	if m.running {
		statusPrefix = m.spin.View()
	}
	statusLine := statusStyle.Render(statusPrefix + " " + m.statusText)
	if m.errorText != "" {
		statusLine = errorStyle.Render("✗ " + m.errorText)
	}

	progressLine := ""
	if m.running || m.progressPn > 0 {
		progressLine = m.prog.ViewAs(m.progressPn)
	}

	inputPanel := renderPanel("Supplier URL", m.urlInput.View(), m.focusPane == paneInput)
	logsPanel := renderPanel("Job Logs", m.logs.View(), m.focusPane == paneLogs)
	reportPanel := renderPanel("Report", m.report.View(), m.focusPane == paneReport)
	histPanel := renderPanel("History", m.histView.View(), m.focusPane == paneHistory)

	bottom := lipgloss.JoinHorizontal(lipgloss.Top, reportPanel, histPanel)

	parts := []string{header, statusLine}
	if progressLine != "" {
		parts = append(parts, progressLine)
	}
	parts = append(parts, inputPanel, logsPanel, bottom)
	parts = append(parts, helpStyle.Render("enter submit | ctrl+x cancel job | tab cycle panes | r refresh history | ctrl+c quit"))

	return strings.Join(parts, "\n")
}

func (m *Model) applyFocusState() {
	if m.focusPane == paneInput {
		m.urlInput.Focus()
	} else {
		m.urlInput.Blur()
	}
}

func (m *Model) resizePanels() {
	inner := m.width - 4
	if inner < 40 {
		inner = 40
	}
	m.urlInput.Width = inner - 4
	m.logs.Width = inner
	m.prog.Width = inner

	half := inner/2 - 2
	if half < 30 {
		half = 30
	}
	m.report.Width = half
	m.histView.Width = half

	body := m.height - 12
	if body < 12 {
		body = 12
	}
	m.logs.Height = body / 2
	m.report.Height = body - body/2
	m.histView.Height = body - body/2
}

func renderPanel(title, body string, focused bool) string {
	style := panelStyle
	if focused {
		style = focusedPanelStyle
	}
	return style.Render(panelTitleStyle.Render(title) + "\n" + body)
}

func renderReport(res *model.Result) string {
	var buf bytes.Buffer
	w := render.NewWriter(&buf, false)
	w.WriteReport(render.BuildReport(res))
	return buf.String()
}

func renderHistoryRows(rows []render.HistoryRow) string {
	if len(rows) == 0 {
		return "No previous analyses."
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		line := fmt.Sprintf("%s  %-10s  %s", row.CreatedAt, row.Status, row.URL)
		if row.CanView {
			line = lipgloss.NewStyle().Foreground(accentPrimary).Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
