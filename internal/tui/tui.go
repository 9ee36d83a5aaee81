// Package tui provides a Bubble Tea terminal user interface for packgrab.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/quillon/packgrab/internal/config"
	"github.com/quillon/packgrab/internal/curse"
	pghttp "github.com/quillon/packgrab/internal/http"
	"github.com/quillon/packgrab/internal/install"
	"github.com/quillon/packgrab/internal/key"
	"github.com/quillon/packgrab/internal/model"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8B500")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateRunning
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   model.ProgressLevel
}

// logBuffer collects progress events from installer goroutines. The UI
// polls it on each tick rather than receiving events directly.
type logBuffer struct {
	mu      sync.Mutex
	entries []LogEntry
}

func (l *logBuffer) append(e LogEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
	if len(l.entries) > 10 {
		l.entries = l.entries[len(l.entries)-10:]
	}
}

func (l *logBuffer) snapshot() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	packInput textinput.Model
	dirInput  textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []LogEntry
	logBuf    *logBuffer
	report    *model.InstallationReport
	err       error

	// Install context
	ctx    context.Context
	cancel context.CancelFunc

	// Installer reference, polled for progress while running
	installer *install.Installer

	// Snapshot of the installer's counters
	filesDone  int32
	filesTotal int32
	bytesRecv  int64
	bytesTotal int64

	// Options
	overrides bool
	verbose   bool

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(settings *config.Settings) Model {
	pi := textinput.New()
	pi.Placeholder = "/path/to/modpack.zip"
	pi.Focus()
	pi.CharLimit = 500
	pi.Width = 60

	di := textinput.New()
	di.Placeholder = "install directory (default: current directory)"
	di.CharLimit = 500
	di.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#F8B500"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		packInput: pi,
		dirInput:  di,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		logBuf:    &logBuffer{},
		overrides: settings.ExtractOverrides,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// InstallDoneMsg is sent when the install run finishes.
	InstallDoneMsg struct {
		Report *model.InstallationReport
		Err    error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateRunning {
				m.cancel()
			}

		case "tab":
			if m.state == StateInput {
				if m.packInput.Focused() {
					m.packInput.Blur()
					m.dirInput.Focus()
				} else {
					m.dirInput.Blur()
					m.packInput.Focus()
				}
			}

		case "enter":
			if m.state == StateInput && m.packInput.Value() != "" {
				m.state = StateRunning
				return m, tea.Batch(m.runInstall(), m.tickProgress(), m.spinner.Tick)
			}

		case "ctrl+o":
			if m.state == StateInput {
				m.overrides = !m.overrides
			}

		case "ctrl+v":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for a new run
				m.state = StateInput
				m.logs = nil
				m.logBuf = &logBuffer{}
				m.report = nil
				m.err = nil
				m.installer = nil
				m.filesDone, m.filesTotal = 0, 0
				m.bytesRecv, m.bytesTotal = 0, 0
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.packInput.SetValue("")
				m.packInput.Focus()
				m.dirInput.Blur()
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case InstallDoneMsg:
		m.report = msg.Report
		m.syncProgress()
		if msg.Err != nil && m.ctx.Err() == nil {
			m.state = StateError
			m.err = msg.Err
		} else if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else {
			m.state = StateComplete
		}

	case TickMsg:
		if m.state == StateRunning {
			m.syncProgress()
			m.logs = m.logBuf.snapshot()

			var percent float64
			if m.filesTotal > 0 {
				percent = float64(m.filesDone) / float64(m.filesTotal)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text inputs
	if m.state == StateInput {
		var cmd tea.Cmd
		m.packInput, cmd = m.packInput.Update(msg)
		cmds = append(cmds, cmd)
		m.dirInput, cmd = m.dirInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) syncProgress() {
	if m.installer == nil {
		return
	}
	m.filesDone, m.filesTotal, m.bytesRecv, m.bytesTotal = m.installer.Progress()
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("packgrab"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Install modpack archives"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateRunning:
		b.WriteString(m.viewRunning())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Pack archive:"))
	b.WriteString("\n")
	b.WriteString(m.packInput.View())
	b.WriteString("\n\n")
	b.WriteString(subtitleStyle.Render("Install to:"))
	b.WriteString("\n")
	b.WriteString(m.dirInput.View())
	b.WriteString("\n\n")

	overridesCheck := "[ ]"
	if m.overrides {
		overridesCheck = "[x]"
	}
	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[x]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Extract overrides (ctrl+o)\n", overridesCheck))
	b.WriteString(fmt.Sprintf("  %s Verbose output (ctrl+v)\n", verboseCheck))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Key file: %s", m.settings.KeyFile)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewRunning() string {
	var b strings.Builder

	// Before the resolution phase finishes the file total is unknown;
	// show the spinner instead of an empty bar.
	if m.filesTotal == 0 {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(subtitleStyle.Render("Resolving mods..."))
		b.WriteString("\n\n")
	} else {
		var percent float64
		if m.filesTotal > 0 {
			percent = float64(m.filesDone) / float64(m.filesTotal)
		}
		b.WriteString(m.progress.ViewAs(percent))
		b.WriteString("\n")
		b.WriteString(infoStyle.Render(fmt.Sprintf(
			"Files: %d/%d | Downloaded: %.2f MB",
			m.filesDone,
			m.filesTotal,
			float64(m.bytesRecv)/1024/1024,
		)))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	if m.report == nil {
		return boxStyle.Render("Done")
	}

	summary := fmt.Sprintf(
		"Installed %s\n\n"+
			"Downloaded: %d\n"+
			"Blocked:    %d\n"+
			"Failed:     %d\n"+
			"Overrides:  %d files",
		m.report.PackName,
		len(m.report.Succeeded),
		len(m.report.Blocked),
		len(m.report.Failed),
		m.report.OverridesExtracted,
	)
	b.WriteString(boxStyle.Render(summary))
	b.WriteString("\n")

	for _, blocked := range m.report.Blocked {
		b.WriteString(warningStyle.Render(fmt.Sprintf("  blocked: %s (%s)", blocked.Reference, blocked.Reason)))
		b.WriteString("\n")
	}
	for _, failed := range m.report.Failed {
		b.WriteString(errorStyle.Render(fmt.Sprintf("  failed: %s: %s", failed.ResolvedFile.FileName, failed.Error)))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case model.LevelError:
			style = errorStyle
			prefix = "✗"
		case model.LevelWarning:
			style = warningStyle
			prefix = "!"
		case model.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case model.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: install • tab: switch field • ctrl+o: overrides • ctrl+v: verbose • esc: quit"
	case StateRunning:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new install • q: quit"
	}
	return ""
}

// runInstall runs the full pipeline in the background. The UI polls the
// installer's counters and the log buffer on each tick.
func (m *Model) runInstall() tea.Cmd {
	packPath := m.packInput.Value()
	targetDir := m.dirInput.Value()
	if targetDir == "" {
		targetDir = "."
	}

	settings := *m.settings
	settings.ExtractOverrides = m.overrides
	verbose := m.verbose
	buf := m.logBuf

	apiKey, err := key.Provider{File: settings.KeyFile}.Get()
	if err != nil {
		return func() tea.Msg { return InstallDoneMsg{Err: err} }
	}

	opts := pghttp.Options{
		Timeout:   settings.HTTPTimeout(),
		UserAgent: settings.UserAgent,
		APIKey:    apiKey,
	}
	httpClient := pghttp.NewClient(opts)
	api := curse.NewClient(httpClient, curse.Options{
		MaxRetries:    settings.MaxRetries,
		RetryCooldown: settings.RetryCooldown,
		RetryExponent: settings.RetryExponent,
	})

	onProgress := func(event model.ProgressEvent) {
		if event.Level == model.LevelVerbose && !verbose {
			return
		}
		buf.append(LogEntry{Message: event.Message, Level: event.Level})
	}

	installer := install.New(httpClient, api, &settings, onProgress)
	m.installer = installer
	ctx := m.ctx

	return func() tea.Msg {
		report, err := installer.Install(ctx, packPath, targetDir)
		return InstallDoneMsg{Report: report, Err: err}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
