// Package display provides the terminal UI using Bubble Tea.
//
// The [UI] type manages a persistent status bar at the bottom of the
// terminal showing whether dictation is idle, listening, or typing.
// Transcript lines are printed above the rendered area via
// Program.Println, ensuring concurrent writes never garble the
// display.
package display

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/ottotype/internal/domain"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	barBg = lipgloss.NewStyle().
		Background(lipgloss.Color("#27272a")).
		Foreground(lipgloss.Color("#a1a1aa"))

	idleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5"))

	listeningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0"))

	processingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a"))

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	sepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b"))

	// BannerStyle — muted slate for the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	// Transcript text — light zinc.
	transcriptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	// Secondary text — dimmed zinc for hints, saved-file notices.
	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	urgentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5"))
)

// ── UI ───────────────────────────────────────────────────────────

// Hooks are the actions the UI can trigger. Nil hooks render as
// disabled.
type Hooks struct {
	OnToggle func() // space — start/stop dictation
	OnSave   func() // s — save the transcript to a file
	OnClear  func() // c — clear the scrollback record
}

// Compile-time interface check.
var _ domain.StatusNotifier = (*UI)(nil)

// UI manages the terminal through Bubble Tea.
//
// Call [NewUI] then [UI.Run] (blocking). Other goroutines may safely
// call [UI.Println], [UI.Printf], and [UI.StatusChanged] at any time
// after [UI.WaitReady] returns.
type UI struct {
	program *tea.Program
	hooks   Hooks
	readyCh chan struct{}
	quitCh  chan struct{}
	done    atomic.Bool
}

// NewUI creates the display. Call Run() to start.
func NewUI(hooks Hooks) *UI {
	return &UI{
		hooks:   hooks,
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}
}

// Println prints a line above the status bar. Thread-safe. If the
// program hasn't started yet, falls back to fmt.Println.
func (u *UI) Println(a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Println(a...)
	} else {
		fmt.Println(a...)
	}
}

// Printf prints formatted text above the status bar. Thread-safe.
func (u *UI) Printf(format string, a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Printf(format, a...)
	} else {
		fmt.Printf(format, a...)
	}
}

// ── Styled print helpers ─────────────────────────────────────────

// PrintTranscript prints one dictated line into the scrollback.
func (u *UI) PrintTranscript(text string) {
	u.Println(transcriptStyle.Render("  " + text))
}

// PrintHint prints a secondary/dimmed line.
func (u *UI) PrintHint(text string) {
	u.Println(secondaryStyle.Render("  " + text))
}

// PrintUrgent prints an error line.
func (u *UI) PrintUrgent(text string) {
	u.Println(urgentStyle.Render("  " + text))
}

// StatusChanged updates the status bar. Safe to call from any
// goroutine.
func (u *UI) StatusChanged(status domain.Status) {
	if u.program != nil && !u.done.Load() {
		u.program.Send(statusMsg(status))
	}
}

// WaitReady blocks until the Bubble Tea event loop is running.
func (u *UI) WaitReady() { <-u.readyCh }

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() {
	if u.program != nil {
		u.program.Quit()
	}
}

// QuitChan is closed when Run returns.
func (u *UI) QuitChan() <-chan struct{} { return u.quitCh }

// Run starts the Bubble Tea event loop. Blocks until quit.
func (u *UI) Run() error {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = listeningStyle

	m := model{
		hooks:   u.hooks,
		readyCh: u.readyCh,
		status:  domain.StatusIdle,
		spin:    sp,
	}

	u.program = tea.NewProgram(m)
	_, err := u.program.Run()
	u.done.Store(true)
	close(u.quitCh)
	return err
}

// ── Bubble Tea model ─────────────────────────────────────────────

type model struct {
	hooks   Hooks
	readyCh chan struct{}
	status  domain.Status
	spin    spinner.Model
	width   int
}

type statusMsg domain.Status

func (m model) Init() tea.Cmd {
	return signalReady(m.readyCh)
}

func signalReady(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		close(ch)
		return nil
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case " ":
			if m.hooks.OnToggle != nil {
				return m, runHook(m.hooks.OnToggle)
			}
		case "s":
			if m.hooks.OnSave != nil {
				return m, runHook(m.hooks.OnSave)
			}
		case "c":
			if m.hooks.OnClear != nil {
				return m, runHook(m.hooks.OnClear)
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case statusMsg:
		prev := m.status
		m.status = domain.Status(msg)
		cmds := []tea.Cmd{tea.SetWindowTitle("OttoType — " + m.status.String())}
		// Kick the spinner off when leaving idle; it stops on its own
		// when the bar no longer consumes tick messages.
		if prev == domain.StatusIdle && m.status != domain.StatusIdle {
			cmds = append(cmds, m.spin.Tick)
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		if m.status == domain.StatusIdle {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

// runHook runs a callback as a Cmd so it executes outside Update and
// cannot deadlock against program.Send.
func runHook(fn func()) tea.Cmd {
	return func() tea.Msg {
		fn()
		return nil
	}
}

func (m model) View() string {
	var b strings.Builder
	b.WriteByte('\n')
	b.WriteString(m.renderBar())
	return b.String()
}

func (m model) renderBar() string {
	var indicator string
	switch m.status {
	case domain.StatusListening:
		indicator = m.spin.View() + listeningStyle.Render("Listening")
	case domain.StatusProcessing:
		indicator = processingStyle.Render("● Typing")
	default:
		indicator = idleStyle.Render("● Idle")
	}

	keys := keyStyle.Render("space") + " toggle" +
		sepStyle.Render("  │  ") + keyStyle.Render("s") + " save" +
		sepStyle.Render("  │  ") + keyStyle.Render("c") + " clear" +
		sepStyle.Render("  │  ") + keyStyle.Render("q") + " quit"

	content := " " + indicator + sepStyle.Render("  │  ") + keys + " "

	w := m.width
	if w <= 0 {
		w = 80
	}
	return barBg.Width(w).Render(content)
}
