// Package tui renders the scratchpad as a full-screen textarea with a
// status line, driven by a core.Session.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/whiteash/scratchpad/pkg/core"
)

// flushTimeout bounds the synchronous write on save, suspend and quit.
const flushTimeout = 2 * time.Second

type loadedMsg struct {
	content string
	theme   core.Theme
}

type loadFailedMsg struct {
	err error
}

// sessionMsg wraps a session event for the Bubble Tea loop.
type sessionMsg core.SessionEvent

type keyMap struct {
	Save    key.Binding
	Theme   key.Binding
	Suspend key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Save:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save now")),
		Theme:   key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "theme")),
		Suspend: key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "suspend")),
		Quit:    key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
}

// Model is the Bubble Tea model for the editor view.
type Model struct {
	pad    *core.Session
	keys   keyMap
	styles styles
	theme  core.Theme

	ta     textarea.Model
	width  int
	height int

	ready    bool
	loadErr  error
	status   core.Status
	alert    core.Alert
	alertErr error
}

// NewModel builds the editor over a session that has not been loaded
// yet; Init performs the load.
func NewModel(pad *core.Session) Model {
	ta := textarea.New()
	ta.Placeholder = "Jot something down..."
	ta.Prompt = ""
	ta.ShowLineNumbers = false
	ta.CharLimit = 0

	m := Model{
		pad:    pad,
		keys:   defaultKeyMap(),
		ta:     ta,
		status: core.StatusIdle,
	}
	m.applyTheme(core.ThemeLight)
	return m
}

// Run drives the editor until the user quits. The session is flushed on
// the way out.
func Run(pad *core.Session) error {
	p := tea.NewProgram(NewModel(pad), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.waitCmd(), textarea.Blink)
}

// loadCmd probes the storage and reads the note off the event loop.
func (m Model) loadCmd() tea.Cmd {
	pad := m.pad
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := pad.Load(ctx); err != nil {
			return loadFailedMsg{err: err}
		}
		return loadedMsg{content: pad.Content(), theme: pad.Theme(ctx)}
	}
}

// waitCmd blocks on the next session event. It is re-armed after every
// delivery.
func (m Model) waitCmd() tea.Cmd {
	events := m.pad.Events()
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return sessionMsg(ev)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case loadedMsg:
		m.ready = true
		m.applyTheme(msg.theme)
		m.ta.SetValue(msg.content)
		m.status = m.pad.Status()
		return m, m.ta.Focus()

	case loadFailedMsg:
		m.loadErr = msg.err
		return m, nil

	case sessionMsg:
		ev := core.SessionEvent(msg)
		switch ev.Kind {
		case core.SessionStatus:
			m.status = ev.Status
			if ev.Status == core.StatusSaved {
				m.alert = ""
				m.alertErr = nil
			}
		case core.SessionContent:
			// Another instance changed the note; its value wins.
			if ev.Content != m.ta.Value() {
				m.ta.SetValue(ev.Content)
			}
		case core.SessionAlert:
			m.alert = ev.Alert
			m.alertErr = ev.Err
		}
		return m, m.waitCmd()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.flush()
			return m, tea.Quit

		case key.Matches(msg, m.keys.Save):
			m.flush()
			return m, nil

		case key.Matches(msg, m.keys.Theme):
			next := m.theme.Toggle()
			ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
			err := m.pad.SetTheme(ctx, next)
			cancel()
			if err == nil {
				m.applyTheme(next)
			}
			return m, nil

		case key.Matches(msg, m.keys.Suspend):
			m.flush()
			return m, tea.Suspend
		}
	}

	if !m.ready {
		return m, nil
	}

	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	m.pad.SetContent(m.ta.Value())
	return m, cmd
}

func (m Model) View() string {
	if m.loadErr != nil {
		return m.styles.alert.Render("Storage unavailable: "+m.loadErr.Error()) +
			"\n\n" + m.styles.help.Render("press esc to quit") + "\n"
	}
	if !m.ready {
		return m.styles.subtle.Render("Opening scratchpad...")
	}

	var b strings.Builder
	b.WriteString(m.ta.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	if line := m.alertLine(); line != "" {
		b.WriteString("\n")
		b.WriteString(line)
	}
	return b.String()
}

func (m Model) statusLine() string {
	var status string
	switch m.status {
	case core.StatusSaving:
		status = m.styles.saving.Render("● saving")
	case core.StatusSaved:
		status = m.styles.saved.Render("✔ saved")
	case core.StatusError:
		status = m.styles.errText.Render("✖ not saved")
	default:
		status = m.styles.subtle.Render("· idle")
	}

	help := m.styles.help.Render("ctrl+s save · ctrl+t theme · esc quit")
	gap := m.width - lipgloss.Width(status) - lipgloss.Width(help)
	if gap < 1 {
		gap = 1
	}
	return status + strings.Repeat(" ", gap) + help
}

func (m Model) alertLine() string {
	switch m.alert {
	case core.AlertQuotaExceeded:
		return m.styles.alert.Render("Not saved: the note exceeds the storage quota. Trim it down.")
	case core.AlertUnavailable:
		return m.styles.alert.Render("Storage unavailable: changes are not being saved.")
	default:
		return ""
	}
}

// flush pushes any pending write through before suspend or exit.
// Failures surface through the session's own status events.
func (m Model) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	_ = m.pad.Flush(ctx)
}

func (m *Model) applyTheme(t core.Theme) {
	m.theme = t
	m.styles = stylesFor(t)
	m.ta.FocusedStyle.Placeholder = m.styles.placeholder
	m.ta.FocusedStyle.CursorLine = m.styles.cursorLine
	m.ta.FocusedStyle.Text = m.styles.text
	m.ta.BlurredStyle.Placeholder = m.styles.placeholder
	m.ta.BlurredStyle.Text = m.styles.text
}

func (m *Model) resize() {
	if m.width <= 0 {
		return
	}
	m.ta.SetWidth(m.width)
	h := m.height - 2 // status line plus a spare row for alerts
	if h < 3 {
		h = 3
	}
	m.ta.SetHeight(h)
}
