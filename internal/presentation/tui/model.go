// Package tui renders a running session in the terminal and forwards operator
// keys to it.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"example.com/balancetrainer/internal/domain"
	"example.com/balancetrainer/internal/presentation"
	"example.com/balancetrainer/internal/session"
)

// Session is the part of the runner the terminal display uses.
type Session interface {
	Push(session.Event)
	Snapshot() session.Snapshot
}

// ViewMsg carries a new board view into the program.
type ViewMsg presentation.View

// DoneMsg tells the program the session has finished.
type DoneMsg struct{}

var (
	colorText    = lipgloss.Color("#cdd6f4")
	colorSubtext = lipgloss.Color("#a6adc8")
	colorGreen   = lipgloss.Color("#a6e3a1")
	colorRed     = lipgloss.Color("#f38ba8")
	colorPeach   = lipgloss.Color("#fab387")

	countdownStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorPeach).Padding(0, 2)
	instructionStyle = lipgloss.NewStyle().Foreground(colorText)
	statusStyle      = lipgloss.NewStyle().Foreground(colorSubtext)
	footStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Model is the bubbletea model of the session display.
type Model struct {
	session Session
	view    presentation.View
	done    bool
}

// New returns a model bound to s showing initial.
func New(s Session, initial presentation.View) Model {
	return Model{session: s, view: initial}
}

// Attach forwards every board change and the end of the session to p.
func Attach(p *tea.Program, board *presentation.Board, done <-chan struct{}) {
	board.Subscribe(func(v presentation.View) { p.Send(ViewMsg(v)) })
	go func() {
		<-done
		p.Send(DoneMsg{})
	}()
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ViewMsg:
		m.view = presentation.View(msg)
	case DoneMsg:
		m.done = true
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "r":
		m.session.Push(session.RestartRequested{})
	case "p":
		m.session.Push(session.PreparationConfirmed{})
	case "c":
		connected := m.session.Snapshot().ClientConnected
		m.session.Push(session.ClientStatus{Connected: !connected})
	case "1", "2", "3", "4", "5", "6", "7":
		zone := domain.ZoneCode(key[0] - '0')
		m.session.Push(session.ZoneReported{Zone: zone, Foot: m.reportFoot()})
	}
	return m, nil
}

// reportFoot attributes simulated zone reports to the standing foot.
func (m Model) reportFoot() domain.Foot {
	switch m.view.ActiveFoot {
	case string(domain.LegLeft):
		return domain.FootLeft
	case string(domain.LegRight):
		return domain.FootRight
	default:
		return domain.FootBoth
	}
}

func (m Model) View() string {
	snap := m.session.Snapshot()

	var b strings.Builder
	status := fmt.Sprintf("session %s  phase %s  rep %d  configs %d",
		shortID(snap.SessionID), snap.Phase, snap.Repetition, snap.Configs)
	if m.done {
		status += "  (finished)"
	}
	b.WriteString(statusStyle.Render(status))
	b.WriteString("\n\n")
	b.WriteString(countdownStyle.Render(m.view.Countdown))
	b.WriteString(instructionStyle.Render(m.view.Instruction))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		renderFoot("L", m.view.Left),
		" ",
		renderFoot("R", m.view.Right),
	))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render("1-7 zone  r restart  p preparation  c connect  q quit"))
	b.WriteString("\n")
	return b.String()
}

func renderFoot(label string, foot presentation.FootView) string {
	edge := func(c presentation.Color, s string) string {
		color := colorGreen
		if c == presentation.Red {
			color = colorRed
		}
		return lipgloss.NewStyle().Foreground(color).Render(s)
	}
	g := foot.Gradient
	body := fmt.Sprintf(" %s \n%s %s %s\n %s ",
		edge(g.Top, "▲"),
		edge(g.Left, "◀"), label, edge(g.Right, "▶"),
		edge(g.Bottom, "▼"),
	)
	style := footStyle.BorderForeground(colorSubtext)
	if foot.Active {
		style = style.BorderForeground(colorPeach)
	}
	return style.Render(body)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
