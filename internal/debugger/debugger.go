// Package debugger implements the interactive Core War front end: a
// bubbletea/lipgloss TUI grounded directly on cpu/debugger.go's
// model/Init/Update/View triptych, driving a *mars.Round through Step,
// ReadCell, Queues, Cycle and Done only — its public API, never an
// internal field. It is deliberately its own package, outside mars/core/
// redcode, so it can be deleted without touching engine semantics.
package debugger

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"corewar/config"
	"corewar/mars"
	"corewar/point"
)

type model struct {
	round    *mars.Round
	warriors []mars.WarriorSource
	cfg      config.Config

	cursor  point.Point // top-left of the visible core window
	lastRes mars.CycleResult
	err     error
}

const (
	pageWidth = 16
	pageCount = 10
)

func newModel(cfg config.Config, warriors []mars.WarriorSource) (model, error) {
	round, err := mars.NewRound(cfg, warriors, nil)
	if err != nil {
		return model{}, err
	}
	return model{round: round, warriors: warriors, cfg: cfg}, nil
}

// Run parses nothing itself: it takes already-loaded warrior sources and
// configuration, builds a Round, and starts the interactive loop. It is
// the hand-off target for cmd/mars's --paused flag and cmd/marsdbg's
// standalone entry point.
func Run(cfg config.Config, warriors []mars.WarriorSource) error {
	m, err := newModel(cfg, warriors)
	if err != nil {
		return err
	}
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "j":
			if !m.round.Done() {
				m.lastRes = m.round.Step()
			}
		case "r": // run to completion or the cycle cap
			for !m.round.Done() {
				m.lastRes = m.round.Step()
			}
		case "right", "l":
			m.cursor.X += pageWidth
		case "left", "h":
			m.cursor.X -= pageWidth
		}
	}
	return m, nil
}

func (m model) renderPage(start point.Point) string {
	s := fmt.Sprintf("%5s | ", start)
	for i := 0; i < pageWidth; i++ {
		p := point.Point{X: start.X + i, Y: start.Y}
		ins := m.round.ReadCell(p)
		if isQueued(m.round, p) {
			s += fmt.Sprintf("[%-9s] ", ins.Op)
		} else {
			s += fmt.Sprintf(" %-9s  ", ins.Op)
		}
	}
	return s
}

func isQueued(r *mars.Round, p point.Point) bool {
	for _, q := range r.Queues() {
		for _, qp := range q {
			if qp.Equal(p) {
				return true
			}
		}
	}
	return false
}

func (m model) pageTable() string {
	header := "addr  | "
	for i := 0; i < pageWidth; i++ {
		header += fmt.Sprintf("  %2d  ", i)
	}
	lines := []string{header}
	for page := 0; page < pageCount; page++ {
		start := point.Point{X: m.cursor.X + page*pageWidth, Y: m.cursor.Y}
		lines = append(lines, m.renderPage(start))
	}
	return strings.Join(lines, "\n")
}

func (m model) status() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cycle: %d\n", m.round.Cycle())
	for _, w := range m.warriors {
		fmt.Fprintf(&b, "%s\n", w.Label)
	}
	if m.round.Done() {
		fmt.Fprintf(&b, "\n%s\n", outcomeString(m.lastRes, m.warriors))
	}
	return b.String()
}

func outcomeString(res mars.CycleResult, warriors []mars.WarriorSource) string {
	switch {
	case res.Tied:
		return "tie"
	case res.Winner >= 0 && res.Winner < len(warriors):
		return fmt.Sprintf("%s wins", warriors[res.Winner].Label)
	default:
		return "running"
	}
}

func (m model) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, m.pageTable(), "   "+strings.ReplaceAll(m.status(), "\n", "\n   ")),
		"",
		spew.Sdump(m.round.Queues()),
	)
}
