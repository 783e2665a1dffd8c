package footer

import (
	"fmt"
	"path/filepath"

	"chartmeasure/geom"
	"chartmeasure/measure"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	barStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252"))
	promptStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("214")).
			Bold(true)
)

// Model is the one-line status bar under the message log.
type Model struct {
	width  int
	chart  string
	zoom   float64
	cursor geom.Point
	status measure.Status
}

// New creates a footer. chart may be empty when no basemap is loaded.
func New(chart string) Model {
	name := "no chart"
	if chart != "" {
		name = filepath.Base(chart)
	}
	return Model{width: 80, chart: name, zoom: 1}
}

func (m *Model) SetZoom(z float64)          { m.zoom = z }
func (m *Model) SetCursor(p geom.Point)     { m.cursor = p }
func (m *Model) SetStatus(s measure.Status) { m.status = s }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = ws.Width
	}
	return m, nil
}

func (m Model) left() string {
	return fmt.Sprintf(" %s | zoom %.2fx | cursor %.1f,%.1f", m.chart, m.zoom, m.cursor.X, m.cursor.Y)
}

// right shows the current step, or the key help when nothing is in progress.
func (m Model) right() string {
	if m.status.Phase != measure.Idle {
		return m.status.Prompt + " "
	}
	return "n north  s scale  m measure  v variance  o overlay  e export  q quit "
}

func (m Model) View() string {
	left := barStyle.Render(m.left())
	right := promptStyle.Render(m.right())

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		// Prompt wins over the chart details when space runs out
		return barStyle.Width(m.width).MaxWidth(m.width).Render(m.right())
	}
	return left + barStyle.Render(fmt.Sprintf("%*s", gap, "")) + right
}
