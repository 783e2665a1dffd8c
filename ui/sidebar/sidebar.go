package sidebar

import (
	"fmt"
	"strings"

	"chartmeasure/geom"
	"chartmeasure/measure"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	okStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	selStyle = lipgloss.NewStyle().Reverse(true)
)

// Model holds the sidebar's state
type Model struct {
	width  int
	height int

	status       measure.Status
	measurements []measure.Measurement
	selected     int // measurement id, 0 for none
}

// New creates a new sidebar model
func New() Model {
	return Model{
		width:  32, // Default
		height: 24, // Default
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// SetSnapshot refreshes the calibration block and measurement list. The
// selection moves to the newest measurement when the old one is gone.
func (m *Model) SetSnapshot(snap measure.Snapshot) {
	m.status = snap.Status
	m.measurements = snap.Measurements
	if m.indexOf(m.selected) < 0 {
		m.selected = 0
		if n := len(m.measurements); n > 0 {
			m.selected = m.measurements[n-1].ID
		}
	}
}

// Selected returns the selected measurement id, 0 if none.
func (m Model) Selected() int { return m.selected }

// SelectNext moves the selection down the list.
func (m *Model) SelectNext() { m.step(1) }

// SelectPrev moves the selection up the list.
func (m *Model) SelectPrev() { m.step(-1) }

func (m *Model) step(d int) {
	n := len(m.measurements)
	if n == 0 {
		m.selected = 0
		return
	}
	i := m.indexOf(m.selected)
	if i < 0 {
		i = n - 1
	} else {
		i = (i + d + n) % n
	}
	m.selected = m.measurements[i].ID
}

func (m Model) indexOf(id int) int {
	for i, ms := range m.measurements {
		if ms.ID == id {
			return i
		}
	}
	return -1
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func northText(st measure.Status) string {
	switch {
	case st.NorthCustomCalibrated:
		return okStyle.Render(fmt.Sprintf("Custom %.1f° ✓", st.NorthOffset))
	case st.NorthCalibrated:
		return okStyle.Render("Default (up)")
	}
	return dimStyle.Render("Not calibrated")
}

func scaleText(st measure.Status) string {
	if st.ScaleCalibrated {
		return okStyle.Render(fmt.Sprintf("%s ✓", geom.FormatDistance(st.ScaleNauticalMiles)))
	}
	return dimStyle.Render("Not calibrated")
}

func varianceText(st measure.Status) string {
	if st.MagneticVarianceSet {
		return okStyle.Render(geom.FormatVariance(st.MagneticVariance) + " ✓")
	}
	return dimStyle.Render("Not set")
}

// lines builds the sidebar body, at most limit lines.
func (m Model) lines(inner, limit int) []string {
	header := lipgloss.NewStyle().Bold(true).Underline(true)

	out := []string{
		header.Render("Calibration"),
		"North: " + northText(m.status),
		"Scale: " + scaleText(m.status),
		"Var:   " + varianceText(m.status),
		"",
		header.Render(fmt.Sprintf("Measurements (%d)", len(m.measurements))),
	}

	room := limit - len(out)
	if room <= 0 {
		return out[:limit]
	}

	// Keep the selection in view: show the window of the list ending at it.
	list := m.measurements
	if len(list) > room {
		end := m.indexOf(m.selected) + 1
		if end < room {
			end = room
		}
		list = list[end-room : end]
	}
	for _, ms := range list {
		line := fmt.Sprintf("#%d %s", ms.ID, ms.Label)
		if r := []rune(line); len(r) > inner {
			line = string(r[:inner])
		}
		if ms.ID == m.selected {
			line = selStyle.Render(line)
		}
		out = append(out, line)
	}
	return out
}

func (m Model) View() string {
	// -2 for border
	boxWidth, boxHeight := m.width-2, m.height-2

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(boxWidth).
		Height(boxHeight).
		Padding(0, 1)

	inner := m.width - 2 - 2 // -2 border, -2 padding
	if inner < 1 {
		inner = 1
	}
	maxLines := m.height - 2
	if maxLines < 1 {
		maxLines = 1
	}

	return style.Render(strings.Join(m.lines(inner, maxLines), "\n"))
}
