package msgbar

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	barHeight = 7 // Total height of the component (including border)
)

// Prompt is the question the bar is currently asking.
type Prompt int

const (
	PromptNone Prompt = iota
	PromptScale
	PromptVariance
	PromptConfirmReset
)

// SubmitMsg carries the answer to a prompt.
type SubmitMsg struct {
	Prompt Prompt
	Value  string
}

// CancelMsg reports that a prompt was dismissed with Esc.
type CancelMsg struct {
	Prompt Prompt
}

var (
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
)

// Model holds the message bar's state
type Model struct {
	width    int
	height   int
	messages []string // newest first

	prompt    Prompt
	input     textinput.Model
	promptErr string
}

// New creates a new message bar model
func New() Model {
	ti := textinput.New()
	ti.CharLimit = 16
	ti.Width = 12
	return Model{
		width:  80,
		height: barHeight,
		input:  ti,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// AddMessage pushes a line onto the log.
func (m *Model) AddMessage(line string) {
	m.messages = append([]string{line}, m.messages...)

	maxMessages := barHeight - 2
	if len(m.messages) > maxMessages {
		m.messages = m.messages[:maxMessages]
	}
}

// Messages returns the log, newest first.
func (m Model) Messages() []string { return m.messages }

// Prompting reports the open prompt.
func (m Model) Prompting() Prompt { return m.prompt }

// OpenPrompt asks the user for a value.
func (m *Model) OpenPrompt(p Prompt) tea.Cmd {
	m.prompt = p
	m.promptErr = ""
	m.input.Reset()
	switch p {
	case PromptScale:
		m.input.Placeholder = "e.g. 10"
	case PromptVariance:
		m.input.Placeholder = "+E / -W"
	default:
		m.input.Placeholder = ""
	}
	return m.input.Focus()
}

// ClosePrompt dismisses the prompt without an answer.
func (m *Model) ClosePrompt() {
	m.prompt = PromptNone
	m.promptErr = ""
	m.input.Blur()
	m.input.Reset()
}

// SetPromptError keeps the prompt open with an error and a cleared input.
func (m *Model) SetPromptError(s string) {
	m.promptErr = s
	m.input.Reset()
}

func (m Model) question() string {
	switch m.prompt {
	case PromptScale:
		return "Scale line distance (NM):"
	case PromptVariance:
		return "Magnetic variance (° E+/W-, blank clears):"
	case PromptConfirmReset:
		return "Reset all calibrations (North, Scale, Variance)? [y/n]"
	}
	return ""
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		// Height is fixed, but we store it for consistency
		m.height = barHeight

	case tea.KeyMsg:
		if m.prompt == PromptNone {
			return m, nil
		}
		p := m.prompt
		if p == PromptConfirmReset {
			switch msg.String() {
			case "y", "Y", "enter":
				m.ClosePrompt()
				return m, func() tea.Msg { return SubmitMsg{Prompt: p, Value: "y"} }
			case "n", "N", "esc":
				m.ClosePrompt()
				return m, func() tea.Msg { return CancelMsg{Prompt: p} }
			}
			return m, nil
		}

		switch msg.String() {
		case "enter":
			v := strings.TrimSpace(m.input.Value())
			return m, func() tea.Msg { return SubmitMsg{Prompt: p, Value: v} }
		case "esc":
			m.ClosePrompt()
			return m, func() tea.Msg { return CancelMsg{Prompt: p} }
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	default:
		if m.prompt != PromptNone {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) View() string {
	// -2 for border
	boxWidth, boxHeight := m.width-2, m.height-2

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")). // Purple
		Width(boxWidth).
		Height(boxHeight).
		Padding(0, 1)

	// Available width for text
	contentWidth := m.width - 2 - 2 // -border, -padding
	if contentWidth < 0 {
		contentWidth = 0
	}

	numLines := m.height - 2
	if numLines < 0 {
		numLines = 0
	}

	var lines []string
	if m.prompt != PromptNone {
		q := promptStyle.Render(m.question())
		if m.prompt != PromptConfirmReset {
			q += " " + m.input.View()
		}
		lines = append(lines, q)
		if m.promptErr != "" {
			lines = append(lines, errStyle.Render(m.promptErr))
		}
	}

	// Oldest first so the log reads top to bottom
	room := numLines - len(lines)
	msgs := m.messages
	if room < len(msgs) {
		if room < 0 {
			room = 0
		}
		msgs = msgs[:room]
	}
	for i := len(msgs) - 1; i >= 0; i-- {
		line := msgs[i]
		if r := []rune(line); len(r) > contentWidth {
			line = string(r[:contentWidth])
		}
		lines = append(lines, line)
	}

	return style.Render(strings.Join(lines, "\n"))
}
