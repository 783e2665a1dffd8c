package main

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"chartmeasure/config"
	"chartmeasure/device/digitizer"
	"chartmeasure/event"
	"chartmeasure/logger"
	"chartmeasure/measure"
	"chartmeasure/overlay"
	"chartmeasure/ui/footer"
	"chartmeasure/ui/header"
	mapview "chartmeasure/ui/map"
	"chartmeasure/ui/msgbar"
	"chartmeasure/ui/sidebar"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
)

// --- Constants for Layout ---
const (
	headerHeight = 1
	footerHeight = 1
	sidebarWidth = 32
	msgbarHeight = 7

	// Overlay export resolution per terminal cell column.
	exportCellPixels = 8
)

// EventSource delivers input events from outside the terminal
type EventSource interface {
	Start(chan<- *event.Event)
	Close()
}

// digitizerClosedMsg is sent once the event channel is closed.
type digitizerClosedMsg struct{}

// exportedMsg reports the result of an overlay export.
type exportedMsg struct {
	path string
	err  error
}

// model holds the application's state
type model struct {
	width  int
	height int
	config config.Config

	state *measure.State
	notes chan measure.Notification

	headerModel  header.Model
	mapModel     mapview.Model
	msgbarModel  msgbar.Model
	footerModel  footer.Model
	sidebarModel sidebar.Model

	source    EventSource
	eventChan chan *event.Event

	err error
}

// initialModel creates the starting model. source may be nil.
func initialModel(conf config.Config, st *measure.State, source EventSource) model {
	mapMod, err := mapview.New(conf)
	if err != nil {
		return model{err: err}
	}

	m := model{
		width:        80, // Default width
		height:       24, // Default height
		config:       conf,
		state:        st,
		notes:        make(chan measure.Notification, 64),
		headerModel:  header.New(),
		mapModel:     mapMod,
		msgbarModel:  msgbar.New(),
		footerModel:  footer.New(conf.Map.Shapefile),
		sidebarModel: sidebar.New(),
		source:       source,
	}
	if source != nil {
		m.eventChan = make(chan *event.Event)
	}

	// Listeners run inside Update, so the send must never block it.
	notes := m.notes
	st.Subscribe(func(n measure.Notification) {
		select {
		case notes <- n:
		default:
			log.Warn().Str("notification", n.String()).Msg("notification dropped")
		}
	})

	m.mapModel.SetOrigin(sidebarWidth+1, headerHeight+1)
	m.footerModel.SetZoom(m.mapModel.GetZoomLevel())
	m.refresh()
	if !m.mapModel.HasChart() {
		m.msgbarModel.AddMessage("No chart loaded; measuring on a blank grid")
	}
	return m
}

// listenForEvents is a tea.Cmd that waits for the next digitizer event
func (m model) listenForEvents() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.eventChan
		if !ok {
			return digitizerClosedMsg{}
		}
		return ev
	}
}

// listenForNotes is a tea.Cmd that waits for the next core notification
func (m model) listenForNotes() tea.Cmd {
	return func() tea.Msg {
		return <-m.notes
	}
}

// exportCmd writes the overlay to a PNG as a side effect
func (m model) exportCmd() tea.Cmd {
	snap := m.state.Snapshot()
	cols, rows := m.mapModel.ContentSize()
	opts := overlay.Options{
		Width:  cols * exportCellPixels,
		Height: int(math.Ceil(float64(rows) * m.mapModel.Aspect() * exportCellPixels)),
		Scale:  exportCellPixels,
	}
	path := filepath.Join(m.config.Export.Dir, fmt.Sprintf("overlay-%d.png", time.Now().Unix()))
	return func() tea.Msg {
		img := overlay.Render(snap, opts)
		return exportedMsg{path: path, err: overlay.WritePNG(path, img)}
	}
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.listenForNotes()}
	if m.source != nil {
		go m.source.Start(m.eventChan)
		cmds = append(cmds, m.listenForEvents())
	}
	return tea.Batch(cmds...)
}

// refresh pushes the core state into every pane
func (m *model) refresh() {
	snap := m.state.Snapshot()
	m.sidebarModel.SetSnapshot(snap)
	m.mapModel.SetSnapshot(snap)
	m.mapModel.SetSelected(m.sidebarModel.Selected())
	m.headerModel.SetMode(snap.Status.Mode.String())
	m.footerModel.SetStatus(snap.Status)
}

// apply runs one event through the core and reports the outcome
func (m *model) apply(ev *event.Event) error {
	line, err := applyEvent(m.state, ev)
	if ev.Type == event.TypeMode && m.state.Mode() != measure.ModeNone {
		m.mapModel.ShowOverlay()
	}
	if err != nil {
		log.Debug().Err(err).Str("event", ev.Type.String()).Msg("event rejected")
		m.msgbarModel.AddMessage("Error: " + err.Error())
	} else if line != "" {
		m.msgbarModel.AddMessage(line)
	}
	m.refresh()
	return err
}

// applyPoint applies a click and opens the scale prompt when the click
// completed a scale line. It does not wait for the notification, which
// can be dropped under a burst of digitizer input.
func (m *model) applyPoint(ev *event.Event) tea.Cmd {
	m.apply(ev)
	if m.state.Phase() == measure.AwaitingScaleValue &&
		m.msgbarModel.Prompting() != msgbar.PromptScale {
		return m.msgbarModel.OpenPrompt(msgbar.PromptScale)
	}
	return nil
}

// submitPrompt handles an answer typed into the message bar
func (m *model) submitPrompt(msg msgbar.SubmitMsg) {
	switch msg.Prompt {
	case msgbar.PromptScale:
		nm, err := strconv.ParseFloat(msg.Value, 64)
		if err != nil {
			m.msgbarModel.SetPromptError("Enter a distance greater than 0")
			return
		}
		if err := m.apply(&event.Event{Type: event.TypeScaleDistance, NM: nm}); err != nil {
			m.msgbarModel.SetPromptError(err.Error())
			return
		}
		m.msgbarModel.ClosePrompt()

	case msgbar.PromptVariance:
		ev := &event.Event{Type: event.TypeClearVariance}
		if msg.Value != "" {
			v, err := strconv.ParseFloat(msg.Value, 64)
			if err != nil {
				v = math.NaN()
			}
			ev = &event.Event{Type: event.TypeVariance, Degrees: v}
		}
		if err := m.apply(ev); err != nil {
			m.msgbarModel.SetPromptError("Enter a variance between -180 and +180")
			return
		}
		m.msgbarModel.ClosePrompt()

	case msgbar.PromptConfirmReset:
		m.apply(&event.Event{Type: event.TypeReset})
	}
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "n":
		m.apply(&event.Event{Type: event.TypeMode, Mode: measure.ModeCalibrateNorth.String()})
	case "s":
		m.apply(&event.Event{Type: event.TypeMode, Mode: measure.ModeCalibrateScale.String()})
	case "m":
		m.apply(&event.Event{Type: event.TypeMode, Mode: measure.ModeMeasure.String()})
	case "v":
		cmd = m.msgbarModel.OpenPrompt(msgbar.PromptVariance)
	case "V":
		m.apply(&event.Event{Type: event.TypeClearVariance})
	case "c":
		m.apply(&event.Event{Type: event.TypeClear})
	case "R":
		cmd = m.msgbarModel.OpenPrompt(msgbar.PromptConfirmReset)
	case "]":
		m.sidebarModel.SelectNext()
		m.mapModel.SetSelected(m.sidebarModel.Selected())
	case "[":
		m.sidebarModel.SelectPrev()
		m.mapModel.SetSelected(m.sidebarModel.Selected())
	case "d", "delete":
		if id := m.sidebarModel.Selected(); id != 0 {
			m.apply(&event.Event{Type: event.TypeDelete, ID: id})
		}
	case "e":
		cmd = m.exportCmd()
	case "esc":
		m.apply(&event.Event{Type: event.TypeEscape})
	default:
		m.mapModel, cmd = m.mapModel.Update(msg)
		m.footerModel.SetZoom(m.mapModel.GetZoomLevel())
	}
	return m, cmd
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.err != nil {
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, tea.Quit
		}
		return m, nil
	}

	var (
		headerCmd  tea.Cmd
		mapCmd     tea.Cmd
		msgbarCmd  tea.Cmd
		footerCmd  tea.Cmd
		sidebarCmd tea.Cmd
		cmds       []tea.Cmd
	)

	switch msg := msg.(type) {
	case measure.Notification:
		if msg == measure.NotifyScaleDistanceNeeded &&
			m.msgbarModel.Prompting() != msgbar.PromptScale {
			cmds = append(cmds, m.msgbarModel.OpenPrompt(msgbar.PromptScale))
		}
		// The scale prompt only makes sense while a line is waiting.
		if m.msgbarModel.Prompting() == msgbar.PromptScale &&
			m.state.Phase() != measure.AwaitingScaleValue {
			m.msgbarModel.ClosePrompt()
		}
		m.refresh()
		cmds = append(cmds, m.listenForNotes())

	case *event.Event:
		if msg.Type == event.TypePoint {
			cmds = append(cmds, m.applyPoint(msg))
		} else {
			m.apply(msg)
		}
		cmds = append(cmds, m.listenForEvents())

	case digitizerClosedMsg:
		m.msgbarModel.AddMessage("Digitizer disconnected")

	case mapview.ClickMsg:
		cmds = append(cmds, m.applyPoint(&event.Event{Type: event.TypePoint, Point: msg.Point}))

	case mapview.CursorMsg:
		m.footerModel.SetCursor(msg.Point)

	case msgbar.SubmitMsg:
		m.submitPrompt(msg)

	case msgbar.CancelMsg:
		if msg.Prompt == msgbar.PromptScale {
			m.apply(&event.Event{Type: event.TypeCancelScale})
		}

	case exportedMsg:
		if msg.err != nil {
			log.Error().Err(msg.err).Msg("overlay export failed")
			m.msgbarModel.AddMessage("Export failed: " + msg.err.Error())
		} else {
			log.Info().Str("path", msg.path).Msg("overlay exported")
			m.msgbarModel.AddMessage("Overlay saved to " + msg.path)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		mainHeight := m.height - headerHeight - msgbarHeight - footerHeight
		mapWidth := m.width - sidebarWidth
		if mainHeight < 1 {
			mainHeight = 1
		}

		headerMsg := tea.WindowSizeMsg{Width: m.width, Height: headerHeight}
		m.headerModel, headerCmd = m.headerModel.Update(headerMsg)

		sidebarMsg := tea.WindowSizeMsg{Width: sidebarWidth, Height: mainHeight}
		m.sidebarModel, sidebarCmd = m.sidebarModel.Update(sidebarMsg)

		mapMsg := tea.WindowSizeMsg{Width: mapWidth, Height: mainHeight}
		m.mapModel, mapCmd = m.mapModel.Update(mapMsg)

		msgbarMsg := tea.WindowSizeMsg{Width: m.width, Height: msgbarHeight}
		m.msgbarModel, msgbarCmd = m.msgbarModel.Update(msgbarMsg)

		footerMsg := tea.WindowSizeMsg{Width: m.width, Height: footerHeight}
		m.footerModel, footerCmd = m.footerModel.Update(footerMsg)

		cmds = append(cmds, headerCmd, sidebarCmd, mapCmd, msgbarCmd, footerCmd)

	case tea.MouseMsg:
		m.mapModel, mapCmd = m.mapModel.Update(msg)
		cmds = append(cmds, mapCmd)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.msgbarModel.Prompting() != msgbar.PromptNone {
			m.msgbarModel, msgbarCmd = m.msgbarModel.Update(msg)
			return m, msgbarCmd
		}
		return m.handleKey(msg)

	default:
		m.headerModel, headerCmd = m.headerModel.Update(msg)
		m.mapModel, mapCmd = m.mapModel.Update(msg)
		m.msgbarModel, msgbarCmd = m.msgbarModel.Update(msg)
		m.footerModel, footerCmd = m.footerModel.Update(msg)
		m.sidebarModel, sidebarCmd = m.sidebarModel.Update(msg)
		cmds = append(cmds, headerCmd, mapCmd, msgbarCmd, footerCmd, sidebarCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	if m.err != nil {
		errorStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Border(lipgloss.DoubleBorder(), true).
			BorderForeground(lipgloss.Color("9")).
			Padding(1).
			Align(lipgloss.Center, lipgloss.Center)
		return errorStyle.Render(
			"Error:\n\n" + m.err.Error() +
				"\n\nPress any key to quit.",
		)
	}

	headerView := m.headerModel.View()
	sidebarView := m.sidebarModel.View()
	mapView := m.mapModel.View()
	msgbarView := m.msgbarModel.View()
	footerView := m.footerModel.View()

	middleStack := lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarView,
		mapView,
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		headerView,
		middleStack,
		msgbarView,
		footerView,
	)
}

func main() {
	configPath := flag.String("config", "config.toml", "path to the configuration file")
	flag.Parse()

	conf, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load %s: %v\n", *configPath, err)
		os.Exit(1)
	}

	closer, err := logger.Setup(conf.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()
	log.Info().Str("config", *configPath).Msg("starting")

	var source EventSource
	if !strings.EqualFold(conf.Digitizer.Type, "none") {
		client, err := digitizer.Connect(conf.Digitizer)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to digitizer")
		}
		defer client.Close()
		source = client
	}

	// Run Bubble Tea
	p := tea.NewProgram(
		initialModel(conf, measure.New(), source),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		log.Fatal().Err(err).Msg("program exited with an error")
	}
}
