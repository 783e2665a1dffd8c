package mapview

import (
	"fmt"
	"math"
	"strings"

	"chartmeasure/config"
	"chartmeasure/geom"
	"chartmeasure/measure"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jonas-p/go-shp"
	"github.com/rs/zerolog/log"
)

// Constants for Panning and Zooming
const (
	panFactor  = 0.1
	zoomFactor = 1.2
)

// ClickMsg is a click on the chart, in screen units.
type ClickMsg struct {
	Point geom.Point
}

// CursorMsg reports that the keyboard cursor moved.
type CursorMsg struct {
	Point geom.Point
}

// Model holds the map's state
type Model struct {
	width  int
	height int

	// Screen position of the top-left content cell, for mouse hits.
	originX int
	originY int

	aspect float64

	mapPolygons    []*shp.Polygon
	originalBounds shp.Box
	viewBounds     shp.Box

	locatorLon    float64
	locatorLat    float64
	locatorExists bool

	cursorCol int
	cursorRow int

	snap     measure.Snapshot
	selected int

	// Overlay toggled off with 'o'; the cursor is still drawn.
	overlayHidden bool
}

// loadMapData reads the shapefile
func loadMapData(path string) ([]*shp.Polygon, shp.Box, error) {
	shapeFile, err := shp.Open(path)
	if err != nil {
		return nil, shp.Box{}, fmt.Errorf("failed to open shapefile: %w", err)
	}
	defer shapeFile.Close()

	var polygons []*shp.Polygon
	bounds := shp.Box{MinX: 1e9, MinY: 1e9, MaxX: -1e9, MaxY: -1e9}

	for shapeFile.Next() {
		_, shape := shapeFile.Shape()
		polygon, ok := shape.(*shp.Polygon)
		if !ok {
			continue
		}
		polygons = append(polygons, polygon)
		bounds.Extend(polygon.BBox())
	}

	if len(polygons) == 0 {
		return nil, shp.Box{}, fmt.Errorf("no polygons found in shapefile")
	}
	return polygons, bounds, nil
}

// New creates a new map model. The chart is optional: with no shapefile
// configured the pane is a blank sheet to measure on.
func New(conf config.Config) (Model, error) {
	m := Model{
		width:  80,
		height: 23,
		aspect: conf.Map.CellAspect,
	}
	if m.aspect <= 0 {
		m.aspect = 2.0
	}

	if conf.Map.Shapefile != "" {
		polygons, bounds, err := loadMapData(conf.Map.Shapefile)
		if err != nil {
			return Model{}, err
		}
		m.mapPolygons = polygons
		m.originalBounds = bounds
		m.viewBounds = bounds
	}

	if conf.Map.Locator != "" {
		lon, lat, err := GridSquareToLatLon(conf.Map.Locator)
		if err != nil {
			log.Warn().Err(err).Str("locator", conf.Map.Locator).Msg("could not parse map locator")
		} else {
			m.locatorLon = lon
			m.locatorLat = lat
			m.locatorExists = true
		}
	}

	if m.HasChart() && m.locatorExists && conf.Map.DefaultZoom > 1.0 {
		m.setCenterAndZoom(m.locatorLon, m.locatorLat, conf.Map.DefaultZoom)
	}
	return m, nil
}

func (m Model) Init() tea.Cmd { return nil }

// HasChart reports whether a shapefile chart is loaded.
func (m Model) HasChart() bool { return len(m.mapPolygons) > 0 }

// SetSnapshot replaces the overlay to draw.
func (m *Model) SetSnapshot(snap measure.Snapshot) { m.snap = snap }

// SetSelected marks a measurement id for highlighting; 0 for none.
func (m *Model) SetSelected(id int) { m.selected = id }

// OverlayVisible reports whether measurements are drawn.
func (m Model) OverlayVisible() bool { return !m.overlayHidden }

// ShowOverlay turns the overlay back on.
func (m *Model) ShowOverlay() { m.overlayHidden = false }

// SetOrigin sets the screen cell of the top-left content cell.
func (m *Model) SetOrigin(x, y int) {
	m.originX = x
	m.originY = y
}

func (m *Model) setCenterAndZoom(lon, lat, zoomLevel float64) {
	newWidth := (m.originalBounds.MaxX - m.originalBounds.MinX) / zoomLevel
	newHeight := (m.originalBounds.MaxY - m.originalBounds.MinY) / zoomLevel
	m.viewBounds.MinX = lon - (newWidth / 2)
	m.viewBounds.MaxX = lon + (newWidth / 2)
	m.viewBounds.MinY = lat - (newHeight / 2)
	m.viewBounds.MaxY = lat + (newHeight / 2)
}

func (m *Model) zoomByFactor(factor float64) {
	if !m.HasChart() {
		return
	}
	centerX := (m.viewBounds.MinX + m.viewBounds.MaxX) / 2
	centerY := (m.viewBounds.MinY + m.viewBounds.MaxY) / 2
	width := m.viewBounds.MaxX - m.viewBounds.MinX
	height := m.viewBounds.MaxY - m.viewBounds.MinY
	newWidth := width * factor
	newHeight := height * factor
	if newWidth > (m.originalBounds.MaxX-m.originalBounds.MinX) || newHeight > (m.originalBounds.MaxY-m.originalBounds.MinY) {
		m.viewBounds = m.originalBounds
		return
	}
	m.viewBounds.MinX = centerX - (newWidth / 2)
	m.viewBounds.MaxX = centerX + (newWidth / 2)
	m.viewBounds.MinY = centerY - (newHeight / 2)
	m.viewBounds.MaxY = centerY + (newHeight / 2)
}

func (m *Model) pan(dx, dy float64) {
	width := m.viewBounds.MaxX - m.viewBounds.MinX
	height := m.viewBounds.MaxY - m.viewBounds.MinY
	panX := width * dx
	panY := height * dy
	m.viewBounds.MinX += panX
	m.viewBounds.MaxX += panX
	m.viewBounds.MinY += panY
	m.viewBounds.MaxY += panY
}

func (m Model) GetZoomLevel() float64 {
	if m.viewBounds.MaxX == m.viewBounds.MinX {
		return 1.0
	}
	return (m.originalBounds.MaxX - m.originalBounds.MinX) / (m.viewBounds.MaxX - m.viewBounds.MinX)
}

// ContentSize is the drawable area in cells, inside the border.
func (m Model) ContentSize() (int, int) {
	w, h := m.width-2, m.height-2
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// Aspect is the screen-unit height of one cell row.
func (m Model) Aspect() float64 { return m.aspect }

// CellToPoint returns the screen point at the center of a content cell.
func (m Model) CellToPoint(col, row int) geom.Point {
	return geom.Point{
		X: float64(col) + 0.5,
		Y: (float64(row) + 0.5) * m.aspect,
	}
}

// PointToCell returns the content cell containing a screen point.
func (m Model) PointToCell(p geom.Point) (int, int) {
	return int(math.Floor(p.X)), int(math.Floor(p.Y / m.aspect))
}

// Cursor returns the keyboard cursor as a screen point.
func (m Model) Cursor() geom.Point { return m.CellToPoint(m.cursorCol, m.cursorRow) }

func (m *Model) moveCursor(dc, dr int) {
	w, h := m.ContentSize()
	m.cursorCol = clamp(m.cursorCol+dc, 0, w-1)
	m.cursorRow = clamp(m.cursorRow+dr, 0, h-1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (m Model) clickCmd(p geom.Point) tea.Cmd {
	return func() tea.Msg { return ClickMsg{Point: p} }
}

func (m Model) cursorCmd() tea.Cmd {
	p := m.Cursor()
	return func() tea.Msg { return CursorMsg{Point: p} }
}

// Update function
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.moveCursor(0, 0)

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		col, row := msg.X-m.originX, msg.Y-m.originY
		w, h := m.ContentSize()
		if col < 0 || row < 0 || col >= w || row >= h {
			return m, nil
		}
		m.cursorCol, m.cursorRow = col, row
		return m, tea.Batch(m.cursorCmd(), m.clickCmd(m.Cursor()))

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			m.moveCursor(0, -1)
		case "down", "j":
			m.moveCursor(0, 1)
		case "left", "h":
			m.moveCursor(-1, 0)
		case "right", "l":
			m.moveCursor(1, 0)
		case "enter", " ":
			return m, m.clickCmd(m.Cursor())
		case "K":
			m.pan(0, panFactor)
		case "J":
			m.pan(0, -panFactor)
		case "H":
			m.pan(-panFactor, 0)
		case "L":
			m.pan(panFactor, 0)
		case "+", "=":
			m.zoomByFactor(1 / zoomFactor)
		case "-":
			m.zoomByFactor(zoomFactor)
		case "r":
			m.viewBounds = m.originalBounds
		case "o":
			m.overlayHidden = !m.overlayHidden
		default:
			return m, nil
		}
		return m, m.cursorCmd()
	}
	return m, nil
}

// project converts lon/lat to terminal x/y coordinates
func (m *Model) project(lon, lat float64, viewWidth, viewHeight int) (int, int) {
	if m.viewBounds.MaxX == m.viewBounds.MinX {
		m.viewBounds.MaxX += 1e-6
	}
	if m.viewBounds.MaxY == m.viewBounds.MinY {
		m.viewBounds.MaxY += 1e-6
	}
	x := (lon - m.viewBounds.MinX) / (m.viewBounds.MaxX - m.viewBounds.MinX)
	y := (m.viewBounds.MaxY - lat) / (m.viewBounds.MaxY - m.viewBounds.MinY) // Invert Y-axis for screen coords
	tuiX := int(x * float64(viewWidth))
	tuiY := int(y * float64(viewHeight))
	return tuiX, tuiY
}

// View function
func (m Model) View() string {
	viewWidth, viewHeight := m.ContentSize()
	mapStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(viewWidth).
		Height(viewHeight)

	g := newGrid(viewWidth, viewHeight)
	m.drawChart(g)
	m.drawOverlay(g)

	return mapStyle.Render(strings.TrimSuffix(g.String(), "\n"))
}
