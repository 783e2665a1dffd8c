package mapview

import (
	"fmt"
	"math"
	"strings"

	"chartmeasure/geom"
	"chartmeasure/measure"
)

const (
	glyphChart     = '.'
	glyphLine      = '·'
	glyphSelected  = '•'
	glyphCalLine   = ':'
	glyphEndpoint  = 'o'
	glyphPending   = '+'
	glyphCursor    = 'X'
	glyphLocator   = 'H'
	lineSampleStep = 0.25
)

// arrowGlyphs are indexed by screen direction in 45° sectors from up.
var arrowGlyphs = []rune{'↑', '↗', '→', '↘', '↓', '↙', '←', '↖'}

// grid is a rune canvas of content cells
type grid struct {
	w, h  int
	cells [][]rune
}

func newGrid(w, h int) *grid {
	cells := make([][]rune, h)
	for i := range cells {
		cells[i] = make([]rune, w)
		for j := range cells[i] {
			cells[i][j] = ' '
		}
	}
	return &grid{w: w, h: h, cells: cells}
}

func (g *grid) in(col, row int) bool {
	return col >= 0 && col < g.w && row >= 0 && row < g.h
}

func (g *grid) set(col, row int, r rune) {
	if g.in(col, row) {
		g.cells[row][col] = r
	}
}

// setSoft only writes over blank or chart cells.
func (g *grid) setSoft(col, row int, r rune) {
	if g.in(col, row) && (g.cells[row][col] == ' ' || g.cells[row][col] == glyphChart) {
		g.cells[row][col] = r
	}
}

func (g *grid) text(col, row int, s string) {
	for i, r := range []rune(s) {
		g.set(col+i, row, r)
	}
}

func (g *grid) String() string {
	var b strings.Builder
	for _, row := range g.cells {
		b.WriteString(string(row))
		b.WriteRune('\n')
	}
	return b.String()
}

func (m Model) drawChart(g *grid) {
	for _, polygon := range m.mapPolygons {
		polyBounds := polygon.BBox()
		if polyBounds.MaxX < m.viewBounds.MinX || polyBounds.MinX > m.viewBounds.MaxX ||
			polyBounds.MaxY < m.viewBounds.MinY || polyBounds.MinY > m.viewBounds.MaxY {
			continue
		}
		for _, point := range polygon.Points {
			x, y := m.project(point.X, point.Y, g.w, g.h)
			g.set(x, y, glyphChart)
		}
	}

	if m.locatorExists && m.HasChart() {
		x, y := m.project(m.locatorLon, m.locatorLat, g.w, g.h)
		g.set(x, y, glyphLocator)
	}
}

// line rasterizes p1->p2 by sampling in screen units.
func (m Model) line(g *grid, p1, p2 geom.Point, r rune) {
	n := int(math.Ceil(geom.PixelDistance(p1, p2)/lineSampleStep)) + 1
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		p := geom.Point{X: p1.X + (p2.X-p1.X)*t, Y: p1.Y + (p2.Y-p1.Y)*t}
		col, row := m.PointToCell(p)
		g.setSoft(col, row, r)
	}
}

// arrowGlyph picks the arrow pointing from p1 towards p2 on screen.
func arrowGlyph(p1, p2 geom.Point) rune {
	sector := int(math.Floor((geom.Bearing(p1, p2, 0)+22.5)/45)) % len(arrowGlyphs)
	return arrowGlyphs[sector]
}

// label centers text one row above (or below, at the top edge) a point.
func (m Model) label(g *grid, at geom.Point, text string) {
	col, row := m.PointToCell(at)
	row--
	if row < 0 {
		row += 2
	}
	g.text(col-len([]rune(text))/2, row, text)
}

// calibrationLine draws a north or scale line with its name.
func (m Model) calibrationLine(g *grid, l *measure.Line, name string) {
	if l == nil {
		return
	}
	m.line(g, l.P1, l.P2, glyphCalLine)
	m.endpoint(g, l.P1)
	m.endpoint(g, l.P2)
	m.label(g, geom.Midpoint(l.P1, l.P2), name)
}

func (m Model) drawOverlay(g *grid) {
	if m.overlayHidden {
		g.set(m.cursorCol, m.cursorRow, glyphCursor)
		return
	}
	snap := m.snap

	m.calibrationLine(g, snap.NorthLine, "North")
	m.calibrationLine(g, snap.ScaleLine, "Scale")

	for _, ms := range snap.Measurements {
		r := glyphLine
		if ms.ID == m.selected {
			r = glyphSelected
		}
		m.line(g, ms.Point1, ms.Point2, r)
		m.endpoint(g, ms.Point1)
		col, row := m.PointToCell(ms.Point2)
		g.set(col, row, arrowGlyph(ms.Point1, ms.Point2))
	}
	// Labels last so lines never cut through them.
	for _, ms := range snap.Measurements {
		m.label(g, geom.Midpoint(ms.Point1, ms.Point2), fmt.Sprintf("#%d %s", ms.ID, ms.Label))
	}

	if snap.Pending != nil {
		col, row := m.PointToCell(*snap.Pending)
		g.set(col, row, glyphPending)
	}
	g.set(m.cursorCol, m.cursorRow, glyphCursor)
}

func (m Model) endpoint(g *grid, p geom.Point) {
	col, row := m.PointToCell(p)
	g.set(col, row, glyphEndpoint)
}
