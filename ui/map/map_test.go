package mapview

import (
	"strings"
	"testing"

	"chartmeasure/config"
	"chartmeasure/geom"
	"chartmeasure/measure"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	m, err := New(config.Default())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m, _ = m.Update(tea.WindowSizeMsg{Width: 42, Height: 12})
	return m
}

func TestNew_NoChart(t *testing.T) {
	m := newTestModel(t)
	if m.HasChart() {
		t.Error("chart loaded without a shapefile")
	}
	if w, h := m.ContentSize(); w != 40 || h != 10 {
		t.Errorf("ContentSize = %d,%d", w, h)
	}
}

func TestNew_BadShapefile(t *testing.T) {
	conf := config.Default()
	conf.Map.Shapefile = "does/not/exist.shp"
	if _, err := New(conf); err == nil {
		t.Error("missing shapefile accepted")
	}
}

func TestCellPointRoundTrip(t *testing.T) {
	m := newTestModel(t)
	for _, c := range [][2]int{{0, 0}, {5, 3}, {39, 9}} {
		p := m.CellToPoint(c[0], c[1])
		col, row := m.PointToCell(p)
		if col != c[0] || row != c[1] {
			t.Errorf("cell %v -> %v -> %d,%d", c, p, col, row)
		}
	}
	if p := m.CellToPoint(1, 1); p != (geom.Point{X: 1.5, Y: 3}) {
		t.Errorf("CellToPoint(1,1) = %v with aspect 2", p)
	}
}

func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func findClick(msgs []tea.Msg) (ClickMsg, bool) {
	for _, msg := range msgs {
		if c, ok := msg.(ClickMsg); ok {
			return c, true
		}
	}
	return ClickMsg{}, false
}

func TestMouseClick(t *testing.T) {
	m := newTestModel(t)
	m.SetOrigin(33, 2)

	m, cmd := m.Update(tea.MouseMsg{X: 33 + 4, Y: 2 + 3, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	click, ok := findClick(runCmd(cmd))
	if !ok {
		t.Fatal("no ClickMsg for a left press")
	}
	if click.Point != m.CellToPoint(4, 3) {
		t.Errorf("click at %v, want %v", click.Point, m.CellToPoint(4, 3))
	}
	if m.Cursor() != click.Point {
		t.Errorf("cursor did not follow the click")
	}

	// Outside the content area, and non-left buttons, are ignored.
	_, cmd = m.Update(tea.MouseMsg{X: 10, Y: 3, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if cmd != nil {
		t.Error("click outside the map produced a command")
	}
	_, cmd = m.Update(tea.MouseMsg{X: 40, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	if cmd != nil {
		t.Error("right click produced a command")
	}
}

func TestKeyboardCursor(t *testing.T) {
	m := newTestModel(t)
	for _, k := range []string{"right", "right", "down"} {
		m, _ = m.Update(keyMsg(k))
	}
	_, cmd := m.Update(keyMsg("enter"))
	click, ok := findClick(runCmd(cmd))
	if !ok || click.Point != m.CellToPoint(2, 1) {
		t.Errorf("enter click = %v, %v", click, ok)
	}

	// The cursor stays inside the pane.
	for i := 0; i < 100; i++ {
		m, _ = m.Update(keyMsg("left"))
	}
	if p := m.Cursor(); p.X != 0.5 {
		t.Errorf("cursor left of pane: %v", p)
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func TestDrawOverlay(t *testing.T) {
	m := newTestModel(t)
	st := measure.New()
	st.SetMode(measure.ModeMeasure)
	if _, err := st.SubmitPoint(m.CellToPoint(2, 4)); err != nil {
		t.Fatal(err)
	}
	if _, err := st.SubmitPoint(m.CellToPoint(30, 4)); err != nil {
		t.Fatal(err)
	}
	m.SetSnapshot(st.Snapshot())

	g := newGrid(m.ContentSize())
	m.drawOverlay(g)
	out := g.String()

	if !strings.Contains(out, "#1 090°T") {
		t.Errorf("label missing:\n%s", out)
	}
	if g.cells[4][30] != '→' {
		t.Errorf("arrow = %q, want →", g.cells[4][30])
	}
	if g.cells[4][2] != glyphEndpoint {
		t.Errorf("start = %q, want endpoint", g.cells[4][2])
	}
	if g.cells[4][15] != glyphLine {
		t.Errorf("line cell = %q", g.cells[4][15])
	}
}

func TestArrowGlyph(t *testing.T) {
	c := geom.Point{X: 10, Y: 10}
	tests := []struct {
		to   geom.Point
		want rune
	}{
		{geom.Point{X: 10, Y: 0}, '↑'},
		{geom.Point{X: 20, Y: 0}, '↗'},
		{geom.Point{X: 20, Y: 10}, '→'},
		{geom.Point{X: 10, Y: 20}, '↓'},
		{geom.Point{X: 0, Y: 10}, '←'},
		{geom.Point{X: 9, Y: 0}, '↑'},
	}
	for _, tt := range tests {
		if got := arrowGlyph(c, tt.to); got != tt.want {
			t.Errorf("arrowGlyph(%v) = %q, want %q", tt.to, got, tt.want)
		}
	}
}

func TestDrawOverlay_CalibrationLines(t *testing.T) {
	m := newTestModel(t)
	st := measure.New()
	st.SetMode(measure.ModeCalibrateNorth)
	st.SubmitPoint(m.CellToPoint(5, 8))
	if _, err := st.SubmitPoint(m.CellToPoint(5, 2)); err != nil {
		t.Fatal(err)
	}
	st.SetMode(measure.ModeCalibrateScale)
	st.SubmitPoint(m.CellToPoint(20, 8))
	if _, err := st.SubmitPoint(m.CellToPoint(36, 8)); err != nil {
		t.Fatal(err)
	}

	snap := st.Snapshot()
	if snap.NorthLine == nil || snap.ScaleLine == nil {
		t.Fatalf("snapshot lines = %v, %v", snap.NorthLine, snap.ScaleLine)
	}
	m.SetSnapshot(snap)

	g := newGrid(m.ContentSize())
	m.drawOverlay(g)
	out := g.String()

	for _, want := range []string{"North", "Scale"} {
		if !strings.Contains(out, want) {
			t.Errorf("%s label missing:\n%s", want, out)
		}
	}
	if g.cells[8][5] != glyphEndpoint || g.cells[2][5] != glyphEndpoint {
		t.Errorf("north endpoints = %q, %q", g.cells[8][5], g.cells[2][5])
	}
	if g.cells[6][5] != glyphCalLine {
		t.Errorf("north line cell = %q", g.cells[6][5])
	}
	if g.cells[8][28] != glyphCalLine {
		t.Errorf("scale line cell = %q", g.cells[8][28])
	}
}

func TestOverlayToggle(t *testing.T) {
	m := newTestModel(t)
	st := measure.New()
	st.SetMode(measure.ModeMeasure)
	st.SubmitPoint(m.CellToPoint(2, 4))
	st.SubmitPoint(m.CellToPoint(30, 4))
	m.SetSnapshot(st.Snapshot())

	m, _ = m.Update(keyMsg("o"))
	if m.OverlayVisible() {
		t.Fatal("o did not hide the overlay")
	}
	g := newGrid(m.ContentSize())
	m.drawOverlay(g)
	if strings.Contains(g.String(), "#1") || g.cells[4][15] != ' ' {
		t.Errorf("hidden overlay still drawn:\n%s", g.String())
	}
	if g.cells[0][0] != glyphCursor {
		t.Errorf("cursor not drawn while hidden: %q", g.cells[0][0])
	}

	m, _ = m.Update(keyMsg("o"))
	if !m.OverlayVisible() {
		t.Error("second o did not show the overlay")
	}
	m.overlayHidden = true
	m.ShowOverlay()
	if !m.OverlayVisible() {
		t.Error("ShowOverlay left it hidden")
	}
}
