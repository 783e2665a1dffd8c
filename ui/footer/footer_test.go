package footer

import (
	"strings"
	"testing"

	"chartmeasure/geom"
	"chartmeasure/measure"

	tea "github.com/charmbracelet/bubbletea"
)

func TestView(t *testing.T) {
	m := New("mapdata/coast.shp")
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 1})
	m.SetZoom(2)
	m.SetCursor(geom.Point{X: 10.5, Y: 3})

	v := m.View()
	for _, want := range []string{"coast.shp", "zoom 2.00x", "cursor 10.5,3.0", "m measure"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q: %q", want, v)
		}
	}
}

func TestView_Prompt(t *testing.T) {
	m := New("")
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 1})
	m.SetStatus(measure.Status{Phase: measure.AwaitingMeasureStart, Prompt: "Click first point"})

	v := m.View()
	if !strings.Contains(v, "no chart") || !strings.Contains(v, "Click first point") {
		t.Errorf("view = %q", v)
	}
}

func TestView_Narrow(t *testing.T) {
	m := New("")
	m, _ = m.Update(tea.WindowSizeMsg{Width: 30, Height: 1})
	m.SetStatus(measure.Status{Phase: measure.AwaitingScaleValue, Prompt: "Enter scale distance"})
	if v := m.View(); !strings.Contains(v, "Enter scale distance") {
		t.Errorf("narrow view lost the prompt: %q", v)
	}
}

func TestView_IdleShowsHelp(t *testing.T) {
	m := New("")
	m, _ = m.Update(tea.WindowSizeMsg{Width: 140, Height: 1})
	m.SetStatus(measure.New().Status())

	v := m.View()
	if !strings.Contains(v, "m measure") || strings.Contains(v, "Press m to measure") {
		t.Errorf("idle footer = %q", v)
	}
}
