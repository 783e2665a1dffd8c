package measure

import "testing"

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeNone, ModeCalibrateNorth, ModeCalibrateScale, ModeMeasure} {
		got, err := ParseMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if got, err := ParseMode("none"); err != nil || got != ModeNone {
		t.Errorf("ParseMode(none) = %v, %v", got, err)
	}
	if _, err := ParseMode("zoom"); err == nil {
		t.Error("ParseMode(zoom) should fail")
	}
}

func TestPhasePrompt(t *testing.T) {
	s := New()
	if got := s.Status().Prompt; got != "Press m to measure" {
		t.Errorf("idle prompt = %q", got)
	}
	s.SetMode(ModeCalibrateNorth)
	if got := s.Status().Prompt; got != "Click compass rose center" {
		t.Errorf("prompt = %q", got)
	}
	if _, err := s.SubmitPoint(pt(0, 0)); err != nil {
		t.Fatal(err)
	}
	if got := s.Status().Prompt; got != "Click north indicator" {
		t.Errorf("prompt = %q", got)
	}
}
