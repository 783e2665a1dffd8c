package main

import (
	"errors"
	"testing"

	"chartmeasure/event"
	"chartmeasure/geom"
	"chartmeasure/measure"
)

func TestApplyEvent_Sequence(t *testing.T) {
	st := measure.New()

	steps := []struct {
		ev   event.Event
		want string
	}{
		{event.Event{Type: event.TypeMode, Mode: "calibrate-scale"}, ""},
		{event.Event{Type: event.TypePoint, Point: geom.Point{X: 0, Y: 0}}, ""},
		{event.Event{Type: event.TypePoint, Point: geom.Point{X: 100, Y: 0}}, "Scale line captured"},
		{event.Event{Type: event.TypeScaleDistance, NM: 10}, "Scale calibrated: 100.0 px = 10.0 NM"},
		{event.Event{Type: event.TypeVariance, Degrees: -5}, "Magnetic variance 5° W"},
		{event.Event{Type: event.TypeMode, Mode: "measure"}, ""},
		{event.Event{Type: event.TypePoint, Point: geom.Point{X: 10, Y: 10}}, ""},
		{event.Event{Type: event.TypePoint, Point: geom.Point{X: 60, Y: 10}}, "#1 090°T / 095°M / 5.0 NM"},
		{event.Event{Type: event.TypeDelete, ID: 1}, "Deleted #1"},
		{event.Event{Type: event.TypeClearVariance}, "Magnetic variance cleared"},
		{event.Event{Type: event.TypeReset}, "Calibrations reset"},
		{event.Event{Type: event.TypeEscape}, ""},
		{event.Event{Type: event.TypeClear}, "Measurements cleared"},
	}
	for i, s := range steps {
		ev := s.ev
		got, err := applyEvent(st, &ev)
		if err != nil {
			t.Fatalf("step %d (%v): %v", i, ev.Type, err)
		}
		if got != s.want {
			t.Errorf("step %d (%v) = %q, want %q", i, ev.Type, got, s.want)
		}
	}
	if st.Status().ScaleCalibrated {
		t.Error("scale still calibrated after reset")
	}
}

func TestApplyEvent_Errors(t *testing.T) {
	st := measure.New()

	_, err := applyEvent(st, &event.Event{Type: event.TypePoint, Point: geom.Point{X: 1, Y: 1}})
	if !errors.Is(err, measure.ErrNoMode) {
		t.Errorf("point without mode: %v", err)
	}
	_, err = applyEvent(st, &event.Event{Type: event.TypeScaleDistance, NM: 5})
	if !errors.Is(err, measure.ErrNoPendingScale) {
		t.Errorf("scale without line: %v", err)
	}
	_, err = applyEvent(st, &event.Event{Type: event.TypeVariance, Degrees: 200})
	if !errors.Is(err, measure.ErrInvalidVariance) {
		t.Errorf("variance 200: %v", err)
	}
	if _, err = applyEvent(st, &event.Event{Type: event.TypeMode, Mode: "sideways"}); err == nil {
		t.Error("unknown mode accepted")
	}
	if _, err = applyEvent(st, &event.Event{Type: event.TypeDelete, ID: 42}); err == nil {
		t.Error("delete of a missing id succeeded")
	}
}

func TestApplyEvent_ZeroVarianceClears(t *testing.T) {
	st := measure.New()
	st.SetMagneticVariance(3)
	got, err := applyEvent(st, &event.Event{Type: event.TypeVariance, Degrees: 0})
	if err != nil || got != "Magnetic variance cleared" {
		t.Errorf("got %q, %v", got, err)
	}
}
