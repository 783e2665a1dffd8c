// Package measure holds the calibration and measurement state machine.
//
// All measurements are recomputed from their recorded points whenever the
// calibration changes, so the calibration applies retroactively. A State is
// driven from a single event loop and is not safe for concurrent use.
package measure

import (
	"errors"
	"fmt"
	"math"

	"chartmeasure/geom"
)

var (
	ErrNoMode               = errors.New("no capture mode active")
	ErrInvalidScaleDistance = errors.New("scale distance must be greater than 0")
	ErrNoPendingScale       = errors.New("no scale line has been measured")
	ErrInvalidVariance      = errors.New("magnetic variance must be between -180 and 180")
)

// Outcome says what a submitted point did.
type Outcome int

const (
	OutcomePending Outcome = iota + 1
	OutcomeNorthCalibrated
	OutcomeScaleNeedsDistance
	OutcomeMeasured
)

// Result is returned by SubmitPoint. Measurement is set for OutcomeMeasured.
type Result struct {
	Outcome     Outcome
	Measurement *Measurement
}

// State owns the calibration, the measurement list and the in-flight
// two-click gesture.
type State struct {
	cal Calibration

	mode    Mode
	pending *geom.Point

	// Second scale click captured, waiting for the nautical-mile value.
	awaitingScale      bool
	pendingScalePixels float64
	pendingScaleLine   *Line

	northLine *Line
	scaleLine *Line

	measurements []Measurement
	lastID       int

	subs      []subscription
	lastSubID int
}

// New returns a State with default calibration and no measurements.
func New() *State {
	return &State{cal: DefaultCalibration()}
}

// Calibration returns the current calibration.
func (s *State) Calibration() Calibration { return s.cal }

// Mode returns the active capture mode.
func (s *State) Mode() Mode { return s.mode }

// Pending returns the first click of the in-flight gesture, if any.
func (s *State) Pending() (geom.Point, bool) {
	if s.pending == nil {
		return geom.Point{}, false
	}
	return *s.pending, true
}

// Phase derives the interaction phase.
func (s *State) Phase() Phase {
	first := s.pending == nil
	switch s.mode {
	case ModeCalibrateNorth:
		if first {
			return AwaitingNorthCenter
		}
		return AwaitingNorthPoint
	case ModeCalibrateScale:
		if s.awaitingScale {
			return AwaitingScaleValue
		}
		if first {
			return AwaitingScaleStart
		}
		return AwaitingScaleEnd
	case ModeMeasure:
		if first {
			return AwaitingMeasureStart
		}
		return AwaitingMeasureEnd
	}
	return Idle
}

// SetMode switches the capture mode and drops any in-flight gesture.
// ModeNone disables point capture.
func (s *State) SetMode(m Mode) {
	s.mode = m
	s.dropGesture()
	mlog().Debug().Str("mode", m.String()).Msg("mode set")
	s.notify(NotifyModeChanged)
}

func (s *State) dropGesture() {
	s.pending = nil
	s.awaitingScale = false
	s.pendingScalePixels = 0
	s.pendingScaleLine = nil
}

// SubmitPoint feeds one click into the active mode. The first click of a
// gesture is held as pending; the second completes it.
func (s *State) SubmitPoint(p geom.Point) (Result, error) {
	if s.mode == ModeNone {
		return Result{}, ErrNoMode
	}
	if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
		return Result{}, fmt.Errorf("point %v is not finite", p)
	}

	if s.pending == nil {
		s.pending = &p
		if s.mode == ModeCalibrateScale {
			// A new scale line replaces one still waiting for a value.
			s.awaitingScale = false
			s.pendingScalePixels = 0
			s.pendingScaleLine = nil
		}
		s.notify(NotifyModeChanged)
		return Result{Outcome: OutcomePending}, nil
	}

	first := *s.pending
	s.pending = nil

	switch s.mode {
	case ModeCalibrateNorth:
		s.cal.NorthOffset = geom.NorthOffsetFromCalibration(first, p)
		s.cal.NorthCalibrated = true
		s.cal.NorthCustomCalibrated = true
		s.northLine = &Line{P1: first, P2: p}
		mlog().Info().Float64("offset", s.cal.NorthOffset).Msg("north calibrated")
		s.recomputeAll()
		s.notify(NotifyModeChanged, NotifyCalibrationChanged, NotifyMeasurementsChanged)
		return Result{Outcome: OutcomeNorthCalibrated}, nil

	case ModeCalibrateScale:
		s.pendingScalePixels = geom.PixelDistance(first, p)
		s.pendingScaleLine = &Line{P1: first, P2: p}
		s.awaitingScale = true
		mlog().Info().Float64("pixels", s.pendingScalePixels).Msg("scale line captured, awaiting distance")
		s.notify(NotifyModeChanged, NotifyScaleDistanceNeeded)
		return Result{Outcome: OutcomeScaleNeedsDistance}, nil

	default:
		s.lastID++
		m := Measurement{ID: s.lastID, Point1: first, Point2: p}
		m.compute(s.cal)
		s.measurements = append(s.measurements, m)
		mlog().Info().Int("id", m.ID).Str("label", m.Label).Msg("measurement added")
		s.notify(NotifyModeChanged, NotifyMeasurementsChanged)
		return Result{Outcome: OutcomeMeasured, Measurement: &m}, nil
	}
}

// SubmitScaleDistance completes a scale calibration with the real distance,
// in nautical miles, of the last captured scale line. When no new line is
// waiting, the value re-scales the current calibration line.
func (s *State) SubmitScaleDistance(nm float64) error {
	if math.IsNaN(nm) || math.IsInf(nm, 0) || nm <= 0 {
		return ErrInvalidScaleDistance
	}

	pixels := s.cal.ScalePixelDistance
	line := s.scaleLine
	if s.awaitingScale {
		pixels = s.pendingScalePixels
		line = s.pendingScaleLine
	}
	if pixels <= 0 {
		return ErrNoPendingScale
	}

	s.cal.ScalePixelDistance = pixels
	s.cal.ScaleNauticalMiles = nm
	s.cal.ScaleCalibrated = true
	s.scaleLine = line
	s.awaitingScale = false
	s.pendingScalePixels = 0
	s.pendingScaleLine = nil

	mlog().Info().Float64("nm", nm).Float64("pixels", pixels).Msg("scale calibrated")
	s.recomputeAll()
	s.notify(NotifyModeChanged, NotifyCalibrationChanged, NotifyMeasurementsChanged)
	return nil
}

// CancelScale discards a captured scale line and any pending scale click.
// An existing scale calibration is kept.
func (s *State) CancelScale() {
	s.awaitingScale = false
	s.pendingScalePixels = 0
	s.pendingScaleLine = nil
	if s.mode == ModeCalibrateScale {
		s.pending = nil
	}
	s.notify(NotifyModeChanged)
}

// SetMagneticVariance sets the East-positive variance. Zero or NaN clears it.
// A value outside [-180, 180] clears the variance and returns
// ErrInvalidVariance.
func (s *State) SetMagneticVariance(v float64) error {
	if math.IsNaN(v) || v == 0 {
		s.ClearMagneticVariance()
		return nil
	}
	if v < -180 || v > 180 {
		s.ClearMagneticVariance()
		return ErrInvalidVariance
	}

	s.cal.MagneticVariance = v
	s.cal.MagneticVarianceSet = true
	mlog().Info().Float64("variance", v).Msg("magnetic variance set")
	s.recomputeAll()
	s.notify(NotifyCalibrationChanged, NotifyMeasurementsChanged)
	return nil
}

// ClearMagneticVariance removes the variance.
func (s *State) ClearMagneticVariance() {
	s.cal.MagneticVariance = 0
	s.cal.MagneticVarianceSet = false
	mlog().Info().Msg("magnetic variance cleared")
	s.recomputeAll()
	s.notify(NotifyCalibrationChanged, NotifyMeasurementsChanged)
}

// ResetCalibrations restores north, scale and variance to their defaults.
// Measurements are kept and recomputed.
func (s *State) ResetCalibrations() {
	s.cal = DefaultCalibration()
	s.northLine = nil
	s.scaleLine = nil
	mlog().Info().Msg("calibrations reset")
	s.recomputeAll()
	s.notify(NotifyCalibrationChanged, NotifyMeasurementsChanged)
}

// ClearAllMeasurements removes every measurement, leaves capture mode and
// hides the calibration lines. Calibration values and the id counter are
// kept.
func (s *State) ClearAllMeasurements() {
	s.measurements = nil
	s.mode = ModeNone
	s.dropGesture()
	s.northLine = nil
	s.scaleLine = nil
	mlog().Info().Msg("measurements cleared")
	s.notify(NotifyModeChanged, NotifyMeasurementsChanged)
}

// DeleteMeasurement removes the measurement with the given id. It reports
// whether one was found; a missing id is not an error.
func (s *State) DeleteMeasurement(id int) bool {
	for i, m := range s.measurements {
		if m.ID == id {
			s.measurements = append(s.measurements[:i:i], s.measurements[i+1:]...)
			mlog().Info().Int("id", id).Msg("measurement deleted")
			s.notify(NotifyMeasurementsChanged)
			return true
		}
	}
	return false
}

// Escape leaves the active mode, or clears all measurements when no mode
// is active.
func (s *State) Escape() {
	if s.mode != ModeNone {
		s.SetMode(ModeNone)
		return
	}
	s.ClearAllMeasurements()
}

// RecomputeAll re-derives every measurement from its points and the current
// calibration.
func (s *State) RecomputeAll() {
	s.recomputeAll()
	s.notify(NotifyMeasurementsChanged)
}

func (s *State) recomputeAll() {
	for i := range s.measurements {
		s.measurements[i].compute(s.cal)
	}
	mlog().Debug().Int("count", len(s.measurements)).Msg("measurements recomputed")
}

// Measurements returns a copy of the measurements in creation order.
func (s *State) Measurements() []Measurement {
	return append([]Measurement(nil), s.measurements...)
}

// Measurement looks up a measurement by id.
func (s *State) Measurement(id int) (Measurement, bool) {
	for _, m := range s.measurements {
		if m.ID == id {
			return m, true
		}
	}
	return Measurement{}, false
}

// NextID is the id the next measurement will receive.
func (s *State) NextID() int { return s.lastID + 1 }
