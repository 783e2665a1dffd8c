package measure

import "chartmeasure/geom"

// Status is the pull-model summary a host re-reads after every mutation.
type Status struct {
	NorthCalibrated       bool    `json:"northCalibrated"`
	NorthCustomCalibrated bool    `json:"northCustomCalibrated"`
	ScaleCalibrated       bool    `json:"scaleCalibrated"`
	MagneticVariance      float64 `json:"magneticVariance"`
	MagneticVarianceSet   bool    `json:"magneticVarianceSet"`
	Mode                  Mode    `json:"mode"`
	MeasurementCount      int     `json:"measurementCount"`

	Phase              Phase   `json:"phase"`
	Prompt             string  `json:"prompt"`
	NorthOffset        float64 `json:"northOffset"`
	ScalePixelDistance float64 `json:"scalePixelDistance"`
	ScaleNauticalMiles float64 `json:"scaleNauticalMiles"`
}

// Status reports the current state.
func (s *State) Status() Status {
	phase := s.Phase()
	return Status{
		NorthCalibrated:       s.cal.NorthCalibrated,
		NorthCustomCalibrated: s.cal.NorthCustomCalibrated,
		ScaleCalibrated:       s.cal.ScaleCalibrated,
		MagneticVariance:      s.cal.MagneticVariance,
		MagneticVarianceSet:   s.cal.MagneticVarianceSet,
		Mode:                  s.mode,
		MeasurementCount:      len(s.measurements),
		Phase:                 phase,
		Prompt:                phase.Prompt(),
		NorthOffset:           s.cal.NorthOffset,
		ScalePixelDistance:    s.cal.ScalePixelDistance,
		ScaleNauticalMiles:    s.cal.ScaleNauticalMiles,
	}
}

// Snapshot is everything a renderer needs, copied out of the State.
type Snapshot struct {
	Status       Status
	Measurements []Measurement
	Pending      *geom.Point
	NorthLine    *Line
	// ScaleLine is the line waiting for a value, else the calibrated one.
	ScaleLine *Line
}

// Snapshot copies the renderable state.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		Status:       s.Status(),
		Measurements: s.Measurements(),
	}
	if s.pending != nil {
		p := *s.pending
		snap.Pending = &p
	}
	if s.northLine != nil {
		l := *s.northLine
		snap.NorthLine = &l
	}
	scale := s.scaleLine
	if s.pendingScaleLine != nil {
		scale = s.pendingScaleLine
	}
	if scale != nil {
		l := *scale
		snap.ScaleLine = &l
	}
	return snap
}
