package measure

import "chartmeasure/geom"

// Calibration maps screen geometry onto true north, nautical miles and
// magnetic north.
type Calibration struct {
	// NorthOffset is added clockwise to raw screen bearings.
	NorthOffset           float64
	NorthCalibrated       bool
	NorthCustomCalibrated bool

	ScalePixelDistance float64
	ScaleNauticalMiles float64
	ScaleCalibrated    bool

	// MagneticVariance is East positive. Zero is never stored as "set".
	MagneticVariance    float64
	MagneticVarianceSet bool
}

// DefaultCalibration is screen-up north, no scale, no variance.
func DefaultCalibration() Calibration {
	return Calibration{NorthCalibrated: true}
}

// Line is a pair of clicked points, drawn for calibration feedback.
type Line struct {
	P1 geom.Point `json:"p1"`
	P2 geom.Point `json:"p2"`
}
