package measure

import (
	"strings"

	"chartmeasure/geom"
)

// Measurement is one completed two-click measurement. Point1 is the origin
// and Point2 the destination; the derived fields follow the calibration in
// force at the last recompute.
type Measurement struct {
	ID     int        `json:"id"`
	Point1 geom.Point `json:"point1"`
	Point2 geom.Point `json:"point2"`

	TrueHeading     float64  `json:"trueHeading"`
	MagneticHeading *float64 `json:"magneticHeading,omitempty"`
	DistanceNM      *float64 `json:"distanceNM,omitempty"`
	Label           string   `json:"label"`
}

// compute fills the derived fields of m from its points. Optional values are
// freshly allocated so copies handed out earlier never change underneath
// their holders.
func (m *Measurement) compute(cal Calibration) {
	m.TrueHeading = geom.Bearing(m.Point1, m.Point2, cal.NorthOffset)

	m.MagneticHeading = nil
	if cal.MagneticVarianceSet {
		mag := geom.MagneticHeading(m.TrueHeading, cal.MagneticVariance)
		m.MagneticHeading = &mag
	}

	m.DistanceNM = nil
	if cal.ScaleCalibrated {
		px := geom.PixelDistance(m.Point1, m.Point2)
		nm := geom.PixelsToNauticalMiles(px, cal.ScalePixelDistance, cal.ScaleNauticalMiles)
		m.DistanceNM = &nm
	}

	m.Label = buildLabel(m.TrueHeading, m.MagneticHeading, m.DistanceNM)
}

// buildLabel joins "DDD°T", "DDD°M" and "D.D NM", skipping absent parts.
func buildLabel(trueHeading float64, magnetic, distance *float64) string {
	parts := []string{geom.FormatBearing(trueHeading) + "T"}
	if magnetic != nil {
		parts = append(parts, geom.FormatBearing(*magnetic)+"M")
	}
	if distance != nil {
		parts = append(parts, geom.FormatDistance(*distance))
	}
	return strings.Join(parts, " / ")
}
