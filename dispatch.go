package main

import (
	"fmt"

	"chartmeasure/event"
	"chartmeasure/geom"
	"chartmeasure/measure"
)

// applyEvent feeds one input into the core and returns a line for the
// message log. An empty line means there is nothing worth reporting.
func applyEvent(st *measure.State, ev *event.Event) (string, error) {
	switch ev.Type {
	case event.TypePoint:
		res, err := st.SubmitPoint(ev.Point)
		if err != nil {
			return "", err
		}
		switch res.Outcome {
		case measure.OutcomeNorthCalibrated:
			return fmt.Sprintf("North calibrated (offset %.1f°)", st.Calibration().NorthOffset), nil
		case measure.OutcomeScaleNeedsDistance:
			return "Scale line captured", nil
		case measure.OutcomeMeasured:
			return fmt.Sprintf("#%d %s", res.Measurement.ID, res.Measurement.Label), nil
		}
		return "", nil

	case event.TypeMode:
		mode, err := measure.ParseMode(ev.Mode)
		if err != nil {
			return "", err
		}
		st.SetMode(mode)
		return "", nil

	case event.TypeScaleDistance:
		if err := st.SubmitScaleDistance(ev.NM); err != nil {
			return "", err
		}
		cal := st.Calibration()
		return fmt.Sprintf("Scale calibrated: %.1f px = %s", cal.ScalePixelDistance, geom.FormatDistance(cal.ScaleNauticalMiles)), nil

	case event.TypeCancelScale:
		st.CancelScale()
		return "Scale calibration cancelled", nil

	case event.TypeVariance:
		if err := st.SetMagneticVariance(ev.Degrees); err != nil {
			return "", err
		}
		if !st.Calibration().MagneticVarianceSet {
			return "Magnetic variance cleared", nil
		}
		return "Magnetic variance " + geom.FormatVariance(ev.Degrees), nil

	case event.TypeClearVariance:
		st.ClearMagneticVariance()
		return "Magnetic variance cleared", nil

	case event.TypeReset:
		st.ResetCalibrations()
		return "Calibrations reset", nil

	case event.TypeClear:
		st.ClearAllMeasurements()
		return "Measurements cleared", nil

	case event.TypeDelete:
		if !st.DeleteMeasurement(ev.ID) {
			return "", fmt.Errorf("no measurement #%d", ev.ID)
		}
		return fmt.Sprintf("Deleted #%d", ev.ID), nil

	case event.TypeEscape:
		st.Escape()
		return "", nil
	}
	return "", fmt.Errorf("unhandled event type %v", ev.Type)
}
