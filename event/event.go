package event

import "chartmeasure/geom"

// Type is the kind of input event.
type Type int

const (
	TypePoint         Type = iota // A click at Point
	TypeMode                      // Switch to Mode
	TypeScaleDistance             // Scale line is NM long
	TypeCancelScale               // Abandon the scale prompt
	TypeVariance                  // Set magnetic variance to Degrees
	TypeClearVariance             // Remove magnetic variance
	TypeReset                     // Reset all calibrations
	TypeClear                     // Clear all measurements
	TypeDelete                    // Delete measurement ID
	TypeEscape                    // Escape key
)

func (t Type) String() string {
	switch t {
	case TypePoint:
		return "point"
	case TypeMode:
		return "mode"
	case TypeScaleDistance:
		return "scale"
	case TypeCancelScale:
		return "cancel-scale"
	case TypeVariance:
		return "variance"
	case TypeClearVariance:
		return "clear-variance"
	case TypeReset:
		return "reset"
	case TypeClear:
		return "clear"
	case TypeDelete:
		return "delete"
	case TypeEscape:
		return "escape"
	default:
		return "unknown"
	}
}

// Event is one input for the measurement core, from the keyboard, the mouse
// or a digitizer. Only the fields for Type are meaningful.
type Event struct {
	Type Type

	// TypePoint
	Point geom.Point

	// TypeMode: "measure", "calibrate-north", "calibrate-scale" or "" for none
	Mode string

	// TypeScaleDistance
	NM float64

	// TypeVariance
	Degrees float64

	// TypeDelete
	ID int
}
