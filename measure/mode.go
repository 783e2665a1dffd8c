package measure

import "fmt"

// Mode is the active click-capture mode.
type Mode int

const (
	ModeNone Mode = iota
	ModeCalibrateNorth
	ModeCalibrateScale
	ModeMeasure
)

func (m Mode) String() string {
	switch m {
	case ModeCalibrateNorth:
		return "calibrate-north"
	case ModeCalibrateScale:
		return "calibrate-scale"
	case ModeMeasure:
		return "measure"
	default:
		return ""
	}
}

// ParseMode accepts the names produced by Mode.String. "none" and the empty
// string both mean ModeNone.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "none":
		return ModeNone, nil
	case "calibrate-north":
		return ModeCalibrateNorth, nil
	case "calibrate-scale":
		return ModeCalibrateScale, nil
	case "measure":
		return ModeMeasure, nil
	}
	return ModeNone, fmt.Errorf("unknown mode %q", s)
}

// Phase is the fine-grained interaction state derived from the mode, the
// pending first click and an outstanding scale value request.
type Phase int

const (
	Idle Phase = iota
	AwaitingNorthCenter
	AwaitingNorthPoint
	AwaitingScaleStart
	AwaitingScaleEnd
	AwaitingScaleValue
	AwaitingMeasureStart
	AwaitingMeasureEnd
)

func (p Phase) String() string {
	switch p {
	case AwaitingNorthCenter:
		return "AwaitingNorthCenter"
	case AwaitingNorthPoint:
		return "AwaitingNorthPoint"
	case AwaitingScaleStart:
		return "AwaitingScaleStart"
	case AwaitingScaleEnd:
		return "AwaitingScaleEnd"
	case AwaitingScaleValue:
		return "AwaitingScaleValue"
	case AwaitingMeasureStart:
		return "AwaitingMeasureStart"
	case AwaitingMeasureEnd:
		return "AwaitingMeasureEnd"
	default:
		return "Idle"
	}
}

// Prompt is the instruction shown to the user for this phase.
func (p Phase) Prompt() string {
	switch p {
	case AwaitingNorthCenter:
		return "Click compass rose center"
	case AwaitingNorthPoint:
		return "Click north indicator"
	case AwaitingScaleStart:
		return "Click start of scale bar"
	case AwaitingScaleEnd:
		return "Click end of scale bar"
	case AwaitingScaleValue:
		return "Enter scale distance"
	case AwaitingMeasureStart:
		return "Click first point"
	case AwaitingMeasureEnd:
		return "Click second point"
	default:
		return "Press m to measure"
	}
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }
