package measure

// Notification tells subscribers what kind of change just happened.
type Notification int

const (
	// NotifyCalibrationChanged follows any calibration mutation or reset.
	NotifyCalibrationChanged Notification = iota + 1
	// NotifyScaleDistanceNeeded follows the second scale click; the host
	// should ask for a nautical-mile value.
	NotifyScaleDistanceNeeded
	// NotifyMeasurementsChanged follows an add, delete, clear or recompute.
	NotifyMeasurementsChanged
	// NotifyModeChanged follows a mode switch or a change to the pending
	// gesture.
	NotifyModeChanged
)

func (n Notification) String() string {
	switch n {
	case NotifyCalibrationChanged:
		return "calibration-changed"
	case NotifyScaleDistanceNeeded:
		return "scale-distance-needed"
	case NotifyMeasurementsChanged:
		return "measurements-changed"
	case NotifyModeChanged:
		return "mode-changed"
	default:
		return "unknown"
	}
}

// Listener receives notifications synchronously, after the state change is
// complete. A listener may read the State but must not mutate it.
type Listener func(Notification)

type subscription struct {
	id int
	fn Listener
}

// Subscribe registers l and returns a func that removes it.
func (s *State) Subscribe(l Listener) func() {
	s.lastSubID++
	id := s.lastSubID
	s.subs = append(s.subs, subscription{id: id, fn: l})
	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *State) notify(ns ...Notification) {
	if len(s.subs) == 0 {
		return
	}
	subs := append([]subscription(nil), s.subs...)
	for _, n := range ns {
		for _, sub := range subs {
			sub.fn(n)
		}
	}
}
