package gun

import (
	"fmt"
	"sort"
)

// MarkerError indicates a StateList lookup for a marker that is absent.
type MarkerError struct {
	Marker Marker
}

func (e *MarkerError) Error() string {
	return fmt.Sprintf("gun: state list contains no state with marker %q", e.Marker)
}

// StateList is a trajectory: an ordered sequence of States. Lists returned
// by the integrator are sorted by time, with event states inserted at the
// positions of their located times.
type StateList []State

// ByMarker returns the first state carrying the given marker.
func (sl StateList) ByMarker(marker Marker) (State, error) {
	for _, s := range sl {
		if s.Marker == marker {
			return s, nil
		}
	}
	return State{}, &MarkerError{Marker: marker}
}

// HasMarker reports whether any state carries the given marker.
func (sl StateList) HasMarker(marker Marker) bool {
	_, err := sl.ByMarker(marker)
	return err == nil
}

// MuzzleVelocity is the velocity at the muzzle state.
func (sl StateList) MuzzleVelocity() (float64, error) {
	s, err := sl.ByMarker(Muzzle)
	if err != nil {
		return 0, err
	}
	return s.Velocity(), nil
}

// MuzzleTravel is the travel at the muzzle state.
func (sl StateList) MuzzleTravel() (float64, error) {
	s, err := sl.ByMarker(Muzzle)
	if err != nil {
		return 0, err
	}
	return s.Travel(), nil
}

// BurnoutPoint is the travel at which the last charge burnt out.
func (sl StateList) BurnoutPoint() (float64, error) {
	s, err := sl.ByMarker(Burnout)
	if err != nil {
		return 0, err
	}
	return s.Travel(), nil
}

// PeakShotPressure is the shot-base pressure at the located pressure peak.
func (sl StateList) PeakShotPressure() (float64, error) {
	s, err := sl.ByMarker(PeakPressure)
	if err != nil {
		return 0, err
	}
	return s.ShotPressure(), nil
}

// PeakAveragePressure is the average pressure at the located pressure peak.
func (sl StateList) PeakAveragePressure() (float64, error) {
	s, err := sl.ByMarker(PeakPressure)
	if err != nil {
		return 0, err
	}
	return s.AveragePressure(), nil
}

// insert places s in time order.
func (sl StateList) insert(s State) StateList {
	i := sort.Search(len(sl), func(j int) bool { return sl[j].Time() > s.Time() })
	sl = append(sl, State{})
	copy(sl[i+1:], sl[i:])
	sl[i] = s
	return sl
}

func (sl StateList) minTime() float64 {
	t := sl[0].Time()
	for _, s := range sl[1:] {
		if s.Time() < t {
			t = s.Time()
		}
	}
	return t
}

func (sl StateList) maxTime() float64 {
	t := sl[0].Time()
	for _, s := range sl[1:] {
		if s.Time() > t {
			t = s.Time()
		}
	}
	return t
}

// last returns the latest state by time.
func (sl StateList) last() State {
	out := sl[0]
	for _, s := range sl[1:] {
		if s.Time() > out.Time() {
			out = s
		}
	}
	return out
}
