package gun

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/num"
)

// ToStart integrates from ignition until the average pressure first
// reaches the shot-start resistance, locating the start instant to
// acc times the rough time-to-start. The returned list holds at least
// nIntg states and ends with the Start-marked state.
//
// The step size is seeded with MaxDt; once a rough time-to-start is known
// the run is repeated with that time divided by nIntg until enough points
// have been collected. The reruns pace the trajectory for downstream
// tabulation, they do not change the integration order.
func (g *Gun) ToStart(nIntg int, acc float64) (StateList, error) {
	if g.BombState().AveragePressure() < g.StartPressure {
		return nil, ErrCannotStart
	}

	initial := newState(g, StateVector{BurnupFractions: make([]float64, len(g.Charges))}, Ignition, false)

	deltaT, roughTTS := MaxDt, 0.0
	var states StateList
	sNow, sNext := initial, initial

	for len(states) < nIntg {
		if roughTTS > 0 {
			deltaT = roughTTS / float64(nIntg)
		}
		sNext = initial
		states = StateList{sNext}

		for sNext.AveragePressure() < g.StartPressure {
			sNow = sNext
			states = append(states, sNow)
			sNext = g.stepTime(sNow, deltaT, Step)
		}
		roughTTS = sNext.Time()
	}

	stateAt := func(t float64, marker Marker) State {
		return g.stepTime(sNow, t-sNow.Time(), marker)
	}

	startTime, _, err := num.Dekker(func(t float64) float64 {
		return stateAt(t, Intermediate).AveragePressure() - g.StartPressure
	}, sNow.Time(), sNext.Time(), roughTTS*acc)
	if err != nil {
		return nil, err
	}

	return append(states, stateAt(startTime, Start)), nil
}

// StartState runs ToStart and returns the located shot-start state.
func (g *Gun) StartState(nIntg int, acc float64) (State, error) {
	states, err := g.ToStart(nIntg, acc)
	if err != nil {
		return State{}, err
	}
	return states.ByMarker(Start)
}

// ToBurnout integrates from shot start until every charge has burnt out,
// or until travel or velocity exceed the abort bounds, whichever comes
// first. The end point is located by bisecting time to acc times the rough
// total time; when the run ended on an abort bound no Burnout state is
// emitted and no state beyond the bound is retained. The returned list has
// passed through MarkMaxPressure.
func (g *Gun) ToBurnout(nIntg int, acc, abortTravel, abortVelocity float64) (StateList, error) {
	start, err := g.StartState(nIntg, acc)
	if err != nil {
		return nil, err
	}
	zc0 := start.BurnupFractions()

	abort := func(s State) bool {
		return s.Travel() > abortTravel || s.Velocity() > abortVelocity
	}

	// time is re-zeroed at shot start; travel and velocity are zero there
	// by construction
	seed := newState(g, StateVector{BurnupFractions: zc0}, Start, true)

	var states StateList
	deltaT, roughTTB := MaxDt, 0.0
	sNow, sNext := seed, seed

	for len(states) < nIntg {
		if roughTTB > 0 {
			deltaT = roughTTB / float64(nIntg)
		}
		states = StateList{}
		sNext = seed

		for !(sNext.IsBurnout() || abort(sNext)) {
			sNow = sNext
			states = append(states, sNow)
			sNext = g.stepTime(sNow, deltaT, Step)
		}
		roughTTB = sNext.Time()
	}

	timeEnd := func(t float64) float64 {
		s := g.stepTime(sNow, t-sNow.Time(), Intermediate)
		if s.IsBurnout() || abort(s) {
			return -1
		}
		return 1
	}

	b, c, err := num.Dekker(timeEnd, sNow.Time(), sNext.Time(), roughTTB*acc)
	if err != nil {
		return nil, err
	}
	endTime := math.Max(b, c)
	sEnd := g.stepTime(sNow, endTime-sNow.Time(), Step)

	switch {
	case abort(sEnd):
		// abort takes precedence over burnout; the over-bound state is
		// dropped
	case sEnd.IsBurnout():
		states = append(states, sEnd.Remark(Burnout))
	}

	return g.MarkMaxPressure(states, acc), nil
}

// ToTravel integrates up to the given shot travel, defaulting to the gun's
// own. Travel-wise stepping is used only for the single terminal step onto
// the muzzle; past burnout the step size is seeded from the closed-form
// adiabatic estimate of the remaining time.
func (g *Gun) ToTravel(travel float64, nIntg int, acc float64) (StateList, error) {
	if travel == 0 {
		travel = g.Travel
	}
	if travel <= 0 {
		return nil, errors.New("gun: travel must be supplied either as an argument or at construction")
	}

	states, err := g.ToBurnout(nIntg, acc, travel, math.Inf(1))
	if err != nil {
		return nil, err
	}
	state := states.last()

	if states.HasMarker(Burnout) {
		burnout, _ := states.ByMarker(Burnout)

		vMuzzle := g.VelocityPostBurnout(burnout, travel)
		vAverage := 0.5 * (vMuzzle + burnout.Velocity())
		ttmEst := (travel - burnout.Travel()) / vAverage

		// the greater of the step used so far and a conservative estimate
		// of the remaining time over nIntg
		dt := math.Max(
			(states.maxTime()-states.minTime())/float64(len(states)),
			ttmEst/float64(nIntg),
		)

		next := g.stepTime(state, dt, Step)
		for next.Travel() < travel {
			state = next
			states = append(states, state)
			next = g.stepTime(state, dt, Step)
		}
	}

	states = append(states, g.stepTravel(state, travel-state.Travel(), Muzzle))

	return g.MarkMaxPressure(states, acc), nil
}

// VelocityPostBurnout evaluates the closed-form adiabatic expansion from a
// burnout state out to the given travel.
func (g *Gun) VelocityPostBurnout(burnout State, travel float64) float64 {
	lk, vk := burnout.Travel(), burnout.Velocity()
	l1 := g.postBurnoutFreeLength()
	vj := g.AsymptoticVelocity()
	theta := g.Theta()

	r := vk / vj
	return vj * math.Sqrt(1-(1-r*r)/math.Pow((l1+travel)/(l1+lk), theta))
}

// TravelPostBurnout inverts VelocityPostBurnout: the travel at which the
// post-burnout expansion reaches the given velocity.
func (g *Gun) TravelPostBurnout(burnout State, velocity float64) float64 {
	lk, vk := burnout.Travel(), burnout.Velocity()
	l1 := g.postBurnoutFreeLength()
	vj := g.AsymptoticVelocity()
	theta := g.Theta()

	rk, r := vk/vj, velocity/vj
	return (l1+lk)*math.Pow((1-r*r)/(1-rk*rk), -1/theta) - l1
}

// postBurnoutFreeLength is the reduced length of the gas volume at full
// burnup, l_0 times the free fraction at psi = 1.
func (g *Gun) postBurnoutFreeLength() float64 {
	ones := make([]float64, len(g.Charges))
	for i := range ones {
		ones[i] = 1
	}
	return g.L0() * (1 - g.IncompressibleFraction(ones))
}

// MarkMaxPressure locates the pressure peak by golden-section search over
// the three-point bracket around the discrete maximum, and inserts the
// located state in time order. Idempotent: a list already carrying a
// PeakPressure marker is returned unchanged.
func (g *Gun) MarkMaxPressure(states StateList, acc float64) StateList {
	if states.HasMarker(PeakPressure) {
		return states
	}

	totalTime := states.maxTime() - states.minTime()

	pressures := make([]float64, len(states))
	for i, s := range states {
		pressures[i] = s.AveragePressure()
	}
	j := floats.MaxIdx(pressures)

	i, k := max(j-1, 0), min(j+1, len(states)-1)
	si, sj, sk := states[i], states[j], states[k]

	pressureAt := func(t float64) float64 {
		if t < sj.Time() {
			return g.stepTime(si, t-si.Time(), Intermediate).AveragePressure()
		}
		return g.stepTime(sj, t-sj.Time(), Intermediate).AveragePressure()
	}

	lo, hi := num.GssMax(pressureAt, si.Time(), sk.Time(), acc*totalTime)
	tPeak := 0.5 * (lo + hi)

	return states.insert(g.stepTime(sj, tPeak-sj.Time(), PeakPressure))
}
