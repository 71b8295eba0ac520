package gun

import (
	"errors"
	"math"
	"testing"

	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/charge"
	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/formfunc"
)

// conversion factors for the Soviet-sourced reference data
const (
	dm      = 1e-1
	dm2     = 1e-2
	litre   = 1e-3
	kgfDm2  = 981.0
	kgfDmKg = 0.981
)

// bs3 assembles the Type 1944 100 mm cannon (БС-3) firing the 53-УОФ-412
// round, with the reduced burn rate supplied by the caller.
func bs3(t *testing.T, reducedBurnRate float64) *Gun {
	t.Helper()

	ndt3 := charge.Propellant{
		Name:             "НДТ-3",
		Density:          1600,
		Force:            950e3 * kgfDmKg,
		PressureExponent: 1.0,
		Covolume:         1e-3,
		AdiabaticIndex:   1.2,
	}
	ch, err := charge.FromPropellant(ndt3, formfunc.SinglePerf(1.8, 260), reducedBurnRate)
	if err != nil {
		t.Fatalf("charge: %v", err)
	}

	g, err := New(Gun{
		Name:          "БС-3 52-П-412 53-УОФ-412",
		CrossSection:  0.818 * dm2,
		ShotMass:      15.6,
		Charges:       []charge.Charge{ch},
		ChargeMasses:  []float64{5.6},
		ChamberVolume: 7.9 * litre,
		LossFraction:  0.03,
		StartPressure: 30000 * kgfDm2,
		Travel:        47.38 * dm,
	})
	if err != nil {
		t.Fatalf("gun: %v", err)
	}
	return g
}

func TestNewDimensionMismatch(t *testing.T) {
	g := bs3(t, 8e-7)
	bad := *g
	bad.ChargeMasses = []float64{5.6, 0.3}
	if _, err := New(bad); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestDerivedQuantities(t *testing.T) {
	g := bs3(t, 8e-7)

	if got, want := g.L0(), 7.9*litre/(0.818*dm2); math.Abs(got-want) > 1e-12 {
		t.Errorf("l_0 = %g, want %g", got, want)
	}
	if got, want := g.Phi(), 1+0.03+5.6/(3*15.6); math.Abs(got-want) > 1e-12 {
		t.Errorf("phi = %g, want %g", got, want)
	}
	if got, want := g.Theta(), 0.2; math.Abs(got-want) > 1e-12 {
		t.Errorf("theta = %g, want %g", got, want)
	}

	free := 1 - 1e-3*5.6/(7.9*litre)
	if got := g.BombFreeFraction(); math.Abs(got-free) > 1e-12 {
		t.Errorf("bomb free fraction = %g, want %g", got, free)
	}

	vj := math.Sqrt(2 * 950e3 * kgfDmKg * 5.6 / (0.2 * g.Phi() * 15.6))
	if got := g.AsymptoticVelocity(); math.Abs(got-vj) > 1e-9 {
		t.Errorf("v_j = %g, want %g", got, vj)
	}
	if got := g.ThermalEfficiency(vj); math.Abs(got-1) > 1e-12 {
		t.Errorf("thermal efficiency at v_j = %g, want 1", got)
	}
}

func TestBombStateBoundsEverything(t *testing.T) {
	g := bs3(t, 8e-7)
	bomb := g.BombState()

	if bomb.Marker != Bomb {
		t.Fatalf("bomb marker = %q", bomb.Marker)
	}
	for i, ch := range g.Charges {
		if bomb.BurnupFractions()[i] != ch.ZK() || math.Abs(bomb.VolumeBurnupFractions()[i]-1) > 1e-12 {
			t.Fatal("bomb state must be at full burnup")
		}
	}
	if bomb.Time() != 0 || bomb.Travel() != 0 || bomb.Velocity() != 0 {
		t.Fatal("bomb state must be at rest")
	}

	states, err := g.ToTravel(0, DefaultSteps, DefaultAcc)
	if err != nil {
		t.Fatalf("ToTravel: %v", err)
	}
	peak, err := states.PeakAveragePressure()
	if err != nil {
		t.Fatalf("peak: %v", err)
	}
	if bomb.AveragePressure() < peak {
		t.Errorf("bomb pressure %.4g below trajectory peak %.4g", bomb.AveragePressure(), peak)
	}
}

func TestToStart(t *testing.T) {
	g := bs3(t, 8e-7)

	states, err := g.ToStart(DefaultSteps, DefaultAcc)
	if err != nil {
		t.Fatalf("ToStart: %v", err)
	}
	if len(states) < DefaultSteps {
		t.Errorf("expected at least %d states, got %d", DefaultSteps, len(states))
	}

	start, err := states.ByMarker(Start)
	if err != nil {
		t.Fatalf("no start state: %v", err)
	}
	if rel := math.Abs(start.AveragePressure()-g.StartPressure) / g.StartPressure; rel > 0.02 {
		t.Errorf("start-state pressure off by %.3f%%", rel*100)
	}
	if start.Travel() != 0 || start.Velocity() != 0 {
		t.Error("shot must be at rest up to the start state")
	}
}

func TestCannotStart(t *testing.T) {
	g := bs3(t, 8e-7)
	weak := *g
	weak.ChargeMasses = []float64{1e-3} // bomb pressure below the start resistance

	if _, err := weak.ToStart(DefaultSteps, DefaultAcc); !errors.Is(err, ErrCannotStart) {
		t.Fatalf("expected ErrCannotStart, got %v", err)
	}
}

func TestTrajectoryInvariants(t *testing.T) {
	g := bs3(t, 8e-7)

	states, err := g.ToTravel(0, DefaultSteps, DefaultAcc)
	if err != nil {
		t.Fatalf("ToTravel: %v", err)
	}

	for i, s := range states {
		pb, pa, ps := s.BreechPressure(), s.AveragePressure(), s.ShotPressure()
		if ps < 0 || pa < 0 || pb < 0 {
			t.Fatalf("state %d: negative pressure", i)
		}
		if !(pb >= pa && pa >= ps) {
			t.Fatalf("state %d: gradient ordering violated: %g, %g, %g", i, pb, pa, ps)
		}
		for _, psi := range s.VolumeBurnupFractions() {
			if psi < 0 || psi > 1+1e-12 {
				t.Fatalf("state %d: psi = %g outside [0, 1]", i, psi)
			}
		}

		if i == 0 {
			continue
		}
		prev := states[i-1]
		if s.Time() < prev.Time() || s.Travel() < prev.Travel() || s.Velocity() < prev.Velocity() {
			t.Fatalf("state %d: trajectory not monotone", i)
		}
	}

	muzzle, err := states.ByMarker(Muzzle)
	if err != nil {
		t.Fatalf("no muzzle state: %v", err)
	}
	if math.Abs(muzzle.Travel()-g.Travel) > 1e-9*g.Travel {
		t.Errorf("muzzle travel %.9g, want %.9g", muzzle.Travel(), g.Travel)
	}
	if !states.HasMarker(PeakPressure) {
		t.Error("trajectory missing peak-pressure state")
	}
}

func TestPostBurnoutClosedForm(t *testing.T) {
	// a deliberately fast-burning loading guarantees burnout close to the
	// breech, leaving most of the bore to the adiabatic expansion
	g := bs3(t, 2e-6)

	states, err := g.ToTravel(0, DefaultSteps, DefaultAcc)
	if err != nil {
		t.Fatalf("ToTravel: %v", err)
	}

	burnout, err := states.ByMarker(Burnout)
	if err != nil {
		t.Fatalf("fast loading did not burn out in bore: %v", err)
	}

	mv, err := states.MuzzleVelocity()
	if err != nil {
		t.Fatalf("muzzle velocity: %v", err)
	}

	closed := g.VelocityPostBurnout(burnout, g.Travel)
	if rel := math.Abs(closed-mv) / mv; rel > 5e-3 {
		t.Errorf("closed-form velocity %.4f vs integrated %.4f (%.3f%%)", closed, mv, rel*100)
	}

	// and the inverse relation lands back on the muzzle
	travel := g.TravelPostBurnout(burnout, closed)
	if rel := math.Abs(travel-g.Travel) / g.Travel; rel > 1e-9 {
		t.Errorf("travel round trip %.6f vs %.6f", travel, g.Travel)
	}
}

func TestMarkMaxPressureIdempotent(t *testing.T) {
	g := bs3(t, 8e-7)

	states, err := g.ToTravel(0, DefaultSteps, DefaultAcc)
	if err != nil {
		t.Fatalf("ToTravel: %v", err)
	}

	again := g.MarkMaxPressure(states, DefaultAcc)
	if len(again) != len(states) {
		t.Fatalf("second MarkMaxPressure changed the list: %d -> %d states", len(states), len(again))
	}
}

func TestToBurnoutAbortPrecedence(t *testing.T) {
	g := bs3(t, 8e-7)

	states, err := g.ToBurnout(DefaultSteps, DefaultAcc, math.Inf(1), 50.0)
	if err != nil {
		t.Fatalf("ToBurnout: %v", err)
	}
	if states.HasMarker(Burnout) {
		t.Error("abort on velocity must suppress the burnout state")
	}
	for i, s := range states {
		if s.Velocity() > 50.0 {
			t.Fatalf("state %d exceeds the abort velocity: %g", i, s.Velocity())
		}
	}
}

func TestStateListMarkerLookup(t *testing.T) {
	g := bs3(t, 8e-7)
	var sl StateList

	_, err := sl.ByMarker(Muzzle)
	var me *MarkerError
	if !errors.As(err, &me) {
		t.Fatalf("expected MarkerError, got %v", err)
	}

	sl = StateList{g.BombState()}
	if sl.HasMarker(Muzzle) {
		t.Error("HasMarker false positive")
	}
	if !sl.HasMarker(Bomb) {
		t.Error("HasMarker false negative")
	}
}
