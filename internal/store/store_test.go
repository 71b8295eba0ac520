package store

import (
	"testing"

	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/charge"
	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/formfunc"
	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/gun"
)

func testTrajectory(t *testing.T) (*gun.Gun, gun.StateList) {
	t.Helper()

	ndt3 := charge.Propellant{
		Name:             "НДТ-3",
		Density:          1600,
		Force:            950e3 * 0.981,
		PressureExponent: 1.0,
		Covolume:         1e-3,
		AdiabaticIndex:   1.2,
	}
	ch, err := charge.FromPropellant(ndt3, formfunc.SinglePerf(1.8, 260), 8e-7)
	if err != nil {
		t.Fatalf("charge: %v", err)
	}
	g, err := gun.New(gun.Gun{
		Name:          "БС-3 store test",
		CrossSection:  0.818e-2,
		ShotMass:      15.6,
		Charges:       []charge.Charge{ch},
		ChargeMasses:  []float64{5.6},
		ChamberVolume: 7.9e-3,
		LossFraction:  0.03,
		StartPressure: 30000 * 981,
		Travel:        4.738,
	})
	if err != nil {
		t.Fatalf("gun: %v", err)
	}

	states, err := g.ToTravel(0, gun.DefaultSteps, gun.DefaultAcc)
	if err != nil {
		t.Fatalf("ToTravel: %v", err)
	}
	return g, states
}

func TestSaveLoadRoundTrip(t *testing.T) {
	g, states := testTrajectory(t)

	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	runID, err := s.Save(g, states, gun.DefaultAcc, gun.DefaultSteps)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	meta, err := s.Load(runID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if meta.Gun != g.Name {
		t.Errorf("gun name round trip: %q", meta.Gun)
	}
	if meta.States != len(states) {
		t.Errorf("state count: %d vs %d", meta.States, len(states))
	}
	wantMv, _ := states.MuzzleVelocity()
	if meta.MuzzleVelocity != wantMv {
		t.Errorf("muzzle velocity: %g vs %g", meta.MuzzleVelocity, wantMv)
	}

	times, pressures, velocities, err := s.LoadHistory(runID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(times) != len(states) || len(pressures) != len(states) || len(velocities) != len(states) {
		t.Fatalf("history length %d/%d/%d vs %d states", len(times), len(pressures), len(velocities), len(states))
	}

	runs, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != runID {
		t.Errorf("list: %+v", runs)
	}
}

func TestListEmpty(t *testing.T) {
	s := New(t.TempDir())
	runs, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}
