package design

import (
	"errors"
	"math"
	"testing"

	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/charge"
	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/formfunc"
	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/gun"
	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/problem"
)

const (
	dm2     = 1e-2
	kgfDm2  = 981.0
	kgfDmKg = 0.981
)

func bs3Design() FixedChargeDesign {
	ndt3 := charge.Propellant{
		Name:             "НДТ-3",
		Density:          1600,
		Force:            950e3 * kgfDmKg,
		PressureExponent: 1.0,
		Covolume:         1e-3,
		AdiabaticIndex:   1.2,
	}
	return FixedChargeDesign{
		BaseDesign: BaseDesign{
			Name:           "БС-3 travel study",
			Propellants:    []charge.Propellant{ndt3},
			FormFunctions:  []formfunc.FormFunction{formfunc.SinglePerf(1.8, 260)},
			CrossSection:   0.818 * dm2,
			ShotMass:       15.6,
			LossFraction:   0.03,
			StartPressure:  30000 * kgfDm2,
			PressureTarget: problem.AveragePressure(3070e2 * kgfDm2),
		},
		ChargeMasses: []float64{5.6},
	}
}

func TestCaliber(t *testing.T) {
	d := bs3Design()
	want := math.Sqrt(4 * 0.818 * dm2 / math.Pi)
	if got := d.Caliber(); math.Abs(got-want) > 1e-12 {
		t.Errorf("caliber = %g, want %g", got, want)
	}
}

func TestVelocityUnachievable(t *testing.T) {
	if testing.Short() {
		t.Skip("nested inverse solve")
	}
	d := bs3Design()

	// no loading pushes past the asymptotic velocity, and certainly not
	// within a single caliber of travel
	_, err := d.OptimalGun(5000, []float64{1}, 1)
	var ve *VelocityError
	if !errors.As(err, &ve) {
		t.Fatalf("expected VelocityError, got %v", err)
	}
	if ve.MaxCalibers != 1 {
		t.Errorf("error must carry the caliber bound, got %d", ve.MaxCalibers)
	}
}

func TestOptimalGunMeetsVelocity(t *testing.T) {
	if testing.Short() {
		t.Skip("doubly nested inverse solve")
	}
	d := bs3Design()

	velocityTarget := 700.0
	g, err := d.OptimalGun(velocityTarget, []float64{1}, 1000)
	if err != nil {
		t.Fatalf("OptimalGun: %v", err)
	}

	states, err := g.ToTravel(0, gun.DefaultSteps, gun.DefaultAcc)
	if err != nil {
		t.Fatalf("ToTravel: %v", err)
	}
	mv, err := states.MuzzleVelocity()
	if err != nil {
		t.Fatalf("muzzle velocity: %v", err)
	}
	if rel := math.Abs(mv-velocityTarget) / velocityTarget; rel > 1e-2 {
		t.Errorf("muzzle velocity %.2f m/s misses the %.0f m/s goal by %.2f%%", mv, velocityTarget, rel*100)
	}
}
