package charge

import (
	"errors"
	"math"
	"testing"

	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/formfunc"
)

func testPropellant() Propellant {
	return Propellant{
		Name:             "НДТ-3",
		Density:          1600,
		Force:            950e3 * 0.981,
		PressureExponent: 1.0,
		Covolume:         1e-3,
		AdiabaticIndex:   1.2,
	}
}

func TestDZDtFloorsAtAmbient(t *testing.T) {
	ff := formfunc.SinglePerf(1.8, 260)
	c, err := FromPropellant(testPropellant(), ff, 0.5)
	if err != nil {
		t.Fatalf("FromPropellant: %v", err)
	}

	atZero := c.DZDt(0)
	atAmbient := c.DZDt(AmbientPressure)
	if atZero != atAmbient {
		t.Errorf("dZ/dt at zero pressure %g, at ambient %g; floor not applied", atZero, atAmbient)
	}
	if atZero <= 0 {
		t.Error("dZ/dt must stay positive at zero pressure, else ignition stalls")
	}

	if c.DZDt(2*AmbientPressure) <= atAmbient {
		t.Error("dZ/dt must grow with pressure above the floor")
	}
}

func TestDZDtPowerLaw(t *testing.T) {
	p := testPropellant()
	p.PressureExponent = 0.82
	c, err := FromPropellant(p, formfunc.SinglePerf(1.8, 260), 2e-9)
	if err != nil {
		t.Fatalf("FromPropellant: %v", err)
	}

	p1, p2 := 50e6, 100e6
	ratio := c.DZDt(p2) / c.DZDt(p1)
	if math.Abs(ratio-math.Pow(2, 0.82)) > 1e-12 {
		t.Errorf("burn rate ratio %g, expected 2^0.82", ratio)
	}
}

func TestDerivedReducedBurnRate(t *testing.T) {
	p := testPropellant()
	p.BurnRateCoefficient = 9e-10
	ff := formfunc.SinglePerf(1.8, 260) // E1 = 0.9

	c, err := FromPropellant(p, ff, 0)
	if err != nil {
		t.Fatalf("FromPropellant: %v", err)
	}
	if math.Abs(c.ReducedBurnRate-1e-9) > 1e-24 {
		t.Errorf("derived reduced burn rate %g, expected 1e-9", c.ReducedBurnRate)
	}
}

func TestMissingBurnRate(t *testing.T) {
	_, err := FromPropellant(testPropellant(), formfunc.SinglePerf(1.8, 260), 0)
	if !errors.Is(err, ErrNoBurnRate) {
		t.Fatalf("expected ErrNoBurnRate, got %v", err)
	}
}

func TestValidateBounds(t *testing.T) {
	cases := []func(*Propellant){
		func(p *Propellant) { p.Density = 0 },
		func(p *Propellant) { p.AdiabaticIndex = 1.0 },
		func(p *Propellant) { p.PressureExponent = 0 },
		func(p *Propellant) { p.PressureExponent = 1.2 },
	}
	for i, mutate := range cases {
		p := testPropellant()
		mutate(&p)
		if _, err := FromPropellant(p, formfunc.SinglePerf(1.8, 260), 1.0); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

func TestBurnRateConversions(t *testing.T) {
	rbr := ReducedFromArchAndCoefficient(1.8, 9e-10)
	if math.Abs(rbr-1e-9) > 1e-24 {
		t.Errorf("reduced from arch: got %g, expected 1e-9", rbr)
	}

	c, err := FromPropellant(testPropellant(), formfunc.SinglePerf(1.8, 260), rbr)
	if err != nil {
		t.Fatalf("FromPropellant: %v", err)
	}
	coeff, err := c.CoefficientFromArch(0)
	if err != nil {
		t.Fatalf("CoefficientFromArch: %v", err)
	}
	if math.Abs(coeff-9e-10) > 1e-24 {
		t.Errorf("coefficient round trip: got %g, expected 9e-10", coeff)
	}
}
