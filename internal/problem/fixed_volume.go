package problem

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/gun"
	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/num"
)

// FixedVolumeProblem fixes the chamber volume and searches over the charge
// mass: given a known gun, deduce the charge required to match the stated
// performance.
type FixedVolumeProblem struct {
	BaseProblem
	ChamberVolume float64
}

// NewFixedVolume lifts a validated BaseProblem into a FixedVolumeProblem.
func NewFixedVolume(base BaseProblem, chamberVolume float64) (*FixedVolumeProblem, error) {
	b, err := NewBase(base)
	if err != nil {
		return nil, err
	}
	return &FixedVolumeProblem{BaseProblem: *b, ChamberVolume: chamberVolume}, nil
}

// FillMass is the total charge mass that fills the chamber solid, at the
// mass-ratio-weighted mean density.
func (p *FixedVolumeProblem) FillMass(chargeMassRatios []float64) (float64, error) {
	if err := p.checkDim(chargeMassRatios); err != nil {
		return 0, err
	}
	solidVolume := 0.0
	for i, prop := range p.Propellants {
		solidVolume += chargeMassRatios[i] / prop.Density
	}
	averageDensity := floats.Sum(chargeMassRatios) / solidVolume
	return p.ChamberVolume * averageDensity, nil
}

// ChargeMasses distributes a total mass across the charges in proportion
// to the given ratios.
func (p *FixedVolumeProblem) ChargeMasses(totalMass float64, chargeMassRatios []float64) ([]float64, error) {
	if err := p.checkDim(chargeMassRatios); err != nil {
		return nil, err
	}
	sum := floats.Sum(chargeMassRatios)
	masses := make([]float64, len(chargeMassRatios))
	for i, r := range chargeMassRatios {
		masses[i] = totalMass * r / sum
	}
	return masses, nil
}

// ChargeMassLimits returns the feasible total charge mass interval for the
// pressure target. The upper limit leaves a free fraction of acc at bomb
// state; the lower limit develops the (1+acc)-margined target at bomb
// state. Designs close to either limit are undesirable: the solved burn
// rate runs to +Inf near the lower limit (the pre-burned light-gas-gun
// regime) and to 0 near the upper.
func (p *FixedVolumeProblem) ChargeMassLimits(target PressureTarget, chargeMassRatios []float64) (lower, upper float64, err error) {
	fillMass, err := p.FillMass(chargeMassRatios)
	if err != nil {
		return 0, 0, err
	}

	trial := func(totalMass float64) (*gun.Gun, error) {
		masses, merr := p.ChargeMasses(totalMass, chargeMassRatios)
		if merr != nil {
			return nil, merr
		}
		return p.BaseProblem.Gun(p.ChamberVolume, masses, p.unityRates())
	}

	freeFraction := func(totalMass float64) float64 {
		g, gerr := trial(totalMass)
		if gerr != nil {
			err = gerr
			return math.NaN()
		}
		return g.BombFreeFraction() - p.Acc
	}

	lo, hi, derr := num.Dekker(freeFraction, 0, fillMass, fillMass*p.Acc)
	if derr != nil {
		return 0, 0, derr
	}
	if err != nil {
		return 0, 0, err
	}
	upper = math.Min(lo, hi)

	safeTarget := target.Scale(1 + p.Acc)
	bombDifference := func(totalMass float64) float64 {
		g, gerr := trial(totalMass)
		if gerr != nil {
			err = gerr
			return math.NaN()
		}
		return safeTarget.Difference(g.BombState())
	}

	lo, hi, derr = num.Dekker(bombDifference, 0, upper, fillMass*p.Acc)
	if derr != nil {
		return 0, 0, derr
	}
	if err != nil {
		return 0, 0, err
	}
	lower = math.Max(lo, hi)

	return lower, upper, nil
}

// SolveReducedBurnRateForChargeAtPressure validates the charge masses
// against the feasible interval, then solves the reduced burn rate such
// that the trajectory's peak pressure meets the target.
func (p *FixedVolumeProblem) SolveReducedBurnRateForChargeAtPressure(
	target PressureTarget,
	chargeMasses []float64,
	reducedBurnRateRatios []float64,
) (*gun.Gun, error) {
	lower, upper, err := p.ChargeMassLimits(target, chargeMasses)
	if err != nil {
		return nil, err
	}
	total := floats.Sum(chargeMasses)
	if total < lower || total > upper {
		return nil, &RangeError{Quantity: "charge mass", Value: total, Lower: lower, Upper: upper}
	}
	return p.BaseProblem.GunAtPressure(target, p.ChamberVolume, chargeMasses, reducedBurnRateRatios)
}

// LimitingGunsAtPressure returns the guns at minimum, velocity-optimal and
// maximum feasible total charge mass, each solved to the pressure target.
func (p *FixedVolumeProblem) LimitingGunsAtPressure(
	target PressureTarget,
	chargeMassRatios []float64,
	reducedBurnRateRatios []float64,
) (gunMin, gunOpt, gunMax *gun.Gun, err error) {
	massMin, massMax, err := p.ChargeMassLimits(target, chargeMassRatios)
	if err != nil {
		return nil, nil, nil, err
	}
	fillMass, err := p.FillMass(chargeMassRatios)
	if err != nil {
		return nil, nil, nil, err
	}

	withMass := func(totalMass float64) (*gun.Gun, error) {
		masses, merr := p.ChargeMasses(totalMass, chargeMassRatios)
		if merr != nil {
			return nil, merr
		}
		return p.BaseProblem.GunAtPressure(target, p.ChamberVolume, masses, reducedBurnRateRatios)
	}

	var evalErr error
	velocity := func(totalMass float64) float64 {
		if evalErr != nil {
			return math.Inf(-1)
		}
		g, gerr := withMass(totalMass)
		if gerr != nil {
			evalErr = gerr
			return math.Inf(-1)
		}
		v, gerr := p.muzzleVelocity(g)
		if gerr != nil {
			evalErr = gerr
			return math.Inf(-1)
		}
		return v
	}

	lo, hi := num.GssMax(velocity, massMin, massMax, fillMass*p.Acc)
	if evalErr != nil {
		return nil, nil, nil, evalErr
	}
	massOpt := 0.5 * (lo + hi)

	if gunMin, err = withMass(massMin); err != nil {
		return nil, nil, nil, err
	}
	if gunOpt, err = withMass(massOpt); err != nil {
		return nil, nil, nil, err
	}
	if gunMax, err = withMass(massMax); err != nil {
		return nil, nil, nil, err
	}
	return gunMin, gunOpt, gunMax, nil
}

// SolveChargeMassAtPressureForVelocity returns the guns on the low- and
// high-charge-mass branches meeting both targets. A branch over which the
// velocity target is not bracketed comes back nil.
func (p *FixedVolumeProblem) SolveChargeMassAtPressureForVelocity(
	target PressureTarget,
	velocityTarget float64,
	chargeMassRatios []float64,
	reducedBurnRateRatios []float64,
) (low, high *gun.Gun, err error) {
	gunMin, gunOpt, gunMax, err := p.LimitingGunsAtPressure(target, chargeMassRatios, reducedBurnRateRatios)
	if err != nil {
		return nil, nil, err
	}
	fillMass, err := p.FillMass(chargeMassRatios)
	if err != nil {
		return nil, nil, err
	}

	vMin, err := p.muzzleVelocity(gunMin)
	if err != nil {
		return nil, nil, err
	}
	vOpt, err := p.muzzleVelocity(gunOpt)
	if err != nil {
		return nil, nil, err
	}
	vMax, err := p.muzzleVelocity(gunMax)
	if err != nil {
		return nil, nil, err
	}

	withMass := func(totalMass float64) (*gun.Gun, error) {
		masses, merr := p.ChargeMasses(totalMass, chargeMassRatios)
		if merr != nil {
			return nil, merr
		}
		return p.BaseProblem.GunAtPressure(target, p.ChamberVolume, masses, reducedBurnRateRatios)
	}

	branch := func(massI, massJ, vI, vJ float64) (*gun.Gun, error) {
		if velocityTarget < math.Min(vI, vJ) || velocityTarget > math.Max(vI, vJ) {
			return nil, nil
		}
		var evalErr error
		f := func(totalMass float64) float64 {
			if evalErr != nil {
				return 0
			}
			g, gerr := withMass(totalMass)
			if gerr != nil {
				evalErr = gerr
				return 0
			}
			v, gerr := p.muzzleVelocity(g)
			if gerr != nil {
				evalErr = gerr
				return 0
			}
			return v - velocityTarget
		}
		totalMass, _, derr := num.Dekker(f, massI, massJ, p.Acc*fillMass)
		if evalErr != nil {
			return nil, evalErr
		}
		if derr != nil {
			return nil, derr
		}
		return withMass(totalMass)
	}

	if low, err = branch(gunMin.GrossChargeMass(), gunOpt.GrossChargeMass(), vMin, vOpt); err != nil {
		return nil, nil, err
	}
	if high, err = branch(gunOpt.GrossChargeMass(), gunMax.GrossChargeMass(), vOpt, vMax); err != nil {
		return nil, nil, err
	}
	return low, high, nil
}
