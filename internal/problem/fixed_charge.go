package problem

import (
	"math"

	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/gun"
	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/num"
)

// FixedChargeProblem fixes the charge masses and searches over the chamber
// volume.
type FixedChargeProblem struct {
	BaseProblem
	ChargeMasses []float64
}

// NewFixedCharge lifts a validated BaseProblem into a FixedChargeProblem.
func NewFixedCharge(base BaseProblem, chargeMasses []float64) (*FixedChargeProblem, error) {
	b, err := NewBase(base)
	if err != nil {
		return nil, err
	}
	p := &FixedChargeProblem{BaseProblem: *b, ChargeMasses: chargeMasses}
	if err := p.checkDim(chargeMasses); err != nil {
		return nil, err
	}
	return p, nil
}

// ChamberMinVolume is the incompressible lower bound sum(omega_i/rho_i): a
// chamber smaller than the solid charge cannot exist.
func (p *FixedChargeProblem) ChamberMinVolume() float64 {
	v := 0.0
	for i, prop := range p.Propellants {
		v += p.ChargeMasses[i] / prop.Density
	}
	return v
}

// unityRates is the all-ones burn-rate vector used for trial guns whose
// pressure probes do not depend on the burn rate.
func (p *BaseProblem) unityRates() []float64 {
	rates := make([]float64, len(p.Propellants))
	for i := range rates {
		rates[i] = 1
	}
	return rates
}

// ChamberVolumeLimits returns the feasible chamber-volume interval for the
// pressure target. Below the lower limit the chamber cannot physically
// hold the charge at bomb state (free fraction under acc); above the upper
// limit even infinite burn rate cannot reach the target, which is checked
// against a (1+acc) safety margin so downstream solves stay in domain.
func (p *FixedChargeProblem) ChamberVolumeLimits(target PressureTarget) (lower, upper float64, err error) {
	freeFraction := func(chamberVolume float64) float64 {
		g, gerr := p.BaseProblem.Gun(chamberVolume, p.ChargeMasses, p.unityRates())
		if gerr != nil {
			err = gerr
			return math.NaN()
		}
		return g.BombFreeFraction() - p.Acc
	}

	minVolume := p.ChamberMinVolume()
	bound := minVolume
	for freeFraction(bound) <= 0 {
		if err != nil {
			return 0, 0, err
		}
		bound *= 2
	}

	lo, hi, derr := num.Dekker(freeFraction, minVolume, bound, minVolume*p.Acc)
	if derr != nil {
		return 0, 0, derr
	}
	if err != nil {
		return 0, 0, err
	}
	lower = math.Max(lo, hi)

	safeTarget := target.Scale(1 + p.Acc)
	bombDifference := func(chamberVolume float64) float64 {
		g, gerr := p.BaseProblem.Gun(chamberVolume, p.ChargeMasses, p.unityRates())
		if gerr != nil {
			err = gerr
			return math.NaN()
		}
		return safeTarget.Difference(g.BombState())
	}

	for bombDifference(bound) >= 0 {
		if err != nil {
			return 0, 0, err
		}
		bound *= 2
	}

	lo, hi, derr = num.Dekker(bombDifference, lower, bound, minVolume*p.Acc)
	if derr != nil {
		return 0, 0, derr
	}
	if err != nil {
		return 0, 0, err
	}
	upper = math.Min(lo, hi)

	return lower, upper, nil
}

// GunAtPressure solves the burn rate for the given chamber volume.
func (p *FixedChargeProblem) GunAtPressure(target PressureTarget, chamberVolume float64, reducedBurnRateRatios []float64) (*gun.Gun, error) {
	return p.BaseProblem.GunAtPressure(target, chamberVolume, p.ChargeMasses, reducedBurnRateRatios)
}

// SolveReducedBurnRateForVolumeAtPressure validates the chamber volume
// against the feasible interval, then solves the reduced burn rate such
// that the trajectory's peak pressure meets the target.
func (p *FixedChargeProblem) SolveReducedBurnRateForVolumeAtPressure(
	chamberVolume float64,
	target PressureTarget,
	reducedBurnRateRatios []float64,
) (*gun.Gun, error) {
	lower, upper, err := p.ChamberVolumeLimits(target)
	if err != nil {
		return nil, err
	}
	if chamberVolume < lower || chamberVolume > upper {
		return nil, &RangeError{Quantity: "chamber volume", Value: chamberVolume, Lower: lower, Upper: upper}
	}
	return p.GunAtPressure(target, chamberVolume, reducedBurnRateRatios)
}

// LimitingGunsAtPressure returns the guns at the minimum, velocity-optimal
// and maximum feasible chamber volumes, each solved to the pressure
// target. The optimum is a golden-section maximum of the muzzle velocity
// over the feasible interval.
func (p *FixedChargeProblem) LimitingGunsAtPressure(target PressureTarget, reducedBurnRateRatios []float64) (gunMin, gunOpt, gunMax *gun.Gun, err error) {
	volMin, volMax, err := p.ChamberVolumeLimits(target)
	if err != nil {
		return nil, nil, nil, err
	}

	withVolume := func(chamberVolume float64) (*gun.Gun, error) {
		return p.GunAtPressure(target, chamberVolume, reducedBurnRateRatios)
	}

	var evalErr error
	velocity := func(chamberVolume float64) float64 {
		if evalErr != nil {
			return math.Inf(-1)
		}
		g, gerr := withVolume(chamberVolume)
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

	lo, hi := num.GssMax(velocity, volMin, volMax, p.ChamberMinVolume()*p.Acc)
	if evalErr != nil {
		return nil, nil, nil, evalErr
	}
	volOpt := 0.5 * (lo + hi)

	if gunMin, err = withVolume(volMin); err != nil {
		return nil, nil, nil, err
	}
	if gunOpt, err = withVolume(volOpt); err != nil {
		return nil, nil, nil, err
	}
	if gunMax, err = withVolume(volMax); err != nil {
		return nil, nil, nil, err
	}
	return gunMin, gunOpt, gunMax, nil
}

// SolveChamberVolumeAtPressureForVelocity returns the guns on the low- and
// high-volume branches meeting both the pressure and velocity targets. A
// branch over which the velocity target is not bracketed comes back nil.
func (p *FixedChargeProblem) SolveChamberVolumeAtPressureForVelocity(
	target PressureTarget,
	velocityTarget float64,
	reducedBurnRateRatios []float64,
) (low, high *gun.Gun, err error) {
	gunMin, gunOpt, gunMax, err := p.LimitingGunsAtPressure(target, reducedBurnRateRatios)
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

	withVolume := func(chamberVolume float64) (*gun.Gun, error) {
		return p.GunAtPressure(target, chamberVolume, reducedBurnRateRatios)
	}

	branch := func(volI, volJ, vI, vJ float64) (*gun.Gun, error) {
		if velocityTarget < math.Min(vI, vJ) || velocityTarget > math.Max(vI, vJ) {
			return nil, nil
		}
		var evalErr error
		f := func(chamberVolume float64) float64 {
			if evalErr != nil {
				return 0
			}
			g, gerr := withVolume(chamberVolume)
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
		chamberVolume, _, derr := num.Dekker(f, volI, volJ, p.Acc*p.ChamberMinVolume())
		if evalErr != nil {
			return nil, evalErr
		}
		if derr != nil {
			return nil, derr
		}
		return withVolume(chamberVolume)
	}

	if low, err = branch(gunMin.ChamberVolume, gunOpt.ChamberVolume, vMin, vOpt); err != nil {
		return nil, nil, err
	}
	if high, err = branch(gunOpt.ChamberVolume, gunMax.ChamberVolume, vOpt, vMax); err != nil {
		return nil, nil, err
	}
	return low, high, nil
}
