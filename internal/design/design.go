// Package design adds the outermost loop of gun design: choosing the bore
// length such that the velocity-optimal loading at that length meets a
// muzzle-velocity goal.
package design

import (
	"fmt"
	"math"

	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/charge"
	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/formfunc"
	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/gun"
	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/num"
	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/problem"
)

// VelocityError reports a muzzle-velocity goal that cannot be met within
// the permitted bore length.
type VelocityError struct {
	VelocityTarget float64
	MaxCalibers    int
}

func (e *VelocityError) Error() string {
	return fmt.Sprintf("design: %.1f m/s cannot be achieved out to %d calibers", e.VelocityTarget, e.MaxCalibers)
}

// BaseDesign carries everything a Problem needs except the travel, which
// the design loop searches over, plus the pressure target every candidate
// is held to.
type BaseDesign struct {
	Name        string
	Description string
	Family      string

	Propellants   []charge.Propellant
	FormFunctions []formfunc.FormFunction

	CrossSection  float64
	ShotMass      float64
	LossFraction  float64
	StartPressure float64

	PressureTarget problem.PressureTarget

	Acc   float64
	NIntg int
}

func (d *BaseDesign) baseProblem(travel float64) problem.BaseProblem {
	return problem.BaseProblem{
		Name:          d.Name,
		Description:   d.Description,
		Family:        d.Family,
		Propellants:   d.Propellants,
		FormFunctions: d.FormFunctions,
		CrossSection:  d.CrossSection,
		ShotMass:      d.ShotMass,
		Travel:        travel,
		LossFraction:  d.LossFraction,
		StartPressure: d.StartPressure,
		Acc:           d.Acc,
		NIntg:         d.NIntg,
	}
}

// Caliber is the bore diameter implied by the cross section.
func (d *BaseDesign) Caliber() float64 {
	return math.Sqrt(4 * d.CrossSection / math.Pi)
}

// optimalGun finds the travel at which the velocity-optimal gun supplied
// by optForTravel meets the velocity target: the upper bracket at
// maxCalibers is verified to overshoot (else the goal is unachievable),
// the lower bracket is found by halving, and Dekker closes the interval.
func (d *BaseDesign) optimalGun(
	optForTravel func(travel float64) (*gun.Gun, error),
	velocityTarget float64,
	maxCalibers int,
) (*gun.Gun, error) {
	acc := d.Acc
	if acc == 0 {
		acc = gun.DefaultAcc
	}
	nIntg := d.NIntg
	if nIntg == 0 {
		nIntg = gun.DefaultSteps
	}

	var evalErr error
	excess := func(travel float64) float64 {
		if evalErr != nil {
			return 0
		}
		g, err := optForTravel(travel)
		if err != nil {
			evalErr = err
			return 0
		}
		states, err := g.ToTravel(0, nIntg, acc)
		if err != nil {
			evalErr = err
			return 0
		}
		v, err := states.MuzzleVelocity()
		if err != nil {
			evalErr = err
			return 0
		}
		return v - velocityTarget
	}

	maxTravel := float64(maxCalibers) * d.Caliber()
	if excess(maxTravel) < 0 {
		if evalErr != nil {
			return nil, evalErr
		}
		return nil, &VelocityError{VelocityTarget: velocityTarget, MaxCalibers: maxCalibers}
	}

	counterpoint := 0.5 * maxTravel
	for excess(counterpoint) >= 0 {
		if evalErr != nil {
			return nil, evalErr
		}
		counterpoint *= 0.5
	}

	travel, _, err := num.Dekker(excess, counterpoint, maxTravel, counterpoint*acc)
	if evalErr != nil {
		return nil, evalErr
	}
	if err != nil {
		return nil, err
	}

	return optForTravel(travel)
}

// FixedChargeDesign searches bore length with the charge masses fixed.
type FixedChargeDesign struct {
	BaseDesign
	ChargeMasses []float64
}

// Problem instantiates the fixed-charge problem at the given travel.
func (d *FixedChargeDesign) Problem(travel float64) (*problem.FixedChargeProblem, error) {
	return problem.NewFixedCharge(d.baseProblem(travel), d.ChargeMasses)
}

// OptimalGun solves for the bore length at which the velocity-optimal
// chamber volume delivers the velocity target.
func (d *FixedChargeDesign) OptimalGun(velocityTarget float64, reducedBurnRateRatios []float64, maxCalibers int) (*gun.Gun, error) {
	return d.optimalGun(func(travel float64) (*gun.Gun, error) {
		p, err := d.Problem(travel)
		if err != nil {
			return nil, err
		}
		_, opt, _, err := p.LimitingGunsAtPressure(d.PressureTarget, reducedBurnRateRatios)
		if err != nil {
			return nil, err
		}
		return opt, nil
	}, velocityTarget, maxCalibers)
}

// FixedVolumeDesign searches bore length with the chamber volume fixed.
type FixedVolumeDesign struct {
	BaseDesign
	ChamberVolume float64
}

// Problem instantiates the fixed-volume problem at the given travel.
func (d *FixedVolumeDesign) Problem(travel float64) (*problem.FixedVolumeProblem, error) {
	return problem.NewFixedVolume(d.baseProblem(travel), d.ChamberVolume)
}

// OptimalGun solves for the bore length at which the velocity-optimal
// charge mass delivers the velocity target.
func (d *FixedVolumeDesign) OptimalGun(
	velocityTarget float64,
	chargeMassRatios []float64,
	reducedBurnRateRatios []float64,
	maxCalibers int,
) (*gun.Gun, error) {
	return d.optimalGun(func(travel float64) (*gun.Gun, error) {
		p, err := d.Problem(travel)
		if err != nil {
			return nil, err
		}
		_, opt, _, err := p.LimitingGunsAtPressure(d.PressureTarget, chargeMassRatios, reducedBurnRateRatios)
		if err != nil {
			return nil, err
		}
		return opt, nil
	}, velocityTarget, maxCalibers)
}
