// Package problem composes the forward simulator with one-dimensional
// solvers to answer inverse design questions: what burn rate, charge mass
// or chamber volume meets a stated pressure and velocity performance.
package problem

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/charge"
	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/formfunc"
	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/gun"
	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/num"
)

// ReducedBurnRateInitialGuess seeds the decade bracketing of the burn-rate
// solve; its order of magnitude is otherwise unknown a priori.
const ReducedBurnRateInitialGuess = 1.0

// BaseProblem carries the inputs common to every inverse problem: the
// propellant selection (paired one-to-one with form functions), the bore,
// and the numerical settings.
type BaseProblem struct {
	Name        string
	Description string
	Family      string

	Propellants   []charge.Propellant
	FormFunctions []formfunc.FormFunction

	CrossSection  float64
	ShotMass      float64
	Travel        float64
	LossFraction  float64
	StartPressure float64

	Acc   float64
	NIntg int
}

// NewBase validates the problem and fills defaulted numerical settings.
func NewBase(b BaseProblem) (*BaseProblem, error) {
	if len(b.Propellants) == 0 || len(b.Propellants) != len(b.FormFunctions) {
		return nil, ErrDimensionMismatch
	}
	if b.LossFraction == 0 {
		b.LossFraction = gun.DefaultLossFraction
	}
	if b.StartPressure == 0 {
		b.StartPressure = gun.DefaultStartPressure
	}
	if b.Acc == 0 {
		b.Acc = gun.DefaultAcc
	}
	if b.NIntg == 0 {
		b.NIntg = gun.DefaultSteps
	}
	return &b, nil
}

// checkDim validates a per-charge vector argument.
func (b *BaseProblem) checkDim(v []float64) error {
	if len(v) != len(b.Propellants) {
		return ErrDimensionMismatch
	}
	return nil
}

// Gun assembles a trial gun from the problem's propellants with the given
// chamber volume, charge masses and reduced burn rates.
func (b *BaseProblem) Gun(chamberVolume float64, chargeMasses, reducedBurnRates []float64) (*gun.Gun, error) {
	if err := b.checkDim(chargeMasses); err != nil {
		return nil, err
	}
	if err := b.checkDim(reducedBurnRates); err != nil {
		return nil, err
	}

	charges := make([]charge.Charge, len(b.Propellants))
	for i, p := range b.Propellants {
		ch, err := charge.FromPropellant(p, b.FormFunctions[i], reducedBurnRates[i])
		if err != nil {
			return nil, err
		}
		charges[i] = ch
	}

	return gun.New(gun.Gun{
		Name:          b.Name,
		Description:   b.Description,
		Family:        b.Family,
		CrossSection:  b.CrossSection,
		ShotMass:      b.ShotMass,
		Charges:       charges,
		ChargeMasses:  append([]float64(nil), chargeMasses...),
		ChamberVolume: chamberVolume,
		LossFraction:  b.LossFraction,
		StartPressure: b.StartPressure,
		Travel:        b.Travel,
	})
}

// GunAtPressure scales the per-charge burn-rate ratios by a single factor r
// and solves r such that the trajectory's peak pressure meets the target.
//
// The ratios are first normalized against the primary (heaviest) charge.
// Feasibility is gated on a unitary (r = 1) trial gun: the bomb state must
// exceed the target and the start state must not. The root is then
// bracketed by expanding in decades, and refined by repeated Dekker calls
// with the tolerance re-anchored to the smaller endpoint, since a single
// call with a fixed tolerance cannot deliver relative accuracy across an
// unknown number of decades.
func (b *BaseProblem) GunAtPressure(
	target PressureTarget,
	chamberVolume float64,
	chargeMasses, reducedBurnRateRatios []float64,
) (*gun.Gun, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if err := b.checkDim(chargeMasses); err != nil {
		return nil, err
	}
	if err := b.checkDim(reducedBurnRateRatios); err != nil {
		return nil, err
	}

	primary := floats.MaxIdx(chargeMasses)
	normalized := make([]float64, len(reducedBurnRateRatios))
	for i, r := range reducedBurnRateRatios {
		normalized[i] = r / reducedBurnRateRatios[primary]
	}
	rates := func(r float64) []float64 {
		out := make([]float64, len(normalized))
		for i, n := range normalized {
			out[i] = n * r
		}
		return out
	}

	// the unitary gun's burn rate is arbitrary: the bomb and start states
	// it is probed at do not depend on r
	unitary, err := b.Gun(chamberVolume, chargeMasses, rates(1.0))
	if err != nil {
		return nil, err
	}
	if target.Difference(unitary.BombState()) < 0 {
		return nil, ErrPressureUnachievable
	}
	startState, err := unitary.StartState(b.NIntg, b.Acc)
	if err != nil {
		return nil, err
	}
	if target.Difference(startState) > 0 {
		return nil, ErrPressureBelowStart
	}

	var evalErr error
	f := func(r float64) float64 {
		if evalErr != nil {
			return math.Inf(1)
		}
		trial, err := b.Gun(chamberVolume, chargeMasses, rates(r))
		if err != nil {
			evalErr = err
			return math.Inf(1)
		}
		states, err := trial.ToBurnout(b.NIntg, b.Acc, b.Travel, math.Inf(1))
		if err != nil {
			evalErr = err
			return math.Inf(1)
		}
		peak, err := states.ByMarker(gun.PeakPressure)
		if err != nil {
			evalErr = err
			return math.Inf(1)
		}
		return target.Difference(peak)
	}

	// bracket the root by expanding in decades; est and estPrime track the
	// current and previous trial
	est, estPrime := ReducedBurnRateInitialGuess, ReducedBurnRateInitialGuess
	fEst := f(est)
	fEstPrime := fEst
	for fEst*fEstPrime >= 0 {
		if evalErr != nil {
			return nil, evalErr
		}
		switch {
		case fEst > 0: // burnt too fast
			est, estPrime = est/10, est
		case fEst == 0:
			est, estPrime = est/10, est*10
		default:
			est, estPrime = est*10, est
		}
		fEst, fEstPrime = f(est), fEst
	}
	if evalErr != nil {
		return nil, evalErr
	}

	for math.Abs(est-estPrime) > b.Acc*math.Min(est, estPrime) {
		est, estPrime, err = num.Dekker(f, est, estPrime, math.Min(est, estPrime)*b.Acc)
		if err != nil {
			return nil, err
		}
		if evalErr != nil {
			return nil, evalErr
		}
	}

	return b.Gun(chamberVolume, chargeMasses, rates(est))
}

// muzzleVelocity runs a gun out to the problem's travel and reads the
// muzzle velocity.
func (b *BaseProblem) muzzleVelocity(g *gun.Gun) (float64, error) {
	states, err := g.ToTravel(b.Travel, b.NIntg, b.Acc)
	if err != nil {
		return 0, err
	}
	return states.MuzzleVelocity()
}
