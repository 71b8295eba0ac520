package problem

import (
	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/gun"
)

// KnownGunProblem fixes both the chamber volume and the charge masses;
// only the burn rate remains to be fitted.
type KnownGunProblem struct {
	BaseProblem
	ChamberVolume float64
	ChargeMasses  []float64
}

// NewKnownGun lifts a validated BaseProblem into a KnownGunProblem.
func NewKnownGun(base BaseProblem, chamberVolume float64, chargeMasses []float64) (*KnownGunProblem, error) {
	b, err := NewBase(base)
	if err != nil {
		return nil, err
	}
	p := &KnownGunProblem{BaseProblem: *b, ChamberVolume: chamberVolume, ChargeMasses: chargeMasses}
	if err := p.checkDim(chargeMasses); err != nil {
		return nil, err
	}
	return p, nil
}

// Gun assembles the known gun with the given reduced burn rates.
func (p *KnownGunProblem) Gun(reducedBurnRates []float64) (*gun.Gun, error) {
	return p.BaseProblem.Gun(p.ChamberVolume, p.ChargeMasses, reducedBurnRates)
}

// GunAtPressure solves the reduced burn rate meeting the pressure target.
func (p *KnownGunProblem) GunAtPressure(target PressureTarget, reducedBurnRateRatios []float64) (*gun.Gun, error) {
	return p.BaseProblem.GunAtPressure(target, p.ChamberVolume, p.ChargeMasses, reducedBurnRateRatios)
}
