// Package gun evolves the coupled system of propellant combustion, gas
// expansion and projectile motion from ignition through shot start, peak
// pressure, burnout and muzzle exit, in the classical zero-dimensional
// Lagrange-gradient formulation with a Nobel-Abel equation of state.
package gun

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/charge"
)

const (
	// MaxDt, in seconds, seeds the integrator time step.
	MaxDt = 1e-2

	// DefaultStartPressure, in Pa, is the shot-start resistance assumed
	// when none is given.
	DefaultStartPressure = 30e6

	// DefaultLossFraction budgets secondary work (friction, heat loss,
	// engraving) into the work factor.
	DefaultLossFraction = 0.05

	// DefaultAcc and DefaultSteps set the numerical accuracy and minimum
	// step counts wherever the caller does not.
	DefaultAcc   = 1e-3
	DefaultSteps = 10
)

var (
	// ErrDimensionMismatch indicates charges and charge masses of unequal
	// length.
	ErrDimensionMismatch = errors.New("gun: charges and charge masses must have the same dimension")

	// ErrCannotStart indicates the maximum achievable pressure is below
	// the shot-start resistance: the projectile never moves.
	ErrCannotStart = errors.New("gun: maximum achievable pressure is insufficient to overcome starting resistance")
)

// Gun is the complete ballistic assembly, immutable after construction: the
// charge-invariant bore properties plus the propellant loading.
type Gun struct {
	Name        string
	Description string
	Family      string

	// CrossSection is the bore section area S, m^2.
	CrossSection float64

	// ShotMass is the projectile mass, kg.
	ShotMass float64

	Charges      []charge.Charge
	ChargeMasses []float64

	// ChamberVolume is V_0, m^3.
	ChamberVolume float64

	// LossFraction is the secondary-work budget xi.
	LossFraction float64

	// StartPressure is the shot-start resistance P_0, Pa.
	StartPressure float64

	// Travel is the bore length available to the shot, m.
	Travel float64
}

// New validates and returns the assembly.
func New(g Gun) (*Gun, error) {
	if len(g.Charges) == 0 || len(g.Charges) != len(g.ChargeMasses) {
		return nil, ErrDimensionMismatch
	}
	if g.CrossSection <= 0 || g.ShotMass <= 0 || g.ChamberVolume <= 0 {
		return nil, errors.New("gun: cross section, shot mass and chamber volume must be positive")
	}
	return &g, nil
}

// L0 is the reduced chamber length V_0/S.
func (g *Gun) L0() float64 { return g.ChamberVolume / g.CrossSection }

// GrossChargeMass is the total propellant mass omega.
func (g *Gun) GrossChargeMass() float64 { return floats.Sum(g.ChargeMasses) }

// Delta is the loading density omega/V_0.
func (g *Gun) Delta() float64 { return g.GrossChargeMass() / g.ChamberVolume }

// ChargeVolume is the solid volume of the loading.
func (g *Gun) ChargeVolume() float64 {
	v := 0.0
	for i, ch := range g.Charges {
		v += g.ChargeMasses[i] / ch.Density
	}
	return v
}

// Phi is the work factor 1 + xi + omega/(3m).
func (g *Gun) Phi() float64 {
	return 1 + g.LossFraction + g.GrossChargeMass()/(3*g.ShotMass)
}

// BombFreeFraction is the volume fraction of the chamber left to the gas
// once all charges have burnt, 1 - sum(alpha_i omega_i)/V_0.
func (g *Gun) BombFreeFraction() float64 {
	occupied := 0.0
	for i, ch := range g.Charges {
		occupied += ch.Covolume * g.ChargeMasses[i]
	}
	return 1 - occupied/g.ChamberVolume
}

// Theta is the adiabatic index less one of the primary (heaviest) charge,
// taken as that of the mixed gas.
func (g *Gun) Theta() float64 {
	return g.Charges[floats.MaxIdx(g.ChargeMasses)].Theta()
}

// AsymptoticVelocity is the limiting velocity v_j of infinite expansion.
func (g *Gun) AsymptoticVelocity() float64 {
	work := 0.0
	for i, ch := range g.Charges {
		work += ch.Force * g.ChargeMasses[i]
	}
	return math.Sqrt(2 * work / (g.Theta() * g.Phi() * g.ShotMass))
}

// ThermalEfficiency is (v/v_j)^2.
func (g *Gun) ThermalEfficiency(velocity float64) float64 {
	r := velocity / g.AsymptoticVelocity()
	return r * r
}

// BallisticEfficiency divides the thermal efficiency by the work factor.
func (g *Gun) BallisticEfficiency(velocity float64) float64 {
	return g.ThermalEfficiency(velocity) / g.Phi()
}

// PiezoelectricEfficiency relates shot work to the bore-volume integral of
// peak pressure.
func (g *Gun) PiezoelectricEfficiency(travel, velocity, peakAveragePressure float64) float64 {
	return 0.5 * g.Phi() * g.ShotMass * velocity * velocity / (g.CrossSection * travel * peakAveragePressure)
}

// GasEnergy is the releasable gas energy at the given burnup, less the
// kinetic-energy budget of the moving shot.
func (g *Gun) GasEnergy(psis []float64, velocity float64) float64 {
	e := -0.5 * g.Theta() * g.Phi() * g.ShotMass * velocity * velocity
	for i, ch := range g.Charges {
		e += ch.Force * g.ChargeMasses[i] * psis[i]
	}
	return e
}

// IncompressibleFraction is the chamber-volume fraction occupied by unburnt
// propellant and gas covolume at the given burnup.
func (g *Gun) IncompressibleFraction(psis []float64) float64 {
	f := 0.0
	for i, ch := range g.Charges {
		delta := g.ChargeMasses[i] / g.ChamberVolume
		f += delta/ch.Density*(1-psis[i]) + ch.Covolume*delta*psis[i]
	}
	return f
}

// dt is the time derivative of the state: the combustion rate always runs,
// travel and velocity only once the shot has started.
func (g *Gun) dt(s State) StateVector {
	p := s.AveragePressure()
	dZs := make([]float64, len(g.Charges))
	for i, ch := range g.Charges {
		dZs[i] = ch.DZDt(p)
	}

	travel, velocity := 0.0, 0.0
	if s.IsStarted {
		travel = s.Velocity()
		velocity = g.CrossSection * p / (g.Phi() * g.ShotMass)
	}
	return StateVector{Time: 1, Travel: travel, Velocity: velocity, BurnupFractions: dZs}
}

// dl rescales the time derivative onto travel: d/dl = d/dt * 1/v.
func (g *Gun) dl(s State) StateVector {
	return g.dt(s).Div(s.Velocity())
}

// dv rescales the time derivative onto velocity: d/dv = d/dt * (phi m)/(S P).
func (g *Gun) dv(s State) StateVector {
	d := g.dt(s)
	return d.Div(d.Velocity)
}

type incrementFunc func(s State, d StateVector, dx float64, marker Marker) State

// propagateRK4 advances a state by one classical four-stage Runge-Kutta
// step of size dx in whichever coordinate inc and df treat as independent.
// Mid-stage states carry the Intermediate marker; the returned state
// carries the requested one.
func (g *Gun) propagateRK4(s State, inc incrementFunc, df func(State) StateVector, dx float64, marker Marker) State {
	k1 := df(s)
	k2 := df(inc(s, k1.Scale(0.5*dx), 0.5*dx, Intermediate))
	k3 := df(inc(s, k2.Scale(0.5*dx), 0.5*dx, Intermediate))
	k4 := df(inc(s, k3.Scale(dx), dx, Intermediate))

	sum := k1.Add(k2.Scale(2)).Add(k3.Scale(2)).Add(k4).Scale(dx / 6)
	return inc(s, sum, dx, marker)
}

func (g *Gun) stepTime(s State, dt float64, marker Marker) State {
	return g.propagateRK4(s, State.incrementTime, g.dt, dt, marker)
}

func (g *Gun) stepTravel(s State, dl float64, marker Marker) State {
	return g.propagateRK4(s, State.incrementTravel, g.dl, dl, marker)
}

func (g *Gun) stepVelocity(s State, dv float64, marker Marker) State {
	return g.propagateRK4(s, State.incrementVelocity, g.dv, dv, marker)
}

// BombState is the hypothetical instant at which all propellant has burnt
// with the projectile still at rest, as in a closed ballistic bomb. Its
// pressures bound, from above, anything the loading can develop regardless
// of combustion behavior.
func (g *Gun) BombState() State {
	zs := make([]float64, len(g.Charges))
	for i, ch := range g.Charges {
		zs[i] = ch.ZK()
	}
	return newState(g, StateVector{BurnupFractions: zs}, Bomb, true)
}
