package gun

import (
	"math"
)

// Marker labels the significance of a State within a trajectory.
type Marker string

const (
	Ignition     Marker = "ignition"
	Start        Marker = "shot start"
	PeakPressure Marker = "max pressure"
	Fracture     Marker = "fracture"
	Burnout      Marker = "burnout"
	Muzzle       Marker = "muzzle"
	Intermediate Marker = "x"
	Step         Marker = "..."
	Bomb         Marker = "bomb"
	Adiabat      Marker = "adiabat"
)

// StateVector is the arithmetic tuple the integrator works on: either an
// absolute (t, l, v, Z_1..Z_k) or an increment thereof. Operations return
// fresh values.
type StateVector struct {
	Time            float64
	Travel          float64
	Velocity        float64
	BurnupFractions []float64
}

// Scale multiplies every component by k.
func (sv StateVector) Scale(k float64) StateVector {
	zs := make([]float64, len(sv.BurnupFractions))
	for i, z := range sv.BurnupFractions {
		zs[i] = z * k
	}
	return StateVector{Time: sv.Time * k, Travel: sv.Travel * k, Velocity: sv.Velocity * k, BurnupFractions: zs}
}

// Add sums componentwise.
func (sv StateVector) Add(other StateVector) StateVector {
	zs := make([]float64, len(sv.BurnupFractions))
	for i, z := range sv.BurnupFractions {
		zs[i] = z + other.BurnupFractions[i]
	}
	return StateVector{
		Time:            sv.Time + other.Time,
		Travel:          sv.Travel + other.Travel,
		Velocity:        sv.Velocity + other.Velocity,
		BurnupFractions: zs,
	}
}

// Div divides every component by k.
func (sv StateVector) Div(k float64) StateVector { return sv.Scale(1 / k) }

// State is one instant of the interior-ballistic system. States are
// immutable; stepping produces fresh values. The pressure-determining
// quantities are evaluated once at construction so States stay safe to
// share across goroutines.
type State struct {
	gun       *Gun
	sv        StateVector
	Marker    Marker
	IsStarted bool

	psis        []float64
	avgPressure float64
}

func newState(g *Gun, sv StateVector, marker Marker, started bool) State {
	psis := make([]float64, len(g.Charges))
	for i, ch := range g.Charges {
		psis[i] = ch.PsiClamped(sv.BurnupFractions[i])
	}

	// The Nobel-Abel state equation under the Lagrange gradient: when the
	// unburnt charge and covolume fill the chamber entirely, the gas
	// occupies zero free volume and pressure is +Inf, a valid sentinel
	// downstream solvers rely on.
	avg := math.Inf(1)
	if lPsi := g.L0() * (1 - g.IncompressibleFraction(psis)); lPsi > 0 {
		avg = g.GasEnergy(psis, sv.Velocity) / (g.CrossSection * (lPsi + sv.Travel))
	}

	return State{gun: g, sv: sv, Marker: marker, IsStarted: started, psis: psis, avgPressure: avg}
}

// Gun returns the assembly this state belongs to.
func (s State) Gun() *Gun { return s.gun }

func (s State) Time() float64     { return s.sv.Time }
func (s State) Travel() float64   { return s.sv.Travel }
func (s State) Velocity() float64 { return s.sv.Velocity }

// BurnupFractions returns the linear burnup of each charge. The slice is
// shared; treat it as read-only.
func (s State) BurnupFractions() []float64 { return s.sv.BurnupFractions }

// VolumeBurnupFractions returns psi_i for each charge, with Z clamped into
// the form function's domain. The slice is shared; treat it as read-only.
func (s State) VolumeBurnupFractions() []float64 { return s.psis }

// GrossVolumeBurnupFraction is the mass-weighted mean of the volumetric
// burnup fractions.
func (s State) GrossVolumeBurnupFraction() float64 {
	sum := 0.0
	for i, psi := range s.psis {
		sum += s.gun.ChargeMasses[i] * psi
	}
	return sum / s.gun.GrossChargeMass()
}

// AveragePressure is the length-averaged pressure in the equivalent
// uniform-section gun under the Lagrange gradient. The error of the
// equivalent-gun treatment is insignificant for conventional firearms,
// though it grows for light-gas guns.
func (s State) AveragePressure() float64 { return s.avgPressure }

// ShotPressure is the pressure at the shot base.
func (s State) ShotPressure() float64 {
	g := s.gun
	return s.avgPressure / (1 + g.GrossChargeMass()/(3*g.ShotMass*(1+g.LossFraction)))
}

// BreechPressure is the pressure at the breech face.
func (s State) BreechPressure() float64 {
	g := s.gun
	return s.ShotPressure() * (1 + g.GrossChargeMass()/(2*g.ShotMass*(1+g.LossFraction)))
}

// IsBurnout reports whether every charge has fully consumed.
func (s State) IsBurnout() bool {
	for i, ch := range s.gun.Charges {
		if s.sv.BurnupFractions[i] <= ch.ZK() {
			return false
		}
	}
	return true
}

// Remark returns a copy of the state carrying a new marker.
func (s State) Remark(marker Marker) State {
	return newState(s.gun, s.sv, marker, s.IsStarted)
}

func (s State) incrementTime(d StateVector, dt float64, marker Marker) State {
	return newState(s.gun, StateVector{
		Time:            s.sv.Time + dt,
		Travel:          s.sv.Travel + d.Travel,
		Velocity:        s.sv.Velocity + d.Velocity,
		BurnupFractions: addBurnup(s.sv.BurnupFractions, d.BurnupFractions),
	}, marker, s.IsStarted)
}

func (s State) incrementTravel(d StateVector, dl float64, marker Marker) State {
	return newState(s.gun, StateVector{
		Time:            s.sv.Time + d.Time,
		Travel:          s.sv.Travel + dl,
		Velocity:        s.sv.Velocity + d.Velocity,
		BurnupFractions: addBurnup(s.sv.BurnupFractions, d.BurnupFractions),
	}, marker, s.IsStarted)
}

func (s State) incrementVelocity(d StateVector, dv float64, marker Marker) State {
	return newState(s.gun, StateVector{
		Time:            s.sv.Time + d.Time,
		Travel:          s.sv.Travel + d.Travel,
		Velocity:        s.sv.Velocity + dv,
		BurnupFractions: addBurnup(s.sv.BurnupFractions, d.BurnupFractions),
	}, marker, s.IsStarted)
}

func addBurnup(zs, ds []float64) []float64 {
	out := make([]float64, len(zs))
	for i := range zs {
		out[i] = zs[i] + ds[i]
	}
	return out
}
