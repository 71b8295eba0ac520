// Package charge models propellant thermochemistry and its embodiment as a
// gun charge with a particular grain geometry and burn rate.
package charge

import (
	"errors"
	"fmt"
	"math"

	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/formfunc"
)

// AmbientPressure, in Pa, floors the pressure fed into the burn-rate law.
// Without it the combustion ODE stalls at zero pressure during ignition.
const AmbientPressure = 101325.0

// ErrNoBurnRate indicates a Charge was built without a reduced burn rate
// and one could not be derived from the burn-rate coefficient and arch.
var ErrNoBurnRate = errors.New("charge: reduced burn rate must be supplied or derivable from burn rate coefficient and half-arch")

// Propellant carries the thermochemistry of a propellant composition,
// before it is cut into grains.
type Propellant struct {
	Name        string
	Description string

	// BurnRateCoefficient is the a parameter of the Saint Robert law
	// u = a*P^n, in m/s/Pa^n. Zero when not tabulated.
	BurnRateCoefficient float64

	// Density is the bulk density, kg/m^3. Close to 1600 for modern
	// compositions.
	Density float64

	// Force is the work done by a kilogram of propellant gas expanding
	// from its isochoric adiabatic flame temperature to absolute zero,
	// J/kg.
	Force float64

	// PressureExponent is the n of the Saint Robert law, dimensionless.
	PressureExponent float64

	// Covolume is the alpha of the Nobel-Abel equation of state
	// P(v - alpha) = RT, m^3/kg.
	Covolume float64

	// AdiabaticIndex is the mean heat-capacity ratio of the combustion
	// products, typically 1.2-1.25 at flame temperatures.
	AdiabaticIndex float64
}

// Theta is the adiabatic index less one.
func (p Propellant) Theta() float64 { return p.AdiabaticIndex - 1 }

// Validate checks the physical bounds on the thermochemistry.
func (p Propellant) Validate() error {
	if p.Density <= 0 {
		return fmt.Errorf("charge: propellant density must be positive, got %g", p.Density)
	}
	if p.AdiabaticIndex <= 1 {
		return fmt.Errorf("charge: adiabatic index must exceed 1, got %g", p.AdiabaticIndex)
	}
	if p.PressureExponent <= 0 || p.PressureExponent > 1 {
		return fmt.Errorf("charge: pressure exponent must be in (0, 1], got %g", p.PressureExponent)
	}
	return nil
}

// Charge is a propellant embodied as grains of a given geometry burning at
// a given reduced rate u_1/e_1, in s^-1 Pa^-n.
type Charge struct {
	Propellant
	FormFunction    formfunc.FormFunction
	ReducedBurnRate float64
}

// FromPropellant builds a Charge. When reducedBurnRate is zero it is
// derived from the propellant's burn-rate coefficient and the form
// function's half-arch; failing both, ErrNoBurnRate.
func FromPropellant(p Propellant, ff formfunc.FormFunction, reducedBurnRate float64) (Charge, error) {
	if err := p.Validate(); err != nil {
		return Charge{}, err
	}
	if reducedBurnRate == 0 {
		if p.BurnRateCoefficient > 0 && ff.E1 > 0 {
			reducedBurnRate = p.BurnRateCoefficient / ff.E1
		} else {
			return Charge{}, ErrNoBurnRate
		}
	}
	return Charge{Propellant: p, FormFunction: ff, ReducedBurnRate: reducedBurnRate}, nil
}

// ZK is the end-of-combustion abscissa of the charge's grains.
func (c Charge) ZK() float64 { return c.FormFunction.ZK }

// Psi forwards to the form function.
func (c Charge) Psi(z float64) (float64, error) { return c.FormFunction.Psi(z) }

// PsiClamped forwards to the form function.
func (c Charge) PsiClamped(z float64) float64 { return c.FormFunction.PsiClamped(z) }

// DZDt is the linear burnup rate at average pressure p, floored at
// atmospheric so ignition from rest makes progress.
func (c Charge) DZDt(p float64) float64 {
	return c.ReducedBurnRate * math.Pow(math.Max(p, AmbientPressure), c.PressureExponent)
}

// ReducedFromArchAndCoefficient converts a tabulated burn-rate coefficient
// and full arch width into a reduced burn rate. Tabulating burn rates this
// way is common with Western sources and recent Chinese work.
func ReducedFromArchAndCoefficient(archWidth, coefficient float64) float64 {
	return 2 * coefficient / archWidth
}

// CoefficientFromArch recovers the Saint Robert coefficient from the
// charge's reduced burn rate. With archWidth zero the form function's
// half-arch is used.
func (c Charge) CoefficientFromArch(archWidth float64) (float64, error) {
	if archWidth == 0 {
		if c.FormFunction.E1 == 0 {
			return 0, errors.New("charge: arch width must be supplied or set on the form function")
		}
		archWidth = 2 * c.FormFunction.E1
	}
	return 0.5 * c.ReducedBurnRate * archWidth, nil
}
