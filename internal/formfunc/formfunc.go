// Package formfunc relates the volumetric burnup fraction of a propellant
// grain to its linear (depth-wise) burnup, conventionally written psi and Z.
//
// Subscripts follow M.E. Serebryakov's notation as circulated in the
// Soviet-sphere ballistic literature: k marks the point of complete
// combustion, s marks values at the fracture point where the web has been
// consumed and only slivers remain.
package formfunc

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrRegressiveCombustion indicates a multi-perforated geometry so short
// that it combusts regressively, which the sliver approximation does not
// model.
var ErrRegressiveCombustion = errors.New("formfunc: short multi-perforated grains combust regressively")

// DomainError indicates psi was evaluated outside [0, Z_k].
type DomainError struct {
	Z, ZK float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("formfunc: psi(Z) is defined on [0, %g], called with Z = %g", e.ZK, e.Z)
}

// FormFunction holds the shape-function coefficients of one grain
// geometry. Before fracture (Z in [0, 1]) the volumetric burnup follows the
// cubic chi*Z*(1 + lambda*Z + mu*Z^2), exact under parallel-layer
// combustion; past fracture (Z in (1, Z_k]) the sliver phase is fit by the
// quadratic chiS*Z*(1 + lambdaS*Z) such that psi is continuous at Z = 1 and
// reaches 1 at Z_k.
type FormFunction struct {
	Name        string
	Description string

	Chi    float64
	Lambda float64
	Mu     float64
	ZK     float64

	// E1 is the half arch width in the units the factory was called with,
	// zero when the geometry does not define one.
	E1 float64

	PsiS    float64
	ChiS    float64
	LambdaS float64
}

// New derives the post-fracture fit and returns the completed form
// function. Factories in this package call it; direct use is for
// coefficients taken from the literature.
func New(name, description string, chi, lambda, mu, zk, e1 float64) FormFunction {
	f := FormFunction{
		Name:        name,
		Description: description,
		Chi:         chi,
		Lambda:      lambda,
		Mu:          mu,
		ZK:          zk,
		E1:          e1,
	}
	f.PsiS = chi * (1 + lambda + mu)
	if zk > 1 {
		f.ChiS = (1 - f.PsiS*zk*zk) / (zk - zk*zk)
		f.LambdaS = f.PsiS/f.ChiS - 1
	}
	return f
}

// Psi evaluates the volumetric burnup fraction at linear burnup z.
func (f *FormFunction) Psi(z float64) (float64, error) {
	switch {
	case 0 <= z && z <= 1:
		return f.Chi * z * (1 + f.Lambda*z + f.Mu*z*z), nil
	case 1 < z && z <= f.ZK:
		return f.ChiS * z * (1 + f.LambdaS*z), nil
	}
	return 0, &DomainError{Z: z, ZK: f.ZK}
}

// PsiClamped clamps z into [0, Z_k] before evaluating, which is how the
// integrator queries burnup once a charge is fully consumed.
func (f *FormFunction) PsiClamped(z float64) float64 {
	z = math.Max(0, math.Min(z, f.ZK))
	psi, _ := f.Psi(z)
	return psi
}

// Sigma is the relative burning surface at linear burnup z, (dpsi/dZ)/chi.
func (f *FormFunction) Sigma(z float64) (float64, error) {
	if _, err := f.Psi(z); err != nil {
		return 0, err
	}
	if z <= 1 {
		return 1 + 2*f.Lambda*z + 3*f.Mu*z*z, nil
	}
	return f.ChiS / f.Chi * (1 + 2*f.LambdaS*z), nil
}

// NonPerf describes un-perforated grains: right square prisms (stick, tape,
// flake), right or elliptic cylinders, and spheres including oblonged ones.
// The three dimensions may be supplied in any order; the only real
// requirement on the shape is that it combusts self-similarly about a fixed
// center of volume.
func NonPerf(length, width, height float64) FormFunction {
	dims := []float64{length, width, height}
	sort.Float64s(dims)
	e1, b, c := 0.5*dims[0], 0.5*dims[1], 0.5*dims[2]

	alpha, beta := e1/b, e1/c
	chi := 1 + alpha + beta
	return New(
		"grain",
		fmt.Sprintf("%.1f x %.1f x %.1f mm", e1*2, b*2, c*2),
		chi,
		-(alpha+beta+alpha*beta)/chi,
		alpha*beta/chi,
		1,
		e1,
	)
}

// SinglePerf describes right hollow cylinders, colloquially tubular grains.
// Effectively NonPerf with one aspect ratio taken to zero.
func SinglePerf(archWidth, height float64) FormFunction {
	e1, c := 0.5*archWidth, 0.5*height
	beta := e1 / c
	return New(
		"tube",
		fmt.Sprintf("%.1f / 1 - %.1f mm", e1*2, c*2),
		1+beta,
		-beta/(1+beta),
		0,
		1,
		e1,
	)
}

// MultiPerf describes multi-perforated grains of the given shape. The arch
// width is the distance between the surfaces of two adjacent perforations;
// after the web is consumed the remaining slivers burn out at
// Z_k = (e_1 + rho)/e_1 > 1.
func MultiPerf(archWidth, perforationDiameter, height float64, shape MultiPerfShape) (FormFunction, error) {
	d0 := perforationDiameter
	e1, c := 0.5*archWidth, 0.5*height
	beta := e1 / c
	rhoBase := e1 + 0.5*d0

	sd, ok := shapeTable[shape]
	if !ok {
		return FormFunction{}, fmt.Errorf("formfunc: unknown multi-perforated shape %d", int(shape))
	}
	n := float64(sd.n)
	b := sd.bFactors[0]*d0 + sd.bFactors[1]*e1
	a := sd.aFactors[0]*d0 + sd.aFactors[1]*e1
	rho := sd.rhoRatio * rhoBase

	Pi := (sd.a*b + sd.b*d0) / (2 * c)
	Q := (sd.c*a*a + sd.a*b*b - sd.b*d0*d0) / ((2 * c) * (2 * c))

	lambda := beta * (n - 1 - 2*Pi) / (Q + 2*Pi)
	if lambda < 0 {
		return FormFunction{}, ErrRegressiveCombustion
	}

	return New(
		fmt.Sprintf("%d perf %s", sd.n, sd.desc),
		fmt.Sprintf("%.1f / %d (d = %.1f) - %.1f mm", e1*2, sd.n, d0, c*2),
		beta*(Q+2*Pi)/Q,
		lambda,
		beta*beta*(1-n)/(Q+2*Pi),
		(e1+rho)/e1,
		e1,
	), nil
}
