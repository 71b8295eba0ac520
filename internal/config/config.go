// Package config loads and saves gun definitions and solver settings from
// yaml files, and carries the named reference presets.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/charge"
	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/formfunc"
	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/gun"
	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/problem"
)

// Config is one complete problem definition: the bore, the loading, the
// numerical settings and the performance targets.
type Config struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Family      string `yaml:"family,omitempty"`

	Gun     GunConfig      `yaml:"gun"`
	Charges []ChargeConfig `yaml:"charges"`
	Solver  SolverConfig   `yaml:"solver"`
	Targets TargetsConfig  `yaml:"targets"`
}

// GunConfig is the charge-invariant geometry, SI units.
type GunConfig struct {
	CrossSection  float64 `yaml:"cross_section"`
	ShotMass      float64 `yaml:"shot_mass"`
	ChamberVolume float64 `yaml:"chamber_volume"`
	LossFraction  float64 `yaml:"loss_fraction"`
	StartPressure float64 `yaml:"start_pressure"`
	Travel        float64 `yaml:"travel"`
}

// ChargeConfig pairs a propellant with a grain geometry and its loading.
type ChargeConfig struct {
	Propellant PropellantConfig `yaml:"propellant"`
	Grain      GrainConfig      `yaml:"grain"`
	Mass       float64          `yaml:"mass"`

	// ReducedBurnRate is used directly when set; otherwise BurnRateRatio
	// feeds the inverse solvers.
	ReducedBurnRate float64 `yaml:"reduced_burn_rate,omitempty"`
	BurnRateRatio   float64 `yaml:"burn_rate_ratio,omitempty"`
}

// PropellantConfig is the thermochemistry, SI units.
type PropellantConfig struct {
	Name                string  `yaml:"name"`
	Density             float64 `yaml:"density"`
	Force               float64 `yaml:"force"`
	PressureExponent    float64 `yaml:"pressure_exponent"`
	Covolume            float64 `yaml:"covolume"`
	AdiabaticIndex      float64 `yaml:"adiabatic_index"`
	BurnRateCoefficient float64 `yaml:"burn_rate_coefficient,omitempty"`
}

// GrainConfig selects a form-function factory. Kind is one of non_perf,
// single_perf or multi_perf; the dimension fields feed the matching
// factory and share its units (millimeters are conventional). The form
// function depends only on their ratios, but a propellant's
// burn_rate_coefficient is divided by the half arch width in these units.
type GrainConfig struct {
	Kind                string  `yaml:"kind"`
	Length              float64 `yaml:"length,omitempty"`
	Width               float64 `yaml:"width,omitempty"`
	Height              float64 `yaml:"height"`
	ArchWidth           float64 `yaml:"arch_width,omitempty"`
	PerforationDiameter float64 `yaml:"perforation_diameter,omitempty"`
	Shape               string  `yaml:"shape,omitempty"`
}

// SolverConfig carries the numerical settings.
type SolverConfig struct {
	Acc   float64 `yaml:"acc"`
	Steps int     `yaml:"steps"`
}

// TargetsConfig carries the performance goals for the inverse solvers.
type TargetsConfig struct {
	Pressure     float64 `yaml:"pressure"`
	PressureKind string  `yaml:"pressure_kind"`
	Velocity     float64 `yaml:"velocity,omitempty"`
}

// DefaultConfig returns the settings applied where a file leaves them
// unset.
func DefaultConfig() *Config {
	return &Config{
		Gun: GunConfig{
			LossFraction:  gun.DefaultLossFraction,
			StartPressure: gun.DefaultStartPressure,
		},
		Solver: SolverConfig{
			Acc:   gun.DefaultAcc,
			Steps: gun.DefaultSteps,
		},
		Targets: TargetsConfig{PressureKind: "average"},
	}
}

// Load reads a config file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a config file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (g GrainConfig) build() (formfunc.FormFunction, error) {
	switch g.Kind {
	case "non_perf":
		return formfunc.NonPerf(g.Length, g.Width, g.Height), nil
	case "single_perf":
		return formfunc.SinglePerf(g.ArchWidth, g.Height), nil
	case "multi_perf":
		shape, err := formfunc.ParseShape(g.Shape)
		if err != nil {
			return formfunc.FormFunction{}, err
		}
		return formfunc.MultiPerf(g.ArchWidth, g.PerforationDiameter, g.Height, shape)
	}
	return formfunc.FormFunction{}, fmt.Errorf("config: unknown grain kind %q", g.Kind)
}

func (p PropellantConfig) build() charge.Propellant {
	return charge.Propellant{
		Name:                p.Name,
		Density:             p.Density,
		Force:               p.Force,
		PressureExponent:    p.PressureExponent,
		Covolume:            p.Covolume,
		AdiabaticIndex:      p.AdiabaticIndex,
		BurnRateCoefficient: p.BurnRateCoefficient,
	}
}

// PressureTarget builds the configured pressure target.
func (c *Config) PressureTarget() (problem.PressureTarget, error) {
	switch c.Targets.PressureKind {
	case "breech":
		return problem.BreechPressure(c.Targets.Pressure), nil
	case "average", "":
		return problem.AveragePressure(c.Targets.Pressure), nil
	case "shot":
		return problem.ShotPressure(c.Targets.Pressure), nil
	}
	return problem.PressureTarget{}, fmt.Errorf("config: unknown pressure kind %q", c.Targets.PressureKind)
}

// ChargeMasses lists the configured per-charge masses.
func (c *Config) ChargeMasses() []float64 {
	masses := make([]float64, len(c.Charges))
	for i, ch := range c.Charges {
		masses[i] = ch.Mass
	}
	return masses
}

// BurnRateRatios lists the configured per-charge burn-rate ratios,
// defaulting each to 1.
func (c *Config) BurnRateRatios() []float64 {
	ratios := make([]float64, len(c.Charges))
	for i, ch := range c.Charges {
		ratios[i] = ch.BurnRateRatio
		if ratios[i] == 0 {
			ratios[i] = 1
		}
	}
	return ratios
}

// BuildGun assembles the fully-specified gun. Every charge must carry a
// reduced burn rate (or a derivable coefficient); use BaseProblem and the
// solvers otherwise.
func (c *Config) BuildGun() (*gun.Gun, error) {
	charges := make([]charge.Charge, len(c.Charges))
	for i, cc := range c.Charges {
		ff, err := cc.Grain.build()
		if err != nil {
			return nil, err
		}
		ch, err := charge.FromPropellant(cc.Propellant.build(), ff, cc.ReducedBurnRate)
		if err != nil {
			return nil, err
		}
		charges[i] = ch
	}

	return gun.New(gun.Gun{
		Name:          c.Name,
		Description:   c.Description,
		Family:        c.Family,
		CrossSection:  c.Gun.CrossSection,
		ShotMass:      c.Gun.ShotMass,
		Charges:       charges,
		ChargeMasses:  c.ChargeMasses(),
		ChamberVolume: c.Gun.ChamberVolume,
		LossFraction:  c.Gun.LossFraction,
		StartPressure: c.Gun.StartPressure,
		Travel:        c.Gun.Travel,
	})
}

// BaseProblem assembles the inverse-problem inputs.
func (c *Config) BaseProblem() (problem.BaseProblem, error) {
	props := make([]charge.Propellant, len(c.Charges))
	ffs := make([]formfunc.FormFunction, len(c.Charges))
	for i, cc := range c.Charges {
		ff, err := cc.Grain.build()
		if err != nil {
			return problem.BaseProblem{}, err
		}
		props[i] = cc.Propellant.build()
		ffs[i] = ff
	}

	return problem.BaseProblem{
		Name:          c.Name,
		Description:   c.Description,
		Family:        c.Family,
		Propellants:   props,
		FormFunctions: ffs,
		CrossSection:  c.Gun.CrossSection,
		ShotMass:      c.Gun.ShotMass,
		Travel:        c.Gun.Travel,
		LossFraction:  c.Gun.LossFraction,
		StartPressure: c.Gun.StartPressure,
		Acc:           c.Solver.Acc,
		NIntg:         c.Solver.Steps,
	}, nil
}
