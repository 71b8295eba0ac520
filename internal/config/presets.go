package config

import "sort"

// presets carries reference guns with pressure figures converted from
// copper-crusher gauge values per《火炮内弹道计算手册》(1987) and
//《火炸药手册（增订本）第二分册》(1981).
var presets = map[string]*Config{
	"bs-3": {
		Name:        "БС-3 52-П-412 53-УОФ-412",
		Description: "Type 1944 100 mm field gun (BS-3), HE-Frag. Nominal 900 m/s.",
		Family:      "100x695mmR",
		Gun: GunConfig{
			CrossSection:  0.818e-2,
			ShotMass:      15.6,
			ChamberVolume: 7.9e-3,
			LossFraction:  0.03,
			StartPressure: 30000 * 981,
			Travel:        4.738,
		},
		Charges: []ChargeConfig{
			{
				Propellant: PropellantConfig{
					Name:             "НДТ-3",
					Density:          1600,
					Force:            950e3 * 0.981,
					PressureExponent: 1.0,
					Covolume:         1e-3,
					AdiabaticIndex:   1.2,
				},
				Grain: GrainConfig{Kind: "single_perf", ArchWidth: 1.8, Height: 260},
				Mass:  5.6,
			},
		},
		Solver:  SolverConfig{Acc: 1e-3, Steps: 10},
		Targets: TargetsConfig{Pressure: 3070e2 * 981, PressureKind: "average", Velocity: 900},
	},
	"d-44": {
		Name:        "Д-44 УО-365К O-365К",
		Description: "85 mm divisional gun D-44, frag. Nominal 793 m/s.",
		Family:      "85x629mmR",
		Gun: GunConfig{
			CrossSection:  0.582e-2,
			ShotMass:      9.54,
			ChamberVolume: 3.94e-3,
			LossFraction:  0.03,
			StartPressure: 300e2 * 981,
			Travel:        3.592,
		},
		Charges: []ChargeConfig{
			{
				Propellant: PropellantConfig{
					Name:             "14/7",
					Density:          1600,
					Force:            900e3 * 0.981,
					PressureExponent: 1.0,
					Covolume:         1e-3,
					AdiabaticIndex:   1.2,
				},
				Grain: GrainConfig{
					Kind: "multi_perf", ArchWidth: 1.4, PerforationDiameter: 0.75,
					Height: 17, Shape: "7-perf-cylinder",
				},
				Mass:          2.34,
				BurnRateRatio: 1.0 / 14,
			},
			{
				Propellant: PropellantConfig{
					Name:             "18/1-42",
					Density:          1600,
					Force:            900e3 * 0.981,
					PressureExponent: 1.0,
					Covolume:         1e-3,
					AdiabaticIndex:   1.2,
				},
				Grain:         GrainConfig{Kind: "single_perf", ArchWidth: 1.8, Height: 420},
				Mass:          0.26,
				BurnRateRatio: 1.0 / 18,
			},
		},
		Solver:  SolverConfig{Acc: 1e-3, Steps: 10},
		Targets: TargetsConfig{Pressure: 2750e2 * 981, PressureKind: "average", Velocity: 793},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := presets[name]
	if !ok {
		return nil
	}
	cp := *p
	cp.Charges = append([]ChargeConfig(nil), p.Charges...)
	return &cp
}

// ListPresets names the available presets, sorted.
func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
