package problem

import (
	"fmt"

	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/gun"
)

// TargetKind names the point of measurement a pressure figure refers to.
// Copper-crusher and piezo figures from the literature are variously quoted
// at the breech face, the shot base, or as the length average; conflating
// them misstates a design by the Lagrange-gradient ratios.
type TargetKind string

const (
	BreechTarget  TargetKind = "breech pressure"
	AverageTarget TargetKind = "average pressure"
	ShotTarget    TargetKind = "shot pressure"
)

// PressureTarget pairs a pressure value, in Pa, with its point of
// measurement.
type PressureTarget struct {
	Value float64
	Kind  TargetKind
}

// BreechPressure tags value as measured at the breech face.
func BreechPressure(value float64) PressureTarget {
	return PressureTarget{Value: value, Kind: BreechTarget}
}

// AveragePressure tags value as the length-averaged pressure.
func AveragePressure(value float64) PressureTarget {
	return PressureTarget{Value: value, Kind: AverageTarget}
}

// ShotPressure tags value as measured at the shot base.
func ShotPressure(value float64) PressureTarget {
	return PressureTarget{Value: value, Kind: ShotTarget}
}

// Validate rejects unknown target kinds.
func (t PressureTarget) Validate() error {
	switch t.Kind {
	case BreechTarget, AverageTarget, ShotTarget:
		return nil
	}
	return fmt.Errorf("problem: unknown pressure target kind %q", t.Kind)
}

// RetrieveFrom reads the corresponding pressure off a state.
func (t PressureTarget) RetrieveFrom(s gun.State) float64 {
	switch t.Kind {
	case BreechTarget:
		return s.BreechPressure()
	case ShotTarget:
		return s.ShotPressure()
	default:
		return s.AveragePressure()
	}
}

// Difference is RetrieveFrom(state) - Value.
func (t PressureTarget) Difference(s gun.State) float64 {
	return t.RetrieveFrom(s) - t.Value
}

// Scale returns the target scaled by k, keeping the point of measurement.
func (t PressureTarget) Scale(k float64) PressureTarget {
	return PressureTarget{Value: t.Value * k, Kind: t.Kind}
}

// Describe renders the target for messages, e.g. "average pressure 301.167 MPa".
func (t PressureTarget) Describe() string {
	return fmt.Sprintf("%s %.3f MPa", string(t.Kind), t.Value*1e-6)
}
