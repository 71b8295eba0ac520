package problem

import (
	"math"
	"testing"
)

func TestPressureTargetRetrieve(t *testing.T) {
	g := bs3Gun(t, 8e-7)
	bomb := g.BombState()

	cases := []struct {
		target PressureTarget
		want   float64
	}{
		{BreechPressure(1), bomb.BreechPressure()},
		{AveragePressure(1), bomb.AveragePressure()},
		{ShotPressure(1), bomb.ShotPressure()},
	}
	for _, c := range cases {
		if got := c.target.RetrieveFrom(bomb); got != c.want {
			t.Errorf("%s: retrieved %g, want %g", c.target.Kind, got, c.want)
		}
		if got := c.target.Difference(bomb); math.Abs(got-(c.want-1)) > 1e-9 {
			t.Errorf("%s: difference %g, want %g", c.target.Kind, got, c.want-1)
		}
	}
}

func TestPressureTargetScale(t *testing.T) {
	target := AveragePressure(300e6).Scale(1.5)
	if target.Value != 450e6 {
		t.Errorf("scaled value %g", target.Value)
	}
	if target.Kind != AverageTarget {
		t.Errorf("scaling changed the kind to %q", target.Kind)
	}
}

func TestPressureTargetValidate(t *testing.T) {
	if err := AveragePressure(1).Validate(); err != nil {
		t.Errorf("valid target rejected: %v", err)
	}
	bogus := PressureTarget{Value: 1, Kind: "crusher gauge"}
	if err := bogus.Validate(); err == nil {
		t.Error("invalid target kind accepted")
	}
}
