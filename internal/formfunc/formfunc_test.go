package formfunc

import (
	"errors"
	"math"
	"testing"
)

func TestSinglePerfEndpoints(t *testing.T) {
	f := SinglePerf(1.8, 260)

	psi0, err := f.Psi(0)
	if err != nil || psi0 != 0 {
		t.Errorf("psi(0) = %g, %v; expected 0", psi0, err)
	}

	psi1, err := f.Psi(1)
	if err != nil {
		t.Fatalf("psi(1) failed: %v", err)
	}
	if math.Abs(psi1-1) > 1e-12 {
		t.Errorf("single-perf grain must burn out at Z=1, psi(1) = %.15f", psi1)
	}
	if f.ZK != 1 {
		t.Errorf("single-perf Z_k = %g, expected 1", f.ZK)
	}
}

func TestNonPerfMonotone(t *testing.T) {
	f := NonPerf(2.0, 10.0, 150.0)

	prev := 0.0
	for i := 1; i <= 100; i++ {
		z := float64(i) / 100
		psi, err := f.Psi(z)
		if err != nil {
			t.Fatalf("psi(%g) failed: %v", z, err)
		}
		if psi < prev {
			t.Fatalf("psi not monotone at Z=%g: %g < %g", z, psi, prev)
		}
		if psi < 0 || psi > 1+1e-12 {
			t.Fatalf("psi(%g) = %g outside [0, 1]", z, psi)
		}
		prev = psi
	}
}

func TestNonPerfDimensionOrderIrrelevant(t *testing.T) {
	a := NonPerf(2, 10, 150)
	b := NonPerf(150, 2, 10)
	if a.Chi != b.Chi || a.Lambda != b.Lambda || a.Mu != b.Mu {
		t.Errorf("coefficients depend on dimension order: %+v vs %+v", a, b)
	}
}

func TestMultiPerfContinuityAndBurnout(t *testing.T) {
	f, err := MultiPerf(1.4, 0.75, 17, SevenPerfCylinder)
	if err != nil {
		t.Fatalf("multi-perf construction failed: %v", err)
	}

	if f.ZK <= 1 {
		t.Fatalf("multi-perf Z_k = %g, expected > 1", f.ZK)
	}

	// continuity across the fracture point
	below, _ := f.Psi(1)
	above, _ := f.Psi(1 + 1e-9)
	if math.Abs(below-above) > 1e-6 {
		t.Errorf("psi discontinuous at fracture: %.9f vs %.9f", below, above)
	}
	if math.Abs(below-f.PsiS) > 1e-12 {
		t.Errorf("psi(1) = %g differs from PsiS = %g", below, f.PsiS)
	}

	end, err := f.Psi(f.ZK)
	if err != nil {
		t.Fatalf("psi(Z_k) failed: %v", err)
	}
	if math.Abs(end-1) > 1e-9 {
		t.Errorf("psi(Z_k) = %.12f, expected 1", end)
	}
}

func TestMultiPerfRegressive(t *testing.T) {
	// a grain far shorter than its web burns regressively
	_, err := MultiPerf(4.0, 2.0, 1.0, SevenPerfRosette)
	if !errors.Is(err, ErrRegressiveCombustion) {
		t.Fatalf("expected ErrRegressiveCombustion, got %v", err)
	}
}

func TestPsiDomainError(t *testing.T) {
	f := SinglePerf(1.8, 260)

	for _, z := range []float64{-0.1, 1.5} {
		_, err := f.Psi(z)
		var de *DomainError
		if !errors.As(err, &de) {
			t.Errorf("psi(%g): expected DomainError, got %v", z, err)
		}
	}

	if got := f.PsiClamped(7.0); math.Abs(got-1) > 1e-12 {
		t.Errorf("PsiClamped above Z_k = %g, expected 1", got)
	}
	if got := f.PsiClamped(-3.0); got != 0 {
		t.Errorf("PsiClamped below 0 = %g, expected 0", got)
	}
}

func TestParseShape(t *testing.T) {
	s, err := ParseShape("19-perf-rosette")
	if err != nil || s != NineteenPerfRosette {
		t.Errorf("ParseShape: got %v, %v", s, err)
	}
	if _, err := ParseShape("23-perf-doughnut"); err == nil {
		t.Error("expected error for unknown shape")
	}
}
