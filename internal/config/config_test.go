package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Gun.StartPressure != 30e6 {
		t.Errorf("default start pressure %g", cfg.Gun.StartPressure)
	}
	if cfg.Gun.LossFraction != 0.05 {
		t.Errorf("default loss fraction %g", cfg.Gun.LossFraction)
	}
	if cfg.Solver.Acc != 1e-3 || cfg.Solver.Steps != 10 {
		t.Errorf("default solver settings %+v", cfg.Solver)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("bs-3")
	if cfg == nil {
		t.Fatal("expected bs-3 preset")
	}
	if len(cfg.Charges) != 1 {
		t.Fatalf("bs-3 must carry one charge, got %d", len(cfg.Charges))
	}
	if cfg.Charges[0].Mass != 5.6 {
		t.Errorf("bs-3 charge mass %g", cfg.Charges[0].Mass)
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for unknown preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Fatal("expected presets")
	}
	seen := map[string]bool{}
	for _, n := range names {
		seen[n] = true
	}
	if !seen["bs-3"] || !seen["d-44"] {
		t.Errorf("reference presets missing from %v", names)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gun.yaml")

	cfg := GetPreset("d-44")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Name != cfg.Name {
		t.Errorf("name round trip: %q vs %q", loaded.Name, cfg.Name)
	}
	if len(loaded.Charges) != 2 {
		t.Fatalf("charge count round trip: %d", len(loaded.Charges))
	}
	if loaded.Charges[1].Grain.Kind != "single_perf" {
		t.Errorf("grain kind round trip: %q", loaded.Charges[1].Grain.Kind)
	}
	if loaded.Targets.Velocity != 793 {
		t.Errorf("velocity target round trip: %g", loaded.Targets.Velocity)
	}
}

func TestBaseProblemFromPreset(t *testing.T) {
	cfg := GetPreset("d-44")

	base, err := cfg.BaseProblem()
	if err != nil {
		t.Fatalf("BaseProblem: %v", err)
	}
	if len(base.Propellants) != 2 || len(base.FormFunctions) != 2 {
		t.Fatalf("expected two charges, got %d/%d", len(base.Propellants), len(base.FormFunctions))
	}
	if base.FormFunctions[0].ZK <= 1 {
		t.Errorf("14/7 grain must have Z_k > 1, got %g", base.FormFunctions[0].ZK)
	}

	target, err := cfg.PressureTarget()
	if err != nil {
		t.Fatalf("PressureTarget: %v", err)
	}
	if target.Value != 2750e2*981 {
		t.Errorf("pressure target %g", target.Value)
	}

	ratios := cfg.BurnRateRatios()
	if ratios[0] != 1.0/14 || ratios[1] != 1.0/18 {
		t.Errorf("burn rate ratios %v", ratios)
	}
}

func TestBuildGunRequiresBurnRate(t *testing.T) {
	cfg := GetPreset("bs-3")
	if _, err := cfg.BuildGun(); err == nil {
		t.Fatal("preset without reduced burn rate must not build a gun directly")
	}

	cfg.Charges[0].ReducedBurnRate = 8e-7
	g, err := cfg.BuildGun()
	if err != nil {
		t.Fatalf("BuildGun: %v", err)
	}
	if g.GrossChargeMass() != 5.6 {
		t.Errorf("gross charge mass %g", g.GrossChargeMass())
	}
}
