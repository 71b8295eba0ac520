package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/config"
	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/design"
	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/gun"
	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/problem"
	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/store"
	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/tui"
	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/viz"
)

var (
	dataDir     string
	configFile  string
	preset      string
	acc         float64
	steps       int
	concise     bool
	frameRate   int
	maxCalibers int
	velocity    float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mib",
		Short: "minimalist interior ballistics",
		Long:  "forward simulation and inverse design of gun interior ballistics,\nin the zero-dimensional Lagrange-gradient formulation.",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".mib", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "gun definition file (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "named reference gun")
	rootCmd.PersistentFlags().Float64Var(&acc, "acc", gun.DefaultAcc, "relative accuracy")
	rootCmd.PersistentFlags().IntVar(&steps, "steps", gun.DefaultSteps, "minimum integration steps")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "integrate a trajectory to the muzzle",
		RunE:  runTrajectory,
	}
	runCmd.Flags().BoolVar(&concise, "concise", true, "hide plain integration steps")

	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "inverse solvers",
	}

	solveRateCmd := &cobra.Command{
		Use:   "rate",
		Short: "solve the reduced burn rate for the pressure target",
		RunE:  solveRate,
	}

	solveVolumeCmd := &cobra.Command{
		Use:   "volume",
		Short: "solve the chamber volume for the pressure and velocity targets",
		RunE:  solveVolume,
	}
	solveVolumeCmd.Flags().Float64Var(&velocity, "velocity", 0, "velocity target override (m/s)")

	solveChargeCmd := &cobra.Command{
		Use:   "charge",
		Short: "solve the charge mass for the pressure and velocity targets",
		RunE:  solveCharge,
	}
	solveChargeCmd.Flags().Float64Var(&velocity, "velocity", 0, "velocity target override (m/s)")

	solveCmd.AddCommand(solveRateCmd, solveVolumeCmd, solveChargeCmd)

	designCmd := &cobra.Command{
		Use:   "design",
		Short: "solve the bore length for the velocity target",
		RunE:  designTravel,
	}
	designCmd.Flags().IntVar(&maxCalibers, "max-calibers", 1000, "upper travel bound in calibers")
	designCmd.Flags().Float64Var(&velocity, "velocity", 0, "velocity target override (m/s)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "replay a trajectory interactively",
		RunE:  watchTrajectory,
	}
	watchCmd.Flags().IntVar(&frameRate, "fps", 15, "replay frame rate")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list reference guns",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Printf("%-8s %s\n", name, cfg.Name)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, solveCmd, designCmd, listCmd, plotCmd, exportCmd, watchCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	switch {
	case preset != "":
		cfg := config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		return cfg, nil
	case configFile != "":
		return config.Load(configFile)
	}
	return nil, errors.New("either --config or --preset is required")
}

// solvedGun builds the configured gun, fitting the burn rate to the
// pressure target when the definition does not carry one.
func solvedGun(cfg *config.Config) (*gun.Gun, error) {
	g, err := cfg.BuildGun()
	if err == nil {
		return g, nil
	}

	if cfg.Targets.Pressure == 0 {
		return nil, fmt.Errorf("%w; supply reduced burn rates or a pressure target", err)
	}

	base, err := cfg.BaseProblem()
	if err != nil {
		return nil, err
	}
	base.Acc, base.NIntg = acc, steps

	p, err := problem.NewKnownGun(base, cfg.Gun.ChamberVolume, cfg.ChargeMasses())
	if err != nil {
		return nil, err
	}
	target, err := cfg.PressureTarget()
	if err != nil {
		return nil, err
	}
	return p.GunAtPressure(target, cfg.BurnRateRatios())
}

func runTrajectory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	g, err := solvedGun(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("integrating %s...\n", g.Name)
	begin := time.Now()

	states, err := g.ToTravel(0, steps, acc)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(begin))

	fmt.Println(viz.StateTable(states, concise))
	fmt.Println(viz.Summary(g, states))

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(g, states, acc, steps)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)

	return nil
}

func solveRate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	base, err := cfg.BaseProblem()
	if err != nil {
		return err
	}
	base.Acc, base.NIntg = acc, steps

	p, err := problem.NewKnownGun(base, cfg.Gun.ChamberVolume, cfg.ChargeMasses())
	if err != nil {
		return err
	}
	target, err := cfg.PressureTarget()
	if err != nil {
		return err
	}

	g, err := p.GunAtPressure(target, cfg.BurnRateRatios())
	if err != nil {
		return err
	}

	for i, ch := range g.Charges {
		fmt.Printf("charge %d (%s): reduced burn rate %.4e s^-1 Pa^-%g\n",
			i+1, ch.Name, ch.ReducedBurnRate, ch.PressureExponent)
	}

	states, err := g.ToTravel(0, steps, acc)
	if err != nil {
		return err
	}
	fmt.Println(viz.Summary(g, states))
	return nil
}

func velocityTarget(cfg *config.Config) (float64, error) {
	v := velocity
	if v == 0 {
		v = cfg.Targets.Velocity
	}
	if v == 0 {
		return 0, errors.New("a velocity target is required (--velocity or targets.velocity)")
	}
	return v, nil
}

func reportBranch(label string, g *gun.Gun, states gun.StateList) {
	if g == nil {
		fmt.Printf("%s: not bracketed\n", label)
		return
	}
	mv, _ := states.MuzzleVelocity()
	peak, _ := states.PeakAveragePressure()
	fmt.Printf("%s: chamber %.3f L, charge %.3f kg -> %.1f m/s at %.1f MPa\n",
		label, g.ChamberVolume*1e3, g.GrossChargeMass(), mv, peak*1e-6)
}

func solveVolume(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	base, err := cfg.BaseProblem()
	if err != nil {
		return err
	}
	base.Acc, base.NIntg = acc, steps

	p, err := problem.NewFixedCharge(base, cfg.ChargeMasses())
	if err != nil {
		return err
	}
	target, err := cfg.PressureTarget()
	if err != nil {
		return err
	}
	v, err := velocityTarget(cfg)
	if err != nil {
		return err
	}

	low, high, err := p.SolveChamberVolumeAtPressureForVelocity(target, v, cfg.BurnRateRatios())
	if err != nil {
		return err
	}

	for _, branch := range []struct {
		label string
		g     *gun.Gun
	}{{"low-volume branch", low}, {"high-volume branch", high}} {
		if branch.g == nil {
			reportBranch(branch.label, nil, nil)
			continue
		}
		states, err := branch.g.ToTravel(0, steps, acc)
		if err != nil {
			return err
		}
		reportBranch(branch.label, branch.g, states)
	}
	return nil
}

func solveCharge(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	base, err := cfg.BaseProblem()
	if err != nil {
		return err
	}
	base.Acc, base.NIntg = acc, steps

	p, err := problem.NewFixedVolume(base, cfg.Gun.ChamberVolume)
	if err != nil {
		return err
	}
	target, err := cfg.PressureTarget()
	if err != nil {
		return err
	}
	v, err := velocityTarget(cfg)
	if err != nil {
		return err
	}

	low, high, err := p.SolveChargeMassAtPressureForVelocity(target, v, cfg.ChargeMasses(), cfg.BurnRateRatios())
	if err != nil {
		return err
	}

	for _, branch := range []struct {
		label string
		g     *gun.Gun
	}{{"low-charge branch", low}, {"high-charge branch", high}} {
		if branch.g == nil {
			reportBranch(branch.label, nil, nil)
			continue
		}
		states, err := branch.g.ToTravel(0, steps, acc)
		if err != nil {
			return err
		}
		reportBranch(branch.label, branch.g, states)
	}
	return nil
}

func designTravel(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	target, err := cfg.PressureTarget()
	if err != nil {
		return err
	}
	v, err := velocityTarget(cfg)
	if err != nil {
		return err
	}

	base, err := cfg.BaseProblem()
	if err != nil {
		return err
	}

	d := design.FixedChargeDesign{
		BaseDesign: design.BaseDesign{
			Name:           cfg.Name,
			Description:    cfg.Description,
			Family:         cfg.Family,
			Propellants:    base.Propellants,
			FormFunctions:  base.FormFunctions,
			CrossSection:   cfg.Gun.CrossSection,
			ShotMass:       cfg.Gun.ShotMass,
			LossFraction:   cfg.Gun.LossFraction,
			StartPressure:  cfg.Gun.StartPressure,
			PressureTarget: target,
			Acc:            acc,
			NIntg:          steps,
		},
		ChargeMasses: cfg.ChargeMasses(),
	}

	g, err := d.OptimalGun(v, cfg.BurnRateRatios(), maxCalibers)
	if err != nil {
		return err
	}

	fmt.Printf("travel %.3f m (%.1f calibers), chamber %.3f L\n",
		g.Travel, g.Travel/d.Caliber(), g.ChamberVolume*1e3)

	states, err := g.ToTravel(0, steps, acc)
	if err != nil {
		return err
	}
	fmt.Println(viz.Summary(g, states))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tGUN\tTIME\tSTATES\tVELOCITY\tPEAK")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.1f m/s\t%.1f MPa\n",
			run.ID,
			run.Gun,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.States,
			run.MuzzleVelocity,
			run.PeakAveragePressure*1e-6,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	_, pressures, velocities, err := st.LoadHistory(args[0])
	if err != nil {
		return err
	}
	if len(pressures) == 0 {
		return errors.New("no data to plot")
	}

	fmt.Printf("run: %s\ngun: %s\nsamples: %d\n\n", meta.ID, meta.Gun, len(pressures))

	for i := range pressures {
		pressures[i] *= 1e-6
	}
	fmt.Println(asciigraph.Plot(pressures,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("average pressure (MPa)"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(velocities,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("velocity (m/s)"),
	))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func watchTrajectory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	g, err := solvedGun(cfg)
	if err != nil {
		return err
	}

	states, err := g.ToTravel(0, steps, acc)
	if err != nil {
		return err
	}
	return tui.Run(g, states, frameRate)
}
