package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/rigidsim/internal/collision"
	"github.com/san-kum/rigidsim/internal/config"
	"github.com/san-kum/rigidsim/internal/dynamics"
	"github.com/san-kum/rigidsim/internal/export"
	"github.com/san-kum/rigidsim/internal/integrators"
	"github.com/san-kum/rigidsim/internal/metrics"
	"github.com/san-kum/rigidsim/internal/sim"
	"github.com/san-kum/rigidsim/internal/storage"
	"github.com/san-kum/rigidsim/internal/tui"
)

var (
	dataDir    string
	configFile string
	preset     string
	integrator string
	stepSize   float64
	dt         float64
	duration   float64
	seed       int64
	runs       int
	svgWidth   int
	svgHeight  int
	outPath    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rigidsim",
		Short: "rigid body dynamics lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".rigidsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	addSceneFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "run a scene with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSceneFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot body heights over time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render body trajectories to an SVG file",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 600, "image height")
	exportSVGCmd.Flags().StringVar(&outPath, "out", "trajectory.svg", "output path")

	compareCmd := &cobra.Command{
		Use:   "compare [scene] [integrator1] [integrator2] ...",
		Short: "compare integrators on the same scene",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	addSceneFlags(compareCmd)

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [scene]",
		Short: "run a scene several times in parallel",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEnsemble,
	}
	addSceneFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&runs, "runs", 4, "number of parallel runs")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available scene presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, compareCmd, ensembleCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&integrator, "integrator", "", "integrator (euler, rk4)")
	cmd.Flags().Float64Var(&stepSize, "step", 0, "ODE step size")
	cmd.Flags().Float64Var(&dt, "dt", 0, "frame interval between collision checks")
	cmd.Flags().Float64Var(&duration, "time", 0, "duration")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
}

// loadScene resolves preset, config file, and CLI flag overrides into a
// single scene configuration. Flags that were set win over the file.
func loadScene(cmd *cobra.Command, args []string) (*config.Config, string, error) {
	sceneName := "drop"
	if len(args) > 0 {
		sceneName = args[0]
	}
	if preset != "" {
		sceneName = preset
	}

	var cfg *config.Config
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		sceneName = strings.TrimSuffix(configFile, ".yaml")
	} else {
		cfg = config.GetPreset(sceneName)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown scene: %s (available: %v)", sceneName, config.ListPresets())
		}
	}

	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("step") {
		cfg.StepSize = stepSize
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	cfg.Seed = seed

	return cfg, sceneName, nil
}

// buildSimulator assembles the system, forces, integrator, resolver, and
// contact source from a scene configuration.
func buildSimulator(cfg *config.Config) (*sim.Simulator, error) {
	bodies, err := cfg.BuildBodies()
	if err != nil {
		return nil, err
	}

	forces := dynamics.Stack{
		dynamics.Gravity{Accel: mgl64.Vec3{0, cfg.Gravity, 0}},
	}
	sys, err := dynamics.NewSystem(bodies, forces)
	if err != nil {
		return nil, err
	}

	integ, err := integrators.New(cfg.Integrator, cfg.StepSize)
	if err != nil {
		return nil, err
	}

	resolver := collision.NewResolver()
	resolver.Restitution = cfg.Restitution
	resolver.Threshold = cfg.Threshold
	resolver.MaxPasses = cfg.MaxPasses

	var source sim.ContactSource
	if cfg.Ground.Enabled {
		source = sim.NewGroundPlane(cfg.Ground.Height, cfg.Ground.Radius)
	}

	return sim.New(sys, integ, resolver, source), nil
}

func simConfig(cfg *config.Config) sim.Config {
	sc := sim.DefaultConfig()
	sc.Dt = cfg.Dt
	sc.Duration = cfg.Duration
	sc.Seed = cfg.Seed
	sc.Restitution = cfg.Restitution
	sc.Threshold = cfg.Threshold
	sc.MaxPasses = cfg.MaxPasses
	return sc
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, sceneName, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s, err := buildSimulator(cfg)
	if err != nil {
		return err
	}
	s.AddMetric(metrics.NewLinearMomentumDrift())
	s.AddMetric(metrics.NewAngularMomentumDrift())
	s.AddMetric(metrics.NewKineticEnergy(s.System().Bodies))

	fmt.Printf("running %s...\n", sceneName)
	start := time.Now()

	result, err := s.Run(context.Background(), simConfig(cfg))
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(sceneName, cfg.Dt, cfg.Duration, cfg.Seed, cfg.Integrator, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", result.StepsTaken)
	fmt.Printf("impulses: %d\n", result.Discontinuities)
	for _, e := range result.Errors {
		fmt.Println(lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Render("warning: " + e.Error()))
	}
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6g\n", name, val)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, sceneName, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	s, err := buildSimulator(cfg)
	if err != nil {
		return err
	}

	m, err := tui.NewModel(s, sceneName, cfg.Dt, cfg.Ground.Height, cfg.Ground.Radius, cfg.Ground.Enabled)
	if err != nil {
		return err
	}
	return tui.Run(m)
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, sceneName, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	ens := sim.NewEnsemble(func(run int, runSeed int64) (*sim.Simulator, error) {
		runCfg := *cfg
		runCfg.Seed = runSeed
		return buildSimulator(&runCfg)
	}, runs, cfg.Seed)

	fmt.Printf("running %d x %s...\n", runs, sceneName)
	start := time.Now()

	results, err := ens.Run(context.Background(), simConfig(cfg))
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	for i, r := range results {
		fmt.Printf("  run %d: frames=%d impulses=%d\n", i, r.StepsTaken, r.Discontinuities)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	stored, err := st.List()
	if err != nil {
		return err
	}

	if len(stored) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tDURATION\tDT\tINTEG\tBODIES\tIMPULSES")

	for _, run := range stored {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%d\t%d\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Bodies,
			run.Discontinuities,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("samples: %d\n\n", len(states))

	paths := export.BodyTrajectories(states)
	for b, path := range paths {
		data := make([]float64, len(path))
		for i, p := range path {
			data[i] = p.Y
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("body %d height vs time", b)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	states, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"time"}
	for i := range states[0] {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range states {
		row := []string{strconv.FormatFloat(times[i], 'f', 6, 64)}
		for _, val := range states[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	result := &sim.Result{
		Times:           times,
		Metrics:         meta.Metrics,
		Discontinuities: meta.Discontinuities,
	}
	for _, s := range states {
		result.States = append(result.States, s)
	}

	return export.WriteJSON(os.Stdout, meta.Scene, meta.Integrator, meta.Dt, meta.Duration, result)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to export")
	}

	svg := export.TrajectoriesToSVG(export.BodyTrajectories(states), svgWidth, svgHeight)
	if svg == "" {
		return fmt.Errorf("not enough points to render")
	}
	if err := os.WriteFile(outPath, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outPath)
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	integratorNames := args[1:]

	cfg, sceneName, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	fmt.Printf("comparing integrators for %s (step=%.4f, dt=%.4f, duration=%.1fs)\n\n", sceneName, cfg.StepSize, cfg.Dt, cfg.Duration)
	fmt.Printf("%-12s  %-14s  %-14s  %-10s\n", "integrator", "momentum_drift", "final_height", "time_ms")
	fmt.Println(strings.Repeat("-", 56))

	for _, name := range integratorNames {
		runCfg := *cfg
		runCfg.Integrator = name

		s, err := buildSimulator(&runCfg)
		if err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}
		s.AddMetric(metrics.NewLinearMomentumDrift())

		start := time.Now()
		result, err := s.Run(context.Background(), simConfig(&runCfg))
		elapsed := time.Since(start)
		if err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}

		finalHeight := 0.0
		if n := len(result.States); n > 0 && len(result.States[n-1]) > 1 {
			finalHeight = result.States[n-1][1]
		}

		fmt.Printf("%-12s  %14.2e  %14.6f  %10.2f\n",
			name, result.Metrics["linear_momentum_drift"], finalHeight, float64(elapsed.Microseconds())/1000)
	}

	return nil
}
