package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/ctrlab/ctrlab/internal/analysis"
	"github.com/ctrlab/ctrlab/internal/config"
	"github.com/ctrlab/ctrlab/internal/dynamics"
	"github.com/ctrlab/ctrlab/internal/exercise"
	"github.com/ctrlab/ctrlab/internal/experiment"
	"github.com/ctrlab/ctrlab/internal/grader"
	"github.com/ctrlab/ctrlab/internal/plotting"
	"github.com/ctrlab/ctrlab/internal/storage"
	"github.com/ctrlab/ctrlab/internal/tui"
)

var (
	dataDir    string
	dt         float64
	duration   float64
	seed       int64
	integrator string
	controller string
	state      []float64
	kp         float64
	ki         float64
	kd         float64
	target     float64
	configFile string
	preset     string
	xAxis      int
	yAxis      int
	pngOut     string
	resultsOut string
	bound      float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ctrlab",
		Short: "dynamics, stability, and control course lab",
		Long: `ctrlab simulates the course plants, estimates regions of attraction,
identifies models from data, finds limit cycles, and grades the lab
exercises built on all of the above.`,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ctrlab", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run a simulation and store the result",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	runCmd.Flags().Float64SliceVar(&state, "state", nil, "initial state")
	runCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	runCmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator")
	runCmd.Flags().StringVar(&controller, "controller", "none", "controller")
	runCmd.Flags().Float64Var(&kp, "kp", config.DefaultKp, "pid kp")
	runCmd.Flags().Float64Var(&ki, "ki", config.DefaultKi, "pid ki")
	runCmd.Flags().Float64Var(&kd, "kd", config.DefaultKd, "pid kd")
	runCmd.Flags().Float64Var(&target, "target", 0.0, "pid target")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase-plane plot of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&xAxis, "x-axis", 0, "state index for x-axis")
	phaseCmd.Flags().IntVar(&yAxis, "y-axis", 1, "state index for y-axis")
	phaseCmd.Flags().StringVar(&pngOut, "png", "", "also write a PNG to this path")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spectral analysis of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&xAxis, "x-axis", 0, "state index to analyze")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a stored run as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dataDir)
			if _, err := st.Load(args[0]); err != nil {
				return err
			}
			return st.ExportCSV(os.Stdout, args[0])
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	exercisesCmd := &cobra.Command{
		Use:   "exercises",
		Short: "list the course exercises",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range exercise.List() {
				ex, err := exercise.Get(name)
				if err != nil {
					return err
				}
				fmt.Printf("%-18s %s\n", name, ex.Description())
			}
			return nil
		},
	}

	gradeCmd := &cobra.Command{
		Use:   "grade [exercise...]",
		Short: "run and grade exercises (all by default)",
		RunE:  gradeExercises,
	}
	gradeCmd.Flags().StringVar(&resultsOut, "out", "", "write results YAML to this path")

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "watch a simulation live in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	liveCmd.Flags().Float64SliceVar(&state, "state", nil, "initial state")
	liveCmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator")
	liveCmd.Flags().StringVar(&controller, "controller", "none", "controller")
	liveCmd.Flags().Float64Var(&kp, "kp", config.DefaultKp, "pid kp")
	liveCmd.Flags().Float64Var(&ki, "ki", config.DefaultKi, "pid ki")
	liveCmd.Flags().Float64Var(&kd, "kd", config.DefaultKd, "pid kd")
	liveCmd.Flags().Float64Var(&target, "target", 0.0, "pid target")
	liveCmd.Flags().Float64Var(&bound, "bound", 4.0, "half width of the phase plane view")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, phaseCmd, analyzeCmd, exportJSONCmd, exportCSVCmd, presetsCmd, exercisesCmd, gradeCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildConfig merges preset, config file, and flags into one run config,
// with explicit flags taking priority.
func buildConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Model = model

	if preset != "" {
		p := config.GetPreset(model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
		*cfg = *p
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		*cfg = *loaded
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("controller") {
		cfg.Controller = controller
	}
	if cmd.Flags().Changed("state") {
		cfg.State = state
	}
	if cmd.Flags().Changed("kp") {
		cfg.ControllerParams.Kp = kp
	}
	if cmd.Flags().Changed("ki") {
		cfg.ControllerParams.Ki = ki
	}
	if cmd.Flags().Changed("kd") {
		cfg.ControllerParams.Kd = kd
	}
	if cmd.Flags().Changed("target") {
		cfg.ControllerParams.Target = target
	}
	if cmd.Flags().Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	cfg.Model = model

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildSimulator(cfg *config.Config) (*dynamics.Simulator, dynamics.System, error) {
	registry := experiment.NewRegistry()

	dyn, err := registry.GetModel(cfg.Model)
	if err != nil {
		return nil, nil, err
	}
	integ, err := registry.GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, nil, err
	}
	ctrl, err := registry.GetController(cfg.Controller, dyn, cfg.GetControllerParams(dyn.ControlDim()))
	if err != nil {
		return nil, nil, err
	}

	simulator := dynamics.New(dyn, integ, ctrl)
	for _, m := range registry.DefaultMetrics(dyn) {
		simulator.AddMetric(m)
	}
	return simulator, dyn, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}
	if len(cfg.State) == 0 {
		return fmt.Errorf("no initial state: pass --state or a preset")
	}

	simulator, _, err := buildSimulator(cfg)
	if err != nil {
		return err
	}

	runCfg := dynamics.DefaultConfig()
	runCfg.Dt = cfg.Dt
	runCfg.Duration = cfg.Duration
	runCfg.Seed = cfg.Seed

	result, err := simulator.Run(context.Background(), dynamics.State(cfg.State), runCfg)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg.Model, cfg.Dt, cfg.Duration, cfg.Seed, cfg.Integrator, cfg.Controller, result)
	if err != nil {
		return err
	}

	fmt.Printf("run %s: %d steps\n", runID, result.StepsTaken)
	for name, value := range result.Metrics {
		fmt.Printf("  %s: %.6g\n", name, value)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no stored runs")
		return nil
	}
	for _, run := range runs {
		fmt.Printf("%-28s %-10s %-6s %-6s %s\n",
			run.ID, run.Model, run.Integrator, run.Controller,
			run.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	states, _, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("run %s has no states", args[0])
	}

	for i := range states[0] {
		data := make([]float64, len(states))
		for k := range states {
			data[k] = states[k][i]
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("x%d", i)),
		))
		fmt.Println()
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	states, _, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("run %s has no states", args[0])
	}
	if xAxis >= len(states[0]) || yAxis >= len(states[0]) {
		return fmt.Errorf("axis indices out of range for %d state components", len(states[0]))
	}

	trail := make([]analysis.Point, len(states))
	for k, s := range states {
		trail[k] = analysis.Point{X: s[xAxis], Y: s[yAxis]}
	}
	portrait := &analysis.Portrait{XIndex: xAxis, YIndex: yAxis, Trails: [][]analysis.Point{trail}}

	fmt.Println(portrait.ToASCII(80, 24))
	if pngOut != "" {
		if err := plotting.SavePortraitPNG(portrait, pngOut, args[0]); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", pngOut)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	states, times, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(states) < 4 || len(times) < 2 {
		return fmt.Errorf("run %s is too short to analyze", args[0])
	}
	if xAxis >= len(states[0]) {
		return fmt.Errorf("axis index out of range for %d state components", len(states[0]))
	}

	samples := make([]float64, len(states))
	for k := range states {
		samples[k] = states[k][xAxis]
	}
	sampleDt := times[1] - times[0]

	spectrum := analysis.PowerSpectrum(samples)
	fmt.Println(plotting.Series(spectrum, "power spectrum", 80, 12))

	period, err := analysis.DominantPeriod(samples, sampleDt)
	if err != nil {
		return err
	}
	fmt.Printf("dominant period: %.4g s\n", period)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	states, times, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}

	result := &dynamics.Result{Times: times, Metrics: meta.Metrics}
	for _, s := range states {
		result.States = append(result.States, dynamics.State(s))
	}
	return storage.ExportJSON(os.Stdout, meta.Model, meta.Integrator, meta.Controller, meta.Dt, meta.Duration, result)
}

func gradeExercises(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		names = exercise.List()
	}

	summary, err := grader.Grade(context.Background(), names)
	if err != nil {
		return err
	}
	fmt.Println(grader.Render(summary))

	if resultsOut != "" {
		if err := summary.Save(resultsOut); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", resultsOut)
	}

	for _, entry := range summary.Entries {
		if !entry.Passed {
			return fmt.Errorf("%d of %d exercises failed", countFailed(summary), len(summary.Entries))
		}
	}
	return nil
}

func countFailed(s *grader.Summary) int {
	n := 0
	for _, e := range s.Entries {
		if !e.Passed {
			n++
		}
	}
	return n
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}
	if len(cfg.State) == 0 {
		return fmt.Errorf("no initial state: pass --state or a preset")
	}

	registry := experiment.NewRegistry()
	dyn, err := registry.GetModel(cfg.Model)
	if err != nil {
		return err
	}
	integ, err := registry.GetIntegrator(cfg.Integrator)
	if err != nil {
		return err
	}
	ctrl, err := registry.GetController(cfg.Controller, dyn, cfg.GetControllerParams(dyn.ControlDim()))
	if err != nil {
		return err
	}

	model := tui.NewModel(dyn, integ, ctrl, dynamics.State(cfg.State), cfg.Dt, bound, cfg.Model)
	program := tea.NewProgram(model)
	_, err = program.Run()
	return err
}
