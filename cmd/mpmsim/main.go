package main

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/mpmsim/internal/analysis"
	"github.com/san-kum/mpmsim/internal/config"
	"github.com/san-kum/mpmsim/internal/experiment"
	"github.com/san-kum/mpmsim/internal/export"
	"github.com/san-kum/mpmsim/internal/gui"
	"github.com/san-kum/mpmsim/internal/metrics"
	"github.com/san-kum/mpmsim/internal/mpm"
	"github.com/san-kum/mpmsim/internal/optim"
	"github.com/san-kum/mpmsim/internal/storage"
	"github.com/san-kum/mpmsim/internal/viz"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string
	seed       int64
	gridSize   int
	particles  int
	spacing    float64
	dt         float64
	steps      int
	gravity    float64
	vx, vy     float64
	jitter     float64
	material   string
	mu, lambda float64
	snapshot   bool
	svgOut     bool
	numRuns    int
	sweepMu    []float64
	sweepLam   []float64
	sweepBy    string
	benchSteps int
	gifPath    string
)

// main registers the commands and exits with status 1 when one fails.
func main() {
	rootCmd := &cobra.Command{
		Use:          "mpmsim",
		Short:        "2D material point method simulator",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".mpmsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store its diagnostics",
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().BoolVar(&snapshot, "png", false, "save the final frame as png")
	runCmd.Flags().BoolVar(&svgOut, "svg", false, "save final particles and center of mass path as svg")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run one configuration under several seeds in parallel",
		RunE:  runEnsemble,
	}
	addSimFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 4, "number of seeds")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search material parameters minimizing a metric",
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&sweepMu, "mu-values", []float64{5, 10, 20}, "mu values to try")
	sweepCmd.Flags().Float64SliceVar(&sweepLam, "lambda-values", []float64{5, 10, 20}, "lambda values to try")
	sweepCmd.Flags().StringVar(&sweepBy, "metric", "degenerate", "metric to minimize")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "live terminal view",
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().StringVar(&gifPath, "gif", "simulation.gif", "gif recording path")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "windowed view (raylib)",
		RunE:  runGUI,
	}
	addSimFlags(guiCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "kinetic energy spectrum of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write run diagnostics as csv to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in presets",
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time steps for several grid sizes",
		RunE:  benchSizes,
	}
	benchCmd.Flags().IntVar(&benchSteps, "steps", 50, "steps per size")

	rootCmd.AddCommand(runCmd, ensembleCmd, sweepCmd, liveCmd, guiCmd, listCmd, plotCmd, analyzeCmd, exportCSVCmd, presetsCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.Int64Var(&seed, "seed", def.Seed, "random seed")
	f.IntVar(&gridSize, "grid", def.Grid.Size, "grid cells per side")
	f.IntVar(&particles, "particles", def.Particles.Count, "requested particle count")
	f.Float64Var(&spacing, "spacing", def.Particles.Spacing, "initial particle spacing")
	f.Float64Var(&dt, "dt", def.Run.Dt, "timestep")
	f.IntVar(&steps, "steps", def.Run.Steps, "number of steps")
	f.Float64Var(&gravity, "gravity", def.Run.Gravity[1], "vertical gravity")
	f.Float64Var(&vx, "vx", 0, "initial x velocity")
	f.Float64Var(&vy, "vy", 0, "initial y velocity")
	f.Float64Var(&jitter, "jitter", 0, "initial velocity jitter")
	f.StringVar(&material, "material", def.Material.Model, "material model (neo_hookean, passive)")
	f.Float64Var(&mu, "mu", def.Material.Mu, "shear modulus")
	f.Float64Var(&lambda, "lambda", def.Material.Lambda, "lame parameter")
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// resolveConfig layers defaults, the preset, the config file and finally
// any flags set explicitly on the command line.
func resolveConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg := config.DefaultConfig()
	name := "custom"

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg, name = p, preset
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	f := cmd.Flags()
	if f.Changed("seed") {
		cfg.Seed = seed
	}
	if f.Changed("grid") {
		cfg.Grid.Size = gridSize
	}
	if f.Changed("particles") {
		cfg.Particles.Count = particles
	}
	if f.Changed("spacing") {
		cfg.Particles.Spacing = spacing
	}
	if f.Changed("dt") {
		cfg.Run.Dt = dt
	}
	if f.Changed("steps") {
		cfg.Run.Steps = steps
	}
	if f.Changed("gravity") {
		cfg.Run.Gravity[1] = gravity
	}
	if f.Changed("vx") {
		cfg.Particles.Velocity[0] = vx
	}
	if f.Changed("vy") {
		cfg.Particles.Velocity[1] = vy
	}
	if f.Changed("jitter") {
		cfg.Particles.Jitter = jitter
	}
	if f.Changed("material") {
		cfg.Material.Model = material
	}
	if f.Changed("mu") {
		cfg.Material.Mu = mu
	}
	if f.Changed("lambda") {
		cfg.Material.Lambda = lambda
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, name, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger()

	exp := experiment.New(cfg, experiment.NewRegistry(), log)
	if err := exp.Setup(metrics.Default()); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info("running", "name", name, "steps", cfg.Run.Steps, "particles", exp.Simulator().NumParticles())
	result, err := exp.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if err != nil {
		log.Warn("interrupted, saving partial run", "steps", result.Steps)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(name, cfg, result)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	if snapshot {
		if err := writeSnapshot(st.SnapshotPath(runID), exp.Simulator()); err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
	}
	if svgOut {
		path := make([]r2.Vec, len(result.Stats))
		for i, s := range result.Stats {
			path[i] = s.Center()
		}
		sim := exp.Simulator()
		doc := export.ParticlesToSVG(sim.Positions(nil), path, sim.GridSize(), 800)
		if err := os.WriteFile(st.SVGPath(runID), []byte(doc), 0644); err != nil {
			return fmt.Errorf("failed to write svg: %w", err)
		}
	}

	fmt.Printf("run: %s\n", runID)
	fmt.Printf("steps: %d  particles: %d/%d  elapsed: %v\n\n",
		result.Steps, result.Realized, result.Requested, result.Elapsed.Round(time.Millisecond))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	names := make([]string, 0, len(result.Metrics))
	for k := range result.Metrics {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Fprintf(w, "%s\t%.6g\n", k, result.Metrics[k])
	}
	return w.Flush()
}

// writeSnapshot renders the simulator into an 800x800 png with +y up.
func writeSnapshot(path string, sim *mpm.Simulator) error {
	frame := mpm.NewFrame(800, 800, 3)
	sim.Render(frame)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, frame.Image(true))
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log := newLogger()
	results, err := experiment.NewEnsemble(cfg, experiment.NewRegistry(), numRuns, cfg.Seed, log).Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if err != nil {
		log.Warn("interrupted, showing partial runs")
	}

	fmt.Printf("ensemble: %s, %d runs from seed %d\n\n", name, numRuns, cfg.Seed)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSTEPS\tKINETIC\tMIN DET F\tDEGENERATE\tELAPSED")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%.4g\t%.4f\t%.0f\t%v\n",
			cfg.Seed+int64(i), r.Steps,
			r.Metrics["kinetic_energy"], r.Metrics["min_volume_ratio"], r.Metrics["degenerate"],
			r.Elapsed.Round(time.Millisecond))
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	reg := experiment.NewRegistry()

	build := func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := base.Clone()
		cfg.Material.Mu = params["mu"]
		cfg.Material.Lambda = params["lambda"]
		exp := experiment.New(cfg, reg, nil)
		if err := exp.Setup(metrics.Default()); err != nil {
			return nil, err
		}
		return exp, nil
	}

	g := optim.NewGridSearch([]string{"mu", "lambda"}, [][]float64{sweepMu, sweepLam})
	best, trials, err := g.Search(cmd.Context(), build, sweepBy)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "MU\tLAMBDA\t%s\n", sweepBy)
	for _, tr := range trials {
		if tr.Err != nil {
			fmt.Fprintf(w, "%g\t%g\terror: %v\n", tr.Params["mu"], tr.Params["lambda"], tr.Err)
			continue
		}
		fmt.Fprintf(w, "%g\t%g\t%.6g\n", tr.Params["mu"], tr.Params["lambda"], tr.Value)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	if err != nil {
		return err
	}

	fmt.Printf("\nbest: mu=%g lambda=%g %s=%.6g\n", best.Params["mu"], best.Params["lambda"], sweepBy, best.Value)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	session, err := experiment.NewSession(cfg, nil, nil)
	if err != nil {
		return err
	}

	m := viz.NewModel(session, name).WithGIFPath(gifPath)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	session, err := experiment.NewSession(cfg, nil, newLogger())
	if err != nil {
		return err
	}
	gui.Run(session, name)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tSTEPS\tDT\tGRID\tPARTICLES\tMATERIAL")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.3f\t%d\t%d\t%s\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Dt,
			run.GridSize,
			run.Particles,
			run.Material,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []mpm.StepStats, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	stats, err := st.LoadDiagnostics(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(stats) == 0 {
		return nil, nil, fmt.Errorf("no data for run %s", runID)
	}
	return meta, stats, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, stats, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("material: %s\n", meta.Material)
	fmt.Printf("samples: %d\n\n", len(stats))

	series := []struct {
		caption string
		value   func(mpm.StepStats) float64
	}{
		{"kinetic energy", func(s mpm.StepStats) float64 { return s.KineticEnergy }},
		{"momentum y", func(s mpm.StepStats) float64 { return s.MomentumY }},
		{"min det F", func(s mpm.StepStats) float64 { return s.MinJ }},
		{"active cells", func(s mpm.StepStats) float64 { return float64(s.ActiveCells) }},
	}

	for _, s := range series {
		data := make([]float64, len(stats))
		for i := range stats {
			data[i] = s.value(stats[i])
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, stats, err := loadRun(args[0])
	if err != nil {
		return err
	}

	ke := make([]float64, len(stats))
	for i := range stats {
		ke[i] = stats[i].KineticEnergy
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("material: %s\n\n", meta.Material)

	_, ps := analysis.Spectrum(ke, meta.Dt)
	if len(ps) < 4 {
		return fmt.Errorf("run too short for spectral analysis")
	}
	graph := asciigraph.Plot(ps[:len(ps)/4],
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (kinetic energy)"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq, power := analysis.DominantFrequency(ke, meta.Dt)
	fmt.Printf("dominant frequency: %.4f (power %.3g)\n", freq, power)
	if freq > 0 {
		fmt.Printf("period: %.3f time units\n", 1.0/freq)
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, stats, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.WriteDiagnostics(os.Stdout, stats)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tGRID\tPARTICLES\tMATERIAL\tMU\tLAMBDA\tSTEPS")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%g\t%g\t%d\n",
			name, p.Grid.Size, p.Particles.Count, p.Material.Model,
			p.Material.Mu, p.Material.Lambda, p.Run.Steps)
	}
	return w.Flush()
}

func benchSizes(cmd *cobra.Command, args []string) error {
	sizes := []int{32, 64, 128}

	fmt.Printf("benchmarking %d steps per size\n\n", benchSteps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GRID\tPARTICLES\tTIME\tSTEPS/SEC\tUS/PARTICLE")

	for _, size := range sizes {
		p := mpm.DefaultParams()
		p.GridSize = size
		p.NumParticles = (size / 2) * (size / 2)
		sim, err := mpm.New(p, mpm.WithSeed(42))
		if err != nil {
			return err
		}

		start := time.Now()
		if _, err := sim.Run(cmd.Context(), benchSteps); err != nil {
			return err
		}
		elapsed := time.Since(start)

		stepsPerSec := float64(benchSteps) / elapsed.Seconds()
		perParticle := elapsed.Seconds() * 1e6 / float64(benchSteps*sim.NumParticles())
		fmt.Fprintf(w, "%d\t%d\t%v\t%.1f\t%.3f\n",
			size, sim.NumParticles(), elapsed.Round(time.Millisecond), stepsPerSec, perParticle)
	}

	return w.Flush()
}
