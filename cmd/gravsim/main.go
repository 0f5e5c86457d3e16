package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/nbody"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       int64
	numBodies  int
	gravity    float64
	workers    int
	width      float64
	height     float64
	frames     int
	frameRate  int
	// run
	ensembleRuns int
	noPlot       bool
	svgOut       string
	trailOut     string
	saveRun      bool
	// live
	themeName string
	// bench
	benchFrames int
)

// main registers the gravsim commands and runs the live view when no
// subcommand is given. It exits with status 1 if a command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:   "gravsim",
		Short: "2D gravitational n-body simulation",
		RunE:  runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".gravsim", "data directory for saved runs")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.Int64Var(&seed, "seed", nbody.DefaultSeed, "random seed")
	pf.IntVar(&numBodies, "bodies", nbody.DefaultBodies, "number of bodies")
	pf.Float64Var(&gravity, "g", nbody.DefaultG, "gravitational constant")
	pf.IntVar(&workers, "workers", 0, "force workers (0 = one per cpu)")
	pf.Float64Var(&width, "width", config.DefaultWidth, "viewport width")
	pf.Float64Var(&height, "height", config.DefaultHeight, "viewport height")
	pf.IntVar(&frames, "frames", config.DefaultFrames, "frames to simulate")
	pf.IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	rootCmd.Flags().StringVar(&themeName, "theme", viz.ThemeNight.Name, "color theme")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation in the terminal",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&themeName, "theme", viz.ThemeNight.Name, "color theme")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and report metrics",
		RunE:  runSimulation,
	}
	runCmd.Flags().IntVar(&ensembleRuns, "ensemble", 1, "number of runs with consecutive seeds")
	runCmd.Flags().BoolVar(&noPlot, "no-plot", false, "skip metric plots")
	runCmd.Flags().StringVar(&svgOut, "svg", "", "write the final frame as svg")
	runCmd.Flags().StringVar(&trailOut, "trail", "", "write the center of mass path as svg")
	runCmd.Flags().BoolVar(&saveRun, "save", false, "save metrics to the data directory")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot saved run metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a saved run as json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure frame throughput over body and worker counts",
		RunE:  runBench,
	}
	benchCmd.Flags().IntVar(&benchFrames, "bench-frames", 60, "frames per measurement")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [file.svg]",
		Short: "simulate headless and write the last frame as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  runSnapshot,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets()
			sort.Strings(names)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBODIES\tG\tVIEWPORT\tFRAMES")
			for _, name := range names {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%.1f\t%.0fx%.0f\t%d\n",
					name, p.Bodies, p.G, p.Viewport.Width, p.Viewport.Height, p.Run.Frames)
			}
			return w.Flush()
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [file]",
		Short: "write a config file with the resolved settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "gravsim.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(path, cfg); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}

	rootCmd.AddCommand(liveCmd, runCmd, listCmd, plotCmd, exportCmd, benchCmd, snapshotCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig applies defaults, then the preset, then the config file,
// then any flag set on the command line.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			names := config.ListPresets()
			sort.Strings(names)
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, names)
		}
	}

	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("bodies") {
		cfg.Bodies = numBodies
	}
	if flags.Changed("g") {
		cfg.G = gravity
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("width") {
		cfg.Viewport.Width = width
	}
	if flags.Changed("height") {
		cfg.Viewport.Height = height
	}
	if flags.Changed("frames") {
		cfg.Run.Frames = frames
	}
	if flags.Changed("fps") {
		cfg.Run.FPS = frameRate
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runConfig(cfg *config.Config) sim.Config {
	return sim.Config{
		Frames:        cfg.Run.Frames,
		FPS:           cfg.Run.FPS,
		Size:          cfg.Size(),
		ValidateState: cfg.Run.Validate,
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	eng, err := nbody.New(cfg.Params())
	if err != nil {
		return err
	}

	return viz.Run(eng, cfg.Run.FPS, themeName)
}

// trail records the center of mass of every frame.
type trail struct {
	points []r2.Vec
}

func (t *trail) OnFrame(frame int, s nbody.Snapshot, _ float64) {
	t.points = append(t.points, nbody.CenterOfMass(s))
}

// lastFrame renders the snapshot of frame `at` as svg.
type lastFrame struct {
	at   int
	size nbody.Size
	svg  string
}

func (l *lastFrame) OnFrame(frame int, s nbody.Snapshot, _ float64) {
	if frame == l.at {
		l.svg = export.SnapshotToSVG(s, l.size, 1.5)
	}
}

func writeFile(path, content, what string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", what, err)
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if ensembleRuns > 1 {
		return runEnsemble(ctx, cfg)
	}

	eng, err := nbody.New(cfg.Params())
	if err != nil {
		return err
	}

	runner := sim.New(eng)
	for _, m := range metrics.Default(cfg.G) {
		runner.AddMetric(m)
	}
	tr := &trail{}
	if trailOut != "" {
		runner.AddObserver(tr)
	}
	last := &lastFrame{at: cfg.Run.Frames - 1, size: cfg.Size()}
	if svgOut != "" {
		runner.AddObserver(last)
	}

	fmt.Printf("running %d bodies for %d frames at %d fps (%.0fx%.0f)...\n",
		cfg.Bodies, cfg.Run.Frames, cfg.Run.FPS, cfg.Viewport.Width, cfg.Viewport.Height)
	start := time.Now()

	result, err := runner.Run(ctx, runConfig(cfg))
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("frames: %d\n", result.StepsTaken)
	fmt.Printf("resets: %d\n", result.Resets)
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	if !noPlot {
		plotSeries(result.Series)
	}

	if saveRun {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(storage.RunMetadata{
			Seed:   cfg.Seed,
			Bodies: cfg.Bodies,
			G:      cfg.G,
			Width:  cfg.Viewport.Width,
			Height: cfg.Viewport.Height,
			FPS:    cfg.Run.FPS,
		}, result)
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		fmt.Printf("\nrun id: %s\n", runID)
	}

	if svgOut != "" {
		if last.svg == "" {
			fmt.Println("svg: run stopped before the last frame")
		} else if err := writeFile(svgOut, last.svg, "svg"); err != nil {
			return err
		}
	}
	if trailOut != "" {
		svg := export.PathToSVG(tr.points, 400, 400, "#00ff88")
		if svg == "" {
			fmt.Println("trail: not enough finite frames")
		} else if err := writeFile(trailOut, svg, "trail"); err != nil {
			return err
		}
	}

	if len(result.Errors) > 0 {
		return fmt.Errorf("simulation became unstable: %w", result.Errors[0])
	}
	return nil
}

func plotSeries(series map[string][]float64) {
	for _, name := range []string{"momentum", "energy_drift"} {
		data := series[name]
		if len(data) < 2 {
			continue
		}
		fmt.Println()
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" vs frame"),
		))
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tBODIES\tSEED\tFRAMES\tENERGY_DRIFT\tTIMESTAMP")
	for _, r := range runs {
		drift := "-"
		if v, ok := r.Metrics["energy_drift"]; ok {
			drift = fmt.Sprintf("%.4g", v)
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\t%s\n",
			r.ID, r.Bodies, r.Seed, r.Frames, drift, r.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, _, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("bodies: %d  seed: %d  frames: %d\n", meta.Bodies, meta.Seed, meta.Frames)
	plotSeries(series)
	return nil
}

func runEnsemble(ctx context.Context, cfg *config.Config) error {
	ens := sim.NewEnsemble(cfg.Params(), ensembleRuns, cfg.Seed, func(p nbody.Params) []sim.Metric {
		return metrics.Default(p.G)
	})

	fmt.Printf("running %d seeds of %d bodies for %d frames...\n", ensembleRuns, cfg.Bodies, cfg.Run.Frames)
	start := time.Now()

	results, err := ens.Run(ctx, runConfig(cfg))
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tFRAMES\tMOMENTUM\tENERGY_DRIFT\tMAX_SPEED\tFINITE")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%.4g\t%.4g\t%.4g\t%.2f\n",
			cfg.Seed+int64(i), r.StepsTaken,
			r.Metrics["momentum"], r.Metrics["energy_drift"], r.Metrics["max_speed"], r.Metrics["finite"])
	}
	return w.Flush()
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	eng, err := nbody.New(cfg.Params())
	if err != nil {
		return err
	}

	runCfg := runConfig(cfg)
	runCfg.ValidateState = false
	if runCfg.Frames == 0 {
		runCfg.Frames = 1
	}

	runner := sim.New(eng)
	last := &lastFrame{at: runCfg.Frames - 1, size: runCfg.Size}
	runner.AddObserver(last)

	if _, err := runner.Run(context.Background(), runCfg); err != nil {
		return err
	}
	return writeFile(args[0], last.svg, "svg")
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	bodyCounts := []int{100, 400, 1000}
	workerCounts := []int{1, runtime.NumCPU()}
	if workerCounts[1] == 1 {
		workerCounts = workerCounts[:1]
	}

	runCfg := runConfig(cfg)
	runCfg.Frames = benchFrames
	runCfg.ValidateState = false

	fmt.Printf("benchmarking %d frames at %.0fx%.0f\n\n", benchFrames, cfg.Viewport.Width, cfg.Viewport.Height)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tWORKERS\tFRAMES\tTIME\tFRAMES/SEC\tPAIRS/SEC")

	for _, n := range bodyCounts {
		for _, wk := range workerCounts {
			p := cfg.Params()
			p.Bodies = n
			p.Workers = wk

			eng, err := nbody.New(p)
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := sim.New(eng).Run(context.Background(), runCfg)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			framesPerSec := float64(result.StepsTaken) / elapsed.Seconds()
			pairsPerSec := framesPerSec * float64(n) * float64(n-1)

			fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.1f\t%.3g\n",
				n, wk, result.StepsTaken, elapsed, framesPerSec, pairsPerSec)
		}
	}

	return w.Flush()
}
