package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/rigidsim/internal/config"
	"github.com/san-kum/rigidsim/internal/logging"
	"github.com/san-kum/rigidsim/internal/scene"
	"github.com/san-kum/rigidsim/internal/storage"
	"github.com/san-kum/rigidsim/internal/viz"
	"github.com/san-kum/rigidsim/internal/world"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dataDir    string
	configFile string
	preset     string
	steps      int
	workers    int
	bodies     int
	islandSize int
	seed       int64
	dt         float64
	poolDebug  bool
	logLevel   string
	logFormat  string
	// live view
	stepsPerFrame int
	// plot
	series []string
	// export
	outPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "rigidsim",
		Short:        "island sleep and compound pair maintenance lab",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".rigidsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (console, json)")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene and store its timeline",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	addSceneFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "run a scene with a live island view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSceneFlags(liveCmd)
	liveCmd.Flags().IntVar(&stepsPerFrame, "steps-per-frame", 1, "simulation steps per rendered frame")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a run timeline",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&series, "series", []string{"active_islands", "sub_pairs"}, "timeline columns to plot")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata and timeline as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets [scene]",
		Short: "list scenes and their presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [scene]",
		Short: "measure step throughput across worker counts",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScene,
	}
	addSceneFlags(benchCmd)

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, presetsCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().IntVar(&workers, "workers", config.DefaultWorkers, "worker goroutines per phase")
	cmd.Flags().IntVar(&bodies, "bodies", config.DefaultBodies, "number of bodies")
	cmd.Flags().IntVar(&islandSize, "island-size", config.DefaultIslandSize, "bodies per island")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().BoolVar(&poolDebug, "debug-pools", false, "panic on double or foreign pool releases")
}

// resolveConfig layers defaults, preset, config file and explicitly set
// flags, in that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		cfg.Scene = args[0]
	}

	if preset != "" {
		p := config.GetPreset(cfg.Scene, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Scene))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if len(args) > 0 {
			loaded.Scene = args[0]
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("bodies") {
		cfg.Bodies = bodies
	}
	if flags.Changed("island-size") {
		cfg.IslandSize = islandSize
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("debug-pools") {
		cfg.Pool.Debug = poolDebug
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Sync()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	w, err := scene.Build(cfg, log)
	if err != nil {
		return err
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s scene...\n", cfg.Scene)
	start := time.Now()
	timeline, err := w.Run(ctx, cfg.Steps, func(s world.Stats) bool {
		if s.Slept > 0 || s.Woke > 0 {
			log.Info("island activity",
				zap.Int("step", s.Step),
				zap.Int("slept", s.Slept),
				zap.Int("woke", s.Woke),
				zap.Int("active_islands", s.ActiveIslands),
			)
		}
		return true
	})
	elapsed := time.Since(start)
	if err != nil && ctx.Err() == nil {
		return err
	}
	if ctx.Err() != nil {
		log.Warn("run interrupted", zap.Int("steps", len(timeline)))
	}

	runID, err := st.Save(storage.RunMetadata{
		Scene:   cfg.Scene,
		Preset:  preset,
		Seed:    cfg.Seed,
		Dt:      cfg.Dt,
		Steps:   len(timeline),
		Workers: cfg.Workers,
		Bodies:  cfg.Bodies,
		Elapsed: elapsed,
	}, timeline)
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", len(timeline))
	fmt.Println("\nsummary:")
	printSummary(meta.Summary)

	return nil
}

func printSummary(summary map[string]float64) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, key := range []string{
		"all_asleep_time", "final_active_islands", "final_active_bodies",
		"sleep_transitions", "wake_transitions", "peak_handlers",
		"peak_sub_pairs", "pairs_added", "pairs_removed",
	} {
		fmt.Fprintf(w, "  %s\t%g\n", key, summary[key])
	}
	w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	// logs would tear the alternate screen
	if logLevel == "" {
		cfg.Logging.Level = "error"
	}
	log, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Sync()

	w, err := scene.Build(cfg, log)
	if err != nil {
		return err
	}
	defer w.Close()

	title := "rigidsim · " + cfg.Scene
	if preset != "" {
		title += "/" + preset
	}
	return viz.RunLive(viz.NewLive(title, w, cfg.Steps, stepsPerFrame))
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
	fmt.Fprintln(w, "ID\tSCENE\tPRESET\tTIME\tSTEPS\tBODIES\tASLEEP AT")

	for _, run := range runs {
		asleep := "-"
		if t := run.Summary["all_asleep_time"]; t >= 0 {
			asleep = fmt.Sprintf("%.2fs", t)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			run.ID,
			run.Scene,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Bodies,
			asleep,
		)
	}

	return w.Flush()
}

func seriesValues(timeline []world.Stats, name string) ([]float64, error) {
	pick := map[string]func(world.Stats) int{
		"bodies":         func(s world.Stats) int { return s.Bodies },
		"active_bodies":  func(s world.Stats) int { return s.ActiveBodies },
		"islands":        func(s world.Stats) int { return s.Islands },
		"active_islands": func(s world.Stats) int { return s.ActiveIslands },
		"handlers":       func(s world.Stats) int { return s.Handlers },
		"sub_pairs":      func(s world.Stats) int { return s.SubPairs },
		"pairs_added":    func(s world.Stats) int { return s.PairsAdded },
		"pairs_removed":  func(s world.Stats) int { return s.PairsRemoved },
	}
	fn, ok := pick[name]
	if !ok {
		return nil, fmt.Errorf("unknown series %q", name)
	}
	data := make([]float64, len(timeline))
	for i, s := range timeline {
		data[i] = float64(fn(s))
	}
	return data, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	timeline, err := st.LoadTimeline(runID)
	if err != nil {
		return err
	}

	if len(timeline) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("steps: %d\n\n", len(timeline))

	for _, name := range series {
		data, err := seriesValues(timeline, strings.TrimSpace(name))
		if err != nil {
			return err
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(strings.ReplaceAll(name, "_", " ")+" vs step"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	timeline, err := st.LoadTimeline(runID)
	if err != nil {
		return err
	}

	if outPath != "" {
		if err := storage.ExportJSON(outPath, *meta, timeline); err != nil {
			return err
		}
		fmt.Printf("exported %s to %s\n", runID, outPath)
		return nil
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(storage.ExportData{Run: *meta, Timeline: timeline})
}

func listPresets(cmd *cobra.Command, args []string) error {
	scenes := scene.Names()
	if len(args) > 0 {
		scenes = args
	}
	for _, name := range scenes {
		presets := config.ListPresets(name)
		if len(presets) == 0 {
			fmt.Printf("no presets for scene: %s\n", name)
			continue
		}
		fmt.Printf("presets for %s:\n", name)
		for _, p := range presets {
			cfg := config.GetPreset(name, p)
			fmt.Printf("  %-12s bodies=%d island_size=%d steps=%d events=%d\n",
				p, cfg.Bodies, cfg.IslandSize, cfg.Steps, len(cfg.Events))
		}
	}
	return nil
}

func benchScene(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	base.Logging.Level = "error"
	log, err := logging.New(base.Logging)
	if err != nil {
		return err
	}
	defer log.Sync()

	bodyCounts := []int{base.Bodies, base.Bodies * 4, base.Bodies * 16}
	workerCounts := []int{1, 2, 4, 8}

	fmt.Printf("benchmarking %s (%d steps)\n\n", base.Scene, base.Steps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tWORKERS\tTIME\tSTEPS/SEC\tPEAK PAIRS\tASLEEP AT")

	for _, n := range bodyCounts {
		for _, k := range workerCounts {
			cfg := *base
			cfg.Bodies = n
			cfg.Workers = k

			wld, err := scene.Build(&cfg, log)
			if err != nil {
				return err
			}
			start := time.Now()
			timeline, err := wld.Run(context.Background(), cfg.Steps, nil)
			elapsed := time.Since(start)
			wld.Close()
			if err != nil {
				return err
			}

			summary := storage.Summarize(timeline)
			asleep := "-"
			if t := summary["all_asleep_time"]; t >= 0 {
				asleep = fmt.Sprintf("%.2fs", t)
			}
			fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\t%g\t%s\n",
				n, k, elapsed.Round(time.Microsecond), float64(len(timeline))/elapsed.Seconds(),
				summary["peak_sub_pairs"], asleep)
		}
	}

	return w.Flush()
}
