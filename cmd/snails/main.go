package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/Pandicon/snails-of-pursuit/internal/config"
	"github.com/Pandicon/snails-of-pursuit/internal/export"
	"github.com/Pandicon/snails-of-pursuit/internal/logging"
	"github.com/Pandicon/snails-of-pursuit/internal/metrics"
	"github.com/Pandicon/snails-of-pursuit/internal/pursuit"
	"github.com/Pandicon/snails-of-pursuit/internal/session"
	"github.com/Pandicon/snails-of-pursuit/internal/sweep"
	"github.com/Pandicon/snails-of-pursuit/internal/viz"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r2"
)

const plotWidth = 80

var (
	configFile    string
	preset        string
	bodies        int
	radius        float64
	speed         float64
	dt            float64
	stepsPerFrame int
	maxSteps      int
	mode          string
	logLevel      string

	format     string
	outputPath string

	sweepFrom int
	sweepTo   int
	workers   int
)

// main registers the commands and runs the live view when no subcommand is
// given. It exits with status 1 if the command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:          "snails",
		Short:        "cyclic pursuit simulator",
		SilenceUsage: true,
		RunE:         runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.IntVar(&bodies, "bodies", pursuit.DefaultBodyCount, "number of bodies")
	pf.Float64Var(&radius, "radius", pursuit.DefaultRadius, "starting circle radius")
	pf.Float64Var(&speed, "speed", pursuit.DefaultSpeed, "body speed")
	pf.Float64Var(&dt, "dt", pursuit.DefaultTimestep, "timestep")
	pf.IntVar(&stepsPerFrame, "steps-per-frame", config.DefaultStepsPerFrame, "steps per animation frame")
	pf.IntVar(&maxSteps, "max-steps", config.DefaultMaxSteps, "step budget for batch runs")
	pf.StringVar(&mode, "mode", config.DefaultMode, "iterative or closed_form")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "debug, info, warn or error")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "animate the pursuit in the terminal",
		RunE:  runLive,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "step until the bodies meet and print metrics",
		RunE:  runIterative,
	}

	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "compute the closed-form spiral",
		RunE:  runSolve,
	}

	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "plot the radius of body 0 over time for both modes",
		RunE:  runPlot,
	}

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "compare iterative and closed-form trajectories",
		RunE:  runCompare,
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "write trajectories as csv, json or svg",
		RunE:  runExport,
	}
	exportCmd.Flags().StringVar(&format, "format", string(export.CSV), "csv, json or svg")
	exportCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run every body count in a range concurrently",
		RunE:  runSweep,
	}
	sweepCmd.Flags().IntVar(&sweepFrom, "from", 2, "smallest body count")
	sweepCmd.Flags().IntVar(&sweepTo, "to", 8, "largest body count")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (default: number of CPUs)")

	rootCmd.AddCommand(liveCmd, runCmd, solveCmd, plotCmd, compareCmd, exportCmd, presetsCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig layers defaults, preset, config file and flags, in that
// order of increasing precedence.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		if err := cfg.Overlay(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("bodies") {
		cfg.Bodies = bodies
	}
	if flags.Changed("radius") {
		cfg.Radius = radius
	}
	if flags.Changed("speed") {
		cfg.Speed = speed
	}
	if flags.Changed("dt") {
		cfg.Timestep = dt
	}
	if flags.Changed("steps-per-frame") {
		cfg.StepsPerFrame = stepsPerFrame
	}
	if flags.Changed("max-steps") {
		cfg.MaxSteps = maxSteps
	}
	if flags.Changed("mode") {
		cfg.Mode = mode
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = config.DefaultMaxSteps
	}
	return cfg, nil
}

func setup(cmd *cobra.Command) (*config.Config, *log.Logger, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func newSession(cfg *config.Config, m session.Mode, logger *log.Logger) (*session.Session, error) {
	opts, err := cfg.SessionOptions()
	if err != nil {
		return nil, err
	}
	opts = append(opts, session.WithMode(m), session.WithLogger(logger))
	return session.New(cfg.Pursuit(), opts...)
}

type observerFunc func(s *pursuit.State, t float64)

func (f observerFunc) Observe(s *pursuit.State, t float64) { f(s, t) }

// stepToCompletion runs an iterative session until the bodies meet or the
// step budget runs out. An exhausted budget is logged, not returned.
func stepToCompletion(cfg *config.Config, logger *log.Logger, observers ...session.Observer) (*session.Session, session.Summary, error) {
	sess, err := newSession(cfg, session.Iterative, logger)
	if err != nil {
		return nil, session.Summary{}, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Debug("stepping", "bodies", cfg.Bodies, "radius", cfg.Radius, "speed", cfg.Speed, "dt", cfg.Timestep)
	sum, err := sess.RunToCompletion(ctx, cfg.MaxSteps, observers...)
	if errors.Is(err, session.ErrStepBudget) {
		logger.Warn("step budget exhausted", "max_steps", cfg.MaxSteps)
		err = nil
	}
	return sess, sum, err
}

// solved returns a closed-form session; the spiral is computed by New.
func solved(cfg *config.Config, logger *log.Logger) (*session.Session, error) {
	return newSession(cfg, session.ClosedForm, logger)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := cfg.SessionOptions()
	if err != nil {
		return err
	}
	sess, err := session.New(cfg.Pursuit(), append(opts, session.WithLogger(logging.Discard()))...)
	if err != nil {
		return err
	}
	return viz.Run(sess)
}

func runIterative(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	ms := metrics.Defaults()
	observers := make([]session.Observer, len(ms))
	for i, m := range ms {
		observers[i] = m
	}

	sess, sum, err := stepToCompletion(cfg, logger, observers...)
	if err != nil {
		return err
	}
	pcfg := sess.Config()
	logger.Info("run finished", "outcome", sum.Outcome, "steps", sum.Steps)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "bodies\t%d\n", pcfg.BodyCount)
	fmt.Fprintf(w, "outcome\t%s\n", sum.Outcome)
	fmt.Fprintf(w, "steps\t%d\n", sum.Steps)
	fmt.Fprintf(w, "time\t%.4f\n", sum.Time)
	for _, m := range ms {
		fmt.Fprintf(w, "%s\t%.6f\n", m.Name(), m.Value())
	}
	if p := pursuit.Spiral(pcfg); !math.IsInf(p.CaptureTime, 0) {
		fmt.Fprintf(w, "capture_time (analytic)\t%.6f\n", p.CaptureTime)
		fmt.Fprintf(w, "path_length (analytic)\t%.6f\n", pursuit.PathLength(pcfg))
	}
	return w.Flush()
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	sess, err := solved(cfg, logger)
	if err != nil {
		return err
	}

	pcfg := sess.Config()
	st := sess.State()
	p := pursuit.Spiral(pcfg)
	measured := metrics.NewPathLength(0)
	measured.Observe(st, 0)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "bodies\t%d\n", pcfg.BodyCount)
	fmt.Fprintf(w, "samples\t%d\n", len(st.History[0]))
	fmt.Fprintf(w, "beta\t%.4f deg\n", p.Beta*180/math.Pi)
	fmt.Fprintf(w, "inward_speed\t%.6f\n", p.InwardSpeed)
	fmt.Fprintf(w, "tangential_speed\t%.6f\n", p.TangentialSpeed)
	if math.IsInf(p.CaptureTime, 0) {
		fmt.Fprintf(w, "capture_time\tnever\n")
	} else {
		fmt.Fprintf(w, "capture_time\t%.6f\n", p.CaptureTime)
		fmt.Fprintf(w, "path_length\t%.6f\n", pursuit.PathLength(pcfg))
	}
	fmt.Fprintf(w, "path_length (sampled)\t%.6f\n", measured.Value())
	return w.Flush()
}

func runPlot(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	var stepped []float64
	record := observerFunc(func(s *pursuit.State, t float64) {
		stepped = append(stepped, r2.Norm(s.Positions[0]))
	})
	if _, _, err := stepToCompletion(cfg, logger, record); err != nil {
		return err
	}

	sess, err := solved(cfg, logger)
	if err != nil {
		return err
	}
	spiral := make([]float64, 0, len(sess.State().History[0]))
	for _, p := range sess.State().History[0] {
		spiral = append(spiral, r2.Norm(p))
	}

	graph := asciigraph.PlotMany([][]float64{resample(stepped, plotWidth), resample(spiral, plotWidth)},
		asciigraph.Height(15),
		asciigraph.Width(plotWidth),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Green),
		asciigraph.Caption(fmt.Sprintf("radius of body 0, %d bodies (red: iterative, green: closed form)", sess.Config().BodyCount)),
	)
	fmt.Println(graph)
	return nil
}

// resample picks n evenly spaced values of data, always keeping the first
// and last. Short series are padded so the plot has a line to draw.
func resample(data []float64, n int) []float64 {
	switch {
	case len(data) == 0:
		return []float64{0, 0}
	case len(data) == 1:
		return []float64{data[0], data[0]}
	case len(data) <= n:
		return data
	}
	out := make([]float64, n)
	last := len(data) - 1
	for i := range out {
		out[i] = data[i*last/(n-1)]
	}
	return out
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	stepped, sum, err := stepToCompletion(cfg, logger)
	if err != nil {
		return err
	}
	spiral, err := solved(cfg, logger)
	if err != nil {
		return err
	}

	d := compareHistories(stepped.State(), spiral.State())
	pcfg := stepped.Config()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "bodies\t%d\n", pcfg.BodyCount)
	fmt.Fprintf(w, "iterative samples\t%d (%s)\n", len(stepped.State().History[0]), sum.Outcome)
	fmt.Fprintf(w, "closed-form samples\t%d\n", len(spiral.State().History[0]))
	fmt.Fprintf(w, "compared samples\t%d\n", d.Samples)
	fmt.Fprintf(w, "max deviation\t%.6g\n", d.Max)
	fmt.Fprintf(w, "at body\t%d\n", d.Body)
	fmt.Fprintf(w, "at time\t%.4f\n", float64(d.Sample)*pcfg.Timestep)
	return w.Flush()
}

type deviation struct {
	Max          float64
	Body, Sample int
	Samples      int
}

// compareHistories returns the largest distance between matching samples
// of two states with the same body count.
func compareHistories(a, b *pursuit.State) deviation {
	var d deviation
	for i := range a.History {
		if i >= len(b.History) {
			break
		}
		n := min(len(a.History[i]), len(b.History[i]))
		d.Samples += n
		for k := 0; k < n; k++ {
			if dist := r2.Norm(r2.Sub(a.History[i][k], b.History[i][k])); dist > d.Max {
				d.Max, d.Body, d.Sample = dist, i, k
			}
		}
	}
	return d
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}
	m, err := cfg.SessionMode()
	if err != nil {
		return err
	}

	var sess *session.Session
	if m == session.ClosedForm {
		sess, err = solved(cfg, logger)
	} else {
		sess, _, err = stepToCompletion(cfg, logger)
	}
	if err != nil {
		return err
	}

	meta := export.MetaFor(m.String(), sess.Config())
	meta.Steps = sess.Steps()
	meta.Time = sess.Time()

	var out io.Writer = os.Stdout
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}

	if err := export.Write(out, f, meta, sess.State()); err != nil {
		return err
	}
	if outputPath != "" {
		logger.Info("exported", "format", f, "path", outputPath)
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ens := sweep.NewEnsemble(cfg.Pursuit(), cfg.MaxSteps)
	if workers > 0 {
		ens.WithWorkers(workers)
	}
	logger.Debug("sweeping", "from", sweepFrom, "to", sweepTo)
	results, err := ens.Run(ctx, sweepFrom, sweepTo)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tOUTCOME\tSTEPS\tTIME\tCAPTURE\tERROR\tPATH\tRADIUS")
	for _, r := range results {
		outcome := r.Outcome.String()
		if r.Budget {
			outcome = "budget"
			logger.Warn("step budget exhausted", "bodies", r.Bodies, "max_steps", cfg.MaxSteps)
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%.4f\t%.4f\t%.2e\t%.4f\t%.4f\n",
			r.Bodies, outcome, r.Steps, r.Time, r.CaptureTime, r.TimeError(), r.PathLength, r.MeanRadius)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBODIES\tRADIUS\tSPEED\tDT\tMODE")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%g\t%g\t%g\t%s\n", name, p.Bodies, p.Radius, p.Speed, p.Timestep, p.Mode)
	}
	return w.Flush()
}
