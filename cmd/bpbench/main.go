package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"bpbench/internal/bench"
	"bpbench/internal/bpp"
	"bpbench/internal/config"
	"bpbench/internal/logging"
	"bpbench/internal/packing"
	"bpbench/internal/tabu"
)

// runFlags are the per-command flags shared by the batch commands. Sentinel
// defaults (-1) mark flags the user did not supply, so configuration
// precedence stays CLI > YAML > env > defaults.
type runFlags struct {
	runs       *int
	seed0      *int64
	skip       *int
	take       *int
	timeLimitS *float64
	workers    *int
	progress   *bool
}

func addRunFlags(cmd *kingpin.CmdClause, withSkipTake bool) *runFlags {
	f := &runFlags{
		runs:       cmd.Flag("runs", "Repetitions per instance").Default("-1").Int(),
		seed0:      cmd.Flag("seed0", "Base seed; repetition r uses seed0+r").Default("-1").Int64(),
		timeLimitS: cmd.Flag("time-limit-s", "Per-run time budget in seconds (0 disables)").Default("-1").Float64(),
		workers:    cmd.Flag("workers", "Parallel repetitions per instance").Default("-1").Int(),
		progress:   cmd.Flag("progress", "Log per-run progress").Bool(),
	}
	if withSkipTake {
		f.skip = cmd.Flag("skip", "Skip the first N instances").Default("0").Int()
		f.take = cmd.Flag("take", "Process at most N instances (0 = all)").Default("0").Int()
	}
	return f
}

func (f *runFlags) overrides(configFile string) *config.CLIOverrides {
	overrides := &config.CLIOverrides{ConfigFile: configFile}
	if *f.runs >= 0 {
		overrides.Runs = f.runs
	}
	if *f.seed0 >= 0 {
		overrides.Seed0 = f.seed0
	}
	if *f.timeLimitS >= 0 {
		overrides.TimeLimitS = f.timeLimitS
	}
	if *f.workers >= 0 {
		overrides.Workers = f.workers
	}
	return overrides
}

func main() {
	app := kingpin.New("bpbench", "1-D bin-packing benchmark harness driven by tabu search")
	configFile := app.Flag("config", "Path to YAML configuration file").String()
	verbose := app.Flag("verbose", "Enable debug logging").Short('v').Bool()

	runExample := app.Command("run-example", "Solve the bundled reference instance once and print the packing")

	traceExample := app.Command("trace-example", "Narrate the search on the reference instance step by step")
	traceIters := traceExample.Flag("iters", "Iteration budget").Default("30").Int()
	traceSamples := traceExample.Flag("samples", "Neighborhood samples per iteration").Default("25").Int()
	traceTenure := traceExample.Flag("tenure", "Tabu tenure").Default("10").Int()
	traceSeed := traceExample.Flag("seed", "Random seed").Default("0").Int64()
	traceShowPackings := traceExample.Flag("show-packings", "Print the packing after every move").Bool()
	traceNoCandidates := traceExample.Flag("no-candidates", "Suppress per-sample candidate lines").Bool()

	runBatch := app.Command("run-batch", "Solve the fixed batch instance set and print the summary table")
	batchFlags := addRunFlags(runBatch, false)

	runFile := app.Command("run-file", "Solve every instance in a dataset file")
	runFileArg := runFile.Arg("file", "Dataset file").Required().String()
	fileFlags := addRunFlags(runFile, true)

	runDir := app.Command("run-dir", "Solve every parseable instance file in a directory")
	runDirArg := runDir.Arg("dir", "Dataset directory").Required().String()
	dirFlags := addRunFlags(runDir, true)

	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	logger, err := logging.New(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx := context.Background()

	switch cmd {
	case runExample.FullCommand():
		runExampleCmd(logger)
	case traceExample.FullCommand():
		traceExampleCmd(ctx, logger, *traceIters, *traceSamples, *traceTenure, *traceSeed, *traceShowPackings, !*traceNoCandidates)
	case runBatch.FullCommand():
		cfg := loadConfig(logger, batchFlags.overrides(*configFile))
		runInstances(ctx, logger, cfg, bpp.DefaultBatchInstances(), *batchFlags.progress)
	case runFile.FullCommand():
		cfg := loadConfig(logger, fileFlags.overrides(*configFile))
		instances, err := bpp.ParseFile(*runFileArg)
		if err != nil {
			logger.Fatal("failed to parse dataset file", zap.Error(err))
		}
		instances = skipTake(instances, *fileFlags.skip, *fileFlags.take)
		runInstances(ctx, logger, cfg, instances, *fileFlags.progress)
	case runDir.FullCommand():
		cfg := loadConfig(logger, dirFlags.overrides(*configFile))
		instances, fileErrs, err := bpp.ParseDir(*runDirArg)
		if err != nil {
			logger.Fatal("failed to read dataset directory", zap.Error(err))
		}
		for _, ferr := range fileErrs {
			logger.Warn("skipping unparseable file", zap.Error(ferr))
		}
		if len(instances) == 0 {
			logger.Fatal("no parseable instances found", zap.String("dir", *runDirArg))
		}
		instances = skipTake(instances, *dirFlags.skip, *dirFlags.take)
		runInstances(ctx, logger, cfg, instances, *dirFlags.progress)
	}
}

func loadConfig(logger *zap.Logger, overrides *config.CLIOverrides) config.Config {
	cfg, err := config.Load(overrides)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}
	return cfg
}

func skipTake(instances []*bpp.Instance, skip, take int) []*bpp.Instance {
	if skip > len(instances) {
		skip = len(instances)
	}
	instances = instances[skip:]
	if take > 0 && take < len(instances) {
		instances = instances[:take]
	}
	return instances
}

func runInstances(ctx context.Context, logger *zap.Logger, cfg config.Config, instances []*bpp.Instance, progress bool) {
	runner := &bench.Runner{
		Runs:     cfg.Runs,
		Seed0:    cfg.Seed0,
		Workers:  cfg.Workers,
		Params:   cfg.Params(),
		Logger:   logger,
		Progress: progress,
	}

	rows := make([]bench.Summary, 0, len(instances))
	for _, inst := range instances {
		if progress {
			logger.Info("solving instance",
				zap.String("instance", inst.Name),
				zap.Int("capacity", inst.Capacity),
				zap.Int("items", inst.Items()),
				zap.Int("runs", cfg.Runs),
			)
		}
		rows = append(rows, bench.Summarize(inst, runner.RunInstance(ctx, inst)))
	}
	fmt.Print(bench.FormatTable(rows))
}

// exampleParams is the fixed budget for the reference instance commands.
func exampleParams() tabu.Params {
	return tabu.Params{
		MaxIters:            2000,
		NeighborhoodSamples: 150,
		Tenure:              20,
		StagnationLimit:     400,
	}
}

func runExampleCmd(logger *zap.Logger) {
	inst := bpp.ExampleInstance()

	solver, err := tabu.New(exampleParams(), rand.New(rand.NewSource(0)))
	if err != nil {
		logger.Fatal("failed to build solver", zap.Error(err))
	}
	res, err := solver.Solve(context.Background(), inst)
	if err != nil {
		logger.Fatal("solve failed", zap.Error(err))
	}

	fmt.Printf("Instance: %s (capacity=%d, n=%d)\n", inst.Name, inst.Capacity, inst.Items())
	if exact, ok := packing.ExactBinsIfSmall(inst, 30); ok {
		fmt.Printf("Exact optimum (small-instance check): %d bins\n", exact)
	}
	fmt.Printf("Best found: %d bins (unused=%d)  iters=%d  time(s)=%.4f\n",
		res.Bins, res.Unused, res.Iters, res.Elapsed.Seconds())

	if err := packing.Validate(inst, res.Packing); err != nil {
		logger.Fatal("produced invalid packing", zap.Error(err))
	}

	fmt.Println("Bins (item:size):")
	for idx, bin := range res.Packing.Bins {
		items := make([]string, len(bin))
		for i, item := range bin {
			items[i] = fmt.Sprintf("%d:%d", item+1, inst.Sizes[item])
		}
		fmt.Printf("  bin#%02d load=%3d [%s]\n", idx+1, res.Packing.Loads[idx], strings.Join(items, ", "))
	}
}

func traceExampleCmd(ctx context.Context, logger *zap.Logger, iters, samples, tenure int, seed int64, showPackings, showCandidates bool) {
	params := tabu.Params{
		MaxIters:            iters,
		NeighborhoodSamples: samples,
		Tenure:              tenure,
		StagnationLimit:     10000,
	}
	solver, err := tabu.New(params, rand.New(rand.NewSource(seed)))
	if err != nil {
		logger.Fatal("failed to build solver", zap.Error(err))
	}

	cfg := tabu.TraceConfig{ShowCandidates: showCandidates, ShowPackings: showPackings}
	if _, err := solver.Trace(ctx, bpp.ExampleInstance(), cfg, os.Stdout); err != nil {
		logger.Fatal("trace failed", zap.Error(err))
	}
}
