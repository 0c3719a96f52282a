// Command parhisto-bench benchmarks the parallel histogram engine.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/kballard/go-shellquote"
	"github.com/urfave/cli/v2"
	"github.com/usnistgov/parhisto/app/histo"
	"github.com/usnistgov/parhisto/app/histobench"
	"github.com/usnistgov/parhisto/container/histogram"
	"github.com/usnistgov/parhisto/core/logging"
	"github.com/usnistgov/parhisto/core/version"
	"github.com/usnistgov/parhisto/core/yamlflag"
	"go.uber.org/zap"
)

var logger = logging.New("main")

func newApp() *cli.App {
	var cfg histobench.Config
	return &cli.App{
		Name:    "parhisto-bench",
		Version: version.V.String(),
		Usage:   "Benchmark the parallel histogram engine.",
		Flags: []cli.Flag{
			&cli.GenericFlag{
				Name:  "config",
				Usage: "benchmark configuration as inline YAML or @`FILE`",
				Value: yamlflag.New(&cfg),
			},
			&cli.StringFlag{
				Name:        "input",
				Aliases:     []string{"i"},
				Usage:       "job selection: a (all), g (grading), or job `NUMBER`",
				DefaultText: "a",
			},
			&cli.IntFlag{
				Name:        "trials",
				Aliases:     []string{"t"},
				Usage:       "number of trials",
				DefaultText: "1",
			},
			&cli.IntFlag{
				Name:        "workers",
				Usage:       "number of worker threads",
				DefaultText: strconv.Itoa(histo.DefaultWorkers),
			},
			&cli.StringFlag{
				Name:        "policy",
				Usage:       "output policy: auto, local, shared, or partial",
				DefaultText: "auto",
			},
			&cli.StringFlag{
				Name:        "granularity",
				Usage:       "shared policy synchronization: atomic, bucket, or range",
				DefaultText: "atomic",
			},
			&cli.IntFlag{
				Name:  "stripes",
				Usage: "lock stripes of range granularity",
			},
			&cli.IntFlag{
				Name:  "partials",
				Usage: "partial histograms of partial policy",
			},
			&cli.BoolFlag{
				Name:  "pin",
				Usage: "pin workers to CPU cores",
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "random seed of sample generation",
			},
			&cli.BoolFlag{
				Name:  "no-check",
				Usage: "skip comparison against reference histogram",
			},
			&cli.StringFlag{
				Name:    "log",
				Usage:   "log level `LETTER` (V, D, I, W, E, F)",
				EnvVars: []string{logging.EnvDefault},
			},
		},
		Before: func(c *cli.Context) error {
			if c.IsSet("log") {
				logging.SetAllLevels(c.String("log"))
			}
			return nil
		},
		Action: func(c *cli.Context) error {
			if e := applyFlags(c, &cfg); e != nil {
				return cli.Exit(e, 2)
			}
			return run(c, cfg)
		},
	}
}

func applyFlags(c *cli.Context, cfg *histobench.Config) (e error) {
	if c.IsSet("input") {
		cfg.Input = c.String("input")
	}
	if c.IsSet("trials") {
		cfg.Trials = c.Int("trials")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("policy") {
		if cfg.Policy, e = histo.ParsePolicy(c.String("policy")); e != nil {
			return e
		}
	}
	if c.IsSet("granularity") {
		if cfg.Granularity, e = histogram.ParseLockGranularity(c.String("granularity")); e != nil {
			return e
		}
	}
	if c.IsSet("stripes") {
		cfg.Stripes = c.Int("stripes")
	}
	if c.IsSet("partials") {
		cfg.Partials = c.Int("partials")
	}
	if c.IsSet("pin") {
		cfg.Pin = c.Bool("pin")
	}
	if c.IsSet("seed") {
		seed := c.Int64("seed")
		cfg.Seed = &seed
	}
	if c.IsSet("no-check") {
		cfg.NoCheck = c.Bool("no-check")
	}
	return nil
}

// reproduceArgs returns command line arguments that repeat a benchmark with the same settings.
func reproduceArgs(cfg histobench.Config) []string {
	args := []string{
		os.Args[0],
		"--input", cfg.Input,
		"--trials", strconv.Itoa(cfg.Trials),
		"--workers", strconv.Itoa(cfg.Workers),
		"--policy", cfg.Policy.String(),
		"--granularity", cfg.Granularity.String(),
		"--seed", strconv.FormatInt(*cfg.Seed, 10),
	}
	if cfg.Stripes > 0 {
		args = append(args, "--stripes", strconv.Itoa(cfg.Stripes))
	}
	if cfg.Partials > 0 {
		args = append(args, "--partials", strconv.Itoa(cfg.Partials))
	}
	if cfg.Pin {
		args = append(args, "--pin")
	}
	if cfg.NoCheck {
		args = append(args, "--no-check")
	}
	return args
}

func run(c *cli.Context, cfg histobench.Config) error {
	hostname, e := os.Hostname()
	if e != nil {
		return cli.Exit(fmt.Errorf("gethostname: %w", e), 1)
	}

	r, e := histobench.NewRunner(cfg)
	if e != nil {
		return cli.Exit(e, 2)
	}
	defer r.Close()
	cfg = r.Config()

	logger.Info("benchmark starting",
		zap.String("hostname", hostname),
		zap.Stringer("version", version.V),
		zap.Stringer("input", r.Selection()),
		zap.Int("trials", cfg.Trials),
		zap.Int64("seed", *cfg.Seed),
	)

	w := c.App.Writer
	if cfg.ExpectedHost != "" && hostname != cfg.ExpectedHost && !r.Selection().Grading {
		fmt.Fprintf(w, "Warning: the baselines may not be meaningful on machines other than %s\n", cfg.ExpectedHost)
	}
	fmt.Fprintln(w, "reproduce:", shellquote.Join(reproduceArgs(cfg)...))
	fmt.Fprintln(w)

	report := histobench.NewReport(w)
	r.OnTrial(func(row histobench.Row) {
		report.Add(row)
		fmt.Fprintf(c.App.ErrWriter, "trial %d job %d: %.1f ms\n", row.Trial, row.Job, row.Msec)
	})
	r.Run()

	report.Render()
	histobench.WriteSummary(w, r.Summary())
	return nil
}

func main() {
	if e := newApp().Run(os.Args); e != nil {
		logger.Fatal("parhisto-bench failed", zap.Error(e))
	}
}
