// Package histobench benchmarks the parallel histogram engine against a sequential reference.
package histobench

import (
	"io"
	"math/rand"
	"time"

	"github.com/usnistgov/parhisto/app/histo"
	"github.com/usnistgov/parhisto/app/histo/historef"
	"github.com/usnistgov/parhisto/container/histogram"
	"github.com/usnistgov/parhisto/core/events"
	"github.com/usnistgov/parhisto/core/logging"
	"github.com/usnistgov/parhisto/core/runningstat"
	"go.uber.org/zap"
)

var logger = logging.New("histobench")

// EventTrial is emitted after each job run, with a Row argument.
const EventTrial = "trial"

// Row is the outcome of one job run in one trial.
type Row struct {
	Trial  int           `json:"trial"`
	Job    int           `json:"job"`
	N      int           `json:"n"`
	B      int           `json:"b"`
	Result histo.Result  `json:"result"`
	Time   time.Duration `json:"time"`

	Msec    float64 `json:"msec"`
	CPE     float64 `json:"cpe"`
	Speedup float64 `json:"speedup"`

	// Broken indicates the run failed or produced an incorrect histogram.
	Broken bool `json:"broken"`
	// Err describes why the run is broken.
	Err error `json:"-"`
}

// Runner runs benchmark trials.
type Runner struct {
	cfg     Config
	sel     Selection
	eng     *histo.Engine
	rng     *rand.Rand
	emitter *events.Emitter

	perf   []Performance
	stats  []runningstat.RunningStat
	failed int
	trials int
}

// NewRunner validates the configuration and creates a Runner.
func NewRunner(cfg Config) (r *Runner, e error) {
	if e = cfg.Validate(); e != nil {
		return nil, e
	}

	r = &Runner{
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(*cfg.Seed)),
		emitter: events.NewEmitter(),
		stats:   make([]runningstat.RunningStat, len(cfg.Jobs)),
	}
	r.sel, _ = ParseInput(cfg.Input)
	for _, job := range cfg.Jobs {
		r.perf = append(r.perf, NewPerformance(job.OrigMsec))
	}

	if r.eng, e = histo.New(cfg.Config); e != nil {
		return nil, e
	}
	return r, nil
}

// Config returns the effective configuration.
func (r *Runner) Config() Config {
	return r.cfg
}

// Selection returns the job selection.
func (r *Runner) Selection() Selection {
	return r.sel
}

// OnTrial registers a callback after each job run.
// Returns an io.Closer that cancels the callback registration.
func (r *Runner) OnTrial(cb func(row Row)) io.Closer {
	return r.emitter.On(EventTrial, cb)
}

// Close releases resources.
func (r *Runner) Close() error {
	return r.eng.Close()
}

// Run executes all trials.
func (r *Runner) Run() {
	for t := 0; t < r.cfg.Trials; t++ {
		r.RunTrial()
	}
}

// RunTrial executes every selected job once.
func (r *Runner) RunTrial() {
	r.trials++
	for _, i := range r.sel.Indices(len(r.cfg.Jobs)) {
		row := r.runJob(i)
		if row.Broken {
			r.failed++
		}
		r.emitter.Emit(EventTrial, row)
	}
}

func (r *Runner) runJob(i int) (row Row) {
	spec := r.cfg.Jobs[i]
	row.Trial, row.Job, row.N, row.B = r.trials, i+1, spec.N, spec.B

	job := histo.Job{
		Samples:   Generate(r.rng, spec.N),
		Histogram: histogram.New(spec.B),
	}
	var want histogram.Histogram
	if !r.cfg.NoCheck {
		want = historef.Build(job.Samples, spec.B)
	}

	t0 := time.Now()
	row.Result, row.Err = r.eng.RunJob(job)
	row.Time = time.Since(t0)
	if row.Err == nil && want != nil {
		row.Err = historef.Check(job.Histogram, want)
	}

	if row.Err != nil {
		row.Broken = true
		logger.Error("job broken", zap.Int("trial", row.Trial), zap.Int("job", row.Job), zap.Error(row.Err))
		return row
	}

	row.Msec, row.CPE, row.Speedup = r.perf[i].Update(row.Time, spec.N, r.cfg.GHz)
	r.stats[i].Push(row.Msec)
	logger.Debug("job finished",
		zap.Int("trial", row.Trial),
		zap.Int("job", row.Job),
		zap.Stringer("policy", row.Result.Policy),
		zap.Duration("time", row.Time),
	)
	return row
}

// Failed returns the number of broken job runs.
func (r *Runner) Failed() int {
	return r.failed
}

// Summary summarizes completed trials.
func (r *Runner) Summary() (s Summary) {
	s.Selection, s.Failed, s.Trials = r.sel, r.failed, r.trials
	for _, i := range r.sel.Indices(len(r.cfg.Jobs)) {
		spec := r.cfg.Jobs[i]
		s.Jobs = append(s.Jobs, JobSummary{
			Job:         i + 1,
			N:           spec.N,
			B:           spec.B,
			Performance: r.perf[i],
			Time:        r.stats[i].Read(),
		})
	}
	s.compute()
	return s
}
