// Package histo implements the parallel histogram engine.
package histo

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/usnistgov/parhisto/container/histogram"
	"github.com/usnistgov/parhisto/core/lcore"
	"github.com/usnistgov/parhisto/core/logging"
	"go.uber.org/zap"
)

var logger = logging.New("histo")

// Errors.
var (
	ErrMemoryLimit = errors.New("histograms exceed memory limit")
	ErrBuckets     = errors.New("bucket count must be positive")
	ErrSamples     = errors.New("too many samples")
)

// Result contains information about a completed job.
type Result struct {
	// Policy is the effective policy, never PolicyAuto.
	Policy Policy `json:"policy"`

	// Granularity is the synchronization mechanism, only relevant to PolicyShared.
	Granularity histogram.LockGranularity `json:"granularity"`

	// Partials is the number of private or partial histograms.
	Partials int `json:"partials"`

	// Count is the elapsed time of the counting phase.
	Count time.Duration `json:"count"`

	// Merge is the elapsed time of the merge phase.
	Merge time.Duration `json:"merge"`
}

// Elapsed returns the total elapsed time.
func (res Result) Elapsed() time.Duration {
	return res.Count + res.Merge
}

// Engine computes histograms with a fixed group of workers.
type Engine struct {
	mu    sync.Mutex
	cfg   Config
	group *lcore.Group
}

// New creates an Engine and allocates lcores to its workers.
func New(cfg Config) (eng *Engine, e error) {
	if e = cfg.Validate(); e != nil {
		return nil, e
	}

	eng = &Engine{cfg: cfg}
	if eng.group, e = lcore.NewGroup(lcore.GroupConfig{
		Workers:   cfg.Workers,
		Role:      RoleCount,
		Pin:       cfg.Pin,
		Allocator: cfg.Allocator,
	}); e != nil {
		return nil, e
	}

	logger.Info("engine ready",
		zap.Int("workers", cfg.Workers),
		zap.Stringer("policy", cfg.Policy),
		zap.Stringer("granularity", cfg.Granularity),
		zap.Stringer("cache-budget", cfg.CacheBudget),
		zap.Ints("lcores", eng.group.LCores().IDs()),
		zap.Bool("pin", cfg.Pin),
		zap.Int("numa-sockets", cfg.HwInfo.Cores().MaxNumaSocket()+1),
	)
	return eng, nil
}

// Config returns the effective configuration.
func (eng *Engine) Config() Config {
	return eng.cfg
}

// Workers returns the number of workers W.
func (eng *Engine) Workers() int {
	return eng.group.Len()
}

// Close releases lcores.
func (eng *Engine) Close() error {
	return eng.group.Close()
}

// Run computes the histogram of samples in nBuckets buckets.
func (eng *Engine) Run(samples []int32, nBuckets int) (histogram.Histogram, error) {
	if nBuckets < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrBuckets, nBuckets)
	}

	h := histogram.New(nBuckets)
	if _, e := eng.RunJob(Job{Samples: samples, Histogram: h}); e != nil {
		return nil, e
	}
	return h, nil
}

// RunJob computes the histogram of job.Samples into job.Histogram.
// job.Histogram is zeroed before counting.
// Concurrent calls are serialized.
func (eng *Engine) RunJob(job Job) (res Result, e error) {
	eng.mu.Lock()
	defer eng.mu.Unlock()

	if e = checkJob(job); e != nil {
		return res, e
	}
	if res, e = eng.plan(job); e != nil {
		logger.Error("job rejected", zap.Int("n", job.N()), zap.Int("b", job.B()), zap.Error(e))
		return res, e
	}

	job.Histogram.Reset()
	descs := Describe(job, eng.group.Len())
	switch res.Policy {
	case PolicyLocal, PolicyPartial:
		privates := histogram.NewPadded(res.Partials, job.B())

		local := res.Policy == PolicyLocal
		e = eng.group.Run(func(id int) error {
			d := descs[id]
			if ce := logger.Check(zap.DebugLevel, "worker dispatched"); ce != nil {
				ce.Write(d.ZapField("desc"))
			}
			if local {
				CountLocal(d, privates[id])
			} else {
				CountShared(d, histogram.AtomicCounters(privates[id%len(privates)]))
			}
			return nil
		})
		res.Count = eng.group.Elapsed()
		if e != nil {
			return res, e
		}

		e = Merge(job.Histogram, privates, eng.group)
		res.Merge = eng.group.Elapsed()

	case PolicyShared:
		c := histogram.NewCounters(res.Granularity, job.Histogram, eng.cfg.Stripes)
		e = eng.group.Run(func(id int) error {
			if ce := logger.Check(zap.DebugLevel, "worker dispatched"); ce != nil {
				ce.Write(descs[id].ZapField("desc"))
			}
			CountShared(descs[id], c)
			return nil
		})
		res.Count = eng.group.Elapsed()
	}

	logger.Debug("job completed",
		zap.Int("n", job.N()),
		zap.Int("b", job.B()),
		zap.Stringer("policy", res.Policy),
		zap.Int("partials", res.Partials),
		zap.Duration("count", res.Count),
		zap.Duration("merge", res.Merge),
		zap.Error(e),
	)
	return res, e
}

func checkJob(job Job) error {
	if job.B() < 1 {
		return fmt.Errorf("%w, got %d", ErrBuckets, job.B())
	}
	if uint64(job.N()) > math.MaxUint32 {
		return fmt.Errorf("%w, got %d", ErrSamples, job.N())
	}
	return nil
}

func (eng *Engine) plan(job Job) (res Result, e error) {
	n, b, w := job.N(), job.B(), eng.group.Len()
	res.Policy = eng.cfg.Policy
	auto := res.Policy == PolicyAuto
	if auto {
		res.Policy = ChoosePolicy(n, b, w, eng.cfg.CacheBudget)
	}

	switch res.Policy {
	case PolicyLocal:
		res.Partials = w
	case PolicyPartial:
		if res.Partials = eng.cfg.Partials; res.Partials == 0 {
			res.Partials = PartialCount(b, w, eng.cfg.CacheBudget)
		}
	case PolicyShared:
		res.Granularity = eng.cfg.Granularity
	}

	if need := HistogramBytes(res.Partials, b); need > eng.cfg.MemoryLimit {
		if !auto {
			return res, fmt.Errorf("%s policy needs %s over %s: %w", res.Policy, need, eng.cfg.MemoryLimit, ErrMemoryLimit)
		}
		res = Result{Policy: PolicyShared, Granularity: eng.cfg.Granularity}
	}
	return res, nil
}
