package lcore

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrNoLCore indicates no lcore is available.
var ErrNoLCore = errors.New("no lcore available")

// GroupConfig contains Group configuration.
type GroupConfig struct {
	// Workers is the number of threads in the group.
	// It must be positive.
	Workers int

	// Role is the lcore allocation role.
	// Default is "WORKER".
	Role string

	// Pin determines whether each thread is pinned to its allocated lcore.
	Pin bool

	// Allocator allocates lcores.
	// Default is DefaultAllocator.
	Allocator *Allocator
}

func (cfg *GroupConfig) applyDefaults() {
	if cfg.Role == "" {
		cfg.Role = "WORKER"
	}
	if cfg.Allocator == nil {
		cfg.Allocator = DefaultAllocator
	}
}

// Group is a fixed set of threads that execute one unit of work each, and are joined together.
type Group struct {
	alloc   *Allocator
	threads []*Thread
	lcores  LCores

	mu      sync.Mutex
	elapsed time.Duration
}

// NewGroup creates a Group and allocates lcores to its threads.
func NewGroup(cfg GroupConfig) (g *Group, e error) {
	cfg.applyDefaults()
	if cfg.Workers <= 0 {
		return nil, fmt.Errorf("invalid worker count %d", cfg.Workers)
	}

	g = &Group{alloc: cfg.Allocator}
	if g.lcores = g.alloc.AllocN(cfg.Role, cfg.Workers); g.lcores == nil {
		return nil, ErrNoLCore
	}
	for _, lc := range g.lcores {
		th := NewThread(nil)
		th.SetLCore(lc)
		th.SetPin(cfg.Pin)
		g.threads = append(g.threads, th)
	}
	return g, nil
}

// Len returns the number of threads.
func (g *Group) Len() int {
	return len(g.threads)
}

// LCores returns allocated lcores.
func (g *Group) LCores() LCores {
	return g.lcores
}

// Run starts fn on every thread concurrently, and blocks until every thread has returned.
// fn receives the thread index in [0, Len()).
// Errors from individual threads are combined.
//
// All memory writes performed by fn are visible to the caller after Run returns.
// Run calls on the same Group are serialized.
func (g *Group) Run(fn func(id int) error) (e error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	t0 := time.Now()
	for i, th := range g.threads {
		i := i
		th.main = func() error { return fn(i) }
		th.Launch()
	}

	for i, th := range g.threads {
		if err := th.Wait(); err != nil {
			e = multierr.Append(e, fmt.Errorf("worker %d: %w", i, err))
		}
	}
	g.elapsed = time.Since(t0)

	if e != nil {
		logger.Error("group run failed", zap.Int("workers", len(g.threads)), zap.Error(e))
	}
	return e
}

// Elapsed returns the wall time of the most recent Run, from launching the first thread until
// joining the last thread.
func (g *Group) Elapsed() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.elapsed
}

// Close releases allocated lcores.
func (g *Group) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.lcores != nil {
		g.alloc.FreeN(g.lcores)
		g.lcores = nil
	}
	return nil
}
