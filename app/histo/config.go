package histo

import (
	"fmt"

	"github.com/c2h5oh/datasize"
	"github.com/usnistgov/parhisto/container/histogram"
	"github.com/usnistgov/parhisto/core/hwinfo"
	"github.com/usnistgov/parhisto/core/lcore"
	"go.uber.org/multierr"
)

// Defaults and limits.
const (
	DefaultWorkers     = 8
	DefaultMemoryLimit = datasize.GB

	// RoleCount is the lcore allocation role of counting workers.
	RoleCount = "COUNT"
)

// Config contains Engine configuration.
type Config struct {
	// Workers is the number of worker threads W.
	// Default is DefaultWorkers.
	Workers int `json:"workers,omitempty"`

	// Policy selects the output-side policy.
	// Default is PolicyAuto.
	Policy Policy `json:"policy,omitempty"`

	// Granularity selects the synchronization mechanism of PolicyShared.
	Granularity histogram.LockGranularity `json:"granularity,omitempty"`

	// Stripes is the requested stripe count of histogram.GranularityRange.
	Stripes int `json:"stripes,omitempty"`

	// Partials is the number of partial histograms of PolicyPartial.
	// Default is computed from CacheBudget.
	Partials int `json:"partials,omitempty"`

	// CacheBudget is the memory size that private histograms should fit in.
	// Default is the last-level cache size reported by HwInfo.
	CacheBudget datasize.ByteSize `json:"cacheBudget,omitempty"`

	// MemoryLimit is the maximum memory size of private or partial histograms in one job.
	// Default is DefaultMemoryLimit.
	MemoryLimit datasize.ByteSize `json:"memoryLimit,omitempty"`

	// Pin determines whether workers are pinned to their lcores.
	Pin bool `json:"pin,omitempty"`

	// HwInfo provides cache size.
	// Default is hwinfo.Default.
	HwInfo hwinfo.Provider `json:"-"`

	// Allocator allocates lcores to workers.
	// Default is lcore.DefaultAllocator.
	Allocator *lcore.Allocator `json:"-"`
}

// Validate applies defaults and validates the configuration.
func (cfg *Config) Validate() (e error) {
	if cfg.Workers == 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.HwInfo == nil {
		cfg.HwInfo = hwinfo.Default
	}
	if cfg.CacheBudget == 0 {
		cfg.CacheBudget = cfg.HwInfo.CacheSize()
	}
	if cfg.MemoryLimit == 0 {
		cfg.MemoryLimit = DefaultMemoryLimit
	}
	if cfg.Allocator == nil {
		cfg.Allocator = lcore.DefaultAllocator
	}

	if cfg.Workers < 1 {
		e = multierr.Append(e, fmt.Errorf("invalid worker count %d", cfg.Workers))
	}
	if _, ok := policyNames[cfg.Policy]; !ok {
		e = multierr.Append(e, fmt.Errorf("invalid policy %s", cfg.Policy))
	}
	if _, ok := granularityValid[cfg.Granularity]; !ok {
		e = multierr.Append(e, fmt.Errorf("invalid granularity %s", cfg.Granularity))
	}
	if cfg.Stripes < 0 {
		e = multierr.Append(e, fmt.Errorf("invalid stripe count %d", cfg.Stripes))
	}
	if cfg.Partials < 0 || (cfg.Workers > 1 && cfg.Partials >= cfg.Workers) {
		e = multierr.Append(e, fmt.Errorf("partial count %d must be less than worker count %d", cfg.Partials, cfg.Workers))
	}
	return e
}

var granularityValid = map[histogram.LockGranularity]bool{
	histogram.GranularityAtomic: true,
	histogram.GranularityBucket: true,
	histogram.GranularityRange:  true,
}
