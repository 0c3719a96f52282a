package histobench

import (
	"math"
	"math/rand"
	"time"
)

// JobSpec describes the shape and baseline of a benchmark job.
type JobSpec struct {
	// N is the number of samples.
	N int `json:"n"`
	// B is the number of buckets.
	B int `json:"b"`
	// OrigMsec is the baseline elapsed time in milliseconds.
	OrigMsec float64 `json:"origMsec"`
}

// Predefined jobs.
var (
	Job1 = JobSpec{N: 100000000, B: 8, OrigMsec: 200}
	Job2 = JobSpec{N: 25000000, B: 16000000, OrigMsec: 400}
)

// DefaultJobs returns the predefined jobs.
func DefaultJobs() []JobSpec {
	return []JobSpec{Job1, Job2}
}

// Generate creates n non-negative 31-bit samples.
func Generate(rng *rand.Rand, n int) []int32 {
	samples := make([]int32, n)
	for i := range samples {
		samples[i] = rng.Int31()
	}
	return samples
}

// Performance tracks the best elapsed time of a job against its baseline.
type Performance struct {
	OrigMsec float64 `json:"origMsec"`
	BestMsec float64 `json:"bestMsec"`
}

// NewPerformance creates Performance with no completed run.
func NewPerformance(origMsec float64) Performance {
	return Performance{OrigMsec: origMsec, BestMsec: math.Inf(1)}
}

// Update records a run of n samples that took elapsed time.
// It returns the time in milliseconds, cycles per element at ghz, and the speedup of this run.
func (p *Performance) Update(elapsed time.Duration, n int, ghz float64) (msec, cpe, speedup float64) {
	msec = float64(elapsed) / float64(time.Millisecond)
	p.BestMsec = math.Min(p.BestMsec, msec)
	if n > 0 {
		cpe = float64(elapsed.Nanoseconds()) * ghz / float64(n)
	}
	return msec, cpe, p.OrigMsec / msec
}

// Speedup returns the speedup of the best run, or zero if no run has completed.
func (p Performance) Speedup() float64 {
	if math.IsInf(p.BestMsec, 1) {
		return 0
	}
	return p.OrigMsec / p.BestMsec
}
