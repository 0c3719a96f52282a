package histogram

import (
	"sync"
	"sync/atomic"
	"unsafe"

	binutils "github.com/jfoster/binary-utilities"
	"github.com/pkg/math"
)

// CacheLineSize is the assumed CPU cache line size.
const CacheLineSize = 64

// Stripe count limits for GranularityRange.
const (
	MinStripes     = 1
	DefaultStripes = 4096
	MaxStripes     = 1 << 20
)

// Counters is a shared histogram that accepts concurrent increments.
// Every Inc is linearizable per bucket.
type Counters interface {
	// Inc increments bucket b.
	Inc(b int)

	// Histogram returns the underlying histogram.
	// It must not be read while increments are in progress.
	Histogram() Histogram

	// Granularity returns the synchronization granularity.
	Granularity() LockGranularity
}

// NewCounters wraps h as Counters with the specified granularity.
// stripes is only relevant to GranularityRange, see AlignStripes.
func NewCounters(g LockGranularity, h Histogram, stripes int) Counters {
	switch g {
	case GranularityBucket:
		return NewBucketLockCounters(h)
	case GranularityRange:
		return NewRangeLockCounters(h, stripes)
	default:
		return AtomicCounters(h)
	}
}

// AtomicCounters increments buckets with atomic add.
type AtomicCounters Histogram

var _ Counters = AtomicCounters(nil)

// Inc implements Counters interface.
func (c AtomicCounters) Inc(b int) {
	atomic.AddUint32(&c[b], 1)
}

// Histogram implements Counters interface.
func (c AtomicCounters) Histogram() Histogram {
	return Histogram(c)
}

// Granularity implements Counters interface.
func (AtomicCounters) Granularity() LockGranularity {
	return GranularityAtomic
}

// BucketLockCounters protects each bucket with a dedicated mutex.
type BucketLockCounters struct {
	h     Histogram
	locks []sync.Mutex
}

var _ Counters = (*BucketLockCounters)(nil)

// NewBucketLockCounters creates BucketLockCounters.
func NewBucketLockCounters(h Histogram) *BucketLockCounters {
	return &BucketLockCounters{
		h:     h,
		locks: make([]sync.Mutex, len(h)),
	}
}

// Inc implements Counters interface.
func (c *BucketLockCounters) Inc(b int) {
	lock := &c.locks[b]
	lock.Lock()
	c.h[b]++
	lock.Unlock()
}

// Histogram implements Counters interface.
func (c *BucketLockCounters) Histogram() Histogram {
	return c.h
}

// Granularity implements Counters interface.
func (*BucketLockCounters) Granularity() LockGranularity {
	return GranularityBucket
}

type paddedMutex struct {
	sync.Mutex
	_ [CacheLineSize - unsafe.Sizeof(sync.Mutex{})]byte
}

// RangeLockCounters divides buckets into stripes of contiguous buckets, each protected by a
// mutex on its own cache line.
type RangeLockCounters struct {
	h     Histogram
	shift uint
	locks []paddedMutex
}

var _ Counters = (*RangeLockCounters)(nil)

// AlignStripes adjusts a requested stripe count for a histogram of nBuckets buckets.
// Non-positive stripes selects DefaultStripes.
// The result is a power of two between MinStripes and MaxStripes, and does not exceed the
// smallest power of two that is not less than nBuckets.
func AlignStripes(stripes, nBuckets int) int {
	if stripes <= 0 {
		stripes = DefaultStripes
	}
	stripes = int(binutils.NextPowerOfTwo(int64(stripes)))
	max := math.MinInt(MaxStripes, int(binutils.NextPowerOfTwo(int64(math.MaxInt(nBuckets, 1)))))
	return math.MinInt(math.MaxInt(MinStripes, stripes), max)
}

// NewRangeLockCounters creates RangeLockCounters.
// stripes is adjusted with AlignStripes.
func NewRangeLockCounters(h Histogram, stripes int) *RangeLockCounters {
	stripes = AlignStripes(stripes, len(h))
	span := int(binutils.NextPowerOfTwo(int64((len(h) + stripes - 1) / stripes)))
	c := &RangeLockCounters{h: h}
	for 1<<c.shift < span {
		c.shift++
	}
	c.locks = make([]paddedMutex, (len(h)+span-1)>>c.shift)
	return c
}

// Stripes returns the number of mutexes.
func (c *RangeLockCounters) Stripes() int {
	return len(c.locks)
}

// StripeOf returns the stripe index of bucket b.
func (c *RangeLockCounters) StripeOf(b int) int {
	return b >> c.shift
}

// Inc implements Counters interface.
func (c *RangeLockCounters) Inc(b int) {
	lock := &c.locks[b>>c.shift]
	lock.Lock()
	c.h[b]++
	lock.Unlock()
}

// Histogram implements Counters interface.
func (c *RangeLockCounters) Histogram() Histogram {
	return c.h
}

// Granularity implements Counters interface.
func (*RangeLockCounters) Granularity() LockGranularity {
	return GranularityRange
}
