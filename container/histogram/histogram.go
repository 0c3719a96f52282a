// Package histogram provides bucket counters for integer samples.
package histogram

import (
	"fmt"
)

// Histogram is an ordered sequence of bucket counters.
type Histogram []uint32

// New creates a zeroed Histogram with nBuckets buckets.
func New(nBuckets int) Histogram {
	return make(Histogram, nBuckets)
}

// Bucket returns the bucket index of a sample.
// The result is the non-negative remainder of sample divided by nBuckets, so that negative
// samples also map into [0, nBuckets).
func Bucket(sample int32, nBuckets int) int {
	r := int(sample) % nBuckets
	if r < 0 {
		r += nBuckets
	}
	return r
}

// Reset zeroes every bucket.
func (h Histogram) Reset() {
	for i := range h {
		h[i] = 0
	}
}

// Sum returns the total count over all buckets.
func (h Histogram) Sum() (sum uint64) {
	for _, c := range h {
		sum += uint64(c)
	}
	return sum
}

// AddRange adds src[lo:hi] into h[lo:hi].
func (h Histogram) AddRange(src Histogram, lo, hi int) {
	dst, src := h[lo:hi], src[lo:hi]
	for i, c := range src {
		dst[i] += c
	}
}

// Equal determines whether two histograms have the same length and identical counts.
func (h Histogram) Equal(o Histogram) bool {
	if len(h) != len(o) {
		return false
	}
	for i, c := range h {
		if o[i] != c {
			return false
		}
	}
	return true
}

// Mismatch describes a bucket whose count differs from the expected count.
type Mismatch struct {
	Index int    `json:"index"`
	Got   uint32 `json:"got"`
	Want  uint32 `json:"want"`
}

func (m Mismatch) String() string {
	return fmt.Sprintf("[%d] got %d want %d", m.Index, m.Got, m.Want)
}

// Diff compares h against want.
// It returns up to limit mismatches in bucket order, and the total number of mismatching buckets.
// If lengths differ, buckets beyond the shorter histogram are compared against zero.
func (h Histogram) Diff(want Histogram, limit int) (list []Mismatch, total int) {
	n := len(h)
	if len(want) > n {
		n = len(want)
	}
	for i := 0; i < n; i++ {
		var got, exp uint32
		if i < len(h) {
			got = h[i]
		}
		if i < len(want) {
			exp = want[i]
		}
		if got == exp {
			continue
		}
		total++
		if len(list) < limit {
			list = append(list, Mismatch{Index: i, Got: got, Want: exp})
		}
	}
	return list, total
}
