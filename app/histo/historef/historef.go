// Package historef provides a single-threaded reference histogram builder.
package historef

import (
	"fmt"
	"strings"

	"github.com/usnistgov/parhisto/container/histogram"
)

// MaxReportedMismatches is the maximum number of mismatches described in a CheckError.
const MaxReportedMismatches = 5

// Build counts samples into a new histogram of nBuckets buckets.
func Build(samples []int32, nBuckets int) histogram.Histogram {
	h := histogram.New(nBuckets)
	for _, s := range samples {
		h[histogram.Bucket(s, nBuckets)]++
	}
	return h
}

// CheckError indicates a histogram differs from the reference.
type CheckError struct {
	// Mismatches contains the first few mismatching buckets.
	Mismatches []histogram.Mismatch
	// Total is the number of mismatching buckets.
	Total int
}

func (e CheckError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d bucket(s) differ from reference", e.Total)
	for i, m := range e.Mismatches {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString(", ")
		}
		b.WriteString(m.String())
	}
	if e.Total > len(e.Mismatches) {
		b.WriteString(", and more")
	}
	return b.String()
}

// Check compares got against the reference want bucket by bucket.
// It returns CheckError if they differ.
func Check(got, want histogram.Histogram) error {
	list, total := got.Diff(want, MaxReportedMismatches)
	if total == 0 {
		return nil
	}
	return CheckError{Mismatches: list, Total: total}
}
