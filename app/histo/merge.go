package histo

import (
	"fmt"

	"github.com/usnistgov/parhisto/container/histogram"
)

// Dispatcher starts a fixed number of concurrent units and joins them.
// All memory writes performed by units are visible to the caller after Run returns.
// *lcore.Group implements this interface.
type Dispatcher interface {
	Len() int
	Run(fn func(id int) error) error
}

// Merge sets every dst[b] to the sum of privates[i][b].
// Buckets are split among the workers of d, each summing a contiguous bucket range.
func Merge(dst histogram.Histogram, privates []histogram.Histogram, d Dispatcher) error {
	for i, p := range privates {
		if len(p) != len(dst) {
			return fmt.Errorf("private histogram %d has %d buckets, expecting %d", i, len(p), len(dst))
		}
	}

	w := d.Len()
	return d.Run(func(id int) error {
		r := PartitionOf(len(dst), w, id)
		MergeRange(dst, privates, r)
		return nil
	})
}

// MergeRange sets dst[b] to the sum of privates[i][b] for every b in r.
func MergeRange(dst histogram.Histogram, privates []histogram.Histogram, r Range) {
	if len(privates) == 0 {
		dst[r.Start:r.End].Reset()
		return
	}
	copy(dst[r.Start:r.End], privates[0][r.Start:r.End])
	for _, p := range privates[1:] {
		dst.AddRange(p, r.Start, r.End)
	}
}
