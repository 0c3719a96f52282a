package histo

import (
	"github.com/usnistgov/parhisto/container/histogram"
)

// CountLocal counts the worker's input into a private histogram without synchronization.
// h must not be written by any other worker.
func CountLocal(d Descriptor, h histogram.Histogram) {
	b := d.B()
	for _, s := range d.Input() {
		h[histogram.Bucket(s, b)]++
	}
}

// CountShared counts the worker's input through shared counters.
func CountShared(d Descriptor, c histogram.Counters) {
	b := d.B()
	// Concrete cases let the compiler devirtualize and inline Inc in the loop.
	switch c := c.(type) {
	case histogram.AtomicCounters:
		for _, s := range d.Input() {
			c.Inc(histogram.Bucket(s, b))
		}
	case *histogram.BucketLockCounters:
		for _, s := range d.Input() {
			c.Inc(histogram.Bucket(s, b))
		}
	case *histogram.RangeLockCounters:
		for _, s := range d.Input() {
			c.Inc(histogram.Bucket(s, b))
		}
	default:
		for _, s := range d.Input() {
			c.Inc(histogram.Bucket(s, b))
		}
	}
}
