package histo

import (
	"fmt"
)

// Range is a half-open index range [Start, End).
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of indices in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// PartitionOf returns the range assigned to worker id when n items are split among w workers.
// Every worker receives floor(n/w) items starting at id*floor(n/w); the last worker also receives
// the remainder.
func PartitionOf(n, w, id int) (r Range) {
	step := n / w
	r.Start = id * step
	if id == w-1 {
		r.End = n
	} else {
		r.End = r.Start + step
	}
	return r
}

// Partition splits n items among w workers.
// The returned ranges are contiguous and cover [0, n) exactly once.
func Partition(n, w int) (list []Range) {
	list = make([]Range, w)
	for id := range list {
		list[id] = PartitionOf(n, w, id)
	}
	return list
}
