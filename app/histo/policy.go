package histo

import (
	"fmt"
	"strings"

	"github.com/c2h5oh/datasize"
	"github.com/zyedidia/generic"
)

// BucketSize is the memory size of one bucket counter.
const BucketSize = 4

// Policy selects how workers write into the output histogram.
type Policy int

// Policy values.
const (
	// PolicyAuto selects a policy per job with ChoosePolicy.
	PolicyAuto Policy = iota
	// PolicyLocal counts into a private histogram per worker without synchronization, then merges.
	PolicyLocal
	// PolicyShared counts into the output histogram through synchronized increments.
	PolicyShared
	// PolicyPartial counts into a few shared partial histograms with atomic increments, then merges.
	PolicyPartial
)

var policyNames = map[Policy]string{
	PolicyAuto:    "auto",
	PolicyLocal:   "local",
	PolicyShared:  "shared",
	PolicyPartial: "partial",
}

func (p Policy) String() string {
	if s, ok := policyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy parses Policy from its string representation.
func ParsePolicy(input string) (p Policy, e error) {
	for p, s := range policyNames {
		if strings.EqualFold(s, input) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown policy %q", input)
}

// MarshalText implements encoding.TextMarshaler interface.
func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler interface.
func (p *Policy) UnmarshalText(text []byte) (e error) {
	*p, e = ParsePolicy(string(text))
	return e
}

// HistogramBytes returns the memory size of count histograms of nBuckets buckets.
func HistogramBytes(count, nBuckets int) datasize.ByteSize {
	return datasize.ByteSize(uint64(count) * uint64(nBuckets) * BucketSize)
}

// PartialCount returns how many partial histograms fit in the cache budget, between 1 and w-1.
func PartialCount(b, w int, budget datasize.ByteSize) int {
	fit := int(budget.Bytes() / HistogramBytes(1, b).Bytes())
	return generic.Clamp(fit, 1, generic.Max(1, w-1))
}

// ChoosePolicy selects a policy for a job of n samples and b buckets processed by w workers.
//
// Private histograms are preferred when w copies fit in the cache budget and merging them costs
// no more than counting. Partial histograms are chosen when at least two copies fit in the budget.
// Otherwise, all workers share the output histogram.
func ChoosePolicy(n, b, w int, budget datasize.ByteSize) Policy {
	if HistogramBytes(w, b) <= budget && uint64(w)*uint64(b) <= uint64(n) {
		return PolicyLocal
	}
	if w > 2 && HistogramBytes(2, b) <= budget {
		if nPartials := PartialCount(b, w, budget); uint64(nPartials)*uint64(b) <= uint64(n) {
			return PolicyPartial
		}
	}
	return PolicyShared
}
