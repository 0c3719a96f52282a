package histogram

import (
	"fmt"
	"strings"
)

// LockGranularity selects how concurrent increments to a shared histogram are made indivisible.
type LockGranularity int

// LockGranularity values.
const (
	// GranularityAtomic increments each bucket with an atomic add instruction.
	GranularityAtomic LockGranularity = iota
	// GranularityBucket protects each bucket with its own mutex.
	GranularityBucket
	// GranularityRange protects each stripe of contiguous buckets with a mutex.
	GranularityRange
)

var granularityNames = map[LockGranularity]string{
	GranularityAtomic: "atomic",
	GranularityBucket: "bucket",
	GranularityRange:  "range",
}

func (g LockGranularity) String() string {
	if s, ok := granularityNames[g]; ok {
		return s
	}
	return fmt.Sprintf("LockGranularity(%d)", int(g))
}

// ParseLockGranularity parses LockGranularity from its string representation.
func ParseLockGranularity(input string) (g LockGranularity, e error) {
	for g, s := range granularityNames {
		if strings.EqualFold(s, input) {
			return g, nil
		}
	}
	return 0, fmt.Errorf("unknown lock granularity %q", input)
}

// MarshalText implements encoding.TextMarshaler interface.
func (g LockGranularity) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler interface.
func (g *LockGranularity) UnmarshalText(text []byte) (e error) {
	*g, e = ParseLockGranularity(string(text))
	return e
}
