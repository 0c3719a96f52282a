package histogram

import (
	"unsafe"
)

const bucketsPerLine = CacheLineSize / int(unsafe.Sizeof(uint32(0)))

// NewPadded creates count zeroed histograms of nBuckets buckets each, carved from one allocation.
// Every histogram starts on a cache line boundary, and no two histograms share a cache line.
func NewPadded(count, nBuckets int) (list []Histogram) {
	if count <= 0 {
		return nil
	}
	stride := (nBuckets + bucketsPerLine - 1) / bucketsPerLine * bucketsPerLine
	backing := make([]uint32, stride*count+bucketsPerLine)

	skip := 0
	if off := int(uintptr(unsafe.Pointer(&backing[0])) % CacheLineSize); off != 0 {
		skip = (CacheLineSize - off) / int(unsafe.Sizeof(uint32(0)))
	}

	list = make([]Histogram, count)
	for i := range list {
		start := skip + i*stride
		list[i] = Histogram(backing[start : start+nBuckets : start+nBuckets])
	}
	return list
}
