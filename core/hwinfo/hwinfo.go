// Package hwinfo gathers hardware information.
package hwinfo

import (
	"sort"

	"github.com/c2h5oh/datasize"
	"github.com/usnistgov/parhisto/core/logging"
	"github.com/zyedidia/generic"
)

var logger = logging.New("hwinfo")

// DefaultCacheSize is assumed when the last-level cache size cannot be determined.
const DefaultCacheSize = 8 * datasize.MB

// CoreInfo describes a logical CPU core.
type CoreInfo struct {
	ID          int `json:"id"`
	NumaSocket  int `json:"numaSocket"`
	PhysicalKey int `json:"physicalKey"`
}

// Cores contains information about CPU cores.
type Cores []CoreInfo

// IDs returns logical core IDs.
func (cores Cores) IDs() (list []int) {
	for _, core := range cores {
		list = append(list, core.ID)
	}
	return list
}

// MaxNumaSocket determines the maximum NUMA socket.
func (cores Cores) MaxNumaSocket() int {
	maxSocket := -1
	for _, core := range cores {
		maxSocket = generic.Max(maxSocket, core.NumaSocket)
	}
	return maxSocket
}

// ListPrimary returns a list of logical cores that are the first logical core in each physical core.
func (cores Cores) ListPrimary() []int {
	return cores.listHyperThread(false)
}

// ListSecondary returns a list of logical cores that are not in ListPrimary().
func (cores Cores) ListSecondary() []int {
	return cores.listHyperThread(true)
}

func (cores Cores) listHyperThread(secondary bool) (list []int) {
	sorted := append(Cores{}, cores...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	ht := map[[2]int]bool{}
	for _, core := range sorted {
		key := [2]int{core.NumaSocket, core.PhysicalKey}
		if ht[key] == secondary {
			list = append(list, core.ID)
		}
		ht[key] = true
	}
	return list
}

// Provider provides information about hardware.
type Provider interface {
	// Cores provides information about CPU cores available to this process.
	Cores() Cores

	// CacheSize returns the last-level cache size.
	CacheSize() datasize.ByteSize
}

// Static is a Provider with fixed information.
type Static struct {
	CoreList Cores
	Cache    datasize.ByteSize
}

var _ Provider = Static{}

// Cores implements Provider interface.
func (p Static) Cores() Cores {
	return p.CoreList
}

// CacheSize implements Provider interface.
// Zero Cache is reported as DefaultCacheSize.
func (p Static) CacheSize() datasize.ByteSize {
	if p.Cache == 0 {
		return DefaultCacheSize
	}
	return p.Cache
}

// Uniform creates a Static provider with n cores on a single NUMA socket, without hyperthreads.
func Uniform(n int, cache datasize.ByteSize) Static {
	p := Static{Cache: cache}
	for i := 0; i < n; i++ {
		p.CoreList = append(p.CoreList, CoreInfo{ID: i, PhysicalKey: i})
	}
	return p
}

// Default is the default Provider implementation.
var Default Provider = &procinfoProvider{}
