package lcore

import (
	"sync"

	"github.com/usnistgov/parhisto/core/hwinfo"
	"go.uber.org/zap"
)

// Allocator allocates lcores to worker roles.
//
// Unlike a dedicated data plane, a benchmark may request more workers than there are lcores.
// In that case, lcores are shared, and each new allocation goes to the least occupied lcore.
type Allocator struct {
	provider hwinfo.Provider

	orderOnce sync.Once
	order     []int

	mu      sync.Mutex
	holders map[int]int
}

// NewAllocator creates an Allocator.
// Hardware information is not queried until the first allocation.
func NewAllocator(provider hwinfo.Provider) *Allocator {
	return &Allocator{
		provider: provider,
		holders:  map[int]int{},
	}
}

// Order returns lcore IDs in allocation preference order: primary hyperthreads before secondary.
func (la *Allocator) Order() []int {
	la.orderOnce.Do(func() {
		cores := la.provider.Cores()
		la.order = append(cores.ListPrimary(), cores.ListSecondary()...)
	})
	return la.order
}

// NumLCores returns the number of lcores managed by this allocator.
func (la *Allocator) NumLCores() int {
	return len(la.Order())
}

func (la *Allocator) pick() LCore {
	best, bestHolders := -1, 0
	for _, id := range la.Order() {
		if n := la.holders[id]; best < 0 || n < bestHolders {
			best, bestHolders = id, n
		}
	}
	return LCoreFromID(best)
}

func (la *Allocator) allocOne() LCore {
	lc := la.pick()
	if lc.Valid() {
		la.holders[lc.ID()]++
	}
	return lc
}

// AllocN allocates n lcores for a role.
// Returns nil if the provider reports no cores.
func (la *Allocator) AllocN(role string, n int) (list LCores) {
	la.mu.Lock()
	defer la.mu.Unlock()
	for i := 0; i < n; i++ {
		lc := la.allocOne()
		if !lc.Valid() {
			return nil
		}
		list = append(list, lc)
	}
	logger.Info("lcores allocated",
		zap.String("role", role),
		zap.Ints("list", list.IDs()),
		zap.Bool("shared", n > len(la.Order())),
	)
	return list
}

func (la *Allocator) freeOne(lc LCore) {
	if !lc.Valid() || la.holders[lc.ID()] == 0 {
		logger.Panic("lcore double free", lc.ZapField("lc"))
	}
	la.holders[lc.ID()]--
	logger.Debug("lcore freed", lc.ZapField("lc"))
}

// DefaultAllocator is the default instance of Allocator.
var DefaultAllocator = NewAllocator(hwinfo.Default)

// FreeN deallocates several lcores.
func (la *Allocator) FreeN(list LCores) {
	la.mu.Lock()
	defer la.mu.Unlock()
	for _, lc := range list {
		la.freeOne(lc)
	}
}
