package hwinfo

import (
	"fmt"
	"math/big"
	"runtime"
	"sync"

	procinfo "github.com/c9s/goprocinfo/linux"
	"github.com/c2h5oh/datasize"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

const (
	pathCPUInfo       = "/proc/cpuinfo"
	pathProcessStatus = "/proc/self/status"
	pathSystemNode    = "/sys/devices/system/node"
	maxPhysicalCore   = 4096
	maxNumaNode       = 32
)

type procinfoProvider struct {
	once  sync.Once
	cores Cores
	cache datasize.ByteSize
}

func (p *procinfoProvider) Cores() Cores {
	p.once.Do(p.load)
	return p.cores
}

func (p *procinfoProvider) CacheSize() datasize.ByteSize {
	p.once.Do(p.load)
	return p.cache
}

func (p *procinfoProvider) load() {
	if e := p.read(); e != nil {
		fallback := Uniform(runtime.NumCPU(), DefaultCacheSize)
		logger.Warn("cannot read CPU information, assuming uniform topology",
			zap.Error(e),
			zap.Int("cores", len(fallback.CoreList)),
		)
		p.cores, p.cache = fallback.CoreList, fallback.Cache
	}
	logger.Debug("hardware information",
		zap.Ints("cores", p.cores.IDs()),
		zap.Stringer("cache", p.cache),
	)
}

func (p *procinfoProvider) read() error {
	status, e := procinfo.ReadProcessStatus(pathProcessStatus)
	if e != nil {
		return fmt.Errorf("%s: %w", pathProcessStatus, e)
	}
	allowed := &big.Int{}
	for _, word := range status.CpusAllowed {
		allowed.Lsh(allowed, 32)
		allowed.Add(allowed, big.NewInt(int64(word)))
	}

	cpuInfo, e := procinfo.ReadCPUInfo(pathCPUInfo)
	if e != nil {
		return fmt.Errorf("%s: %w", pathCPUInfo, e)
	}

	var cores Cores
	var cacheKB int64
	for _, processor := range cpuInfo.Processors {
		if allowed.Bit(int(processor.Id)) == 0 || processor.CoreId >= maxPhysicalCore {
			continue
		}
		cores = append(cores, CoreInfo{
			ID:          int(processor.Id),
			NumaSocket:  p.findNumaSocket(processor),
			PhysicalKey: maxPhysicalCore*int(processor.PhysicalId) + int(processor.CoreId),
		})
		if processor.CacheSize > cacheKB {
			cacheKB = processor.CacheSize
		}
	}
	if len(cores) == 0 {
		return fmt.Errorf("%s: no allowed processor", pathCPUInfo)
	}

	p.cores = cores
	p.cache = datasize.ByteSize(cacheKB) * datasize.KB
	if p.cache == 0 {
		p.cache = DefaultCacheSize
	}
	return nil
}

func (p *procinfoProvider) findNumaSocket(processor procinfo.Processor) int {
	for i := 0; i < maxNumaNode; i++ {
		path := fmt.Sprintf("%s/node%d/cpu%d", pathSystemNode, i, processor.Id)
		if unix.Access(path, unix.F_OK) == nil {
			return i
		}
	}
	return 0
}
