package histo_test

import (
	"testing"

	"github.com/usnistgov/parhisto/app/histo"
	"github.com/usnistgov/parhisto/container/histogram"
	"github.com/usnistgov/parhisto/core/lcore"
	"github.com/usnistgov/parhisto/core/testenv"
)

func TestMerge(t *testing.T) {
	assert, require := makeAR(t)
	rng, _ := testenv.NewRand()

	group, e := lcore.NewGroup(lcore.GroupConfig{Workers: 3, Allocator: lcore.NewAllocator(testHwInfo)})
	require.NoError(e)
	defer group.Close()

	const nBuckets = 1001
	privates := make([]histogram.Histogram, 5)
	var total uint64
	for i := range privates {
		privates[i] = histogram.New(nBuckets)
		for b := range privates[i] {
			privates[i][b] = uint32(rng.Intn(1000))
		}
		total += privates[i].Sum()
	}

	dst := histogram.New(nBuckets)
	dst[0] = 9999
	require.NoError(histo.Merge(dst, privates, group))
	for b := range dst {
		var sum uint32
		for _, p := range privates {
			sum += p[b]
		}
		assert.Equal(sum, dst[b], "b=%d", b)
	}
	assert.Equal(total, dst.Sum())

	require.NoError(histo.Merge(dst, nil, group))
	assert.Zero(dst.Sum())

	assert.Error(histo.Merge(dst, []histogram.Histogram{histogram.New(nBuckets - 1)}, group))
}

func TestMergeRange(t *testing.T) {
	assert, _ := makeAR(t)

	dst := histogram.Histogram{9, 9, 9, 9}
	privates := []histogram.Histogram{{1, 2, 3, 4}, {10, 20, 30, 40}}
	histo.MergeRange(dst, privates, histo.Range{Start: 1, End: 3})
	assert.Equal(histogram.Histogram{9, 22, 33, 9}, dst)
}
