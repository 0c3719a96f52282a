package lcore_test

import (
	"errors"
	"testing"

	"github.com/usnistgov/parhisto/core/hwinfo"
	"github.com/usnistgov/parhisto/core/lcore"
	"go.uber.org/multierr"
)

func TestGroup(t *testing.T) {
	assert, require := makeAR(t)

	la := lcore.NewAllocator(hwinfo.Uniform(2, 0))
	g, e := lcore.NewGroup(lcore.GroupConfig{
		Workers:   8,
		Role:      "TEST",
		Allocator: la,
	})
	require.NoError(e)
	defer g.Close()
	assert.Equal(8, g.Len())
	assert.Equal([]int{0, 1, 0, 1, 0, 1, 0, 1}, g.LCores().IDs())
	lcs := g.LCores()

	for round := 0; round < 3; round++ {
		visited := make([]int, g.Len())
		require.NoError(g.Run(func(id int) error {
			visited[id] += id + 1
			return nil
		}))
		assert.Equal([]int{1, 2, 3, 4, 5, 6, 7, 8}, visited)
		assert.Greater(g.Elapsed().Nanoseconds(), int64(0))
	}

	require.NoError(g.Close())
	assert.Panics(func() { la.FreeN(lcs) })
	assert.Equal([]int{0, 1}, la.AllocN("AFTER", 2).IDs())
	assert.NoError(g.Close())
}

func TestGroupErrors(t *testing.T) {
	assert, require := makeAR(t)

	la := lcore.NewAllocator(hwinfo.Uniform(4, 0))
	g, e := lcore.NewGroup(lcore.GroupConfig{Workers: 4, Allocator: la})
	require.NoError(e)
	defer g.Close()

	errOdd := errors.New("odd")
	e = g.Run(func(id int) error {
		if id%2 == 1 {
			return errOdd
		}
		return nil
	})
	assert.ErrorIs(e, errOdd)
	assert.Len(multierr.Errors(e), 2)

	_, e = lcore.NewGroup(lcore.GroupConfig{Workers: 0, Allocator: la})
	assert.Error(e)
}
