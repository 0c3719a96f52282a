package histo_test

import (
	"testing"

	"github.com/usnistgov/parhisto/app/histo"
)

func TestPartition(t *testing.T) {
	assert, _ := makeAR(t)

	assert.Equal([]histo.Range{{0, 3}, {3, 6}, {6, 10}}, histo.Partition(10, 3))
	assert.Equal([]histo.Range{{0, 0}, {0, 0}, {0, 2}}, histo.Partition(2, 3))
	assert.Equal([]histo.Range{{0, 0}}, histo.Partition(0, 1))
	assert.Equal(histo.Range{87500000, 100000000}, histo.PartitionOf(100000000, 8, 7))
	assert.Equal("[3,6)", histo.Range{3, 6}.String())

	for _, n := range []int{0, 1, 7, 8, 9, 15, 16, 17, 1000, 99991} {
		for _, w := range []int{1, 2, 3, 7, 8, 16} {
			covered := make([]int, n)
			next := 0
			for id, r := range histo.Partition(n, w) {
				assert.Equal(next, r.Start, "n=%d w=%d id=%d", n, w, id)
				assert.Equal(id*(n/w), r.Start)
				assert.GreaterOrEqual(r.Len(), 0)
				for i := r.Start; i < r.End; i++ {
					covered[i]++
				}
				next = r.End
			}
			assert.Equal(n, next)
			for i, c := range covered {
				if c != 1 {
					assert.Fail("index not covered exactly once", "n=%d w=%d i=%d c=%d", n, w, i, c)
				}
			}
		}
	}
}
