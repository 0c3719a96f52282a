package histogram_test

import (
	"testing"

	"github.com/usnistgov/parhisto/container/histogram"
	"github.com/usnistgov/parhisto/core/testenv"
)

func TestBucket(t *testing.T) {
	assert, _ := makeAR(t)

	assert.Equal(0, histogram.Bucket(0, 8))
	assert.Equal(3, histogram.Bucket(11, 8))
	assert.Equal(5, histogram.Bucket(-3, 8))
	assert.Equal(0, histogram.Bucket(-8, 8))
	assert.Equal(0, histogram.Bucket(12345, 1))
	assert.Equal(0, histogram.Bucket(-12345, 1))
	assert.Equal(7, histogram.Bucket(2147483647, 8))
	assert.Equal(0, histogram.Bucket(-2147483648, 8))
	assert.Equal(2147483647, histogram.Bucket(-1, 2147483648))

	for _, s := range testenv.EdgeSamples() {
		for _, b := range []int{1, 2, 3, 7, 8, 1000, 16000000} {
			i := histogram.Bucket(s, b)
			assert.GreaterOrEqual(i, 0)
			assert.Less(i, b)
		}
	}
}

func TestHistogram(t *testing.T) {
	assert, _ := makeAR(t)

	h := histogram.New(4)
	assert.Len(h, 4)
	assert.EqualValues(0, h.Sum())

	h[0], h[1], h[3] = 1, 2, 4
	assert.EqualValues(7, h.Sum())

	g := histogram.Histogram{1, 2, 0, 4}
	assert.True(h.Equal(g))
	assert.False(h.Equal(histogram.Histogram{1, 2, 0}))
	assert.False(h.Equal(histogram.Histogram{1, 2, 0, 5}))

	src := histogram.Histogram{10, 20, 30, 40}
	h.AddRange(src, 1, 3)
	assert.Equal(histogram.Histogram{1, 22, 30, 4}, h)

	h.Reset()
	assert.Equal(histogram.Histogram{0, 0, 0, 0}, h)
}

func TestDiff(t *testing.T) {
	assert, _ := makeAR(t)

	want := histogram.Histogram{5, 5, 5, 5, 5, 5, 5, 5}
	got := histogram.Histogram{5, 4, 5, 6, 5, 0, 1, 2}

	list, total := got.Diff(want, 3)
	assert.Equal(5, total)
	assert.Equal([]histogram.Mismatch{
		{Index: 1, Got: 4, Want: 5},
		{Index: 3, Got: 6, Want: 5},
		{Index: 5, Got: 0, Want: 5},
	}, list)
	assert.Equal("[1] got 4 want 5", list[0].String())

	list, total = want.Diff(want, 5)
	assert.Zero(total)
	assert.Empty(list)

	list, total = histogram.Histogram{1}.Diff(histogram.Histogram{1, 2}, 5)
	assert.Equal(1, total)
	assert.Equal([]histogram.Mismatch{{Index: 1, Got: 0, Want: 2}}, list)
}
