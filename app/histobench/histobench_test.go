package histobench_test

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/usnistgov/parhisto/app/histo"
	"github.com/usnistgov/parhisto/app/histobench"
	"github.com/usnistgov/parhisto/container/histogram"
	"github.com/usnistgov/parhisto/core/hwinfo"
	"github.com/usnistgov/parhisto/core/lcore"
	"github.com/usnistgov/parhisto/core/testenv"
)

var makeAR = testenv.MakeAR

var smallJobs = []histobench.JobSpec{
	{N: 20000, B: 8, OrigMsec: 200},
	{N: 5000, B: 100000, OrigMsec: 400},
}

func makeConfig() (cfg histobench.Config) {
	hw := hwinfo.Uniform(2, 8*datasize.MB)
	cfg.HwInfo = hw
	cfg.Allocator = lcore.NewAllocator(hw)
	cfg.Jobs = smallJobs
	return cfg
}

func TestParseInput(t *testing.T) {
	assert, _ := makeAR(t)

	sel, e := histobench.ParseInput("a")
	assert.NoError(e)
	assert.True(sel.All())
	assert.False(sel.Grading)
	assert.Equal([]int{0, 1}, sel.Indices(2))

	sel, e = histobench.ParseInput("g")
	assert.NoError(e)
	assert.True(sel.All())
	assert.True(sel.Grading)
	assert.Equal("g", sel.String())

	sel, e = histobench.ParseInput("2")
	assert.NoError(e)
	assert.False(sel.All())
	assert.Equal([]int{1}, sel.Indices(2))
	assert.Equal("2", sel.String())

	_, e = histobench.ParseInput("0")
	assert.Error(e)
	_, e = histobench.ParseInput("x")
	assert.Error(e)
}

func TestConfig(t *testing.T) {
	assert, require := makeAR(t)

	var cfg histobench.Config
	cfg.HwInfo = hwinfo.Uniform(2, 0)
	require.NoError(cfg.Validate())
	assert.Equal(1, cfg.Trials)
	assert.Equal("a", cfg.Input)
	assert.NotNil(cfg.Seed)
	assert.Equal(histobench.DefaultGHz, cfg.GHz)
	assert.Equal([]histobench.JobSpec{histobench.Job1, histobench.Job2}, cfg.Jobs)
	assert.Equal(histo.DefaultWorkers, cfg.Workers)

	cfg = makeConfig()
	cfg.Trials = -1
	var schemaErr histobench.SchemaError
	assert.True(errors.As(cfg.Validate(), &schemaErr))

	cfg = makeConfig()
	cfg.Policy = histo.Policy(9)
	assert.True(errors.As(cfg.Validate(), &schemaErr))

	cfg = makeConfig()
	cfg.Jobs = []histobench.JobSpec{{N: 10, B: 0, OrigMsec: 1}}
	assert.True(errors.As(cfg.Validate(), &schemaErr))

	cfg = makeConfig()
	cfg.Input = "3"
	assert.Error(cfg.Validate())

	cfg = makeConfig()
	cfg.Workers, cfg.Partials = 4, 4
	assert.Error(cfg.Validate())
}

func TestConfigSeedZero(t *testing.T) {
	assert, require := makeAR(t)

	var cfg histobench.Config
	testenv.FromJSON(`{"seed": 0}`, &cfg)
	require.NotNil(cfg.Seed)
	cfg.HwInfo = hwinfo.Uniform(2, 0)
	require.NoError(cfg.Validate())
	assert.EqualValues(0, *cfg.Seed)
	assert.Contains(testenv.ToJSON(cfg), `"seed":0`)

	samples := func() []int32 {
		cfg := makeConfig()
		var zero int64
		cfg.Seed = &zero
		cfg.Input = "1"
		r, e := histobench.NewRunner(cfg)
		require.NoError(e)
		defer r.Close()
		assert.EqualValues(0, *r.Config().Seed)
		return histobench.Generate(rand.New(rand.NewSource(*r.Config().Seed)), 100)
	}
	assert.Equal(samples(), samples())
}

func TestConfigJSON(t *testing.T) {
	assert, require := makeAR(t)

	var cfg histobench.Config
	testenv.FromJSON(`{
		"trials": 3,
		"input": "g",
		"policy": "partial",
		"granularity": "range",
		"partials": 2,
		"cacheBudget": "16MB",
		"jobs": [{"n": 100, "b": 10, "origMsec": 5}]
	}`, &cfg)
	assert.Nil(cfg.Seed)
	assert.Equal(3, cfg.Trials)
	assert.Equal(histo.PolicyPartial, cfg.Policy)
	assert.Equal(histogram.GranularityRange, cfg.Granularity)
	assert.Equal(16*datasize.MB, cfg.CacheBudget)

	cfg.HwInfo = hwinfo.Uniform(2, 0)
	require.NoError(cfg.Validate())
	sel, _ := histobench.ParseInput(cfg.Input)
	assert.True(sel.Grading)
	assert.Contains(testenv.ToJSON(cfg), `"policy":"partial"`)
}

func TestPerformance(t *testing.T) {
	assert, _ := makeAR(t)

	p := histobench.NewPerformance(200)
	assert.Zero(p.Speedup())

	msec, cpe, speedup := p.Update(100*time.Millisecond, 100000000, 2.0)
	assert.InDelta(100.0, msec, 1e-9)
	assert.InDelta(2.0, cpe, 1e-9)
	assert.InDelta(2.0, speedup, 1e-9)

	_, _, speedup = p.Update(400*time.Millisecond, 100000000, 2.0)
	assert.InDelta(0.5, speedup, 1e-9)
	assert.InDelta(100.0, p.BestMsec, 1e-9)
	assert.InDelta(2.0, p.Speedup(), 1e-9)
}

func TestGrade(t *testing.T) {
	assert, _ := makeAR(t)

	assert.Equal(0.0, histobench.Grade(0.5))
	assert.InDelta(0.0, histobench.Grade(1), 1e-9)
	assert.InDelta(50.0, histobench.Grade(2), 1e-9)
	assert.InDelta(100.0, histobench.Grade(3), 1e-9)
	assert.Equal(100.0, histobench.Grade(7))

	assert.InDelta(4.0, histobench.Geomean([]float64{2, 8}), 1e-9)
	assert.Zero(histobench.Geomean([]float64{2, 0}))
}

func TestRunner(t *testing.T) {
	assert, require := makeAR(t)

	cfg := makeConfig()
	cfg.Trials = 2
	r, e := histobench.NewRunner(cfg)
	require.NoError(e)
	defer r.Close()

	var buf bytes.Buffer
	report := histobench.NewReport(&buf)
	var rows []histobench.Row
	sub := r.OnTrial(func(row histobench.Row) {
		rows = append(rows, row)
		report.Add(row)
	})
	r.Run()
	sub.Close()

	require.Len(rows, 4)
	for i, row := range rows {
		assert.False(row.Broken, "%d %v", i, row.Err)
		assert.Equal(i/2+1, row.Trial)
		assert.Equal(i%2+1, row.Job)
		assert.Greater(row.Msec, 0.0)
	}
	assert.Equal(histo.PolicyLocal, rows[0].Result.Policy)
	assert.Equal(histo.PolicyShared, rows[1].Result.Policy)
	assert.Zero(r.Failed())

	s := r.Summary()
	assert.Equal(2, s.Trials)
	require.Len(s.Jobs, 2)
	assert.EqualValues(2, s.Jobs[0].Time.Len)
	assert.Equal(20000, s.Jobs[0].N)
	assert.True(s.Graded)
	assert.Greater(s.Speedup, 0.0)

	report.Render()
	histobench.WriteSummary(&buf, s)
	assert.Contains(buf.String(), "Histo")
	assert.Contains(buf.String(), "Test Case 1 time over 2 runs: mean ")
	assert.Contains(buf.String(), "Test Case 2 time over 2 runs: mean ")
	assert.Contains(buf.String(), " ms, stdev ")
	assert.Contains(buf.String(), " ms, min ")
	assert.Contains(buf.String(), "Geomean Speedup:")
	assert.Contains(buf.String(), "Grade:")
}

func TestRunnerSingle(t *testing.T) {
	assert, require := makeAR(t)

	cfg := makeConfig()
	cfg.Input = "2"
	r, e := histobench.NewRunner(cfg)
	require.NoError(e)
	defer r.Close()

	n := 0
	r.OnTrial(func(row histobench.Row) {
		assert.Equal(2, row.Job)
		n++
	})
	r.Run()
	assert.Equal(1, n)

	s := r.Summary()
	assert.False(s.Graded)
	require.Len(s.Jobs, 1)

	var buf bytes.Buffer
	histobench.WriteSummary(&buf, s)
	assert.Contains(buf.String(), "Test Case 2 time over 1 run: mean ")
	assert.NotContains(buf.String(), "stdev")
	assert.Contains(buf.String(), "Test Case 2 Speedup:")
	assert.Contains(buf.String(), "No grade given")
}

func TestRunnerBroken(t *testing.T) {
	assert, require := makeAR(t)

	cfg := makeConfig()
	cfg.Trials = 2
	cfg.Policy = histo.PolicyLocal
	cfg.MemoryLimit = datasize.KB
	cfg.Jobs = []histobench.JobSpec{{N: 1000, B: 1000, OrigMsec: 1}}
	r, e := histobench.NewRunner(cfg)
	require.NoError(e)
	defer r.Close()

	r.OnTrial(func(row histobench.Row) {
		assert.True(row.Broken)
		assert.ErrorIs(row.Err, histo.ErrMemoryLimit)
	})
	r.Run()
	assert.Equal(2, r.Failed())

	s := r.Summary()
	assert.False(s.Graded)

	var buf bytes.Buffer
	histobench.WriteSummary(&buf, s)
	assert.Contains(buf.String(), "2 benchmarks FAILED")
	assert.NotContains(buf.String(), "time over")
	assert.NotContains(buf.String(), "Grade:")
}
