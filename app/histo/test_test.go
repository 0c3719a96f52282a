package histo_test

import (
	"testing"

	"github.com/c2h5oh/datasize"
	"github.com/usnistgov/parhisto/app/histo"
	"github.com/usnistgov/parhisto/core/hwinfo"
	"github.com/usnistgov/parhisto/core/lcore"
	"github.com/usnistgov/parhisto/core/testenv"
)

var makeAR = testenv.MakeAR

var testHwInfo = hwinfo.Uniform(4, 8*datasize.MB)

func newEngine(t testing.TB, cfg histo.Config) *histo.Engine {
	_, require := makeAR(t)
	cfg.HwInfo = testHwInfo
	cfg.Allocator = lcore.NewAllocator(testHwInfo)
	eng, e := histo.New(cfg)
	require.NoError(e)
	t.Cleanup(func() { eng.Close() })
	return eng
}
