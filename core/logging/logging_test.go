package logging_test

import (
	"testing"

	"github.com/usnistgov/parhisto/core/logging"
	"github.com/usnistgov/parhisto/core/testenv"
	"go.uber.org/zap/zapcore"
)

func TestPkgLevel(t *testing.T) {
	assert, require := testenv.MakeAR(t)

	t.Setenv(logging.EnvPrefix+"LoggingTestA", "W")
	t.Setenv(logging.EnvDefault, "E")

	logging.New("LoggingTestA")
	logging.New("LoggingTestB")

	plA := logging.FindLevel("LoggingTestA")
	require.NotNil(plA)
	assert.EqualValues('W', plA.Level())
	assert.Equal(zapcore.WarnLevel, plA.ZapLevel())

	plB := logging.FindLevel("LoggingTestB")
	require.NotNil(plB)
	assert.EqualValues('E', plB.Level())

	logging.SetAllLevels("debug")
	assert.EqualValues('W', plA.Level())
	assert.EqualValues('D', plB.Level())
	assert.Equal(zapcore.DebugLevel, plB.ZapLevel())

	plB.SetLevel("bogus")
	assert.EqualValues('I', plB.Level())

	assert.Nil(logging.FindLevel("LoggingTestC"))

	found := 0
	for _, pl := range logging.ListLevels() {
		switch pl.Package() {
		case "LoggingTestA", "LoggingTestB":
			found++
		}
	}
	assert.Equal(2, found)
}
