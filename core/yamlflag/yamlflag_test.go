package yamlflag_test

import (
	"flag"
	"os"
	"testing"

	"github.com/usnistgov/parhisto/core/testenv"
	"github.com/usnistgov/parhisto/core/yamlflag"
)

type sampleConfig struct {
	Trials  int    `json:"trials"`
	Policy  string `json:"policy,omitempty"`
	Workers int    `json:"workers"`
}

func TestFlag(t *testing.T) {
	assert, require := testenv.MakeAR(t)

	var cfg sampleConfig
	flags := flag.NewFlagSet("yamlflag", flag.ContinueOnError)
	flags.Var(yamlflag.New(&cfg), "config", "")

	require.NoError(flags.Parse([]string{"-config", "{trials: 3, policy: local}"}))
	assert.Equal(3, cfg.Trials)
	assert.Equal("local", cfg.Policy)

	filename := testenv.TempName(t, "config.yaml")
	require.NoError(os.WriteFile(filename, []byte("workers: 8\ntrials: 5\n"), 0o644))
	require.NoError(flags.Parse([]string{"-config", "@" + filename}))
	assert.Equal(5, cfg.Trials)
	assert.Equal(8, cfg.Workers)
	assert.Equal("local", cfg.Policy)

	assert.Error(flags.Parse([]string{"-config", "@" + filename + ".missing"}))
	assert.Equal(`{"trials":5,"policy":"local","workers":8}`, flags.Lookup("config").Value.String())

	assert.Panics(func() { yamlflag.New(cfg) })
}
