package histobench

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/usnistgov/parhisto/app/histo"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/multierr"
)

// DefaultGHz is the nominal clock frequency used to convert elapsed time to cycles.
const DefaultGHz = 2.0

//go:embed config.schema.json
var schemaJSON []byte

var schemaLoader = gojsonschema.NewBytesLoader(schemaJSON)

// Config contains benchmark configuration.
type Config struct {
	histo.Config

	// Trials is the number of times every selected job is run.
	Trials int `json:"trials,omitempty"`

	// Input selects jobs, see ParseInput.
	Input string `json:"input,omitempty"`

	// Seed initializes the random source of sample generation.
	// Default is derived from current time. Zero is a valid seed.
	Seed *int64 `json:"seed,omitempty"`

	// NoCheck disables comparison against the reference histogram.
	NoCheck bool `json:"noCheck,omitempty"`

	// GHz is the nominal clock frequency in CPE computation.
	GHz float64 `json:"ghz,omitempty"`

	// ExpectedHost is the hostname whose baselines are meaningful.
	// If set, running elsewhere outside grading mode prints a warning.
	ExpectedHost string `json:"expectedHost,omitempty"`

	// Jobs lists job shapes and baselines.
	// Default is Job1 and Job2.
	Jobs []JobSpec `json:"jobs,omitempty"`
}

// ApplyDefaults sets default values for omitted fields.
func (cfg *Config) ApplyDefaults() {
	if cfg.Trials == 0 {
		cfg.Trials = 1
	}
	if cfg.Input == "" {
		cfg.Input = "a"
	}
	if cfg.Seed == nil {
		seed := time.Now().UnixNano()
		cfg.Seed = &seed
	}
	if cfg.GHz == 0 {
		cfg.GHz = DefaultGHz
	}
	if len(cfg.Jobs) == 0 {
		cfg.Jobs = DefaultJobs()
	}
}

// SchemaError indicates the configuration failed JSON schema validation.
type SchemaError struct {
	*gojsonschema.Result
}

func (e SchemaError) Error() string {
	var b strings.Builder
	fmt.Fprint(&b, "configuration failed schema validation")
	for _, desc := range e.Result.Errors() {
		fmt.Fprint(&b, "; ", desc)
	}
	return b.String()
}

// Validate applies defaults and validates the configuration.
func (cfg *Config) Validate() error {
	cfg.ApplyDefaults()

	doc, e := json.Marshal(cfg)
	if e != nil {
		return e
	}
	result, e := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(doc))
	if e != nil {
		return fmt.Errorf("schema validator: %w", e)
	}
	if !result.Valid() {
		return SchemaError{result}
	}

	errs := []error{cfg.Config.Validate()}
	if sel, e := ParseInput(cfg.Input); e != nil {
		errs = append(errs, e)
	} else if sel.Job > len(cfg.Jobs) {
		errs = append(errs, fmt.Errorf("job %d does not exist, expecting 1 to %d", sel.Job, len(cfg.Jobs)))
	}
	return multierr.Combine(errs...)
}

// Selection indicates which jobs are run.
type Selection struct {
	// Job is the 1-based job number, or zero to run all jobs.
	Job int
	// Grading indicates all jobs are run in grading mode.
	Grading bool
}

// All determines whether all jobs are selected.
func (sel Selection) All() bool {
	return sel.Job == 0
}

func (sel Selection) String() string {
	switch {
	case sel.Grading:
		return "g"
	case sel.All():
		return "a"
	}
	return strconv.Itoa(sel.Job)
}

// Indices returns 0-based indices of selected jobs among nJobs.
func (sel Selection) Indices(nJobs int) (list []int) {
	if !sel.All() {
		return []int{sel.Job - 1}
	}
	for i := 0; i < nJobs; i++ {
		list = append(list, i)
	}
	return list
}

// ParseInput parses a job selection.
// "a" or empty selects all jobs; "g" selects all jobs in grading mode; a positive integer selects one job.
func ParseInput(input string) (sel Selection, e error) {
	switch input {
	case "", "a":
		return sel, nil
	case "g":
		sel.Grading = true
		return sel, nil
	}

	if sel.Job, e = strconv.Atoi(input); e != nil || sel.Job < 1 {
		return Selection{}, fmt.Errorf("invalid input %q, expecting a, g, or job number", input)
	}
	return sel, nil
}
