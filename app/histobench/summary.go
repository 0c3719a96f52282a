package histobench

import (
	"github.com/usnistgov/parhisto/core/runningstat"
	"gonum.org/v1/gonum/stat"
)

// JobSummary summarizes runs of one job.
type JobSummary struct {
	Job int `json:"job"`
	N   int `json:"n"`
	B   int `json:"b"`
	Performance
	// Time contains statistics of successful run times in milliseconds.
	Time runningstat.Snapshot `json:"-"`
}

// Summary summarizes a benchmark.
type Summary struct {
	Selection Selection    `json:"-"`
	Trials    int          `json:"trials"`
	Failed    int          `json:"failed"`
	Jobs      []JobSummary `json:"jobs"`

	// Speedup is the geometric mean of best speedups if all jobs are selected, or the best speedup
	// of the selected job.
	Speedup float64 `json:"speedup"`

	// Graded indicates Grade is meaningful.
	// A grade is given only if all jobs are selected and none is broken.
	Graded bool    `json:"graded"`
	Grade  float64 `json:"grade"`
}

func (s *Summary) compute() {
	speedups := make([]float64, len(s.Jobs))
	for i, job := range s.Jobs {
		speedups[i] = job.Speedup()
	}
	if len(speedups) > 0 {
		s.Speedup = Geomean(speedups)
	}
	s.Graded = s.Failed == 0 && s.Selection.All() && len(speedups) > 0
	if s.Graded {
		s.Grade = Grade(s.Speedup)
	}
}

// Geomean returns the geometric mean of speedups.
// Any zero speedup makes the result zero.
func Geomean(speedups []float64) float64 {
	for _, x := range speedups {
		if x <= 0 {
			return 0
		}
	}
	return stat.GeometricMean(speedups, nil)
}

func interp(s, l, lgrade, h, hgrade float64) float64 {
	return (s-l)*(hgrade-lgrade)/(h-l) + lgrade
}

// Grade converts a geomean speedup to a grade between 0 and 100.
// Below 1x is 0, 1x to 3x is linear from 0 to 100, 3x and above is 100.
func Grade(speedup float64) float64 {
	switch {
	case speedup < 1:
		return 0
	case speedup < 3:
		return interp(speedup, 1, 0, 3, 100)
	}
	return 100
}
