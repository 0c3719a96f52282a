package histobench

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/rickb777/plural"
	"github.com/usnistgov/parhisto/app/histo"
)

var (
	failedCount = plural.FromOne("%d benchmark FAILED", "%d benchmarks FAILED")
	runCount    = plural.FromOne("%d run", "%d runs")
)

// Report renders benchmark rows as a table.
type Report struct {
	tbl  *tablewriter.Table
	bad  func(a ...any) string
	good func(a ...any) string
}

// NewReport creates a Report that writes to w.
func NewReport(w io.Writer) *Report {
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"Trial", "T#", "Kernel", "Elements", "Buckets", "Policy", "Time(ms)", "CPE", "Speedup", "Status"})
	tbl.SetAutoFormatHeaders(false)
	tbl.SetAlignment(tablewriter.ALIGN_RIGHT)
	tbl.SetBorder(true)
	return &Report{
		tbl:  tbl,
		bad:  color.New(color.FgRed, color.Bold).SprintFunc(),
		good: color.New(color.FgGreen).SprintFunc(),
	}
}

// Add appends a row.
func (rp *Report) Add(row Row) {
	cells := []string{
		strconv.Itoa(row.Trial),
		strconv.Itoa(row.Job),
		"Histo",
		strconv.Itoa(row.N),
		strconv.Itoa(row.B),
	}
	if row.Broken {
		cells = append(cells, "-", "-", "-", "-", rp.bad("BROKEN"))
	} else {
		policy := row.Result.Policy.String()
		if row.Result.Policy == histo.PolicyShared {
			policy += "/" + row.Result.Granularity.String()
		}
		cells = append(cells,
			policy,
			fmt.Sprintf("%.1f", row.Msec),
			fmt.Sprintf("%.3f", row.CPE),
			fmt.Sprintf("%.1f", row.Speedup),
			rp.good("OK"),
		)
	}
	rp.tbl.Append(cells)
}

// Render writes the table.
func (rp *Report) Render() {
	rp.tbl.Render()
}

// WriteJobTimes writes run time statistics of each job, skipping jobs without a successful run.
func WriteJobTimes(w io.Writer, s Summary) {
	for _, js := range s.Jobs {
		t := js.Time
		if t.Len == 0 {
			continue
		}
		fmt.Fprintf(w, "Test Case %d time over %s: mean %.1f ms", js.Job, runCount.FormatInt(int(t.Len)), t.Mean)
		if t.Len > 1 {
			fmt.Fprintf(w, ", stdev %.1f ms", t.Stdev)
		}
		if t.Min != nil {
			fmt.Fprintf(w, ", min %.1f ms", *t.Min)
		}
		fmt.Fprintln(w)
	}
}

// WriteSummary writes per-job time statistics and the summary lines.
func WriteSummary(w io.Writer, s Summary) {
	WriteJobTimes(w, s)

	if s.Failed > 0 {
		fmt.Fprintln(w, failedCount.FormatInt(s.Failed))
		fmt.Fprintln(w, "No grade given, because of incorrect execution.")
		return
	}

	if !s.Selection.All() {
		fmt.Fprintf(w, "Test Case %d Speedup: %0.2f\n", s.Selection.Job, s.Speedup)
		fmt.Fprintln(w, "No grade given, because only one test is run.")
		fmt.Fprintln(w, " ... To see your grade, run all tests with \"-i a\" (or just no params)")
		return
	}

	fmt.Fprintf(w, "Geomean Speedup: %0.2f\n", s.Speedup)
	if s.Graded {
		fmt.Fprintf(w, "Grade: %0.1f\n", s.Grade)
	}
}
