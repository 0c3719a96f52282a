package histo

import (
	"github.com/usnistgov/parhisto/container/histogram"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Job is one histogram computation: the input samples and the output histogram.
type Job struct {
	// Samples is the input, shared read-only among workers.
	Samples []int32

	// Histogram is the output; its length is the bucket count B.
	Histogram histogram.Histogram
}

// N returns the number of samples.
func (job Job) N() int {
	return len(job.Samples)
}

// B returns the number of buckets.
func (job Job) B() int {
	return len(job.Histogram)
}

// Descriptor contains the immutable parameters of one worker in one job.
type Descriptor struct {
	Job
	// Worker is the worker index in [0, W).
	Worker int
	// Range is the input range processed by this worker.
	Range Range
}

// Input returns the samples processed by this worker.
func (d Descriptor) Input() []int32 {
	return d.Samples[d.Range.Start:d.Range.End]
}

// MarshalLogObject implements zapcore.ObjectMarshaler interface.
func (d Descriptor) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("worker", d.Worker)
	enc.AddInt("n", d.N())
	enc.AddInt("b", d.B())
	enc.AddString("range", d.Range.String())
	return nil
}

// ZapField returns a zap.Field for logging.
func (d Descriptor) ZapField(key string) zap.Field {
	return zap.Object(key, d)
}

// Describe creates a Descriptor for each of w workers.
func Describe(job Job, w int) (list []Descriptor) {
	list = make([]Descriptor, w)
	for id, r := range Partition(job.N(), w) {
		list[id] = Descriptor{Job: job, Worker: id, Range: r}
	}
	return list
}
