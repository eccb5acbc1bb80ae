package metrics

import (
	"time"
)

type Factory interface {
	NewCounterVec(opts CounterOpts, labelNames []string) Vec[Counter]
	NewGauge(opts GaugeOpts) Gauge
	NewHistogramVec(opts HistogramOpts, labelNames []string) Vec[Histogram]
}

type Histogram interface {
	Observe(float64)
}

type Gauge interface {
	Set(float64)
	Inc()
	Dec()
}

type Vec[T any] interface {
	WithLabelValues(lvs ...string) T
}

type Counter interface {
	Inc()
	Add(float64)
}

type Opts struct {
	Namespace string
	Subsystem string
	Name      string
	Help      string
}

type CounterOpts Opts
type GaugeOpts Opts
type HistogramOpts struct {
	Namespace string
	Subsystem string
	Name      string
	Help      string

	Buckets []float64
}

var (
	enabled bool
)

func Enable() {
	enabled = true
}

// VoidFactory returns metrics factory without any collection.
func VoidFactory() Factory {
	return &noopFactory{}
}

// Since returns the seconds elapsed since start, the unit of every duration histogram.
func Since(start time.Time) float64 {
	return time.Since(start).Seconds()
}
