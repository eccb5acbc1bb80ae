package metrics

type noopFactory struct{}

func (d *noopFactory) NewCounterVec(opts CounterOpts, labelNames []string) Vec[Counter] {
	return noopCounter{}
}

func (d *noopFactory) NewGauge(opts GaugeOpts) Gauge {
	return noopGauge{}
}

func (d *noopFactory) NewHistogramVec(opts HistogramOpts, labelNames []string) Vec[Histogram] {
	return noopHistogram{}
}

type noopCounter struct{}

func (c noopCounter) Inc()                                  {}
func (c noopCounter) Add(float64)                           {}
func (c noopCounter) WithLabelValues(lvs ...string) Counter { return c }

type noopGauge struct{}

func (g noopGauge) Set(float64) {}
func (g noopGauge) Inc()        {}
func (g noopGauge) Dec()        {}

type noopHistogram struct{}

func (h noopHistogram) Observe(float64)                          {}
func (h noopHistogram) WithLabelValues(lvs ...string) Histogram { return h }
