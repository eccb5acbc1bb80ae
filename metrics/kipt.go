package metrics

import (
	"github.com/NethermindEth/kipt/poller"
)

const namespace = "kipt"

// Operations records script operations and confirmation polling.
type Operations struct {
	total    Vec[Counter]
	duration Vec[Histogram]
	polls    Vec[Counter]
	inFlight Gauge
}

func NewOperations(factory Factory) *Operations {
	return &Operations{
		total: factory.NewCounterVec(CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Script operations by kind and result.",
		}, []string{"kind", "result"}),
		duration: factory.NewHistogramVec(HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Time from dispatch to result, confirmation wait included.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
		}, []string{"kind"}),
		polls: factory.NewCounterVec(CounterOpts{
			Namespace: namespace,
			Name:      "receipt_polls_total",
			Help:      "Receipt queries by resulting state.",
		}, []string{"state"}),
		inFlight: factory.NewGauge(GaugeOpts{
			Namespace: namespace,
			Name:      "operations_in_flight",
			Help:      "Operations currently running on the worker pool.",
		}),
	}
}

func (o *Operations) Started() {
	o.inFlight.Inc()
}

// Done records a finished operation of kind that took seconds.
func (o *Operations) Done(kind string, seconds float64, err error) {
	o.inFlight.Dec()
	result := "success"
	if err != nil {
		result = "failure"
	}
	o.total.WithLabelValues(kind, result).Inc()
	o.duration.WithLabelValues(kind).Observe(seconds)
}

// Observe implements poller.Observer.
func (o *Operations) Observe(state poller.State) {
	o.polls.WithLabelValues(state.String()).Inc()
}

var _ poller.Observer = (*Operations)(nil)
